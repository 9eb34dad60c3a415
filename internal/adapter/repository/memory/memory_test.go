package memory

import (
	"context"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/srgjo27/enterprise_booking/internal/core/domain"
	"github.com/srgjo27/enterprise_booking/internal/core/ports"
)

var epoch = time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)

func TestBookingRepository_UpdateStatusIsCompareAndSet(t *testing.T) {
	ctx := context.Background()
	repo := NewBookingRepository()

	b := &domain.Booking{ID: uuid.New(), Quantity: 1, Status: domain.BookingPending, CreatedAt: epoch, UpdatedAt: epoch}
	require.NoError(t, repo.CreateBooking(ctx, b))

	at := epoch.Add(time.Minute)
	updated, err := repo.UpdateStatus(ctx, b.ID, domain.BookingPending, domain.BookingConfirmed, at)
	require.NoError(t, err)
	assert.Equal(t, domain.BookingConfirmed, updated.Status)
	assert.Equal(t, at, updated.UpdatedAt)

	_, err = repo.UpdateStatus(ctx, b.ID, domain.BookingPending, domain.BookingCancelled, at)
	assert.ErrorIs(t, err, ports.ErrStatusConflict)

	_, err = repo.UpdateStatus(ctx, uuid.New(), domain.BookingPending, domain.BookingConfirmed, at)
	assert.ErrorIs(t, err, domain.ErrBookingNotFound)
}

func TestBookingRepository_SetPickupCodeKeepsFirst(t *testing.T) {
	ctx := context.Background()
	repo := NewBookingRepository()

	b := &domain.Booking{ID: uuid.New(), Quantity: 1, Status: domain.BookingConfirmed}
	require.NoError(t, repo.CreateBooking(ctx, b))

	require.NoError(t, repo.SetPickupCode(ctx, b.ID, "FIRST234"))
	require.NoError(t, repo.SetPickupCode(ctx, b.ID, "SECOND23"))

	stored, err := repo.GetByID(ctx, b.ID)
	require.NoError(t, err)
	assert.Equal(t, "FIRST234", *stored.PickupCode)
}

func TestBookingRepository_UpdateQuantityOnlyWhilePending(t *testing.T) {
	ctx := context.Background()
	repo := NewBookingRepository()

	b := &domain.Booking{ID: uuid.New(), Quantity: 1, Status: domain.BookingCompleted}
	require.NoError(t, repo.CreateBooking(ctx, b))

	_, err := repo.UpdateQuantity(ctx, b.ID, 3, epoch)
	assert.ErrorIs(t, err, ports.ErrStatusConflict)
}

func TestBookingRepository_ListUpdatedSince(t *testing.T) {
	ctx := context.Background()
	repo := NewBookingRepository()

	old := &domain.Booking{ID: uuid.New(), Status: domain.BookingPending, UpdatedAt: epoch.Add(-time.Hour)}
	fresh := &domain.Booking{ID: uuid.New(), Status: domain.BookingPending, UpdatedAt: epoch.Add(time.Minute)}
	fresher := &domain.Booking{ID: uuid.New(), Status: domain.BookingPending, UpdatedAt: epoch.Add(2 * time.Minute)}
	for _, b := range []*domain.Booking{fresher, old, fresh} {
		require.NoError(t, repo.CreateBooking(ctx, b))
	}

	got, err := repo.ListUpdatedSince(ctx, epoch, uuid.Nil, 10)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, fresh.ID, got[0].ID)
	assert.Equal(t, fresher.ID, got[1].ID)

	got, err = repo.ListUpdatedSince(ctx, epoch, uuid.Nil, 1)
	require.NoError(t, err)
	require.Len(t, got, 1)

	got, err = repo.ListUpdatedSince(ctx, got[0].UpdatedAt, got[0].ID, 1)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, fresher.ID, got[0].ID)
}

func TestBookingRepository_ListUpdatedSincePagesThroughTies(t *testing.T) {
	ctx := context.Background()
	repo := NewBookingRepository()

	want := make(map[uuid.UUID]bool)
	for i := 0; i < 7; i++ {
		b := &domain.Booking{ID: uuid.New(), Status: domain.BookingPending, UpdatedAt: epoch}
		require.NoError(t, repo.CreateBooking(ctx, b))
		want[b.ID] = true
	}

	seen := make(map[uuid.UUID]bool)
	since, after := epoch.Add(-time.Second), uuid.Nil
	for {
		page, err := repo.ListUpdatedSince(ctx, since, after, 3)
		require.NoError(t, err)

		for _, b := range page {
			assert.False(t, seen[b.ID], "booking returned twice")
			seen[b.ID] = true
		}

		if len(page) < 3 {
			break
		}
		since, after = page[len(page)-1].UpdatedAt, page[len(page)-1].ID
	}

	assert.Equal(t, want, seen)
}

func TestPickupCodeRepository_ConcurrentInsertConverges(t *testing.T) {
	ctx := context.Background()
	repo := NewPickupCodeRepository()
	bookingID := uuid.New()

	const workers = 16
	results := make([]*domain.PickupCode, workers)
	created := make([]bool, workers)

	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			code := &domain.PickupCode{BookingID: bookingID, Code: uuid.NewString()[:8], IssuedAt: epoch}
			stored, ok, err := repo.InsertIfAbsent(ctx, code)
			if err == nil {
				results[i], created[i] = stored, ok
			}
		}(i)
	}
	wg.Wait()

	winners := 0
	for i := range results {
		require.NotNil(t, results[i])
		assert.Equal(t, results[0].Code, results[i].Code)
		if created[i] {
			winners++
		}
	}

	assert.Equal(t, 1, winners)
	assert.Equal(t, 1, repo.Count())
}

func TestPickupCodeRepository_CodeCollision(t *testing.T) {
	ctx := context.Background()
	repo := NewPickupCodeRepository()

	_, _, err := repo.InsertIfAbsent(ctx, &domain.PickupCode{BookingID: uuid.New(), Code: "SAME2345"})
	require.NoError(t, err)

	_, _, err = repo.InsertIfAbsent(ctx, &domain.PickupCode{BookingID: uuid.New(), Code: "SAME2345"})
	assert.ErrorIs(t, err, ports.ErrCodeCollision)
}

func TestNotificationRepository_DeletedTupleStaysOccupied(t *testing.T) {
	ctx := context.Background()
	repo := NewNotificationRepository()

	recipient, booking := uuid.New(), uuid.New()
	kind := domain.KindOf(domain.RoleRequester, domain.EventCreated)

	first := &domain.Notification{ID: uuid.New(), RecipientID: recipient, BookingID: booking, Kind: kind, CreatedAt: epoch}
	created, err := repo.InsertIfAbsent(ctx, first)
	require.NoError(t, err)
	require.True(t, created)

	require.NoError(t, repo.Delete(ctx, recipient, first.ID, epoch))

	again := &domain.Notification{ID: uuid.New(), RecipientID: recipient, BookingID: booking, Kind: kind, CreatedAt: epoch}
	created, err = repo.InsertIfAbsent(ctx, again)
	require.NoError(t, err)
	assert.False(t, created)

	items, err := repo.ListByRecipient(ctx, recipient, false)
	require.NoError(t, err)
	assert.Empty(t, items)
	assert.Len(t, repo.ForBooking(booking), 1)
}

func TestNotificationRepository_MutationsAreScopedToRecipient(t *testing.T) {
	ctx := context.Background()
	repo := NewNotificationRepository()

	owner := uuid.New()
	n := &domain.Notification{ID: uuid.New(), RecipientID: owner, BookingID: uuid.New(), Kind: "staff/created", CreatedAt: epoch}
	_, err := repo.InsertIfAbsent(ctx, n)
	require.NoError(t, err)

	assert.ErrorIs(t, repo.MarkRead(ctx, uuid.New(), n.ID), domain.ErrNotificationNotFound)
	require.NoError(t, repo.MarkRead(ctx, owner, n.ID))

	unread, err := repo.ListByRecipient(ctx, owner, true)
	require.NoError(t, err)
	assert.Empty(t, unread)
}

func TestReferenceRepository(t *testing.T) {
	ctx := context.Background()
	repo := NewReferenceRepository()

	p := domain.Product{ID: uuid.New(), Name: "Tote bag"}
	repo.PutProduct(p)
	staff := uuid.New()
	repo.SetStaff(staff)

	got, err := repo.GetProduct(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, "Tote bag", got.Name)

	_, err = repo.GetProduct(ctx, uuid.New())
	assert.ErrorIs(t, err, domain.ErrProductNotFound)

	ids, err := repo.ListStaff(ctx)
	require.NoError(t, err)
	assert.Equal(t, []uuid.UUID{staff}, ids)
}

func TestLoadReferenceFixture(t *testing.T) {
	ctx := context.Background()
	productID, enterpriseID, ownerID, staffID := uuid.New(), uuid.New(), uuid.New(), uuid.New()

	path := filepath.Join(t.TempDir(), "reference.yaml")
	body := "staff:\n" +
		"  - " + staffID.String() + "\n" +
		"products:\n" +
		"  - id: " + productID.String() + "\n" +
		"    name: Tote bag\n" +
		"    enterprise:\n" +
		"      id: " + enterpriseID.String() + "\n" +
		"      name: Canvas Co\n" +
		"      owner_id: " + ownerID.String() + "\n"
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))

	repo, err := LoadReferenceFixture(path)
	require.NoError(t, err)

	p, err := repo.GetProduct(ctx, productID)
	require.NoError(t, err)
	assert.Equal(t, "Tote bag", p.Name)
	assert.True(t, p.IsOwnedBy(ownerID))
	assert.Equal(t, enterpriseID, p.Enterprise.ID)

	staff, err := repo.ListStaff(ctx)
	require.NoError(t, err)
	assert.Equal(t, []uuid.UUID{staffID}, staff)
}

func TestLoadReferenceFixture_Errors(t *testing.T) {
	dir := t.TempDir()

	_, err := LoadReferenceFixture(filepath.Join(dir, "absent.yaml"))
	assert.Error(t, err)

	missingID := filepath.Join(dir, "missing-id.json")
	require.NoError(t, os.WriteFile(missingID, []byte(`{"products": [{"name": "no id"}]}`), 0o600))
	_, err = LoadReferenceFixture(missingID)
	assert.Error(t, err)

	badUUID := filepath.Join(dir, "bad-uuid.yaml")
	require.NoError(t, os.WriteFile(badUUID, []byte("staff:\n  - not-a-uuid\n"), 0o600))
	_, err = LoadReferenceFixture(badUUID)
	assert.Error(t, err)
}
