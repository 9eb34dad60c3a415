package services_test

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/require"

	"github.com/srgjo27/enterprise_booking/internal/adapter/repository/memory"
	"github.com/srgjo27/enterprise_booking/internal/core/domain"
	"github.com/srgjo27/enterprise_booking/internal/core/services"
	"github.com/srgjo27/enterprise_booking/internal/platform/clock"
	"github.com/srgjo27/enterprise_booking/internal/platform/metrics"
)

var epoch = time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)

type recordingNotifier struct {
	mu      sync.Mutex
	notices []domain.StatusNotice
	err     error
}

func (n *recordingNotifier) NotifyStatusChange(ctx context.Context, notice domain.StatusNotice) error {
	n.mu.Lock()
	defer n.mu.Unlock()

	n.notices = append(n.notices, notice)
	return n.err
}

func (n *recordingNotifier) count() int {
	n.mu.Lock()
	defer n.mu.Unlock()
	return len(n.notices)
}

type harness struct {
	clock    *clock.FakeClock
	bookings *memory.BookingRepository
	codes    *memory.PickupCodeRepository
	notifs   *memory.NotificationRepository
	refs     *memory.ReferenceRepository
	notifier *recordingNotifier
	metrics  *metrics.Metrics

	reactor       *services.Reactor
	bookingSvc    *services.BookingService
	notifications *services.NotificationService

	product   domain.Product
	owner     uuid.UUID
	staff     []uuid.UUID
	requester uuid.UUID
}

type harnessOption func(*harness)

func withoutOwner() harnessOption {
	return func(h *harness) { h.product.Enterprise.OwnerID = nil }
}

func withStaff(n int) harnessOption {
	return func(h *harness) {
		h.staff = nil
		for i := 0; i < n; i++ {
			h.staff = append(h.staff, uuid.New())
		}
	}
}

func newHarness(t *testing.T, opts ...harnessOption) *harness {
	t.Helper()

	h := &harness{
		clock:     clock.Fake(epoch),
		notifier:  &recordingNotifier{},
		metrics:   metrics.New(prometheus.NewRegistry()),
		owner:     uuid.New(),
		requester: uuid.New(),
	}
	h.product = domain.Product{
		ID:         uuid.New(),
		Name:       "Tote bag",
		Enterprise: domain.Enterprise{ID: uuid.New(), Name: "Canvas Co", OwnerID: &h.owner},
	}
	withStaff(2)(h)

	for _, opt := range opts {
		opt(h)
	}

	logger := slog.New(slog.DiscardHandler)

	h.bookings = memory.NewBookingRepository()
	h.codes = memory.NewPickupCodeRepository()
	h.notifs = memory.NewNotificationRepository()
	h.refs = memory.NewReferenceRepository()
	h.refs.PutProduct(h.product)
	h.refs.SetStaff(h.staff...)

	issuer := services.NewCodeIssuer(h.codes, time.Hour, h.metrics, logger, services.WithIssuerClock(h.clock))
	resolver := services.NewRecipientResolver(h.refs, logger)
	dedup := services.NewDeduplicator(h.notifs, h.clock, h.metrics)

	h.reactor = services.NewReactor(h.bookings, h.codes, issuer, resolver, dedup, h.notifier, h.clock, h.metrics, logger)
	h.bookingSvc = services.NewBookingService(h.bookings, h.codes, h.refs, h.reactor, h.clock, time.Second, logger)
	h.notifications = services.NewNotificationService(h.notifs, h.clock)

	return h
}

func (h *harness) student() domain.Actor {
	return domain.Actor{UserID: h.requester, Role: domain.UserStudent}
}

func (h *harness) staffActor() domain.Actor {
	return domain.Actor{UserID: h.staff[0], Role: domain.UserStaff}
}

func (h *harness) ownerActor() domain.Actor {
	return domain.Actor{UserID: h.owner, Role: domain.UserStudent}
}

// seedBooking stores a booking directly, bypassing the service and the
// reactor.
func (h *harness) seedBooking(t *testing.T, status domain.BookingStatus) *domain.Booking {
	t.Helper()

	b := &domain.Booking{
		ID:          uuid.New(),
		ProductID:   h.product.ID,
		RequesterID: h.requester,
		Quantity:    2,
		Status:      status,
		CreatedAt:   h.clock.Now(),
		UpdatedAt:   h.clock.Now(),
	}
	require.NoError(t, h.bookings.CreateBooking(context.Background(), b))

	return b
}

func (h *harness) kinds(bookingID uuid.UUID) map[domain.NotificationKind]int {
	out := make(map[domain.NotificationKind]int)
	for _, n := range h.notifs.ForBooking(bookingID) {
		out[n.Kind]++
	}
	return out
}

func (h *harness) notificationFor(bookingID, recipientID uuid.UUID, kind domain.NotificationKind) (domain.Notification, bool) {
	for _, n := range h.notifs.ForBooking(bookingID) {
		if n.RecipientID == recipientID && n.Kind == kind {
			return n, true
		}
	}
	return domain.Notification{}, false
}

var errBoom = errors.New("boom")
