package postgres

import (
	"context"
	"database/sql"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/srgjo27/enterprise_booking/internal/core/domain"
	"github.com/srgjo27/enterprise_booking/internal/core/ports"
)

var pickupRowColumns = []string{"booking_id", "code", "issued_at", "expires_at"}

func candidateCode(bookingID uuid.UUID, code string) *domain.PickupCode {
	now := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	return &domain.PickupCode{BookingID: bookingID, Code: code, IssuedAt: now, ExpiresAt: now.Add(24 * time.Hour)}
}

func TestPickupCodeRepository_InsertIfAbsent_Created(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewPickupCodeRepository(db)

	c := candidateCode(uuid.New(), "ABCD2345")
	mock.ExpectQuery(regexp.QuoteMeta(`ON CONFLICT DO NOTHING`)).
		WithArgs(c.BookingID, c.Code, c.IssuedAt, c.ExpiresAt).
		WillReturnRows(sqlmock.NewRows(pickupRowColumns).AddRow(c.BookingID.String(), c.Code, c.IssuedAt, c.ExpiresAt))

	stored, created, err := repo.InsertIfAbsent(context.Background(), c)

	require.NoError(t, err)
	assert.True(t, created)
	assert.Equal(t, "ABCD2345", stored.Code)
}

func TestPickupCodeRepository_InsertIfAbsent_ReturnsExisting(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewPickupCodeRepository(db)

	c := candidateCode(uuid.New(), "NEWCODE2")
	mock.ExpectQuery(regexp.QuoteMeta(`ON CONFLICT DO NOTHING`)).
		WillReturnRows(sqlmock.NewRows(pickupRowColumns))
	mock.ExpectQuery(regexp.QuoteMeta(`FROM pickup_codes`)).
		WithArgs(c.BookingID).
		WillReturnRows(sqlmock.NewRows(pickupRowColumns).AddRow(c.BookingID.String(), "OLDCODE2", c.IssuedAt, c.ExpiresAt))

	stored, created, err := repo.InsertIfAbsent(context.Background(), c)

	require.NoError(t, err)
	assert.False(t, created)
	assert.Equal(t, "OLDCODE2", stored.Code)
}

func TestPickupCodeRepository_InsertIfAbsent_CodeCollision(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewPickupCodeRepository(db)

	c := candidateCode(uuid.New(), "TAKEN234")
	mock.ExpectQuery(regexp.QuoteMeta(`ON CONFLICT DO NOTHING`)).
		WillReturnError(&pq.Error{Code: "23505"})
	mock.ExpectQuery(regexp.QuoteMeta(`FROM pickup_codes`)).
		WithArgs(c.BookingID).
		WillReturnError(sql.ErrNoRows)

	_, _, err := repo.InsertIfAbsent(context.Background(), c)

	assert.ErrorIs(t, err, ports.ErrCodeCollision)
}
