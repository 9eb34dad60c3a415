package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/srgjo27/enterprise_booking/internal/core/domain"
	"github.com/srgjo27/enterprise_booking/internal/core/ports"
)

type PickupCodeRepository struct {
	db *sql.DB
}

func NewPickupCodeRepository(db *sql.DB) *PickupCodeRepository {
	return &PickupCodeRepository{db: db}
}

// InsertIfAbsent relies on the booking_id primary key: the first writer
// wins and every other caller reads the winner's row back.
func (r *PickupCodeRepository) InsertIfAbsent(ctx context.Context, code *domain.PickupCode) (*domain.PickupCode, bool, error) {
	query := `
	INSERT INTO pickup_codes (booking_id, code, issued_at, expires_at)
	VALUES ($1, $2, $3, $4)
	ON CONFLICT DO NOTHING
	RETURNING booking_id, code, issued_at, expires_at
	`

	stored, err := scanPickupCode(r.db.QueryRowContext(ctx, query, code.BookingID, code.Code, code.IssuedAt, code.ExpiresAt))
	if err == nil {
		return stored, true, nil
	}

	if !errors.Is(err, sql.ErrNoRows) && !isUniqueViolation(err) {
		return nil, false, fmt.Errorf("failed to insert pickup code: %w", err)
	}

	existing, err := r.GetByBookingID(ctx, code.BookingID)
	if errors.Is(err, domain.ErrPickupCodeNotFound) {
		// The conflict was on the code value, not on the booking.
		return nil, false, ports.ErrCodeCollision
	}

	if err != nil {
		return nil, false, err
	}

	return existing, false, nil
}

func (r *PickupCodeRepository) GetByBookingID(ctx context.Context, bookingID uuid.UUID) (*domain.PickupCode, error) {
	query := `
	SELECT booking_id, code, issued_at, expires_at
	FROM pickup_codes
	WHERE booking_id = $1
	`

	code, err := scanPickupCode(r.db.QueryRowContext(ctx, query, bookingID))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrPickupCodeNotFound
	}

	if err != nil {
		return nil, err
	}

	return code, nil
}

func scanPickupCode(row rowScanner) (*domain.PickupCode, error) {
	var c domain.PickupCode
	if err := row.Scan(&c.BookingID, &c.Code, &c.IssuedAt, &c.ExpiresAt); err != nil {
		return nil, err
	}

	return &c, nil
}
