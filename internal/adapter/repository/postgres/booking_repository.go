package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/srgjo27/enterprise_booking/internal/core/domain"
	"github.com/srgjo27/enterprise_booking/internal/core/ports"
)

const bookingColumns = `id, product_id, requester_id, quantity, status, pickup_code, created_at, updated_at`

type rowScanner interface {
	Scan(dest ...any) error
}

type BookingRepository struct {
	db *sql.DB
}

func NewBookingRepository(db *sql.DB) *BookingRepository {
	return &BookingRepository{db: db}
}

func (r *BookingRepository) CreateBooking(ctx context.Context, booking *domain.Booking) error {
	query := `
	INSERT INTO bookings (id, product_id, requester_id, quantity, status, created_at, updated_at)
	VALUES ($1, $2, $3, $4, $5, $6, $7)
	`

	_, err := r.db.ExecContext(ctx, query,
		booking.ID, booking.ProductID, booking.RequesterID, booking.Quantity,
		booking.Status, booking.CreatedAt, booking.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to insert booking: %w", err)
	}

	return nil
}

func (r *BookingRepository) GetByID(ctx context.Context, bookingID uuid.UUID) (*domain.Booking, error) {
	query := `SELECT ` + bookingColumns + ` FROM bookings WHERE id = $1`

	booking, err := scanBooking(r.db.QueryRowContext(ctx, query, bookingID))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrBookingNotFound
	}

	if err != nil {
		return nil, err
	}

	return booking, nil
}

// UpdateStatus only succeeds while the stored status still equals from.
func (r *BookingRepository) UpdateStatus(ctx context.Context, bookingID uuid.UUID, from, to domain.BookingStatus, updatedAt time.Time) (*domain.Booking, error) {
	query := `
	UPDATE bookings
	SET status = $1, updated_at = $2
	WHERE id = $3 AND status = $4
	RETURNING ` + bookingColumns

	booking, err := scanBooking(r.db.QueryRowContext(ctx, query, to, updatedAt, bookingID, from))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, r.missOrConflict(ctx, bookingID)
	}

	if err != nil {
		return nil, fmt.Errorf("failed to update booking status: %w", err)
	}

	return booking, nil
}

func (r *BookingRepository) UpdateQuantity(ctx context.Context, bookingID uuid.UUID, quantity int, updatedAt time.Time) (*domain.Booking, error) {
	query := `
	UPDATE bookings
	SET quantity = $1, updated_at = $2
	WHERE id = $3 AND status = 'pending'
	RETURNING ` + bookingColumns

	booking, err := scanBooking(r.db.QueryRowContext(ctx, query, quantity, updatedAt, bookingID))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, r.missOrConflict(ctx, bookingID)
	}

	if err != nil {
		return nil, fmt.Errorf("failed to update booking quantity: %w", err)
	}

	return booking, nil
}

// SetPickupCode is write-once: a booking that already carries a code keeps it.
func (r *BookingRepository) SetPickupCode(ctx context.Context, bookingID uuid.UUID, code string) error {
	query := `
	UPDATE bookings
	SET pickup_code = $1
	WHERE id = $2 AND pickup_code IS NULL
	`

	if _, err := r.db.ExecContext(ctx, query, code, bookingID); err != nil {
		return fmt.Errorf("failed to set pickup code: %w", err)
	}

	return nil
}

// ListUpdatedSince is keyset paginated on (updated_at, id) so a caller can
// walk the whole window batch by batch.
func (r *BookingRepository) ListUpdatedSince(ctx context.Context, since time.Time, afterID uuid.UUID, limit int) ([]domain.Booking, error) {
	query := `
	SELECT ` + bookingColumns + `
	FROM bookings
	WHERE (updated_at, id) > ($1::timestamptz, $2::uuid)
	ORDER BY updated_at ASC, id ASC
	LIMIT $3
	`

	rows, err := r.db.QueryContext(ctx, query, since, afterID, limit)
	if err != nil {
		return nil, err
	}

	defer rows.Close()

	var bookings []domain.Booking
	for rows.Next() {
		b, err := scanBooking(rows)
		if err != nil {
			return nil, err
		}

		bookings = append(bookings, *b)
	}

	return bookings, rows.Err()
}

func (r *BookingRepository) missOrConflict(ctx context.Context, bookingID uuid.UUID) error {
	var exists bool
	err := r.db.QueryRowContext(ctx, `SELECT EXISTS (SELECT 1 FROM bookings WHERE id = $1)`, bookingID).Scan(&exists)
	if err != nil {
		return err
	}

	if !exists {
		return domain.ErrBookingNotFound
	}

	return ports.ErrStatusConflict
}

func scanBooking(row rowScanner) (*domain.Booking, error) {
	var b domain.Booking
	var pickupCode sql.NullString

	err := row.Scan(
		&b.ID,
		&b.ProductID,
		&b.RequesterID,
		&b.Quantity,
		&b.Status,
		&pickupCode,
		&b.CreatedAt,
		&b.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	if pickupCode.Valid && pickupCode.String != "" {
		code := pickupCode.String
		b.PickupCode = &code
	}

	return &b, nil
}
