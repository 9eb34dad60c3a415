// Package memory holds process-local implementations of the repository
// ports. Check-and-insert runs under one mutex, which gives the same
// insert-if-absent atomicity the Postgres unique constraints give.
package memory

import (
	"bytes"
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/srgjo27/enterprise_booking/internal/core/domain"
	"github.com/srgjo27/enterprise_booking/internal/core/ports"
)

type BookingRepository struct {
	mu       sync.RWMutex
	bookings map[uuid.UUID]domain.Booking
}

func NewBookingRepository() *BookingRepository {
	return &BookingRepository{bookings: make(map[uuid.UUID]domain.Booking)}
}

func (r *BookingRepository) CreateBooking(ctx context.Context, booking *domain.Booking) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.bookings[booking.ID] = cloneBooking(*booking)
	return nil
}

func (r *BookingRepository) GetByID(ctx context.Context, bookingID uuid.UUID) (*domain.Booking, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	b, ok := r.bookings[bookingID]
	if !ok {
		return nil, domain.ErrBookingNotFound
	}

	out := cloneBooking(b)
	return &out, nil
}

func (r *BookingRepository) UpdateStatus(ctx context.Context, bookingID uuid.UUID, from, to domain.BookingStatus, updatedAt time.Time) (*domain.Booking, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	b, ok := r.bookings[bookingID]
	if !ok {
		return nil, domain.ErrBookingNotFound
	}

	if b.Status != from {
		return nil, ports.ErrStatusConflict
	}

	b.Status = to
	b.UpdatedAt = updatedAt
	r.bookings[bookingID] = b

	out := cloneBooking(b)
	return &out, nil
}

func (r *BookingRepository) UpdateQuantity(ctx context.Context, bookingID uuid.UUID, quantity int, updatedAt time.Time) (*domain.Booking, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	b, ok := r.bookings[bookingID]
	if !ok {
		return nil, domain.ErrBookingNotFound
	}

	if b.Status != domain.BookingPending {
		return nil, ports.ErrStatusConflict
	}

	b.Quantity = quantity
	b.UpdatedAt = updatedAt
	r.bookings[bookingID] = b

	out := cloneBooking(b)
	return &out, nil
}

func (r *BookingRepository) SetPickupCode(ctx context.Context, bookingID uuid.UUID, code string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	b, ok := r.bookings[bookingID]
	if !ok {
		return domain.ErrBookingNotFound
	}

	if b.HasPickupCode() {
		return nil
	}

	b.PickupCode = &code
	r.bookings[bookingID] = b
	return nil
}

func (r *BookingRepository) ListUpdatedSince(ctx context.Context, since time.Time, afterID uuid.UUID, limit int) ([]domain.Booking, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var out []domain.Booking
	for _, b := range r.bookings {
		if cursorLess(since, afterID, b.UpdatedAt, b.ID) {
			out = append(out, cloneBooking(b))
		}
	}

	sort.Slice(out, func(i, j int) bool {
		return cursorLess(out[i].UpdatedAt, out[i].ID, out[j].UpdatedAt, out[j].ID)
	})

	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}

	return out, nil
}

// cursorLess orders (updated_at, id) pairs the way Postgres compares rows.
func cursorLess(at time.Time, id uuid.UUID, otherAt time.Time, otherID uuid.UUID) bool {
	if !at.Equal(otherAt) {
		return at.Before(otherAt)
	}
	return bytes.Compare(id[:], otherID[:]) < 0
}

func cloneBooking(b domain.Booking) domain.Booking {
	if b.PickupCode != nil {
		code := *b.PickupCode
		b.PickupCode = &code
	}
	return b
}
