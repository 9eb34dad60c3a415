package memory

import (
	"context"
	"sync"

	"github.com/google/uuid"

	"github.com/srgjo27/enterprise_booking/internal/core/domain"
	"github.com/srgjo27/enterprise_booking/internal/core/ports"
)

type PickupCodeRepository struct {
	mu        sync.Mutex
	byBooking map[uuid.UUID]domain.PickupCode
	byCode    map[string]uuid.UUID
}

func NewPickupCodeRepository() *PickupCodeRepository {
	return &PickupCodeRepository{
		byBooking: make(map[uuid.UUID]domain.PickupCode),
		byCode:    make(map[string]uuid.UUID),
	}
}

func (r *PickupCodeRepository) InsertIfAbsent(ctx context.Context, code *domain.PickupCode) (*domain.PickupCode, bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if existing, ok := r.byBooking[code.BookingID]; ok {
		return &existing, false, nil
	}

	if _, taken := r.byCode[code.Code]; taken {
		return nil, false, ports.ErrCodeCollision
	}

	stored := *code
	r.byBooking[code.BookingID] = stored
	r.byCode[code.Code] = code.BookingID

	return &stored, true, nil
}

func (r *PickupCodeRepository) GetByBookingID(ctx context.Context, bookingID uuid.UUID) (*domain.PickupCode, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	code, ok := r.byBooking[bookingID]
	if !ok {
		return nil, domain.ErrPickupCodeNotFound
	}

	return &code, nil
}

// Count returns the number of stored codes.
func (r *PickupCodeRepository) Count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.byBooking)
}
