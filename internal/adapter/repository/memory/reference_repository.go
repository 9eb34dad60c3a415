package memory

import (
	"context"
	"sync"

	"github.com/google/uuid"

	"github.com/srgjo27/enterprise_booking/internal/core/domain"
)

// ReferenceRepository is seeded reference data: products with their
// enterprises, and the staff roster.
type ReferenceRepository struct {
	mu       sync.RWMutex
	products map[uuid.UUID]domain.Product
	staff    []uuid.UUID
}

func NewReferenceRepository() *ReferenceRepository {
	return &ReferenceRepository{products: make(map[uuid.UUID]domain.Product)}
}

func (r *ReferenceRepository) PutProduct(p domain.Product) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.products[p.ID] = p
}

func (r *ReferenceRepository) SetStaff(ids ...uuid.UUID) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.staff = append([]uuid.UUID(nil), ids...)
}

func (r *ReferenceRepository) GetProduct(ctx context.Context, productID uuid.UUID) (*domain.Product, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	p, ok := r.products[productID]
	if !ok {
		return nil, domain.ErrProductNotFound
	}

	return &p, nil
}

func (r *ReferenceRepository) ListStaff(ctx context.Context) ([]uuid.UUID, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return append([]uuid.UUID(nil), r.staff...), nil
}
