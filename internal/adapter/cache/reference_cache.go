package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/srgjo27/enterprise_booking/internal/core/domain"
	"github.com/srgjo27/enterprise_booking/internal/core/ports"
)

const (
	DefaultTTL = 30 * time.Second

	staffKey = "ref:staff"
)

func productKey(id uuid.UUID) string {
	return fmt.Sprintf("ref:product:%s", id.String())
}

type cachedProduct struct {
	ID             uuid.UUID  `json:"id"`
	Name           string     `json:"name"`
	EnterpriseID   uuid.UUID  `json:"enterprise_id"`
	EnterpriseName string     `json:"enterprise_name"`
	OwnerID        *uuid.UUID `json:"owner_id,omitempty"`
}

// ReferenceRepository is a read-through Redis cache in front of another
// ReferenceRepository. Redis failures fall through to the source.
type ReferenceRepository struct {
	source ports.ReferenceRepository
	rdb    *redis.Client
	ttl    time.Duration
	logger *slog.Logger
}

func NewReferenceRepository(source ports.ReferenceRepository, rdb *redis.Client, ttl time.Duration, logger *slog.Logger) *ReferenceRepository {
	if ttl <= 0 {
		ttl = DefaultTTL
	}

	return &ReferenceRepository{source: source, rdb: rdb, ttl: ttl, logger: logger}
}

func (r *ReferenceRepository) GetProduct(ctx context.Context, productID uuid.UUID) (*domain.Product, error) {
	key := productKey(productID)

	raw, err := r.rdb.Get(ctx, key).Bytes()
	if err == nil {
		var cp cachedProduct
		if err := json.Unmarshal(raw, &cp); err == nil {
			return &domain.Product{
				ID:   cp.ID,
				Name: cp.Name,
				Enterprise: domain.Enterprise{
					ID:      cp.EnterpriseID,
					Name:    cp.EnterpriseName,
					OwnerID: cp.OwnerID,
				},
			}, nil
		}

		r.logger.Warn("dropping unreadable cached product", "key", key)
	} else if !errors.Is(err, redis.Nil) {
		r.logger.Warn("reference cache read failed", "key", key, "err", err)
	}

	product, err := r.source.GetProduct(ctx, productID)
	if err != nil {
		return nil, err
	}

	payload, err := json.Marshal(cachedProduct{
		ID:             product.ID,
		Name:           product.Name,
		EnterpriseID:   product.Enterprise.ID,
		EnterpriseName: product.Enterprise.Name,
		OwnerID:        product.Enterprise.OwnerID,
	})
	if err == nil {
		r.store(ctx, key, payload)
	}

	return product, nil
}

func (r *ReferenceRepository) ListStaff(ctx context.Context) ([]uuid.UUID, error) {
	raw, err := r.rdb.Get(ctx, staffKey).Bytes()
	if err == nil {
		var ids []uuid.UUID
		if err := json.Unmarshal(raw, &ids); err == nil {
			return ids, nil
		}

		r.logger.Warn("dropping unreadable cached staff roster")
	} else if !errors.Is(err, redis.Nil) {
		r.logger.Warn("reference cache read failed", "key", staffKey, "err", err)
	}

	ids, err := r.source.ListStaff(ctx)
	if err != nil {
		return nil, err
	}

	if payload, err := json.Marshal(ids); err == nil {
		r.store(ctx, staffKey, payload)
	}

	return ids, nil
}

// Invalidate drops the cached product and staff roster.
func (r *ReferenceRepository) Invalidate(ctx context.Context, productIDs ...uuid.UUID) error {
	keys := []string{staffKey}
	for _, id := range productIDs {
		keys = append(keys, productKey(id))
	}

	return r.rdb.Del(ctx, keys...).Err()
}

func (r *ReferenceRepository) store(ctx context.Context, key string, payload []byte) {
	if err := r.rdb.Set(ctx, key, payload, r.ttl).Err(); err != nil {
		r.logger.Warn("reference cache write failed", "key", key, "err", err)
	}
}
