package domain

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

var ErrPickupCodeNotFound = errors.New("pickup code not found")

type PickupCode struct {
	BookingID uuid.UUID
	Code      string
	IssuedAt  time.Time
	ExpiresAt time.Time
}

// Expired is advisory; redemption happens outside this service.
func (c *PickupCode) Expired(now time.Time) bool {
	return !now.Before(c.ExpiresAt)
}
