package domain

import (
	"errors"

	"github.com/google/uuid"
)

var ErrProductNotFound = errors.New("product not found")

type Enterprise struct {
	ID      uuid.UUID
	Name    string
	OwnerID *uuid.UUID
}

func (e *Enterprise) HasOwner() bool {
	return e.OwnerID != nil && *e.OwnerID != uuid.Nil
}

type Product struct {
	ID         uuid.UUID
	Name       string
	Enterprise Enterprise
}

func (p *Product) IsOwnedBy(userID uuid.UUID) bool {
	return p.Enterprise.HasOwner() && *p.Enterprise.OwnerID == userID
}
