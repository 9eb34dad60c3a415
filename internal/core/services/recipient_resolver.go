package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/srgjo27/enterprise_booking/internal/core/domain"
	"github.com/srgjo27/enterprise_booking/internal/core/ports"
)

// Resolution is the fan-out target of one booking event. Product is nil
// when the product is no longer on file.
type Resolution struct {
	Product    *domain.Product
	Recipients []domain.Recipient
}

func (r *Resolution) Has(role domain.RecipientRole) bool {
	for _, rc := range r.Recipients {
		if rc.Role == role {
			return true
		}
	}

	return false
}

type RecipientResolver struct {
	refRepo ports.ReferenceRepository
	logger  *slog.Logger
}

func NewRecipientResolver(refRepo ports.ReferenceRepository, logger *slog.Logger) *RecipientResolver {
	return &RecipientResolver{refRepo: refRepo, logger: logger}
}

// Resolve computes who must hear about an event on booking: the requester,
// the owner of the product's enterprise when one is on file, and every
// staff member. The result is a set over (user, role).
func (r *RecipientResolver) Resolve(ctx context.Context, booking *domain.Booking) (*Resolution, error) {
	res := &Resolution{}
	seen := make(map[domain.Recipient]struct{})

	add := func(userID uuid.UUID, role domain.RecipientRole) {
		rc := domain.Recipient{UserID: userID, Role: role}
		if _, dup := seen[rc]; dup {
			return
		}
		seen[rc] = struct{}{}
		res.Recipients = append(res.Recipients, rc)
	}

	add(booking.RequesterID, domain.RoleRequester)

	product, err := r.refRepo.GetProduct(ctx, booking.ProductID)
	switch {
	case errors.Is(err, domain.ErrProductNotFound):
		r.logger.Warn("product missing, enterprise owner omitted from fan-out",
			"booking_id", booking.ID, "product_id", booking.ProductID)
	case err != nil:
		return nil, fmt.Errorf("load product %s: %w", booking.ProductID, err)
	default:
		res.Product = product
		if product.Enterprise.HasOwner() {
			add(*product.Enterprise.OwnerID, domain.RoleEnterpriseOwner)
		} else {
			r.logger.Info("enterprise has no owner on file",
				"booking_id", booking.ID, "enterprise_id", product.Enterprise.ID)
		}
	}

	staff, err := r.refRepo.ListStaff(ctx)
	if err != nil {
		return nil, fmt.Errorf("load staff roster: %w", err)
	}

	for _, id := range staff {
		add(id, domain.RoleStaff)
	}

	return res, nil
}
