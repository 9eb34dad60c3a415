package services

import (
	"fmt"

	"github.com/srgjo27/enterprise_booking/internal/core/domain"
)

// MessageContext carries what the catalog needs to phrase a notification.
type MessageContext struct {
	Booking    *domain.Booking
	Product    *domain.Product
	PickupCode *domain.PickupCode
}

func (mc MessageContext) productName() string {
	if mc.Product != nil && mc.Product.Name != "" {
		return mc.Product.Name
	}
	return "a product"
}

func (mc MessageContext) enterpriseName() string {
	if mc.Product != nil && mc.Product.Enterprise.Name != "" {
		return mc.Product.Enterprise.Name
	}
	return "a student enterprise"
}

func (mc MessageContext) pickupLine() string {
	if mc.PickupCode == nil {
		return ""
	}
	return fmt.Sprintf(" Your pickup code is %s, valid until %s.",
		mc.PickupCode.Code, mc.PickupCode.ExpiresAt.UTC().Format("2006-01-02 15:04 MST"))
}

// ComposeMessage returns the title and body for one recipient role. The
// requester reads about "your booking", the enterprise owner about "your
// product" and staff about "the academy's product".
func ComposeMessage(role domain.RecipientRole, event domain.BookingEvent, mc MessageContext) (string, string) {
	qty := mc.Booking.Quantity
	product := mc.productName()
	enterprise := mc.enterpriseName()

	switch role {
	case domain.RoleRequester:
		switch event {
		case domain.EventCreated:
			return "Booking received",
				fmt.Sprintf("Your booking for %d × %s has been received and is waiting for confirmation by %s.", qty, product, enterprise)
		case domain.EventConfirmed:
			return "Booking confirmed",
				fmt.Sprintf("Your booking for %d × %s has been confirmed.%s", qty, product, mc.pickupLine())
		case domain.EventCompleted:
			return "Booking completed",
				fmt.Sprintf("Your booking for %d × %s has been handed over. Thank you!", qty, product)
		case domain.EventCancelled:
			return "Booking cancelled",
				fmt.Sprintf("Your booking for %d × %s has been cancelled.", qty, product)
		}

	case domain.RoleEnterpriseOwner:
		switch event {
		case domain.EventCreated:
			return "New booking",
				fmt.Sprintf("A booking for your product %s (%d pcs) was placed and needs your confirmation.", product, qty)
		case domain.EventConfirmed:
			return "Booking confirmed",
				fmt.Sprintf("A booking for your product %s (%d pcs) was confirmed. Prepare it for pickup.", product, qty)
		case domain.EventCompleted:
			return "Booking completed",
				fmt.Sprintf("A booking for your product %s (%d pcs) was completed.", product, qty)
		case domain.EventCancelled:
			return "Booking cancelled",
				fmt.Sprintf("A booking for your product %s (%d pcs) was cancelled.", product, qty)
		}

	case domain.RoleStaff:
		switch event {
		case domain.EventCreated:
			return "New booking",
				fmt.Sprintf("A booking for the academy's product %s from %s (%d pcs) was placed.", product, enterprise, qty)
		case domain.EventConfirmed:
			return "Booking confirmed",
				fmt.Sprintf("A booking for the academy's product %s from %s (%d pcs) was confirmed.", product, enterprise, qty)
		case domain.EventCompleted:
			return "Booking completed",
				fmt.Sprintf("A booking for the academy's product %s from %s (%d pcs) was completed.", product, enterprise, qty)
		case domain.EventCancelled:
			return "Booking cancelled",
				fmt.Sprintf("A booking for the academy's product %s from %s (%d pcs) was cancelled.", product, enterprise, qty)
		}
	}

	return "Booking update", fmt.Sprintf("Booking %s is now %s.", mc.Booking.ID, mc.Booking.Status)
}
