package domain

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

var ErrNotificationNotFound = errors.New("notification not found")

type BookingEvent string

const (
	EventCreated   BookingEvent = "created"
	EventConfirmed BookingEvent = "confirmed"
	EventCompleted BookingEvent = "completed"
	EventCancelled BookingEvent = "cancelled"
)

type RecipientRole string

const (
	RoleRequester       RecipientRole = "requester"
	RoleEnterpriseOwner RecipientRole = "enterprise_owner"
	RoleStaff           RecipientRole = "staff"
)

// NotificationKind identifies the semantic kind of a notification, e.g.
// "requester/confirmed". At most one notification exists per
// (recipient, booking, kind).
type NotificationKind string

func KindOf(role RecipientRole, event BookingEvent) NotificationKind {
	return NotificationKind(string(role) + "/" + string(event))
}

type Recipient struct {
	UserID uuid.UUID
	Role   RecipientRole
}

type Notification struct {
	ID          uuid.UUID
	RecipientID uuid.UUID
	BookingID   uuid.UUID
	Kind        NotificationKind
	Title       string
	Body        string
	Read        bool
	CreatedAt   time.Time
	DeletedAt   *time.Time
}

func (n *Notification) IsDeleted() bool {
	return n.DeletedAt != nil
}

// StatusNotice is the payload handed to best-effort outbound channels.
type StatusNotice struct {
	BookingID   uuid.UUID
	RequesterID uuid.UUID
	ProductName string
	Status      BookingStatus
	PickupCode  string
	OccurredAt  time.Time
}
