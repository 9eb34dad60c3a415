package domain

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

type BookingStatus string

const (
	BookingPending   BookingStatus = "pending"
	BookingConfirmed BookingStatus = "confirmed"
	BookingCompleted BookingStatus = "completed"
	BookingCancelled BookingStatus = "cancelled"
)

var (
	ErrBookingNotFound    = errors.New("booking not found")
	ErrInvalidStatus      = errors.New("invalid booking status")
	ErrInvalidTransition  = errors.New("invalid status transition")
	ErrInvalidQuantity    = errors.New("invalid quantity")
	ErrBookingNotEditable = errors.New("booking is no longer editable")
	ErrForbidden          = errors.New("forbidden")
)

var transitions = map[BookingStatus][]BookingStatus{
	BookingPending:   {BookingConfirmed, BookingCancelled},
	BookingConfirmed: {BookingCompleted, BookingCancelled},
}

func ParseBookingStatus(s string) (BookingStatus, error) {
	switch st := BookingStatus(s); st {
	case BookingPending, BookingConfirmed, BookingCompleted, BookingCancelled:
		return st, nil
	}

	return "", ErrInvalidStatus
}

func (s BookingStatus) IsTerminal() bool {
	return s == BookingCompleted || s == BookingCancelled
}

func (s BookingStatus) CanTransitionTo(next BookingStatus) bool {
	for _, allowed := range transitions[s] {
		if allowed == next {
			return true
		}
	}

	return false
}

type Booking struct {
	ID          uuid.UUID
	ProductID   uuid.UUID
	RequesterID uuid.UUID
	Quantity    int
	Status      BookingStatus
	PickupCode  *string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// WasConfirmed reports whether the booking has passed through confirmed.
// Cancelled bookings are ambiguous and report false.
func (b *Booking) WasConfirmed() bool {
	return b.Status == BookingConfirmed || b.Status == BookingCompleted
}

func (b *Booking) HasPickupCode() bool {
	return b.PickupCode != nil && *b.PickupCode != ""
}

// Transition is the "booking transitioned" event. A nil PreviousStatus marks
// the creation of the booking. Replay marks a transition rebuilt from the
// stored row, whose previous status is unknown.
type Transition struct {
	BookingID      uuid.UUID
	NewStatus      BookingStatus
	PreviousStatus *BookingStatus
	Replay         bool
}

func CreationOf(b *Booking) Transition {
	return Transition{BookingID: b.ID, NewStatus: b.Status}
}

func StatusChange(bookingID uuid.UUID, from, to BookingStatus) Transition {
	prev := from
	return Transition{BookingID: bookingID, NewStatus: to, PreviousStatus: &prev}
}

// ReplayOf rebuilds the event announced by the booking's current status.
func ReplayOf(b *Booking) Transition {
	if b.Status == BookingPending {
		return CreationOf(b)
	}

	return Transition{BookingID: b.ID, NewStatus: b.Status, Replay: true}
}

func (t Transition) IsCreation() bool {
	return t.PreviousStatus == nil && !t.Replay
}

// StatusChanged reports whether the transition carries a real status change.
func (t Transition) StatusChanged() bool {
	if t.Replay || t.IsCreation() {
		return true
	}

	return *t.PreviousStatus != t.NewStatus
}

// Event maps the transition onto the booking event it announces. Moves that
// do not announce anything (for example back into pending) report false.
func (t Transition) Event() (BookingEvent, bool) {
	if t.IsCreation() {
		return EventCreated, true
	}

	switch t.NewStatus {
	case BookingConfirmed:
		return EventConfirmed, true
	case BookingCompleted:
		return EventCompleted, true
	case BookingCancelled:
		return EventCancelled, true
	}

	return "", false
}
