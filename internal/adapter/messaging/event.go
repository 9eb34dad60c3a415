package messaging

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/srgjo27/enterprise_booking/internal/core/domain"
)

const TransitionRoutingKey = "booking.transitioned"

var ErrMalformedEvent = errors.New("malformed transition event")

// TransitionEvent is the wire form of a booking transition. A null
// previous_status announces a creation.
type TransitionEvent struct {
	BookingID      string  `json:"booking_id"`
	NewStatus      string  `json:"new_status"`
	PreviousStatus *string `json:"previous_status"`
}

func NewTransitionEvent(t domain.Transition) TransitionEvent {
	ev := TransitionEvent{BookingID: t.BookingID.String(), NewStatus: string(t.NewStatus)}
	if t.PreviousStatus != nil {
		prev := string(*t.PreviousStatus)
		ev.PreviousStatus = &prev
	}

	return ev
}

func DecodeTransition(body []byte) (domain.Transition, error) {
	var ev TransitionEvent
	if err := json.Unmarshal(body, &ev); err != nil {
		return domain.Transition{}, fmt.Errorf("%w: %v", ErrMalformedEvent, err)
	}

	bookingID, err := uuid.Parse(ev.BookingID)
	if err != nil {
		return domain.Transition{}, fmt.Errorf("%w: booking_id: %v", ErrMalformedEvent, err)
	}

	next, err := domain.ParseBookingStatus(ev.NewStatus)
	if err != nil {
		return domain.Transition{}, fmt.Errorf("%w: new_status %q", ErrMalformedEvent, ev.NewStatus)
	}

	t := domain.Transition{BookingID: bookingID, NewStatus: next}
	if ev.PreviousStatus != nil {
		prev, err := domain.ParseBookingStatus(*ev.PreviousStatus)
		if err != nil {
			return domain.Transition{}, fmt.Errorf("%w: previous_status %q", ErrMalformedEvent, *ev.PreviousStatus)
		}
		t.PreviousStatus = &prev
	}

	return t, nil
}

// NoticeMessage is published on the notices exchange for every status
// change the requester was told about.
type NoticeMessage struct {
	BookingID   string `json:"booking_id"`
	RequesterID string `json:"requester_id"`
	ProductName string `json:"product_name,omitempty"`
	Status      string `json:"status"`
	PickupCode  string `json:"pickup_code,omitempty"`
	OccurredAt  string `json:"occurred_at"`
}

func NoticeRoutingKey(status domain.BookingStatus) string {
	return "booking." + string(status)
}
