package messaging

import (
	"encoding/json"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/srgjo27/enterprise_booking/internal/core/domain"
)

func TestDecodeTransition(t *testing.T) {
	id := uuid.New()

	tests := []struct {
		name     string
		body     string
		creation bool
		prev     domain.BookingStatus
		wantErr  bool
	}{
		{name: "creation", body: `{"booking_id":"` + id.String() + `","new_status":"pending","previous_status":null}`, creation: true},
		{name: "creation without field", body: `{"booking_id":"` + id.String() + `","new_status":"pending"}`, creation: true},
		{name: "status change", body: `{"booking_id":"` + id.String() + `","new_status":"confirmed","previous_status":"pending"}`, prev: domain.BookingPending},
		{name: "bad json", body: `{`, wantErr: true},
		{name: "bad id", body: `{"booking_id":"nope","new_status":"pending"}`, wantErr: true},
		{name: "unknown status", body: `{"booking_id":"` + id.String() + `","new_status":"shipped"}`, wantErr: true},
		{name: "unknown previous", body: `{"booking_id":"` + id.String() + `","new_status":"confirmed","previous_status":"draft"}`, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tr, err := DecodeTransition([]byte(tt.body))
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrMalformedEvent)
				return
			}

			require.NoError(t, err)
			assert.Equal(t, id, tr.BookingID)
			assert.Equal(t, tt.creation, tr.IsCreation())
			if !tt.creation {
				require.NotNil(t, tr.PreviousStatus)
				assert.Equal(t, tt.prev, *tr.PreviousStatus)
			}
		})
	}
}

func TestNewTransitionEvent_RoundTrip(t *testing.T) {
	tr := domain.StatusChange(uuid.New(), domain.BookingConfirmed, domain.BookingCompleted)

	body, err := json.Marshal(NewTransitionEvent(tr))
	require.NoError(t, err)

	decoded, err := DecodeTransition(body)
	require.NoError(t, err)
	assert.Equal(t, tr, decoded)
}
