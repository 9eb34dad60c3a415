package services_test

import (
	"context"
	"log/slog"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/srgjo27/enterprise_booking/internal/core/domain"
	"github.com/srgjo27/enterprise_booking/internal/core/services"
)

func TestReconcileOnce_RepairsBookingMissedByReactor(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	rec := services.NewReconciler(h.bookings, h.reactor, h.clock, time.Minute, 15*time.Minute, h.metrics, slog.New(slog.DiscardHandler))

	b := h.seedBooking(t, domain.BookingPending)
	_, err := h.bookings.UpdateStatus(ctx, b.ID, domain.BookingPending, domain.BookingConfirmed, h.clock.Now())
	require.NoError(t, err)

	assert.Zero(t, rec.ReconcileOnce(ctx))

	stored, err := h.bookings.GetByID(ctx, b.ID)
	require.NoError(t, err)
	assert.True(t, stored.HasPickupCode())
	assert.Equal(t, 1, h.kinds(b.ID)[domain.KindOf(domain.RoleRequester, domain.EventConfirmed)])
	assert.Equal(t, 1.0, testutil.ToFloat64(h.metrics.ReconcileRuns.WithLabelValues("repaired")))

	assert.Zero(t, rec.ReconcileOnce(ctx))
	assert.Equal(t, 1.0, testutil.ToFloat64(h.metrics.ReconcileRuns.WithLabelValues("clean")))
	assert.Equal(t, 1, h.codes.Count())
}

func TestReconcileOnce_IssuesCodeLostBeforeCompletion(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	rec := services.NewReconciler(h.bookings, h.reactor, h.clock, time.Minute, 15*time.Minute, h.metrics, slog.New(slog.DiscardHandler))

	b := h.seedBooking(t, domain.BookingPending)
	_, err := h.bookings.UpdateStatus(ctx, b.ID, domain.BookingPending, domain.BookingConfirmed, h.clock.Now())
	require.NoError(t, err)

	_, err = h.bookingSvc.ChangeStatus(ctx, h.staffActor(), b.ID, domain.BookingCompleted)
	require.NoError(t, err)

	assert.Zero(t, rec.ReconcileOnce(ctx))

	stored, err := h.bookings.GetByID(ctx, b.ID)
	require.NoError(t, err)
	require.True(t, stored.HasPickupCode())

	code, err := h.codes.GetByBookingID(ctx, b.ID)
	require.NoError(t, err)
	assert.Equal(t, code.Code, *stored.PickupCode)

	assert.Zero(t, rec.ReconcileOnce(ctx))
	assert.Equal(t, 1, h.codes.Count())
}

func TestReconcileOnce_WalksTheWholeWindow(t *testing.T) {
	h := newHarness(t, withStaff(0))
	ctx := context.Background()
	rec := services.NewReconciler(h.bookings, h.reactor, h.clock, time.Minute, 15*time.Minute, h.metrics, slog.New(slog.DiscardHandler))

	const total = 250
	seeded := make([]*domain.Booking, 0, total)
	for i := 0; i < total; i++ {
		seeded = append(seeded, h.seedBooking(t, domain.BookingPending))
		if i%40 == 0 {
			h.clock.Advance(time.Second)
		}
	}

	assert.Zero(t, rec.ReconcileOnce(ctx))

	for _, b := range seeded {
		assert.Equal(t, 1, h.kinds(b.ID)[domain.KindOf(domain.RoleRequester, domain.EventCreated)])
	}
	assert.Equal(t, float64(total), testutil.ToFloat64(h.metrics.ReconcileRuns.WithLabelValues("repaired")))
}

func TestReconcileOnce_IgnoresBookingsOutsideLookback(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	rec := services.NewReconciler(h.bookings, h.reactor, h.clock, time.Minute, 15*time.Minute, h.metrics, slog.New(slog.DiscardHandler))

	b := h.seedBooking(t, domain.BookingPending)
	h.clock.Advance(time.Hour)

	assert.Zero(t, rec.ReconcileOnce(ctx))
	assert.Empty(t, h.notifs.ForBooking(b.ID))
}

func TestRunBackgroundReconcile_StopsOnCancel(t *testing.T) {
	h := newHarness(t)
	rec := services.NewReconciler(h.bookings, h.reactor, h.clock, time.Millisecond, time.Minute, h.metrics, slog.New(slog.DiscardHandler))

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})

	go func() {
		rec.RunBackgroundReconcile(ctx)
		close(done)
	}()

	cancel()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("reconciler did not stop")
	}
}
