package services

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/srgjo27/enterprise_booking/internal/core/domain"
	"github.com/srgjo27/enterprise_booking/internal/core/ports"
	"github.com/srgjo27/enterprise_booking/internal/platform/clock"
	"github.com/srgjo27/enterprise_booking/internal/platform/metrics"
)

const reconcileBatchSize = 100

// Reconciler periodically replays recent bookings through the reactor so
// that codes and notifications lost to a failed run eventually appear.
type Reconciler struct {
	bookingRepo ports.BookingRepository
	reactor     *Reactor
	clock       clock.Clock
	interval    time.Duration
	lookback    time.Duration
	metrics     *metrics.Metrics
	logger      *slog.Logger
}

func NewReconciler(bookingRepo ports.BookingRepository, reactor *Reactor, c clock.Clock, interval, lookback time.Duration, m *metrics.Metrics, logger *slog.Logger) *Reconciler {
	return &Reconciler{
		bookingRepo: bookingRepo,
		reactor:     reactor,
		clock:       c,
		interval:    interval,
		lookback:    lookback,
		metrics:     m,
		logger:      logger,
	}
}

func (r *Reconciler) RunBackgroundReconcile(ctx context.Context) {
	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()

	r.logger.Info("reconciler started", "interval", r.interval, "lookback", r.lookback)

	for {
		select {
		case <-ctx.Done():
			r.logger.Info("reconciler stopped")
			return
		case <-ticker.C:
			r.ReconcileOnce(ctx)
		}
	}
}

// ReconcileOnce replays every booking updated within the lookback window,
// batch by batch, and returns how many replays failed.
func (r *Reconciler) ReconcileOnce(ctx context.Context) int {
	since := r.clock.Now().Add(-r.lookback)
	afterID := uuid.Nil
	failed := 0

	for ctx.Err() == nil {
		bookings, err := r.bookingRepo.ListUpdatedSince(ctx, since, afterID, reconcileBatchSize)
		if err != nil {
			r.logger.Error("fetch bookings to reconcile", "err", err)
			return failed
		}

		for i := range bookings {
			if !r.reconcile(ctx, &bookings[i]) {
				failed++
			}
		}

		if len(bookings) < reconcileBatchSize {
			break
		}

		last := bookings[len(bookings)-1]
		since, afterID = last.UpdatedAt, last.ID
	}

	return failed
}

func (r *Reconciler) reconcile(ctx context.Context, b *domain.Booking) bool {
	reaction, err := r.reactor.Reconcile(ctx, b)
	if err != nil {
		r.metrics.ReconcileRuns.WithLabelValues("error").Inc()
		r.logger.Error("reconcile booking", "booking_id", b.ID, "status", b.Status, "err", err)
		return false
	}

	if reaction.Created > 0 || reaction.CodeIssued {
		r.metrics.ReconcileRuns.WithLabelValues("repaired").Inc()
		r.logger.Info("reconciled booking", "booking_id", b.ID, "created", reaction.Created, "code_issued", reaction.CodeIssued)
	} else {
		r.metrics.ReconcileRuns.WithLabelValues("clean").Inc()
	}

	return true
}
