package services

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"

	"github.com/srgjo27/enterprise_booking/internal/core/domain"
	"github.com/srgjo27/enterprise_booking/internal/core/ports"
	"github.com/srgjo27/enterprise_booking/internal/platform/clock"
	"github.com/srgjo27/enterprise_booking/internal/platform/metrics"
)

// Deduplicator persists a notification only if its
// (recipient, booking, kind) tuple is new. The guard is the storage
// uniqueness constraint, so concurrent submissions of one tuple create at
// most one row.
type Deduplicator struct {
	notifRepo ports.NotificationRepository
	clock     clock.Clock
	metrics   *metrics.Metrics
}

func NewDeduplicator(notifRepo ports.NotificationRepository, c clock.Clock, m *metrics.Metrics) *Deduplicator {
	return &Deduplicator{notifRepo: notifRepo, clock: c, metrics: m}
}

func (d *Deduplicator) SubmitIfNew(ctx context.Context, recipientID, bookingID uuid.UUID, kind domain.NotificationKind, title, body string) (bool, error) {
	ctx, span := tracer.Start(ctx, "Deduplicator.SubmitIfNew")
	defer span.End()
	span.SetAttributes(
		attribute.String("booking.id", bookingID.String()),
		attribute.String("notification.kind", string(kind)),
	)

	n := &domain.Notification{
		ID:          uuid.New(),
		RecipientID: recipientID,
		BookingID:   bookingID,
		Kind:        kind,
		Title:       title,
		Body:        body,
		CreatedAt:   d.clock.Now(),
	}

	created, err := d.notifRepo.InsertIfAbsent(ctx, n)
	if err != nil {
		span.RecordError(err)
		return false, fmt.Errorf("insert notification %s for %s: %w", kind, recipientID, err)
	}

	if !created {
		d.metrics.NotificationsDuplicated.Inc()
	}

	span.SetAttributes(attribute.Bool("notification.created", created))

	return created, nil
}
