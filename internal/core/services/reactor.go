package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"

	"github.com/srgjo27/enterprise_booking/internal/core/domain"
	"github.com/srgjo27/enterprise_booking/internal/core/ports"
	"github.com/srgjo27/enterprise_booking/internal/platform/clock"
	"github.com/srgjo27/enterprise_booking/internal/platform/metrics"
)

var tracer = otel.Tracer("github.com/srgjo27/enterprise_booking/internal/core/services")

const noticeTimeout = 5 * time.Second

// Reaction summarizes one reactor run.
type Reaction struct {
	Skipped    bool
	CodeIssued bool
	Code       *domain.PickupCode
	Created    int
	Duplicates int
}

// Reactor is the booking lifecycle reactor. It is run after every booking
// creation or status change and may be run any number of times for the
// same transition: code issuance and notification inserts are idempotent.
type Reactor struct {
	bookingRepo ports.BookingRepository
	codeRepo    ports.PickupCodeRepository
	issuer      *CodeIssuer
	resolver    *RecipientResolver
	dedup       *Deduplicator
	notifier    ports.StatusNotifier
	clock       clock.Clock
	metrics     *metrics.Metrics
	logger      *slog.Logger
}

func NewReactor(
	bookingRepo ports.BookingRepository,
	codeRepo ports.PickupCodeRepository,
	issuer *CodeIssuer,
	resolver *RecipientResolver,
	dedup *Deduplicator,
	notifier ports.StatusNotifier,
	c clock.Clock,
	m *metrics.Metrics,
	logger *slog.Logger,
) *Reactor {
	return &Reactor{
		bookingRepo: bookingRepo,
		codeRepo:    codeRepo,
		issuer:      issuer,
		resolver:    resolver,
		dedup:       dedup,
		notifier:    notifier,
		clock:       c,
		metrics:     m,
		logger:      logger,
	}
}

func (r *Reactor) React(ctx context.Context, t domain.Transition) (Reaction, error) {
	ctx, span := tracer.Start(ctx, "Reactor.React")
	defer span.End()
	span.SetAttributes(
		attribute.String("booking.id", t.BookingID.String()),
		attribute.String("booking.status", string(t.NewStatus)),
	)

	reaction, err := r.react(ctx, t)
	switch {
	case err != nil:
		span.RecordError(err)
		r.metrics.ReactorRuns.WithLabelValues("error").Inc()
	case reaction.Skipped:
		r.metrics.ReactorRuns.WithLabelValues("skipped").Inc()
	default:
		r.metrics.ReactorRuns.WithLabelValues("ok").Inc()
	}

	return reaction, err
}

// Reconcile replays the event implied by the booking's current status. It
// converges derived state after an earlier partial failure.
func (r *Reactor) Reconcile(ctx context.Context, booking *domain.Booking) (Reaction, error) {
	return r.React(ctx, domain.ReplayOf(booking))
}

func (r *Reactor) react(ctx context.Context, t domain.Transition) (Reaction, error) {
	var reaction Reaction

	if !t.StatusChanged() {
		reaction.Skipped = true
		return reaction, nil
	}

	event, ok := t.Event()
	if !ok {
		r.logger.Warn("transition announces no event, ignoring",
			"booking_id", t.BookingID, "status", t.NewStatus)
		reaction.Skipped = true
		return reaction, nil
	}

	booking, err := r.bookingRepo.GetByID(ctx, t.BookingID)
	if err != nil {
		return reaction, fmt.Errorf("load booking %s: %w", t.BookingID, err)
	}

	if event != domain.EventCreated && booking.Status == domain.BookingPending {
		r.logger.Warn("stale transition for a booking that is still pending, ignoring",
			"booking_id", booking.ID, "status", t.NewStatus)
		reaction.Skipped = true
		return reaction, nil
	}

	// A booking that reached confirmed must hold a code whatever event is
	// being replayed; a confirm run lost before a later transition is
	// recovered here.
	if event == domain.EventConfirmed || (booking.WasConfirmed() && !booking.HasPickupCode()) {
		code, issued, err := r.ensurePickupCode(ctx, booking)
		if err != nil {
			return reaction, err
		}
		reaction.Code = code
		reaction.CodeIssued = issued
	}

	resolution, err := r.resolver.Resolve(ctx, booking)
	if err != nil {
		return reaction, fmt.Errorf("resolve recipients: %w", err)
	}

	mc := MessageContext{Booking: booking, Product: resolution.Product, PickupCode: reaction.Code}
	requesterNotified := false

	for _, rc := range resolution.Recipients {
		kind := domain.KindOf(rc.Role, event)
		title, body := ComposeMessage(rc.Role, event, mc)

		created, err := r.dedup.SubmitIfNew(ctx, rc.UserID, booking.ID, kind, title, body)
		if err != nil {
			return reaction, err
		}

		if !created {
			reaction.Duplicates++
			continue
		}

		reaction.Created++
		r.metrics.NotificationsCreated.WithLabelValues(string(rc.Role)).Inc()
		r.logger.Debug("notification created",
			"booking_id", booking.ID, "recipient_id", rc.UserID, "kind", kind)

		if rc.Role == domain.RoleRequester {
			requesterNotified = true
		}
	}

	if requesterNotified {
		r.sendNotice(ctx, booking, resolution.Product, t.NewStatus, reaction.Code)
	}

	r.logger.Info("booking transition processed",
		"booking_id", booking.ID,
		"event", event,
		"created", reaction.Created,
		"duplicates", reaction.Duplicates,
		"code_issued", reaction.CodeIssued)

	return reaction, nil
}

// ensurePickupCode issues the code of a confirmed booking and writes it onto
// the booking row. Both writes are insert-if-absent, so a replay returns
// the code created by the first run.
func (r *Reactor) ensurePickupCode(ctx context.Context, booking *domain.Booking) (*domain.PickupCode, bool, error) {
	if !booking.WasConfirmed() {
		r.logger.Warn("booking left confirmed before its code was issued, skipping issuance",
			"booking_id", booking.ID, "status", booking.Status)
		return r.existingCode(ctx, booking)
	}

	if booking.HasPickupCode() {
		return r.existingCode(ctx, booking)
	}

	code, issued, err := r.issuer.Issue(ctx, booking.ID)
	if err != nil {
		return nil, false, fmt.Errorf("issue pickup code: %w", err)
	}

	if err := r.bookingRepo.SetPickupCode(ctx, booking.ID, code.Code); err != nil {
		return nil, false, fmt.Errorf("persist pickup code on booking: %w", err)
	}

	value := code.Code
	booking.PickupCode = &value

	return code, issued, nil
}

func (r *Reactor) existingCode(ctx context.Context, booking *domain.Booking) (*domain.PickupCode, bool, error) {
	code, err := r.codeRepo.GetByBookingID(ctx, booking.ID)
	if errors.Is(err, domain.ErrPickupCodeNotFound) {
		return nil, false, nil
	}

	if err != nil {
		return nil, false, fmt.Errorf("load pickup code: %w", err)
	}

	return code, false, nil
}

// sendNotice hands the change to the best-effort outbound channel. Failures
// are logged and counted only.
func (r *Reactor) sendNotice(ctx context.Context, booking *domain.Booking, product *domain.Product, status domain.BookingStatus, code *domain.PickupCode) {
	if r.notifier == nil {
		return
	}

	notice := domain.StatusNotice{
		BookingID:   booking.ID,
		RequesterID: booking.RequesterID,
		Status:      status,
		OccurredAt:  r.clock.Now(),
	}

	if product != nil {
		notice.ProductName = product.Name
	}

	if code != nil {
		notice.PickupCode = code.Code
	}

	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), noticeTimeout)
	defer cancel()

	if err := r.notifier.NotifyStatusChange(ctx, notice); err != nil {
		r.metrics.NoticeFailures.Inc()
		r.logger.Warn("outbound status notice failed", "booking_id", booking.ID, "status", status, "err", err)
	}
}
