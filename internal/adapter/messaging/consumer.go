package messaging

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/srgjo27/enterprise_booking/internal/core/domain"
	"github.com/srgjo27/enterprise_booking/internal/core/services"
	"github.com/srgjo27/enterprise_booking/internal/platform/metrics"
)

const (
	minBackoff = time.Second
	maxBackoff = 30 * time.Second
	prefetch   = 50
)

var tracer = otel.Tracer("github.com/srgjo27/enterprise_booking/internal/adapter/messaging")

type Reactor interface {
	React(ctx context.Context, t domain.Transition) (services.Reaction, error)
}

type ConsumerConfig struct {
	URL            string
	Exchange       string
	Queue          string
	ReactorTimeout time.Duration
}

// TransitionConsumer feeds booking transitions from the broker into the
// reactor. Delivery is at-least-once: a failed run is requeued and the
// reactor absorbs the repeat. Events naming an unknown booking are dropped.
type TransitionConsumer struct {
	cfg     ConsumerConfig
	reactor Reactor
	metrics *metrics.Metrics
	logger  *slog.Logger
}

func NewTransitionConsumer(cfg ConsumerConfig, reactor Reactor, m *metrics.Metrics, logger *slog.Logger) *TransitionConsumer {
	if cfg.ReactorTimeout <= 0 {
		cfg.ReactorTimeout = services.DefaultReactorTimeout
	}

	return &TransitionConsumer{cfg: cfg, reactor: reactor, metrics: m, logger: logger}
}

// Run dials the broker and consumes until ctx is cancelled, reconnecting
// with exponential backoff.
func (c *TransitionConsumer) Run(ctx context.Context) error {
	backoff := minBackoff

	for {
		conn, err := amqp.Dial(c.cfg.URL)
		if err != nil {
			c.logger.Warn("transition consumer: dial failed", "err", err, "retry_in", backoff)
			if !sleep(ctx, backoff) {
				return ctx.Err()
			}

			backoff = min(backoff*2, maxBackoff)
			continue
		}

		backoff = minBackoff

		err = c.consume(ctx, conn)
		_ = conn.Close()

		if ctx.Err() != nil {
			return ctx.Err()
		}

		c.logger.Warn("transition consumer: consume loop ended, reconnecting", "err", err)
		if !sleep(ctx, 2*time.Second) {
			return ctx.Err()
		}
	}
}

func (c *TransitionConsumer) consume(ctx context.Context, conn *amqp.Connection) error {
	ch, err := conn.Channel()
	if err != nil {
		return fmt.Errorf("open channel: %w", err)
	}

	defer func() { _ = ch.Close() }()

	if err := ch.Qos(prefetch, 0, false); err != nil {
		c.logger.Warn("transition consumer: set QoS failed", "err", err)
	}

	if err := ch.ExchangeDeclare(c.cfg.Exchange, "topic", true, false, false, false, nil); err != nil {
		return fmt.Errorf("declare exchange: %w", err)
	}

	q, err := ch.QueueDeclare(c.cfg.Queue, true, false, false, false, nil)
	if err != nil {
		return fmt.Errorf("declare queue: %w", err)
	}

	if err := ch.QueueBind(q.Name, TransitionRoutingKey, c.cfg.Exchange, false, nil); err != nil {
		return fmt.Errorf("bind %s: %w", TransitionRoutingKey, err)
	}

	msgs, err := ch.ConsumeWithContext(ctx, q.Name, "", false, false, false, false, nil)
	if err != nil {
		return fmt.Errorf("consume: %w", err)
	}

	c.logger.Info("transition consumer started", "queue", q.Name, "exchange", c.cfg.Exchange)

	for d := range msgs {
		c.Handle(ctx, d)
	}

	return errors.New("deliveries channel closed")
}

// Handle processes one delivery and settles it.
func (c *TransitionConsumer) Handle(ctx context.Context, d amqp.Delivery) {
	ctx, span := tracer.Start(ctx, "TransitionConsumer.Handle",
		trace.WithSpanKind(trace.SpanKindConsumer),
		trace.WithAttributes(attribute.String("messaging.destination", c.cfg.Queue)),
	)
	defer span.End()

	t, err := DecodeTransition(d.Body)
	if err != nil {
		span.RecordError(err)
		c.metrics.ConsumedEvents.WithLabelValues("malformed").Inc()
		c.logger.Error("transition consumer: dropping undecodable event", "err", err)
		_ = d.Nack(false, false)
		return
	}

	runCtx, cancel := context.WithTimeout(ctx, c.cfg.ReactorTimeout)
	defer cancel()

	_, err = c.reactor.React(runCtx, t)
	if errors.Is(err, domain.ErrBookingNotFound) {
		span.RecordError(err)
		c.metrics.ConsumedEvents.WithLabelValues("unroutable").Inc()
		c.logger.Warn("transition consumer: booking does not exist, dropping event",
			"booking_id", t.BookingID, "status", t.NewStatus)
		_ = d.Nack(false, false)
		return
	}

	if err != nil {
		span.RecordError(err)
		c.metrics.ConsumedEvents.WithLabelValues("requeued").Inc()
		c.logger.Error("transition consumer: reactor failed, requeueing",
			"booking_id", t.BookingID, "status", t.NewStatus, "err", err)
		_ = d.Nack(false, true)
		return
	}

	c.metrics.ConsumedEvents.WithLabelValues("acked").Inc()
	_ = d.Ack(false)
}

func sleep(ctx context.Context, d time.Duration) bool {
	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return false
	case <-timer.C:
		return true
	}
}
