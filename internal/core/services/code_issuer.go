package services

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"log/slog"
	"math/big"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"

	"github.com/srgjo27/enterprise_booking/internal/core/domain"
	"github.com/srgjo27/enterprise_booking/internal/core/ports"
	"github.com/srgjo27/enterprise_booking/internal/platform/clock"
	"github.com/srgjo27/enterprise_booking/internal/platform/metrics"
)

const (
	DefaultPickupCodeTTL = 24 * time.Hour

	pickupCodeLength   = 8
	pickupCodeAlphabet = "ABCDEFGHJKLMNPQRSTUVWXYZ23456789"
	maxIssueAttempts   = 5
)

var ErrCodeSpaceExhausted = errors.New("could not generate an unused pickup code")

// GeneratePickupCode returns a random code over an alphabet without the
// easily confused 0/O and 1/I.
func GeneratePickupCode() (string, error) {
	buf := make([]byte, pickupCodeLength)
	max := big.NewInt(int64(len(pickupCodeAlphabet)))

	for i := range buf {
		n, err := rand.Int(rand.Reader, max)
		if err != nil {
			return "", err
		}
		buf[i] = pickupCodeAlphabet[n.Int64()]
	}

	return string(buf), nil
}

type CodeIssuerOption func(*CodeIssuer)

func WithCodeGenerator(gen func() (string, error)) CodeIssuerOption {
	return func(ci *CodeIssuer) { ci.generate = gen }
}

func WithIssuerClock(c clock.Clock) CodeIssuerOption {
	return func(ci *CodeIssuer) { ci.clock = c }
}

type CodeIssuer struct {
	codeRepo ports.PickupCodeRepository
	ttl      time.Duration
	generate func() (string, error)
	clock    clock.Clock
	metrics  *metrics.Metrics
	logger   *slog.Logger
}

func NewCodeIssuer(codeRepo ports.PickupCodeRepository, ttl time.Duration, m *metrics.Metrics, logger *slog.Logger, opts ...CodeIssuerOption) *CodeIssuer {
	if ttl <= 0 {
		ttl = DefaultPickupCodeTTL
	}

	ci := &CodeIssuer{
		codeRepo: codeRepo,
		ttl:      ttl,
		generate: GeneratePickupCode,
		clock:    clock.Real(),
		metrics:  m,
		logger:   logger,
	}

	for _, opt := range opts {
		opt(ci)
	}

	return ci
}

// Issue returns the pickup code of a confirmed booking, creating it on the
// first call. Concurrent or repeated calls converge on the stored code.
func (ci *CodeIssuer) Issue(ctx context.Context, bookingID uuid.UUID) (*domain.PickupCode, bool, error) {
	ctx, span := tracer.Start(ctx, "CodeIssuer.Issue")
	defer span.End()
	span.SetAttributes(attribute.String("booking.id", bookingID.String()))

	for attempt := 1; attempt <= maxIssueAttempts; attempt++ {
		value, err := ci.generate()
		if err != nil {
			return nil, false, fmt.Errorf("generate pickup code: %w", err)
		}

		issuedAt := ci.clock.Now()
		candidate := &domain.PickupCode{
			BookingID: bookingID,
			Code:      value,
			IssuedAt:  issuedAt,
			ExpiresAt: issuedAt.Add(ci.ttl),
		}

		stored, created, err := ci.codeRepo.InsertIfAbsent(ctx, candidate)
		if errors.Is(err, ports.ErrCodeCollision) {
			ci.logger.Warn("pickup code collided, regenerating", "booking_id", bookingID, "attempt", attempt)
			continue
		}

		if err != nil {
			span.RecordError(err)
			return nil, false, fmt.Errorf("store pickup code: %w", err)
		}

		if created {
			ci.metrics.PickupCodesIssued.Inc()
		} else {
			ci.metrics.PickupCodesReused.Inc()
		}

		span.SetAttributes(attribute.Bool("pickup_code.created", created))

		return stored, created, nil
	}

	return nil, false, ErrCodeSpaceExhausted
}
