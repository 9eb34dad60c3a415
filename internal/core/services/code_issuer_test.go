package services_test

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/srgjo27/enterprise_booking/internal/core/domain"
	"github.com/srgjo27/enterprise_booking/internal/core/ports"
	"github.com/srgjo27/enterprise_booking/internal/core/ports/mocks"
	"github.com/srgjo27/enterprise_booking/internal/core/services"
	"github.com/srgjo27/enterprise_booking/internal/platform/clock"
	"github.com/srgjo27/enterprise_booking/internal/platform/metrics"
)

func sequence(codes ...string) func() (string, error) {
	i := 0
	return func() (string, error) {
		c := codes[i%len(codes)]
		i++
		return c, nil
	}
}

func TestGeneratePickupCode(t *testing.T) {
	seen := make(map[string]struct{})

	for i := 0; i < 200; i++ {
		code, err := services.GeneratePickupCode()
		require.NoError(t, err)
		require.Len(t, code, 8)
		assert.False(t, strings.ContainsAny(code, "01IO"), code)
		seen[code] = struct{}{}
	}

	assert.Greater(t, len(seen), 190)
}

func TestIssue_RetriesOnCollision(t *testing.T) {
	codeRepo := mocks.NewPickupCodeRepository(t)
	m := metrics.New(prometheus.NewRegistry())
	fake := clock.Fake(epoch)

	issuer := services.NewCodeIssuer(codeRepo, 2*time.Hour, m, slog.New(slog.DiscardHandler),
		services.WithCodeGenerator(sequence("TAKEN234", "FRESH234")),
		services.WithIssuerClock(fake))

	bookingID := uuid.New()

	codeRepo.On("InsertIfAbsent", mock.Anything, mock.MatchedBy(func(c *domain.PickupCode) bool {
		return c.Code == "TAKEN234"
	})).Return(nil, false, ports.ErrCodeCollision).Once()

	codeRepo.On("InsertIfAbsent", mock.Anything, mock.MatchedBy(func(c *domain.PickupCode) bool {
		return c.Code == "FRESH234" && c.BookingID == bookingID && c.ExpiresAt.Equal(epoch.Add(2*time.Hour))
	})).Return(func(_ context.Context, c *domain.PickupCode) *domain.PickupCode { return c }, true, nil).Once()

	code, created, err := issuer.Issue(context.Background(), bookingID)

	require.NoError(t, err)
	assert.True(t, created)
	assert.Equal(t, "FRESH234", code.Code)
	assert.Equal(t, 1.0, testutil.ToFloat64(m.PickupCodesIssued))
}

func TestIssue_ReturnsExistingCode(t *testing.T) {
	codeRepo := mocks.NewPickupCodeRepository(t)
	m := metrics.New(prometheus.NewRegistry())
	issuer := services.NewCodeIssuer(codeRepo, 0, m, slog.New(slog.DiscardHandler), services.WithCodeGenerator(sequence("NEWCODE2")))

	existing := &domain.PickupCode{BookingID: uuid.New(), Code: "OLDCODE2"}
	codeRepo.On("InsertIfAbsent", mock.Anything, mock.AnythingOfType("*domain.PickupCode")).Return(existing, false, nil)

	code, created, err := issuer.Issue(context.Background(), existing.BookingID)

	require.NoError(t, err)
	assert.False(t, created)
	assert.Equal(t, "OLDCODE2", code.Code)
	assert.Equal(t, 1.0, testutil.ToFloat64(m.PickupCodesReused))
}

func TestIssue_GivesUpAfterRepeatedCollisions(t *testing.T) {
	codeRepo := mocks.NewPickupCodeRepository(t)
	issuer := services.NewCodeIssuer(codeRepo, time.Hour, metrics.New(prometheus.NewRegistry()), slog.New(slog.DiscardHandler),
		services.WithCodeGenerator(sequence("TAKEN234")))

	codeRepo.On("InsertIfAbsent", mock.Anything, mock.Anything).Return(nil, false, ports.ErrCodeCollision).Times(5)

	_, _, err := issuer.Issue(context.Background(), uuid.New())

	assert.ErrorIs(t, err, services.ErrCodeSpaceExhausted)
}

func TestIssue_StorageError(t *testing.T) {
	codeRepo := mocks.NewPickupCodeRepository(t)
	issuer := services.NewCodeIssuer(codeRepo, time.Hour, metrics.New(prometheus.NewRegistry()), slog.New(slog.DiscardHandler))

	codeRepo.On("InsertIfAbsent", mock.Anything, mock.Anything).Return(nil, false, errors.New("connection reset"))

	_, _, err := issuer.Issue(context.Background(), uuid.New())

	assert.ErrorContains(t, err, "connection reset")
}
