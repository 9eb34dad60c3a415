package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/srgjo27/enterprise_booking/internal/core/domain"
	"github.com/srgjo27/enterprise_booking/internal/core/ports"
	"github.com/srgjo27/enterprise_booking/internal/platform/clock"
)

const DefaultReactorTimeout = 10 * time.Second

var (
	ErrInvalidProductID = errors.New("invalid product id")
	ErrInvalidBookingID = errors.New("invalid booking id")
)

type CreateBookingRequest struct {
	ProductID string `json:"product_id"`
	Quantity  int    `json:"quantity"`
}

type BookingResponse struct {
	BookingID   string  `json:"booking_id"`
	ProductID   string  `json:"product_id"`
	RequesterID string  `json:"requester_id"`
	Quantity    int     `json:"quantity"`
	Status      string  `json:"status"`
	PickupCode  *string `json:"pickup_code,omitempty"`
	CreatedAt   string  `json:"created_at"`
	UpdatedAt   string  `json:"updated_at"`
}

type PickupCodeResponse struct {
	BookingID string `json:"booking_id"`
	Code      string `json:"code"`
	IssuedAt  string `json:"issued_at"`
	ExpiresAt string `json:"expires_at"`
	Expired   bool   `json:"expired"`
}

func NewBookingResponse(b *domain.Booking) *BookingResponse {
	return &BookingResponse{
		BookingID:   b.ID.String(),
		ProductID:   b.ProductID.String(),
		RequesterID: b.RequesterID.String(),
		Quantity:    b.Quantity,
		Status:      string(b.Status),
		PickupCode:  b.PickupCode,
		CreatedAt:   b.CreatedAt.Format(time.RFC3339),
		UpdatedAt:   b.UpdatedAt.Format(time.RFC3339),
	}
}

// BookingService applies booking mutations and hands every committed
// creation or status change to the Reactor. It never writes notifications
// itself.
type BookingService struct {
	bookingRepo    ports.BookingRepository
	codeRepo       ports.PickupCodeRepository
	refRepo        ports.ReferenceRepository
	reactor        *Reactor
	clock          clock.Clock
	reactorTimeout time.Duration
	logger         *slog.Logger
}

func NewBookingService(
	bookingRepo ports.BookingRepository,
	codeRepo ports.PickupCodeRepository,
	refRepo ports.ReferenceRepository,
	reactor *Reactor,
	c clock.Clock,
	reactorTimeout time.Duration,
	logger *slog.Logger,
) *BookingService {
	if reactorTimeout <= 0 {
		reactorTimeout = DefaultReactorTimeout
	}

	return &BookingService{
		bookingRepo:    bookingRepo,
		codeRepo:       codeRepo,
		refRepo:        refRepo,
		reactor:        reactor,
		clock:          c,
		reactorTimeout: reactorTimeout,
		logger:         logger,
	}
}

func (s *BookingService) CreateBooking(ctx context.Context, actor domain.Actor, req CreateBookingRequest) (*BookingResponse, error) {
	productID, err := uuid.Parse(req.ProductID)
	if err != nil {
		return nil, ErrInvalidProductID
	}

	if req.Quantity <= 0 {
		return nil, domain.ErrInvalidQuantity
	}

	if _, err := s.refRepo.GetProduct(ctx, productID); err != nil {
		return nil, err
	}

	now := s.clock.Now()
	booking := &domain.Booking{
		ID:          uuid.New(),
		ProductID:   productID,
		RequesterID: actor.UserID,
		Quantity:    req.Quantity,
		Status:      domain.BookingPending,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := s.bookingRepo.CreateBooking(ctx, booking); err != nil {
		return nil, fmt.Errorf("create booking: %w", err)
	}

	s.react(ctx, domain.CreationOf(booking))

	return NewBookingResponse(booking), nil
}

func (s *BookingService) GetBooking(ctx context.Context, actor domain.Actor, bookingID uuid.UUID) (*BookingResponse, error) {
	booking, _, err := s.loadVisible(ctx, actor, bookingID)
	if err != nil {
		return nil, err
	}

	return NewBookingResponse(booking), nil
}

// ChangeStatus moves a booking along its state machine. The update is a
// compare-and-set on the status the caller observed, so two racing
// transitions cannot both commit.
func (s *BookingService) ChangeStatus(ctx context.Context, actor domain.Actor, bookingID uuid.UUID, to domain.BookingStatus) (*BookingResponse, error) {
	booking, product, err := s.load(ctx, bookingID)
	if err != nil {
		return nil, err
	}

	if !canChangeStatus(actor, booking, product, to) {
		return nil, domain.ErrForbidden
	}

	from := booking.Status
	if !from.CanTransitionTo(to) {
		return nil, fmt.Errorf("%w: %s -> %s", domain.ErrInvalidTransition, from, to)
	}

	updated, err := s.bookingRepo.UpdateStatus(ctx, bookingID, from, to, s.clock.Now())
	if err != nil {
		return nil, err
	}

	s.react(ctx, domain.StatusChange(bookingID, from, to))

	// The reactor may have written the pickup code after UpdateStatus returned.
	if fresh, err := s.bookingRepo.GetByID(ctx, bookingID); err == nil {
		updated = fresh
	}

	return NewBookingResponse(updated), nil
}

// UpdateQuantity edits a pending booking. It is not a status change and
// never reaches the reactor.
func (s *BookingService) UpdateQuantity(ctx context.Context, actor domain.Actor, bookingID uuid.UUID, quantity int) (*BookingResponse, error) {
	if quantity <= 0 {
		return nil, domain.ErrInvalidQuantity
	}

	booking, _, err := s.load(ctx, bookingID)
	if err != nil {
		return nil, err
	}

	if booking.RequesterID != actor.UserID && !actor.IsStaff() {
		return nil, domain.ErrForbidden
	}

	if booking.Status != domain.BookingPending {
		return nil, domain.ErrBookingNotEditable
	}

	updated, err := s.bookingRepo.UpdateQuantity(ctx, bookingID, quantity, s.clock.Now())
	if errors.Is(err, ports.ErrStatusConflict) {
		return nil, domain.ErrBookingNotEditable
	}

	if err != nil {
		return nil, err
	}

	return NewBookingResponse(updated), nil
}

func (s *BookingService) GetPickupCode(ctx context.Context, actor domain.Actor, bookingID uuid.UUID) (*PickupCodeResponse, error) {
	if _, _, err := s.loadVisible(ctx, actor, bookingID); err != nil {
		return nil, err
	}

	code, err := s.codeRepo.GetByBookingID(ctx, bookingID)
	if err != nil {
		return nil, err
	}

	return &PickupCodeResponse{
		BookingID: code.BookingID.String(),
		Code:      code.Code,
		IssuedAt:  code.IssuedAt.Format(time.RFC3339),
		ExpiresAt: code.ExpiresAt.Format(time.RFC3339),
		Expired:   code.Expired(s.clock.Now()),
	}, nil
}

// react runs the reactor after a committed mutation. The mutation stays
// committed whatever happens here; failures are left to event redelivery
// and the reconciler.
func (s *BookingService) react(ctx context.Context, t domain.Transition) {
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), s.reactorTimeout)
	defer cancel()

	if _, err := s.reactor.React(ctx, t); err != nil {
		s.logger.Error("reactor failed after committed transition",
			"booking_id", t.BookingID, "status", t.NewStatus, "err", err)
	}
}

func (s *BookingService) load(ctx context.Context, bookingID uuid.UUID) (*domain.Booking, *domain.Product, error) {
	booking, err := s.bookingRepo.GetByID(ctx, bookingID)
	if err != nil {
		return nil, nil, err
	}

	product, err := s.refRepo.GetProduct(ctx, booking.ProductID)
	if errors.Is(err, domain.ErrProductNotFound) {
		return booking, nil, nil
	}

	if err != nil {
		return nil, nil, err
	}

	return booking, product, nil
}

func (s *BookingService) loadVisible(ctx context.Context, actor domain.Actor, bookingID uuid.UUID) (*domain.Booking, *domain.Product, error) {
	booking, product, err := s.load(ctx, bookingID)
	if err != nil {
		return nil, nil, err
	}

	if booking.RequesterID == actor.UserID || actor.IsStaff() {
		return booking, product, nil
	}

	if product != nil && product.IsOwnedBy(actor.UserID) {
		return booking, product, nil
	}

	return nil, nil, domain.ErrForbidden
}

// canChangeStatus: staff and the enterprise owner drive the lifecycle; the
// requester may only withdraw a booking that is still pending.
func canChangeStatus(actor domain.Actor, booking *domain.Booking, product *domain.Product, to domain.BookingStatus) bool {
	if actor.IsStaff() {
		return true
	}

	if product != nil && product.IsOwnedBy(actor.UserID) {
		return true
	}

	return to == domain.BookingCancelled &&
		booking.Status == domain.BookingPending &&
		booking.RequesterID == actor.UserID
}
