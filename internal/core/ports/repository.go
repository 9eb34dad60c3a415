package ports

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/srgjo27/enterprise_booking/internal/core/domain"
)

var (
	// ErrStatusConflict means the stored status no longer matches the one the
	// caller read, so a concurrent transition won.
	ErrStatusConflict = errors.New("booking status changed concurrently")

	// ErrCodeCollision means the generated code value already belongs to
	// another booking.
	ErrCodeCollision = errors.New("pickup code value already in use")
)

type BookingRepository interface {
	CreateBooking(ctx context.Context, booking *domain.Booking) error
	GetByID(ctx context.Context, bookingID uuid.UUID) (*domain.Booking, error)
	UpdateStatus(ctx context.Context, bookingID uuid.UUID, from, to domain.BookingStatus, updatedAt time.Time) (*domain.Booking, error)
	UpdateQuantity(ctx context.Context, bookingID uuid.UUID, quantity int, updatedAt time.Time) (*domain.Booking, error)
	// SetPickupCode writes the code only when the booking has none yet.
	SetPickupCode(ctx context.Context, bookingID uuid.UUID, code string) error
	// ListUpdatedSince pages through bookings ordered by (updated_at, id),
	// returning those strictly after the (since, afterID) cursor.
	ListUpdatedSince(ctx context.Context, since time.Time, afterID uuid.UUID, limit int) ([]domain.Booking, error)
}

type PickupCodeRepository interface {
	// InsertIfAbsent stores code unless the booking already has one. It
	// returns the stored code and whether this call created it.
	InsertIfAbsent(ctx context.Context, code *domain.PickupCode) (*domain.PickupCode, bool, error)
	GetByBookingID(ctx context.Context, bookingID uuid.UUID) (*domain.PickupCode, error)
}

type NotificationRepository interface {
	// InsertIfAbsent reports false when a notification for the same
	// (recipient, booking, kind) already exists, deleted ones included.
	InsertIfAbsent(ctx context.Context, n *domain.Notification) (bool, error)
	ListByRecipient(ctx context.Context, recipientID uuid.UUID, unreadOnly bool) ([]domain.Notification, error)
	MarkRead(ctx context.Context, recipientID, notificationID uuid.UUID) error
	Delete(ctx context.Context, recipientID, notificationID uuid.UUID, deletedAt time.Time) error
}

type ReferenceRepository interface {
	GetProduct(ctx context.Context, productID uuid.UUID) (*domain.Product, error)
	ListStaff(ctx context.Context) ([]uuid.UUID, error)
}

// StatusNotifier is a best-effort outbound channel (e-mail, broker, ...).
type StatusNotifier interface {
	NotifyStatusChange(ctx context.Context, notice domain.StatusNotice) error
}
