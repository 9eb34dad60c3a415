package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/srgjo27/enterprise_booking/internal/core/domain"
)

type notificationKey struct {
	recipientID uuid.UUID
	bookingID   uuid.UUID
	kind        domain.NotificationKind
}

type NotificationRepository struct {
	mu    sync.Mutex
	byKey map[notificationKey]uuid.UUID
	byID  map[uuid.UUID]domain.Notification
}

func NewNotificationRepository() *NotificationRepository {
	return &NotificationRepository{
		byKey: make(map[notificationKey]uuid.UUID),
		byID:  make(map[uuid.UUID]domain.Notification),
	}
}

func (r *NotificationRepository) InsertIfAbsent(ctx context.Context, n *domain.Notification) (bool, error) {
	key := notificationKey{recipientID: n.RecipientID, bookingID: n.BookingID, kind: n.Kind}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.byKey[key]; exists {
		return false, nil
	}

	r.byKey[key] = n.ID
	r.byID[n.ID] = *n

	return true, nil
}

func (r *NotificationRepository) ListByRecipient(ctx context.Context, recipientID uuid.UUID, unreadOnly bool) ([]domain.Notification, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var out []domain.Notification
	for _, n := range r.byID {
		if n.RecipientID != recipientID || n.IsDeleted() {
			continue
		}
		if unreadOnly && n.Read {
			continue
		}
		out = append(out, n)
	}

	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })

	return out, nil
}

func (r *NotificationRepository) MarkRead(ctx context.Context, recipientID, notificationID uuid.UUID) error {
	return r.mutate(recipientID, notificationID, func(n *domain.Notification) {
		n.Read = true
	})
}

func (r *NotificationRepository) Delete(ctx context.Context, recipientID, notificationID uuid.UUID, deletedAt time.Time) error {
	return r.mutate(recipientID, notificationID, func(n *domain.Notification) {
		n.DeletedAt = &deletedAt
	})
}

func (r *NotificationRepository) mutate(recipientID, notificationID uuid.UUID, fn func(*domain.Notification)) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	n, ok := r.byID[notificationID]
	if !ok || n.RecipientID != recipientID || n.IsDeleted() {
		return domain.ErrNotificationNotFound
	}

	fn(&n)
	r.byID[notificationID] = n
	return nil
}

// ForBooking returns every stored notification of a booking, deleted ones
// included, ordered by kind and recipient.
func (r *NotificationRepository) ForBooking(bookingID uuid.UUID) []domain.Notification {
	r.mu.Lock()
	defer r.mu.Unlock()

	var out []domain.Notification
	for _, n := range r.byID {
		if n.BookingID == bookingID {
			out = append(out, n)
		}
	}

	sort.Slice(out, func(i, j int) bool {
		if out[i].Kind != out[j].Kind {
			return out[i].Kind < out[j].Kind
		}
		return out[i].RecipientID.String() < out[j].RecipientID.String()
	})

	return out
}

