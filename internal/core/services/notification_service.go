package services

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/srgjo27/enterprise_booking/internal/core/domain"
	"github.com/srgjo27/enterprise_booking/internal/core/ports"
	"github.com/srgjo27/enterprise_booking/internal/platform/clock"
)

type NotificationResponse struct {
	ID        string `json:"id"`
	BookingID string `json:"booking_id"`
	Kind      string `json:"kind"`
	Title     string `json:"title"`
	Body      string `json:"body"`
	Read      bool   `json:"read"`
	CreatedAt string `json:"created_at"`
}

// NotificationService is the recipient side of notifications. Only the
// recipient reads, marks or deletes their own notifications.
type NotificationService struct {
	notifRepo ports.NotificationRepository
	clock     clock.Clock
}

func NewNotificationService(notifRepo ports.NotificationRepository, c clock.Clock) *NotificationService {
	return &NotificationService{notifRepo: notifRepo, clock: c}
}

func (s *NotificationService) List(ctx context.Context, actor domain.Actor, unreadOnly bool) ([]NotificationResponse, error) {
	items, err := s.notifRepo.ListByRecipient(ctx, actor.UserID, unreadOnly)
	if err != nil {
		return nil, err
	}

	out := make([]NotificationResponse, 0, len(items))
	for _, n := range items {
		out = append(out, NotificationResponse{
			ID:        n.ID.String(),
			BookingID: n.BookingID.String(),
			Kind:      string(n.Kind),
			Title:     n.Title,
			Body:      n.Body,
			Read:      n.Read,
			CreatedAt: n.CreatedAt.Format(time.RFC3339),
		})
	}

	return out, nil
}

func (s *NotificationService) MarkRead(ctx context.Context, actor domain.Actor, notificationID uuid.UUID) error {
	return s.notifRepo.MarkRead(ctx, actor.UserID, notificationID)
}

// Delete hides the notification from the recipient. The row stays behind so
// the reactor can never create the same notification again.
func (s *NotificationService) Delete(ctx context.Context, actor domain.Actor, notificationID uuid.UUID) error {
	return s.notifRepo.Delete(ctx, actor.UserID, notificationID, s.clock.Now())
}
