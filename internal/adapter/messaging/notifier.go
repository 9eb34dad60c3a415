package messaging

import (
	"context"
	"log/slog"
	"time"

	"github.com/srgjo27/enterprise_booking/internal/core/domain"
)

type JSONPublisher interface {
	PublishJSON(ctx context.Context, key string, v any) error
}

// NoticePublisher sends status notices to the notices exchange.
type NoticePublisher struct {
	pub JSONPublisher
}

func NewNoticePublisher(pub JSONPublisher) *NoticePublisher {
	return &NoticePublisher{pub: pub}
}

func (n *NoticePublisher) NotifyStatusChange(ctx context.Context, notice domain.StatusNotice) error {
	msg := NoticeMessage{
		BookingID:   notice.BookingID.String(),
		RequesterID: notice.RequesterID.String(),
		ProductName: notice.ProductName,
		Status:      string(notice.Status),
		PickupCode:  notice.PickupCode,
		OccurredAt:  notice.OccurredAt.Format(time.RFC3339),
	}

	return n.pub.PublishJSON(ctx, NoticeRoutingKey(notice.Status), msg)
}

// LogNotifier stands in for the outbound channel when no broker is
// configured.
type LogNotifier struct {
	logger *slog.Logger
}

func NewLogNotifier(logger *slog.Logger) *LogNotifier {
	return &LogNotifier{logger: logger}
}

func (n *LogNotifier) NotifyStatusChange(ctx context.Context, notice domain.StatusNotice) error {
	n.logger.InfoContext(ctx, "booking status notice",
		"booking_id", notice.BookingID,
		"requester_id", notice.RequesterID,
		"status", notice.Status,
		"product", notice.ProductName,
		"has_pickup_code", notice.PickupCode != "")
	return nil
}
