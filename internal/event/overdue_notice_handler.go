package event

import (
	"context"
	"coop-collections/internal/domain/notice"
	"coop-collections/internal/infrastructure/monitoring"
	"encoding/json"
	"log/slog"

	amqp "github.com/rabbitmq/amqp091-go"
)

// OverdueNoticeHandler turns obligation.overdue events into member notices.
type OverdueNoticeHandler struct {
	repo   notice.Repository
	logger *slog.Logger
}

func NewOverdueNoticeHandler(repo notice.Repository, logger *slog.Logger) *OverdueNoticeHandler {
	if repo == nil {
		panic("notice repository cannot be nil")
	}
	return &OverdueNoticeHandler{
		repo:   repo,
		logger: logger.With("component", "OverdueNoticeHandler"),
	}
}

// HandleDelivery acknowledges every message exactly once. Malformed messages
// are dropped; a storage failure is requeued once and dropped on redelivery.
func (h *OverdueNoticeHandler) HandleDelivery(ctx context.Context, d amqp.Delivery) {
	logCtx := h.logger.With(slog.Uint64("deliveryTag", d.DeliveryTag), slog.String("routingKey", d.RoutingKey), slog.String("messageId", d.MessageId))

	if d.RoutingKey != RoutingKeyObligationOverdue {
		logCtx.WarnContext(ctx, "Received message with unknown routing key. Discarding.")
		monitoring.RecordNoticeConsumed("rejected")
		_ = d.Reject(false)
		return
	}

	var evt ObligationOverdueEvent
	if err := json.Unmarshal(d.Body, &evt); err != nil {
		logCtx.ErrorContext(ctx, "Failed to unmarshal ObligationOverdueEvent", "error", err, "body", string(d.Body))
		monitoring.RecordNoticeConsumed("malformed")
		_ = d.Nack(false, false)
		return
	}

	n, err := notice.NewOverdueNotice(notice.Overdue{
		MemberID:    evt.MemberID,
		MemberName:  evt.MemberName,
		Type:        evt.Type,
		ReferenceID: evt.ReferenceID,
		PayAmount:   evt.PayAmount,
		DueDate:     evt.DueDate,
		DaysOverdue: evt.DaysOverdue,
	})
	if err != nil {
		logCtx.ErrorContext(ctx, "Invalid overdue event", "error", err)
		monitoring.RecordNoticeConsumed("malformed")
		_ = d.Nack(false, false)
		return
	}

	logCtx = logCtx.With(slog.String("type", evt.Type), slog.Int64("referenceID", evt.ReferenceID))
	created, err := h.repo.Record(ctx, n)
	if err != nil {
		requeue := !d.Redelivered
		logCtx.ErrorContext(ctx, "Failed to record notice", "error", err, "requeue", requeue)
		monitoring.RecordNoticeConsumed("failure")
		_ = d.Nack(false, requeue)
		return
	}

	status := "recorded"
	if !created {
		status = "duplicate"
	}
	monitoring.RecordNoticeConsumed(status)

	if err := d.Ack(false); err != nil {
		logCtx.ErrorContext(ctx, "Failed to acknowledge message after processing", "error", err)
		return
	}
	logCtx.InfoContext(ctx, "Processed overdue event", "outcome", status)
}
