package service

import (
	"context"
	"encoding/json"
	"log/slog"
	"strconv"

	"github.com/cargolink/freight-service/internal/entities"

	"github.com/segmentio/kafka-go"
)

type NotificationRepo interface {
	InsertNotification(ctx context.Context, n entities.Notification) (int64, error)
	ListNotifications(ctx context.Context, recipientID int64, unreadOnly bool) ([]entities.Notification, error)
	MarkNotificationRead(ctx context.Context, id, recipientID int64) error
	DeleteNotification(ctx context.Context, id, recipientID int64) error
}

// Pusher is the realtime transport. Send to an offline recipient is a no-op.
type Pusher interface {
	Send(userID int64, payload []byte) error
}

// EventWriter is the outbound event stream, satisfied by *kafka.Writer.
type EventWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
}

// Notifier translates committed state transitions into notification rows, a
// websocket push, and a kafka event. Everything here is best-effort: a failed
// delivery is logged and never propagated back to the business operation that
// produced the event.
type Notifier struct {
	logger *slog.Logger
	repo   NotificationRepo
	hub    Pusher
	writer EventWriter
}

func NewNotifier(logger *slog.Logger, repo NotificationRepo, hub Pusher, writer EventWriter) *Notifier {
	return &Notifier{
		logger: logger.With(slog.String("service", "notifier")),
		repo:   repo,
		hub:    hub,
		writer: writer,
	}
}

type pushPayload struct {
	Title   string `json:"title"`
	Message string `json:"message"`
	Type    string `json:"type"`
}

type streamEvent struct {
	Kind       string `json:"kind"`
	ShipmentID int64  `json:"shipment_id"`
	OfferID    int64  `json:"offer_id,omitempty"`
}

func (n *Notifier) Dispatch(ctx context.Context, ev entities.Event) {
	for _, rec := range ev.Recipients {
		if _, err := n.repo.InsertNotification(ctx, entities.Notification{
			RecipientID: rec.UserID,
			Title:       rec.Title,
			Message:     rec.Message,
			Type:        rec.Type,
		}); err != nil {
			n.logger.ErrorContext(ctx, "failed to persist notification",
				slog.Int64("recipient_id", rec.UserID),
				slog.String("kind", ev.Kind),
				slog.Any("error", err),
			)
		}

		payload, err := json.Marshal(pushPayload{
			Title:   rec.Title,
			Message: rec.Message,
			Type:    string(rec.Type),
		})
		if err != nil {
			n.logger.ErrorContext(ctx, "failed to marshal push payload", slog.Any("error", err))
			continue
		}
		if err := n.hub.Send(rec.UserID, payload); err != nil {
			n.logger.WarnContext(ctx, "failed to push notification",
				slog.Int64("recipient_id", rec.UserID),
				slog.Any("error", err),
			)
		}
	}

	value, err := json.Marshal(streamEvent{Kind: ev.Kind, ShipmentID: ev.ShipmentID, OfferID: ev.OfferID})
	if err != nil {
		n.logger.ErrorContext(ctx, "failed to marshal stream event", slog.Any("error", err))
		return
	}
	if err := n.writer.WriteMessages(ctx, kafka.Message{
		Key:   []byte(strconv.FormatInt(ev.ShipmentID, 10)),
		Value: value,
	}); err != nil {
		n.logger.ErrorContext(ctx, "failed to publish event",
			slog.String("kind", ev.Kind),
			slog.Any("error", err),
		)
	}

	notificationsDispatched.Add(float64(len(ev.Recipients)))
}

// Inbox surface; notifications are advisory and independently mutable.

func (n *Notifier) ListInbox(ctx context.Context, actor entities.Actor, unreadOnly bool) ([]entities.Notification, error) {
	return n.repo.ListNotifications(ctx, actor.UserID, unreadOnly)
}

func (n *Notifier) MarkRead(ctx context.Context, actor entities.Actor, id int64) error {
	return n.repo.MarkNotificationRead(ctx, id, actor.UserID)
}

func (n *Notifier) Delete(ctx context.Context, actor entities.Actor, id int64) error {
	return n.repo.DeleteNotification(ctx, id, actor.UserID)
}
