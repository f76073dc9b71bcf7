package entities

import (
	"errors"
	"time"
)

type NotificationType string

const (
	NotificationInfo    NotificationType = "info"
	NotificationSuccess NotificationType = "success"
	NotificationError   NotificationType = "error"
)

// Notification is purely informational: it is written as a side effect of
// shipment/offer transitions and never feeds back into their state.
type Notification struct {
	ID          int64
	RecipientID int64
	Title       string
	Message     string
	Type        NotificationType
	Read        bool
	CreatedAt   time.Time
}

var ErrNotificationNotFound = errors.New("notification not found")

// Event is one logical state transition addressed to every actor it concerns.
// The dispatcher persists one notification row per recipient and pushes the
// same payload over the realtime transport.
type Event struct {
	Kind       string
	ShipmentID int64
	OfferID    int64
	Recipients []EventRecipient
}

type EventRecipient struct {
	UserID  int64
	Title   string
	Message string
	Type    NotificationType
}
