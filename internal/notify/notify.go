//go:generate mockgen -source ./notify.go -destination=./mocks/notify.go -package=mock_notify

// Package notify persists user notifications and pushes them to connected clients.
package notify

import (
	"context"
	"encoding/json"
	"time"

	"gitlab.ozon.dev/pupkingeorgij/freightmarket/internal/repository"
)

type PreferenceRepository interface {
	// NotificationsEnabled returns repository.ErrObjectNotFound when the user has no profile.
	NotificationsEnabled(ctx context.Context, userID int64) (bool, error)
	SetNotificationsEnabled(ctx context.Context, userID int64, enabled bool) error
}

type NotificationRepository interface {
	Create(ctx context.Context, notification *repository.Notification) error
	ListByReceiver(ctx context.Context, receiverID int64) ([]*repository.Notification, error)
	MarkRead(ctx context.Context, id, receiverID int64) (bool, error)
}

// PubSub fans a message out to every live connection of a user.
type PubSub interface {
	Publish(ctx context.Context, userID int64, message string) error
	Subscribe(userID int64, sub Subscriber)
	Unsubscribe(userID int64, sub Subscriber)
}

// Subscriber is one live connection. Deliver must not block and reports false when the frame
// could not be queued.
type Subscriber interface {
	Deliver(frame []byte) bool
	Close()
}

type Notification struct {
	ID        int64     `json:"id"`
	Message   string    `json:"message"`
	IsRead    bool      `json:"is_read"`
	CreatedAt time.Time `json:"created_at"`
}

type frame struct {
	Message string `json:"message"`
}

// Frame encodes message the way clients receive it.
func Frame(message string) ([]byte, error) {
	return json.Marshal(frame{Message: message})
}
