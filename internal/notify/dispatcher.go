package notify

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"gitlab.ozon.dev/pupkingeorgij/freightmarket/internal/apperrors"
	"gitlab.ozon.dev/pupkingeorgij/freightmarket/internal/metrics"
	"gitlab.ozon.dev/pupkingeorgij/freightmarket/internal/repository"
)

// Dispatcher stores a notification for users who have them enabled and pushes it to their live
// connections. A failed push never fails the notification.
type Dispatcher struct {
	prefs         PreferenceRepository
	notifications NotificationRepository
	pubsub        PubSub
	pushTimeout   time.Duration
	logger        *zap.Logger
	now           func() time.Time
}

func NewDispatcher(prefs PreferenceRepository, notifications NotificationRepository, pubsub PubSub, pushTimeout time.Duration, logger *zap.Logger) *Dispatcher {
	return &Dispatcher{
		prefs:         prefs,
		notifications: notifications,
		pubsub:        pubsub,
		pushTimeout:   pushTimeout,
		logger:        logger,
		now:           func() time.Time { return time.Now().UTC() },
	}
}

func (d *Dispatcher) Notify(ctx context.Context, userID int64, message string) error {
	log := d.logger.With(zap.Int64("user_id", userID))

	enabled, err := d.prefs.NotificationsEnabled(ctx, userID)
	if errors.Is(err, repository.ErrObjectNotFound) {
		log.Warn("Profile not found, notification skipped")
		metrics.NotificationsDroppedTotal.WithLabelValues("no_profile").Inc()
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to load notification preference: %w", err)
	}
	if !enabled {
		log.Info("Notifications disabled for user, message not stored")
		metrics.NotificationsDroppedTotal.WithLabelValues("disabled").Inc()
		return nil
	}

	n := &repository.Notification{ReceiverID: userID, Message: message, CreatedAt: d.now()}
	if err := d.notifications.Create(ctx, n); err != nil {
		return fmt.Errorf("failed to store notification: %w", err)
	}
	metrics.NotificationsCreatedTotal.Inc()

	d.push(ctx, userID, message)
	return nil
}

func (d *Dispatcher) push(ctx context.Context, userID int64, message string) {
	pushCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), d.pushTimeout)
	defer cancel()

	if err := d.pubsub.Publish(pushCtx, userID, message); err != nil {
		metrics.NotificationPushFailuresTotal.Inc()
		d.logger.Warn("Failed to push notification", zap.Int64("user_id", userID), zap.Error(err))
	}
}

func (d *Dispatcher) List(ctx context.Context, userID int64) ([]*Notification, error) {
	rows, err := d.notifications.ListByReceiver(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list notifications: %w", err)
	}
	out := make([]*Notification, 0, len(rows))
	for _, row := range rows {
		out = append(out, &Notification{ID: row.ID, Message: row.Message, IsRead: row.IsRead, CreatedAt: row.CreatedAt})
	}
	return out, nil
}

func (d *Dispatcher) MarkRead(ctx context.Context, userID, notificationID int64) error {
	ok, err := d.notifications.MarkRead(ctx, notificationID, userID)
	if err != nil {
		return fmt.Errorf("failed to mark notification as read: %w", err)
	}
	if !ok {
		return apperrors.NotFound("notification %d not found", notificationID)
	}
	return nil
}

// Enabled reports the user's preference. Users without a profile count as disabled.
func (d *Dispatcher) Enabled(ctx context.Context, userID int64) (bool, error) {
	enabled, err := d.prefs.NotificationsEnabled(ctx, userID)
	if errors.Is(err, repository.ErrObjectNotFound) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("failed to load notification preference: %w", err)
	}
	return enabled, nil
}

func (d *Dispatcher) SetEnabled(ctx context.Context, userID int64, enabled bool) error {
	if err := d.prefs.SetNotificationsEnabled(ctx, userID, enabled); err != nil {
		return fmt.Errorf("failed to update notification preference: %w", err)
	}
	return nil
}
