package postgresql

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v4"

	"gitlab.ozon.dev/pupkingeorgij/freightmarket/internal/db"
	"gitlab.ozon.dev/pupkingeorgij/freightmarket/internal/notify"
	"gitlab.ozon.dev/pupkingeorgij/freightmarket/internal/repository"
)

type NotificationRepo struct {
	db db.DB
}

func NewNotificationRepo(db db.DB) notify.NotificationRepository {
	return &NotificationRepo{db: db}
}

func (r *NotificationRepo) Create(ctx context.Context, notification *repository.Notification) error {
	return r.db.Get(ctx, &notification.ID, `
        INSERT INTO notifications (receiver_id, message, is_read, created_at)
        VALUES ($1, $2, $3, $4)
        RETURNING id
    `, notification.ReceiverID, notification.Message, notification.IsRead, notification.CreatedAt)
}

func (r *NotificationRepo) ListByReceiver(ctx context.Context, receiverID int64) ([]*repository.Notification, error) {
	var notifications []*repository.Notification
	err := r.db.Select(ctx, &notifications, `
        SELECT id, receiver_id, message, is_read, created_at
        FROM notifications
        WHERE receiver_id = $1
        ORDER BY created_at DESC, id DESC
    `, receiverID)
	if err != nil {
		return nil, fmt.Errorf("failed to list notifications: %w", err)
	}
	return notifications, nil
}

func (r *NotificationRepo) MarkRead(ctx context.Context, id, receiverID int64) (bool, error) {
	tag, err := r.db.Exec(ctx, "UPDATE notifications SET is_read = TRUE WHERE id = $1 AND receiver_id = $2", id, receiverID)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() > 0, nil
}

type ProfileRepo struct {
	db db.DB
}

func NewProfileRepo(db db.DB) notify.PreferenceRepository {
	return &ProfileRepo{db: db}
}

func (r *ProfileRepo) NotificationsEnabled(ctx context.Context, userID int64) (bool, error) {
	var enabled bool
	err := r.db.Get(ctx, &enabled, "SELECT notifications_enabled FROM profiles WHERE user_id = $1", userID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return false, repository.ErrObjectNotFound
		}
		return false, err
	}
	return enabled, nil
}

func (r *ProfileRepo) SetNotificationsEnabled(ctx context.Context, userID int64, enabled bool) error {
	_, err := r.db.Exec(ctx, `
        INSERT INTO profiles (user_id, notifications_enabled) VALUES ($1, $2)
        ON CONFLICT (user_id) DO UPDATE SET notifications_enabled = EXCLUDED.notifications_enabled
    `, userID, enabled)
	return err
}
