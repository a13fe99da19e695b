package notify_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
	"go.uber.org/zap"

	"gitlab.ozon.dev/pupkingeorgij/freightmarket/internal/apperrors"
	"gitlab.ozon.dev/pupkingeorgij/freightmarket/internal/notify"
	mock_notify "gitlab.ozon.dev/pupkingeorgij/freightmarket/internal/notify/mocks"
	"gitlab.ozon.dev/pupkingeorgij/freightmarket/internal/repository"
)

type dispatcherDeps struct {
	prefs         *mock_notify.MockPreferenceRepository
	notifications *mock_notify.MockNotificationRepository
	pubsub        *mock_notify.MockPubSub
}

func newDispatcher(t *testing.T) (*notify.Dispatcher, dispatcherDeps) {
	ctrl := gomock.NewController(t)
	deps := dispatcherDeps{
		prefs:         mock_notify.NewMockPreferenceRepository(ctrl),
		notifications: mock_notify.NewMockNotificationRepository(ctrl),
		pubsub:        mock_notify.NewMockPubSub(ctrl),
	}
	d := notify.NewDispatcher(deps.prefs, deps.notifications, deps.pubsub, time.Second, zap.NewNop())
	return d, deps
}

func TestDispatcher_Notify(t *testing.T) {
	ctx := context.Background()

	t.Run("stores and pushes when enabled", func(t *testing.T) {
		d, deps := newDispatcher(t)

		deps.prefs.EXPECT().NotificationsEnabled(gomock.Any(), int64(7)).Return(true, nil)
		deps.notifications.EXPECT().Create(gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, n *repository.Notification) error {
				assert.Equal(t, int64(7), n.ReceiverID)
				assert.Equal(t, "hello", n.Message)
				assert.False(t, n.IsRead)
				n.ID = 1
				return nil
			})
		deps.pubsub.EXPECT().Publish(gomock.Any(), int64(7), "hello").
			DoAndReturn(func(ctx context.Context, _ int64, _ string) error {
				_, hasDeadline := ctx.Deadline()
				assert.True(t, hasDeadline, "push must be bounded by a timeout")
				return nil
			})

		require.NoError(t, d.Notify(ctx, 7, "hello"))
	})

	t.Run("disabled preference skips storage and push", func(t *testing.T) {
		d, deps := newDispatcher(t)

		deps.prefs.EXPECT().NotificationsEnabled(gomock.Any(), int64(7)).Return(false, nil)

		require.NoError(t, d.Notify(ctx, 7, "hello"))
	})

	t.Run("missing profile skips silently", func(t *testing.T) {
		d, deps := newDispatcher(t)

		deps.prefs.EXPECT().NotificationsEnabled(gomock.Any(), int64(8)).Return(false, repository.ErrObjectNotFound)

		require.NoError(t, d.Notify(ctx, 8, "hello"))
	})

	t.Run("push failure does not fail the notification", func(t *testing.T) {
		d, deps := newDispatcher(t)

		deps.prefs.EXPECT().NotificationsEnabled(gomock.Any(), int64(7)).Return(true, nil)
		deps.notifications.EXPECT().Create(gomock.Any(), gomock.Any()).Return(nil)
		deps.pubsub.EXPECT().Publish(gomock.Any(), int64(7), "hello").Return(errors.New("redis unavailable"))

		require.NoError(t, d.Notify(ctx, 7, "hello"))
	})

	t.Run("storage failure is reported", func(t *testing.T) {
		d, deps := newDispatcher(t)
		expectedErr := errors.New("insert failed")

		deps.prefs.EXPECT().NotificationsEnabled(gomock.Any(), int64(7)).Return(true, nil)
		deps.notifications.EXPECT().Create(gomock.Any(), gomock.Any()).Return(expectedErr)

		err := d.Notify(ctx, 7, "hello")
		assert.ErrorIs(t, err, expectedErr)
	})

	t.Run("preference lookup failure is reported", func(t *testing.T) {
		d, deps := newDispatcher(t)
		expectedErr := errors.New("select failed")

		deps.prefs.EXPECT().NotificationsEnabled(gomock.Any(), int64(7)).Return(false, expectedErr)

		err := d.Notify(ctx, 7, "hello")
		assert.ErrorIs(t, err, expectedErr)
	})
}

func TestDispatcher_MarkRead(t *testing.T) {
	ctx := context.Background()

	t.Run("own notification", func(t *testing.T) {
		d, deps := newDispatcher(t)
		deps.notifications.EXPECT().MarkRead(gomock.Any(), int64(3), int64(7)).Return(true, nil)

		assert.NoError(t, d.MarkRead(ctx, 7, 3))
	})

	t.Run("someone else's notification", func(t *testing.T) {
		d, deps := newDispatcher(t)
		deps.notifications.EXPECT().MarkRead(gomock.Any(), int64(3), int64(9)).Return(false, nil)

		err := d.MarkRead(ctx, 9, 3)
		assert.ErrorIs(t, err, apperrors.ErrNotFound)
	})
}

func TestDispatcher_List(t *testing.T) {
	d, deps := newDispatcher(t)
	created := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)

	deps.notifications.EXPECT().ListByReceiver(gomock.Any(), int64(7)).Return([]*repository.Notification{
		{ID: 2, ReceiverID: 7, Message: "second", CreatedAt: created},
		{ID: 1, ReceiverID: 7, Message: "first", IsRead: true, CreatedAt: created},
	}, nil)

	got, err := d.List(context.Background(), 7)
	require.NoError(t, err)
	assert.Equal(t, []*notify.Notification{
		{ID: 2, Message: "second", CreatedAt: created},
		{ID: 1, Message: "first", IsRead: true, CreatedAt: created},
	}, got)
}

func TestDispatcher_Enabled(t *testing.T) {
	ctx := context.Background()

	t.Run("missing profile counts as disabled", func(t *testing.T) {
		d, deps := newDispatcher(t)
		deps.prefs.EXPECT().NotificationsEnabled(gomock.Any(), int64(4)).Return(false, repository.ErrObjectNotFound)

		enabled, err := d.Enabled(ctx, 4)
		require.NoError(t, err)
		assert.False(t, enabled)
	})

	t.Run("set preference", func(t *testing.T) {
		d, deps := newDispatcher(t)
		deps.prefs.EXPECT().SetNotificationsEnabled(gomock.Any(), int64(4), false).Return(nil)

		assert.NoError(t, d.SetEnabled(ctx, 4, false))
	})
}
