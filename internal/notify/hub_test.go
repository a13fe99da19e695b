package notify_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"gitlab.ozon.dev/pupkingeorgij/freightmarket/internal/notify"
	mock_notify "gitlab.ozon.dev/pupkingeorgij/freightmarket/internal/notify/mocks"
)

func TestHub_PublishFansOutToUserOnly(t *testing.T) {
	ctrl := gomock.NewController(t)
	hub := notify.NewHub()

	first := mock_notify.NewMockSubscriber(ctrl)
	second := mock_notify.NewMockSubscriber(ctrl)
	other := mock_notify.NewMockSubscriber(ctrl)
	hub.Subscribe(1, first)
	hub.Subscribe(1, second)
	hub.Subscribe(2, other)

	want, err := notify.Frame("hi")
	require.NoError(t, err)
	first.EXPECT().Deliver(want).Return(true)
	second.EXPECT().Deliver(want).Return(true)

	require.NoError(t, hub.Publish(context.Background(), 1, "hi"))
}

func TestHub_SubscribeIsIdempotent(t *testing.T) {
	ctrl := gomock.NewController(t)
	hub := notify.NewHub()
	sub := mock_notify.NewMockSubscriber(ctrl)

	hub.Subscribe(1, sub)
	hub.Subscribe(1, sub)
	assert.Equal(t, 1, hub.Subscribers(1))

	hub.Unsubscribe(1, sub)
	hub.Unsubscribe(1, sub)
	assert.Zero(t, hub.Subscribers(1))

	require.NoError(t, hub.Publish(context.Background(), 1, "nobody listens"))
}

func TestHub_DropsSlowSubscriber(t *testing.T) {
	ctrl := gomock.NewController(t)
	hub := notify.NewHub()
	slow := mock_notify.NewMockSubscriber(ctrl)
	hub.Subscribe(1, slow)

	closed := make(chan struct{})
	slow.EXPECT().Deliver(gomock.Any()).Return(false)
	slow.EXPECT().Close().Do(func() { close(closed) })

	require.NoError(t, hub.Publish(context.Background(), 1, "hi"))

	select {
	case <-closed:
	case <-time.After(time.Second):
		t.Fatal("slow subscriber was not closed")
	}
	assert.Zero(t, hub.Subscribers(1))
}

func TestChannel(t *testing.T) {
	assert.Equal(t, "notifications:user_42", notify.Channel(42))
}
