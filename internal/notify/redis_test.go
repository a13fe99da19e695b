package notify_test

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"gitlab.ozon.dev/pupkingeorgij/freightmarket/internal/notify"
	mock_notify "gitlab.ozon.dev/pupkingeorgij/freightmarket/internal/notify/mocks"
)

type instance struct {
	pubsub *notify.RedisPubSub
	hub    *notify.Hub
}

// startInstance runs one API instance's relay against mr and waits until it is subscribed.
func startInstance(t *testing.T, mr *miniredis.Miniredis, logger *zap.Logger) *instance {
	t.Helper()
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	hub := notify.NewHub()
	ps := notify.NewRedisPubSub(client, hub, logger)

	patterns := mr.PubSubNumPat()
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- ps.Run(ctx) }()
	t.Cleanup(func() {
		cancel()
		select {
		case err := <-done:
			assert.NoError(t, err)
		case <-time.After(5 * time.Second):
			t.Error("redis relay did not stop")
		}
	})

	require.Eventually(t, func() bool { return mr.PubSubNumPat() == patterns+1 }, 5*time.Second, 10*time.Millisecond)
	return &instance{pubsub: ps, hub: hub}
}

// frames returns a subscriber that forwards every delivered frame to the channel.
func frames(ctrl *gomock.Controller) (*mock_notify.MockSubscriber, <-chan []byte) {
	got := make(chan []byte, 8)
	sub := mock_notify.NewMockSubscriber(ctrl)
	sub.EXPECT().Deliver(gomock.Any()).DoAndReturn(func(frame []byte) bool {
		got <- frame
		return true
	}).AnyTimes()
	return sub, got
}

func receive(t *testing.T, got <-chan []byte) []byte {
	t.Helper()
	select {
	case frame := <-got:
		return frame
	case <-time.After(5 * time.Second):
		t.Fatal("no frame delivered")
		return nil
	}
}

func TestRedisPubSub_PublishReachesSubscribersOfUser(t *testing.T) {
	ctrl := gomock.NewController(t)
	mr := miniredis.RunT(t)
	inst := startInstance(t, mr, zap.NewNop())

	sub, got := frames(ctrl)
	other, otherGot := frames(ctrl)
	inst.pubsub.Subscribe(7, sub)
	inst.pubsub.Subscribe(8, other)

	require.NoError(t, inst.pubsub.Publish(context.Background(), 7, "Вам поступил новый запрос от carrier"))

	want, err := notify.Frame("Вам поступил новый запрос от carrier")
	require.NoError(t, err)
	assert.Equal(t, want, receive(t, got))
	assert.Empty(t, otherGot)
}

func TestRedisPubSub_FansOutAcrossInstances(t *testing.T) {
	ctrl := gomock.NewController(t)
	mr := miniredis.RunT(t)
	a := startInstance(t, mr, zap.NewNop())
	b := startInstance(t, mr, zap.NewNop())

	onA, gotA := frames(ctrl)
	onB, gotB := frames(ctrl)
	a.pubsub.Subscribe(7, onA)
	b.pubsub.Subscribe(7, onB)

	require.NoError(t, a.pubsub.Publish(context.Background(), 7, "Ваш запрос был принят owner"))

	want, err := notify.Frame("Ваш запрос был принят owner")
	require.NoError(t, err)
	assert.Equal(t, want, receive(t, gotA))
	assert.Equal(t, want, receive(t, gotB))

	b.pubsub.Unsubscribe(7, onB)
	assert.Zero(t, b.hub.Subscribers(7))
}

func TestRedisPubSub_IgnoresUnexpectedChannels(t *testing.T) {
	ctrl := gomock.NewController(t)
	mr := miniredis.RunT(t)
	core, logs := observer.New(zap.WarnLevel)
	inst := startInstance(t, mr, zap.New(core))

	sub, got := frames(ctrl)
	inst.pubsub.Subscribe(7, sub)

	mr.Publish("notifications:user_abc", `{"message":"lost"}`)
	require.NoError(t, inst.pubsub.Publish(context.Background(), 7, "delivered"))

	want, err := notify.Frame("delivered")
	require.NoError(t, err)
	assert.Equal(t, want, receive(t, got))
	assert.Empty(t, got)

	// The bad message was published first, so it has been handled by now.
	entries := logs.FilterMessage("Ignoring message on unexpected channel").All()
	require.Len(t, entries, 1)
	assert.Equal(t, "notifications:user_abc", entries[0].ContextMap()["channel"])
}

func TestRedisPubSub_PublishFailsWithoutServer(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr(), MaxRetries: -1})
	t.Cleanup(func() { _ = client.Close() })
	mr.Close()

	ps := notify.NewRedisPubSub(client, notify.NewHub(), zap.NewNop())

	assert.Error(t, ps.Publish(context.Background(), 7, "hello"))
	assert.Error(t, ps.Run(context.Background()))
}
