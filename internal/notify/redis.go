package notify

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

const channelPrefix = "notifications:user_"

func Channel(userID int64) string {
	return channelPrefix + strconv.FormatInt(userID, 10)
}

func parseChannel(channel string) (int64, bool) {
	raw, ok := strings.CutPrefix(channel, channelPrefix)
	if !ok {
		return 0, false
	}
	userID, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return 0, false
	}
	return userID, true
}

// RedisPubSub publishes through Redis so every API replica reaches its own connections. Local
// subscribers are kept in a Hub fed by Run.
type RedisPubSub struct {
	client *redis.Client
	local  *Hub
	logger *zap.Logger
}

func NewRedisPubSub(client *redis.Client, local *Hub, logger *zap.Logger) *RedisPubSub {
	return &RedisPubSub{client: client, local: local, logger: logger}
}

func (p *RedisPubSub) Publish(ctx context.Context, userID int64, message string) error {
	payload, err := Frame(message)
	if err != nil {
		return fmt.Errorf("failed to encode notification frame: %w", err)
	}
	if err := p.client.Publish(ctx, Channel(userID), payload).Err(); err != nil {
		return fmt.Errorf("failed to publish notification: %w", err)
	}
	return nil
}

func (p *RedisPubSub) Subscribe(userID int64, sub Subscriber) {
	p.local.Subscribe(userID, sub)
}

func (p *RedisPubSub) Unsubscribe(userID int64, sub Subscriber) {
	p.local.Unsubscribe(userID, sub)
}

// Run relays published frames to local subscribers until ctx is done.
func (p *RedisPubSub) Run(ctx context.Context) error {
	ps := p.client.PSubscribe(ctx, channelPrefix+"*")
	defer ps.Close()

	if _, err := ps.Receive(ctx); err != nil {
		if ctx.Err() != nil {
			return nil
		}
		return fmt.Errorf("failed to subscribe to notification channels: %w", err)
	}
	p.logger.Info("Listening for notifications on redis", zap.String("pattern", channelPrefix+"*"))

	ch := ps.Channel()
	for {
		select {
		case <-ctx.Done():
			return nil
		case msg, ok := <-ch:
			if !ok {
				return nil
			}
			userID, ok := parseChannel(msg.Channel)
			if !ok {
				p.logger.Warn("Ignoring message on unexpected channel", zap.String("channel", msg.Channel))
				continue
			}
			p.local.Deliver(userID, []byte(msg.Payload))
		}
	}
}
