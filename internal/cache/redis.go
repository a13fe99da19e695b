package cache

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

const invalidationChannel = "listings:invalidate"

// RedisBus announces listing changes on a Redis channel. Every replica runs one and evicts the
// order numbers announced by the others.
type RedisBus struct {
	client *redis.Client
	origin string
	logger *zap.Logger
}

func NewRedisBus(client *redis.Client, logger *zap.Logger) *RedisBus {
	return &RedisBus{client: client, origin: uuid.NewString(), logger: logger}
}

func (b *RedisBus) Announce(ctx context.Context, orderNumber string) error {
	if err := b.client.Publish(ctx, invalidationChannel, b.origin+" "+orderNumber).Err(); err != nil {
		return fmt.Errorf("failed to announce listing %s: %w", orderNumber, err)
	}
	return nil
}

// Run evicts listings announced by other replicas from c until ctx is done.
func (b *RedisBus) Run(ctx context.Context, c *ListingCache) error {
	ps := b.client.Subscribe(ctx, invalidationChannel)
	defer ps.Close()

	if _, err := ps.Receive(ctx); err != nil {
		if ctx.Err() != nil {
			return nil
		}
		return fmt.Errorf("failed to subscribe to listing invalidations: %w", err)
	}
	b.logger.Info("Listening for listing invalidations on redis", zap.String("channel", invalidationChannel))

	ch := ps.Channel()
	for {
		select {
		case <-ctx.Done():
			return nil
		case msg, ok := <-ch:
			if !ok {
				return nil
			}
			origin, orderNumber, found := strings.Cut(msg.Payload, " ")
			if !found || orderNumber == "" {
				b.logger.Warn("Ignoring malformed listing invalidation", zap.String("payload", msg.Payload))
				continue
			}
			if origin == b.origin {
				continue
			}
			c.Evict(orderNumber)
		}
	}
}
