package main

import (
	"context"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/segmentio/kafka-go"
	"github.com/spf13/pflag"
	"go.uber.org/zap"

	"gitlab.ozon.dev/pupkingeorgij/freightmarket/internal/logger"
)

func main() {
	brokers := pflag.String("brokers", "localhost:9092", "comma separated Kafka brokers")
	topic := pflag.String("topic", "booking_events", "topic to tail, e.g. booking_events or audit_logs")
	groupID := pflag.String("group", "freightmarket-tail", "consumer group id")
	pflag.Parse()

	log, err := logger.New("info")
	if err != nil {
		panic(err)
	}
	defer func() { _ = log.Sync() }()

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	r := kafka.NewReader(kafka.ReaderConfig{
		Brokers:        strings.Split(*brokers, ","),
		GroupID:        *groupID,
		Topic:          *topic,
		MinBytes:       10e3,
		MaxBytes:       10e6,
		CommitInterval: time.Second,
		MaxWait:        3 * time.Second,
	})
	defer func() {
		log.Info("Closing Kafka reader")
		if err := r.Close(); err != nil {
			log.Error("Error closing Kafka reader", zap.Error(err))
		}
	}()

	log.Info("Consumer connected", zap.String("topic", *topic), zap.String("brokers", *brokers))

	for {
		m, err := r.ReadMessage(ctx)
		if err != nil {
			if ctx.Err() != nil {
				log.Info("Shutdown signal received, stopping consumer")
				return
			}
			log.Error("Error reading message", zap.Error(err))
			select {
			case <-ctx.Done():
				return
			case <-time.After(5 * time.Second):
			}
			continue
		}

		log.Info("Message",
			zap.Time("timestamp", m.Time),
			zap.Int("partition", m.Partition),
			zap.Int64("offset", m.Offset),
			zap.ByteString("key", m.Key),
			zap.ByteString("value", m.Value),
		)
	}
}
