package kafka

import (
	"context"
	"fmt"
	"time"

	kafkago "github.com/segmentio/kafka-go"
	"go.uber.org/zap"
)

type Producer interface {
	SendMessage(ctx context.Context, topic string, key []byte, value []byte) error
	Close() error
}

// BrokerProducer writes messages to a Kafka cluster. The topic is chosen per message.
type BrokerProducer struct {
	writer *kafkago.Writer
	logger *zap.Logger
}

func NewBrokerProducer(brokers []string, logger *zap.Logger) *BrokerProducer {
	return &BrokerProducer{
		writer: &kafkago.Writer{
			Addr:                   kafkago.TCP(brokers...),
			Balancer:               &kafkago.Hash{},
			RequiredAcks:           kafkago.RequireAll,
			AllowAutoTopicCreation: true,
			BatchTimeout:           10 * time.Millisecond,
		},
		logger: logger,
	}
}

func (p *BrokerProducer) SendMessage(ctx context.Context, topic string, key []byte, value []byte) error {
	err := p.writer.WriteMessages(ctx, kafkago.Message{Topic: topic, Key: key, Value: value})
	if err != nil {
		return fmt.Errorf("failed to write message to topic %s: %w", topic, err)
	}
	return nil
}

func (p *BrokerProducer) Close() error {
	p.logger.Info("Closing Kafka producer")
	return p.writer.Close()
}

// LogProducer only logs messages. It stands in for Kafka when no brokers are configured.
type LogProducer struct {
	logger *zap.Logger
}

func NewLogProducer(logger *zap.Logger) *LogProducer {
	logger.Info("No Kafka brokers configured, outbox messages will be logged")
	return &LogProducer{logger: logger}
}

func (p *LogProducer) SendMessage(ctx context.Context, topic string, key []byte, value []byte) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	p.logger.Info("Outbox message",
		zap.String("topic", topic),
		zap.ByteString("key", key),
		zap.ByteString("value", value),
	)
	return nil
}

func (p *LogProducer) Close() error {
	return nil
}
