package server

import (
	"context"
	"encoding/json"
	"fmt"

	"gitlab.ozon.dev/pupkingeorgij/freightmarket/internal/repository"
	"gitlab.ozon.dev/pupkingeorgij/freightmarket/internal/storage"
)

type AuditLogEntry = repository.AuditLogPayload

// AuditSink persists one batch of audit entries.
type AuditSink interface {
	WriteBatch(ctx context.Context, batch []AuditLogEntry) error
}

// OutboxAuditSink stores audit entries as outbox tasks so the publisher ships them to Kafka.
type OutboxAuditSink struct {
	txm    storage.TxBeginner
	outbox storage.EventOutbox
	topic  string
}

func NewOutboxAuditSink(txm storage.TxBeginner, outbox storage.EventOutbox, topic string) *OutboxAuditSink {
	return &OutboxAuditSink{txm: txm, outbox: outbox, topic: topic}
}

func (s *OutboxAuditSink) WriteBatch(ctx context.Context, batch []AuditLogEntry) error {
	tx, err := s.txm.BeginTx(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() {
		_ = tx.Rollback(context.Background())
	}()

	for _, entry := range batch {
		payload, err := json.Marshal(entry)
		if err != nil {
			return fmt.Errorf("failed to marshal audit entry: %w", err)
		}
		task := &repository.OutboxTask{
			Status:  repository.TaskStatusCreated,
			Payload: payload,
			Topic:   s.topic,
		}
		if err := s.outbox.CreateTx(ctx, tx, task); err != nil {
			return fmt.Errorf("failed to enqueue audit entry: %w", err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit audit batch: %w", err)
	}
	return nil
}
