package kafka

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"gitlab.ozon.dev/pupkingeorgij/freightmarket/internal/db"
	"gitlab.ozon.dev/pupkingeorgij/freightmarket/internal/metrics"
	"gitlab.ozon.dev/pupkingeorgij/freightmarket/internal/repository"
	"gitlab.ozon.dev/pupkingeorgij/freightmarket/internal/storage"
)

var errPublisherStopped = errors.New("publisher shutdown during batch processing")

type PublisherConfig struct {
	PollInterval time.Duration
	BatchSize    int
	MaxAttempts  int
}

// Publisher moves outbox tasks to the producer. Tasks are claimed in one transaction and sent
// after it commits, failed sends are retried until MaxAttempts.
type Publisher struct {
	db             db.DB
	repo           storage.OutboxTaskRepository
	producer       Producer
	config         PublisherConfig
	logger         *zap.Logger
	wg             sync.WaitGroup
	shutdownSignal chan struct{}
	stopOnce       sync.Once
}

func NewPublisher(db db.DB, repo storage.OutboxTaskRepository, producer Producer, config PublisherConfig, logger *zap.Logger) *Publisher {
	return &Publisher{
		db:             db,
		repo:           repo,
		producer:       producer,
		config:         config,
		logger:         logger,
		shutdownSignal: make(chan struct{}),
	}
}

// Start runs the poll loop in its own goroutine. Shutdown waits for that goroutine before
// closing the producer.
func (p *Publisher) Start(ctx context.Context) {
	p.wg.Add(1)
	go func() {
		defer p.wg.Done()
		p.run(ctx)
	}()
}

func (p *Publisher) run(ctx context.Context) {
	p.logger.Info("Starting outbox publisher", zap.Duration("poll_interval", p.config.PollInterval))
	ticker := time.NewTicker(p.config.PollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			if err := p.processBatch(ctx); err != nil && !errors.Is(err, errPublisherStopped) {
				p.logger.Error("Outbox publisher failed to process batch", zap.Error(err))
			}
		case <-p.shutdownSignal:
			p.logger.Info("Outbox publisher received shutdown signal, stopping")
			return
		case <-ctx.Done():
			p.logger.Info("Outbox publisher context cancelled, stopping")
			return
		}
	}
}

func (p *Publisher) Shutdown() {
	p.stopOnce.Do(func() {
		close(p.shutdownSignal)

		done := make(chan struct{})
		go func() {
			p.wg.Wait()
			close(done)
		}()
		select {
		case <-done:
			p.logger.Info("Outbox publisher shutdown complete")
		case <-time.After(30 * time.Second):
			p.logger.Warn("Outbox publisher shutdown timed out")
		}

		if err := p.producer.Close(); err != nil {
			p.logger.Error("Failed to close producer", zap.Error(err))
		}
	})
}

func (p *Publisher) processBatch(ctx context.Context) error {
	tasks, err := p.claimTasks(ctx)
	if err != nil {
		return err
	}
	if len(tasks) == 0 {
		return nil
	}
	p.logger.Debug("Outbox publisher claimed tasks", zap.Int("count", len(tasks)))

	for _, task := range tasks {
		select {
		case <-p.shutdownSignal:
			return errPublisherStopped
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		if err := p.processSingleTask(ctx, task); err != nil {
			p.logger.Error("Failed to process outbox task", zap.Stringer("task_id", task.ID), zap.Error(err))
		}
	}
	return nil
}

func (p *Publisher) claimTasks(ctx context.Context) ([]*repository.OutboxTask, error) {
	tx, err := p.db.BeginTx(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction for fetching tasks: %w", err)
	}
	defer func() {
		_ = tx.Rollback(context.Background())
	}()

	tasks, err := p.repo.GetProcessableTasksTx(ctx, tx, p.config.BatchSize, p.config.MaxAttempts)
	if err != nil {
		return nil, fmt.Errorf("failed to get processable tasks: %w", err)
	}

	for _, task := range tasks {
		err := p.repo.UpdateTaskStatusTx(ctx, tx, task.ID, repository.TaskStatusProcessing, task.Attempts, nil, nil)
		if err != nil {
			return nil, fmt.Errorf("failed to mark task %s as PROCESSING: %w", task.ID, err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("failed to commit claimed tasks: %w", err)
	}
	return tasks, nil
}

func (p *Publisher) processSingleTask(ctx context.Context, task *repository.OutboxTask) error {
	err := p.producer.SendMessage(ctx, task.Topic, []byte(task.ID.String()), task.Payload)
	if err != nil {
		attempts := task.Attempts + 1
		errMsg := err.Error()
		if attempts >= p.config.MaxAttempts {
			p.logger.Warn("Outbox task reached max attempts", zap.Stringer("task_id", task.ID), zap.Int("attempts", attempts))
		}
		metrics.OutboxTasksProcessedTotal.WithLabelValues("failed").Inc()

		if updateErr := p.repo.UpdateTaskStatus(ctx, p.db, task.ID, repository.TaskStatusFailed, attempts, &errMsg, nil); updateErr != nil {
			return fmt.Errorf("failed to update task status after send failure: %w (send error: %v)", updateErr, err)
		}
		return err
	}

	now := time.Now().UTC()
	if err := p.repo.UpdateTaskStatus(ctx, p.db, task.ID, repository.TaskStatusDone, task.Attempts, nil, &now); err != nil {
		return fmt.Errorf("failed to update task status after successful send: %w", err)
	}
	metrics.OutboxTasksProcessedTotal.WithLabelValues("done").Inc()
	return nil
}
