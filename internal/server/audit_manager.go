package server

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"gitlab.ozon.dev/pupkingeorgij/freightmarket/internal/metrics"
)

const auditWriteTimeout = 5 * time.Second

// AuditManager batches audit entries and hands the batches to a pool of workers that write them
// to the sink. A batch is flushed when it is full or when timeout passes after its first entry.
type AuditManager struct {
	sink        AuditSink
	logger      *zap.Logger
	workerCount int
	batchSize   int
	timeout     time.Duration

	inputChan  chan AuditLogEntry
	batchChan  chan []AuditLogEntry
	shutdownCh chan struct{}
	once       sync.Once
	wg         sync.WaitGroup
}

func NewAuditManager(sink AuditSink, workerCount, batchSize int, timeout time.Duration, logger *zap.Logger) *AuditManager {
	return &AuditManager{
		sink:        sink,
		logger:      logger,
		workerCount: workerCount,
		batchSize:   batchSize,
		timeout:     timeout,
		inputChan:   make(chan AuditLogEntry, workerCount*batchSize*2),
		batchChan:   make(chan []AuditLogEntry, workerCount*2),
		shutdownCh:  make(chan struct{}),
	}
}

func (m *AuditManager) Start(ctx context.Context) {
	m.logger.Info("Starting audit manager", zap.Int("workers", m.workerCount), zap.Int("batch_size", m.batchSize))
	m.wg.Add(1)
	go m.runAggregator(ctx)

	for i := 0; i < m.workerCount; i++ {
		m.wg.Add(1)
		go m.runWorker(i)
	}
}

// Shutdown flushes pending entries and waits for the workers until ctx expires.
func (m *AuditManager) Shutdown(ctx context.Context) {
	m.once.Do(func() {
		m.logger.Info("Initiating audit manager shutdown")
		close(m.shutdownCh)

		done := make(chan struct{})
		go func() {
			m.wg.Wait()
			close(done)
		}()

		select {
		case <-done:
			m.logger.Info("Audit manager shutdown completed")
		case <-ctx.Done():
			m.logger.Warn("Audit manager shutdown interrupted")
		}
	})
}

// LogEntry queues entry. Entries that cannot be queued are written to the log instead.
func (m *AuditManager) LogEntry(ctx context.Context, entry AuditLogEntry) {
	select {
	case <-m.shutdownCh:
		m.emergencyLog(entry)
		return
	default:
	}

	select {
	case m.inputChan <- entry:
	case <-m.shutdownCh:
		m.emergencyLog(entry)
	case <-ctx.Done():
		m.emergencyLog(entry)
	}
}

func (m *AuditManager) runAggregator(ctx context.Context) {
	defer m.wg.Done()

	var (
		batch    []AuditLogEntry
		timer    *time.Timer
		timeoutC <-chan time.Time
	)

	stopTimer := func() {
		if timer != nil {
			timer.Stop()
		}
		timeoutC = nil
	}

	defer func() {
		stopTimer()
		for {
			select {
			case entry := <-m.inputChan:
				batch = append(batch, entry)
				continue
			default:
			}
			break
		}
		if len(batch) > 0 {
			m.dispatchBatch(batch)
		}
		close(m.batchChan)
	}()

	for {
		select {
		case entry := <-m.inputChan:
			batch = append(batch, entry)
			if len(batch) >= m.batchSize {
				stopTimer()
				m.dispatchBatch(batch)
				batch = nil
			} else if len(batch) == 1 {
				timer = time.NewTimer(m.timeout)
				timeoutC = timer.C
			}

		case <-timeoutC:
			timeoutC = nil
			m.dispatchBatch(batch)
			batch = nil

		case <-ctx.Done():
			return

		case <-m.shutdownCh:
			return
		}
	}
}

// dispatchBatch hands batch to the workers, writing it inline when they are all busy.
func (m *AuditManager) dispatchBatch(batch []AuditLogEntry) {
	batchCopy := make([]AuditLogEntry, len(batch))
	copy(batchCopy, batch)

	select {
	case m.batchChan <- batchCopy:
	default:
		m.writeBatch(-1, batchCopy)
	}
}

func (m *AuditManager) runWorker(id int) {
	defer m.wg.Done()
	for batch := range m.batchChan {
		m.writeBatch(id, batch)
	}
}

func (m *AuditManager) writeBatch(workerID int, batch []AuditLogEntry) {
	ctx, cancel := context.WithTimeout(context.Background(), auditWriteTimeout)
	defer cancel()

	if err := m.sink.WriteBatch(ctx, batch); err != nil {
		m.logger.Error("Failed to write audit batch",
			zap.Int("worker", workerID),
			zap.Int("entries", len(batch)),
			zap.Error(err),
		)
		for _, entry := range batch {
			m.emergencyLog(entry)
		}
		return
	}
	metrics.AuditEntriesTotal.WithLabelValues("persisted").Add(float64(len(batch)))
}

func (m *AuditManager) emergencyLog(entry AuditLogEntry) {
	metrics.AuditEntriesTotal.WithLabelValues("logged").Inc()
	m.logger.Warn("Audit entry",
		zap.Time("timestamp", entry.Timestamp),
		zap.String("user_id", entry.UserID),
		zap.String("method", entry.Method),
		zap.String("path", entry.Path),
		zap.String("handler", entry.Handler),
		zap.Int("status_code", entry.StatusCode),
		zap.String("booking_id", entry.BookingID),
		zap.String("old_status", entry.OldStatus),
		zap.String("new_status", entry.NewStatus),
	)
}
