package repository

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// TaskStatus tracks an outbox task from enqueue to delivery. FAILED tasks are retried until the
// publisher's attempt limit is reached.
type TaskStatus string

const (
	TaskStatusCreated    TaskStatus = "CREATED"
	TaskStatusProcessing TaskStatus = "PROCESSING"
	TaskStatusFailed     TaskStatus = "FAILED"
	TaskStatusDone       TaskStatus = "DONE"
)

// OutboxTask is a Kafka message written in the same transaction as the change it reports.
type OutboxTask struct {
	ID          uuid.UUID       `db:"id"`
	Status      TaskStatus      `db:"status"`
	Payload     json.RawMessage `db:"payload"`
	Topic       string          `db:"topic"`
	Attempts    int             `db:"attempts"`
	LastError   *string         `db:"last_error"`
	CreatedAt   time.Time       `db:"created_at"`
	UpdatedAt   time.Time       `db:"updated_at"`
	CompletedAt *time.Time      `db:"completed_at"`
}

// BookingEventPayload is published on the booking events topic.
type BookingEventPayload struct {
	Event       string        `json:"event"`
	BookingID   int64         `json:"booking_id"`
	ActorID     int64         `json:"actor_id"`
	SenderID    int64         `json:"sender_id"`
	ReceiverID  int64         `json:"receiver_id"`
	ListingKind ListingKind   `json:"listing_kind"`
	ListingID   int64         `json:"listing_id"`
	OldStatus   BookingStatus `json:"old_status,omitempty"`
	NewStatus   BookingStatus `json:"new_status"`
	OccurredAt  time.Time     `json:"occurred_at"`
}

// AuditLogPayload is one audited HTTP request.
type AuditLogPayload struct {
	Timestamp  time.Time `json:"timestamp"`
	UserID     string    `json:"user_id,omitempty"`
	BookingID  string    `json:"booking_id,omitempty"`
	Method     string    `json:"method"`
	Path       string    `json:"path"`
	Handler    string    `json:"handler"`
	StatusCode int       `json:"status_code"`
	Request    string    `json:"request,omitempty"`
	Response   string    `json:"response,omitempty"`
	OldStatus  string    `json:"old_status,omitempty"`
	NewStatus  string    `json:"new_status,omitempty"`
}
