package storage

import (
	"context"
	"encoding/json"
	"fmt"

	"gitlab.ozon.dev/pupkingeorgij/freightmarket/internal/db"
	"gitlab.ozon.dev/pupkingeorgij/freightmarket/internal/repository"
)

const (
	EventBookingCreated       = "booking_created"
	EventBookingStatusChanged = "booking_status_changed"
	EventBookingPurged        = "booking_purged"
)

// enqueueBookingEvent writes a booking event into the outbox inside the caller's transaction.
func (s *PostgresStorage) enqueueBookingEvent(ctx context.Context, tx db.Tx, event string, actorID int64, oldStatus repository.BookingStatus, b *repository.BookingRequest) error {
	payload, err := json.Marshal(repository.BookingEventPayload{
		Event:       event,
		BookingID:   b.ID,
		ActorID:     actorID,
		SenderID:    b.SenderID,
		ReceiverID:  b.ReceiverID,
		ListingKind: b.ListingKind(),
		ListingID:   b.ListingID(),
		OldStatus:   oldStatus,
		NewStatus:   b.Status,
		OccurredAt:  s.now(),
	})
	if err != nil {
		return fmt.Errorf("failed to marshal booking event: %w", err)
	}

	task := &repository.OutboxTask{
		Status:  repository.TaskStatusCreated,
		Payload: payload,
		Topic:   s.bookingTopic,
	}
	if err := s.outbox.CreateTx(ctx, tx, task); err != nil {
		return fmt.Errorf("failed to enqueue booking event: %w", err)
	}
	return nil
}
