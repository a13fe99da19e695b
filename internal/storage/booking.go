package storage

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"gitlab.ozon.dev/pupkingeorgij/freightmarket/internal/apperrors"
	"gitlab.ozon.dev/pupkingeorgij/freightmarket/internal/db"
	"gitlab.ozon.dev/pupkingeorgij/freightmarket/internal/metrics"
	"gitlab.ozon.dev/pupkingeorgij/freightmarket/internal/repository"
)

var allowedTransitions = map[repository.BookingStatus][]repository.BookingStatus{
	repository.StatusWaiting: {
		repository.StatusAccepted,
		repository.StatusRejected,
		repository.StatusFinished,
		repository.StatusCancelled,
	},
	repository.StatusAccepted: {
		repository.StatusFinished,
		repository.StatusCancelled,
	},
}

// CanTransition reports whether a booking in status from may move to status to.
func CanTransition(from, to repository.BookingStatus) bool {
	for _, next := range allowedTransitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

// applyTransition moves b to status to and stamps the lifecycle timestamps that are still unset.
func applyTransition(b *repository.BookingRequest, to repository.BookingStatus, actorID int64, now time.Time) {
	if to == repository.StatusAccepted && b.AcceptedAt == nil {
		t := now
		b.AcceptedAt = &t
	}
	if to == repository.StatusFinished && b.FinishedAt == nil {
		t := now
		b.FinishedAt = &t
		if b.FinishedBy == nil {
			actor := actorID
			b.FinishedBy = &actor
		}
	}
	if to.Terminal() && b.ArchivedAt == nil {
		t := now
		b.ArchivedAt = &t
	}
	b.Status = to
	b.UpdatedAt = now
}

func (s *PostgresStorage) loadBookingTx(ctx context.Context, tx db.Tx, bookingID, actorID int64) (*repository.BookingRequest, error) {
	b, err := s.bookings.GetByIDTx(ctx, tx, bookingID)
	if errors.Is(err, repository.ErrObjectNotFound) {
		return nil, apperrors.NotFound("booking %d not found", bookingID)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load booking: %w", err)
	}
	if b.SenderID != actorID && b.ReceiverID != actorID {
		return nil, apperrors.Permission("you are not a party of booking %d", bookingID)
	}
	return b, nil
}

// CreateBooking sends a booking request for a listing owned by someone else.
func (s *PostgresStorage) CreateBooking(ctx context.Context, senderID int64, ref ListingRef, message *string) (*Booking, error) {
	kind, listingID, err := ref.resolve()
	if err != nil {
		return nil, err
	}

	var booking *repository.BookingRequest
	err = s.inTx(ctx, func(tx db.Tx) error {
		listing, err := s.listings.GetByIDTx(ctx, tx, listingID)
		if errors.Is(err, repository.ErrObjectNotFound) || (err == nil && listing.Kind != kind) {
			return apperrors.Validation("%s %d not found", kind, listingID)
		}
		if err != nil {
			return fmt.Errorf("failed to load listing: %w", err)
		}
		if listing.UserID == senderID {
			return apperrors.Validation("you cannot book your own %s", kind)
		}

		active, err := s.bookings.HasActiveTx(ctx, tx, senderID, kind, listingID)
		if err != nil {
			return fmt.Errorf("failed to check active requests: %w", err)
		}
		if active {
			return apperrors.Validation("an active request for this %s already exists", kind)
		}

		now := s.now()
		row := &repository.BookingRequest{
			SenderID:   senderID,
			ReceiverID: listing.UserID,
			Status:     repository.StatusWaiting,
			Message:    message,
			SentAt:     &now,
			CreatedAt:  now,
			UpdatedAt:  now,
		}
		id := listingID
		if kind == repository.KindCargo {
			row.CargoID = &id
		} else {
			row.TruckID = &id
		}
		if err := s.bookings.CreateTx(ctx, tx, row); err != nil {
			if db.IsUniqueViolation(err, "") {
				return apperrors.Validation("an active request for this %s already exists", kind)
			}
			return fmt.Errorf("failed to create booking: %w", err)
		}

		booking, err = s.bookings.GetByIDTx(ctx, tx, row.ID)
		if err != nil {
			return fmt.Errorf("failed to reload booking: %w", err)
		}
		if err := s.syncArchiveBooking(ctx, tx, booking); err != nil {
			return err
		}
		return s.enqueueBookingEvent(ctx, tx, EventBookingCreated, senderID, "", booking)
	})
	if err != nil {
		metrics.OperationErrorsTotal.WithLabelValues("create_booking").Inc()
		return nil, err
	}

	metrics.BookingRequestsCreatedTotal.WithLabelValues(string(kind)).Inc()
	s.logger.Info("Booking request created",
		zap.Int64("booking_id", booking.ID),
		zap.Int64("sender_id", booking.SenderID),
		zap.Int64("receiver_id", booking.ReceiverID),
	)
	s.notify(ctx, booking.ReceiverID, newRequestMessage(booking.SenderUsername))
	return toBooking(booking), nil
}

// GetBooking returns a booking to one of its parties.
func (s *PostgresStorage) GetBooking(ctx context.Context, actorID, bookingID int64) (*Booking, error) {
	b, err := s.bookings.GetByID(ctx, bookingID)
	if errors.Is(err, repository.ErrObjectNotFound) {
		return nil, apperrors.NotFound("booking %d not found", bookingID)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load booking: %w", err)
	}
	if b.SenderID != actorID && b.ReceiverID != actorID {
		return nil, apperrors.Permission("you are not a party of booking %d", bookingID)
	}
	return toBooking(b), nil
}

// TransitionBooking changes the booking status on behalf of either party.
func (s *PostgresStorage) TransitionBooking(ctx context.Context, actorID, bookingID int64, to repository.BookingStatus) (*Booking, error) {
	switch to {
	case repository.StatusAccepted, repository.StatusRejected, repository.StatusFinished, repository.StatusCancelled:
	default:
		return nil, apperrors.Validation("invalid status %q", to)
	}

	var booking *repository.BookingRequest
	err := s.inTx(ctx, func(tx db.Tx) error {
		b, err := s.loadBookingTx(ctx, tx, bookingID, actorID)
		if err != nil {
			return err
		}
		from := b.Status
		if !CanTransition(from, to) {
			return apperrors.Validation("cannot change status from %s to %s", from, to)
		}

		applyTransition(b, to, actorID, s.now())
		if err := s.bookings.UpdateTx(ctx, tx, b); err != nil {
			return fmt.Errorf("failed to update booking: %w", err)
		}
		if err := s.syncArchiveBooking(ctx, tx, b); err != nil {
			return err
		}
		booking = b
		return s.enqueueBookingEvent(ctx, tx, EventBookingStatusChanged, actorID, from, b)
	})
	if err != nil {
		return nil, err
	}

	metrics.BookingTransitionsTotal.WithLabelValues(string(to)).Inc()
	for _, n := range transitionNotifications(booking) {
		s.notify(ctx, n.userID, n.message)
	}
	return toBooking(booking), nil
}

// SoftDeleteBooking hides the booking for the acting party. Once both parties have deleted it the
// booking and its listing are removed and purged reports true.
func (s *PostgresStorage) SoftDeleteBooking(ctx context.Context, actorID, bookingID int64) (bool, error) {
	var (
		purged      bool
		orderNumber string
	)
	err := s.inTx(ctx, func(tx db.Tx) error {
		b, err := s.loadBookingTx(ctx, tx, bookingID, actorID)
		if err != nil {
			return err
		}
		if b.SenderID == actorID {
			b.SenderDeleted = true
		}
		if b.ReceiverID == actorID {
			b.ReceiverDeleted = true
		}

		if !b.SenderDeleted || !b.ReceiverDeleted {
			b.UpdatedAt = s.now()
			if err := s.bookings.UpdateTx(ctx, tx, b); err != nil {
				return fmt.Errorf("failed to update booking: %w", err)
			}
			return nil
		}

		listingID := b.ListingID()
		listing, err := s.listings.GetByIDTx(ctx, tx, listingID)
		switch {
		case err == nil:
			orderNumber = listing.OrderNumber
			if err := s.removeListingTx(ctx, tx, listingID); err != nil {
				return err
			}
		case !errors.Is(err, repository.ErrObjectNotFound):
			return fmt.Errorf("failed to load listing: %w", err)
		}
		if err := s.bookings.DeleteTx(ctx, tx, b.ID); err != nil && !errors.Is(err, repository.ErrObjectNotFound) {
			return fmt.Errorf("failed to delete booking: %w", err)
		}
		purged = true
		return s.enqueueBookingEvent(ctx, tx, EventBookingPurged, actorID, b.Status, b)
	})
	if err != nil {
		return false, err
	}

	if purged {
		if orderNumber != "" {
			s.cache.Delete(orderNumber)
		}
		metrics.BookingsPurgedTotal.Inc()
		s.logger.Info("Booking purged after both parties deleted it", zap.Int64("booking_id", bookingID))
	}
	return purged, nil
}

// ListBookings returns one of the per-user booking views. A team owner or manager may pass
// onBehalfOf to read the view of a member of their company.
func (s *PostgresStorage) ListBookings(ctx context.Context, actorID int64, view repository.BookingView, onBehalfOf *int64) ([]*Booking, error) {
	switch view {
	case repository.ViewSent, repository.ViewReceived, repository.ViewActive, repository.ViewArchived:
	default:
		return nil, apperrors.Validation("unknown booking view %q", view)
	}

	userID := actorID
	if onBehalfOf != nil {
		if err := s.authorizeDelegation(ctx, actorID, *onBehalfOf); err != nil {
			return nil, err
		}
		userID = *onBehalfOf
	}

	rows, err := s.bookings.ListByView(ctx, view, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list bookings: %w", err)
	}
	out := make([]*Booking, 0, len(rows))
	for _, row := range rows {
		out = append(out, toBooking(row))
	}
	return out, nil
}
