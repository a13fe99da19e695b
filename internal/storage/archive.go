package storage

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"gitlab.ozon.dev/pupkingeorgij/freightmarket/internal/apperrors"
	"gitlab.ozon.dev/pupkingeorgij/freightmarket/internal/db"
	"gitlab.ozon.dev/pupkingeorgij/freightmarket/internal/ordernum"
	"gitlab.ozon.dev/pupkingeorgij/freightmarket/internal/repository"
)

func newArchiveRecord(l *repository.Listing) *repository.ArchiveRecord {
	id, owner := l.ID, l.UserID
	freightType := l.FreightType
	dateFrom := l.DateFrom
	return &repository.ArchiveRecord{
		Kind:          l.Kind,
		OriginalID:    &id,
		UserID:        &owner,
		OrderNumber:   ordernum.Archive(l.OrderNumber),
		LoadingCity:   l.LoadingCity,
		UnloadingCity: l.UnloadingCity,
		FreightType:   &freightType,
		DateFrom:      &dateFrom,
		Price:         l.Price,
		CreatedAt:     l.CreatedAt,
	}
}

// syncArchiveBooking copies the booking lifecycle onto the listing's archive record. A missing
// record is not an error.
func (s *PostgresStorage) syncArchiveBooking(ctx context.Context, tx db.Tx, b *repository.BookingRequest) error {
	found, err := s.archive.SyncBookingTx(ctx, tx, b.ListingID(), b)
	if err != nil {
		return fmt.Errorf("failed to sync archive record: %w", err)
	}
	if !found {
		s.logger.Debug("Archive record not found, skipping sync",
			zap.Int64("booking_id", b.ID),
			zap.Int64("listing_id", b.ListingID()),
		)
	}
	return nil
}

// ArchiveRecord returns the archive mirror of the owner's listing.
func (s *PostgresStorage) ArchiveRecord(ctx context.Context, actorID, listingID int64) (*ArchiveRecord, error) {
	rec, err := s.archive.GetByListingID(ctx, listingID)
	if errors.Is(err, repository.ErrObjectNotFound) {
		return nil, apperrors.NotFound("archive record for listing %d not found", listingID)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load archive record: %w", err)
	}
	if rec.UserID == nil || *rec.UserID != actorID {
		return nil, apperrors.Permission("listing %d belongs to another user", listingID)
	}

	return &ArchiveRecord{
		Kind:          rec.Kind,
		ListingID:     rec.OriginalID,
		OrderNumber:   rec.OrderNumber,
		LoadingCity:   rec.LoadingCity,
		UnloadingCity: rec.UnloadingCity,
		Price:         rec.Price,
		SenderID:      rec.SenderID,
		ReceiverID:    rec.ReceiverID,
		SentAt:        rec.SentAt,
		AcceptedAt:    rec.AcceptedAt,
		FinishedAt:    rec.FinishedAt,
		FinishedBy:    rec.FinishedBy,
		ArchivedAt:    rec.ArchivedAt,
		Status:        rec.Status,
	}, nil
}
