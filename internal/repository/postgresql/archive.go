package postgresql

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v4"

	"gitlab.ozon.dev/pupkingeorgij/freightmarket/internal/db"
	"gitlab.ozon.dev/pupkingeorgij/freightmarket/internal/ordernum"
	"gitlab.ozon.dev/pupkingeorgij/freightmarket/internal/repository"
	"gitlab.ozon.dev/pupkingeorgij/freightmarket/internal/storage"
)

type ArchiveRepo struct {
	db db.DB
}

func NewArchiveRepo(db db.DB) storage.ArchiveRepository {
	return &ArchiveRepo{db: db}
}

func (r *ArchiveRepo) CreateTx(ctx context.Context, tx db.Tx, record *repository.ArchiveRecord) error {
	err := tx.Get(ctx, &record.ID, `
        INSERT INTO listing_archive (
            kind, original_id, user_id, order_number, loading_city, unloading_city, freight_type,
            date_from, price, created_at
        ) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
        RETURNING id
    `, record.Kind, record.OriginalID, record.UserID, record.OrderNumber, record.LoadingCity,
		record.UnloadingCity, record.FreightType, record.DateFrom, record.Price, record.CreatedAt)
	return err
}

// SyncListingTx copies the listing values onto its mirror and reports whether a mirror exists.
func (r *ArchiveRepo) SyncListingTx(ctx context.Context, tx db.Tx, listing *repository.Listing) (bool, error) {
	tag, err := tx.Exec(ctx, `
        UPDATE listing_archive
        SET
            user_id = $1,
            loading_city = $2,
            unloading_city = $3,
            freight_type = $4,
            date_from = $5,
            price = $6
        WHERE original_id = $7
    `, listing.UserID, listing.LoadingCity, listing.UnloadingCity, listing.FreightType, listing.DateFrom,
		listing.Price, listing.ID)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() > 0, nil
}

// SyncBookingTx copies the booking lifecycle onto the mirror of listingID and reports whether a
// mirror exists.
func (r *ArchiveRepo) SyncBookingTx(ctx context.Context, tx db.Tx, listingID int64, booking *repository.BookingRequest) (bool, error) {
	tag, err := tx.Exec(ctx, `
        UPDATE listing_archive
        SET
            sender_id = $1,
            receiver_id = $2,
            sent_at = $3,
            accepted_at = $4,
            finished_at = $5,
            finished_by = $6,
            archived_at = $7,
            status = $8
        WHERE original_id = $9
    `, booking.SenderID, booking.ReceiverID, booking.SentAt, booking.AcceptedAt, booking.FinishedAt,
		booking.FinishedBy, booking.ArchivedAt, booking.Status, listingID)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() > 0, nil
}

// DetachTx clears the listing reference so the mirror outlives the listing.
func (r *ArchiveRepo) DetachTx(ctx context.Context, tx db.Tx, listingID int64) error {
	_, err := tx.Exec(ctx, "UPDATE listing_archive SET original_id = NULL WHERE original_id = $1", listingID)
	return err
}

func (r *ArchiveRepo) MaxSequenceTx(ctx context.Context, tx db.Tx, prefix string) (int, error) {
	var max int
	err := tx.Get(ctx, &max, `
        SELECT COALESCE(MAX(SUBSTRING(order_number FROM $2 FOR 6)::int), 0)
        FROM listing_archive
        WHERE order_number ~ $1
    `, ordernum.ArchiveSequencePattern(prefix), len(prefix)+1)
	return max, err
}

func (r *ArchiveRepo) GetByListingID(ctx context.Context, listingID int64) (*repository.ArchiveRecord, error) {
	var record repository.ArchiveRecord
	err := r.db.Get(ctx, &record, "SELECT * FROM listing_archive WHERE original_id = $1", listingID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, repository.ErrObjectNotFound
		}
		return nil, err
	}
	return &record, nil
}
