package postgresql

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v4"

	"gitlab.ozon.dev/pupkingeorgij/freightmarket/internal/db"
	"gitlab.ozon.dev/pupkingeorgij/freightmarket/internal/repository"
	"gitlab.ozon.dev/pupkingeorgij/freightmarket/internal/storage"
)

const bookingSelect = `
    SELECT b.id, b.sender_id, b.receiver_id, b.cargo_id, b.truck_id, b.status, b.message,
           b.sender_deleted, b.receiver_deleted, b.sent_at, b.accepted_at, b.finished_at,
           b.finished_by, b.archived_at, b.created_at, b.updated_at,
           s.username AS sender_username, r.username AS receiver_username
    FROM booking_requests b
    JOIN users s ON s.id = b.sender_id
    JOIN users r ON r.id = b.receiver_id`

// bookingViews holds the filter of each view. Only the archived view hides rows the user deleted.
var bookingViews = map[repository.BookingView]string{
	repository.ViewSent:     "b.sender_id = $1",
	repository.ViewReceived: "b.receiver_id = $1 AND b.status = 'Waiting'",
	repository.ViewActive:   "b.status = 'Accepted' AND (b.sender_id = $1 OR b.receiver_id = $1)",
	repository.ViewArchived: `b.status IN ('Finished', 'Cancelled') AND (
        (b.sender_id = $1 AND NOT b.sender_deleted) OR (b.receiver_id = $1 AND NOT b.receiver_deleted)
    )`,
}

type BookingRepo struct {
	db db.DB
}

func NewBookingRepo(db db.DB) storage.BookingRepository {
	return &BookingRepo{db: db}
}

func (r *BookingRepo) CreateTx(ctx context.Context, tx db.Tx, booking *repository.BookingRequest) error {
	err := tx.Get(ctx, &booking.ID, `
        INSERT INTO booking_requests (
            sender_id, receiver_id, cargo_id, truck_id, status, message, sent_at, created_at, updated_at
        ) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
        RETURNING id
    `, booking.SenderID, booking.ReceiverID, booking.CargoID, booking.TruckID, booking.Status,
		booking.Message, booking.SentAt, booking.CreatedAt, booking.UpdatedAt)
	return err
}

func (r *BookingRepo) GetByID(ctx context.Context, id int64) (*repository.BookingRequest, error) {
	var booking repository.BookingRequest
	err := r.db.Get(ctx, &booking, bookingSelect+" WHERE b.id = $1", id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, repository.ErrObjectNotFound
		}
		return nil, err
	}
	return &booking, nil
}

func (r *BookingRepo) GetByIDTx(ctx context.Context, tx db.Tx, id int64) (*repository.BookingRequest, error) {
	var booking repository.BookingRequest
	err := tx.Get(ctx, &booking, bookingSelect+" WHERE b.id = $1 FOR UPDATE OF b", id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, repository.ErrObjectNotFound
		}
		return nil, err
	}
	return &booking, nil
}

func (r *BookingRepo) HasActiveTx(ctx context.Context, tx db.Tx, senderID int64, kind repository.ListingKind, listingID int64) (bool, error) {
	var exists bool
	err := tx.Get(ctx, &exists, fmt.Sprintf(`
        SELECT EXISTS (
            SELECT 1 FROM booking_requests
            WHERE sender_id = $1 AND %s = $2 AND status IN ('Waiting', 'Accepted')
        )
    `, bookingListingColumn(kind)), senderID, listingID)
	return exists, err
}

func (r *BookingRepo) UpdateTx(ctx context.Context, tx db.Tx, booking *repository.BookingRequest) error {
	_, err := tx.Exec(ctx, `
        UPDATE booking_requests
        SET
            status = $1,
            sender_deleted = $2,
            receiver_deleted = $3,
            accepted_at = $4,
            finished_at = $5,
            finished_by = $6,
            archived_at = $7,
            updated_at = $8
        WHERE id = $9
    `, booking.Status, booking.SenderDeleted, booking.ReceiverDeleted, booking.AcceptedAt, booking.FinishedAt,
		booking.FinishedBy, booking.ArchivedAt, booking.UpdatedAt, booking.ID)
	return err
}

func (r *BookingRepo) DeleteTx(ctx context.Context, tx db.Tx, id int64) error {
	tag, err := tx.Exec(ctx, "DELETE FROM booking_requests WHERE id = $1", id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return repository.ErrObjectNotFound
	}
	return nil
}

func (r *BookingRepo) ListByView(ctx context.Context, view repository.BookingView, userID int64) ([]*repository.BookingRequest, error) {
	cond, ok := bookingViews[view]
	if !ok {
		return nil, fmt.Errorf("unknown booking view %q", view)
	}

	var bookings []*repository.BookingRequest
	err := r.db.Select(ctx, &bookings, bookingSelect+" WHERE "+cond+" ORDER BY b.created_at DESC", userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list %s bookings: %w", view, err)
	}
	return bookings, nil
}
