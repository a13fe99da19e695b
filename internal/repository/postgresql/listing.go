package postgresql

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v4"

	"gitlab.ozon.dev/pupkingeorgij/freightmarket/internal/db"
	"gitlab.ozon.dev/pupkingeorgij/freightmarket/internal/ordernum"
	"gitlab.ozon.dev/pupkingeorgij/freightmarket/internal/repository"
	"gitlab.ozon.dev/pupkingeorgij/freightmarket/internal/storage"
)

const listingColumns = `
    id, kind, user_id, order_number, loading_city, unloading_city, freight_type, date_from, date_to,
    weight, volume, price, price_currency, phone, email, extra_info, hidden, show_on_main,
    show_in_available, created_at, updated_at`

var listingOrder = map[string]string{
	"createdAt_desc": "l.created_at DESC",
	"createdAt_asc":  "l.created_at ASC",
	"price_asc":      "l.price ASC NULLS LAST",
	"price_desc":     "l.price DESC NULLS LAST",
	"date_asc":       "l.date_from ASC",
	"date_desc":      "l.date_from DESC",
	"weight_asc":     "l.weight ASC NULLS LAST",
	"weight_desc":    "l.weight DESC NULLS LAST",
}

// feedExclusions lists the booking statuses that take a listing off each feed.
var feedExclusions = map[repository.ListingFeed][]repository.BookingStatus{
	repository.FeedMain:      {repository.StatusFinished, repository.StatusCancelled, repository.StatusRejected},
	repository.FeedAvailable: {repository.StatusAccepted, repository.StatusFinished, repository.StatusCancelled},
	repository.FeedSearch:    {repository.StatusFinished, repository.StatusCancelled},
}

type ListingRepo struct {
	db db.DB
}

func NewListingRepo(db db.DB) storage.ListingRepository {
	return &ListingRepo{db: db}
}

func (r *ListingRepo) CreateTx(ctx context.Context, tx db.Tx, listing *repository.Listing) error {
	err := tx.Get(ctx, &listing.ID, `
        INSERT INTO listings (
            kind, user_id, order_number, loading_city, unloading_city, freight_type, date_from, date_to,
            weight, volume, price, price_currency, phone, email, extra_info, hidden, show_on_main,
            show_in_available, created_at, updated_at
        ) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19, $20)
        RETURNING id
    `, listing.Kind, listing.UserID, listing.OrderNumber, listing.LoadingCity, listing.UnloadingCity,
		listing.FreightType, listing.DateFrom, listing.DateTo, listing.Weight, listing.Volume, listing.Price,
		listing.PriceCurrency, listing.Phone, listing.Email, listing.ExtraInfo, listing.Hidden,
		listing.ShowOnMain, listing.ShowInAvailable, listing.CreatedAt, listing.UpdatedAt)
	return err
}

func (r *ListingRepo) GetByID(ctx context.Context, id int64) (*repository.Listing, error) {
	var listing repository.Listing
	err := r.db.Get(ctx, &listing, "SELECT"+listingColumns+" FROM listings WHERE id = $1", id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, repository.ErrObjectNotFound
		}
		return nil, err
	}
	return &listing, nil
}

func (r *ListingRepo) GetByIDTx(ctx context.Context, tx db.Tx, id int64) (*repository.Listing, error) {
	var listing repository.Listing
	err := tx.Get(ctx, &listing, "SELECT"+listingColumns+" FROM listings WHERE id = $1 FOR UPDATE", id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, repository.ErrObjectNotFound
		}
		return nil, err
	}
	return &listing, nil
}

func (r *ListingRepo) GetByOrderNumber(ctx context.Context, orderNumber string) (*repository.Listing, error) {
	var listing repository.Listing
	err := r.db.Get(ctx, &listing, "SELECT"+listingColumns+" FROM listings WHERE order_number = $1", orderNumber)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, repository.ErrObjectNotFound
		}
		return nil, err
	}
	return &listing, nil
}

func (r *ListingRepo) UpdateTx(ctx context.Context, tx db.Tx, listing *repository.Listing) error {
	_, err := tx.Exec(ctx, `
        UPDATE listings
        SET
            loading_city = $1,
            unloading_city = $2,
            freight_type = $3,
            date_from = $4,
            date_to = $5,
            weight = $6,
            volume = $7,
            price = $8,
            price_currency = $9,
            phone = $10,
            email = $11,
            extra_info = $12,
            hidden = $13,
            show_on_main = $14,
            show_in_available = $15,
            updated_at = $16
        WHERE id = $17
    `, listing.LoadingCity, listing.UnloadingCity, listing.FreightType, listing.DateFrom, listing.DateTo,
		listing.Weight, listing.Volume, listing.Price, listing.PriceCurrency, listing.Phone, listing.Email,
		listing.ExtraInfo, listing.Hidden, listing.ShowOnMain, listing.ShowInAvailable, listing.UpdatedAt, listing.ID)
	return err
}

func (r *ListingRepo) DeleteTx(ctx context.Context, tx db.Tx, id int64) error {
	tag, err := tx.Exec(ctx, "DELETE FROM listings WHERE id = $1", id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return repository.ErrObjectNotFound
	}
	return nil
}

// LockOrderPrefixTx serializes order number assignment for one prefix until tx ends.
func (r *ListingRepo) LockOrderPrefixTx(ctx context.Context, tx db.Tx, prefix string) error {
	_, err := tx.Exec(ctx, "SELECT pg_advisory_xact_lock(hashtext($1))", prefix)
	return err
}

func (r *ListingRepo) MaxSequenceTx(ctx context.Context, tx db.Tx, prefix string) (int, error) {
	var max int
	err := tx.Get(ctx, &max, `
        SELECT COALESCE(MAX(RIGHT(order_number, 6)::int), 0)
        FROM listings
        WHERE order_number ~ $1
    `, ordernum.SequencePattern(prefix))
	return max, err
}

func (r *ListingRepo) List(ctx context.Context, filter repository.ListingFilter) ([]*repository.Listing, error) {
	var (
		conds = []string{"l.kind = $1"}
		args  = []interface{}{filter.Kind}
	)

	if filter.OwnerID != nil {
		args = append(args, *filter.OwnerID)
		conds = append(conds, fmt.Sprintf("l.user_id = $%d", len(args)))
	}

	if filter.Feed != "" {
		conds = append(conds, "NOT l.hidden")
		switch filter.Feed {
		case repository.FeedMain:
			conds = append(conds, "l.show_on_main")
		case repository.FeedAvailable:
			conds = append(conds, "l.show_in_available")
		}
		if excluded := feedExclusions[filter.Feed]; len(excluded) > 0 {
			statuses := make([]string, 0, len(excluded))
			for _, s := range excluded {
				statuses = append(statuses, string(s))
			}
			args = append(args, statuses)
			conds = append(conds, fmt.Sprintf(`NOT EXISTS (
                SELECT 1 FROM booking_requests b
                WHERE b.%s = l.id AND b.status = ANY($%d)
            )`, bookingListingColumn(filter.Kind), len(args)))
		}
	}

	order, ok := listingOrder[filter.Sort]
	if !ok {
		order = listingOrder["createdAt_desc"]
	}

	query := "SELECT" + listingColumns +
		" FROM listings l WHERE " + strings.Join(conds, " AND ") +
		" ORDER BY " + order + ", l.id DESC"

	var listings []*repository.Listing
	err := r.db.Select(ctx, &listings, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list listings: %w", err)
	}
	return listings, nil
}

func (r *ListingRepo) GetAll(ctx context.Context) ([]*repository.Listing, error) {
	var listings []*repository.Listing
	err := r.db.Select(ctx, &listings, "SELECT"+listingColumns+" FROM listings ORDER BY created_at ASC")
	if err != nil {
		return nil, fmt.Errorf("failed to get all listings: %w", err)
	}
	return listings, nil
}

func bookingListingColumn(kind repository.ListingKind) string {
	if kind == repository.KindTruck {
		return "truck_id"
	}
	return "cargo_id"
}
