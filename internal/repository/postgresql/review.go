package postgresql

import (
	"context"
	"fmt"
	"strings"

	"gitlab.ozon.dev/pupkingeorgij/freightmarket/internal/db"
	"gitlab.ozon.dev/pupkingeorgij/freightmarket/internal/repository"
	"gitlab.ozon.dev/pupkingeorgij/freightmarket/internal/storage"
)

type ReviewRepo struct {
	db db.DB
}

func NewReviewRepo(db db.DB) storage.ReviewRepository {
	return &ReviewRepo{db: db}
}

// ExistsTx reports whether the author already reviewed the target for the booking. Reviews
// without a booking never match.
func (r *ReviewRepo) ExistsTx(ctx context.Context, tx db.Tx, authorID, targetUserID int64, bookingID *int64) (bool, error) {
	if bookingID == nil {
		return false, nil
	}
	var exists bool
	err := tx.Get(ctx, &exists, `
        SELECT EXISTS (
            SELECT 1 FROM reviews
            WHERE author_id = $1 AND target_user_id = $2 AND booking_id = $3
        )
    `, authorID, targetUserID, bookingID)
	return exists, err
}

func (r *ReviewRepo) CreateTx(ctx context.Context, tx db.Tx, review *repository.Review) error {
	err := tx.Get(ctx, &review.ID, `
        INSERT INTO reviews (
            author_id, target_user_id, booking_id, listing_kind, order_number, loading_city,
            unloading_city, freight_type, price, rating, comment, is_visible, created_at
        ) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
        RETURNING id
    `, review.AuthorID, review.TargetUserID, review.BookingID, review.ListingKind, review.OrderNumber,
		review.LoadingCity, review.UnloadingCity, review.FreightType, review.Price, review.Rating,
		review.Comment, review.IsVisible, review.CreatedAt)
	return err
}

// List returns reviews matching filter. Hidden reviews are included only when viewerID wrote or
// received them.
func (r *ReviewRepo) List(ctx context.Context, filter repository.ReviewFilter, viewerID int64) ([]*repository.Review, error) {
	conds := []string{"(is_visible OR author_id = $1 OR target_user_id = $1)"}
	args := []interface{}{viewerID}

	if filter.BookingID != nil {
		args = append(args, *filter.BookingID)
		conds = append(conds, fmt.Sprintf("booking_id = $%d", len(args)))
	}
	if filter.TargetUserID != nil {
		args = append(args, *filter.TargetUserID)
		conds = append(conds, fmt.Sprintf("target_user_id = $%d", len(args)))
	}
	if filter.AuthorID != nil {
		args = append(args, *filter.AuthorID)
		conds = append(conds, fmt.Sprintf("author_id = $%d", len(args)))
	}

	var reviews []*repository.Review
	err := r.db.Select(ctx, &reviews,
		"SELECT * FROM reviews WHERE "+strings.Join(conds, " AND ")+" ORDER BY created_at DESC", args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list reviews: %w", err)
	}
	return reviews, nil
}

func (r *ReviewRepo) RatingSummary(ctx context.Context, userID int64) (repository.RatingSummary, error) {
	var summary repository.RatingSummary
	err := r.db.Get(ctx, &summary, `
        SELECT COALESCE(AVG(rating), 0)::float8 AS average, COUNT(*) AS count
        FROM reviews
        WHERE target_user_id = $1
    `, userID)
	if err != nil {
		return repository.RatingSummary{}, fmt.Errorf("failed to compute rating: %w", err)
	}
	return summary, nil
}
