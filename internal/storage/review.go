package storage

import (
	"context"
	"errors"
	"fmt"
	"math"

	"gitlab.ozon.dev/pupkingeorgij/freightmarket/internal/apperrors"
	"gitlab.ozon.dev/pupkingeorgij/freightmarket/internal/db"
	"gitlab.ozon.dev/pupkingeorgij/freightmarket/internal/metrics"
	"gitlab.ozon.dev/pupkingeorgij/freightmarket/internal/repository"
)

const (
	minRating = 1
	maxRating = 5
)

// CreateReview records a review of targetUserID. When the review references a booking the author
// must be one of its parties, the target the other one, and the booking must be finished.
func (s *PostgresStorage) CreateReview(ctx context.Context, authorID int64, in ReviewInput) (*Review, error) {
	if in.Rating < minRating || in.Rating > maxRating {
		return nil, apperrors.Validation("rating must be between %d and %d", minRating, maxRating)
	}
	if in.TargetUserID == authorID {
		return nil, apperrors.Validation("you cannot review yourself")
	}

	review := &repository.Review{
		AuthorID:     authorID,
		TargetUserID: in.TargetUserID,
		BookingID:    in.BookingID,
		Rating:       in.Rating,
		Comment:      in.Comment,
		CreatedAt:    s.now(),
	}

	err := s.inTx(ctx, func(tx db.Tx) error {
		exists, err := s.reviews.ExistsTx(ctx, tx, authorID, in.TargetUserID, in.BookingID)
		if err != nil {
			return fmt.Errorf("failed to check existing review: %w", err)
		}
		if exists {
			return apperrors.Duplicate("you have already reviewed this user for this booking")
		}

		if in.BookingID != nil {
			if err := s.fillReviewSnapshotTx(ctx, tx, review); err != nil {
				return err
			}
		}

		if err := s.reviews.CreateTx(ctx, tx, review); err != nil {
			if db.IsUniqueViolation(err, "") {
				return apperrors.Duplicate("you have already reviewed this user for this booking")
			}
			return fmt.Errorf("failed to create review: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	metrics.ReviewsCreatedTotal.Inc()
	return toReview(review), nil
}

func (s *PostgresStorage) fillReviewSnapshotTx(ctx context.Context, tx db.Tx, review *repository.Review) error {
	b, err := s.bookings.GetByIDTx(ctx, tx, *review.BookingID)
	if errors.Is(err, repository.ErrObjectNotFound) {
		return apperrors.Validation("booking %d not found", *review.BookingID)
	}
	if err != nil {
		return fmt.Errorf("failed to load booking: %w", err)
	}

	var counterpart int64
	switch review.AuthorID {
	case b.SenderID:
		counterpart = b.ReceiverID
	case b.ReceiverID:
		counterpart = b.SenderID
	default:
		return apperrors.Permission("you are not a party of booking %d", b.ID)
	}
	if review.TargetUserID != counterpart {
		return apperrors.Validation("review target must be the other party of the booking")
	}
	if b.Status != repository.StatusFinished {
		return apperrors.Validation("only finished bookings can be reviewed")
	}

	kind := b.ListingKind()
	review.ListingKind = &kind
	listing, err := s.listings.GetByID(ctx, b.ListingID())
	if errors.Is(err, repository.ErrObjectNotFound) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to load listing: %w", err)
	}
	review.OrderNumber = &listing.OrderNumber
	review.LoadingCity = &listing.LoadingCity
	review.UnloadingCity = &listing.UnloadingCity
	review.FreightType = &listing.FreightType
	review.Price = listing.Price
	return nil
}

// ListReviews returns reviews matching filter. Reviews that are not visible yet are shown only to
// their author and target.
func (s *PostgresStorage) ListReviews(ctx context.Context, viewerID int64, filter repository.ReviewFilter) ([]*Review, error) {
	rows, err := s.reviews.List(ctx, filter, viewerID)
	if err != nil {
		return nil, fmt.Errorf("failed to list reviews: %w", err)
	}
	out := make([]*Review, 0, len(rows))
	for _, row := range rows {
		out = append(out, toReview(row))
	}
	return out, nil
}

// UserRating averages every review of userID, rounded to one decimal.
func (s *PostgresStorage) UserRating(ctx context.Context, userID int64) (*RatingSummary, error) {
	summary, err := s.reviews.RatingSummary(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to load rating: %w", err)
	}
	return &RatingSummary{
		Rating:  math.Round(summary.Average*10) / 10,
		Reviews: summary.Count,
	}, nil
}
