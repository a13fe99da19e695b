package storage

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"gitlab.ozon.dev/pupkingeorgij/freightmarket/internal/apperrors"
	"gitlab.ozon.dev/pupkingeorgij/freightmarket/internal/db"
	"gitlab.ozon.dev/pupkingeorgij/freightmarket/internal/metrics"
	"gitlab.ozon.dev/pupkingeorgij/freightmarket/internal/ordernum"
	"gitlab.ozon.dev/pupkingeorgij/freightmarket/internal/repository"
)

const DefaultListingSort = "createdAt_desc"

var listingSorts = map[string]struct{}{
	"createdAt_desc": {},
	"createdAt_asc":  {},
	"price_asc":      {},
	"price_desc":     {},
	"date_asc":       {},
	"date_desc":      {},
	"weight_asc":     {},
	"weight_desc":    {},
}

func kindPrefix(kind repository.ListingKind) string {
	if kind == repository.KindTruck {
		return ordernum.TruckPrefix
	}
	return ordernum.CargoPrefix
}

// CreateListing stores a new listing with a freshly assigned order number and its archive mirror.
// Nothing is persisted when the owner's company code cannot be resolved.
func (s *PostgresStorage) CreateListing(ctx context.Context, ownerID int64, in ListingInput) (*Listing, error) {
	if err := in.validate(); err != nil {
		return nil, err
	}

	code, err := s.resolveCompanyCode(ctx, ownerID)
	if err != nil {
		metrics.OperationErrorsTotal.WithLabelValues("resolve_company_code").Inc()
		return nil, err
	}
	prefix := ordernum.Prefix(kindPrefix(in.Kind), code)

	now := s.now()
	listing := &repository.Listing{UserID: ownerID, CreatedAt: now, UpdatedAt: now}
	in.apply(listing)

	err = s.inTx(ctx, func(tx db.Tx) error {
		if err := s.listings.LockOrderPrefixTx(ctx, tx, prefix); err != nil {
			return fmt.Errorf("failed to lock order number prefix: %w", err)
		}
		liveMax, err := s.listings.MaxSequenceTx(ctx, tx, prefix)
		if err != nil {
			return fmt.Errorf("failed to read listing sequence: %w", err)
		}
		archiveMax, err := s.archive.MaxSequenceTx(ctx, tx, prefix)
		if err != nil {
			return fmt.Errorf("failed to read archive sequence: %w", err)
		}
		number, err := ordernum.Next(prefix, liveMax, archiveMax)
		if err != nil {
			return err
		}
		listing.OrderNumber = number

		if err := s.listings.CreateTx(ctx, tx, listing); err != nil {
			return fmt.Errorf("failed to create listing: %w", err)
		}
		if err := s.archive.CreateTx(ctx, tx, newArchiveRecord(listing)); err != nil {
			return fmt.Errorf("failed to create archive record: %w", err)
		}
		return nil
	})
	if err != nil {
		metrics.OperationErrorsTotal.WithLabelValues("create_listing").Inc()
		return nil, err
	}

	s.cache.Set(listing)
	metrics.ListingsCreatedTotal.WithLabelValues(string(listing.Kind)).Inc()
	s.logger.Info("Listing created",
		zap.Int64("listing_id", listing.ID),
		zap.String("order_number", listing.OrderNumber),
		zap.Int64("owner_id", ownerID),
	)
	return toListing(listing), nil
}

// UpdateListing rewrites the owner's listing and copies the new values into its archive mirror.
// The kind and order number never change.
func (s *PostgresStorage) UpdateListing(ctx context.Context, actorID, listingID int64, in ListingInput) (*Listing, error) {
	var listing *repository.Listing
	err := s.inTx(ctx, func(tx db.Tx) error {
		var err error
		listing, err = s.ownedListingTx(ctx, tx, actorID, listingID)
		if err != nil {
			return err
		}
		if in.Kind == "" {
			in.Kind = listing.Kind
		}
		if in.Kind != listing.Kind {
			return apperrors.Validation("listing kind cannot be changed")
		}
		if err := in.validate(); err != nil {
			return err
		}

		in.apply(listing)
		listing.UpdatedAt = s.now()
		if err := s.listings.UpdateTx(ctx, tx, listing); err != nil {
			return fmt.Errorf("failed to update listing: %w", err)
		}

		found, err := s.archive.SyncListingTx(ctx, tx, listing)
		if err != nil {
			return fmt.Errorf("failed to sync archive record: %w", err)
		}
		if !found {
			if err := s.archive.CreateTx(ctx, tx, newArchiveRecord(listing)); err != nil {
				return fmt.Errorf("failed to create archive record: %w", err)
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.cache.Refresh(listing)
	return toListing(listing), nil
}

// DeleteListing removes the owner's listing. Its booking requests go with it, the archive
// record stays behind detached.
func (s *PostgresStorage) DeleteListing(ctx context.Context, actorID, listingID int64) error {
	var orderNumber string
	err := s.inTx(ctx, func(tx db.Tx) error {
		listing, err := s.ownedListingTx(ctx, tx, actorID, listingID)
		if err != nil {
			return err
		}
		orderNumber = listing.OrderNumber
		return s.removeListingTx(ctx, tx, listingID)
	})
	if err != nil {
		return err
	}

	s.cache.Delete(orderNumber)
	return nil
}

func (s *PostgresStorage) ownedListingTx(ctx context.Context, tx db.Tx, actorID, listingID int64) (*repository.Listing, error) {
	listing, err := s.listings.GetByIDTx(ctx, tx, listingID)
	if errors.Is(err, repository.ErrObjectNotFound) {
		return nil, apperrors.NotFound("listing %d not found", listingID)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load listing: %w", err)
	}
	if listing.UserID != actorID {
		return nil, apperrors.Permission("listing %d belongs to another user", listingID)
	}
	return listing, nil
}

func (s *PostgresStorage) removeListingTx(ctx context.Context, tx db.Tx, listingID int64) error {
	if err := s.archive.DetachTx(ctx, tx, listingID); err != nil {
		return fmt.Errorf("failed to detach archive record: %w", err)
	}
	if err := s.listings.DeleteTx(ctx, tx, listingID); err != nil && !errors.Is(err, repository.ErrObjectNotFound) {
		return fmt.Errorf("failed to delete listing: %w", err)
	}
	return nil
}

// ListListings returns one of the public feeds. Hidden listings never appear in them.
func (s *PostgresStorage) ListListings(ctx context.Context, feed repository.ListingFeed, kind repository.ListingKind, sort string) ([]*Listing, error) {
	switch feed {
	case repository.FeedMain, repository.FeedAvailable, repository.FeedSearch:
	default:
		return nil, apperrors.Validation("unknown feed %q", feed)
	}
	if !validKind(kind) {
		return nil, apperrors.Validation("unknown listing kind %q", kind)
	}
	if _, ok := listingSorts[sort]; !ok {
		sort = DefaultListingSort
	}

	rows, err := s.listings.List(ctx, repository.ListingFilter{Kind: kind, Feed: feed, Sort: sort})
	if err != nil {
		return nil, fmt.Errorf("failed to list listings: %w", err)
	}
	return toListings(rows), nil
}

// FindByOrderNumber looks a live listing up by its order number, serving repeated lookups from
// the cache.
func (s *PostgresStorage) FindByOrderNumber(ctx context.Context, orderNumber string) (*Listing, error) {
	orderNumber = strings.TrimSpace(orderNumber)
	if !ordernum.Valid(orderNumber) || strings.HasSuffix(orderNumber, ordernum.ArchiveSuffix) {
		return nil, apperrors.Validation("invalid order number format")
	}
	kind := repository.KindCargo
	if strings.HasPrefix(orderNumber, ordernum.TruckPrefix) {
		kind = repository.KindTruck
	}

	if listing, ok := s.cache.Get(orderNumber); ok {
		return toListing(listing), nil
	}

	listing, err := s.listings.GetByOrderNumber(ctx, orderNumber)
	if errors.Is(err, repository.ErrObjectNotFound) {
		return nil, apperrors.NotFound("%s %s not found", kind, orderNumber)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find listing: %w", err)
	}

	s.cache.Set(listing)
	return toListing(listing), nil
}
