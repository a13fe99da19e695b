//go:generate mockgen -source ./storage.go -destination=./mocks/storage.go -package=mock_storage
package storage

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"gitlab.ozon.dev/pupkingeorgij/freightmarket/internal/db"
	"gitlab.ozon.dev/pupkingeorgij/freightmarket/internal/repository"
)

type TxBeginner interface {
	BeginTx(ctx context.Context) (db.Tx, error)
}

type ListingRepository interface {
	CreateTx(ctx context.Context, tx db.Tx, listing *repository.Listing) error
	GetByID(ctx context.Context, id int64) (*repository.Listing, error)
	GetByIDTx(ctx context.Context, tx db.Tx, id int64) (*repository.Listing, error)
	GetByOrderNumber(ctx context.Context, orderNumber string) (*repository.Listing, error)
	UpdateTx(ctx context.Context, tx db.Tx, listing *repository.Listing) error
	DeleteTx(ctx context.Context, tx db.Tx, id int64) error
	LockOrderPrefixTx(ctx context.Context, tx db.Tx, prefix string) error
	MaxSequenceTx(ctx context.Context, tx db.Tx, prefix string) (int, error)
	List(ctx context.Context, filter repository.ListingFilter) ([]*repository.Listing, error)
	GetAll(ctx context.Context) ([]*repository.Listing, error)
}

type ArchiveRepository interface {
	CreateTx(ctx context.Context, tx db.Tx, record *repository.ArchiveRecord) error
	SyncListingTx(ctx context.Context, tx db.Tx, listing *repository.Listing) (bool, error)
	SyncBookingTx(ctx context.Context, tx db.Tx, listingID int64, booking *repository.BookingRequest) (bool, error)
	DetachTx(ctx context.Context, tx db.Tx, listingID int64) error
	MaxSequenceTx(ctx context.Context, tx db.Tx, prefix string) (int, error)
	GetByListingID(ctx context.Context, listingID int64) (*repository.ArchiveRecord, error)
}

type BookingRepository interface {
	CreateTx(ctx context.Context, tx db.Tx, booking *repository.BookingRequest) error
	GetByID(ctx context.Context, id int64) (*repository.BookingRequest, error)
	GetByIDTx(ctx context.Context, tx db.Tx, id int64) (*repository.BookingRequest, error)
	HasActiveTx(ctx context.Context, tx db.Tx, senderID int64, kind repository.ListingKind, listingID int64) (bool, error)
	UpdateTx(ctx context.Context, tx db.Tx, booking *repository.BookingRequest) error
	DeleteTx(ctx context.Context, tx db.Tx, id int64) error
	ListByView(ctx context.Context, view repository.BookingView, userID int64) ([]*repository.BookingRequest, error)
}

type ReviewRepository interface {
	ExistsTx(ctx context.Context, tx db.Tx, authorID, targetUserID int64, bookingID *int64) (bool, error)
	CreateTx(ctx context.Context, tx db.Tx, review *repository.Review) error
	List(ctx context.Context, filter repository.ReviewFilter, viewerID int64) ([]*repository.Review, error)
	RatingSummary(ctx context.Context, userID int64) (repository.RatingSummary, error)
}

type CompanyRepository interface {
	GetRegisteredByOwner(ctx context.Context, userID int64) (*repository.RegisteredCompany, error)
	GetTeamByOwner(ctx context.Context, userID int64) (*repository.TeamCompany, error)
	GetMembership(ctx context.Context, userID int64) (*repository.TeamMember, error)
	GetMember(ctx context.Context, companyID, userID int64) (*repository.TeamMember, error)
	ListMembers(ctx context.Context, companyID int64) ([]*repository.TeamMember, error)
}

type EventOutbox interface {
	CreateTx(ctx context.Context, tx db.Tx, task *repository.OutboxTask) error
}

type OutboxTaskRepository interface {
	EventOutbox
	GetProcessableTasksTx(ctx context.Context, tx db.Tx, limit, maxAttempts int) ([]*repository.OutboxTask, error)
	UpdateTaskStatusTx(ctx context.Context, tx db.Tx, id uuid.UUID, status repository.TaskStatus, attempts int, lastError *string, completedAt *time.Time) error
	UpdateTaskStatus(ctx context.Context, database db.DB, id uuid.UUID, status repository.TaskStatus, attempts int, lastError *string, completedAt *time.Time) error
}

// Notifier delivers a user-facing message; implementations never fail on push problems.
type Notifier interface {
	Notify(ctx context.Context, userID int64, message string) error
}

// ListingCache serves order-number lookups. Refresh and Delete also reach the caches of the
// other replicas.
type ListingCache interface {
	Get(orderNumber string) (*repository.Listing, bool)
	Set(listing *repository.Listing)
	Refresh(listing *repository.Listing)
	Delete(orderNumber string)
}

type Repositories struct {
	Listings  ListingRepository
	Archive   ArchiveRepository
	Bookings  BookingRepository
	Reviews   ReviewRepository
	Companies CompanyRepository
	Outbox    EventOutbox
}

type PostgresStorage struct {
	txm          TxBeginner
	listings     ListingRepository
	archive      ArchiveRepository
	bookings     BookingRepository
	reviews      ReviewRepository
	companies    CompanyRepository
	outbox       EventOutbox
	notifier     Notifier
	cache        ListingCache
	bookingTopic string
	logger       *zap.Logger
	now          func() time.Time
}

func NewPostgresStorage(
	txm TxBeginner,
	repos Repositories,
	notifier Notifier,
	cache ListingCache,
	bookingTopic string,
	logger *zap.Logger,
) *PostgresStorage {
	return &PostgresStorage{
		txm:          txm,
		listings:     repos.Listings,
		archive:      repos.Archive,
		bookings:     repos.Bookings,
		reviews:      repos.Reviews,
		companies:    repos.Companies,
		outbox:       repos.Outbox,
		notifier:     notifier,
		cache:        cache,
		bookingTopic: bookingTopic,
		logger:       logger,
		now:          func() time.Time { return time.Now().UTC() },
	}
}

// inTx runs fn inside one transaction and commits when fn succeeds.
func (s *PostgresStorage) inTx(ctx context.Context, fn func(tx db.Tx) error) error {
	tx, err := s.txm.BeginTx(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() {
		_ = tx.Rollback(context.Background())
	}()

	if err := fn(tx); err != nil {
		return err
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

func (s *PostgresStorage) notify(ctx context.Context, userID int64, message string) {
	if err := s.notifier.Notify(ctx, userID, message); err != nil {
		s.logger.Error("Failed to deliver notification", zap.Int64("user_id", userID), zap.Error(err))
	}
}
