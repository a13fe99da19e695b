package storage

import (
	"context"
	"errors"
	"testing"

	"github.com/jackc/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
	"go.uber.org/zap"

	"gitlab.ozon.dev/pupkingeorgij/freightmarket/internal/apperrors"
	mock_database "gitlab.ozon.dev/pupkingeorgij/freightmarket/internal/db/mocks"
	"gitlab.ozon.dev/pupkingeorgij/freightmarket/internal/repository"
	mock_storage "gitlab.ozon.dev/pupkingeorgij/freightmarket/internal/storage/mocks"
)

type storageMocks struct {
	txm       *mock_storage.MockTxBeginner
	tx        *mock_database.MockTx
	listings  *mock_storage.MockListingRepository
	archive   *mock_storage.MockArchiveRepository
	bookings  *mock_storage.MockBookingRepository
	reviews   *mock_storage.MockReviewRepository
	companies *mock_storage.MockCompanyRepository
	outbox    *mock_storage.MockEventOutbox
	notifier  *mock_storage.MockNotifier
	cache     *mock_storage.MockListingCache
}

func newMockedStorage(t *testing.T) (*PostgresStorage, *storageMocks) {
	ctrl := gomock.NewController(t)
	m := &storageMocks{
		txm:       mock_storage.NewMockTxBeginner(ctrl),
		tx:        mock_database.NewMockTx(ctrl),
		listings:  mock_storage.NewMockListingRepository(ctrl),
		archive:   mock_storage.NewMockArchiveRepository(ctrl),
		bookings:  mock_storage.NewMockBookingRepository(ctrl),
		reviews:   mock_storage.NewMockReviewRepository(ctrl),
		companies: mock_storage.NewMockCompanyRepository(ctrl),
		outbox:    mock_storage.NewMockEventOutbox(ctrl),
		notifier:  mock_storage.NewMockNotifier(ctrl),
		cache:     mock_storage.NewMockListingCache(ctrl),
	}
	repos := Repositories{
		Listings:  m.listings,
		Archive:   m.archive,
		Bookings:  m.bookings,
		Reviews:   m.reviews,
		Companies: m.companies,
		Outbox:    m.outbox,
	}
	return NewPostgresStorage(m.txm, repos, m.notifier, m.cache, "booking_events", zap.NewNop()), m
}

// expectRolledBack expects a transaction that ends without a commit.
func (m *storageMocks) expectRolledBack() {
	m.txm.EXPECT().BeginTx(gomock.Any()).Return(m.tx, nil)
	m.tx.EXPECT().Rollback(gomock.Any()).Return(nil)
}

func waitingBooking() *repository.BookingRequest {
	return &repository.BookingRequest{
		ID:               10,
		SenderID:         carrier,
		ReceiverID:       owner,
		SenderUsername:   "carrier",
		ReceiverUsername: "owner",
		Status:           repository.StatusWaiting,
		CargoID:          ptr(int64(5)),
	}
}

func TestCreateListing_Failures(t *testing.T) {
	ctx := context.Background()

	t.Run("no company code starts no transaction", func(t *testing.T) {
		s, m := newMockedStorage(t)
		m.companies.EXPECT().GetRegisteredByOwner(gomock.Any(), owner).Return(nil, repository.ErrObjectNotFound)
		m.companies.EXPECT().GetMembership(gomock.Any(), owner).Return(nil, repository.ErrObjectNotFound)

		_, err := s.CreateListing(ctx, owner, cargoInput())
		assert.ErrorIs(t, err, apperrors.ErrCompanyResolution)
	})

	t.Run("company lookup error", func(t *testing.T) {
		s, m := newMockedStorage(t)
		dbErr := errors.New("connection reset")
		m.companies.EXPECT().GetRegisteredByOwner(gomock.Any(), owner).Return(nil, dbErr)

		_, err := s.CreateListing(ctx, owner, cargoInput())
		assert.ErrorIs(t, err, dbErr)
		assert.NotErrorIs(t, err, apperrors.ErrCompanyResolution)
	})

	t.Run("sequence read error rolls back", func(t *testing.T) {
		s, m := newMockedStorage(t)
		dbErr := errors.New("connection reset")
		m.companies.EXPECT().GetRegisteredByOwner(gomock.Any(), owner).
			Return(&repository.RegisteredCompany{ID: 1, Code: "UA-123"}, nil)
		m.expectRolledBack()
		m.listings.EXPECT().LockOrderPrefixTx(gomock.Any(), m.tx, "C123").Return(nil)
		m.listings.EXPECT().MaxSequenceTx(gomock.Any(), m.tx, "C123").Return(0, dbErr)

		_, err := s.CreateListing(ctx, owner, cargoInput())
		assert.ErrorIs(t, err, dbErr)
	})
}

func TestCreateBooking_UniqueViolationIsValidation(t *testing.T) {
	s, m := newMockedStorage(t)
	m.expectRolledBack()
	m.listings.EXPECT().GetByIDTx(gomock.Any(), m.tx, int64(5)).
		Return(&repository.Listing{ID: 5, Kind: repository.KindCargo, UserID: owner}, nil)
	m.bookings.EXPECT().HasActiveTx(gomock.Any(), m.tx, carrier, repository.KindCargo, int64(5)).Return(false, nil)
	m.bookings.EXPECT().CreateTx(gomock.Any(), m.tx, gomock.Any()).
		Return(&pgconn.PgError{Code: "23505", ConstraintName: "unique_active_cargo_request"})

	_, err := s.CreateBooking(context.Background(), carrier, ListingRef{CargoID: ptr(int64(5))}, nil)
	assert.ErrorIs(t, err, apperrors.ErrValidation)
}

func TestTransitionBooking_Failures(t *testing.T) {
	ctx := context.Background()

	t.Run("load error", func(t *testing.T) {
		s, m := newMockedStorage(t)
		dbErr := errors.New("connection reset")
		m.expectRolledBack()
		m.bookings.EXPECT().GetByIDTx(gomock.Any(), m.tx, int64(10)).Return(nil, dbErr)

		_, err := s.TransitionBooking(ctx, owner, 10, repository.StatusAccepted)
		assert.ErrorIs(t, err, dbErr)
	})

	t.Run("failed commit sends no notifications", func(t *testing.T) {
		s, m := newMockedStorage(t)
		m.txm.EXPECT().BeginTx(gomock.Any()).Return(m.tx, nil)
		m.bookings.EXPECT().GetByIDTx(gomock.Any(), m.tx, int64(10)).Return(waitingBooking(), nil)
		m.bookings.EXPECT().UpdateTx(gomock.Any(), m.tx, gomock.Any()).Return(nil)
		m.archive.EXPECT().SyncBookingTx(gomock.Any(), m.tx, int64(5), gomock.Any()).Return(true, nil)
		m.outbox.EXPECT().CreateTx(gomock.Any(), m.tx, gomock.Any()).Return(nil)
		m.tx.EXPECT().Commit(gomock.Any()).Return(errors.New("serialization failure"))
		m.tx.EXPECT().Rollback(gomock.Any()).Return(nil)

		_, err := s.TransitionBooking(ctx, owner, 10, repository.StatusAccepted)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "failed to commit transaction")
	})

	t.Run("notification errors do not fail the transition", func(t *testing.T) {
		s, m := newMockedStorage(t)
		m.txm.EXPECT().BeginTx(gomock.Any()).Return(m.tx, nil)
		m.bookings.EXPECT().GetByIDTx(gomock.Any(), m.tx, int64(10)).Return(waitingBooking(), nil)
		m.bookings.EXPECT().UpdateTx(gomock.Any(), m.tx, gomock.Any()).Return(nil)
		m.archive.EXPECT().SyncBookingTx(gomock.Any(), m.tx, int64(5), gomock.Any()).Return(false, nil)
		m.outbox.EXPECT().CreateTx(gomock.Any(), m.tx, gomock.Any()).Return(nil)
		m.tx.EXPECT().Commit(gomock.Any()).Return(nil)
		m.tx.EXPECT().Rollback(gomock.Any()).Return(nil)

		pushErr := errors.New("push failed")
		m.notifier.EXPECT().Notify(gomock.Any(), carrier, "Ваш запрос был принят owner").Return(pushErr)
		m.notifier.EXPECT().Notify(gomock.Any(), owner, "Вы приняли запрос от carrier").Return(pushErr)

		booking, err := s.TransitionBooking(ctx, owner, 10, repository.StatusAccepted)
		require.NoError(t, err)
		assert.Equal(t, repository.StatusAccepted, booking.Status)
	})
}

func TestSoftDeleteBooking_UpdateErrorRollsBack(t *testing.T) {
	s, m := newMockedStorage(t)
	dbErr := errors.New("connection reset")
	m.expectRolledBack()
	m.bookings.EXPECT().GetByIDTx(gomock.Any(), m.tx, int64(10)).Return(waitingBooking(), nil)
	m.bookings.EXPECT().UpdateTx(gomock.Any(), m.tx, gomock.Any()).Return(dbErr)

	purged, err := s.SoftDeleteBooking(context.Background(), carrier, 10)
	assert.ErrorIs(t, err, dbErr)
	assert.False(t, purged)
}

func TestCreateReview_ExistingReviewIsDuplicate(t *testing.T) {
	s, m := newMockedStorage(t)
	m.expectRolledBack()
	bookingID := int64(10)
	m.reviews.EXPECT().ExistsTx(gomock.Any(), m.tx, carrier, owner, &bookingID).Return(true, nil)

	_, err := s.CreateReview(context.Background(), carrier, ReviewInput{TargetUserID: owner, BookingID: &bookingID, Rating: 5})
	assert.ErrorIs(t, err, apperrors.ErrDuplicate)
}
