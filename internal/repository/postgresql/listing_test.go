package postgresql_test

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/jackc/pgconn"
	"github.com/jackc/pgx/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	mock_database "gitlab.ozon.dev/pupkingeorgij/freightmarket/internal/db/mocks"
	"gitlab.ozon.dev/pupkingeorgij/freightmarket/internal/repository"
	"gitlab.ozon.dev/pupkingeorgij/freightmarket/internal/repository/postgresql"
)

func testListing() *repository.Listing {
	created := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	price := 100.0
	return &repository.Listing{
		ID:            5,
		Kind:          repository.KindCargo,
		UserID:        1,
		OrderNumber:   "C123000001",
		LoadingCity:   "Kyiv",
		UnloadingCity: "Lviv",
		FreightType:   "pallets",
		DateFrom:      created.AddDate(0, 0, 7),
		Price:         &price,
		ShowOnMain:    true,
		CreatedAt:     created,
		UpdatedAt:     created,
	}
}

func TestListingRepo_CreateTx(t *testing.T) {
	ctx := context.Background()

	t.Run("success", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		mockDB := mock_database.NewMockDB(ctrl)
		mockTx := mock_database.NewMockTx(ctrl)
		repo := postgresql.NewListingRepo(mockDB)
		listing := testListing()
		listing.ID = 0

		mockTx.EXPECT().Get(
			gomock.Any(), gomock.Any(), gomock.Any(),
			gomock.Eq(listing.Kind), gomock.Eq(listing.UserID), gomock.Eq(listing.OrderNumber),
			gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any(),
			gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any(),
			gomock.Any(), gomock.Eq(listing.CreatedAt), gomock.Eq(listing.UpdatedAt),
		).DoAndReturn(func(_ context.Context, dest interface{}, _ string, _ ...interface{}) error {
			*(dest.(*int64)) = 42
			return nil
		})

		err := repo.CreateTx(ctx, mockTx, listing)
		assert.NoError(t, err)
		assert.Equal(t, int64(42), listing.ID)
	})

	t.Run("duplicate order number", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		mockDB := mock_database.NewMockDB(ctrl)
		mockTx := mock_database.NewMockTx(ctrl)
		repo := postgresql.NewListingRepo(mockDB)
		pgErr := &pgconn.PgError{Code: "23505", ConstraintName: "listings_order_number_key"}

		mockTx.EXPECT().Get(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Return(pgErr).AnyTimes()

		err := repo.CreateTx(ctx, mockTx, testListing())
		assert.ErrorIs(t, err, pgErr)
	})
}

func TestListingRepo_GetByID(t *testing.T) {
	ctx := context.Background()

	t.Run("found", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		mockDB := mock_database.NewMockDB(ctrl)
		repo := postgresql.NewListingRepo(mockDB)
		want := testListing()

		mockDB.EXPECT().Get(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Eq(want.ID)).
			DoAndReturn(func(_ context.Context, dest *repository.Listing, _ string, _ int64) error {
				*dest = *want
				return nil
			})

		got, err := repo.GetByID(ctx, want.ID)
		assert.NoError(t, err)
		assert.Equal(t, want, got)
	})

	t.Run("not found", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		mockDB := mock_database.NewMockDB(ctrl)
		repo := postgresql.NewListingRepo(mockDB)

		mockDB.EXPECT().Get(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Return(pgx.ErrNoRows)

		got, err := repo.GetByID(ctx, 7)
		assert.ErrorIs(t, err, repository.ErrObjectNotFound)
		assert.Nil(t, got)
	})

	t.Run("database error", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		mockDB := mock_database.NewMockDB(ctrl)
		repo := postgresql.NewListingRepo(mockDB)
		expectedErr := errors.New("database error")

		mockDB.EXPECT().Get(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Return(expectedErr)

		_, err := repo.GetByID(ctx, 7)
		assert.Equal(t, expectedErr, err)
	})
}

func TestListingRepo_GetByIDTx_LocksRow(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockDB := mock_database.NewMockDB(ctrl)
	mockTx := mock_database.NewMockTx(ctrl)
	repo := postgresql.NewListingRepo(mockDB)
	want := testListing()

	mockTx.EXPECT().Get(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Eq(want.ID)).
		DoAndReturn(func(_ context.Context, dest *repository.Listing, query string, _ int64) error {
			assert.Contains(t, query, "FOR UPDATE")
			*dest = *want
			return nil
		})

	got, err := repo.GetByIDTx(context.Background(), mockTx, want.ID)
	require.NoError(t, err)
	assert.Equal(t, want, got)
}

func TestListingRepo_DeleteTx(t *testing.T) {
	ctx := context.Background()

	t.Run("deleted", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		mockTx := mock_database.NewMockTx(ctrl)
		repo := postgresql.NewListingRepo(mock_database.NewMockDB(ctrl))

		mockTx.EXPECT().Exec(gomock.Any(), gomock.Any(), gomock.Eq(int64(5))).Return(pgconn.CommandTag("DELETE 1"), nil)

		assert.NoError(t, repo.DeleteTx(ctx, mockTx, 5))
	})

	t.Run("missing", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		mockTx := mock_database.NewMockTx(ctrl)
		repo := postgresql.NewListingRepo(mock_database.NewMockDB(ctrl))

		mockTx.EXPECT().Exec(gomock.Any(), gomock.Any(), gomock.Eq(int64(5))).Return(pgconn.CommandTag("DELETE 0"), nil)

		assert.ErrorIs(t, repo.DeleteTx(ctx, mockTx, 5), repository.ErrObjectNotFound)
	})
}

func TestListingRepo_Sequence(t *testing.T) {
	ctx := context.Background()
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockTx := mock_database.NewMockTx(ctrl)
	repo := postgresql.NewListingRepo(mock_database.NewMockDB(ctrl))

	gomock.InOrder(
		mockTx.EXPECT().Exec(gomock.Any(), gomock.Any(), gomock.Eq("C123")).
			DoAndReturn(func(_ context.Context, query string, _ string) (pgconn.CommandTag, error) {
				assert.Contains(t, query, "pg_advisory_xact_lock")
				return pgconn.CommandTag("SELECT 1"), nil
			}),
		mockTx.EXPECT().Get(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Eq("^C123[0-9]{6}$")).
			DoAndReturn(func(_ context.Context, dest *int, _ string, _ string) error {
				*dest = 17
				return nil
			}),
	)

	require.NoError(t, repo.LockOrderPrefixTx(ctx, mockTx, "C123"))
	max, err := repo.MaxSequenceTx(ctx, mockTx, "C123")
	require.NoError(t, err)
	assert.Equal(t, 17, max)
}

func TestListingRepo_List(t *testing.T) {
	ctx := context.Background()

	t.Run("available feed", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		mockDB := mock_database.NewMockDB(ctrl)
		repo := postgresql.NewListingRepo(mockDB)

		mockDB.EXPECT().Select(gomock.Any(), gomock.Any(), gomock.Any(),
			gomock.Eq(repository.KindTruck),
			gomock.Eq([]string{"Accepted", "Finished", "Cancelled"}),
		).DoAndReturn(func(_ context.Context, dest interface{}, query string, _ ...interface{}) error {
			assert.Contains(t, query, "NOT l.hidden")
			assert.Contains(t, query, "l.show_in_available")
			assert.Contains(t, query, "b.truck_id = l.id")
			assert.True(t, strings.Contains(query, "ORDER BY l.price ASC NULLS LAST, l.id DESC"))
			*(dest.(*[]*repository.Listing)) = []*repository.Listing{testListing()}
			return nil
		})

		got, err := repo.List(ctx, repository.ListingFilter{
			Kind: repository.KindTruck, Feed: repository.FeedAvailable, Sort: "price_asc",
		})
		require.NoError(t, err)
		assert.Len(t, got, 1)
	})

	t.Run("owner listings include hidden ones", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		mockDB := mock_database.NewMockDB(ctrl)
		repo := postgresql.NewListingRepo(mockDB)
		ownerID := int64(3)

		mockDB.EXPECT().Select(gomock.Any(), gomock.Any(), gomock.Any(),
			gomock.Eq(repository.KindCargo), gomock.Eq(ownerID),
		).DoAndReturn(func(_ context.Context, _ interface{}, query string, _ ...interface{}) error {
			assert.NotContains(t, query, "NOT l.hidden")
			assert.Contains(t, query, "l.user_id = $2")
			assert.Contains(t, query, "ORDER BY l.created_at DESC")
			return nil
		})

		_, err := repo.List(ctx, repository.ListingFilter{Kind: repository.KindCargo, OwnerID: &ownerID})
		require.NoError(t, err)
	})
}
