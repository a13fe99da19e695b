package postgresql_test

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/google/uuid"
	"github.com/jackc/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	mock_database "gitlab.ozon.dev/pupkingeorgij/freightmarket/internal/db/mocks"
	"gitlab.ozon.dev/pupkingeorgij/freightmarket/internal/repository"
	"gitlab.ozon.dev/pupkingeorgij/freightmarket/internal/repository/postgresql"
)

func TestOutboxTaskRepo_CreateTx(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockTx := mock_database.NewMockTx(ctrl)
	repo := postgresql.NewOutboxTaskRepo()
	task := &repository.OutboxTask{Topic: "booking-events", Payload: json.RawMessage(`{"event":"booking.created"}`)}

	mockTx.EXPECT().Exec(gomock.Any(), gomock.Any(),
		gomock.Any(), gomock.Eq(repository.TaskStatusCreated), gomock.Eq(task.Payload), gomock.Eq("booking-events"),
		gomock.Any(), gomock.Any(),
	).Return(pgconn.CommandTag("INSERT 0 1"), nil)

	require.NoError(t, repo.CreateTx(context.Background(), mockTx, task))
	assert.NotEqual(t, uuid.Nil, task.ID)
}

func TestOutboxTaskRepo_GetProcessableTasksTx(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockTx := mock_database.NewMockTx(ctrl)
	repo := postgresql.NewOutboxTaskRepo()

	mockTx.EXPECT().Select(gomock.Any(), gomock.Any(), gomock.Any(),
		gomock.Eq(repository.TaskStatusCreated), gomock.Eq(repository.TaskStatusFailed), gomock.Eq(3), gomock.Eq(10),
	).DoAndReturn(func(_ context.Context, dest interface{}, query string, _ ...interface{}) error {
		assert.Contains(t, query, "FOR UPDATE SKIP LOCKED")
		*(dest.(*[]*repository.OutboxTask)) = []*repository.OutboxTask{{ID: uuid.New()}}
		return nil
	})

	tasks, err := repo.GetProcessableTasksTx(context.Background(), mockTx, 10, 3)
	require.NoError(t, err)
	assert.Len(t, tasks, 1)
}

func TestOutboxTaskRepo_UpdateTaskStatus(t *testing.T) {
	ctx := context.Background()
	id := uuid.New()

	t.Run("through pool", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		mockDB := mock_database.NewMockDB(ctrl)
		repo := postgresql.NewOutboxTaskRepo()

		mockDB.EXPECT().Exec(gomock.Any(), gomock.Any(),
			gomock.Eq(id), gomock.Eq(repository.TaskStatusDone), gomock.Eq(1), gomock.Any(), gomock.Any(),
		).Return(pgconn.CommandTag("UPDATE 1"), nil)

		assert.NoError(t, repo.UpdateTaskStatus(ctx, mockDB, id, repository.TaskStatusDone, 1, nil, nil))
	})

	t.Run("missing task", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		mockTx := mock_database.NewMockTx(ctrl)
		repo := postgresql.NewOutboxTaskRepo()

		mockTx.EXPECT().Exec(gomock.Any(), gomock.Any(),
			gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any(),
		).Return(pgconn.CommandTag("UPDATE 0"), nil)

		err := repo.UpdateTaskStatusTx(ctx, mockTx, id, repository.TaskStatusProcessing, 0, nil, nil)
		assert.ErrorIs(t, err, repository.ErrObjectNotFound)
	})
}
