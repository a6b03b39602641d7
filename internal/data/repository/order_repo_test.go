package repository

import (
	"context"
	"errors"
	"testing"
	"time"

	"order-upload/internal/data/entity"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

var orderCols = []string{"id", "order_number", "video_url", "image_url", "song_request", "has_uploaded", "created_at", "updated_at"}

func newOrderRepoWithMock(t *testing.T) (OrderRepository, pgxmock.PgxPoolIface) {
	t.Helper()
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	t.Cleanup(mock.Close)
	return NewOrderRepository(mock, zap.NewNop()), mock
}

func TestOrderRepository_Create(t *testing.T) {
	ctx := context.Background()
	now := time.Now()

	t.Run("returns stored row", func(t *testing.T) {
		repo, mock := newOrderRepoWithMock(t)
		mock.ExpectQuery(`INSERT INTO orders`).
			WithArgs("A100").
			WillReturnRows(pgxmock.NewRows(orderCols).AddRow(int64(1), "A100", "", "", "", false, now, now))

		order := &entity.Order{OrderNumber: "A100"}
		require.NoError(t, repo.Create(ctx, order))
		assert.Equal(t, int64(1), order.ID)
		assert.False(t, order.HasUploaded)
		assert.Empty(t, order.VideoURL)
		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("duplicate number", func(t *testing.T) {
		repo, mock := newOrderRepoWithMock(t)
		mock.ExpectQuery(`INSERT INTO orders`).
			WithArgs("A100").
			WillReturnError(&pgconn.PgError{Code: "23505"})

		err := repo.Create(ctx, &entity.Order{OrderNumber: "A100"})
		require.ErrorIs(t, err, ErrDuplicate)
		require.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestOrderRepository_FindByOrderNumber(t *testing.T) {
	ctx := context.Background()
	now := time.Now()

	t.Run("found", func(t *testing.T) {
		repo, mock := newOrderRepoWithMock(t)
		mock.ExpectQuery(`FROM orders WHERE order_number = \$1`).
			WithArgs("A100").
			WillReturnRows(pgxmock.NewRows(orderCols).
				AddRow(int64(3), "A100", "https://cdn/v.mp4", "https://cdn/i.png", "Happy Birthday", true, now, now))

		order, err := repo.FindByOrderNumber(ctx, "A100")
		require.NoError(t, err)
		require.NotNil(t, order)
		assert.True(t, order.HasUploaded)
		assert.Equal(t, "Happy Birthday", order.SongRequest)
	})

	t.Run("missing is nil, nil", func(t *testing.T) {
		repo, mock := newOrderRepoWithMock(t)
		mock.ExpectQuery(`FROM orders WHERE order_number = \$1`).
			WithArgs("nope").
			WillReturnRows(pgxmock.NewRows(orderCols))

		order, err := repo.FindByOrderNumber(ctx, "nope")
		require.NoError(t, err)
		assert.Nil(t, order)
	})

	t.Run("driver error", func(t *testing.T) {
		repo, mock := newOrderRepoWithMock(t)
		mock.ExpectQuery(`FROM orders`).WithArgs("A1").WillReturnError(errors.New("conn reset"))

		_, err := repo.FindByOrderNumber(ctx, "A1")
		require.Error(t, err)
	})
}

func TestOrderRepository_FindAll(t *testing.T) {
	repo, mock := newOrderRepoWithMock(t)
	now := time.Now()

	mock.ExpectQuery(`ORDER BY id`).
		WithArgs("a1").
		WillReturnRows(pgxmock.NewRows(orderCols).
			AddRow(int64(1), "A100", "", "", "", false, now, now).
			AddRow(int64(2), "xa1", "v", "i", "s", true, now, now))

	orders, err := repo.FindAll(context.Background(), "a1")
	require.NoError(t, err)
	require.Len(t, orders, 2)
	assert.Equal(t, "A100", orders[0].OrderNumber)
	assert.Equal(t, "xa1", orders[1].OrderNumber)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestOrderRepository_FindAll_EmptyIsNotNil(t *testing.T) {
	repo, mock := newOrderRepoWithMock(t)
	mock.ExpectQuery(`ORDER BY id`).WithArgs("").WillReturnRows(pgxmock.NewRows(orderCols))

	orders, err := repo.FindAll(context.Background(), "")
	require.NoError(t, err)
	assert.NotNil(t, orders)
	assert.Empty(t, orders)
}

func TestOrderRepository_MarkUploaded(t *testing.T) {
	ctx := context.Background()
	now := time.Now()
	upload := entity.OrderUpload{VideoURL: "https://cdn/v.mp4", ImageURL: "https://cdn/i.png", SongRequest: "Happy Birthday"}

	t.Run("pending order transitions", func(t *testing.T) {
		repo, mock := newOrderRepoWithMock(t)
		mock.ExpectQuery(`UPDATE orders(.|\n)*WHERE order_number = \$1 AND has_uploaded = FALSE`).
			WithArgs("A100", upload.VideoURL, upload.ImageURL, upload.SongRequest).
			WillReturnRows(pgxmock.NewRows(orderCols).
				AddRow(int64(1), "A100", upload.VideoURL, upload.ImageURL, upload.SongRequest, true, now, now))

		order, err := repo.MarkUploaded(ctx, "A100", upload)
		require.NoError(t, err)
		require.NotNil(t, order)
		assert.True(t, order.HasUploaded)
		assert.Equal(t, upload.VideoURL, order.VideoURL)
		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("no pending row", func(t *testing.T) {
		repo, mock := newOrderRepoWithMock(t)
		mock.ExpectQuery(`UPDATE orders`).
			WithArgs("A100", upload.VideoURL, upload.ImageURL, upload.SongRequest).
			WillReturnRows(pgxmock.NewRows(orderCols))

		order, err := repo.MarkUploaded(ctx, "A100", upload)
		require.NoError(t, err)
		assert.Nil(t, order)
	})
}

func TestOrderRepository_DeleteUploaded(t *testing.T) {
	ctx := context.Background()

	t.Run("deleted", func(t *testing.T) {
		repo, mock := newOrderRepoWithMock(t)
		mock.ExpectExec(`DELETE FROM orders WHERE order_number = \$1 AND has_uploaded = TRUE`).
			WithArgs("A100").
			WillReturnResult(pgxmock.NewResult("DELETE", 1))

		ok, err := repo.DeleteUploaded(ctx, "A100")
		require.NoError(t, err)
		assert.True(t, ok)
	})

	t.Run("nothing deleted", func(t *testing.T) {
		repo, mock := newOrderRepoWithMock(t)
		mock.ExpectExec(`DELETE FROM orders`).
			WithArgs("A100").
			WillReturnResult(pgxmock.NewResult("DELETE", 0))

		ok, err := repo.DeleteUploaded(ctx, "A100")
		require.NoError(t, err)
		assert.False(t, ok)
	})
}
