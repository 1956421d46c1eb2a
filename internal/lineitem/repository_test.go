package lineitem

import (
	"context"
	"testing"
	"time"

	"storekeep-be/internal/fault"
	"storekeep-be/internal/status"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var itemColumns = []string{
	"id", "order_id", "product_id", "quantity", "price_cents",
	"age_required", "status", "status_date",
}

func TestRepository_GetForOrder(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewRepository(db)
	now := time.Now().UTC()

	rows := sqlmock.NewRows(itemColumns).
		AddRow(1, 10, 7, 2, int64(1000), 0, int(status.Pending), now).
		AddRow(2, 10, 8, 1, int64(800), 21, int(status.Pending), now)

	mock.ExpectQuery(`SELECT .* FROM line_items WHERE order_id = \$1 ORDER BY id`).
		WithArgs(10).
		WillReturnRows(rows)

	items, err := repo.GetForOrder(context.Background(), 10)
	assert.NoError(t, err)
	require.Len(t, items, 2)
	assert.Equal(t, status.Pending, items[0].Status)
	assert.Equal(t, 21, items[1].AgeRequired)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRepository_GetByID(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewRepository(db)

	t.Run("Success", func(t *testing.T) {
		mock.ExpectQuery(`SELECT .* FROM line_items WHERE id = \$1`).
			WithArgs(1).
			WillReturnRows(sqlmock.NewRows(itemColumns).
				AddRow(1, 10, 7, 2, int64(1000), 0, int(status.Open), time.Now()))

		li, err := repo.GetByID(context.Background(), 1)
		assert.NoError(t, err)
		assert.Equal(t, 10, li.OrderID)
		assert.Equal(t, status.Open, li.Status)
	})

	t.Run("NotFound", func(t *testing.T) {
		mock.ExpectQuery(`SELECT .* FROM line_items WHERE id = \$1`).
			WithArgs(99).
			WillReturnRows(sqlmock.NewRows(itemColumns))

		_, err := repo.GetByID(context.Background(), 99)
		assert.True(t, fault.IsNotFound(err))
	})

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRepository_ExistenceGuards(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewRepository(db)
	ctx := context.Background()

	t.Run("OrderHasLineItems", func(t *testing.T) {
		mock.ExpectQuery(`SELECT EXISTS\(SELECT 1 FROM line_items WHERE order_id = \$1\)`).
			WithArgs(10).
			WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(true))

		ok, err := repo.OrderHasLineItems(ctx, 10)
		assert.NoError(t, err)
		assert.True(t, ok)
	})

	t.Run("ProductHasNoLineItems", func(t *testing.T) {
		mock.ExpectQuery(`SELECT EXISTS\(SELECT 1 FROM line_items WHERE product_id = \$1\)`).
			WithArgs(7).
			WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(false))

		ok, err := repo.ProductHasLineItems(ctx, 7)
		assert.NoError(t, err)
		assert.False(t, ok)
	})

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRepository_UpdateStatus(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewRepository(db)
	ctx := context.Background()
	now := time.Now().UTC()

	t.Run("Success", func(t *testing.T) {
		mock.ExpectExec(`UPDATE line_items SET status = \$1, status_date = \$2 WHERE id = \$3`).
			WithArgs(int(status.Shipped), now, 1).
			WillReturnResult(sqlmock.NewResult(0, 1))

		assert.NoError(t, repo.UpdateStatus(ctx, 1, status.Shipped, now))
	})

	t.Run("NotFound", func(t *testing.T) {
		mock.ExpectExec(`UPDATE line_items SET status = \$1, status_date = \$2 WHERE id = \$3`).
			WithArgs(int(status.Shipped), now, 99).
			WillReturnResult(sqlmock.NewResult(0, 0))

		assert.True(t, fault.IsNotFound(repo.UpdateStatus(ctx, 99, status.Shipped, now)))
	})

	assert.NoError(t, mock.ExpectationsWereMet())
}
