package promotion

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var promoColumns = []string{
	"id", "product_id", "created_on", "created_by", "start_date", "stop_date",
	"canceled_on", "canceled_by", "price_cents", "description", "limited_quantity", "maximum_quantity",
}

func TestRepository_CurrentForProduct(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewRepository(db)
	ctx := context.Background()
	now := time.Now().UTC()

	t.Run("Success", func(t *testing.T) {
		rows := sqlmock.NewRows(promoColumns).AddRow(
			5, 1, now.Add(-48*time.Hour), "mgr-1", now.Add(-24*time.Hour), now.Add(24*time.Hour),
			nil, nil, int64(800), "spring sale", false, 0,
		)

		mock.ExpectQuery(`SELECT .* FROM promotions WHERE product_id = \$1 AND start_date <= \$2 AND stop_date >= \$2 AND canceled_on IS NULL`).
			WithArgs(1, now).
			WillReturnRows(rows)

		promos, err := repo.CurrentForProduct(ctx, 1, now)
		assert.NoError(t, err)
		require.Len(t, promos, 1)
		assert.Equal(t, int64(800), promos[0].PriceCents)
		assert.False(t, promos[0].Canceled())
	})

	t.Run("Empty", func(t *testing.T) {
		mock.ExpectQuery(`SELECT .* FROM promotions WHERE product_id = \$1`).
			WithArgs(2, now).
			WillReturnRows(sqlmock.NewRows(promoColumns))

		promos, err := repo.CurrentForProduct(ctx, 2, now)
		assert.NoError(t, err)
		assert.Empty(t, promos)
	})

	t.Run("DBError", func(t *testing.T) {
		mock.ExpectQuery(`SELECT .* FROM promotions`).
			WillReturnError(errors.New("db error"))

		_, err := repo.CurrentForProduct(ctx, 1, now)
		assert.Error(t, err)
	})

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRepository_GetForProduct(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewRepository(db)
	now := time.Now().UTC()
	canceledAt := now.Add(-time.Hour)

	rows := sqlmock.NewRows(promoColumns).
		AddRow(5, 1, now, "mgr-1", now, now.Add(24*time.Hour), nil, nil, int64(800), "sale", false, 0).
		AddRow(6, 1, now, "mgr-1", now, now.Add(24*time.Hour), canceledAt, "adm-1", int64(700), "pulled", true, 10)

	mock.ExpectQuery(`SELECT .* FROM promotions WHERE product_id = \$1 ORDER BY start_date`).
		WithArgs(1).
		WillReturnRows(rows)

	promos, err := repo.GetForProduct(context.Background(), 1)
	assert.NoError(t, err)
	require.Len(t, promos, 2)
	assert.False(t, promos[0].Canceled())
	assert.True(t, promos[1].Canceled())
	assert.Equal(t, "adm-1", promos[1].CanceledBy)
	assert.NoError(t, mock.ExpectationsWereMet())
}
