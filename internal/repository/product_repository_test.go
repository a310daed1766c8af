package repository

import (
	"context"
	"database/sql"
	"regexp"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/require"

	"github.com/rawa-tech/zagros-erp/internal/models"
)

func TestProductRepositoryReferencedByOrders(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewProductRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT 1 FROM order_items WHERE product_id = $1")).
		WithArgs("prd-1").
		WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(1))

	referenced, err := repo.ReferencedByOrders(context.Background(), "prd-1")
	require.NoError(t, err)
	require.True(t, referenced)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT 1 FROM order_items WHERE product_id = $1")).
		WithArgs("prd-2").
		WillReturnError(sql.ErrNoRows)

	referenced, err = repo.ReferencedByOrders(context.Background(), "prd-2")
	require.NoError(t, err)
	require.False(t, referenced)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestProductRepositoryListLowStock(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewProductRepository(db)

	now := time.Now()
	rows := sqlmock.NewRows([]string{"id", "sku", "name_en", "name_ku", "name_ar", "category_id", "cost_price", "sell_price", "quantity", "reorder_level", "image_path", "status", "created_at", "updated_at"}).
		AddRow("prd-1", "SKU-1", "Rice 5kg", "برنج ٥ کگم", "أرز ٥ كغم", nil, 4.0, 6.5, 2, 5, nil, models.StatusActive, now, now)
	mock.ExpectQuery("SELECT id, sku, .+ FROM products WHERE quantity <= reorder_level").
		WillReturnRows(rows)
	mock.ExpectQuery(regexp.QuoteMeta("SELECT COUNT(*) FROM products WHERE quantity <= reorder_level")).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))

	products, total, err := repo.List(context.Background(), models.ProductFilter{LowStock: true})
	require.NoError(t, err)
	require.Len(t, products, 1)
	require.Equal(t, 1, total)
	require.True(t, products[0].LowStock())
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestProductRepositoryCountLowStock(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewProductRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT COUNT(*) FROM products WHERE status = $1 AND quantity <= reorder_level")).
		WithArgs(models.StatusActive).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(3))

	count, err := repo.CountLowStock(context.Background())
	require.NoError(t, err)
	require.Equal(t, 3, count)
	require.NoError(t, mock.ExpectationsWereMet())
}
