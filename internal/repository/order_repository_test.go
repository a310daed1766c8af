package repository

import (
	"context"
	"regexp"
	"testing"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/require"

	"github.com/rawa-tech/zagros-erp/internal/models"
)

func TestOrderRepositoryCreateCompletedDecrementsStock(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewOrderRepository(db)

	order := &models.Order{
		OrderNo:  "SO-000001",
		UserID:   "usr-1",
		Status:   models.OrderCompleted,
		Subtotal: 100,
		Total:    100,
		Items: []models.OrderItem{
			{ProductID: "prd-1", Quantity: 2, UnitPrice: 50, LineTotal: 100},
		},
	}

	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO orders").WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("INSERT INTO order_items").WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(regexp.QuoteMeta("UPDATE products SET quantity = quantity - $2")).
		WithArgs("prd-1", 2).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	require.NoError(t, repo.Create(context.Background(), order))
	require.Equal(t, order.ID, order.Items[0].OrderID)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestOrderRepositoryCreateInsufficientStockRollsBack(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewOrderRepository(db)

	order := &models.Order{
		OrderNo: "SO-000002",
		UserID:  "usr-1",
		Status:  models.OrderCompleted,
		Items: []models.OrderItem{
			{ProductID: "prd-1", Quantity: 99, UnitPrice: 50, LineTotal: 4950},
		},
	}

	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO orders").WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("INSERT INTO order_items").WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(regexp.QuoteMeta("UPDATE products SET quantity = quantity - $2")).
		WithArgs("prd-1", 99).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectRollback()

	err := repo.Create(context.Background(), order)
	require.ErrorIs(t, err, ErrInsufficientStock)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestOrderRepositoryCancelCompletedRestoresStock(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewOrderRepository(db)

	order := &models.Order{
		ID:     "ord-1",
		Status: models.OrderCompleted,
		Items: []models.OrderItem{
			{ProductID: "prd-1", Quantity: 3},
		},
	}

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta("UPDATE orders SET status = $2")).
		WithArgs("ord-1", models.OrderCancelled).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(regexp.QuoteMeta("UPDATE products SET quantity = quantity + $2")).
		WithArgs("prd-1", 3).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	require.NoError(t, repo.UpdateStatus(context.Background(), order, models.OrderCancelled))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestOrderRepositoryTodayTotals(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewOrderRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT COUNT(*), COALESCE(SUM(total), 0) FROM orders")).
		WithArgs(models.OrderCompleted).
		WillReturnRows(sqlmock.NewRows([]string{"count", "sum"}).AddRow(4, 312.5))

	count, total, err := repo.TodayTotals(context.Background())
	require.NoError(t, err)
	require.Equal(t, 4, count)
	require.Equal(t, 312.5, total)
	require.NoError(t, mock.ExpectationsWereMet())
}
