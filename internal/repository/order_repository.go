package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/rawa-tech/zagros-erp/internal/models"
)

const orderColumns = `id, order_no, customer_id, user_id, status, subtotal, discount, total, created_at, updated_at`

// ErrInsufficientStock is returned when an order line asks for more units than
// the product currently holds.
var ErrInsufficientStock = fmt.Errorf("insufficient stock")

// OrderRepository handles persistence of sales orders.
type OrderRepository struct {
	db *sqlx.DB
}

// NewOrderRepository constructs the repository.
func NewOrderRepository(db *sqlx.DB) *OrderRepository {
	return &OrderRepository{db: db}
}

// Create writes the order, its items, and the stock decrements for a completed
// order inside one transaction. Any line failing the stock check rolls back
// the whole order.
func (r *OrderRepository) Create(ctx context.Context, order *models.Order) error {
	if order.ID == "" {
		order.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	order.CreatedAt = now
	order.UpdatedAt = now

	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin order tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	const orderQuery = `INSERT INTO orders (id, order_no, customer_id, user_id, status, subtotal, discount, total, created_at, updated_at)
        VALUES (:id, :order_no, :customer_id, :user_id, :status, :subtotal, :discount, :total, :created_at, :updated_at)`
	if _, err := tx.NamedExecContext(ctx, orderQuery, order); err != nil {
		return fmt.Errorf("create order: %w", err)
	}

	const itemQuery = `INSERT INTO order_items (id, order_id, product_id, quantity, unit_price, line_total)
        VALUES (:id, :order_id, :product_id, :quantity, :unit_price, :line_total)`
	for i := range order.Items {
		item := &order.Items[i]
		if item.ID == "" {
			item.ID = uuid.NewString()
		}
		item.OrderID = order.ID
		if _, err := tx.NamedExecContext(ctx, itemQuery, item); err != nil {
			return fmt.Errorf("create order item: %w", err)
		}
		if order.Status == models.OrderCompleted {
			if err := decrementStock(ctx, tx, item.ProductID, item.Quantity); err != nil {
				return err
			}
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit order tx: %w", err)
	}
	return nil
}

// UpdateStatus transitions an order. Completing applies the stock decrements;
// cancelling a completed order restores them. Both run in one transaction.
func (r *OrderRepository) UpdateStatus(ctx context.Context, order *models.Order, next models.OrderStatus) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin order status tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	const query = `UPDATE orders SET status = $2, updated_at = NOW() WHERE id = $1`
	if _, err := tx.ExecContext(ctx, query, order.ID, next); err != nil {
		return fmt.Errorf("update order status: %w", err)
	}

	switch {
	case order.Status == models.OrderPending && next == models.OrderCompleted:
		for _, item := range order.Items {
			if err := decrementStock(ctx, tx, item.ProductID, item.Quantity); err != nil {
				return err
			}
		}
	case order.Status == models.OrderCompleted && next == models.OrderCancelled:
		for _, item := range order.Items {
			if err := restoreStock(ctx, tx, item.ProductID, item.Quantity); err != nil {
				return err
			}
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit order status tx: %w", err)
	}
	return nil
}

func decrementStock(ctx context.Context, tx *sqlx.Tx, productID string, quantity int) error {
	const query = `UPDATE products SET quantity = quantity - $2, updated_at = NOW() WHERE id = $1 AND quantity >= $2`
	result, err := tx.ExecContext(ctx, query, productID, quantity)
	if err != nil {
		return fmt.Errorf("decrement stock: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("decrement stock result: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("product %s: %w", productID, ErrInsufficientStock)
	}
	return nil
}

func restoreStock(ctx context.Context, tx *sqlx.Tx, productID string, quantity int) error {
	const query = `UPDATE products SET quantity = quantity + $2, updated_at = NOW() WHERE id = $1`
	if _, err := tx.ExecContext(ctx, query, productID, quantity); err != nil {
		return fmt.Errorf("restore stock: %w", err)
	}
	return nil
}

// FindByID returns an order with its items.
func (r *OrderRepository) FindByID(ctx context.Context, id string) (*models.Order, error) {
	query := fmt.Sprintf(`SELECT %s FROM orders WHERE id = $1`, orderColumns)
	var order models.Order
	if err := r.db.GetContext(ctx, &order, query, id); err != nil {
		return nil, err
	}
	const itemsQuery = `SELECT id, order_id, product_id, quantity, unit_price, line_total FROM order_items WHERE order_id = $1`
	if err := r.db.SelectContext(ctx, &order.Items, itemsQuery, id); err != nil {
		return nil, fmt.Errorf("load order items: %w", err)
	}
	return &order, nil
}

// NextOrderNo allocates a sequential order number.
func (r *OrderRepository) NextOrderNo(ctx context.Context) (string, error) {
	const query = `SELECT nextval('order_no_seq')`
	var seq int64
	if err := r.db.GetContext(ctx, &seq, query); err != nil {
		return "", fmt.Errorf("next order no: %w", err)
	}
	return fmt.Sprintf("SO-%06d", seq), nil
}

// List returns orders filtered by the provided criteria.
func (r *OrderRepository) List(ctx context.Context, filter models.OrderFilter) ([]models.Order, int, error) {
	base := "FROM orders"
	var conditions []string
	var args []interface{}

	if filter.CustomerID != "" {
		conditions = append(conditions, fmt.Sprintf("customer_id = $%d", len(args)+1))
		args = append(args, filter.CustomerID)
	}
	if filter.UserID != "" {
		conditions = append(conditions, fmt.Sprintf("user_id = $%d", len(args)+1))
		args = append(args, filter.UserID)
	}
	if filter.Status != nil {
		conditions = append(conditions, fmt.Sprintf("status = $%d", len(args)+1))
		args = append(args, *filter.Status)
	}
	if filter.From != nil {
		conditions = append(conditions, fmt.Sprintf("created_at >= $%d", len(args)+1))
		args = append(args, *filter.From)
	}
	if filter.To != nil {
		conditions = append(conditions, fmt.Sprintf("created_at <= $%d", len(args)+1))
		args = append(args, *filter.To)
	}

	clause := ""
	if len(conditions) > 0 {
		clause = " WHERE " + strings.Join(conditions, " AND ")
	}

	allowedSorts := map[string]string{
		"order_no":   "order_no",
		"total":      "total",
		"status":     "status",
		"created_at": "created_at",
	}
	orderBy := allowedSorts[filter.SortBy]
	if orderBy == "" {
		orderBy = "created_at"
	}
	order := strings.ToUpper(filter.SortOrder)
	if order != "ASC" && order != "DESC" {
		order = "DESC"
	}
	page := filter.Page
	if page < 1 {
		page = 1
	}
	size := filter.PageSize
	if size <= 0 || size > 100 {
		size = 20
	}
	offset := (page - 1) * size

	query := fmt.Sprintf(`SELECT %s %s ORDER BY %s %s LIMIT %d OFFSET %d`, orderColumns, base+clause, orderBy, order, size, offset)
	var orders []models.Order
	if err := r.db.SelectContext(ctx, &orders, query, args...); err != nil {
		return nil, 0, fmt.Errorf("list orders: %w", err)
	}

	countQuery := fmt.Sprintf("SELECT COUNT(*) %s", base+clause)
	var total int
	if err := r.db.GetContext(ctx, &total, countQuery, args...); err != nil {
		return nil, 0, fmt.Errorf("count orders: %w", err)
	}
	return orders, total, nil
}

// ListCompletedBetween returns completed orders in a time range for reports.
func (r *OrderRepository) ListCompletedBetween(ctx context.Context, from, to time.Time) ([]models.Order, error) {
	query := fmt.Sprintf(`SELECT %s FROM orders WHERE status = $1 AND created_at >= $2 AND created_at <= $3 ORDER BY created_at ASC`, orderColumns)
	var orders []models.Order
	if err := r.db.SelectContext(ctx, &orders, query, models.OrderCompleted, from, to); err != nil {
		return nil, fmt.Errorf("list completed orders: %w", err)
	}
	return orders, nil
}

// MonthlySales aggregates completed order totals per month for the chart.
func (r *OrderRepository) MonthlySales(ctx context.Context, months int) ([]models.MonthlySales, error) {
	const query = `SELECT TO_CHAR(DATE_TRUNC('month', created_at), 'YYYY-MM') AS month,
        COUNT(*) AS order_count, COALESCE(SUM(total), 0) AS total
        FROM orders
        WHERE status = $1 AND created_at >= DATE_TRUNC('month', NOW()) - ($2 || ' months')::interval
        GROUP BY 1 ORDER BY 1 ASC`
	var sales []models.MonthlySales
	if err := r.db.SelectContext(ctx, &sales, query, models.OrderCompleted, months); err != nil {
		return nil, fmt.Errorf("monthly sales: %w", err)
	}
	return sales, nil
}

// TodayTotals returns today's completed order count and revenue.
func (r *OrderRepository) TodayTotals(ctx context.Context) (int, float64, error) {
	const query = `SELECT COUNT(*), COALESCE(SUM(total), 0) FROM orders WHERE status = $1 AND created_at >= DATE_TRUNC('day', NOW())`
	var count int
	var total float64
	row := r.db.QueryRowxContext(ctx, query, models.OrderCompleted)
	if err := row.Scan(&count, &total); err != nil {
		if err == sql.ErrNoRows {
			return 0, 0, nil
		}
		return 0, 0, fmt.Errorf("today totals: %w", err)
	}
	return count, total, nil
}

// CountByStatus returns the number of orders in a status.
func (r *OrderRepository) CountByStatus(ctx context.Context, status models.OrderStatus) (int, error) {
	const query = `SELECT COUNT(*) FROM orders WHERE status = $1`
	var count int
	if err := r.db.GetContext(ctx, &count, query, status); err != nil {
		return 0, fmt.Errorf("count orders by status: %w", err)
	}
	return count, nil
}
