package models

import "time"

// OrderStatus captures the sale lifecycle.
type OrderStatus string

const (
	OrderPending   OrderStatus = "pending"
	OrderCompleted OrderStatus = "completed"
	OrderCancelled OrderStatus = "cancelled"
)

// Order is a sales order. Completing an order decrements product stock inside
// the same transaction that writes the items.
type Order struct {
	ID         string      `db:"id" json:"id"`
	OrderNo    string      `db:"order_no" json:"order_no"`
	CustomerID *string     `db:"customer_id" json:"customer_id,omitempty"`
	UserID     string      `db:"user_id" json:"user_id"`
	Status     OrderStatus `db:"status" json:"status"`
	Subtotal   float64     `db:"subtotal" json:"subtotal"`
	Discount   float64     `db:"discount" json:"discount"`
	Total      float64     `db:"total" json:"total"`
	CreatedAt  time.Time   `db:"created_at" json:"created_at"`
	UpdatedAt  time.Time   `db:"updated_at" json:"updated_at"`

	Items []OrderItem `db:"-" json:"items,omitempty"`
}

// OrderItem is a single order line.
type OrderItem struct {
	ID        string  `db:"id" json:"id"`
	OrderID   string  `db:"order_id" json:"order_id"`
	ProductID string  `db:"product_id" json:"product_id"`
	Quantity  int     `db:"quantity" json:"quantity"`
	UnitPrice float64 `db:"unit_price" json:"unit_price"`
	LineTotal float64 `db:"line_total" json:"line_total"`
}

// OrderFilter captures listing criteria for orders.
type OrderFilter struct {
	CustomerID string
	UserID     string
	Status     *OrderStatus
	From       *time.Time
	To         *time.Time
	Page       int
	PageSize   int
	SortBy     string
	SortOrder  string
}

// MonthlySales is one point of the dashboard revenue chart.
type MonthlySales struct {
	Month      string  `db:"month" json:"month"`
	OrderCount int     `db:"order_count" json:"order_count"`
	Total      float64 `db:"total" json:"total"`
}
