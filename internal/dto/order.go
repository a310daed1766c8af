package dto

// CreateOrderRequest is the payload for recording a sale.
type CreateOrderRequest struct {
	CustomerID *string            `json:"customer_id,omitempty"`
	Discount   float64            `json:"discount" validate:"gte=0"`
	Complete   bool               `json:"complete"`
	Items      []OrderItemRequest `json:"items" validate:"required,min=1,dive"`
}

// OrderItemRequest is one line of a new order.
type OrderItemRequest struct {
	ProductID string `json:"product_id" validate:"required"`
	Quantity  int    `json:"quantity" validate:"required,gt=0"`
}

// UpdateOrderStatusRequest transitions an order.
type UpdateOrderStatusRequest struct {
	Status string `json:"status" validate:"required,oneof=pending completed cancelled"`
}
