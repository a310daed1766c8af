package dto

// CreateProductRequest is the payload for creating a product.
type CreateProductRequest struct {
	SKU          string  `json:"sku" validate:"required"`
	NameEN       string  `json:"name_en" validate:"required"`
	NameKU       string  `json:"name_ku"`
	NameAR       string  `json:"name_ar"`
	CategoryID   *string `json:"category_id,omitempty"`
	CostPrice    float64 `json:"cost_price" validate:"gte=0"`
	SellPrice    float64 `json:"sell_price" validate:"gte=0"`
	Quantity     int     `json:"quantity" validate:"gte=0"`
	ReorderLevel int     `json:"reorder_level" validate:"gte=0"`
}

// UpdateProductRequest is the payload for updating a product. Nil fields are
// left unchanged.
type UpdateProductRequest struct {
	NameEN       *string  `json:"name_en,omitempty"`
	NameKU       *string  `json:"name_ku,omitempty"`
	NameAR       *string  `json:"name_ar,omitempty"`
	CategoryID   *string  `json:"category_id,omitempty"`
	CostPrice    *float64 `json:"cost_price,omitempty" validate:"omitempty,gte=0"`
	SellPrice    *float64 `json:"sell_price,omitempty" validate:"omitempty,gte=0"`
	Quantity     *int     `json:"quantity,omitempty" validate:"omitempty,gte=0"`
	ReorderLevel *int     `json:"reorder_level,omitempty" validate:"omitempty,gte=0"`
}

// CategoryRequest creates or updates a category.
type CategoryRequest struct {
	NameEN string `json:"name_en" validate:"required"`
	NameKU string `json:"name_ku"`
	NameAR string `json:"name_ar"`
}
