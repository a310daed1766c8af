package models

import "time"

// Product is an inventory item. Names are stored per locale to serve the
// multi-language catalogue; NameFor picks the right one with English fallback.
type Product struct {
	ID           string    `db:"id" json:"id"`
	SKU          string    `db:"sku" json:"sku"`
	NameEN       string    `db:"name_en" json:"name_en"`
	NameKU       string    `db:"name_ku" json:"name_ku"`
	NameAR       string    `db:"name_ar" json:"name_ar"`
	CategoryID   *string   `db:"category_id" json:"category_id,omitempty"`
	CostPrice    float64   `db:"cost_price" json:"cost_price"`
	SellPrice    float64   `db:"sell_price" json:"sell_price"`
	Quantity     int       `db:"quantity" json:"quantity"`
	ReorderLevel int       `db:"reorder_level" json:"reorder_level"`
	ImagePath    *string   `db:"image_path" json:"image_path,omitempty"`
	Status       Status    `db:"status" json:"status"`
	CreatedAt    time.Time `db:"created_at" json:"created_at"`
	UpdatedAt    time.Time `db:"updated_at" json:"updated_at"`
}

// NameFor returns the localized product name, falling back to English.
func (p *Product) NameFor(locale string) string {
	switch locale {
	case "ku":
		if p.NameKU != "" {
			return p.NameKU
		}
	case "ar":
		if p.NameAR != "" {
			return p.NameAR
		}
	}
	return p.NameEN
}

// LowStock reports whether quantity fell to the reorder level.
func (p *Product) LowStock() bool {
	return p.Quantity <= p.ReorderLevel
}

// ProductFilter captures listing criteria for the product table.
type ProductFilter struct {
	CategoryID string
	Status     *Status
	LowStock   bool
	Search     string
	Page       int
	PageSize   int
	SortBy     string
	SortOrder  string
}

// Category groups products; localized like products.
type Category struct {
	ID        string    `db:"id" json:"id"`
	NameEN    string    `db:"name_en" json:"name_en"`
	NameKU    string    `db:"name_ku" json:"name_ku"`
	NameAR    string    `db:"name_ar" json:"name_ar"`
	Status    Status    `db:"status" json:"status"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
	UpdatedAt time.Time `db:"updated_at" json:"updated_at"`
}
