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

const productColumns = `id, sku, name_en, name_ku, name_ar, category_id, cost_price, sell_price, quantity, reorder_level, image_path, status, created_at, updated_at`

// ProductRepository handles persistence of the product catalogue.
type ProductRepository struct {
	db *sqlx.DB
}

// NewProductRepository constructs the repository.
func NewProductRepository(db *sqlx.DB) *ProductRepository {
	return &ProductRepository{db: db}
}

// FindByID returns a product by its ID.
func (r *ProductRepository) FindByID(ctx context.Context, id string) (*models.Product, error) {
	query := fmt.Sprintf(`SELECT %s FROM products WHERE id = $1`, productColumns)
	var product models.Product
	if err := r.db.GetContext(ctx, &product, query, id); err != nil {
		return nil, err
	}
	return &product, nil
}

// ExistsBySKU checks SKU uniqueness.
func (r *ProductRepository) ExistsBySKU(ctx context.Context, sku, excludeID string) (bool, error) {
	query := `SELECT 1 FROM products WHERE LOWER(sku) = LOWER($1)`
	args := []interface{}{sku}
	if excludeID != "" {
		query += fmt.Sprintf(" AND id <> $%d", len(args)+1)
		args = append(args, excludeID)
	}
	query += " LIMIT 1"
	var exists int
	if err := r.db.GetContext(ctx, &exists, query, args...); err != nil {
		if err == sql.ErrNoRows {
			return false, nil
		}
		return false, fmt.Errorf("check product sku: %w", err)
	}
	return true, nil
}

// ReferencedByOrders reports whether any order line points at the product.
// Referenced products are deactivated instead of deleted.
func (r *ProductRepository) ReferencedByOrders(ctx context.Context, id string) (bool, error) {
	const query = `SELECT 1 FROM order_items WHERE product_id = $1 LIMIT 1`
	var exists int
	if err := r.db.GetContext(ctx, &exists, query, id); err != nil {
		if err == sql.ErrNoRows {
			return false, nil
		}
		return false, fmt.Errorf("check product references: %w", err)
	}
	return true, nil
}

// Create persists a new product.
func (r *ProductRepository) Create(ctx context.Context, product *models.Product) error {
	if product.ID == "" {
		product.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	product.CreatedAt = now
	product.UpdatedAt = now
	const query = `INSERT INTO products (id, sku, name_en, name_ku, name_ar, category_id, cost_price, sell_price, quantity, reorder_level, image_path, status, created_at, updated_at)
        VALUES (:id, :sku, :name_en, :name_ku, :name_ar, :category_id, :cost_price, :sell_price, :quantity, :reorder_level, :image_path, :status, :created_at, :updated_at)`
	if _, err := r.db.NamedExecContext(ctx, query, product); err != nil {
		return fmt.Errorf("create product: %w", err)
	}
	return nil
}

// Update persists changes to a product.
func (r *ProductRepository) Update(ctx context.Context, product *models.Product) error {
	product.UpdatedAt = time.Now().UTC()
	const query = `UPDATE products SET sku = :sku, name_en = :name_en, name_ku = :name_ku, name_ar = :name_ar,
        category_id = :category_id, cost_price = :cost_price, sell_price = :sell_price, quantity = :quantity,
        reorder_level = :reorder_level, image_path = :image_path, updated_at = :updated_at WHERE id = :id`
	if _, err := r.db.NamedExecContext(ctx, query, product); err != nil {
		return fmt.Errorf("update product: %w", err)
	}
	return nil
}

// UpdateStatus flips the product lifecycle flag.
func (r *ProductRepository) UpdateStatus(ctx context.Context, id string, status models.Status) error {
	const query = `UPDATE products SET status = $2, updated_at = NOW() WHERE id = $1`
	if _, err := r.db.ExecContext(ctx, query, id, status); err != nil {
		return fmt.Errorf("update product status: %w", err)
	}
	return nil
}

// UpdateImagePath stores the uploaded image location.
func (r *ProductRepository) UpdateImagePath(ctx context.Context, id, path string) error {
	const query = `UPDATE products SET image_path = $2, updated_at = NOW() WHERE id = $1`
	if _, err := r.db.ExecContext(ctx, query, id, path); err != nil {
		return fmt.Errorf("update product image: %w", err)
	}
	return nil
}

// Delete removes a product that no order references.
func (r *ProductRepository) Delete(ctx context.Context, id string) error {
	const query = `DELETE FROM products WHERE id = $1`
	if _, err := r.db.ExecContext(ctx, query, id); err != nil {
		return fmt.Errorf("delete product: %w", err)
	}
	return nil
}

// List returns products filtered by the provided criteria.
func (r *ProductRepository) List(ctx context.Context, filter models.ProductFilter) ([]models.Product, int, error) {
	base := "FROM products"
	var conditions []string
	var args []interface{}

	if filter.CategoryID != "" {
		conditions = append(conditions, fmt.Sprintf("category_id = $%d", len(args)+1))
		args = append(args, filter.CategoryID)
	}
	if filter.Status != nil {
		conditions = append(conditions, fmt.Sprintf("status = $%d", len(args)+1))
		args = append(args, *filter.Status)
	}
	if filter.LowStock {
		conditions = append(conditions, "quantity <= reorder_level")
	}
	if filter.Search != "" {
		conditions = append(conditions, fmt.Sprintf("(sku ILIKE $%d OR name_en ILIKE $%d OR name_ku ILIKE $%d OR name_ar ILIKE $%d)",
			len(args)+1, len(args)+1, len(args)+1, len(args)+1))
		args = append(args, "%"+filter.Search+"%")
	}

	clause := ""
	if len(conditions) > 0 {
		clause = " WHERE " + strings.Join(conditions, " AND ")
	}

	allowedSorts := map[string]string{
		"sku":        "sku",
		"name":       "name_en",
		"quantity":   "quantity",
		"sell_price": "sell_price",
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

	query := fmt.Sprintf(`SELECT %s %s ORDER BY %s %s LIMIT %d OFFSET %d`, productColumns, base+clause, orderBy, order, size, offset)
	var products []models.Product
	if err := r.db.SelectContext(ctx, &products, query, args...); err != nil {
		return nil, 0, fmt.Errorf("list products: %w", err)
	}

	countQuery := fmt.Sprintf("SELECT COUNT(*) %s", base+clause)
	var total int
	if err := r.db.GetContext(ctx, &total, countQuery, args...); err != nil {
		return nil, 0, fmt.Errorf("count products: %w", err)
	}
	return products, total, nil
}

// ListAll returns every product matching the status, used by report exports.
func (r *ProductRepository) ListAll(ctx context.Context, status *models.Status) ([]models.Product, error) {
	query := fmt.Sprintf(`SELECT %s FROM products`, productColumns)
	var args []interface{}
	if status != nil {
		query += " WHERE status = $1"
		args = append(args, *status)
	}
	query += " ORDER BY sku ASC"
	var products []models.Product
	if err := r.db.SelectContext(ctx, &products, query, args...); err != nil {
		return nil, fmt.Errorf("list all products: %w", err)
	}
	return products, nil
}

// CountByStatus returns the number of products with the given status.
func (r *ProductRepository) CountByStatus(ctx context.Context, status models.Status) (int, error) {
	const query = `SELECT COUNT(*) FROM products WHERE status = $1`
	var count int
	if err := r.db.GetContext(ctx, &count, query, status); err != nil {
		return 0, fmt.Errorf("count products by status: %w", err)
	}
	return count, nil
}

// CountLowStock returns the number of active products at or below reorder level.
func (r *ProductRepository) CountLowStock(ctx context.Context) (int, error) {
	const query = `SELECT COUNT(*) FROM products WHERE status = $1 AND quantity <= reorder_level`
	var count int
	if err := r.db.GetContext(ctx, &count, query, models.StatusActive); err != nil {
		return 0, fmt.Errorf("count low stock products: %w", err)
	}
	return count, nil
}
