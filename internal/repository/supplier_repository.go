package repository

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/rawa-tech/zagros-erp/internal/models"
)

// SupplierRepository handles persistence of suppliers.
type SupplierRepository struct {
	db *sqlx.DB
}

// NewSupplierRepository constructs the repository.
func NewSupplierRepository(db *sqlx.DB) *SupplierRepository {
	return &SupplierRepository{db: db}
}

// FindByID returns a supplier by its ID.
func (r *SupplierRepository) FindByID(ctx context.Context, id string) (*models.Supplier, error) {
	const query = `SELECT id, name, phone, email, address, status, created_at, updated_at FROM suppliers WHERE id = $1`
	var supplier models.Supplier
	if err := r.db.GetContext(ctx, &supplier, query, id); err != nil {
		return nil, err
	}
	return &supplier, nil
}

// Create persists a new supplier.
func (r *SupplierRepository) Create(ctx context.Context, supplier *models.Supplier) error {
	if supplier.ID == "" {
		supplier.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	supplier.CreatedAt = now
	supplier.UpdatedAt = now
	const query = `INSERT INTO suppliers (id, name, phone, email, address, status, created_at, updated_at)
        VALUES (:id, :name, :phone, :email, :address, :status, :created_at, :updated_at)`
	if _, err := r.db.NamedExecContext(ctx, query, supplier); err != nil {
		return fmt.Errorf("create supplier: %w", err)
	}
	return nil
}

// Update persists changes to a supplier.
func (r *SupplierRepository) Update(ctx context.Context, supplier *models.Supplier) error {
	supplier.UpdatedAt = time.Now().UTC()
	const query = `UPDATE suppliers SET name = :name, phone = :phone, email = :email, address = :address, updated_at = :updated_at WHERE id = :id`
	if _, err := r.db.NamedExecContext(ctx, query, supplier); err != nil {
		return fmt.Errorf("update supplier: %w", err)
	}
	return nil
}

// UpdateStatus flips the supplier lifecycle flag.
func (r *SupplierRepository) UpdateStatus(ctx context.Context, id string, status models.Status) error {
	const query = `UPDATE suppliers SET status = $2, updated_at = NOW() WHERE id = $1`
	if _, err := r.db.ExecContext(ctx, query, id, status); err != nil {
		return fmt.Errorf("update supplier status: %w", err)
	}
	return nil
}

// Delete removes a supplier.
func (r *SupplierRepository) Delete(ctx context.Context, id string) error {
	const query = `DELETE FROM suppliers WHERE id = $1`
	if _, err := r.db.ExecContext(ctx, query, id); err != nil {
		return fmt.Errorf("delete supplier: %w", err)
	}
	return nil
}

// List returns suppliers filtered by the provided criteria.
func (r *SupplierRepository) List(ctx context.Context, filter models.PartnerFilter) ([]models.Supplier, int, error) {
	query, countQuery, args := buildPartnerListQueries("suppliers", filter)
	var suppliers []models.Supplier
	if err := r.db.SelectContext(ctx, &suppliers, query, args...); err != nil {
		return nil, 0, fmt.Errorf("list suppliers: %w", err)
	}
	var total int
	if err := r.db.GetContext(ctx, &total, countQuery, args...); err != nil {
		return nil, 0, fmt.Errorf("count suppliers: %w", err)
	}
	return suppliers, total, nil
}

// buildPartnerListQueries shares list SQL between customers and suppliers.
func buildPartnerListQueries(table string, filter models.PartnerFilter) (string, string, []interface{}) {
	base := "FROM " + table
	var conditions []string
	var args []interface{}

	if filter.Status != nil {
		conditions = append(conditions, fmt.Sprintf("status = $%d", len(args)+1))
		args = append(args, *filter.Status)
	}
	if filter.Search != "" {
		conditions = append(conditions, fmt.Sprintf("(name ILIKE $%d OR phone ILIKE $%d OR email ILIKE $%d)",
			len(args)+1, len(args)+1, len(args)+1))
		args = append(args, "%"+filter.Search+"%")
	}

	clause := ""
	if len(conditions) > 0 {
		clause = " WHERE " + strings.Join(conditions, " AND ")
	}

	allowedSorts := map[string]string{
		"name":       "name",
		"created_at": "created_at",
	}
	orderBy := allowedSorts[filter.SortBy]
	if orderBy == "" {
		orderBy = "name"
	}
	order := strings.ToUpper(filter.SortOrder)
	if order != "ASC" && order != "DESC" {
		order = "ASC"
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

	query := fmt.Sprintf(`SELECT id, name, phone, email, address, status, created_at, updated_at %s ORDER BY %s %s LIMIT %d OFFSET %d`,
		base+clause, orderBy, order, size, offset)
	countQuery := fmt.Sprintf("SELECT COUNT(*) %s", base+clause)
	return query, countQuery, args
}
