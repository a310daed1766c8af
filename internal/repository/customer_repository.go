package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/rawa-tech/zagros-erp/internal/models"
)

// CustomerRepository handles persistence of customers.
type CustomerRepository struct {
	db *sqlx.DB
}

// NewCustomerRepository constructs the repository.
func NewCustomerRepository(db *sqlx.DB) *CustomerRepository {
	return &CustomerRepository{db: db}
}

// FindByID returns a customer by its ID.
func (r *CustomerRepository) FindByID(ctx context.Context, id string) (*models.Customer, error) {
	const query = `SELECT id, name, phone, email, address, status, created_at, updated_at FROM customers WHERE id = $1`
	var customer models.Customer
	if err := r.db.GetContext(ctx, &customer, query, id); err != nil {
		return nil, err
	}
	return &customer, nil
}

// Create persists a new customer.
func (r *CustomerRepository) Create(ctx context.Context, customer *models.Customer) error {
	if customer.ID == "" {
		customer.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	customer.CreatedAt = now
	customer.UpdatedAt = now
	const query = `INSERT INTO customers (id, name, phone, email, address, status, created_at, updated_at)
        VALUES (:id, :name, :phone, :email, :address, :status, :created_at, :updated_at)`
	if _, err := r.db.NamedExecContext(ctx, query, customer); err != nil {
		return fmt.Errorf("create customer: %w", err)
	}
	return nil
}

// Update persists changes to a customer.
func (r *CustomerRepository) Update(ctx context.Context, customer *models.Customer) error {
	customer.UpdatedAt = time.Now().UTC()
	const query = `UPDATE customers SET name = :name, phone = :phone, email = :email, address = :address, updated_at = :updated_at WHERE id = :id`
	if _, err := r.db.NamedExecContext(ctx, query, customer); err != nil {
		return fmt.Errorf("update customer: %w", err)
	}
	return nil
}

// UpdateStatus flips the customer lifecycle flag.
func (r *CustomerRepository) UpdateStatus(ctx context.Context, id string, status models.Status) error {
	const query = `UPDATE customers SET status = $2, updated_at = NOW() WHERE id = $1`
	if _, err := r.db.ExecContext(ctx, query, id, status); err != nil {
		return fmt.Errorf("update customer status: %w", err)
	}
	return nil
}

// HasOrders reports whether any order references the customer.
func (r *CustomerRepository) HasOrders(ctx context.Context, id string) (bool, error) {
	const query = `SELECT 1 FROM orders WHERE customer_id = $1 LIMIT 1`
	var exists int
	if err := r.db.GetContext(ctx, &exists, query, id); err != nil {
		if err == sql.ErrNoRows {
			return false, nil
		}
		return false, fmt.Errorf("check customer orders: %w", err)
	}
	return true, nil
}

// Delete removes a customer with no orders.
func (r *CustomerRepository) Delete(ctx context.Context, id string) error {
	const query = `DELETE FROM customers WHERE id = $1`
	if _, err := r.db.ExecContext(ctx, query, id); err != nil {
		return fmt.Errorf("delete customer: %w", err)
	}
	return nil
}

// List returns customers filtered by the provided criteria.
func (r *CustomerRepository) List(ctx context.Context, filter models.PartnerFilter) ([]models.Customer, int, error) {
	query, countQuery, args := buildPartnerListQueries("customers", filter)
	var customers []models.Customer
	if err := r.db.SelectContext(ctx, &customers, query, args...); err != nil {
		return nil, 0, fmt.Errorf("list customers: %w", err)
	}
	var total int
	if err := r.db.GetContext(ctx, &total, countQuery, args...); err != nil {
		return nil, 0, fmt.Errorf("count customers: %w", err)
	}
	return customers, total, nil
}

// CountByStatus returns the number of customers with the given status.
func (r *CustomerRepository) CountByStatus(ctx context.Context, status models.Status) (int, error) {
	const query = `SELECT COUNT(*) FROM customers WHERE status = $1`
	var count int
	if err := r.db.GetContext(ctx, &count, query, status); err != nil {
		return 0, fmt.Errorf("count customers by status: %w", err)
	}
	return count, nil
}
