package service

import (
	"context"
	"database/sql"
	"errors"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/rawa-tech/zagros-erp/internal/dto"
	"github.com/rawa-tech/zagros-erp/internal/models"
	appErrors "github.com/rawa-tech/zagros-erp/pkg/errors"
)

type customerRepository interface {
	FindByID(ctx context.Context, id string) (*models.Customer, error)
	Create(ctx context.Context, customer *models.Customer) error
	Update(ctx context.Context, customer *models.Customer) error
	UpdateStatus(ctx context.Context, id string, status models.Status) error
	HasOrders(ctx context.Context, id string) (bool, error)
	Delete(ctx context.Context, id string) error
	List(ctx context.Context, filter models.PartnerFilter) ([]models.Customer, int, error)
}

type supplierRepository interface {
	FindByID(ctx context.Context, id string) (*models.Supplier, error)
	Create(ctx context.Context, supplier *models.Supplier) error
	Update(ctx context.Context, supplier *models.Supplier) error
	UpdateStatus(ctx context.Context, id string, status models.Status) error
	Delete(ctx context.Context, id string) error
	List(ctx context.Context, filter models.PartnerFilter) ([]models.Supplier, int, error)
}

// CustomerService manages sales counterparties. Customers with recorded
// orders are deactivated instead of deleted.
type CustomerService struct {
	repo      customerRepository
	audit     *auditTrail
	validator *validator.Validate
	logger    *zap.Logger
}

// NewCustomerService constructs the service.
func NewCustomerService(repo customerRepository, activity activityRecorder, validate *validator.Validate, logger *zap.Logger) *CustomerService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if validate == nil {
		validate = validator.New()
	}
	return &CustomerService{repo: repo, audit: newAuditTrail(activity, logger), validator: validate, logger: logger}
}

// List returns customers matching the filter.
func (s *CustomerService) List(ctx context.Context, filter models.PartnerFilter) ([]models.Customer, *models.Pagination, error) {
	customers, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list customers")
	}
	return customers, partnerPagination(filter, total), nil
}

// Get returns a single customer.
func (s *CustomerService) Get(ctx context.Context, id string) (*models.Customer, error) {
	customer, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "customer not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load customer")
	}
	return customer, nil
}

// Create registers a new customer.
func (s *CustomerService) Create(ctx context.Context, req dto.PartnerRequest, meta RequestMeta) (*models.Customer, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid customer payload")
	}
	customer := &models.Customer{
		Name:    req.Name,
		Phone:   req.Phone,
		Email:   req.Email,
		Address: req.Address,
		Status:  models.StatusActive,
	}
	if err := s.repo.Create(ctx, customer); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create customer")
	}
	s.audit.record(ctx, meta, models.ActivityCreate, "customers", customer.ID)
	return customer, nil
}

// Update replaces the customer profile fields.
func (s *CustomerService) Update(ctx context.Context, id string, req dto.PartnerRequest, meta RequestMeta) (*models.Customer, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid customer payload")
	}
	customer, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	customer.Name = req.Name
	customer.Phone = req.Phone
	customer.Email = req.Email
	customer.Address = req.Address
	if err := s.repo.Update(ctx, customer); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update customer")
	}
	s.audit.record(ctx, meta, models.ActivityUpdate, "customers", customer.ID)
	return customer, nil
}

// Delete removes a customer, or deactivates one with recorded orders.
func (s *CustomerService) Delete(ctx context.Context, id string, meta RequestMeta) error {
	if _, err := s.Get(ctx, id); err != nil {
		return err
	}
	hasOrders, err := s.repo.HasOrders(ctx, id)
	if err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to check customer orders")
	}
	if hasOrders {
		if err := s.repo.UpdateStatus(ctx, id, models.StatusInactive); err != nil {
			return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to deactivate customer")
		}
		s.audit.record(ctx, meta, models.ActivityStatusToggle, "customers", id)
		return appErrors.Clone(appErrors.ErrConflict, "customer has sales and was deactivated instead")
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to delete customer")
	}
	s.audit.record(ctx, meta, models.ActivityDelete, "customers", id)
	return nil
}

// SupplierService manages purchasing counterparties.
type SupplierService struct {
	repo      supplierRepository
	audit     *auditTrail
	validator *validator.Validate
	logger    *zap.Logger
}

// NewSupplierService constructs the service.
func NewSupplierService(repo supplierRepository, activity activityRecorder, validate *validator.Validate, logger *zap.Logger) *SupplierService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if validate == nil {
		validate = validator.New()
	}
	return &SupplierService{repo: repo, audit: newAuditTrail(activity, logger), validator: validate, logger: logger}
}

// List returns suppliers matching the filter.
func (s *SupplierService) List(ctx context.Context, filter models.PartnerFilter) ([]models.Supplier, *models.Pagination, error) {
	suppliers, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list suppliers")
	}
	return suppliers, partnerPagination(filter, total), nil
}

// Get returns a single supplier.
func (s *SupplierService) Get(ctx context.Context, id string) (*models.Supplier, error) {
	supplier, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "supplier not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load supplier")
	}
	return supplier, nil
}

// Create registers a new supplier.
func (s *SupplierService) Create(ctx context.Context, req dto.PartnerRequest, meta RequestMeta) (*models.Supplier, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid supplier payload")
	}
	supplier := &models.Supplier{
		Name:    req.Name,
		Phone:   req.Phone,
		Email:   req.Email,
		Address: req.Address,
		Status:  models.StatusActive,
	}
	if err := s.repo.Create(ctx, supplier); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create supplier")
	}
	s.audit.record(ctx, meta, models.ActivityCreate, "suppliers", supplier.ID)
	return supplier, nil
}

// Update replaces the supplier profile fields.
func (s *SupplierService) Update(ctx context.Context, id string, req dto.PartnerRequest, meta RequestMeta) (*models.Supplier, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid supplier payload")
	}
	supplier, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	supplier.Name = req.Name
	supplier.Phone = req.Phone
	supplier.Email = req.Email
	supplier.Address = req.Address
	if err := s.repo.Update(ctx, supplier); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update supplier")
	}
	s.audit.record(ctx, meta, models.ActivityUpdate, "suppliers", supplier.ID)
	return supplier, nil
}

// Delete removes a supplier.
func (s *SupplierService) Delete(ctx context.Context, id string, meta RequestMeta) error {
	if _, err := s.Get(ctx, id); err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to delete supplier")
	}
	s.audit.record(ctx, meta, models.ActivityDelete, "suppliers", id)
	return nil
}

func partnerPagination(filter models.PartnerFilter, total int) *models.Pagination {
	page := filter.Page
	if page < 1 {
		page = 1
	}
	size := filter.PageSize
	if size <= 0 || size > 100 {
		size = 20
	}
	return &models.Pagination{Page: page, PageSize: size, TotalCount: total}
}
