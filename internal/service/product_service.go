package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/rawa-tech/zagros-erp/internal/dto"
	"github.com/rawa-tech/zagros-erp/internal/models"
	appErrors "github.com/rawa-tech/zagros-erp/pkg/errors"
)

type productRepository interface {
	FindByID(ctx context.Context, id string) (*models.Product, error)
	ExistsBySKU(ctx context.Context, sku, excludeID string) (bool, error)
	ReferencedByOrders(ctx context.Context, id string) (bool, error)
	Create(ctx context.Context, product *models.Product) error
	Update(ctx context.Context, product *models.Product) error
	UpdateStatus(ctx context.Context, id string, status models.Status) error
	UpdateImagePath(ctx context.Context, id, path string) error
	Delete(ctx context.Context, id string) error
	List(ctx context.Context, filter models.ProductFilter) ([]models.Product, int, error)
}

type imageStore interface {
	SaveStream(filename string, r io.Reader) (string, error)
	Delete(filename string) error
}

// ProductServiceConfig bounds image uploads.
type ProductServiceConfig struct {
	MaxImageBytes int64
	AllowedMIMEs  []string
}

// ProductService manages the product catalogue.
type ProductService struct {
	repo      productRepository
	images    imageStore
	audit     *auditTrail
	validator *validator.Validate
	logger    *zap.Logger
	config    ProductServiceConfig
}

// NewProductService constructs the service.
func NewProductService(repo productRepository, images imageStore, activity activityRecorder, validate *validator.Validate, logger *zap.Logger, config ProductServiceConfig) *ProductService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if validate == nil {
		validate = validator.New()
	}
	if config.MaxImageBytes <= 0 {
		config.MaxImageBytes = 5 * 1024 * 1024
	}
	if len(config.AllowedMIMEs) == 0 {
		config.AllowedMIMEs = []string{"image/jpeg", "image/png", "image/webp"}
	}
	return &ProductService{
		repo:      repo,
		images:    images,
		audit:     newAuditTrail(activity, logger),
		validator: validate,
		logger:    logger,
		config:    config,
	}
}

// List returns products matching the filter.
func (s *ProductService) List(ctx context.Context, filter models.ProductFilter) ([]models.Product, *models.Pagination, error) {
	products, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list products")
	}
	page := filter.Page
	if page < 1 {
		page = 1
	}
	size := filter.PageSize
	if size <= 0 || size > 100 {
		size = 20
	}
	return products, &models.Pagination{Page: page, PageSize: size, TotalCount: total}, nil
}

// Get returns a single product.
func (s *ProductService) Get(ctx context.Context, id string) (*models.Product, error) {
	product, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "product not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load product")
	}
	return product, nil
}

// Create registers a new product with a unique SKU.
func (s *ProductService) Create(ctx context.Context, req dto.CreateProductRequest, meta RequestMeta) (*models.Product, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid product payload")
	}

	taken, err := s.repo.ExistsBySKU(ctx, req.SKU, "")
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to check sku")
	}
	if taken {
		return nil, appErrors.Clone(appErrors.ErrConflict, "sku already in use")
	}

	product := &models.Product{
		SKU:          req.SKU,
		NameEN:       req.NameEN,
		NameKU:       req.NameKU,
		NameAR:       req.NameAR,
		CategoryID:   req.CategoryID,
		CostPrice:    req.CostPrice,
		SellPrice:    req.SellPrice,
		Quantity:     req.Quantity,
		ReorderLevel: req.ReorderLevel,
		Status:       models.StatusActive,
	}
	if err := s.repo.Create(ctx, product); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create product")
	}

	s.audit.record(ctx, meta, models.ActivityCreate, "products", product.ID)
	return product, nil
}

// Update applies the non-nil fields of the request.
func (s *ProductService) Update(ctx context.Context, id string, req dto.UpdateProductRequest, meta RequestMeta) (*models.Product, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid product payload")
	}

	product, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.NameEN != nil {
		product.NameEN = *req.NameEN
	}
	if req.NameKU != nil {
		product.NameKU = *req.NameKU
	}
	if req.NameAR != nil {
		product.NameAR = *req.NameAR
	}
	if req.CategoryID != nil {
		product.CategoryID = req.CategoryID
	}
	if req.CostPrice != nil {
		product.CostPrice = *req.CostPrice
	}
	if req.SellPrice != nil {
		product.SellPrice = *req.SellPrice
	}
	if req.Quantity != nil {
		product.Quantity = *req.Quantity
	}
	if req.ReorderLevel != nil {
		product.ReorderLevel = *req.ReorderLevel
	}

	if err := s.repo.Update(ctx, product); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update product")
	}

	s.audit.record(ctx, meta, models.ActivityUpdate, "products", product.ID)
	return product, nil
}

// Delete removes a product, or deactivates it when order lines reference it
// so historical sales keep their product link.
func (s *ProductService) Delete(ctx context.Context, id string, meta RequestMeta) error {
	product, err := s.Get(ctx, id)
	if err != nil {
		return err
	}

	referenced, err := s.repo.ReferencedByOrders(ctx, id)
	if err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to check product references")
	}
	if referenced {
		if err := s.repo.UpdateStatus(ctx, id, models.StatusInactive); err != nil {
			return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to deactivate product")
		}
		s.audit.record(ctx, meta, models.ActivityStatusToggle, "products", id)
		return appErrors.Clone(appErrors.ErrConflict, "product is referenced by sales and was deactivated instead")
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to delete product")
	}
	if product.ImagePath != nil && s.images != nil {
		if err := s.images.Delete(*product.ImagePath); err != nil {
			s.logger.Warn("failed to delete product image", zap.Error(err))
		}
	}

	s.audit.record(ctx, meta, models.ActivityDelete, "products", id)
	return nil
}

// ToggleStatus flips a product between active and inactive.
func (s *ProductService) ToggleStatus(ctx context.Context, id string, meta RequestMeta) (*models.Product, error) {
	product, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	next := models.StatusInactive
	if product.Status == models.StatusInactive {
		next = models.StatusActive
	}
	if err := s.repo.UpdateStatus(ctx, id, next); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update product status")
	}
	product.Status = next

	s.audit.record(ctx, meta, models.ActivityStatusToggle, "products", id)
	return product, nil
}

// AttachImage validates and stores an uploaded product image, replacing the
// previous one.
func (s *ProductService) AttachImage(ctx context.Context, id, filename, mimeType string, size int64, r io.Reader, meta RequestMeta) (*models.Product, error) {
	if s.images == nil {
		return nil, appErrors.Clone(appErrors.ErrInternal, "image storage not configured")
	}

	product, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	if size > s.config.MaxImageBytes {
		return nil, appErrors.Clone(appErrors.ErrValidation, "image exceeds the size limit")
	}
	if !s.mimeAllowed(mimeType) {
		return nil, appErrors.Clone(appErrors.ErrValidation, "unsupported image type")
	}

	ext := strings.ToLower(filepath.Ext(filename))
	stored := fmt.Sprintf("products/%s/%s%s", product.ID, uuid.NewString(), ext)
	if _, err := s.images.SaveStream(stored, io.LimitReader(r, s.config.MaxImageBytes)); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to store image")
	}

	previous := product.ImagePath
	if err := s.repo.UpdateImagePath(ctx, product.ID, stored); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to save image path")
	}
	product.ImagePath = &stored

	if previous != nil {
		if err := s.images.Delete(*previous); err != nil {
			s.logger.Warn("failed to delete previous product image", zap.Error(err))
		}
	}

	s.audit.record(ctx, meta, models.ActivityUpdate, "products", product.ID)
	return product, nil
}

func (s *ProductService) mimeAllowed(mimeType string) bool {
	for _, allowed := range s.config.AllowedMIMEs {
		if strings.EqualFold(allowed, mimeType) {
			return true
		}
	}
	return false
}
