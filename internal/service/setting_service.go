package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/rawa-tech/zagros-erp/internal/dto"
	"github.com/rawa-tech/zagros-erp/internal/models"
	appErrors "github.com/rawa-tech/zagros-erp/pkg/errors"
)

type settingRepository interface {
	List(ctx context.Context) ([]models.Setting, error)
	Get(ctx context.Context, key string) (*models.Setting, error)
	Upsert(ctx context.Context, setting *models.Setting) error
}

type settingCache interface {
	Get(ctx context.Context, key string, dest interface{}) error
	Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error
	DeleteByPattern(ctx context.Context, pattern string) error
}

type allowedSetting struct {
	Key         string
	Type        models.SettingType
	Description string
	Default     string
}

var allowedSettingKeys = []string{
	"company_name",
	"company_phone",
	"company_address",
	"currency_symbol",
	"receipt_footer",
	"low_stock_alerts",
	"default_locale",
}

var allowedSettings = map[string]allowedSetting{
	"company_name": {
		Key:         "company_name",
		Type:        models.SettingTypeString,
		Description: "Business name shown on receipts and reports",
		Default:     "Zagros ERP",
	},
	"company_phone": {
		Key:         "company_phone",
		Type:        models.SettingTypeString,
		Description: "Business phone shown on receipts",
	},
	"company_address": {
		Key:         "company_address",
		Type:        models.SettingTypeString,
		Description: "Business address shown on receipts",
	},
	"currency_symbol": {
		Key:         "currency_symbol",
		Type:        models.SettingTypeString,
		Description: "Currency symbol used across the UI",
		Default:     "IQD",
	},
	"receipt_footer": {
		Key:         "receipt_footer",
		Type:        models.SettingTypeString,
		Description: "Free text printed at the bottom of receipts",
	},
	"low_stock_alerts": {
		Key:         "low_stock_alerts",
		Type:        models.SettingTypeBoolean,
		Description: "Toggle dashboard low stock warnings",
		Default:     "true",
	},
	"default_locale": {
		Key:         "default_locale",
		Type:        models.SettingTypeString,
		Description: "Locale used for new accounts (en, ku, ar)",
		Default:     "en",
	},
}

const settingsCacheKey = "settings:all"

// SettingService manages the whitelisted key/value configuration store. Reads
// go through the cache; any write invalidates it.
type SettingService struct {
	repo      settingRepository
	cache     settingCache
	audit     *auditTrail
	validator *validator.Validate
	logger    *zap.Logger
	cacheTTL  time.Duration
}

// NewSettingService constructs the service.
func NewSettingService(repo settingRepository, cache settingCache, activity activityRecorder, validate *validator.Validate, logger *zap.Logger, cacheTTL time.Duration) *SettingService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if validate == nil {
		validate = validator.New()
	}
	if cacheTTL <= 0 {
		cacheTTL = 5 * time.Minute
	}
	return &SettingService{
		repo:      repo,
		cache:     cache,
		audit:     newAuditTrail(activity, logger),
		validator: validate,
		logger:    logger,
		cacheTTL:  cacheTTL,
	}
}

// List returns every allowed setting, falling back to defaults for keys that
// were never written.
func (s *SettingService) List(ctx context.Context) ([]dto.SettingItem, error) {
	if s.cache != nil {
		var cached []dto.SettingItem
		if err := s.cache.Get(ctx, settingsCacheKey, &cached); err == nil {
			return cached, nil
		}
	}

	rows, err := s.repo.List(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list settings")
	}
	stored := make(map[string]models.Setting, len(rows))
	for _, row := range rows {
		stored[row.Key] = row
	}

	items := make([]dto.SettingItem, 0, len(allowedSettingKeys))
	for _, key := range allowedSettingKeys {
		spec := allowedSettings[key]
		item := dto.SettingItem{
			Key:         key,
			Value:       spec.Default,
			Type:        string(spec.Type),
			Description: spec.Description,
		}
		if row, ok := stored[key]; ok {
			item.Value = row.Value
		}
		items = append(items, item)
	}

	if s.cache != nil {
		if err := s.cache.Set(ctx, settingsCacheKey, items, s.cacheTTL); err != nil {
			s.logger.Warn("failed to cache settings", zap.Error(err))
		}
	}
	return items, nil
}

// Update writes a single setting value after type validation.
func (s *SettingService) Update(ctx context.Context, key string, req dto.UpdateSettingRequest, meta RequestMeta) (*dto.SettingItem, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid setting payload")
	}
	item, err := s.write(ctx, key, req.Value, meta)
	if err != nil {
		return nil, err
	}
	s.invalidate(ctx)
	return item, nil
}

// BulkUpdate applies several setting writes; validation failures abort the
// whole batch before any write happens.
func (s *SettingService) BulkUpdate(ctx context.Context, req dto.BulkUpdateSettingsRequest, meta RequestMeta) ([]dto.SettingItem, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid settings payload")
	}
	for _, item := range req.Items {
		if _, err := validateSettingValue(item.Key, item.Value); err != nil {
			return nil, err
		}
	}

	results := make([]dto.SettingItem, 0, len(req.Items))
	for _, item := range req.Items {
		written, err := s.write(ctx, item.Key, item.Value, meta)
		if err != nil {
			return nil, err
		}
		results = append(results, *written)
	}
	s.invalidate(ctx)
	return results, nil
}

func (s *SettingService) write(ctx context.Context, key, value string, meta RequestMeta) (*dto.SettingItem, error) {
	spec, err := validateSettingValue(key, value)
	if err != nil {
		return nil, err
	}

	setting := &models.Setting{
		Key:         key,
		Value:       value,
		Type:        spec.Type,
		Description: &spec.Description,
	}
	if meta.UserID != "" {
		setting.UpdatedBy = &meta.UserID
	}
	if err := s.repo.Upsert(ctx, setting); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "setting not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to save setting")
	}

	s.audit.record(ctx, meta, models.ActivitySettingUpdate, "settings", key)
	return &dto.SettingItem{
		Key:         key,
		Value:       value,
		Type:        string(spec.Type),
		Description: spec.Description,
	}, nil
}

func (s *SettingService) invalidate(ctx context.Context) {
	if s.cache == nil {
		return
	}
	if err := s.cache.DeleteByPattern(ctx, settingsCacheKey); err != nil {
		s.logger.Warn("failed to invalidate settings cache", zap.Error(err))
	}
}

func validateSettingValue(key, value string) (allowedSetting, error) {
	spec, ok := allowedSettings[key]
	if !ok {
		return allowedSetting{}, appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("unknown setting key %q", key))
	}
	if spec.Type == models.SettingTypeBoolean {
		switch strings.ToLower(value) {
		case "true", "false":
		default:
			return allowedSetting{}, appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("setting %q expects true or false", key))
		}
	}
	if key == "default_locale" {
		switch value {
		case "en", "ku", "ar":
		default:
			return allowedSetting{}, appErrors.Clone(appErrors.ErrValidation, "default_locale must be en, ku or ar")
		}
	}
	return spec, nil
}
