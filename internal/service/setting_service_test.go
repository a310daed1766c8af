package service

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rawa-tech/zagros-erp/internal/dto"
	"github.com/rawa-tech/zagros-erp/internal/models"
	appErrors "github.com/rawa-tech/zagros-erp/pkg/errors"
)

type mockSettingStore struct {
	rows map[string]models.Setting
}

func newMockSettingStore() *mockSettingStore {
	return &mockSettingStore{rows: make(map[string]models.Setting)}
}

func (m *mockSettingStore) List(_ context.Context) ([]models.Setting, error) {
	out := make([]models.Setting, 0, len(m.rows))
	for _, row := range m.rows {
		out = append(out, row)
	}
	return out, nil
}

func (m *mockSettingStore) Get(_ context.Context, key string) (*models.Setting, error) {
	row, ok := m.rows[key]
	if !ok {
		return nil, nil
	}
	return &row, nil
}

func (m *mockSettingStore) Upsert(_ context.Context, setting *models.Setting) error {
	m.rows[setting.Key] = *setting
	return nil
}

type mockCache struct {
	entries map[string][]byte
	sets    int
	deletes int
}

func newMockCache() *mockCache {
	return &mockCache{entries: make(map[string][]byte)}
}

func (m *mockCache) Get(_ context.Context, key string, dest interface{}) error {
	data, ok := m.entries[key]
	if !ok {
		return appErrors.ErrCacheMiss
	}
	return json.Unmarshal(data, dest)
}

func (m *mockCache) Set(_ context.Context, key string, value interface{}, _ time.Duration) error {
	data, err := json.Marshal(value)
	if err != nil {
		return err
	}
	m.entries[key] = data
	m.sets++
	return nil
}

func (m *mockCache) DeleteByPattern(_ context.Context, pattern string) error {
	delete(m.entries, pattern)
	m.deletes++
	return nil
}

func settingFixture() (*SettingService, *mockSettingStore, *mockCache) {
	repo := newMockSettingStore()
	cache := newMockCache()
	svc := NewSettingService(repo, cache, &mockActivityStore{}, nil, nil, time.Minute)
	return svc, repo, cache
}

func TestSettingsListReturnsDefaults(t *testing.T) {
	svc, _, _ := settingFixture()

	items, err := svc.List(context.Background())
	require.NoError(t, err)
	require.Len(t, items, len(allowedSettingKeys))

	byKey := make(map[string]dto.SettingItem, len(items))
	for _, item := range items {
		byKey[item.Key] = item
	}
	assert.Equal(t, "IQD", byKey["currency_symbol"].Value)
	assert.Equal(t, "true", byKey["low_stock_alerts"].Value)
	assert.Equal(t, "en", byKey["default_locale"].Value)
}

func TestSettingsStoredValueOverridesDefault(t *testing.T) {
	svc, repo, _ := settingFixture()
	repo.rows["currency_symbol"] = models.Setting{Key: "currency_symbol", Value: "$", Type: models.SettingTypeString}

	items, err := svc.List(context.Background())
	require.NoError(t, err)
	for _, item := range items {
		if item.Key == "currency_symbol" {
			assert.Equal(t, "$", item.Value)
			return
		}
	}
	t.Fatal("currency_symbol missing from settings list")
}

func TestSettingsListServesFromCache(t *testing.T) {
	svc, repo, cache := settingFixture()

	_, err := svc.List(context.Background())
	require.NoError(t, err)
	require.Equal(t, 1, cache.sets)

	repo.rows["company_name"] = models.Setting{Key: "company_name", Value: "changed", Type: models.SettingTypeString}
	items, err := svc.List(context.Background())
	require.NoError(t, err)
	for _, item := range items {
		if item.Key == "company_name" {
			assert.Equal(t, "Zagros ERP", item.Value)
		}
	}
	assert.Equal(t, 1, cache.sets)
}

func TestSettingsUpdateInvalidatesCache(t *testing.T) {
	svc, repo, cache := settingFixture()

	_, err := svc.List(context.Background())
	require.NoError(t, err)

	item, err := svc.Update(context.Background(), "company_name", dto.UpdateSettingRequest{Value: "Zagros Market"}, RequestMeta{UserID: "admin-1"})
	require.NoError(t, err)
	assert.Equal(t, "Zagros Market", item.Value)
	assert.Equal(t, 1, cache.deletes)
	assert.Equal(t, "Zagros Market", repo.rows["company_name"].Value)
}

func TestSettingsRejectsUnknownKey(t *testing.T) {
	svc, _, _ := settingFixture()

	_, err := svc.Update(context.Background(), "secret_flag", dto.UpdateSettingRequest{Value: "x"}, RequestMeta{})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)
}

func TestSettingsValidatesBooleanAndLocale(t *testing.T) {
	svc, _, _ := settingFixture()

	_, err := svc.Update(context.Background(), "low_stock_alerts", dto.UpdateSettingRequest{Value: "yes"}, RequestMeta{})
	require.Error(t, err)

	_, err = svc.Update(context.Background(), "low_stock_alerts", dto.UpdateSettingRequest{Value: "false"}, RequestMeta{})
	require.NoError(t, err)

	_, err = svc.Update(context.Background(), "default_locale", dto.UpdateSettingRequest{Value: "fr"}, RequestMeta{})
	require.Error(t, err)

	_, err = svc.Update(context.Background(), "default_locale", dto.UpdateSettingRequest{Value: "ku"}, RequestMeta{})
	require.NoError(t, err)
}

func TestSettingsBulkUpdateIsAllOrNothing(t *testing.T) {
	svc, repo, _ := settingFixture()

	_, err := svc.BulkUpdate(context.Background(), dto.BulkUpdateSettingsRequest{Items: []dto.BulkSettingItem{
		{Key: "company_name", Value: "Zagros Market"},
		{Key: "not_a_setting", Value: "x"},
	}}, RequestMeta{})
	require.Error(t, err)
	assert.Empty(t, repo.rows, "failed batch must not write anything")

	results, err := svc.BulkUpdate(context.Background(), dto.BulkUpdateSettingsRequest{Items: []dto.BulkSettingItem{
		{Key: "company_name", Value: "Zagros Market"},
		{Key: "currency_symbol", Value: "USD"},
	}}, RequestMeta{UserID: "admin-1"})
	require.NoError(t, err)
	assert.Len(t, results, 2)
	assert.Equal(t, "Zagros Market", repo.rows["company_name"].Value)
	assert.Equal(t, "USD", repo.rows["currency_symbol"].Value)
}
