package dto

// SettingItem is the API projection of a setting with metadata applied.
type SettingItem struct {
	Key         string `json:"key"`
	Value       string `json:"value"`
	Type        string `json:"type"`
	Description string `json:"description,omitempty"`
}

// UpdateSettingRequest updates a single setting value.
type UpdateSettingRequest struct {
	Value string `json:"value" validate:"required"`
}

// BulkUpdateSettingsRequest applies multiple setting updates at once.
type BulkUpdateSettingsRequest struct {
	Items []BulkSettingItem `json:"items" validate:"required,min=1,dive"`
}

// BulkSettingItem is one entry of a bulk settings update.
type BulkSettingItem struct {
	Key   string `json:"key" validate:"required"`
	Value string `json:"value" validate:"required"`
}
