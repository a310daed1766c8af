package models

import "time"

// Activity action constants for the audit trail.
const (
	ActivityLogin          = "User Login"
	ActivityLogout         = "User Logout"
	ActivityFailedLogin    = "Failed Login Attempt"
	ActivityPasswordChange = "Password Change"
	ActivityCreate         = "Create"
	ActivityUpdate         = "Update"
	ActivityDelete         = "Delete"
	ActivityStatusToggle   = "Status Toggle"
	ActivitySettingUpdate  = "Setting Update"
)

// ActivityLog is an append-only audit record. Writes are best-effort: a
// failure to persist one must never fail the business operation it describes.
type ActivityLog struct {
	ID        string    `db:"id" json:"id"`
	UserID    *string   `db:"user_id" json:"user_id,omitempty"`
	Action    string    `db:"action" json:"action"`
	TableName string    `db:"table_name" json:"table_name"`
	RecordID  *string   `db:"record_id" json:"record_id,omitempty"`
	IPAddress string    `db:"ip_address" json:"ip_address"`
	UserAgent string    `db:"user_agent" json:"user_agent"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}

// ActivityFilter captures listing criteria for the audit UI.
type ActivityFilter struct {
	UserID    string
	Action    string
	TableName string
	From      *time.Time
	To        *time.Time
	Page      int
	PageSize  int
}
