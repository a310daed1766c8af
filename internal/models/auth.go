package models

import "time"

// LoginRequest holds credentials submitted to the login endpoint. Login
// accepts either a username or an email address in the same field.
type LoginRequest struct {
	Login    string `json:"login" validate:"required"`
	Password string `json:"password" validate:"required"`
	Remember bool   `json:"remember"`

	IP        string `json:"-"`
	UserAgent string `json:"-"`
}

// LoginResponse returns the established session and user info. The session id
// itself travels in the cookie, not the body.
type LoginResponse struct {
	User        UserInfo  `json:"user"`
	CSRFToken   string    `json:"csrf_token"`
	LoggedInAt  time.Time `json:"logged_in_at"`
	Remembered  bool      `json:"remembered"`
	Permissions []string  `json:"permissions"`
}

// ChangePasswordRequest payload for updating the current password.
type ChangePasswordRequest struct {
	OldPassword string `json:"old_password" validate:"required"`
	NewPassword string `json:"new_password" validate:"required,min=8"`
}

// ForgotPasswordRequest payload for initiating the reset flow.
type ForgotPasswordRequest struct {
	Email string `json:"email" validate:"required,email"`
}

// ResetPasswordRequest completes the reset flow with a signed token.
type ResetPasswordRequest struct {
	Token       string `json:"token" validate:"required"`
	NewPassword string `json:"new_password" validate:"required,min=8"`
}

// UserInfo describes the authenticated user in responses.
type UserInfo struct {
	ID        string   `json:"id"`
	Username  string   `json:"username"`
	Email     string   `json:"email"`
	FirstName string   `json:"first_name"`
	LastName  string   `json:"last_name"`
	Role      UserRole `json:"role"`
	Locale    string   `json:"locale"`
	RTL       bool     `json:"rtl"`
}
