package dto

// CreateUserRequest is the payload for creating a user account.
type CreateUserRequest struct {
	Username  string `json:"username" validate:"required,min=3"`
	Email     string `json:"email" validate:"required,email"`
	Password  string `json:"password" validate:"required,min=8"`
	FirstName string `json:"first_name" validate:"required"`
	LastName  string `json:"last_name"`
	Role      string `json:"role" validate:"required,oneof=admin manager employee"`
	Locale    string `json:"locale" validate:"omitempty,oneof=en ku ar"`
}

// UpdateUserRequest mutates profile fields; nil fields stay untouched.
type UpdateUserRequest struct {
	FirstName *string `json:"first_name,omitempty"`
	LastName  *string `json:"last_name,omitempty"`
	Role      *string `json:"role,omitempty" validate:"omitempty,oneof=admin manager employee"`
	Locale    *string `json:"locale,omitempty" validate:"omitempty,oneof=en ku ar"`
}
