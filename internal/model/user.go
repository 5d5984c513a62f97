package model

// User role constants
const (
	RoleAdmin    = "admin"
	RoleCustomer = "customer"
)

// User represents a system user
type User struct {
	Base
	Email        string `json:"email" db:"email"`
	FullName     string `json:"full_name" db:"full_name"`
	Password     string `json:"password,omitempty" db:"-"`
	PasswordHash string `json:"-" db:"password_hash"`
	Role         string `json:"role" db:"role"`
	IsActive     bool   `json:"is_active" db:"is_active"`
}

// IsAdmin reports whether the user holds the admin role.
func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}

// UpdateUserRequest represents user update parameters. Role changes are
// accepted only on the admin route; the profile route ignores the field.
type UpdateUserRequest struct {
	Email    *string `json:"email" binding:"omitempty,email"`
	FullName *string `json:"full_name"`
	Password *string `json:"password" binding:"omitempty,min=8"`
	Role     *string `json:"role" binding:"omitempty,oneof=admin customer"`
	IsActive *bool   `json:"is_active"`
}
