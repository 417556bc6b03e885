package models

import "time"

// Role names used in JWT claims and route authorization.
const (
	RoleResident = "resident"
	RoleAdmin    = "admin"
)

// IsValidRole checks if the provided role string is a known role.
func IsValidRole(role string) bool {
	return role == RoleResident || role == RoleAdmin
}

// User represents a resident (or admin) account.
type User struct {
	ID           int64     `json:"id"`
	Username     string    `json:"username" db:"username"`
	PasswordHash string    `json:"-" db:"password_hash"` // '-' means don't send in JSON response
	Email        *string   `json:"email,omitempty" db:"email"`
	FullName     *string   `json:"full_name,omitempty" db:"full_name"`
	Phone        *string   `json:"phone,omitempty" db:"phone"`
	Role         string    `json:"role" db:"role"`
	IsActive     bool      `json:"is_active" db:"is_active"`
	CreatedAt    time.Time `json:"created_at" db:"created_at"`
	UpdatedAt    time.Time `json:"updated_at" db:"updated_at"`
}
