package model

import "time"

// Role constants
const (
	RoleEmployee = "employee"
	RoleManager  = "manager"
)

// User represents a gift holder — an employee or manager who can own inventory.
// Password holds the bcrypt hash; responses always go through service DTOs,
// never through this struct directly.
type User struct {
	ID           int64     `json:"id"`
	Username     string    `json:"username"`
	DisplayName  string    `json:"display_name"`
	EmployeeCode string    `json:"employee_code"`
	StoreID      int64     `json:"store_id"`
	Role         string    `json:"role"` // employee, manager
	Active       bool      `json:"active"`
	Password     string    `json:"password_hash"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// RefreshToken stores long-lived tokens allowing users to request new access tokens
type RefreshToken struct {
	Token     string    `json:"token"`
	UserID    int64     `json:"user_id"`
	ExpiresAt time.Time `json:"expires_at"`
	CreatedAt time.Time `json:"created_at"`
}

// ValidRole reports whether role is one of the known user roles
func ValidRole(role string) bool {
	return role == RoleEmployee || role == RoleManager
}
