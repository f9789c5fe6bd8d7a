package entity

import "github.com/google/uuid"

// User is an identity provisioned on first successful OTP verification.
// Email is stored lowercased; lookups are case-insensitive.
type User struct {
	Base
	Email       string  `db:"email"`
	DisplayName *string `db:"display_name"`
	IsActive    bool    `db:"is_active"`
}

// Role strings as stored in user_roles. Admin is the only role the
// backend currently checks.
const (
	RoleAdmin = "admin"
)

type UserRole struct {
	BaseSimple
	UserID uuid.UUID `db:"user_id"`
	Role   string    `db:"role"`
}
