package models

import "github.com/golang-jwt/jwt/v5"

// User roles
const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)

// UserClaims is the JWT payload issued by the identity service. This
// module verifies tokens; it only mints its own for seeding and tests.
type UserClaims struct {
	jwt.RegisteredClaims
	UserID uint   `json:"user_id"`
	Email  string `json:"email"`
	Role   string `json:"role"`
}

// IsAdmin reports whether the claims carry the admin role.
func (c *UserClaims) IsAdmin() bool {
	return c.Role == RoleAdmin
}
