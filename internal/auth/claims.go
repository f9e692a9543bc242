package auth

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Role is the account's role
type Role = string

const (
	// RoleUser is the default role assigned at registration
	RoleUser Role = "user"
	// RoleAdmin grants access to the admin surface
	RoleAdmin Role = "admin"
)

// ValidRole checks the role against the two-role scheme
func ValidRole(r Role) bool {
	return r == RoleUser || r == RoleAdmin
}

// Claims is the signed claim set carried by a bearer token. The role claim
// reflects the account's role at issuance time; admin gating re-checks the
// live record instead of trusting it (see RequireAdmin).
type Claims struct {
	jwt.RegisteredClaims
	Email    string `json:"email,omitempty"`
	UserRole Role   `json:"role,omitempty"`
}

// UserID returns the token subject
func (c *Claims) UserID() string {
	return c.RegisteredClaims.Subject
}

// Role returns the role embedded at issuance time
func (c *Claims) Role() Role {
	return c.UserRole
}

// Expires returns the expiration time
func (c *Claims) Expires() time.Time {
	if c.RegisteredClaims.ExpiresAt != nil {
		return c.RegisteredClaims.ExpiresAt.Time
	}
	return time.Time{}
}

// IssuedAt returns the issued at time
func (c *Claims) IssuedAt() time.Time {
	if c.RegisteredClaims.IssuedAt != nil {
		return c.RegisteredClaims.IssuedAt.Time
	}
	return time.Time{}
}
