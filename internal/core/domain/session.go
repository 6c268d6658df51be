package domain

import (
	"errors"
	"time"
)

// Token verification failures are distinct so the HTTP layer can tell the
// client "log in again" apart from "token expired".
var ErrTokenExpired = errors.New("token expired")
var ErrTokenInvalid = errors.New("invalid token")
var ErrTokenMissing = errors.New("authentication required")
var ErrCompanyRequired = errors.New("company selection required")

// Claims is the logical content of a session token, independent of the
// strategy (signed JWT or server-side session row) that carries it.
// CompanyID and Role are empty until the session is scoped to a company;
// Role is only meaningful alongside a non-empty CompanyID.
type Claims struct {
	UserID     string
	Email      string
	Name       string
	CompanyID  string
	Role       Role
	SuperAdmin bool
	TokenID    string
	IssuedAt   time.Time
	ExpiresAt  time.Time
}

// Scoped reports whether the session is bound to a company.
func (c Claims) Scoped() bool {
	return c.CompanyID != ""
}

// Identity is the request-scoped view of verified claims that middleware
// attaches for downstream handlers.
type Identity struct {
	UserID     string
	Email      string
	Name       string
	CompanyID  string
	Role       Role
	SuperAdmin bool
	TokenID    string
}

// IdentityFromClaims converts verified claims into a request identity.
func IdentityFromClaims(c Claims) Identity {
	return Identity{
		UserID:     c.UserID,
		Email:      c.Email,
		Name:       c.Name,
		CompanyID:  c.CompanyID,
		Role:       c.Role,
		SuperAdmin: c.SuperAdmin,
		TokenID:    c.TokenID,
	}
}
