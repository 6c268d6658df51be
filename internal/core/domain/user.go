package domain

import (
	"errors"
	"time"
)

var ErrUserNotFound = errors.New("user not found")
var ErrUserExists = errors.New("user already exists")
var ErrInvalidCredentials = errors.New("invalid credentials")

// ErrInvalidInput rejects a structurally bad request that got past the schema
// validator, e.g. redeeming an invitation for a new account without a
// password. Maps to 400, never to an authentication failure.
var ErrInvalidInput = errors.New("invalid input")

// User models an authenticated actor. Users are never hard-deleted;
// deactivation flips Active to false and leaves the record in place.
type User struct {
	ID             string    `json:"id"`
	Username       string    `json:"username,omitempty"`
	Email          string    `json:"email"`
	Name           string    `json:"name"`
	PasswordHash   string    `json:"-"`
	Active         bool      `json:"active"`
	SuperAdmin     bool      `json:"super_admin"`
	CoachingAccess bool      `json:"coaching_access,omitempty"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}
