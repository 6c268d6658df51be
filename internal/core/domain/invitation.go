package domain

import (
	"errors"
	"time"
)

var ErrInvitationNotFound = errors.New("invitation not found")
var ErrInvitationExpired = errors.New("invitation expired")
var ErrInvitationUsed = errors.New("invitation already used")

// Invitation lets a named email join a specific company with a pre-assigned
// role. Single-use: redemption must be an atomic conditional update so two
// concurrent redemptions of the same token cannot both succeed.
type Invitation struct {
	ID        string    `json:"id"`
	Email     string    `json:"email"`
	CompanyID string    `json:"company_id"`
	Role      Role      `json:"role"`
	Token     string    `json:"token,omitempty"`
	ExpiresAt time.Time `json:"expires_at"`
	Used      bool      `json:"used"`
	CreatedBy string    `json:"created_by"`
	CreatedAt time.Time `json:"created_at"`
}

// Expired reports whether the invitation has passed its expiry at now.
func (i *Invitation) Expired(now time.Time) bool {
	return now.After(i.ExpiresAt)
}
