package domain

import (
	"errors"
	"time"
)

var ErrNoAccess = errors.New("no access to this company")

// Membership is the user↔company access edge. A user may hold independent
// roles in several companies at once; the same (user, company) pair must never
// hold two simultaneously-active edges — writes upsert the existing edge.
type Membership struct {
	ID        string    `json:"id"`
	UserID    string    `json:"user_id"`
	CompanyID string    `json:"company_id"`
	Role      Role      `json:"role"`
	Primary   bool      `json:"primary"`
	Active    bool      `json:"active"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// CompanyAccess is a membership joined with its company, annotated with the
// role the user holds there. For super-admins the edge is synthetic: every
// active company with RoleSuperAdmin.
type CompanyAccess struct {
	Company Company `json:"company"`
	Role    Role    `json:"role"`
	Primary bool    `json:"primary"`
}

// DefaultAccess picks the deterministic default from an accessible set:
// the edge flagged primary wins, otherwise the lowest company id. Returns
// nil for an empty set.
func DefaultAccess(accesses []CompanyAccess) *CompanyAccess {
	var best *CompanyAccess
	for i := range accesses {
		a := &accesses[i]
		switch {
		case best == nil:
			best = a
		case a.Primary && !best.Primary:
			best = a
		case a.Primary == best.Primary && a.Company.ID < best.Company.ID:
			best = a
		}
	}
	return best
}
