package domain

import (
	"errors"
	"fmt"
	"time"
)

// SubscriptionStatus gates whether a company may currently be selected.
type SubscriptionStatus string

const (
	SubscriptionActive    SubscriptionStatus = "active"
	SubscriptionTrial     SubscriptionStatus = "trial"
	SubscriptionPending   SubscriptionStatus = "pending"
	SubscriptionSuspended SubscriptionStatus = "suspended"
)

var ErrCompanyNotFound = errors.New("company not found")
var ErrCompanyInactive = errors.New("company is deactivated")

// TenantStateError rejects company selection for a company whose subscription
// is not currently usable. It carries the status so the HTTP layer can return
// it to the client instead of a generic forbidden.
type TenantStateError struct {
	CompanyID string
	Status    SubscriptionStatus
}

func (e *TenantStateError) Error() string {
	return fmt.Sprintf("company %s is not available: subscription %s", e.CompanyID, e.Status)
}

// Selectable reports whether a company in this subscription state may be
// bound into a session.
func (s SubscriptionStatus) Selectable() bool {
	return s == SubscriptionActive || s == SubscriptionTrial
}

// Company is the tenant boundary. Soft-deactivated via Active, never
// hard-deleted outside an explicit admin purge.
type Company struct {
	ID                 string             `json:"id"`
	Name               string             `json:"name"`
	TradingName        string             `json:"trading_name,omitempty"`
	Active             bool               `json:"active"`
	SubscriptionStatus SubscriptionStatus `json:"subscription_status"`
	EnabledModules     []string           `json:"enabled_modules,omitempty"`
	CreatedAt          time.Time          `json:"created_at"`
	UpdatedAt          time.Time          `json:"updated_at"`
}
