package domain

import "time"

// Audit action types emitted by the identity core.
const (
	AuditLogin         = "auth.login"
	AuditLoginFailed   = "auth.login_failed"
	AuditLogout        = "auth.logout"
	AuditSelectCompany = "auth.select_company"
	AuditRegister      = "auth.register"
	AuditInviteCreated = "auth.invitation_created"
	AuditInviteAccept  = "auth.invitation_accepted"
)

// AuditRecord is the structured trail entry for an authentication event.
// Recording is fire-and-forget: a failed write must never block or fail the
// request that produced it.
type AuditRecord struct {
	CompanyID  string         `json:"company_id,omitempty"`
	UserID     string         `json:"user_id,omitempty"`
	ActorEmail string         `json:"actor_email,omitempty"`
	ActionType string         `json:"action_type"`
	EntityType string         `json:"entity_type,omitempty"`
	EntityID   string         `json:"entity_id,omitempty"`
	OldValue   any            `json:"old_value,omitempty"`
	NewValue   any            `json:"new_value,omitempty"`
	Metadata   map[string]any `json:"metadata,omitempty"`
	OccurredAt time.Time      `json:"occurred_at"`
}
