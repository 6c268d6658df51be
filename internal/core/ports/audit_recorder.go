package ports

import (
	"context"

	"github.com/bizsuite/identity-service/internal/core/domain"
)

// AuditRecorder accepts structured audit records. Implementations persist
// asynchronously; callers treat Record as fire-and-forget and never fail the
// primary request on a recording error.
type AuditRecorder interface {
	Record(ctx context.Context, rec domain.AuditRecord)
}
