package ports

import (
	"context"
	"time"

	"github.com/bizsuite/identity-service/internal/core/domain"
)

// SessionProvider mints and verifies bearer session tokens. Two strategies
// exist: a stateless signed JWT (multi-tenant suite apps) and a stateful
// opaque token with a server-side row and real revocation (assistant app).
type SessionProvider interface {
	Issue(ctx context.Context, claims domain.Claims, ttl time.Duration) (string, error)
	// Verify returns domain.ErrTokenExpired for an elapsed token and
	// domain.ErrTokenInvalid for anything malformed or tampered with.
	Verify(ctx context.Context, token string) (domain.Claims, error)
	// Revoke invalidates a token where the strategy supports it; the
	// stateless strategy treats it as a no-op (logout stays advisory).
	Revoke(ctx context.Context, token string) error
}
