package middleware

import (
	"errors"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/bizsuite/identity-service/internal/core/domain"
	"github.com/bizsuite/identity-service/internal/core/ports"
)

// Gate is the assistant-app variant of authorization: a binary allow-list
// with no company scoping. Access requires the identity's email to appear in
// the configuration-loaded allow-list or the user record's super-admin flag;
// coaching data is gated by an independent capability flag on the user.
type Gate struct {
	users     ports.UserRepository
	allowlist map[string]struct{}
}

// NewGate builds a Gate from the configured allow-list emails. The list comes
// from configuration at startup, never from source.
func NewGate(users ports.UserRepository, allowedEmails []string) *Gate {
	allowlist := make(map[string]struct{}, len(allowedEmails))
	for _, email := range allowedEmails {
		email = strings.ToLower(strings.TrimSpace(email))
		if email != "" {
			allowlist[email] = struct{}{}
		}
	}
	return &Gate{users: users, allowlist: allowlist}
}

// RequireSuperUser rejects any identity not on the allow-list and not flagged
// super-admin in the database. The database flag is revocable at runtime;
// the config list is fixed for the process lifetime.
func (g *Gate) RequireSuperUser() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			identity, ok := CurrentIdentity(c)
			if !ok {
				return domain.ErrTokenMissing
			}
			if _, allowed := g.allowlist[strings.ToLower(identity.Email)]; allowed || identity.SuperAdmin {
				return next(c)
			}
			return echo.NewHTTPError(http.StatusForbidden, "access restricted")
		}
	}
}

// RequireCoachingAccess additionally checks the coaching capability flag on
// the stored user record, so it can be revoked without reissuing tokens.
func (g *Gate) RequireCoachingAccess() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			identity, ok := CurrentIdentity(c)
			if !ok {
				return domain.ErrTokenMissing
			}

			user, err := g.users.FindByID(c.Request().Context(), identity.UserID)
			if err != nil {
				if errors.Is(err, domain.ErrUserNotFound) {
					return echo.NewHTTPError(http.StatusForbidden, "access restricted")
				}
				return err
			}
			if !user.CoachingAccess {
				return echo.NewHTTPError(http.StatusForbidden, "coaching access not granted")
			}
			return next(c)
		}
	}
}
