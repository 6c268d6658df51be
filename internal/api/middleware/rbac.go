package middleware

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/bizsuite/identity-service/internal/core/domain"
)

// RequireCompany composes on top of Auth: the session must already be scoped
// to a company. ErrCompanyRequired maps to a 403 distinct from authentication
// failures, so clients know to run company selection rather than log in again.
func RequireCompany() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			identity, ok := CurrentIdentity(c)
			if !ok {
				return domain.ErrTokenMissing
			}
			if identity.CompanyID == "" && !identity.SuperAdmin {
				return domain.ErrCompanyRequired
			}
			return next(c)
		}
	}
}

// RequirePermission gates a route on the capability-list model. Super-admins
// bypass the check unconditionally.
func RequirePermission(perm domain.Permission) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			identity, ok := CurrentIdentity(c)
			if !ok {
				return domain.ErrTokenMissing
			}
			if identity.SuperAdmin {
				return next(c)
			}
			if !domain.HasPermission(identity.Role, perm) {
				return echo.NewHTTPError(http.StatusForbidden, "role "+string(identity.Role)+" lacks permission "+string(perm))
			}
			return next(c)
		}
	}
}

// RequireRole gates a route on the level model: the identity's role must rank
// at least as high as required. Super-admins bypass the check.
func RequireRole(required domain.Role) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			identity, ok := CurrentIdentity(c)
			if !ok {
				return domain.ErrTokenMissing
			}
			if identity.SuperAdmin {
				return next(c)
			}
			if domain.RoleLevel(identity.Role) < domain.RoleLevel(required) {
				return echo.NewHTTPError(http.StatusForbidden, "requires role "+string(required)+" or higher")
			}
			return next(c)
		}
	}
}
