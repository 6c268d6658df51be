package handler

import (
	"github.com/labstack/echo/v4"

	"github.com/bizsuite/identity-service/internal/api/middleware"
	"github.com/bizsuite/identity-service/internal/core/domain"
)

// ctxIdentity extracts the identity injected by the Auth middleware and
// fast-fails before any service call: its presence proves the middleware ran.
func ctxIdentity(c echo.Context) (domain.Identity, error) {
	identity, ok := middleware.CurrentIdentity(c)
	if !ok {
		return domain.Identity{}, domain.ErrTokenMissing
	}
	return identity, nil
}
