package middleware

import (
	"errors"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/bizsuite/identity-service/internal/api/metrics"
	"github.com/bizsuite/identity-service/internal/core/domain"
	"github.com/bizsuite/identity-service/internal/core/ports"
)

const identityKey = "identity"

// Auth validates the bearer token via the configured SessionProvider and
// injects the resolved identity into the request context. The domain
// sentinels flow out unchanged so the central error handler renders distinct
// 401 messages for missing, expired and invalid tokens.
func Auth(sessions ports.SessionProvider) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			token, err := BearerToken(c)
			if err != nil {
				metrics.TokenVerificationsTotal.WithLabelValues("missing").Inc()
				return err
			}

			claims, err := sessions.Verify(c.Request().Context(), token)
			if err != nil {
				if errors.Is(err, domain.ErrTokenExpired) {
					metrics.TokenVerificationsTotal.WithLabelValues("expired").Inc()
				} else {
					metrics.TokenVerificationsTotal.WithLabelValues("invalid").Inc()
				}
				return err
			}

			metrics.TokenVerificationsTotal.WithLabelValues("ok").Inc()
			c.Set(identityKey, domain.IdentityFromClaims(claims))
			return next(c)
		}
	}
}

// BearerToken extracts the token from the Authorization header. An absent
// header is ErrTokenMissing; a header with any other scheme is ErrTokenInvalid.
func BearerToken(c echo.Context) (string, error) {
	authHeader := c.Request().Header.Get("Authorization")
	if authHeader == "" {
		return "", domain.ErrTokenMissing
	}

	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
		return "", domain.ErrTokenInvalid
	}
	return parts[1], nil
}

// CurrentIdentity returns the identity attached by Auth.
func CurrentIdentity(c echo.Context) (domain.Identity, bool) {
	identity, ok := c.Get(identityKey).(domain.Identity)
	return identity, ok
}
