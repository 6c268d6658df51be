package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/bizsuite/identity-service/internal/core/domain"
)

type fakeSessions struct {
	verifyFn func(token string) (domain.Claims, error)
}

func (f *fakeSessions) Issue(_ context.Context, _ domain.Claims, _ time.Duration) (string, error) {
	return "", errors.New("not implemented")
}

func (f *fakeSessions) Verify(_ context.Context, token string) (domain.Claims, error) {
	return f.verifyFn(token)
}

func (f *fakeSessions) Revoke(_ context.Context, _ string) error {
	return nil
}

func newAuthContext(t *testing.T, authHeader string) echo.Context {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/auth/me", nil)
	if authHeader != "" {
		req.Header.Set("Authorization", authHeader)
	}
	return e.NewContext(req, httptest.NewRecorder())
}

func okHandler(c echo.Context) error {
	return c.NoContent(http.StatusOK)
}

func httpCode(t *testing.T, err error) int {
	t.Helper()
	var he *echo.HTTPError
	if !errors.As(err, &he) {
		t.Fatalf("expected *echo.HTTPError, got %v", err)
	}
	return he.Code
}

func TestAuth_MissingHeader(t *testing.T) {
	mw := Auth(&fakeSessions{verifyFn: func(string) (domain.Claims, error) {
		t.Fatal("verify must not be called without a header")
		return domain.Claims{}, nil
	}})

	err := mw(okHandler)(newAuthContext(t, ""))
	if !errors.Is(err, domain.ErrTokenMissing) {
		t.Fatalf("expected ErrTokenMissing, got %v", err)
	}
}

func TestAuth_MalformedHeader(t *testing.T) {
	mw := Auth(&fakeSessions{verifyFn: func(string) (domain.Claims, error) {
		return domain.Claims{}, nil
	}})

	for _, header := range []string{"Token abc", "Bearer"} {
		err := mw(okHandler)(newAuthContext(t, header))
		if !errors.Is(err, domain.ErrTokenInvalid) {
			t.Fatalf("header %q: expected ErrTokenInvalid, got %v", header, err)
		}
	}
}

func TestAuth_ExpiredToken(t *testing.T) {
	mw := Auth(&fakeSessions{verifyFn: func(string) (domain.Claims, error) {
		return domain.Claims{}, domain.ErrTokenExpired
	}})

	// Expired propagates as its own sentinel, never collapsed into invalid.
	err := mw(okHandler)(newAuthContext(t, "Bearer stale"))
	if !errors.Is(err, domain.ErrTokenExpired) {
		t.Fatalf("expected ErrTokenExpired, got %v", err)
	}
	if errors.Is(err, domain.ErrTokenInvalid) {
		t.Fatal("expired must stay distinct from invalid")
	}
}

func TestAuth_InvalidToken(t *testing.T) {
	mw := Auth(&fakeSessions{verifyFn: func(string) (domain.Claims, error) {
		return domain.Claims{}, domain.ErrTokenInvalid
	}})

	err := mw(okHandler)(newAuthContext(t, "Bearer garbage"))
	if !errors.Is(err, domain.ErrTokenInvalid) {
		t.Fatalf("expected ErrTokenInvalid, got %v", err)
	}
}

func TestAuth_ValidTokenInjectsIdentity(t *testing.T) {
	mw := Auth(&fakeSessions{verifyFn: func(token string) (domain.Claims, error) {
		if token != "live" {
			t.Fatalf("unexpected token %q", token)
		}
		return domain.Claims{UserID: "user-1", Email: "alice@example.com", CompanyID: "co-a", Role: domain.RoleOwner}, nil
	}})

	c := newAuthContext(t, "Bearer live")
	err := mw(func(c echo.Context) error {
		identity, ok := CurrentIdentity(c)
		if !ok {
			t.Fatal("identity missing from context")
		}
		if identity.UserID != "user-1" || identity.CompanyID != "co-a" || identity.Role != domain.RoleOwner {
			t.Fatalf("unexpected identity: %+v", identity)
		}
		return c.NoContent(http.StatusOK)
	})(c)
	if err != nil {
		t.Fatalf("handler error: %v", err)
	}
}

func TestAuth_BearerSchemeCaseInsensitive(t *testing.T) {
	mw := Auth(&fakeSessions{verifyFn: func(string) (domain.Claims, error) {
		return domain.Claims{UserID: "user-1"}, nil
	}})

	if err := mw(okHandler)(newAuthContext(t, "bearer live")); err != nil {
		t.Fatalf("lowercase scheme should be accepted: %v", err)
	}
}
