// Package session provides the two SessionProvider strategies: a stateless
// signed JWT used by the multi-tenant suite apps, and a stateful opaque token
// backed by a Redis row (with real revocation) used by the assistant app.
package session

import (
	"context"
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/bizsuite/identity-service/internal/core/domain"
)

// JWTProvider mints HS256-signed, self-contained tokens. Nothing is stored
// server-side, so Revoke is a no-op and a token stays valid until its expiry.
type JWTProvider struct {
	secret []byte
}

func NewJWTProvider(secret string) *JWTProvider {
	return &JWTProvider{secret: []byte(secret)}
}

func (p *JWTProvider) Issue(_ context.Context, claims domain.Claims, ttl time.Duration) (string, error) {
	now := time.Now().UTC()
	tokenID := claims.TokenID
	if tokenID == "" {
		tokenID = uuid.NewString()
	}

	mc := jwt.MapClaims{
		"sub":   claims.UserID,
		"email": claims.Email,
		"name":  claims.Name,
		"jti":   tokenID,
		"iat":   now.Unix(),
		"exp":   now.Add(ttl).Unix(),
	}
	if claims.CompanyID != "" {
		mc["company_id"] = claims.CompanyID
		mc["role"] = string(claims.Role)
	}
	if claims.SuperAdmin {
		mc["super_admin"] = true
	}

	t := jwt.NewWithClaims(jwt.SigningMethodHS256, mc)
	return t.SignedString(p.secret)
}

func (p *JWTProvider) Verify(_ context.Context, token string) (domain.Claims, error) {
	mc := jwt.MapClaims{}
	tkn, err := jwt.ParseWithClaims(token, mc, func(t *jwt.Token) (interface{}, error) {
		if t.Method.Alg() != jwt.SigningMethodHS256.Alg() {
			return nil, jwt.ErrTokenSignatureInvalid
		}
		return p.secret, nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return domain.Claims{}, domain.ErrTokenExpired
		}
		return domain.Claims{}, domain.ErrTokenInvalid
	}
	if !tkn.Valid {
		return domain.Claims{}, domain.ErrTokenInvalid
	}

	claims := domain.Claims{
		UserID:     stringClaim(mc, "sub"),
		Email:      stringClaim(mc, "email"),
		Name:       stringClaim(mc, "name"),
		CompanyID:  stringClaim(mc, "company_id"),
		Role:       domain.Role(stringClaim(mc, "role")),
		TokenID:    stringClaim(mc, "jti"),
		SuperAdmin: boolClaim(mc, "super_admin"),
	}
	if iat, err := mc.GetIssuedAt(); err == nil && iat != nil {
		claims.IssuedAt = iat.Time
	}
	if exp, err := mc.GetExpirationTime(); err == nil && exp != nil {
		claims.ExpiresAt = exp.Time
	}
	if claims.UserID == "" {
		return domain.Claims{}, domain.ErrTokenInvalid
	}
	return claims, nil
}

// Revoke is advisory for the stateless strategy: the exposure window for a
// compromised token is its remaining TTL.
func (p *JWTProvider) Revoke(_ context.Context, _ string) error {
	return nil
}

func stringClaim(mc jwt.MapClaims, key string) string {
	s, _ := mc[key].(string)
	return s
}

func boolClaim(mc jwt.MapClaims, key string) bool {
	b, _ := mc[key].(bool)
	return b
}
