package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/bizsuite/identity-service/internal/core/domain"
)

// Session rows outlive their logical expiry by this grace window so Verify
// can report "expired" rather than "invalid" for a recently-lapsed token.
const expiredRetention = 24 * time.Hour

// RedisProvider implements the stateful strategy: the bearer token is an
// opaque id and the claims live in a Redis row, so Revoke takes effect
// immediately. Key format: session:<token>
type RedisProvider struct {
	client *redis.Client
}

func NewRedisProvider(client *redis.Client) *RedisProvider {
	return &RedisProvider{client: client}
}

type sessionRow struct {
	UserID     string    `json:"user_id"`
	Email      string    `json:"email"`
	Name       string    `json:"name"`
	CompanyID  string    `json:"company_id,omitempty"`
	Role       string    `json:"role,omitempty"`
	SuperAdmin bool      `json:"super_admin,omitempty"`
	IssuedAt   time.Time `json:"issued_at"`
	ExpiresAt  time.Time `json:"expires_at"`
}

func (p *RedisProvider) Issue(ctx context.Context, claims domain.Claims, ttl time.Duration) (string, error) {
	token := uuid.NewString()
	now := time.Now().UTC()

	row := sessionRow{
		UserID:     claims.UserID,
		Email:      claims.Email,
		Name:       claims.Name,
		CompanyID:  claims.CompanyID,
		Role:       string(claims.Role),
		SuperAdmin: claims.SuperAdmin,
		IssuedAt:   now,
		ExpiresAt:  now.Add(ttl),
	}
	payload, err := json.Marshal(row)
	if err != nil {
		return "", fmt.Errorf("marshal session: %w", err)
	}

	if err := p.client.Set(ctx, p.key(token), payload, ttl+expiredRetention).Err(); err != nil {
		return "", fmt.Errorf("store session: %w", err)
	}
	return token, nil
}

func (p *RedisProvider) Verify(ctx context.Context, token string) (domain.Claims, error) {
	payload, err := p.client.Get(ctx, p.key(token)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return domain.Claims{}, domain.ErrTokenInvalid
		}
		return domain.Claims{}, fmt.Errorf("load session: %w", err)
	}

	var row sessionRow
	if err := json.Unmarshal(payload, &row); err != nil {
		return domain.Claims{}, domain.ErrTokenInvalid
	}
	if time.Now().UTC().After(row.ExpiresAt) {
		return domain.Claims{}, domain.ErrTokenExpired
	}

	return domain.Claims{
		UserID:     row.UserID,
		Email:      row.Email,
		Name:       row.Name,
		CompanyID:  row.CompanyID,
		Role:       domain.Role(row.Role),
		SuperAdmin: row.SuperAdmin,
		TokenID:    token,
		IssuedAt:   row.IssuedAt,
		ExpiresAt:  row.ExpiresAt,
	}, nil
}

// Revoke deletes the server-side row; the token is unusable from the next
// request on. Deleting an already-deleted row is not an error.
func (p *RedisProvider) Revoke(ctx context.Context, token string) error {
	return p.client.Del(ctx, p.key(token)).Err()
}

func (p *RedisProvider) key(token string) string {
	return "session:" + token
}
