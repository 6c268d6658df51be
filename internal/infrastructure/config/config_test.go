package config

import (
	"context"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load(context.Background())
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, StrategyJWT, cfg.SessionStrategy)
	assert.Equal(t, ModeSuite, cfg.AppMode)
	assert.Equal(t, 8*time.Hour, cfg.TokenTTL)
	assert.Equal(t, 4, cfg.AuditWorkers)
}

func TestLoad_SuperUserEmailsFromEnvironment(t *testing.T) {
	t.Setenv("SUPER_USER_EMAILS", "root@example.com,ops@example.com")

	cfg, err := Load(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"root@example.com", "ops@example.com"}, cfg.SuperUserEmails)
}

func TestValidate_FailsClosedInProduction(t *testing.T) {
	for _, secret := range []string{"", devSecretPlaceholder} {
		cfg := &Config{Env: "production", JWTSecret: secret, SessionStrategy: StrategyJWT, AppMode: ModeSuite}
		assert.Error(t, cfg.Validate(zerolog.Nop()), "secret %q must be rejected in production", secret)
	}
}

func TestValidate_StagingCountsAsProduction(t *testing.T) {
	cfg := &Config{Env: "staging", SessionStrategy: StrategyJWT, AppMode: ModeSuite}
	assert.Error(t, cfg.Validate(zerolog.Nop()))
}

func TestValidate_DevelopmentSubstitutesPlaceholder(t *testing.T) {
	cfg := &Config{Env: "development", SessionStrategy: StrategyJWT, AppMode: ModeSuite}
	require.NoError(t, cfg.Validate(zerolog.Nop()))
	assert.Equal(t, devSecretPlaceholder, cfg.JWTSecret)
}

func TestValidate_RejectsUnknownStrategyAndMode(t *testing.T) {
	cfg := &Config{Env: "development", SessionStrategy: "cookie", AppMode: ModeSuite}
	assert.Error(t, cfg.Validate(zerolog.Nop()))

	cfg = &Config{Env: "development", SessionStrategy: StrategyJWT, AppMode: "desktop"}
	assert.Error(t, cfg.Validate(zerolog.Nop()))
}
