package config

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"github.com/sethvargo/go-envconfig"
)

// Session strategies and application modes selectable via configuration.
const (
	StrategyJWT      = "jwt"      // stateless signed token, logout advisory
	StrategyStateful = "stateful" // opaque token + Redis row, real revocation

	ModeSuite     = "suite"     // multi-tenant business apps
	ModeAssistant = "assistant" // internal AI assistant behind the super-user gate
)

// devSecretPlaceholder is only ever usable outside production; Validate
// refuses to let the process start with it in a production environment.
const devSecretPlaceholder = "dev-secret-do-not-use"

type Config struct {
	Port     string `env:"PORT,      default=8080"`
	Env      string `env:"ENV,       default=development"`
	LogLevel string `env:"LOG_LEVEL, default=info"`

	JWTSecret       string        `env:"JWT_SECRET"`
	TokenTTL        time.Duration `env:"TOKEN_TTL,        default=8h"`
	SessionStrategy string        `env:"SESSION_STRATEGY, default=jwt"`
	AppMode         string        `env:"APP_MODE,         default=suite"`

	// SuperUserEmails is the assistant-app allow-list, loaded from the
	// environment at startup and never compiled into source.
	SuperUserEmails []string `env:"SUPER_USER_EMAILS"`

	AuditWorkers int `env:"AUDIT_WORKERS, default=4"`

	Mongo MongoConfig
	Redis RedisConfig
}

type MongoConfig struct {
	URI      string `env:"MONGO_URI, default=mongodb://localhost:27017"`
	Database string `env:"MONGO_DB,  default=identity_service"`
}

type RedisConfig struct {
	Addr    string        `env:"REDIS_ADDR,    default=localhost:6379"`
	DB      int           `env:"REDIS_DB,      default=0"`
	Timeout time.Duration `env:"REDIS_TIMEOUT, default=5s"`
}

// Load reads configuration from environment variables using go-envconfig.
func Load(ctx context.Context) (*Config, error) {
	var cfg Config
	if err := envconfig.Process(ctx, &cfg); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	return &cfg, nil
}

// Production reports whether the service runs in a production-like environment.
func (c *Config) Production() bool {
	return c.Env == "production" || c.Env == "staging"
}

// Validate fails closed on a missing or placeholder signing secret in
// production; in development it substitutes the placeholder with a loud
// warning so local runs still work.
func (c *Config) Validate(log zerolog.Logger) error {
	switch c.SessionStrategy {
	case StrategyJWT, StrategyStateful:
	default:
		return fmt.Errorf("config: unknown session strategy %q", c.SessionStrategy)
	}
	switch c.AppMode {
	case ModeSuite, ModeAssistant:
	default:
		return fmt.Errorf("config: unknown app mode %q", c.AppMode)
	}

	if c.JWTSecret == "" || c.JWTSecret == devSecretPlaceholder {
		if c.Production() {
			return errors.New("config: JWT_SECRET must be set to a real secret in production")
		}
		log.Warn().Msg("JWT_SECRET not set; using an insecure development placeholder")
		c.JWTSecret = devSecretPlaceholder
	}
	return nil
}
