package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// DefaultTokenSecret is only acceptable in development.
const DefaultTokenSecret = "dev-secret"

// Config aggregates runtime configuration for the service.
type Config struct {
	App       AppConfig
	Postgres  PostgresConfig
	Redis     RedisConfig
	Logger    LoggerConfig
	Auth      AuthConfig
	RateLimit RateLimitConfig
}

// AppConfig controls server level behavior.
type AppConfig struct {
	Name                  string
	Env                   string
	Host                  string
	Port                  string
	Version               string
	RequestTimeoutSeconds int
	// ProxyHeader names the header fiber trusts for the client IP, e.g.
	// X-Forwarded-For behind a load balancer. Empty uses the peer address.
	ProxyHeader           string
}

// PostgresConfig holds DB connection values.
type PostgresConfig struct {
	DSN            string
	MaxConns       int32
	MinConns       int32
	RunMigrations  bool
	ConnMaxIdleSec int32
	ConnMaxLifeSec int32
}

// RedisConfig holds Redis connection values.
type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

// LoggerConfig configures logging behavior.
type LoggerConfig struct {
	Level string
}

// AuthConfig defines token and session parameters.
type AuthConfig struct {
	TokenSecret          string
	TokenIssuer          string
	TokenLifespanMinutes int
	SessionTTLMinutes    int
	SessionNamespace     string
	RevokeResource       string
	BcryptCost           int
}

// RateLimitConfig throttles the token endpoint per client.
type RateLimitConfig struct {
	Requests  int
	WindowSec int
	Burst     int
}

// Load reads configuration from environment variables, applying defaults where possible.
func Load() (*Config, error) {
	_ = godotenv.Load()

	redisDB, err := strconv.Atoi(getEnv("REDIS_DB", "0"))
	if err != nil {
		return nil, fmt.Errorf("invalid REDIS_DB: %w", err)
	}

	cfg := &Config{
		App: AppConfig{
			Name:                  getEnv("APP_NAME", "auth-service"),
			Env:                   getEnv("APP_ENV", "development"),
			Host:                  getEnv("APP_HOST", "0.0.0.0"),
			Port:                  getEnv("APP_PORT", "8001"),
			Version:               getEnv("APP_VERSION", "dev"),
			RequestTimeoutSeconds: getEnvAsInt("HTTP_REQUEST_TIMEOUT_SECONDS", 10),
			ProxyHeader:           os.Getenv("HTTP_PROXY_HEADER"),
		},
		Postgres: PostgresConfig{
			DSN:            os.Getenv("POSTGRES_DSN"),
			MaxConns:       int32(getEnvAsInt("POSTGRES_MAX_CONNS", 10)),
			MinConns:       int32(getEnvAsInt("POSTGRES_MIN_CONNS", 2)),
			RunMigrations:  getEnvAsBool("POSTGRES_RUN_MIGRATIONS", true),
			ConnMaxIdleSec: int32(getEnvAsInt("POSTGRES_CONN_MAX_IDLE_SECONDS", 30)),
			ConnMaxLifeSec: int32(getEnvAsInt("POSTGRES_CONN_MAX_LIFE_SECONDS", 300)),
		},
		Redis: RedisConfig{
			Addr:     getEnv("REDIS_ADDR", "127.0.0.1:6379"),
			Password: os.Getenv("REDIS_PASSWORD"),
			DB:       redisDB,
		},
		Logger: LoggerConfig{
			Level: getEnv("LOG_LEVEL", "info"),
		},
		Auth: AuthConfig{
			TokenSecret:          getEnv("AUTH_TOKEN_SECRET", DefaultTokenSecret),
			TokenIssuer:          getEnv("AUTH_TOKEN_ISSUER", "auth-service"),
			TokenLifespanMinutes: getEnvAsInt("AUTH_TOKEN_LIFESPAN_MINUTES", 120),
			SessionTTLMinutes:    getEnvAsInt("AUTH_SESSION_TTL_MINUTES", 10),
			SessionNamespace:     getEnv("AUTH_SESSION_NAMESPACE", "auth-token"),
			RevokeResource:       getEnv("AUTH_REVOKE_RESOURCE", "Users"),
			BcryptCost:           getEnvAsInt("AUTH_BCRYPT_COST", 12),
		},
		RateLimit: RateLimitConfig{
			Requests:  getEnvAsInt("RATELIMIT_TOKEN_REQUESTS", 5),
			WindowSec: getEnvAsInt("RATELIMIT_TOKEN_WINDOW_SEC", 60),
			Burst:     getEnvAsInt("RATELIMIT_TOKEN_BURST", 5),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate rejects configurations that would run an insecure or broken service.
func (c *Config) Validate() error {
	var errs []error
	if strings.TrimSpace(c.Auth.TokenSecret) == "" {
		errs = append(errs, errors.New("AUTH_TOKEN_SECRET must not be empty"))
	}
	if c.Auth.TokenSecret == DefaultTokenSecret && !c.App.IsDevelopment() {
		errs = append(errs, errors.New("AUTH_TOKEN_SECRET must be set outside development"))
	}
	if strings.TrimSpace(c.Auth.TokenIssuer) == "" {
		errs = append(errs, errors.New("AUTH_TOKEN_ISSUER must not be empty"))
	}
	if c.Auth.TokenLifespanMinutes <= 0 {
		errs = append(errs, errors.New("AUTH_TOKEN_LIFESPAN_MINUTES must be positive"))
	}
	if c.Auth.SessionTTLMinutes <= 0 {
		errs = append(errs, errors.New("AUTH_SESSION_TTL_MINUTES must be positive"))
	}
	return errors.Join(errs...)
}

// IsDevelopment reports whether the service runs in a development environment.
func (a AppConfig) IsDevelopment() bool {
	return strings.EqualFold(a.Env, "development")
}

// Addr returns the HTTP bind address.
func (a AppConfig) Addr() string {
	return fmt.Sprintf("%s:%s", a.Host, a.Port)
}

// RequestTimeout returns the configured request timeout duration.
func (a AppConfig) RequestTimeout() time.Duration {
	if a.RequestTimeoutSeconds <= 0 {
		return 0
	}
	return time.Duration(a.RequestTimeoutSeconds) * time.Second
}

// TokenLifespan is the signed lifetime of every issued token.
func (a AuthConfig) TokenLifespan() time.Duration {
	return time.Duration(a.TokenLifespanMinutes) * time.Minute
}

// SessionTTL is how long a session record lives after its last write.
func (a AuthConfig) SessionTTL() time.Duration {
	return time.Duration(a.SessionTTLMinutes) * time.Minute
}

// Window returns the rate limit window.
func (r RateLimitConfig) Window() time.Duration {
	if r.WindowSec <= 0 {
		return time.Minute
	}
	return time.Duration(r.WindowSec) * time.Second
}

func getEnv(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}

func getEnvAsInt(key string, fallback int) int {
	val := os.Getenv(key)
	if val == "" {
		return fallback
	}
	parsed, err := strconv.Atoi(val)
	if err != nil {
		return fallback
	}
	return parsed
}

func getEnvAsBool(key string, fallback bool) bool {
	val := os.Getenv(key)
	if val == "" {
		return fallback
	}
	parsed, err := strconv.ParseBool(val)
	if err != nil {
		return fallback
	}
	return parsed
}
