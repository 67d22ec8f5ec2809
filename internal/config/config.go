// Package config loads and validates app config from env and an optional .env file using Viper.
package config

import (
	"errors"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds application configuration loaded from the environment.
type Config struct {
	// HTTPAddr is the address the HTTP server listens on (e.g. :8080).
	HTTPAddr string `mapstructure:"HTTP_ADDR"`
	// DatabaseURL is the Postgres DSN; required for the server and migrate commands.
	DatabaseURL string `mapstructure:"DATABASE_URL"`
	// RedisAddr is the Redis host:port used for rate limiting and verification tokens; empty disables both.
	RedisAddr string `mapstructure:"REDIS_ADDR"`
	// RedisPassword is the optional Redis password.
	RedisPassword string `mapstructure:"REDIS_PASSWORD"`
	// RedisDB is the Redis database number.
	RedisDB int `mapstructure:"REDIS_DB"`
	// JWTPrivateKey is the PEM-encoded private key (RSA or ECDSA) or path to file; used with JWT_PUBLIC_KEY for RS256/ES256.
	JWTPrivateKey string `mapstructure:"JWT_PRIVATE_KEY"`
	// JWTPublicKey is the PEM-encoded public key or path to file; used with JWT_PRIVATE_KEY.
	JWTPublicKey string `mapstructure:"JWT_PUBLIC_KEY"`
	// JWTIssuer is the iss claim (e.g. "auth-service").
	JWTIssuer string `mapstructure:"JWT_ISSUER"`
	// JWTAudience is the aud claim (e.g. "auth-api").
	JWTAudience string `mapstructure:"JWT_AUDIENCE"`
	// JWTAccessTTL is the access token lifetime (e.g. "15m").
	JWTAccessTTL string `mapstructure:"JWT_ACCESS_TTL"`
	// JWTRefreshTTL is the refresh token lifetime (e.g. "168h").
	JWTRefreshTTL string `mapstructure:"JWT_REFRESH_TTL"`
	// BcryptCost is the bcrypt cost factor (4–31); default 12.
	BcryptCost int `mapstructure:"BCRYPT_COST"`

	// LoginMaxAttempts is the number of login attempts allowed per window before throttling.
	LoginMaxAttempts int `mapstructure:"LOGIN_MAX_ATTEMPTS"`
	// LoginWindow is the rate-limit window for login attempts (e.g. "15m").
	LoginWindow string `mapstructure:"LOGIN_WINDOW"`
	// LoginBlockDuration is how long a key stays blocked after exceeding the limit (e.g. "30m").
	LoginBlockDuration string `mapstructure:"LOGIN_BLOCK_DURATION"`

	// VerificationTokenTTL is the lifetime of email verification tokens (e.g. "24h").
	VerificationTokenTTL string `mapstructure:"VERIFICATION_TOKEN_TTL"`

	// SMTPAddr is the SMTP host:port for outgoing mail; empty disables mail (logged no-op).
	SMTPAddr string `mapstructure:"SMTP_ADDR"`
	// SMTPFrom is the From address for outgoing mail.
	SMTPFrom string `mapstructure:"SMTP_FROM"`
	// SMTPUsername is the optional SMTP AUTH user.
	SMTPUsername string `mapstructure:"SMTP_USERNAME"`
	// SMTPPassword is the optional SMTP AUTH password.
	SMTPPassword string `mapstructure:"SMTP_PASSWORD"`

	// EventsKafkaBrokers is a comma-separated list of Kafka broker addresses; empty disables the event bus.
	EventsKafkaBrokers string `mapstructure:"KAFKA_BROKERS"`
	// EventsKafkaTopic is the Kafka topic for domain events (default auth-events).
	EventsKafkaTopic string `mapstructure:"EVENTS_KAFKA_TOPIC"`

	// Env is the application environment (e.g. "development", "production").
	Env string `mapstructure:"APP_ENV"`
}

// Load reads .env (if present), then builds and validates Config from the environment via Viper.
// Missing .env is ignored (e.g. in CI). Env vars override .env. Returns an error if required fields are invalid.
func Load() (*Config, error) {
	v := viper.New()

	v.SetConfigFile(".env")
	v.SetConfigType("env")
	_ = v.ReadInConfig() // ignore ErrConfigFileNotFound

	v.AutomaticEnv()

	v.SetDefault("HTTP_ADDR", ":8080")
	v.SetDefault("DATABASE_URL", "")
	v.SetDefault("REDIS_ADDR", "")
	v.SetDefault("REDIS_PASSWORD", "")
	v.SetDefault("REDIS_DB", 0)
	v.SetDefault("JWT_ISSUER", "auth-service")
	v.SetDefault("JWT_AUDIENCE", "auth-api")
	v.SetDefault("JWT_ACCESS_TTL", "15m")
	v.SetDefault("JWT_REFRESH_TTL", "168h") // 7d
	v.SetDefault("BCRYPT_COST", 12)
	v.SetDefault("LOGIN_MAX_ATTEMPTS", 5)
	v.SetDefault("LOGIN_WINDOW", "15m")
	v.SetDefault("LOGIN_BLOCK_DURATION", "30m")
	v.SetDefault("VERIFICATION_TOKEN_TTL", "24h")
	v.SetDefault("SMTP_ADDR", "")
	v.SetDefault("SMTP_FROM", "no-reply@localhost")
	v.SetDefault("SMTP_USERNAME", "")
	v.SetDefault("SMTP_PASSWORD", "")
	v.SetDefault("KAFKA_BROKERS", "")
	v.SetDefault("EVENTS_KAFKA_TOPIC", "auth-events")
	v.SetDefault("APP_ENV", "")

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, err
	}

	if cfg.HTTPAddr == "" {
		return nil, errors.New("config: HTTP_ADDR must be set")
	}

	if cfg.BcryptCost == 0 {
		cfg.BcryptCost = 12
	}
	if cfg.BcryptCost < 4 || cfg.BcryptCost > 31 {
		return nil, errors.New("config: BCRYPT_COST must be between 4 and 31")
	}

	if cfg.LoginMaxAttempts < 1 {
		return nil, errors.New("config: LOGIN_MAX_ATTEMPTS must be at least 1")
	}

	return &cfg, nil
}

// AccessTTL parses JWTAccessTTL as a time.Duration. Returns 15m if unset or invalid.
func (c *Config) AccessTTL() time.Duration {
	return durationOr(c.JWTAccessTTL, 15*time.Minute)
}

// RefreshTTL parses JWTRefreshTTL as a time.Duration. Returns 168h if unset or invalid.
func (c *Config) RefreshTTL() time.Duration {
	return durationOr(c.JWTRefreshTTL, 168*time.Hour)
}

// LoginWindowDuration parses LoginWindow. Returns 15m if unset or invalid.
func (c *Config) LoginWindowDuration() time.Duration {
	return durationOr(c.LoginWindow, 15*time.Minute)
}

// LoginBlock parses LoginBlockDuration. Returns 30m if unset or invalid.
func (c *Config) LoginBlock() time.Duration {
	return durationOr(c.LoginBlockDuration, 30*time.Minute)
}

// VerificationTTL parses VerificationTokenTTL. Returns 24h if unset or invalid.
func (c *Config) VerificationTTL() time.Duration {
	return durationOr(c.VerificationTokenTTL, 24*time.Hour)
}

// KafkaBrokersList returns Kafka broker addresses from the comma-separated config.
// Used to decide if the event bus is enabled (non-empty list) and to create the producer.
func (c *Config) KafkaBrokersList() []string {
	if c == nil || c.EventsKafkaBrokers == "" {
		return nil
	}
	parts := strings.Split(c.EventsKafkaBrokers, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if s := strings.TrimSpace(p); s != "" {
			out = append(out, s)
		}
	}
	return out
}

func durationOr(s string, def time.Duration) time.Duration {
	d, err := time.ParseDuration(s)
	if err != nil || d <= 0 {
		return def
	}
	return d
}
