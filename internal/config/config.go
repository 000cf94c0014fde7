// Package config loads and validates app config from env and an optional .env file using Viper.
package config

import (
	"errors"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Storage drivers.
const (
	StorageMemory   = "memory"
	StoragePostgres = "postgres"
)

// Config holds application configuration loaded from the environment.
type Config struct {
	// HTTPAddr is the address of the JSON API and gated views (e.g. :8080).
	HTTPAddr string `mapstructure:"HTTP_ADDR"`
	// GRPCAddr is the address of the gRPC health server (e.g. :9090).
	GRPCAddr string `mapstructure:"GRPC_ADDR"`
	// DatabaseURL is the Postgres DSN; required when StorageDriver is postgres.
	DatabaseURL string `mapstructure:"DATABASE_URL"`
	// StorageDriver selects memory (seeded, lost on restart) or postgres.
	StorageDriver string `mapstructure:"STORAGE_DRIVER"`

	// SessionKey authenticates the client cookie. A random key is generated when empty,
	// which invalidates client cookies on restart.
	SessionKey string `mapstructure:"SESSION_KEY"`
	// CookieSecure sets the Secure flag on the client cookie.
	CookieSecure bool `mapstructure:"COOKIE_SECURE"`

	// JWTPrivateKey is the PEM-encoded private key (RSA or ECDSA) or path to file used to sign reset tokens.
	// When both keys are empty an ephemeral ECDSA key is generated at startup.
	JWTPrivateKey string `mapstructure:"JWT_PRIVATE_KEY"`
	// JWTPublicKey is the PEM-encoded public key or path to file; used with JWT_PRIVATE_KEY.
	JWTPublicKey string `mapstructure:"JWT_PUBLIC_KEY"`
	JWTIssuer    string `mapstructure:"JWT_ISSUER"`
	JWTAudience  string `mapstructure:"JWT_AUDIENCE"`
	// ResetTokenTTL is the password reset token lifetime.
	ResetTokenTTL time.Duration `mapstructure:"RESET_TOKEN_TTL"`

	// BcryptCost is the bcrypt cost factor (4–31); default 12.
	BcryptCost int `mapstructure:"BCRYPT_COST"`
	// VerifyPasswords enables bcrypt password storage and checking. Off by default: any password is accepted.
	VerifyPasswords bool `mapstructure:"VERIFY_PASSWORDS"`
	// SimulatedLatency delays every session operation.
	SimulatedLatency time.Duration `mapstructure:"SIMULATED_LATENCY"`

	// OTPReturnToClient echoes second-factor codes in the API response. Must not be true when Env is production.
	OTPReturnToClient bool          `mapstructure:"OTP_RETURN_TO_CLIENT"`
	OTPTTL            time.Duration `mapstructure:"OTP_TTL"`

	// MailAPIKey authenticates against the transactional mail webhook that delivers codes and
	// reset tokens. Required in production. Without it deliveries are only logged (address only).
	MailAPIKey string `mapstructure:"MAIL_API_KEY"`
	// MailAPIURL is the mail webhook endpoint.
	MailAPIURL string `mapstructure:"MAIL_API_URL"`
	// MailFrom is the sender address.
	MailFrom string `mapstructure:"MAIL_FROM"`

	// SessionIdleTTL drops client sessions unused for this long; they are restored from storage
	// on the next request and must verify the second factor again.
	SessionIdleTTL time.Duration `mapstructure:"SESSION_IDLE_TTL"`
	// MaxClientSessions caps the live client sessions held in memory.
	MaxClientSessions int `mapstructure:"MAX_CLIENT_SESSIONS"`

	// Env is the application environment (e.g. "development", "production").
	Env      string `mapstructure:"APP_ENV"`
	LogLevel string `mapstructure:"LOG_LEVEL"`

	// RoutePolicyFile overrides the embedded Rego route table.
	RoutePolicyFile string `mapstructure:"ROUTE_POLICY_FILE"`

	// OTLPEndpoint is the collector address for traces, metrics and logs. Telemetry stays local when empty.
	OTLPEndpoint string `mapstructure:"OTEL_EXPORTER_OTLP_ENDPOINT"`
	OTLPInsecure bool   `mapstructure:"OTEL_EXPORTER_OTLP_INSECURE"`

	// HealthInterval is how often the gRPC health status is refreshed.
	HealthInterval time.Duration `mapstructure:"HEALTH_INTERVAL"`
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
	v.SetDefault("GRPC_ADDR", ":9090")
	v.SetDefault("DATABASE_URL", "")
	v.SetDefault("STORAGE_DRIVER", StorageMemory)
	v.SetDefault("SESSION_KEY", "")
	v.SetDefault("COOKIE_SECURE", false)
	v.SetDefault("JWT_PRIVATE_KEY", "")
	v.SetDefault("JWT_PUBLIC_KEY", "")
	v.SetDefault("JWT_ISSUER", "nexus-auth")
	v.SetDefault("JWT_AUDIENCE", "nexus-web")
	v.SetDefault("RESET_TOKEN_TTL", "1h")
	v.SetDefault("BCRYPT_COST", 12)
	v.SetDefault("VERIFY_PASSWORDS", false)
	v.SetDefault("SIMULATED_LATENCY", "0s")
	v.SetDefault("OTP_RETURN_TO_CLIENT", false)
	v.SetDefault("OTP_TTL", "5m")
	v.SetDefault("MAIL_API_KEY", "")
	v.SetDefault("MAIL_API_URL", "")
	v.SetDefault("MAIL_FROM", "no-reply@business-nexus.io")
	v.SetDefault("SESSION_IDLE_TTL", "30m")
	v.SetDefault("MAX_CLIENT_SESSIONS", 10000)
	v.SetDefault("APP_ENV", "")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("ROUTE_POLICY_FILE", "")
	v.SetDefault("OTEL_EXPORTER_OTLP_ENDPOINT", "")
	v.SetDefault("OTEL_EXPORTER_OTLP_INSECURE", false)
	v.SetDefault("HEALTH_INTERVAL", "15s")

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, err
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) validate() error {
	if c.HTTPAddr == "" {
		return errors.New("config: HTTP_ADDR must be set")
	}
	if c.GRPCAddr == "" {
		return errors.New("config: GRPC_ADDR must be set")
	}

	c.StorageDriver = strings.ToLower(strings.TrimSpace(c.StorageDriver))
	switch c.StorageDriver {
	case StorageMemory:
	case StoragePostgres:
		if c.DatabaseURL == "" {
			return errors.New("config: DATABASE_URL must be set when STORAGE_DRIVER=postgres")
		}
	default:
		return errors.New("config: STORAGE_DRIVER must be memory or postgres")
	}

	if c.OTPReturnToClient && c.Production() {
		return errors.New("config: OTP_RETURN_TO_CLIENT must not be true when APP_ENV=production")
	}
	if c.Production() && c.SessionKey == "" {
		return errors.New("config: SESSION_KEY must be set when APP_ENV=production")
	}
	if c.Production() && !c.MailConfigured() {
		return errors.New("config: MAIL_API_KEY and MAIL_API_URL must be set when APP_ENV=production")
	}

	if c.BcryptCost == 0 {
		c.BcryptCost = 12
	}
	if c.BcryptCost < 4 || c.BcryptCost > 31 {
		return errors.New("config: BCRYPT_COST must be between 4 and 31")
	}
	if c.ResetTokenTTL <= 0 {
		return errors.New("config: RESET_TOKEN_TTL must be positive")
	}
	if c.OTPTTL <= 0 {
		return errors.New("config: OTP_TTL must be positive")
	}
	if c.SimulatedLatency < 0 {
		return errors.New("config: SIMULATED_LATENCY must not be negative")
	}
	if c.SessionIdleTTL <= 0 {
		return errors.New("config: SESSION_IDLE_TTL must be positive")
	}
	if c.MaxClientSessions <= 0 {
		return errors.New("config: MAX_CLIENT_SESSIONS must be positive")
	}
	if c.HealthInterval <= 0 {
		c.HealthInterval = 15 * time.Second
	}
	return nil
}

// Production reports whether APP_ENV is production.
func (c *Config) Production() bool {
	return strings.EqualFold(c.Env, "production")
}

// UsePostgres reports whether durable storage is configured.
func (c *Config) UsePostgres() bool {
	return c.StorageDriver == StoragePostgres
}

// MailConfigured reports whether the mail webhook can be used.
func (c *Config) MailConfigured() bool {
	return c.MailAPIKey != "" && c.MailAPIURL != ""
}
