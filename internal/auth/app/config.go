package app

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

type Config struct {
	Issuer               string        // Issuer claim for tokens (default: tms-auth)
	AccessTokenSecret    string        // HS256 secret for access tokens, at least 32 bytes. Generated in dev when empty.
	RefreshTokenSecret   string        // HS256 secret for refresh tokens, must differ from the access secret
	AccessTokenTTL       time.Duration // Access token lifetime (default: 15m)
	RefreshTokenTTL      time.Duration // Refresh token lifetime (default: 7d)
	TemporaryTokenTTL    time.Duration // Email verification and password reset token lifetime (default: 20m)
	PepperFile           string        // Path to the password pepper, created on first start (default: ./pepper)
	BaseURL              string        // Public URL of this service, used in emailed links (default: http://localhost:PORT)
	ResetPasswordURL     string        // Frontend reset page; the token is appended as the last path segment
	CookieSecure         bool          // Mark token cookies Secure (default: true)
	DatabaseDriver       string        // sqlite or postgres (default: sqlite)
	DatabaseFile         string        // SQLite database file (default: ./auth.db)
	DatabaseURL          string        // Postgres DSN, required when DatabaseDriver is postgres
	Mail                 MailConfig
	Env                  string        // Environment (dev, staging, prod) (default: dev)
	LogLevel             string        // Log level (debug, info, warn, error) (default: info)
	LogFormat            string        // Log format (json, text) (default: json)
	Port                 int           // HTTP server port (default: 8080)
	ShutdownGracePeriod  time.Duration // Graceful shutdown timeout (default: 10s)
	HousekeepingInterval time.Duration // Housekeeping interval (default: 1h)
}

// MailConfig selects and configures the email transport.
type MailConfig struct {
	Driver string // log, smtp or redis (default: log)

	SMTPHost     string
	SMTPPort     int
	SMTPUsername string
	SMTPPassword string
	From         string

	// Redis stream settings, used when Driver is redis. A consumer in the same
	// process delivers queued mail over SMTP when SMTPHost is set, or to the
	// log otherwise.
	RedisAddr     string
	RedisPassword string
	RedisDB       int
	Stream        string
}

func LoadConfig() Config {
	port := getEnvIntOrDefault("PORT", 8080)

	cfg := Config{
		Issuer:               getEnvOrDefault("AUTH_ISSUER", "tms-auth"),
		AccessTokenSecret:    os.Getenv("AUTH_ACCESS_TOKEN_SECRET"),
		RefreshTokenSecret:   os.Getenv("AUTH_REFRESH_TOKEN_SECRET"),
		AccessTokenTTL:       getEnvDurationOrDefault("AUTH_ACCESS_TOKEN_TTL", 15*time.Minute),
		RefreshTokenTTL:      getEnvDurationOrDefault("AUTH_REFRESH_TOKEN_TTL", 7*24*time.Hour),
		TemporaryTokenTTL:    getEnvDurationOrDefault("AUTH_TEMP_TOKEN_TTL", 20*time.Minute),
		PepperFile:           getEnvOrDefault("AUTH_PEPPER_FILE", "pepper"),
		BaseURL:              getEnvOrDefault("APP_BASE_URL", fmt.Sprintf("http://localhost:%d", port)),
		ResetPasswordURL:     os.Getenv("RESET_PASSWORD_REDIRECT_URL"),
		CookieSecure:         getEnvBoolOrDefault("COOKIE_SECURE", true),
		DatabaseDriver:       strings.ToLower(getEnvOrDefault("AUTH_DATABASE_DRIVER", "sqlite")),
		DatabaseFile:         getEnvOrDefault("AUTH_DATABASE_FILE", "auth.db"),
		DatabaseURL:          os.Getenv("AUTH_DATABASE_URL"),
		Env:                  getEnvOrDefault("ENV", "dev"),
		LogLevel:             getEnvOrDefault("LOG_LEVEL", "info"),
		LogFormat:            getEnvOrDefault("LOG_FORMAT", "json"),
		Port:                 port,
		ShutdownGracePeriod:  getEnvDurationOrDefault("SHUTDOWN_GRACE_PERIOD", 10*time.Second),
		HousekeepingInterval: getEnvDurationOrDefault("HOUSEKEEPING_INTERVAL", 1*time.Hour),
		Mail: MailConfig{
			Driver:        strings.ToLower(getEnvOrDefault("MAIL_DRIVER", "log")),
			SMTPHost:      os.Getenv("SMTP_HOST"),
			SMTPPort:      getEnvIntOrDefault("SMTP_PORT", 587),
			SMTPUsername:  os.Getenv("SMTP_USERNAME"),
			SMTPPassword:  os.Getenv("SMTP_PASSWORD"),
			From:          getEnvOrDefault("MAIL_FROM", "TMS <no-reply@tms.local>"),
			RedisAddr:     getEnvOrDefault("REDIS_ADDR", "localhost:6379"),
			RedisPassword: os.Getenv("REDIS_PASSWORD"),
			RedisDB:       getEnvIntOrDefault("REDIS_DB", 0),
			Stream:        os.Getenv("MAIL_STREAM"),
		},
	}

	return cfg
}

// Validate rejects combinations that cannot start. Missing token secrets
// are allowed outside prod; see loadTokenSecrets.
func (c Config) Validate() error {
	var errs []error

	switch c.DatabaseDriver {
	case "sqlite":
	case "postgres":
		if c.DatabaseURL == "" {
			errs = append(errs, errors.New("AUTH_DATABASE_URL is required for the postgres driver"))
		}
	default:
		errs = append(errs, fmt.Errorf("unknown AUTH_DATABASE_DRIVER %q", c.DatabaseDriver))
	}

	switch c.Mail.Driver {
	case "log", "redis":
	case "smtp":
		if c.Mail.SMTPHost == "" {
			errs = append(errs, errors.New("SMTP_HOST is required for the smtp mail driver"))
		}
	default:
		errs = append(errs, fmt.Errorf("unknown MAIL_DRIVER %q", c.Mail.Driver))
	}

	if c.IsProd() && (c.AccessTokenSecret == "" || c.RefreshTokenSecret == "") {
		errs = append(errs, errors.New("AUTH_ACCESS_TOKEN_SECRET and AUTH_REFRESH_TOKEN_SECRET are required in prod"))
	}
	if c.AccessTokenSecret != "" && c.AccessTokenSecret == c.RefreshTokenSecret {
		errs = append(errs, errors.New("access and refresh token secrets must differ"))
	}
	if c.AccessTokenTTL <= 0 || c.RefreshTokenTTL <= 0 || c.TemporaryTokenTTL <= 0 {
		errs = append(errs, errors.New("token TTLs must be positive"))
	}

	return errors.Join(errs...)
}

func (c Config) IsProd() bool { return c.Env == "prod" || c.Env == "production" }

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvIntOrDefault(key string, defaultValue int) int {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	if intValue, err := strconv.Atoi(value); err == nil {
		return intValue
	}

	return defaultValue
}

func getEnvBoolOrDefault(key string, defaultValue bool) bool {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	if b, err := strconv.ParseBool(value); err == nil {
		return b
	}

	return defaultValue
}

func getEnvDurationOrDefault(key string, defaultValue time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	// Try parsing as duration (e.g., "1h", "30m", "90s")
	if duration, err := time.ParseDuration(value); err == nil {
		return duration
	}

	// Bare integers are minutes
	if minutes, err := strconv.Atoi(value); err == nil {
		return time.Duration(minutes) * time.Minute
	}

	return defaultValue
}
