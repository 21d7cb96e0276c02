package app

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestLoadConfigDefaults(t *testing.T) {
	for _, key := range []string{
		"PORT", "AUTH_ISSUER", "AUTH_ACCESS_TOKEN_TTL", "AUTH_DATABASE_DRIVER",
		"MAIL_DRIVER", "COOKIE_SECURE", "APP_BASE_URL", "ENV",
	} {
		t.Setenv(key, "")
	}

	cfg := LoadConfig()
	require.Equal(t, 8080, cfg.Port)
	require.Equal(t, "tms-auth", cfg.Issuer)
	require.Equal(t, 15*time.Minute, cfg.AccessTokenTTL)
	require.Equal(t, 7*24*time.Hour, cfg.RefreshTokenTTL)
	require.Equal(t, 20*time.Minute, cfg.TemporaryTokenTTL)
	require.Equal(t, "sqlite", cfg.DatabaseDriver)
	require.Equal(t, "log", cfg.Mail.Driver)
	require.True(t, cfg.CookieSecure)
	require.Equal(t, "http://localhost:8080", cfg.BaseURL)
	require.NoError(t, cfg.Validate())
}

func TestLoadConfigOverrides(t *testing.T) {
	t.Setenv("PORT", "9090")
	t.Setenv("APP_BASE_URL", "")
	t.Setenv("ENV", "dev")
	t.Setenv("AUTH_ACCESS_TOKEN_TTL", "5m")
	t.Setenv("AUTH_TEMP_TOKEN_TTL", "30")
	t.Setenv("COOKIE_SECURE", "false")
	t.Setenv("AUTH_DATABASE_DRIVER", "Postgres")
	t.Setenv("AUTH_DATABASE_URL", "postgres://tms@localhost/tms")
	t.Setenv("MAIL_DRIVER", "redis")
	t.Setenv("REDIS_DB", "3")

	cfg := LoadConfig()
	require.Equal(t, 9090, cfg.Port)
	require.Equal(t, 5*time.Minute, cfg.AccessTokenTTL)
	require.Equal(t, 30*time.Minute, cfg.TemporaryTokenTTL)
	require.False(t, cfg.CookieSecure)
	require.Equal(t, "postgres", cfg.DatabaseDriver)
	require.Equal(t, "redis", cfg.Mail.Driver)
	require.Equal(t, 3, cfg.Mail.RedisDB)
	require.Equal(t, "http://localhost:9090", cfg.BaseURL)
	require.NoError(t, cfg.Validate())
}

func TestValidate(t *testing.T) {
	base := Config{
		DatabaseDriver:    "sqlite",
		Mail:              MailConfig{Driver: "log"},
		AccessTokenTTL:    time.Minute,
		RefreshTokenTTL:   time.Hour,
		TemporaryTokenTTL: time.Minute,
	}
	require.NoError(t, base.Validate())

	cases := map[string]func(c *Config){
		"postgres without url": func(c *Config) { c.DatabaseDriver = "postgres" },
		"unknown driver":       func(c *Config) { c.DatabaseDriver = "mysql" },
		"smtp without host":    func(c *Config) { c.Mail.Driver = "smtp" },
		"unknown mail driver":  func(c *Config) { c.Mail.Driver = "pigeon" },
		"prod without secrets": func(c *Config) { c.Env = "prod" },
		"shared secret": func(c *Config) {
			c.AccessTokenSecret = "same-secret-same-secret-same-secret"
			c.RefreshTokenSecret = c.AccessTokenSecret
		},
		"zero ttl": func(c *Config) { c.AccessTokenTTL = 0 },
	}
	for name, mutate := range cases {
		t.Run(name, func(t *testing.T) {
			c := base
			mutate(&c)
			require.Error(t, c.Validate())
		})
	}
}
