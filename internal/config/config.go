// Package config reads process configuration from the environment. A .env
// file in the working directory is loaded first when present.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Store drivers.
const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
)

// Email backends.
const (
	EmailConsole = "console"
	EmailSMTP    = "smtp"
)

// Config is the full server configuration.
type Config struct {
	HTTPAddr string

	DBDriver    string
	DatabaseURL string
	SQLitePath  string

	CORSAllowedOrigins []string
	TrustedProxies     int
	ContactRateLimit   int // per minute per client IP

	MediaDir string
	MediaURL string

	Email Email

	LogLevel string
}

// Email configures outbound notifications.
type Email struct {
	Backend         string
	Host            string
	Port            int
	Username        string
	Password        string
	UseTLS          bool
	From            string
	OperatorAddress string
	Timeout         time.Duration
}

// Load reads .env (if any) and the environment.
func Load() (*Config, error) {
	_ = godotenv.Load()
	return FromEnv(os.Getenv)
}

// FromEnv builds a Config from getenv, applying defaults and validating the
// result.
func FromEnv(getenv func(string) string) (*Config, error) {
	r := reader{getenv: getenv}
	cfg := &Config{
		HTTPAddr:           r.str("HTTP_ADDR", ":8080"),
		DBDriver:           strings.ToLower(r.str("DB_DRIVER", DriverSQLite)),
		DatabaseURL:        r.str("DATABASE_URL", ""),
		SQLitePath:         r.str("SQLITE_PATH", "db.sqlite3"),
		CORSAllowedOrigins: r.list("CORS_ALLOWED_ORIGINS", []string{"http://localhost:3000"}),
		TrustedProxies:     r.int("TRUSTED_PROXIES", 0),
		ContactRateLimit:   r.int("CONTACT_RATE_LIMIT", 10),
		MediaDir:           r.str("MEDIA_DIR", "./media"),
		MediaURL:           r.str("MEDIA_URL", "/media"),
		LogLevel:           r.str("LOG_LEVEL", "INFO"),
		Email: Email{
			Backend:         strings.ToLower(r.str("EMAIL_BACKEND", EmailConsole)),
			Host:            r.str("EMAIL_HOST", ""),
			Port:            r.int("EMAIL_PORT", 587),
			Username:        r.str("EMAIL_HOST_USER", ""),
			Password:        r.str("EMAIL_HOST_PASSWORD", ""),
			UseTLS:          r.bool("EMAIL_USE_TLS", true),
			From:            r.str("EMAIL_FROM", "webmaster@localhost"),
			OperatorAddress: r.str("EMAIL_OPERATOR_ADDRESS", ""),
			Timeout:         r.duration("EMAIL_TIMEOUT", 10*time.Second),
		},
	}
	if r.err != nil {
		return nil, r.err
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	switch c.DBDriver {
	case DriverSQLite:
	case DriverPostgres:
		if c.DatabaseURL == "" {
			return fmt.Errorf("config: DATABASE_URL is required when DB_DRIVER=%s", DriverPostgres)
		}
	default:
		return fmt.Errorf("config: unknown DB_DRIVER %q", c.DBDriver)
	}

	switch c.Email.Backend {
	case EmailConsole:
	case EmailSMTP:
		if c.Email.Host == "" {
			return fmt.Errorf("config: EMAIL_HOST is required when EMAIL_BACKEND=%s", EmailSMTP)
		}
	default:
		return fmt.Errorf("config: unknown EMAIL_BACKEND %q", c.Email.Backend)
	}

	if c.ContactRateLimit <= 0 {
		return fmt.Errorf("config: CONTACT_RATE_LIMIT must be positive, got %d", c.ContactRateLimit)
	}
	if c.Email.Timeout <= 0 {
		return fmt.Errorf("config: EMAIL_TIMEOUT must be positive, got %s", c.Email.Timeout)
	}
	return nil
}

// reader collects the first parse error so FromEnv can report it once.
type reader struct {
	getenv func(string) string
	err    error
}

func (r *reader) str(key, def string) string {
	if v := strings.TrimSpace(r.getenv(key)); v != "" {
		return v
	}
	return def
}

func (r *reader) list(key string, def []string) []string {
	v := r.str(key, "")
	if v == "" {
		return def
	}
	var out []string
	for _, item := range strings.Split(v, ",") {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	return out
}

func (r *reader) int(key string, def int) int {
	v := r.str(key, "")
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		r.fail(key, v, err)
		return def
	}
	return n
}

func (r *reader) bool(key string, def bool) bool {
	v := r.str(key, "")
	if v == "" {
		return def
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		r.fail(key, v, err)
		return def
	}
	return b
}

// duration accepts Go durations ("10s") or a bare number of seconds.
func (r *reader) duration(key string, def time.Duration) time.Duration {
	v := r.str(key, "")
	if v == "" {
		return def
	}
	if secs, err := strconv.Atoi(v); err == nil {
		return time.Duration(secs) * time.Second
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		r.fail(key, v, err)
		return def
	}
	return d
}

func (r *reader) fail(key, value string, err error) {
	if r.err == nil {
		r.err = fmt.Errorf("config: invalid %s %q: %w", key, value, err)
	}
}
