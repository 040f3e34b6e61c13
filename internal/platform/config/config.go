// Package config reads service settings from the environment.
package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"time"

	applog "github.com/janisto/scoring-api/internal/platform/logging"
	"github.com/janisto/scoring-api/internal/platform/redis"
)

// EnvDevelopment relaxes the salt requirements for local runs.
const EnvDevelopment = "development"

// Salts used when APP_ENVIRONMENT is development and none are set.
const (
	DevAuthSalt  = "Otus"
	DevAdminSalt = "42"
)

// Config holds the service settings.
type Config struct {
	Port        string
	Environment string
	LogLevel    slog.Level
	LogFile     string
	DocsPath    string

	Redis    redis.Config
	CacheTTL time.Duration

	AuthSalt  string
	AdminSalt string

	// DevSalts is set when at least one salt fell back to its development value.
	DevSalts bool
}

// LookupFunc matches os.LookupEnv.
type LookupFunc func(key string) (string, bool)

// Load reads the settings from the process environment.
func Load() (*Config, error) {
	return FromLookup(os.LookupEnv)
}

// LoadRedis reads only the store settings from the process environment.
// Tools that talk to the store without serving requests use it, so no salts
// are required.
func LoadRedis() (redis.Config, error) {
	return RedisFromLookup(os.LookupEnv)
}

// RedisFromLookup reads the store settings through lookup.
func RedisFromLookup(lookup LookupFunc) (redis.Config, error) {
	r := reader{lookup: lookup}
	cfg := r.storeConfig()
	return cfg, errors.Join(r.errs...)
}

// FromLookup reads the settings through lookup. Every invalid value is
// reported in the returned error.
func FromLookup(lookup LookupFunc) (*Config, error) {
	r := reader{lookup: lookup}
	cfg := &Config{
		Port:        r.str("PORT", "8080"),
		Environment: r.str("APP_ENVIRONMENT", "production"),
		LogFile:     r.str("LOG_FILE", ""),
		DocsPath:    r.str("DOCS_PATH", "api-docs/swagger.json"),
		Redis:       r.storeConfig(),
		CacheTTL:    r.duration("CACHE_TTL", 60*time.Minute),
		AuthSalt:    r.str("AUTH_SALT", ""),
		AdminSalt:   r.str("ADMIN_SALT", ""),
	}

	level, err := applog.ParseLevel(r.str("LOG_LEVEL", "info"))
	if err != nil {
		r.fail("LOG_LEVEL", err)
	}
	cfg.LogLevel = level

	if port, err := strconv.Atoi(cfg.Port); err != nil || port < 1 || port > 65535 {
		r.fail("PORT", fmt.Errorf("%q is not a valid port", cfg.Port))
	}
	if cfg.CacheTTL <= 0 {
		r.fail("CACHE_TTL", errors.New("must be positive"))
	}

	dev := cfg.Environment == EnvDevelopment
	if cfg.AuthSalt == "" {
		if dev {
			cfg.AuthSalt, cfg.DevSalts = DevAuthSalt, true
		} else {
			r.fail("AUTH_SALT", errors.New("is required"))
		}
	}
	if cfg.AdminSalt == "" {
		if dev {
			cfg.AdminSalt, cfg.DevSalts = DevAdminSalt, true
		} else {
			r.fail("ADMIN_SALT", errors.New("is required"))
		}
	}

	if err := errors.Join(r.errs...); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (r *reader) storeConfig() redis.Config {
	cfg := redis.Config{
		Addr:     r.str("REDIS_ADDR", "localhost:6379"),
		Password: r.str("REDIS_PASSWORD", ""),
		DB:       r.integer("REDIS_DB", 0),
		Timeout:  r.duration("STORE_TIMEOUT", redis.DefaultTimeout),
		Retries:  r.integer("STORE_RETRIES", 3),
	}
	if cfg.DB < 0 {
		r.fail("REDIS_DB", errors.New("must not be negative"))
	}
	if cfg.Retries < 0 {
		r.fail("STORE_RETRIES", errors.New("must not be negative"))
	}
	if cfg.Timeout <= 0 {
		r.fail("STORE_TIMEOUT", errors.New("must be positive"))
	}
	return cfg
}

type reader struct {
	lookup LookupFunc
	errs   []error
}

func (r *reader) fail(key string, err error) {
	r.errs = append(r.errs, fmt.Errorf("%s: %w", key, err))
}

func (r *reader) str(key, def string) string {
	if v, ok := r.lookup(key); ok && v != "" {
		return v
	}
	return def
}

func (r *reader) integer(key string, def int) int {
	v, ok := r.lookup(key)
	if !ok || v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		r.fail(key, fmt.Errorf("%q is not an integer", v))
		return def
	}
	return n
}

func (r *reader) duration(key string, def time.Duration) time.Duration {
	v, ok := r.lookup(key)
	if !ok || v == "" {
		return def
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		r.fail(key, fmt.Errorf("%q is not a duration", v))
		return def
	}
	return d
}
