// Package config собирает конфигурацию сервера из флагов и переменных окружения.
// Приоритет: флаг > переменная окружения > значение по умолчанию.
package config

import (
	"errors"
	"flag"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/iudanet/celar/internal/validation"
)

// Драйверы хранилища
const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
)

// Ошибки конфигурации
var (
	ErrMissingJWTSecret  = errors.New("jwt secret is required (flag -jwt-secret or CELAR_JWT_SECRET)")
	ErrUnknownDriver     = errors.New("unknown storage driver")
	ErrInvalidTokenTTL   = errors.New("token ttl must be positive")
	ErrInvalidPostLimit  = errors.New("max post bytes must be positive")
	ErrMissingDatabase   = errors.New("database dsn is required")
	ErrInvalidLogSetting = errors.New("invalid log setting")
)

// Config - конфигурация сервера
type Config struct {
	Addr            string
	StorageDriver   string
	DatabaseDSN     string
	JWTSecret       string
	LogLevel        string
	LogFormat       string
	TokenTTL        time.Duration
	ShutdownTimeout time.Duration
	MaxPostBytes    int64
	Demo            bool
	MetricsEnabled  bool
	ShowVersion     bool
}

// Default возвращает конфигурацию по умолчанию
func Default() Config {
	return Config{
		Addr:            ":8000",
		StorageDriver:   DriverSQLite,
		DatabaseDSN:     "celar.db",
		TokenTTL:        24 * time.Hour,
		MaxPostBytes:    validation.DefaultMaxPostBytes,
		LogLevel:        "info",
		LogFormat:       "text",
		MetricsEnabled:  true,
		ShutdownTimeout: 10 * time.Second,
	}
}

// Load разбирает args (без имени программы) поверх окружения
func Load(args []string) (*Config, error) {
	cfg := Default()

	if err := cfg.applyEnv(); err != nil {
		return nil, err
	}

	fs := flag.NewFlagSet("celar-server", flag.ContinueOnError)
	fs.StringVar(&cfg.Addr, "addr", cfg.Addr, "HTTP listen address (CELAR_ADDR)")
	fs.StringVar(&cfg.StorageDriver, "storage", cfg.StorageDriver, "storage driver: sqlite or postgres (CELAR_STORAGE)")
	fs.StringVar(&cfg.DatabaseDSN, "db", cfg.DatabaseDSN, "SQLite file path or Postgres DSN (CELAR_DATABASE_DSN)")
	fs.StringVar(&cfg.JWTSecret, "jwt-secret", cfg.JWTSecret, "token signing secret (CELAR_JWT_SECRET)")
	fs.DurationVar(&cfg.TokenTTL, "token-ttl", cfg.TokenTTL, "access token lifetime (CELAR_TOKEN_TTL)")
	fs.Int64Var(&cfg.MaxPostBytes, "max-post-bytes", cfg.MaxPostBytes, "maximum post size in bytes (CELAR_MAX_POST_BYTES)")
	fs.BoolVar(&cfg.Demo, "demo", cfg.Demo, "report demo mode in /details (CELAR_DEMO)")
	fs.StringVar(&cfg.LogLevel, "log-level", cfg.LogLevel, "debug, info, warn or error (CELAR_LOG_LEVEL)")
	fs.StringVar(&cfg.LogFormat, "log-format", cfg.LogFormat, "text or json (CELAR_LOG_FORMAT)")
	fs.BoolVar(&cfg.MetricsEnabled, "metrics", cfg.MetricsEnabled, "expose /metrics (CELAR_METRICS)")
	fs.DurationVar(&cfg.ShutdownTimeout, "shutdown-timeout", cfg.ShutdownTimeout, "graceful shutdown timeout (CELAR_SHUTDOWN_TIMEOUT)")
	fs.BoolVar(&cfg.ShowVersion, "version", false, "show version information")

	if err := fs.Parse(args); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// Validate проверяет обязательные поля и диапазоны
func (c *Config) Validate() error {
	if c.JWTSecret == "" {
		return ErrMissingJWTSecret
	}

	switch c.StorageDriver {
	case DriverSQLite, DriverPostgres:
	default:
		return fmt.Errorf("%w: %q", ErrUnknownDriver, c.StorageDriver)
	}

	if c.DatabaseDSN == "" {
		return ErrMissingDatabase
	}

	if c.TokenTTL <= 0 {
		return ErrInvalidTokenTTL
	}

	if c.MaxPostBytes <= 0 {
		return ErrInvalidPostLimit
	}

	switch strings.ToLower(c.LogLevel) {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("%w: level %q", ErrInvalidLogSetting, c.LogLevel)
	}

	switch strings.ToLower(c.LogFormat) {
	case "text", "json":
	default:
		return fmt.Errorf("%w: format %q", ErrInvalidLogSetting, c.LogFormat)
	}

	return nil
}

func (c *Config) applyEnv() error {
	stringVars := map[string]*string{
		"CELAR_ADDR":         &c.Addr,
		"CELAR_STORAGE":      &c.StorageDriver,
		"CELAR_DATABASE_DSN": &c.DatabaseDSN,
		"CELAR_JWT_SECRET":   &c.JWTSecret,
		"CELAR_LOG_LEVEL":    &c.LogLevel,
		"CELAR_LOG_FORMAT":   &c.LogFormat,
	}
	for key, dst := range stringVars {
		if v, ok := os.LookupEnv(key); ok {
			*dst = v
		}
	}

	durationVars := map[string]*time.Duration{
		"CELAR_TOKEN_TTL":        &c.TokenTTL,
		"CELAR_SHUTDOWN_TIMEOUT": &c.ShutdownTimeout,
	}
	for key, dst := range durationVars {
		if v, ok := os.LookupEnv(key); ok {
			d, err := time.ParseDuration(v)
			if err != nil {
				return fmt.Errorf("invalid %s: %w", key, err)
			}
			*dst = d
		}
	}

	boolVars := map[string]*bool{
		"CELAR_DEMO":    &c.Demo,
		"CELAR_METRICS": &c.MetricsEnabled,
	}
	for key, dst := range boolVars {
		if v, ok := os.LookupEnv(key); ok {
			b, err := strconv.ParseBool(v)
			if err != nil {
				return fmt.Errorf("invalid %s: %w", key, err)
			}
			*dst = b
		}
	}

	if v, ok := os.LookupEnv("CELAR_MAX_POST_BYTES"); ok {
		n, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return fmt.Errorf("invalid CELAR_MAX_POST_BYTES: %w", err)
		}
		c.MaxPostBytes = n
	}

	return nil
}
