package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

const (
	defaultAppEnv         = "dev"
	defaultHTTPAddr       = ":8080"
	defaultDatabaseURL    = "brokerdesk.db"
	defaultJWTSecret      = "change-me-jwt-secret"
	defaultJWTTTL         = "24h"
	defaultPageSize       = "20"
	defaultMaxPageSize    = "100"
	defaultAutoMigrate    = "true"
	defaultLookupDebounce = "250ms"
)

type Config struct {
	AppEnv             string
	HTTPAddr           string
	DatabaseURL        string
	JWTSecret          string
	JWTTTL             time.Duration
	CORSAllowedOrigins []string
	DefaultPageSize    int
	MaxPageSize        int
	AutoMigrate        bool
	LookupDebounce     time.Duration
}

// fileConfig mirrors the optional YAML config file. Every value is a string
// so it goes through the same parsing as the environment.
type fileConfig struct {
	AppEnv             string `yaml:"app_env"`
	HTTPAddr           string `yaml:"http_addr"`
	DatabaseURL        string `yaml:"database_url"`
	JWTSecret          string `yaml:"jwt_secret"`
	JWTTTL             string `yaml:"jwt_ttl"`
	CORSAllowedOrigins string `yaml:"cors_allowed_origins"`
	PageSizeDefault    string `yaml:"page_size_default"`
	PageSizeMax        string `yaml:"page_size_max"`
	AutoMigrate        string `yaml:"auto_migrate"`
	LookupDebounce     string `yaml:"lookup_debounce"`
}

// Load reads .env (if present), then the YAML file at path (if non-empty),
// then the environment. Environment variables win over the file, the file
// wins over built-in defaults.
func Load(path string) (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("load .env: %w", err)
	}

	var file fileConfig
	if path != "" {
		raw, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read config file: %w", err)
		}
		if err := yaml.Unmarshal(raw, &file); err != nil {
			return nil, fmt.Errorf("parse config file %s: %w", path, err)
		}
	}

	cfg := &Config{}
	cfg.AppEnv = strings.ToLower(strings.TrimSpace(getEnv("APP_ENV", or(file.AppEnv, defaultAppEnv))))
	cfg.HTTPAddr = strings.TrimSpace(getEnv("HTTP_ADDR", or(file.HTTPAddr, defaultHTTPAddr)))
	cfg.DatabaseURL = strings.TrimSpace(getEnv("DATABASE_URL", or(file.DatabaseURL, defaultDatabaseURL)))
	cfg.JWTSecret = strings.TrimSpace(getEnv("JWT_SECRET", or(file.JWTSecret, defaultJWTSecret)))
	cfg.CORSAllowedOrigins = splitList(getEnv("CORS_ALLOWED_ORIGINS", file.CORSAllowedOrigins))
	cfg.AutoMigrate = parseBool(getEnv("AUTO_MIGRATE", or(file.AutoMigrate, defaultAutoMigrate)))

	var err error
	cfg.JWTTTL, err = parseDurationEnv("JWT_TTL", or(file.JWTTTL, defaultJWTTTL))
	if err != nil {
		return nil, err
	}
	cfg.LookupDebounce, err = parseDurationEnv("LOOKUP_DEBOUNCE", or(file.LookupDebounce, defaultLookupDebounce))
	if err != nil {
		return nil, err
	}
	cfg.DefaultPageSize, err = parseIntEnv("PAGE_SIZE_DEFAULT", or(file.PageSizeDefault, defaultPageSize))
	if err != nil {
		return nil, err
	}
	cfg.MaxPageSize, err = parseIntEnv("PAGE_SIZE_MAX", or(file.PageSizeMax, defaultMaxPageSize))
	if err != nil {
		return nil, err
	}

	if err := validateConfig(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// IsProdLike reports whether the config targets a production environment.
func (c *Config) IsProdLike() bool {
	return isProdLike(c.AppEnv)
}

func validateConfig(cfg *Config) error {
	if cfg.HTTPAddr == "" {
		return fmt.Errorf("HTTP_ADDR must not be empty")
	}
	if cfg.DatabaseURL == "" {
		return fmt.Errorf("DATABASE_URL must not be empty")
	}
	if cfg.JWTTTL <= 0 {
		return fmt.Errorf("JWT_TTL must be > 0")
	}
	if cfg.LookupDebounce < 0 {
		return fmt.Errorf("LOOKUP_DEBOUNCE must be >= 0")
	}
	if cfg.DefaultPageSize <= 0 {
		return fmt.Errorf("PAGE_SIZE_DEFAULT must be > 0")
	}
	if cfg.MaxPageSize < cfg.DefaultPageSize {
		return fmt.Errorf("PAGE_SIZE_MAX must be >= PAGE_SIZE_DEFAULT")
	}

	if isProdLike(cfg.AppEnv) {
		if isEmptyOrDefault(cfg.JWTSecret, defaultJWTSecret) {
			return fmt.Errorf("in prod/release JWT_SECRET must be set and not default")
		}
		if !strings.HasPrefix(cfg.DatabaseURL, "postgres://") && !strings.HasPrefix(cfg.DatabaseURL, "postgresql://") {
			return fmt.Errorf("in prod/release DATABASE_URL must point at PostgreSQL")
		}
	}

	return nil
}

func isProdLike(env string) bool {
	env = strings.ToLower(strings.TrimSpace(env))
	return env == "prod" || env == "production" || env == "release"
}

func isEmptyOrDefault(v, def string) bool {
	trimmed := strings.TrimSpace(v)
	return trimmed == "" || trimmed == def
}

func parseDurationEnv(name, fallback string) (time.Duration, error) {
	value := strings.TrimSpace(getEnv(name, fallback))
	d, err := time.ParseDuration(value)
	if err != nil {
		return 0, fmt.Errorf("invalid %s value %q: %w", name, value, err)
	}
	return d, nil
}

func parseIntEnv(name, fallback string) (int, error) {
	value := strings.TrimSpace(getEnv(name, fallback))
	n, err := strconv.Atoi(value)
	if err != nil {
		return 0, fmt.Errorf("invalid %s value %q: %w", name, value, err)
	}
	return n, nil
}

func parseBool(value string) bool {
	value = strings.ToLower(strings.TrimSpace(value))
	return value == "1" || value == "true" || value == "yes" || value == "on"
}

func splitList(value string) []string {
	var out []string
	for _, item := range strings.Split(value, ",") {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	return out
}

func or(v, fallback string) string {
	if strings.TrimSpace(v) != "" {
		return v
	}
	return fallback
}

func getEnv(name, fallback string) string {
	if v := os.Getenv(name); v != "" {
		return v
	}
	return fallback
}
