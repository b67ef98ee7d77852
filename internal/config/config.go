// Package config loads and validates the SEO engine configuration.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

const (
	defaultServerAddress  = ":8090"
	defaultReadTimeout    = 10 * time.Second
	defaultWriteTimeout   = 30 * time.Second
	defaultSweepInterval  = 15 * time.Minute
	defaultLockTTL        = 10 * time.Minute
	defaultTenantCacheTTL = 5 * time.Minute
	defaultURLLimit       = 1000
	defaultLocale         = "pt-BR"
	defaultOutputDir      = "./public"
)

// Config is the root configuration for the engine.
type Config struct {
	Debug     bool            `yaml:"debug"` // controls log level and format
	Server    ServerConfig    `yaml:"server"`
	Database  DatabaseConfig  `yaml:"database"`
	Redis     RedisConfig     `yaml:"redis"`
	Generator GeneratorConfig `yaml:"generator"`
	Tenant    TenantConfig    `yaml:"tenant"`
}

// ServerConfig configures the HTTP API server.
type ServerConfig struct {
	Address      string        `yaml:"address"` // e.g. ":8090"
	ReadTimeout  time.Duration `yaml:"read_timeout"`
	WriteTimeout time.Duration `yaml:"write_timeout"`
	CORSOrigins  []string      `yaml:"cors_origins"`
}

// DatabaseConfig configures the PostgreSQL connection.
type DatabaseConfig struct {
	Host     string `yaml:"host"`
	Port     string `yaml:"port"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	DBName   string `yaml:"dbname"`
	SSLMode  string `yaml:"sslmode"`
}

// RedisConfig configures the Redis connection used for the tenant cache and
// generation locks.
type RedisConfig struct {
	Addr     string `yaml:"addr"`
	Password string `yaml:"password"`
	DB       int    `yaml:"db"`
}

// GeneratorConfig configures sitemap and robots generation.
type GeneratorConfig struct {
	// OutputDir is the root under which per-tenant artifacts are written
	// (sitemaps/{tenant}/sitemap-{type}-{n}.xml).
	OutputDir string `yaml:"output_dir"`

	// BaseURL is the public base used when building sitemap file URLs,
	// e.g. "https://cdn.dealerhub.example". The tenant ID is appended.
	BaseURL string `yaml:"base_url"`

	// URLLimit is the per-file URL cap for chunked sitemaps.
	URLLimit int `yaml:"url_limit"`

	// SweepInterval is how often the scheduler checks for due artifacts.
	SweepInterval time.Duration `yaml:"sweep_interval"`

	// SweepCron optionally overrides SweepInterval with a cron expression.
	SweepCron string `yaml:"sweep_cron"`

	// LockTTL bounds how long a per-tenant generation lock is held.
	LockTTL time.Duration `yaml:"lock_ttl"`

	// DefaultLocale is used for robots output when no locale is given.
	DefaultLocale string `yaml:"default_locale"`
}

// TenantConfig configures tenant resolution.
type TenantConfig struct {
	// CacheTTL bounds how long a resolved tenant is cached. Stale reads
	// within this window are acceptable; mutations must invalidate.
	CacheTTL time.Duration `yaml:"cache_ttl"`

	// BaseDomain is the suffix stripped when resolving by subdomain,
	// e.g. "dealerhub.example".
	BaseDomain string `yaml:"base_domain"`

	// Header is the explicit tenant header name.
	Header string `yaml:"header"`

	// DirectoryURL is the base URL of the dealer-management tenant API.
	// Slug and custom-domain resolution are disabled when empty.
	DirectoryURL string `yaml:"directory_url"`

	// DirectoryTimeout bounds each directory lookup.
	DirectoryTimeout time.Duration `yaml:"directory_timeout"`
}

// Load reads, defaults, env-overrides, and validates the configuration.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config file: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	setDefaults(&cfg)
	overrideWithEnvVars(&cfg)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return &cfg, nil
}

// Default returns a configuration with defaults applied and env overrides,
// for commands that can run without a config file.
func Default() *Config {
	cfg := &Config{}
	setDefaults(cfg)
	overrideWithEnvVars(cfg)
	return cfg
}

// Validate checks the configuration and returns an error if it is unusable.
func (c *Config) Validate() error {
	if c.Database.Host == "" {
		return errors.New("database.host is required")
	}
	if c.Database.DBName == "" {
		return errors.New("database.dbname is required")
	}
	if c.Redis.Addr == "" {
		return errors.New("redis.addr is required")
	}
	if c.Generator.URLLimit <= 0 {
		return fmt.Errorf("generator.url_limit must be positive, got %d", c.Generator.URLLimit)
	}
	if c.Generator.SweepInterval <= 0 && c.Generator.SweepCron == "" {
		return errors.New("generator.sweep_interval or generator.sweep_cron is required")
	}
	return nil
}

func setDefaults(cfg *Config) {
	if cfg.Server.Address == "" {
		cfg.Server.Address = defaultServerAddress
	}
	if cfg.Server.ReadTimeout == 0 {
		cfg.Server.ReadTimeout = defaultReadTimeout
	}
	if cfg.Server.WriteTimeout == 0 {
		cfg.Server.WriteTimeout = defaultWriteTimeout
	}
	if len(cfg.Server.CORSOrigins) == 0 {
		cfg.Server.CORSOrigins = []string{
			"http://localhost:3000", // dealer admin frontend
			"http://localhost:3001", // storefront dev server
		}
	}
	if cfg.Database.Host == "" {
		cfg.Database.Host = "localhost"
	}
	if cfg.Database.Port == "" {
		cfg.Database.Port = "5432"
	}
	if cfg.Database.User == "" {
		cfg.Database.User = "postgres"
	}
	if cfg.Database.DBName == "" {
		cfg.Database.DBName = "seo_engine"
	}
	if cfg.Database.SSLMode == "" {
		cfg.Database.SSLMode = "disable"
	}
	if cfg.Redis.Addr == "" {
		cfg.Redis.Addr = "localhost:6379"
	}
	if cfg.Generator.OutputDir == "" {
		cfg.Generator.OutputDir = defaultOutputDir
	}
	if cfg.Generator.URLLimit == 0 {
		cfg.Generator.URLLimit = defaultURLLimit
	}
	if cfg.Generator.SweepInterval == 0 {
		cfg.Generator.SweepInterval = defaultSweepInterval
	}
	if cfg.Generator.LockTTL == 0 {
		cfg.Generator.LockTTL = defaultLockTTL
	}
	if cfg.Generator.DefaultLocale == "" {
		cfg.Generator.DefaultLocale = defaultLocale
	}
	if cfg.Tenant.CacheTTL == 0 {
		cfg.Tenant.CacheTTL = defaultTenantCacheTTL
	}
	if cfg.Tenant.Header == "" {
		cfg.Tenant.Header = "X-Tenant-ID"
	}
}

func overrideWithEnvVars(cfg *Config) {
	if v := os.Getenv("SEO_DB_HOST"); v != "" {
		cfg.Database.Host = v
	}
	if v := os.Getenv("SEO_DB_PORT"); v != "" {
		cfg.Database.Port = v
	}
	if v := os.Getenv("SEO_DB_USER"); v != "" {
		cfg.Database.User = v
	}
	if v := os.Getenv("SEO_DB_PASSWORD"); v != "" {
		cfg.Database.Password = v
	}
	if v := os.Getenv("SEO_DB_NAME"); v != "" {
		cfg.Database.DBName = v
	}
	if v := os.Getenv("REDIS_ADDR"); v != "" {
		cfg.Redis.Addr = v
	}
	if v := os.Getenv("REDIS_PASSWORD"); v != "" {
		cfg.Redis.Password = v
	}
	if v := os.Getenv("SEO_OUTPUT_DIR"); v != "" {
		cfg.Generator.OutputDir = v
	}
	if v := os.Getenv("SEO_BASE_URL"); v != "" {
		cfg.Generator.BaseURL = v
	}
	if v := os.Getenv("SEO_URL_LIMIT"); v != "" {
		if limit, err := strconv.Atoi(v); err == nil && limit > 0 {
			cfg.Generator.URLLimit = limit
		}
	}
	if v := os.Getenv("SEO_PORT"); v != "" {
		cfg.Server.Address = ":" + v
	}
	if v := os.Getenv("CORS_ORIGINS"); v != "" {
		origins := strings.Split(v, ",")
		for i, origin := range origins {
			origins[i] = strings.TrimSpace(origin)
		}
		cfg.Server.CORSOrigins = origins
	}
	if v := os.Getenv("APP_DEBUG"); v != "" {
		cfg.Debug = parseBool(v)
	}
}

// parseBool accepts the common truthy spellings, anything else is false.
func parseBool(s string) bool {
	s = strings.ToLower(strings.TrimSpace(s))
	return s == "true" || s == "1" || s == "yes"
}
