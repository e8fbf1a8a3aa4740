// Package config loads service configuration from an optional config.toml
// and PROCURA_* environment variables.
package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// EnvPrefix prefixes every environment override, e.g. PROCURA_APP_PORT.
const EnvPrefix = "PROCURA"

// Config is the full service configuration.
type Config struct {
	App      AppConfig
	Log      LogConfig
	HTTP     HTTPConfig
	Database DatabaseConfig
	Catalog  CatalogConfig
	JWT      JWTConfig
}

// AppConfig holds process-level settings.
type AppConfig struct {
	Name    string
	Env     string // development, production
	Port    string
	Version string
}

// IsDevelopment reports whether the service runs in development mode.
func (a AppConfig) IsDevelopment() bool {
	return a.Env == "development"
}

// LogConfig configures pkg/logger.
type LogConfig struct {
	Level  string // debug, info, warn, error
	Format string // json, console
	Output string // stdout, stderr, or file path
}

// HTTPConfig configures the HTTP server.
type HTTPConfig struct {
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	IdleTimeout     time.Duration
	ShutdownTimeout time.Duration
	MaxBodySize     int64
	// GzipMinSize is the smallest response body that gets compressed.
	GzipMinSize    int
	TrustedProxies []string
}

// DatabaseConfig configures the catalog database. An empty URL means the
// catalog is served from Catalog.SeedFile instead.
type DatabaseConfig struct {
	URL             string
	MaxConns        int32
	MinConns        int32
	ConnMaxLifetime time.Duration
	ConnMaxIdleTime time.Duration
}

// Enabled reports whether a database is configured.
func (d DatabaseConfig) Enabled() bool {
	return d.URL != ""
}

// CatalogConfig configures snapshot loading.
type CatalogConfig struct {
	SeedFile        string
	NotifyChannel   string
	RefreshInterval time.Duration
	AuditReloads    bool
}

// JWTConfig configures token validation for the admin endpoints.
type JWTConfig struct {
	Secret    string
	Issuer    string
	AdminRole string
}

// Load reads configuration. A missing config file is not an error.
func Load() (*Config, error) {
	return LoadFrom(".", "/etc/procura")
}

// LoadFrom is Load with explicit search paths for config.toml.
func LoadFrom(paths ...string) (*Config, error) {
	v := viper.New()

	v.SetConfigName("config")
	v.SetConfigType("toml")
	for _, p := range paths {
		v.AddConfigPath(p)
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	cfg := &Config{
		App: AppConfig{
			Name:    v.GetString("app.name"),
			Env:     v.GetString("app.env"),
			Port:    v.GetString("app.port"),
			Version: v.GetString("app.version"),
		},
		Log: LogConfig{
			Level:  v.GetString("log.level"),
			Format: v.GetString("log.format"),
			Output: v.GetString("log.output"),
		},
		HTTP: HTTPConfig{
			ReadTimeout:     v.GetDuration("http.read_timeout"),
			WriteTimeout:    v.GetDuration("http.write_timeout"),
			IdleTimeout:     v.GetDuration("http.idle_timeout"),
			ShutdownTimeout: v.GetDuration("http.shutdown_timeout"),
			MaxBodySize:     v.GetInt64("http.max_body_size"),
			GzipMinSize:     v.GetInt("http.gzip_min_size"),
			TrustedProxies:  v.GetStringSlice("http.trusted_proxies"),
		},
		Database: DatabaseConfig{
			URL:             v.GetString("database.url"),
			MaxConns:        v.GetInt32("database.max_conns"),
			MinConns:        v.GetInt32("database.min_conns"),
			ConnMaxLifetime: v.GetDuration("database.conn_max_lifetime"),
			ConnMaxIdleTime: v.GetDuration("database.conn_max_idle_time"),
		},
		Catalog: CatalogConfig{
			SeedFile:        v.GetString("catalog.seed_file"),
			NotifyChannel:   v.GetString("catalog.notify_channel"),
			RefreshInterval: v.GetDuration("catalog.refresh_interval"),
			AuditReloads:    v.GetBool("catalog.audit_reloads"),
		},
		JWT: JWTConfig{
			Secret:    v.GetString("jwt.secret"),
			Issuer:    v.GetString("jwt.issuer"),
			AdminRole: v.GetString("jwt.admin_role"),
		},
	}

	applyDefaults(cfg)

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func applyDefaults(cfg *Config) {
	if cfg.App.Name == "" {
		cfg.App.Name = "procura"
	}
	if cfg.App.Env == "" {
		cfg.App.Env = "development"
	}
	if cfg.App.Port == "" {
		cfg.App.Port = "8080"
	}
	if cfg.App.Version == "" {
		cfg.App.Version = "dev"
	}

	if cfg.Log.Level == "" {
		cfg.Log.Level = "info"
	}
	if cfg.Log.Format == "" {
		if cfg.App.IsDevelopment() {
			cfg.Log.Format = "console"
		} else {
			cfg.Log.Format = "json"
		}
	}
	if cfg.Log.Output == "" {
		cfg.Log.Output = "stdout"
	}

	if cfg.HTTP.ReadTimeout == 0 {
		cfg.HTTP.ReadTimeout = 15 * time.Second
	}
	if cfg.HTTP.WriteTimeout == 0 {
		cfg.HTTP.WriteTimeout = 30 * time.Second
	}
	if cfg.HTTP.IdleTimeout == 0 {
		cfg.HTTP.IdleTimeout = 60 * time.Second
	}
	if cfg.HTTP.ShutdownTimeout == 0 {
		cfg.HTTP.ShutdownTimeout = 30 * time.Second
	}
	if cfg.HTTP.MaxBodySize == 0 {
		cfg.HTTP.MaxBodySize = 4 << 20
	}
	if cfg.HTTP.GzipMinSize == 0 {
		cfg.HTTP.GzipMinSize = 1024
	}

	if cfg.Database.MaxConns == 0 {
		cfg.Database.MaxConns = 10
	}
	if cfg.Database.MinConns == 0 {
		cfg.Database.MinConns = 2
	}
	if cfg.Database.ConnMaxLifetime == 0 {
		cfg.Database.ConnMaxLifetime = time.Hour
	}
	if cfg.Database.ConnMaxIdleTime == 0 {
		cfg.Database.ConnMaxIdleTime = 30 * time.Minute
	}

	if cfg.Catalog.NotifyChannel == "" {
		cfg.Catalog.NotifyChannel = "catalog_changed"
	}

	if cfg.JWT.Issuer == "" {
		cfg.JWT.Issuer = "procura"
	}
	if cfg.JWT.AdminRole == "" {
		cfg.JWT.AdminRole = "admin"
	}
}

func (c *Config) validate() error {
	switch c.App.Env {
	case "development", "production", "test":
	default:
		return fmt.Errorf("app.env must be development, production or test, got %q", c.App.Env)
	}

	switch c.Log.Format {
	case "json", "console":
	default:
		return fmt.Errorf("log.format must be json or console, got %q", c.Log.Format)
	}

	if !c.Database.Enabled() && c.Catalog.SeedFile == "" {
		return errors.New("either database.url or catalog.seed_file is required")
	}

	if c.Database.MinConns > c.Database.MaxConns {
		return fmt.Errorf("database.min_conns (%d) exceeds database.max_conns (%d)",
			c.Database.MinConns, c.Database.MaxConns)
	}

	if c.Catalog.RefreshInterval < 0 {
		return errors.New("catalog.refresh_interval cannot be negative")
	}

	if c.App.Env == "production" {
		if len(c.JWT.Secret) < 32 {
			return errors.New("jwt.secret must be at least 32 characters in production")
		}
	} else if c.JWT.Secret == "" {
		c.JWT.Secret = "procura-development-secret-change-me"
	}

	return nil
}
