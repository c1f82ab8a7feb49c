package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/ircomercio/ordens/internal/domain/order"
)

// Config holds all application configuration
type Config struct {
	App      AppConfig
	Database DatabaseConfig
	Redis    RedisConfig
	Portal   PortalConfig
	Log      LogConfig
	HTTP     HTTPConfig
	Poller   PollerConfig
	Counter  CounterConfig
	Printing PrintingConfig
}

// AppConfig holds application-specific settings
type AppConfig struct {
	Name    string
	Env     string
	Port    string
	Variant string // "compras" or "licitacoes"
}

// DatabaseConfig holds database connection settings
type DatabaseConfig struct {
	Host            string
	Port            int
	User            string
	Password        string
	DBName          string
	SSLMode         string
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime int // in minutes
	ConnMaxIdleTime int // in minutes
}

// RedisConfig holds Redis connection settings. Redis is optional; an
// empty host disables the month snapshot cache.
type RedisConfig struct {
	Host     string
	Port     int
	Password string
	DB       int
}

// PortalConfig points at the identity portal that owns sessions.
// Every authenticated request is verified against it.
type PortalConfig struct {
	BaseURL string
	Timeout time.Duration
}

// LogConfig holds logging configuration
type LogConfig struct {
	Level  string // debug, info, warn, error
	Format string // json, console
	Output string // stdout, stderr, or file path
}

// HTTPConfig holds HTTP server configuration
type HTTPConfig struct {
	ReadTimeout      time.Duration
	WriteTimeout     time.Duration
	IdleTimeout      time.Duration
	MaxHeaderBytes   int
	MaxBodySize      int64
	CORSAllowOrigins []string
	CORSAllowMethods []string
	CORSAllowHeaders []string
	TrustedProxies   []string
}

// PollerConfig holds the sync agent cadence settings
type PollerConfig struct {
	DataInterval   time.Duration // order list refresh cadence
	HealthInterval time.Duration // connectivity probe cadence
	RequestTimeout time.Duration // per-request deadline
}

// CounterConfig holds the sequential number seed. The seed is only
// used while the orders table is empty; after that the counter follows
// MAX(sequential_number).
type CounterConfig struct {
	Seed int
}

// PrintingConfig holds the PDF renderer settings
type PrintingConfig struct {
	ChromePath  string // empty = look up headless chrome on PATH
	CompanyName string // printed on documents and volume labels
	RenderWait  time.Duration
	PageTimeout time.Duration
}

// Load loads configuration from TOML file and environment variables
// Priority (highest to lowest):
// 1. Environment variables with ORDENS_ prefix (e.g., ORDENS_DATABASE_PASSWORD)
// 2. config.toml
// 3. Built-in defaults
func Load() (*Config, error) {
	v := viper.New()

	v.SetConfigName("config")
	v.SetConfigType("toml")
	v.AddConfigPath(".")
	v.AddConfigPath("/app")

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
		// Config file not found is OK, we'll use defaults and env vars
	}

	v.SetEnvPrefix("ORDENS")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	cfg := &Config{
		App: AppConfig{
			Name:    v.GetString("app.name"),
			Env:     v.GetString("app.env"),
			Port:    v.GetString("app.port"),
			Variant: v.GetString("app.variant"),
		},
		Database: DatabaseConfig{
			Host:            v.GetString("database.host"),
			Port:            v.GetInt("database.port"),
			User:            v.GetString("database.user"),
			Password:        v.GetString("database.password"),
			DBName:          v.GetString("database.dbname"),
			SSLMode:         v.GetString("database.sslmode"),
			MaxOpenConns:    v.GetInt("database.max_open_conns"),
			MaxIdleConns:    v.GetInt("database.max_idle_conns"),
			ConnMaxLifetime: v.GetInt("database.conn_max_lifetime"),
			ConnMaxIdleTime: v.GetInt("database.conn_max_idle_time"),
		},
		Redis: RedisConfig{
			Host:     v.GetString("redis.host"),
			Port:     v.GetInt("redis.port"),
			Password: v.GetString("redis.password"),
			DB:       v.GetInt("redis.db"),
		},
		Portal: PortalConfig{
			BaseURL: v.GetString("portal.base_url"),
			Timeout: v.GetDuration("portal.timeout"),
		},
		Log: LogConfig{
			Level:  v.GetString("log.level"),
			Format: v.GetString("log.format"),
			Output: v.GetString("log.output"),
		},
		HTTP: HTTPConfig{
			ReadTimeout:      v.GetDuration("http.read_timeout"),
			WriteTimeout:     v.GetDuration("http.write_timeout"),
			IdleTimeout:      v.GetDuration("http.idle_timeout"),
			MaxHeaderBytes:   v.GetInt("http.max_header_bytes"),
			MaxBodySize:      v.GetInt64("http.max_body_size"),
			CORSAllowOrigins: v.GetStringSlice("http.cors_allow_origins"),
			CORSAllowMethods: v.GetStringSlice("http.cors_allow_methods"),
			CORSAllowHeaders: v.GetStringSlice("http.cors_allow_headers"),
			TrustedProxies:   v.GetStringSlice("http.trusted_proxies"),
		},
		Poller: PollerConfig{
			DataInterval:   v.GetDuration("poller.data_interval"),
			HealthInterval: v.GetDuration("poller.health_interval"),
			RequestTimeout: v.GetDuration("poller.request_timeout"),
		},
		Counter: CounterConfig{
			Seed: v.GetInt("counter.seed"),
		},
		Printing: PrintingConfig{
			ChromePath:  v.GetString("printing.chrome_path"),
			CompanyName: v.GetString("printing.company_name"),
			RenderWait:  v.GetDuration("printing.render_wait"),
			PageTimeout: v.GetDuration("printing.page_timeout"),
		},
	}

	applyDefaults(cfg)

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// applyDefaults sets default values for any empty config fields
func applyDefaults(cfg *Config) {
	if cfg.App.Name == "" {
		cfg.App.Name = "ordens-backend"
	}
	if cfg.App.Env == "" {
		cfg.App.Env = "development"
	}
	if cfg.App.Port == "" {
		cfg.App.Port = "3001"
	}
	if cfg.App.Variant == "" {
		cfg.App.Variant = string(order.VariantPurchasing)
	}
	if cfg.Database.Host == "" {
		cfg.Database.Host = "localhost"
	}
	if cfg.Database.Port == 0 {
		cfg.Database.Port = 5432
	}
	if cfg.Database.User == "" {
		cfg.Database.User = "postgres"
	}
	if cfg.Database.DBName == "" {
		cfg.Database.DBName = "ordens"
	}
	if cfg.Database.SSLMode == "" {
		cfg.Database.SSLMode = "disable"
	}
	if cfg.Database.MaxOpenConns == 0 {
		cfg.Database.MaxOpenConns = 25
	}
	if cfg.Database.MaxIdleConns == 0 {
		cfg.Database.MaxIdleConns = 5
	}
	if cfg.Database.ConnMaxLifetime == 0 {
		cfg.Database.ConnMaxLifetime = 60
	}
	if cfg.Database.ConnMaxIdleTime == 0 {
		cfg.Database.ConnMaxIdleTime = 30
	}
	if cfg.Redis.Port == 0 {
		cfg.Redis.Port = 6379
	}
	if cfg.Portal.Timeout == 0 {
		cfg.Portal.Timeout = 10 * time.Second
	}
	if cfg.Log.Level == "" {
		cfg.Log.Level = "info"
	}
	if cfg.Log.Format == "" {
		cfg.Log.Format = "json"
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
	if cfg.HTTP.MaxHeaderBytes == 0 {
		cfg.HTTP.MaxHeaderBytes = 1 << 20
	}
	if cfg.HTTP.MaxBodySize == 0 {
		cfg.HTTP.MaxBodySize = 5 << 20
	}
	if len(cfg.HTTP.CORSAllowMethods) == 0 {
		cfg.HTTP.CORSAllowMethods = []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"}
	}
	if len(cfg.HTTP.CORSAllowHeaders) == 0 {
		cfg.HTTP.CORSAllowHeaders = []string{"Content-Type", "X-Session-Token", "X-Request-ID"}
	}
	if cfg.Poller.DataInterval == 0 {
		cfg.Poller.DataInterval = 10 * time.Second
	}
	if cfg.Poller.HealthInterval == 0 {
		cfg.Poller.HealthInterval = 15 * time.Second
	}
	if cfg.Poller.RequestTimeout == 0 {
		cfg.Poller.RequestTimeout = 10 * time.Second
	}
	if cfg.Counter.Seed == 0 {
		cfg.Counter.Seed = 1250
	}
	if cfg.Printing.CompanyName == "" {
		cfg.Printing.CompanyName = "IR Comércio"
	}
	if cfg.Printing.RenderWait == 0 {
		cfg.Printing.RenderWait = 500 * time.Millisecond
	}
	if cfg.Printing.PageTimeout == 0 {
		cfg.Printing.PageTimeout = 30 * time.Second
	}
}

// validate checks configuration consistency
func (c *Config) validate() error {
	if !order.Variant(c.App.Variant).IsValid() {
		return fmt.Errorf("app.variant must be %q or %q, got %q",
			order.VariantPurchasing, order.VariantTenders, c.App.Variant)
	}
	if c.Database.MaxOpenConns <= 0 {
		return fmt.Errorf("database.max_open_conns must be positive")
	}
	if c.Database.MaxIdleConns < 0 {
		return fmt.Errorf("database.max_idle_conns cannot be negative")
	}
	if c.Database.MaxIdleConns > c.Database.MaxOpenConns {
		return fmt.Errorf("database.max_idle_conns (%d) cannot exceed database.max_open_conns (%d)",
			c.Database.MaxIdleConns, c.Database.MaxOpenConns)
	}
	if c.Counter.Seed < 0 {
		return fmt.Errorf("counter.seed cannot be negative")
	}

	if c.App.Env == "production" {
		if c.Portal.BaseURL == "" {
			return fmt.Errorf("portal.base_url is required in production")
		}
		if c.Database.Password == "" {
			return fmt.Errorf("database.password is required in production")
		}
		if c.Database.SSLMode == "disable" {
			return fmt.Errorf("database.sslmode cannot be 'disable' in production")
		}
		for _, origin := range c.HTTP.CORSAllowOrigins {
			if origin == "*" {
				return fmt.Errorf("cors_allow_origins cannot be '*' in production (use specific origins)")
			}
		}
	}

	return nil
}

// Variant returns the deployment flavor as a domain type
func (c *Config) Variant() order.Variant {
	return order.Variant(c.App.Variant)
}

// RedisEnabled reports whether the optional snapshot cache is configured
func (c *Config) RedisEnabled() bool {
	return c.Redis.Host != ""
}

// Addr returns the Redis address in host:port form
func (r *RedisConfig) Addr() string {
	return fmt.Sprintf("%s:%d", r.Host, r.Port)
}

// DSN returns the database connection string with properly escaped values
func (d *DatabaseConfig) DSN() string {
	u := url.URL{
		Scheme: "postgres",
		User:   url.UserPassword(d.User, d.Password),
		Host:   fmt.Sprintf("%s:%d", d.Host, d.Port),
		Path:   d.DBName,
	}
	q := u.Query()
	q.Set("sslmode", d.SSLMode)
	u.RawQuery = q.Encode()
	return u.String()
}
