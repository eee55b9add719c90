// Package config loads the dashsync server configuration.
//
// Values are applied in layers: built-in defaults, an optional YAML file
// (--config flag or DASHSYNC_CONFIG), DASHSYNC_* environment variables and
// finally command-line flags.
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Environment variables read by Load
const (
	EnvConfigPath      = "DASHSYNC_CONFIG"
	EnvStoreURL        = "DASHSYNC_STORE_URL"
	EnvStateTTLSeconds = "DASHSYNC_STATE_TTL_SECONDS"
	EnvJWTSecret       = "DASHSYNC_JWT_SECRET"
	EnvHTTPAddr        = "DASHSYNC_HTTP_ADDR"
	EnvLogLevel        = "DASHSYNC_LOG_LEVEL"
)

// Config is the server configuration
type Config struct {
	HTTP      HTTPConfig      `yaml:"http"`
	Store     StoreConfig     `yaml:"store"`
	State     StateConfig     `yaml:"state"`
	Lock      LockConfig      `yaml:"lock"`
	Retry     RetryConfig     `yaml:"retry"`
	Auth      AuthConfig      `yaml:"auth"`
	RateLimit RateLimitConfig `yaml:"rate_limit"`
	Log       LogConfig       `yaml:"log"`
}

// HTTPConfig configures the HTTP listener
type HTTPConfig struct {
	Addr            string        `yaml:"addr"`
	ReadTimeout     time.Duration `yaml:"read_timeout"`
	WriteTimeout    time.Duration `yaml:"write_timeout"`
	IdleTimeout     time.Duration `yaml:"idle_timeout"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout"`
}

// StoreConfig configures the key-value backend.
// URL scheme selects it: redis://, rediss://, bolt://<path>, sqlite://<path>
type StoreConfig struct {
	URL             string        `yaml:"url"`
	PoolSize        int           `yaml:"pool_size"`
	DialTimeout     time.Duration `yaml:"dial_timeout"`
	OpTimeout       time.Duration `yaml:"op_timeout"`
	ConnectBackoff  time.Duration `yaml:"connect_backoff"`
	ConnectMaxDelay time.Duration `yaml:"connect_max_delay"`
	JanitorInterval time.Duration `yaml:"janitor_interval"`
}

// StateConfig configures stored records.
// TTLSeconds is kept as a raw string and resolved by ResolveStateTTL.
type StateConfig struct {
	Namespace  string `yaml:"namespace"`
	TTLSeconds string `yaml:"ttl_seconds"`
}

// LockConfig configures per-key write locks
type LockConfig struct {
	TTL time.Duration `yaml:"ttl"`
}

// RetryConfig configures retries of Get
type RetryConfig struct {
	Attempts      int           `yaml:"attempts"`
	BaseDelay     time.Duration `yaml:"base_delay"`
	MaxDelay      time.Duration `yaml:"max_delay"`
	JitterPercent uint64        `yaml:"jitter_percent"`
}

// AuthConfig configures bearer token validation
type AuthConfig struct {
	JWTSecret string `yaml:"jwt_secret"`
	Issuer    string `yaml:"issuer"`
}

// RateLimitConfig configures per-IP request limiting; Requests 0 disables it
type RateLimitConfig struct {
	Requests int           `yaml:"requests"`
	Window   time.Duration `yaml:"window"`
}

// LogConfig configures the logger
type LogConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// Default returns the built-in configuration
func Default() *Config {
	return &Config{
		HTTP: HTTPConfig{
			Addr:            ":8080",
			ReadTimeout:     10 * time.Second,
			WriteTimeout:    10 * time.Second,
			IdleTimeout:     60 * time.Second,
			ShutdownTimeout: 15 * time.Second,
		},
		Store: StoreConfig{
			URL:             "redis://localhost:6379/0",
			PoolSize:        20,
			DialTimeout:     2 * time.Second,
			OpTimeout:       2 * time.Second,
			ConnectBackoff:  500 * time.Millisecond,
			ConnectMaxDelay: 30 * time.Second,
			JanitorInterval: time.Minute,
		},
		State: StateConfig{
			Namespace: "dashboard-state",
		},
		Lock: LockConfig{
			TTL: 5 * time.Second,
		},
		Retry: RetryConfig{
			Attempts:      3,
			BaseDelay:     20 * time.Millisecond,
			MaxDelay:      500 * time.Millisecond,
			JitterPercent: 20,
		},
		Auth: AuthConfig{
			Issuer: "dashsync",
		},
		RateLimit: RateLimitConfig{
			Requests: 120,
			Window:   time.Minute,
		},
		Log: LogConfig{
			Level:  "info",
			Format: "text",
		},
	}
}

// Load builds the configuration from defaults, the YAML file at path (if
// non-empty, otherwise DASHSYNC_CONFIG if set) and the environment.
// Flags are applied by the caller afterwards.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path == "" {
		path = os.Getenv(EnvConfigPath)
	}
	if path != "" {
		if err := cfg.loadFile(path); err != nil {
			return nil, err
		}
	}

	cfg.applyEnv(os.LookupEnv)

	return cfg, nil
}

// loadFile накладывает значения из YAML поверх текущих
func (c *Config) loadFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read config file: %w", err)
	}

	if err := yaml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("failed to parse config file %s: %w", path, err)
	}

	return nil
}

// applyEnv накладывает переменные окружения
func (c *Config) applyEnv(lookup func(string) (string, bool)) {
	if v, ok := lookup(EnvStoreURL); ok && v != "" {
		c.Store.URL = v
	}
	if v, ok := lookup(EnvStateTTLSeconds); ok {
		c.State.TTLSeconds = v
	}
	if v, ok := lookup(EnvJWTSecret); ok && v != "" {
		c.Auth.JWTSecret = v
	}
	if v, ok := lookup(EnvHTTPAddr); ok && v != "" {
		c.HTTP.Addr = v
	}
	if v, ok := lookup(EnvLogLevel); ok && v != "" {
		c.Log.Level = v
	}
}

// StoreScheme returns the scheme part of Store.URL
func (c *Config) StoreScheme() string {
	scheme, _, found := strings.Cut(c.Store.URL, "://")
	if !found {
		return ""
	}
	return strings.ToLower(scheme)
}

// Validate checks that the configuration can be used to start the server
func (c *Config) Validate() error {
	var errs []error

	if c.HTTP.Addr == "" {
		errs = append(errs, errors.New("http.addr is required"))
	}
	if c.Auth.JWTSecret == "" {
		errs = append(errs, errors.New("auth.jwt_secret is required"))
	}
	switch c.StoreScheme() {
	case "redis", "rediss", "bolt", "sqlite":
	default:
		errs = append(errs, fmt.Errorf("store.url %q: unsupported scheme", c.Store.URL))
	}
	if c.Store.OpTimeout <= 0 {
		errs = append(errs, errors.New("store.op_timeout must be positive"))
	}
	switch strings.ToLower(c.Log.Format) {
	case "text", "json":
	default:
		errs = append(errs, fmt.Errorf("log.format %q: expected text or json", c.Log.Format))
	}

	return errors.Join(errs...)
}
