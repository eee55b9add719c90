package config

import (
	"time"

	"github.com/spf13/pflag"
)

// Flags holds command-line overrides
type Flags struct {
	ConfigPath      string
	StoreURL        string
	HTTPAddr        string
	LogLevel        string
	LogFormat       string
	StateTTLSeconds string
	LockTTL         time.Duration
}

// RegisterFlags defines the server flags on fs
func RegisterFlags(fs *pflag.FlagSet) *Flags {
	f := &Flags{}
	fs.StringVar(&f.ConfigPath, "config", "", "path to YAML config file (env "+EnvConfigPath+")")
	fs.StringVar(&f.StoreURL, "store-url", "", "store URL: redis://, rediss://, bolt://<path> or sqlite://<path>")
	fs.StringVar(&f.HTTPAddr, "addr", "", "HTTP listen address")
	fs.StringVar(&f.LogLevel, "log-level", "", "log level: debug, info, warn, error")
	fs.StringVar(&f.LogFormat, "log-format", "", "log format: text or json")
	fs.StringVar(&f.StateTTLSeconds, "state-ttl-seconds", "", "expiry of stored dashboard state in seconds")
	fs.DurationVar(&f.LockTTL, "lock-ttl", 0, "expiry of per-key write locks")
	return f
}

// Apply copies the flags that were set explicitly into cfg
func (f *Flags) Apply(fs *pflag.FlagSet, cfg *Config) {
	if fs.Changed("store-url") {
		cfg.Store.URL = f.StoreURL
	}
	if fs.Changed("addr") {
		cfg.HTTP.Addr = f.HTTPAddr
	}
	if fs.Changed("log-level") {
		cfg.Log.Level = f.LogLevel
	}
	if fs.Changed("log-format") {
		cfg.Log.Format = f.LogFormat
	}
	if fs.Changed("state-ttl-seconds") {
		cfg.State.TTLSeconds = f.StateTTLSeconds
	}
	if fs.Changed("lock-ttl") {
		cfg.Lock.TTL = f.LockTTL
	}
}
