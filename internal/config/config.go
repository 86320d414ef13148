// Package config loads the server configuration.
//
// Sources are applied in order, each overriding the previous one:
// built-in defaults, an optional YAML file, TASKKEEPER_* environment
// variables and command-line flags. The JWT secret has no flag so it never
// shows up in a process listing.
package config

import (
	"bytes"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// EnvPrefix prefixes every environment variable read by Load.
const EnvPrefix = "TASKKEEPER_"

// MinSecretLen is the shortest accepted JWT secret in bytes.
const MinSecretLen = 32

// MaxLeeway bounds the clock skew tolerance.
const MaxLeeway = 5 * time.Second

// Storage drivers.
const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
)

// Config holds runtime settings of the task API server.
type Config struct {
	Addr          string `yaml:"addr"`
	StorageDriver string `yaml:"storage_driver"`
	DatabaseDSN   string `yaml:"database_dsn"`
	JWTSecret     string `yaml:"jwt_secret"`
	LogLevel      string `yaml:"log_level"`
	LogFormat     string `yaml:"log_format"`
	RedisAddr     string `yaml:"redis_addr"`

	AccessTTL       time.Duration `yaml:"access_ttl"`
	RefreshTTL      time.Duration `yaml:"refresh_ttl"`
	ResetTTL        time.Duration `yaml:"reset_ttl"`
	Leeway          time.Duration `yaml:"leeway"`
	RateWindow      time.Duration `yaml:"rate_window"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout"`
	PurgeInterval   time.Duration `yaml:"purge_interval"`

	BcryptCost int `yaml:"bcrypt_cost"`
	RateLimit  int `yaml:"rate_limit"`

	SecureCookie bool `yaml:"secure_cookie"`
	TrustProxy   bool `yaml:"trust_proxy"`
}

// Default returns development defaults. The secret is empty and must be
// supplied.
func Default() *Config {
	return &Config{
		Addr:            ":8080",
		StorageDriver:   DriverSQLite,
		DatabaseDSN:     "taskkeeper.db",
		LogLevel:        "info",
		LogFormat:       "text",
		AccessTTL:       time.Hour,
		RefreshTTL:      30 * 24 * time.Hour,
		ResetTTL:        24 * time.Hour,
		Leeway:          0,
		RateLimit:       10,
		RateWindow:      time.Minute,
		ShutdownTimeout: 10 * time.Second,
		PurgeInterval:   time.Hour,
		BcryptCost:      12,
	}
}

// Load builds the configuration from args (without the program name) and
// the environment as seen through lookupEnv.
func Load(args []string, lookupEnv func(string) (string, bool)) (*Config, error) {
	cfg := Default()

	path := configPath(args)
	if path == "" {
		path, _ = lookupEnv(EnvPrefix + "CONFIG")
	}
	if path != "" {
		if err := cfg.loadFile(path); err != nil {
			return nil, err
		}
	}

	if err := cfg.applyEnv(lookupEnv); err != nil {
		return nil, err
	}

	fs := cfg.flagSet()
	if err := fs.Parse(args); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate reports the first setting the server cannot run with.
func (c *Config) Validate() error {
	switch {
	case len(c.JWTSecret) < MinSecretLen:
		return fmt.Errorf("jwt secret must be at least %d bytes", MinSecretLen)
	case c.StorageDriver != DriverSQLite && c.StorageDriver != DriverPostgres:
		return fmt.Errorf("unknown storage driver %q", c.StorageDriver)
	case c.DatabaseDSN == "":
		return errors.New("database dsn is required")
	case c.AccessTTL <= 0 || c.RefreshTTL <= 0 || c.ResetTTL <= 0:
		return errors.New("token lifetimes must be positive")
	case c.AccessTTL >= c.RefreshTTL:
		return errors.New("access ttl must be shorter than refresh ttl")
	case c.Leeway < 0 || c.Leeway > MaxLeeway:
		return fmt.Errorf("leeway must be between 0 and %s", MaxLeeway)
	case c.RateLimit < 0:
		return errors.New("rate limit must not be negative")
	case c.RateLimit > 0 && c.RateWindow <= 0:
		return errors.New("rate window must be positive")
	case c.ShutdownTimeout <= 0:
		return errors.New("shutdown timeout must be positive")
	}
	return nil
}

// String renders the configuration with the secret redacted.
func (c Config) String() string {
	if c.JWTSecret != "" {
		c.JWTSecret = "[REDACTED]"
	}
	if c.DatabaseDSN != "" && strings.Contains(c.DatabaseDSN, "@") {
		c.DatabaseDSN = redactDSN(c.DatabaseDSN)
	}
	out, err := yaml.Marshal(c)
	if err != nil {
		return "config: " + err.Error()
	}
	return string(out)
}

// GoString keeps %#v from printing the secret.
func (c Config) GoString() string {
	return c.String()
}

func (c *Config) loadFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read config file: %w", err)
	}

	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(c); err != nil && !errors.Is(err, io.EOF) {
		return fmt.Errorf("failed to parse config file %s: %w", path, err)
	}
	return nil
}

func (c *Config) applyEnv(lookupEnv func(string) (string, bool)) error {
	strs := map[string]*string{
		"ADDR":           &c.Addr,
		"STORAGE_DRIVER": &c.StorageDriver,
		"DATABASE_DSN":   &c.DatabaseDSN,
		"JWT_SECRET":     &c.JWTSecret,
		"LOG_LEVEL":      &c.LogLevel,
		"LOG_FORMAT":     &c.LogFormat,
		"REDIS_ADDR":     &c.RedisAddr,
	}
	for name, dst := range strs {
		if v, ok := lookupEnv(EnvPrefix + name); ok {
			*dst = v
		}
	}

	durations := map[string]*time.Duration{
		"ACCESS_TTL":       &c.AccessTTL,
		"REFRESH_TTL":      &c.RefreshTTL,
		"RESET_TTL":        &c.ResetTTL,
		"LEEWAY":           &c.Leeway,
		"RATE_WINDOW":      &c.RateWindow,
		"SHUTDOWN_TIMEOUT": &c.ShutdownTimeout,
		"PURGE_INTERVAL":   &c.PurgeInterval,
	}
	for name, dst := range durations {
		v, ok := lookupEnv(EnvPrefix + name)
		if !ok {
			continue
		}
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("invalid %s%s: %w", EnvPrefix, name, err)
		}
		*dst = d
	}

	ints := map[string]*int{
		"BCRYPT_COST": &c.BcryptCost,
		"RATE_LIMIT":  &c.RateLimit,
	}
	for name, dst := range ints {
		v, ok := lookupEnv(EnvPrefix + name)
		if !ok {
			continue
		}
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("invalid %s%s: %w", EnvPrefix, name, err)
		}
		*dst = n
	}

	bools := map[string]*bool{
		"SECURE_COOKIE": &c.SecureCookie,
		"TRUST_PROXY":   &c.TrustProxy,
	}
	for name, dst := range bools {
		v, ok := lookupEnv(EnvPrefix + name)
		if !ok {
			continue
		}
		b, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("invalid %s%s: %w", EnvPrefix, name, err)
		}
		*dst = b
	}

	return nil
}

func (c *Config) flagSet() *flag.FlagSet {
	fs := flag.NewFlagSet("taskkeeper-server", flag.ContinueOnError)
	fs.SetOutput(io.Discard)

	fs.String("config", "", "path to a YAML config file")
	fs.StringVar(&c.Addr, "a", c.Addr, "listen address")
	fs.StringVar(&c.StorageDriver, "driver", c.StorageDriver, "storage driver: sqlite or postgres")
	fs.StringVar(&c.DatabaseDSN, "d", c.DatabaseDSN, "database DSN or SQLite file path")
	fs.StringVar(&c.LogLevel, "log-level", c.LogLevel, "log level: debug, info, warn, error")
	fs.StringVar(&c.LogFormat, "log-format", c.LogFormat, "log format: text or json")
	fs.StringVar(&c.RedisAddr, "redis", c.RedisAddr, "Redis address for shared rate limiting")
	fs.DurationVar(&c.AccessTTL, "access-ttl", c.AccessTTL, "access token lifetime")
	fs.DurationVar(&c.RefreshTTL, "refresh-ttl", c.RefreshTTL, "refresh token lifetime")
	fs.DurationVar(&c.ResetTTL, "reset-ttl", c.ResetTTL, "password reset token lifetime")
	fs.DurationVar(&c.Leeway, "leeway", c.Leeway, "clock skew tolerance for token expiry")
	fs.IntVar(&c.RateLimit, "rate-limit", c.RateLimit, "requests per window on auth endpoints, 0 disables")
	fs.DurationVar(&c.RateWindow, "rate-window", c.RateWindow, "rate limit window")
	fs.IntVar(&c.BcryptCost, "bcrypt-cost", c.BcryptCost, "bcrypt cost")
	fs.BoolVar(&c.SecureCookie, "secure-cookie", c.SecureCookie, "set the Secure flag on the refresh cookie")
	fs.BoolVar(&c.TrustProxy, "trust-proxy", c.TrustProxy, "trust X-Forwarded-For for client addresses")
	fs.DurationVar(&c.ShutdownTimeout, "shutdown-timeout", c.ShutdownTimeout, "graceful shutdown timeout")
	fs.DurationVar(&c.PurgeInterval, "purge-interval", c.PurgeInterval, "expired token cleanup interval")
	return fs
}

// configPath finds -config or --config in args.
func configPath(args []string) string {
	for i, arg := range args {
		name, value, hasValue := strings.Cut(strings.TrimLeft(arg, "-"), "=")
		if !strings.HasPrefix(arg, "-") || name != "config" {
			continue
		}
		if hasValue {
			return value
		}
		if i+1 < len(args) {
			return args[i+1]
		}
	}
	return ""
}

// redactDSN hides the password of a URL-style DSN.
func redactDSN(dsn string) string {
	scheme, rest, ok := strings.Cut(dsn, "://")
	if !ok {
		return "[REDACTED]"
	}
	userinfo, host, ok := strings.Cut(rest, "@")
	if !ok {
		return dsn
	}
	user, _, _ := strings.Cut(userinfo, ":")
	return scheme + "://" + user + ":[REDACTED]@" + host
}
