// Package config loads host settings from a YAML file and the environment.
//
// Precedence, lowest first: Default, the config file, DOGEAR_* variables.
// Command-line flags are applied on top by the caller.
package config

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/caarlos0/env/v11"
	"gopkg.in/yaml.v3"

	"github.com/aretw0/dogear/pkg/nativemsg"
)

// EnvPrefix prefixes every environment variable read by Load.
const EnvPrefix = "DOGEAR_"

// Config is the full host configuration.
type Config struct {
	Database Database `yaml:"database"`
	Log      Log      `yaml:"log"`
	Host     Host     `yaml:"host"`
}

// Database selects and opens the bookmark store.
type Database struct {
	// Path is the database file. Empty means buku's default location.
	Path     string `yaml:"path" env:"DB_PATH"`
	Adapter  string `yaml:"adapter" env:"ADAPTER"`
	ReadOnly bool   `yaml:"read_only" env:"READ_ONLY"`
	Watch    bool   `yaml:"watch" env:"WATCH"`
}

// Log controls diagnostics. Logs never go to stdout.
type Log struct {
	Level  string `yaml:"level" env:"LOG_LEVEL"`
	Format string `yaml:"format" env:"LOG_FORMAT"`
	File   string `yaml:"file" env:"LOG_FILE"`
}

// Host bounds native-messaging frames.
type Host struct {
	MaxRequestBytes  uint32 `yaml:"max_request_bytes" env:"MAX_REQUEST_BYTES"`
	MaxResponseBytes uint32 `yaml:"max_response_bytes" env:"MAX_RESPONSE_BYTES"`
}

// Default returns the built-in configuration.
func Default() Config {
	limits := nativemsg.DefaultLimits()
	return Config{
		Database: Database{Adapter: "sqlite"},
		Log:      Log{Level: "info", Format: "text"},
		Host: Host{
			MaxRequestBytes:  limits.MaxIncomingBytes,
			MaxResponseBytes: limits.MaxOutgoingBytes,
		},
	}
}

// DefaultPath returns the per-user config file location.
func DefaultPath() (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("resolve config dir: %w", err)
	}
	return filepath.Join(dir, "dogear", "config.yaml"), nil
}

// Load reads path, then applies environment overrides, then validates.
// An empty path reads DefaultPath, where a missing file is not an error.
func Load(path string) (Config, error) {
	cfg := Default()

	explicit := path != ""
	if !explicit {
		p, err := DefaultPath()
		if err != nil {
			return cfg, err
		}
		path = p
	}

	if err := readFile(path, &cfg); err != nil {
		if explicit || !errors.Is(err, fs.ErrNotExist) {
			return cfg, err
		}
	}

	if err := env.ParseWithOptions(&cfg, env.Options{Prefix: EnvPrefix}); err != nil {
		return cfg, fmt.Errorf("parse env: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

func readFile(path string, cfg *Config) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("open config: %w", err)
	}
	defer f.Close()

	dec := yaml.NewDecoder(f)
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil && !errors.Is(err, io.EOF) {
		return fmt.Errorf("decode config %s: %w", path, err)
	}
	return nil
}

// Validate rejects settings the host cannot run with.
func (c Config) Validate() error {
	switch c.Database.Adapter {
	case "sqlite", "memory":
	default:
		return fmt.Errorf("database.adapter: unknown adapter %q", c.Database.Adapter)
	}

	if _, err := ParseLevel(c.Log.Level); err != nil {
		return fmt.Errorf("log.level: %w", err)
	}
	switch strings.ToLower(c.Log.Format) {
	case "text", "json":
	default:
		return fmt.Errorf("log.format: unknown format %q", c.Log.Format)
	}
	switch strings.ToLower(strings.TrimSpace(c.Log.File)) {
	case "-", "stdout", "/dev/stdout":
		return fmt.Errorf("log.file: stdout carries protocol frames")
	}

	if c.Host.MaxRequestBytes == 0 || c.Host.MaxResponseBytes == 0 {
		return fmt.Errorf("host: frame limits must be positive")
	}
	return nil
}

// Limits converts the host section to frame limits.
func (c Config) Limits() nativemsg.Limits {
	return nativemsg.Limits{
		MaxIncomingBytes: c.Host.MaxRequestBytes,
		MaxOutgoingBytes: c.Host.MaxResponseBytes,
	}
}

// LevelOff disables logging entirely.
const LevelOff = slog.Level(127)

// ParseLevel maps a level name to a slog level. "off" maps to LevelOff.
func ParseLevel(raw string) (slog.Level, error) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "debug":
		return slog.LevelDebug, nil
	case "", "info":
		return slog.LevelInfo, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	case "off", "none", "disabled":
		return LevelOff, nil
	default:
		return slog.LevelInfo, fmt.Errorf("unknown level %q", raw)
	}
}
