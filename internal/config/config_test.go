package config

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func isolate(t *testing.T) {
	t.Helper()
	dir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", dir)
	t.Setenv("HOME", dir)
	t.Setenv("APPDATA", dir)
}

func TestLoad(t *testing.T) {
	t.Run("Defaults When Default File Missing", func(t *testing.T) {
		isolate(t)

		cfg, err := Load("")
		require.NoError(t, err)
		assert.Equal(t, Default(), cfg)
	})

	t.Run("File Overrides Defaults", func(t *testing.T) {
		isolate(t)
		path := writeConfig(t, `
database:
  path: /tmp/marks.db
  read_only: true
log:
  level: debug
  format: json
host:
  max_response_bytes: 4096
`)

		cfg, err := Load(path)
		require.NoError(t, err)
		assert.Equal(t, "/tmp/marks.db", cfg.Database.Path)
		assert.Equal(t, "sqlite", cfg.Database.Adapter)
		assert.True(t, cfg.Database.ReadOnly)
		assert.Equal(t, "debug", cfg.Log.Level)
		assert.Equal(t, "json", cfg.Log.Format)
		assert.Equal(t, uint32(4096), cfg.Limits().MaxOutgoingBytes)
		assert.Equal(t, Default().Host.MaxRequestBytes, cfg.Limits().MaxIncomingBytes)
	})

	t.Run("Env Overrides File", func(t *testing.T) {
		isolate(t)
		path := writeConfig(t, "database:\n  adapter: sqlite\n  watch: false\n")
		t.Setenv("DOGEAR_ADAPTER", "memory")
		t.Setenv("DOGEAR_WATCH", "true")
		t.Setenv("DOGEAR_MAX_REQUEST_BYTES", "2048")

		cfg, err := Load(path)
		require.NoError(t, err)
		assert.Equal(t, "memory", cfg.Database.Adapter)
		assert.True(t, cfg.Database.Watch)
		assert.Equal(t, uint32(2048), cfg.Host.MaxRequestBytes)
	})

	t.Run("Empty File", func(t *testing.T) {
		isolate(t)

		cfg, err := Load(writeConfig(t, ""))
		require.NoError(t, err)
		assert.Equal(t, Default(), cfg)
	})

	t.Run("Explicit Missing File", func(t *testing.T) {
		isolate(t)

		_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
		assert.Error(t, err)
	})

	t.Run("Unknown Key", func(t *testing.T) {
		isolate(t)

		_, err := Load(writeConfig(t, "database:\n  pth: typo.db\n"))
		assert.Error(t, err)
	})

	t.Run("Bad Env Value", func(t *testing.T) {
		isolate(t)
		t.Setenv("DOGEAR_READ_ONLY", "maybe")

		_, err := Load("")
		assert.ErrorContains(t, err, "parse env")
	})
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"Unknown Adapter", func(c *Config) { c.Database.Adapter = "postgres" }},
		{"Unknown Level", func(c *Config) { c.Log.Level = "loud" }},
		{"Unknown Format", func(c *Config) { c.Log.Format = "xml" }},
		{"Stdout Log File", func(c *Config) { c.Log.File = "-" }},
		{"Dev Stdout Log File", func(c *Config) { c.Log.File = "/dev/stdout" }},
		{"Zero Response Limit", func(c *Config) { c.Host.MaxResponseBytes = 0 }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(&cfg)
			assert.Error(t, cfg.Validate())
		})
	}

	assert.NoError(t, Default().Validate())
}

func TestParseLevel(t *testing.T) {
	tests := map[string]slog.Level{
		"debug":   slog.LevelDebug,
		"":        slog.LevelInfo,
		"INFO":    slog.LevelInfo,
		"warning": slog.LevelWarn,
		" warn ":  slog.LevelWarn,
		"error":   slog.LevelError,
		"off":     LevelOff,
	}
	for raw, want := range tests {
		got, err := ParseLevel(raw)
		require.NoError(t, err, raw)
		assert.Equal(t, want, got, raw)
	}

	_, err := ParseLevel("trace")
	assert.Error(t, err)
}
