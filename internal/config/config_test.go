package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// clearEnv blanks every override so the host environment cannot leak in.
func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range []string{"DELIBERATE_LOG_LEVEL", "DELIBERATE_JOURNAL", "DELIBERATE_DATA_DIR"} {
		t.Setenv(k, "")
	}
}

// --- Defaults ---

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	assert.Equal(t, "deliberate-thinking", cfg.Server.Name)
	assert.True(t, cfg.Server.Instructions)
	assert.Equal(t, "info", cfg.Logging.Level)
	assert.False(t, cfg.Journal.Enabled)
	assert.NotEmpty(t, cfg.Journal.DataDir)
	assert.NoError(t, cfg.Validate())
}

func TestDefaultPath(t *testing.T) {
	assert.Equal(t, "config.yaml", filepath.Base(DefaultPath()))
	assert.Equal(t, DefaultDir(), filepath.Dir(DefaultPath()))
}

// --- Load ---

func TestLoad_MissingFileReturnsDefaults(t *testing.T) {
	clearEnv(t)

	cfg, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.NoError(t, err)
	assert.Equal(t, DefaultConfig(), cfg)
}

func TestLoad_FileOverridesDefaults(t *testing.T) {
	clearEnv(t)
	path := filepath.Join(t.TempDir(), "config.yaml")
	body := `
server:
  name: team-room
logging:
  level: debug
journal:
  enabled: true
  data_dir: /tmp/journal
`
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "team-room", cfg.Server.Name)
	assert.True(t, cfg.Server.Instructions, "unset keys keep their defaults")
	assert.Equal(t, "debug", cfg.Logging.Level)
	assert.True(t, cfg.Journal.Enabled)
	assert.Equal(t, "/tmp/journal", cfg.Journal.DataDir)
}

func TestLoad_MalformedFile(t *testing.T) {
	clearEnv(t)
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("server: [unclosed"), 0o644))

	_, err := Load(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to parse config")
}

// --- Env overrides ---

func TestEnvOverrides(t *testing.T) {
	t.Run("log level", func(t *testing.T) {
		clearEnv(t)
		t.Setenv("DELIBERATE_LOG_LEVEL", "warn")

		cfg := DefaultConfig()
		cfg.applyEnvOverrides()
		assert.Equal(t, "warn", cfg.Logging.Level)
	})

	t.Run("journal toggle", func(t *testing.T) {
		clearEnv(t)
		t.Setenv("DELIBERATE_JOURNAL", "true")

		cfg := DefaultConfig()
		cfg.applyEnvOverrides()
		assert.True(t, cfg.Journal.Enabled)
	})

	t.Run("unparseable journal toggle is ignored", func(t *testing.T) {
		clearEnv(t)
		t.Setenv("DELIBERATE_JOURNAL", "sometimes")

		cfg := DefaultConfig()
		cfg.applyEnvOverrides()
		assert.False(t, cfg.Journal.Enabled)
	})

	t.Run("data dir", func(t *testing.T) {
		clearEnv(t)
		t.Setenv("DELIBERATE_DATA_DIR", "/srv/deliberate")

		cfg := DefaultConfig()
		cfg.applyEnvOverrides()
		assert.Equal(t, "/srv/deliberate", cfg.Journal.DataDir)
	})

	t.Run("env beats file", func(t *testing.T) {
		clearEnv(t)
		t.Setenv("DELIBERATE_LOG_LEVEL", "error")
		path := filepath.Join(t.TempDir(), "config.yaml")
		require.NoError(t, os.WriteFile(path, []byte("logging:\n  level: debug\n"), 0o644))

		cfg, err := Load(path)
		require.NoError(t, err)
		assert.Equal(t, "error", cfg.Logging.Level)
	})
}

// --- Save ---

func TestSave_RoundTrip(t *testing.T) {
	clearEnv(t)
	path := filepath.Join(t.TempDir(), "nested", "config.yaml")

	cfg := DefaultConfig()
	cfg.Logging.Level = "debug"
	cfg.Journal.Enabled = true
	require.NoError(t, cfg.Save(path))

	loaded, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, cfg, loaded)
}

// --- Validate ---

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(c *Config)
		wantErr string
	}{
		{"empty name", func(c *Config) { c.Server.Name = "" }, "server name"},
		{"bad level", func(c *Config) { c.Logging.Level = "loud" }, "invalid log level"},
		{"journal without dir", func(c *Config) {
			c.Journal.Enabled = true
			c.Journal.DataDir = ""
		}, "data_dir"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(cfg)
			err := cfg.Validate()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}
