package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, ":8080", cfg.Server.Address)
	assert.Equal(t, 10*time.Second, cfg.Server.ShutdownTimeout)
	assert.Equal(t, "info", cfg.Logging.Level)
	assert.Equal(t, "console", cfg.Logging.Format)
	assert.Empty(t, cfg.Database.URL)
	assert.True(t, cfg.Room.JournalEnabled)
}

func TestLoadFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
server:
  address: ":9100"
  shutdown_timeout: 30s
logging:
  level: debug
  format: json
database:
  url: postgres://localhost:5432/nexus
room:
  journal_enabled: false
`), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, ":9100", cfg.Server.Address)
	assert.Equal(t, 30*time.Second, cfg.Server.ShutdownTimeout)
	assert.Equal(t, "debug", cfg.Logging.Level)
	assert.Equal(t, "json", cfg.Logging.Format)
	assert.Equal(t, "postgres://localhost:5432/nexus", cfg.Database.URL)
	assert.False(t, cfg.Room.JournalEnabled)
}

func TestLoadMissingFileUsesDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	require.NoError(t, err)
	assert.Equal(t, ":8080", cfg.Server.Address)
}

func TestEnvOverrides(t *testing.T) {
	t.Setenv("NEXUS_SERVER_ADDRESS", ":7777")
	t.Setenv("NEXUS_LOGGING_LEVEL", "warn")

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, ":7777", cfg.Server.Address)
	assert.Equal(t, "warn", cfg.Logging.Level)
}

func TestValidationRejectsBadValues(t *testing.T) {
	t.Setenv("NEXUS_LOGGING_LEVEL", "loud")
	_, err := Load("")
	assert.Error(t, err)
}

func TestValidationRejectsBadFormat(t *testing.T) {
	t.Setenv("NEXUS_LOGGING_FORMAT", "xml")
	_, err := Load("")
	assert.Error(t, err)
}
