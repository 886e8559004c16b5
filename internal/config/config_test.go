package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfigDefaults(t *testing.T) {
	cfg, err := LoadConfig("")
	require.NoError(t, err)

	assert.Equal(t, "8081", cfg.Port)
	assert.Equal(t, StorePostgres, cfg.StoreDriver)
	assert.EqualValues(t, 1, cfg.DefaultPerformerID)
	assert.EqualValues(t, 25, cfg.DBMaxConns)
	assert.Equal(t, 5, cfg.LoginMaxAttempts)
	assert.Equal(t, 15*time.Minute, cfg.LoginLockout)
	assert.False(t, cfg.SeedDemoData)
}

func TestLoadConfigFromEnv(t *testing.T) {
	t.Setenv("PORT", "9000")
	t.Setenv("STORE_DRIVER", "Memory")
	t.Setenv("DEFAULT_PERFORMER_ID", "7")
	t.Setenv("SEED_DEMO_DATA", "true")
	t.Setenv("LOGIN_LOCKOUT", "30s")

	cfg, err := LoadConfig("")
	require.NoError(t, err)
	assert.Equal(t, "9000", cfg.Port)
	assert.Equal(t, StoreMemory, cfg.StoreDriver)
	assert.EqualValues(t, 7, cfg.DefaultPerformerID)
	assert.True(t, cfg.SeedDemoData)
	assert.Equal(t, 30*time.Second, cfg.LoginLockout)
}

func TestLoadConfigFileUnderEnv(t *testing.T) {
	path := filepath.Join(t.TempDir(), "eightd.yaml")
	require.NoError(t, os.WriteFile(path, []byte("PORT: \"7000\"\nLOG_LEVEL: debug\n"), 0o600))
	t.Setenv("LOG_LEVEL", "warn")

	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, "7000", cfg.Port)
	assert.Equal(t, "warn", cfg.LogLevel)
}

func TestLoadConfigRejectsUnknownDriver(t *testing.T) {
	t.Setenv("STORE_DRIVER", "sqlite")

	_, err := LoadConfig("")
	assert.ErrorContains(t, err, "unknown STORE_DRIVER")
}
