package config

import (
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLocator(t *testing.T) {
	locator, err := ParseLocator("sqlite:inventory_v2.db")
	require.NoError(t, err)
	assert.Equal(t, "sqlite", locator.Scheme)
	assert.Equal(t, "inventory_v2.db", locator.Name)
	assert.Equal(t, "sqlite:inventory_v2.db", locator.String())

	for _, raw := range []string{"", "inventory.db", "sqlite:", ":inventory.db", "postgres:inventory"} {
		_, err := ParseLocator(raw)
		assert.Error(t, err, raw)
	}
}

func TestLocatorPath(t *testing.T) {
	dataDir := t.TempDir()

	relative, err := ParseLocator("sqlite:inventory_v2.db")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dataDir, "inventory_v2.db"), relative.Path(dataDir))

	abs := filepath.Join(t.TempDir(), "elsewhere.db")
	absolute, err := ParseLocator("sqlite:" + abs)
	require.NoError(t, err)
	assert.Equal(t, abs, absolute.Path(dataDir))

	memory, err := ParseLocator("sqlite::memory:")
	require.NoError(t, err)
	assert.True(t, memory.InMemory())
	assert.Equal(t, ":memory:", memory.Path(dataDir))
}

func TestDatabaseConfigDSN(t *testing.T) {
	cfg := DatabaseConfig{Locator: DefaultLocator, DataDir: "/var/lib/pos", BusyTimeout: 2500}

	dsn, err := cfg.DSN()
	require.NoError(t, err)

	path, query, ok := strings.Cut(dsn, "?")
	require.True(t, ok)
	assert.Equal(t, filepath.Join("/var/lib/pos", "inventory_v2.db"), path)
	assert.Contains(t, query, "foreign_keys%281%29")
	assert.Contains(t, query, "busy_timeout%282500%29")
	assert.Contains(t, query, "journal_mode%28WAL%29")
	assert.Contains(t, query, "_txlock=immediate")

	cfg.Locator = "sqlite::memory:"
	dsn, err = cfg.DSN()
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(dsn, ":memory:?"))
	assert.NotContains(t, dsn, "journal_mode")
}

func TestLoadDefaults(t *testing.T) {
	t.Setenv("DATA_DIR", "/tmp/pos-data")
	t.Setenv("DB_LOCATOR", "")
	t.Setenv("CORS_ALLOWED_ORIGINS", "http://localhost:1420, tauri://localhost ,")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, DefaultLocator, cfg.Database.Locator)
	assert.Equal(t, "/tmp/pos-data", cfg.Database.DataDir)
	assert.Equal(t, 1, cfg.Database.MaxOpenConns)
	assert.Equal(t, filepath.Join("/tmp/pos-data", "backups"), cfg.Backup.Dir)
	assert.Equal(t, []string{"http://localhost:1420", "tauri://localhost"}, cfg.CORS.AllowedOrigins)
}

func TestValidate(t *testing.T) {
	t.Setenv("DB_LOCATOR", "mysql:inventory")
	_, err := Load()
	assert.Error(t, err)

	t.Setenv("DB_LOCATOR", DefaultLocator)
	t.Setenv("AWS_ACCESS_KEY_ID", "AKIAEXAMPLE")
	t.Setenv("AWS_S3_BUCKET", "")
	_, err = Load()
	assert.EqualError(t, err, "AWS_S3_BUCKET is required when AWS credentials are set")

	t.Setenv("AWS_S3_BUCKET", "pos-backups")
	_, err = Load()
	assert.NoError(t, err)
}
