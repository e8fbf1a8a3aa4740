package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_DefaultsWithSeedFile(t *testing.T) {
	t.Setenv("PROCURA_CATALOG_SEED_FILE", "testdata/catalog.json")

	cfg, err := LoadFrom(t.TempDir())
	require.NoError(t, err)

	assert.Equal(t, "procura", cfg.App.Name)
	assert.Equal(t, "development", cfg.App.Env)
	assert.Equal(t, "8080", cfg.App.Port)
	assert.Equal(t, "console", cfg.Log.Format)
	assert.Equal(t, 30*time.Second, cfg.HTTP.ShutdownTimeout)
	assert.Equal(t, "catalog_changed", cfg.Catalog.NotifyChannel)
	assert.Equal(t, "admin", cfg.JWT.AdminRole)
	assert.NotEmpty(t, cfg.JWT.Secret)
	assert.False(t, cfg.Database.Enabled())
}

func TestLoad_RequiresCatalogSource(t *testing.T) {
	_, err := LoadFrom(t.TempDir())
	assert.Error(t, err)
}

func TestLoad_FileAndEnvOverride(t *testing.T) {
	dir := t.TempDir()
	toml := `
[app]
env = "production"
port = "9090"

[database]
url = "postgres://procura@localhost:5432/procura"
max_conns = 20

[catalog]
refresh_interval = "5m"

[jwt]
secret = "0123456789abcdef0123456789abcdef"
`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.toml"), []byte(toml), 0o600))
	t.Setenv("PROCURA_APP_PORT", "7070")

	cfg, err := LoadFrom(dir)
	require.NoError(t, err)

	assert.Equal(t, "production", cfg.App.Env)
	assert.Equal(t, "7070", cfg.App.Port)
	assert.Equal(t, "json", cfg.Log.Format)
	assert.True(t, cfg.Database.Enabled())
	assert.Equal(t, int32(20), cfg.Database.MaxConns)
	assert.Equal(t, 5*time.Minute, cfg.Catalog.RefreshInterval)
}

func TestLoad_ProductionNeedsStrongSecret(t *testing.T) {
	t.Setenv("PROCURA_APP_ENV", "production")
	t.Setenv("PROCURA_DATABASE_URL", "postgres://localhost/procura")
	t.Setenv("PROCURA_JWT_SECRET", "short")

	_, err := LoadFrom(t.TempDir())
	assert.Error(t, err)
}

func TestLoad_RejectsUnknownEnv(t *testing.T) {
	t.Setenv("PROCURA_APP_ENV", "staging")
	t.Setenv("PROCURA_CATALOG_SEED_FILE", "seed.json")

	_, err := LoadFrom(t.TempDir())
	assert.Error(t, err)
}
