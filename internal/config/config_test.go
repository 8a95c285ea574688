package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tracklet-backend/internal/domain"
)

const testYAML = `
server:
  port: 9000
  time_zone: Europe/Berlin
database:
  host: db.internal
  user: tracklet
  database: tracklet
jwt:
  secret: 0123456789abcdef0123456789abcdef
modules:
  enabled:
    sales: true
    rentals: false
`

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestLoad(t *testing.T) {
	t.Run("Success with defaults", func(t *testing.T) {
		cfg, err := Load(writeConfig(t, testYAML))
		require.NoError(t, err)

		assert.Equal(t, 9000, cfg.Server.Port)
		assert.Equal(t, 5432, cfg.Database.Port)
		assert.Equal(t, "disable", cfg.Database.SSLMode)
		assert.Equal(t, "info", cfg.Log.Level)
		assert.Equal(t, "0 */15 * * * *", cfg.Scheduler.MarkOverdueRentals)
		assert.Equal(t, "Europe/Berlin", cfg.Location().String())
		assert.Equal(t, "postgres://tracklet:@db.internal:5432/tracklet?sslmode=disable", cfg.GetDatabaseConnectionString())
	})

	t.Run("Environment overrides file", func(t *testing.T) {
		t.Setenv("DB_HOST", "override.internal")
		t.Setenv("LOG_LEVEL", "debug")
		t.Setenv("DISABLED_MODULES", "events, stock")

		cfg, err := Load(writeConfig(t, testYAML))
		require.NoError(t, err)
		assert.Equal(t, "override.internal", cfg.Database.Host)
		assert.Equal(t, "debug", cfg.Log.Level)

		modules := cfg.EnabledModules()
		assert.False(t, modules.Enabled(domain.ModuleEvents))
		assert.False(t, modules.Enabled(domain.ModuleStock))
	})

	t.Run("Module overlay", func(t *testing.T) {
		cfg, err := Load(writeConfig(t, testYAML))
		require.NoError(t, err)

		modules := cfg.EnabledModules()
		assert.True(t, modules.Enabled(domain.ModuleSales))
		assert.False(t, modules.Enabled(domain.ModuleRentals))
		assert.True(t, modules.Enabled(domain.ModuleEvents))
		assert.False(t, modules.Enabled(domain.ModulePurchasing))
	})

	t.Run("Missing file", func(t *testing.T) {
		_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "failed to read config file")
	})

	t.Run("Short secret", func(t *testing.T) {
		t.Setenv("JWT_SECRET", "short")
		_, err := Load(writeConfig(t, testYAML))
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "at least 32 characters")
	})

	t.Run("Unknown module", func(t *testing.T) {
		t.Setenv("DISABLED_MODULES", "warehouse")
		_, err := Load(writeConfig(t, testYAML))
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "unknown module")
	})

	t.Run("SendGrid needs a sender", func(t *testing.T) {
		t.Setenv("SENDGRID_API_KEY", "SG.key")
		_, err := Load(writeConfig(t, testYAML))
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "from address")
	})
}
