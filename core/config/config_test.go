package config_test

import (
	"os"
	"path/filepath"
	"testing"

	"transease/core/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfig_Defaults(t *testing.T) {
	cfg, err := config.LoadConfig(t.TempDir())
	require.NoError(t, err)

	assert.Equal(t, "0.0.0.0", cfg.Server.Host)
	assert.Equal(t, 2000, cfg.Server.StopTimeoutMS)
	assert.Equal(t, "config.ini", cfg.Settings.Path)
	assert.Equal(t, "ftp_server.log", cfg.Settings.LogFile)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, "console", cfg.Log.Format)
	assert.Equal(t, 10, cfg.Log.MaxSizeMB)
	assert.True(t, cfg.Admin.Enabled)
	assert.Equal(t, "8080", cfg.Admin.Port)
	assert.False(t, cfg.Database.Enabled)
	assert.Equal(t, "sqlite", cfg.Database.Driver)
	assert.False(t, cfg.Storage.Enabled)
}

func TestLoadConfig_Environment(t *testing.T) {
	t.Setenv("SETTINGS_PATH", "/etc/transease/config.ini")
	t.Setenv("SERVER_STOP_TIMEOUT_MS", "500")
	t.Setenv("ADMIN_API_KEY", "secret")

	cfg, err := config.LoadConfig(t.TempDir())
	require.NoError(t, err)

	assert.Equal(t, "/etc/transease/config.ini", cfg.Settings.Path)
	assert.Equal(t, 500, cfg.Server.StopTimeoutMS)
	assert.Equal(t, "secret", cfg.Admin.ApiKey)
}

func TestLoadConfig_DotEnv(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".env"), []byte("LOG_LEVEL=debug\nADMIN_PORT=9090\n"), 0o644))
	t.Cleanup(func() {
		os.Unsetenv("LOG_LEVEL")
		os.Unsetenv("ADMIN_PORT")
	})

	cfg, err := config.LoadConfig(dir)
	require.NoError(t, err)

	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, "9090", cfg.Admin.Port)
}
