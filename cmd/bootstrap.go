package cmd

import (
	"fmt"
	"path/filepath"

	"transease/core/config"
	"transease/core/logger"
	"transease/core/settings"

	"github.com/spf13/afero"
	"go.uber.org/zap"
)

// loadConfig loads the process configuration and a console logger for one-shot commands.
func loadConfig() (*config.Config, *zap.Logger, error) {
	cfg, err := config.LoadConfig(envDir)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load config: %w", err)
	}
	logg, err := logger.New(&cfg.Log)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to initialize logger: %w", err)
	}
	return cfg, logg, nil
}

// openStore opens the settings file on the OS file system, creating it when missing.
func openStore(cfg settings.Config, logg *zap.Logger) (*settings.Store, error) {
	store, err := settings.Open(afero.NewOsFs(), cfg, logg.Named("settings"))
	if err != nil {
		return nil, fmt.Errorf("failed to open settings: %w", err)
	}
	return store, nil
}

// logFilePath returns the durable log file, which lives next to the settings file.
func logFilePath(cfg settings.Config) (string, error) {
	path := cfg.Path
	if path == "" {
		path = "config.ini"
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		return "", fmt.Errorf("failed to resolve settings path: %w", err)
	}
	name := cfg.LogFile
	if name == "" {
		name = "ftp_server.log"
	}
	return filepath.Join(filepath.Dir(abs), name), nil
}
