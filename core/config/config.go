package config

import (
	"reflect"
	"strings"

	"transease/core/admin"
	"transease/core/database"
	"transease/core/logger"
	"transease/core/server"
	"transease/core/settings"
	"transease/core/storage"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds the process configuration. User-editable FTP settings live in the
// settings file located by Settings.Path, not here.
type Config struct {
	// Server holds the FTP supervisor settings that are not user-editable.
	Server server.Config `mapstructure:"server"`
	// Settings locates the persisted settings file.
	Settings settings.Config `mapstructure:"settings"`
	// Log holds configuration for the console logger and the durable log file.
	Log logger.Config `mapstructure:"log"`
	// Admin holds configuration for the HTTP admin API.
	Admin admin.Config `mapstructure:"admin"`
	// Database holds configuration for the session history database.
	Database database.Config `mapstructure:"database"`
	// Storage holds configuration for the log archive object storage.
	Storage storage.Config `mapstructure:"storage"`
}

// LoadConfig loads configuration from environment variables and a .env file in path.
func LoadConfig(path string) (*Config, error) {
	envPath := path + "/.env"
	if path == "." {
		envPath = ".env"
	}

	// Missing .env is fine outside development.
	_ = godotenv.Overload(envPath)

	v := viper.New()

	bindValues(v, Config{}, "")

	// SETTINGS_PATH -> settings.path
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, err
	}

	return &config, nil
}

// bindValues registers every mapstructure key with its 'default' tag so AutomaticEnv
// can resolve it.
func bindValues(v *viper.Viper, iface any, prefix string) {
	t := reflect.TypeOf(iface)

	if t.Kind() == reflect.Ptr {
		t = t.Elem()
	}

	for i := 0; i < t.NumField(); i++ {
		field := t.Field(i)
		tag := field.Tag.Get("mapstructure")

		if tag == "" {
			continue
		}

		key := tag
		if prefix != "" {
			key = prefix + "." + tag
		}

		if field.Type.Kind() == reflect.Struct {
			bindValues(v, reflect.New(field.Type).Elem().Interface(), key)
			continue
		}

		// Set even when empty to register the key for AutomaticEnv.
		v.SetDefault(key, field.Tag.Get("default"))
	}
}
