package settings

import (
	"path/filepath"
	"strconv"
	"strings"

	"transease/core/codec"
	"transease/core/utils"
)

// SectionGeneral holds every recognized key.
const SectionGeneral = "general"

const (
	KeyPort           = "port"
	KeyRootPath       = "root_path"
	KeyMaxConnections = "max_connections"
	KeyTimeout        = "timeout"
	KeyEncoding       = "encoding"
	KeyLogLevel       = "log_level"
	KeySaveLog        = "save_log"
)

// Keys lists the recognized keys of the general section in validation order.
var Keys = []string{
	KeyPort, KeyRootPath, KeyMaxConnections, KeyTimeout, KeyEncoding, KeyLogLevel, KeySaveLog,
}

// LogLevels are the accepted log_level values, most verbose first.
var LogLevels = []string{"DEBUG", "INFO", "WARNING", "ERROR", "CRITICAL"}

// Settings is a validated view of the general section.
type Settings struct {
	Port           int    `json:"port" yaml:"port"`
	RootPath       string `json:"root_path" yaml:"root_path"`
	MaxConnections int    `json:"max_connections" yaml:"max_connections"`
	Timeout        int    `json:"timeout" yaml:"timeout"`
	Encoding       string `json:"encoding" yaml:"encoding"`
	LogLevel       string `json:"log_level" yaml:"log_level"`
	SaveLog        bool   `json:"save_log" yaml:"save_log"`
}

// Defaults returns the schema defaults with root as the root directory.
func Defaults(root string) Settings {
	return Settings{
		Port:           21,
		RootPath:       root,
		MaxConnections: 50,
		Timeout:        300,
		Encoding:       codec.GB18030,
		LogLevel:       "INFO",
		SaveLog:        false,
	}
}

// Values renders s as settings file text, keyed like the general section.
func (s Settings) Values() map[string]string {
	return map[string]string{
		KeyPort:           strconv.Itoa(s.Port),
		KeyRootPath:       s.RootPath,
		KeyMaxConnections: strconv.Itoa(s.MaxConnections),
		KeyTimeout:        strconv.Itoa(s.Timeout),
		KeyEncoding:       s.Encoding,
		KeyLogLevel:       s.LogLevel,
		KeySaveLog:        utils.FormatBool(s.SaveLog),
	}
}

// IsKnown reports whether key belongs to the recognized general schema.
func IsKnown(key string) bool {
	for _, k := range Keys {
		if k == key {
			return true
		}
	}
	return false
}

// normalize checks raw against the schema for key and returns its canonical text.
func normalize(key, raw string) (string, *ValidationError) {
	value := strings.TrimSpace(raw)
	invalid := func(reason string) (string, *ValidationError) {
		return "", &ValidationError{Key: key, Value: raw, Reason: reason}
	}

	switch key {
	case KeyPort:
		n, err := strconv.Atoi(value)
		if err != nil {
			return invalid("must be an integer")
		}
		if n < 1 || n > 65535 {
			return invalid("must be between 1 and 65535")
		}
		return strconv.Itoa(n), nil
	case KeyMaxConnections, KeyTimeout:
		n, err := strconv.Atoi(value)
		if err != nil {
			return invalid("must be an integer")
		}
		if n < 1 {
			return invalid("must be at least 1")
		}
		return strconv.Itoa(n), nil
	case KeyEncoding:
		name, ok := codec.Canonical(value)
		if !ok {
			return invalid("must be one of " + strings.Join(codec.Supported(), ", "))
		}
		return name, nil
	case KeyLogLevel:
		level := strings.ToUpper(value)
		if level == "WARN" {
			level = "WARNING"
		}
		for _, l := range LogLevels {
			if l == level {
				return level, nil
			}
		}
		return invalid("must be one of " + strings.Join(LogLevels, ", "))
	case KeySaveLog:
		b, err := utils.ParseBool(value)
		if err != nil {
			return invalid("must be a boolean")
		}
		return utils.FormatBool(b), nil
	case KeyRootPath:
		if value == "" {
			return invalid("must not be empty")
		}
		abs, err := filepath.Abs(value)
		if err != nil {
			return invalid("cannot be made absolute")
		}
		return abs, nil
	}
	return value, nil
}

// fromValues builds Settings from already normalized text.
func fromValues(v map[string]string) Settings {
	return Settings{
		Port:           utils.ToInt(v[KeyPort]),
		RootPath:       v[KeyRootPath],
		MaxConnections: utils.ToInt(v[KeyMaxConnections]),
		Timeout:        utils.ToInt(v[KeyTimeout]),
		Encoding:       v[KeyEncoding],
		LogLevel:       v[KeyLogLevel],
		SaveLog:        utils.ToBool(v[KeySaveLog]),
	}
}

// typed converts normalized text to the Go type Get returns for key.
func typed(key, value string) any {
	switch key {
	case KeyPort, KeyMaxConnections, KeyTimeout:
		return utils.ToInt(value)
	case KeySaveLog:
		return utils.ToBool(value)
	default:
		return value
	}
}
