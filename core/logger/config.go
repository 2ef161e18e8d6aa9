package logger

// Config holds configuration for the logger.
type Config struct {
	// Level is the console log level (debug, info, warn, error).
	Level string `mapstructure:"level" default:"info"`
	// Format is the console encoding (json or console).
	Format string `mapstructure:"format" default:"console"`
	// MaxSizeMB is the size at which the durable log file is rotated.
	MaxSizeMB int `mapstructure:"max_size_mb" default:"10"`
	// MaxBackups is the number of rotated log files kept.
	MaxBackups int `mapstructure:"max_backups" default:"5"`
	// MaxAgeDays is the number of days rotated log files are kept.
	MaxAgeDays int `mapstructure:"max_age_days" default:"30"`
}
