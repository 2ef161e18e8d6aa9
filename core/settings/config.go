package settings

// Config locates the persisted settings file.
type Config struct {
	// Path is the settings file, relative to the working directory unless absolute.
	Path string `mapstructure:"path" default:"config.ini"`
	// LogFile is the name of the durable log file written next to the settings file.
	LogFile string `mapstructure:"log_file" default:"ftp_server.log"`
}
