package server

import "time"

// Config holds process-level settings of the FTP server that are not user-editable.
type Config struct {
	// Host is the address the server binds to.
	Host string `mapstructure:"host" default:"0.0.0.0"`
	// StopTimeoutMS bounds how long Stop waits for the worker to terminate.
	StopTimeoutMS int `mapstructure:"stop_timeout_ms" default:"2000"`
	// Banner is sent to clients when they connect.
	Banner string `mapstructure:"banner" default:"TransEase FTP server ready."`
}

const (
	DefaultHost        = "0.0.0.0"
	DefaultStopTimeout = 2 * time.Second
)

// StopTimeout returns the configured stop bound, defaulting to two seconds.
func (c Config) StopTimeout() time.Duration {
	if c.StopTimeoutMS <= 0 {
		return DefaultStopTimeout
	}
	return time.Duration(c.StopTimeoutMS) * time.Millisecond
}

// BindHost returns the configured host, defaulting to all interfaces.
func (c Config) BindHost() string {
	if c.Host == "" {
		return DefaultHost
	}
	return c.Host
}
