package admin

// Config holds configuration for the HTTP admin API.
type Config struct {
	// Enabled starts the admin API alongside the FTP supervisor.
	Enabled bool `mapstructure:"enabled" default:"true"`
	// Host is the interface the admin API listens on.
	Host string `mapstructure:"host" default:"127.0.0.1"`
	// Port is the admin API port.
	Port string `mapstructure:"port" default:"8080"`
	// ApiKey protects every admin route except the documentation. Empty disables auth.
	ApiKey string `mapstructure:"api_key" default:""`
}

// Addr returns the listen address.
func (c Config) Addr() string {
	return c.Host + ":" + c.Port
}
