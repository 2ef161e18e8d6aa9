// Package config provides process configuration for TransEase.
//
// It uses Viper to read environment variables, optionally seeded from a .env file
// through godotenv. Defaults come from the `default` struct tags of each section.
//
// This is the bootstrap layer only. The user-editable FTP settings (port, root
// directory, encoding and so on) are kept in the INI settings file owned by
// core/settings; Settings.Path says where it lives.
//
// # Configuration Structure
//
//   - Server: bind host, stop timeout and banner of the FTP server
//   - Settings: settings file and durable log file names
//   - Log: console level and format, log file rotation
//   - Admin: HTTP admin API listener and API key
//   - Database: optional session history database (sqlite or mysql)
//   - Storage: optional S3/MinIO bucket for log archives
//
// # Usage
//
//	cfg, err := config.LoadConfig(".")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Println(cfg.Settings.Path)
package config
