// Package database handles the optional session history database.
//
// It wraps GORM and opens either a sqlite file (the default, no server needed) or a
// MySQL database from the application configuration.
//
// # Connect
//
// Connect builds the dialector for the configured driver, keeps GORM logging silent
// and pings the database before returning. Sqlite pools are limited to one connection
// so ":memory:" databases behave as a single database.
//
// # Schema Inspection
//
// GetTableColumns and MissingColumns read the live table definition. The history
// feature uses them after migration to report tables created by hand that lack columns.
//
// # Usage
//
//	db, err := database.Connect(cfg.Database)
//	if err != nil {
//	    logger.Warn("History database unavailable", zap.Error(err))
//	}
package database
