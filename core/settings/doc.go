// Package settings persists the user-editable server settings.
//
// Settings live in an INI file (config.ini by default) whose [general] section has a
// fixed schema: port, root_path, max_connections, timeout, encoding, log_level and
// save_log. Any other section or key is kept verbatim but never interpreted, so files
// written by newer versions survive a save.
//
// # Loading
//
// Load never fails on bad content. A missing file is created with defaults, a
// malformed file is rebuilt from defaults, missing or invalid keys are filled in, and
// an uncreatable root_path is replaced by the working directory. Every repair is
// logged and written back.
//
// # Saving
//
// Save validates the whole [general] section after applying the updates and commits
// through a temporary file and rename. A rejected save leaves both the file and the
// in-memory snapshot untouched:
//
//	store, err := settings.Open(afero.NewOsFs(), cfg.Settings, logger)
//	ok := store.Save(settings.Updates{"general": {"port": 2121}})
//	current := store.Snapshot()
//
// Update performs the same operation but returns a *ValidationError explaining the
// rejected key.
package settings
