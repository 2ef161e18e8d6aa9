// Package logarchive uploads the durable FTP log to object storage.
//
// The log file written while save_log is enabled rotates through lumberjack; Archive
// uploads the live file and every rotated backup to
// <prefix>/<hostname>/<timestamp>-<file name> in the configured bucket, creating the
// bucket when it does not exist.
//
// # HTTP Endpoints
//
//   - POST /logs/archive : upload the current log files.
//   - GET /logs/archives : list this host's archives.
//   - GET /logs/archives/{key} : download an archive.
//   - DELETE /logs/archives/{key} : remove an archive.
//
// The same upload is available as `transease logs archive`.
package logarchive
