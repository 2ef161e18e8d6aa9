// Package history records every server instance in a database.
//
// A Recorder follows the event bus: Started creates a row from the supervisor's
// instance description, ConnectionCount raises the peak, Error keeps the last failure
// and Stopped closes the row. Database failures are logged and never reach the
// supervisor.
//
// # Components
//
//   - Session: the gorm model, stored in ftp_sessions.
//   - Recorder: the bus subscriber writing sessions.
//   - Service: migration and listing.
//   - Handler: GET /history?limit=N.
//
// The feature is enabled only when the database connection succeeded.
package history
