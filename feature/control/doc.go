// Package control implements the server control feature of the admin API.
//
// It is the HTTP counterpart of the desktop panel: a start/stop toggle, the settings
// form, the root directory picker and the live log view.
//
// # Components
//
//   - Service: drives the supervisor and the settings store, and reapplies log
//     settings to the log bridge after every save.
//   - LogBuffer: the bounded log view fed from the event bus. It keeps the last 300
//     lines once it grows past 500.
//   - Handler: the Fiber routes, including a server-sent events stream.
//   - Loader: registers the feature with the application.
//
// # HTTP Endpoints
//
//   - GET /server : state, connection count and running instance.
//   - POST /server/start, /server/stop, /server/toggle : lifecycle control.
//   - GET /server/logs, DELETE /server/logs : read or clear the log view.
//   - GET /settings, PUT /settings : read or update settings. Updates report
//     restart_required while the server is running.
//   - PUT /settings/root : change the shared directory.
//   - GET /events : server-sent events, optionally filtered with ?kinds=.
package control
