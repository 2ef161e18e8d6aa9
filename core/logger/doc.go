// Package logger provides a structured logging facility based on Zap.
//
// It offers a configured logger instance that supports different environments (development vs production)
// and a Bridge that turns the process log into events for observers.
//
// # Bridge
//
// A Bridge is a zapcore.Core attached next to the console core with Attach. Every record at or
// above the settings log_level becomes an events.LogLine formatted as
//
//	2024-01-02 15:04:05,000 - INFO - Server started on port 21
//
// When save_log is enabled the same line is appended to a rotating file (ftp_server.log next to
// the settings file) by a background writer. Configure changes level and file in place after a
// settings change; the bridge itself is built once per process.
//
// # Context Awareness
//
// The WithRayID helper extracts the RayID from a Fiber context and attaches it to the
// log entry, ensuring that all logs related to a specific admin API request can be correlated.
//
// # Usage
//
//	base, _ := logger.New(&cfg.Log)
//	bridge := logger.NewBridge(bus, logger.BridgeOptions{Path: "ftp_server.log"})
//	log := logger.Attach(base, bridge)
//	_ = bridge.Configure("INFO", true)
//	log.Info("Server started")
package logger
