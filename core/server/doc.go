// Package server supervises the FTP server worker.
//
// A Supervisor owns at most one running Engine at a time. Each start reads a fresh
// settings snapshot, prepares the root directory, builds an Engine through an
// EngineFactory and waits for it to bind before reporting Running. The worker runs on
// its own goroutine; panics and unexpected exits are converted into Error events and
// the supervisor returns to Stopped.
//
// # States
//
// Stopped, Starting, Running, Stopping and Failed. Failed is transient: every failure
// path ends in Stopped. State queries never block behind a transition.
//
// # Events
//
// Start emits Started, a "Server started on port N" Status and ConnectionCount(0).
// Stop emits Stopped and a "Server stopped" Status. When the worker does not terminate
// within the stop timeout (two seconds by default) Stop emits an Error, detaches the
// worker and still ends in Stopped.
//
// # Usage
//
//	sup := server.New(cfg.Server, store, bus, ftp.NewEngine, server.WithLogger(log))
//	if _, err := sup.Start(); err != nil {
//		log.Error("Server did not start", zap.Error(err))
//	}
//	defer sup.Stop()
package server
