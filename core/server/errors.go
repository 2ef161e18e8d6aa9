package server

import "errors"

var (
	// ErrBind is returned when the engine cannot bind its listening socket.
	ErrBind = errors.New("failed to bind server")
	// ErrRootUnavailable is returned when the authorization root cannot be created.
	ErrRootUnavailable = errors.New("root directory unavailable")
	// ErrWorker wraps failures and panics of a running worker.
	ErrWorker = errors.New("server worker failed")
	// ErrShutdownTimeout is returned by Stop when the worker outlives the stop bound.
	ErrShutdownTimeout = errors.New("server did not stop within timeout")
)
