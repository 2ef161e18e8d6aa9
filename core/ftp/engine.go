package ftp

import (
	"crypto/tls"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"

	"transease/core/server"

	ftpserver "github.com/fclairamb/ftpserverlib"
	logzap "github.com/fclairamb/go-log/zap"
	"github.com/spf13/afero"
	"go.uber.org/zap"
)

// ConnectionTimeout is the data connection timeout in seconds.
const ConnectionTimeout = 30

var (
	// ErrTooManyConnections is returned to clients beyond the connection limit.
	ErrTooManyConnections = errors.New("too many connections")
	// ErrAnonymousOnly is returned when a client logs in with a non-anonymous user.
	ErrAnonymousOnly = errors.New("only anonymous login is allowed")
	// ErrNoTLS is returned when a client asks for TLS.
	ErrNoTLS = errors.New("TLS is not supported")
	// ErrStopped is returned by Bind once StopAll has been called.
	ErrStopped = errors.New("engine stopped")
)

// Engine serves one directory tree over FTP with ftpserverlib. It implements both
// server.Engine and ftpserverlib's MainDriver.
type Engine struct {
	handler server.Handler
	fs      afero.Fs
	logger  *zap.Logger

	max     atomic.Int64
	stopped atomic.Bool
	addr    string

	// mu guards srv, listening and clients.
	mu        sync.Mutex
	srv       *ftpserver.FtpServer
	listening bool
	clients   map[uint32]ftpserver.ClientContext
}

// NewEngine is a server.EngineFactory serving the handler root from the OS file system.
func NewEngine(h server.Handler) (server.Engine, error) {
	return NewEngineFactory(afero.NewOsFs())(h)
}

// NewEngineFactory returns a server.EngineFactory serving handler roots from base.
func NewEngineFactory(base afero.Fs) server.EngineFactory {
	return func(h server.Handler) (server.Engine, error) {
		return newEngine(h, base)
	}
}

func newEngine(h server.Handler, base afero.Fs) (*Engine, error) {
	if h.Codec == nil {
		return nil, errors.New("handler has no codec")
	}
	if h.Authorizer.Root == "" {
		return nil, errors.New("handler has no root")
	}
	logger := h.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	root := afero.NewBasePathFs(base, h.Authorizer.Root)
	e := &Engine{
		handler: h,
		fs:      newCodecFs(newPermFs(root, h.Authorizer), h.Codec),
		logger:  logger,
		clients: make(map[uint32]ftpserver.ClientContext),
	}
	e.max.Store(1)
	return e, nil
}

// Bind opens the listening socket on addr. It fails with ErrStopped after StopAll, and
// a listener opened while StopAll ran is closed again.
func (e *Engine) Bind(addr string) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.stopped.Load() {
		return ErrStopped
	}
	e.addr = addr
	srv := ftpserver.NewFtpServer(e)
	srv.Logger = logzap.NewWrap(e.logger.Named("ftp").Sugar())
	e.srv = srv
	if err := srv.Listen(); err != nil {
		return err
	}
	if e.stopped.Load() {
		if err := srv.Stop(); err != nil {
			e.logger.Warn("Failed to close listener after stop", zap.Error(err))
		}
		return ErrStopped
	}
	e.listening = true
	return nil
}

// Addr returns the bound address, or the requested one before Bind.
func (e *Engine) Addr() string {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.listening {
		if addr := e.srv.Addr(); addr != "" {
			return addr
		}
	}
	return e.addr
}

// SetMaxConnections limits concurrent clients. Values below one are treated as one.
func (e *Engine) SetMaxConnections(n int) {
	if n < 1 {
		n = 1
	}
	e.max.Store(int64(n))
}

// Serve accepts clients until StopAll. Accept errors caused by StopAll are not reported.
func (e *Engine) Serve() error {
	e.mu.Lock()
	srv := e.srv
	if !e.listening {
		srv = nil
	}
	e.mu.Unlock()
	if srv == nil {
		return errors.New("engine is not bound")
	}
	err := srv.Serve()
	if e.stopped.Load() {
		return nil
	}
	return err
}

// StopAll disconnects every client and closes the listener.
func (e *Engine) StopAll() error {
	e.stopped.Store(true)

	e.mu.Lock()
	clients := make([]ftpserver.ClientContext, 0, len(e.clients))
	for _, cc := range e.clients {
		clients = append(clients, cc)
	}
	var srv *ftpserver.FtpServer
	if e.listening {
		srv = e.srv
	}
	e.mu.Unlock()

	var errs []error
	for _, cc := range clients {
		if err := cc.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	if srv != nil {
		if err := srv.Stop(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// Connections returns the number of connected clients.
func (e *Engine) Connections() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return len(e.clients)
}

// GetSettings implements ftpserver.MainDriver.
func (e *Engine) GetSettings() (*ftpserver.Settings, error) {
	return &ftpserver.Settings{
		ListenAddr:        e.addr,
		Banner:            e.handler.Banner,
		IdleTimeout:       int(e.handler.Timeout.Seconds()),
		ConnectionTimeout: ConnectionTimeout,
	}, nil
}

// ClientConnected implements ftpserver.MainDriver.
func (e *Engine) ClientConnected(cc ftpserver.ClientContext) (string, error) {
	e.mu.Lock()
	if int64(len(e.clients)) >= e.max.Load() {
		e.mu.Unlock()
		e.logger.Warn("Connection refused, limit reached",
			zap.Uint32("client", cc.ID()),
			zap.Stringer("remote", cc.RemoteAddr()),
			zap.Int64("max_connections", e.max.Load()))
		return "Too many connections, try again later.", ErrTooManyConnections
	}
	e.clients[cc.ID()] = cc
	n := len(e.clients)
	e.mu.Unlock()

	e.logger.Info("Client connected",
		zap.Uint32("client", cc.ID()),
		zap.Stringer("remote", cc.RemoteAddr()),
		zap.Int("connections", n))
	e.notify(n)
	return e.handler.Banner, nil
}

// ClientDisconnected implements ftpserver.MainDriver. It is also called for clients
// refused by ClientConnected, which were never counted.
func (e *Engine) ClientDisconnected(cc ftpserver.ClientContext) {
	e.mu.Lock()
	_, ok := e.clients[cc.ID()]
	delete(e.clients, cc.ID())
	n := len(e.clients)
	e.mu.Unlock()

	if !ok {
		return
	}
	e.logger.Info("Client disconnected",
		zap.Uint32("client", cc.ID()),
		zap.Stringer("remote", cc.RemoteAddr()),
		zap.Int("connections", n))
	e.notify(n)
}

// AuthUser implements ftpserver.MainDriver. Only the anonymous principal is accepted;
// its password is ignored.
func (e *Engine) AuthUser(cc ftpserver.ClientContext, user, _ string) (ftpserver.ClientDriver, error) {
	if !e.handler.Authorizer.AllowsUser(user) {
		e.logger.Warn("Login refused", zap.Uint32("client", cc.ID()), zap.String("user", user))
		return nil, fmt.Errorf("%w: %s", ErrAnonymousOnly, user)
	}
	e.logger.Info("Client logged in",
		zap.Uint32("client", cc.ID()),
		zap.String("user", user),
		zap.String("root_path", e.handler.Authorizer.Root))
	return e.fs, nil
}

// GetTLSConfig implements ftpserver.MainDriver.
func (e *Engine) GetTLSConfig() (*tls.Config, error) {
	return nil, ErrNoTLS
}

func (e *Engine) notify(n int) {
	if e.handler.OnConnections != nil {
		e.handler.OnConnections(n)
	}
}
