package server

import (
	"context"
	"fmt"
	"net"
	"strconv"
	"sync"
	"sync/atomic"
	"time"

	"transease/core/codec"
	"transease/core/events"
	"transease/core/settings"

	"github.com/google/uuid"
	"github.com/spf13/afero"
	"go.uber.org/zap"
)

// SettingsSource provides the settings snapshot read at start.
type SettingsSource interface {
	Snapshot() settings.Settings
}

// Instance describes the configuration of the running worker.
type Instance struct {
	ID             string        `json:"id"`
	Address        string        `json:"address"`
	Port           int           `json:"port"`
	Root           string        `json:"root"`
	Permissions    string        `json:"permissions"`
	Encoding       string        `json:"encoding"`
	MaxConnections int           `json:"max_connections"`
	Timeout        time.Duration `json:"timeout"`
	StartedAt      time.Time     `json:"started_at"`
}

// Status is a point-in-time view of the supervisor.
type Status struct {
	State       string    `json:"state"`
	Running     bool      `json:"running"`
	Connections int       `json:"connections"`
	Instance    *Instance `json:"instance,omitempty"`
}

// Option configures a Supervisor.
type Option func(*Supervisor)

// WithFs sets the file system used to create the root directory.
func WithFs(fs afero.Fs) Option {
	return func(s *Supervisor) {
		s.fs = fs
	}
}

// WithLogger sets the supervisor logger.
func WithLogger(logger *zap.Logger) Option {
	return func(s *Supervisor) {
		s.logger = logger
	}
}

// Supervisor owns the lifecycle of at most one FTP server worker.
type Supervisor struct {
	cfg     Config
	source  SettingsSource
	bus     events.Publisher
	factory EngineFactory
	fs      afero.Fs
	logger  *zap.Logger

	// ctl serializes Start and Stop and worker exit handling.
	ctl     sync.Mutex
	state   atomic.Int32
	conns   atomic.Int64
	current atomic.Pointer[worker]
}

type worker struct {
	instance Instance
	engine   Engine
	ctx      context.Context
	cancel   context.CancelFunc

	readyOnce sync.Once
	ready     chan error
	done      chan struct{}
	err       error
	bound     bool
	stopping  atomic.Bool

	// connMu orders connection reports against Start publishing the worker.
	connMu sync.Mutex
	conns  int
	live   bool
}

func (w *worker) signalReady(err error) {
	w.readyOnce.Do(func() {
		w.ready <- err
	})
}

// New creates a supervisor in the Stopped state.
func New(cfg Config, source SettingsSource, bus events.Publisher, factory EngineFactory, opts ...Option) *Supervisor {
	s := &Supervisor{
		cfg:     cfg,
		source:  source,
		bus:     bus,
		factory: factory,
		fs:      afero.NewOsFs(),
		logger:  zap.NewNop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// State returns the current state without blocking on transitions.
func (s *Supervisor) State() State {
	return State(s.state.Load())
}

// Running reports whether a worker is serving clients.
func (s *Supervisor) Running() bool {
	return s.State() == StateRunning
}

// Connections returns the last reported client count.
func (s *Supervisor) Connections() int {
	return int(s.conns.Load())
}

// Instance returns the running worker configuration.
func (s *Supervisor) Instance() (Instance, bool) {
	w := s.current.Load()
	if w == nil {
		return Instance{}, false
	}
	return w.instance, true
}

// Status returns a combined view of the supervisor.
func (s *Supervisor) Status() Status {
	st := s.State()
	status := Status{
		State:       st.String(),
		Running:     st == StateRunning,
		Connections: s.Connections(),
	}
	if inst, ok := s.Instance(); ok {
		status.Instance = &inst
	}
	return status
}

// Start launches a worker from the current settings snapshot. Starting while a worker is
// active is a no-op returning the current state. On failure the supervisor is left
// Stopped and an Error event is emitted.
func (s *Supervisor) Start() (State, error) {
	s.ctl.Lock()
	defer s.ctl.Unlock()

	if st := s.State(); st.Active() {
		s.logger.Debug("Server already active, ignoring start", zap.Stringer("state", st))
		return st, nil
	}

	s.setState(StateStarting)
	snap := s.source.Snapshot()
	w, err := s.spawn(snap)
	if err != nil {
		s.setState(StateFailed)
		s.logger.Error("Failed to start server", zap.Error(err))
		s.bus.Publish(events.Error(fmt.Sprintf("Failed to start server: %v", err)))
		s.setState(StateStopped)
		return StateStopped, err
	}

	id := w.instance.ID
	s.current.Store(w)
	s.setState(StateRunning)

	s.logger.Info("Server started",
		zap.String("instance", id),
		zap.String("address", w.instance.Address),
		zap.String("root_path", w.instance.Root),
		zap.String("encoding", w.instance.Encoding))
	s.bus.Publish(events.Started().WithInstance(id))
	s.bus.Publish(events.Status(fmt.Sprintf("Server started on port %d", w.instance.Port)).WithInstance(id))

	// Clients accepted while spawn waited for readiness were recorded on the worker.
	w.connMu.Lock()
	w.live = true
	s.conns.Store(int64(w.conns))
	s.bus.Publish(events.ConnectionCount(w.conns).WithInstance(id))
	w.connMu.Unlock()
	return StateRunning, nil
}

// spawn prepares the root directory, builds an engine and waits for it to bind.
func (s *Supervisor) spawn(snap settings.Settings) (*worker, error) {
	if err := s.fs.MkdirAll(snap.RootPath, 0o755); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrRootUnavailable, snap.RootPath, err)
	}

	adapter, err := codec.New(snap.Encoding)
	if err != nil {
		return nil, err
	}

	addr := net.JoinHostPort(s.cfg.BindHost(), strconv.Itoa(snap.Port))
	ctx, cancel := context.WithCancel(context.Background())
	w := &worker{
		instance: Instance{
			ID:             uuid.NewString(),
			Address:        addr,
			Port:           snap.Port,
			Root:           snap.RootPath,
			Permissions:    DefaultPermissions,
			Encoding:       adapter.Name(),
			MaxConnections: snap.MaxConnections,
			Timeout:        time.Duration(snap.Timeout) * time.Second,
			StartedAt:      time.Now(),
		},
		ctx:    ctx,
		cancel: cancel,
		ready:  make(chan error, 1),
		done:   make(chan struct{}),
	}

	engine, err := s.factory(Handler{
		Codec:   adapter,
		Timeout: w.instance.Timeout,
		Authorizer: Authorizer{
			Root:        snap.RootPath,
			Permissions: DefaultPermissions,
		},
		Banner:        s.cfg.Banner,
		Logger:        s.logger.With(zap.String("instance", w.instance.ID)),
		OnConnections: s.connectionsChanged(w),
	})
	if err != nil {
		cancel()
		return nil, fmt.Errorf("failed to create server engine: %w", err)
	}
	engine.SetMaxConnections(snap.MaxConnections)
	w.engine = engine

	go s.run(w)

	timer := time.NewTimer(s.cfg.StopTimeout())
	defer timer.Stop()
	select {
	case err := <-w.ready:
		if err != nil {
			cancel()
			return nil, fmt.Errorf("%w on %s: %v", ErrBind, addr, err)
		}
	case <-timer.C:
		w.stopping.Store(true)
		_ = engine.StopAll()
		cancel()
		return nil, fmt.Errorf("%w on %s: timed out", ErrBind, addr)
	}
	return w, nil
}

func (s *Supervisor) connectionsChanged(w *worker) func(int) {
	return func(n int) {
		w.connMu.Lock()
		defer w.connMu.Unlock()

		w.conns = n
		if !w.live || s.current.Load() != w || w.stopping.Load() {
			return
		}
		s.conns.Store(int64(n))
		s.bus.Publish(events.ConnectionCount(n).WithInstance(w.instance.ID))
	}
}

func (s *Supervisor) run(w *worker) {
	w.err = s.serve(w)
	close(w.done)
	if w.bound && w.ctx.Err() == nil {
		s.exited(w)
	}
}

// serve binds and runs the engine, converting panics into ErrWorker.
func (s *Supervisor) serve(w *worker) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("%w: panic: %v", ErrWorker, r)
			w.signalReady(err)
		}
	}()

	if err := w.engine.Bind(w.instance.Address); err != nil {
		w.signalReady(err)
		return err
	}
	w.bound = true
	w.signalReady(nil)

	if err := w.engine.Serve(); err != nil {
		return fmt.Errorf("%w: %v", ErrWorker, err)
	}
	return nil
}

// exited handles a worker that terminated without a stop request.
func (s *Supervisor) exited(w *worker) {
	s.ctl.Lock()
	defer s.ctl.Unlock()

	if s.current.Load() != w || w.stopping.Load() {
		return
	}
	s.current.Store(nil)
	w.cancel()

	msg := "Server stopped unexpectedly"
	if w.err != nil {
		msg = fmt.Sprintf("Server failed: %v", w.err)
	}
	s.setState(StateFailed)
	s.logger.Error(msg, zap.String("instance", w.instance.ID))
	s.bus.Publish(events.Error(msg).WithInstance(w.instance.ID))
	s.conns.Store(0)
	s.bus.Publish(events.Stopped().WithInstance(w.instance.ID))
	s.setState(StateStopped)
}

// Stop asks the worker to terminate and waits up to the stop timeout. Stopping when
// already stopped is a no-op. When the worker outlives the timeout it is detached, an
// Error event is emitted and ErrShutdownTimeout is returned; the supervisor is Stopped
// either way.
func (s *Supervisor) Stop() error {
	s.ctl.Lock()
	defer s.ctl.Unlock()

	w := s.current.Load()
	if w == nil {
		return nil
	}

	id := w.instance.ID
	s.setState(StateStopping)
	w.stopping.Store(true)
	s.logger.Info("Stopping server", zap.String("instance", id))

	if err := w.engine.StopAll(); err != nil {
		s.logger.Warn("Error closing server connections", zap.String("instance", id), zap.Error(err))
	}
	w.cancel()

	timeout := s.cfg.StopTimeout()
	timer := time.NewTimer(timeout)
	defer timer.Stop()

	var result error
	select {
	case <-w.done:
		if w.err != nil {
			s.logger.Warn("Server worker exited with error", zap.String("instance", id), zap.Error(w.err))
		}
	case <-timer.C:
		result = fmt.Errorf("%w (%s)", ErrShutdownTimeout, timeout)
		msg := fmt.Sprintf("Server did not stop within %s timeout, resources released", timeout)
		s.logger.Error(msg, zap.String("instance", id))
		s.bus.Publish(events.Error(msg).WithInstance(id))
	}

	s.current.Store(nil)
	s.conns.Store(0)
	s.setState(StateStopped)
	s.logger.Info("Server stopped", zap.String("instance", id))
	s.bus.Publish(events.Stopped().WithInstance(id))
	s.bus.Publish(events.Status("Server stopped").WithInstance(id))
	return result
}

// Toggle stops a running server or starts a stopped one.
func (s *Supervisor) Toggle() (State, error) {
	if s.State().Active() {
		err := s.Stop()
		return s.State(), err
	}
	return s.Start()
}

func (s *Supervisor) setState(st State) {
	s.state.Store(int32(st))
}
