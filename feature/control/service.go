package control

import (
	"transease/core/events"
	"transease/core/server"
	"transease/core/settings"
	"transease/core/utils"

	"go.uber.org/zap"
)

// Supervisor is the server lifecycle surface driven by the admin API.
type Supervisor interface {
	Start() (server.State, error)
	Stop() error
	Toggle() (server.State, error)
	Status() server.Status
}

// SettingsStore reads and updates the persisted settings.
type SettingsStore interface {
	Snapshot() settings.Settings
	Update(updates settings.Updates) error
}

// LogConfigurer applies log_level and save_log changes.
type LogConfigurer interface {
	Configure(level string, saveLog bool) error
}

// SettingsResult is the outcome of a settings change.
type SettingsResult struct {
	Settings settings.Settings `json:"settings"`
	// RestartRequired is set when the server is running; it keeps the settings it
	// was started with until it is restarted.
	RestartRequired bool `json:"restart_required"`
}

// Service implements the control operations of the admin API.
type Service struct {
	sup    Supervisor
	store  SettingsStore
	bridge LogConfigurer
	logs   *LogBuffer
	bus    *events.Bus
	logger *zap.Logger
}

// NewService creates a control service.
func NewService(sup Supervisor, store SettingsStore, bridge LogConfigurer, logs *LogBuffer, bus *events.Bus, logger *zap.Logger) *Service {
	return &Service{
		sup:    sup,
		store:  store,
		bridge: bridge,
		logs:   logs,
		bus:    bus,
		logger: logger,
	}
}

// Status returns the supervisor status.
func (s *Service) Status() server.Status {
	return s.sup.Status()
}

// Start starts the server and returns the resulting status.
func (s *Service) Start() (server.Status, error) {
	_, err := s.sup.Start()
	return s.sup.Status(), err
}

// Stop stops the server and returns the resulting status.
func (s *Service) Stop() (server.Status, error) {
	err := s.sup.Stop()
	return s.sup.Status(), err
}

// Toggle starts a stopped server or stops a running one.
func (s *Service) Toggle() (server.Status, error) {
	_, err := s.sup.Toggle()
	return s.sup.Status(), err
}

// Settings returns the current settings.
func (s *Service) Settings() settings.Settings {
	return s.store.Snapshot()
}

// UpdateSettings validates and saves values for the general section, then applies the
// logging keys immediately. Unknown keys are rejected.
func (s *Service) UpdateSettings(values map[string]any) (SettingsResult, error) {
	for key, v := range values {
		if !settings.IsKnown(key) {
			return SettingsResult{}, &settings.ValidationError{Key: key, Value: utils.ToString(v), Reason: "unknown setting"}
		}
	}

	if err := s.store.Update(settings.Updates{settings.SectionGeneral: values}); err != nil {
		return SettingsResult{}, err
	}

	snap := s.store.Snapshot()
	if s.bridge != nil {
		if err := s.bridge.Configure(snap.LogLevel, snap.SaveLog); err != nil {
			s.logger.Error("Failed to apply log settings", zap.Error(err))
		}
	}

	result := SettingsResult{Settings: snap, RestartRequired: s.sup.Status().Running}
	if result.RestartRequired {
		s.logger.Warn("Settings saved, restart the server to apply them")
	}
	return result, nil
}

// SetRoot changes the shared root directory.
func (s *Service) SetRoot(path string) (SettingsResult, error) {
	return s.UpdateSettings(map[string]any{settings.KeyRootPath: path})
}

// Logs returns the buffered log view.
func (s *Service) Logs() []string {
	return s.logs.Lines()
}

// ClearLogs empties the log view.
func (s *Service) ClearLogs() {
	s.logs.Clear()
}

// Subscribe opens an event subscription for a streaming client.
func (s *Service) Subscribe(opts events.Options) *events.Subscription {
	return s.bus.Subscribe(opts)
}
