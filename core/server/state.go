package server

// State is a lifecycle state of the Supervisor.
type State int32

const (
	StateStopped State = iota
	StateStarting
	StateRunning
	StateStopping
	StateFailed
)

func (s State) String() string {
	switch s {
	case StateStopped:
		return "stopped"
	case StateStarting:
		return "starting"
	case StateRunning:
		return "running"
	case StateStopping:
		return "stopping"
	case StateFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// Active reports whether a worker exists in this state.
func (s State) Active() bool {
	return s == StateStarting || s == StateRunning || s == StateStopping
}
