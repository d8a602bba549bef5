package watcher

// State tracks the watcher's lifecycle for the health endpoint.
type State int32

const (
	StateUninitialized State = iota
	StateConnected
	StateBackfillScanning
	StateMonitoring
	StateShuttingDown
	StateDisconnected
)

func (s State) String() string {
	switch s {
	case StateConnected:
		return "connected"
	case StateBackfillScanning:
		return "backfill_scanning"
	case StateMonitoring:
		return "monitoring"
	case StateShuttingDown:
		return "shutting_down"
	case StateDisconnected:
		return "disconnected"
	default:
		return "uninitialized"
	}
}

func (w *Watcher) setState(s State) {
	w.state.Store(int32(s))
}

func (w *Watcher) State() State {
	return State(w.state.Load())
}
