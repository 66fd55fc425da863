package engine

import "sync"

// State is the lifecycle position of one generation flow.
type State string

const (
	StateIdle                 State = "idle"
	StateDrafting             State = "drafting"
	StateClarificationPending State = "clarification-pending"
	StateFinalizing           State = "finalizing"
	StateDone                 State = "done"
	StateFailed               State = "failed"
)

// Flow tracks one generation run from input to finished artifact. A flow
// is not reused across runs; the engine creates one per request.
type Flow struct {
	engine *Engine

	mu    sync.Mutex
	state State
}

// State returns the flow's current lifecycle position.
func (f *Flow) State() State {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.state
}

func (f *Flow) setState(s State) {
	f.mu.Lock()
	f.state = s
	f.mu.Unlock()
}
