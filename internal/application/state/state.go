package state

// LoaderState represents the lifecycle state of a scene loader
type LoaderState int

const (
	StateUninitialized LoaderState = iota
	StateIdle
	StateTransitioning
)

// String returns the string representation of the loader state
func (s LoaderState) String() string {
	switch s {
	case StateUninitialized:
		return "Uninitialized"
	case StateIdle:
		return "Idle"
	case StateTransitioning:
		return "Transitioning"
	default:
		return "Unknown"
	}
}

// Initialized reports whether the loader has left the uninitialized state
func (s LoaderState) Initialized() bool {
	return s != StateUninitialized
}
