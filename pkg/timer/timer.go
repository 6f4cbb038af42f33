// Package timer defines the run timer the autosplit runtime drives.
package timer

import "time"

// State is the externally reported timer phase.
type State int

const (
	StateNotRunning State = iota
	StateRunning
	StatePaused
	StateEnded
	StateUnknown
)

func (s State) String() string {
	switch s {
	case StateNotRunning:
		return "NotRunning"
	case StateRunning:
		return "Running"
	case StatePaused:
		return "Paused"
	case StateEnded:
		return "Ended"
	default:
		return "Unknown"
	}
}

// Control is the timer the runtime issues commands to. Commands are
// one-way and fire-and-forget; the timer is the single source of truth
// for its own state and the runtime only ever queries it.
type Control interface {
	// State returns the current timer phase.
	State() State
	// Start starts a new run.
	Start()
	// Split records a split for the current run.
	Split()
	// Reset abandons the current run.
	Reset()
	// PauseGameTime stops game time accounting.
	PauseGameTime()
	// ResumeGameTime resumes game time accounting.
	ResumeGameTime()
	// SetGameTime sets the run's game time directly.
	SetGameTime(d time.Duration)
}
