// Package messages defines the event and status types that flow from
// the autosplit runner to the history worker, the overlay feed and the
// HTTP API.
package messages

import "time"

type EventType string

const (
	EventTypeStart          EventType = "start"
	EventTypeSplit          EventType = "split"
	EventTypeReset          EventType = "reset"
	EventTypeAttach         EventType = "attach"
	EventTypeDetach         EventType = "detach"
	EventTypePauseGameTime  EventType = "pause_game_time"
	EventTypeResumeGameTime EventType = "resume_game_time"
)

// TimerEvent records a timer command or attachment transition issued
// by the runner, for run history.
type TimerEvent struct {
	// RunID identifies the run the event belongs to. Empty for
	// attach/detach events outside a run.
	RunID string `json:"runId,omitempty"`
	// Game is the profile name.
	Game string    `json:"game"`
	Type EventType `json:"type"`
	// Timestamp is when the event was issued, in Unix milliseconds.
	Timestamp int64 `json:"timestamp"`
	// GameTimeMillis is the corrected game time at the event.
	GameTimeMillis int64 `json:"gameTimeMillis"`
	// Stage is the stage id current at the event.
	Stage uint8 `json:"stage"`
}

// Status is the runtime snapshot broadcast to overlay clients and
// served by the HTTP API.
type Status struct {
	// Timestamp is when the snapshot was taken, in Unix milliseconds.
	Timestamp int64 `json:"timestamp"`
	// Attached reports whether a target process is currently hooked.
	Attached bool `json:"attached"`
	// ProcessName is the name the process was attached under.
	ProcessName string `json:"processName,omitempty"`
	Game        string `json:"game"`
	TimerState  string `json:"timerState"`
	// Loading reports the derived loading flag; only meaningful once
	// Observed is true.
	Loading  bool  `json:"loading"`
	Observed bool  `json:"observed"`
	Stage    uint8 `json:"stage"`
	// GameTimeMillis is the corrected game time (clock + buffer).
	GameTimeMillis int64 `json:"gameTimeMillis"`
}

// GameTime returns the corrected game time as a duration.
func (s *Status) GameTime() time.Duration {
	return time.Duration(s.GameTimeMillis) * time.Millisecond
}
