package models

// Run is one attempt tracked from start to reset or completion.
type Run struct {
	// ID is the run's UUID.
	ID string `json:"id"`
	// Game is the profile name the run was tracked under.
	Game string `json:"game"`
	// StartedAt is the start time in Unix milliseconds.
	StartedAt int64 `json:"startedAt"`
	// GameTimeMillis is the last corrected game time recorded.
	GameTimeMillis int64 `json:"gameTimeMillis"`
	// Splits is the number of splits recorded.
	Splits int `json:"splits"`
}

// Event is one timer event row.
type Event struct {
	ID             int64  `json:"id"`
	RunID          string `json:"runId,omitempty"`
	Game           string `json:"game"`
	Type           string `json:"type"`
	Timestamp      int64  `json:"timestamp"`
	GameTimeMillis int64  `json:"gameTimeMillis"`
	Stage          uint8  `json:"stage"`
}

// Setting is a persisted user setting.
type Setting struct {
	Key   string `json:"key"`
	Value string `json:"value"`
}
