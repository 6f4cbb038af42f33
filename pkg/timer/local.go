package timer

import (
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/mwhitt/runsync/pkg/log"
)

// LocalTimer is an in-process run timer so the daemon is usable
// without an external timer application. Game time is driven entirely
// by SetGameTime; real time is measured against the wall clock.
type LocalTimer struct {
	lock           sync.RWMutex
	state          State
	runID          uuid.UUID
	startedAt      time.Time
	gameTime       time.Duration
	gameTimePaused bool
	splits         []time.Duration
}

func NewLocalTimer() *LocalTimer {
	return &LocalTimer{
		state: StateNotRunning,
	}
}

func (t *LocalTimer) State() State {
	t.lock.RLock()
	defer t.lock.RUnlock()
	return t.state
}

func (t *LocalTimer) Start() {
	t.lock.Lock()
	defer t.lock.Unlock()

	if t.state != StateNotRunning {
		return
	}

	t.state = StateRunning
	t.runID = uuid.New()
	t.startedAt = time.Now()
	t.gameTime = 0
	t.gameTimePaused = false
	t.splits = nil
	log.Info("Run %s started", t.runID)
}

func (t *LocalTimer) Split() {
	t.lock.Lock()
	defer t.lock.Unlock()

	if t.state != StateRunning {
		return
	}

	t.splits = append(t.splits, t.gameTime)
	log.Info("Run %s split %d at %s", t.runID, len(t.splits), t.gameTime)
}

func (t *LocalTimer) Reset() {
	t.lock.Lock()
	defer t.lock.Unlock()

	if t.state == StateNotRunning {
		return
	}

	log.Info("Run %s reset", t.runID)
	t.state = StateNotRunning
	t.runID = uuid.Nil
	t.gameTime = 0
	t.splits = nil
}

func (t *LocalTimer) PauseGameTime() {
	t.lock.Lock()
	defer t.lock.Unlock()
	t.gameTimePaused = true
}

func (t *LocalTimer) ResumeGameTime() {
	t.lock.Lock()
	defer t.lock.Unlock()
	t.gameTimePaused = false
}

func (t *LocalTimer) SetGameTime(d time.Duration) {
	t.lock.Lock()
	defer t.lock.Unlock()
	t.gameTime = d
}

// RunID returns the ID of the current run, or uuid.Nil outside a run.
func (t *LocalTimer) RunID() uuid.UUID {
	t.lock.RLock()
	defer t.lock.RUnlock()
	return t.runID
}

// GameTime returns the last game time set on the timer.
func (t *LocalTimer) GameTime() time.Duration {
	t.lock.RLock()
	defer t.lock.RUnlock()
	return t.gameTime
}

// GameTimePaused reports whether game time accounting is paused.
func (t *LocalTimer) GameTimePaused() bool {
	t.lock.RLock()
	defer t.lock.RUnlock()
	return t.gameTimePaused
}

// RealTime returns the wall-clock time since the run started.
func (t *LocalTimer) RealTime() time.Duration {
	t.lock.RLock()
	defer t.lock.RUnlock()

	if t.state == StateNotRunning {
		return 0
	}
	return time.Since(t.startedAt)
}

// Splits returns the game times recorded for each split so far.
func (t *LocalTimer) Splits() []time.Duration {
	t.lock.RLock()
	defer t.lock.RUnlock()

	splits := make([]time.Duration, len(t.splits))
	copy(splits, t.splits)
	return splits
}
