// Package autosplit polls a hooked game process and drives the run
// timer from what it observes: load removal, corrected game time and
// the per-title start/split/reset triggers.
package autosplit

import (
	"time"

	"github.com/mwhitt/runsync/pkg/game"
	"github.com/mwhitt/runsync/pkg/watcher"
)

// Watchers is the observation state owned by one process attachment.
// It is created fresh on attach and discarded on process death.
type Watchers struct {
	IsLoading watcher.Watcher[bool]
	Stage     watcher.Watcher[uint8]
	IGT       watcher.Watcher[time.Duration]

	// IGTBuffer absorbs internal resets of the raw in-game clock so
	// the reported game time never runs backward. It only grows while
	// a run is in progress and is zeroed whenever the timer reports
	// NotRunning.
	IGTBuffer time.Duration
}

// Snapshot exposes the watcher state to profile trigger predicates.
func (w *Watchers) Snapshot() *game.Snapshot {
	s := &game.Snapshot{}
	s.Loading, s.HasLoading = w.IsLoading.Pair()
	s.Stage, s.HasStage = w.Stage.Pair()
	s.Clock, s.HasClock = w.IGT.Pair()
	return s
}
