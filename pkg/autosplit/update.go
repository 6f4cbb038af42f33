package autosplit

import (
	"math"
	"time"

	"github.com/mwhitt/runsync/pkg/game"
	"github.com/mwhitt/runsync/pkg/memory"
)

// updateWatchers performs the per-tick raw reads against the probe
// anchor and derives the semantic watcher updates. Every read failure
// maps to a defined default; watcher updates themselves never fail.
func updateWatchers(mem memory.Reader, base uint64, profile *game.Profile, w *Watchers) {
	// Loading state describes the current loading screen. The sentinel
	// value is a benign special state that must not count as loading.
	loadingState, err := memory.ReadPath[uint32](mem, base, profile.Paths.LoadingState)
	if err != nil {
		loadingState = 0
	}

	// Separate flag for the game being stuck in a loading state
	// regardless of the screen shown.
	stuck := false
	if v, err := memory.ReadPath[uint8](mem, base, profile.Paths.StuckLoading); err == nil {
		stuck = v != 0
	}

	w.IsLoading.Update(stuck || (loadingState != 0 && loadingState != profile.LoadingSentinel))

	// Stage id 0 is the world map, which has no running clock.
	stage, err := memory.ReadPath[uint8](mem, base, profile.Paths.Stage)
	if err != nil {
		stage = 0
	}
	w.Stage.Update(stage)

	igt := time.Duration(0)
	if stage != 0 {
		if raw, err := memory.ReadPath[float32](mem, base, profile.Paths.Clock); err == nil {
			if !math.IsNaN(float64(raw)) && raw >= 0 {
				// The raw clock is in seconds; quantize to hundredths
				// and express as whole milliseconds at 10 ms steps.
				igt = time.Duration(int64(raw*100)*10) * time.Millisecond
			}
		}
	}

	// The raw clock resets to zero at certain internal transitions.
	// Bank the previous value so total elapsed time keeps increasing;
	// the buffer is added back at consumption time.
	if pair, ok := w.IGT.Pair(); ok && igt < pair.Current {
		w.IGTBuffer += pair.Current
	}

	w.IGT.Update(igt)
}
