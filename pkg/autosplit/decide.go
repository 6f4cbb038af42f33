package autosplit

import (
	"time"

	"github.com/mwhitt/runsync/pkg/game"
	"github.com/mwhitt/runsync/pkg/settings"
)

// isLoading decides whether game time accounting should pause. In IGT
// mode the answer is always true: accounting is decoupled from the
// real loading signal and driven entirely by explicit game time
// updates. Otherwise it forwards the loading watcher; the second
// return is false while the flag is still unobserved.
func isLoading(w *Watchers, s settings.Snapshot) (bool, bool) {
	if s.IGT {
		return true, true
	}
	return w.IsLoading.Current()
}

// gameTime returns the corrected game time to push to the timer:
// current clock plus the accumulated regression buffer. Only produced
// in IGT mode.
func gameTime(w *Watchers, s settings.Snapshot) (time.Duration, bool) {
	if !s.IGT {
		return 0, false
	}

	current, ok := w.IGT.Current()
	if !ok {
		return 0, false
	}
	return current + w.IGTBuffer, true
}

func shouldStart(w *Watchers, p *game.Profile) bool {
	if p.ShouldStart == nil {
		return false
	}
	return p.ShouldStart(w.Snapshot())
}

func shouldSplit(w *Watchers, p *game.Profile) bool {
	if p.ShouldSplit == nil {
		return false
	}
	return p.ShouldSplit(w.Snapshot())
}

func shouldReset(w *Watchers, p *game.Profile) bool {
	if p.ShouldReset == nil {
		return false
	}
	return p.ShouldReset(w.Snapshot())
}
