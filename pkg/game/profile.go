// Package game describes the titles the runtime can track: where their
// clocks and flags live in guest memory, and the per-title predicates
// that fire timer actions.
package game

import (
	"fmt"
	"sort"
	"time"

	"github.com/mwhitt/runsync/pkg/watcher"
)

// Paths are the memory paths for one title, relative to the probe
// anchor. See pkg/memory for path resolution semantics.
type Paths struct {
	// LoadingState resolves a u32 describing the loading screen.
	LoadingState []uint32
	// StuckLoading resolves a byte flag set while the game is stuck in
	// a loading state regardless of the screen shown.
	StuckLoading []uint32
	// Stage resolves a u8 stage identifier; 0 means world map.
	Stage []uint32
	// Clock resolves the f32 in-game clock, in seconds.
	Clock []uint32
}

// Snapshot is the watcher state trigger predicates evaluate. Each pair
// is only meaningful when its Has flag is set.
type Snapshot struct {
	Loading    watcher.Pair[bool]
	HasLoading bool
	Stage      watcher.Pair[uint8]
	HasStage   bool
	Clock      watcher.Pair[time.Duration]
	HasClock   bool
}

// Trigger is a per-title predicate over the current watcher state.
type Trigger func(s *Snapshot) bool

// Profile describes one supported title.
type Profile struct {
	Name string
	// ProcessNames are candidate process names, tried in order.
	ProcessNames []string
	Paths        Paths
	// LoadingSentinel is a loading-state value denoting a benign
	// special state rather than an actual loading screen.
	LoadingSentinel uint32
	// ShouldStart, ShouldSplit and ShouldReset fire the corresponding
	// timer actions. A nil trigger never fires.
	ShouldStart Trigger
	ShouldSplit Trigger
	ShouldReset Trigger
}

var profiles = map[string]*Profile{}

// Register adds a profile to the registry. It panics on a duplicate
// name; profiles register from package init.
func Register(p *Profile) {
	if _, ok := profiles[p.Name]; ok {
		panic(fmt.Sprintf("duplicate game profile %q", p.Name))
	}
	profiles[p.Name] = p
}

// Lookup returns the profile registered under name.
func Lookup(name string) (*Profile, error) {
	p, ok := profiles[name]
	if !ok {
		return nil, fmt.Errorf("unknown game profile %q (available: %v)", name, Names())
	}
	return p, nil
}

// Names lists the registered profile names, sorted.
func Names() []string {
	names := make([]string, 0, len(profiles))
	for name := range profiles {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
