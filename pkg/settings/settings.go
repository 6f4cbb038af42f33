// Package settings holds the user-configurable options, persisted in
// the repository and refreshed into the tick loop once per tick.
package settings

import (
	"context"
	"fmt"
	"strconv"
	"sync"

	"github.com/mwhitt/runsync/pkg/repositories"
)

const (
	// KeyIGT selects whether game time is driven by the derived
	// in-game clock instead of real time.
	KeyIGT = "igt"
)

// Snapshot is the settings view one tick evaluates against. Taken at
// the top of the tick so a mid-tick change cannot split a decision.
type Snapshot struct {
	// IGT: use in-game time instead of real time.
	IGT bool
}

// Store provides thread-safe access to settings backed by the
// repository.
type Store struct {
	repo repositories.Repository
	lock sync.RWMutex
	igt  bool
}

// NewStore loads persisted settings from the repository. Missing keys
// take their defaults.
func NewStore(ctx context.Context, repo repositories.Repository) (*Store, error) {
	s := &Store{repo: repo}

	value, err := repo.LoadSetting(ctx, KeyIGT)
	if err != nil {
		if !repositories.IsNotFound(err) {
			return nil, fmt.Errorf("failed to load setting %s: %v", KeyIGT, err)
		}
	} else {
		igt, err := strconv.ParseBool(value)
		if err != nil {
			return nil, fmt.Errorf("invalid value for setting %s: %v", KeyIGT, err)
		}
		s.igt = igt
	}

	return s, nil
}

// Snapshot returns the current settings for one tick.
func (s *Store) Snapshot() Snapshot {
	s.lock.RLock()
	defer s.lock.RUnlock()
	return Snapshot{IGT: s.igt}
}

// IGT returns the in-game-time setting.
func (s *Store) IGT() bool {
	s.lock.RLock()
	defer s.lock.RUnlock()
	return s.igt
}

// SetIGT persists and applies the in-game-time setting.
func (s *Store) SetIGT(ctx context.Context, igt bool) error {
	if err := s.repo.SaveSetting(ctx, KeyIGT, strconv.FormatBool(igt)); err != nil {
		return fmt.Errorf("failed to save setting %s: %v", KeyIGT, err)
	}

	s.lock.Lock()
	defer s.lock.Unlock()
	s.igt = igt
	return nil
}
