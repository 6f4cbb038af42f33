package timer

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func TestLocalTimerLifecycle(t *testing.T) {
	lt := NewLocalTimer()
	assert.Equal(t, StateNotRunning, lt.State())
	assert.Equal(t, uuid.Nil, lt.RunID())

	lt.Start()
	assert.Equal(t, StateRunning, lt.State())
	assert.NotEqual(t, uuid.Nil, lt.RunID())

	firstRunID := lt.RunID()

	// Start is idempotent while a run is in progress.
	lt.Start()
	assert.Equal(t, firstRunID, lt.RunID())

	lt.SetGameTime(90 * time.Second)
	lt.Split()
	lt.SetGameTime(3 * time.Minute)
	lt.Split()
	assert.Equal(t, []time.Duration{90 * time.Second, 3 * time.Minute}, lt.Splits())

	lt.Reset()
	assert.Equal(t, StateNotRunning, lt.State())
	assert.Equal(t, uuid.Nil, lt.RunID())
	assert.Empty(t, lt.Splits())
	assert.Equal(t, time.Duration(0), lt.GameTime())
}

func TestLocalTimerGameTimePause(t *testing.T) {
	lt := NewLocalTimer()
	lt.Start()

	assert.False(t, lt.GameTimePaused())
	lt.PauseGameTime()
	assert.True(t, lt.GameTimePaused())
	lt.ResumeGameTime()
	assert.False(t, lt.GameTimePaused())
}

func TestLocalTimerSplitOutsideRun(t *testing.T) {
	lt := NewLocalTimer()
	lt.Split()
	assert.Empty(t, lt.Splits())
}
