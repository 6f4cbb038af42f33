package watcher

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestWatcherUpdateSequence(t *testing.T) {
	var w Watcher[int]

	_, ok := w.Pair()
	assert.False(t, ok, "pair must be absent before the first update")

	w.Update(1)
	pair, ok := w.Pair()
	assert.True(t, ok)
	assert.Equal(t, 1, pair.Current)
	assert.Equal(t, 1, pair.Old, "first update backfills old with the same value")
	assert.False(t, pair.Changed())

	w.Update(2)
	w.Update(3)
	pair, ok = w.Pair()
	assert.True(t, ok)
	assert.Equal(t, 2, pair.Old)
	assert.Equal(t, 3, pair.Current)
	assert.True(t, pair.Changed())
}

func TestWatcherChanged(t *testing.T) {
	var w Watcher[bool]

	w.Update(false)
	w.Update(false)
	pair, _ := w.Pair()
	assert.False(t, pair.Changed())

	w.Update(true)
	pair, _ = w.Pair()
	assert.True(t, pair.Changed())
}

func TestWatcherReset(t *testing.T) {
	var w Watcher[time.Duration]

	w.Update(5 * time.Second)
	w.Reset()

	_, ok := w.Pair()
	assert.False(t, ok)

	current, ok := w.Current()
	assert.False(t, ok)
	assert.Equal(t, time.Duration(0), current)
}
