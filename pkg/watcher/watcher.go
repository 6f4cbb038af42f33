// Package watcher tracks the previous and current value of a polled
// quantity, one update per tick, for change detection.
package watcher

// Pair holds the two most recent observations of a value.
type Pair[T comparable] struct {
	Old     T
	Current T
}

// Changed reports whether the value changed between the last two ticks.
func (p Pair[T]) Changed() bool {
	return p.Old != p.Current
}

// Watcher records a value once per tick. The pair is absent until the
// first update.
type Watcher[T comparable] struct {
	pair    Pair[T]
	updated bool
}

// Update shifts current to old and installs v as current. It never
// fails; a failed upstream read must be mapped to a default value by
// the caller before updating.
func (w *Watcher[T]) Update(v T) {
	if !w.updated {
		w.pair = Pair[T]{Old: v, Current: v}
		w.updated = true
		return
	}
	w.pair = Pair[T]{Old: w.pair.Current, Current: v}
}

// Pair returns the observation pair, or false before the first update.
func (w *Watcher[T]) Pair() (Pair[T], bool) {
	return w.pair, w.updated
}

// Current returns the most recent value, or the zero value and false
// before the first update.
func (w *Watcher[T]) Current() (T, bool) {
	return w.pair.Current, w.updated
}

// Reset clears the watcher back to its pre-first-update state.
func (w *Watcher[T]) Reset() {
	var zero Pair[T]
	w.pair = zero
	w.updated = false
}
