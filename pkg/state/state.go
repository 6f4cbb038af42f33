package state

import (
	"github.com/mwhitt/runsync/pkg/messages"
)

// Manager provides shared access to the latest runtime status.
// Implementations must be thread-safe: the runner writes it every tick
// and the API and overlay feed read it concurrently.
type Manager interface {
	// Get returns a copy of the latest status, or nil before the first
	// tick.
	Get() *messages.Status
	// Set installs a new status snapshot.
	Set(status *messages.Status)
}
