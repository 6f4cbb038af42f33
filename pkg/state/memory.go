package state

import (
	"sync"

	"github.com/mwhitt/runsync/pkg/messages"
)

type InMemoryManager struct {
	lock   sync.RWMutex
	status *messages.Status
}

func NewInMemoryManager() *InMemoryManager {
	return &InMemoryManager{}
}

func (m *InMemoryManager) Get() *messages.Status {
	m.lock.RLock()
	defer m.lock.RUnlock()

	if m.status == nil {
		return nil
	}
	copy := *m.status
	return &copy
}

func (m *InMemoryManager) Set(status *messages.Status) {
	m.lock.Lock()
	defer m.lock.Unlock()
	m.status = status
}
