package service

import (
	"sync"

	"github.com/google/uuid"
)

// principalLock serialises work per principal. Entries are dropped once no
// goroutine holds or waits on them.
type principalLock struct {
	mu      sync.Mutex
	entries map[uuid.UUID]*lockEntry
}

type lockEntry struct {
	mu   sync.Mutex
	refs int
}

func newPrincipalLock() *principalLock {
	return &principalLock{entries: make(map[uuid.UUID]*lockEntry)}
}

// Lock blocks until id is free and returns the matching unlock.
func (l *principalLock) Lock(id uuid.UUID) func() {
	l.mu.Lock()
	e, ok := l.entries[id]
	if !ok {
		e = &lockEntry{}
		l.entries[id] = e
	}
	e.refs++
	l.mu.Unlock()

	e.mu.Lock()
	return func() {
		e.mu.Unlock()
		l.mu.Lock()
		e.refs--
		if e.refs == 0 {
			delete(l.entries, id)
		}
		l.mu.Unlock()
	}
}
