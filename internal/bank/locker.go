package bank

import (
	"sync"

	"github.com/google/uuid"
)

// accountLocker hands out one mutex per account id so that balance
// read-modify-writes on the same account are strictly serialized while
// operations on different accounts proceed independently. Locks are never
// reclaimed; the set of accounts grows slowly and each entry is tiny.
type accountLocker struct {
	mu    sync.Mutex
	locks map[uuid.UUID]*sync.Mutex
}

func newAccountLocker() *accountLocker {
	return &accountLocker{locks: make(map[uuid.UUID]*sync.Mutex)}
}

func (l *accountLocker) forAccount(id uuid.UUID) *sync.Mutex {
	l.mu.Lock()
	defer l.mu.Unlock()

	m, ok := l.locks[id]
	if !ok {
		m = &sync.Mutex{}
		l.locks[id] = m
	}
	return m
}
