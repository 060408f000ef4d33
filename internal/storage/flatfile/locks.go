package flatfile

import (
	"sync"

	"github.com/sandevgo/topicscribe/internal/core"
)

// KeyLocks serializes access to one backing store per key.
type KeyLocks struct {
	mu    sync.Mutex
	locks map[core.Key]*sync.Mutex
}

func NewKeyLocks() *KeyLocks {
	return &KeyLocks{locks: make(map[core.Key]*sync.Mutex)}
}

// Lock acquires the key's mutex and returns its unlock function.
func (k *KeyLocks) Lock(key core.Key) func() {
	k.mu.Lock()
	m, ok := k.locks[key]
	if !ok {
		m = &sync.Mutex{}
		k.locks[key] = m
	}
	k.mu.Unlock()

	m.Lock()
	return m.Unlock
}
