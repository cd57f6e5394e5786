// Package keylock serializes operations sharing a string key. The action
// layer locks on the user name so that read-modify-write sequences against
// the same user never interleave.
package keylock

import "sync"

type KeyLock struct {
	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

func New() *KeyLock {
	return &KeyLock{
		locks: map[string]*sync.Mutex{},
	}
}

// Lock acquires the mutex for key, creating it on first use, and returns the
// matching unlock. Entries are kept for the process lifetime; the key space
// is the user list, which is small.
func (kl *KeyLock) Lock(key string) func() {
	kl.mu.Lock()
	l, ok := kl.locks[key]
	if !ok {
		l = &sync.Mutex{}
		kl.locks[key] = l
	}
	kl.mu.Unlock()
	l.Lock()
	return l.Unlock
}
