package inventory

import (
	"sort"
	"sync"
)

// keyedMutex serializes writers per product id. The database's conditional
// update alone keeps quantities non-negative; the per-key lock on top of
// it keeps the mutate-then-notify sequence (decrement, alert re-evaluation,
// event emit) atomic per product, so alert state cannot interleave with a
// concurrent mutation of the same product.
type keyedMutex struct {
	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

func newKeyedMutex() *keyedMutex {
	return &keyedMutex{
		locks: make(map[string]*sync.Mutex),
	}
}

func (k *keyedMutex) get(key string) *sync.Mutex {
	k.mu.Lock()
	defer k.mu.Unlock()

	lock, ok := k.locks[key]
	if !ok {
		lock = &sync.Mutex{}
		k.locks[key] = lock
	}
	return lock
}

// Lock acquires the lock for one key. The returned func releases it.
func (k *keyedMutex) Lock(key string) func() {
	lock := k.get(key)
	lock.Lock()
	return lock.Unlock
}

// LockAll acquires the locks for all keys in sorted order, so two batches
// touching overlapping products cannot deadlock. Duplicate keys are locked
// once. The returned func releases every acquired lock.
func (k *keyedMutex) LockAll(keys []string) func() {
	unique := make([]string, 0, len(keys))
	seen := make(map[string]bool, len(keys))
	for _, key := range keys {
		if !seen[key] {
			seen[key] = true
			unique = append(unique, key)
		}
	}
	sort.Strings(unique)

	acquired := make([]*sync.Mutex, 0, len(unique))
	for _, key := range unique {
		lock := k.get(key)
		lock.Lock()
		acquired = append(acquired, lock)
	}

	return func() {
		for i := len(acquired) - 1; i >= 0; i-- {
			acquired[i].Unlock()
		}
	}
}
