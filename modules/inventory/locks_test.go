package inventory

import (
	"sync"
	"testing"
)

func TestKeyedMutex_SerializesPerKey(t *testing.T) {
	locks := newKeyedMutex()

	counter := 0
	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			unlock := locks.Lock("pasta")
			counter++
			unlock()
		}()
	}
	wg.Wait()

	if counter != 50 {
		t.Errorf("expected 50 increments, got %d", counter)
	}
}

func TestKeyedMutex_LockAllDuplicates(t *testing.T) {
	locks := newKeyedMutex()

	// Duplicate keys must be locked once, not deadlock.
	unlock := locks.LockAll([]string{"pasta", "pizza", "pasta"})
	unlock()

	// And the keys are free again.
	unlock = locks.LockAll([]string{"pasta", "pizza"})
	unlock()
}

func TestKeyedMutex_OverlappingBatches(t *testing.T) {
	locks := newKeyedMutex()

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		keys := []string{"a", "b", "c"}
		if i%2 == 1 {
			keys = []string{"c", "a"} // reversed overlap
		}
		wg.Add(1)
		go func(keys []string) {
			defer wg.Done()
			unlock := locks.LockAll(keys)
			unlock()
		}(keys)
	}
	wg.Wait()
}
