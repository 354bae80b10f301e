package spinlock

import (
	"github.com/stretchr/testify/assert"
	"sync"
	"testing"
)

func TestLockZeroValue(t *testing.T) {
	var l Lock
	l.Acquire()
	l.Release()
	l.Acquire()
	l.Release()
}

func TestLockMutualExclusion(t *testing.T) {
	const numGoroutines = 8
	const numIncrements = 2000

	var l Lock
	counter := 0

	var wg sync.WaitGroup
	for i := 0; i < numGoroutines; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < numIncrements; j++ {
				l.Acquire()
				counter++
				l.Release()
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, numGoroutines*numIncrements, counter)
}
