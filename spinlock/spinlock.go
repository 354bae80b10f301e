//go:build !spinlock_tas

package spinlock

import (
	"golang.org/x/sys/cpu"
	"sync/atomic"
)

// Lock is a busy-wait mutual exclusion flag. The zero value is
// unlocked. Not recursive, no fairness guarantee.
type Lock struct {
	flag atomic.Bool
	_    cpu.CacheLinePad
}

// Acquire spins until the lock is held. Test and test-and-set: on
// contention it polls with atomic loads before retrying the swap, so
// waiters share the cache line instead of bouncing it.
func (l *Lock) Acquire() {
	for l.flag.Swap(true) {
		for l.flag.Load() {
		}
	}
}

// Release ...
func (l *Lock) Release() {
	l.flag.Store(false)
}
