//go:build spinlock_tas

package spinlock

import (
	"golang.org/x/sys/cpu"
	"sync/atomic"
)

// Lock is a busy-wait mutual exclusion flag. The zero value is
// unlocked. Test-and-set variant for targets where polling the flag
// between swap attempts buys nothing: the flag is only ever swapped.
type Lock struct {
	flag atomic.Uint32
	_    cpu.CacheLinePad
}

// Acquire ...
func (l *Lock) Acquire() {
	for l.flag.Swap(1) != 0 {
	}
}

// Release ...
func (l *Lock) Release() {
	l.flag.Store(0)
}
