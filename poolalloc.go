package poolalloc

import (
	"github.com/QuangTung97/poolalloc/align"
	"github.com/QuangTung97/poolalloc/spinlock"
	"unsafe"
)

// Allocator serves variable-sized allocations out of caller-supplied
// memory regions. The zero value is ready to use: seed it with Add.
// Safe for concurrent use by multiple goroutines.
//
// The allocator never touches memory outside the seeded regions and
// never calls New/make itself. The caller must keep every seeded
// region reachable for the lifetime of the allocator.
type Allocator struct {
	head *node
	lock spinlock.Lock
}

// New ...
func New() *Allocator {
	return &Allocator{}
}

// Add seeds the allocator with a memory region. The region start is
// aligned forward to the unit size and the length rounded down to
// whole units; regions no longer than the alignment pad plus one unit
// are silently ignored. Adding overlapping regions is a caller error.
func (a *Allocator) Add(region []byte) {
	base := uintptr(unsafe.Pointer(unsafe.SliceData(region)))
	inc := align.Offset(base, unitSize)
	nbytes := uintptr(len(region))
	if nbytes <= inc+unitSize {
		return
	}
	nunits := (nbytes - inc) / unitSize
	if nunits == 0 {
		return
	}

	p := (*node)(unsafe.Pointer(base + inc))
	p.nunits = nunits
	a.Free(p.payload())
}

// Alloc returns a pointer to nbytes of memory aligned for any scalar
// type, or nil when nbytes is zero, rounding it up would overflow, or
// no free block is large enough.
func (a *Allocator) Alloc(nbytes uintptr) unsafe.Pointer {
	inc := align.Offset(nbytes, unitSize)
	if nbytes == 0 || ^uintptr(0)-inc < nbytes {
		return nil
	}

	a.lock.Acquire()
	defer a.lock.Release()

	// round up to the next number of units, +1 unit for the header
	p := a.allocate((nbytes+inc)/unitSize + 1)
	if p == nil {
		return nil
	}
	return p.payload()
}

// Free returns an allocation to the free ring, coalescing it with any
// touching neighbor on either side. Free(nil) is a no-op. Freeing a
// pointer not returned by this allocator, or freeing twice, is
// undefined behavior.
func (a *Allocator) Free(ptr unsafe.Pointer) {
	if ptr == nil {
		return
	}
	p := header(ptr)

	a.lock.Acquire()
	defer a.lock.Release()

	a.insert(p)
}

// Realloc resizes an allocation. Realloc(nil, n) is Alloc(n);
// Realloc(p, 0) frees p and returns nil. When the existing capacity
// already covers nbytes the pointer is returned unchanged; otherwise
// the contents move to a fresh allocation and the old block is freed.
// On allocation failure Realloc returns nil and p stays valid.
func (a *Allocator) Realloc(ptr unsafe.Pointer, nbytes uintptr) unsafe.Pointer {
	if ptr == nil {
		return a.Alloc(nbytes)
	}
	if nbytes == 0 {
		a.Free(ptr)
		return nil
	}

	oldSize := AllocSize(ptr)
	if oldSize >= nbytes {
		return ptr
	}
	res := a.Alloc(nbytes)
	if res == nil {
		return nil
	}
	copy(unsafe.Slice((*byte)(res), nbytes), unsafe.Slice((*byte)(ptr), oldSize))
	a.Free(ptr)
	return res
}

// AllocBytes is Alloc returning the allocation as a byte slice of
// length nbytes, or nil on failure.
func (a *Allocator) AllocBytes(nbytes int) []byte {
	p := a.Alloc(uintptr(nbytes))
	if p == nil {
		return nil
	}
	return unsafe.Slice((*byte)(p), nbytes)
}

// AllocSize returns the usable capacity in bytes of a live allocation,
// zero for nil. It reads only the allocation's own header, so it is
// safe to call concurrently with operations on other allocations.
// Undefined for pointers the allocator did not return or that were
// already freed.
func AllocSize(ptr unsafe.Pointer) uintptr {
	if ptr == nil {
		return 0
	}
	return (header(ptr).nunits - 1) * unitSize
}

// ForBlocks calls fn with the payload size in bytes of every block on
// the free ring, in ring order from the cursor. The lock is held for
// the whole traversal: fn must not call back into the allocator.
func (a *Allocator) ForBlocks(fn func(nbytes uintptr)) {
	a.lock.Acquire()
	defer a.lock.Release()

	if a.head == nil {
		return
	}
	cur := a.head
	for {
		fn(AllocSize(cur.payload()))
		cur = cur.next
		if cur == a.head {
			break
		}
	}
}

// Stats ...
type Stats struct {
	NumBlocks    int
	FreeBytes    uintptr
	LargestBlock uintptr
}

// Stats reports the free ring in one locked traversal. FreeBytes and
// LargestBlock count payload bytes, the same sizes ForBlocks reports.
func (a *Allocator) Stats() Stats {
	a.lock.Acquire()
	defer a.lock.Release()

	var s Stats
	if a.head == nil {
		return s
	}
	cur := a.head
	for {
		size := (cur.nunits - 1) * unitSize
		s.NumBlocks++
		s.FreeBytes += size
		if size > s.LargestBlock {
			s.LargestBlock = size
		}
		cur = cur.next
		if cur == a.head {
			break
		}
	}
	return s
}
