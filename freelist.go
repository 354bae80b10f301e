package poolalloc

import "unsafe"

// node prefixes every block, free or live, putting free blocks in a
// circular singly-linked list and storing size information. While a
// block is live only nunits is meaningful.
type node struct {
	// block size including this header, in units
	nunits uintptr
	next   *node
}

// unitSize is the block granularity and the minimum alignment of every
// payload. The header is two pointer-sized words, so any unit-aligned
// address is aligned for every scalar type.
const unitSize = unsafe.Sizeof(node{})

func (n *node) addr() uintptr {
	return uintptr(unsafe.Pointer(n))
}

// shift returns the header located units after n.
func (n *node) shift(units uintptr) *node {
	return (*node)(unsafe.Add(unsafe.Pointer(n), units*unitSize))
}

// end returns the address one past the block, as a header pointer for
// adjacency comparison against the next block's start.
func (n *node) end() *node {
	return n.shift(n.nunits)
}

func (n *node) payload() unsafe.Pointer {
	return unsafe.Add(unsafe.Pointer(n), unitSize)
}

func header(p unsafe.Pointer) *node {
	return (*node)(unsafe.Add(p, -int(unitSize)))
}

// allocate removes a block of nunits from the free ring, next fit: the
// search starts just past the cursor and resumes there on the next
// call. Oversized blocks are split from their high-address tail, which
// leaves the low remainder in place with its linkage untouched. The
// cursor moves to the predecessor of the match, or to nil when an
// exact match empties a singleton ring. Caller must hold the lock.
func (a *Allocator) allocate(nunits uintptr) *node {
	if a.head == nil {
		return nil
	}
	prv := a.head
	for cur := prv.next; ; prv, cur = cur, cur.next {
		if cur.nunits >= nunits {
			if cur.nunits == nunits {
				if prv.next != cur.next {
					prv.next = cur.next
				} else {
					prv = nil
				}
			} else {
				cur.nunits -= nunits
				cur = cur.shift(cur.nunits)
				cur.nunits = nunits
			}
			a.head = prv
			return cur
		}
		if cur == a.head {
			return nil
		}
	}
}

// insert links p back into the ring at its address position and merges
// it with whichever address-neighbors touch it. The ring is kept in
// ascending address order with a single wrap from the highest block
// back to the lowest; the walk stops either strictly between two nodes
// or at the wrap node when p lies outside every pair. Caller must hold
// the lock.
func (a *Allocator) insert(p *node) {
	if a.head == nil {
		a.head = p
		p.next = p
		return
	}

	cur := a.head
	for !(p.addr() > cur.addr() && p.addr() < cur.next.addr()) {
		if cur.addr() >= cur.next.addr() && (p.addr() > cur.addr() || p.addr() < cur.next.addr()) {
			break
		}
		cur = cur.next
	}

	if p.end() == cur.next {
		if cur.next == cur {
			// absorbing the lone node leaves p as the whole ring
			p.nunits += cur.nunits
			p.next = p
			a.head = p
			return
		}
		p.nunits += cur.next.nunits
		p.next = cur.next.next
	} else {
		p.next = cur.next
	}
	if cur.end() == p {
		cur.nunits += p.nunits
		cur.next = p.next
	} else {
		cur.next = p
	}
	a.head = cur
}

func (a *Allocator) contentOfList() []uintptr {
	var result []uintptr
	if a.head == nil {
		return result
	}
	cur := a.head
	for {
		result = append(result, cur.nunits)
		cur = cur.next
		if cur == a.head {
			break
		}
	}
	return result
}
