//go:build linux

package iouring

import (
	"sync/atomic"
	"unsafe"

	"github.com/coreuring/iouring/internal/sys"
)

// CompletionQueue is the kernel-side producer, user-side consumer half of a
// ring. tail is kernel-written and read with acquire semantics; head is
// user-written and released by Pop, Advance, ForEach and Drain.
//
// A CompletionQueue obtained via Ring.Split may be used from exactly one
// goroutine at a time, mirroring the kernel's single-consumer assumption.
type CompletionQueue struct {
	headPtr     *uint32
	tailPtr     *uint32
	overflowPtr *uint32
	mask        uint32
	entries     uint32
	cqe32       bool
	cqes        []sys.CQE   // populated when !cqe32
	cqes32      []sys.CQE32 // populated when cqe32
}

func newCompletionQueue(mm *memoryMap, p *sys.Params) *CompletionQueue {
	base := mm.cqBase()
	cqe32 := p.Flags&sys.IORING_SETUP_CQE32 != 0
	cq := &CompletionQueue{
		headPtr:     u32At(base, p.CQOff.Head),
		tailPtr:     u32At(base, p.CQOff.Tail),
		overflowPtr: u32At(base, p.CQOff.Overflow),
		entries:     *u32At(base, p.CQOff.RingEntries),
		mask:        *u32At(base, p.CQOff.RingMask),
		cqe32:       cqe32,
	}
	if cqe32 {
		cq.cqes32 = unsafe.Slice((*sys.CQE32)(unsafe.Add(base, p.CQOff.CQEs)), cq.entries)
	} else {
		cq.cqes = unsafe.Slice((*sys.CQE)(unsafe.Add(base, p.CQOff.CQEs)), cq.entries)
	}
	return cq
}

// Capacity returns cq_entries.
func (cq *CompletionQueue) Capacity() uint32 { return cq.entries }

// Len returns the number of completions ready to be popped.
func (cq *CompletionQueue) Len() uint32 {
	return atomic.LoadUint32(cq.tailPtr) - atomic.LoadUint32(cq.headPtr)
}

// IsEmpty reports whether no completions are ready.
func (cq *CompletionQueue) IsEmpty() bool { return cq.Len() == 0 }

// IsFull reports whether the CQ has no room for another completion; past
// this point the kernel starts counting overflow instead of posting CQEs
// (unless the NODROP feature is active).
func (cq *CompletionQueue) IsFull() bool { return cq.Len() == cq.entries }

// Peek returns the next completion without advancing head. ok is false if
// the queue is empty. On a queue built with WithBigCQE this returns just
// the base 16 bytes; use PeekBig to also see the extra result word.
func (cq *CompletionQueue) Peek() (cqe sys.CQE, ok bool) {
	head := atomic.LoadUint32(cq.headPtr)
	tail := atomic.LoadUint32(cq.tailPtr)
	if head == tail {
		return sys.CQE{}, false
	}
	if cq.cqe32 {
		return cq.cqes32[head&cq.mask].CQE, true
	}
	return cq.cqes[head&cq.mask], true
}

// PeekBig is Peek for a queue built with WithBigCQE, returning the full
// 32-byte completion including the trailing result bytes. ok is false if
// the queue is empty.
//
// PeekBig panics on a queue not built with WithBigCQE.
func (cq *CompletionQueue) PeekBig() (cqe sys.CQE32, ok bool) {
	if !cq.cqe32 {
		panic("iouring: PeekBig requires a ring built with WithBigCQE")
	}
	head := atomic.LoadUint32(cq.headPtr)
	tail := atomic.LoadUint32(cq.tailPtr)
	if head == tail {
		return sys.CQE32{}, false
	}
	return cq.cqes32[head&cq.mask], true
}

// Pop returns the next completion and advances head, releasing the slot
// back to the kernel. Returns QueueEmptyError if nothing is ready.
func (cq *CompletionQueue) Pop() (sys.CQE, error) {
	cqe, ok := cq.Peek()
	if !ok {
		return sys.CQE{}, &QueueEmptyError{}
	}
	atomic.StoreUint32(cq.headPtr, atomic.LoadUint32(cq.headPtr)+1)
	return cqe, nil
}

// Advance releases n already-read completions back to the kernel without
// copying them out, for callers that inspected them with Peek (or
// Ring.WaitCQE). ForEach and Drain advance head themselves.
func (cq *CompletionQueue) Advance(n uint32) {
	atomic.StoreUint32(cq.headPtr, atomic.LoadUint32(cq.headPtr)+n)
}

// ForEach calls fn for every ready completion in order, then advances head
// past the ones processed, and returns how many that was. Stops early if
// fn returns false, leaving that entry and the rest for the next call.
func (cq *CompletionQueue) ForEach(fn func(sys.CQE) bool) int {
	head := atomic.LoadUint32(cq.headPtr)
	tail := atomic.LoadUint32(cq.tailPtr)
	count := 0
	for head != tail {
		var cqe sys.CQE
		if cq.cqe32 {
			cqe = cq.cqes32[head&cq.mask].CQE
		} else {
			cqe = cq.cqes[head&cq.mask]
		}
		if !fn(cqe) {
			break
		}
		head++
		count++
	}
	if count > 0 {
		atomic.StoreUint32(cq.headPtr, head)
	}
	return count
}

// Drain releases every ready completion without inspecting it and returns
// how many were dropped.
func (cq *CompletionQueue) Drain() int {
	head := atomic.LoadUint32(cq.headPtr)
	tail := atomic.LoadUint32(cq.tailPtr)
	n := int(tail - head)
	if n > 0 {
		atomic.StoreUint32(cq.headPtr, tail)
	}
	return n
}

// Overflow returns the kernel's count of completions dropped because the
// CQ was full and the NODROP feature was not active.
func (cq *CompletionQueue) Overflow() uint32 {
	return atomic.LoadUint32(cq.overflowPtr)
}
