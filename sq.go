//go:build linux

package iouring

import (
	"sync/atomic"
	"unsafe"

	"github.com/coreuring/iouring/internal/sys"
)

// SubmissionQueue is the user-side producer half of a ring. head is
// kernel-written and read with acquire semantics; tail is user-written and
// published with a release store. tailShadow is a private cursor advanced
// during batch preparation; nothing is visible to the kernel until sync
// (or a Submitter call, which syncs internally) publishes it.
//
// A SubmissionQueue obtained via Ring.Split may be used from exactly one
// goroutine at a time; the type itself takes no lock, mirroring the
// single-producer discipline the kernel also assumes.
type SubmissionQueue struct {
	headPtr    *uint32
	tailPtr    *uint32
	flagsPtr   *uint32
	droppedPtr *uint32
	mask       uint32
	entries    uint32
	array      []uint32
	sqe128     bool
	sqes       []sys.SQE    // populated when !sqe128
	sqes128    []sys.SQE128 // populated when sqe128
	tailShadow uint32
}

func newSubmissionQueue(mm *memoryMap, p *sys.Params) *SubmissionQueue {
	base := mm.sqBase()
	sqe128 := p.Flags&sys.IORING_SETUP_SQE128 != 0
	sq := &SubmissionQueue{
		headPtr:    u32At(base, p.SQOff.Head),
		tailPtr:    u32At(base, p.SQOff.Tail),
		flagsPtr:   u32At(base, p.SQOff.Flags),
		droppedPtr: u32At(base, p.SQOff.Dropped),
		entries:    *u32At(base, p.SQOff.RingEntries),
		mask:       *u32At(base, p.SQOff.RingMask),
		sqe128:     sqe128,
	}
	sq.array = unsafe.Slice((*uint32)(unsafe.Add(base, p.SQOff.Array)), sq.entries)
	if sqe128 {
		sq.sqes128 = unsafe.Slice((*sys.SQE128)(mm.sqesBase()), p.SQEntries)
	} else {
		sq.sqes = unsafe.Slice((*sys.SQE)(mm.sqesBase()), p.SQEntries)
	}
	sq.tailShadow = atomic.LoadUint32(sq.tailPtr)
	return sq
}

// Capacity returns sq_entries, a power of two fixed at setup.
func (sq *SubmissionQueue) Capacity() uint32 { return sq.entries }

// Len returns the number of SQEs reserved via Push but not yet published
// with Sync, plus any already published but not yet consumed by the
// kernel.
func (sq *SubmissionQueue) Len() uint32 {
	return sq.tailShadow - atomic.LoadUint32(sq.headPtr)
}

// IsFull reports whether the queue has no free slots.
func (sq *SubmissionQueue) IsFull() bool {
	return sq.Len() == sq.entries
}

// Space returns the number of free slots.
func (sq *SubmissionQueue) Space() uint32 {
	return sq.entries - sq.Len()
}

// Push reserves the next slot and writes entry into it. It does not publish
// the slot to the kernel; call Sync (or submit through a Submitter, which
// syncs internally) to make it visible.
//
// Push panics if entry carries CmdData but the queue was not built with
// WithBigSQE: the extra 64 bytes have nowhere to go in a 64-byte slot.
func (sq *SubmissionQueue) Push(e Entry) error {
	if sq.IsFull() {
		return &QueueFullError{}
	}
	idx := sq.tailShadow & sq.mask
	if sq.sqe128 {
		slot := sys.SQE128{SQE: e.raw}
		if e.cmd != nil {
			slot.CmdData = *e.cmd
		}
		sq.sqes128[idx] = slot
	} else {
		if e.cmd != nil {
			panic("iouring: Entry.CmdData requires a ring built with WithBigSQE")
		}
		sq.sqes[idx] = e.raw
	}
	sq.array[idx] = idx
	sq.tailShadow++
	return nil
}

// Reserve returns a pointer to the next free slot for in-place
// construction, avoiding the copy Push performs, and advances the shadow
// tail as if the slot were already filled. The caller must fully populate
// the returned SQE (it is zeroed first) before the next Sync.
//
// Reserve panics on a queue built with WithBigSQE; use Reserve128 there so
// the extra 64 bytes are visible to the caller too.
func (sq *SubmissionQueue) Reserve() (*sys.SQE, error) {
	if sq.sqe128 {
		panic("iouring: Reserve on a ring built with WithBigSQE, use Reserve128")
	}
	if sq.IsFull() {
		return nil, &QueueFullError{}
	}
	idx := sq.tailShadow & sq.mask
	sq.sqes[idx].Reset()
	sq.array[idx] = idx
	sq.tailShadow++
	return &sq.sqes[idx], nil
}

// Reserve128 is Reserve for a queue built with WithBigSQE, returning the
// full 128-byte slot including the trailing command-data bytes.
//
// Reserve128 panics on a queue not built with WithBigSQE.
func (sq *SubmissionQueue) Reserve128() (*sys.SQE128, error) {
	if !sq.sqe128 {
		panic("iouring: Reserve128 requires a ring built with WithBigSQE")
	}
	if sq.IsFull() {
		return nil, &QueueFullError{}
	}
	idx := sq.tailShadow & sq.mask
	sq.sqes128[idx] = sys.SQE128{}
	sq.array[idx] = idx
	sq.tailShadow++
	return &sq.sqes128[idx], nil
}

// Sync publishes every slot reserved since the last Sync with a release
// store on tail, and returns the number of newly published entries. Must
// be called before submitting; Submitter.Submit/SubmitAndWait call it
// internally.
func (sq *SubmissionQueue) Sync() uint32 {
	tail := atomic.LoadUint32(sq.tailPtr)
	n := sq.tailShadow - tail
	if n != 0 {
		atomic.StoreUint32(sq.tailPtr, sq.tailShadow)
	}
	return n
}

// needsWakeup reports whether an SQPOLL thread has gone to sleep and needs
// an io_uring_enter call with IORING_ENTER_SQ_WAKEUP to notice new work.
func (sq *SubmissionQueue) needsWakeup() bool {
	return atomic.LoadUint32(sq.flagsPtr)&sys.IORING_SQ_NEED_WAKEUP != 0
}

// cqOverflow reports whether the kernel has CQEs backlogged because the CQ
// was full; the next enter should set GETEVENTS to flush them.
func (sq *SubmissionQueue) cqOverflow() bool {
	return atomic.LoadUint32(sq.flagsPtr)&sys.IORING_SQ_CQ_OVERFLOW != 0
}

// Dropped returns the kernel's count of SQEs it dropped due to invalid
// fields (distinct from CQ overflow).
func (sq *SubmissionQueue) Dropped() uint32 {
	return atomic.LoadUint32(sq.droppedPtr)
}
