//go:build linux

// Package iouring provides a Go interface to the Linux io_uring API: ring
// setup and teardown, the submission/completion queue protocol, a builder
// for the SQE opcode catalog, and the io_uring_register surface.
package iouring

import (
	"context"
	"sync/atomic"
	"time"

	"golang.org/x/sys/unix"

	"github.com/coreuring/iouring/internal/sys"
)

// Timespec is a kernel-ABI time specification, used by opcodes that carry
// their own deadline (Timeout, TimeoutUpdate, LinkTimeout).
type Timespec = sys.Timespec

// Ring is a single io_uring instance: one file descriptor, its mmap'd
// queues, and the Submitter that talks to it. Submit/SubmitAndWait are
// safe to call from multiple goroutines; the SubmissionQueue and
// CompletionQueue are not, matching the kernel's single-producer,
// single-consumer assumption: serialize your own SQ writers, or obtain
// independent halves with Split and assign one goroutine to each.
type Ring struct {
	fd        int
	params    sys.Params
	mm        *memoryMap
	sq        *SubmissionQueue
	cq        *CompletionQueue
	submitter *Submitter
	closed    atomic.Bool
}

// Option configures ring setup. Options are applied to the io_uring_params
// block before io_uring_setup is called; most correspond directly to an
// IORING_SETUP_* flag.
type Option func(*sys.Params)

// WithSQPoll enables kernel-side SQ polling: a dedicated kernel thread
// consumes the SQ so submission never needs a syscall, at the cost of
// requiring CAP_SYS_NICE (or an unprivileged-SQPOLL kernel) and burning a
// CPU core while idle SQThreadIdle ms.
func WithSQPoll() Option {
	return func(p *sys.Params) { p.Flags |= sys.IORING_SETUP_SQPOLL }
}

// WithSQPollCPU pins the SQPOLL kernel thread to a specific CPU. Must be
// combined with WithSQPoll.
func WithSQPollCPU(cpu uint32) Option {
	return func(p *sys.Params) {
		p.Flags |= sys.IORING_SETUP_SQ_AFF
		p.SQThreadCPU = cpu
	}
}

// WithSQPollIdle sets how long, in milliseconds, the SQPOLL thread spins
// before sleeping and requiring a wakeup on the next enter.
func WithSQPollIdle(ms uint32) Option {
	return func(p *sys.Params) { p.SQThreadIdle = ms }
}

// WithAttachWQ shares the async worker pool of an existing ring instead of
// spawning a new one, useful when opening many rings from one process.
func WithAttachWQ(ring *Ring) Option {
	return func(p *sys.Params) {
		p.Flags |= sys.IORING_SETUP_ATTACH_WQ
		p.WQFd = uint32(ring.fd)
	}
}

// WithIOPoll enables I/O polling for completions, only valid for file
// descriptors opened O_DIRECT against a device that supports polling.
// Completions never arrive asynchronously in this mode; a caller must
// call Submit/SubmitAndWait to reap them.
func WithIOPoll() Option {
	return func(p *sys.Params) { p.Flags |= sys.IORING_SETUP_IOPOLL }
}

// WithCQSize sets an explicit completion queue size instead of the
// kernel's default of 2x the SQ size.
func WithCQSize(size uint32) Option {
	return func(p *sys.Params) {
		p.Flags |= sys.IORING_SETUP_CQSIZE
		p.CQEntries = size
	}
}

// WithClamp clamps SQEntries/CQEntries to the kernel maximum instead of
// failing setup when the requested size is too large.
func WithClamp() Option {
	return func(p *sys.Params) { p.Flags |= sys.IORING_SETUP_CLAMP }
}

// WithSingleIssuer asserts that only one task will ever submit to this
// ring, letting the kernel skip some synchronization. Violating the
// assertion is undefined.
func WithSingleIssuer() Option {
	return func(p *sys.Params) { p.Flags |= sys.IORING_SETUP_SINGLE_ISSUER }
}

// WithDeferTaskrun defers internal task work until the next enter call
// rather than running it from wherever a completion happens to land,
// reducing cross-CPU interrupts for a single-issuer ring. Implies
// WithSingleIssuer.
func WithDeferTaskrun() Option {
	return func(p *sys.Params) {
		p.Flags |= sys.IORING_SETUP_DEFER_TASKRUN | sys.IORING_SETUP_SINGLE_ISSUER
	}
}

// WithCoopTaskrun runs internal task work cooperatively instead of via
// signal-style interrupt, trading completion latency for fewer
// interruptions of the submitting task.
func WithCoopTaskrun() Option {
	return func(p *sys.Params) { p.Flags |= sys.IORING_SETUP_COOP_TASKRUN }
}

// WithSubmitAll keeps submitting remaining SQEs in a batch after one
// fails, instead of stopping at the first error.
func WithSubmitAll() Option {
	return func(p *sys.Params) { p.Flags |= sys.IORING_SETUP_SUBMIT_ALL }
}

// WithRestrictionsDisabled starts the ring disabled; no SQE is processed
// until RegisterRestrictions followed by RegisterEnableRings.
func WithRestrictionsDisabled() Option {
	return func(p *sys.Params) { p.Flags |= sys.IORING_SETUP_R_DISABLED }
}

// WithBigSQE requests 128-byte SQEs, required by opcodes that need the
// extra trailing space (e.g. some URingCmd uses).
func WithBigSQE() Option {
	return func(p *sys.Params) { p.Flags |= sys.IORING_SETUP_SQE128 }
}

// WithBigCQE requests 32-byte CQEs, required to receive the extra result
// word some opcodes fill in alongside Res/Flags.
func WithBigCQE() Option {
	return func(p *sys.Params) { p.Flags |= sys.IORING_SETUP_CQE32 }
}

// WithNoSQArray skips the SQ index indirection array on kernels new
// enough to support it directly indexing SQEs by tail position.
func WithNoSQArray() Option {
	return func(p *sys.Params) { p.Flags |= sys.IORING_SETUP_NO_SQARRAY }
}

// WithFlags ORs in arbitrary IORING_SETUP_* bits not covered by a named
// option.
func WithFlags(flags uint32) Option {
	return func(p *sys.Params) { p.Flags |= flags }
}

// dontfork controls whether mmap'd regions are marked MADV_DONTFORK so a
// forked child does not inherit them. New always applies it; no Option
// turns it off.
var dontforkDefault = true

// New creates an io_uring instance with at least entries submission slots
// (the kernel rounds up to a power of two, optionally clamping with
// WithClamp).
func New(entries uint32, opts ...Option) (*Ring, error) {
	if entries == 0 {
		return nil, unix.EINVAL
	}

	params := sys.Params{}
	for _, opt := range opts {
		opt(&params)
	}

	fd, err := sys.Setup(entries, &params)
	if err != nil {
		return nil, &SetupError{Errno: err}
	}

	mm, err := newMemoryMap(fd, &params, dontforkDefault)
	if err != nil {
		sys.Close(fd)
		return nil, err
	}

	sq := newSubmissionQueue(mm, &params)
	cq := newCompletionQueue(mm, &params)

	r := &Ring{
		fd:        fd,
		params:    params,
		mm:        mm,
		sq:        sq,
		cq:        cq,
		submitter: newSubmitter(fd, &params, sq),
	}
	return r, nil
}

// Fd returns the ring file descriptor.
func (r *Ring) Fd() int { return r.fd }

// Parameters reports the flags and features the kernel actually granted,
// which can differ from what was requested (e.g. clamped sizes, a feature
// the running kernel doesn't have).
func (r *Ring) Parameters() Parameters { return newParameters(r.params) }

// SQ returns the ring's submission queue handle.
func (r *Ring) SQ() *SubmissionQueue { return r.sq }

// CQ returns the ring's completion queue handle.
func (r *Ring) CQ() *CompletionQueue { return r.cq }

// Submitter returns the ring's submitter handle.
func (r *Ring) Submitter() *Submitter { return r.submitter }

// Split returns the ring's Submitter, SubmissionQueue, and CompletionQueue
// as independent handles, so a caller can run submission on one goroutine
// and completion processing on another without routing everything through
// Ring. The handles remain valid, and Ring.Close still owns their
// lifetime. Closing the Ring while a split handle is in use is the
// caller's responsibility to avoid.
func (r *Ring) Split() (*Submitter, *SubmissionQueue, *CompletionQueue) {
	return r.submitter, r.sq, r.cq
}

// Submit publishes pending SQEs without waiting for a completion.
func (r *Ring) Submit() (int, error) {
	if r.closed.Load() {
		return 0, ErrRingClosed
	}
	return r.submitter.Submit()
}

// SubmitAndWait publishes pending SQEs and waits for at least want
// completions.
func (r *Ring) SubmitAndWait(want uint32) (int, error) {
	if r.closed.Load() {
		return 0, ErrRingClosed
	}
	return r.submitter.SubmitAndWait(want)
}

// SubmitWithArgs publishes pending SQEs and waits for want completions or
// until timeout elapses, whichever comes first.
func (r *Ring) SubmitWithArgs(want uint32, timeout *time.Duration) (int, error) {
	if r.closed.Load() {
		return 0, ErrRingClosed
	}
	return r.submitter.SubmitWithArgs(want, timeout, nil)
}

// WaitCQE blocks until at least one completion is ready. It does not
// advance the CQ head; call CQ().Pop or CQ().Advance after inspecting it.
func (r *Ring) WaitCQE() (sys.CQE, error) {
	if r.closed.Load() {
		return sys.CQE{}, ErrRingClosed
	}
	return waitCQE(r.submitter, r.cq)
}

// WaitCQETimeout is WaitCQE bounded by timeout, returning unix.ETIME if
// none arrives in time.
func (r *Ring) WaitCQETimeout(timeout time.Duration) (sys.CQE, error) {
	if r.closed.Load() {
		return sys.CQE{}, ErrRingClosed
	}
	return waitCQETimeout(r.submitter, r.cq, timeout)
}

// WaitCQEContext is WaitCQE bounded by ctx instead of a fixed timeout.
func (r *Ring) WaitCQEContext(ctx context.Context) (sys.CQE, error) {
	if r.closed.Load() {
		return sys.CQE{}, ErrRingClosed
	}
	return waitCQEContext(ctx, r.submitter, r.cq)
}

// Probe queries the kernel for which opcodes it supports.
func (r *Ring) Probe() (*Probe, error) {
	return r.submitter.RegisterProbe()
}

// RegisterBuffers is a convenience passthrough to Submitter.RegisterBuffers.
func (r *Ring) RegisterBuffers(bufs [][]byte) error { return r.submitter.RegisterBuffers(bufs) }

// UnregisterBuffers is a convenience passthrough to Submitter.UnregisterBuffers.
func (r *Ring) UnregisterBuffers() error { return r.submitter.UnregisterBuffers() }

// RegisterFiles is a convenience passthrough to Submitter.RegisterFiles.
func (r *Ring) RegisterFiles(fds []int) error { return r.submitter.RegisterFiles(fds) }

// UnregisterFiles is a convenience passthrough to Submitter.UnregisterFiles.
func (r *Ring) UnregisterFiles() error { return r.submitter.UnregisterFiles() }

// RegisterEventfd is a convenience passthrough to Submitter.RegisterEventfd.
func (r *Ring) RegisterEventfd(eventfd int) error { return r.submitter.RegisterEventfd(eventfd) }

// UnregisterEventfd is a convenience passthrough to Submitter.UnregisterEventfd.
func (r *Ring) UnregisterEventfd() error { return r.submitter.UnregisterEventfd() }

// Close tears the ring down: unmaps every region, then closes the fd.
// Reversing that order is undefined per the kernel's contract, so Close
// always does it in this sequence regardless of what state the queues are
// in. Safe to call more than once.
func (r *Ring) Close() error {
	if r.closed.Swap(true) {
		return nil
	}
	r.mm.close()
	return sys.Close(r.fd)
}
