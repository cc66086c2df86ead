//go:build linux

package iouring

import (
	"context"
	"sync"
	"time"
	"unsafe"

	"golang.org/x/sys/unix"

	"github.com/coreuring/iouring/internal/sys"
)

// Submitter is the single entity that talks to the kernel through
// io_uring_enter and io_uring_register. A Ring owns one; Ring.Split hands
// out the same Submitter alongside its SubmissionQueue and CompletionQueue
// so a caller can run submission and completion processing on separate
// goroutines without the Ring type itself needing to serialize them.
//
// Submitter takes an internal lock around the SQ tail publish (Sync) so
// that concurrent Submit/SubmitAndWait calls do not race on it;
// it never touches CQ state, which the kernel and the caller's own
// consumer loop own exclusively.
type Submitter struct {
	fd     int
	sqpoll bool
	iopoll bool
	extArg bool

	mu sync.Mutex
	sq *SubmissionQueue
}

func newSubmitter(fd int, p *sys.Params, sq *SubmissionQueue) *Submitter {
	return &Submitter{
		fd:     fd,
		sqpoll: p.Flags&sys.IORING_SETUP_SQPOLL != 0,
		iopoll: p.Flags&sys.IORING_SETUP_IOPOLL != 0,
		extArg: p.Features&sys.IORING_FEAT_EXT_ARG != 0,
		sq:     sq,
	}
}

// Fd returns the ring file descriptor, for callers that poll it directly
// (epoll, IORING_REGISTER_RING_FDS, or a second ring's MSG_RING target).
func (s *Submitter) Fd() int { return s.fd }

// Submit publishes every SQE reserved since the last Sync and asks the
// kernel to process them, without waiting for any completion. Equivalent
// to SubmitAndWait(0).
func (s *Submitter) Submit() (int, error) {
	return s.SubmitAndWait(0)
}

// SubmitAndWait publishes pending SQEs and blocks until at least want
// completions are posted (0 returns as soon as submission is done).
//
// The enter flags follow the same decision every caller of io_uring_enter
// must make: GETEVENTS is set whenever the caller wants completions,
// io_uring is in IOPOLL mode (completions only appear via enter), or the
// SQ flags show the kernel has completions backlogged from a prior
// overflow. When SQPOLL is active and the poll thread hasn't gone to
// sleep, no syscall is needed at all to make the kernel see new entries,
// but a syscall is still required to collect completions, so that path is
// only taken when want is 0.
func (s *Submitter) SubmitAndWait(want uint32) (int, error) {
	s.mu.Lock()
	submitted := s.sq.Sync()
	s.mu.Unlock()

	flags := s.enterFlags(want)

	if s.sqpoll && want == 0 && flags&sys.IORING_ENTER_SQ_WAKEUP == 0 {
		return int(submitted), nil
	}

	n, err := sys.Enter(s.fd, submitted, want, flags, nil)
	if err != nil {
		return 0, &EnterError{Errno: err}
	}
	return n, nil
}

// SubmitWithArgs is SubmitAndWait extended with a timeout and/or signal
// mask, using IORING_ENTER_EXT_ARG. A nil timeout blocks indefinitely for
// want completions; a zero duration returns immediately if none are ready.
func (s *Submitter) SubmitWithArgs(want uint32, timeout *time.Duration, sigmask *unix.Sigset_t) (int, error) {
	s.mu.Lock()
	submitted := s.sq.Sync()
	s.mu.Unlock()

	flags := s.enterFlags(want)

	var arg sys.GetEventsArg
	if sigmask != nil {
		arg.Sigmask = uint64(uintptr(unsafe.Pointer(sigmask)))
		arg.SigmaskSz = unix.SizeofSigset
	}
	if timeout != nil {
		ts := sys.Timespec{
			Sec:  int64(*timeout / time.Second),
			Nsec: int64(*timeout % time.Second),
		}
		arg.Ts = uint64(uintptr(unsafe.Pointer(&ts)))
	}

	n, err := sys.EnterExt(s.fd, submitted, want, flags, &arg)
	if err != nil {
		return 0, &EnterError{Errno: err}
	}
	return n, nil
}

// SQWait blocks until the SQ has room without submitting anything, using
// IORING_ENTER_SQ_WAIT. Useful for an SQPOLL producer that wants to avoid
// polling Space() in a tight loop.
func (s *Submitter) SQWait() error {
	_, err := sys.Enter(s.fd, 0, 0, sys.IORING_ENTER_SQ_WAIT, nil)
	if err != nil {
		return &EnterError{Errno: err}
	}
	return nil
}

func (s *Submitter) enterFlags(want uint32) uint32 {
	var flags uint32
	if want > 0 || s.iopoll || s.sq.cqOverflow() {
		flags |= sys.IORING_ENTER_GETEVENTS
	}
	if s.sqpoll && s.sq.needsWakeup() {
		flags |= sys.IORING_ENTER_SQ_WAKEUP
	}
	return flags
}

// waitCQE blocks on cq/sq until at least one completion is ready or an
// error occurs, and returns it without advancing the CQ head. The caller
// must still call cq.Pop or cq.Advance.
func waitCQE(s *Submitter, cq *CompletionQueue) (sys.CQE, error) {
	if cqe, ok := cq.Peek(); ok {
		return cqe, nil
	}
	if _, err := s.SubmitAndWait(1); err != nil {
		return sys.CQE{}, err
	}
	if cqe, ok := cq.Peek(); ok {
		return cqe, nil
	}
	return sys.CQE{}, unix.EAGAIN
}

// waitCQETimeout blocks until a completion is ready or timeout elapses,
// using EXT_ARG when the kernel supports it and falling back to a short
// polling loop of SubmitAndWait calls otherwise.
func waitCQETimeout(s *Submitter, cq *CompletionQueue, timeout time.Duration) (sys.CQE, error) {
	if cqe, ok := cq.Peek(); ok {
		return cqe, nil
	}

	if !s.extArg {
		deadline := time.Now().Add(timeout)
		for {
			if cqe, ok := cq.Peek(); ok {
				return cqe, nil
			}
			if time.Until(deadline) <= 0 {
				return sys.CQE{}, unix.ETIME
			}
			if _, err := s.SubmitAndWait(1); err != nil {
				if ee, ok := err.(*EnterError); ok && ee.Errno == unix.EINTR {
					continue
				}
				return sys.CQE{}, err
			}
		}
	}

	if _, err := s.SubmitWithArgs(1, &timeout, nil); err != nil {
		if ee, ok := err.(*EnterError); ok && ee.Errno == unix.ETIME {
			return sys.CQE{}, unix.ETIME
		}
		return sys.CQE{}, err
	}
	if cqe, ok := cq.Peek(); ok {
		return cqe, nil
	}
	return sys.CQE{}, unix.ETIME
}

// waitCQEContext blocks until a completion is ready or ctx is done,
// polling with a short waitCQETimeout (100ms) so ctx cancellation is
// noticed promptly.
func waitCQEContext(ctx context.Context, s *Submitter, cq *CompletionQueue) (sys.CQE, error) {
	if cqe, ok := cq.Peek(); ok {
		return cqe, nil
	}
	for {
		select {
		case <-ctx.Done():
			return sys.CQE{}, ctx.Err()
		default:
		}
		cqe, err := waitCQETimeout(s, cq, 100*time.Millisecond)
		if err == unix.ETIME {
			continue
		}
		return cqe, err
	}
}
