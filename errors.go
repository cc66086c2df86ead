//go:build linux

package iouring

import (
	stderrors "errors"

	"github.com/pkg/errors"
	"golang.org/x/sys/unix"
)

// Sentinel errors a caller can compare against with errors.Is.
var (
	ErrRingClosed   = stderrors.New("iouring: ring closed")
	ErrSQFull       = stderrors.New("iouring: submission queue full")
	ErrCQEmpty      = stderrors.New("iouring: no completion available")
	ErrCQOverflow   = stderrors.New("iouring: completion queue overflow")
	ErrNotSupported = stderrors.New("iouring: operation not supported on this kernel")
	ErrSlotNotOwned = stderrors.New("iouring: publishing an unreserved SQ slot")
)

// SetupError wraps a failed io_uring_setup call.
type SetupError struct {
	Errno error
}

func (e *SetupError) Error() string { return errors.Wrap(e.Errno, "io_uring_setup").Error() }
func (e *SetupError) Unwrap() error { return e.Errno }

// MapError wraps a failed mmap/madvise call. munmap failures are not
// reported.
type MapError struct {
	Op    string
	Errno error
}

func (e *MapError) Error() string { return errors.Wrapf(e.Errno, "%s", e.Op).Error() }
func (e *MapError) Unwrap() error { return e.Errno }

// QueueFullError is returned by SubmissionQueue.Push when no slot is free.
type QueueFullError struct{}

func (e *QueueFullError) Error() string { return ErrSQFull.Error() }
func (e *QueueFullError) Is(target error) bool { return target == ErrSQFull }

// QueueEmptyError is returned by CompletionQueue.Pop when nothing is ready.
type QueueEmptyError struct{}

func (e *QueueEmptyError) Error() string { return ErrCQEmpty.Error() }
func (e *QueueEmptyError) Is(target error) bool { return target == ErrCQEmpty }

// EnterError wraps a non-zero io_uring_enter result. Notable Errno values
// include EINTR, EAGAIN, EBUSY, and ETIME; none of these are retried by the
// core layer.
type EnterError struct {
	Errno error
}

func (e *EnterError) Error() string { return errors.Wrap(e.Errno, "io_uring_enter").Error() }
func (e *EnterError) Unwrap() error { return e.Errno }

// RegisterError wraps a non-zero io_uring_register result.
type RegisterError struct {
	Op    uint32
	Errno error
}

func (e *RegisterError) Error() string {
	return errors.Wrapf(e.Errno, "io_uring_register(op=%d)", e.Op).Error()
}
func (e *RegisterError) Unwrap() error { return e.Errno }

// UnsupportedOpError signals that the caller requested an opcode the kernel
// probe does not report as supported.
type UnsupportedOpError struct {
	Op uint8
}

func (e *UnsupportedOpError) Error() string {
	return errors.Wrapf(ErrNotSupported, "op=%d", e.Op).Error()
}
func (e *UnsupportedOpError) Is(target error) bool { return target == ErrNotSupported }

// resultError converts a negative CQE/syscall result into a plain errno
// error, or nil if res is non-negative.
func resultError(res int32) error {
	if res >= 0 {
		return nil
	}
	return unix.Errno(-res)
}

// ResultError is the exported form of resultError, kept for callers that
// decode a raw CQE.Res value themselves (e.g. in a CompletionQueue.ForEach
// callback).
func ResultError(res int32) error {
	return resultError(res)
}
