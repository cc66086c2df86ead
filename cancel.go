//go:build linux

package iouring

import "github.com/coreuring/iouring/internal/sys"

// CancelBuilder is the richer cancellation match descriptor used by
// AsyncCancel2 and RegisterSyncCancel: instead of matching a single
// user_data, it can match by fd and/or a combination of ALL/FD/ANY flags.
type CancelBuilder struct {
	userData uint64
	fd       int32
	flags    uint32
}

// NewCancelBuilder starts a match descriptor with no criteria set; combine
// with UserData/Fd/All/Any to narrow it.
func NewCancelBuilder() CancelBuilder {
	return CancelBuilder{fd: -1}
}

// UserData matches the operation whose SQE carried this user_data.
func (c CancelBuilder) UserData(v uint64) CancelBuilder {
	c.userData = v
	return c
}

// Fd matches operations issued against this file descriptor.
func (c CancelBuilder) Fd(fd int) CancelBuilder {
	c.fd = int32(fd)
	c.flags |= sys.IORING_ASYNC_CANCEL_FD
	return c
}

// FixedFd matches operations issued against this registered-file index.
func (c CancelBuilder) FixedFd(index int32) CancelBuilder {
	c.fd = index
	c.flags |= sys.IORING_ASYNC_CANCEL_FD | sys.IORING_ASYNC_CANCEL_FD_FIXED
	return c
}

// All cancels every match instead of just the first one found.
func (c CancelBuilder) All() CancelBuilder {
	c.flags |= sys.IORING_ASYNC_CANCEL_ALL
	return c
}

// Any relaxes the match to any criteria rather than requiring all of them.
func (c CancelBuilder) Any() CancelBuilder {
	c.flags |= sys.IORING_ASYNC_CANCEL_ANY
	return c
}

// syncCancelReg converts the builder into the register-syscall argument
// shape, applying timeout (nil leaves the timeout zero; SyncCancel replaces
// that with -1/-1, which waits indefinitely).
func (c CancelBuilder) syncCancelReg(timeout *sys.Timespec) sys.SyncCancelReg {
	reg := sys.SyncCancelReg{
		Addr:  c.userData,
		Fd:    c.fd,
		Flags: c.flags,
	}
	if timeout != nil {
		reg.Timeout = *timeout
	}
	return reg
}
