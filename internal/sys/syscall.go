//go:build linux

package sys

import (
	"unsafe"

	"golang.org/x/sys/unix"
)

// Setup creates a new io_uring instance.
// Returns the ring file descriptor on success, or an error.
func Setup(entries uint32, params *Params) (int, error) {
	fd, _, errno := unix.Syscall(
		unix.SYS_IO_URING_SETUP,
		uintptr(entries),
		uintptr(unsafe.Pointer(params)),
		0,
	)
	if errno != 0 {
		return 0, errno
	}
	return int(fd), nil
}

// Enter submits SQEs and/or waits for CQEs.
// toSubmit: number of SQEs to submit
// minComplete: minimum CQEs to wait for (if flags includes IORING_ENTER_GETEVENTS)
// flags: IORING_ENTER_* flags
// sig: optional signal mask (can be nil)
func Enter(fd int, toSubmit, minComplete, flags uint32, sig unsafe.Pointer) (int, error) {
	var sigPtr uintptr
	var sigSz uintptr
	if sig != nil {
		sigPtr = uintptr(sig)
		sigSz = unix.SizeofSigset
	}

	n, _, errno := unix.Syscall6(
		unix.SYS_IO_URING_ENTER,
		uintptr(fd),
		uintptr(toSubmit),
		uintptr(minComplete),
		uintptr(flags),
		sigPtr,
		sigSz,
	)
	if errno != 0 {
		return 0, errno
	}
	return int(n), nil
}

// EnterExt uses the extended enter argument (IORING_ENTER_EXT_ARG).
func EnterExt(fd int, toSubmit, minComplete, flags uint32, arg *GetEventsArg) (int, error) {
	n, _, errno := unix.Syscall6(
		unix.SYS_IO_URING_ENTER,
		uintptr(fd),
		uintptr(toSubmit),
		uintptr(minComplete),
		uintptr(flags|IORING_ENTER_EXT_ARG),
		uintptr(unsafe.Pointer(arg)),
		unsafe.Sizeof(*arg),
	)
	if errno != 0 {
		return 0, errno
	}
	return int(n), nil
}

// Register performs ring registration operations.
// opcode: IORING_REGISTER_* or IORING_UNREGISTER_*
// arg: operation-specific argument (can be nil)
// nrArgs: number of arguments
func Register(fd int, opcode uint32, arg unsafe.Pointer, nrArgs uint32) error {
	_, _, errno := unix.Syscall6(
		unix.SYS_IO_URING_REGISTER,
		uintptr(fd),
		uintptr(opcode),
		uintptr(arg),
		uintptr(nrArgs),
		0,
		0,
	)
	if errno != 0 {
		return errno
	}
	return nil
}

// RegisterBuffers registers fixed buffers for I/O.
func RegisterBuffers(fd int, iovecs []unix.Iovec) error {
	if len(iovecs) == 0 {
		return unix.EINVAL
	}
	return Register(fd, IORING_REGISTER_BUFFERS,
		unsafe.Pointer(&iovecs[0]), uint32(len(iovecs)))
}

// UnregisterBuffers removes registered buffers.
func UnregisterBuffers(fd int) error {
	return Register(fd, IORING_UNREGISTER_BUFFERS, nil, 0)
}

// RegisterFiles registers fixed file descriptors.
func RegisterFiles(fd int, fds []int32) error {
	if len(fds) == 0 {
		return unix.EINVAL
	}
	return Register(fd, IORING_REGISTER_FILES,
		unsafe.Pointer(&fds[0]), uint32(len(fds)))
}

// UnregisterFiles removes registered files.
func UnregisterFiles(fd int) error {
	return Register(fd, IORING_UNREGISTER_FILES, nil, 0)
}

// RegisterFilesSparse reserves n empty fixed-file slots using
// IORING_REGISTER_FILES2 with a data pointer to an array of n -1 entries,
// so slots can be filled in later with RegisterFilesUpdate.
func RegisterFilesSparse(fd int, n uint32) error {
	fds := make([]int32, n)
	for i := range fds {
		fds[i] = -1
	}
	return Register(fd, IORING_REGISTER_FILES2, unsafe.Pointer(&RsrcRegister{
		Nr:   n,
		Data: uint64(uintptr(unsafe.Pointer(&fds[0]))),
	}), 1)
}

// RegisterFilesUpdate replaces registered file slots starting at offset.
func RegisterFilesUpdate(fd int, offset uint32, fds []int32) error {
	if len(fds) == 0 {
		return unix.EINVAL
	}
	upd := FilesUpdate{
		Offset: offset,
		Fds:    uint64(uintptr(unsafe.Pointer(&fds[0]))),
	}
	return Register(fd, IORING_REGISTER_FILES_UPDATE,
		unsafe.Pointer(&upd), uint32(len(fds)))
}

// RegisterEventfd registers an eventfd for completion notification.
func RegisterEventfd(fd int, eventfd int) error {
	efd := int32(eventfd)
	return Register(fd, IORING_REGISTER_EVENTFD, unsafe.Pointer(&efd), 1)
}

// UnregisterEventfd removes the registered eventfd.
func UnregisterEventfd(fd int) error {
	return Register(fd, IORING_UNREGISTER_EVENTFD, nil, 0)
}

// RegisterEventfdAsync registers eventfd for async completion only.
func RegisterEventfdAsync(fd int, eventfd int) error {
	efd := int32(eventfd)
	return Register(fd, IORING_REGISTER_EVENTFD_ASYNC, unsafe.Pointer(&efd), 1)
}

// RegisterProbe queries supported operations.
func RegisterProbe(fd int, probe *Probe) error {
	return Register(fd, IORING_REGISTER_PROBE,
		unsafe.Pointer(probe), uint32(IORING_OP_LAST))
}

// RegisterPersonality registers the caller's current credentials and
// returns the personality id the kernel assigned.
func RegisterPersonality(fd int) (int, error) {
	id, _, errno := unix.Syscall6(
		unix.SYS_IO_URING_REGISTER,
		uintptr(fd),
		uintptr(IORING_REGISTER_PERSONALITY),
		0, 0, 0, 0,
	)
	if errno != 0 {
		return 0, errno
	}
	return int(id), nil
}

// UnregisterPersonality drops a previously registered personality id.
func UnregisterPersonality(fd int, id int) error {
	_, _, errno := unix.Syscall6(
		unix.SYS_IO_URING_REGISTER,
		uintptr(fd),
		uintptr(IORING_UNREGISTER_PERSONALITY),
		uintptr(id), 0, 0, 0,
	)
	if errno != 0 {
		return errno
	}
	return nil
}

// RegisterRestrictions installs the given restriction set. The ring must
// have been built with r_disabled for this to be meaningful.
func RegisterRestrictions(fd int, res []Restriction) error {
	if len(res) == 0 {
		return unix.EINVAL
	}
	return Register(fd, IORING_REGISTER_RESTRICTIONS,
		unsafe.Pointer(&res[0]), uint32(len(res)))
}

// RegisterEnableRings enables a ring built with r_disabled.
func RegisterEnableRings(fd int) error {
	return Register(fd, IORING_REGISTER_ENABLE_RINGS, nil, 0)
}

// RegisterIOWQMaxWorkers gets (and optionally sets) the bounded/unbounded
// async worker limits. arg is read on entry (0 means "leave unchanged, just
// report") and overwritten on return with the previous values.
func RegisterIOWQMaxWorkers(fd int, arg *IOWQMaxWorkersArg) error {
	return Register(fd, IORING_REGISTER_IOWQ_MAX_WORKERS, unsafe.Pointer(arg), 2)
}

// RegisterPBufRing registers a provided-buffer ring.
func RegisterPBufRing(fd int, setup *BufRingSetup) error {
	return Register(fd, IORING_REGISTER_PBUF_RING, unsafe.Pointer(setup), 1)
}

// UnregisterPBufRing removes a provided-buffer ring by group id.
func UnregisterPBufRing(fd int, bgid uint16) error {
	arg := BufRingSetup{BGid: bgid}
	return Register(fd, IORING_UNREGISTER_PBUF_RING, unsafe.Pointer(&arg), 1)
}

// RegisterSyncCancel issues a synchronous cancellation matching reg's
// user_data/fd/flags, blocking up to reg.Timeout for the matched operation
// to complete.
func RegisterSyncCancel(fd int, reg *SyncCancelReg) error {
	return Register(fd, IORING_REGISTER_SYNC_CANCEL, unsafe.Pointer(reg), 1)
}

// Mmap wraps the mmap syscall for mapping ring buffers.
func Mmap(fd int, offset uint64, length int, prot, flags int) ([]byte, error) {
	return unix.Mmap(fd, int64(offset), length, prot, flags)
}

// Munmap unmaps a previously mapped region.
func Munmap(data []byte) error {
	return unix.Munmap(data)
}

// Madvise applies an madvise hint (e.g. MADV_DONTFORK) to a mapped region.
func Madvise(data []byte, advice int) error {
	return unix.Madvise(data, advice)
}

// Close closes a file descriptor.
func Close(fd int) error {
	return unix.Close(fd)
}
