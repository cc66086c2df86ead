//go:build linux

package iouring

import (
	"unsafe"

	"golang.org/x/sys/unix"

	"github.com/coreuring/iouring/internal/sys"
)

// This file is the opcode catalog: one small constructor per kernel
// operation, each producing an Entry with only the fields that operation
// uses. The plain read/write shape (fd, addr, len, off) is built by the
// unexported rwEntry helper below; the other constructors start from
// newEntry and set their fields directly.

func ptrAddr(p unsafe.Pointer) uint64 { return uint64(uintptr(p)) }

func rwEntry(op sys.Op, fd int, addr uint64, length uint32, offset uint64) Entry {
	e := newEntry(op)
	e.raw.Fd = int32(fd)
	e.raw.Addr = addr
	e.raw.Len = length
	e.raw.Off = offset
	return e
}

// --- Identity ---

// Nop builds a no-op SQE. Useful for testing the round trip and for waking
// an SQPOLL thread without doing real I/O.
func Nop() Entry {
	return newEntry(sys.IORING_OP_NOP)
}

// --- File I/O ---

// Read builds a plain read of len(buf) bytes from fd at offset.
func Read(fd int, buf []byte, offset uint64) Entry {
	if len(buf) == 0 {
		return rwEntry(sys.IORING_OP_READ, fd, 0, 0, offset)
	}
	return rwEntry(sys.IORING_OP_READ, fd, ptrAddr(unsafe.Pointer(&buf[0])), uint32(len(buf)), offset)
}

// Write builds a plain write of buf to fd at offset.
func Write(fd int, buf []byte, offset uint64) Entry {
	if len(buf) == 0 {
		return rwEntry(sys.IORING_OP_WRITE, fd, 0, 0, offset)
	}
	return rwEntry(sys.IORING_OP_WRITE, fd, ptrAddr(unsafe.Pointer(&buf[0])), uint32(len(buf)), offset)
}

// Readv builds a vectored read. iovecs must stay alive until completion.
func Readv(fd int, iovecs []unix.Iovec, offset uint64) Entry {
	return rwEntry(sys.IORING_OP_READV, fd, ptrAddr(unsafe.Pointer(&iovecs[0])), uint32(len(iovecs)), offset)
}

// Writev builds a vectored write. iovecs must stay alive until completion.
func Writev(fd int, iovecs []unix.Iovec, offset uint64) Entry {
	return rwEntry(sys.IORING_OP_WRITEV, fd, ptrAddr(unsafe.Pointer(&iovecs[0])), uint32(len(iovecs)), offset)
}

// ReadFixed reads into a pre-registered buffer identified by bufIndex.
func ReadFixed(fd int, buf []byte, offset uint64, bufIndex uint16) Entry {
	e := rwEntry(sys.IORING_OP_READ_FIXED, fd, ptrAddr(unsafe.Pointer(&buf[0])), uint32(len(buf)), offset)
	e.raw.BufIndex = bufIndex
	return e
}

// WriteFixed writes from a pre-registered buffer identified by bufIndex.
func WriteFixed(fd int, buf []byte, offset uint64, bufIndex uint16) Entry {
	e := rwEntry(sys.IORING_OP_WRITE_FIXED, fd, ptrAddr(unsafe.Pointer(&buf[0])), uint32(len(buf)), offset)
	e.raw.BufIndex = bufIndex
	return e
}

// Fsync builds an fsync/fdatasync. flags is 0 or IORING_FSYNC_DATASYNC.
func Fsync(fd int, flags uint32) Entry {
	e := newEntry(sys.IORING_OP_FSYNC)
	e.raw.Fd = int32(fd)
	e.raw.OpFlags = flags
	return e
}

// SyncFileRange mirrors sync_file_range(2).
func SyncFileRange(fd int, length uint32, offset uint64, flags uint32) Entry {
	e := rwEntry(sys.IORING_OP_SYNC_FILE_RANGE, fd, 0, length, offset)
	e.raw.OpFlags = flags
	return e
}

// Fallocate mirrors fallocate(2).
func Fallocate(fd int, mode uint32, offset uint64, length uint64) Entry {
	e := newEntry(sys.IORING_OP_FALLOCATE)
	e.raw.Fd = int32(fd)
	e.raw.Off = offset
	e.raw.Addr = length
	e.raw.Len = mode
	return e
}

// Fadvise mirrors posix_fadvise(2).
func Fadvise(fd int, offset uint64, length uint32, advice uint32) Entry {
	e := rwEntry(sys.IORING_OP_FADVISE, fd, 0, length, offset)
	e.raw.OpFlags = advice
	return e
}

// Madvise mirrors madvise(2) on a user memory range (not a ring region).
func Madvise(addr unsafe.Pointer, length uint32, advice uint32) Entry {
	e := rwEntry(sys.IORING_OP_MADVISE, -1, ptrAddr(addr), length, 0)
	e.raw.OpFlags = advice
	return e
}

// Statx mirrors statx(2). path must be a NUL-terminated byte slice and buf
// must both stay alive until completion.
func Statx(dirfd int, path *byte, flags uint32, mask uint32, buf unsafe.Pointer) Entry {
	e := newEntry(sys.IORING_OP_STATX)
	e.raw.Fd = int32(dirfd)
	e.raw.Addr = ptrAddr(unsafe.Pointer(path))
	e.raw.Len = mask
	e.raw.OpFlags = flags
	e.raw.Off = ptrAddr(buf)
	return e
}

// Close closes fd.
func Close(fd int) Entry {
	e := newEntry(sys.IORING_OP_CLOSE)
	e.raw.Fd = int32(fd)
	return e
}

// OpenAt mirrors openat(2). path must stay alive until completion.
func OpenAt(dirfd int, path *byte, flags uint32, mode uint32) Entry {
	e := newEntry(sys.IORING_OP_OPENAT)
	e.raw.Fd = int32(dirfd)
	e.raw.Addr = ptrAddr(unsafe.Pointer(path))
	e.raw.Len = mode
	e.raw.OpFlags = flags
	return e
}

// OpenAt2 mirrors openat2(2), taking a struct open_how directly. how must
// stay alive until completion.
func OpenAt2(dirfd int, path *byte, how *sys.OpenHow) Entry {
	e := newEntry(sys.IORING_OP_OPENAT2)
	e.raw.Fd = int32(dirfd)
	e.raw.Addr = ptrAddr(unsafe.Pointer(path))
	e.raw.Off = ptrAddr(unsafe.Pointer(how))
	e.raw.Len = uint32(unsafe.Sizeof(sys.OpenHow{}))
	return e
}

// UnlinkAt mirrors unlinkat(2).
func UnlinkAt(dirfd int, path *byte, flags uint32) Entry {
	e := newEntry(sys.IORING_OP_UNLINKAT)
	e.raw.Fd = int32(dirfd)
	e.raw.Addr = ptrAddr(unsafe.Pointer(path))
	e.raw.OpFlags = flags
	return e
}

// RenameAt mirrors renameat2(2).
func RenameAt(olddirfd int, oldpath *byte, newdirfd int, newpath *byte, flags uint32) Entry {
	e := newEntry(sys.IORING_OP_RENAMEAT)
	e.raw.Fd = int32(olddirfd)
	e.raw.Addr = ptrAddr(unsafe.Pointer(oldpath))
	e.raw.Len = uint32(newdirfd)
	e.raw.Off = ptrAddr(unsafe.Pointer(newpath))
	e.raw.OpFlags = flags
	return e
}

// MkDirAt mirrors mkdirat(2).
func MkDirAt(dirfd int, path *byte, mode uint32) Entry {
	e := newEntry(sys.IORING_OP_MKDIRAT)
	e.raw.Fd = int32(dirfd)
	e.raw.Addr = ptrAddr(unsafe.Pointer(path))
	e.raw.Len = mode
	return e
}

// SymLinkAt mirrors symlinkat(2).
func SymLinkAt(target *byte, newdirfd int, linkpath *byte) Entry {
	e := newEntry(sys.IORING_OP_SYMLINKAT)
	e.raw.Fd = int32(newdirfd)
	e.raw.Addr = ptrAddr(unsafe.Pointer(target))
	e.raw.Off = ptrAddr(unsafe.Pointer(linkpath))
	return e
}

// LinkAt mirrors linkat(2).
func LinkAt(olddirfd int, oldpath *byte, newdirfd int, newpath *byte, flags uint32) Entry {
	e := newEntry(sys.IORING_OP_LINKAT)
	e.raw.Fd = int32(olddirfd)
	e.raw.Addr = ptrAddr(unsafe.Pointer(oldpath))
	e.raw.Len = uint32(newdirfd)
	e.raw.Off = ptrAddr(unsafe.Pointer(newpath))
	e.raw.OpFlags = flags
	return e
}

// Splice moves data between two file descriptors via the kernel pipe,
// without passing it through user space. At least one of fdIn/fdOut must
// be a pipe end per the splice(2) contract.
func Splice(fdIn int, offIn int64, fdOut int, offOut int64, nbytes uint32, flags uint32) Entry {
	e := newEntry(sys.IORING_OP_SPLICE)
	e.raw.Fd = int32(fdOut)
	e.raw.SpliceFdIn = int32(fdIn)
	e.raw.Len = nbytes
	e.raw.Off = uint64(offOut)
	e.raw.SetSpliceOffIn(uint64(offIn))
	e.raw.OpFlags = flags
	return e
}

// Tee duplicates data between two pipes without consuming it, per tee(2).
func Tee(fdIn, fdOut int, nbytes uint32, flags uint32) Entry {
	e := newEntry(sys.IORING_OP_TEE)
	e.raw.Fd = int32(fdOut)
	e.raw.SpliceFdIn = int32(fdIn)
	e.raw.Len = nbytes
	e.raw.OpFlags = flags
	return e
}

// SendFile moves nbytes from fdIn to fdOut the way sendfile(2) does. Built
// on the same splice mechanics the kernel uses to implement sendfile(2)
// itself; one side still needs to be a pipe.
func SendFile(fdOut, fdIn int, offset int64, nbytes uint32) Entry {
	return Splice(fdIn, offset, fdOut, -1, nbytes, 0)
}

// FGetXattr mirrors fgetxattr(2). name, value must stay alive until completion.
func FGetXattr(fd int, name *byte, value []byte) Entry {
	e := newEntry(sys.IORING_OP_FGETXATTR)
	e.raw.Fd = int32(fd)
	e.raw.Addr = ptrAddr(unsafe.Pointer(name))
	if len(value) > 0 {
		e.raw.Off = ptrAddr(unsafe.Pointer(&value[0]))
	}
	e.raw.Len = uint32(len(value))
	return e
}

// FSetXattr mirrors fsetxattr(2).
func FSetXattr(fd int, name *byte, value []byte, flags uint32) Entry {
	e := newEntry(sys.IORING_OP_FSETXATTR)
	e.raw.Fd = int32(fd)
	e.raw.Addr = ptrAddr(unsafe.Pointer(name))
	if len(value) > 0 {
		e.raw.Off = ptrAddr(unsafe.Pointer(&value[0]))
	}
	e.raw.Len = uint32(len(value))
	e.raw.OpFlags = flags
	return e
}

// GetXattr mirrors getxattr(2) against a path rather than an fd.
func GetXattr(path *byte, name *byte, value []byte) Entry {
	e := newEntry(sys.IORING_OP_GETXATTR)
	e.raw.Fd = -1
	e.raw.Addr = ptrAddr(unsafe.Pointer(name))
	e.raw.Addr3 = ptrAddr(unsafe.Pointer(path))
	if len(value) > 0 {
		e.raw.Off = ptrAddr(unsafe.Pointer(&value[0]))
	}
	e.raw.Len = uint32(len(value))
	return e
}

// SetXattr mirrors setxattr(2) against a path rather than an fd.
func SetXattr(path *byte, name *byte, value []byte, flags uint32) Entry {
	e := newEntry(sys.IORING_OP_SETXATTR)
	e.raw.Fd = -1
	e.raw.Addr = ptrAddr(unsafe.Pointer(name))
	e.raw.Addr3 = ptrAddr(unsafe.Pointer(path))
	if len(value) > 0 {
		e.raw.Off = ptrAddr(unsafe.Pointer(&value[0]))
	}
	e.raw.Len = uint32(len(value))
	e.raw.OpFlags = flags
	return e
}

// FilesUpdate asynchronously updates registered file slots via an SQE
// (rather than the synchronous register_files_update call).
func FilesUpdate(fds []int32, offset uint32) Entry {
	e := newEntry(sys.IORING_OP_FILES_UPDATE)
	e.raw.Fd = -1
	e.raw.Addr = ptrAddr(unsafe.Pointer(&fds[0]))
	e.raw.Len = uint32(len(fds))
	e.raw.Off = uint64(offset)
	return e
}

// Shutdown mirrors shutdown(2). how is SHUT_RD/SHUT_WR/SHUT_RDWR.
func Shutdown(fd int, how int) Entry {
	e := newEntry(sys.IORING_OP_SHUTDOWN)
	e.raw.Fd = int32(fd)
	e.raw.Len = uint32(how)
	return e
}

// --- Polling ---

// PollAdd arms a poll for the given event mask.
func PollAdd(fd int, mask uint32) Entry {
	e := newEntry(sys.IORING_OP_POLL_ADD)
	e.raw.Fd = int32(fd)
	e.raw.OpFlags = mask
	return e
}

// PollAddMultishot arms a poll that keeps producing CQEs until removed.
func PollAddMultishot(fd int, mask uint32) Entry {
	e := PollAdd(fd, mask)
	e.raw.Len = sys.IORING_POLL_ADD_MULTI
	return e
}

// PollRemove cancels a previously armed poll identified by its user_data.
func PollRemove(targetUserData uint64) Entry {
	e := newEntry(sys.IORING_OP_POLL_REMOVE)
	e.raw.Fd = -1
	e.raw.Addr = targetUserData
	return e
}

// PollUpdate changes both the mask and the user_data of an armed multishot
// poll; IORING_POLL_UPDATE_EVENTS and IORING_POLL_UPDATE_USER_DATA are
// always set in addition to flags.
func PollUpdate(targetUserData, newUserData uint64, newMask uint32, flags uint32) Entry {
	e := newEntry(sys.IORING_OP_POLL_REMOVE)
	e.raw.Fd = -1
	e.raw.Addr = targetUserData
	e.raw.Off = newUserData
	e.raw.OpFlags = newMask
	e.raw.Len = flags | sys.IORING_POLL_UPDATE_EVENTS | sys.IORING_POLL_UPDATE_USER_DATA
	return e
}

// --- Timers ---

// Timeout arms a standalone timeout that completes after ts, or once count
// other CQEs have posted, whichever comes first.
func Timeout(ts *sys.Timespec, count uint64, flags uint32) Entry {
	e := newEntry(sys.IORING_OP_TIMEOUT)
	e.raw.Fd = -1
	e.raw.Addr = ptrAddr(unsafe.Pointer(ts))
	e.raw.Len = 1
	e.raw.Off = count
	e.raw.OpFlags = flags
	return e
}

// TimeoutRemove cancels a previously armed timeout by its user_data.
func TimeoutRemove(targetUserData uint64) Entry {
	e := newEntry(sys.IORING_OP_TIMEOUT_REMOVE)
	e.raw.Fd = -1
	e.raw.Addr = targetUserData
	return e
}

// TimeoutUpdate rearms a previously armed timeout with a new duration.
func TimeoutUpdate(targetUserData uint64, ts *sys.Timespec, flags uint32) Entry {
	e := newEntry(sys.IORING_OP_TIMEOUT_REMOVE)
	e.raw.Fd = -1
	e.raw.Addr = targetUserData
	e.raw.Off = ptrAddr(unsafe.Pointer(ts))
	e.raw.OpFlags = flags | sys.IORING_TIMEOUT_UPDATE
	return e
}

// LinkTimeout bounds the duration of the SQE it's linked after via IO_LINK.
func LinkTimeout(ts *sys.Timespec, flags uint32) Entry {
	e := newEntry(sys.IORING_OP_LINK_TIMEOUT)
	e.raw.Fd = -1
	e.raw.Addr = ptrAddr(unsafe.Pointer(ts))
	e.raw.Len = 1
	e.raw.OpFlags = flags
	return e
}

// --- Sockets ---

// Accept mirrors accept4(2). addr/addrLen may be nil if the peer address
// isn't needed.
func Accept(fd int, addr unsafe.Pointer, addrLen *uint32, flags uint32) Entry {
	e := newEntry(sys.IORING_OP_ACCEPT)
	e.raw.Fd = int32(fd)
	e.raw.Addr = ptrAddr(addr)
	e.raw.Off = ptrAddr(unsafe.Pointer(addrLen))
	e.raw.OpFlags = flags
	return e
}

// AcceptMulti arms a multishot accept: one SQE, a CQE per inbound
// connection until canceled.
func AcceptMulti(fd int, addr unsafe.Pointer, addrLen *uint32, flags uint32) Entry {
	e := Accept(fd, addr, addrLen, flags)
	e.raw.Ioprio = uint16(sys.IORING_ACCEPT_MULTISHOT)
	return e
}

// Connect mirrors connect(2).
func Connect(fd int, addr unsafe.Pointer, addrLen uint32) Entry {
	e := newEntry(sys.IORING_OP_CONNECT)
	e.raw.Fd = int32(fd)
	e.raw.Addr = ptrAddr(addr)
	e.raw.Off = uint64(addrLen)
	return e
}

// Send mirrors send(2).
func Send(fd int, buf []byte, flags uint32) Entry {
	e := rwEntry(sys.IORING_OP_SEND, fd, 0, uint32(len(buf)), 0)
	if len(buf) > 0 {
		e.raw.Addr = ptrAddr(unsafe.Pointer(&buf[0]))
	}
	e.raw.OpFlags = flags
	return e
}

// SendZc mirrors send(2) with zero-copy notification semantics: a second
// CQE with IORING_CQE_F_NOTIF marks when the buffer is safe to reuse.
func SendZc(fd int, buf []byte, flags uint32) Entry {
	e := Send(fd, buf, flags)
	e.raw.Opcode = uint8(sys.IORING_OP_SEND_ZC)
	return e
}

// Recv mirrors recv(2).
func Recv(fd int, buf []byte, flags uint32) Entry {
	e := rwEntry(sys.IORING_OP_RECV, fd, 0, uint32(len(buf)), 0)
	if len(buf) > 0 {
		e.raw.Addr = ptrAddr(unsafe.Pointer(&buf[0]))
	}
	e.raw.OpFlags = flags
	return e
}

// RecvMulti arms a multishot recv pulling buffers from bufGroup, producing
// one CQE per inbound chunk until canceled.
func RecvMulti(fd int, bufGroup uint16, flags uint32) Entry {
	e := newEntry(sys.IORING_OP_RECV)
	e.raw.Fd = int32(fd)
	e.raw.Ioprio = sys.IORING_RECV_MULTISHOT
	e.raw.OpFlags = flags
	return e.BufGroup(bufGroup)
}

// SendMsg mirrors sendmsg(2). msg must stay alive until completion.
func SendMsg(fd int, msg *unix.Msghdr, flags uint32) Entry {
	e := newEntry(sys.IORING_OP_SENDMSG)
	e.raw.Fd = int32(fd)
	e.raw.Addr = ptrAddr(unsafe.Pointer(msg))
	e.raw.Len = 1
	e.raw.OpFlags = flags
	return e
}

// SendMsgZc is the zero-copy variant of SendMsg.
func SendMsgZc(fd int, msg *unix.Msghdr, flags uint32) Entry {
	e := SendMsg(fd, msg, flags)
	e.raw.Opcode = uint8(sys.IORING_OP_SENDMSG_ZC)
	return e
}

// RecvMsg mirrors recvmsg(2). msg must stay alive until completion.
func RecvMsg(fd int, msg *unix.Msghdr, flags uint32) Entry {
	e := newEntry(sys.IORING_OP_RECVMSG)
	e.raw.Fd = int32(fd)
	e.raw.Addr = ptrAddr(unsafe.Pointer(msg))
	e.raw.Len = 1
	e.raw.OpFlags = flags
	return e
}

// RecvMsgMulti arms a multishot recvmsg pulling buffers from bufGroup.
func RecvMsgMulti(fd int, msg *unix.Msghdr, bufGroup uint16, flags uint32) Entry {
	e := RecvMsg(fd, msg, flags)
	e.raw.Ioprio = sys.IORING_RECV_MULTISHOT
	return e.BufGroup(bufGroup)
}

// Bind mirrors bind(2) (5.19+).
func Bind(fd int, addr unsafe.Pointer, addrLen uint32) Entry {
	e := newEntry(sys.IORING_OP_BIND)
	e.raw.Fd = int32(fd)
	e.raw.Addr = ptrAddr(addr)
	e.raw.Off = uint64(addrLen)
	return e
}

// Listen mirrors listen(2) (5.19+).
func Listen(fd int, backlog int) Entry {
	e := newEntry(sys.IORING_OP_LISTEN)
	e.raw.Fd = int32(fd)
	e.raw.Len = uint32(backlog)
	return e
}

// SocketOp is an alias of Socket kept for symmetry with the catalog name
// used in the external op list; both build IORING_OP_SOCKET.
func SocketOp(domain, typ, protocol int, flags uint32) Entry {
	return Socket(domain, typ, protocol, flags)
}

// Socket creates a socket asynchronously; the CQE result is the new fd.
func Socket(domain, typ, protocol int, flags uint32) Entry {
	e := newEntry(sys.IORING_OP_SOCKET)
	e.raw.Fd = int32(domain)
	e.raw.Off = uint64(typ)
	e.raw.Len = uint32(protocol)
	e.raw.OpFlags = flags
	return e
}

// --- Cancellation ---

// AsyncCancel requests cancellation of the in-flight op with the given
// user_data. flags may include IORING_ASYNC_CANCEL_ALL/FD/ANY.
func AsyncCancel(targetUserData uint64, flags uint32) Entry {
	e := newEntry(sys.IORING_OP_ASYNC_CANCEL)
	e.raw.Fd = -1
	e.raw.Addr = targetUserData
	e.raw.OpFlags = flags
	return e
}

// AsyncCancel2 requests cancellation by the richer CancelBuilder match
// descriptor (fd and/or flags instead of a bare user_data).
func AsyncCancel2(c CancelBuilder) Entry {
	e := newEntry(sys.IORING_OP_ASYNC_CANCEL)
	e.raw.Fd = c.fd
	e.raw.Addr = c.userData
	e.raw.OpFlags = c.flags
	return e
}

// --- Buffer provision ---

// ProvideBuffers registers nbufs buffers of bufLen bytes each, starting at
// addr, into bufGroup starting at bid.
func ProvideBuffers(addr unsafe.Pointer, bufLen int, nbufs int, bufGroup uint16, bid int) Entry {
	e := newEntry(sys.IORING_OP_PROVIDE_BUFFERS)
	e.raw.Fd = int32(nbufs)
	e.raw.Addr = ptrAddr(addr)
	e.raw.Len = uint32(bufLen)
	e.raw.Off = uint64(bid)
	e.raw.BufIndex = bufGroup
	return e
}

// RemoveBuffers removes up to nbufs buffers from bufGroup.
func RemoveBuffers(nbufs int, bufGroup uint16) Entry {
	e := newEntry(sys.IORING_OP_REMOVE_BUFFERS)
	e.raw.Fd = int32(nbufs)
	e.raw.BufIndex = bufGroup
	return e
}

// --- Files / direct descriptors ---

// FixedFdInstall installs a registered direct descriptor as a regular
// process file descriptor, returned as the CQE result.
func FixedFdInstall(fileIndex int32, flags uint32) Entry {
	e := newEntry(sys.IORING_OP_FIXED_FD_INSTALL)
	e.raw.Fd = fileIndex
	e.raw.Flags = sys.IOSQE_FIXED_FILE
	e.raw.OpFlags = flags
	return e
}

// --- Extended ---

// EpollCtl mirrors epoll_ctl(2). ev must stay alive until completion.
func EpollCtl(epfd, fd, op int, ev unsafe.Pointer) Entry {
	e := newEntry(sys.IORING_OP_EPOLL_CTL)
	e.raw.Fd = int32(epfd)
	e.raw.Addr = ptrAddr(ev)
	e.raw.Len = uint32(op)
	e.raw.Off = uint64(fd)
	return e
}

// MsgRingData posts a CQE carrying targetUserData to another ring's CQ, for
// cross-ring wakeups. Only the low 32 bits of data are sent (in the SQE's
// len field); the target sees them as the CQE's Res.
func MsgRingData(targetRingFd int, data uint64, targetUserData uint64, flags uint32) Entry {
	e := newEntry(sys.IORING_OP_MSG_RING)
	e.raw.Fd = int32(targetRingFd)
	e.raw.Len = uint32(data)
	e.raw.Off = targetUserData
	e.raw.OpFlags = flags
	return e
}

// FutexWait mirrors FUTEX_WAIT on a single futex word.
func FutexWait(addr unsafe.Pointer, val, mask uint64, flags uint32) Entry {
	e := newEntry(sys.IORING_OP_FUTEX_WAIT)
	e.raw.Addr = ptrAddr(addr)
	e.raw.Off = val
	e.raw.Addr3 = mask
	e.raw.OpFlags = flags
	e.raw.Len = sys.FUTEX2_SIZE_U32
	return e
}

// FutexWake mirrors FUTEX_WAKE on a single futex word.
func FutexWake(addr unsafe.Pointer, val, mask uint64, flags uint32) Entry {
	e := newEntry(sys.IORING_OP_FUTEX_WAKE)
	e.raw.Addr = ptrAddr(addr)
	e.raw.Off = val
	e.raw.Addr3 = mask
	e.raw.OpFlags = flags
	e.raw.Len = sys.FUTEX2_SIZE_U32
	return e
}

// FutexWaitV waits on a vector of futex descriptors at once.
func FutexWaitV(vec unsafe.Pointer, nr uint32, flags uint32) Entry {
	e := newEntry(sys.IORING_OP_FUTEX_WAITV)
	e.raw.Addr = ptrAddr(vec)
	e.raw.Len = nr
	e.raw.OpFlags = flags
	return e
}

// UringCmd issues a driver-defined passthrough command against fd; cmd must
// stay alive until completion and cmdLen must match the driver's expected
// payload size.
func UringCmd(fd int, cmdOp uint32, cmd unsafe.Pointer, cmdLen uint32) Entry {
	e := newEntry(sys.IORING_OP_URING_CMD)
	e.raw.Fd = int32(fd)
	e.raw.OpFlags = cmdOp
	e.raw.Addr3 = ptrAddr(cmd)
	e.raw.Off = uint64(cmdLen)
	return e
}

// Waitid mirrors waitid(2), collecting a process's exit status
// asynchronously. info must stay alive until completion.
func Waitid(idType int, id int, info unsafe.Pointer, options uint32) Entry {
	e := newEntry(sys.IORING_OP_WAITID)
	e.raw.Fd = int32(idType)
	e.raw.Addr3 = uint64(uint32(id))
	e.raw.Addr = ptrAddr(info)
	e.raw.OpFlags = options
	return e
}
