//go:build linux

package iouring

import (
	"unsafe"

	"golang.org/x/sys/unix"

	"github.com/coreuring/iouring/internal/sys"
)

// RegisterBuffers pins bufs and registers them as fixed buffers, for use
// with ReadFixed/WriteFixed by their index in bufs.
func (s *Submitter) RegisterBuffers(bufs [][]byte) error {
	if len(bufs) == 0 {
		return unix.EINVAL
	}
	iovecs := make([]unix.Iovec, len(bufs))
	for i, buf := range bufs {
		if len(buf) > 0 {
			iovecs[i].Base = &buf[0]
			iovecs[i].SetLen(len(buf))
		}
	}
	if err := sys.RegisterBuffers(s.fd, iovecs); err != nil {
		return &RegisterError{Op: sys.IORING_REGISTER_BUFFERS, Errno: err}
	}
	return nil
}

// UnregisterBuffers drops the fixed buffer table.
func (s *Submitter) UnregisterBuffers() error {
	if err := sys.UnregisterBuffers(s.fd); err != nil {
		return &RegisterError{Op: sys.IORING_UNREGISTER_BUFFERS, Errno: err}
	}
	return nil
}

// RegisterFiles registers fds as the fixed file table, for use with
// Entry.FixedFile by their index in fds.
func (s *Submitter) RegisterFiles(fds []int) error {
	if len(fds) == 0 {
		return unix.EINVAL
	}
	fds32 := make([]int32, len(fds))
	for i, fd := range fds {
		fds32[i] = int32(fd)
	}
	if err := sys.RegisterFiles(s.fd, fds32); err != nil {
		return &RegisterError{Op: sys.IORING_REGISTER_FILES, Errno: err}
	}
	return nil
}

// UnregisterFiles drops the fixed file table.
func (s *Submitter) UnregisterFiles() error {
	if err := sys.UnregisterFiles(s.fd); err != nil {
		return &RegisterError{Op: sys.IORING_UNREGISTER_FILES, Errno: err}
	}
	return nil
}

// RegisterFilesSparse reserves n empty fixed-file slots, to be filled in
// later with RegisterFilesUpdate as connections are accepted. Avoids the
// need to know the final file set up front.
func (s *Submitter) RegisterFilesSparse(n uint32) error {
	if err := sys.RegisterFilesSparse(s.fd, n); err != nil {
		return &RegisterError{Op: sys.IORING_REGISTER_FILES2, Errno: err}
	}
	return nil
}

// RegisterFilesUpdate replaces fixed-file slots starting at offset, e.g.
// to install a freshly accepted connection into a sparse table slot.
func (s *Submitter) RegisterFilesUpdate(offset uint32, fds []int) error {
	if len(fds) == 0 {
		return unix.EINVAL
	}
	fds32 := make([]int32, len(fds))
	for i, fd := range fds {
		fds32[i] = int32(fd)
	}
	if err := sys.RegisterFilesUpdate(s.fd, offset, fds32); err != nil {
		return &RegisterError{Op: sys.IORING_REGISTER_FILES_UPDATE, Errno: err}
	}
	return nil
}

// RegisterEventfd arranges for eventfd to be signaled whenever a
// completion is posted, so a process can multiplex the ring into an
// epoll/select loop instead of calling SubmitAndWait.
func (s *Submitter) RegisterEventfd(eventfd int) error {
	if err := sys.RegisterEventfd(s.fd, eventfd); err != nil {
		return &RegisterError{Op: sys.IORING_REGISTER_EVENTFD, Errno: err}
	}
	return nil
}

// RegisterEventfdAsync is RegisterEventfd, but only signals for
// completions of requests that actually went through the async workers,
// skipping the common case of a request satisfied inline.
func (s *Submitter) RegisterEventfdAsync(eventfd int) error {
	if err := sys.RegisterEventfdAsync(s.fd, eventfd); err != nil {
		return &RegisterError{Op: sys.IORING_REGISTER_EVENTFD_ASYNC, Errno: err}
	}
	return nil
}

// UnregisterEventfd removes the registered eventfd.
func (s *Submitter) UnregisterEventfd() error {
	if err := sys.UnregisterEventfd(s.fd); err != nil {
		return &RegisterError{Op: sys.IORING_UNREGISTER_EVENTFD, Errno: err}
	}
	return nil
}

// RegisterProbe queries which opcodes the running kernel supports.
func (s *Submitter) RegisterProbe() (*Probe, error) {
	p := &Probe{}
	if err := sys.RegisterProbe(s.fd, &p.raw); err != nil {
		return nil, &RegisterError{Op: sys.IORING_REGISTER_PROBE, Errno: err}
	}
	return p, nil
}

// RegisterPersonality snapshots the caller's current credentials and
// returns an id that can be attached to an Entry via Entry.Personality,
// so a later privileged submitter can issue work under the caller's
// original, less-privileged identity.
func (s *Submitter) RegisterPersonality() (int, error) {
	id, err := sys.RegisterPersonality(s.fd)
	if err != nil {
		return 0, &RegisterError{Op: sys.IORING_REGISTER_PERSONALITY, Errno: err}
	}
	return id, nil
}

// UnregisterPersonality drops a previously registered personality id.
func (s *Submitter) UnregisterPersonality(id int) error {
	if err := sys.UnregisterPersonality(s.fd, id); err != nil {
		return &RegisterError{Op: sys.IORING_UNREGISTER_PERSONALITY, Errno: err}
	}
	return nil
}

// RegisterRestrictions installs an allow-list of register opcodes, SQE
// opcodes, and SQE flags. Only meaningful on a ring built with
// WithRestrictionsDisabled, and only before RegisterEnableRings. Once
// enabled, the list is immutable for the life of the ring.
func (s *Submitter) RegisterRestrictions(restrictions []Restriction) error {
	if len(restrictions) == 0 {
		return unix.EINVAL
	}
	raw := make([]sys.Restriction, len(restrictions))
	for i, r := range restrictions {
		raw[i] = r.raw
	}
	if err := sys.RegisterRestrictions(s.fd, raw); err != nil {
		return &RegisterError{Op: sys.IORING_REGISTER_RESTRICTIONS, Errno: err}
	}
	return nil
}

// RegisterEnableRings activates a ring that was built disabled, after its
// restriction set has been installed.
func (s *Submitter) RegisterEnableRings() error {
	if err := sys.RegisterEnableRings(s.fd); err != nil {
		return &RegisterError{Op: sys.IORING_REGISTER_ENABLE_RINGS, Errno: err}
	}
	return nil
}

// IOWQMaxWorkers reports the current bounded/unbounded async worker caps
// without changing them.
func (s *Submitter) IOWQMaxWorkers() (bounded, unbounded uint32, err error) {
	arg := sys.IOWQMaxWorkersArg{0, 0}
	if err := sys.RegisterIOWQMaxWorkers(s.fd, &arg); err != nil {
		return 0, 0, &RegisterError{Op: sys.IORING_REGISTER_IOWQ_MAX_WORKERS, Errno: err}
	}
	return arg[0], arg[1], nil
}

// SetIOWQMaxWorkers sets the bounded/unbounded async worker caps and
// returns the previous values. A zero argument leaves that cap unchanged.
func (s *Submitter) SetIOWQMaxWorkers(bounded, unbounded uint32) (prevBounded, prevUnbounded uint32, err error) {
	arg := sys.IOWQMaxWorkersArg{bounded, unbounded}
	if err := sys.RegisterIOWQMaxWorkers(s.fd, &arg); err != nil {
		return 0, 0, &RegisterError{Op: sys.IORING_REGISTER_IOWQ_MAX_WORKERS, Errno: err}
	}
	return arg[0], arg[1], nil
}

// RegisterPBufRing registers ring as a provided-buffer ring under bgid,
// the group id later used with Entry.BufGroup and ProvideBuffers.
func (s *Submitter) RegisterPBufRing(bgid uint16, ring *sys.BufRing, nentries uint16, flags uint32) error {
	setup := sys.BufRingSetup{
		BGid:     bgid,
		Nentries: nentries,
		Flags:    flags,
		RingAddr: ptrAddr(unsafe.Pointer(ring)),
	}
	if err := sys.RegisterPBufRing(s.fd, &setup); err != nil {
		return &RegisterError{Op: sys.IORING_REGISTER_PBUF_RING, Errno: err}
	}
	return nil
}

// UnregisterPBufRing removes a provided-buffer ring by group id.
func (s *Submitter) UnregisterPBufRing(bgid uint16) error {
	if err := sys.UnregisterPBufRing(s.fd, bgid); err != nil {
		return &RegisterError{Op: sys.IORING_UNREGISTER_PBUF_RING, Errno: err}
	}
	return nil
}

// SyncCancel synchronously cancels an in-flight operation matching
// builder's criteria, blocking up to timeout for it to complete. Unlike
// AsyncCancel2 this does not need a ring slot or a CQE to learn the
// outcome; the result is this call's return value.
func (s *Submitter) SyncCancel(builder CancelBuilder, timeout *sys.Timespec) error {
	reg := builder.syncCancelReg(timeout)
	if timeout == nil {
		reg.Timeout = sys.Timespec{Sec: -1, Nsec: -1}
	}
	if err := sys.RegisterSyncCancel(s.fd, &reg); err != nil {
		return &RegisterError{Op: sys.IORING_REGISTER_SYNC_CANCEL, Errno: err}
	}
	return nil
}
