//go:build linux

package iouring

import "github.com/coreuring/iouring/internal/sys"

// Entry is a submission queue entry under construction. Opcode constructors
// (see opcodes.go) return an Entry with the opcode-specific fields already
// populated and everything else zeroed; the fluent setters below apply on
// top; Build yields the final value to hand to a SubmissionQueue.
//
// Entry is a plain value; constructing one has no effect on any ring until
// it is pushed.
type Entry struct {
	raw sys.SQE
	cmd *[64]byte
}

func newEntry(op sys.Op) Entry {
	return Entry{raw: sys.SQE{Opcode: uint8(op)}}
}

// UserData attaches the opaque tag echoed back in the completion's CQE.
func (e Entry) UserData(v uint64) Entry {
	e.raw.UserData = v
	return e
}

// Flags ORs in additional IOSQE_* bits (IO_LINK, IO_HARDLINK, IO_DRAIN,
// ASYNC, FIXED_FILE, CQE_SKIP_SUCCESS). BUFFER_SELECT is set implicitly by
// BufGroup.
func (e Entry) Flags(v uint8) Entry {
	e.raw.Flags |= v
	return e
}

// Personality sets the registered-credential id this operation runs under.
func (e Entry) Personality(v uint16) Entry {
	e.raw.Personality = v
	return e
}

// BufGroup selects a provided-buffer group and sets IOSQE_BUFFER_SELECT.
func (e Entry) BufGroup(v uint16) Entry {
	e.raw.BufIndex = v
	e.raw.Flags |= sys.IOSQE_BUFFER_SELECT
	return e
}

// BufIndex sets the fixed-buffer index for a *Fixed op.
func (e Entry) BufIndex(v uint16) Entry {
	e.raw.BufIndex = v
	return e
}

// FixedFile marks Fd as an index into the registered file table rather
// than a raw file descriptor.
func (e Entry) FixedFile() Entry {
	e.raw.Flags |= sys.IOSQE_FIXED_FILE
	return e
}

// CmdData attaches the trailing 64 bytes of opcode-specific command data
// carried by a 128-byte SQE. Only meaningful when pushed onto a
// SubmissionQueue built with WithBigSQE; SubmissionQueue.Push panics if
// that isn't the case, since a 64-byte slot has nowhere to put it.
func (e Entry) CmdData(data [64]byte) Entry {
	e.cmd = &data
	return e
}

// Build returns the finished kernel-ABI value.
func (e Entry) Build() sys.SQE {
	return e.raw
}

// Opcode reports the opcode this entry was constructed with.
func (e Entry) Opcode() sys.Op {
	return sys.Op(e.raw.Opcode)
}
