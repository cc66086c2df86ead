//go:build linux

package iouring

import "github.com/coreuring/iouring/internal/sys"

// Probe reports which opcodes the running kernel supports, filled in by
// Submitter.RegisterProbe.
type Probe struct {
	raw sys.Probe
}

// SupportsOp returns true if the kernel reports op as supported.
func (p *Probe) SupportsOp(op sys.Op) bool {
	if uint8(op) > p.raw.LastOp {
		return false
	}
	return p.raw.Ops[op].Flags&sys.IO_URING_OP_SUPPORTED != 0
}

// LastOp returns the highest opcode the kernel knows about, supported or
// not.
func (p *Probe) LastOp() sys.Op {
	return sys.Op(p.raw.LastOp)
}
