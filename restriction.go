//go:build linux

package iouring

import "github.com/coreuring/iouring/internal/sys"

// Restriction is one entry of the allow-list installed by
// RegisterRestrictions before RegisterEnableRings. The ring must have been
// built with r_disabled for restrictions to take effect; once enabled, the
// list can no longer be changed.
type Restriction struct {
	raw sys.Restriction
}

// RestrictionRegisterOp allows a specific io_uring_register opcode.
func RestrictionRegisterOp(op uint32) Restriction {
	return Restriction{raw: sys.Restriction{
		Opcode: sys.IORING_RESTRICTION_REGISTER_OP,
		Union1: uint8(op),
	}}
}

// RestrictionSqeOp allows a specific submission opcode.
func RestrictionSqeOp(op sys.Op) Restriction {
	return Restriction{raw: sys.Restriction{
		Opcode: sys.IORING_RESTRICTION_SQE_OP,
		Union1: uint8(op),
	}}
}

// RestrictionSqeFlagsAllowed allows the given set of IOSQE_* flags on any
// submitted SQE.
func RestrictionSqeFlagsAllowed(flags uint8) Restriction {
	return Restriction{raw: sys.Restriction{
		Opcode: sys.IORING_RESTRICTION_SQE_FLAGS_ALLOWED,
		Union1: flags,
	}}
}

// RestrictionSqeFlagsRequired requires the given set of IOSQE_* flags be
// present on every submitted SQE.
func RestrictionSqeFlagsRequired(flags uint8) Restriction {
	return Restriction{raw: sys.Restriction{
		Opcode: sys.IORING_RESTRICTION_SQE_FLAGS_REQUIRED,
		Union1: flags,
	}}
}
