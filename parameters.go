//go:build linux

package iouring

import "github.com/coreuring/iouring/internal/sys"

// Parameters is a read-only view over the io_uring_params block the kernel
// filled in during setup. It answers "was flag/feature X requested or
// granted" without the caller needing to know the raw bit layout.
type Parameters struct {
	raw sys.Params
}

func newParameters(p sys.Params) Parameters {
	return Parameters{raw: p}
}

// SQEntries is the number of submission queue entries the kernel allocated.
func (p Parameters) SQEntries() uint32 { return p.raw.SQEntries }

// CQEntries is the number of completion queue entries the kernel allocated.
func (p Parameters) CQEntries() uint32 { return p.raw.CQEntries }

// SQThreadCPU is the CPU the SQPOLL thread is pinned to, if requested.
func (p Parameters) SQThreadCPU() uint32 { return p.raw.SQThreadCPU }

// SQThreadIdle is the SQPOLL idle timeout in milliseconds.
func (p Parameters) SQThreadIdle() uint32 { return p.raw.SQThreadIdle }

// setup flag predicates, one per IORING_SETUP_* bit except
// REGISTERED_FD_ONLY.

func (p Parameters) IsIOPoll() bool        { return p.raw.Flags&sys.IORING_SETUP_IOPOLL != 0 }
func (p Parameters) IsSQPoll() bool        { return p.raw.Flags&sys.IORING_SETUP_SQPOLL != 0 }
func (p Parameters) IsSQAff() bool         { return p.raw.Flags&sys.IORING_SETUP_SQ_AFF != 0 }
func (p Parameters) IsCQSize() bool        { return p.raw.Flags&sys.IORING_SETUP_CQSIZE != 0 }
func (p Parameters) IsClamp() bool         { return p.raw.Flags&sys.IORING_SETUP_CLAMP != 0 }
func (p Parameters) IsAttachWQ() bool      { return p.raw.Flags&sys.IORING_SETUP_ATTACH_WQ != 0 }
func (p Parameters) IsRDisabled() bool     { return p.raw.Flags&sys.IORING_SETUP_R_DISABLED != 0 }
func (p Parameters) IsSubmitAll() bool     { return p.raw.Flags&sys.IORING_SETUP_SUBMIT_ALL != 0 }
func (p Parameters) IsCoopTaskrun() bool   { return p.raw.Flags&sys.IORING_SETUP_COOP_TASKRUN != 0 }
func (p Parameters) IsTaskrunFlag() bool   { return p.raw.Flags&sys.IORING_SETUP_TASKRUN_FLAG != 0 }
func (p Parameters) IsSQE128() bool        { return p.raw.Flags&sys.IORING_SETUP_SQE128 != 0 }
func (p Parameters) IsCQE32() bool         { return p.raw.Flags&sys.IORING_SETUP_CQE32 != 0 }
func (p Parameters) IsSingleIssuer() bool  { return p.raw.Flags&sys.IORING_SETUP_SINGLE_ISSUER != 0 }
func (p Parameters) IsDeferTaskrun() bool  { return p.raw.Flags&sys.IORING_SETUP_DEFER_TASKRUN != 0 }
func (p Parameters) IsNoMmap() bool        { return p.raw.Flags&sys.IORING_SETUP_NO_MMAP != 0 }
func (p Parameters) IsNoSQArray() bool     { return p.raw.Flags&sys.IORING_SETUP_NO_SQARRAY != 0 }

// feature flag predicates, one per bit the kernel reports back in Features.

func (p Parameters) HasSingleMmap() bool     { return p.raw.Features&sys.IORING_FEAT_SINGLE_MMAP != 0 }
func (p Parameters) HasNoDrop() bool         { return p.raw.Features&sys.IORING_FEAT_NODROP != 0 }
func (p Parameters) HasSubmitStable() bool   { return p.raw.Features&sys.IORING_FEAT_SUBMIT_STABLE != 0 }
func (p Parameters) HasRWCurPos() bool       { return p.raw.Features&sys.IORING_FEAT_RW_CUR_POS != 0 }
func (p Parameters) HasCurPersonality() bool { return p.raw.Features&sys.IORING_FEAT_CUR_PERSONALITY != 0 }
func (p Parameters) HasFastPoll() bool       { return p.raw.Features&sys.IORING_FEAT_FAST_POLL != 0 }
func (p Parameters) HasPoll32Bits() bool     { return p.raw.Features&sys.IORING_FEAT_POLL_32BITS != 0 }
func (p Parameters) HasSQPollNonfixed() bool { return p.raw.Features&sys.IORING_FEAT_SQPOLL_NONFIXED != 0 }
func (p Parameters) HasExtArg() bool         { return p.raw.Features&sys.IORING_FEAT_EXT_ARG != 0 }
func (p Parameters) HasNativeWorkers() bool  { return p.raw.Features&sys.IORING_FEAT_NATIVE_WORKERS != 0 }
func (p Parameters) HasRsrcTags() bool       { return p.raw.Features&sys.IORING_FEAT_RSRC_TAGS != 0 }
func (p Parameters) HasCQESkip() bool        { return p.raw.Features&sys.IORING_FEAT_CQE_SKIP != 0 }
func (p Parameters) HasLinkedFile() bool     { return p.raw.Features&sys.IORING_FEAT_LINKED_FILE != 0 }
func (p Parameters) HasRegRegRing() bool     { return p.raw.Features&sys.IORING_FEAT_REG_REG_RING != 0 }

// Feature returns true if the raw feature bit is set. Kept for callers that
// want to check a bit not yet named by a predicate above.
func (p Parameters) Feature(bit uint32) bool { return p.raw.Features&bit != 0 }

// Flag returns true if the raw setup flag bit is set.
func (p Parameters) Flag(bit uint32) bool { return p.raw.Flags&bit != 0 }
