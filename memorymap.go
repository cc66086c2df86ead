//go:build linux

package iouring

import (
	"unsafe"

	"golang.org/x/sys/unix"

	"github.com/coreuring/iouring/internal/sys"
)

// memoryMap owns every mmap'd region backing a ring: the SQ ring header,
// the SQE array, and, unless the kernel reports single-mmap, a separate
// CQ ring header. It is the "MemoryMap" entity of the data model: borrowed
// by the SQ and CQ for as long as the Ring that owns it is open, and never
// moved (mmap addresses are stable until munmap).
type memoryMap struct {
	sqRegion   []byte
	cqRegion   []byte // == sqRegion when singleMmap
	sqesRegion []byte
	singleMmap bool
}

func newMemoryMap(fd int, p *sys.Params, dontfork bool) (*memoryMap, error) {
	sqe128 := p.Flags&sys.IORING_SETUP_SQE128 != 0
	cqe32 := p.Flags&sys.IORING_SETUP_CQE32 != 0

	cqeSize := uint32(unsafe.Sizeof(sys.CQE{}))
	if cqe32 {
		cqeSize = uint32(unsafe.Sizeof(sys.CQE32{}))
	}

	sqRingSize := p.SQOff.Array + p.SQEntries*4
	cqRingSize := p.CQOff.CQEs + p.CQEntries*cqeSize

	singleMmap := p.Features&sys.IORING_FEAT_SINGLE_MMAP != 0
	if singleMmap && cqRingSize > sqRingSize {
		sqRingSize = cqRingSize
	}

	mm := &memoryMap{singleMmap: singleMmap}

	var err error
	mm.sqRegion, err = sys.Mmap(fd, sys.IORING_OFF_SQ_RING, int(sqRingSize),
		unix.PROT_READ|unix.PROT_WRITE, unix.MAP_SHARED|unix.MAP_POPULATE)
	if err != nil {
		return nil, &MapError{Op: "mmap sq ring", Errno: err}
	}

	if singleMmap {
		mm.cqRegion = mm.sqRegion
	} else {
		mm.cqRegion, err = sys.Mmap(fd, sys.IORING_OFF_CQ_RING, int(cqRingSize),
			unix.PROT_READ|unix.PROT_WRITE, unix.MAP_SHARED|unix.MAP_POPULATE)
		if err != nil {
			sys.Munmap(mm.sqRegion)
			return nil, &MapError{Op: "mmap cq ring", Errno: err}
		}
	}

	sqeStride := uint32(unsafe.Sizeof(sys.SQE{}))
	if sqe128 {
		sqeStride = uint32(unsafe.Sizeof(sys.SQE128{}))
	}
	sqeSize := p.SQEntries * sqeStride
	mm.sqesRegion, err = sys.Mmap(fd, sys.IORING_OFF_SQES, int(sqeSize),
		unix.PROT_READ|unix.PROT_WRITE, unix.MAP_SHARED|unix.MAP_POPULATE)
	if err != nil {
		if !singleMmap {
			sys.Munmap(mm.cqRegion)
		}
		sys.Munmap(mm.sqRegion)
		return nil, &MapError{Op: "mmap sqes", Errno: err}
	}

	if dontfork {
		err = sys.Madvise(mm.sqRegion, unix.MADV_DONTFORK)
		if err == nil && !singleMmap {
			err = sys.Madvise(mm.cqRegion, unix.MADV_DONTFORK)
		}
		if err == nil {
			err = sys.Madvise(mm.sqesRegion, unix.MADV_DONTFORK)
		}
		if err != nil {
			mm.close()
			return nil, &MapError{Op: "madvise", Errno: err}
		}
	}

	return mm, nil
}

// close unmaps every region. Must be called before the owning fd is closed;
// reversing that order is undefined per the kernel's contract.
func (mm *memoryMap) close() {
	if mm.sqesRegion != nil {
		sys.Munmap(mm.sqesRegion)
	}
	if !mm.singleMmap && mm.cqRegion != nil {
		sys.Munmap(mm.cqRegion)
	}
	if mm.sqRegion != nil {
		sys.Munmap(mm.sqRegion)
	}
}

func (mm *memoryMap) sqBase() unsafe.Pointer   { return unsafe.Pointer(&mm.sqRegion[0]) }
func (mm *memoryMap) cqBase() unsafe.Pointer   { return unsafe.Pointer(&mm.cqRegion[0]) }
func (mm *memoryMap) sqesBase() unsafe.Pointer { return unsafe.Pointer(&mm.sqesRegion[0]) }

func u32At(base unsafe.Pointer, off uint32) *uint32 {
	return (*uint32)(unsafe.Add(base, off))
}
