//go:build linux

package iouring

import (
	"os"
	"testing"

	"github.com/stretchr/testify/require"
	"golang.org/x/sys/unix"

	"github.com/coreuring/iouring/internal/sys"
)

func skipIfNoIOURing(t *testing.T) {
	t.Helper()
	ring, err := New(4)
	if err != nil {
		if err == unix.ENOSYS || err == unix.EPERM {
			t.Skipf("io_uring unavailable: %v", err)
		}
		t.Skipf("io_uring unavailable: %v", err)
	}
	ring.Close()
}

func TestNewRing(t *testing.T) {
	skipIfNoIOURing(t)

	tests := []struct {
		name    string
		entries uint32
		opts    []Option
		wantErr bool
	}{
		{"default_64", 64, nil, false},
		{"non_power_of_two", 100, nil, false},
		{"zero_entries", 0, nil, true},
		{"with_cqsize", 64, []Option{WithCQSize(256)}, false},
		{"with_single_issuer", 64, []Option{WithSingleIssuer()}, false},
		{"with_coop_taskrun", 64, []Option{WithCoopTaskrun()}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ring, err := New(tt.entries, tt.opts...)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			defer ring.Close()

			require.GreaterOrEqual(t, ring.Fd(), 0)
			require.NotZero(t, ring.SQ().Capacity())
			require.NotZero(t, ring.CQ().Capacity())
		})
	}
}

func TestRingCloseIdempotent(t *testing.T) {
	skipIfNoIOURing(t)

	ring, err := New(64)
	require.NoError(t, err)
	require.NoError(t, ring.Close())
	require.NoError(t, ring.Close())
}

func TestNopLoop(t *testing.T) {
	skipIfNoIOURing(t)

	ring, err := New(64)
	require.NoError(t, err)
	defer ring.Close()

	const n = 10
	for i := 0; i < n; i++ {
		require.NoError(t, ring.SQ().Push(Nop().UserData(uint64(i+1))))
	}
	require.EqualValues(t, n, ring.SQ().Len())

	submitted, err := ring.Submit()
	require.NoError(t, err)
	require.Equal(t, n, submitted)

	seen := make(map[uint64]bool)
	for i := 0; i < n; i++ {
		cqe, err := ring.WaitCQE()
		require.NoError(t, err)
		require.Zero(t, cqe.Res)
		seen[cqe.UserData] = true
		ring.CQ().Advance(1)
	}
	for i := 1; i <= n; i++ {
		require.True(t, seen[uint64(i)], "missing completion for %d", i)
	}
}

func TestReadWrite(t *testing.T) {
	skipIfNoIOURing(t)

	ring, err := New(64)
	require.NoError(t, err)
	defer ring.Close()

	f, err := os.CreateTemp("", "iouring_test")
	require.NoError(t, err)
	defer os.Remove(f.Name())
	defer f.Close()

	writeData := []byte("Hello, io_uring!")
	require.NoError(t, ring.SQ().Push(Write(int(f.Fd()), writeData, 0).UserData(1)))
	_, err = ring.Submit()
	require.NoError(t, err)

	cqe, err := ring.WaitCQE()
	require.NoError(t, err)
	ring.CQ().Advance(1)
	require.EqualValues(t, 1, cqe.UserData)
	require.EqualValues(t, len(writeData), cqe.Res)

	readBuf := make([]byte, len(writeData))
	require.NoError(t, ring.SQ().Push(Read(int(f.Fd()), readBuf, 0).UserData(2)))
	_, err = ring.Submit()
	require.NoError(t, err)

	cqe, err = ring.WaitCQE()
	require.NoError(t, err)
	ring.CQ().Advance(1)
	require.EqualValues(t, 2, cqe.UserData)
	require.EqualValues(t, len(writeData), cqe.Res)
	require.Equal(t, writeData, readBuf)
}

func TestSQFull(t *testing.T) {
	skipIfNoIOURing(t)

	ring, err := New(4)
	require.NoError(t, err)
	defer ring.Close()

	capacity := ring.SQ().Capacity()
	for i := uint32(0); i < capacity; i++ {
		require.NoError(t, ring.SQ().Push(Nop().UserData(uint64(i))))
	}

	err = ring.SQ().Push(Nop().UserData(999))
	require.ErrorIs(t, err, ErrSQFull)

	_, err = ring.Submit()
	require.NoError(t, err)

	for i := uint32(0); i < capacity; i++ {
		_, err := ring.WaitCQE()
		require.NoError(t, err)
		ring.CQ().Advance(1)
	}

	require.NoError(t, ring.SQ().Push(Nop().UserData(1000)))
}

func TestForEachCQE(t *testing.T) {
	skipIfNoIOURing(t)

	ring, err := New(64)
	require.NoError(t, err)
	defer ring.Close()

	const n = 5
	for i := 0; i < n; i++ {
		require.NoError(t, ring.SQ().Push(Nop().UserData(uint64(i+1))))
	}
	_, err = ring.SubmitAndWait(n)
	require.NoError(t, err)

	var seen int
	count := ring.CQ().ForEach(func(cqe sys.CQE) bool {
		seen++
		return true
	})
	require.Equal(t, n, count)
	require.Equal(t, n, seen)
	require.True(t, ring.CQ().IsEmpty())
}

func TestLinkedReadWrite(t *testing.T) {
	skipIfNoIOURing(t)

	ring, err := New(64)
	require.NoError(t, err)
	defer ring.Close()

	f, err := os.CreateTemp("", "iouring_test_link")
	require.NoError(t, err)
	defer os.Remove(f.Name())
	defer f.Close()

	writeData := []byte("linked write then read")
	require.NoError(t, ring.SQ().Push(
		Write(int(f.Fd()), writeData, 0).UserData(1).Flags(sys.IOSQE_IO_LINK)))
	readBuf := make([]byte, len(writeData))
	require.NoError(t, ring.SQ().Push(Read(int(f.Fd()), readBuf, 0).UserData(2)))

	_, err = ring.SubmitAndWait(2)
	require.NoError(t, err)

	for i := 0; i < 2; i++ {
		cqe, err := ring.WaitCQE()
		require.NoError(t, err)
		ring.CQ().Advance(1)
		require.GreaterOrEqual(t, cqe.Res, int32(0))
	}
	require.Equal(t, writeData, readBuf)
}

func TestSyncCancelMiss(t *testing.T) {
	skipIfNoIOURing(t)

	ring, err := New(64)
	require.NoError(t, err)
	defer ring.Close()

	err = ring.Submitter().SyncCancel(NewCancelBuilder().UserData(0xdeadbeef), nil)
	require.Error(t, err)
	require.ErrorIs(t, err, unix.ENOENT)
}

func TestRestrictions(t *testing.T) {
	skipIfNoIOURing(t)

	ring, err := New(64, WithRestrictionsDisabled())
	require.NoError(t, err)
	defer ring.Close()

	err = ring.Submitter().RegisterRestrictions([]Restriction{
		RestrictionSqeOp(sys.IORING_OP_NOP),
	})
	require.NoError(t, err)
	require.NoError(t, ring.Submitter().RegisterEnableRings())

	require.NoError(t, ring.SQ().Push(Nop().UserData(1)))
	_, err = ring.Submit()
	require.NoError(t, err)
	cqe, err := ring.WaitCQE()
	require.NoError(t, err)
	ring.CQ().Advance(1)
	require.Zero(t, cqe.Res)

	f, err := os.CreateTemp("", "iouring_test_restrict")
	require.NoError(t, err)
	defer os.Remove(f.Name())
	defer f.Close()

	require.NoError(t, ring.SQ().Push(Read(int(f.Fd()), make([]byte, 1), 0).UserData(2)))
	_, err = ring.Submit()
	require.NoError(t, err)
	cqe, err = ring.WaitCQE()
	require.NoError(t, err)
	ring.CQ().Advance(1)
	require.Less(t, cqe.Res, int32(0))
	require.Error(t, ResultError(cqe.Res))
	require.NoError(t, ResultError(0))
}

func TestRegisterBuffersAndFixedIO(t *testing.T) {
	skipIfNoIOURing(t)

	ring, err := New(64)
	require.NoError(t, err)
	defer ring.Close()

	f, err := os.CreateTemp("", "iouring_test_buf")
	require.NoError(t, err)
	defer os.Remove(f.Name())
	defer f.Close()

	bufs := [][]byte{make([]byte, 4096), make([]byte, 4096)}
	data := "Hello from registered buffer!"
	copy(bufs[0], data)

	require.NoError(t, ring.RegisterBuffers(bufs))
	defer ring.UnregisterBuffers()

	require.NoError(t, ring.SQ().Push(
		WriteFixed(int(f.Fd()), bufs[0][:len(data)], 0, 0).UserData(1)))
	_, err = ring.Submit()
	require.NoError(t, err)
	cqe, err := ring.WaitCQE()
	require.NoError(t, err)
	ring.CQ().Advance(1)
	require.EqualValues(t, len(data), cqe.Res)

	require.NoError(t, ring.SQ().Push(
		ReadFixed(int(f.Fd()), bufs[1][:len(data)], 0, 1).UserData(2)))
	_, err = ring.Submit()
	require.NoError(t, err)
	cqe, err = ring.WaitCQE()
	require.NoError(t, err)
	ring.CQ().Advance(1)
	require.EqualValues(t, len(data), cqe.Res)
	require.Equal(t, data, string(bufs[1][:len(data)]))
}

func TestBigSQERoundTrip(t *testing.T) {
	skipIfNoIOURing(t)

	ring, err := New(64, WithBigSQE())
	require.NoError(t, err)
	defer ring.Close()
	require.True(t, ring.Parameters().IsSQE128())

	var cmd [64]byte
	copy(cmd[:], "opaque command payload")
	require.NoError(t, ring.SQ().Push(Nop().UserData(1).CmdData(cmd)))
	_, err = ring.Submit()
	require.NoError(t, err)

	cqe, err := ring.WaitCQE()
	require.NoError(t, err)
	ring.CQ().Advance(1)
	require.EqualValues(t, 1, cqe.UserData)
}

func TestBigSQECmdDataPanicsOnNormalRing(t *testing.T) {
	skipIfNoIOURing(t)

	ring, err := New(64)
	require.NoError(t, err)
	defer ring.Close()

	var cmd [64]byte
	require.Panics(t, func() {
		ring.SQ().Push(Nop().CmdData(cmd))
	})
}

func TestBigCQERoundTrip(t *testing.T) {
	skipIfNoIOURing(t)

	ring, err := New(64, WithBigCQE())
	require.NoError(t, err)
	defer ring.Close()
	require.True(t, ring.Parameters().IsCQE32())

	require.NoError(t, ring.SQ().Push(Nop().UserData(7)))
	_, err = ring.Submit()
	require.NoError(t, err)

	cqe, err := ring.WaitCQE()
	require.NoError(t, err)
	require.EqualValues(t, 7, cqe.UserData)

	big, ok := ring.CQ().PeekBig()
	require.True(t, ok)
	require.EqualValues(t, 7, big.UserData)
	ring.CQ().Advance(1)
}

func TestBigCQEPeekBigPanicsOnNormalRing(t *testing.T) {
	skipIfNoIOURing(t)

	ring, err := New(64)
	require.NoError(t, err)
	defer ring.Close()

	require.Panics(t, func() {
		ring.CQ().PeekBig()
	})
}

func TestSplit(t *testing.T) {
	skipIfNoIOURing(t)

	ring, err := New(64)
	require.NoError(t, err)
	defer ring.Close()

	submitter, sq, cq := ring.Split()
	require.NoError(t, sq.Push(Nop().UserData(42)))
	_, err = submitter.Submit()
	require.NoError(t, err)

	cqe, err := waitCQE(submitter, cq)
	require.NoError(t, err)
	require.EqualValues(t, 42, cqe.UserData)
	cq.Advance(1)
}
