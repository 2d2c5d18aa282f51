package allocator

import (
	"testing"
	"unsafe"
)

func TestNewHeapRejectsIncompatibleFormatVersion(t *testing.T) {
	_, err := NewHeap(WithPageSource(newFakePageSource(heaprtDefaultReserveForTest)), WithFormatVersion("2.0.0"))
	if err == nil {
		t.Fatal("expected an error for an incompatible format version")
	}
}

func TestAllocateBasic(t *testing.T) {
	h := newTestHeap(t, heaprtDefaultReserveForTest)

	p := h.Allocate(100)
	if p == nil {
		t.Fatal("Allocate(100) returned nil")
	}

	data := (*[100]byte)(p)
	for i := range data {
		data[i] = byte(i)
	}

	for i := range data {
		if data[i] != byte(i) {
			t.Fatalf("data corruption at offset %d", i)
		}
	}
}

func TestAllocateZero(t *testing.T) {
	h := newTestHeap(t, heaprtDefaultReserveForTest)

	p := h.Allocate(0)
	if p == nil {
		t.Fatal("Allocate(0) should still return a valid minimum-size block")
	}
}

func TestFreeNilIsNoOp(t *testing.T) {
	h := newTestHeap(t, heaprtDefaultReserveForTest)
	h.Free(nil)
}

func TestAllocateFreeReuse(t *testing.T) {
	h := newTestHeap(t, heaprtDefaultReserveForTest)

	p1 := h.Allocate(64)
	statsBefore := h.Stats()

	h.Free(p1)

	p2 := h.Allocate(64)
	if p2 == nil {
		t.Fatal("reuse allocation failed")
	}

	if uintptr(p2) != uintptr(p1) {
		t.Errorf("expected first-fit to reuse the just-freed block: p1=%v p2=%v", p1, p2)
	}

	statsAfter := h.Stats()
	if statsAfter.HeapBytes != statsBefore.HeapBytes {
		t.Errorf("reuse should not grow the heap: before=%d after=%d", statsBefore.HeapBytes, statsAfter.HeapBytes)
	}
}

func TestReallocateGrowLastFastPath(t *testing.T) {
	h := newTestHeap(t, heaprtDefaultReserveForTest)

	p := h.Allocate(32)
	data := (*[32]byte)(p)
	for i := range data {
		data[i] = byte(i + 1)
	}

	grown := h.Reallocate(p, 256)
	if grown == nil {
		t.Fatal("Reallocate failed")
	}

	if uintptr(grown) != uintptr(p) {
		t.Error("growing the last block should not move it")
	}

	gData := (*[32]byte)(grown)
	for i := range gData {
		if gData[i] != byte(i+1) {
			t.Fatalf("grow-last did not preserve payload at offset %d", i)
		}
	}
}

func TestReallocateMovesWhenNotLast(t *testing.T) {
	h := newTestHeap(t, heaprtDefaultReserveForTest)

	p1 := h.Allocate(32)
	data := (*[32]byte)(p1)
	for i := range data {
		data[i] = byte(i + 7)
	}

	// Allocate a second block so p1 is no longer `last`.
	_ = h.Allocate(32)

	moved := h.Reallocate(p1, 4096)
	if moved == nil {
		t.Fatal("Reallocate failed")
	}

	if uintptr(moved) == uintptr(p1) {
		t.Fatal("expected Reallocate to move a non-last block growing past its block size")
	}

	mData := (*[32]byte)(moved)
	for i := range mData {
		if mData[i] != byte(i+7) {
			t.Fatalf("payload not preserved across move at offset %d", i)
		}
	}
}

func TestReallocateShrinkIsNoOp(t *testing.T) {
	h := newTestHeap(t, heaprtDefaultReserveForTest)

	p := h.Allocate(256)

	shrunk := h.Reallocate(p, 8)
	if uintptr(shrunk) != uintptr(p) {
		t.Error("shrinking in place should return the same pointer (spec §4.7)")
	}
}

func TestReallocateZeroSizeFrees(t *testing.T) {
	h := newTestHeap(t, heaprtDefaultReserveForTest)

	p := h.Allocate(64)

	r := h.Reallocate(p, 0)
	if r != nil {
		t.Error("Reallocate(p, 0) should return nil")
	}
}

func TestReallocateNilPayloadAllocates(t *testing.T) {
	h := newTestHeap(t, heaprtDefaultReserveForTest)

	p := h.Reallocate(nil, 64)
	if p == nil {
		t.Fatal("Reallocate(nil, n) should behave as Allocate(n)")
	}
}

func TestZeroAllocateZeroesMemory(t *testing.T) {
	h := newTestHeap(t, heaprtDefaultReserveForTest)

	// Poison a prior allocation so its bytes would be nonzero if
	// ZeroAllocate reused that block without clearing it.
	dirty := h.Allocate(64)
	d := (*[64]byte)(dirty)
	for i := range d {
		d[i] = 0xAA
	}

	h.Free(dirty)

	z := h.ZeroAllocate(8, 8)
	if z == nil {
		t.Fatal("ZeroAllocate failed")
	}

	zd := (*[64]byte)(z)
	for i, b := range zd {
		if b != 0 {
			t.Fatalf("ZeroAllocate left nonzero byte at offset %d: %#x", i, b)
		}
	}
}

func TestAllocateOutOfMemorySetsLastError(t *testing.T) {
	h := newTestHeap(t, paddingBytes+guardRegionBytes+256)

	var last unsafe.Pointer

	for i := 0; i < 64; i++ {
		p := h.Allocate(64)
		if p == nil {
			break
		}

		last = p
	}

	_ = last

	if h.Allocate(1 << 20) != nil {
		t.Fatal("expected an impossibly large allocation to fail")
	}

	if h.LastError() == nil {
		t.Error("expected LastError to be set after an out-of-memory allocation")
	}
}

func TestHeapCheckPassesOnFreshHeap(t *testing.T) {
	h := newTestHeap(t, heaprtDefaultReserveForTest)

	if fails := h.Check(); len(fails) > 0 {
		t.Fatalf("fresh heap failed consistency check: %v", fails)
	}
}
