// Package allocator implements the Orizon segregated-fit block allocator:
// a single contiguous, monotonically-growable heap managed with boundary
// tags and an 11-list segregated free-list directory. It is the block and
// free-list engine only — the outer benchmarking harness and the raw
// page-acquisition primitive are external collaborators (see Heap.src and
// WithPageSource).
package allocator

import (
	"github.com/orizon-lang/heapcore/internal/errors"
)

// Alignment and block-size constants (spec §3, §6).
const (
	// Align is the alignment, in bytes, that every returned payload
	// pointer must satisfy, and the granularity every block size is
	// rounded up to. H0 itself sits tagSize bytes short of an Align
	// boundary (see paddingBytes in heap.go) so that header+payload
	// lands exactly on one.
	Align uintptr = 16

	// MinBlockSize is the smallest legal block: header + two link
	// words + footer.
	MinBlockSize uintptr = 16

	// usedBit is the USED/FREE flag, packed into bit 0 of the header
	// and footer word (the size is always a multiple of Align, so bit 0
	// of the size is otherwise unused).
	usedBit uint32 = 1

	// tagSize is the width of a header or footer word.
	tagSize uintptr = 4

	// linkSize is the width of a single prev/next link word, stored as
	// a signed 32-bit H0-relative offset (see offset.go).
	linkSize uintptr = 4
)

// blockSize reads the size (including header and footer) encoded in a
// header or footer word.
func blockSize(word uint32) uintptr {
	return uintptr(word &^ usedBit)
}

// blockUsed reports whether a header/footer word's USED bit is set.
func blockUsed(word uint32) bool {
	return word&usedBit != 0
}

// packTag builds a header/footer word from a size and used flag. size
// must already be a multiple of Align (so bit 0 is free for the flag).
func packTag(size uintptr, used bool) uint32 {
	w := uint32(size)
	if used {
		w |= usedBit
	}

	return w
}

// alignUp rounds n up to the next multiple of a (a must be a power of two).
func alignUp(n, a uintptr) uintptr {
	return (n + a - 1) &^ (a - 1)
}

// blockRequestSize computes the on-heap block size for a user request of
// requestedBytes payload bytes: header + footer (8 bytes) plus the
// payload, rounded up to Align. This is §4.7 step 1, factored out so
// Allocate, Reallocate, and the trace tests share one computation.
func blockRequestSize(requestedBytes uintptr) uintptr {
	return alignUp(requestedBytes+2*tagSize, Align)
}

// heapView is the byte-addressable surface every block-layout primitive
// operates over: a growable slice rooted at the start of the page
// source's region, indexed by byte offset from that start. H0 is itself
// an offset in this space (paddingBytes in). Both Heap and the tests
// construct one.
type heapView struct {
	bytes []byte
}

func (h *heapView) u32(off uintptr) uint32 {
	b := h.bytes[off : off+4]

	return uint32(b[0]) | uint32(b[1])<<8 | uint32(b[2])<<16 | uint32(b[3])<<24
}

func (h *heapView) putU32(off uintptr, v uint32) {
	b := h.bytes[off : off+4]
	b[0] = byte(v)
	b[1] = byte(v >> 8)
	b[2] = byte(v >> 16)
	b[3] = byte(v >> 24)
}

func (h *heapView) i32(off uintptr) int32 {
	return int32(h.u32(off))
}

func (h *heapView) putI32(off uintptr, v int32) {
	h.putU32(off, uint32(v))
}

// header reads the header word at block address addr (byte offset into
// the backing slice).
func (h *heapView) header(addr uintptr) uint32 {
	return h.u32(addr)
}

// footerAddr returns the offset of a block's footer word given its
// address and size (§4.1).
func footerAddr(addr, size uintptr) uintptr {
	return addr + size - tagSize
}

// payloadAddr returns the offset of a block's payload given its header
// address (§4.1).
func payloadAddr(addr uintptr) uintptr {
	return addr + tagSize
}

// headerFromPayload is the inverse of payloadAddr (§4.1).
func headerFromPayload(payload uintptr) uintptr {
	return payload - tagSize
}

// stamp writes identical header and footer words for a block of the
// given size and used flag (§4.1, invariant I2).
func (h *heapView) stamp(addr, size uintptr, used bool) {
	tag := packTag(size, used)
	h.putU32(addr, tag)
	h.putU32(footerAddr(addr, size), tag)
}

// sizeOf returns the size of the block at addr, read from its header.
func (h *heapView) sizeOf(addr uintptr) uintptr {
	return blockSize(h.header(addr))
}

// isUsed reports whether the block at addr is marked USED.
func (h *heapView) isUsed(addr uintptr) bool {
	return blockUsed(h.header(addr))
}

// nextPhysical steps to the next block in the physical chain. It returns
// ok=false when addr is the `last` block (§4.1, §9 "edge case in bt_next").
func (h *heapView) nextPhysical(addr, last uintptr) (uintptr, bool) {
	if addr == last {
		return 0, false
	}

	return addr + h.sizeOf(addr), true
}

// prevPhysical steps to the previous block in the physical chain by
// reading the word immediately before addr as a footer and subtracting
// its size. It returns ok=false when addr is the first guard (H0).
func (h *heapView) prevPhysical(addr, h0 uintptr) (uintptr, bool) {
	if addr == h0 {
		return 0, false
	}

	prevFooter := h.u32(addr - tagSize)
	size := blockSize(prevFooter)

	return addr - size, true
}

// validateBlockSize is a defensive check for hand-built block sizes. No
// code in this module calls it; production code paths only ever
// construct sizes via blockRequestSize/alignUp, which can't violate this.
func validateBlockSize(size uintptr) error {
	if size < MinBlockSize || size%Align != 0 {
		return errors.InvalidSize(size, "allocator.validateBlockSize")
	}

	return nil
}
