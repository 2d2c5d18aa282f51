package allocator

// split carves a free block at addr down to keep bytes, inserting the
// remainder (size_of(addr) - keep) as a new free block (spec §4.5). It
// is only called when size_of(addr) > keep; MinBlockSize and alignment
// guarantee the remainder is always itself a valid block. Callers are
// responsible for re-stamping addr at its new (used) size afterward —
// split only carves off and files away the remainder.
func (h *Heap) split(addr, keep uintptr) {
	total := h.view.sizeOf(addr)
	remAddr := addr + keep
	remSize := total - keep

	wasLast := addr == h.last

	h.view.stamp(remAddr, remSize, false)

	if wasLast {
		h.last = remAddr
	}

	h.insert(remAddr)
}

// physicalNeighborFree reports whether the block at addr (obtained via
// nextPhysical/prevPhysical) is FREE. Sentinels are never visited here:
// nextPhysical never steps from a real block onto a head sentinel
// (every guard pair is head-then-tail, and no real block is ever
// physically adjacent to a pair's head), and the one guard
// prevPhysical/nextPhysical can reach — the final tail sentinel — always
// carries a proper USED tag (17), so it reads as not-free with no
// special-casing required.
func (h *Heap) physicalNeighborFree(addr uintptr, ok bool) bool {
	return ok && !h.view.isUsed(addr)
}

// nextPhysical steps to the next block in the physical chain, or
// ok=false if addr is `last` (spec §4.1).
func (h *Heap) nextPhysical(addr uintptr) (uintptr, bool) {
	return h.view.nextPhysical(addr, h.last)
}

// prevPhysical steps to the previous block in the physical chain, or
// ok=false if addr is H0 (spec §4.1). Safe to call on any real block:
// its physical predecessor is either another real block or the final
// tail sentinel, both of which carry accurate size tags.
func (h *Heap) prevPhysical(addr uintptr) (uintptr, bool) {
	return h.view.prevPhysical(addr, h.h0)
}

// coalesce merges addr (already stamped FREE by the caller) with any
// FREE physical neighbors and files the resulting block into its
// matching list exactly once (spec §4.5). This fixes the spec's noted
// double-coalesce bug: every branch below inserts its final merged
// block, including when both neighbors are free.
func (h *Heap) coalesce(addr uintptr) {
	prevAddr, prevOK := h.prevPhysical(addr)
	nextAddr, nextOK := h.nextPhysical(addr)

	prevFree := h.physicalNeighborFree(prevAddr, prevOK)
	nextFree := h.physicalNeighborFree(nextAddr, nextOK)

	switch {
	case !prevFree && !nextFree:
		h.insert(addr)

	case prevFree && !nextFree:
		h.remove(prevAddr)
		h.mergeInto(prevAddr, addr)
		h.insert(prevAddr)

	case !prevFree && nextFree:
		h.remove(nextAddr)
		h.mergeInto(addr, nextAddr)
		h.insert(addr)

	default: // both neighbors free
		h.remove(nextAddr)
		h.mergeInto(addr, nextAddr)

		h.remove(prevAddr)
		h.mergeInto(prevAddr, addr)
		h.insert(prevAddr)
	}
}

// mergeInto absorbs the block at absorbed (physically adjacent and
// immediately following dst) into dst, re-stamping dst with the
// combined size and advancing `last` if absorbed was last.
func (h *Heap) mergeInto(dst, absorbed uintptr) {
	combined := h.view.sizeOf(dst) + h.view.sizeOf(absorbed)
	wasLast := absorbed == h.last

	h.view.stamp(dst, combined, false)

	if wasLast {
		h.last = dst
	}
}
