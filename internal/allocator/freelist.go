package allocator

// Free-list link accessors (spec §3, §4.3). A free block's payload
// overlays two link words: prev at payload+0, next at payload+linkSize.

func (h *Heap) prevLink(addr uintptr) linkOffset {
	return linkOffset(h.view.i32(payloadAddr(addr)))
}

func (h *Heap) nextLink(addr uintptr) linkOffset {
	return linkOffset(h.view.i32(payloadAddr(addr) + linkSize))
}

func (h *Heap) setPrevLink(addr uintptr, off linkOffset) {
	h.view.putI32(payloadAddr(addr), int32(off))
}

func (h *Heap) setNextLink(addr uintptr, off linkOffset) {
	h.view.putI32(payloadAddr(addr)+linkSize, int32(off))
}

// isHeadSentinel reports whether addr is a list's head sentinel: its
// header word is written as exactly 0 at init and never changes (§4.3).
func (h *Heap) isHeadSentinel(addr uintptr) bool {
	return h.view.header(addr) == 0
}

// isTailSentinel reports whether addr is a list's tail sentinel: header
// equals 17 (size 16 | USED) and addr lies within the guard region
// (§4.3). The address bound distinguishes a true tail sentinel from a
// coincidentally-sized 16-byte USED user block, though in practice no
// FREE block can ever carry this bit pattern (USED is set), so the
// distinction only matters against other USED blocks.
func (h *Heap) isTailSentinel(addr uintptr) bool {
	return h.view.header(addr) == packTag(MinBlockSize, true) && addr <= h.lastGuard
}

// insert splices block onto the head of the list matching its size
// (spec §4.3): insertion is always immediately after the head sentinel,
// giving LIFO discipline within a class.
func (h *Heap) insert(block uintptr) {
	idx := listFor(h.view.sizeOf(block))
	head := h.dirHeads[idx]

	oldFirst := h.nextLink(head)

	h.setPrevLink(block, offsetOf(head, h.h0))
	h.setNextLink(block, oldFirst)

	if oldFirstAddr, ok := oldFirst.toAddr(h.h0); ok {
		h.setPrevLink(oldFirstAddr, offsetOf(block, h.h0))
	}

	h.setNextLink(head, offsetOf(block, h.h0))
}

// remove splices block out of whatever list currently holds it (spec
// §4.3). p and n always resolve to real addresses because every list is
// bracketed by its own sentinels.
func (h *Heap) remove(block uintptr) {
	p := h.prevLink(block)
	n := h.nextLink(block)

	pAddr, _ := p.toAddr(h.h0)
	nAddr, _ := n.toAddr(h.h0)

	h.setNextLink(pAddr, n)
	h.setPrevLink(nAddr, p)
}

// findInList walks head's list first-fit, returning the first block
// whose size is at least want, or ok=false if the tail sentinel is
// reached first (spec §4.3, §4.4).
func (h *Heap) findInList(head uintptr, want uintptr) (uintptr, bool) {
	cur, ok := h.nextLink(head).toAddr(h.h0)
	if !ok {
		return 0, false
	}

	for !h.isTailSentinel(cur) {
		if h.view.sizeOf(cur) >= want {
			return cur, true
		}

		next, ok := h.nextLink(cur).toAddr(h.h0)
		if !ok {
			return 0, false
		}

		cur = next
	}

	return 0, false
}
