package allocator

// growTail requests n more bytes from the page source and, on success,
// stamps a new USED block of that size at the old heap end, advancing
// `last` and HE (spec §4.6). It returns the new block's address, or
// ok=false if the page source refused.
func (h *Heap) growTail(n uintptr) (uintptr, bool) {
	if !h.src.Grow(n) {
		return 0, false
	}

	h.view.bytes = h.src.Bytes()

	addr := h.he
	h.view.stamp(addr, n, true)
	h.last = addr
	h.he += n
	h.stats.HeapBytes += uintptr(n)

	return addr, true
}

// growLast implements the grow-last reallocate fast path (spec §4.6):
// when the block being resized is `last`, only the size delta is
// requested from the page source, the block's tags are rewritten in
// place, and no payload copy is needed.
func (h *Heap) growLast(addr, newSize uintptr) bool {
	oldSize := h.view.sizeOf(addr)
	delta := newSize - oldSize

	if !h.src.Grow(delta) {
		return false
	}

	h.view.bytes = h.src.Bytes()

	h.view.stamp(addr, newSize, true)
	h.he += delta
	h.stats.HeapBytes += delta
	h.stats.UsedBytes += delta

	return true
}
