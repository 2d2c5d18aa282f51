package allocator

// findFreeBlock implements the placement engine (spec §4.4): first-fit
// within listFor(size)'s class, falling back to each larger list in
// directory order until one yields a candidate.
func (h *Heap) findFreeBlock(size uintptr) (uintptr, bool) {
	start := listFor(size)

	for idx := start; idx < directorySize; idx++ {
		if cand, ok := h.findInList(h.dirHeads[idx], size); ok {
			return cand, true
		}
	}

	return 0, false
}
