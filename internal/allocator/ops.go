package allocator

import (
	"unsafe"

	"github.com/orizon-lang/heapcore/internal/errors"
)

// ptrToAddr converts a payload pointer previously returned by Allocate/
// Reallocate/ZeroAllocate back into a byte offset into the heap's
// backing array (the same address space as h0, last and he).
func (h *Heap) ptrToAddr(p unsafe.Pointer) uintptr {
	base := uintptr(unsafe.Pointer(&h.view.bytes[0]))

	return uintptr(p) - base
}

// addrToPayloadPtr returns the payload pointer for the block at addr.
func (h *Heap) addrToPayloadPtr(addr uintptr) unsafe.Pointer {
	payload := payloadAddr(addr)

	return unsafe.Pointer(&h.view.bytes[payload])
}

// Allocate implements spec §4.7. It returns nil ("none") if the heap
// cannot be grown to satisfy the request; on nil, h.LastError() carries
// the structured detail.
func (h *Heap) Allocate(requestedBytes uintptr) unsafe.Pointer {
	h.lastErr = nil

	size := blockRequestSize(requestedBytes)

	if cand, ok := h.findFreeBlock(size); ok {
		h.remove(cand)

		candSize := h.view.sizeOf(cand)
		if candSize > size {
			h.split(cand, size)
		}

		h.view.stamp(cand, size, true)

		h.stats.UsedBytes += size
		h.stats.FreeBytes -= size
		h.recordAllocation(requestedBytes)
		h.checkIfEnabled("Allocate")

		return h.addrToPayloadPtr(cand)
	}

	addr, ok := h.growTail(size)
	if !ok {
		h.lastErr = errors.OutOfMemory(size)

		return nil
	}

	h.stats.UsedBytes += size
	h.recordAllocation(requestedBytes)
	h.checkIfEnabled("Allocate")

	return h.addrToPayloadPtr(addr)
}

func (h *Heap) recordAllocation(requestedBytes uintptr) {
	h.stats.RequestedBytes += uint64(requestedBytes)
	h.stats.AllocCount++
}

// Free implements spec §4.7. payload == nil ("none") is a no-op.
func (h *Heap) Free(payload unsafe.Pointer) {
	if payload == nil {
		return
	}

	addr := headerFromPayload(h.ptrToAddr(payload))
	size := h.view.sizeOf(addr)

	h.view.stamp(addr, size, false)
	h.coalesce(addr)

	h.stats.UsedBytes -= size
	h.stats.FreeBytes += size
	h.stats.FreeCount++

	h.checkIfEnabled("Free")
}

// Reallocate implements spec §4.7.
func (h *Heap) Reallocate(oldPayload unsafe.Pointer, requestedBytes uintptr) unsafe.Pointer {
	h.lastErr = nil

	if requestedBytes == 0 {
		h.Free(oldPayload)

		return nil
	}

	if oldPayload == nil {
		return h.Allocate(requestedBytes)
	}

	oldAddr := headerFromPayload(h.ptrToAddr(oldPayload))
	oldSize := h.view.sizeOf(oldAddr)
	newSize := blockRequestSize(requestedBytes)

	if newSize <= oldSize {
		return oldPayload
	}

	if oldAddr == h.last {
		if h.growLast(oldAddr, newSize) {
			h.recordAllocation(requestedBytes)
			h.checkIfEnabled("Reallocate")

			return oldPayload
		}

		h.lastErr = errors.OutOfMemory(newSize - oldSize)

		return nil
	}

	newPayload := h.Allocate(requestedBytes)
	if newPayload == nil {
		return nil
	}

	oldPayloadBytes := oldSize - 2*tagSize
	dst := (*[1 << 30]byte)(newPayload)[:oldPayloadBytes:oldPayloadBytes]
	src := (*[1 << 30]byte)(oldPayload)[:oldPayloadBytes:oldPayloadBytes]
	copy(dst, src)

	h.Free(oldPayload)
	h.checkIfEnabled("Reallocate")

	return newPayload
}

// ZeroAllocate implements spec §4.7: allocate count*size bytes and zero
// them.
func (h *Heap) ZeroAllocate(count, size uintptr) unsafe.Pointer {
	total := count * size

	p := h.Allocate(total)
	if p == nil {
		return nil
	}

	b := (*[1 << 30]byte)(p)[:total:total]
	for i := range b {
		b[i] = 0
	}

	return p
}
