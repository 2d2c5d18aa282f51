package allocator

import (
	"fmt"

	semver "github.com/Masterminds/semver/v3"

	"github.com/orizon-lang/heapcore/internal/errors"
	heaprt "github.com/orizon-lang/heapcore/internal/runtime"
)

// CurrentFormatVersion identifies the on-heap bit-packed header/footer
// and offset-link encoding this package writes and reads (spec §3, §9).
// It is checked against formatCompatConstraint at Init so a Config built
// for an incompatible layout fails fast instead of silently
// misinterpreting header words.
const CurrentFormatVersion = "1.0.0"

// formatCompatConstraint is the range of on-heap format versions this
// build of the engine can read and write.
const formatCompatConstraint = ">= 1.0.0, < 2.0.0"

// paddingBytes is the §4.8 step-1 padding requested before the first
// sentinel so the first payload address lands on Align.
const paddingBytes = Align - tagSize

// guardRegionBytes is the total size of all 11 sentinel pairs (§4.8
// step 2).
const guardRegionBytes = uintptr(directorySize) * 2 * MinBlockSize

// Heap is a single contiguous, monotonically-growable block allocator
// (spec §3). It is not safe for concurrent use (spec §5 non-goal).
type Heap struct {
	view heapView
	src  heaprt.PageSource

	h0        uintptr // first sentinel address
	lastGuard uintptr // address of the final tail sentinel
	userStart uintptr // lastGuard + MinBlockSize: first address a user block can occupy
	last      uintptr // highest-address non-sentinel block, or the final tail if heap is empty
	he        uintptr // heap end

	dirHeads [directorySize]uintptr

	cfg     *Config
	lastErr *errors.StandardError
	stats   Stats
}

// Stats summarizes a Heap's byte accounting (spec §4 "Request-size
// telemetry" supplement). It is maintained incrementally, not by
// walking the heap, so reading it is O(1).
type Stats struct {
	HeapBytes      uintptr // bytes granted by more-core beyond the sentinel directory
	UsedBytes      uintptr // bytes currently in USED blocks (incl. header/footer)
	FreeBytes      uintptr // bytes currently in FREE blocks (incl. header/footer)
	RequestedBytes uint64  // cumulative payload bytes requested across all successful allocations
	AllocCount     uint64
	FreeCount      uint64
}

// NewHeap initializes a fresh heap (spec §4.8) and returns it, or an
// error if the format version is incompatible or the initial more-core
// request fails.
func NewHeap(opts ...Option) (*Heap, error) {
	cfg := defaultConfig()
	for _, opt := range opts {
		opt(cfg)
	}

	v, err := semver.NewVersion(cfg.FormatVersion)
	if err != nil {
		return nil, fmt.Errorf("heapcore: invalid format version %q: %w", cfg.FormatVersion, err)
	}

	constraint, err := semver.NewConstraint(formatCompatConstraint)
	if err != nil {
		return nil, fmt.Errorf("heapcore: invalid format constraint: %w", err)
	}

	if !constraint.Check(v) {
		return nil, fmt.Errorf("heapcore: format version %s is incompatible with %s", cfg.FormatVersion, formatCompatConstraint)
	}

	src := cfg.PageSource
	if src == nil {
		platformSrc, err := heaprt.NewPlatformPageSource(cfg.ReserveBytes)
		if err != nil {
			return nil, fmt.Errorf("heapcore: reserving page source: %w", err)
		}

		src = platformSrc
	}

	h := &Heap{src: src, cfg: cfg}

	initial := paddingBytes + guardRegionBytes
	if !src.Grow(initial) {
		return nil, errors.OutOfMemory(initial)
	}

	h.view = heapView{bytes: src.Bytes()}
	h.h0 = paddingBytes

	for i := 0; i < directorySize; i++ {
		pairStart := h.h0 + uintptr(i)*2*MinBlockSize
		head := pairStart
		tail := pairStart + MinBlockSize
		h.dirHeads[i] = head

		h.view.putU32(head, 0)
		h.view.putU32(footerAddr(head, MinBlockSize), 0)
		h.view.putI32(payloadAddr(head), int32(offsetNone))
		h.view.putI32(payloadAddr(head)+int32Size, int32(offsetOf(tail, h.h0)))

		tailTag := packTag(MinBlockSize, true)
		h.view.putU32(tail, tailTag)
		h.view.putU32(footerAddr(tail, MinBlockSize), tailTag)
		h.view.putI32(payloadAddr(tail), int32(offsetOf(head, h.h0)))
		h.view.putI32(payloadAddr(tail)+int32Size, int32(offsetNone))
	}

	h.lastGuard = h.dirHeads[directorySize-1] + MinBlockSize
	h.userStart = h.lastGuard + MinBlockSize
	h.last = h.lastGuard
	h.he = h.userStart

	h.stats.HeapBytes = 0

	return h, nil
}

// int32Size avoids a naked "4" scattered through link-word arithmetic.
const int32Size = uintptr(linkSize)

// Stats returns a snapshot of the heap's byte accounting.
func (h *Heap) Stats() Stats {
	return h.stats
}

// LastError returns the structured detail behind the most recent nil
// return from Allocate/Reallocate/ZeroAllocate, or nil if the last such
// call succeeded or none has been made.
func (h *Heap) LastError() *errors.StandardError {
	return h.lastErr
}

func (h *Heap) checkIfEnabled(op string) {
	if h.cfg.EnableChecker {
		if failures := h.Check(); len(failures) > 0 {
			panic(errors.InvariantViolation(op, map[string]interface{}{"failures": failures}))
		}
	}
}
