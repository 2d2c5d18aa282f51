package allocator

// linkOffset is a free-list link: an H0-relative, 32-bit signed offset
// (spec §3, §9 "Links as offsets"). Two values are reserved and carry
// their own meaning rather than being magic numbers sprinkled through
// freelist.go:
//
//   - offsetHead (0) is the header word stamped on every head sentinel
//     (a head's "size" field is zero, which never matches any real
//     request). As a link value, 0 is simply H0's own offset, i.e. the
//     head sentinel of list 0; links to other lists' heads carry those
//     heads' real offsets.
//   - offsetNone marks an absent neighbor (no prev, no next).
type linkOffset int32

const (
	offsetHead linkOffset = 0
	offsetNone linkOffset = -1
)

// toAddr resolves a link into an absolute address, given the heap's
// base. ok is false only for offsetNone (a head's prev link, a tail's
// next link). Every other value, 0 included, resolves to an address;
// callers recognise head sentinels with isHeadSentinel (a zero header
// word) rather than by comparing a link to offsetHead.
func (o linkOffset) toAddr(h0 uintptr) (uintptr, bool) {
	if o == offsetNone {
		return 0, false
	}

	return h0 + uintptr(int32(o)), true
}

// offsetOf converts an absolute address back into an H0-relative link.
func offsetOf(addr, h0 uintptr) linkOffset {
	return linkOffset(int32(int64(addr) - int64(h0)))
}
