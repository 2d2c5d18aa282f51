// Package runtime supplies the heap allocator's external "more-core"
// collaborator: the raw page-acquisition primitive that hands the block
// engine (internal/allocator) freshly appended, contiguous bytes. The
// engine itself never calls the operating system directly (spec §1
// treats page acquisition as an external collaborator); this package is
// that collaborator's concrete implementation.
package runtime

// PageSource grows a single contiguous byte region monotonically. Grow
// requests n additional bytes, contiguous with any previously returned
// region, and reports whether the request succeeded. Bytes returns the
// current backing slice; it is only valid to read/write the first Len()
// bytes of it, and the slice's underlying array is stable across Grow
// calls (Grow extends length, it never reallocates the visible prefix),
// so addresses already handed to callers remain valid.
type PageSource interface {
	Grow(n uintptr) bool
	Bytes() []byte
	Len() uintptr
}

// DefaultReserve is the virtual address space reserved up front by the
// platform page sources. It bounds how large a single heap can grow
// without a fresh PageSource; it is far below the 2^32-byte ceiling the
// offset-link encoding assumes (spec §3, §9), since reserving a full
// 4GiB range is wasteful for the common case and some sandboxes cap
// anonymous mmap size.
const DefaultReserve = 256 * 1024 * 1024
