package allocator

// fakePageSource is a bounded, deterministic stand-in for the platform
// page sources, used so the trace and property tests can reach the
// out-of-memory paths (spec §7) without actually exhausting address
// space, and so tests don't depend on mmap/mprotect being available in
// the test sandbox.
type fakePageSource struct {
	backing []byte
	used    uintptr
	limit   uintptr
}

func newFakePageSource(limit uintptr) *fakePageSource {
	return &fakePageSource{backing: make([]byte, limit), limit: limit}
}

func (p *fakePageSource) Grow(n uintptr) bool {
	if p.used+n > p.limit {
		return false
	}

	p.used += n

	return true
}

func (p *fakePageSource) Bytes() []byte {
	return p.backing[:p.used]
}

func (p *fakePageSource) Len() uintptr {
	return p.used
}

// newTestHeap builds a Heap over a fakePageSource with the given
// address-space ceiling, enabling the debug checker so any invariant
// violation surfaces immediately as a panic.
func newTestHeap(t testingT, limit uintptr) *Heap {
	t.Helper()

	h, err := NewHeap(WithPageSource(newFakePageSource(limit)), WithChecker(true))
	if err != nil {
		t.Fatalf("NewHeap: %v", err)
	}

	return h
}

// testingT is the subset of *testing.T this package's helpers need, so
// helpers_test.go doesn't have to import "testing" just for the type.
type testingT interface {
	Helper()
	Fatalf(format string, args ...interface{})
}
