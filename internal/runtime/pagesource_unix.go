//go:build unix

// +build unix

package runtime

import (
	"sync"

	"golang.org/x/sys/unix"
)

// mmapPageSource reserves a large PROT_NONE virtual mapping up front
// (cheap: no physical pages are committed) and grows the committed
// prefix by mprotect-ing further pages to PROT_READ|PROT_WRITE as Grow
// is called. This is the reserve-then-commit pattern the Orizon runtime
// uses for region growth (internal/runtime/region_alloc.go's
// GrowthPolicy), applied here to back a single flat heap instead of a
// pool of regions.
type mmapPageSource struct {
	mu       sync.Mutex
	reserved []byte
	used     uintptr
}

// NewPlatformPageSource reserves reserveBytes of address space and
// returns a PageSource backed by it. It returns an error if the
// reservation itself fails (e.g. the sandbox denies anonymous mmap of
// that size); callers should fall back to a smaller reservation.
func NewPlatformPageSource(reserveBytes uintptr) (PageSource, error) {
	b, err := unix.Mmap(-1, 0, int(reserveBytes), unix.PROT_NONE, unix.MAP_ANON|unix.MAP_PRIVATE)
	if err != nil {
		return nil, err
	}

	return &mmapPageSource{reserved: b}, nil
}

func (p *mmapPageSource) Grow(n uintptr) bool {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.used+n > uintptr(len(p.reserved)) {
		return false
	}

	// mprotect needs a page-aligned start; re-protecting the already
	// committed part of the first page is harmless.
	pageSize := uintptr(unix.Getpagesize())
	start := p.used &^ (pageSize - 1)

	if err := unix.Mprotect(p.reserved[start:p.used+n], unix.PROT_READ|unix.PROT_WRITE); err != nil {
		return false
	}

	p.used += n

	return true
}

func (p *mmapPageSource) Bytes() []byte {
	p.mu.Lock()
	defer p.mu.Unlock()

	return p.reserved[:p.used]
}

func (p *mmapPageSource) Len() uintptr {
	p.mu.Lock()
	defer p.mu.Unlock()

	return p.used
}
