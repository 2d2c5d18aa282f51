package allocator

import (
	"log"

	heaprt "github.com/orizon-lang/heapcore/internal/runtime"
)

// Config configures a Heap. Constructed via defaultConfig and the
// functional Option pattern, matching the allocator package's existing
// Config/Option convention.
type Config struct {
	// ReserveBytes bounds the virtual address range the platform page
	// source reserves up front (internal/runtime.PageSource). It is an
	// implementation ceiling on a single Heap's growth, independent of
	// the 2^32-byte ceiling the offset-link encoding assumes (spec §3).
	ReserveBytes uintptr

	// EnableChecker runs the full debug consistency checker (I1-I8,
	// P1-P7) after every mutating operation. Development/test use only
	// — it walks the whole heap and is not part of the steady-state
	// cost model.
	EnableChecker bool

	// FormatVersion is checked against formatCompatConstraint by NewHeap; see
	// internal/allocatorcfg.
	FormatVersion string

	Logger *log.Logger

	// PageSource overrides the platform default (used by tests to
	// inject a bounded fake so out-of-memory paths are reachable
	// without actually exhausting address space).
	PageSource heaprt.PageSource
}

// Option mutates a Config under construction.
type Option func(*Config)

func defaultConfig() *Config {
	return &Config{
		ReserveBytes:  heaprt.DefaultReserve,
		EnableChecker: false,
		FormatVersion: CurrentFormatVersion,
		Logger:        log.Default(),
	}
}

// WithChecker enables or disables the post-operation consistency check.
func WithChecker(enabled bool) Option {
	return func(c *Config) { c.EnableChecker = enabled }
}

// WithReserve overrides the platform page source's address-space
// reservation.
func WithReserve(n uintptr) Option {
	return func(c *Config) { c.ReserveBytes = n }
}

// WithLogger sets Config.Logger. Nothing in this package writes to it:
// growth and the checker emit no log output.
func WithLogger(l *log.Logger) Option {
	return func(c *Config) { c.Logger = l }
}

// WithPageSource overrides the more-core collaborator outright.
func WithPageSource(src heaprt.PageSource) Option {
	return func(c *Config) { c.PageSource = src }
}

// WithFormatVersion overrides the on-heap format version string checked
// at Init.
func WithFormatVersion(v string) Option {
	return func(c *Config) { c.FormatVersion = v }
}
