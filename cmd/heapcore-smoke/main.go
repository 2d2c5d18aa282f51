// Command heapcore-smoke exercises the heapcore allocator through a
// handful of alloc/free/realloc cycles and prints its Stats. It is a
// smoke driver, not the benchmarking harness (out of scope for this
// module) — it only demonstrates that a Heap can be built and used.
package main

import (
	"flag"
	"fmt"
	"os"
	"unsafe"

	"github.com/orizon-lang/heapcore/internal/allocator"
	"github.com/orizon-lang/heapcore/internal/cli"
)

func main() {
	checker := flag.Bool("checker", false, "run the debug consistency checker after every operation")
	version := flag.Bool("version", false, "print version information and exit")
	jsonOut := flag.Bool("json", false, "print version information as JSON")
	flag.Parse()

	if *version {
		cli.PrintVersion("heapcore-smoke", *jsonOut)

		return
	}

	h, err := allocator.NewHeap(allocator.WithChecker(*checker))
	if err != nil {
		cli.ExitWithError("initializing heap: %v", err)
	}

	var ptrs []unsafe.Pointer

	for _, n := range []uintptr{16, 64, 256, 1024, 40} {
		p := h.Allocate(n)
		if p == nil {
			cli.ExitWithError("allocate(%d) failed: %v", n, h.LastError())
		}

		ptrs = append(ptrs, p)
	}

	ptrs[2] = h.Reallocate(ptrs[2], 4096)
	if ptrs[2] == nil {
		cli.ExitWithError("reallocate failed: %v", h.LastError())
	}

	for _, p := range ptrs[:2] {
		h.Free(p)
	}

	z := h.ZeroAllocate(8, 32)
	if z == nil {
		cli.ExitWithError("zero_allocate failed: %v", h.LastError())
	}

	if fails := h.Check(); len(fails) > 0 {
		fmt.Fprintln(os.Stderr, "consistency check failures:")

		for _, f := range fails {
			fmt.Fprintln(os.Stderr, " ", f)
		}

		os.Exit(1)
	}

	s := h.Stats()
	fmt.Printf("heap=%d used=%d free=%d requested=%d allocs=%d frees=%d\n",
		s.HeapBytes, s.UsedBytes, s.FreeBytes, s.RequestedBytes, s.AllocCount, s.FreeCount)
}
