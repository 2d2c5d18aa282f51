// Package allocatorcfg loads the tunables for a heapcore Heap from a
// JSON file and can watch that file, handing each reparsed File to the
// caller. The File carries no logging settings, and an existing Heap
// has no method to change its tunables: they take effect only in a Heap
// built after the reload.
package allocatorcfg

import (
	"encoding/json"
	"fmt"
	"os"
)

// File is the on-disk shape of an allocator tuning file.
type File struct {
	EnableChecker bool   `json:"enable_checker"`
	ReserveBytes  uint64 `json:"reserve_bytes"`
	FormatVersion string `json:"format_version"`
}

// Load reads and parses a tuning file. A missing file is not an error;
// it returns the zero File so callers can layer it over defaults.
func Load(path string) (File, error) {
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return File{}, nil
	}

	if err != nil {
		return File{}, fmt.Errorf("allocatorcfg: reading %s: %w", path, err)
	}

	var f File
	if err := json.Unmarshal(data, &f); err != nil {
		return File{}, fmt.Errorf("allocatorcfg: parsing %s: %w", path, err)
	}

	return f, nil
}
