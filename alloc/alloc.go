// Package alloc defines the allocator capability the benchmark measures
// and a set of backends for it.
package alloc

import (
	"fmt"
	"unsafe"
)

// PageSize is the unit of acquisition for the built-in backends.
const PageSize = 4096

// Handle refers to one acquired unit of the measured resource.
type Handle = unsafe.Pointer

// Allocator is the capability under measurement. Acquire and Release take
// the caller's worker index so backends may keep per-worker state (local
// freelists, counters) without sharing; implementations must tolerate
// concurrent calls from distinct workers.
type Allocator interface {
	// Name labels this backend in published results.
	Name() string

	// Acquire obtains one unit. A nil handle with a non-nil error marks a
	// failed attempt; the harness logs and continues.
	Acquire(worker int) (Handle, error)

	// Release returns a previously acquired unit.
	Release(worker int, h Handle) error

	// Close frees backend-owned resources.
	Close() error
}

// New constructs a backend by name. Backends available depend on the
// build; the cgo malloc backend is only present in cgo builds.
func New(name string, maxWorkers int) (Allocator, error) {
	switch name {
	case "heap":
		return NewHeap(), nil
	case "pool":
		return NewPool(maxWorkers, 0)
	case "malloc":
		return newMalloc()
	default:
		return nil, fmt.Errorf("unknown allocator %q", name)
	}
}
