//go:build cgo
// +build cgo

package alloc

/*
#include <stdlib.h>
*/
import "C"

import (
	"fmt"
	"sync/atomic"
)

// cmalloc acquires pages straight from the C library allocator. This is
// the backend closest to what the harness was built to measure: every
// operation crosses into libc and contends on whatever locks it keeps.
type cmalloc struct {
	stats struct {
		allocs uint64
		frees  uint64
	}
}

func newMalloc() (Allocator, error) {
	return &cmalloc{}, nil
}

func (m *cmalloc) Name() string {
	return "Malloc"
}

func (m *cmalloc) Acquire(worker int) (Handle, error) {
	if Debug {
		atomic.AddUint64(&m.stats.allocs, 1)
	}
	p := C.malloc(C.size_t(PageSize))
	if p == nil {
		return nil, fmt.Errorf("malloc failed")
	}
	return Handle(p), nil
}

func (m *cmalloc) Release(worker int, h Handle) error {
	if Debug {
		atomic.AddUint64(&m.stats.frees, 1)
	}
	C.free(h)
	return nil
}

func (m *cmalloc) Close() error {
	return nil
}

func (m *cmalloc) Stats() string {
	s := "==== Stats ====\n"
	if Debug {
		s += fmt.Sprintf("Mallocs = %d\n"+
			"Frees   = %d\n",
			atomic.LoadUint64(&m.stats.allocs),
			atomic.LoadUint64(&m.stats.frees))
	}
	return s
}
