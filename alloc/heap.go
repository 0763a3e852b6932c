package alloc

import (
	"fmt"
	"sync/atomic"
	"unsafe"
)

// Debug enables acquire/release counting on the built-in backends.
var Debug bool = true

// heap acquires page-sized buffers from the Go heap and releases them to
// the garbage collector.
type heap struct {
	stats struct {
		allocs uint64
		frees  uint64
	}
}

func NewHeap() Allocator {
	return &heap{}
}

func (h *heap) Name() string {
	return "GoHeap"
}

func (h *heap) Acquire(worker int) (Handle, error) {
	if Debug {
		atomic.AddUint64(&h.stats.allocs, 1)
	}
	buf := make([]byte, PageSize)
	return unsafe.Pointer(&buf[0]), nil
}

func (h *heap) Release(worker int, p Handle) error {
	if Debug {
		atomic.AddUint64(&h.stats.frees, 1)
	}
	return nil
}

func (h *heap) Close() error {
	return nil
}

func (h *heap) Stats() string {
	s := "==== Stats ====\n"
	if Debug {
		s += fmt.Sprintf("Acquires = %d\n"+
			"Releases = %d\n",
			atomic.LoadUint64(&h.stats.allocs),
			atomic.LoadUint64(&h.stats.frees))
	}
	return s
}
