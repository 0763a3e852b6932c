package alloc

import (
	"runtime"
	"strings"
	"sync"
	"testing"
)

func TestHeapAcquireRelease(t *testing.T) {
	h := NewHeap()
	defer h.Close()

	p, err := h.Acquire(0)
	if err != nil {
		t.Fatal(err)
	}
	if p == nil {
		t.Error("expected a non-nil handle")
	}
	if err := h.Release(0, p); err != nil {
		t.Error(err)
	}
}

func TestHeapConcurrent(t *testing.T) {
	n := 10000
	nThreads := runtime.GOMAXPROCS(0) * 2
	var wg sync.WaitGroup

	h := NewHeap()
	defer h.Close()

	ptrs := make([][]Handle, nThreads)
	for i := 0; i < nThreads; i++ {
		wg.Add(1)
		ptrs[i] = make([]Handle, 0, n)
		go func(k int) {
			defer wg.Done()
			for j := 0; j < n; j++ {
				p, err := h.Acquire(k)
				if err != nil {
					t.Error(err)
					return
				}
				ptrs[k] = append(ptrs[k], p)
			}
		}(i)
	}
	wg.Wait()

	for i := 0; i < nThreads; i++ {
		wg.Add(1)
		go func(k int) {
			defer wg.Done()
			for j := 0; j < len(ptrs[k]); j++ {
				h.Release(k, ptrs[k][j])
			}
			ptrs[k] = nil
		}(i)
	}
	wg.Wait()
}

func TestHeapStats(t *testing.T) {
	Debug = true
	h := NewHeap().(*heap)

	p, _ := h.Acquire(0)
	h.Release(0, p)

	s := h.Stats()
	if !strings.Contains(s, "Acquires = 1") ||
		!strings.Contains(s, "Releases = 1") {
		t.Errorf("unexpected stats output: %s", s)
	}
}
