package alloc

import (
	"fmt"
	"unsafe"
)

const defaultPagesPerWorker = 2 * 512 * 512

// pool hands out pages from slabs carved up ahead of time. Each worker
// owns a private freelist over its own slab, so acquire and release are
// pointer pops with no cross-worker synchronization; contention observed
// through this backend is purely the harness's own.
type pool struct {
	slabs [][]byte
	free  [][]Handle
}

// NewPool preallocates pagesPerWorker pages for each of maxWorkers
// workers. A zero pagesPerWorker picks a default large enough for one
// batched run.
func NewPool(maxWorkers, pagesPerWorker int) (Allocator, error) {
	if maxWorkers < 1 {
		return nil, fmt.Errorf("pool: need at least one worker, got %d", maxWorkers)
	}
	if pagesPerWorker == 0 {
		pagesPerWorker = defaultPagesPerWorker
	}

	p := &pool{
		slabs: make([][]byte, maxWorkers),
		free:  make([][]Handle, maxWorkers),
	}
	for w := 0; w < maxWorkers; w++ {
		p.slabs[w] = make([]byte, pagesPerWorker*PageSize)
		p.free[w] = make([]Handle, pagesPerWorker)
		for i := 0; i < pagesPerWorker; i++ {
			p.free[w][i] = unsafe.Pointer(&p.slabs[w][i*PageSize])
		}
	}
	return p, nil
}

func (p *pool) Name() string {
	return "Pool"
}

func (p *pool) Acquire(worker int) (Handle, error) {
	free := p.free[worker]
	if len(free) == 0 {
		return nil, fmt.Errorf("pool: worker %d out of pages", worker)
	}
	h := free[len(free)-1]
	p.free[worker] = free[:len(free)-1]
	return h, nil
}

func (p *pool) Release(worker int, h Handle) error {
	p.free[worker] = append(p.free[worker], h)
	return nil
}

func (p *pool) Close() error {
	p.slabs = nil
	p.free = nil
	return nil
}
