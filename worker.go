package allocbench

import (
	"runtime"

	"github.com/memlab/allocbench/alloc"
)

// A worker walks the fixed phase sequence of one run: allocate its handle
// buffer, signal readiness, block on the shared start barrier, time the
// acquire loop, signal, block on the shared mid barrier, time the release
// loop, signal again. In recycle mode the two loops fuse into one
// acquire+release loop gated only by the mid barrier.
//
// The cost slots are written exactly once by the owning worker; the
// orchestrator reads them only after receiving the final signal, which
// establishes the happens-before edge.
type worker struct {
	id  int
	run *run

	clock   Clock
	handles []alloc.Handle

	acquireCost uint64
	releaseCost uint64

	sig  chan struct{}
	done chan struct{}
}

func newWorker(id int, r *run) *worker {
	return &worker{
		id:    id,
		run:   r,
		clock: r.clockSource(id),
		// Buffered for every signal the worker will ever send, so an
		// aborting orchestrator can stop draining without blocking it.
		sig:  make(chan struct{}, 3),
		done: make(chan struct{}),
	}
}

func (w *worker) signal() {
	w.sig <- struct{}{}
}

func (w *worker) main() {
	defer close(w.done)

	runtime.LockOSThread()
	defer runtime.UnlockOSThread()

	if err := pinWorker(w.id, w.run.cfg.CPUStride); err != nil {
		w.run.log.Debugf("worker %d not pinned: %v", w.id, err)
	}

	w.run.log.Tracef("worker %d up", w.id)

	if w.run.cfg.Recycle {
		w.recycle()
	} else {
		w.batched()
	}
}

func (w *worker) batched() {
	cfg := w.run.cfg
	nops := cfg.NumOps

	w.handles = make([]alloc.Handle, nops)
	w.signal()

	w.run.start.ArriveAndWait()
	if w.run.aborted() {
		return
	}

	start := w.clock.Now()
	for j := 0; j < nops; j++ {
		h, err := cfg.Allocator.Acquire(w.id)
		if err != nil {
			w.run.log.Errorf("worker %d: acquire: %v", w.id, err)
		}
		w.handles[j] = h
	}
	w.acquireCost = Elapsed(start, w.clock.Now()) / uint64(nops)
	w.run.log.Tracef("worker %d: acquire %d", w.id, w.acquireCost)
	w.signal()

	w.run.mid.ArriveAndWait()
	if w.run.aborted() {
		return
	}

	start = w.clock.Now()
	for j := 0; j < nops; j++ {
		if w.handles[j] == nil {
			continue
		}
		if err := cfg.Allocator.Release(w.id, w.handles[j]); err != nil {
			w.run.log.Errorf("worker %d: release: %v", w.id, err)
		}
	}
	w.releaseCost = Elapsed(start, w.clock.Now()) / uint64(nops)
	w.run.log.Tracef("worker %d: release %d", w.id, w.releaseCost)
	w.signal()
}

func (w *worker) recycle() {
	cfg := w.run.cfg
	nops := cfg.NumOps

	w.signal()

	w.run.mid.ArriveAndWait()
	if w.run.aborted() {
		return
	}

	start := w.clock.Now()
	for j := 0; j < nops; j++ {
		h, err := cfg.Allocator.Acquire(w.id)
		if err != nil {
			w.run.log.Errorf("worker %d: acquire: %v", w.id, err)
			continue
		}
		if err := cfg.Allocator.Release(w.id, h); err != nil {
			w.run.log.Errorf("worker %d: release: %v", w.id, err)
		}
	}
	cost := Elapsed(start, w.clock.Now()) / uint64(nops)
	w.acquireCost = cost
	w.releaseCost = cost
	w.run.log.Tracef("worker %d: recycle %d", w.id, cost)
	w.signal()
}
