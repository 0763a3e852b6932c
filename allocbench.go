// Package allocbench measures allocator acquire/release costs under
// growing thread-level concurrency. A sweep runs every configured thread
// count for a number of iterations; each run drives a fresh set of
// pinned workers through lockstep phases and reduces their per-thread
// timings to one summary record.
package allocbench

import (
	"fmt"
	"sync/atomic"
)

// run bundles the state shared by the workers of a single
// (thread count, iteration) execution.
type run struct {
	cfg         *Config
	log         Logger
	clockSource ClockSource

	start *PhaseBarrier
	mid   *PhaseBarrier

	abort int32
}

func (r *run) aborted() bool {
	return atomic.LoadInt32(&r.abort) != 0
}

// Bench orchestrates one sweep. Create it with New, run the sweep with
// Start and release backend resources with Stop. A Bench is meant to run
// one sweep per process; Start is not reentrant.
type Bench struct {
	cfg     Config
	results *Results

	start *PhaseBarrier
	mid   *PhaseBarrier

	// spawn starts a worker's thread; tests substitute a failing hook.
	spawn func(w *worker) error

	started bool
}

func New(cfg Config) (*Bench, error) {
	cfg = applyConfigDefaults(cfg)
	if err := cfg.validate(); err != nil {
		return nil, err
	}

	if cfg.ClockSource == nil {
		clk, err := NewMonotonicClock()
		if err != nil {
			return nil, err
		}
		cfg.ClockSource = func(worker int) Clock { return clk }
	}

	b := &Bench{
		cfg:     cfg,
		results: newResults(),
		start:   NewPhaseBarrier(),
		mid:     NewPhaseBarrier(),
	}
	b.spawn = func(w *worker) error {
		go w.main()
		return nil
	}

	return b, nil
}

// Results exposes the store of completed summary records. Safe to query
// while the sweep is still running.
func (b *Bench) Results() *Results {
	return b.results
}

// Start executes the whole sweep synchronously. On a setup failure the
// sweep stops immediately; records of runs completed before the failure
// remain in the store and no partial record is added for the failed run.
func (b *Bench) Start() error {
	if b.started {
		return fmt.Errorf("sweep already started")
	}
	b.started = true

	for _, tc := range b.cfg.Threads {
		if tc > b.cfg.ThreadsMax {
			break
		}

		b.cfg.Logger.Infof("start threads %d", tc)
		for iter := 0; iter < b.cfg.Iterations; iter++ {
			rec, err := b.runOnce(tc, iter)
			if err != nil {
				return err
			}
			b.results.append(rec)
		}
	}

	b.cfg.Logger.Infof("finished")
	return nil
}

// Stop releases the allocator backend. The results store stays readable.
func (b *Bench) Stop() error {
	return b.cfg.Allocator.Close()
}

// runOnce executes all phases of a single run and aggregates its
// timings. Barriers are armed for one party more than the worker count so
// that worker arrivals alone never open them; only the orchestrator's
// ReleaseAll starts a phase, once every init or loop completion signal
// for the previous phase came in.
func (b *Bench) runOnce(tc, iter int) (SummaryRecord, error) {
	r := &run{
		cfg:         &b.cfg,
		log:         b.cfg.Logger,
		clockSource: b.cfg.ClockSource,
		start:       b.start,
		mid:         b.mid,
	}
	b.start.Arm(tc + 1)
	b.mid.Arm(tc + 1)

	workers := make([]*worker, 0, tc)
	for t := 0; t < tc; t++ {
		w := newWorker(t, r)
		if err := b.spawn(w); err != nil {
			b.abortRun(r, workers)
			return SummaryRecord{}, fmt.Errorf("unable to start worker %d: %w", t, err)
		}
		workers = append(workers, w)
	}

	// Init phase: every worker has sized its buffer before any timed
	// loop begins.
	for _, w := range workers {
		<-w.sig
	}

	if !b.cfg.Recycle {
		b.start.ReleaseAll()
		for _, w := range workers {
			<-w.sig
		}
	}

	b.mid.ReleaseAll()
	for _, w := range workers {
		<-w.sig
	}

	for _, w := range workers {
		<-w.done
	}

	acquire := make([]uint64, tc)
	release := make([]uint64, tc)
	for t, w := range workers {
		acquire[t] = w.acquireCost
		release[t] = w.releaseCost
	}

	return aggregate(b.cfg.Allocator.Name(), tc, iter, acquire, release), nil
}

// abortRun unwinds a partially spawned run. Opening both barriers frees
// every waiter and lets stragglers pass straight through; the abort flag
// makes them skip their timed loops on the way out.
func (b *Bench) abortRun(r *run, spawned []*worker) {
	atomic.StoreInt32(&r.abort, 1)

	b.start.ReleaseAll()
	b.mid.ReleaseAll()

	for _, w := range spawned {
		<-w.done
	}
}
