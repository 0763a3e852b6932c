package allocbench

import (
	"errors"
	"sync/atomic"
	"testing"
	"unsafe"

	"github.com/memlab/allocbench/alloc"
	"github.com/stretchr/testify/require"
)

// fakeClock ticks only when the fake allocator charges it, one clock per
// worker, so measured costs are exact regardless of scheduling.
type fakeClock struct {
	t uint64
}

func (c *fakeClock) Now() uint64 {
	return atomic.LoadUint64(&c.t)
}

func (c *fakeClock) advance(d uint64) {
	atomic.AddUint64(&c.t, d)
}

var fakePage [alloc.PageSize]byte

// fixedCostAlloc charges every acquire and release a fixed number of
// timer units on the calling worker's clock.
type fixedCostAlloc struct {
	cost   uint64
	clocks []*fakeClock
}

func newFixedCostAlloc(cost uint64, workers int) *fixedCostAlloc {
	a := &fixedCostAlloc{cost: cost}
	for i := 0; i < workers; i++ {
		a.clocks = append(a.clocks, &fakeClock{})
	}
	return a
}

func (a *fixedCostAlloc) Name() string {
	return "Fixed"
}

func (a *fixedCostAlloc) Acquire(worker int) (alloc.Handle, error) {
	a.clocks[worker].advance(a.cost)
	return unsafe.Pointer(&fakePage[0]), nil
}

func (a *fixedCostAlloc) Release(worker int, h alloc.Handle) error {
	a.clocks[worker].advance(a.cost)
	return nil
}

func (a *fixedCostAlloc) Close() error {
	return nil
}

func (a *fixedCostAlloc) source() ClockSource {
	return func(worker int) Clock { return a.clocks[worker] }
}

func fixedCostConfig(cost uint64, recycle bool) Config {
	backend := newFixedCostAlloc(cost, 2)
	return Config{
		Allocator:   backend,
		Threads:     []int{1, 2},
		ThreadsMax:  2,
		Iterations:  1,
		NumOps:      100,
		Recycle:     recycle,
		ClockSource: backend.source(),
		Logger:      &defaultLogger{},
	}
}

func TestSweepFixedCost(t *testing.T) {
	b, err := New(fixedCostConfig(5, false))
	require.NoError(t, err)
	require.NoError(t, b.Start())
	require.NoError(t, b.Stop())

	recs := b.Results().Records()
	require.Len(t, recs, 2)

	for i, threads := range []int{1, 2} {
		rec := recs[i]
		require.Equal(t, "Fixed", rec.Alloc)
		require.Equal(t, threads, rec.Threads)
		require.Equal(t, 0, rec.Iteration)
		require.Equal(t, uint64(5), rec.AcquireMin)
		require.Equal(t, uint64(5), rec.AcquireAvg)
		require.Equal(t, uint64(5), rec.AcquireMax)
		require.Equal(t, uint64(5), rec.ReleaseMin)
		require.Equal(t, uint64(5), rec.ReleaseAvg)
		require.Equal(t, uint64(5), rec.ReleaseMax)
	}
}

func TestSweepFixedCostRecycle(t *testing.T) {
	b, err := New(fixedCostConfig(5, true))
	require.NoError(t, err)
	require.NoError(t, b.Start())

	// The fused loop pays acquire and release per operation, and the
	// combined per-op cost lands in both slots.
	for _, rec := range b.Results().Records() {
		require.Equal(t, uint64(10), rec.AcquireAvg)
		require.Equal(t, uint64(10), rec.ReleaseAvg)
	}
}

func TestSweepDeterministic(t *testing.T) {
	runSweep := func() []SummaryRecord {
		b, err := New(fixedCostConfig(7, false))
		require.NoError(t, err)
		require.NoError(t, b.Start())
		return b.Results().Records()
	}

	first := runSweep()
	second := runSweep()
	require.Equal(t, first, second)
}

func TestSweepCardinalityAndOrder(t *testing.T) {
	cfg := Config{
		Allocator:  alloc.NewHeap(),
		Threads:    []int{1, 2, 4, 6},
		ThreadsMax: 4,
		Iterations: 3,
		NumOps:     64,
	}

	b, err := New(cfg)
	require.NoError(t, err)
	require.NoError(t, b.Start())
	require.NoError(t, b.Stop())

	// 6 exceeds ThreadsMax, so only {1,2,4} run, 3 iterations each.
	recs := b.Results().Records()
	require.Len(t, recs, 9)

	i := 0
	for _, threads := range []int{1, 2, 4} {
		for iter := 0; iter < 3; iter++ {
			require.Equal(t, threads, recs[i].Threads)
			require.Equal(t, iter, recs[i].Iteration)
			require.LessOrEqual(t, recs[i].AcquireMin, recs[i].AcquireAvg)
			require.LessOrEqual(t, recs[i].AcquireAvg, recs[i].AcquireMax)
			require.LessOrEqual(t, recs[i].ReleaseMin, recs[i].ReleaseAvg)
			require.LessOrEqual(t, recs[i].ReleaseAvg, recs[i].ReleaseMax)
			i++
		}
	}
}

func TestSweepAbortsOnWorkerFailure(t *testing.T) {
	cfg := Config{
		Allocator:  alloc.NewHeap(),
		Threads:    []int{1, 2, 4},
		ThreadsMax: 4,
		Iterations: 1,
		NumOps:     64,
	}

	b, err := New(cfg)
	require.NoError(t, err)

	// Fail the second worker of the third run, which is the 4-thread one.
	spawn := b.spawn
	runs := 0
	b.spawn = func(w *worker) error {
		if w.id == 0 {
			runs++
		}
		if runs == 3 && w.id == 1 {
			return errors.New("thread creation failed")
		}
		return spawn(w)
	}

	err = b.Start()
	require.Error(t, err)

	// Completed thread counts keep their records; the aborted run adds
	// none.
	recs := b.Results().Records()
	require.Len(t, recs, 2)
	require.Equal(t, 1, recs[0].Threads)
	require.Equal(t, 2, recs[1].Threads)
}

func TestStartTwice(t *testing.T) {
	b, err := New(fixedCostConfig(1, false))
	require.NoError(t, err)
	require.NoError(t, b.Start())
	require.Error(t, b.Start())
}

func TestConfigValidation(t *testing.T) {
	bad := []Config{
		{ThreadsMax: MaxThreads + 1},
		{Iterations: -1},
		{NumOps: -1},
		{CPUStride: -2},
		{Threads: []int{2, 2}},
		{Threads: []int{4, 2}},
	}

	for _, cfg := range bad {
		if _, err := New(cfg); err == nil {
			t.Errorf("expected config %+v to be rejected", cfg)
		}
	}
}
