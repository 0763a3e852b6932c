package allocbench

import "sync"

/*
* A PhaseBarrier gates one synchronized phase of a run. It is reusable:
* Arm starts a fresh generation and every release bumps a generation
* counter, so waiters block only until their own generation ends and
* re-arming for the next phase cannot race with stragglers waking up from
* the previous one (the reset race a single-use latch would have).
*
* Two release paths exist. When the expected number of parties arrive via
* ArriveAndWait, the last arrival releases the generation. Alternatively
* ReleaseAll opens the barrier outright: current waiters wake and, until
* the next Arm, further arrivals pass straight through. The stickiness
* matters — the orchestrator releases a phase after collecting readiness
* signals, and a worker may signal readiness a moment before it parks, so
* an edge-triggered broadcast could miss it. Shared start/mid barriers
* are armed for more parties than will ever arrive, making ReleaseAll
* their only release path.
*
* Arming while parties still wait on the previous generation is a caller
* bug. The orchestrator serializes phase transitions, so it only re-arms
* after joining all workers of a run.
 */
type PhaseBarrier struct {
	mu       sync.Mutex
	cond     *sync.Cond
	expected int
	arrived  int
	gen      uint64
	open     bool
}

func NewPhaseBarrier() *PhaseBarrier {
	b := &PhaseBarrier{}
	b.cond = sync.NewCond(&b.mu)
	return b
}

// Arm resets the barrier for a new phase expecting the given number of
// arrivals. Must not be called while parties wait on the previous
// generation.
func (b *PhaseBarrier) Arm(expected int) {
	b.mu.Lock()
	b.expected = expected
	b.arrived = 0
	b.open = false
	b.mu.Unlock()
}

// ArriveAndWait registers one arrival and blocks the caller until the
// current generation is released. Returns immediately if the barrier was
// opened by ReleaseAll.
func (b *PhaseBarrier) ArriveAndWait() {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.open {
		return
	}

	b.arrived++
	if b.arrived == b.expected {
		b.arrived = 0
		b.gen++
		b.cond.Broadcast()
		return
	}

	gen := b.gen
	for gen == b.gen && !b.open {
		b.cond.Wait()
	}
}

// ReleaseAll opens the barrier regardless of the arrival count: every
// waiting party wakes and later arrivals pass through until the next Arm.
func (b *PhaseBarrier) ReleaseAll() {
	b.mu.Lock()
	b.arrived = 0
	b.open = true
	b.cond.Broadcast()
	b.mu.Unlock()
}
