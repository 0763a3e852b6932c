package allocbench

import (
	"fmt"
	"runtime"
	"time"
)

// Clock hands out opaque timestamps for cost measurement. Values are
// strictly monotonic for the goroutine sampling them; there is no
// cross-worker ordering guarantee. Workers always take both samples of a
// measurement on their own thread, so Elapsed never sees end < start.
type Clock interface {
	Now() uint64
}

// ClockSource creates the clock a worker measures with. Handing every
// worker its own instance lets tests substitute deterministic clocks
// without sharing tick state across workers.
type ClockSource func(worker int) Clock

func Elapsed(start, end uint64) uint64 {
	return end - start
}

type monotonicClock struct {
	base time.Time
}

func (c *monotonicClock) Now() uint64 {
	return uint64(time.Since(c.base))
}

// NewMonotonicClock wraps the runtime monotonic clock. It probes the
// clock once and fails if it does not advance across a reschedule, so a
// broken host counter is caught at setup instead of producing zero-cost
// measurements.
func NewMonotonicClock() (Clock, error) {
	c := &monotonicClock{base: time.Now()}
	t0 := c.Now()
	for i := 0; i < 100; i++ {
		runtime.Gosched()
		if c.Now() > t0 {
			return c, nil
		}
	}
	return nil, fmt.Errorf("monotonic clock did not advance")
}
