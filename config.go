package allocbench

import (
	"fmt"

	"github.com/memlab/allocbench/alloc"
)

// MaxThreads caps the concurrency of a sweep.
const MaxThreads = 48

// DefaultNumOps is the number of acquires a worker performs per phase.
const DefaultNumOps = 2 * 512 * 512

var defaultThreadSeq = []int{1, 2, 4, 6, 8, 12, 16, 20,
	24, 28, 32, 36, 40, 44, 48}

type Config struct {
	// Allocator is the backend under measurement.
	Allocator alloc.Allocator

	// Threads is the ascending sequence of candidate thread counts. The
	// sweep stops at the first entry above ThreadsMax.
	Threads []int

	ThreadsMax int
	Iterations int

	// NumOps is the number of acquire (and release) operations each
	// worker performs per phase.
	NumOps int

	// CPUStride spaces out the processing units workers are pinned to.
	CPUStride int

	// Recycle selects workers that release each handle right after
	// acquiring it, keeping the number of live handles near zero, instead
	// of batching all acquires before all releases.
	Recycle bool

	Logger      Logger
	ClockSource ClockSource
}

func applyConfigDefaults(cfg Config) Config {
	if cfg.Allocator == nil {
		cfg.Allocator = alloc.NewHeap()
	}

	if cfg.Threads == nil {
		cfg.Threads = defaultThreadSeq
	}

	if cfg.ThreadsMax == 0 {
		cfg.ThreadsMax = 6
	}

	if cfg.Iterations == 0 {
		cfg.Iterations = 4
	}

	if cfg.NumOps == 0 {
		cfg.NumOps = DefaultNumOps
	}

	if cfg.CPUStride == 0 {
		cfg.CPUStride = 2
	}

	if cfg.Logger == nil {
		cfg.Logger = &defaultLogger{}
	}

	return cfg
}

func (cfg *Config) validate() error {
	if cfg.ThreadsMax < 1 || cfg.ThreadsMax > MaxThreads {
		return fmt.Errorf("ThreadsMax %d out of range [1,%d]", cfg.ThreadsMax, MaxThreads)
	}

	if cfg.Iterations < 1 {
		return fmt.Errorf("Iterations must be at least 1, got %d", cfg.Iterations)
	}

	if cfg.NumOps < 1 {
		return fmt.Errorf("NumOps must be at least 1, got %d", cfg.NumOps)
	}

	if cfg.CPUStride < 1 {
		return fmt.Errorf("CPUStride must be at least 1, got %d", cfg.CPUStride)
	}

	last := 0
	for _, tc := range cfg.Threads {
		if tc <= last {
			return fmt.Errorf("thread counts must be strictly increasing, got %v", cfg.Threads)
		}
		last = tc
	}

	return nil
}
