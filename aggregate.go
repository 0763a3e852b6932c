package allocbench

// SummaryRecord reduces one run to min/avg/max per-operation costs across
// its workers. Records are immutable once appended to the results store.
type SummaryRecord struct {
	Alloc     string
	Threads   int
	Iteration int

	AcquireMin uint64
	AcquireAvg uint64
	AcquireMax uint64

	ReleaseMin uint64
	ReleaseAvg uint64
	ReleaseMax uint64
}

// aggregate folds the per-worker cost samples of one run into a summary.
// Averages truncate. Defined for one or more samples; acquire and release
// have the same length.
func aggregate(label string, threads, iteration int, acquire, release []uint64) SummaryRecord {
	rec := SummaryRecord{
		Alloc:      label,
		Threads:    threads,
		Iteration:  iteration,
		AcquireMin: ^uint64(0),
		ReleaseMin: ^uint64(0),
	}

	for i := range acquire {
		get, put := acquire[i], release[i]

		if get < rec.AcquireMin {
			rec.AcquireMin = get
		}
		if get > rec.AcquireMax {
			rec.AcquireMax = get
		}
		rec.AcquireAvg += get

		if put < rec.ReleaseMin {
			rec.ReleaseMin = put
		}
		if put > rec.ReleaseMax {
			rec.ReleaseMax = put
		}
		rec.ReleaseAvg += put
	}

	rec.AcquireAvg /= uint64(len(acquire))
	rec.ReleaseAvg /= uint64(len(release))

	return rec
}
