package allocbench

import (
	"fmt"
	"io"
	"sync"
)

// ResultsHeader is the first row of the published CSV table.
const ResultsHeader = "alloc,threads,iteration," +
	"get_min,get_avg,get_max,put_min,put_avg,put_max,total"

// Results is the ordered store of summary records, one per
// (thread count, iteration) pair, appended by the orchestrator as runs
// complete. It may be queried while a sweep is still running; readers see
// only the rows completed so far.
type Results struct {
	mu      sync.RWMutex
	records []SummaryRecord
}

func newResults() *Results {
	return &Results{}
}

func (r *Results) append(rec SummaryRecord) {
	r.mu.Lock()
	r.records = append(r.records, rec)
	r.mu.Unlock()
}

func (r *Results) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.records)
}

// Records returns a snapshot copy of the completed rows, in sweep order
// (thread count ascending, iteration ascending).
func (r *Results) Records() []SummaryRecord {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return append([]SummaryRecord(nil), r.records...)
}

// WriteCSV renders the results table. The trailing total column is kept
// for downstream tooling and is always zero.
func (r *Results) WriteCSV(w io.Writer) error {
	if _, err := fmt.Fprintln(w, ResultsHeader); err != nil {
		return err
	}

	for _, rec := range r.Records() {
		_, err := fmt.Fprintf(w, "%s,%d,%d,%d,%d,%d,%d,%d,%d,0\n",
			rec.Alloc, rec.Threads, rec.Iteration,
			rec.AcquireMin, rec.AcquireAvg, rec.AcquireMax,
			rec.ReleaseMin, rec.ReleaseAvg, rec.ReleaseMax)
		if err != nil {
			return err
		}
	}

	return nil
}
