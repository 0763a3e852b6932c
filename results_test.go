package allocbench

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestResultsSnapshot(t *testing.T) {
	r := newResults()
	require.Zero(t, r.Len())

	r.append(SummaryRecord{Alloc: "A", Threads: 1, Iteration: 0})
	r.append(SummaryRecord{Alloc: "A", Threads: 1, Iteration: 1})
	r.append(SummaryRecord{Alloc: "A", Threads: 2, Iteration: 0})

	recs := r.Records()
	require.Len(t, recs, 3)
	require.Equal(t, 1, recs[0].Threads)
	require.Equal(t, 1, recs[1].Iteration)
	require.Equal(t, 2, recs[2].Threads)

	// The snapshot is a copy; later appends must not show up in it.
	r.append(SummaryRecord{Alloc: "A", Threads: 4, Iteration: 0})
	require.Len(t, recs, 3)
	require.Equal(t, 4, r.Len())
}

func TestResultsWriteCSV(t *testing.T) {
	r := newResults()
	r.append(SummaryRecord{
		Alloc: "GoHeap", Threads: 2, Iteration: 1,
		AcquireMin: 10, AcquireAvg: 20, AcquireMax: 30,
		ReleaseMin: 1, ReleaseAvg: 2, ReleaseMax: 3,
	})

	var buf bytes.Buffer
	require.NoError(t, r.WriteCSV(&buf))

	want := "alloc,threads,iteration,get_min,get_avg,get_max," +
		"put_min,put_avg,put_max,total\n" +
		"GoHeap,2,1,10,20,30,1,2,3,0\n"
	require.Equal(t, want, buf.String())
}

func TestResultsWriteCSVEmpty(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, newResults().WriteCSV(&buf))
	require.Equal(t, ResultsHeader+"\n", buf.String())
}
