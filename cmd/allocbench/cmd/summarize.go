package cmd

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"sort"
	"strconv"

	"github.com/spf13/cobra"
	"gonum.org/v1/gonum/stat"
)

// summarizeCmd represents the summarize command
var summarizeCmd = &cobra.Command{
	Use:   "summarize",
	Short: "Reduces a results CSV across iterations",
	Long: `Reads a results CSV produced by run and prints, per
(alloc, threads) group, the mean and standard deviation of the
per-iteration average costs.
For example:
	./allocbench summarize bench.csv`,

	PreRunE: func(cmd *cobra.Command, args []string) error {
		if len(args) != 1 {
			return fmt.Errorf("exactly one results file is required")
		}
		return nil
	},

	RunE: func(cmd *cobra.Command, args []string) error {
		f, err := os.Open(args[0])
		if err != nil {
			return err
		}
		defer f.Close()
		return summarize(f, os.Stdout)
	},
}

type sampleGroup struct {
	alloc   string
	threads int
	get     []float64
	put     []float64
}

func summarize(in io.Reader, out io.Writer) error {
	r := csv.NewReader(in)
	rows, err := r.ReadAll()
	if err != nil {
		return fmt.Errorf("unable to parse results: %w", err)
	}
	if len(rows) < 1 {
		return fmt.Errorf("results file is empty")
	}

	groups := make(map[string]*sampleGroup)
	var order []string

	// Skip the header row.
	for _, row := range rows[1:] {
		if len(row) < 9 {
			return fmt.Errorf("malformed results row %v", row)
		}

		threads, err := strconv.Atoi(row[1])
		if err != nil {
			return fmt.Errorf("bad thread count %q: %w", row[1], err)
		}
		getAvg, err := strconv.ParseFloat(row[4], 64)
		if err != nil {
			return fmt.Errorf("bad get_avg %q: %w", row[4], err)
		}
		putAvg, err := strconv.ParseFloat(row[7], 64)
		if err != nil {
			return fmt.Errorf("bad put_avg %q: %w", row[7], err)
		}

		key := fmt.Sprintf("%s,%d", row[0], threads)
		g, ok := groups[key]
		if !ok {
			g = &sampleGroup{alloc: row[0], threads: threads}
			groups[key] = g
			order = append(order, key)
		}
		g.get = append(g.get, getAvg)
		g.put = append(g.put, putAvg)
	}

	sort.SliceStable(order, func(i, j int) bool {
		a, b := groups[order[i]], groups[order[j]]
		if a.alloc != b.alloc {
			return a.alloc < b.alloc
		}
		return a.threads < b.threads
	})

	fmt.Fprintln(out, "alloc,threads,samples,get_mean,get_stddev,put_mean,put_stddev")
	for _, key := range order {
		g := groups[key]
		sort.Float64s(g.get)
		sort.Float64s(g.put)
		getMean, getStd := stat.MeanStdDev(g.get, nil)
		putMean, putStd := stat.MeanStdDev(g.put, nil)
		if len(g.get) < 2 {
			getStd, putStd = 0, 0
		}
		fmt.Fprintf(out, "%s,%d,%d,%.1f,%.2f,%.1f,%.2f\n",
			g.alloc, g.threads, len(g.get),
			getMean, getStd, putMean, putStd)
	}

	return nil
}

func init() {
	RootCmd.AddCommand(summarizeCmd)
}
