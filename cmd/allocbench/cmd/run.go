package cmd

import (
	"fmt"
	"os"

	"github.com/memlab/allocbench"
	"github.com/memlab/allocbench/alloc"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

// runCmd represents the run command
var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Runs a full sweep and writes the results table",
	Long: `Runs the configured thread-count sweep against the selected
allocator backend and writes the results CSV.
For example:
	./allocbench run --alloc heap --max-threads 8 -o bench.csv`,

	RunE: func(cmd *cobra.Command, args []string) error {
		return invokeRun()
	},
}

var (
	allocName  string
	threadsMax int
	iterations int
	numOps     int
	cpuStride  int
	recycle    bool
	outfile    string
	sweepFile  string
	showStats  bool
)

// sweepSpec mirrors the YAML sweep file. Entries present in the file
// override the command-line flags.
type sweepSpec struct {
	Alloc      string `yaml:"alloc"`
	Threads    []int  `yaml:"threads"`
	ThreadsMax int    `yaml:"threads_max"`
	Iterations int    `yaml:"iterations"`
	Ops        int    `yaml:"ops"`
	Stride     int    `yaml:"stride"`
	Recycle    bool   `yaml:"recycle"`
}

func loadSweepSpec(path string) (*sweepSpec, error) {
	buf, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("unable to read sweep file: %w", err)
	}

	spec := new(sweepSpec)
	if err := yaml.Unmarshal(buf, spec); err != nil {
		return nil, fmt.Errorf("unable to parse sweep file %s: %w", path, err)
	}
	return spec, nil
}

func invokeRun() error {
	cfg := allocbench.Config{
		ThreadsMax: threadsMax,
		Iterations: iterations,
		NumOps:     numOps,
		CPUStride:  cpuStride,
		Recycle:    recycle,
	}

	if sweepFile != "" {
		spec, err := loadSweepSpec(sweepFile)
		if err != nil {
			return err
		}
		if spec.Alloc != "" {
			allocName = spec.Alloc
		}
		cfg.Threads = spec.Threads
		if spec.ThreadsMax != 0 {
			cfg.ThreadsMax = spec.ThreadsMax
		}
		if spec.Iterations != 0 {
			cfg.Iterations = spec.Iterations
		}
		if spec.Ops != 0 {
			cfg.NumOps = spec.Ops
		}
		if spec.Stride != 0 {
			cfg.CPUStride = spec.Stride
		}
		cfg.Recycle = cfg.Recycle || spec.Recycle
	}

	var backend alloc.Allocator
	var err error
	if allocName == "pool" {
		// Size the pool to the sweep: one page per batched operation for
		// each worker of the widest run.
		backend, err = alloc.NewPool(cfg.ThreadsMax, cfg.NumOps)
	} else {
		backend, err = alloc.New(allocName, cfg.ThreadsMax)
	}
	if err != nil {
		return err
	}
	cfg.Allocator = backend

	bench, err := allocbench.New(cfg)
	if err != nil {
		return err
	}
	defer bench.Stop()

	if err := bench.Start(); err != nil {
		return err
	}

	out := os.Stdout
	if outfile != "" {
		f, err := os.Create(outfile)
		if err != nil {
			return fmt.Errorf("unable to create %s: %w", outfile, err)
		}
		defer f.Close()
		out = f
	}

	if err := bench.Results().WriteCSV(out); err != nil {
		return err
	}

	if showStats {
		if s, ok := backend.(interface{ Stats() string }); ok {
			fmt.Println(s.Stats())
		}
	}

	return nil
}

func init() {
	RootCmd.AddCommand(runCmd)

	runCmd.Flags().StringVar(&allocName, "alloc", "heap",
		"Allocator backend (heap, pool, malloc)")
	runCmd.Flags().IntVarP(&threadsMax, "max-threads", "t", 6,
		"Highest thread count of the sweep")
	runCmd.Flags().IntVarP(&iterations, "iterations", "i", 4,
		"Repetitions per thread count")
	runCmd.Flags().IntVar(&numOps, "ops", allocbench.DefaultNumOps,
		"Operations per worker per phase")
	runCmd.Flags().IntVar(&cpuStride, "cpu-stride", 2,
		"Spacing between pinned processing units")
	runCmd.Flags().BoolVar(&recycle, "recycle", false,
		"Release each page right after acquiring it")
	runCmd.Flags().StringVarP(&outfile, "outfile", "o", "",
		"Write the results CSV here instead of stdout")
	runCmd.Flags().StringVar(&sweepFile, "config", "",
		"YAML sweep file; its entries override flags")
	runCmd.Flags().BoolVar(&showStats, "stats", false,
		"Print backend allocation stats after the sweep")
}
