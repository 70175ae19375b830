package main

import (
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"
	"sort"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/shapepad/shapepad/engine-go/internal/bench"
	"github.com/shapepad/shapepad/engine-go/internal/engine"
)

var rootCmd = &cobra.Command{
	Use:   "benchctl",
	Short: "Shapepad engine benchmarks from the command line",
}

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Benchmark the performance backend against the reference path",
	RunE:  runBenchmarks,
}

var probeCmd = &cobra.Command{
	Use:   "probe",
	Short: "Show which operations the performance backend serves",
	RunE:  probeBackend,
}

const (
	categoryFlag   = "category"
	jsonFlag       = "json"
	noFastPathFlag = "no-fastpath"
)

func init() {
	runCmd.Flags().StringP(categoryFlag, "c", "all", "workload category (small, medium, large, complex, all)")
	runCmd.Flags().Bool(jsonFlag, false, "emit results as JSON")
	runCmd.Flags().Bool(noFastPathFlag, false, "run with the performance backend disabled")

	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(probeCmd)
}

func main() {
	// Results go to stdout; keep engine probe chatter on stderr.
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelWarn})))

	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

func runBenchmarks(cmd *cobra.Command, args []string) error {
	category, _ := cmd.Flags().GetString(categoryFlag)
	asJSON, _ := cmd.Flags().GetBool(jsonFlag)
	noFastPath, _ := cmd.Flags().GetBool(noFastPathFlag)

	eng := engine.New(engine.Options{DisableFastPath: noFastPath})
	runner := bench.NewRunner(eng)

	var results []bench.Result
	if category == "all" {
		var err error
		results, err = runner.RunAll()
		if err != nil {
			return err
		}
	} else {
		res, err := runner.Run(bench.Category(category))
		if err != nil {
			return err
		}
		results = []bench.Result{res}
	}

	if asJSON {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(results)
	}

	return printResults(os.Stdout, results)
}

func printResults(w io.Writer, results []bench.Result) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "CATEGORY\tPERFORMANCE MS\tREFERENCE MS\tRATIO\tBACKEND")
	for _, r := range results {
		backend := "available"
		if !r.BackendAvailable {
			backend = "reference only"
		}
		fmt.Fprintf(tw, "%s\t%.3f\t%.3f\t%.2f\t%s\n",
			r.Category, r.PerformanceBackendMs, r.ReferenceBackendMs, r.Ratio, backend)
	}
	return tw.Flush()
}

func probeBackend(cmd *cobra.Command, args []string) error {
	eng := engine.New(engine.Options{})

	name := eng.BackendName()
	if name == "" {
		name = "none"
	}
	fmt.Printf("backend: %s\n", name)
	fmt.Printf("available: %t\n\n", eng.Available())

	status := eng.Status()
	ops := make([]string, 0, len(status))
	for op := range status {
		ops = append(ops, op)
	}
	sort.Strings(ops)

	tw := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "OPERATION\tPATH")
	for _, op := range ops {
		path := "reference"
		if status[op] {
			path = "performance"
		}
		fmt.Fprintf(tw, "%s\t%s\n", op, path)
	}
	return tw.Flush()
}
