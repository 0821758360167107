package reporter

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/HdrHistogram/hdrhistogram-go"
	"github.com/nsspam/nsspam/pkg/dnsbench"
)

type reportParameters struct {
	benchmark         *dnsbench.Benchmark
	outputWriter      io.Writer
	hist              *hdrhistogram.Histogram
	summary           dnsbench.Summary
	benchmarkDuration time.Duration
}

type reportPrinter interface {
	print(params reportParameters) error
}

// PrintReport prints formatted benchmark result to the benchmark writer, exports graphs and generates CSV output if configured.
// If there is a fatal error while printing report, an error is returned.
func PrintReport(b *dnsbench.Benchmark, stats []*dnsbench.ResultStats, benchStart time.Time, benchDuration time.Duration) error {
	totals := Merge(b, stats)

	if len(b.PlotDir) != 0 {
		if err := directoryExists(b.PlotDir); err != nil {
			return fmt.Errorf("unable to plot results: %w", err)
		}

		now := time.Now().Format("2006-01-02T15-04-05")
		dir := filepath.Join(b.PlotDir, "graphs-"+now)
		if err := os.Mkdir(dir, os.ModePerm); err != nil {
			return fmt.Errorf("unable to plot results: %w", err)
		}
		plotLatencyHistogram(fileName(b, dir, "latency-histogram"), totals.Timings)
		plotWorkerLatencies(fileName(b, dir, "latency-boxplot"), stats)
		plotOutcomes(fileName(b, dir, "outcomes-barchart"), totals.Summary)
		plotThroughput(fileName(b, dir, "throughput-lineplot"), benchStart, totals.Timings, totals.Errors)
		plotLatencyPercentiles(fileName(b, dir, "latency-lineplot"), benchStart, totals.Timings)
		plotFailureRates(fileName(b, dir, "errorrate-lineplot"), benchStart, totals.Timings, totals.Errors)
	}

	if b.Csv != "" {
		if err := writeCsv(b.Csv, totals.Hist.Distribution()); err != nil {
			return fmt.Errorf("failed to export CSV due to '%w'", err)
		}
	}

	if b.Silent {
		return nil
	}
	params := reportParameters{
		benchmark:         b,
		outputWriter:      b.Writer,
		hist:              totals.Hist,
		summary:           totals.Summary,
		benchmarkDuration: benchDuration,
	}
	return printer(b).print(params)
}

func directoryExists(plotDir string) error {
	stat, err := os.Stat(plotDir)
	if err != nil {
		if os.IsNotExist(err) {
			return fmt.Errorf("'%s' path does not point to an existing directory", plotDir)
		}
		return err
	} else if !stat.IsDir() {
		return fmt.Errorf("'%s' is not a path to a directory", plotDir)
	}
	return nil
}

func printer(b *dnsbench.Benchmark) reportPrinter {
	switch {
	case b.JSON:
		return &jsonReporter{}
	default:
		return &standardReporter{}
	}
}

func fileName(b *dnsbench.Benchmark, dir, name string) string {
	return filepath.Join(dir, name+"."+b.PlotFormat)
}

func writeCsv(path string, bars []hdrhistogram.Bar) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	if _, err := f.WriteString("From (ns), To (ns), Count\n"); err != nil {
		return err
	}
	for _, b := range bars {
		if _, err := f.WriteString(b.String()); err != nil {
			return err
		}
	}
	return nil
}
