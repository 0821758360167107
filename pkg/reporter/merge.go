package reporter

import (
	"sort"

	"github.com/HdrHistogram/hdrhistogram-go"
	"github.com/nsspam/nsspam/pkg/dnsbench"
)

// BenchmarkResultStats represents merged results of the dnsbench.Benchmark execution.
type BenchmarkResultStats struct {
	Summary dnsbench.Summary
	Hist    *hdrhistogram.Histogram
	Timings []dnsbench.Datapoint
	Errors  []dnsbench.ErrorDatapoint
}

// Merge takes results of the executed dnsbench.Benchmark and merges them.
func Merge(b *dnsbench.Benchmark, stats []*dnsbench.ResultStats) BenchmarkResultStats {
	totals := BenchmarkResultStats{
		Summary: dnsbench.Summarize(stats),
		Hist:    hdrhistogram.New(b.HistMin.Nanoseconds(), b.HistMax.Nanoseconds(), b.HistPre),
	}

	for _, s := range stats {
		if s == nil {
			continue
		}
		if s.Hist != nil {
			totals.Hist.Merge(s.Hist)
		}
		totals.Timings = append(totals.Timings, s.Timings...)
		totals.Errors = append(totals.Errors, s.Errors...)
	}

	// sort data points from the oldest to the earliest, so we can better plot time dependant graphs (like line)
	sort.SliceStable(totals.Timings, func(i, j int) bool {
		return totals.Timings[i].Start.Before(totals.Timings[j].Start)
	})

	// sort error data points from the oldest to the earliest, so we can better plot time dependant graphs (like line)
	sort.SliceStable(totals.Errors, func(i, j int) bool {
		return totals.Errors[i].Start.Before(totals.Errors[j].Start)
	})
	return totals
}
