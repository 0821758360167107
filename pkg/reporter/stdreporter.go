package reporter

import (
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/HdrHistogram/hdrhistogram-go"
	"github.com/nsspam/nsspam/pkg/dnsbench"
	"github.com/nsspam/nsspam/pkg/printutils"
	"github.com/olekukonko/tablewriter"
)

type standardReporter struct{}

func (s *standardReporter) print(params reportParameters) error {
	w := params.outputWriter
	printOutcomes(w, params.summary)
	printLatency(w, params.summary)

	printutils.NeutralFprintf(w, "\nTime taken for tests:\t%s\n",
		printutils.HighlightSprint(roundDuration(params.benchmarkDuration)))
	printutils.NeutralFprintf(w, "Questions per second:\t%s\n",
		printutils.HighlightSprintf("%0.1f", queriesPerSecond(params.summary.Total(), params.benchmarkDuration)))

	if tc := params.hist.TotalCount(); tc > 0 {
		min := time.Duration(params.hist.Min())
		mean := time.Duration(params.hist.Mean())
		sd := time.Duration(params.hist.StdDev())
		max := time.Duration(params.hist.Max())
		p99 := time.Duration(params.hist.ValueAtQuantile(99))
		p95 := time.Duration(params.hist.ValueAtQuantile(95))
		p90 := time.Duration(params.hist.ValueAtQuantile(90))
		p75 := time.Duration(params.hist.ValueAtQuantile(75))
		p50 := time.Duration(params.hist.ValueAtQuantile(50))

		printutils.NeutralFprintf(w, "DNS timings, %s datapoints\n", printutils.HighlightSprint(tc))
		printutils.NeutralFprintf(w, "\t min:\t\t%s\n", printutils.HighlightSprint(roundDuration(min)))
		printutils.NeutralFprintf(w, "\t mean:\t\t%s\n", printutils.HighlightSprint(roundDuration(mean)))
		printutils.NeutralFprintf(w, "\t [+/-sd]:\t%s\n", printutils.HighlightSprint(roundDuration(sd)))
		printutils.NeutralFprintf(w, "\t max:\t\t%s\n", printutils.HighlightSprint(roundDuration(max)))
		printutils.NeutralFprintf(w, "\t p99:\t\t%s\n", printutils.HighlightSprint(roundDuration(p99)))
		printutils.NeutralFprintf(w, "\t p95:\t\t%s\n", printutils.HighlightSprint(roundDuration(p95)))
		printutils.NeutralFprintf(w, "\t p90:\t\t%s\n", printutils.HighlightSprint(roundDuration(p90)))
		printutils.NeutralFprintf(w, "\t p75:\t\t%s\n", printutils.HighlightSprint(roundDuration(p75)))
		printutils.NeutralFprintf(w, "\t p50:\t\t%s\n", printutils.HighlightSprint(roundDuration(p50)))

		if params.benchmark.HistDisplay && tc > 1 {
			printutils.NeutralFprintf(w, "\nDNS distribution, %s datapoints\n", printutils.HighlightSprint(tc))
			printBars(w, params.hist.Distribution())
		}
	}
	return nil
}

func printOutcomes(w io.Writer, s dnsbench.Summary) {
	printutils.NeutralFprintf(w, "\nTotal requests:\t\t%s\n", printutils.HighlightSprint(s.Total()))

	successFn := printutils.NeutralFprintf
	if s.Successful > 0 {
		successFn = printutils.SuccessFprintf
	}
	successFn(w, "Successful requests:\t%d\n", s.Successful)

	failFn := printutils.NeutralFprintf
	if s.Failed > 0 {
		failFn = printutils.ErrFprintf
	}
	failFn(w, "Failed requests:\t%d\n", s.Failed)

	if s.Failed > 0 {
		printutils.ErrFprintf(w, "\nFailures:\n")
		for _, k := range dnsbench.FailureKinds {
			if c := s.Failures[k]; c > 0 {
				printutils.ErrFprintf(w, "\t%s:\t%d\n", k, c)
			}
		}
	}
}

func printLatency(w io.Writer, s dnsbench.Summary) {
	printutils.NeutralFprintf(w, "\nAverage latency:\t%s\n", printutils.HighlightSprint(formatAverage(s)))
	printutils.NeutralFprintf(w, "Max latency:\t\t%s\n", printutils.HighlightSprintf("%.2fs", s.MaxLatency))
}

func printBars(w io.Writer, bars []hdrhistogram.Bar) {
	counts := make([]int64, 0, len(bars))
	lines := make([][]string, 0, len(bars))
	added := false
	var max int64

	for _, b := range bars {
		if b.Count == 0 && !added {
			// trim the start
			continue
		}
		if b.Count > max {
			max = b.Count
		}

		added = true

		line := make([]string, 3)
		lines = append(lines, line)
		counts = append(counts, b.Count)

		line[0] = roundDuration(time.Duration(b.To/2 + b.From/2)).String()
		line[2] = strconv.FormatInt(b.Count, 10)
	}

	for i, l := range lines {
		l[1] = makeBar(counts[i], max)
	}

	table := tablewriter.NewWriter(w)
	table.SetHeader([]string{"Latency", "", "Count"})
	table.SetBorder(false)
	table.AppendBulk(lines)
	table.Render()
}

func makeBar(c int64, max int64) string {
	if c == 0 {
		return ""
	}
	t := int((43 * float64(c) / float64(max)) + 0.5)
	return strings.Repeat(printutils.HighlightSprint("▄"), t)
}
