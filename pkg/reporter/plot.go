package reporter

import (
	"fmt"
	"image/color"
	"maps"
	"math"
	"os"
	"slices"
	"sort"
	"strconv"
	"time"

	"github.com/montanaflynn/stats"
	"github.com/nsspam/nsspam/pkg/dnsbench"
	"go-hep.org/x/hep/hplot"
	"gonum.org/v1/gonum/stat"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/plotutil"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
)

const maxHistogramBins = 50

var latencyPercentiles = []float64{50, 90, 95, 99}

func plotLatencyHistogram(file string, timings []dnsbench.Datapoint) {
	if len(timings) == 0 {
		return
	}
	values := latenciesMs(timings)
	hist, err := plotter.NewHist(values, numBins(values))
	if err != nil {
		panic(err)
	}
	hist.FillColor = color.RGBA{R: 175, G: 238, B: 238, A: 255}

	p := plot.New()
	p.Title.Text = "Latency of successful queries"
	p.X.Label.Text = "Latency (ms)"
	p.X.Tick.Marker = hplot.Ticks{N: 5, Format: "%.1f"}
	p.Y.Label.Text = "Queries"
	p.Y.Tick.Marker = hplot.Ticks{N: 5, Format: "%.0f"}
	p.Add(hist)

	savePlot(p, file)
}

// numBins picks the histogram bin count by the Freedman-Diaconis rule, falling back to the square root
// of the sample size when the interquartile range is empty.
func numBins(values plotter.Values) int {
	if len(values) == 0 {
		return 1
	}
	sorted := slices.Clone([]float64(values))
	sort.Float64s(sorted)

	n := float64(len(sorted))
	spread := sorted[len(sorted)-1] - sorted[0]
	iqr := stat.Quantile(0.75, stat.Empirical, sorted, nil) - stat.Quantile(0.25, stat.Empirical, sorted, nil)
	if iqr <= 0 || spread <= 0 {
		return min(maxHistogramBins, max(1, int(math.Sqrt(n))))
	}
	width := 2 * iqr / math.Cbrt(n)
	return min(maxHistogramBins, max(1, int(math.Ceil(spread/width))))
}

// plotWorkerLatencies draws one box per worker, workers without a successful query are left out.
func plotWorkerLatencies(file string, workers []*dnsbench.ResultStats) {
	p := plot.New()
	p.Title.Text = "Latency per worker"
	p.Y.Label.Text = "Latency (ms)"
	p.Y.Tick.Marker = hplot.Ticks{N: 3, Format: "%.1f"}

	var names []string
	for id, w := range workers {
		if w == nil || len(w.Timings) == 0 {
			continue
		}
		box, err := plotter.NewBoxPlot(vg.Points(20), float64(len(names)), latenciesMs(w.Timings))
		if err != nil {
			panic(err)
		}
		box.FillColor = color.RGBA{R: 127, G: 188, B: 165, A: 255}
		p.Add(box)
		names = append(names, "worker "+strconv.Itoa(id))
	}
	if len(names) == 0 {
		return
	}
	p.NominalX(names...)

	savePlot(p, file)
}

func plotOutcomes(file string, summary dnsbench.Summary) {
	if summary.Total() == 0 {
		return
	}

	type outcome struct {
		label string
		count int64
	}
	outcomes := []outcome{{label: "success", count: summary.Successful}}
	for _, k := range dnsbench.FailureKinds {
		if c := summary.Failures[k]; c > 0 {
			outcomes = append(outcomes, outcome{label: k.String(), count: c})
		}
	}

	p := plot.New()
	p.Title.Text = "Query outcomes"
	p.NominalX("Outcomes")
	p.Y.Label.Text = "Queries"
	p.Y.Tick.Marker = hplot.Ticks{N: 3, Format: "%.0f"}
	p.Legend.Top = true

	width := vg.Points(40)
	off := -vg.Length(len(outcomes)/2) * width
	for i, o := range outcomes {
		bar, err := plotter.NewBarChart(plotter.Values{float64(o.count)}, width)
		if err != nil {
			panic(err)
		}
		bar.Color = outcomeColor(i)
		bar.Offset = off
		p.Add(bar)
		p.Legend.Add(o.label, bar)
		off += width
	}

	savePlot(p, file)
}

// outcomeColor keeps success green and failures red-ish, further kinds take the default palette.
func outcomeColor(i int) color.Color {
	switch i {
	case 0:
		return color.RGBA{R: 122, G: 195, B: 106, A: 255}
	case 1:
		return color.RGBA{R: 241, G: 90, B: 96, A: 255}
	default:
		return plotutil.Color(i)
	}
}

// plotThroughput draws successful and failed queries started in each second of the run.
func plotThroughput(file string, benchStart time.Time, timings []dnsbench.Datapoint, errs []dnsbench.ErrorDatapoint) {
	if len(timings) == 0 && len(errs) == 0 {
		return
	}
	succeeded := make(map[int64]float64)
	failed := make(map[int64]float64)
	for _, t := range timings {
		succeeded[secondOf(benchStart, t.Start)]++
	}
	for _, e := range errs {
		failed[secondOf(benchStart, e.Start)]++
	}

	p := plot.New()
	p.Title.Text = "Queries per second"
	p.X.Label.Text = "Time of test (s)"
	p.X.Tick.Marker = hplot.Ticks{N: 3, Format: "%.0f"}
	p.Y.Label.Text = "Queries"
	p.Y.Tick.Marker = hplot.Ticks{N: 3, Format: "%.0f"}
	p.Legend.Top = true

	if len(succeeded) > 0 {
		addSeries(p, "successful", xysOf(succeeded), 0)
	}
	if len(failed) > 0 {
		addSeries(p, "failed", xysOf(failed), 1)
	}

	savePlot(p, file)
}

func plotLatencyPercentiles(file string, benchStart time.Time, timings []dnsbench.Datapoint) {
	if len(timings) == 0 {
		return
	}

	p := plot.New()
	p.Title.Text = "Latency percentiles over time"
	p.X.Label.Text = "Time of test (s)"
	p.Y.Label.Text = "Latency (ms)"
	p.Legend.Top = true

	for i, series := range latencyPercentilesPerSecond(benchStart, timings) {
		addSeries(p, fmt.Sprintf("p%.0f", latencyPercentiles[i]), series, i)
	}

	savePlot(p, file)
}

// latencyPercentilesPerSecond returns one series per latencyPercentiles entry, each point is
// the percentile of latencies of queries started in that second.
func latencyPercentilesPerSecond(benchStart time.Time, timings []dnsbench.Datapoint) []plotter.XYs {
	buckets := make(map[int64][]float64)
	for _, t := range timings {
		sec := secondOf(benchStart, t.Start)
		buckets[sec] = append(buckets[sec], durationMs(t.Duration))
	}

	series := make([]plotter.XYs, len(latencyPercentiles))
	for _, sec := range slices.Sorted(maps.Keys(buckets)) {
		for i, pct := range latencyPercentiles {
			v, err := stats.Percentile(buckets[sec], pct)
			if err != nil {
				continue
			}
			series[i] = append(series[i], plotter.XY{X: float64(sec), Y: v})
		}
	}
	return series
}

// plotFailureRates draws share of queries failed per failure kind in each second of the run.
func plotFailureRates(file string, benchStart time.Time, timings []dnsbench.Datapoint, errs []dnsbench.ErrorDatapoint) {
	if len(errs) == 0 {
		return
	}

	p := plot.New()
	p.Title.Text = "Failure rate over time"
	p.X.Label.Text = "Time of test (s)"
	p.X.Tick.Marker = hplot.Ticks{N: 3, Format: "%.0f"}
	p.Y.Label.Text = "Failed queries (%)"
	p.Y.Min = 0
	p.Y.Max = 100
	p.Legend.Top = true

	rates := failureRates(benchStart, timings, errs)
	for i, kind := range dnsbench.FailureKinds {
		if series, ok := rates[kind]; ok {
			addSeries(p, kind.String(), series, i)
		}
	}

	savePlot(p, file)
}

// failureRates returns for each failure kind that occurred the percentage of queries started in a second
// which failed with that kind. Every second with at least one query gets a point.
func failureRates(benchStart time.Time, timings []dnsbench.Datapoint, errs []dnsbench.ErrorDatapoint) map[dnsbench.FailureKind]plotter.XYs {
	total := make(map[int64]float64)
	for _, t := range timings {
		total[secondOf(benchStart, t.Start)]++
	}
	failed := make(map[dnsbench.FailureKind]map[int64]float64)
	for _, e := range errs {
		sec := secondOf(benchStart, e.Start)
		total[sec]++

		kind, ok := dnsbench.FailureKindOf(e.Err)
		if !ok {
			kind = dnsbench.FailureReceive
		}
		if failed[kind] == nil {
			failed[kind] = make(map[int64]float64)
		}
		failed[kind][sec]++
	}

	rates := make(map[dnsbench.FailureKind]plotter.XYs, len(failed))
	for kind, counts := range failed {
		pct := make(map[int64]float64, len(total))
		for sec, n := range total {
			pct[sec] = 100 * counts[sec] / n
		}
		rates[kind] = xysOf(pct)
	}
	return rates
}

func addSeries(p *plot.Plot, name string, xys plotter.XYs, i int) {
	l, s, err := plotter.NewLinePoints(xys)
	if err != nil {
		panic(err)
	}
	l.Color = plotutil.Color(i)
	l.Width = vg.Points(1)
	s.Color = plotutil.Color(i)
	s.Shape = draw.CircleGlyph{}
	p.Add(l, s)
	p.Legend.Add(name, l, s)
}

func savePlot(p *plot.Plot, file string) {
	if err := p.Save(6*vg.Inch, 6*vg.Inch, file); err != nil {
		fmt.Fprintln(os.Stderr, "Failed to save plot.", err)
	}
}

// secondOf returns the second of the run in which the query started.
func secondOf(benchStart, start time.Time) int64 {
	return int64(start.Sub(benchStart) / time.Second)
}

// xysOf turns per second values into points ordered by time.
func xysOf(m map[int64]float64) plotter.XYs {
	xys := make(plotter.XYs, 0, len(m))
	for _, sec := range slices.Sorted(maps.Keys(m)) {
		xys = append(xys, plotter.XY{X: float64(sec), Y: m[sec]})
	}
	return xys
}

func latenciesMs(timings []dnsbench.Datapoint) plotter.Values {
	values := make(plotter.Values, 0, len(timings))
	for _, t := range timings {
		values = append(values, durationMs(t.Duration))
	}
	return values
}

func durationMs(d time.Duration) float64 {
	return float64(d) / float64(time.Millisecond)
}
