package reporter

import (
	"encoding/json"
	"math"
	"time"
)

type jsonReporter struct{}

type latencyStats struct {
	MinMs  int64 `json:"minMs"`
	MeanMs int64 `json:"meanMs"`
	StdMs  int64 `json:"stdMs"`
	MaxMs  int64 `json:"maxMs"`
	P99Ms  int64 `json:"p99Ms"`
	P95Ms  int64 `json:"p95Ms"`
	P90Ms  int64 `json:"p90Ms"`
	P75Ms  int64 `json:"p75Ms"`
	P50Ms  int64 `json:"p50Ms"`
}

type histogramPoint struct {
	LatencyMs int64 `json:"latencyMs"`
	Count     int64 `json:"count"`
}

type jsonResult struct {
	TotalRequests            int64            `json:"totalRequests"`
	TotalSuccessful          int64            `json:"totalSuccessful"`
	TotalFailed              int64            `json:"totalFailed"`
	Failures                 map[string]int64 `json:"failures,omitempty"`
	AverageLatencySeconds    *float64         `json:"averageLatencySeconds"`
	MaxLatencySeconds        float64          `json:"maxLatencySeconds"`
	QueriesPerSecond         float64          `json:"queriesPerSecond"`
	BenchmarkDurationSeconds float64          `json:"benchmarkDurationSeconds"`
	LatencyStats             latencyStats     `json:"latencyStats"`
	LatencyDistribution      []histogramPoint `json:"latencyDistribution,omitempty"`
}

func (s *jsonReporter) print(params reportParameters) error {
	var res []histogramPoint

	if params.benchmark.HistDisplay {
		dist := params.hist.Distribution()
		for _, d := range dist {
			res = append(res, histogramPoint{
				LatencyMs: roundDuration(time.Duration(d.To/2 + d.From/2)).Milliseconds(),
				Count:     d.Count,
			})
		}

		var dedupRes []histogramPoint
		i := -1
		for _, r := range res {
			if i >= 0 && dedupRes[i].LatencyMs == r.LatencyMs {
				dedupRes[i].Count += r.Count
				continue
			}
			dedupRes = append(dedupRes, r)
			i++
		}
		res = dedupRes
	}

	failures := make(map[string]int64)
	for k, v := range params.summary.Failures {
		if v > 0 {
			failures[k.String()] = v
		}
	}

	result := jsonResult{
		TotalRequests:            params.summary.Total(),
		TotalSuccessful:          params.summary.Successful,
		TotalFailed:              params.summary.Failed,
		Failures:                 failures,
		MaxLatencySeconds:        params.summary.MaxLatency,
		QueriesPerSecond:         math.Round(queriesPerSecond(params.summary.Total(), params.benchmarkDuration)*100) / 100,
		BenchmarkDurationSeconds: roundDuration(params.benchmarkDuration).Seconds(),
		LatencyStats: latencyStats{
			MinMs:  roundDuration(time.Duration(params.hist.Min())).Milliseconds(),
			MeanMs: roundDuration(time.Duration(params.hist.Mean())).Milliseconds(),
			StdMs:  roundDuration(time.Duration(params.hist.StdDev())).Milliseconds(),
			MaxMs:  roundDuration(time.Duration(params.hist.Max())).Milliseconds(),
			P99Ms:  roundDuration(time.Duration(params.hist.ValueAtQuantile(99))).Milliseconds(),
			P95Ms:  roundDuration(time.Duration(params.hist.ValueAtQuantile(95))).Milliseconds(),
			P90Ms:  roundDuration(time.Duration(params.hist.ValueAtQuantile(90))).Milliseconds(),
			P75Ms:  roundDuration(time.Duration(params.hist.ValueAtQuantile(75))).Milliseconds(),
			P50Ms:  roundDuration(time.Duration(params.hist.ValueAtQuantile(50))).Milliseconds(),
		},
		LatencyDistribution: res,
	}
	// NaN is not representable in JSON, undefined average is null
	if params.summary.HasAverage() {
		avg := params.summary.AverageLatency
		result.AverageLatencySeconds = &avg
	}

	return json.NewEncoder(params.outputWriter).Encode(result)
}
