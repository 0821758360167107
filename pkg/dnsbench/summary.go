package dnsbench

import (
	"math"
	"time"
)

// Summary is the aggregated outcome of the whole run.
type Summary struct {
	Successful int64
	Failed     int64
	// AverageLatency is the mean duration of successful queries in seconds rounded to two decimals,
	// it is NaN when no query succeeded.
	AverageLatency float64
	// MaxLatency is the longest successful query in seconds rounded to two decimals.
	MaxLatency float64
	Failures   map[FailureKind]int64
}

// HasAverage reports whether at least one query succeeded, so that AverageLatency is defined.
func (s Summary) HasAverage() bool {
	return !math.IsNaN(s.AverageLatency)
}

// Total returns number of attempted queries.
func (s Summary) Total() int64 {
	return s.Successful + s.Failed
}

// Summarize folds results of all workers into one Summary. Nil elements are skipped.
func Summarize(stats []*ResultStats) Summary {
	s := Summary{
		Failures: make(map[FailureKind]int64),
	}
	var total, max time.Duration
	for _, st := range stats {
		if st == nil {
			continue
		}
		s.Successful += st.Successful
		s.Failed += st.Failed
		total += st.TotalTime
		if st.MaxTime > max {
			max = st.MaxTime
		}
		for k, v := range st.Failures {
			s.Failures[k] += v
		}
	}

	s.AverageLatency = math.NaN()
	if s.Successful > 0 {
		s.AverageLatency = roundSeconds(total.Seconds() / float64(s.Successful))
	}
	s.MaxLatency = roundSeconds(max.Seconds())
	return s
}

func roundSeconds(sec float64) float64 {
	return math.Round(sec*100) / 100
}
