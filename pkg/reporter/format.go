package reporter

import (
	"strconv"
	"time"

	"github.com/nsspam/nsspam/pkg/dnsbench"
)

func roundDuration(dur time.Duration) time.Duration {
	if dur > time.Minute {
		return dur.Round(10 * time.Second)
	}
	if dur > time.Second {
		return dur.Round(10 * time.Millisecond)
	}
	if dur > time.Millisecond {
		return dur.Round(10 * time.Microsecond)
	}
	if dur > time.Microsecond {
		return dur.Round(10 * time.Nanosecond)
	}
	return dur
}

func queriesPerSecond(total int64, dur time.Duration) float64 {
	if dur <= 0 {
		return 0
	}
	return float64(total) / dur.Seconds()
}

// formatAverage renders average latency in seconds, "n/a" when no query succeeded.
func formatAverage(s dnsbench.Summary) string {
	if !s.HasAverage() {
		return "n/a"
	}
	return strconv.FormatFloat(s.AverageLatency, 'f', 2, 64) + "s"
}
