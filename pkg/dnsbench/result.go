package dnsbench

import (
	"time"

	"github.com/HdrHistogram/hdrhistogram-go"
)

// Datapoint one datapoint of benchmark (single successful DNS query).
type Datapoint struct {
	Duration time.Duration
	Start    time.Time
}

// ErrorDatapoint one datapoint representing a failed DNS query.
type ErrorDatapoint struct {
	Start time.Time
	Err   error
}

// ResultStats is a representation of benchmark results of single worker.
type ResultStats struct {
	// Successful is a number of queries that received a response in time.
	Successful int64
	// Failed is a number of queries that failed for any reason.
	Failed int64
	// TotalTime is the sum of durations of successful queries.
	TotalTime time.Duration
	// MaxTime is the longest successful query.
	MaxTime time.Duration
	// Failures counts failed queries by the failure kind.
	Failures map[FailureKind]int64

	Hist *hdrhistogram.Histogram

	// Timings and Errors are collected only when plotting is enabled.
	Timings []Datapoint
	Errors  []ErrorDatapoint

	datapoints bool
}

func newResultStats(hist *hdrhistogram.Histogram, datapoints bool) *ResultStats {
	return &ResultStats{
		Failures:   make(map[FailureKind]int64),
		Hist:       hist,
		datapoints: datapoints,
	}
}

// Total returns number of attempted queries.
func (rs *ResultStats) Total() int64 {
	return rs.Successful + rs.Failed
}

func (rs *ResultStats) record(start time.Time, timing time.Duration, err error) {
	if err != nil {
		rs.Failed++
		rs.Failures[failureKind(err)]++
		if rs.datapoints {
			rs.Errors = append(rs.Errors, ErrorDatapoint{Start: start, Err: err})
		}
		return
	}

	rs.Successful++
	rs.TotalTime += timing
	if timing > rs.MaxTime {
		rs.MaxTime = timing
	}
	if rs.Hist != nil {
		// values above the histogram maximum are dropped, the timeout bounds them anyway
		_ = rs.Hist.RecordValue(timing.Nanoseconds())
	}
	if rs.datapoints {
		rs.Timings = append(rs.Timings, Datapoint{Duration: timing, Start: start})
	}
}
