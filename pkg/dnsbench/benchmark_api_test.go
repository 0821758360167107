package dnsbench_test

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/nsspam/nsspam/pkg/dnsbench"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

type sleepingTransport struct {
	delay time.Duration
	calls atomic.Int64
}

func (s *sleepingTransport) Query(context.Context, string, bool) (time.Duration, error) {
	s.calls.Add(1)
	time.Sleep(s.delay)
	return s.delay, nil
}

func TestBenchmark_Run(t *testing.T) {
	s := NewServer(answering(10 * time.Millisecond))
	defer s.Close()

	buf := bytes.Buffer{}
	bench := dnsbench.Benchmark{
		Nameserver: s.Addr,
		Domain:     "example.org",
		Requests:   10,
		Threads:    3,
		Timeout:    2 * time.Second,
		Writer:     &buf,
	}

	rs, err := bench.Run(context.Background())

	require.NoError(t, err, "expected no error from benchmark run")
	require.Len(t, rs, 3)
	assert.EqualValues(t, 4, rs[0].Successful)
	assert.EqualValues(t, 3, rs[1].Successful)
	assert.EqualValues(t, 3, rs[2].Successful)
	for _, r := range rs {
		assert.Zero(t, r.Failed)
		assert.GreaterOrEqual(t, r.MaxTime, 10*time.Millisecond)
		assert.Equal(t, r.Successful, r.Hist.TotalCount())
		assert.Empty(t, r.Timings, "datapoints are collected only when plotting")
	}
	assert.Contains(t, buf.String(), "Benchmarking "+s.Addr+" via udp with 3 threads, querying example.org\n")

	summary := dnsbench.Summarize(rs)
	assert.EqualValues(t, 10, summary.Successful)
	assert.True(t, summary.HasAverage())
}

func TestBenchmark_Run_Silent(t *testing.T) {
	s := NewServer(answering(0))
	defer s.Close()

	buf := bytes.Buffer{}
	bench := dnsbench.Benchmark{
		Nameserver: s.Addr,
		Domain:     "example.org",
		Requests:   2,
		Threads:    1,
		Silent:     true,
		PlotDir:    t.TempDir(),
		Writer:     &buf,
	}

	rs, err := bench.Run(context.Background())

	require.NoError(t, err)
	require.Len(t, rs, 1)
	assert.Len(t, rs[0].Timings, 2)
	assert.Empty(t, buf.String())
}

func TestBenchmark_Run_Timeouts(t *testing.T) {
	s := NewServer(silent)
	defer s.Close()

	var mu sync.Mutex
	var failures []string
	bench := dnsbench.Benchmark{
		Nameserver: s.Addr,
		Domain:     "example.org",
		Requests:   4,
		Threads:    2,
		Timeout:    50 * time.Millisecond,
		Silent:     true,
		Verbose:    true,
		Output: func(_ uint32, qname string, err error) {
			mu.Lock()
			defer mu.Unlock()
			kind, _ := dnsbench.FailureKindOf(err)
			failures = append(failures, qname+" "+kind.String())
		},
	}

	rs, err := bench.Run(context.Background())

	require.NoError(t, err)
	summary := dnsbench.Summarize(rs)
	assert.EqualValues(t, 0, summary.Successful)
	assert.EqualValues(t, 4, summary.Failed)
	assert.EqualValues(t, 4, summary.Failures[dnsbench.FailureTimeout])
	assert.False(t, summary.HasAverage())
	assert.Len(t, failures, 4)
	assert.Contains(t, failures, "example.org timeout")
}

func TestBenchmark_Run_FixedTransport(t *testing.T) {
	tr := &sleepingTransport{delay: 2 * time.Millisecond}
	bench := dnsbench.Benchmark{
		Nameserver: "127.0.0.1",
		Requests:   5,
		Threads:    4,
		Silent:     true,
		Transport:  tr,
	}

	rs, err := bench.Run(context.Background())

	require.NoError(t, err)
	summary := dnsbench.Summarize(rs)
	assert.EqualValues(t, 5, summary.Successful)
	assert.EqualValues(t, 5, tr.calls.Load())
	assert.InDelta(t, 0.0, summary.AverageLatency, 1e-9)
}

func TestBenchmark_Run_Endless(t *testing.T) {
	defer goleak.VerifyNone(t, goleak.IgnoreCurrent())

	tr := &sleepingTransport{delay: time.Millisecond}
	bench := dnsbench.Benchmark{
		Nameserver: "127.0.0.1",
		Threads:    4,
		Endless:    true,
		Silent:     true,
		Transport:  tr,
	}

	ctx, cancel := context.WithCancel(context.Background())
	time.AfterFunc(100*time.Millisecond, cancel)

	rs, err := bench.Run(ctx)

	require.NoError(t, err)
	require.Len(t, rs, 4)
	summary := dnsbench.Summarize(rs)
	assert.Positive(t, summary.Successful)
	assert.EqualValues(t, tr.calls.Load(), summary.Total(), "every started query is recorded")
}

func TestBenchmark_Run_Duration(t *testing.T) {
	defer goleak.VerifyNone(t, goleak.IgnoreCurrent())

	tr := &sleepingTransport{delay: time.Millisecond}
	bench := dnsbench.Benchmark{
		Nameserver: "127.0.0.1",
		Threads:    2,
		Duration:   100 * time.Millisecond,
		Silent:     true,
		Transport:  tr,
	}

	start := time.Now()
	rs, err := bench.Run(context.Background())

	require.NoError(t, err)
	assert.Less(t, time.Since(start), 5*time.Second)
	assert.Positive(t, dnsbench.Summarize(rs).Successful)
}

func TestBenchmark_Run_CancelledBeforeStart(t *testing.T) {
	tr := &sleepingTransport{delay: time.Millisecond}
	bench := dnsbench.Benchmark{
		Nameserver: "127.0.0.1",
		Requests:   100,
		Threads:    3,
		Silent:     true,
		Transport:  tr,
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	rs, err := bench.Run(ctx)

	require.NoError(t, err)
	assert.EqualValues(t, 0, dnsbench.Summarize(rs).Total())
	assert.EqualValues(t, 0, tr.calls.Load())
}

func TestBenchmark_Run_CancelledMidRun(t *testing.T) {
	defer goleak.VerifyNone(t, goleak.IgnoreCurrent())

	tr := &sleepingTransport{delay: 5 * time.Millisecond}
	bench := dnsbench.Benchmark{
		Nameserver: "127.0.0.1",
		Requests:   100000,
		Threads:    4,
		Silent:     true,
		Transport:  tr,
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	time.AfterFunc(50*time.Millisecond, cancel)

	start := time.Now()
	rs, err := bench.Run(ctx)

	require.NoError(t, err)
	assert.Less(t, time.Since(start), 5*time.Second)
	require.Len(t, rs, 4)
	quotas := dnsbench.Partition(100000, 4)
	var total int64
	for i, r := range rs {
		require.NotNil(t, r)
		assert.Less(t, r.Total(), quotas[i], "worker %d stops before its quota", i)
		total += r.Total()
	}
	assert.Positive(t, total)
	assert.Equal(t, tr.calls.Load(), total, "every started query is recorded")
}

func TestBenchmark_Run_InvalidConfig(t *testing.T) {
	bench := dnsbench.Benchmark{Nameserver: "127.0.0.1", Requests: 5, Endless: true}

	rs, err := bench.Run(context.Background())

	require.Error(t, err)
	assert.Nil(t, rs)
}

func TestBenchmark_Run_RequestLog(t *testing.T) {
	s := NewServer(answering(0))
	defer s.Close()

	path := filepath.Join(t.TempDir(), "requests.log")
	bench := dnsbench.Benchmark{
		Nameserver:        s.Addr,
		Domain:            "example.org",
		Requests:          3,
		Threads:           1,
		Random:            true,
		Silent:            true,
		RequestLogEnabled: true,
		RequestLogPath:    path,
	}

	_, err := bench.Run(context.Background())
	require.NoError(t, err)

	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()

	var lines int
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		var entry map[string]any
		require.NoError(t, json.Unmarshal(scanner.Bytes(), &entry))
		assert.Equal(t, "query", entry["msg"])
		assert.Equal(t, "success", entry["outcome"])
		assert.Equal(t, "A", entry["qtype"])
		assert.Regexp(t, `^[a-z]{3,7}\.example\.org$`, entry["qname"])
		assert.InDelta(t, 0x1234, entry["reqid"], 0)
		lines++
	}
	require.NoError(t, scanner.Err())
	assert.Equal(t, 3, lines)
}
