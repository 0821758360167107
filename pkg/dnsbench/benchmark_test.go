package dnsbench

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBenchmark_init(t *testing.T) {
	tests := []struct {
		name         string
		benchmark    Benchmark
		wantErr      bool
		wantRequests int64
		wantEndless  bool
		wantHistMax  time.Duration
		wantLogPath  string
		wantDomain   string
	}{
		{
			name:         "defaults",
			benchmark:    Benchmark{Nameserver: "8.8.8.8"},
			wantRequests: DefaultRequests,
			wantHistMax:  DefaultTimeout,
		},
		{
			name:         "histogram max follows timeout",
			benchmark:    Benchmark{Nameserver: "8.8.8.8", Timeout: 2 * time.Second, Requests: 5},
			wantRequests: 5,
			wantHistMax:  2 * time.Second,
		},
		{
			name:        "endless",
			benchmark:   Benchmark{Nameserver: "8.8.8.8", Endless: true},
			wantEndless: true,
			wantHistMax: DefaultTimeout,
		},
		{
			name:        "duration implies endless",
			benchmark:   Benchmark{Nameserver: "8.8.8.8", Duration: time.Minute},
			wantEndless: true,
			wantHistMax: DefaultTimeout,
		},
		{
			name:         "request log default path",
			benchmark:    Benchmark{Nameserver: "8.8.8.8", RequestLogEnabled: true},
			wantRequests: DefaultRequests,
			wantHistMax:  DefaultTimeout,
			wantLogPath:  DefaultRequestLogPath,
		},
		{
			name:      "requests and endless",
			benchmark: Benchmark{Nameserver: "8.8.8.8", Requests: 10, Endless: true},
			wantErr:   true,
		},
		{
			name:      "requests and duration",
			benchmark: Benchmark{Nameserver: "8.8.8.8", Requests: 10, Duration: time.Second},
			wantErr:   true,
		},
		{
			name:      "negative requests",
			benchmark: Benchmark{Nameserver: "8.8.8.8", Requests: -1},
			wantErr:   true,
		},
		{
			name:      "negative timeout",
			benchmark: Benchmark{Nameserver: "8.8.8.8", Timeout: -time.Second},
			wantErr:   true,
		},
		{
			name:      "invalid domain",
			benchmark: Benchmark{Nameserver: "8.8.8.8", Domain: "example..org"},
			wantErr:   true,
		},
		{
			name:         "random subdomain fits into name length",
			benchmark:    Benchmark{Nameserver: "8.8.8.8", Random: true, Domain: longDomain(245) + "."},
			wantRequests: DefaultRequests,
			wantHistMax:  DefaultTimeout,
			wantDomain:   longDomain(245) + ".",
		},
		{
			name:      "random subdomain exceeds name length",
			benchmark: Benchmark{Nameserver: "8.8.8.8", Random: true, Domain: longDomain(246)},
			wantErr:   true,
		},
		{
			name:      "invalid histogram precision",
			benchmark: Benchmark{Nameserver: "8.8.8.8", HistPre: 6},
			wantErr:   true,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.benchmark.init()

			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			wantDomain := tt.wantDomain
			if wantDomain == "" {
				wantDomain = DefaultDomain
			}
			assert.Equal(t, wantDomain, tt.benchmark.Domain)
			assert.Equal(t, tt.wantRequests, tt.benchmark.Requests)
			assert.Equal(t, tt.wantEndless, tt.benchmark.Endless)
			assert.Equal(t, tt.wantHistMax, tt.benchmark.HistMax)
			assert.Equal(t, tt.wantLogPath, tt.benchmark.RequestLogPath)
			assert.Equal(t, DefaultThreads, int(tt.benchmark.Threads))
			assert.NotNil(t, tt.benchmark.Writer)
			if assert.IsType(t, &UDPTransport{}, tt.benchmark.Transport) {
				assert.Equal(t, "8.8.8.8", tt.benchmark.Transport.(*UDPTransport).Nameserver)
			}
		})
	}
}

func TestPartition(t *testing.T) {
	tests := []struct {
		total   int64
		workers uint32
		want    []int64
	}{
		{total: 100, workers: 10, want: []int64{10, 10, 10, 10, 10, 10, 10, 10, 10, 10}},
		{total: 10, workers: 3, want: []int64{4, 3, 3}},
		{total: 2, workers: 4, want: []int64{1, 1, 0, 0}},
		{total: 0, workers: 2, want: []int64{0, 0}},
		{total: 5, workers: 0, want: []int64{}},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, Partition(tt.total, tt.workers), "Partition(%d, %d)", tt.total, tt.workers)
	}
}

func TestPartition_Sum(t *testing.T) {
	for total := int64(0); total < 50; total++ {
		for workers := uint32(1); workers < 12; workers++ {
			quotas := Partition(total, workers)

			var sum int64
			for i, q := range quotas {
				sum += q
				if i > 0 {
					assert.LessOrEqual(t, q, quotas[i-1])
					assert.LessOrEqual(t, quotas[0]-q, int64(1))
				}
			}
			assert.Equal(t, total, sum)
		}
	}
}

// longDomain returns valid domain name of exactly n characters made of 9 letters long labels.
func longDomain(n int) string {
	var sb strings.Builder
	for sb.Len() < n {
		if sb.Len() > 0 {
			sb.WriteByte('.')
		}
		sb.WriteString(strings.Repeat("a", min(9, n-sb.Len())))
	}
	return sb.String()
}
