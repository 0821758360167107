package dnsbench

import (
	"context"
	"errors"
	"fmt"
	"io"
	"math/rand"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/HdrHistogram/hdrhistogram-go"
	"github.com/miekg/dns"
	"github.com/nsspam/nsspam/pkg/printutils"
	"github.com/schollz/progressbar/v3"
	"go.uber.org/zap"
)

// Benchmark is representation of benchmark scenario.
type Benchmark struct {
	// Nameserver is IPv4 address of the tested nameserver, port can be appended like "127.0.0.1:5353".
	// When empty, the system name server is used.
	Nameserver string

	// Domain is queried by all workers, DefaultDomain is used when empty.
	Domain string

	// Requests is the total number of queries split between the workers. Exclusive with Endless and Duration.
	Requests int64

	// Threads is the number of concurrent workers.
	Threads uint32

	// Timeout of a single query.
	Timeout time.Duration

	// Verbose enables reporting of each failed query to Output.
	Verbose bool

	// Random prepends random label to the Domain for each query.
	Random bool

	// Endless runs the benchmark until the context is cancelled.
	Endless bool

	// Duration limits for how long the benchmark runs, implies Endless.
	Duration time.Duration

	HistDisplay bool
	HistMin     time.Duration
	HistMax     time.Duration
	HistPre     int

	Csv  string
	JSON bool

	Silent bool
	Color  bool

	PlotDir    string
	PlotFormat string

	RequestLogEnabled bool
	RequestLogPath    string

	// Writer used for printing benchmark progress, os.Stdout is used by default.
	Writer io.Writer

	// Output receives failed queries in verbose mode.
	Output FailureSink

	// Transport is used for sending queries, UDPTransport is used when nil.
	Transport Transport
}

func (b *Benchmark) init() error {
	if b.Nameserver == "" {
		b.Nameserver = DefaultNameServer()
	}

	if b.Domain == "" {
		b.Domain = DefaultDomain
	}
	if _, ok := dns.IsDomainName(b.Domain); !ok {
		return fmt.Errorf("'%s' is not a valid domain name", b.Domain)
	}
	if b.Random && len(strings.TrimSuffix(b.Domain, "."))+randomLabelMaxLen+1 > maxNameLen {
		return fmt.Errorf("'%s' is too long to be prefixed with random subdomain", b.Domain)
	}

	if b.Requests < 0 {
		return errors.New("number of requests must not be negative")
	}
	if b.Duration < 0 {
		return errors.New("duration must not be negative")
	}
	if b.Duration > 0 {
		b.Endless = true
	}
	if b.Endless && b.Requests > 0 {
		return errors.New("--requests and --endless or --duration is specified at once, only one can be used")
	}
	if !b.Endless && b.Requests == 0 {
		b.Requests = DefaultRequests
	}

	if b.Threads == 0 {
		b.Threads = DefaultThreads
	}

	if b.Timeout < 0 {
		return errors.New("timeout must not be negative")
	}
	if b.Timeout == 0 {
		b.Timeout = DefaultTimeout
	}

	if b.HistMin == 0 {
		b.HistMin = DefaultHistMin
	}
	if b.HistMax == 0 {
		b.HistMax = b.Timeout
	}
	if b.HistMin >= b.HistMax {
		return fmt.Errorf("histogram minimum %s must be lower than maximum %s", b.HistMin, b.HistMax)
	}
	if b.HistPre == 0 {
		b.HistPre = DefaultHistPrecision
	}
	if b.HistPre < 1 || b.HistPre > 5 {
		return fmt.Errorf("histogram precision must be in range [1, 5], was %d", b.HistPre)
	}

	if b.RequestLogEnabled && b.RequestLogPath == "" {
		b.RequestLogPath = DefaultRequestLogPath
	}

	if b.PlotFormat == "" {
		b.PlotFormat = DefaultPlotFormat
	}

	if b.Writer == nil {
		b.Writer = os.Stdout
	}

	if b.Transport == nil {
		b.Transport = &UDPTransport{Nameserver: b.Nameserver, Timeout: b.Timeout}
	}
	return nil
}

// Run executes benchmark, if benchmark is unable to start the error is returned, otherwise slice of results
// from the workers is returned, indexed by worker ID. Cancelling ctx stops the workers after their in-flight query.
func (b *Benchmark) Run(ctx context.Context) ([]*ResultStats, error) {
	if err := b.init(); err != nil {
		return nil, err
	}

	if b.Duration > 0 {
		timeoutCtx, cancel := context.WithTimeout(ctx, b.Duration)
		ctx = timeoutCtx
		defer cancel()
	}

	var reqLog *zap.Logger
	if b.RequestLogEnabled {
		l, closeLog, err := newRequestLogger(b.RequestLogPath)
		if err != nil {
			return nil, fmt.Errorf("failed to open request log '%s': %w", b.RequestLogPath, err)
		}
		reqLog = l
		defer closeLog()
	}

	var output FailureSink
	if b.Verbose {
		output = b.Output
	}

	quotas := b.quotas()

	if !b.Silent && !b.JSON {
		target := printutils.HighlightSprint(b.Domain)
		if b.Random {
			target = "random subdomains of " + target
		}
		printutils.NeutralFprintf(b.Writer, "Benchmarking %s via udp with %s threads, querying %s\n",
			printutils.HighlightSprint(b.Nameserver), printutils.HighlightSprint(b.Threads), target)
	}
	bar := b.progressBar()

	stats := make([]*ResultStats, b.Threads)

	var wg sync.WaitGroup
	var w uint32
	for w = 0; w < b.Threads; w++ {
		wk := &worker{
			id:        w,
			quota:     quotas[w],
			domain:    b.Domain,
			random:    b.Random,
			transport: b.Transport,
			// nolint:gosec
			rando:  rand.New(rand.NewSource(time.Now().UnixNano() + int64(w))),
			output: output,
			reqLog: reqLog,
			bar:    bar,
			stats: newResultStats(
				hdrhistogram.New(b.HistMin.Nanoseconds(), b.HistMax.Nanoseconds(), b.HistPre),
				len(b.PlotDir) != 0,
			),
		}

		wg.Add(1)
		go func(w uint32) {
			defer wg.Done()
			// each worker owns its slot, the slice is read only after wg.Wait
			stats[w] = wk.run(ctx)
		}(w)
	}

	wg.Wait()

	if bar != nil {
		_ = bar.Finish()
	}

	return stats, nil
}

func (b *Benchmark) quotas() []int64 {
	if b.Endless {
		quotas := make([]int64, b.Threads)
		for i := range quotas {
			quotas[i] = -1
		}
		return quotas
	}
	return Partition(b.Requests, b.Threads)
}

func (b *Benchmark) progressBar() *progressbar.ProgressBar {
	if b.Silent || b.JSON {
		return nil
	}
	max := b.Requests
	if b.Endless {
		max = -1
	}
	return progressbar.NewOptions64(max,
		progressbar.OptionSetWriter(b.Writer),
		progressbar.OptionSetDescription("Progress:"),
		progressbar.OptionShowCount(),
		progressbar.OptionShowIts(),
		progressbar.OptionSetItsString("queries"),
		progressbar.OptionThrottle(100*time.Millisecond),
		progressbar.OptionClearOnFinish(),
	)
}

// Partition splits total number of queries between workers, the first total%workers workers get one more query.
func Partition(total int64, workers uint32) []int64 {
	quotas := make([]int64, workers)
	if workers == 0 {
		return quotas
	}
	base := total / int64(workers)
	remainder := total % int64(workers)
	for i := range quotas {
		quotas[i] = base
		if int64(i) < remainder {
			quotas[i]++
		}
	}
	return quotas
}
