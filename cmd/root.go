package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/alecthomas/kingpin/v2"
	"github.com/fatih/color"
	"github.com/nsspam/nsspam/internal/sysutil"
	"github.com/nsspam/nsspam/pkg/dnsbench"
	"github.com/nsspam/nsspam/pkg/printutils"
	"github.com/nsspam/nsspam/pkg/reporter"
	"go.uber.org/zap"
)

// Version is set during release of project during build process.
var Version = "development"

// options holds command line settings that are not part of the benchmark itself.
type options struct {
	timeoutSeconds float64
	prometheus     string
}

var (
	benchmark dnsbench.Benchmark
	opts      options
	pApp      = newApp(&benchmark, &opts)
)

func newApp(b *dnsbench.Benchmark, o *options) *kingpin.Application {
	app := kingpin.New("nsspam", "Synthetic DNS query load generator for a single IPv4 nameserver.")

	app.Flag("nameserver", "IPv4 address of the nameserver to test, port can be appended like 127.0.0.1:5353. "+
		"The first IPv4 nameserver of the system resolver configuration is used by default.").
		Short('s').PlaceHolder("127.0.0.1").StringVar(&b.Nameserver)

	app.Flag("domain", "Domain to query, A records are requested.").
		Short('d').Default(dnsbench.DefaultDomain).StringVar(&b.Domain)

	app.Flag("requests", fmt.Sprintf("Total number of requests split between threads, %d by default. "+
		"This option is exclusive with --endless and --duration options.", dnsbench.DefaultRequests)).
		Short('n').Int64Var(&b.Requests)

	app.Flag("threads", "Number of concurrent workers.").
		Short('t').Default(fmt.Sprint(dnsbench.DefaultThreads)).Uint32Var(&b.Threads)

	app.Flag("timeout", "Timeout of a single request in seconds.").
		Default(fmt.Sprint(dnsbench.DefaultTimeout.Seconds())).Float64Var(&o.timeoutSeconds)

	app.Flag("verbose", "Log every failed request with the reason of the failure to stderr.").
		Short('v').BoolVar(&b.Verbose)

	app.Flag("random", "Query random subdomains of the domain, so that the answers are not cached by the nameserver.").
		Short('r').BoolVar(&b.Random)

	app.Flag("endless", "Send requests until interrupted.").BoolVar(&b.Endless)

	app.Flag("duration", "Specifies for how long the benchmark should be executing, the benchmark sends requests "+
		"in an endless loop and is cancelled after the duration. The duration is specified in GO duration format e.g. 10s, 15m, 1h.").
		PlaceHolder("1m").DurationVar(&b.Duration)

	app.Flag("json", "Report benchmark results as JSON.").BoolVar(&b.JSON)

	app.Flag("silent", "Disable stdout.").Default("false").BoolVar(&b.Silent)

	app.Flag("color", "ANSI Color output. Enabled by default.").
		Default("true").BoolVar(&b.Color)

	app.Flag("csv", "Export distribution to CSV.").
		Default("").PlaceHolder("/path/to/file.csv").StringVar(&b.Csv)

	app.Flag("plot", "Plot benchmark results and export them to the directory.").
		Default("").PlaceHolder("/path/to/folder").StringVar(&b.PlotDir)

	app.Flag("plotf", "Format of graphs. Supported formats: png, jpg, svg.").
		Default(dnsbench.DefaultPlotFormat).EnumVar(&b.PlotFormat, "png", "jpg", "svg")

	app.Flag("min", "Minimum value for timing histogram.").
		Default(dnsbench.DefaultHistMin.String()).DurationVar(&b.HistMin)

	app.Flag("max", "Maximum value for timing histogram, the request timeout is used by default.").DurationVar(&b.HistMax)

	app.Flag("precision", "Significant figure for histogram precision.").
		Default(fmt.Sprint(dnsbench.DefaultHistPrecision)).PlaceHolder("[1-5]").IntVar(&b.HistPre)

	app.Flag("distribution", "Display distribution histogram of timings to stdout. Enabled by default.").
		Default("true").BoolVar(&b.HistDisplay)

	app.Flag("log-requests", "Log every request with its outcome and duration to the file.").
		Default("false").BoolVar(&b.RequestLogEnabled)

	app.Flag("log-requests-path", "Path of the file, where the requests are logged.").
		Default(dnsbench.DefaultRequestLogPath).StringVar(&b.RequestLogPath)

	app.Flag("prometheus", "Expose Prometheus metrics of the running benchmark on the address, for example :8080.").
		PlaceHolder(":8080").StringVar(&o.prometheus)

	return app
}

// Execute starts main logic of command.
func Execute() {
	pApp.Version(Version)
	kingpin.MustParse(pApp.Parse(os.Args[1:]))

	sigsInt := make(chan os.Signal, 8)
	signal.Notify(sigsInt, syscall.SIGINT, syscall.SIGTERM)

	defer close(sigsInt)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go func() {
		_, ok := <-sigsInt
		if !ok {
			// standard exit based on channel close
			return
		}
		fmt.Fprintf(os.Stderr, "\nCancelling benchmark ^C, again to terminate now.\n")
		cancel()
		<-sigsInt
		os.Exit(1)
	}()

	if code := run(ctx, &benchmark, opts, os.Stderr); code != 0 {
		os.Exit(code)
	}
}

// run executes the probe, the benchmark and prints report. Returned value is the exit code of the process.
func run(ctx context.Context, b *dnsbench.Benchmark, o options, stderr io.Writer) int {
	if !b.Color {
		color.NoColor = true
	}

	if o.timeoutSeconds <= 0 {
		printutils.ErrFprintf(stderr, "Timeout must be positive, was %v\n", o.timeoutSeconds)
		return 1
	}
	b.Timeout = time.Duration(o.timeoutSeconds * float64(time.Second))

	if lim, err := sysutil.RlimitNoFile(); err != nil {
		printutils.ErrFprintf(stderr, "Cannot check limit of number of files. Skipping check. Please make sure it is sufficient manually. %v\n", err)
	} else if err := sysutil.CheckOpenFiles(lim, b.Threads); err != nil {
		printutils.ErrFprintf(stderr, "%s\n", err)
		return 1
	}

	logger := newFailureLogger(stderr)
	defer func() {
		_ = logger.Sync()
	}()
	b.Output = failureSink(logger)

	if o.prometheus != "" {
		srv, addr, err := startMetricsServer(o.prometheus)
		if err != nil {
			printutils.ErrFprintf(stderr, "Failed to expose Prometheus metrics: %v\n", err)
			return 1
		}
		logger.Debug("serving prometheus metrics", zap.Stringer("addr", addr))
		defer func() {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), time.Second)
			defer cancel()
			_ = srv.Shutdown(shutdownCtx)
		}()
	}

	if err := b.Probe(ctx); err != nil {
		if errors.Is(err, dnsbench.ErrProbeFailed) {
			printutils.ErrFprintf(stderr, "Nameserver %s did not answer query for %s, benchmark aborted: %v\n",
				b.Nameserver, b.Domain, err)
		} else {
			printutils.ErrFprintf(stderr, "There was an error while starting benchmark: %v\n", err)
		}
		return 1
	}
	if !b.Silent && !b.JSON {
		printutils.SuccessFprintf(b.Writer, "Nameserver %s answers queries for %s\n", b.Nameserver, b.Domain)
	}

	start := time.Now()
	res, err := b.Run(ctx)
	end := time.Now()

	if err != nil {
		printutils.ErrFprintf(stderr, "There was an error while starting benchmark: %v\n", err)
		return 1
	}

	if err := reporter.PrintReport(b, res, start, end.Sub(start)); err != nil {
		printutils.ErrFprintf(stderr, "There was an error while printing report: %v\n", err)
		return 1
	}
	return 0
}
