package dnsbench

import (
	"time"
)

const (
	// DefaultDomain is a default domain to query.
	DefaultDomain = "google.com"

	// DefaultRequests is a default total number of queries.
	DefaultRequests = 100

	// DefaultThreads is a default number of concurrent workers.
	DefaultThreads = 10

	// DefaultTimeout is a default timeout of a single query.
	DefaultTimeout = 5 * time.Second

	// DefaultPort is the port queries are sent to, when nameserver has no port.
	DefaultPort = 53

	// DefaultRequestLogPath is a default path to the file, where the requests will be logged.
	DefaultRequestLogPath = "requests.log"

	// DefaultPlotFormat is a default format for plots.
	DefaultPlotFormat = "png"

	// DefaultHistMin is a default minimal value of latency histogram.
	DefaultHistMin = 400 * time.Microsecond

	// DefaultHistPrecision is a default precision for histogram.
	DefaultHistPrecision = 1
)
