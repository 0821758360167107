package dnsbench

import (
	"context"
	"math/rand"
	"time"

	"github.com/schollz/progressbar/v3"
	"go.uber.org/zap"
)

// FailureSink receives failed queries of the workers when the benchmark runs in verbose mode.
// It is called concurrently from all workers.
type FailureSink func(workerID uint32, qname string, err error)

type worker struct {
	id uint32
	// quota is the number of queries to send, negative quota means no limit.
	quota int64

	domain    string
	random    bool
	transport Transport
	rando     *rand.Rand

	output FailureSink
	reqLog *zap.Logger
	bar    *progressbar.ProgressBar

	stats *ResultStats
}

// run sends queries until the quota is exhausted or ctx is cancelled. Cancellation is checked
// before each query, a query in flight always finishes.
func (w *worker) run(ctx context.Context) *ResultStats {
	activeWorkersMetrics.Inc()
	defer activeWorkersMetrics.Dec()

	for i := int64(0); w.quota < 0 || i < w.quota; i++ {
		if ctx.Err() != nil {
			break
		}

		qname := w.domain
		if w.random {
			qname = randomSubdomain(w.rando, w.domain)
		}

		start := time.Now()
		dur, err := w.transport.Query(ctx, qname, false)
		w.stats.record(start, dur, err)

		if err != nil {
			dnsQueriesTotalMetrics.WithLabelValues(failureKind(err).String()).Inc()
			if w.output != nil {
				w.output(w.id, qname, err)
			}
		} else {
			dnsQueriesTotalMetrics.WithLabelValues(successOutcome).Inc()
			dnsQueryDurationMetrics.Observe(dur.Seconds())
		}

		if w.reqLog != nil {
			logRequest(w.reqLog, w.id, qname, err, dur)
		}
		if w.bar != nil {
			_ = w.bar.Add(1)
		}
	}
	return w.stats
}
