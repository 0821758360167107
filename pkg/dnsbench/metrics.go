package dnsbench

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const successOutcome = "success"

var (
	dnsQueryDurationMetrics = promauto.NewHistogram(prometheus.HistogramOpts{
		Namespace: "nsspam",
		Name:      "dns_query_duration_seconds",
		Help:      "Duration of successful DNS queries in seconds",
	})

	dnsQueriesTotalMetrics = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "nsspam",
		Name:      "dns_queries_total",
		Help:      "The total number of DNS queries by outcome",
	}, []string{"outcome"})

	activeWorkersMetrics = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: "nsspam",
		Name:      "active_workers",
		Help:      "The number of workers currently sending queries",
	})
)
