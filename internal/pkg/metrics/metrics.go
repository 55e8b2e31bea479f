// Package metrics exposes Prometheus counters and a small /metrics +
// /healthz server that runs on its own port.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// BetsPlaced counts bets successfully appended to the store.
	BetsPlaced = promauto.NewCounter(prometheus.CounterOpts{
		Name: "betledger_bets_placed_total",
		Help: "Number of bets recorded.",
	})

	// BetsSettled counts settlements by outcome.
	BetsSettled = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "betledger_bets_settled_total",
		Help: "Number of bets settled, by outcome.",
	}, []string{"outcome"})

	// LinesRejected counts free-text lines the resolver refused.
	LinesRejected = promauto.NewCounter(prometheus.CounterOpts{
		Name: "betledger_lines_rejected_total",
		Help: "Number of bet lines rejected by the resolver.",
	})

	// SummaryRequests counts /summary invocations.
	SummaryRequests = promauto.NewCounter(prometheus.CounterOpts{
		Name: "betledger_summary_requests_total",
		Help: "Number of summary reports requested.",
	})
)
