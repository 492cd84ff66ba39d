// Package metrics holds the Prometheus collectors for the ledger server.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "chopbill"

// Outcome labels for LedgerWrites.
const (
	OutcomeOK       = "ok"
	OutcomeRejected = "rejected"
	OutcomeError    = "error"
)

// LedgerWrites counts expense and settlement writes by kind and outcome.
var LedgerWrites = promauto.NewCounterVec(prometheus.CounterOpts{
	Namespace: namespace,
	Subsystem: "ledger",
	Name:      "writes_total",
	Help:      "Ledger writes by kind (expense, settlement) and outcome (ok, rejected, error).",
}, []string{"kind", "outcome"})

// LockWait tracks how long writers waited for a group lock.
var LockWait = promauto.NewHistogram(prometheus.HistogramOpts{
	Namespace: namespace,
	Subsystem: "ledger",
	Name:      "lock_wait_seconds",
	Help:      "Time spent waiting for a per-group write lock.",
	Buckets:   []float64{.0005, .001, .005, .01, .05, .1, .5, 1, 5},
})

// DashboardDuration tracks end-to-end dashboard computation time.
var DashboardDuration = promauto.NewHistogram(prometheus.HistogramOpts{
	Namespace: namespace,
	Subsystem: "ledger",
	Name:      "dashboard_duration_seconds",
	Help:      "Time to load and aggregate a user's dashboard.",
	Buckets:   prometheus.DefBuckets,
})

// DashboardGroups tracks how many groups a dashboard spans.
var DashboardGroups = promauto.NewHistogram(prometheus.HistogramOpts{
	Namespace: namespace,
	Subsystem: "ledger",
	Name:      "dashboard_groups",
	Help:      "Number of groups aggregated per dashboard request.",
	Buckets:   []float64{0, 1, 2, 5, 10, 25, 50, 100},
})

// EventPublishFailures counts ledger events that could not be delivered.
var EventPublishFailures = promauto.NewCounterVec(prometheus.CounterOpts{
	Namespace: namespace,
	Subsystem: "events",
	Name:      "publish_failures_total",
	Help:      "Ledger events dropped because publishing failed.",
}, []string{"type"})

// RPCRequests counts handled RPCs by procedure and Connect code.
var RPCRequests = promauto.NewCounterVec(prometheus.CounterOpts{
	Namespace: namespace,
	Subsystem: "rpc",
	Name:      "requests_total",
	Help:      "RPCs handled, by procedure and result code.",
}, []string{"procedure", "code"})

// RPCDuration tracks RPC latency by procedure.
var RPCDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
	Namespace: namespace,
	Subsystem: "rpc",
	Name:      "duration_seconds",
	Help:      "RPC handling latency.",
	Buckets:   prometheus.DefBuckets,
}, []string{"procedure"})
