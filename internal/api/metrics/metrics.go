// Package metrics defines all custom Prometheus metrics for the server
// loaning system. It is the single source of truth for metric names, labels,
// and help strings. Metrics self-register with the default registry via
// promauto.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "serverloans"

// LoginsTotal counts login attempts.
// Label:
//   - result: "ok" or "failed"
var LoginsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "logins_total",
		Help:      "Total number of login attempts, by result.",
	},
	[]string{"result"},
)

// SessionRotationsTotal counts periodic session token rotations.
var SessionRotationsTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "session_rotations_total",
		Help:      "Total number of session token rotations performed.",
	},
)

// LoansCreatedTotal counts loans successfully recorded as Active.
var LoansCreatedTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "loans_created_total",
		Help:      "Total number of loans created.",
	},
)

// LoansClosedTotal counts loans moved to a terminal state.
// Label:
//   - outcome: "returned" or "cancelled"
var LoansClosedTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "loans_closed_total",
		Help:      "Total number of loans closed, by outcome.",
	},
	[]string{"outcome"},
)

// AssetWritesTotal counts asset mutations.
// Label:
//   - op: "create", "update" or "delete"
var AssetWritesTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "asset_writes_total",
		Help:      "Total number of asset mutations, by operation.",
	},
	[]string{"op"},
)

// ValidationFailuresTotal counts form submissions rejected by validation.
// Label:
//   - form: the submitting form ("login", "asset", "loan", "return", "cancel")
var ValidationFailuresTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "validation_failures_total",
		Help:      "Total number of form submissions rejected by validation.",
	},
	[]string{"form"},
)
