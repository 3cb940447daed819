// Package metrics defines and registers the custom Prometheus metrics of the
// admin console API. It is the single source of truth for metric names,
// labels, and help strings.
//
// Metrics are registered with the default Prometheus registry at package init
// through promauto.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "admin_console"

// ── Login metrics ─────────────────────────────────────────────────────────────

// LoginAttemptsTotal counts login attempts by result.
// Label:
//   - result: "success", "invalid_credentials", "rate_limited" or "error"
var LoginAttemptsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "login_attempts_total",
		Help:      "Total number of login attempts, labelled by result.",
	},
	[]string{"result"},
)

// LoginDuration measures credential verification plus token issuance.
var LoginDuration = promauto.NewHistogram(
	prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "login_duration_seconds",
		Help:      "Duration of login requests, dominated by the bcrypt comparison.",
		Buckets:   []float64{.05, .1, .25, .5, 1, 2.5},
	},
)

// ── Gate metrics ──────────────────────────────────────────────────────────────

// GateDecisionsTotal counts request gate outcomes.
// Label:
//   - state: "public", "unauthenticated", "non_privileged" or "privileged"
var GateDecisionsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "gate_decisions_total",
		Help:      "Total number of request gate decisions, by resulting state.",
	},
	[]string{"state"},
)

// TokenVerificationsTotal counts session token verifications.
// Label:
//   - outcome: "valid", "tampered" or "expired"
var TokenVerificationsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "token_verifications_total",
		Help:      "Total number of session token verifications, by outcome.",
	},
	[]string{"outcome"},
)
