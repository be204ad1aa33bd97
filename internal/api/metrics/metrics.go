// Package metrics defines and registers all custom Prometheus metrics for the
// identity service and gateway. It is the single source of truth for metric
// names, labels, and help strings.
//
// Metrics register with the default Prometheus registry at package init and
// are exposed through the /metrics route mounted by each router.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "identity"

// ── Authentication metrics ────────────────────────────────────────────────────

// LoginsTotal counts login attempts by outcome.
// Label:
//   - outcome: "success", "invalid_credentials", "throttled", or "error"
var LoginsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "logins_total",
		Help:      "Total number of login attempts, by outcome.",
	},
	[]string{"outcome"},
)

// RegistrationsTotal counts registration attempts by outcome.
// Label:
//   - outcome: "success", "validation", "duplicate", or "error"
var RegistrationsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "registrations_total",
		Help:      "Total number of registration attempts, by outcome.",
	},
	[]string{"outcome"},
)

// TokenVerificationsTotal counts token checks performed by the access
// middleware.
// Label:
//   - result: "ok", "missing", or "invalid"
var TokenVerificationsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "token_verifications_total",
		Help:      "Total number of identity-token verifications, by result.",
	},
	[]string{"result"},
)

// ── Audit metrics ─────────────────────────────────────────────────────────────

// AuditDroppedTotal counts audit entries discarded because the writer's
// buffer was full.
var AuditDroppedTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "audit_entries_dropped_total",
		Help:      "Total number of audit entries dropped under backpressure.",
	},
)

// ── Gateway metrics ───────────────────────────────────────────────────────────

// UpstreamFailuresTotal counts gateway requests that could not reach the
// user service at all (connection refused, timeout, DNS failure).
// Label:
//   - route: the gateway route that failed (e.g. "/api/users/me")
var UpstreamFailuresTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "gateway_upstream_failures_total",
		Help:      "Total number of gateway requests that failed to reach the user service.",
	},
	[]string{"route"},
)

// UpstreamDuration measures the round-trip time of forwarded requests.
// Label:
//   - route: the gateway route being served
var UpstreamDuration = promauto.NewHistogramVec(
	prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "gateway_upstream_duration_seconds",
		Help:      "Duration of forwarded requests from dispatch to upstream response.",
		Buckets:   prometheus.DefBuckets,
	},
	[]string{"route"},
)
