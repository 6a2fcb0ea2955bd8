// Package metrics defines and registers all custom Prometheus metrics for
// workboard. It is the single source of truth for metric names, labels, and
// help strings. Metrics register with the default registry on import.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "workboard"

// ── Session metrics ───────────────────────────────────────────────────────────

// TokenRefreshesTotal counts calls to the token renewal endpoint.
// Label:
//   - result: "ok", "failed" or "unavailable" (breaker open, not attempted)
var TokenRefreshesTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "token_refreshes_total",
		Help:      "Total number of access token renewal calls, by result.",
	},
	[]string{"result"},
)

// TokenRefreshWaitersTotal counts requests that reused an in-flight or
// already-completed renewal instead of starting their own.
var TokenRefreshWaitersTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "token_refresh_waiters_total",
		Help:      "Total number of 401s that reused another request's renewal.",
	},
)

// SessionsTerminatedTotal counts forced logouts.
// Label:
//   - reason: "refresh_failed" or "retry_unauthorized"
var SessionsTerminatedTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "sessions_terminated_total",
		Help:      "Total number of sessions ended by the client after an authentication failure.",
	},
	[]string{"reason"},
)

// ── Backend metrics ───────────────────────────────────────────────────────────

// BackendRequestsTotal counts requests sent to the backend.
// Labels:
//   - method: HTTP method
//   - class: "2xx", "4xx", "5xx" or "transport_error"
var BackendRequestsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "backend_requests_total",
		Help:      "Total number of requests sent to the marketplace backend.",
	},
	[]string{"method", "class"},
)

// BackendRequestDuration measures backend round trips.
var BackendRequestDuration = promauto.NewHistogramVec(
	prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "backend_request_duration_seconds",
		Help:      "Duration of requests to the marketplace backend.",
		Buckets:   prometheus.DefBuckets, // .005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10
	},
	[]string{"method"},
)

// ── Lifecycle metrics ─────────────────────────────────────────────────────────

// TransitionsTotal counts journaled lifecycle actions.
// Labels:
//   - action: "suspend", "resume", "rate"
//   - result: "ok" or "rejected"
var TransitionsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "project_transitions_total",
		Help:      "Total number of project lifecycle actions sent to the backend.",
	},
	[]string{"action", "result"},
)

// JournalQueueDepth tracks pending journal entries per worker.
// Label:
//   - worker_id: numeric worker index (e.g. "0", "1", …)
var JournalQueueDepth = promauto.NewGaugeVec(
	prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "journal_queue_depth",
		Help:      "Current number of journal entries pending in each dispatcher worker channel.",
	},
	[]string{"worker_id"},
)

// JournalErrorsTotal counts journal entries that failed to persist.
var JournalErrorsTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "journal_errors_total",
		Help:      "Total number of transition journal writes that failed.",
	},
)
