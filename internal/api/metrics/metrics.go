// Package metrics defines and registers the custom Prometheus metrics of the
// platform API. Metrics are registered with the default registry on package
// initialisation via promauto.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "platform"

// ── Authentication ───────────────────────────────────────────────────────────

// AuthenticationsTotal counts outcomes of the authentication pipeline.
// Label:
//   - outcome: "ok", "missing_credential", "invalid_credential",
//     "inactive_user", "misconfigured", "cancelled", "error"
var AuthenticationsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "authentications_total",
		Help:      "Total number of authentication attempts on protected routes, by outcome.",
	},
	[]string{"outcome"},
)

// AuthenticationDuration measures verify + load time per request.
var AuthenticationDuration = promauto.NewHistogram(
	prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "authentication_duration_seconds",
		Help:      "Duration of token verification and identity loading.",
		Buckets:   prometheus.DefBuckets,
	},
)

// ── Authorization ────────────────────────────────────────────────────────────

// AuthorizationsTotal counts role gate decisions.
// Label:
//   - decision: "allow", "deny", "unauthenticated", "error"
var AuthorizationsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "authorizations_total",
		Help:      "Total number of role gate decisions.",
	},
	[]string{"decision"},
)

// ── Login ────────────────────────────────────────────────────────────────────

// LoginsTotal counts login attempts.
// Label:
//   - result: "success", "invalid_credentials", "error"
var LoginsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "logins_total",
		Help:      "Total number of login attempts, by result.",
	},
	[]string{"result"},
)

// RateLimitedTotal counts requests rejected by the rate limiter.
var RateLimitedTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "rate_limited_total",
		Help:      "Total number of requests rejected by the rate limiter.",
	},
	[]string{"scope"},
)
