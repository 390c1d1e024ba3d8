// Package metrics defines and registers the custom Prometheus metrics for the
// content API. It is the single source of truth for metric names, labels, and
// help strings.
//
// Metrics are registered with the default Prometheus registry on package load.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "content_api"

// ── Authentication metrics ────────────────────────────────────────────────────

// TokensIssuedTotal counts bearer tokens signed on successful login.
// Label:
//   - role: the role encoded in the token (e.g. "USER", "ADMIN")
var TokensIssuedTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "tokens_issued_total",
		Help:      "Total number of bearer tokens issued, by role.",
	},
	[]string{"role"},
)

// TokenRejectionsTotal counts requests rejected by the authentication middleware
// because the presented token failed verification.
var TokenRejectionsTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "token_rejections_total",
		Help:      "Total number of requests rejected for an invalid bearer token.",
	},
)

// LoginAttemptsTotal counts login attempts.
// Label:
//   - result: "success", "invalid_credentials", "throttled", or "error"
var LoginAttemptsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "login_attempts_total",
		Help:      "Total number of login attempts, by result.",
	},
	[]string{"result"},
)

// ── Authorization metrics ─────────────────────────────────────────────────────

// AuthzDecisionsTotal counts route-level capability decisions.
// Labels:
//   - capability: the tier the route requires (PUBLIC, AUTHENTICATED, ADMIN)
//   - reason: the decision reason (e.g. "ADMIN", "DENIED_FORBIDDEN")
var AuthzDecisionsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "authz_decisions_total",
		Help:      "Total number of authorization decisions, by required capability and reason.",
	},
	[]string{"capability", "reason"},
)

// ── Audit metrics ─────────────────────────────────────────────────────────────

// AuditEventsDroppedTotal counts audit events discarded because a dispatcher queue was full.
// Label:
//   - type: the audit event type (e.g. "login_failed")
var AuditEventsDroppedTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "audit_events_dropped_total",
		Help:      "Total number of audit events dropped on a full queue, by event type.",
	},
	[]string{"type"},
)
