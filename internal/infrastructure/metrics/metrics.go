// Package metrics defines and registers all custom Prometheus metrics for the
// CRM. It is the single source of truth for metric names, labels, and help
// strings.
//
// Metrics register with the default Prometheus registry on import; the ops
// listener exposes them on /metrics.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "crm"

// ── Session metrics ───────────────────────────────────────────────────────────

// LoginsTotal counts login attempts.
// Label:
//   - result: "success", "failed" or "error"
var LoginsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "logins_total",
		Help:      "Total number of login attempts, by result.",
	},
	[]string{"result"},
)

// SessionResumesTotal counts attempts to restore a persisted session.
// Label:
//   - result: "resumed", "empty", "expired", "invalid", "unknown_user" or "error"
var SessionResumesTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "session_resumes_total",
		Help:      "Total number of session resume attempts, by result.",
	},
	[]string{"result"},
)

// PasswordRehashesTotal counts hashes upgraded on login.
var PasswordRehashesTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "password_rehashes_total",
		Help:      "Total number of stored password hashes upgraded after login.",
	},
)

// ── Authorization metrics ─────────────────────────────────────────────────────

// AuthzDecisionsTotal counts decisions of the authorization engine.
// Labels:
//   - action: the engine action (e.g. "update-event")
//   - effect: "allow" or "deny"
var AuthzDecisionsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "authz_decisions_total",
		Help:      "Total number of authorization decisions, by action and effect.",
	},
	[]string{"action", "effect"},
)

// ── Directory metrics ─────────────────────────────────────────────────────────

// MutationsTotal counts committed directory writes.
// Labels:
//   - resource: "client", "contract", "event" or "collaborator"
//   - op: "create", "update" or "delete"
var MutationsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "directory_mutations_total",
		Help:      "Total number of committed directory mutations, by resource and operation.",
	},
	[]string{"resource", "op"},
)

// MutationsCancelledTotal counts mutations refused at confirmation.
// Label:
//   - resource: "client", "contract", "event" or "collaborator"
var MutationsCancelledTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "directory_mutations_cancelled_total",
		Help:      "Total number of mutations cancelled by the operator before commit.",
	},
	[]string{"resource"},
)
