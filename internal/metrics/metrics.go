// Package metrics defines and registers all custom Prometheus metrics of the
// identity service. It is the single source of truth for metric names,
// labels, and help strings.
//
// Metrics are registered with the default Prometheus registry on package
// init through promauto.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "identity"

// ── Authentication ────────────────────────────────────────────────────────────

// AuthAttemptsTotal counts credential checks.
// Label:
//   - result: "success", "rejected" or "error"
var AuthAttemptsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "auth_attempts_total",
		Help:      "Total number of credential checks, by result.",
	},
	[]string{"result"},
)

// TokenVerificationsTotal counts bearer tokens seen by the request filter.
// Label:
//   - result: "valid", "invalid" or "malformed_header"
var TokenVerificationsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "token_verifications_total",
		Help:      "Total number of bearer token verifications, by result.",
	},
	[]string{"result"},
)

// AccessDecisionsTotal counts route policy decisions.
// Label:
//   - decision: "allowed", "unauthenticated" or "forbidden"
var AccessDecisionsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "access_decisions_total",
		Help:      "Total number of access policy decisions, by outcome.",
	},
	[]string{"decision"},
)

// ── Password reset ────────────────────────────────────────────────────────────

// PasswordResetRequestsTotal counts reset requests.
// Label:
//   - result: "issued", "not_found", "delivery_failed" or "error"
var PasswordResetRequestsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "password_reset_requests_total",
		Help:      "Total number of password reset requests, by result.",
	},
	[]string{"result"},
)

// MailDispatchTotal counts outgoing emails.
// Label:
//   - result: "sent" or "failed"
var MailDispatchTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "mail_dispatch_total",
		Help:      "Total number of outgoing emails, by result.",
	},
	[]string{"result"},
)

// MailDispatchDuration measures a full SMTP session.
var MailDispatchDuration = promauto.NewHistogramVec(
	prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "mail_dispatch_duration_seconds",
		Help:      "Duration of SMTP delivery from dial to quit.",
		Buckets:   prometheus.DefBuckets,
	},
	[]string{"result"},
)

// PermissionCacheLookupsTotal counts reads of the role permission cache.
// Label:
//   - result: "hit", "miss" or "error"
var PermissionCacheLookupsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "permission_cache_lookups_total",
		Help:      "Total number of role permission cache lookups, by result.",
	},
	[]string{"result"},
)

// ── Roles ─────────────────────────────────────────────────────────────────────

// RoleMutationsRejectedTotal counts update/delete attempts on protected roles.
var RoleMutationsRejectedTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "role_mutations_rejected_total",
		Help:      "Total number of update or delete attempts on protected roles.",
	},
)
