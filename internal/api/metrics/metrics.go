// Package metrics defines and registers the custom Prometheus metrics for the
// notes API. It is the single source of truth for metric names, labels, and
// help strings. Metrics register themselves with the default registry via
// promauto at import time.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "notes"

// LoginsTotal counts login attempts.
// Label:
//   - result: "success", "failure", or "throttled"
var LoginsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "logins_total",
		Help:      "Total number of login attempts, by result.",
	},
	[]string{"result"},
)

// NotesCreatedTotal counts successfully created notes.
// Label:
//   - plan: the tenant plan at creation time ("free" or "pro")
var NotesCreatedTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "notes_created_total",
		Help:      "Total number of notes created, by tenant plan.",
	},
	[]string{"plan"},
)

// PlanLimitRejectionsTotal counts note creations blocked by the free-plan ceiling.
var PlanLimitRejectionsTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "plan_limit_rejections_total",
		Help:      "Total number of note creations rejected by the free plan limit.",
	},
)

// TenantsUpgradedTotal counts free-to-pro upgrades.
var TenantsUpgradedTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "tenants_upgraded_total",
		Help:      "Total number of tenants upgraded from free to pro.",
	},
)

// UsersInvitedTotal counts users created through the admin invite flow.
var UsersInvitedTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "users_invited_total",
		Help:      "Total number of users created via tenant invites.",
	},
)
