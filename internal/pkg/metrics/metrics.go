// Package metrics defines and registers all custom Prometheus metrics for the
// campus events API. It is the single source of truth for metric names,
// labels, and help strings.
//
// Metrics are registered with the default Prometheus registry via promauto at
// package load; the /metrics endpoint is mounted by the router.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "campus"

// SignupsTotal counts signup attempts.
// Label:
//   - result: "ok", "domain_rejected", "duplicate", "error"
var SignupsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "signups_total",
		Help:      "Total number of signup attempts, by result.",
	},
	[]string{"result"},
)

// LoginsTotal counts login attempts.
// Label:
//   - result: "ok" or "rejected"
var LoginsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "logins_total",
		Help:      "Total number of login attempts, by result.",
	},
	[]string{"result"},
)

// AdminRequestsTotal counts admin-request workflow operations.
// Labels:
//   - action: "submit", "approve", "reject"
//   - result: "ok" or "rejected"
var AdminRequestsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "admin_requests_total",
		Help:      "Total number of admin-request workflow operations, by action and result.",
	},
	[]string{"action", "result"},
)

// EventsCreatedTotal counts newly posted club events.
var EventsCreatedTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "events_created_total",
		Help:      "Total number of club events created.",
	},
)

// EventRegistrationsTotal counts successful event registrations.
var EventRegistrationsTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "event_registrations_total",
		Help:      "Total number of successful event registrations.",
	},
)

// NotificationsFanoutTotal counts notification fan-out outcomes.
// Label:
//   - result: "delivered" (per follower batch) or "failed"
var NotificationsFanoutTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "notifications_fanout_total",
		Help:      "Total number of notification fan-out jobs, by result.",
	},
	[]string{"result"},
)
