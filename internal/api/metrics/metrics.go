// Package metrics defines and registers all custom Prometheus metrics for the
// patient system. It is the single source of truth for metric names, labels,
// and help strings.
//
// Metrics are registered with the default registry at package init via
// promauto; the /metrics endpoint is mounted by the router.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "patient"

// ── Write pipeline metrics ────────────────────────────────────────────────────

// PatientsCreatedTotal counts patients created end-to-end (storage write and
// billing account both succeeded).
var PatientsCreatedTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "created_total",
		Help:      "Total number of patients created.",
	},
)

var PatientsUpdatedTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "updated_total",
		Help:      "Total number of patients updated.",
	},
)

var PatientsDeletedTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "deleted_total",
		Help:      "Total number of patients deleted.",
	},
)

// EmailConflictsTotal counts writes rejected because the email was already
// taken. Label:
//   - operation: "create" or "update"
var EmailConflictsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "email_conflicts_total",
		Help:      "Total number of writes rejected due to a duplicate email.",
	},
	[]string{"operation"},
)

// BillingCallsTotal counts billing account creation calls. Label:
//   - outcome: "ok" or "error"
var BillingCallsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "billing_calls_total",
		Help:      "Total number of billing account creation calls, by outcome.",
	},
	[]string{"outcome"},
)

// ── Event publication metrics ─────────────────────────────────────────────────

// EventsPublishedTotal counts change events delivered to the broker. Label:
//   - event_type: "CREATED" or "UPDATED"
var EventsPublishedTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "events_published_total",
		Help:      "Total number of patient change events delivered to the broker.",
	},
	[]string{"event_type"},
)

// EventsPublishErrorsTotal counts publish attempts that failed. Label:
//   - reason: "broker_send", "queue_full"
var EventsPublishErrorsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "events_publish_errors_total",
		Help:      "Total number of patient change events that could not be delivered.",
	},
	[]string{"reason"},
)

// PublishQueueDepth tracks the number of events waiting in each publisher
// worker channel. Label:
//   - worker_id: numeric worker index (e.g. "0", "1", …)
var PublishQueueDepth = promauto.NewGaugeVec(
	prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "publish_queue_depth",
		Help:      "Current number of events pending in each publisher worker channel.",
	},
	[]string{"worker_id"},
)
