// Package metrics defines and registers all custom Prometheus metrics for the
// delivery tracking API. It is the single source of truth for metric names,
// labels, and help strings.
//
// Metrics are registered with the default Prometheus registry on package
// initialisation through promauto.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "delivery"

// ── Tracking metrics ──────────────────────────────────────────────────────────

// TrackingRequestsTotal counts start/stop control requests.
// Labels:
//   - action: "start" or "stop"
//   - result: "started", "already_active", "stopped", "vehicle_not_found", "not_active", "lookup_failed"
var TrackingRequestsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "tracking_requests_total",
		Help:      "Total number of tracking control requests, by action and result.",
	},
	[]string{"action", "result"},
)

// TrackingActive is the number of plates currently being simulated.
var TrackingActive = promauto.NewGauge(
	prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "tracking_active",
		Help:      "Current number of active tracking loops.",
	},
)

// TrackingTicksTotal counts replay loop ticks.
// Label:
//   - outcome: "emitted", "skipped" (below the significance threshold) or "failed"
var TrackingTicksTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "tracking_ticks_total",
		Help:      "Total number of replay loop ticks, by outcome.",
	},
	[]string{"outcome"},
)

// ── Broadcast metrics ─────────────────────────────────────────────────────────

// BroadcastQueueDepth tracks the current number of positions waiting in each dispatcher shard.
// Label:
//   - worker_id: numeric worker index (e.g. "0", "1", …)
var BroadcastQueueDepth = promauto.NewGaugeVec(
	prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "broadcast_queue_depth",
		Help:      "Current number of positions pending in each dispatcher worker channel.",
	},
	[]string{"worker_id"},
)

// BroadcastDroppedTotal counts positions dropped before reaching subscribers.
// Label:
//   - stage: "queue_full", "publish_failed" or "slow_subscriber"
var BroadcastDroppedTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "broadcast_dropped_total",
		Help:      "Total number of positions dropped, by stage.",
	},
	[]string{"stage"},
)

// BroadcastPublishDuration measures how long a single publish takes.
var BroadcastPublishDuration = promauto.NewHistogram(
	prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "broadcast_publish_duration_seconds",
		Help:      "Duration of a single position publish to the broadcaster.",
		Buckets:   prometheus.DefBuckets,
	},
)

// WebsocketSubscribers is the number of connected live-position subscribers.
var WebsocketSubscribers = promauto.NewGauge(
	prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "websocket_subscribers",
		Help:      "Current number of connected websocket subscribers.",
	},
)

// ── Motorcycle metrics ────────────────────────────────────────────────────────

// MotorcyclesCreatedTotal counts newly registered motorcycles.
var MotorcyclesCreatedTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "motorcycles_created_total",
		Help:      "Total number of motorcycles registered.",
	},
)
