// Package metrics defines the prometheus instruments shared across the
// forum core. All collectors are registered via promauto at package init.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Vote metrics
var (
	// VotesTotal tracks vote toggles by entity type, direction, and outcome
	// (applied, retracted, switched).
	VotesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "forum_votes_total",
			Help: "Vote toggle operations by entity, direction, and outcome",
		},
		[]string{"entity", "direction", "outcome"},
	)

	// AnswersAcceptedTotal counts successful answer acceptances.
	AnswersAcceptedTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "forum_answers_accepted_total",
			Help: "Total answers accepted",
		},
	)

	// ReputationAdjustmentsTotal tracks reputation changes by trigger.
	ReputationAdjustmentsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "forum_reputation_adjustments_total",
			Help: "Reputation adjustments by triggering event",
		},
		[]string{"event"},
	)
)

// Notification metrics
var (
	// NotificationsCreatedTotal counts persisted notifications by kind.
	NotificationsCreatedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "notifications_created_total",
			Help: "Notifications persisted by kind",
		},
		[]string{"kind"},
	)

	// NotificationsSuppressedTotal counts fan-outs dropped because the actor
	// was also the recipient.
	NotificationsSuppressedTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "notifications_suppressed_total",
			Help: "Notifications suppressed by the self-action rule",
		},
	)

	// NotificationsEvictedTotal counts rows removed by the retention cap.
	NotificationsEvictedTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "notifications_evicted_total",
			Help: "Notifications evicted by the per-recipient retention cap",
		},
	)

	// NotificationDispatchFailures counts fan-out writes that failed and
	// were logged instead of surfaced.
	NotificationDispatchFailures = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "notification_dispatch_failures_total",
			Help: "Notification writes that failed during fan-out",
		},
	)
)

// Push metrics
var (
	// PushPublishesTotal tracks pub/sub publishes by channel class and status.
	PushPublishesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "push_publishes_total",
			Help: "Push publishes by channel class and status",
		},
		[]string{"channel", "status"},
	)

	// PushBreakerState tracks the publish circuit breaker state
	// (0=closed, 1=half-open, 2=open).
	PushBreakerState = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "push_breaker_state",
			Help: "Publish circuit breaker state (0=closed, 1=half-open, 2=open)",
		},
	)
)

// WebSocket hub metrics
var (
	// HubConnectedClients tracks currently connected websocket clients.
	HubConnectedClients = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "hub_connected_clients",
			Help: "Currently connected websocket clients",
		},
	)

	// HubSlowClientsEvicted counts clients dropped for not draining their
	// send buffer.
	HubSlowClientsEvicted = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "hub_slow_clients_evicted_total",
			Help: "Websocket clients evicted for slow consumption",
		},
	)

	// HubMessagesDelivered counts payloads written to client send buffers.
	HubMessagesDelivered = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "hub_messages_delivered_total",
			Help: "Payloads delivered to websocket clients by channel class",
		},
		[]string{"channel"},
	)
)
