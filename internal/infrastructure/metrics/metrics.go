// Package metrics exposes process-wide Prometheus collectors for the
// conversation engine and the realtime relay.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// OpenSockets tracks currently upgraded websocket connections.
	OpenSockets = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "marketchat_ws_open_connections",
		Help: "Number of websocket connections currently open.",
	})

	// RoomBroadcasts counts inbound frames relayed to a room.
	RoomBroadcasts = promauto.NewCounter(prometheus.CounterOpts{
		Name: "marketchat_ws_room_broadcasts_total",
		Help: "Total frames broadcast into rooms.",
	})

	// RoomDeliveries counts per-member deliveries of broadcast frames.
	RoomDeliveries = promauto.NewCounter(prometheus.CounterOpts{
		Name: "marketchat_ws_room_deliveries_total",
		Help: "Total per-member deliveries of broadcast frames.",
	})

	// ConversationsStarted counts newly created conversation rows by kind.
	ConversationsStarted = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "marketchat_conversations_started_total",
		Help: "Total conversations created.",
	}, []string{"kind"})

	// MessagesAppended counts persisted messages by kind.
	MessagesAppended = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "marketchat_messages_appended_total",
		Help: "Total messages appended to conversations.",
	}, []string{"kind"})
)
