// Package metrics defines the Prometheus instrumentation shared by the
// services and the daemon. Metrics register themselves via promauto and are
// exposed by the daemon's metrics listener.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// CommitsTotal counts version-ledger commit attempts by outcome
	// ("accepted" or "conflict").
	CommitsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "tablero_commits_total",
			Help: "Total number of card commit attempts by outcome",
		},
		[]string{"outcome"},
	)

	// ConflictsResolvedTotal counts resolved conflict cases by resolution choice.
	ConflictsResolvedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "tablero_conflicts_resolved_total",
			Help: "Total number of conflict cases resolved, by resolution",
		},
		[]string{"resolution"},
	)

	// ConflictsExpiredTotal counts conflict cases abandoned past their TTL.
	ConflictsExpiredTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "tablero_conflicts_expired_total",
			Help: "Total number of conflict cases dropped after expiry",
		},
	)

	// CycleRejectionsTotal counts edges rejected by the cycle guard.
	CycleRejectionsTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "tablero_cycle_rejections_total",
			Help: "Total number of proposed edges rejected for closing a cycle",
		},
	)

	// EventsBroadcastTotal counts events fanned out by the daemon.
	EventsBroadcastTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "tablero_events_broadcast_total",
			Help: "Total number of events broadcast to subscribers",
		},
	)

	// EventsReceivedTotal counts events received by the daemon from publishers.
	EventsReceivedTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "tablero_events_received_total",
			Help: "Total number of events received from publishing clients",
		},
	)

	// ConnectedClients tracks the daemon's current subscriber count.
	ConnectedClients = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "tablero_connected_clients",
			Help: "Number of clients currently connected to the daemon",
		},
	)
)
