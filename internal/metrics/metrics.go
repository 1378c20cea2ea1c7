package metrics

import "github.com/prometheus/client_golang/prometheus"

const (
	ResultAccepted = "accepted"
	ResultRejected = "rejected"
)

var (
	Connections = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "chess_connections",
			Help: "Connections currently registered for broadcast",
		},
	)
	Moves = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "chess_moves_total",
			Help: "Move requests by outcome",
		},
		[]string{"result"},
	)
	Resyncs = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "chess_resyncs_total",
			Help: "Board state overwrites requested by clients, by outcome",
		},
		[]string{"result"},
	)
	DroppedPeers = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "chess_dropped_peers_total",
			Help: "Connections dropped because their send buffer was full",
		},
	)
	JournalDropped = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "chess_journal_dropped_total",
			Help: "History entries discarded because the journal queue was full",
		},
	)
)

func init() {
	prometheus.MustRegister(Connections)
	prometheus.MustRegister(Moves)
	prometheus.MustRegister(Resyncs)
	prometheus.MustRegister(DroppedPeers)
	prometheus.MustRegister(JournalDropped)
}
