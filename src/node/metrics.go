package node

import (
	"github.com/fastnode/sporknet/src/spork"
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics exposes the activity of a node to Prometheus.
type Metrics struct {
	registry *prometheus.Registry

	sporks      *prometheus.CounterVec
	relays      prometheus.Counter
	relayErrors prometheus.Counter
	syncErrors  prometheus.Counter
	bans        prometheus.Counter
	dropped     prometheus.Counter
}

// NewMetrics creates the node metrics in a dedicated registry. The number of
// active sporks is read from the manager on every scrape.
func NewMetrics(manager *spork.Manager) *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		sporks: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "sporknet_sporks_processed_total",
			Help: "Spork records processed, grouped by outcome",
		}, []string{"outcome"}),
		relays: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "sporknet_relays_total",
			Help: "Spork records pushed to peers",
		}),
		relayErrors: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "sporknet_relay_errors_total",
			Help: "Failed spork pushes",
		}),
		syncErrors: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "sporknet_sync_errors_total",
			Help: "Failed getsporks requests",
		}),
		bans: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "sporknet_peer_bans_total",
			Help: "Peers banned for misbehaviour",
		}),
		dropped: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "sporknet_rpc_dropped_total",
			Help: "Incoming RPCs refused because the node was busy",
		}),
	}

	m.registry.MustRegister(
		m.sporks,
		m.relays,
		m.relayErrors,
		m.syncErrors,
		m.bans,
		m.dropped,
		prometheus.NewGaugeFunc(prometheus.GaugeOpts{
			Name: "sporknet_active_sporks",
			Help: "Sporks with an accepted record",
		}, func() float64 { return float64(len(manager.Active())) }),
		prometheus.NewGaugeFunc(prometheus.GaugeOpts{
			Name: "sporknet_history_size",
			Help: "Spork records ever accepted",
		}, func() float64 { return float64(manager.HistoryLen()) }),
	)

	return m
}

// Registry returns the registry holding the node metrics.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

func (m *Metrics) observe(outcome spork.Outcome) {
	m.sporks.WithLabelValues(outcome.String()).Inc()
}
