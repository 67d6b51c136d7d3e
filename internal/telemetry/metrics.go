package telemetry

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/phaselock/phaselock/internal/engine"
)

const namespace = "phaselock"

// Metrics holds the Prometheus collectors for the synchronization engine.
// All collectors live in a private registry so tests and embedders never
// collide with the global default.
type Metrics struct {
	registry *prometheus.Registry

	coherence       prometheus.Gauge
	coherenceAvg    prometheus.Gauge
	angularMomentum prometheus.Gauge
	torque          prometheus.Gauge
	wobbleMagnitude prometheus.Gauge
	wobbleDetected  prometheus.Gauge
	onlineNodes     prometheus.Gauge
	systemHealth    *prometheus.GaugeVec

	nodePhase     *prometheus.GaugeVec
	nodeAmplitude *prometheus.GaugeVec

	updates     prometheus.Counter
	updateFails prometheus.Counter
	corrections prometheus.Counter
	staleMarked prometheus.Counter
}

// New creates a metrics collector backed by its own registry.
func New() *Metrics {
	registry := prometheus.NewRegistry()

	m := &Metrics{
		registry: registry,

		coherence: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "coherence",
			Help:      "Current system coherence in [0, 1].",
		}),
		coherenceAvg: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "coherence_avg",
			Help:      "Rolling average of recent coherence values.",
		}),
		angularMomentum: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "angular_momentum",
			Help:      "Aggregate healthy amplitude in [0, 1].",
		}),
		torque: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "torque_redistribution",
			Help:      "Amplitude borrowed from degraded nodes in the last redistribution pass.",
		}),
		wobbleMagnitude: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "wobble_magnitude_degrees",
			Help:      "RMS phase deviation from the mean direction.",
		}),
		wobbleDetected: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "wobble_detected",
			Help:      "1 when the aggregate drift exceeds the system threshold.",
		}),
		onlineNodes: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "online_nodes",
			Help:      "Number of nodes currently online.",
		}),
		systemHealth: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "system_health",
			Help:      "1 for the current aggregate health level, 0 otherwise.",
		}, []string{"level"}),

		nodePhase: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "node_phase_degrees",
			Help:      "Per-node phase in [0, 360).",
		}, []string{"node"}),
		nodeAmplitude: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "node_amplitude",
			Help:      "Per-node load share in [0, 1].",
		}, []string{"node"}),

		updates: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "node_updates_total",
			Help:      "Total node state updates applied.",
		}),
		updateFails: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "node_update_failures_total",
			Help:      "Total rejected node state updates.",
		}),
		corrections: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "self_corrections_total",
			Help:      "Total self-correction passes that applied nudges.",
		}),
		staleMarked: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "stale_nodes_total",
			Help:      "Total nodes marked offline by the staleness sweep.",
		}),
	}

	registry.MustRegister(
		m.coherence, m.coherenceAvg, m.angularMomentum, m.torque,
		m.wobbleMagnitude, m.wobbleDetected, m.onlineNodes, m.systemHealth,
		m.nodePhase, m.nodeAmplitude,
		m.updates, m.updateFails, m.corrections, m.staleMarked,
	)
	return m
}

// ObserveReport refreshes every gauge from a fresh engine report.
func (m *Metrics) ObserveReport(rep engine.Report) {
	m.coherence.Set(rep.CoherenceScore)
	m.coherenceAvg.Set(rep.CoherenceAvg)
	m.angularMomentum.Set(rep.Anchor.AngularMomentum)
	m.torque.Set(rep.Anchor.TorqueRedistribution)
	m.wobbleMagnitude.Set(rep.Wobble.Magnitude)
	m.wobbleDetected.Set(boolGauge(rep.Wobble.Detected))
	m.onlineNodes.Set(float64(rep.OnlineCount))

	for _, level := range []string{engine.SystemOptimal, engine.SystemDegraded, engine.SystemCritical} {
		m.systemHealth.WithLabelValues(level).Set(boolGauge(level == rep.SystemHealth))
	}
	for _, n := range rep.Nodes {
		m.nodePhase.WithLabelValues(n.Name).Set(n.Phase)
		m.nodeAmplitude.WithLabelValues(n.Name).Set(n.Amplitude)
	}
}

// RecordUpdate counts one applied node update.
func (m *Metrics) RecordUpdate() { m.updates.Inc() }

// RecordUpdateFailure counts one rejected node update.
func (m *Metrics) RecordUpdateFailure() { m.updateFails.Inc() }

// RecordCorrection counts one self-correction pass that applied nudges.
func (m *Metrics) RecordCorrection() { m.corrections.Inc() }

// RecordStale counts nodes marked offline by the staleness sweep.
func (m *Metrics) RecordStale(n int) { m.staleMarked.Add(float64(n)) }

// Handler returns the Prometheus exposition handler for the private
// registry.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

func boolGauge(b bool) float64 {
	if b {
		return 1
	}
	return 0
}
