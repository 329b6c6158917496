// Package metrics exports the per-tick physics counters to Prometheus.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"physics-engine/internal/physics"
)

// Metrics holds the collectors of one world. Cardinality is fixed: no labels
// carry body handles.
type Metrics struct {
	tickDuration prometheus.Histogram
	ticks        prometheus.Counter

	satTests   prometheus.Counter
	collisions prometheus.Counter
	contacts   *prometheus.CounterVec
	reinserts  prometheus.Counter

	candidatePairs prometheus.Gauge
	bodies         prometheus.Gauge
	arbiters       prometheus.Gauge
	frameBytes     prometheus.Gauge
}

// New creates the collectors and registers them on reg.
func New(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		tickDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "physics_tick_duration_seconds",
			Help:    "Time spent in one world tick",
			Buckets: []float64{0.0001, 0.0005, 0.001, 0.0025, 0.005, 0.01, 0.025},
		}),
		ticks: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "physics_ticks_total",
			Help: "Ticks simulated",
		}),
		satTests: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "physics_sat_tests_total",
			Help: "Hull pairs run through the separating axis test",
		}),
		collisions: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "physics_collisions_total",
			Help: "Hull pairs found touching",
		}),
		contacts: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "physics_contacts_total",
			Help: "Contact points by warm start outcome",
		}, []string{"outcome"}), // Bounded: "reused", "new"
		reinserts: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "physics_bvh_reinserts_total",
			Help: "Leaves reinserted because they escaped their fat box",
		}),
		candidatePairs: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "physics_candidate_pairs",
			Help: "Broadphase pairs in the last tick",
		}),
		bodies: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "physics_bodies",
			Help: "Bodies in the world",
		}),
		arbiters: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "physics_active_arbiters",
			Help: "Pairs in contact after the last tick",
		}),
		frameBytes: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "physics_frame_scope_bytes",
			Help: "Bytes handed out by the frame scope in the last tick",
		}),
	}
	reg.MustRegister(
		m.tickDuration, m.ticks,
		m.satTests, m.collisions, m.contacts, m.reinserts,
		m.candidatePairs, m.bodies, m.arbiters, m.frameBytes,
	)
	return m
}

// Observe records the counters of one tick and how long it took.
func (m *Metrics) Observe(st physics.Stats, elapsed time.Duration) {
	m.tickDuration.Observe(elapsed.Seconds())
	m.ticks.Inc()
	m.satTests.Add(float64(st.SATTests))
	m.collisions.Add(float64(st.Collisions))
	m.contacts.WithLabelValues("reused").Add(float64(st.ReusedContacts))
	m.contacts.WithLabelValues("new").Add(float64(st.NewContacts))
	m.reinserts.Add(float64(st.Reinserts))
	m.candidatePairs.Set(float64(st.CandidatePairs))
	m.bodies.Set(float64(st.Bodies))
	m.arbiters.Set(float64(st.Arbiters))
	m.frameBytes.Set(float64(st.FrameBytes))
}

// Handler serves the registry in the Prometheus text format.
func Handler(g prometheus.Gatherer) http.Handler {
	return promhttp.HandlerFor(g, promhttp.HandlerOpts{})
}
