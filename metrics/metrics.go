// Package metrics exports the activity of parallel computations as
// Prometheus metrics.
//
// A [Collector] is a [runner.Observer]; register it on an orchestrator with
// [runner.WithObserver]:
//
//	reg := prometheus.NewRegistry()
//	m := metrics.New(reg, "myapp")
//	o := runner.New(runner.WithObserver(m))
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/baxromumarov/parx/runner"
)

const subsystem = "parx"

// Collector records per-computation metrics.
type Collector struct {
	// Computations counts finished computations.
	// Labels: kind (collect, reduce, early-return), outcome (continue,
	// stopped-by-while, stopped-by-error).
	Computations *prometheus.CounterVec

	// InFlight is the number of computations currently running.
	InFlight prometheus.Gauge

	// ThreadsSpawned counts workers spawned. Labels: kind.
	ThreadsSpawned *prometheus.CounterVec

	// ChunksPulled and ElementsPulled count input consumption. Labels: kind.
	ChunksPulled   *prometheus.CounterVec
	ElementsPulled *prometheus.CounterVec

	// Duration is the wall-clock duration of computations. Labels: kind.
	Duration *prometheus.HistogramVec
}

var _ runner.Observer = (*Collector)(nil)

// New creates a collector and registers its metrics with reg. A nil reg
// registers with prometheus.DefaultRegisterer.
func New(reg prometheus.Registerer, namespace string) *Collector {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	f := promauto.With(reg)

	return &Collector{
		Computations: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "computations_total",
			Help:      "Finished parallel computations by kind and outcome",
		}, []string{"kind", "outcome"}),
		InFlight: f.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "computations_in_flight",
			Help:      "Parallel computations currently running",
		}),
		ThreadsSpawned: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "threads_spawned_total",
			Help:      "Worker threads spawned by kind",
		}, []string{"kind"}),
		ChunksPulled: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "chunks_pulled_total",
			Help:      "Input chunks pulled by kind",
		}, []string{"kind"}),
		ElementsPulled: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "elements_pulled_total",
			Help:      "Input elements pulled by kind",
		}, []string{"kind"}),
		Duration: f.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "computation_duration_seconds",
			Help:      "Wall-clock duration of parallel computations",
			Buckets:   prometheus.ExponentialBuckets(0.0001, 4, 10),
		}, []string{"kind"}),
	}
}

// OnStart implements runner.Observer.
func (c *Collector) OnStart(runner.Info) {
	c.InFlight.Inc()
}

// OnDone implements runner.Observer.
func (c *Collector) OnDone(info runner.Info, s runner.Summary, elapsed time.Duration) {
	kind := info.Kind.String()

	c.InFlight.Dec()
	c.Computations.WithLabelValues(kind, s.Outcome.String()).Inc()
	c.ThreadsSpawned.WithLabelValues(kind).Add(float64(s.Spawned))
	c.ChunksPulled.WithLabelValues(kind).Add(float64(s.Chunks))
	c.ElementsPulled.WithLabelValues(kind).Add(float64(s.Elements))
	c.Duration.WithLabelValues(kind).Observe(elapsed.Seconds())
}
