package runner

import (
	"time"

	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"

	"github.com/baxromumarov/parx/params"
	"github.com/baxromumarov/parx/pool"
)

// DefaultLagPeriodicity is the number of spawns between two chunk size
// updates.
const DefaultLagPeriodicity = 4

type config struct {
	pool           pool.ThreadPool
	logger         *zap.Logger
	tracer         trace.TracerProvider
	observers      []Observer
	lagPeriodicity int
	envCap         func() (int, bool)
}

// Option configures an [Orchestrator].
type Option func(*config)

func defaultConfig() config {
	return config{
		logger:         zap.NewNop(),
		lagPeriodicity: DefaultLagPeriodicity,
		envCap:         params.EnvCap,
	}
}

// WithPool sets the thread pool computations run on. The default is a
// [pool.Native] sized to the host's available parallelism.
// It panics if p is nil.
func WithPool(p pool.ThreadPool) Option {
	return func(c *config) {
		if p == nil {
			panic("parx: WithPool requires a non-nil pool")
		}
		c.pool = p
	}
}

// WithLogger sets the logger receiving per-computation debug records.
// A nil logger disables logging.
func WithLogger(l *zap.Logger) Option {
	return func(c *config) {
		if l == nil {
			l = zap.NewNop()
		}
		c.logger = l
	}
}

// WithTracerProvider sets the provider of the tracer that records one span
// per computation. The default is the global provider.
func WithTracerProvider(tp trace.TracerProvider) Option {
	return func(c *config) {
		c.tracer = tp
	}
}

// WithObserver registers an observer. Observers are called in registration
// order.
func WithObserver(obs Observer) Option {
	return func(c *config) {
		if obs != nil {
			c.observers = append(c.observers, obs)
		}
	}
}

// WithOnStart registers a hook invoked on the calling goroutine before a
// computation spawns any worker.
func WithOnStart(fn func(Info)) Option {
	return WithObserver(hooks{onStart: fn})
}

// WithOnDone registers a hook invoked on the calling goroutine after every
// worker of a computation has joined. The hook receives the summary and the
// wall-clock duration.
func WithOnDone(fn func(Info, Summary, time.Duration)) Option {
	return WithObserver(hooks{onDone: fn})
}

// WithLagPeriodicity sets how many workers are spawned between two chunk
// size updates. It panics if k < 1.
func WithLagPeriodicity(k int) Option {
	if k < 1 {
		panic("parx: lag periodicity must be positive")
	}
	return func(c *config) {
		c.lagPeriodicity = k
	}
}

// WithEnvCap replaces the process-wide thread cap otherwise read from
// [params.EnvMaxNumThreads]. Zero removes the cap. It panics if n is
// negative.
func WithEnvCap(n int) Option {
	if n < 0 {
		panic("parx: env cap must be non-negative")
	}
	return func(c *config) {
		c.envCap = func() (int, bool) { return n, n > 0 }
	}
}
