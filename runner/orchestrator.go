// Package runner drives parallel computations.
//
// An [Orchestrator] owns a thread pool. For every computation it builds a
// [Runner] that holds the resolved thread budget and the chunk size shared by
// all workers, then spawns workers through the pool until the input is
// exhausted or the budget is spent. Workers pull chunks from an input cursor,
// push the values produced by the transformation chain, and stop the cursor
// on the first take-while stop or error. Once every worker has joined, the
// per-worker results are reconciled into the final output.
package runner

import (
	"sync"

	"github.com/puzpuzpuz/xsync/v3"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"

	"github.com/baxromumarov/parx/params"
	"github.com/baxromumarov/parx/pool"
)

const instrumentationName = "github.com/baxromumarov/parx/runner"

// Orchestrator runs computations on a thread pool. It is safe for
// concurrent use; computations on a pool that does not allow concurrent
// scopes are serialized.
type Orchestrator struct {
	pool           pool.SharedPool
	logger         *zap.Logger
	tracer         trace.Tracer
	observers      []Observer
	lagPeriodicity int
	envCap         func() (int, bool)

	computations *xsync.Counter
	spawned      *xsync.Counter
	chunks       *xsync.Counter
	elements     *xsync.Counter
}

// Stats is a snapshot of the work done by an orchestrator over its lifetime.
type Stats struct {
	Computations int64
	Spawned      int64
	Chunks       int64
	Elements     int64
}

// New returns an orchestrator configured by opts.
func New(opts ...Option) *Orchestrator {
	cfg := defaultConfig()
	for _, opt := range opts {
		opt(&cfg)
	}
	if cfg.pool == nil {
		cfg.pool = pool.NewNative(0)
	}
	if cfg.tracer == nil {
		cfg.tracer = otel.GetTracerProvider()
	}

	return &Orchestrator{
		pool:           pool.Share(cfg.pool),
		logger:         cfg.logger,
		tracer:         cfg.tracer.Tracer(instrumentationName),
		observers:      cfg.observers,
		lagPeriodicity: cfg.lagPeriodicity,
		envCap:         cfg.envCap,
		computations:   xsync.NewCounter(),
		spawned:        xsync.NewCounter(),
		chunks:         xsync.NewCounter(),
		elements:       xsync.NewCounter(),
	}
}

var defaultOrchestrator = sync.OnceValue(func() *Orchestrator {
	return New()
})

// Default returns the process-wide orchestrator used when a computation
// does not name one. It runs on a [pool.Native].
func Default() *Orchestrator {
	return defaultOrchestrator()
}

// Pool returns the pool computations run on.
func (o *Orchestrator) Pool() pool.ThreadPool {
	return o.pool
}

// Stats returns a snapshot of the orchestrator's counters.
func (o *Orchestrator) Stats() Stats {
	return Stats{
		Computations: o.computations.Value(),
		Spawned:      o.spawned.Value(),
		Chunks:       o.chunks.Value(),
		Elements:     o.elements.Value(),
	}
}

// NewRunner resolves the thread budget and chunk policy of a computation
// and returns the runner that will drive it.
func (o *Orchestrator) NewRunner(kind params.ComputationKind, p params.Params, in params.Input) *Runner {
	envCap, hasEnvCap := o.envCap()
	resolved := params.Resolve(p, kind, in, o.pool.MaxThreads(), envCap, hasEnvCap)
	return newRunner(kind, p, in, resolved, o.lagPeriodicity)
}
