package parx

import (
	"github.com/baxromumarov/parx/params"
	"github.com/baxromumarov/parx/runner"
)

// Policy determines how [MapSlice] and [ForEachSlice] handle errors
// returned by the per-item function.
type Policy int

const (
	// FailFast stops the computation at the first error and returns it
	// unchanged. No further items are started.
	FailFast Policy = iota

	// CollectErrors runs every item and returns all errors, in item order,
	// joined into one error. Partial results are discarded.
	CollectErrors
)

type config struct {
	params params.Params
	orch   *runner.Orchestrator
	policy Policy
}

// Option configures [MapSlice] and [ForEachSlice].
type Option func(*config)

func buildConfig(opts []Option) config {
	cfg := config{params: params.Default()}
	for _, o := range opts {
		o(&cfg)
	}
	return cfg
}

// WithNumThreads caps the number of worker threads. It panics if n is
// negative; zero lets the engine decide.
func WithNumThreads(n int) Option {
	threads := params.MaxThreads(n)
	return func(c *config) {
		c.params.NumThreads = threads
	}
}

// WithChunkSize sets how many items a worker pulls at once.
func WithChunkSize(cs params.ChunkSize) Option {
	return func(c *config) {
		c.params.ChunkSize = cs
	}
}

// WithOrder sets the iteration order. It panics if o is not a known order.
func WithOrder(o params.IterationOrder) Option {
	return func(c *config) {
		switch o {
		case params.Ordered, params.Arbitrary:
			c.params.Order = o
		default:
			panic("parx: invalid iteration order")
		}
	}
}

// WithOrchestrator runs on o instead of [runner.Default].
func WithOrchestrator(o *runner.Orchestrator) Option {
	return func(c *config) {
		if o == nil {
			panic("parx: orchestrator must not be nil")
		}
		c.orch = o
	}
}

// WithPolicy sets the error handling policy.
// It panics if p is not a known Policy value.
func WithPolicy(p Policy) Option {
	return func(c *config) {
		switch p {
		case FailFast, CollectErrors:
			c.policy = p
		default:
			panic("parx: invalid policy")
		}
	}
}
