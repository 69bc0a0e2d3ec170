// Package params holds the user-facing knobs of a parallel computation and the
// resolver that turns them into a concrete thread budget and chunk policy.
package params

import "fmt"

// NumThreads is an upper bound on the number of worker goroutines of one
// computation. The zero value is [Auto].
type NumThreads int

// Auto lets the engine pick the thread count: the pool's maximum, capped by
// the PARX_MAX_NUM_THREADS environment variable and by the input length.
const Auto NumThreads = 0

// Sequential forces the computation onto the calling goroutine.
const Sequential NumThreads = 1

// MaxThreads returns a bound of n threads. Zero is normalized to [Auto].
// It panics if n is negative.
func MaxThreads(n int) NumThreads {
	if n < 0 {
		panic("parx: number of threads must be non-negative")
	}
	return NumThreads(n)
}

// IsAuto reports whether the thread count is left to the engine.
func (n NumThreads) IsAuto() bool { return n <= 0 }

func (n NumThreads) String() string {
	if n.IsAuto() {
		return "auto"
	}
	return fmt.Sprintf("%d", int(n))
}

type chunkKind uint8

const (
	chunkAuto chunkKind = iota
	chunkExact
	chunkMin
)

// ChunkSize controls how many elements a worker pulls from the input at once.
// The zero value is [AutoChunk].
type ChunkSize struct {
	kind chunkKind
	n    int
}

// AutoChunk lets the resolver search for a chunk size from the input length and
// thread budget.
var AutoChunk = ChunkSize{}

// Exact pins every pull to exactly n elements (fewer at the end of the input).
// Zero is normalized to [AutoChunk]. It panics if n is negative.
func Exact(n int) ChunkSize {
	if n < 0 {
		panic("parx: chunk size must be non-negative")
	}
	if n == 0 {
		return AutoChunk
	}
	return ChunkSize{kind: chunkExact, n: n}
}

// Min sets a floor of n elements per pull; the runner may grow chunks beyond
// it as workers report progress. Zero is normalized to [AutoChunk].
// It panics if n is negative.
func Min(n int) ChunkSize {
	if n < 0 {
		panic("parx: chunk size must be non-negative")
	}
	if n == 0 {
		return AutoChunk
	}
	return ChunkSize{kind: chunkMin, n: n}
}

// IsAuto reports whether the chunk size is left to the resolver.
func (c ChunkSize) IsAuto() bool { return c.kind == chunkAuto }

func (c ChunkSize) String() string {
	switch c.kind {
	case chunkExact:
		return fmt.Sprintf("exact:%d", c.n)
	case chunkMin:
		return fmt.Sprintf("min:%d", c.n)
	default:
		return "auto"
	}
}

// IterationOrder selects how results of different workers are reconciled.
type IterationOrder uint8

const (
	// Ordered keeps outputs in input order. Early stops truncate the output at
	// the lowest stopping input index across all workers, so stops are
	// arbitrated by position, not by kind: a take-while stop located before
	// a failing element hides that element's error, exactly as a sequential
	// loop would never reach it. An error located first is always returned.
	Ordered IterationOrder = iota

	// Arbitrary gives no ordering guarantee. Outputs are pushed into a shared
	// bag as they are produced; after a take-while stop the bag is returned as
	// it is, so it may contain elements located after the stopping element.
	Arbitrary
)

func (o IterationOrder) String() string {
	if o == Arbitrary {
		return "arbitrary"
	}
	return "ordered"
}

// Params is the per-computation configuration. It is immutable once a
// computation starts; the runner works on a copy.
type Params struct {
	NumThreads NumThreads
	ChunkSize  ChunkSize
	Order      IterationOrder
}

// Default returns the all-auto, ordered configuration.
func Default() Params {
	return Params{}
}

// IsSequential reports whether the computation is pinned to one thread.
func (p Params) IsSequential() bool {
	return p.NumThreads == Sequential
}

func (p Params) String() string {
	return fmt.Sprintf("threads=%s chunk=%s order=%s", p.NumThreads, p.ChunkSize, p.Order)
}
