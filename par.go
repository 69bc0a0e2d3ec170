package parx

import (
	"context"
	"iter"

	"github.com/baxromumarov/parx/cursor"
	"github.com/baxromumarov/parx/params"
	"github.com/baxromumarov/parx/runner"
	"github.com/baxromumarov/parx/values"
)

// Par is a parallel computation over inputs of type I producing outputs of
// type O. It is built from a source, extended with transformations, and run
// by exactly one terminal operation.
//
// Configuration methods return a modified copy; when a setting is given
// more than once, the last call wins. A Par must not be run twice: its
// source is consumed by the first terminal operation.
type Par[I, O any] struct {
	src       cursor.Cursor[I]
	chain     func(I) values.Value[O]
	params    params.Params
	orch      *runner.Orchestrator
	ctx       context.Context
	atMostOne bool
}

func identity[T any](x T) values.Value[T] {
	return values.Atom[T]{V: x}
}

// FromCursor starts a computation over the elements of c.
func FromCursor[T any](c cursor.Cursor[T]) Par[T, T] {
	return Par[T, T]{src: c, chain: identity[T], atMostOne: true}
}

// FromSlice starts a computation over the elements of items. The slice must
// not be modified until the computation has finished.
func FromSlice[T any](items []T) Par[T, T] {
	return FromCursor[T](cursor.NewSlice(items))
}

// FromRange starts a computation over the integers in [lo, hi).
func FromRange(lo, hi int) Par[int, int] {
	return FromCursor[int](cursor.NewRange(lo, hi))
}

// FromSeq starts a computation over the elements of seq. The length is not
// known up front, so the chunk size starts small.
func FromSeq[T any](seq iter.Seq[T]) Par[T, T] {
	return FromCursor[T](cursor.NewSeq(seq))
}

// FromChan starts a computation over the values received from ch until it
// is closed.
func FromChan[T any](ch <-chan T) Par[T, T] {
	return FromCursor[T](cursor.NewChan(ch))
}

// FromFunc starts a computation over the values returned by fn until it
// reports false. fn is never called concurrently.
func FromFunc[T any](fn func() (T, bool)) Par[T, T] {
	return FromCursor[T](cursor.NewFunc(fn))
}

// NumThreads caps the number of worker threads. [params.Auto] (zero) lets
// the engine decide, [params.Sequential] (one) runs on the calling
// goroutine. It panics if n is negative.
func (p Par[I, O]) NumThreads(n params.NumThreads) Par[I, O] {
	p.params.NumThreads = params.MaxThreads(int(n))
	return p
}

// ChunkSize sets how many elements a worker pulls at once.
func (p Par[I, O]) ChunkSize(c params.ChunkSize) Par[I, O] {
	p.params.ChunkSize = c
	return p
}

// IterationOrder selects how outputs of different workers are reconciled.
// See [params.Ordered] and [params.Arbitrary].
func (p Par[I, O]) IterationOrder(o params.IterationOrder) Par[I, O] {
	p.params.Order = o
	return p
}

// WithParams replaces every parameter at once.
func (p Par[I, O]) WithParams(ps params.Params) Par[I, O] {
	p.params = ps
	return p
}

// Params returns the current parameters.
func (p Par[I, O]) Params() params.Params {
	return p.params
}

// WithOrchestrator runs the computation on o instead of [runner.Default].
func (p Par[I, O]) WithOrchestrator(o *runner.Orchestrator) Par[I, O] {
	p.orch = o
	return p
}

// WithContext makes the computation stop with ctx's error once ctx is done.
func (p Par[I, O]) WithContext(ctx context.Context) Par[I, O] {
	p.ctx = ctx
	return p
}

func (p Par[I, O]) orchestrator() *runner.Orchestrator {
	if p.orch == nil {
		return runner.Default()
	}
	return p.orch
}

func (p Par[I, O]) job() runner.Job[I, O] {
	return runner.Job[I, O]{
		Ctx:       p.ctx,
		Params:    p.params,
		Cursor:    p.src,
		Chain:     p.chain,
		AtMostOne: p.atMostOne,
	}
}

// with returns a computation sharing p's source and settings but running
// chain.
func with[I, O, U any](p Par[I, O], chain func(I) values.Value[U], atMostOne bool) Par[I, U] {
	return Par[I, U]{
		src:       p.src,
		chain:     chain,
		params:    p.params,
		orch:      p.orch,
		ctx:       p.ctx,
		atMostOne: atMostOne,
	}
}
