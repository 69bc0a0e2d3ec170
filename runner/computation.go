package runner

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/puzpuzpuz/xsync/v3"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"

	"github.com/baxromumarov/parx/cursor"
	"github.com/baxromumarov/parx/params"
	"github.com/baxromumarov/parx/values"
)

// Job is one computation: an input cursor and the transformation chain
// applied to each of its elements.
type Job[I, O any] struct {
	// Ctx cancels the computation. Workers check it between chunks. A nil
	// Ctx means context.Background().
	Ctx context.Context

	Params params.Params
	Cursor cursor.Cursor[I]

	// Chain maps one input element to the value it produces.
	Chain func(I) values.Value[O]

	// AtMostOne promises that Chain never produces more than one element
	// per input. Ordered collections of known length then write straight
	// into a pre-sized buffer.
	AtMostOne bool
}

func (j Job[I, O]) context() context.Context {
	if j.Ctx == nil {
		return context.Background()
	}
	return j.Ctx
}

func (j Job[I, O]) input() params.Input {
	n, ok := j.Cursor.Len()
	return params.Input{Len: n, Known: ok}
}

// computation tracks one run from start to finish.
type computation struct {
	o       *Orchestrator
	ctx     context.Context
	done    <-chan struct{}
	span    trace.Span
	info    Info
	started time.Time

	chunks   *xsync.Counter
	elements *xsync.Counter

	sawCancel    atomic.Bool
	unwatch      func() bool
	joinOnce     sync.Once
	interruptErr error

	summary Summary
}

func start[I, O any](o *Orchestrator, kind params.ComputationKind, job Job[I, O]) (*computation, *Runner) {
	in := job.input()
	r := o.NewRunner(kind, job.Params, in)

	info := Info{
		ID:       uuid.New(),
		Kind:     kind,
		Order:    job.Params.Order,
		Threads:  r.NumThreads(),
		Chunk:    r.Chunk(),
		Input:    in,
		Parallel: r.NumThreads() > 1,
	}

	ctx, span := o.tracer.Start(job.context(), "parx."+kind.String(),
		trace.WithAttributes(
			attribute.String("parx.id", info.ID.String()),
			attribute.String("parx.order", info.Order.String()),
			attribute.Int("parx.threads", info.Threads),
			attribute.String("parx.chunk", info.Chunk.String()),
		))
	if in.Known {
		span.SetAttributes(attribute.Int("parx.input.len", in.Len))
	}

	c := &computation{
		o:        o,
		ctx:      ctx,
		done:     ctx.Done(),
		span:     span,
		info:     info,
		started:  time.Now(),
		chunks:   xsync.NewCounter(),
		elements: xsync.NewCounter(),
	}
	// A worker blocked inside the cursor is released by skipping to the end.
	c.unwatch = context.AfterFunc(ctx, job.Cursor.SkipToEnd)

	o.computations.Inc()
	for _, obs := range o.observers {
		obs.OnStart(info)
	}
	o.logger.Debug("computation started",
		zap.String("id", info.ID.String()),
		zap.Stringer("kind", kind),
		zap.Stringer("order", info.Order),
		zap.Int("threads", info.Threads),
		zap.Stringer("chunk", info.Chunk))

	return c, r
}

// cancelled reports whether the context is done, and remembers it.
func (c *computation) cancelled() bool {
	select {
	case <-c.done:
		c.sawCancel.Store(true)
		return true
	default:
		return false
	}
}

// join marks the point where every worker has joined. Cancellation seen
// from here on no longer cuts the computation short.
func (c *computation) join() {
	c.joinOnce.Do(func() {
		c.unwatch()
		if c.sawCancel.Load() || c.ctx.Err() != nil {
			c.interruptErr = c.ctx.Err()
		}
	})
}

// interrupted returns the context error if cancellation arrived before the
// workers joined. It must be called after every worker has joined.
func (c *computation) interrupted() error {
	c.join()
	return c.interruptErr
}

// pulled records a chunk.
func (c *computation) pulled(n int) {
	c.chunks.Inc()
	c.elements.Add(int64(n))
}

// finish reports the end of the computation. It runs deferred with the
// value recovered from the caller: a worker panic is reported as an error
// outcome and then re-raised.
func (c *computation) finish(spawned int, outcome values.Kind, err error, panicked any) {
	_ = c.interrupted()
	if panicked != nil {
		outcome = values.StoppedByError
		if perr, ok := panicked.(error); ok {
			err = perr
		} else {
			err = fmt.Errorf("panic: %v", panicked)
		}
	}

	elapsed := time.Since(c.started)
	c.summary = Summary{
		Spawned:  spawned,
		Chunks:   c.chunks.Value(),
		Elements: c.elements.Value(),
		Outcome:  outcome,
		Err:      err,
	}
	c.o.chunks.Add(c.summary.Chunks)
	c.o.elements.Add(c.summary.Elements)

	c.span.SetAttributes(
		attribute.Int("parx.spawned", spawned),
		attribute.Int64("parx.elements", c.summary.Elements),
		attribute.String("parx.outcome", outcome.String()),
	)
	if err != nil {
		c.span.RecordError(err)
		c.span.SetStatus(codes.Error, err.Error())
	} else {
		c.span.SetStatus(codes.Ok, "")
	}
	c.span.End()

	for _, obs := range c.o.observers {
		obs.OnDone(c.info, c.summary, elapsed)
	}

	fields := []zap.Field{
		zap.String("id", c.info.ID.String()),
		zap.Stringer("kind", c.info.Kind),
		zap.Int("spawned", spawned),
		zap.Int64("chunks", c.summary.Chunks),
		zap.Int64("elements", c.summary.Elements),
		zap.Stringer("outcome", outcome),
		zap.Duration("duration", elapsed),
	}
	if err != nil {
		fields = append(fields, zap.Error(err))
	}
	c.o.logger.Debug("computation done", fields...)

	if panicked != nil {
		panic(panicked)
	}
}

// drive pulls chunks from cur and hands them to visit until the cursor is
// exhausted, the context is done, or visit returns false. Stopping skips the
// cursor to its end so that sibling workers stop pulling.
func drive[I any](c *computation, r *Runner, cur cursor.Cursor[I], visit func(cursor.Chunk[I]) bool) {
	var buf []I
	for {
		if c.cancelled() {
			cur.SkipToEnd()
			return
		}
		ch, ok := cur.Pull(r.ChunkSize(), buf)
		if !ok {
			return
		}
		c.pulled(ch.Len())
		if !visit(ch) {
			cur.SkipToEnd()
			return
		}
		buf = ch.Items
	}
}

// sequential feeds the remaining input to visit on the calling goroutine.
// The whole input counts as one chunk.
func sequential[I any](c *computation, cur cursor.Cursor[I], visit func(idx int, x I) bool) {
	n := 0
	defer func() {
		c.join()
		if n > 0 {
			c.pulled(n)
		}
	}()
	for x := range cur.Sequential() {
		if c.cancelled() {
			return
		}
		n++
		if !visit(n-1, x) {
			return
		}
	}
}

// spawnAll runs work on the spawn loop of r and marks the join.
func spawnAll[R any](c *computation, r *Runner, src Source, work func(id int) R) (int, []R, error) {
	spawned, results, err := MapAll(c.ctx, c.o, r, src, work)
	c.join()
	return spawned, results, err
}
