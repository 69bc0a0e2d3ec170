package runner

import (
	"sync/atomic"

	"github.com/baxromumarov/parx/params"
)

// Source reports how much input is left. Every cursor is a Source.
type Source interface {
	Remaining() (int, bool)
}

// Runner holds the state shared by the workers of one computation: the
// resolved plan and the current chunk size.
type Runner struct {
	kind     params.ComputationKind
	params   params.Params
	input    params.Input
	resolved params.Resolved
	lag      int

	// chunk is read by every worker before each pull. Staleness only
	// affects load balance.
	chunk atomic.Int64
}

func newRunner(kind params.ComputationKind, p params.Params, in params.Input, resolved params.Resolved, lag int) *Runner {
	r := &Runner{
		kind:     kind,
		params:   p,
		input:    in,
		resolved: resolved,
		lag:      lag,
	}
	r.chunk.Store(int64(resolved.Chunk.Size))
	return r
}

// Kind returns the computation kind.
func (r *Runner) Kind() params.ComputationKind { return r.kind }

// Params returns the requested parameters.
func (r *Runner) Params() params.Params { return r.params }

// NumThreads returns the resolved thread budget.
func (r *Runner) NumThreads() int { return r.resolved.NumThreads }

// Chunk returns the resolved chunk policy.
func (r *Runner) Chunk() params.ChunkPolicy { return r.resolved.Chunk }

// ChunkSize returns the chunk size workers currently pull.
func (r *Runner) ChunkSize() int {
	return int(r.chunk.Load())
}

// ShouldSpawn reports whether another worker should be started after
// spawned workers already were.
func (r *Runner) ShouldSpawn(spawned int, src Source) bool {
	if spawned >= r.resolved.NumThreads {
		return false
	}
	if n, known := src.Remaining(); known && n == 0 {
		return false
	}
	return true
}

// spawnedOne is called by the spawn loop after every spawn. Every lag
// spawns it lets the running workers make progress and republishes the
// chunk size.
func (r *Runner) spawnedOne(spawned int, src Source) {
	if spawned%r.lag != 0 || spawned >= r.resolved.NumThreads {
		return
	}
	busyWait()
	r.updateChunk(spawned, src)
}

// updateChunk sizes chunks after the throughput observed so far: the
// elements consumed per spawned worker, but never below the resolved floor
// and never so large that the rest of the input cannot be shared by every
// thread three times over. Only growable policies over inputs of known
// length are updated.
func (r *Runner) updateChunk(spawned int, src Source) {
	if !r.resolved.Chunk.Growable || !r.input.Known || spawned == 0 {
		return
	}
	remaining, known := src.Remaining()
	if !known {
		return
	}

	floor := r.resolved.Chunk.Size
	consumed := max(0, r.input.Len-remaining)
	perThread := consumed / spawned
	upper := max(floor, remaining/(3*r.resolved.NumThreads))
	r.chunk.Store(int64(min(max(perThread, floor), upper)))
}

// lagFibonacci sets the length of the busy-wait between chunk size updates.
const lagFibonacci = 1 << 12

var lagSink atomic.Uint64

// busyWait burns a short, fixed amount of CPU.
func busyWait() {
	var a, b uint64 = 0, 1
	for range lagFibonacci {
		a, b = b, a+b
	}
	lagSink.Store(a)
}
