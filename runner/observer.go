package runner

import (
	"time"

	"github.com/google/uuid"

	"github.com/baxromumarov/parx/params"
	"github.com/baxromumarov/parx/values"
)

// Info describes a computation.
type Info struct {
	ID       uuid.UUID
	Kind     params.ComputationKind
	Order    params.IterationOrder
	Threads  int
	Chunk    params.ChunkPolicy
	Input    params.Input
	Parallel bool
}

// Summary describes how a computation ended.
type Summary struct {
	// Spawned is the number of workers started. Sequential computations
	// spawn none.
	Spawned int
	// Chunks and Elements count what was pulled from the input.
	Chunks   int64
	Elements int64
	// Outcome is the termination mode. A cancelled context is reported as
	// an error stop.
	Outcome values.Kind
	Err     error
}

// Observer receives lifecycle events of the computations of an
// [Orchestrator]. Both methods run on the calling goroutine of the
// computation and must be safe for concurrent use when the orchestrator is
// shared.
type Observer interface {
	OnStart(info Info)
	OnDone(info Info, s Summary, elapsed time.Duration)
}

type hooks struct {
	onStart func(Info)
	onDone  func(Info, Summary, time.Duration)
}

func (h hooks) OnStart(info Info) {
	if h.onStart != nil {
		h.onStart(info)
	}
}

func (h hooks) OnDone(info Info, s Summary, elapsed time.Duration) {
	if h.onDone != nil {
		h.onDone(info, s, elapsed)
	}
}
