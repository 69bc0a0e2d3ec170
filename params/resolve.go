package params

import (
	"fmt"
	"math"
	"os"
	"strconv"
	"strings"
)

// EnvMaxNumThreads names the environment variable holding a process-wide cap
// on the number of threads of any computation.
const EnvMaxNumThreads = "PARX_MAX_NUM_THREADS"

// MinAutoChunk is the chunk size at which the auto search stops halving once
// every thread already sees at least one chunk.
const MinAutoChunk = 32

// ChunkPolicy is a resolved chunk size.
type ChunkPolicy struct {
	// Size is the exact pull size, or the floor when Growable is set.
	Size int

	// Growable marks a minimum that the runner may raise while threads are
	// being spawned.
	Growable bool
}

func (c ChunkPolicy) String() string {
	if c.Growable {
		return fmt.Sprintf("min:%d", c.Size)
	}
	return fmt.Sprintf("exact:%d", c.Size)
}

// Resolved is the concrete plan of one computation.
type Resolved struct {
	NumThreads int
	Chunk      ChunkPolicy
}

// Input describes what is known about the input up front.
type Input struct {
	Len   int
	Known bool
}

// Resolve derives the thread budget and chunk policy of a computation.
//
// The thread budget never exceeds poolMax, envCap (when set), the explicit
// request, or max(1, len) for inputs of known length. The result is always at
// least one.
func Resolve(p Params, kind ComputationKind, in Input, poolMax int, envCap int, hasEnvCap bool) Resolved {
	threads := resolveThreads(p.NumThreads, in, poolMax, envCap, hasEnvCap)
	return Resolved{
		NumThreads: threads,
		Chunk:      resolveChunk(p.ChunkSize, kind, in, threads),
	}
}

func resolveThreads(req NumThreads, in Input, poolMax int, envCap int, hasEnvCap bool) int {
	n := math.MaxInt
	if poolMax > 0 {
		n = poolMax
	}
	if hasEnvCap && envCap > 0 {
		n = min(n, envCap)
	}
	if !req.IsAuto() {
		n = min(n, int(req))
	}
	if in.Known {
		n = min(n, max(1, in.Len))
	}
	if n == math.MaxInt {
		// auto with an unbounded pool and unknown length
		n = AvailableParallelism()
	}
	return max(1, n)
}

func resolveChunk(c ChunkSize, kind ComputationKind, in Input, threads int) ChunkPolicy {
	switch c.kind {
	case chunkExact:
		return ChunkPolicy{Size: c.n}
	case chunkMin:
		return ChunkPolicy{Size: c.n, Growable: true}
	}

	t := kind.tuning()
	if !in.Known {
		return ChunkPolicy{Size: t.unknownChunk, Growable: true}
	}

	size := searchChunk(in.Len, threads, t)
	return ChunkPolicy{Size: size, Growable: kind != Collect}
}

// searchChunk halves the chunk size while the input cannot feed every thread
// rounds times. Halving stops at MinAutoChunk when each thread already gets a
// full chunk, and at 1 otherwise.
func searchChunk(length, threads int, t kindTuning) int {
	size := t.maxChunk
	for size > 1 && length < t.rounds*size*threads {
		if size <= MinAutoChunk && length >= size*threads {
			break
		}
		size /= 2
	}
	return max(1, size)
}

// EnvCap reads EnvMaxNumThreads. Missing, malformed and non-positive values
// yield ok == false.
func EnvCap() (n int, ok bool) {
	raw, set := os.LookupEnv(EnvMaxNumThreads)
	if !set {
		return 0, false
	}
	n, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil || n <= 0 {
		return 0, false
	}
	return n, true
}
