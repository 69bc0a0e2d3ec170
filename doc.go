// Package parx provides adaptive data-parallel computations over slices,
// ranges, iterators, channels and generator functions.
//
// A computation starts from a source, is extended with transformations and
// is run by exactly one terminal operation:
//
//	sum, err := parx.Sum(parx.Map(parx.FromRange(0, 1_000_000), func(x int) int {
//	    return x * x
//	}))
//
// # Transformations
//
// [Map], [Par.Filter], [FilterMap], [FlatMap] and [Par.Inspect] never stop
// a computation. [Par.TakeWhile] stops it at the first element failing a
// predicate. [TryMap] and [OKMap] stop it at the first error, which the
// terminal operation returns unchanged.
//
// # Parameters
//
// Every computation carries [params.Params]:
//
//   - [Par.NumThreads] caps the worker count. [params.Auto] lets the
//     engine decide and [params.Sequential] runs on the calling goroutine.
//   - [Par.ChunkSize] sets how many elements a worker pulls at once.
//     [params.Exact] fixes it; [params.Min] sets a floor the engine may
//     grow from as it learns how fast the workers drain the input.
//   - [Par.IterationOrder] selects [params.Ordered], where results and
//     stops behave exactly like a sequential loop, or [params.Arbitrary],
//     which trades order for less reconciliation work.
//
// The environment variable PARX_MAX_NUM_THREADS caps the worker count of
// every computation.
//
// # Orchestrators
//
// Computations run on [runner.Default] unless [Par.WithOrchestrator] names
// another one. An orchestrator owns the thread pool, a zap logger, an
// OpenTelemetry tracer and the observers that the metrics package builds on.
//
// # Slices
//
// [MapSlice] and [ForEachSlice] cover the common case of calling a
// context-aware, fallible function on every element of a slice.
package parx
