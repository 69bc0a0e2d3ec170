package params

import "runtime"

// DefaultParallelism is used when the host cannot report how many threads it
// can run. It is deliberately low: running sequentially is safer than
// oversubscribing an unknown machine.
const DefaultParallelism = 1

// AvailableParallelism returns the number of threads the process can
// usefully run in parallel. It never fails; on hosts that cannot report it the
// result is DefaultParallelism.
func AvailableParallelism() int {
	procs := runtime.GOMAXPROCS(0)
	if n, ok := affinityCount(); ok && n > 0 {
		if procs > 0 {
			return min(n, procs)
		}
		return n
	}
	if procs > 0 {
		return procs
	}
	return DefaultParallelism
}
