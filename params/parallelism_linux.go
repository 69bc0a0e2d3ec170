//go:build linux

package params

import "golang.org/x/sys/unix"

// affinityCount counts the CPUs in the scheduler affinity mask of the calling
// thread. The mask may be narrower than what the runtime saw at startup.
func affinityCount() (int, bool) {
	var set unix.CPUSet
	if err := unix.SchedGetaffinity(0, &set); err != nil {
		return 0, false
	}
	return set.Count(), true
}
