//go:build !linux

package params

func affinityCount() (int, bool) {
	return 0, false
}
