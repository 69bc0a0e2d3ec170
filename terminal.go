package parx

import (
	"cmp"

	"github.com/baxromumarov/parx/collect"
	"github.com/baxromumarov/parx/runner"
)

// Collect runs the computation and returns its outputs. In ordered mode
// they follow input order.
func (p Par[I, O]) Collect() ([]O, error) {
	var dst collect.Vec[O]
	if err := p.CollectInto(&dst); err != nil {
		return nil, err
	}
	return dst.Items(), nil
}

// CollectInto runs the computation and appends its outputs to dst. dst is
// left untouched on error.
func (p Par[I, O]) CollectInto(dst collect.Container[O]) error {
	return runner.Collect(p.orchestrator(), p.job(), dst)
}

// Reduce runs the computation and combines its outputs with op, which must
// be associative. ok is false when there was nothing to combine.
func (p Par[I, O]) Reduce(op func(O, O) O) (v O, ok bool, err error) {
	acc, err := runner.Reduce(p.orchestrator(), p.job(), op)
	return acc.Value, acc.Ok, err
}

// First runs the computation until an output is produced and returns it.
// In ordered mode it is the first output in input order; in arbitrary mode
// any output may be returned.
func (p Par[I, O]) First() (v O, ok bool, err error) {
	return runner.Next(p.orchestrator(), p.job())
}

// Count runs the computation and returns the number of outputs.
func (p Par[I, O]) Count() (int, error) {
	n, _, err := Map(p, func(O) int { return 1 }).Reduce(func(a, b int) int { return a + b })
	return n, err
}

// ForEach runs the computation and calls fn with every output, concurrently
// and in no particular order.
func (p Par[I, O]) ForEach(fn func(O)) error {
	return runner.ForEach(p.orchestrator(), p.job(), fn)
}

// Any reports whether some output satisfies pred. It stops as soon as one
// is found.
func (p Par[I, O]) Any(pred func(O) bool) (bool, error) {
	_, ok, err := p.Filter(pred).First()
	return ok, err
}

// All reports whether every output satisfies pred. It stops as soon as a
// counterexample is found.
func (p Par[I, O]) All(pred func(O) bool) (bool, error) {
	found, err := p.Any(func(x O) bool { return !pred(x) })
	return !found, err
}

// Number is the constraint of [Sum].
type Number interface {
	~int | ~int8 | ~int16 | ~int32 | ~int64 |
		~uint | ~uint8 | ~uint16 | ~uint32 | ~uint64 | ~uintptr |
		~float32 | ~float64
}

// Sum returns the sum of the outputs of p, zero for none.
func Sum[I any, O Number](p Par[I, O]) (O, error) {
	v, _, err := p.Reduce(func(a, b O) O { return a + b })
	return v, err
}

// Min returns the smallest output of p.
func Min[I any, O cmp.Ordered](p Par[I, O]) (O, bool, error) {
	return p.Reduce(func(a, b O) O { return min(a, b) })
}

// Max returns the largest output of p.
func Max[I any, O cmp.Ordered](p Par[I, O]) (O, bool, error) {
	return p.Reduce(func(a, b O) O { return max(a, b) })
}
