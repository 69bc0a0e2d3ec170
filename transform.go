package parx

import (
	"errors"
	"iter"

	"github.com/baxromumarov/parx/values"
)

// ErrAbsent is returned by terminal operations of computations that
// contain an [OKMap] whose function reported no value.
var ErrAbsent = errors.New("parx: value absent")

// Map transforms every element with f.
func Map[I, O, U any](p Par[I, O], f func(O) U) Par[I, U] {
	chain := p.chain
	return with(p, func(x I) values.Value[U] {
		return values.Map(chain(x), f)
	}, p.atMostOne)
}

// FlatMap replaces every element with the elements of f's result.
func FlatMap[I, O, U any](p Par[I, O], f func(O) iter.Seq[U]) Par[I, U] {
	chain := p.chain
	return with(p, func(x I) values.Value[U] {
		return values.FlatMap(chain(x), f)
	}, false)
}

// FilterMap transforms every element with f and keeps the results f reports
// as present.
func FilterMap[I, O, U any](p Par[I, O], f func(O) (U, bool)) Par[I, U] {
	chain := p.chain
	return with(p, func(x I) values.Value[U] {
		return values.FilterMap(chain(x), f)
	}, p.atMostOne)
}

// TryMap transforms every element with f. The first error stops the
// computation and is returned, unchanged, by the terminal operation.
func TryMap[I, O, U any](p Par[I, O], f func(O) (U, error)) Par[I, U] {
	chain := p.chain
	return with(p, func(x I) values.Value[U] {
		return values.TryMap(chain(x), f)
	}, p.atMostOne)
}

// OKMap transforms every element with f. The first element for which f
// reports no value stops the computation with [ErrAbsent].
func OKMap[I, O, U any](p Par[I, O], f func(O) (U, bool)) Par[I, U] {
	return TryMap(p, func(x O) (U, error) {
		u, ok := f(x)
		if !ok {
			return u, ErrAbsent
		}
		return u, nil
	})
}

// Filter keeps the elements for which keep returns true.
func (p Par[I, O]) Filter(keep func(O) bool) Par[I, O] {
	chain := p.chain
	return with(p, func(x I) values.Value[O] {
		return values.Filter(chain(x), keep)
	}, p.atMostOne)
}

// TakeWhile stops the computation at the first element for which cont
// returns false. That element and, in ordered mode, every later one are
// dropped. In arbitrary mode, elements located after the stopping one may
// already have been produced and are kept.
func (p Par[I, O]) TakeWhile(cont func(O) bool) Par[I, O] {
	chain := p.chain
	return with(p, func(x I) values.Value[O] {
		return values.Whilst(chain(x), cont)
	}, p.atMostOne)
}

// Inspect calls f with every element as it passes. f is called
// concurrently from the workers.
func (p Par[I, O]) Inspect(f func(O)) Par[I, O] {
	chain := p.chain
	return with(p, func(x I) values.Value[O] {
		return values.Inspect(chain(x), f)
	}, p.atMostOne)
}
