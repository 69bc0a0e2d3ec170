// Package values implements the value algebra of the parallel engine.
//
// Every input element that passes through a chain of transformations
// produces one [Value]: zero, one or many output elements, together with a
// termination mode. Values never stop ([Atom], [Option], [Vector]), stop on
// a take-while predicate ([WhilstAtom], [WhilstOption], [WhilstVector]), or
// stop on an error ([Fallible], which wraps any of the others). The engine
// only talks to the [Value] interface and never needs to know which variant
// a chain produces.
//
// Rules shared by every variant:
//
//   - many-valued variants push their elements in order and stop at the
//     first element that stops;
//   - the element that fails a take-while predicate is not pushed;
//   - the element that produced an error is not pushed, and the error is
//     reported instead.
package values

import "iter"

// Value is the output of one input element.
type Value[T any] interface {
	// Push appends the produced elements to dst.
	Push(dst *[]T) Outcome

	// PushIndexed appends the produced elements tagged with the input
	// index idx. A stop outcome carries idx.
	PushIndexed(idx int, dst *[]Indexed[T]) Outcome

	// PushBag pushes the produced elements into a concurrent bag.
	PushBag(bag Bag[T]) Outcome

	// Fold folds the produced elements into acc with op. On a stop, the
	// partial accumulator is returned together with the outcome.
	Fold(acc Acc[T], op func(T, T) T) (Acc[T], Outcome)

	// Next returns the first produced element, if any. When the value stops
	// before producing one, ok is false and the outcome says why.
	Next() (v T, ok bool, o Outcome)

	sealed()
}

// Indexed is an element tagged with the input index it was produced from.
type Indexed[T any] struct {
	Idx   int
	Value T
}

// Bag receives elements pushed from one worker.
type Bag[T any] interface {
	Push(v T)
}

// Acc is a possibly empty accumulator.
type Acc[T any] struct {
	Value T
	Ok    bool
}

// Add folds v into a.
func (a Acc[T]) Add(v T, op func(T, T) T) Acc[T] {
	if !a.Ok {
		return Acc[T]{Value: v, Ok: true}
	}
	return Acc[T]{Value: op(a.Value, v), Ok: true}
}

// Merge folds b into a.
func (a Acc[T]) Merge(b Acc[T], op func(T, T) T) Acc[T] {
	if !b.Ok {
		return a
	}
	return a.Add(b.Value, op)
}

// Atom is exactly one element.
type Atom[T any] struct {
	V T
}

// Option is zero or one element.
type Option[T any] struct {
	V  T
	Ok bool
}

// Vector is any number of elements.
type Vector[T any] struct {
	Seq iter.Seq[T]
}

// WhilstAtom is one element, or a predicate stop.
type WhilstAtom[T any] struct {
	V    T
	Stop bool
}

// WhilstOption is zero or one element, or a predicate stop.
type WhilstOption[T any] struct {
	V    T
	Ok   bool
	Stop bool
}

// WhilstVector is a sequence of elements that ends early at its first
// stopping entry.
type WhilstVector[T any] struct {
	Seq iter.Seq[WhilstAtom[T]]
}

// Fallible is the elements of Inner followed by Err, if Err is not nil.
// Inner may be nil when the error occurred before anything was produced.
type Fallible[T any] struct {
	Inner Value[T]
	Err   error
}

func (Atom[T]) sealed()         {}
func (Option[T]) sealed()       {}
func (Vector[T]) sealed()       {}
func (WhilstAtom[T]) sealed()   {}
func (WhilstOption[T]) sealed() {}
func (WhilstVector[T]) sealed() {}
func (Fallible[T]) sealed()     {}

// Failed returns a value that produces nothing and stops with err.
func Failed[T any](err error) Value[T] {
	return Fallible[T]{Err: err}
}

func emptySeq[T any](func(T) bool) {}

func single[T any](v T) iter.Seq[T] {
	return func(yield func(T) bool) { yield(v) }
}
