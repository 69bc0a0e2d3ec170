package values

import (
	"iter"
	"slices"
)

func mapSeq[T, U any](seq iter.Seq[T], f func(T) U) iter.Seq[U] {
	return func(yield func(U) bool) {
		for x := range seq {
			if !yield(f(x)) {
				return
			}
		}
	}
}

func filterSeq[T any](seq iter.Seq[T], keep func(T) bool) iter.Seq[T] {
	return func(yield func(T) bool) {
		for x := range seq {
			if keep(x) && !yield(x) {
				return
			}
		}
	}
}

func filterMapSeq[T, U any](seq iter.Seq[T], f func(T) (U, bool)) iter.Seq[U] {
	return func(yield func(U) bool) {
		for x := range seq {
			if u, ok := f(x); ok && !yield(u) {
				return
			}
		}
	}
}

func flatSeq[T, U any](seq iter.Seq[T], f func(T) iter.Seq[U]) iter.Seq[U] {
	return func(yield func(U) bool) {
		for x := range seq {
			for u := range f(x) {
				if !yield(u) {
					return
				}
			}
		}
	}
}

// flatWhilst expands every non-stopping entry with f. A stopping entry is
// yielded as is and ends the sequence.
func flatWhilst[T, U any](seq iter.Seq[WhilstAtom[T]], f func(T) iter.Seq[U]) iter.Seq[WhilstAtom[U]] {
	return func(yield func(WhilstAtom[U]) bool) {
		for a := range seq {
			if a.Stop {
				yield(WhilstAtom[U]{Stop: true})
				return
			}
			for u := range f(a.V) {
				if !yield(WhilstAtom[U]{V: u}) {
					return
				}
			}
		}
	}
}

func vectorOf[T any](items []T) Vector[T] {
	return Vector[T]{Seq: slices.Values(items)}
}

func whilstVectorOf[T any](items []WhilstAtom[T]) WhilstVector[T] {
	return WhilstVector[T]{Seq: slices.Values(items)}
}
