package values

import (
	"fmt"
	"iter"
)

// The composition functions below turn one variant into another. A stopped
// whilst entry is passed through untouched: transformations are never
// applied to the element that ended the computation.

// Map applies f to every produced element.
func Map[T, U any](v Value[T], f func(T) U) Value[U] {
	switch v := v.(type) {
	case Atom[T]:
		return Atom[U]{V: f(v.V)}
	case Option[T]:
		if !v.Ok {
			return Option[U]{}
		}
		return Option[U]{V: f(v.V), Ok: true}
	case Vector[T]:
		return Vector[U]{Seq: mapSeq(v.Seq, f)}
	case WhilstAtom[T]:
		if v.Stop {
			return WhilstAtom[U]{Stop: true}
		}
		return WhilstAtom[U]{V: f(v.V)}
	case WhilstOption[T]:
		if v.Stop || !v.Ok {
			return WhilstOption[U]{Stop: v.Stop}
		}
		return WhilstOption[U]{V: f(v.V), Ok: true}
	case WhilstVector[T]:
		return WhilstVector[U]{Seq: mapSeq(v.Seq, func(a WhilstAtom[T]) WhilstAtom[U] {
			return Map[T, U](a, f).(WhilstAtom[U])
		})}
	case Fallible[T]:
		return Fallible[U]{Inner: mapInner(v.Inner, f), Err: v.Err}
	default:
		panic(unknown(v))
	}
}

// Inspect calls f with every produced element and leaves the value as is.
func Inspect[T any](v Value[T], f func(T)) Value[T] {
	return Map(v, func(x T) T {
		f(x)
		return x
	})
}

// Filter keeps the produced elements for which keep returns true.
func Filter[T any](v Value[T], keep func(T) bool) Value[T] {
	switch v := v.(type) {
	case Atom[T]:
		return Option[T]{V: v.V, Ok: keep(v.V)}
	case Option[T]:
		return Option[T]{V: v.V, Ok: v.Ok && keep(v.V)}
	case Vector[T]:
		return Vector[T]{Seq: filterSeq(v.Seq, keep)}
	case WhilstAtom[T]:
		if v.Stop {
			return WhilstOption[T]{Stop: true}
		}
		return WhilstOption[T]{V: v.V, Ok: keep(v.V)}
	case WhilstOption[T]:
		if v.Stop {
			return v
		}
		return WhilstOption[T]{V: v.V, Ok: v.Ok && keep(v.V)}
	case WhilstVector[T]:
		return WhilstVector[T]{Seq: filterSeq(v.Seq, func(a WhilstAtom[T]) bool {
			return a.Stop || keep(a.V)
		})}
	case Fallible[T]:
		if v.Inner == nil {
			return v
		}
		return Fallible[T]{Inner: Filter(v.Inner, keep), Err: v.Err}
	default:
		panic(unknown(v))
	}
}

// FilterMap applies f to every produced element and keeps the results f
// reports as present.
func FilterMap[T, U any](v Value[T], f func(T) (U, bool)) Value[U] {
	switch v := v.(type) {
	case Atom[T]:
		u, ok := f(v.V)
		return Option[U]{V: u, Ok: ok}
	case Option[T]:
		if !v.Ok {
			return Option[U]{}
		}
		u, ok := f(v.V)
		return Option[U]{V: u, Ok: ok}
	case Vector[T]:
		return Vector[U]{Seq: filterMapSeq(v.Seq, f)}
	case WhilstAtom[T]:
		if v.Stop {
			return WhilstOption[U]{Stop: true}
		}
		u, ok := f(v.V)
		return WhilstOption[U]{V: u, Ok: ok}
	case WhilstOption[T]:
		if v.Stop || !v.Ok {
			return WhilstOption[U]{Stop: v.Stop}
		}
		u, ok := f(v.V)
		return WhilstOption[U]{V: u, Ok: ok}
	case WhilstVector[T]:
		return WhilstVector[U]{Seq: filterMapSeq(v.Seq, func(a WhilstAtom[T]) (WhilstAtom[U], bool) {
			if a.Stop {
				return WhilstAtom[U]{Stop: true}, true
			}
			u, ok := f(a.V)
			return WhilstAtom[U]{V: u}, ok
		})}
	case Fallible[T]:
		var inner Value[U]
		if v.Inner != nil {
			inner = FilterMap(v.Inner, f)
		}
		return Fallible[U]{Inner: inner, Err: v.Err}
	default:
		panic(unknown(v))
	}
}

// FlatMap replaces every produced element with the elements of f's result.
func FlatMap[T, U any](v Value[T], f func(T) iter.Seq[U]) Value[U] {
	switch v := v.(type) {
	case Atom[T]:
		return Vector[U]{Seq: f(v.V)}
	case Option[T]:
		if !v.Ok {
			return Vector[U]{Seq: emptySeq[U]}
		}
		return Vector[U]{Seq: f(v.V)}
	case Vector[T]:
		return Vector[U]{Seq: flatSeq(v.Seq, f)}
	case WhilstAtom[T]:
		return WhilstVector[U]{Seq: flatWhilst(single(v), f)}
	case WhilstOption[T]:
		if !v.Stop && !v.Ok {
			return WhilstVector[U]{Seq: emptySeq[WhilstAtom[U]]}
		}
		return WhilstVector[U]{Seq: flatWhilst(single(WhilstAtom[T]{V: v.V, Stop: v.Stop}), f)}
	case WhilstVector[T]:
		return WhilstVector[U]{Seq: flatWhilst(v.Seq, f)}
	case Fallible[T]:
		var inner Value[U]
		if v.Inner != nil {
			inner = FlatMap(v.Inner, f)
		}
		return Fallible[U]{Inner: inner, Err: v.Err}
	default:
		panic(unknown(v))
	}
}

// Whilst stops at the first produced element for which cont returns false.
// That element is not produced.
func Whilst[T any](v Value[T], cont func(T) bool) Value[T] {
	switch v := v.(type) {
	case Atom[T]:
		return WhilstAtom[T]{V: v.V, Stop: !cont(v.V)}
	case Option[T]:
		if !v.Ok {
			return WhilstOption[T]{}
		}
		return WhilstOption[T]{V: v.V, Ok: true, Stop: !cont(v.V)}
	case Vector[T]:
		return WhilstVector[T]{Seq: mapSeq(v.Seq, func(x T) WhilstAtom[T] {
			return WhilstAtom[T]{V: x, Stop: !cont(x)}
		})}
	case WhilstAtom[T]:
		if v.Stop {
			return v
		}
		return WhilstAtom[T]{V: v.V, Stop: !cont(v.V)}
	case WhilstOption[T]:
		if v.Stop || !v.Ok {
			return v
		}
		return WhilstOption[T]{V: v.V, Ok: true, Stop: !cont(v.V)}
	case WhilstVector[T]:
		return WhilstVector[T]{Seq: mapSeq(v.Seq, func(a WhilstAtom[T]) WhilstAtom[T] {
			if a.Stop {
				return a
			}
			return WhilstAtom[T]{V: a.V, Stop: !cont(a.V)}
		})}
	case Fallible[T]:
		if v.Inner == nil {
			return v
		}
		return Fallible[T]{Inner: Whilst(v.Inner, cont), Err: v.Err}
	default:
		panic(unknown(v))
	}
}

// TryMap applies f to every produced element. The first error ends the
// value: elements produced before it are kept, the failing one and every
// later one are dropped. Many-valued variants are evaluated eagerly up to
// their first stop.
func TryMap[T, U any](v Value[T], f func(T) (U, error)) Value[U] {
	switch v := v.(type) {
	case Atom[T]:
		u, err := f(v.V)
		if err != nil {
			return Failed[U](err)
		}
		return Fallible[U]{Inner: Atom[U]{V: u}}
	case Option[T]:
		if !v.Ok {
			return Fallible[U]{Inner: Option[U]{}}
		}
		u, err := f(v.V)
		if err != nil {
			return Failed[U](err)
		}
		return Fallible[U]{Inner: Option[U]{V: u, Ok: true}}
	case Vector[T]:
		var out []U
		for x := range v.Seq {
			u, err := f(x)
			if err != nil {
				return Fallible[U]{Inner: vectorOf(out), Err: err}
			}
			out = append(out, u)
		}
		return Fallible[U]{Inner: vectorOf(out)}
	case WhilstAtom[T]:
		if v.Stop {
			return Fallible[U]{Inner: WhilstAtom[U]{Stop: true}}
		}
		u, err := f(v.V)
		if err != nil {
			return Failed[U](err)
		}
		return Fallible[U]{Inner: WhilstAtom[U]{V: u}}
	case WhilstOption[T]:
		if v.Stop || !v.Ok {
			return Fallible[U]{Inner: WhilstOption[U]{Stop: v.Stop}}
		}
		u, err := f(v.V)
		if err != nil {
			return Failed[U](err)
		}
		return Fallible[U]{Inner: WhilstOption[U]{V: u, Ok: true}}
	case WhilstVector[T]:
		var out []WhilstAtom[U]
		for a := range v.Seq {
			if a.Stop {
				out = append(out, WhilstAtom[U]{Stop: true})
				break
			}
			u, err := f(a.V)
			if err != nil {
				return Fallible[U]{Inner: whilstVectorOf(out), Err: err}
			}
			out = append(out, WhilstAtom[U]{V: u})
		}
		return Fallible[U]{Inner: whilstVectorOf(out)}
	case Fallible[T]:
		if v.Inner == nil {
			return Failed[U](v.Err)
		}
		mapped := TryMap(v.Inner, f).(Fallible[U])
		if mapped.Err != nil {
			return mapped
		}
		return Fallible[U]{Inner: mapped.Inner, Err: v.Err}
	default:
		panic(unknown(v))
	}
}

func mapInner[T, U any](v Value[T], f func(T) U) Value[U] {
	if v == nil {
		return nil
	}
	return Map(v, f)
}

func unknown(v any) string {
	return fmt.Sprintf("values: unknown variant %T", v)
}
