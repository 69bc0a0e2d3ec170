package values

import "fmt"

// Kind classifies how pushing or folding a value ended.
type Kind uint8

const (
	// Continue means every produced value was consumed and the
	// computation may go on.
	Continue Kind = iota
	// StoppedByWhile means a take-while predicate failed. It is not an
	// error.
	StoppedByWhile
	// StoppedByError means a fallible transformation returned an error.
	StoppedByError
)

func (k Kind) String() string {
	switch k {
	case Continue:
		return "continue"
	case StoppedByWhile:
		return "stopped-by-while"
	case StoppedByError:
		return "stopped-by-error"
	default:
		return fmt.Sprintf("Kind(%d)", uint8(k))
	}
}

// Outcome is the result of pushing or folding one value. Idx is the input
// index of the value that stopped the computation; it is only set by
// PushIndexed and by callers that know the index.
type Outcome struct {
	Kind Kind
	Idx  int
	Err  error
}

// Stopped reports whether the outcome ends the computation.
func (o Outcome) Stopped() bool {
	return o.Kind != Continue
}

// At returns o with its index set to idx.
func (o Outcome) At(idx int) Outcome {
	o.Idx = idx
	return o
}

// Precedes reports whether o comes first in input order. A stop precedes
// continuation, and of two stops the one at the lower index comes first.
func (o Outcome) Precedes(other Outcome) bool {
	switch {
	case !o.Stopped():
		return false
	case !other.Stopped():
		return true
	case o.Idx != other.Idx:
		return o.Idx < other.Idx
	default:
		return o.Kind > other.Kind
	}
}

// Outranks reports whether o has a strictly higher priority than other:
// errors outrank predicate stops, which outrank continuation.
func (o Outcome) Outranks(other Outcome) bool {
	return o.Kind > other.Kind
}

func continued() Outcome {
	return Outcome{}
}

func whileStopped() Outcome {
	return Outcome{Kind: StoppedByWhile}
}

func errorStopped(err error) Outcome {
	return Outcome{Kind: StoppedByError, Err: err}
}
