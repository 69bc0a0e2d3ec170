package runner

import (
	"math"
	"sync/atomic"

	"github.com/baxromumarov/parx/values"
)

// stop is the outcome a worker ended with, stamped with its arrival order.
type stop struct {
	values.Outcome
	ticket int64
}

// arrivals hands out increasing tickets to workers observing a stop.
type arrivals struct {
	n atomic.Int64
}

func (a *arrivals) stamp(o values.Outcome) stop {
	if !o.Stopped() {
		return stop{Outcome: o}
	}
	return stop{Outcome: o, ticket: a.n.Add(1)}
}

// earliest returns the stop with the lowest input index. That is the stop a
// sequential run would have hit first.
func earliest(stops []stop) values.Outcome {
	var best values.Outcome
	for _, s := range stops {
		if s.Outcome.Precedes(best) {
			best = s.Outcome
		}
	}
	return best
}

// firstArrived returns the error that was observed first, or when no worker
// failed the predicate stop that was observed first.
func firstArrived(stops []stop) values.Outcome {
	var best stop
	for _, s := range stops {
		switch {
		case !s.Stopped():
		case s.Outranks(best.Outcome):
			best = s
		case s.Kind == best.Kind && s.ticket < best.ticket:
			best = s
		}
	}
	return best.Outcome
}

// truncation returns the exclusive end of the input indices whose elements
// are kept after a predicate stop at o.Idx. Elements produced at the stop
// index before the stop are kept.
func truncation(o values.Outcome) int {
	if o.Kind == values.StoppedByWhile {
		return o.Idx + 1
	}
	return math.MaxInt
}
