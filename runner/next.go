package runner

import (
	"github.com/baxromumarov/parx/cursor"
	"github.com/baxromumarov/parx/params"
	"github.com/baxromumarov/parx/values"
)

// event is the first thing one worker observed: an element, a take-while
// stop or an error, at input index idx.
type event[O any] struct {
	stop
	v  O
	ok bool
}

// Next runs job until the first element is produced and returns it.
//
// In ordered mode the result is the element a sequential run would return
// first; a take-while stop or an error located before it ends the
// computation with no element, or with the error. In arbitrary mode the
// result is whatever event arrives first.
func Next[I, O any](o *Orchestrator, job Job[I, O]) (v O, ok bool, err error) {
	defer job.Cursor.SkipToEnd()

	c, r := start(o, params.EarlyReturn, job)
	var (
		spawned int
		ev      event[O]
	)
	defer func() { c.finish(spawned, ev.Kind, err, recover()) }()

	if r.NumThreads() == 1 {
		ev = nextSequential(c, job)
	} else {
		var events []event[O]
		spawned, events, err = nextParallel(c, r, job)
		if job.Params.Order == params.Arbitrary {
			ev = firstEvent(events)
		} else {
			ev = lowestEvent(events)
		}
	}

	if err == nil {
		err = c.interrupted()
	}
	if err != nil {
		ev = event[O]{stop: stop{Outcome: values.Outcome{Kind: values.StoppedByError, Err: err}}}
		return v, false, err
	}
	if ev.Kind == values.StoppedByError {
		return v, false, ev.Err
	}
	return ev.v, ev.ok, nil
}

func nextSequential[I, O any](c *computation, job Job[I, O]) event[O] {
	var ev event[O]
	sequential(c, job.Cursor, func(idx int, x I) bool {
		v, ok, st := job.Chain(x).Next()
		ev = event[O]{stop: stop{Outcome: st.At(idx)}, v: v, ok: ok}
		return !ok && !st.Stopped()
	})
	return ev
}

func nextParallel[I, O any](c *computation, r *Runner, job Job[I, O]) (int, []event[O], error) {
	var tick arrivals
	return spawnAll(c, r, job.Cursor, func(int) event[O] {
		var ev event[O]
		drive(c, r, job.Cursor, func(ch cursor.Chunk[I]) bool {
			for i, x := range ch.Items {
				v, ok, st := job.Chain(x).Next()
				if ok || st.Stopped() {
					ev = event[O]{stop: stop{Outcome: st.At(ch.Begin + i), ticket: tick.n.Add(1)}, v: v, ok: ok}
					return false
				}
			}
			return true
		})
		return ev
	})
}

func (e event[O]) found() bool {
	return e.ok || e.Stopped()
}

// lowestEvent picks the event at the lowest input index.
func lowestEvent[O any](events []event[O]) event[O] {
	var best event[O]
	for _, e := range events {
		if e.found() && (!best.found() || e.Idx < best.Idx) {
			best = e
		}
	}
	return best
}

// firstEvent picks the event that arrived first.
func firstEvent[O any](events []event[O]) event[O] {
	var best event[O]
	for _, e := range events {
		if e.found() && (!best.found() || e.ticket < best.ticket) {
			best = e
		}
	}
	return best
}
