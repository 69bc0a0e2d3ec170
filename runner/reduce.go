package runner

import (
	"slices"

	"github.com/baxromumarov/parx/cursor"
	"github.com/baxromumarov/parx/params"
	"github.com/baxromumarov/parx/values"
)

// Reduce runs job and folds its output with op. op must be associative:
// partial results of different workers are combined in an unspecified
// pairing. acc.Ok is false when nothing was produced.
//
// In ordered mode a take-while stop folds exactly the elements a sequential
// run would have folded. In arbitrary mode the partial accumulators of all
// workers are combined as they are. On error the error is returned and the
// partial accumulators are dropped.
func Reduce[I, O any](o *Orchestrator, job Job[I, O], op func(O, O) O) (acc values.Acc[O], err error) {
	return reduce(o, params.Reduce, job, op)
}

func reduce[I, O any](o *Orchestrator, kind params.ComputationKind, job Job[I, O], op func(O, O) O) (acc values.Acc[O], err error) {
	defer job.Cursor.SkipToEnd()

	c, r := start(o, kind, job)
	var (
		spawned int
		outcome values.Outcome
	)
	defer func() { c.finish(spawned, outcome.Kind, err, recover()) }()

	switch {
	case r.NumThreads() == 1:
		acc, outcome = reduceSequential(c, job, op)
	case job.Params.Order == params.Arbitrary:
		spawned, acc, outcome, err = reduceArbitrary(c, r, job, op)
	default:
		spawned, acc, outcome, err = reduceOrdered(c, r, job, op)
	}
	if err == nil {
		err = c.interrupted()
	}
	if err != nil {
		outcome = values.Outcome{Kind: values.StoppedByError, Err: err}
		return values.Acc[O]{}, err
	}
	if outcome.Kind == values.StoppedByError {
		return values.Acc[O]{}, outcome.Err
	}
	return acc, nil
}

func reduceSequential[I, O any](c *computation, job Job[I, O], op func(O, O) O) (values.Acc[O], values.Outcome) {
	var (
		acc     values.Acc[O]
		outcome values.Outcome
	)
	sequential(c, job.Cursor, func(idx int, x I) bool {
		acc, outcome = job.Chain(x).Fold(acc, op)
		outcome = outcome.At(idx)
		return !outcome.Stopped()
	})
	return acc, outcome
}

// reduceArbitrary keeps one accumulator per worker.
func reduceArbitrary[I, O any](c *computation, r *Runner, job Job[I, O], op func(O, O) O) (int, values.Acc[O], values.Outcome, error) {
	type result struct {
		stop
		acc values.Acc[O]
	}

	var tick arrivals
	spawned, results, err := spawnAll(c, r, job.Cursor, func(int) result {
		var (
			acc values.Acc[O]
			st  values.Outcome
		)
		drive(c, r, job.Cursor, func(ch cursor.Chunk[I]) bool {
			for _, x := range ch.Items {
				if acc, st = job.Chain(x).Fold(acc, op); st.Stopped() {
					return false
				}
			}
			return true
		})
		return result{stop: tick.stamp(st), acc: acc}
	})
	if err != nil {
		return spawned, values.Acc[O]{}, values.Outcome{}, err
	}

	stops := make([]stop, len(results))
	var acc values.Acc[O]
	for i, res := range results {
		stops[i] = res.stop
		acc = acc.Merge(res.acc, op)
	}
	return spawned, acc, firstArrived(stops), nil
}

// partial is the accumulator of one chunk, tagged by the chunk's first
// input index.
type partial[O any] struct {
	begin int
	acc   values.Acc[O]
}

// reduceOrdered keeps one accumulator per chunk so that chunks past the
// earliest stop can be dropped and the rest combined in input order.
func reduceOrdered[I, O any](c *computation, r *Runner, job Job[I, O], op func(O, O) O) (int, values.Acc[O], values.Outcome, error) {
	type result struct {
		stop
		partials []partial[O]
	}

	spawned, results, err := spawnAll(c, r, job.Cursor, func(int) result {
		var res result
		drive(c, r, job.Cursor, func(ch cursor.Chunk[I]) bool {
			var acc values.Acc[O]
			for i, x := range ch.Items {
				var st values.Outcome
				if acc, st = job.Chain(x).Fold(acc, op); st.Stopped() {
					res.Outcome = st.At(ch.Begin + i)
					break
				}
			}
			if acc.Ok {
				res.partials = append(res.partials, partial[O]{begin: ch.Begin, acc: acc})
			}
			return !res.Stopped()
		})
		return res
	})
	if err != nil {
		return spawned, values.Acc[O]{}, values.Outcome{}, err
	}

	stops := make([]stop, len(results))
	var partials []partial[O]
	for i, res := range results {
		stops[i] = res.stop
		partials = append(partials, res.partials...)
	}
	outcome := earliest(stops)

	slices.SortFunc(partials, func(a, b partial[O]) int { return a.begin - b.begin })
	end := truncation(outcome)

	var acc values.Acc[O]
	for _, p := range partials {
		if p.begin >= end {
			break
		}
		acc = acc.Merge(p.acc, op)
	}
	return spawned, acc, outcome, nil
}
