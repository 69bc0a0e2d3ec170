package runner

import (
	"github.com/baxromumarov/parx/collect"
	"github.com/baxromumarov/parx/cursor"
	"github.com/baxromumarov/parx/params"
	"github.com/baxromumarov/parx/values"
)

// Collect runs job and appends its output to dst.
//
// In ordered mode the output follows input order and a take-while stop
// truncates it at the stopping element, exactly as a sequential run would.
// In arbitrary mode the output order is unspecified and a take-while stop
// keeps whatever the workers produced, which may include elements located
// after the stopping one.
//
// On error nothing is appended to dst and the error is returned as it was
// produced by the chain. A cancelled context yields the context's error.
func Collect[I, O any](o *Orchestrator, job Job[I, O], dst collect.Container[O]) (err error) {
	defer job.Cursor.SkipToEnd()

	c, r := start(o, params.Collect, job)
	var (
		spawned int
		outcome values.Outcome
	)
	defer func() { c.finish(spawned, outcome.Kind, err, recover()) }()

	switch {
	case r.NumThreads() == 1:
		outcome = collectSequential(c, job, dst)
	case job.Params.Order == params.Arbitrary:
		spawned, outcome, err = collectArbitrary(c, r, job, dst)
	case job.AtMostOne && r.input.Known:
		spawned, outcome, err = collectBuffered(c, r, job, dst)
	default:
		spawned, outcome, err = collectTagged(c, r, job, dst)
	}
	if err != nil {
		outcome = values.Outcome{Kind: values.StoppedByError, Err: err}
		return err
	}
	if err = c.interrupted(); err != nil {
		outcome = values.Outcome{Kind: values.StoppedByError, Err: err}
		return err
	}
	if outcome.Kind == values.StoppedByError {
		return outcome.Err
	}
	return nil
}

// collectSequential is the single-threaded path. Output is staged so that
// dst stays untouched on error.
func collectSequential[I, O any](c *computation, job Job[I, O], dst collect.Container[O]) values.Outcome {
	var (
		out     []O
		outcome values.Outcome
	)
	sequential(c, job.Cursor, func(idx int, x I) bool {
		outcome = job.Chain(x).Push(&out).At(idx)
		return !outcome.Stopped()
	})
	if outcome.Kind != values.StoppedByError && c.interrupted() == nil {
		dst.Append(out)
	}
	return outcome
}

func collectArbitrary[I, O any](c *computation, r *Runner, job Job[I, O], dst collect.Container[O]) (int, values.Outcome, error) {
	var (
		bag  = collect.NewBag[O]()
		tick arrivals
	)
	spawned, stops, err := spawnAll(c, r, job.Cursor, func(id int) stop {
		shard := bag.Shard(id)
		var st values.Outcome
		drive(c, r, job.Cursor, func(ch cursor.Chunk[I]) bool {
			for _, x := range ch.Items {
				if st = job.Chain(x).PushBag(shard); st.Stopped() {
					return false
				}
			}
			return true
		})
		return tick.stamp(st)
	})
	if err != nil {
		return spawned, values.Outcome{}, err
	}

	outcome := firstArrived(stops)
	if outcome.Kind != values.StoppedByError && c.interrupted() == nil {
		bag.DrainInto(dst)
	}
	return spawned, outcome, nil
}

// collectBuffered writes the output of chains producing at most one element
// per input straight into an index-addressed buffer.
func collectBuffered[I, O any](c *computation, r *Runner, job Job[I, O], dst collect.Container[O]) (int, values.Outcome, error) {
	buf := collect.NewOrderedBuffer[O](r.input.Len)
	spawned, stops, err := spawnAll(c, r, job.Cursor, func(int) stop {
		var (
			st  values.Outcome
			one = make([]O, 0, 1)
		)
		drive(c, r, job.Cursor, func(ch cursor.Chunk[I]) bool {
			for i, x := range ch.Items {
				idx := ch.Begin + i
				one = one[:0]
				st = job.Chain(x).Push(&one)
				if len(one) > 0 {
					buf.Set(idx, one[0])
				}
				if st.Stopped() {
					st = st.At(idx)
					return false
				}
			}
			return true
		})
		return stop{Outcome: st}
	})
	if err != nil {
		return spawned, values.Outcome{}, err
	}

	outcome := earliest(stops)
	if outcome.Kind != values.StoppedByError && c.interrupted() == nil {
		buf.DrainInto(dst, truncation(outcome))
	}
	return spawned, outcome, nil
}

// collectTagged keeps one index-tagged list per worker and merges them in
// input order.
func collectTagged[I, O any](c *computation, r *Runner, job Job[I, O], dst collect.Container[O]) (int, values.Outcome, error) {
	type result struct {
		stop
		items []values.Indexed[O]
	}

	spawned, results, err := spawnAll(c, r, job.Cursor, func(int) result {
		var res result
		drive(c, r, job.Cursor, func(ch cursor.Chunk[I]) bool {
			for i, x := range ch.Items {
				st := job.Chain(x).PushIndexed(ch.Begin+i, &res.items)
				if st.Stopped() {
					res.Outcome = st
					return false
				}
			}
			return true
		})
		return res
	})
	if err != nil {
		return spawned, values.Outcome{}, err
	}

	stops := make([]stop, len(results))
	lists := make([][]values.Indexed[O], len(results))
	for i, res := range results {
		stops[i] = res.stop
		lists[i] = res.items
	}

	outcome := earliest(stops)
	if outcome.Kind != values.StoppedByError && c.interrupted() == nil {
		collect.MergeIndexed(dst, lists, truncation(outcome))
	}
	return spawned, outcome, nil
}
