package runner

import (
	"github.com/baxromumarov/parx/cursor"
	"github.com/baxromumarov/parx/params"
	"github.com/baxromumarov/parx/values"
)

// bagFunc pushes into a function.
type bagFunc[O any] func(O)

func (f bagFunc[O]) Push(v O) { f(v) }

// ForEach runs job and calls fn with every produced element. fn is called
// concurrently from the workers and in no particular order. A take-while
// stop ends the computation without error; elements located after the stop
// may still have been visited.
func ForEach[I, O any](o *Orchestrator, job Job[I, O], fn func(O)) (err error) {
	defer job.Cursor.SkipToEnd()

	c, r := start(o, params.Collect, job)
	var (
		spawned int
		outcome values.Outcome
	)
	defer func() { c.finish(spawned, outcome.Kind, err, recover()) }()

	bag := bagFunc[O](fn)
	if r.NumThreads() == 1 {
		sequential(c, job.Cursor, func(idx int, x I) bool {
			outcome = job.Chain(x).PushBag(bag).At(idx)
			return !outcome.Stopped()
		})
	} else {
		var (
			tick  arrivals
			stops []stop
		)
		spawned, stops, err = spawnAll(c, r, job.Cursor, func(int) stop {
			var st values.Outcome
			drive(c, r, job.Cursor, func(ch cursor.Chunk[I]) bool {
				for _, x := range ch.Items {
					if st = job.Chain(x).PushBag(bag); st.Stopped() {
						return false
					}
				}
				return true
			})
			return tick.stamp(st)
		})
		outcome = firstArrived(stops)
	}

	if err == nil {
		err = c.interrupted()
	}
	if err != nil {
		outcome = values.Outcome{Kind: values.StoppedByError, Err: err}
		return err
	}
	if outcome.Kind == values.StoppedByError {
		return outcome.Err
	}
	return nil
}
