package runner

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/baxromumarov/parx/cursor"
	"github.com/baxromumarov/parx/params"
	"github.com/baxromumarov/parx/pool"
)

type fixedSource struct {
	n     int
	known bool
}

func (s fixedSource) Remaining() (int, bool) { return s.n, s.known }

func TestNewRunnerResolves(t *testing.T) {
	o := New(WithPool(pool.NewNative(8)), WithEnvCap(0))

	r := o.NewRunner(params.Collect, params.Default(), params.Input{Len: 1000, Known: true})
	assert.Equal(t, 8, r.NumThreads())
	assert.False(t, r.Chunk().Growable, "known-length collections pull exact chunks")
	assert.Equal(t, r.Chunk().Size, r.ChunkSize())

	r = o.NewRunner(params.Reduce, params.Params{NumThreads: params.MaxThreads(3)}, params.Input{})
	assert.Equal(t, 3, r.NumThreads())
	assert.Equal(t, params.ChunkPolicy{Size: params.MinAutoChunk, Growable: true}, r.Chunk())

	r = o.NewRunner(params.Collect, params.Default(), params.Input{Len: 2, Known: true})
	assert.Equal(t, 2, r.NumThreads(), "tiny inputs get no more threads than elements")

	r = o.NewRunner(params.Collect, params.Default(), params.Input{Len: 0, Known: true})
	assert.Equal(t, 1, r.NumThreads())
}

func TestNewRunnerEnvCap(t *testing.T) {
	o := New(WithPool(pool.NewNative(8)), WithEnvCap(2))
	r := o.NewRunner(params.Collect, params.Default(), params.Input{Len: 1000, Known: true})
	assert.Equal(t, 2, r.NumThreads())

	t.Setenv(params.EnvMaxNumThreads, "3")
	o = New(WithPool(pool.NewNative(8)))
	r = o.NewRunner(params.Collect, params.Default(), params.Input{Len: 1000, Known: true})
	assert.Equal(t, 3, r.NumThreads())
}

func TestShouldSpawn(t *testing.T) {
	o := New(WithPool(pool.NewNative(4)), WithEnvCap(0))
	r := o.NewRunner(params.Collect, params.Default(), params.Input{Len: 100, Known: true})

	assert.True(t, r.ShouldSpawn(0, fixedSource{n: 100, known: true}))
	assert.True(t, r.ShouldSpawn(3, fixedSource{n: 1, known: true}))
	assert.False(t, r.ShouldSpawn(4, fixedSource{n: 100, known: true}), "thread budget spent")
	assert.False(t, r.ShouldSpawn(1, fixedSource{n: 0, known: true}), "nothing left to pull")
	assert.True(t, r.ShouldSpawn(1, fixedSource{}), "unknown remaining keeps spawning")
}

func TestUpdateChunk(t *testing.T) {
	o := New(WithPool(pool.NewNative(4)), WithEnvCap(0))
	p := params.Params{ChunkSize: params.Min(10)}
	r := o.NewRunner(params.Reduce, p, params.Input{Len: 10_000, Known: true})
	require.True(t, r.Chunk().Growable)

	// 4000 elements consumed by 2 workers: 2000 per worker, capped by what
	// is left for every thread three times over.
	r.updateChunk(2, fixedSource{n: 6000, known: true})
	assert.Equal(t, 500, r.ChunkSize())

	// Little progress: the floor holds.
	r.updateChunk(4, fixedSource{n: 9990, known: true})
	assert.Equal(t, 10, r.ChunkSize())

	// Exact policies never change.
	exact := o.NewRunner(params.Reduce, params.Params{ChunkSize: params.Exact(10)}, params.Input{Len: 10_000, Known: true})
	exact.updateChunk(2, fixedSource{n: 6000, known: true})
	assert.Equal(t, 10, exact.ChunkSize())
}

func TestMapAllRespectsBudget(t *testing.T) {
	o := New(WithPool(pool.NewNative(16)), WithEnvCap(0))
	r := o.NewRunner(params.Collect, params.Params{NumThreads: params.MaxThreads(5), ChunkSize: params.Exact(1)},
		params.Input{Len: 10_000, Known: true})

	cur := cursor.NewRange(0, 10_000)
	spawned, results, err := MapAll(t.Context(), o, r, cur, func(id int) int {
		n := 0
		for {
			if _, ok := cur.Pull(r.ChunkSize(), nil); !ok {
				return n
			}
			n++
		}
	})
	require.NoError(t, err)
	assert.LessOrEqual(t, spawned, 5)
	assert.GreaterOrEqual(t, spawned, 1)
	assert.Len(t, results, spawned)

	total := 0
	for _, n := range results {
		total += n
	}
	assert.Equal(t, 10_000, total)
	assert.Equal(t, int64(spawned), o.Stats().Spawned)
}

func TestMapAllEmptyInputSpawnsNothing(t *testing.T) {
	o := New(WithPool(pool.NewNative(4)), WithEnvCap(0))
	r := o.NewRunner(params.Collect, params.Params{NumThreads: params.MaxThreads(4)}, params.Input{Len: 0, Known: true})

	called := false
	spawned, err := RunAll(t.Context(), o, r, cursor.NewRange(0, 0), func(int) { called = true })
	require.NoError(t, err)
	assert.Zero(t, spawned)
	assert.False(t, called)
}

func TestEmptyStreamSpawnsNothing(t *testing.T) {
	o := New(WithPool(pool.NewNative(4)), WithEnvCap(0))
	closed := make(chan int)
	close(closed)

	sources := map[string]cursor.Cursor[int]{
		"seq":  cursor.NewSeq(func(func(int) bool) {}),
		"func": cursor.NewFunc(func() (int, bool) { return 0, false }),
		"chan": cursor.NewChan(closed),
	}
	for name, src := range sources {
		t.Run(name, func(t *testing.T) {
			r := o.NewRunner(params.Collect, params.Default(), params.Input{})
			require.Greater(t, r.NumThreads(), 1)

			spawned, err := RunAll(t.Context(), o, r, src, func(int) { t.Error("worker spawned") })
			require.NoError(t, err)
			assert.Zero(t, spawned)
		})
	}
}

// drainingSource reports less remaining input on every call, as if workers
// were consuming step elements between two looks. It records the spawn
// count current at each call.
type drainingSource struct {
	remaining int
	step      int
	spawned   int
	calls     []int
}

func (s *drainingSource) Remaining() (int, bool) {
	s.remaining = max(0, s.remaining-s.step)
	s.calls = append(s.calls, s.spawned)
	return s.remaining, true
}

func TestSpawnedOneCadence(t *testing.T) {
	o := New(WithPool(pool.NewNative(16)), WithEnvCap(0), WithLagPeriodicity(3))
	p := params.Params{NumThreads: params.MaxThreads(16), ChunkSize: params.Min(4)}
	r := o.NewRunner(params.Reduce, p, params.Input{Len: 100_000, Known: true})
	require.Equal(t, 16, r.NumThreads())

	src := &drainingSource{remaining: 100_000, step: 1000}
	var sizes []int
	for spawned := 1; spawned <= 16; spawned++ {
		src.spawned = spawned
		r.spawnedOne(spawned, src)
		sizes = append(sizes, r.ChunkSize())
	}

	assert.Equal(t, []int{3, 6, 9, 12, 15}, src.calls, "republished every third spawn, never at the budget")
	assert.Equal(t, 4, sizes[0], "floor until the first update")
	assert.Greater(t, sizes[2], 4)
	for i := 1; i < len(sizes); i++ {
		if (i+1)%3 != 0 {
			assert.Equal(t, sizes[i-1], sizes[i], "unchanged between updates at spawn %d", i+1)
		}
	}
}

func TestMapAllGrowsMinChunk(t *testing.T) {
	o := New(WithPool(pool.NewNative(16)), WithEnvCap(0), WithLagPeriodicity(2))
	p := params.Params{NumThreads: params.MaxThreads(8), ChunkSize: params.Min(4)}
	r := o.NewRunner(params.Reduce, p, params.Input{Len: 100_000, Known: true})
	require.Equal(t, 8, r.NumThreads())
	require.True(t, r.Chunk().Growable)

	src := &drainingSource{remaining: 100_000, step: 1000}
	spawned, err := RunAll(t.Context(), o, r, src, func(int) {})
	require.NoError(t, err)
	assert.Equal(t, 8, spawned)

	remaining := src.remaining
	assert.Greater(t, r.ChunkSize(), 4, "grows past the floor")
	assert.LessOrEqual(t, r.ChunkSize(), max(4, remaining/(3*8))+1000)
}

func TestMapAllKeepsExactChunk(t *testing.T) {
	o := New(WithPool(pool.NewNative(16)), WithEnvCap(0), WithLagPeriodicity(1))
	p := params.Params{NumThreads: params.MaxThreads(8), ChunkSize: params.Exact(5)}
	r := o.NewRunner(params.Reduce, p, params.Input{Len: 100_000, Known: true})
	require.False(t, r.Chunk().Growable)

	var seen [8]int
	src := &drainingSource{remaining: 100_000, step: 1000}
	spawned, err := RunAll(t.Context(), o, r, src, func(id int) { seen[id] = r.ChunkSize() })
	require.NoError(t, err)
	assert.Equal(t, 8, spawned)
	assert.Equal(t, 5, r.ChunkSize())
	for _, n := range seen {
		assert.Equal(t, 5, n)
	}
}

func TestLagPeriodicityValidates(t *testing.T) {
	assert.Panics(t, func() { WithLagPeriodicity(0) })
	assert.Panics(t, func() { WithLagPeriodicity(-2) })
	assert.Panics(t, func() { WithEnvCap(-1) })
	assert.NotPanics(t, func() { New(WithLagPeriodicity(1)) })
}
