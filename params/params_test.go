package params

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustPanic(t *testing.T, contains string, fn func()) {
	t.Helper()
	defer func() {
		r := recover()
		require.NotNil(t, r, "expected panic")
		require.Contains(t, fmt.Sprint(r), contains)
	}()
	fn()
}

func TestZeroIsNormalizedToAuto(t *testing.T) {
	assert.True(t, MaxThreads(0).IsAuto())
	assert.True(t, Exact(0).IsAuto())
	assert.True(t, Min(0).IsAuto())
	assert.Equal(t, AutoChunk, Exact(0))
}

func TestNegativeConfigurationPanics(t *testing.T) {
	mustPanic(t, "threads", func() { MaxThreads(-1) })
	mustPanic(t, "chunk size", func() { Exact(-3) })
	mustPanic(t, "chunk size", func() { Min(-3) })
}

func TestStrings(t *testing.T) {
	p := Params{NumThreads: 4, ChunkSize: Exact(64), Order: Arbitrary}
	assert.Equal(t, "threads=4 chunk=exact:64 order=arbitrary", p.String())
	assert.Equal(t, "threads=auto chunk=auto order=ordered", Default().String())
	assert.Equal(t, "min:8", Min(8).String())
	assert.True(t, Params{NumThreads: Sequential}.IsSequential())
}

func TestResolveThreads(t *testing.T) {
	tests := []struct {
		name    string
		req     NumThreads
		in      Input
		poolMax int
		envCap  int
		hasEnv  bool
		want    int
	}{
		{name: "auto uses pool max", req: Auto, in: Input{Len: 1000, Known: true}, poolMax: 8, want: 8},
		{name: "request caps pool", req: 3, in: Input{Len: 1000, Known: true}, poolMax: 8, want: 3},
		{name: "pool caps request", req: 32, in: Input{Len: 1000, Known: true}, poolMax: 8, want: 8},
		{name: "env caps", req: Auto, in: Input{Len: 1000, Known: true}, poolMax: 8, envCap: 2, hasEnv: true, want: 2},
		{name: "tiny input", req: 16, in: Input{Len: 3, Known: true}, poolMax: 16, want: 3},
		{name: "empty input", req: 16, in: Input{Len: 0, Known: true}, poolMax: 16, want: 1},
		{name: "unknown length honours request", req: 5, in: Input{}, poolMax: 16, want: 5},
		{name: "unknown length auto", req: Auto, in: Input{}, poolMax: 6, want: 6},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := Resolve(Params{NumThreads: tt.req}, Collect, tt.in, tt.poolMax, tt.envCap, tt.hasEnv)
			assert.Equal(t, tt.want, r.NumThreads)
		})
	}
}

func TestResolveChunkExplicitBypassesSearch(t *testing.T) {
	in := Input{Len: 1 << 20, Known: true}

	r := Resolve(Params{ChunkSize: Exact(7)}, Reduce, in, 4, 0, false)
	assert.Equal(t, ChunkPolicy{Size: 7}, r.Chunk)

	r = Resolve(Params{ChunkSize: Min(9)}, Collect, in, 4, 0, false)
	assert.Equal(t, ChunkPolicy{Size: 9, Growable: true}, r.Chunk)
}

func TestResolveChunkSearch(t *testing.T) {
	tests := []struct {
		name    string
		kind    ComputationKind
		length  int
		threads int
		want    ChunkPolicy
	}{
		{name: "huge input keeps max", kind: Collect, length: 1 << 24, threads: 8, want: ChunkPolicy{Size: 1 << 14}},
		{name: "medium input", kind: Reduce, length: 1 << 16, threads: 4, want: ChunkPolicy{Size: 1 << 12, Growable: true}},
		{name: "floor at 32", kind: Collect, length: 1000, threads: 16, want: ChunkPolicy{Size: 32}},
		{name: "below floor", kind: Reduce, length: 100, threads: 8, want: ChunkPolicy{Size: 4, Growable: true}},
		{name: "single element", kind: Collect, length: 1, threads: 1, want: ChunkPolicy{Size: 1}},
		{name: "early return is smaller", kind: EarlyReturn, length: 1 << 16, threads: 4, want: ChunkPolicy{Size: 1 << 10, Growable: true}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := Resolve(Params{}, tt.kind, Input{Len: tt.length, Known: true}, tt.threads, 0, false)
			require.Equal(t, min(tt.threads, tt.length), r.NumThreads)
			assert.Equal(t, tt.want, r.Chunk)
		})
	}
}

func TestResolveChunkUnknownLength(t *testing.T) {
	r := Resolve(Params{}, Collect, Input{}, 4, 0, false)
	assert.Equal(t, ChunkPolicy{Size: MinAutoChunk, Growable: true}, r.Chunk)

	r = Resolve(Params{}, EarlyReturn, Input{}, 4, 0, false)
	assert.Equal(t, ChunkPolicy{Size: 4, Growable: true}, r.Chunk)
}

func TestSearchChunkRespectsRounds(t *testing.T) {
	for threads := 1; threads <= 16; threads++ {
		for _, length := range []int{1, 7, 100, 1000, 4096, 100_000} {
			size := searchChunk(length, threads, Collect.tuning())
			require.GreaterOrEqual(t, size, 1)
			if size > MinAutoChunk && size < 1<<14 {
				assert.GreaterOrEqual(t, length, 3*size*threads,
					"len=%d threads=%d size=%d", length, threads, size)
			}
		}
	}
}

func TestEnvCap(t *testing.T) {
	t.Setenv(EnvMaxNumThreads, "3")
	n, ok := EnvCap()
	assert.True(t, ok)
	assert.Equal(t, 3, n)

	t.Setenv(EnvMaxNumThreads, "zero")
	_, ok = EnvCap()
	assert.False(t, ok)

	t.Setenv(EnvMaxNumThreads, "0")
	_, ok = EnvCap()
	assert.False(t, ok)
}

func TestAvailableParallelism(t *testing.T) {
	assert.GreaterOrEqual(t, AvailableParallelism(), 1)
}

func TestKindString(t *testing.T) {
	assert.Equal(t, "collect", Collect.String())
	assert.Equal(t, "reduce", Reduce.String())
	assert.Equal(t, "early-return", EarlyReturn.String())
}
