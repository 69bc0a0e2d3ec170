package parx

import (
	"context"
	"fmt"
	"iter"
	"slices"
	"strconv"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/baxromumarov/parx/collect"
	"github.com/baxromumarov/parx/params"
	"github.com/baxromumarov/parx/pool"
	"github.com/baxromumarov/parx/runner"
)

func testOrchestrator() *runner.Orchestrator {
	return runner.New(runner.WithPool(pool.NewNative(16)), runner.WithEnvCap(0))
}

func upTo(n int) []int {
	out := make([]int, n)
	for i := range out {
		out[i] = i
	}
	return out
}

func TestSumAcrossParams(t *testing.T) {
	o := testOrchestrator()
	for threads := 1; threads <= 16; threads++ {
		for _, chunk := range []int{1, 2, 7, 64, 333, 1024} {
			p := FromRange(0, 1000).WithOrchestrator(o).
				NumThreads(params.MaxThreads(threads)).
				ChunkSize(params.Exact(chunk))
			got, err := Sum(p)
			require.NoError(t, err)
			assert.Equal(t, 499500, got, "threads=%d chunk=%d", threads, chunk)
		}
	}
}

func TestParseErrorStopsCollection(t *testing.T) {
	in := []string{"0", "1", "2", "3", "4", "five", "6", "7", "8", "9"}
	for _, threads := range []int{0, 1, 2, 4, 8} {
		dst := collect.NewVec([]uint{42})
		err := TryMap(FromSlice(in), func(s string) (uint, error) {
			n, err := strconv.ParseUint(s, 10, 64)
			return uint(n), err
		}).WithOrchestrator(testOrchestrator()).
			NumThreads(params.MaxThreads(threads)).
			IterationOrder(params.Ordered).
			ChunkSize(params.Exact(1)).
			CollectInto(dst)

		var numErr *strconv.NumError
		require.ErrorAs(t, err, &numErr)
		assert.Equal(t, "five", numErr.Num)
		assert.Equal(t, []uint{42}, dst.Items())
	}
}

func TestTakeWhileOrdered(t *testing.T) {
	for _, threads := range []int{0, 1, 3, 16} {
		got, err := FromRange(0, 100).WithOrchestrator(testOrchestrator()).
			NumThreads(params.MaxThreads(threads)).
			ChunkSize(params.Exact(3)).
			TakeWhile(func(x int) bool { return x != 50 }).
			Collect()
		require.NoError(t, err)
		assert.Equal(t, upTo(50), got)
	}
}

func TestTakeWhileArbitrary(t *testing.T) {
	for _, threads := range []int{0, 1, 3, 16} {
		got, err := FromRange(0, 100).WithOrchestrator(testOrchestrator()).
			NumThreads(params.MaxThreads(threads)).
			ChunkSize(params.Exact(4)).
			IterationOrder(params.Arbitrary).
			TakeWhile(func(x int) bool { return x != 50 }).
			Collect()
		require.NoError(t, err)

		assert.NotContains(t, got, 50)
		for _, x := range upTo(50) {
			assert.Contains(t, got, x)
		}
		for _, x := range got {
			assert.True(t, x >= 0 && x < 100)
		}
	}
}

func TestLastSettingWins(t *testing.T) {
	p := FromRange(0, 10).
		NumThreads(4).
		NumThreads(params.Sequential).
		ChunkSize(params.Exact(2)).
		ChunkSize(params.Min(8)).
		IterationOrder(params.Arbitrary).
		IterationOrder(params.Ordered)

	assert.Equal(t, params.Params{
		NumThreads: params.Sequential,
		ChunkSize:  params.Min(8),
		Order:      params.Ordered,
	}, p.Params())

	assert.Panics(t, func() { p.NumThreads(-1) })
}

func TestTransformChain(t *testing.T) {
	o := testOrchestrator()
	var seen atomic.Int64

	p := FromSlice([]string{"1", "x", "3", "4", "", "6"}).WithOrchestrator(o).ChunkSize(params.Exact(2))
	nums := FilterMap(p, func(s string) (int, bool) {
		n, err := strconv.Atoi(s)
		return n, err == nil
	})
	pairs := FlatMap(nums, func(n int) iter.Seq[string] {
		return slices.Values([]string{fmt.Sprint(n), fmt.Sprint(-n)})
	})
	got, err := pairs.Inspect(func(string) { seen.Add(1) }).
		Filter(func(s string) bool { return s != "-3" }).
		Collect()
	require.NoError(t, err)
	assert.Equal(t, []string{"1", "-1", "3", "4", "-4", "6", "-6"}, got)
	assert.Equal(t, int64(8), seen.Load())
}

func TestOKMap(t *testing.T) {
	lookup := map[string]int{"a": 1, "b": 2, "c": 3}
	find := func(k string) (int, bool) {
		v, ok := lookup[k]
		return v, ok
	}

	got, err := OKMap(FromSlice([]string{"a", "b", "c"}), find).WithOrchestrator(testOrchestrator()).Collect()
	require.NoError(t, err)
	assert.Equal(t, []int{1, 2, 3}, got)

	_, err = OKMap(FromSlice([]string{"a", "z", "c"}), find).WithOrchestrator(testOrchestrator()).Collect()
	assert.ErrorIs(t, err, ErrAbsent)
}

func TestTerminals(t *testing.T) {
	o := testOrchestrator()
	src := func() Par[int, int] {
		return FromRange(0, 1000).WithOrchestrator(o).ChunkSize(params.Exact(16))
	}

	n, err := src().Filter(func(x int) bool { return x%3 == 0 }).Count()
	require.NoError(t, err)
	assert.Equal(t, 334, n)

	v, ok, err := src().Filter(func(x int) bool { return x > 700 && x%7 == 0 }).First()
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, 707, v)

	_, ok, err = src().Filter(func(x int) bool { return x < 0 }).First()
	require.NoError(t, err)
	assert.False(t, ok)

	found, err := src().Any(func(x int) bool { return x == 999 })
	require.NoError(t, err)
	assert.True(t, found)

	all, err := src().All(func(x int) bool { return x < 1000 })
	require.NoError(t, err)
	assert.True(t, all)

	all, err = src().All(func(x int) bool { return x < 500 })
	require.NoError(t, err)
	assert.False(t, all)

	lo, ok, err := Min(Map(src(), func(x int) int { return 500 - x }))
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, -499, lo)

	hi, ok, err := Max(src())
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, 999, hi)

	_, ok, err = Max(FromRange(0, 0).WithOrchestrator(o))
	require.NoError(t, err)
	assert.False(t, ok)

	var total atomic.Int64
	require.NoError(t, src().ForEach(func(x int) { total.Add(int64(x)) }))
	assert.Equal(t, int64(499500), total.Load())
}

func TestReduceOrderedConcatenation(t *testing.T) {
	letters := []string{"a", "b", "c", "d", "e", "f", "g", "h", "i"}
	for _, threads := range []int{0, 2, 5} {
		got, ok, err := FromSlice(letters).WithOrchestrator(testOrchestrator()).
			NumThreads(params.MaxThreads(threads)).
			ChunkSize(params.Exact(1)).
			Reduce(func(a, b string) string { return a + b })
		require.NoError(t, err)
		assert.True(t, ok)
		assert.Equal(t, "abcdefghi", got)
	}
}

func TestStreamingSources(t *testing.T) {
	o := testOrchestrator()

	got, err := FromSeq(slices.Values(upTo(300))).WithOrchestrator(o).Collect()
	require.NoError(t, err)
	assert.Equal(t, upTo(300), got)

	ch := make(chan int)
	go func() {
		defer close(ch)
		for i := range 200 {
			ch <- i
		}
	}()
	sum, err := Sum(FromChan(ch).WithOrchestrator(o))
	require.NoError(t, err)
	assert.Equal(t, 19900, sum)

	i := 0
	gen := func() (int, bool) {
		if i == 50 {
			return 0, false
		}
		i++
		return i, true
	}
	n, err := FromFunc(gen).WithOrchestrator(o).Count()
	require.NoError(t, err)
	assert.Equal(t, 50, n)
}

func TestWithContext(t *testing.T) {
	ctx, cancel := context.WithCancel(t.Context())
	cancel()

	_, err := FromRange(0, 1000).WithOrchestrator(testOrchestrator()).WithContext(ctx).Collect()
	assert.ErrorIs(t, err, context.Canceled)
}

func TestDefaultOrchestrator(t *testing.T) {
	got, err := Map(FromRange(0, 10), strconv.Itoa).Collect()
	require.NoError(t, err)
	assert.Equal(t, []string{"0", "1", "2", "3", "4", "5", "6", "7", "8", "9"}, got)
}
