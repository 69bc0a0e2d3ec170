package pool

import (
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFixedReusedAcrossScopes(t *testing.T) {
	p := NewFixed(4)
	defer p.Close()

	var count atomic.Int32
	for range 5 {
		p.Run(func(s Scope) {
			for range 10 {
				s.Spawn(func() { count.Add(1) })
			}
		})
	}

	assert.Equal(t, int32(50), count.Load())
	stats := p.Stats()
	assert.Equal(t, int64(50), stats.Submitted)
	assert.Equal(t, int64(50), stats.Completed)
	assert.Equal(t, 4, stats.Workers)
	assert.Equal(t, int64(0), stats.InFlight)
}

func TestFixedConcurrencyLimit(t *testing.T) {
	const workers = 3
	p := NewFixed(workers, WithQueueSize(20))
	defer p.Close()

	var (
		active    atomic.Int32
		maxActive atomic.Int32
	)

	p.Run(func(s Scope) {
		for range 20 {
			s.Spawn(func() {
				cur := active.Add(1)
				for {
					old := maxActive.Load()
					if cur <= old || maxActive.CompareAndSwap(old, cur) {
						break
					}
				}
				time.Sleep(2 * time.Millisecond)
				active.Add(-1)
			})
		}
	})

	assert.LessOrEqual(t, maxActive.Load(), int32(workers),
		"concurrent closures should never exceed worker count")
}

func TestFixedAfterCloseRunsInline(t *testing.T) {
	p := NewFixed(2)
	p.Close()
	p.Close() // idempotent

	var ran atomic.Bool
	p.Run(func(s Scope) {
		s.Spawn(func() { ran.Store(true) })
	})

	assert.True(t, ran.Load())
	assert.Equal(t, int64(1), p.Stats().Inline)
}

func TestFixedPanicRecovery(t *testing.T) {
	p := NewFixed(2)
	defer p.Close()

	func() {
		defer func() {
			r := recover()
			_, ok := r.(*PanicError)
			require.True(t, ok, "expected *PanicError, got %T", r)
		}()
		p.Run(func(s Scope) {
			s.Spawn(func() { panic("task panic!") })
		})
	}()

	// The workers survive the panic.
	var ran atomic.Bool
	p.Run(func(s Scope) {
		s.Spawn(func() { ran.Store(true) })
	})
	assert.True(t, ran.Load(), "subsequent work should still run after a panic")
}

func TestFixedMetricsCallback(t *testing.T) {
	var (
		mu    sync.Mutex
		snaps []FixedStats
	)

	p := NewFixed(2, WithPoolMetrics(time.Millisecond, func(s FixedStats) {
		mu.Lock()
		snaps = append(snaps, s)
		mu.Unlock()
	}))

	p.Run(func(s Scope) {
		s.Spawn(func() { time.Sleep(10 * time.Millisecond) })
	})

	require.Eventually(t, func() bool {
		mu.Lock()
		defer mu.Unlock()
		return len(snaps) > 0
	}, time.Second, time.Millisecond)

	p.Close()

	mu.Lock()
	defer mu.Unlock()
	assert.Equal(t, 2, snaps[0].Workers)
}
