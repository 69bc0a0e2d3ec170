package pool

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSemaphoreBasic(t *testing.T) {
	sem := NewSemaphore(3)
	assert.Equal(t, 3, sem.Available(), "all slots should be available initially")

	require.NoError(t, sem.Acquire(context.Background()))
	assert.Equal(t, 2, sem.Available(), "one slot consumed")

	assert.True(t, sem.TryAcquire())
	assert.True(t, sem.TryAcquire())
	assert.False(t, sem.TryAcquire(), "semaphore full")

	sem.Release()
	sem.Release()
	sem.Release()
	assert.Equal(t, 3, sem.Available(), "all slots available again")
}

func TestSemaphoreCancelledContext(t *testing.T) {
	sem := NewSemaphore(1)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	assert.ErrorIs(t, sem.Acquire(ctx), context.Canceled)
	assert.Equal(t, 1, sem.Available(), "no slot should have been consumed")
}

func TestSemaphoreReleaseWithoutAcquirePanics(t *testing.T) {
	mustPanic(t, "without matching Acquire", func() {
		NewSemaphore(1).Release()
	})
	mustPanic(t, "n > 0", func() { NewSemaphore(0) })
}

func TestExclusiveSerializesScopes(t *testing.T) {
	ex := NewExclusive(NewGroup(4))

	var (
		open    atomic.Int32
		maxOpen atomic.Int32
		wg      sync.WaitGroup
	)

	for range 6 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			ex.Run(func(s Scope) {
				cur := open.Add(1)
				if cur > maxOpen.Load() {
					maxOpen.Store(cur)
				}
				s.Spawn(func() { time.Sleep(time.Millisecond) })
				open.Add(-1)
			})
		}()
	}
	wg.Wait()

	assert.Equal(t, int32(1), maxOpen.Load(), "at most one scope may be open")
}

func TestRunContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	called := false
	err := RunContext(ctx, NewNative(2), func(Scope) { called = true })
	assert.ErrorIs(t, err, context.Canceled)
	assert.False(t, called)

	err = RunContext(ctx, NewExclusive(NewGroup(1)), func(Scope) { called = true })
	assert.ErrorIs(t, err, context.Canceled)
	assert.False(t, called)

	err = RunContext(context.Background(), NewExclusive(NewGroup(1)), func(Scope) { called = true })
	assert.NoError(t, err)
	assert.True(t, called)
}
