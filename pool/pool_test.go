package pool

import (
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"testing"
	"time"

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

// providers returns a fresh instance of every provider with room for 4
// concurrent closures (Sequential excepted).
func providers(t *testing.T) map[string]ThreadPool {
	t.Helper()
	fixed := NewFixed(4)
	t.Cleanup(fixed.Close)
	return map[string]ThreadPool{
		"native":     NewNative(4),
		"fixed":      fixed,
		"group":      NewGroup(4),
		"sequential": Sequential{},
		"exclusive":  NewExclusive(NewGroup(4)),
	}
}

func TestRunJoinsAllWork(t *testing.T) {
	for name, p := range providers(t) {
		t.Run(name, func(t *testing.T) {
			var count atomic.Int32
			p.Run(func(s Scope) {
				for range 50 {
					s.Spawn(func() {
						time.Sleep(100 * time.Microsecond)
						count.Add(1)
					})
				}
			})
			assert.Equal(t, int32(50), count.Load(), "Run must not return before spawned work finishes")
		})
	}
}

func TestRunEmptyScope(t *testing.T) {
	for name, p := range providers(t) {
		t.Run(name, func(t *testing.T) {
			p.Run(func(Scope) {})
		})
	}
}

func TestMaxThreads(t *testing.T) {
	assert.Equal(t, 4, NewNative(4).MaxThreads())
	assert.GreaterOrEqual(t, NewNative(0).MaxThreads(), 1)
	assert.Equal(t, 3, NewGroup(3).MaxThreads())
	assert.Equal(t, 1, Sequential{}.MaxThreads())

	fixed := NewFixed(5)
	defer fixed.Close()
	assert.Equal(t, 5, fixed.MaxThreads())
}

func TestPanicIsRethrownAfterJoin(t *testing.T) {
	for name, p := range providers(t) {
		t.Run(name, func(t *testing.T) {
			var finished atomic.Bool

			r := func() (r any) {
				defer func() { r = recover() }()
				p.Run(func(s Scope) {
					s.Spawn(func() {
						time.Sleep(5 * time.Millisecond)
						finished.Store(true)
					})
					s.Spawn(func() { panic("worker boom") })
				})
				return nil
			}()

			require.NotNil(t, r)
			var pe *PanicError
			require.True(t, errors.As(r.(error), &pe), "panic value should be a *PanicError")
			assert.Equal(t, "worker boom", pe.Value)
			assert.NotEmpty(t, pe.Stack)
			assert.True(t, finished.Load(), "siblings must finish before the panic is re-raised")
		})
	}
}

func TestPanicErrorUnwrap(t *testing.T) {
	sentinel := errors.New("sentinel")
	pe := newPanicError(sentinel)
	assert.ErrorIs(t, pe, sentinel)
	assert.Contains(t, pe.Error(), "panic: sentinel")
	assert.Same(t, pe, newPanicError(pe), "an existing PanicError is not wrapped again")
	assert.NoError(t, newPanicError("text").Unwrap())
}

func TestNativeCounters(t *testing.T) {
	p := NewNative(2)
	release := make(chan struct{})
	started := make(chan struct{}, 2)

	done := make(chan struct{})
	go func() {
		defer close(done)
		p.Run(func(s Scope) {
			for range 2 {
				s.Spawn(func() {
					started <- struct{}{}
					<-release
				})
			}
		})
	}()

	<-started
	<-started
	assert.Equal(t, int64(2), p.ActiveTasks())
	close(release)
	<-done

	assert.Equal(t, int64(0), p.ActiveTasks())
	assert.Equal(t, int64(2), p.TotalSpawned())
}

func TestNativeSpawnAfterRunPanics(t *testing.T) {
	p := NewNative(1)
	var leaked Scope
	p.Run(func(s Scope) { leaked = s })
	mustPanic(t, "after scope shutdown", func() { leaked.Spawn(func() {}) })
}

func TestConstructorsValidate(t *testing.T) {
	mustPanic(t, "NewNative", func() { NewNative(-1) })
	mustPanic(t, "NewFixed", func() { NewFixed(0) })
	mustPanic(t, "NewGroup", func() { NewGroup(0) })
	mustPanic(t, "WithQueueSize", func() { NewFixed(1, WithQueueSize(-1)) })
	mustPanic(t, "interval", func() { WithPoolMetrics(0, func(FixedStats) {}) })
	mustPanic(t, "callback", func() { WithPoolMetrics(time.Second, nil) })
}

func TestGroupRespectsLimit(t *testing.T) {
	const limit = 3
	p := NewGroup(limit)

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
				time.Sleep(time.Millisecond)
				active.Add(-1)
			})
		}
	})

	assert.LessOrEqual(t, maxActive.Load(), int32(limit),
		"concurrent closures should never exceed the group limit")
}

func TestSharedPoolsAllowConcurrentScopes(t *testing.T) {
	for name, p := range providers(t) {
		sp := Share(p)
		t.Run(name, func(t *testing.T) {
			var (
				wg    sync.WaitGroup
				total atomic.Int32
			)
			for range 4 {
				wg.Add(1)
				go func() {
					defer wg.Done()
					sp.Run(func(s Scope) {
						for range 10 {
							s.Spawn(func() { total.Add(1) })
						}
					})
				}()
			}
			wg.Wait()
			assert.Equal(t, int32(40), total.Load())
		})
	}
}

func TestShare(t *testing.T) {
	native := NewNative(2)
	assert.Same(t, native, Share(native).(*Native), "shared pools are returned as is")

	group := NewGroup(2)
	_, ok := Share(group).(*Exclusive)
	assert.True(t, ok, "exclusive pools are wrapped")
}
