package pool

import (
	"fmt"
	"runtime"
	"sync"
)

// PanicError wraps a recovered panic value together with the goroutine
// stack trace captured at the point of the panic.
//
// A panic inside spawned work is recovered on the worker, kept until every
// sibling has finished, and then re-raised on the goroutine that called
// [ThreadPool.Run] with a *PanicError as the panic value.
type PanicError struct {
	// Value is the original value passed to panic().
	Value any

	// Stack is the goroutine stack trace at the point of panic.
	Stack string
}

// Error returns a human-readable representation of the panic,
// including the value and the full stack trace.
func (e *PanicError) Error() string {
	return fmt.Sprintf("panic: %v\n\n%s", e.Value, e.Stack)
}

// Unwrap returns the panic value if it is an error.
func (e *PanicError) Unwrap() error {
	if err, ok := e.Value.(error); ok {
		return err
	}
	return nil
}

func newPanicError(v any) *PanicError {
	if pe, ok := v.(*PanicError); ok {
		return pe
	}
	// 8 KiB is enough for most stack traces. runtime.Stack truncates
	// gracefully if the buffer is too small.
	buf := make([]byte, 8192)
	n := runtime.Stack(buf, false)
	return &PanicError{
		Value: v,
		Stack: string(buf[:n]),
	}
}

// panicSlot keeps the first panic of a scope.
type panicSlot struct {
	once sync.Once
	pe   *PanicError
}

func (p *panicSlot) capture(v any) {
	p.once.Do(func() {
		p.pe = newPanicError(v)
	})
}

// guard runs work and records a panic instead of letting it escape.
func (p *panicSlot) guard(work func()) {
	defer func() {
		if r := recover(); r != nil {
			p.capture(r)
		}
	}()
	work()
}

// rethrow re-raises the captured panic, if any. It must only be called after
// every guarded call has returned.
func (p *panicSlot) rethrow() {
	if p.pe != nil {
		panic(p.pe)
	}
}
