// Package cursor provides the thread-safe input sources the parallel engine
// pulls work from.
//
// A [Cursor] hands out contiguous chunks of its elements to any number of
// concurrent pullers. Every element is handed out exactly once, together with
// its position in the input, until the cursor is exhausted or
// [Cursor.SkipToEnd] is called.
package cursor

import (
	"iter"
	"sync/atomic"
)

// Chunk is a contiguous run of input elements. Begin is the input index of
// Items[0].
type Chunk[T any] struct {
	Begin int
	Items []T
}

// Len returns the number of elements in the chunk.
func (c Chunk[T]) Len() int {
	return len(c.Items)
}

// Cursor is a source of input elements that may be pulled concurrently.
type Cursor[T any] interface {
	// Len reports the total number of elements, if known up front.
	Len() (int, bool)

	// Remaining reports how many elements have not been pulled yet, if
	// known. A cursor that was told to skip to the end reports zero.
	Remaining() (int, bool)

	// Pull takes up to n elements. buf may be used as backing storage for
	// the returned items, which stay valid until buf is reused. Pull reports
	// false once the cursor has nothing more to hand out.
	Pull(n int, buf []T) (Chunk[T], bool)

	// SkipToEnd makes every later Pull report exhaustion. It is idempotent
	// and safe to call concurrently with Pull.
	SkipToEnd()

	// Sequential iterates the elements that have not been pulled yet on the
	// calling goroutine.
	Sequential() iter.Seq[T]
}

// span hands out disjoint index ranges of [0, n).
type span struct {
	n    int
	next atomic.Int64
}

// claim reserves up to k indices.
func (s *span) claim(k int) (begin, end int, ok bool) {
	if k < 1 {
		k = 1
	}
	// Fast path: avoid pushing the counter further once exhausted.
	if s.next.Load() >= int64(s.n) {
		return 0, 0, false
	}
	e := s.next.Add(int64(k))
	b := e - int64(k)
	if b >= int64(s.n) {
		return 0, 0, false
	}
	return int(b), int(min(e, int64(s.n))), true
}

func (s *span) remaining() int {
	return max(0, s.n-int(min(s.next.Load(), int64(s.n))))
}

func (s *span) skip() {
	s.next.Store(int64(s.n))
}
