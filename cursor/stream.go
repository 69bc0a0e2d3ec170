package cursor

import (
	"iter"
	"sync"
)

// stream serializes access to a source of unknown length. The source
// function is only ever called with mu held.
type stream[T any] struct {
	mu       sync.Mutex
	next     func() (T, bool)
	release  func()
	pulled   int
	done     bool
	head     T
	hasHead  bool
	skipOnce sync.Once
	skipped  chan struct{}
}

func newStream[T any](next func() (T, bool), release func()) *stream[T] {
	return &stream[T]{next: next, release: release, skipped: make(chan struct{})}
}

func (s *stream[T]) isSkipped() bool {
	select {
	case <-s.skipped:
		return true
	default:
		return false
	}
}

// finish marks the source exhausted. mu must be held.
func (s *stream[T]) finish() {
	if s.done {
		return
	}
	s.done = true
	var zero T
	s.head, s.hasHead = zero, false
	if s.release != nil {
		s.release()
	}
}

func (s *stream[T]) Len() (int, bool) {
	return 0, false
}

// Remaining reports (0, true) once the source is exhausted. To find out, it
// reads one element ahead and keeps it for the next Pull, so it may block
// like Pull does.
func (s *stream[T]) Remaining() (int, bool) {
	if s.isSkipped() {
		return 0, true
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.done {
		return 0, true
	}
	if !s.hasHead {
		v, ok := s.next()
		if !ok {
			s.finish()
			return 0, true
		}
		s.head, s.hasHead = v, true
	}
	return 0, false
}

func (s *stream[T]) Pull(n int, buf []T) (Chunk[T], bool) {
	if n < 1 {
		n = 1
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.done || s.isSkipped() {
		s.finish()
		return Chunk[T]{}, false
	}

	buf = buf[:0]
	begin := s.pulled
	if s.hasHead {
		buf = append(buf, s.head)
		var zero T
		s.head, s.hasHead = zero, false
	}
	for len(buf) < n {
		v, ok := s.next()
		if !ok {
			s.finish()
			break
		}
		buf = append(buf, v)
	}
	s.pulled += len(buf)

	if len(buf) == 0 {
		return Chunk[T]{}, false
	}
	return Chunk[T]{Begin: begin, Items: buf}, true
}

func (s *stream[T]) SkipToEnd() {
	// Closing skipped first unblocks a puller waiting on a channel, which
	// holds mu.
	s.skipOnce.Do(func() { close(s.skipped) })

	s.mu.Lock()
	s.finish()
	s.mu.Unlock()
}

func (s *stream[T]) Sequential() iter.Seq[T] {
	return func(yield func(T) bool) {
		var buf [1]T
		for {
			c, ok := s.Pull(1, buf[:0])
			if !ok || !yield(c.Items[0]) {
				return
			}
		}
	}
}

// Seq is a cursor over an iter.Seq of unknown length.
type Seq[T any] struct {
	*stream[T]
}

var _ Cursor[int] = Seq[int]{}

// NewSeq returns a cursor pulling from seq. The iteration is stopped once the
// cursor is exhausted or skipped to the end.
func NewSeq[T any](seq iter.Seq[T]) Seq[T] {
	next, stop := iter.Pull(seq)
	return Seq[T]{stream: newStream(next, stop)}
}

// Func is a cursor over a generator function of unknown length. The
// function is called under a lock and reports false once exhausted.
type Func[T any] struct {
	*stream[T]
}

var _ Cursor[int] = Func[int]{}

// NewFunc returns a cursor pulling from fn.
func NewFunc[T any](fn func() (T, bool)) Func[T] {
	return Func[T]{stream: newStream(fn, nil)}
}

// Chan is a cursor over a channel. The channel is drained until it is
// closed or the cursor is skipped to the end.
type Chan[T any] struct {
	*stream[T]
}

var _ Cursor[int] = Chan[int]{}

// NewChan returns a cursor receiving from ch. A puller blocked on ch is
// released by SkipToEnd.
func NewChan[T any](ch <-chan T) Chan[T] {
	s := newStream[T](nil, nil)
	s.next = func() (T, bool) {
		select {
		case v, ok := <-ch:
			return v, ok
		case <-s.skipped:
			var zero T
			return zero, false
		}
	}
	return Chan[T]{stream: s}
}
