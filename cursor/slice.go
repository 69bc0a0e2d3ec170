package cursor

import "iter"

// Slice is a cursor over the elements of a slice. Pulled chunks are
// subslices of the input and are never copied.
type Slice[T any] struct {
	items []T
	span  span
}

var _ Cursor[int] = (*Slice[int])(nil)

// NewSlice returns a cursor over items. The slice must not be modified while
// the cursor is in use.
func NewSlice[T any](items []T) *Slice[T] {
	return &Slice[T]{items: items, span: span{n: len(items)}}
}

// Len implements Cursor.
func (c *Slice[T]) Len() (int, bool) {
	return len(c.items), true
}

// Remaining implements Cursor.
func (c *Slice[T]) Remaining() (int, bool) {
	return c.span.remaining(), true
}

// Pull implements Cursor. buf is not used.
func (c *Slice[T]) Pull(n int, _ []T) (Chunk[T], bool) {
	begin, end, ok := c.span.claim(n)
	if !ok {
		return Chunk[T]{}, false
	}
	return Chunk[T]{Begin: begin, Items: c.items[begin:end:end]}, true
}

// SkipToEnd implements Cursor.
func (c *Slice[T]) SkipToEnd() {
	c.span.skip()
}

// Sequential implements Cursor.
func (c *Slice[T]) Sequential() iter.Seq[T] {
	return func(yield func(T) bool) {
		for {
			begin, _, ok := c.span.claim(1)
			if !ok || !yield(c.items[begin]) {
				return
			}
		}
	}
}

// Range is a cursor over the integers in [lo, hi).
type Range struct {
	lo   int
	span span
}

var _ Cursor[int] = (*Range)(nil)

// NewRange returns a cursor over [lo, hi). An empty or inverted range yields
// nothing.
func NewRange(lo, hi int) *Range {
	return &Range{lo: lo, span: span{n: max(0, hi-lo)}}
}

// Len implements Cursor.
func (c *Range) Len() (int, bool) {
	return c.span.n, true
}

// Remaining implements Cursor.
func (c *Range) Remaining() (int, bool) {
	return c.span.remaining(), true
}

// Pull implements Cursor. The returned items are written into buf.
func (c *Range) Pull(n int, buf []int) (Chunk[int], bool) {
	begin, end, ok := c.span.claim(n)
	if !ok {
		return Chunk[int]{}, false
	}
	buf = buf[:0]
	for i := begin; i < end; i++ {
		buf = append(buf, c.lo+i)
	}
	return Chunk[int]{Begin: begin, Items: buf}, true
}

// SkipToEnd implements Cursor.
func (c *Range) SkipToEnd() {
	c.span.skip()
}

// Sequential implements Cursor.
func (c *Range) Sequential() iter.Seq[int] {
	return func(yield func(int) bool) {
		for {
			begin, _, ok := c.span.claim(1)
			if !ok || !yield(c.lo+begin) {
				return
			}
		}
	}
}
