package collect

// OrderedBuffer is a pre-sized, index-addressed buffer for computations that
// produce at most one element per input index. Workers write disjoint
// indices, so no synchronization is needed beyond joining the workers before
// the buffer is read.
type OrderedBuffer[T any] struct {
	slots []slot[T]
}

type slot[T any] struct {
	v  T
	ok bool
}

// NewOrderedBuffer returns a buffer for n input indices.
func NewOrderedBuffer[T any](n int) *OrderedBuffer[T] {
	return &OrderedBuffer[T]{slots: make([]slot[T], n)}
}

// Set stores v at input index idx.
func (b *OrderedBuffer[T]) Set(idx int, v T) {
	b.slots[idx] = slot[T]{v: v, ok: true}
}

// Cap returns the number of input indices.
func (b *OrderedBuffer[T]) Cap() int {
	return len(b.slots)
}

// DrainInto appends the elements stored at indices below end to dst in
// index order. Indices that produced nothing are skipped.
func (b *OrderedBuffer[T]) DrainInto(dst Container[T], end int) {
	end = min(max(end, 0), len(b.slots))
	n := 0
	for _, s := range b.slots[:end] {
		if s.ok {
			n++
		}
	}

	dst.Reserve(n)
	for _, s := range b.slots[:end] {
		if s.ok {
			dst.Push(s.v)
		}
	}
	b.slots = nil
}
