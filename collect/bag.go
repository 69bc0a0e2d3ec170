package collect

import (
	"slices"

	"github.com/puzpuzpuz/xsync/v3"
)

// Bag is an unordered append-only collection shared by the workers of one
// computation. Each worker pushes into its own [Shard], so pushes never
// contend; shards are registered in a concurrent map and drained once all
// workers have finished.
type Bag[T any] struct {
	shards *xsync.MapOf[int, *Shard[T]]
}

// NewBag returns an empty bag.
func NewBag[T any]() *Bag[T] {
	return &Bag[T]{shards: xsync.NewMapOf[int, *Shard[T]]()}
}

// Shard returns the shard of worker id, creating it on first use. A shard
// must only be pushed to by one goroutine at a time.
func (b *Bag[T]) Shard(id int) *Shard[T] {
	s, _ := b.shards.LoadOrCompute(id, func() *Shard[T] {
		return &Shard[T]{}
	})
	return s
}

// Len returns the number of pushed elements. It must not be called while
// workers are pushing.
func (b *Bag[T]) Len() int {
	n := 0
	b.shards.Range(func(_ int, s *Shard[T]) bool {
		n += len(s.items)
		return true
	})
	return n
}

// DrainInto appends every element to dst, shard by shard in worker id
// order, and empties the bag. It must not be called while workers are
// pushing.
func (b *Bag[T]) DrainInto(dst Container[T]) {
	ids := make([]int, 0, b.shards.Size())
	b.shards.Range(func(id int, _ *Shard[T]) bool {
		ids = append(ids, id)
		return true
	})
	slices.Sort(ids)

	dst.Reserve(b.Len())
	for _, id := range ids {
		s, _ := b.shards.LoadAndDelete(id)
		dst.Append(s.items)
	}
}

// Shard is the part of a [Bag] owned by one worker.
type Shard[T any] struct {
	items []T
}

// Push appends v to the shard.
func (s *Shard[T]) Push(v T) {
	s.items = append(s.items, v)
}
