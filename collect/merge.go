package collect

import (
	"container/heap"

	"github.com/baxromumarov/parx/values"
)

// MergeIndexed appends the elements of the per-worker lists to dst in input
// index order, keeping only elements whose index is below end. Each list
// must already be sorted by index; elements of the same index keep their
// relative order.
func MergeIndexed[T any](dst Container[T], lists [][]values.Indexed[T], end int) {
	h := make(cursorHeap[T], 0, len(lists))
	total := 0
	for _, l := range lists {
		if len(l) > 0 {
			h = append(h, listCursor[T]{items: l})
			total += len(l)
		}
	}
	heap.Init(&h)
	dst.Reserve(total)

	for h.Len() > 0 {
		top := &h[0]
		e := top.items[top.pos]
		if e.Idx >= end {
			// Every other head is at least as large.
			return
		}
		dst.Push(e.Value)

		top.pos++
		if top.pos == len(top.items) {
			heap.Pop(&h)
		} else {
			heap.Fix(&h, 0)
		}
	}
}

type listCursor[T any] struct {
	items []values.Indexed[T]
	pos   int
}

func (c listCursor[T]) head() int {
	return c.items[c.pos].Idx
}

type cursorHeap[T any] []listCursor[T]

func (h cursorHeap[T]) Len() int           { return len(h) }
func (h cursorHeap[T]) Less(i, j int) bool { return h[i].head() < h[j].head() }
func (h cursorHeap[T]) Swap(i, j int)      { h[i], h[j] = h[j], h[i] }
func (h *cursorHeap[T]) Push(x any)        { *h = append(*h, x.(listCursor[T])) }
func (h *cursorHeap[T]) Pop() any {
	old := *h
	n := len(old)
	x := old[n-1]
	*h = old[:n-1]
	return x
}
