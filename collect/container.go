// Package collect provides the output containers of the parallel engine:
// growable containers the caller owns, and the concurrently writable
// structures workers push into before a final single-threaded drain.
package collect

import "slices"

// Container is a growable output collection.
type Container[T any] interface {
	// Push appends one element.
	Push(v T)
	// Len returns the number of elements.
	Len() int
	// Reserve makes room for n more elements.
	Reserve(n int)
	// Append appends every element of items.
	Append(items []T)
	// Items returns the elements in push order.
	Items() []T
}

// Vec is a slice-backed Container. The zero value is an empty Vec.
type Vec[T any] struct {
	items []T
}

var _ Container[int] = (*Vec[int])(nil)

// NewVec returns a Vec holding items. The slice is taken over, not copied.
func NewVec[T any](items []T) *Vec[T] {
	return &Vec[T]{items: items}
}

// Push implements Container.
func (v *Vec[T]) Push(x T) {
	v.items = append(v.items, x)
}

// Len implements Container.
func (v *Vec[T]) Len() int {
	return len(v.items)
}

// Reserve implements Container.
func (v *Vec[T]) Reserve(n int) {
	if n > 0 {
		v.items = slices.Grow(v.items, n)
	}
}

// Append implements Container.
func (v *Vec[T]) Append(items []T) {
	v.items = append(v.items, items...)
}

// Items implements Container.
func (v *Vec[T]) Items() []T {
	return v.items
}
