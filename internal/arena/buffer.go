package arena

import "fmt"

// Buffer is a fixed-capacity list backed by a scope. Pushing past the capacity
// chosen at creation panics with ErrCapacityExhausted.
type Buffer[T any] struct {
	label string
	items []T
}

// NewBuffer reserves capacity elements in s. The buffer is emptied every time s
// is reset.
func NewBuffer[T any](s *Scope, label string, capacity int) *Buffer[T] {
	b := &Buffer[T]{label: label, items: MakeSlice[T](s, capacity)[:0]}
	s.buffers = append(s.buffers, b)
	return b
}

func (b *Buffer[T]) reset() {
	clear(b.items[:cap(b.items)])
	b.items = b.items[:0]
}

// Reset empties the buffer without waiting for the owning scope.
func (b *Buffer[T]) Reset() {
	b.reset()
}

func (b *Buffer[T]) overflow(n int) {
	panic(fmt.Errorf("%w: buffer %q needs %d, capacity %d", ErrCapacityExhausted, b.label, n, cap(b.items)))
}

// Push appends v.
func (b *Buffer[T]) Push(v T) {
	if len(b.items) == cap(b.items) {
		b.overflow(len(b.items) + 1)
	}
	b.items = append(b.items, v)
}

// Pop removes and returns the last element. The buffer must not be empty.
func (b *Buffer[T]) Pop() T {
	n := len(b.items) - 1
	v := b.items[n]
	var zero T
	b.items[n] = zero
	b.items = b.items[:n]
	return v
}

// Insert opens n zeroed slots at index i, shifting the tail right.
func (b *Buffer[T]) Insert(i, n int) {
	size := len(b.items) + n
	if size > cap(b.items) {
		b.overflow(size)
	}
	b.items = b.items[:size]
	copy(b.items[i+n:], b.items[i:size-n])
	clear(b.items[i : i+n])
}

// Reserve returns an empty slice over the buffer's storage with room for n
// elements. It is meant for routines that append into caller-provided storage;
// the buffer's own length is not changed.
func (b *Buffer[T]) Reserve(n int) []T {
	if n > cap(b.items) {
		b.overflow(n)
	}
	return b.items[:0:cap(b.items)]
}

// Len returns the number of elements.
func (b *Buffer[T]) Len() int {
	return len(b.items)
}

// Cap returns the fixed capacity.
func (b *Buffer[T]) Cap() int {
	return cap(b.items)
}

// At returns a pointer to element i.
func (b *Buffer[T]) At(i int) *T {
	return &b.items[i]
}

// Items returns the live elements. The slice aliases the buffer and is only
// valid until the next mutation or scope reset.
func (b *Buffer[T]) Items() []T {
	return b.items
}
