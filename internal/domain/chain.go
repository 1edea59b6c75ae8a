package domain

// Chain is an append-only sequence whose tail can be cut off as a unit and
// put back later. Elements live in one backing slice; a detached tail is
// moved into its own slice so the two never share storage.
type Chain[T any] struct {
	items []T
}

func NewChain[T any](values ...T) *Chain[T] {
	c := &Chain[T]{items: make([]T, 0, len(values))}
	c.items = append(c.items, values...)
	return c
}

func (c *Chain[T]) Append(v T) { c.items = append(c.items, v) }

func (c *Chain[T]) Len() int { return len(c.items) }

// At panics on an out of range index, like slice indexing.
func (c *Chain[T]) At(i int) T { return c.items[i] }

func (c *Chain[T]) Last() (T, bool) {
	var zero T
	if len(c.items) == 0 {
		return zero, false
	}
	return c.items[len(c.items)-1], true
}

// Values returns a copy of the elements in order.
func (c *Chain[T]) Values() []T {
	out := make([]T, len(c.items))
	copy(out, c.items)
	return out
}

// DetachAt removes the element at index i and everything after it, and
// returns the removed elements as a new chain.
func (c *Chain[T]) DetachAt(i int) (*Chain[T], error) {
	if len(c.items) == 0 || i < 0 || i >= len(c.items) {
		return nil, ErrEmptyChain
	}

	tail := make([]T, len(c.items)-i)
	copy(tail, c.items[i:])

	clear(c.items[i:])
	c.items = c.items[:i]

	return &Chain[T]{items: tail}, nil
}

// DetachLastFunc detaches from the last element matching match.
func (c *Chain[T]) DetachLastFunc(match func(T) bool) (*Chain[T], error) {
	if len(c.items) == 0 {
		return nil, ErrEmptyChain
	}

	for i := len(c.items) - 1; i >= 0; i-- {
		if match(c.items[i]) {
			return c.DetachAt(i)
		}
	}

	return nil, ErrValueNotFound
}

// Reattach appends a previously detached chain and empties it.
func (c *Chain[T]) Reattach(tail *Chain[T]) {
	if tail == nil {
		return
	}
	c.items = append(c.items, tail.items...)
	tail.items = nil
}
