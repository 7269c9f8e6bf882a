package panel

import "context"

// Collection holds the last list fetched from the backend. Mutations go
// through Mutate so the list is always refetched afterwards.
type Collection[T any] struct {
	fetch func(ctx context.Context) ([]T, error)
	Items []T
	Err   error
}

func NewCollection[T any](fetch func(ctx context.Context) ([]T, error)) *Collection[T] {
	return &Collection[T]{fetch: fetch}
}

// Refresh replaces Items with a fresh fetch. On error Items are kept and
// Err is set.
func (c *Collection[T]) Refresh(ctx context.Context) error {
	items, err := c.fetch(ctx)
	c.Err = err
	if err != nil {
		return err
	}
	c.Items = items
	return nil
}

// Mutate runs action and then refetches, even when action failed. The
// action's error wins over the refetch error.
func (c *Collection[T]) Mutate(ctx context.Context, action func(ctx context.Context) error) error {
	err := action(ctx)
	refreshErr := c.Refresh(ctx)
	if err != nil {
		return err
	}
	return refreshErr
}

// Find returns the index of the first item matching pred, or -1.
func (c *Collection[T]) Find(pred func(T) bool) int {
	for i, it := range c.Items {
		if pred(it) {
			return i
		}
	}
	return -1
}
