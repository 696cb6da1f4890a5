package pagination

import (
	"context"
	"sort"
)

// Query asks a source for up to Limit items ordered on Ordering.
// With a Boundary, only items strictly beyond it in the query order qualify:
// keys below the boundary when Descending, keys above it otherwise.
// Items lacking the ordering field never qualify.
type Query struct {
	Ordering   Ordering
	Boundary   *Key
	Descending bool
	Limit      int
}

// Admits reports whether an item with the given key qualifies for the query
func (q Query) Admits(key Key) bool {
	if q.Boundary == nil {
		return true
	}
	c := key.Compare(*q.Boundary)
	if q.Descending {
		return c < 0
	}
	return c > 0
}

// Source is the persistence collaborator of a Paginator.
// Fetch must be monotonic and duplicate-free for a given query.
type Source[T any] interface {
	Fetch(ctx context.Context, q Query) ([]T, error)
}

// SourceFunc adapts a plain function to Source
type SourceFunc[T any] func(ctx context.Context, q Query) ([]T, error)

// Fetch calls f(ctx, q)
func (f SourceFunc[T]) Fetch(ctx context.Context, q Query) ([]T, error) {
	return f(ctx, q)
}

// SliceSource serves queries from an in-memory slice.
// It applies the adapter's base filter and key order exactly like a store would.
type SliceSource[T any] struct {
	adapter Adapter[T]
	items   []T
}

// NewSliceSource creates a source over items ordered by adapter
func NewSliceSource[T any](adapter Adapter[T], items []T) *SliceSource[T] {
	return &SliceSource[T]{adapter: adapter, items: items}
}

// Fetch returns the matching items in query order
func (s *SliceSource[T]) Fetch(_ context.Context, q Query) ([]T, error) {
	type keyed struct {
		item T
		key  Key
	}

	var matched []keyed
	for _, item := range s.items {
		key, ok := s.adapter.Key(item)
		if !ok || !q.Admits(key) {
			continue
		}
		matched = append(matched, keyed{item: item, key: key})
	}

	sort.Slice(matched, func(i, j int) bool {
		c := matched[i].key.Compare(matched[j].key)
		if q.Descending {
			return c > 0
		}
		return c < 0
	})

	if q.Limit > 0 && len(matched) > q.Limit {
		matched = matched[:q.Limit]
	}

	result := make([]T, 0, len(matched))
	for _, m := range matched {
		result = append(result, m.item)
	}
	return result, nil
}
