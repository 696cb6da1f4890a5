package pagination

import (
	"context"
	"errors"
	"fmt"
	"io"
)

// DefaultMaxPageSize bounds the size negotiated by the first request
const DefaultMaxPageSize = 50

// PageRequest is one inbound message of a pagination stream.
// Only the first request of a stream carries Size; sizes on later requests
// are ignored. ContextID names the parent collection for listings that need
// one (comments of a post) and is only read from the first request.
type PageRequest struct {
	Size      *int    `json:"size,omitempty"`
	Cursor    *Cursor `json:"cursor,omitempty"`
	ContextID string  `json:"context_id,omitempty"`
	Forward   bool    `json:"forward"`
}

// Page is one outbound message of a pagination stream.
// Previous is empty iff the page is the first of its traversal;
// Next is empty iff it is the last.
type Page[T any] struct {
	Items    []T    `json:"items"`
	Previous Cursor `json:"previous"`
	Next     Cursor `json:"next"`
}

// State of a Paginator
type State int

const (
	StateAwaitingFirstRequest State = iota
	StateServing
	StateClosed
)

// ItemsHook runs on every non-empty page after it is computed and before it is sent
type ItemsHook[T any] func(ctx context.Context, items []T) error

// Paginator serves one pagination stream over a source ordered by an adapter.
// It is a single-goroutine state machine advanced by Step; it holds no state
// shared with other calls.
type Paginator[T any] struct {
	source  Source[T]
	adapter Adapter[T]
	onItems ItemsHook[T]
	maxSize int
	size    int
	state   State
}

// New creates a paginator. A maxSize below 1 falls back to DefaultMaxPageSize.
func New[T any](source Source[T], adapter Adapter[T], maxSize int) *Paginator[T] {
	if maxSize < 1 {
		maxSize = DefaultMaxPageSize
	}
	return &Paginator[T]{
		source:  source,
		adapter: adapter,
		maxSize: maxSize,
		state:   StateAwaitingFirstRequest,
	}
}

// WithOnItems sets the hook run on every non-empty page
func (p *Paginator[T]) WithOnItems(hook ItemsHook[T]) *Paginator[T] {
	p.onItems = hook
	return p
}

// State reports the current state of the paginator
func (p *Paginator[T]) State() State {
	return p.state
}

// Close moves the paginator to its terminal state
func (p *Paginator[T]) Close() {
	p.state = StateClosed
}

// Step answers one page request
func (p *Paginator[T]) Step(ctx context.Context, req PageRequest) (*Page[T], error) {
	var (
		page *Page[T]
		err  error
	)

	switch p.state {
	case StateClosed:
		return nil, ErrClosed

	case StateAwaitingFirstRequest:
		if req.Size == nil {
			return nil, NewInvalidArgument(ReasonMissingInitialSize)
		}
		if *req.Size < 1 || *req.Size > p.maxSize {
			return nil, NewInvalidArgument(ReasonInvalidSize)
		}
		p.size = *req.Size
		p.state = StateServing
		page, err = p.first(ctx, req.Forward)

	default:
		var cursor Cursor
		if req.Cursor != nil {
			cursor = *req.Cursor
		}

		predicate, decodeErr := p.adapter.Decode(cursor)
		if decodeErr != nil {
			return nil, decodeErr
		}

		switch predicate.Side {
		case SideAfter:
			page, err = p.after(ctx, req.Forward, predicate.Key)
		case SideBefore:
			page, err = p.before(ctx, req.Forward, predicate.Key)
		default:
			page, err = p.first(ctx, req.Forward)
		}
	}

	if err != nil {
		return nil, err
	}

	if len(page.Items) > 0 && p.onItems != nil {
		if err := p.onItems(ctx, page.Items); err != nil {
			return nil, err
		}
	}

	return page, nil
}

// Serve drives the paginator from a stream until the client stops sending.
// Exactly one page is sent per request, in request order.
func (p *Paginator[T]) Serve(ctx context.Context, stream Stream[PageRequest, *Page[T]]) error {
	defer p.Close()

	for {
		if err := ctx.Err(); err != nil {
			return err
		}

		req, err := stream.Recv()
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			return err
		}

		page, err := p.Step(ctx, req)
		if err != nil {
			return err
		}

		if err := ctx.Err(); err != nil {
			return err
		}
		if err := stream.Send(page); err != nil {
			return err
		}
	}
}

// first returns the opening page of a traversal
func (p *Paginator[T]) first(ctx context.Context, forward bool) (*Page[T], error) {
	items, err := p.fetch(ctx, forward, nil, p.size+1)
	if err != nil {
		return nil, err
	}

	page := &Page[T]{}
	if len(items) > p.size {
		items = items[:p.size]
		page.Next = p.adapter.Encode(items[len(items)-1], SideAfter)
	}
	page.Items = items
	return page, nil
}

// after returns the page that follows boundary in the traversal
func (p *Paginator[T]) after(ctx context.Context, forward bool, boundary Key) (*Page[T], error) {
	items, err := p.fetch(ctx, forward, &boundary, p.size+1)
	if err != nil {
		return nil, err
	}
	if len(items) == 0 {
		return &Page[T]{Items: items}, nil
	}

	page := &Page[T]{}
	if len(items) > p.size {
		items = items[:p.size]
		page.Next = p.adapter.Encode(items[len(items)-1], SideAfter)
	}
	page.Items = items

	more, err := p.exists(ctx, !forward, items[0])
	if err != nil {
		return nil, err
	}
	if more {
		page.Previous = p.adapter.Encode(items[0], SideBefore)
	}
	return page, nil
}

// before returns the page that precedes boundary in the traversal.
// It reads toward the start of the traversal and flips the result back.
func (p *Paginator[T]) before(ctx context.Context, forward bool, boundary Key) (*Page[T], error) {
	items, err := p.fetch(ctx, !forward, &boundary, p.size+1)
	if err != nil {
		return nil, err
	}
	if len(items) == 0 {
		return &Page[T]{Items: items}, nil
	}

	hasPrevious := len(items) > p.size
	if hasPrevious {
		items = items[:p.size]
	}
	reverse(items)

	page := &Page[T]{Items: items}
	if hasPrevious {
		page.Previous = p.adapter.Encode(items[0], SideBefore)
	}

	more, err := p.exists(ctx, forward, items[len(items)-1])
	if err != nil {
		return nil, err
	}
	if more {
		page.Next = p.adapter.Encode(items[len(items)-1], SideAfter)
	}
	return page, nil
}

// exists reports whether any item lies beyond item when reading in the given
// direction (descending when desc is true)
func (p *Paginator[T]) exists(ctx context.Context, desc bool, item T) (bool, error) {
	key, ok := p.adapter.Key(item)
	if !ok {
		return false, nil
	}
	items, err := p.fetch(ctx, desc, &key, 1)
	if err != nil {
		return false, err
	}
	return len(items) > 0, nil
}

func (p *Paginator[T]) fetch(ctx context.Context, desc bool, boundary *Key, limit int) ([]T, error) {
	items, err := p.source.Fetch(ctx, Query{
		Ordering:   p.adapter.Ordering(),
		Descending: desc,
		Boundary:   boundary,
		Limit:      limit,
	})
	if err != nil {
		return nil, fmt.Errorf("fetch page: %w", err)
	}
	return items, nil
}

func reverse[T any](items []T) {
	for i, j := 0, len(items)-1; i < j; i, j = i+1, j-1 {
		items[i], items[j] = items[j], items[i]
	}
}
