package feed

import (
	"context"
	"errors"
	"fmt"

	"Folio/internal/core/posts"
	"Folio/internal/core/votes"
)

const (
	// LowWaterMark is the stack size below which a vote triggers a refill.
	// It is also the size of the initial batch, so two shown candidates are
	// always buffered behind the one being voted on.
	LowWaterMark = 3

	// DefaultMaxStackSize is the stack capacity used when none is configured
	DefaultMaxStackSize = 10
)

// ErrNotOpen is returned when a vote reaches a session that was never opened
var ErrNotOpen = errors.New("feed session not open")

// State of a feed session
type State int

const (
	StateInit State = iota
	StateStreaming
	StateExhausted
)

func (s State) String() string {
	switch s {
	case StateInit:
		return "init"
	case StateStreaming:
		return "streaming"
	case StateExhausted:
		return "exhausted"
	default:
		return "unknown"
	}
}

// Session is the state machine of one feed stream.
// It is owned by a single goroutine and never shared.
type Session struct {
	pool    Pool
	votes   votes.Service
	stack   *Stack
	seen    map[string]struct{}
	emitted map[string]struct{}
	userID  string
	state   State
}

// NewSession creates a session for userID.
// Capacities below LowWaterMark are raised to it.
func NewSession(userID string, pool Pool, voteService votes.Service, capacity int) *Session {
	if capacity < LowWaterMark {
		capacity = LowWaterMark
	}
	return &Session{
		pool:    pool,
		votes:   voteService,
		stack:   NewStack(capacity),
		seen:    make(map[string]struct{}),
		emitted: make(map[string]struct{}),
		userID:  userID,
		state:   StateInit,
	}
}

// State reports the current state of the session
func (s *Session) State() State {
	return s.state
}

// Stack exposes the working set for inspection
func (s *Session) Stack() *Stack {
	return s.stack
}

// Open fills the stack and returns the initial batch of up to LowWaterMark
// candidates. Opening twice returns nothing the second time.
func (s *Session) Open(ctx context.Context) ([]*posts.Post, error) {
	if s.state != StateInit {
		return nil, nil
	}

	if err := s.refill(ctx); err != nil {
		return nil, err
	}
	s.state = StateStreaming

	n := min(LowWaterMark, s.stack.Len())
	batch := make([]*posts.Post, 0, n)
	for i := 0; i < n; i++ {
		if p := s.reveal(i); p != nil {
			batch = append(batch, p)
		}
	}
	return batch, nil
}

// Vote records a vote and returns the newly revealed candidate, or nil when
// the vote reveals nothing.
func (s *Session) Vote(ctx context.Context, req votes.CastVoteRequest) (*posts.Post, error) {
	if s.state == StateInit {
		return nil, ErrNotOpen
	}

	if _, err := s.votes.CastVote(ctx, s.userID, req); err != nil {
		return nil, err
	}

	s.stack.Remove(req.PostID)
	s.seen[req.PostID] = struct{}{}

	if s.stack.Len() >= LowWaterMark {
		return s.reveal(LowWaterMark - 1), nil
	}
	if s.state == StateExhausted {
		return nil, nil
	}

	if err := s.refill(ctx); err != nil {
		return nil, err
	}
	if s.stack.Len() < s.stack.Capacity() {
		s.state = StateExhausted
	}

	n := s.stack.Len()
	if n == 0 {
		return nil, nil
	}
	if n < LowWaterMark {
		return s.reveal(n - 1), nil
	}
	return s.reveal(LowWaterMark - 1), nil
}

// refill tops the stack up from the pool with ids this session has not seen
func (s *Session) refill(ctx context.Context) error {
	free := s.stack.Free()
	if free <= 0 {
		return nil
	}

	exclude := make([]string, 0, len(s.seen))
	for id := range s.seen {
		exclude = append(exclude, id)
	}

	candidates, err := s.pool.Rank(ctx, s.userID, exclude, free)
	if err != nil {
		return fmt.Errorf("refill feed stack: %w", err)
	}

	fresh := make([]*posts.Post, 0, len(candidates))
	for _, p := range candidates {
		if p == nil {
			continue
		}
		if _, ok := s.seen[p.ID]; ok {
			continue
		}
		fresh = append(fresh, p)
	}

	for _, p := range s.stack.Append(fresh...) {
		s.seen[p.ID] = struct{}{}
	}
	return nil
}

// reveal returns the candidate at rank i unless it was already emitted
func (s *Session) reveal(i int) *posts.Post {
	if i < 0 || i >= s.stack.Len() {
		return nil
	}
	p := s.stack.At(i)
	if _, ok := s.emitted[p.ID]; ok {
		return nil
	}
	s.emitted[p.ID] = struct{}{}
	return p
}
