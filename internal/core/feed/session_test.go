package feed

import (
	"context"
	"errors"
	"fmt"
	"io"
	"math/rand"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"Folio/internal/core/posts"
	"Folio/internal/core/votes"
)

// rankedPool serves candidates in a fixed rank order
type rankedPool struct {
	err   error
	items []*posts.Post
	calls []int
}

func (p *rankedPool) Rank(_ context.Context, _ string, exclude []string, limit int) ([]*posts.Post, error) {
	p.calls = append(p.calls, limit)
	if p.err != nil {
		return nil, p.err
	}

	skip := make(map[string]bool, len(exclude))
	for _, id := range exclude {
		skip[id] = true
	}

	var out []*posts.Post
	for _, item := range p.items {
		if len(out) == limit {
			break
		}
		if !skip[item.ID] {
			out = append(out, item)
		}
	}
	return out, nil
}

type recordingVotes struct {
	err  error
	cast []votes.CastVoteRequest
}

func (v *recordingVotes) CastVote(_ context.Context, userID string, req votes.CastVoteRequest) (*votes.Vote, error) {
	if v.err != nil {
		return nil, v.err
	}
	v.cast = append(v.cast, req)
	return &votes.Vote{UserID: userID, PostID: req.PostID, Spread: req.Spread}, nil
}

func candidates(n int) []*posts.Post {
	base := time.Date(2024, 4, 1, 0, 0, 0, 0, time.UTC)
	out := make([]*posts.Post, 0, n)
	for i := 0; i < n; i++ {
		published := base.Add(time.Duration(i) * time.Minute)
		out = append(out, &posts.Post{ID: fmt.Sprintf("p%d", i), CreatedAt: base, PublishedAt: &published})
	}
	return out
}

func postIDs(items []*posts.Post) []string {
	out := make([]string, 0, len(items))
	for _, p := range items {
		out = append(out, p.ID)
	}
	return out
}

func vote(t *testing.T, s *Session, id string) *posts.Post {
	t.Helper()
	revealed, err := s.Vote(context.Background(), votes.CastVoteRequest{PostID: id, Spread: 1})
	require.NoError(t, err)
	return revealed
}

func TestSession_TenItemsCapacityFive(t *testing.T) {
	pool := &rankedPool{items: candidates(10)}
	s := NewSession("u1", pool, &recordingVotes{}, 5)

	batch, err := s.Open(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"p0", "p1", "p2"}, postIDs(batch))
	assert.Equal(t, StateStreaming, s.State())

	revealed := vote(t, s, "p0")
	require.NotNil(t, revealed)
	assert.Equal(t, "p3", revealed.ID)
	assert.Equal(t, []string{"p1", "p2", "p3", "p4"}, s.Stack().IDs())

	revealed = vote(t, s, "p1")
	require.NotNil(t, revealed)
	assert.Equal(t, "p4", revealed.ID)
	assert.Equal(t, []string{"p2", "p3", "p4"}, s.Stack().IDs())
	assert.Len(t, pool.calls, 1, "no refill while the stack holds the low-water mark")

	revealed = vote(t, s, "p2")
	require.NotNil(t, revealed)
	assert.Equal(t, "p5", revealed.ID)
	assert.Equal(t, []string{"p3", "p4", "p5", "p6", "p7"}, s.Stack().IDs())
	assert.Equal(t, StateStreaming, s.State(), "a full refill does not exhaust the pool")
	assert.Equal(t, []int{5, 3}, pool.calls)
}

func TestSession_Lookahead(t *testing.T) {
	pool := &rankedPool{items: candidates(4)}
	s := NewSession("u1", pool, &recordingVotes{}, 10)

	batch, err := s.Open(context.Background())
	require.NoError(t, err)
	require.Len(t, batch, 3)

	revealed := vote(t, s, batch[0].ID)
	require.NotNil(t, revealed)
	assert.Equal(t, "p3", revealed.ID)
	assert.Len(t, pool.calls, 1)
}

func TestSession_Exhaustion(t *testing.T) {
	pool := &rankedPool{items: candidates(4)}
	s := NewSession("u1", pool, &recordingVotes{}, 5)

	_, err := s.Open(context.Background())
	require.NoError(t, err)

	assert.Equal(t, "p3", vote(t, s, "p0").ID)

	// refill finds nothing new and the last candidate is already shown
	assert.Nil(t, vote(t, s, "p1"))
	assert.Equal(t, StateExhausted, s.State())
	assert.Len(t, pool.calls, 2)

	assert.Nil(t, vote(t, s, "p2"))
	assert.Nil(t, vote(t, s, "p3"))
	assert.Nil(t, vote(t, s, "p3"))
	assert.Equal(t, 0, s.Stack().Len())
	assert.Len(t, pool.calls, 2, "exhausted sessions never refill")
}

func TestSession_SmallPool(t *testing.T) {
	pool := &rankedPool{items: candidates(2)}
	s := NewSession("u1", pool, &recordingVotes{}, 5)

	batch, err := s.Open(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"p0", "p1"}, postIDs(batch))

	assert.Nil(t, vote(t, s, "p0"))
	assert.Equal(t, StateExhausted, s.State())
}

func TestSession_EmptyPool(t *testing.T) {
	s := NewSession("u1", &rankedPool{}, &recordingVotes{}, 5)

	batch, err := s.Open(context.Background())
	require.NoError(t, err)
	assert.Empty(t, batch)

	assert.Nil(t, vote(t, s, "anything"))
	assert.Equal(t, StateExhausted, s.State())
}

func TestSession_UnknownTargetAccepted(t *testing.T) {
	recorder := &recordingVotes{}
	s := NewSession("u1", &rankedPool{items: candidates(10)}, recorder, 5)

	_, err := s.Open(context.Background())
	require.NoError(t, err)

	assert.Nil(t, vote(t, s, "expired"), "window unchanged, index 2 already shown")
	assert.Equal(t, []string{"p0", "p1", "p2", "p3", "p4"}, s.Stack().IDs())
	require.Len(t, recorder.cast, 1)
	assert.Equal(t, "expired", recorder.cast[0].PostID)
}

func TestSession_NeverRepeats(t *testing.T) {
	rng := rand.New(rand.NewSource(42))

	for round := 0; round < 20; round++ {
		pool := &rankedPool{items: candidates(60)}
		s := NewSession("u1", pool, &recordingVotes{}, 3+rng.Intn(8))

		emitted := map[string]int{}
		batch, err := s.Open(context.Background())
		require.NoError(t, err)
		for _, p := range batch {
			emitted[p.ID]++
		}

		for i := 0; i < 120; i++ {
			var target string
			switch held := s.Stack().IDs(); {
			case len(held) == 0 || rng.Intn(10) == 0:
				target = fmt.Sprintf("p%d", rng.Intn(60))
			default:
				target = held[rng.Intn(min(len(held), LowWaterMark))]
			}
			if p := vote(t, s, target); p != nil {
				emitted[p.ID]++
			}
		}

		for id, count := range emitted {
			assert.Equal(t, 1, count, "round %d emitted %s more than once", round, id)
		}
	}
}

func TestSession_VoteBeforeOpen(t *testing.T) {
	s := NewSession("u1", &rankedPool{}, &recordingVotes{}, 5)
	_, err := s.Vote(context.Background(), votes.CastVoteRequest{PostID: "p0"})
	assert.ErrorIs(t, err, ErrNotOpen)
}

func TestSession_CapacityFloor(t *testing.T) {
	s := NewSession("u1", &rankedPool{}, &recordingVotes{}, 1)
	assert.Equal(t, LowWaterMark, s.Stack().Capacity())
}

func TestSession_Errors(t *testing.T) {
	poolErr := errors.New("pool offline")
	s := NewSession("u1", &rankedPool{err: poolErr}, &recordingVotes{}, 5)
	_, err := s.Open(context.Background())
	assert.ErrorIs(t, err, poolErr)

	voteErr := errors.New("votes table locked")
	s = NewSession("u1", &rankedPool{items: candidates(5)}, &recordingVotes{err: voteErr}, 5)
	_, err = s.Open(context.Background())
	require.NoError(t, err)
	_, err = s.Vote(context.Background(), votes.CastVoteRequest{PostID: "p0"})
	assert.ErrorIs(t, err, voteErr)
	assert.True(t, s.Stack().Contains("p0"), "failed votes leave the stack alone")
}

type voteStream struct {
	votes []votes.CastVoteRequest
	sent  []*posts.PostView
}

func (s *voteStream) Recv() (votes.CastVoteRequest, error) {
	if len(s.votes) == 0 {
		return votes.CastVoteRequest{}, io.EOF
	}
	v := s.votes[0]
	s.votes = s.votes[1:]
	return v, nil
}

func (s *voteStream) Send(view *posts.PostView) error {
	s.sent = append(s.sent, view)
	return nil
}

func TestListFeed(t *testing.T) {
	stream := &voteStream{votes: []votes.CastVoteRequest{
		{PostID: "p0", Spread: 2},
		{PostID: "p1", Spread: -1},
	}}

	service := NewFeedService(&rankedPool{items: candidates(10)}, &recordingVotes{}, 5, nil)
	require.NoError(t, service.ListFeed(context.Background(), "u1", stream))

	ids := make([]string, 0, len(stream.sent))
	for _, v := range stream.sent {
		ids = append(ids, v.ID)
		assert.False(t, v.IsPreview)
	}
	assert.Equal(t, []string{"p0", "p1", "p2", "p3", "p4"}, ids)
}

func TestListFeed_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	stream := &voteStream{}
	err := NewFeedService(&rankedPool{items: candidates(3)}, &recordingVotes{}, 0, nil).ListFeed(ctx, "u1", stream)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Empty(t, stream.sent)
}
