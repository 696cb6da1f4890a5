package votes

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type mockVoteRepository struct {
	mock.Mock
}

func (m *mockVoteRepository) Create(ctx context.Context, vote *Vote) error {
	args := m.Called(ctx, vote)
	return args.Error(0)
}

func TestCastVote_Success(t *testing.T) {
	repo := new(mockVoteRepository)
	service := NewService(repo, nil)

	repo.On("Create", mock.Anything, mock.MatchedBy(func(v *Vote) bool {
		return v.UserID == "user-1" && v.PostID == "post-1" && v.Spread == -2
	})).Return(nil)

	vote, err := service.CastVote(context.Background(), "user-1", CastVoteRequest{PostID: " post-1 ", Spread: -2})
	require.NoError(t, err)
	assert.Equal(t, "post-1", vote.PostID)
	assert.False(t, vote.CreatedAt.IsZero())

	_, err = uuid.Parse(vote.ID)
	assert.NoError(t, err, "vote id must be a uuid")
	repo.AssertExpectations(t)
}

func TestCastVote_Validation(t *testing.T) {
	repo := new(mockVoteRepository)
	service := NewService(repo, nil)

	_, err := service.CastVote(context.Background(), "", CastVoteRequest{PostID: "post-1"})
	assert.ErrorIs(t, err, ErrMissingUser)

	_, err = service.CastVote(context.Background(), "user-1", CastVoteRequest{PostID: "  "})
	assert.ErrorIs(t, err, ErrMissingPost)

	repo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestCastVote_RepositoryError(t *testing.T) {
	repo := new(mockVoteRepository)
	service := NewService(repo, nil)

	dbErr := errors.New("connection refused")
	repo.On("Create", mock.Anything, mock.Anything).Return(dbErr)

	vote, err := service.CastVote(context.Background(), "user-1", CastVoteRequest{PostID: "post-1", Spread: 1})
	assert.Nil(t, vote)
	assert.ErrorIs(t, err, dbErr)
}
