package services_test

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/emilythestrangee/stackit/backend/internal/models"
)

func TestVoteQuestion_SidesAreExclusive(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	author := e.register(t, "Ada", "ada@example.com")
	voter := e.register(t, "Grace", "grace@example.com")
	q := e.ask(t, author.ID, "go")

	up, err := e.questions.UpvoteQuestion(ctx, q.ID, voter.ID)
	require.NoError(t, err)
	assert.True(t, up.Votes.Has(models.Upvote, voter.ID))
	assert.False(t, up.Votes.Has(models.Downvote, voter.ID))

	down, err := e.questions.DownvoteQuestion(ctx, q.ID, voter.ID)
	require.NoError(t, err)
	assert.False(t, down.Votes.Has(models.Upvote, voter.ID))
	assert.True(t, down.Votes.Has(models.Downvote, voter.ID))
	assert.Equal(t, -1, score(down.Votes))
}

func TestVoteQuestion_RepeatFailsAndLeavesCounts(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	author := e.register(t, "Ada", "ada@example.com")
	q := e.ask(t, author.ID)

	_, err := e.questions.UpvoteQuestion(ctx, q.ID, "voter")
	require.NoError(t, err)

	_, err = e.questions.UpvoteQuestion(ctx, q.ID, "voter")
	require.ErrorIs(t, err, models.ErrAlreadyVoted)
	assert.Equal(t, "You have already upvoted this question", err.Error())

	stored, err := e.store.GetQuestion(ctx, q.ID)
	require.NoError(t, err)
	assert.Len(t, stored.Votes.Upvotes, 1)
	assert.Empty(t, stored.Votes.Downvotes)
}

func TestVoteAnswer(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	author := e.register(t, "Ada", "ada@example.com")
	q := e.ask(t, author.ID)
	a := e.answer(t, q.ID, author.ID)

	down, err := e.questions.DownvoteAnswer(ctx, a.ID, "voter")
	require.NoError(t, err)
	assert.True(t, down.Votes.Has(models.Downvote, "voter"))

	_, err = e.questions.DownvoteAnswer(ctx, a.ID, "voter")
	require.ErrorIs(t, err, models.ErrAlreadyVoted)
	assert.Equal(t, "You have already downvoted this answer", err.Error())

	up, err := e.questions.UpvoteAnswer(ctx, a.ID, "voter")
	require.NoError(t, err)
	assert.Equal(t, 1, score(up.Votes))
}

func TestVote_UnknownTarget(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()

	_, err := e.questions.UpvoteQuestion(ctx, "missing", "voter")
	assert.ErrorIs(t, err, models.ErrQuestionNotFound)

	_, err = e.questions.UpvoteAnswer(ctx, "missing", "voter")
	assert.ErrorIs(t, err, models.ErrAnswerNotFound)
}

func TestVote_ConcurrentIdenticalUpvotesLandOnce(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	author := e.register(t, "Ada", "ada@example.com")
	q := e.ask(t, author.ID)

	var (
		wg      sync.WaitGroup
		mu      sync.Mutex
		ok      int
		already int
	)
	for i := 0; i < 25; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := e.questions.UpvoteQuestion(ctx, q.ID, "voter")
			mu.Lock()
			defer mu.Unlock()
			if err == nil {
				ok++
			} else if assert.ErrorIs(t, err, models.ErrAlreadyVoted) {
				already++
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, 1, ok)
	assert.Equal(t, 24, already)
}
