package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/emilythestrangee/stackit/backend/internal/models"
)

// There is no unvote: a voter can switch sides but never go back to neutral.

func (s *QuestionService) UpvoteQuestion(ctx context.Context, id, actorID string) (models.Question, error) {
	return s.voteQuestion(ctx, id, actorID, models.Upvote)
}

func (s *QuestionService) DownvoteQuestion(ctx context.Context, id, actorID string) (models.Question, error) {
	return s.voteQuestion(ctx, id, actorID, models.Downvote)
}

func (s *QuestionService) UpvoteAnswer(ctx context.Context, id, actorID string) (models.Answer, error) {
	return s.voteAnswer(ctx, id, actorID, models.Upvote)
}

func (s *QuestionService) DownvoteAnswer(ctx context.Context, id, actorID string) (models.Answer, error) {
	return s.voteAnswer(ctx, id, actorID, models.Downvote)
}

func (s *QuestionService) voteQuestion(ctx context.Context, id, actorID string, dir models.VoteDirection) (models.Question, error) {
	q, err := s.store.VoteQuestion(ctx, id, actorID, dir)
	if err != nil {
		return models.Question{}, voteError(err, dir, "question")
	}
	return q, nil
}

func (s *QuestionService) voteAnswer(ctx context.Context, id, actorID string, dir models.VoteDirection) (models.Answer, error) {
	a, err := s.store.VoteAnswer(ctx, id, actorID, dir)
	if err != nil {
		return models.Answer{}, voteError(err, dir, "answer")
	}
	return a, nil
}

func voteError(err error, dir models.VoteDirection, target string) error {
	switch {
	case errors.Is(err, models.ErrAlreadyVoted):
		return models.NewError(models.ErrAlreadyVoted, fmt.Sprintf("You have already %sd this %s", dir, target))
	case errors.Is(err, models.ErrNotFound):
		return err
	default:
		return fmt.Errorf("%s %s: %w", dir, target, err)
	}
}
