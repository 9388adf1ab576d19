package services

import (
	"context"
	"time"

	"github.com/emilythestrangee/stackit/backend/internal/models"
)

// QuestionStore persists questions. Lists are newest first.
type QuestionStore interface {
	CreateQuestion(ctx context.Context, q *models.Question) error
	GetQuestion(ctx context.Context, id string) (models.Question, error)
	ListQuestions(ctx context.Context, filter models.QuestionFilter) ([]models.Question, error)
	// SaveQuestion writes the editable fields (title, body, tags, status) and bumps
	// UpdatedAt, then reloads q from storage. Vote sets, reference lists and the
	// accepted answer are owned by their own operations.
	SaveQuestion(ctx context.Context, q *models.Question) error
	// SetAcceptedAnswer changes only the accepted answer and returns the stored question.
	SetAcceptedAnswer(ctx context.Context, questionID, answerID string) (models.Question, error)
	// DeleteQuestion removes the question with its answers and comments in one transaction.
	DeleteQuestion(ctx context.Context, id string) error
	// VoteQuestion records a vote atomically and returns the updated question,
	// models.ErrAlreadyVoted when the vote already exists.
	VoteQuestion(ctx context.Context, id, userID string, dir models.VoteDirection) (models.Question, error)
	TrendingTags(ctx context.Context, limit int) ([]models.TagCount, error)
}

type AnswerStore interface {
	// AddAnswer inserts the answer and appends it to its question in one transaction.
	AddAnswer(ctx context.Context, a *models.Answer) error
	GetAnswer(ctx context.Context, id string) (models.Answer, error)
	ListAnswers(ctx context.Context, ids []string) ([]models.Answer, error)
	VoteAnswer(ctx context.Context, id, userID string, dir models.VoteDirection) (models.Answer, error)
}

type CommentStore interface {
	// AddComment inserts the comment and appends it to its question in one transaction.
	AddComment(ctx context.Context, c *models.Comment) error
	ListComments(ctx context.Context, ids []string) ([]models.Comment, error)
	ListCommentsByQuestion(ctx context.Context, questionID string) ([]models.Comment, error)
}

type UserStore interface {
	CreateUser(ctx context.Context, u *models.User) error
	GetUser(ctx context.Context, id string) (models.User, error)
	GetUserByEmail(ctx context.Context, email string) (models.User, error)
	ListUsers(ctx context.Context, ids []string) ([]models.User, error)
	SearchUsers(ctx context.Context, name string) ([]models.User, error)
	SaveUser(ctx context.Context, u *models.User) error
}

type Store interface {
	QuestionStore
	AnswerStore
	CommentStore
	UserStore
}

// TagCache holds the last trending tags result. Implementations must be safe for concurrent use.
//
// Get also reports the cache generation. Invalidate starts a new one, and Set
// must drop a result whose generation is no longer current.
type TagCache interface {
	Get(ctx context.Context) (tags []models.TagCount, gen int64, ok bool, err error)
	Set(ctx context.Context, gen int64, tags []models.TagCount, ttl time.Duration) error
	Invalidate(ctx context.Context) error
}

// TokenIssuer signs access tokens for authenticated users.
type TokenIssuer interface {
	GenerateAccessToken(userID, email string) (string, error)
}
