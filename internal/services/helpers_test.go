package services_test

import (
	"context"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/emilythestrangee/stackit/backend/internal/auth"
	"github.com/emilythestrangee/stackit/backend/internal/models"
	"github.com/emilythestrangee/stackit/backend/internal/repo/memory"
	"github.com/emilythestrangee/stackit/backend/internal/security"
	"github.com/emilythestrangee/stackit/backend/internal/services"
)

func init() {
	security.Cost = bcrypt.MinCost
}

type env struct {
	store     *memory.Store
	questions *services.QuestionService
	users     *services.UserService
	tokens    *auth.Manager
}

func newEnv(t *testing.T, opts ...services.QuestionServiceOption) *env {
	t.Helper()

	store := memory.NewStore()
	tokens := auth.NewManager("test-secret", time.Hour)
	questions := services.NewQuestionService(store, zerolog.Nop(), opts...)
	users := services.NewUserService(store, questions, tokens, zerolog.Nop())

	return &env{store: store, questions: questions, users: users, tokens: tokens}
}

func (e *env) register(t *testing.T, name, email string) models.User {
	t.Helper()

	res, err := e.users.Register(context.Background(), models.RegisterRequest{
		Name:     name,
		Email:    email,
		Password: "secret123",
	})
	require.NoError(t, err)
	return res.User
}

func (e *env) ask(t *testing.T, authorID string, tags ...string) models.Question {
	t.Helper()

	q, err := e.questions.CreateQuestion(context.Background(), authorID, models.CreateQuestionRequest{
		Title: "How do I write idiomatic Go?",
		Body:  "Looking for advice.",
		Tags:  tags,
	})
	require.NoError(t, err)
	return q
}

func (e *env) answer(t *testing.T, questionID, authorID string) models.Answer {
	t.Helper()

	a, err := e.questions.AddAnswer(context.Background(), questionID, authorID, models.CreateAnswerRequest{Body: "Read the standard library."})
	require.NoError(t, err)
	return a
}

func score(v models.Votes) int {
	return len(v.Upvotes) - len(v.Downvotes)
}

// countingCache is a generational TagCache that records calls.
type countingCache struct {
	tags        []models.TagCount
	ok          bool
	gen         int64
	getErr      error
	gets        int
	sets        int
	invalidates int
}

func (c *countingCache) Get(ctx context.Context) ([]models.TagCount, int64, bool, error) {
	c.gets++
	if c.getErr != nil {
		return nil, 0, false, c.getErr
	}
	return c.tags, c.gen, c.ok, nil
}

func (c *countingCache) Set(ctx context.Context, gen int64, tags []models.TagCount, ttl time.Duration) error {
	if gen != c.gen {
		return nil
	}
	c.sets++
	c.tags, c.ok = tags, true
	return nil
}

func (c *countingCache) Invalidate(ctx context.Context) error {
	c.invalidates++
	c.gen++
	c.tags, c.ok = nil, false
	return nil
}

// hookStore runs a one-shot callback right after selected reads return,
// so a test can commit a write between a service's read and its write.
type hookStore struct {
	*memory.Store
	afterGetQuestion func()
	afterTrending    func()
}

func newHookStore() *hookStore {
	return &hookStore{Store: memory.NewStore()}
}

func (s *hookStore) GetQuestion(ctx context.Context, id string) (models.Question, error) {
	q, err := s.Store.GetQuestion(ctx, id)
	if f := s.afterGetQuestion; f != nil {
		s.afterGetQuestion = nil
		f()
	}
	return q, err
}

func (s *hookStore) TrendingTags(ctx context.Context, limit int) ([]models.TagCount, error) {
	tags, err := s.Store.TrendingTags(ctx, limit)
	if f := s.afterTrending; f != nil {
		s.afterTrending = nil
		f()
	}
	return tags, err
}
