package memory

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/emilythestrangee/stackit/backend/internal/models"
)

// Store keeps every document in maps behind one lock, so multi-document
// mutations are all-or-nothing just like a database transaction.
type Store struct {
	mu        sync.RWMutex
	users     map[string]models.User
	questions map[string]models.Question
	answers   map[string]models.Answer
	comments  map[string]models.Comment
	now       func() time.Time
}

func NewStore() *Store {
	return &Store{
		users:     make(map[string]models.User),
		questions: make(map[string]models.Question),
		answers:   make(map[string]models.Answer),
		comments:  make(map[string]models.Comment),
		now:       func() time.Time { return time.Now().UTC() },
	}
}

// Ping always succeeds; it satisfies the health check contract.
func (s *Store) Ping(ctx context.Context) error {
	return ctx.Err()
}

// Users

func (s *Store) CreateUser(ctx context.Context, u *models.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, existing := range s.users {
		if existing.Email == u.Email {
			return models.ErrEmailTaken
		}
	}

	s.users[u.ID] = *u
	return nil
}

func (s *Store) GetUser(ctx context.Context, id string) (models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	u, ok := s.users[id]
	if !ok {
		return models.User{}, models.ErrUserNotFound
	}
	return u, nil
}

func (s *Store) GetUserByEmail(ctx context.Context, email string) (models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, u := range s.users {
		if u.Email == email {
			return u, nil
		}
	}
	return models.User{}, models.ErrUserNotFound
}

func (s *Store) ListUsers(ctx context.Context, ids []string) ([]models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]models.User, 0, len(ids))
	for _, id := range ids {
		if u, ok := s.users[id]; ok {
			out = append(out, u)
		}
	}
	return out, nil
}

func (s *Store) SearchUsers(ctx context.Context, name string) ([]models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	needle := strings.ToLower(name)
	out := make([]models.User, 0)
	for _, u := range s.users {
		if strings.Contains(strings.ToLower(u.Name), needle) {
			out = append(out, u)
		}
	}

	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out, nil
}

func (s *Store) SaveUser(ctx context.Context, u *models.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.users[u.ID]; !ok {
		return models.ErrUserNotFound
	}

	for id, existing := range s.users {
		if id != u.ID && existing.Email == u.Email {
			return models.ErrEmailTaken
		}
	}

	s.users[u.ID] = *u
	return nil
}

// Questions

func (s *Store) CreateQuestion(ctx context.Context, q *models.Question) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.questions[q.ID] = q.Clone()
	return nil
}

func (s *Store) GetQuestion(ctx context.Context, id string) (models.Question, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	q, ok := s.questions[id]
	if !ok {
		return models.Question{}, models.ErrQuestionNotFound
	}
	return q.Clone(), nil
}

func (s *Store) ListQuestions(ctx context.Context, filter models.QuestionFilter) ([]models.Question, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]models.Question, 0, len(s.questions))
	for _, q := range s.questions {
		if filter.AuthorID != "" && q.AuthorID != filter.AuthorID {
			continue
		}
		out = append(out, q.Clone())
	}

	sort.Slice(out, func(i, j int) bool {
		if out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].ID > out[j].ID
		}
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out, nil
}

func (s *Store) SaveQuestion(ctx context.Context, q *models.Question) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	stored, ok := s.questions[q.ID]
	if !ok {
		return models.ErrQuestionNotFound
	}

	next := q.Clone()
	stored.Title = next.Title
	stored.Body = next.Body
	stored.Tags = next.Tags
	stored.Status = next.Status
	stored.UpdatedAt = next.UpdatedAt
	if stored.UpdatedAt.IsZero() {
		stored.UpdatedAt = s.now()
	}
	s.questions[q.ID] = stored

	*q = stored.Clone()
	return nil
}

func (s *Store) SetAcceptedAnswer(ctx context.Context, questionID, answerID string) (models.Question, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	q, ok := s.questions[questionID]
	if !ok {
		return models.Question{}, models.ErrQuestionNotFound
	}

	q = q.Clone()
	id := answerID
	q.AcceptedAnswerID = &id
	q.UpdatedAt = s.now()
	s.questions[questionID] = q

	return q.Clone(), nil
}

func (s *Store) DeleteQuestion(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.questions[id]; !ok {
		return models.ErrQuestionNotFound
	}

	for aid, a := range s.answers {
		if a.QuestionID == id {
			delete(s.answers, aid)
		}
	}
	for cid, c := range s.comments {
		if c.QuestionID == id {
			delete(s.comments, cid)
		}
	}
	delete(s.questions, id)
	return nil
}

func (s *Store) VoteQuestion(ctx context.Context, id, userID string, dir models.VoteDirection) (models.Question, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	q, ok := s.questions[id]
	if !ok {
		return models.Question{}, models.ErrQuestionNotFound
	}

	q = q.Clone()
	if !q.Votes.Cast(dir, userID) {
		return models.Question{}, models.ErrAlreadyVoted
	}
	q.UpdatedAt = s.now()
	s.questions[id] = q

	return q.Clone(), nil
}

// TrendingTags counts every tag occurrence. Ties are broken by tag so the order is stable.
func (s *Store) TrendingTags(ctx context.Context, limit int) ([]models.TagCount, error) {
	s.mu.RLock()
	counts := make(map[string]int)
	for _, q := range s.questions {
		for _, t := range q.Tags {
			counts[t]++
		}
	}
	s.mu.RUnlock()

	out := make([]models.TagCount, 0, len(counts))
	for tag, n := range counts {
		out = append(out, models.TagCount{Tag: tag, Count: n})
	}

	sort.Slice(out, func(i, j int) bool {
		if out[i].Count == out[j].Count {
			return out[i].Tag < out[j].Tag
		}
		return out[i].Count > out[j].Count
	})

	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

// Answers

func (s *Store) AddAnswer(ctx context.Context, a *models.Answer) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	q, ok := s.questions[a.QuestionID]
	if !ok {
		return models.ErrQuestionNotFound
	}

	s.answers[a.ID] = a.Clone()

	q = q.Clone()
	q.AnswerIDs = append(q.AnswerIDs, a.ID)
	q.UpdatedAt = s.now()
	s.questions[q.ID] = q
	return nil
}

func (s *Store) GetAnswer(ctx context.Context, id string) (models.Answer, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	a, ok := s.answers[id]
	if !ok {
		return models.Answer{}, models.ErrAnswerNotFound
	}
	return a.Clone(), nil
}

func (s *Store) ListAnswers(ctx context.Context, ids []string) ([]models.Answer, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]models.Answer, 0, len(ids))
	for _, id := range ids {
		if a, ok := s.answers[id]; ok {
			out = append(out, a.Clone())
		}
	}
	return out, nil
}

func (s *Store) VoteAnswer(ctx context.Context, id, userID string, dir models.VoteDirection) (models.Answer, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	a, ok := s.answers[id]
	if !ok {
		return models.Answer{}, models.ErrAnswerNotFound
	}

	a = a.Clone()
	if !a.Votes.Cast(dir, userID) {
		return models.Answer{}, models.ErrAlreadyVoted
	}
	a.UpdatedAt = s.now()
	s.answers[id] = a

	return a.Clone(), nil
}

// Comments

func (s *Store) AddComment(ctx context.Context, c *models.Comment) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	q, ok := s.questions[c.QuestionID]
	if !ok {
		return models.ErrQuestionNotFound
	}

	s.comments[c.ID] = *c

	q = q.Clone()
	q.CommentIDs = append(q.CommentIDs, c.ID)
	q.UpdatedAt = s.now()
	s.questions[q.ID] = q
	return nil
}

func (s *Store) ListComments(ctx context.Context, ids []string) ([]models.Comment, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]models.Comment, 0, len(ids))
	for _, id := range ids {
		if c, ok := s.comments[id]; ok {
			out = append(out, c)
		}
	}
	return out, nil
}

func (s *Store) ListCommentsByQuestion(ctx context.Context, questionID string) ([]models.Comment, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]models.Comment, 0)
	for _, c := range s.comments {
		if c.QuestionID == questionID {
			out = append(out, c)
		}
	}

	sort.Slice(out, func(i, j int) bool {
		if out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].ID < out[j].ID
		}
		return out[i].CreatedAt.Before(out[j].CreatedAt)
	})
	return out, nil
}
