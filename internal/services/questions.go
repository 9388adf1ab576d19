package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/rs/zerolog"

	"github.com/emilythestrangee/stackit/backend/internal/models"
)

const defaultTrendingTTL = 30 * time.Second

// QuestionService owns the question lifecycle: questions, answers, comments,
// votes and the trending tags feed.
type QuestionService struct {
	store       Store
	cache       TagCache
	trendingTTL time.Duration
	validate    *validator.Validate
	log         zerolog.Logger
	now         func() time.Time
}

type QuestionServiceOption func(*QuestionService)

// WithTagCache fronts TrendingTags with cache for ttl.
func WithTagCache(cache TagCache, ttl time.Duration) QuestionServiceOption {
	return func(s *QuestionService) {
		s.cache = cache
		if ttl > 0 {
			s.trendingTTL = ttl
		}
	}
}

func WithClock(now func() time.Time) QuestionServiceOption {
	return func(s *QuestionService) { s.now = now }
}

func NewQuestionService(store Store, log zerolog.Logger, opts ...QuestionServiceOption) *QuestionService {
	s := &QuestionService{
		store:       store,
		trendingTTL: defaultTrendingTTL,
		validate:    validator.New(),
		log:         log.With().Str("component", "questions").Logger(),
		now:         func() time.Time { return time.Now().UTC() },
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// CreateQuestion stores a new open question with no votes, answers or comments.
// Tags are kept as given apart from surrounding whitespace.
func (s *QuestionService) CreateQuestion(ctx context.Context, actorID string, req models.CreateQuestionRequest) (models.Question, error) {
	now := s.now()
	q := models.Question{
		ID:         uuid.NewString(),
		Title:      strings.TrimSpace(req.Title),
		Body:       req.Body,
		Tags:       trimTags(req.Tags),
		AuthorID:   actorID,
		Status:     models.StatusOpen,
		Votes:      models.NewVotes(),
		AnswerIDs:  pq.StringArray{},
		CommentIDs: pq.StringArray{},
		CreatedAt:  now,
		UpdatedAt:  now,
	}

	if err := s.validateQuestion(q); err != nil {
		return models.Question{}, err
	}

	if err := s.store.CreateQuestion(ctx, &q); err != nil {
		return models.Question{}, fmt.Errorf("create question: %w", err)
	}

	s.invalidateTrending(ctx)
	return q, nil
}

// ListQuestions returns the feed, newest first, with authors and comments resolved.
func (s *QuestionService) ListQuestions(ctx context.Context) ([]models.QuestionSummary, error) {
	return s.listSummaries(ctx, models.QuestionFilter{})
}

// GetQuestion returns one fully resolved question.
func (s *QuestionService) GetQuestion(ctx context.Context, id string) (models.QuestionDetail, error) {
	q, err := s.store.GetQuestion(ctx, id)
	if err != nil {
		return models.QuestionDetail{}, err
	}

	answers, err := s.store.ListAnswers(ctx, q.AnswerIDs)
	if err != nil {
		return models.QuestionDetail{}, fmt.Errorf("load answers: %w", err)
	}
	answers = orderByIDs(answers, q.AnswerIDs, func(a models.Answer) string { return a.ID })

	var accepted *models.Answer
	if q.AcceptedAnswerID != nil {
		for i := range answers {
			if answers[i].ID == *q.AcceptedAnswerID {
				accepted = &answers[i]
				break
			}
		}
		if accepted == nil {
			a, err := s.store.GetAnswer(ctx, *q.AcceptedAnswerID)
			switch {
			case err == nil:
				accepted = &a
			case !errors.Is(err, models.ErrNotFound):
				return models.QuestionDetail{}, fmt.Errorf("load accepted answer: %w", err)
			}
		}
	}

	comments, err := s.store.ListComments(ctx, q.CommentIDs)
	if err != nil {
		return models.QuestionDetail{}, fmt.Errorf("load comments: %w", err)
	}
	comments = orderByIDs(comments, q.CommentIDs, func(c models.Comment) string { return c.ID })

	authorIDs := []string{q.AuthorID}
	for _, a := range answers {
		authorIDs = append(authorIDs, a.AuthorID)
	}
	for _, c := range comments {
		authorIDs = append(authorIDs, c.AuthorID)
	}
	if accepted != nil {
		authorIDs = append(authorIDs, accepted.AuthorID)
	}

	authors, err := s.resolveAuthors(ctx, authorIDs)
	if err != nil {
		return models.QuestionDetail{}, err
	}

	detail := models.QuestionDetail{
		QuestionCore: questionCore(q, authors, comments),
		Answers:      make([]models.AnswerView, 0, len(answers)),
	}
	for _, a := range answers {
		detail.Answers = append(detail.Answers, models.NewAnswerView(a, authors.ref(a.AuthorID)))
	}
	if accepted != nil {
		v := models.NewAnswerView(*accepted, authors.ref(accepted.AuthorID))
		detail.AcceptedAnswer = &v
	}

	return detail, nil
}

// UpdateQuestion applies patch when actorID authored the question. The patched
// document is validated as a whole before anything is written.
func (s *QuestionService) UpdateQuestion(ctx context.Context, id, actorID string, patch models.UpdateQuestionRequest) (models.Question, error) {
	q, err := s.store.GetQuestion(ctx, id)
	if err != nil {
		return models.Question{}, err
	}

	if q.AuthorID != actorID {
		return models.Question{}, models.NewError(models.ErrForbidden, "Not authorized to update this question")
	}

	if patch.Title != nil {
		q.Title = strings.TrimSpace(*patch.Title)
	}
	if patch.Body != nil {
		q.Body = *patch.Body
	}
	if patch.Tags != nil {
		q.Tags = trimTags(patch.Tags)
	}
	if patch.Status != nil {
		q.Status = *patch.Status
	}
	q.UpdatedAt = s.now()

	if err := s.validateQuestion(q); err != nil {
		return models.Question{}, err
	}

	if err := s.store.SaveQuestion(ctx, &q); err != nil {
		if errors.Is(err, models.ErrNotFound) {
			return models.Question{}, err
		}
		return models.Question{}, fmt.Errorf("save question: %w", err)
	}

	s.invalidateTrending(ctx)
	return q, nil
}

// DeleteQuestion removes the question together with its answers and comments.
func (s *QuestionService) DeleteQuestion(ctx context.Context, id, actorID string) error {
	q, err := s.store.GetQuestion(ctx, id)
	if err != nil {
		return err
	}

	if q.AuthorID != actorID {
		return models.NewError(models.ErrForbidden, "Not authorized to delete this question")
	}

	if err := s.store.DeleteQuestion(ctx, id); err != nil {
		return fmt.Errorf("delete question: %w", err)
	}

	s.invalidateTrending(ctx)
	return nil
}

// AddAnswer lets any authenticated user answer an existing question.
func (s *QuestionService) AddAnswer(ctx context.Context, questionID, actorID string, req models.CreateAnswerRequest) (models.Answer, error) {
	now := s.now()
	a := models.Answer{
		ID:         uuid.NewString(),
		Body:       req.Body,
		AuthorID:   actorID,
		QuestionID: questionID,
		Votes:      models.NewVotes(),
		CreatedAt:  now,
		UpdatedAt:  now,
	}

	if strings.TrimSpace(a.Body) == "" {
		return models.Answer{}, models.NewError(models.ErrInvalid, "Answer body is required")
	}

	if err := s.store.AddAnswer(ctx, &a); err != nil {
		if errors.Is(err, models.ErrNotFound) {
			return models.Answer{}, err
		}
		return models.Answer{}, fmt.Errorf("add answer: %w", err)
	}

	return a, nil
}

// AcceptAnswer marks answerID as the chosen solution. Only the question author
// may accept, and only an answer given to this question. Accepting again overwrites.
func (s *QuestionService) AcceptAnswer(ctx context.Context, questionID, answerID, actorID string) (models.Question, error) {
	q, err := s.store.GetQuestion(ctx, questionID)
	if err != nil {
		return models.Question{}, err
	}

	if q.AuthorID != actorID {
		return models.Question{}, models.NewError(models.ErrForbidden, "Not authorized to accept an answer for this question")
	}

	a, err := s.store.GetAnswer(ctx, answerID)
	if err != nil {
		return models.Question{}, err
	}

	if a.QuestionID != q.ID {
		return models.Question{}, models.NewError(models.ErrMismatch, "Answer does not belong to this question")
	}

	accepted, err := s.store.SetAcceptedAnswer(ctx, q.ID, a.ID)
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			return models.Question{}, err
		}
		return models.Question{}, fmt.Errorf("accept answer: %w", err)
	}

	return accepted, nil
}

// AddComment attaches a comment to an existing question.
func (s *QuestionService) AddComment(ctx context.Context, questionID, actorID string, req models.CreateCommentRequest) (models.Comment, error) {
	c := models.Comment{
		ID:         uuid.NewString(),
		Body:       req.Body,
		AuthorID:   actorID,
		QuestionID: questionID,
		CreatedAt:  s.now(),
	}

	if strings.TrimSpace(c.Body) == "" {
		return models.Comment{}, models.NewError(models.ErrInvalid, "Comment body is required")
	}

	if err := s.store.AddComment(ctx, &c); err != nil {
		if errors.Is(err, models.ErrNotFound) {
			return models.Comment{}, err
		}
		return models.Comment{}, fmt.Errorf("add comment: %w", err)
	}

	return c, nil
}

// ListComments returns every comment pointing at questionID, oldest first.
// An unknown question simply has no comments.
func (s *QuestionService) ListComments(ctx context.Context, questionID string) ([]models.CommentView, error) {
	comments, err := s.store.ListCommentsByQuestion(ctx, questionID)
	if err != nil {
		return nil, fmt.Errorf("list comments: %w", err)
	}

	ids := make([]string, 0, len(comments))
	for _, c := range comments {
		ids = append(ids, c.AuthorID)
	}

	authors, err := s.resolveAuthors(ctx, ids)
	if err != nil {
		return nil, err
	}

	out := make([]models.CommentView, 0, len(comments))
	for _, c := range comments {
		out = append(out, models.NewCommentView(c, authors.ref(c.AuthorID)))
	}
	return out, nil
}

func (s *QuestionService) listSummaries(ctx context.Context, filter models.QuestionFilter) ([]models.QuestionSummary, error) {
	questions, err := s.store.ListQuestions(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("list questions: %w", err)
	}

	var commentIDs []string
	for _, q := range questions {
		commentIDs = append(commentIDs, q.CommentIDs...)
	}

	comments, err := s.store.ListComments(ctx, commentIDs)
	if err != nil {
		return nil, fmt.Errorf("load comments: %w", err)
	}

	commentsByID := make(map[string]models.Comment, len(comments))
	authorIDs := make([]string, 0, len(questions)+len(comments))
	for _, c := range comments {
		commentsByID[c.ID] = c
		authorIDs = append(authorIDs, c.AuthorID)
	}
	for _, q := range questions {
		authorIDs = append(authorIDs, q.AuthorID)
	}

	authors, err := s.resolveAuthors(ctx, authorIDs)
	if err != nil {
		return nil, err
	}

	out := make([]models.QuestionSummary, 0, len(questions))
	for _, q := range questions {
		own := make([]models.Comment, 0, len(q.CommentIDs))
		for _, id := range q.CommentIDs {
			if c, ok := commentsByID[id]; ok {
				own = append(own, c)
			}
		}

		out = append(out, models.QuestionSummary{
			QuestionCore:   questionCore(q, authors, own),
			AcceptedAnswer: q.AcceptedAnswerID,
			Answers:        append([]string{}, q.AnswerIDs...),
		})
	}
	return out, nil
}

func (s *QuestionService) validateQuestion(q models.Question) error {
	err := s.validate.Struct(q)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) && len(verrs) > 0 {
		fe := verrs[0]
		return models.NewError(models.ErrInvalid, fmt.Sprintf("Question validation failed: %s failed on %s", strings.ToLower(fe.Field()), fe.Tag()))
	}
	return fmt.Errorf("validate question: %w", err)
}

func trimTags(tags []string) pq.StringArray {
	out := make(pq.StringArray, 0, len(tags))
	for _, t := range tags {
		out = append(out, strings.TrimSpace(t))
	}
	return out
}

// orderByIDs arranges items to follow ids, dropping ids with no item.
func orderByIDs[T any](items []T, ids []string, key func(T) string) []T {
	byID := make(map[string]T, len(items))
	for _, it := range items {
		byID[key(it)] = it
	}

	out := make([]T, 0, len(ids))
	for _, id := range ids {
		if it, ok := byID[id]; ok {
			out = append(out, it)
		}
	}
	return out
}
