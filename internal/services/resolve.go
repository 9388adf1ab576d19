package services

import (
	"context"
	"fmt"

	"github.com/emilythestrangee/stackit/backend/internal/models"
)

type authorIndex map[string]models.User

// ref falls back to a bare id when the author no longer resolves.
func (a authorIndex) ref(id string) models.AuthorRef {
	if u, ok := a[id]; ok {
		return u.Ref()
	}
	return models.AuthorRef{ID: id}
}

func (s *QuestionService) resolveAuthors(ctx context.Context, ids []string) (authorIndex, error) {
	users, err := s.store.ListUsers(ctx, uniqueIDs(ids))
	if err != nil {
		return nil, fmt.Errorf("resolve authors: %w", err)
	}

	idx := make(authorIndex, len(users))
	for _, u := range users {
		idx[u.ID] = u
	}
	return idx, nil
}

func uniqueIDs(ids []string) []string {
	seen := make(map[string]struct{}, len(ids))
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		if id == "" {
			continue
		}
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}

func questionCore(q models.Question, authors authorIndex, comments []models.Comment) models.QuestionCore {
	views := make([]models.CommentView, 0, len(comments))
	for _, c := range comments {
		views = append(views, models.NewCommentView(c, authors.ref(c.AuthorID)))
	}

	return models.QuestionCore{
		ID:        q.ID,
		Title:     q.Title,
		Body:      q.Body,
		Tags:      append([]string{}, q.Tags...),
		Author:    authors.ref(q.AuthorID),
		Status:    q.Status,
		Votes:     q.Votes.Clone(),
		Comments:  views,
		CreatedAt: q.CreatedAt,
		UpdatedAt: q.UpdatedAt,
	}
}
