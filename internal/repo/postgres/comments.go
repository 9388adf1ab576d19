package postgres

import (
	"context"

	"gorm.io/gorm"

	"github.com/emilythestrangee/stackit/backend/internal/models"
)

func (s *Store) AddComment(ctx context.Context, c *models.Comment) error {
	if !validID(c.QuestionID) {
		return models.ErrQuestionNotFound
	}

	return s.observe("comments.add", func() error {
		return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
			res := tx.Exec(
				`UPDATE questions SET comment_ids = array_append(comment_ids, ?::text), updated_at = ? WHERE id = ?`,
				c.ID, s.now(), c.QuestionID,
			)
			if res.Error != nil {
				return res.Error
			}
			if res.RowsAffected == 0 {
				return models.ErrQuestionNotFound
			}
			return tx.Create(c).Error
		})
	})
}

func (s *Store) ListComments(ctx context.Context, ids []string) ([]models.Comment, error) {
	comments := make([]models.Comment, 0, len(ids))
	ids = validIDs(ids)
	if len(ids) == 0 {
		return comments, nil
	}

	err := s.observe("comments.list", func() error {
		return s.db.WithContext(ctx).Where("id IN ?", ids).Find(&comments).Error
	})
	if err != nil {
		return nil, err
	}
	return comments, nil
}

func (s *Store) ListCommentsByQuestion(ctx context.Context, questionID string) ([]models.Comment, error) {
	comments := make([]models.Comment, 0)
	if !validID(questionID) {
		return comments, nil
	}

	err := s.observe("comments.list_by_question", func() error {
		return s.db.WithContext(ctx).
			Where("question_id = ?", questionID).
			Order("created_at asc, id asc").
			Find(&comments).Error
	})
	if err != nil {
		return nil, err
	}
	return comments, nil
}
