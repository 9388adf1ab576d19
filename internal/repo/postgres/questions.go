package postgres

import (
	"context"

	"gorm.io/gorm"

	"github.com/emilythestrangee/stackit/backend/internal/models"
)

func (s *Store) CreateQuestion(ctx context.Context, q *models.Question) error {
	return s.observe("questions.create", func() error {
		return s.db.WithContext(ctx).Create(q).Error
	})
}

func (s *Store) GetQuestion(ctx context.Context, id string) (models.Question, error) {
	if !validID(id) {
		return models.Question{}, models.ErrQuestionNotFound
	}

	var q models.Question
	err := s.observe("questions.get", func() error {
		return s.db.WithContext(ctx).First(&q, "id = ?", id).Error
	})
	if err != nil {
		if isNotFound(err) {
			return models.Question{}, models.ErrQuestionNotFound
		}
		return models.Question{}, err
	}
	return q, nil
}

func (s *Store) ListQuestions(ctx context.Context, filter models.QuestionFilter) ([]models.Question, error) {
	questions := make([]models.Question, 0)

	if filter.AuthorID != "" && !validID(filter.AuthorID) {
		return questions, nil
	}

	err := s.observe("questions.list", func() error {
		tx := s.db.WithContext(ctx).Order("created_at desc, id desc")
		if filter.AuthorID != "" {
			tx = tx.Where("author_id = ?", filter.AuthorID)
		}
		return tx.Find(&questions).Error
	})
	if err != nil {
		return nil, err
	}
	return questions, nil
}

// SaveQuestion writes the editable fields and reloads q from the updated row,
// so votes, references and the accepted answer reflect what is stored.
func (s *Store) SaveQuestion(ctx context.Context, q *models.Question) error {
	if !validID(q.ID) {
		return models.ErrQuestionNotFound
	}
	if q.UpdatedAt.IsZero() {
		q.UpdatedAt = s.now()
	}

	var saved models.Question
	err := s.observe("questions.save", func() error {
		res := s.db.WithContext(ctx).Raw(
			`UPDATE questions
			 SET title = ?, body = ?, tags = ?, status = ?, updated_at = ?
			 WHERE id = ?
			 RETURNING *`,
			q.Title, q.Body, q.Tags, q.Status, q.UpdatedAt, q.ID,
		).Scan(&saved)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return models.ErrQuestionNotFound
		}
		return nil
	})
	if err != nil {
		return err
	}

	*q = saved
	return nil
}

// SetAcceptedAnswer touches only accepted_answer_id and updated_at.
func (s *Store) SetAcceptedAnswer(ctx context.Context, questionID, answerID string) (models.Question, error) {
	if !validID(questionID) {
		return models.Question{}, models.ErrQuestionNotFound
	}
	if !validID(answerID) {
		return models.Question{}, models.ErrAnswerNotFound
	}

	var q models.Question
	err := s.observe("questions.accept_answer", func() error {
		res := s.db.WithContext(ctx).Raw(
			`UPDATE questions
			 SET accepted_answer_id = ?, updated_at = ?
			 WHERE id = ?
			 RETURNING *`,
			answerID, s.now(), questionID,
		).Scan(&q)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return models.ErrQuestionNotFound
		}
		return nil
	})
	if err != nil {
		return models.Question{}, err
	}
	return q, nil
}

func (s *Store) DeleteQuestion(ctx context.Context, id string) error {
	if !validID(id) {
		return models.ErrQuestionNotFound
	}

	return s.observe("questions.delete", func() error {
		return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
			res := tx.Where("id = ?", id).Delete(&models.Question{})
			if res.Error != nil {
				return res.Error
			}
			if res.RowsAffected == 0 {
				return models.ErrQuestionNotFound
			}

			if err := tx.Where("question_id = ?", id).Delete(&models.Answer{}).Error; err != nil {
				return err
			}
			return tx.Where("question_id = ?", id).Delete(&models.Comment{}).Error
		})
	})
}

func (s *Store) VoteQuestion(ctx context.Context, id, userID string, dir models.VoteDirection) (models.Question, error) {
	if !validID(id) {
		return models.Question{}, models.ErrQuestionNotFound
	}

	var q models.Question
	err := s.observe("questions.vote", func() error {
		db := s.db.WithContext(ctx)

		res := db.Raw(voteSQL("questions", dir), userID, userID, s.now(), id, userID).Scan(&q)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected > 0 {
			return nil
		}

		var n int64
		if err := db.Model(&models.Question{}).Where("id = ?", id).Count(&n).Error; err != nil {
			return err
		}
		if n == 0 {
			return models.ErrQuestionNotFound
		}
		return models.ErrAlreadyVoted
	})
	if err != nil {
		return models.Question{}, err
	}
	return q, nil
}

// TrendingTags counts tag occurrences across all questions. Ties are broken by tag.
func (s *Store) TrendingTags(ctx context.Context, limit int) ([]models.TagCount, error) {
	tags := make([]models.TagCount, 0, limit)

	err := s.observe("questions.trending_tags", func() error {
		return s.db.WithContext(ctx).Raw(
			`SELECT tag, COUNT(*) AS count
			 FROM questions CROSS JOIN LATERAL unnest(tags) AS tag
			 GROUP BY tag
			 ORDER BY count DESC, tag ASC
			 LIMIT ?`,
			limit,
		).Scan(&tags).Error
	})
	if err != nil {
		return nil, err
	}
	return tags, nil
}
