package postgres

import (
	"context"

	"gorm.io/gorm"

	"github.com/emilythestrangee/stackit/backend/internal/models"
)

// AddAnswer locks the question row by appending the id first, so a concurrent
// delete either sees the answer or prevents it.
func (s *Store) AddAnswer(ctx context.Context, a *models.Answer) error {
	if !validID(a.QuestionID) {
		return models.ErrQuestionNotFound
	}

	return s.observe("answers.add", func() error {
		return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
			res := tx.Exec(
				`UPDATE questions SET answer_ids = array_append(answer_ids, ?::text), updated_at = ? WHERE id = ?`,
				a.ID, s.now(), a.QuestionID,
			)
			if res.Error != nil {
				return res.Error
			}
			if res.RowsAffected == 0 {
				return models.ErrQuestionNotFound
			}
			return tx.Create(a).Error
		})
	})
}

func (s *Store) GetAnswer(ctx context.Context, id string) (models.Answer, error) {
	if !validID(id) {
		return models.Answer{}, models.ErrAnswerNotFound
	}

	var a models.Answer
	err := s.observe("answers.get", func() error {
		return s.db.WithContext(ctx).First(&a, "id = ?", id).Error
	})
	if err != nil {
		if isNotFound(err) {
			return models.Answer{}, models.ErrAnswerNotFound
		}
		return models.Answer{}, err
	}
	return a, nil
}

func (s *Store) ListAnswers(ctx context.Context, ids []string) ([]models.Answer, error) {
	answers := make([]models.Answer, 0, len(ids))
	ids = validIDs(ids)
	if len(ids) == 0 {
		return answers, nil
	}

	err := s.observe("answers.list", func() error {
		return s.db.WithContext(ctx).Where("id IN ?", ids).Find(&answers).Error
	})
	if err != nil {
		return nil, err
	}
	return answers, nil
}

func (s *Store) VoteAnswer(ctx context.Context, id, userID string, dir models.VoteDirection) (models.Answer, error) {
	if !validID(id) {
		return models.Answer{}, models.ErrAnswerNotFound
	}

	var a models.Answer
	err := s.observe("answers.vote", func() error {
		db := s.db.WithContext(ctx)

		res := db.Raw(voteSQL("answers", dir), userID, userID, s.now(), id, userID).Scan(&a)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected > 0 {
			return nil
		}

		var n int64
		if err := db.Model(&models.Answer{}).Where("id = ?", id).Count(&n).Error; err != nil {
			return err
		}
		if n == 0 {
			return models.ErrAnswerNotFound
		}
		return models.ErrAlreadyVoted
	})
	if err != nil {
		return models.Answer{}, err
	}
	return a, nil
}
