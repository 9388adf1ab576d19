package postgres

import (
	"context"
	"strings"

	"github.com/emilythestrangee/stackit/backend/internal/models"
)

func (s *Store) CreateUser(ctx context.Context, u *models.User) error {
	err := s.observe("users.create", func() error {
		return s.db.WithContext(ctx).Create(u).Error
	})
	if isDuplicate(err) {
		return models.ErrEmailTaken
	}
	return err
}

func (s *Store) GetUser(ctx context.Context, id string) (models.User, error) {
	if !validID(id) {
		return models.User{}, models.ErrUserNotFound
	}

	var u models.User
	err := s.observe("users.get", func() error {
		return s.db.WithContext(ctx).First(&u, "id = ?", id).Error
	})
	if err != nil {
		if isNotFound(err) {
			return models.User{}, models.ErrUserNotFound
		}
		return models.User{}, err
	}
	return u, nil
}

func (s *Store) GetUserByEmail(ctx context.Context, email string) (models.User, error) {
	var u models.User
	err := s.observe("users.get_by_email", func() error {
		return s.db.WithContext(ctx).First(&u, "email = ?", email).Error
	})
	if err != nil {
		if isNotFound(err) {
			return models.User{}, models.ErrUserNotFound
		}
		return models.User{}, err
	}
	return u, nil
}

func (s *Store) ListUsers(ctx context.Context, ids []string) ([]models.User, error) {
	users := make([]models.User, 0, len(ids))
	ids = validIDs(ids)
	if len(ids) == 0 {
		return users, nil
	}

	err := s.observe("users.list", func() error {
		return s.db.WithContext(ctx).Where("id IN ?", ids).Find(&users).Error
	})
	if err != nil {
		return nil, err
	}
	return users, nil
}

func (s *Store) SearchUsers(ctx context.Context, name string) ([]models.User, error) {
	users := make([]models.User, 0)
	pattern := "%" + escapeLike(name) + "%"

	err := s.observe("users.search", func() error {
		return s.db.WithContext(ctx).
			Where("name ILIKE ?", pattern).
			Order("created_at asc").
			Find(&users).Error
	})
	if err != nil {
		return nil, err
	}
	return users, nil
}

func (s *Store) SaveUser(ctx context.Context, u *models.User) error {
	if !validID(u.ID) {
		return models.ErrUserNotFound
	}

	err := s.observe("users.save", func() error {
		res := s.db.WithContext(ctx).
			Model(&models.User{}).
			Where("id = ?", u.ID).
			Updates(map[string]any{
				"name":       u.Name,
				"email":      u.Email,
				"password":   u.Password,
				"updated_at": u.UpdatedAt,
			})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return models.ErrUserNotFound
		}
		return nil
	})
	if isDuplicate(err) {
		return models.ErrEmailTaken
	}
	return err
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// escapeLike makes name match literally inside an ILIKE pattern.
func escapeLike(name string) string {
	return likeEscaper.Replace(name)
}
