package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/emilythestrangee/stackit/backend/internal/models"
	"github.com/emilythestrangee/stackit/backend/internal/security"
)

// UserService handles accounts and the public user directory.
type UserService struct {
	store     Store
	questions *QuestionService
	tokens    TokenIssuer
	log       zerolog.Logger
	now       func() time.Time
}

func NewUserService(store Store, questions *QuestionService, tokens TokenIssuer, log zerolog.Logger) *UserService {
	return &UserService{
		store:     store,
		questions: questions,
		tokens:    tokens,
		log:       log.With().Str("component", "users").Logger(),
		now:       func() time.Time { return time.Now().UTC() },
	}
}

// AuthResult is returned by Register and Login.
type AuthResult struct {
	User  models.User
	Token string
}

func (s *UserService) Register(ctx context.Context, req models.RegisterRequest) (AuthResult, error) {
	hash, err := security.HashPassword(req.Password)
	if err != nil {
		return AuthResult{}, fmt.Errorf("hash password: %w", err)
	}

	now := s.now()
	u := models.User{
		ID:        uuid.NewString(),
		Name:      strings.TrimSpace(req.Name),
		Email:     normalizeEmail(req.Email),
		Password:  hash,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := s.store.CreateUser(ctx, &u); err != nil {
		if errors.Is(err, models.ErrEmailTaken) {
			return AuthResult{}, err
		}
		return AuthResult{}, fmt.Errorf("create user: %w", err)
	}

	s.log.Info().Str("user_id", u.ID).Msg("user registered")
	return s.issue(u)
}

// Login checks credentials. Unknown emails and wrong passwords are reported identically.
func (s *UserService) Login(ctx context.Context, req models.LoginRequest) (AuthResult, error) {
	invalid := models.NewError(models.ErrUnauthorized, "Invalid credentials")

	u, err := s.store.GetUserByEmail(ctx, normalizeEmail(req.Email))
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			return AuthResult{}, invalid
		}
		return AuthResult{}, fmt.Errorf("find user: %w", err)
	}

	if err := security.CheckPassword(u.Password, req.Password); err != nil {
		if errors.Is(err, security.ErrPasswordMismatch) {
			s.log.Warn().Str("user_id", u.ID).Msg("failed login attempt")
		} else {
			s.log.Error().Err(err).Str("user_id", u.ID).Msg("stored password hash unusable")
		}
		return AuthResult{}, invalid
	}

	return s.issue(u)
}

// UpdateProfile changes the caller's own name, email or password.
func (s *UserService) UpdateProfile(ctx context.Context, actorID string, req models.UpdateProfileRequest) (models.User, error) {
	u, err := s.store.GetUser(ctx, actorID)
	if err != nil {
		return models.User{}, err
	}

	if req.Name != nil {
		u.Name = strings.TrimSpace(*req.Name)
	}
	if req.Email != nil {
		u.Email = normalizeEmail(*req.Email)
	}
	if req.Password != nil {
		hash, err := security.HashPassword(*req.Password)
		if err != nil {
			return models.User{}, fmt.Errorf("hash password: %w", err)
		}
		u.Password = hash
	}

	if u.Name == "" {
		return models.User{}, models.NewError(models.ErrInvalid, "Name is required")
	}
	u.UpdatedAt = s.now()

	if err := s.store.SaveUser(ctx, &u); err != nil {
		if errors.Is(err, models.ErrEmailTaken) || errors.Is(err, models.ErrNotFound) {
			return models.User{}, err
		}
		return models.User{}, fmt.Errorf("save user: %w", err)
	}

	return u, nil
}

// SearchUsers matches name case-insensitively anywhere in the user's name.
func (s *UserService) SearchUsers(ctx context.Context, name string) ([]models.User, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, models.NewError(models.ErrInvalid, "Please provide a name to search")
	}

	users, err := s.store.SearchUsers(ctx, name)
	if err != nil {
		return nil, fmt.Errorf("search users: %w", err)
	}
	if users == nil {
		users = []models.User{}
	}
	return users, nil
}

// Profile returns a user and the questions they asked, newest first.
func (s *UserService) Profile(ctx context.Context, userID string) (models.UserProfile, error) {
	u, err := s.store.GetUser(ctx, userID)
	if err != nil {
		return models.UserProfile{}, err
	}

	questions, err := s.questions.listSummaries(ctx, models.QuestionFilter{AuthorID: u.ID})
	if err != nil {
		return models.UserProfile{}, err
	}

	return models.UserProfile{User: u, Questions: questions}, nil
}

func (s *UserService) issue(u models.User) (AuthResult, error) {
	token, err := s.tokens.GenerateAccessToken(u.ID, u.Email)
	if err != nil {
		return AuthResult{}, fmt.Errorf("generate access token: %w", err)
	}
	return AuthResult{User: u, Token: token}, nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
