package handlers

import (
	"context"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/emilythestrangee/stackit/backend/internal/observability"
	"github.com/emilythestrangee/stackit/backend/internal/services"
)

const defaultRequestTimeout = 5 * time.Second

// Handler combines all handler types
type Handler struct {
	Auth     *AuthHandler
	Question *QuestionHandler
	Answer   *AnswerHandler
	Comment  *CommentHandler
	Vote     *VoteHandler
	User     *UserHandler
	Health   *HealthHandler
}

// Deps is everything the handlers need from the rest of the process.
type Deps struct {
	Questions *services.QuestionService
	Users     *services.UserService
	Store     Pinger
	DB        DBHealth
	Prom      *observability.Prom
	Log       zerolog.Logger
	Timeout   time.Duration
}

// NewHandler creates a unified handler with all sub-handlers
func NewHandler(d Deps) *Handler {
	return &Handler{
		Auth:     NewAuthHandler(d.Users, d.Log, d.Timeout),
		Question: NewQuestionHandler(d.Questions, d.Log, d.Timeout),
		Answer:   NewAnswerHandler(d.Questions, d.Log, d.Timeout),
		Comment:  NewCommentHandler(d.Questions, d.Log, d.Timeout),
		Vote:     NewVoteHandler(d.Questions, d.Prom, d.Log, d.Timeout),
		User:     NewUserHandler(d.Users, d.Log, d.Timeout),
		Health:   NewHealthHandler(d.Store, d.DB),
	}
}

// base carries what every handler shares.
type base struct {
	log     zerolog.Logger
	timeout time.Duration
}

func newBase(log zerolog.Logger, timeout time.Duration) base {
	if timeout <= 0 {
		timeout = defaultRequestTimeout
	}
	return base{log: log, timeout: timeout}
}

// ctx bounds a store round trip by the request timeout.
func (b base) ctx(c *gin.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(c.Request.Context(), b.timeout)
}
