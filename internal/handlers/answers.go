package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/emilythestrangee/stackit/backend/internal/models"
	"github.com/emilythestrangee/stackit/backend/internal/services"
)

type AnswerHandler struct {
	base
	questions *services.QuestionService
}

func NewAnswerHandler(questions *services.QuestionService, log zerolog.Logger, timeout time.Duration) *AnswerHandler {
	return &AnswerHandler{base: newBase(log, timeout), questions: questions}
}

// CreateAnswer answers the question in the path
func (h *AnswerHandler) CreateAnswer(c *gin.Context) {
	userID, ok := actor(c)
	if !ok {
		return
	}

	var req models.CreateAnswerRequest
	if !BindJSON(c, &req) {
		return
	}

	ctx, cancel := h.ctx(c)
	defer cancel()

	a, err := h.questions.AddAnswer(ctx, c.Param("id"), userID, req)
	if err != nil {
		h.respondError(c, err)
		return
	}

	respondData(c, http.StatusCreated, a)
}

// AcceptAnswer marks an answer as the solution; only the question author may
func (h *AnswerHandler) AcceptAnswer(c *gin.Context) {
	userID, ok := actor(c)
	if !ok {
		return
	}

	ctx, cancel := h.ctx(c)
	defer cancel()

	q, err := h.questions.AcceptAnswer(ctx, c.Param("id"), c.Param("answerId"), userID)
	if err != nil {
		h.respondError(c, err)
		return
	}

	respondData(c, http.StatusOK, q)
}
