package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/emilythestrangee/stackit/backend/internal/models"
	"github.com/emilythestrangee/stackit/backend/internal/services"
)

type QuestionHandler struct {
	base
	questions *services.QuestionService
}

func NewQuestionHandler(questions *services.QuestionService, log zerolog.Logger, timeout time.Duration) *QuestionHandler {
	return &QuestionHandler{base: newBase(log, timeout), questions: questions}
}

// CreateQuestion creates a new question (PROTECTED - requires authentication)
func (h *QuestionHandler) CreateQuestion(c *gin.Context) {
	userID, ok := actor(c)
	if !ok {
		return
	}

	var req models.CreateQuestionRequest
	if !BindJSON(c, &req) {
		return
	}

	ctx, cancel := h.ctx(c)
	defer cancel()

	q, err := h.questions.CreateQuestion(ctx, userID, req)
	if err != nil {
		h.respondError(c, err)
		return
	}

	respondData(c, http.StatusCreated, q)
}

// GetQuestions returns the feed, newest first
func (h *QuestionHandler) GetQuestions(c *gin.Context) {
	ctx, cancel := h.ctx(c)
	defer cancel()

	questions, err := h.questions.ListQuestions(ctx)
	if err != nil {
		h.respondError(c, err)
		return
	}

	respondList(c, questions)
}

// GetQuestion returns a single question with answers and comments resolved
func (h *QuestionHandler) GetQuestion(c *gin.Context) {
	ctx, cancel := h.ctx(c)
	defer cancel()

	q, err := h.questions.GetQuestion(ctx, c.Param("id"))
	if err != nil {
		h.respondError(c, err)
		return
	}

	respondData(c, http.StatusOK, q)
}

// UpdateQuestion patches a question; only its author may do so
func (h *QuestionHandler) UpdateQuestion(c *gin.Context) {
	userID, ok := actor(c)
	if !ok {
		return
	}

	var req models.UpdateQuestionRequest
	if !BindJSON(c, &req) {
		return
	}

	ctx, cancel := h.ctx(c)
	defer cancel()

	q, err := h.questions.UpdateQuestion(ctx, c.Param("id"), userID, req)
	if err != nil {
		h.respondError(c, err)
		return
	}

	respondData(c, http.StatusOK, q)
}

// DeleteQuestion removes a question with its answers and comments
func (h *QuestionHandler) DeleteQuestion(c *gin.Context) {
	userID, ok := actor(c)
	if !ok {
		return
	}

	ctx, cancel := h.ctx(c)
	defer cancel()

	if err := h.questions.DeleteQuestion(ctx, c.Param("id"), userID); err != nil {
		h.respondError(c, err)
		return
	}

	respondData(c, http.StatusOK, gin.H{})
}

// GetTrendingTags returns the most used tags with their counts
func (h *QuestionHandler) GetTrendingTags(c *gin.Context) {
	ctx, cancel := h.ctx(c)
	defer cancel()

	tags, err := h.questions.TrendingTags(ctx)
	if err != nil {
		h.respondError(c, err)
		return
	}

	respondData(c, http.StatusOK, tags)
}
