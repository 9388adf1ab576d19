package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/emilythestrangee/stackit/backend/internal/models"
	"github.com/emilythestrangee/stackit/backend/internal/services"
)

type CommentHandler struct {
	base
	questions *services.QuestionService
}

func NewCommentHandler(questions *services.QuestionService, log zerolog.Logger, timeout time.Duration) *CommentHandler {
	return &CommentHandler{base: newBase(log, timeout), questions: questions}
}

// CreateComment comments on the question in the path
func (h *CommentHandler) CreateComment(c *gin.Context) {
	userID, ok := actor(c)
	if !ok {
		return
	}

	var req models.CreateCommentRequest
	if !BindJSON(c, &req) {
		return
	}

	ctx, cancel := h.ctx(c)
	defer cancel()

	comment, err := h.questions.AddComment(ctx, c.Param("id"), userID, req)
	if err != nil {
		h.respondError(c, err)
		return
	}

	respondData(c, http.StatusCreated, comment)
}

// GetComments lists a question's comments, oldest first
func (h *CommentHandler) GetComments(c *gin.Context) {
	ctx, cancel := h.ctx(c)
	defer cancel()

	comments, err := h.questions.ListComments(ctx, c.Param("id"))
	if err != nil {
		h.respondError(c, err)
		return
	}

	respondList(c, comments)
}
