package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/emilythestrangee/stackit/backend/internal/models"
	"github.com/emilythestrangee/stackit/backend/internal/observability"
	"github.com/emilythestrangee/stackit/backend/internal/services"
)

type VoteHandler struct {
	base
	questions *services.QuestionService
	prom      *observability.Prom
}

func NewVoteHandler(questions *services.QuestionService, prom *observability.Prom, log zerolog.Logger, timeout time.Duration) *VoteHandler {
	return &VoteHandler{base: newBase(log, timeout), questions: questions, prom: prom}
}

func (h *VoteHandler) UpvoteQuestion(c *gin.Context) {
	h.vote(c, "question", models.Upvote, func(ctx context.Context, id, userID string) (any, error) {
		return h.questions.UpvoteQuestion(ctx, id, userID)
	})
}

func (h *VoteHandler) DownvoteQuestion(c *gin.Context) {
	h.vote(c, "question", models.Downvote, func(ctx context.Context, id, userID string) (any, error) {
		return h.questions.DownvoteQuestion(ctx, id, userID)
	})
}

func (h *VoteHandler) UpvoteAnswer(c *gin.Context) {
	h.vote(c, "answer", models.Upvote, func(ctx context.Context, id, userID string) (any, error) {
		return h.questions.UpvoteAnswer(ctx, id, userID)
	})
}

func (h *VoteHandler) DownvoteAnswer(c *gin.Context) {
	h.vote(c, "answer", models.Downvote, func(ctx context.Context, id, userID string) (any, error) {
		return h.questions.DownvoteAnswer(ctx, id, userID)
	})
}

func (h *VoteHandler) vote(c *gin.Context, target string, dir models.VoteDirection, fn func(ctx context.Context, id, userID string) (any, error)) {
	userID, ok := actor(c)
	if !ok {
		return
	}

	ctx, cancel := h.ctx(c)
	defer cancel()

	updated, err := fn(ctx, c.Param("id"), userID)
	if err != nil {
		h.respondError(c, err)
		return
	}

	h.prom.ObserveVote(target, dir.String())
	respondData(c, http.StatusOK, updated)
}
