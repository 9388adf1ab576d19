package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/emilythestrangee/stackit/backend/internal/services"
)

type UserHandler struct {
	base
	users *services.UserService
}

func NewUserHandler(users *services.UserService, log zerolog.Logger, timeout time.Duration) *UserHandler {
	return &UserHandler{base: newBase(log, timeout), users: users}
}

// SearchUsers finds users whose name contains ?name=
func (h *UserHandler) SearchUsers(c *gin.Context) {
	ctx, cancel := h.ctx(c)
	defer cancel()

	users, err := h.users.SearchUsers(ctx, c.Query("name"))
	if err != nil {
		h.respondError(c, err)
		return
	}

	respondList(c, users)
}

// GetUserProfile returns a user and the questions they asked
func (h *UserHandler) GetUserProfile(c *gin.Context) {
	ctx, cancel := h.ctx(c)
	defer cancel()

	profile, err := h.users.Profile(ctx, c.Param("id"))
	if err != nil {
		h.respondError(c, err)
		return
	}

	respondData(c, http.StatusOK, profile)
}
