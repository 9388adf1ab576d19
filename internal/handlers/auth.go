package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/emilythestrangee/stackit/backend/internal/models"
	"github.com/emilythestrangee/stackit/backend/internal/services"
)

type AuthHandler struct {
	base
	users *services.UserService
}

func NewAuthHandler(users *services.UserService, log zerolog.Logger, timeout time.Duration) *AuthHandler {
	return &AuthHandler{base: newBase(log, timeout), users: users}
}

// Register creates an account and signs the caller in
func (h *AuthHandler) Register(c *gin.Context) {
	var req models.RegisterRequest
	if !BindJSON(c, &req) {
		return
	}

	ctx, cancel := h.ctx(c)
	defer cancel()

	res, err := h.users.Register(ctx, req)
	if err != nil {
		h.respondError(c, err)
		return
	}

	respondAuth(c, http.StatusCreated, res)
}

// Login exchanges email and password for an access token
func (h *AuthHandler) Login(c *gin.Context) {
	var req models.LoginRequest
	if !BindJSON(c, &req) {
		return
	}

	ctx, cancel := h.ctx(c)
	defer cancel()

	res, err := h.users.Login(ctx, req)
	if err != nil {
		h.respondError(c, err)
		return
	}

	respondAuth(c, http.StatusOK, res)
}

// UpdateProfile changes the caller's own account (PROTECTED)
func (h *AuthHandler) UpdateProfile(c *gin.Context) {
	userID, ok := actor(c)
	if !ok {
		return
	}

	var req models.UpdateProfileRequest
	if !BindJSON(c, &req) {
		return
	}

	ctx, cancel := h.ctx(c)
	defer cancel()

	u, err := h.users.UpdateProfile(ctx, userID, req)
	if err != nil {
		h.respondError(c, err)
		return
	}

	respondData(c, http.StatusOK, u)
}

func respondAuth(c *gin.Context, status int, res services.AuthResult) {
	c.JSON(status, gin.H{
		"success": true,
		"token":   res.Token,
		"data":    res.User,
	})
}
