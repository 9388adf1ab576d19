package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

// Pinger reports whether the store is reachable.
type Pinger interface {
	Ping(ctx context.Context) error
}

// DBHealth is implemented by database.Service.
type DBHealth interface {
	Health(ctx context.Context) map[string]string
}

type HealthHandler struct {
	store Pinger
	db    DBHealth
}

// NewHealthHandler checks store and, when non-nil, the database pool.
func NewHealthHandler(store Pinger, db DBHealth) *HealthHandler {
	return &HealthHandler{store: store, db: db}
}

func (h *HealthHandler) Health(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
	defer cancel()

	body := gin.H{"status": "ok"}
	status := http.StatusOK

	if h.store != nil {
		if err := h.store.Ping(ctx); err != nil {
			body["status"] = "down"
			body["error"] = "store unreachable"
			status = http.StatusServiceUnavailable
		}
	}

	if h.db != nil {
		stats := h.db.Health(ctx)
		body["db"] = stats
		if stats["status"] != "up" {
			body["status"] = "down"
			status = http.StatusServiceUnavailable
		}
	}

	c.JSON(status, body)
}
