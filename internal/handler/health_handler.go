package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

// Pinger dependency checked by the health endpoint
type Pinger interface {
	Ping(ctx context.Context) error
}

// HealthHandler reports liveness and cache backend state
type HealthHandler struct {
	cache   Pinger
	backend string
}

// NewHealthHandler creates a new HealthHandler
func NewHealthHandler(cache Pinger, backend string) *HealthHandler {
	return &HealthHandler{cache: cache, backend: backend}
}

// Health GET /health
func (h *HealthHandler) Health(c *gin.Context) {
	cacheStatus := "ok"
	if h.cache != nil {
		ctx, cancel := context.WithTimeout(c.Request.Context(), time.Second)
		defer cancel()
		if err := h.cache.Ping(ctx); err != nil {
			cacheStatus = "degraded"
		}
	}

	c.JSON(http.StatusOK, gin.H{
		"status":  "ok",
		"service": "playint",
		"cache":   gin.H{"backend": h.backend, "status": cacheStatus},
		"time":    time.Now().Unix(),
	})
}
