package handler

import (
	"net/http"

	"github.com/echoes-intel/playint/internal/common"
	"github.com/echoes-intel/playint/internal/service"
	"github.com/gin-gonic/gin"
)

// MediaHandler handles the movie list autocomplete endpoint
type MediaHandler struct {
	mediaService *service.MediaService
}

// NewMediaHandler creates a new MediaHandler
func NewMediaHandler(mediaService *service.MediaService) *MediaHandler {
	return &MediaHandler{mediaService: mediaService}
}

// Search returns matching movies and tv shows as a bare JSON array
// GET /youlist/api/search?q=
func (h *MediaHandler) Search(c *gin.Context) {
	results, err := h.mediaService.Search(c.Request.Context(), c.Query("q"))
	if err != nil {
		_ = c.Error(err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": common.ErrMediaSearch.Error()})
		return
	}
	c.JSON(http.StatusOK, results)
}
