package routes

import (
	"github.com/echoes-intel/playint/internal/handler"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Handlers groups every route handler
type Handlers struct {
	PlayerInt *handler.PlayerIntHandler
	Media     *handler.MediaHandler
	Health    *handler.HealthHandler
}

// Setup configures all routes. limit guards the endpoints that call upstream APIs; it may be nil.
func Setup(router *gin.Engine, h Handlers, limit gin.HandlerFunc) {
	guarded := []gin.HandlerFunc{}
	if limit != nil {
		guarded = append(guarded, limit)
	}

	router.GET("/health", h.Health.Health)
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// PlayInt 페이지
	playInt := router.Group("/player-int")
	playInt.GET("", h.PlayerInt.Page)
	playInt.GET("/submit", append(guarded, h.PlayerInt.Submit)...)

	// JSON API
	v1 := router.Group("/api/v1")
	v1.GET("/player-int", append(guarded, h.PlayerInt.Report)...)

	// 영화 목록 자동완성
	youlist := router.Group("/youlist/api")
	youlist.GET("/search", append(guarded, h.Media.Search)...)
}
