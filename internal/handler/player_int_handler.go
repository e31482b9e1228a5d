package handler

import (
	"context"
	"net/http"
	"strings"

	"github.com/echoes-intel/playint/internal/common"
	"github.com/echoes-intel/playint/internal/domain"
	"github.com/echoes-intel/playint/internal/web"
	"github.com/echoes-intel/playint/pkg/ginutil"
	"github.com/gin-gonic/gin"
)

// PlayerReporter builds a player report
type PlayerReporter interface {
	Report(ctx context.Context, q domain.PlayerQuery) (*domain.PlayerReport, error)
}

// PlayerIntHandler handles the PlayInt page and API
type PlayerIntHandler struct {
	service PlayerReporter
}

// NewPlayerIntHandler creates a new PlayerIntHandler
func NewPlayerIntHandler(service PlayerReporter) *PlayerIntHandler {
	return &PlayerIntHandler{service: service}
}

// Page renders the empty search form with both directions selected
// GET /player-int
func (h *PlayerIntHandler) Page(c *gin.Context) {
	c.HTML(http.StatusOK, web.PlayerIntPage, web.PlayerIntView{
		KillSelected:  true,
		DeathSelected: true,
	})
}

// Submit renders the report page. Errors are shown on the page with 200.
// GET /player-int/submit
func (h *PlayerIntHandler) Submit(c *gin.Context) {
	q := bindPlayerQuery(c)

	report, err := h.service.Report(c.Request.Context(), q)
	if err != nil {
		_ = c.Error(err)
		c.HTML(http.StatusOK, web.PlayerIntPage, web.PlayerIntView{
			Error:             common.UserMessage(err),
			Query:             strings.TrimSpace(q.Name),
			StartDate:         q.Start,
			EndDate:           q.End,
			KillSelected:      q.Kill,
			DeathSelected:     q.Death,
			TopRegions:        []domain.RegionNode{},
			HourlyPercentages: []domain.HourBucket{},
		})
		return
	}

	c.HTML(http.StatusOK, web.PlayerIntPage, web.NewPlayerIntView(report))
}

// Report returns the report as JSON
// GET /api/v1/player-int
func (h *PlayerIntHandler) Report(c *gin.Context) {
	q := bindPlayerQuery(c)

	report, err := h.service.Report(c.Request.Context(), q)
	if err != nil {
		_ = c.Error(err)
		status := http.StatusInternalServerError
		if common.IsValidation(err) {
			status = http.StatusBadRequest
		}
		common.ErrorResponse(c, status, common.UserMessage(err))
		return
	}

	common.SuccessWithMeta(c, report, &common.Meta{
		Query:   report.PlayerName,
		Total:   report.Total,
		Fetched: report.Fetched,
	})
}

func bindPlayerQuery(c *gin.Context) domain.PlayerQuery {
	return domain.PlayerQuery{
		Name:  c.Query("name"),
		Start: ginutil.QueryTrimmed(c, "start"),
		End:   ginutil.QueryTrimmed(c, "end"),
		Kill:  ginutil.QueryFlag(c, "kill"),
		Death: ginutil.QueryFlag(c, "death"),
	}
}
