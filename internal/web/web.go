// Package web holds the server-rendered pages.
package web

import (
	"embed"
	"html/template"

	"github.com/echoes-intel/playint/internal/domain"
)

// PlayerIntPage template name of the PlayInt page
const PlayerIntPage = "player_int.tmpl"

//go:embed templates/*.tmpl
var templateFS embed.FS

// Templates parses the embedded page templates
func Templates() (*template.Template, error) {
	return template.New("").Funcs(template.FuncMap{
		"rgb": func(c domain.Color) template.CSS { return template.CSS(c.String()) },
	}).ParseFS(templateFS, "templates/*.tmpl")
}

// PlayerIntView data rendered by PlayerIntPage.
// Query refills the name input; the report section renders only when PlayerName is set.
type PlayerIntView struct {
	Error             string
	Query             string
	PlayerName        string
	Total             int
	TopRegions        []domain.RegionNode
	HourlyPercentages []domain.HourBucket
	StartDate         string
	EndDate           string
	KillSelected      bool
	DeathSelected     bool
}

// NewPlayerIntView converts a report into page data
func NewPlayerIntView(r *domain.PlayerReport) PlayerIntView {
	return PlayerIntView{
		Query:             r.PlayerName,
		PlayerName:        r.PlayerName,
		Total:             r.Total,
		TopRegions:        r.TopRegions,
		HourlyPercentages: r.HourlyPercentages,
		StartDate:         r.StartDate,
		EndDate:           r.EndDate,
		KillSelected:      r.KillSelected,
		DeathSelected:     r.DeathSelected,
	}
}
