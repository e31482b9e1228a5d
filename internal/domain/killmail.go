package domain

import (
	"fmt"
	"strings"
	"time"

	"github.com/araddon/dateparse"
)

// Fallback names for rows missing a location column
const (
	UnknownRegion        = "Unknown Region"
	UnknownConstellation = "Unknown Constellation"
	UnknownSystem        = "Unknown System"
)

// Timestamp columns in order of preference
var TimestampColumns = []string{"date_killed", "date_created", "date_updated"}

// EventRow one kill/death event flattened from a CSV record
type EventRow struct {
	Region        string
	Constellation string
	System        string
	RawTime       string
	OccurredAt    time.Time
	HasTime       bool
}

// NewEventRow builds an EventRow from a column→value record
func NewEventRow(record map[string]string) EventRow {
	row := EventRow{
		Region:        valueOr(record["region"], UnknownRegion),
		Constellation: valueOr(record["constellation"], UnknownConstellation),
		System:        valueOr(record["system"], UnknownSystem),
	}

	for _, col := range TimestampColumns {
		if v := record[col]; v != "" {
			row.RawTime = v
			break
		}
	}
	if row.RawTime != "" {
		if t, err := ParseTimestamp(row.RawTime); err == nil {
			row.OccurredAt = t
			row.HasTime = true
		}
	}
	return row
}

// ParseTimestamp parses the loose date formats the killmail API and users send.
// Values without a zone are read as UTC.
func ParseTimestamp(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, fmt.Errorf("empty timestamp")
	}
	if !strings.ContainsAny(s, "0123456789") {
		return time.Time{}, fmt.Errorf("timestamp %q has no digits", s)
	}
	t, err := dateparse.ParseIn(s, time.UTC)
	if err != nil {
		return time.Time{}, err
	}
	t = t.UTC()
	// "1/2/3/4/5" 같은 입력은 0년으로 해석됨
	if t.Year() < 1 {
		return time.Time{}, fmt.Errorf("timestamp %q has no valid year", s)
	}
	return t, nil
}

func valueOr(v, fallback string) string {
	if v == "" {
		return fallback
	}
	return v
}

// DateRange inclusive bounds; nil means unbounded
type DateRange struct {
	Start *time.Time
	End   *time.Time
}

// Active reports whether any bound is set
func (r DateRange) Active() bool {
	return r.Start != nil || r.End != nil
}

// Contains reports whether t lies within the range
func (r DateRange) Contains(t time.Time) bool {
	if r.Start != nil && t.Before(*r.Start) {
		return false
	}
	if r.End != nil && t.After(*r.End) {
		return false
	}
	return true
}

// Color heat-map color
type Color struct {
	R, G, B int
}

func (c Color) String() string {
	return fmt.Sprintf("rgb(%d,%d,%d)", c.R, c.G, c.B)
}

// MarshalText renders the color as a CSS rgb() value
func (c Color) MarshalText() ([]byte, error) {
	return []byte(c.String()), nil
}

// SystemNode leaf of the location rollup
type SystemNode struct {
	Name    string  `json:"name"`
	Count   int     `json:"count"`
	Percent float64 `json:"percent"`
	Color   Color   `json:"color"`
}

// ConstellationNode groups systems
type ConstellationNode struct {
	Name    string       `json:"name"`
	Count   int          `json:"count"`
	Percent float64      `json:"percent"`
	Color   Color        `json:"color"`
	Systems []SystemNode `json:"systems"`
}

// RegionNode top level of the location rollup
type RegionNode struct {
	Name           string              `json:"name"`
	Count          int                 `json:"count"`
	Percent        float64             `json:"percent"`
	Color          Color               `json:"color"`
	Constellations []ConstellationNode `json:"constellations"`
}

// HourBucket one UTC hour of the activity histogram
type HourBucket struct {
	Hour    string  `json:"hour"`
	Count   int     `json:"count"`
	Height  int     `json:"height"`
	Percent float64 `json:"percent"`
}

// Direction killmail query side
type Direction string

const (
	DirectionKiller Direction = "killer"
	DirectionVictim Direction = "victim"
)

// PlayerQuery inbound PlayInt request parameters
type PlayerQuery struct {
	Name  string
	Start string
	End   string
	Kill  bool
	Death bool
}

// Directions returns the fetch directions selected by the kill/death flags.
// Neither flag selects both.
func (q PlayerQuery) Directions() []Direction {
	if !q.Kill && !q.Death {
		return []Direction{DirectionKiller, DirectionVictim}
	}
	var dirs []Direction
	if q.Kill {
		dirs = append(dirs, DirectionKiller)
	}
	if q.Death {
		dirs = append(dirs, DirectionVictim)
	}
	return dirs
}

// PlayerReport result of one PlayInt lookup
type PlayerReport struct {
	PlayerName        string       `json:"playerName"`
	Total             int          `json:"total"`
	Fetched           int          `json:"fetched"`
	TopRegions        []RegionNode `json:"topRegions"`
	HourlyPercentages []HourBucket `json:"hourlyPercentages"`
	StartDate         string       `json:"startDate,omitempty"`
	EndDate           string       `json:"endDate,omitempty"`
	KillSelected      bool         `json:"killSelected"`
	DeathSelected     bool         `json:"deathSelected"`
}
