package stats

import (
	"fmt"
	"testing"
	"time"

	"github.com/echoes-intel/playint/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func row(region, constellation, system, ts string) domain.EventRow {
	return domain.NewEventRow(map[string]string{
		"region":        region,
		"constellation": constellation,
		"system":        system,
		"date_killed":   ts,
	})
}

func TestHeatColor_Endpoints(t *testing.T) {
	assert.Equal(t, "rgb(0,255,0)", HeatColor(0, 10).String())
	assert.Equal(t, "rgb(255,0,0)", HeatColor(10, 10).String())
	assert.Equal(t, "rgb(255,0,0)", HeatColor(1, 1).String())
}

func TestHeatColor_DefaultWhenNoMax(t *testing.T) {
	for _, count := range []int{0, 1, 42} {
		assert.Equal(t, DefaultColor, HeatColor(count, 0))
		assert.Equal(t, DefaultColor, HeatColor(count, -3))
	}
}

func TestHeatColor_Breakpoints(t *testing.T) {
	assert.Equal(t, domain.Color{R: 128, G: 255}, HeatColor(16, 100))
	assert.Equal(t, domain.Color{R: 255, G: 255}, HeatColor(32, 100))
	assert.Equal(t, domain.Color{R: 255, G: 185}, HeatColor(50, 100))
	assert.Equal(t, domain.Color{R: 255, G: 127}, HeatColor(65, 100))
	assert.Equal(t, domain.Color{R: 255, G: 65}, HeatColor(82, 100))
}

func TestHeatColor_ClampsAboveMax(t *testing.T) {
	assert.Equal(t, domain.Color{R: 255, G: 0}, HeatColor(20, 10))
}

type scored struct {
	name  string
	count int
}

func scoredCount(s scored) int   { return s.count }
func scoredName(s scored) string { return s.name }

func TestTopN_TruncatesAndSorts(t *testing.T) {
	items := []scored{{"a", 1}, {"b", 7}, {"c", 3}, {"d", 9}, {"e", 2}, {"f", 5}, {"g", 4}}

	top := TopN(items, 5, scoredCount, scoredName)

	require.Len(t, top, 5)
	assert.Equal(t, []scored{{"d", 9}, {"b", 7}, {"f", 5}, {"g", 4}, {"c", 3}}, top)
	assert.Equal(t, "a", items[0].name, "input must not be reordered")
}

func TestTopN_FewerThanN(t *testing.T) {
	items := []scored{{"x", 1}, {"y", 3}}
	top := TopN(items, 5, scoredCount, scoredName)
	assert.Equal(t, []scored{{"y", 3}, {"x", 1}}, top)
}

func TestTopN_TiesByName(t *testing.T) {
	items := []scored{{"zeta", 2}, {"alpha", 2}, {"mid", 2}}
	top := TopN(items, 2, scoredCount, scoredName)
	assert.Equal(t, []scored{{"alpha", 2}, {"mid", 2}}, top)
}

func TestTopN_NegativeKeepsAll(t *testing.T) {
	items := []scored{{"a", 1}, {"b", 2}, {"c", 3}, {"d", 4}, {"e", 5}, {"f", 6}}
	assert.Len(t, TopN(items, -1, scoredCount, scoredName), 6)
}

func TestPercent(t *testing.T) {
	assert.Equal(t, 33.3, Percent(2, 6))
	assert.Equal(t, 66.7, Percent(4, 6))
	assert.Equal(t, 100.0, Percent(1, 1))
	assert.Equal(t, 0.0, Percent(0, 0))
	assert.Equal(t, 200.0, Percent(2, 0), "total floors at 1")
}

func TestAggregate_MergedScenario(t *testing.T) {
	rows := []domain.EventRow{
		row("A", "A1", "A1a", ""),
		row("A", "A1", "A1b", ""),
		row("B", "B1", "B1a", ""),
		row("B", "B1", "B1a", ""),
		row("C", "C1", "C1a", ""),
		row("C", "C2", "C2a", ""),
	}

	regions := Aggregate(rows, DefaultTopN)

	require.Len(t, regions, 3)
	for _, r := range regions {
		assert.Equal(t, 2, r.Count)
		assert.Equal(t, 33.3, r.Percent)
	}
	assert.Equal(t, []string{"A", "B", "C"}, []string{regions[0].Name, regions[1].Name, regions[2].Name})

	// global max system count is 2 (B1a); region counts of 2 scale to red
	assert.Equal(t, "rgb(255,0,0)", regions[1].Color.String())
	b1 := regions[1].Constellations[0]
	assert.Equal(t, "B1a", b1.Systems[0].Name)
	assert.Equal(t, "rgb(255,0,0)", b1.Systems[0].Color.String())

	// a single-kill system is 50% of the global max
	a1 := regions[0].Constellations[0]
	assert.Equal(t, 2, a1.Count)
	assert.Len(t, a1.Systems, 2)
	assert.Equal(t, domain.Color{R: 255, G: 185}, a1.Systems[0].Color)
}

func TestAggregate_RegionSumEqualsTotal(t *testing.T) {
	var rows []domain.EventRow
	for i := 0; i < 40; i++ {
		rows = append(rows, row(fmt.Sprintf("R%d", i%8), fmt.Sprintf("C%d", i%3), fmt.Sprintf("S%d", i%11), ""))
	}

	all := Aggregate(rows, -1)
	sum := 0
	for _, r := range all {
		sum += r.Count
	}
	assert.Equal(t, len(rows), sum)

	top := Aggregate(rows, DefaultTopN)
	require.Len(t, top, 5)
	topSum := 0
	for i, r := range top {
		topSum += r.Count
		assert.LessOrEqual(t, len(r.Constellations), 5)
		if i > 0 {
			assert.GreaterOrEqual(t, top[i-1].Count, r.Count)
		}
		assert.GreaterOrEqual(t, r.Percent, 0.0)
		assert.LessOrEqual(t, r.Percent, 100.0)
		assert.Equal(t, Percent(r.Count, len(rows)), r.Percent)
	}
	assert.LessOrEqual(t, topSum, len(rows))
}

func TestAggregate_TruncatesEveryLevel(t *testing.T) {
	var rows []domain.EventRow
	for c := 0; c < 7; c++ {
		for s := 0; s < 7; s++ {
			rows = append(rows, row("Only", fmt.Sprintf("C%d", c), fmt.Sprintf("S%d-%d", c, s), ""))
		}
	}

	regions := Aggregate(rows, DefaultTopN)
	require.Len(t, regions, 1)
	assert.Equal(t, 49, regions[0].Count)
	assert.Equal(t, 100.0, regions[0].Percent)
	require.Len(t, regions[0].Constellations, 5)
	for _, c := range regions[0].Constellations {
		assert.Len(t, c.Systems, 5)
	}
}

func TestAggregate_Empty(t *testing.T) {
	assert.Empty(t, Aggregate(nil, DefaultTopN))
}

func TestAggregate_UnknownLocations(t *testing.T) {
	regions := Aggregate([]domain.EventRow{domain.NewEventRow(map[string]string{})}, DefaultTopN)
	require.Len(t, regions, 1)
	assert.Equal(t, domain.UnknownRegion, regions[0].Name)
	assert.Equal(t, domain.UnknownConstellation, regions[0].Constellations[0].Name)
	assert.Equal(t, domain.UnknownSystem, regions[0].Constellations[0].Systems[0].Name)
}

func TestFilterByDate(t *testing.T) {
	rows := []domain.EventRow{
		row("A", "c", "s", "2024-01-01T10:00:00Z"),
		row("A", "c", "s", "2024-02-01T10:00:00Z"),
		row("A", "c", "s", "garbage"),
		row("A", "c", "s", ""),
	}

	assert.Len(t, FilterByDate(rows, domain.DateRange{}), 4)

	start := time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC)
	kept := FilterByDate(rows, domain.DateRange{Start: &start})
	require.Len(t, kept, 1)
	assert.Equal(t, 2, int(kept[0].OccurredAt.Month()))

	end := time.Date(2024, 1, 1, 10, 0, 0, 0, time.UTC)
	kept = FilterByDate(rows, domain.DateRange{End: &end})
	require.Len(t, kept, 1)
	assert.Equal(t, 1, int(kept[0].OccurredAt.Month()))
}

func TestHourly(t *testing.T) {
	rows := []domain.EventRow{
		row("A", "c", "s", "2024-01-01T00:15:00Z"),
		row("A", "c", "s", "2024-01-01T13:00:00Z"),
		row("A", "c", "s", "2024-01-02T13:59:59Z"),
		row("A", "c", "s", "2024-01-02T15:30:00+02:00"),
		row("A", "c", "s", ""),
	}

	buckets := Hourly(rows, len(rows), DefaultMaxBarPx)

	require.Len(t, buckets, 24)
	assert.Equal(t, "00", buckets[0].Hour)
	assert.Equal(t, "23", buckets[23].Hour)
	assert.Equal(t, 1, buckets[0].Count)
	assert.Equal(t, 3, buckets[13].Count)
	assert.Equal(t, 60.0, buckets[13].Percent)
	assert.Equal(t, 180, buckets[13].Height)
	assert.Equal(t, 60, buckets[0].Height)

	sum := 0
	for _, b := range buckets {
		sum += b.Count
	}
	assert.Equal(t, 4, sum)
	assert.LessOrEqual(t, sum, len(rows))
}

func TestHourly_SumEqualsTotalWhenAllTimed(t *testing.T) {
	var rows []domain.EventRow
	for h := 0; h < 48; h++ {
		rows = append(rows, row("A", "c", "s", fmt.Sprintf("2024-05-%02dT%02d:00:00Z", 1+h/24, h%24)))
	}
	sum := 0
	for _, b := range Hourly(rows, len(rows), DefaultMaxBarPx) {
		sum += b.Count
		assert.Equal(t, 2, b.Count)
		assert.Equal(t, 4.2, b.Percent)
	}
	assert.Equal(t, len(rows), sum)
}

func TestHourly_EmptyInput(t *testing.T) {
	buckets := Hourly(nil, 0, DefaultMaxBarPx)
	require.Len(t, buckets, 24)
	for _, b := range buckets {
		assert.Zero(t, b.Count)
		assert.Zero(t, b.Height)
	}
}
