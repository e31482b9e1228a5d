package stats

import (
	"fmt"
	"math"

	"github.com/echoes-intel/playint/internal/domain"
)

// DefaultMaxBarPx is the chart height of a bucket holding every row
const DefaultMaxBarPx = 300

// Hourly buckets rows by UTC hour of day. Rows without a parseable
// timestamp are skipped but still part of total.
func Hourly(rows []domain.EventRow, total, maxBarPx int) []domain.HourBucket {
	if total < 1 {
		total = 1
	}

	var counts [24]int
	for _, row := range rows {
		if row.HasTime {
			counts[row.OccurredAt.UTC().Hour()]++
		}
	}

	buckets := make([]domain.HourBucket, 24)
	for hour, n := range counts {
		buckets[hour] = domain.HourBucket{
			Hour:    fmt.Sprintf("%02d", hour),
			Count:   n,
			Height:  int(math.Round(float64(n) / float64(total) * float64(maxBarPx))),
			Percent: Percent(n, total),
		}
	}
	return buckets
}
