package stats

import (
	"math"

	"github.com/echoes-intel/playint/internal/domain"
)

// Heat gradient breakpoints, in percent of the maximum count.
// green→yellow up to 32, yellow→orange up to 65, orange→red above.
const (
	yellowAt = 32.0
	orangeAt = 65.0
)

// DefaultColor is used when there is nothing to scale against
var DefaultColor = domain.Color{R: 0, G: 255, B: 0}

// HeatColor maps count relative to maxCount onto the three-segment heat gradient
func HeatColor(count, maxCount int) domain.Color {
	if maxCount <= 0 {
		return DefaultColor
	}

	pct := float64(count) / float64(maxCount) * 100

	var r, g float64
	switch {
	case pct <= yellowAt:
		t := pct / yellowAt
		r = math.Round(t * 255)
		g = 255
	case pct <= orangeAt:
		t := (pct - yellowAt) / (orangeAt - yellowAt)
		r = 255
		g = math.Round(255 - t*128)
	default:
		t := (pct - orangeAt) / (100 - orangeAt)
		r = 255
		g = math.Round(127 - t*127)
	}

	return domain.Color{R: clamp(r), G: clamp(g), B: 0}
}

func clamp(v float64) int {
	if v < 0 {
		return 0
	}
	if v > 255 {
		return 255
	}
	return int(v)
}
