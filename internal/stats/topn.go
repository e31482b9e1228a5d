package stats

import (
	"math"
	"sort"
)

// TopN returns at most n items sorted by descending count, ties by ascending name.
// The input slice is not modified.
func TopN[T any](items []T, n int, count func(T) int, name func(T) string) []T {
	out := make([]T, len(items))
	copy(out, items)

	sort.SliceStable(out, func(i, j int) bool {
		ci, cj := count(out[i]), count(out[j])
		if ci != cj {
			return ci > cj
		}
		return name(out[i]) < name(out[j])
	})

	if n >= 0 && len(out) > n {
		out = out[:n]
	}
	return out
}

// Round1 rounds to one decimal place
func Round1(x float64) float64 {
	return math.Round(x*10) / 10
}

// Percent returns count/total*100 rounded to one decimal; total is floored at 1
func Percent(count, total int) float64 {
	if total < 1 {
		total = 1
	}
	return Round1(float64(count) / float64(total) * 100)
}
