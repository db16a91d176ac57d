package transform

import (
	"math"

	"golang-market-etl/internal/etl/frame"
)

// Sanitize rewrites NaN and ±Inf cells to nil across every column of f and
// returns the number of cells rewritten. It is the last step before loading.
func Sanitize(f *frame.Frame) int {
	rewritten := 0
	for _, row := range f.Rows() {
		for col, v := range row {
			if nonFinite(v) {
				row[col] = nil
				rewritten++
			}
		}
	}
	return rewritten
}

func nonFinite(v interface{}) bool {
	switch n := v.(type) {
	case float64:
		return math.IsNaN(n) || math.IsInf(n, 0)
	case float32:
		f := float64(n)
		return math.IsNaN(f) || math.IsInf(f, 0)
	case *float64:
		return n != nil && (math.IsNaN(*n) || math.IsInf(*n, 0))
	default:
		return false
	}
}
