package analysis

import (
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
)

// round rounds v half away from zero at the given number of decimal places,
// working on the shortest decimal representation of v.
func round(v float64, places int32) float64 {
	return decimal.NewFromFloat(v).Round(places).InexactFloat64()
}

func ptr[T any](v T) *T {
	return &v
}

// deref returns the zero value for nil.
func deref[T any](p *T) T {
	var zero T
	if p == nil {
		return zero
	}
	return *p
}

// formatPercent renders a percent with at least one decimal: 3 -> "3.0".
func formatPercent(p float64) string {
	s := strconv.FormatFloat(p, 'f', -1, 64)
	if !strings.ContainsAny(s, ".eE") {
		s += ".0"
	}
	return s
}
