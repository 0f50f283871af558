package report

import (
	"fmt"
	"math"

	"DrawdownLens/internal/model"
)

// FormatFinancial renders a reported figure with a B/M/K suffix and two
// decimals, e.g. 21448000000 -> "21.45B".
func FormatFinancial(v float64) string {
	abs := math.Abs(v)
	switch {
	case abs >= 1e9:
		return fmt.Sprintf("%.2fB", v/1e9)
	case abs >= 1e6:
		return fmt.Sprintf("%.2fM", v/1e6)
	case abs >= 1e3:
		return fmt.Sprintf("%.2fK", v/1e3)
	default:
		return fmt.Sprintf("%.2f", v)
	}
}

// RowLabel names a special row, or returns "" for grid rows.
func RowLabel(row model.PriceLevelRow) string {
	switch {
	case row.IsCurrent:
		return "Current price"
	case row.IsLow52w:
		return "52-week low"
	case row.IsYearLow:
		return "Year low"
	default:
		return ""
	}
}
