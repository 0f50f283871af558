package server

import (
	"fmt"
	"html/template"
	"time"

	"DrawdownLens/internal/model"
	"DrawdownLens/internal/report"
)

var templateFuncs = template.FuncMap{
	"price": func(v float64) string { return fmt.Sprintf("%.2f", v) },
	"pct":   func(v float64) string { return fmt.Sprintf("%.1f%%", v) },
	"days": func(v *float64) string {
		if v == nil {
			return "-"
		}
		return fmt.Sprintf("%.1f", *v)
	},
	"financial": func(v *float64) string {
		if v == nil {
			return "N/A"
		}
		return report.FormatFinancial(*v)
	},
	"opt": func(v *float64) string {
		if v == nil {
			return "N/A"
		}
		return fmt.Sprintf("%.2f", *v)
	},
	"signed": func(v *float64) string {
		if v == nil {
			return ""
		}
		return fmt.Sprintf("%+.2f%%", *v)
	},
	"date":   func(t time.Time) string { return t.Format("2006-01-02") },
	"mul100": func(v float64) float64 { return v * 100 },
	"label":  func(row model.PriceLevelRow) string { return report.RowLabel(row) },
}
