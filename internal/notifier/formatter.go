package notifier

import (
	"fmt"
	"html"
	"strings"

	"DrawdownLens/internal/report"
	"DrawdownLens/internal/service"
)

// FormatReport renders an analysis as a Telegram HTML message.
func FormatReport(a *service.Analysis) string {
	r := a.Report
	h := r.Headline
	var b strings.Builder

	fmt.Fprintf(&b, "📉 <b>%s (%s)</b> | %s\n\n",
		html.EscapeString(h.Name), html.EscapeString(h.Symbol), r.AsOf.Format("2006-01-02"))

	fmt.Fprintf(&b, "52-week high: %.2f\n", h.StockHigh52w)
	fmt.Fprintf(&b, "Current: %.2f (-%.1f%%)\n", h.CurrentPrice, h.CurrentDrawdownPct)
	fmt.Fprintf(&b, "52-week low: %.2f | Year low: %.2f\n", h.Low52w, h.YearLow)
	if c := h.Context; c != nil {
		if c.MA200 != nil && c.MA200DevPct != nil {
			fmt.Fprintf(&b, "MA200: %.2f (%+.1f%%)\n", *c.MA200, *c.MA200DevPct)
		}
		if c.DailyRSI != nil {
			fmt.Fprintf(&b, "Daily RSI: %.0f\n", *c.DailyRSI)
		}
	}
	if f := a.Financials; f != nil {
		fmt.Fprintf(&b, "Quarter %s: op. income %s, net income %s\n",
			f.QuarterEnd.Format("2006-01-02"), optFinancial(f.OperatingIncome), optFinancial(f.NetIncome))
	}

	fmt.Fprintf(&b, "\n🎯 <b>Odds of +%.1f%% within a year</b>\n<pre>", r.TargetGainPct)
	b.WriteString(" Drop    Price   Rate   Win/All  Days\n")
	for _, row := range r.Rows {
		if row.Summary == nil {
			fmt.Fprintf(&b, "%4.1f%% %8.2f %s\n", row.DropPct, row.TargetPrice, markerFor(row.IsGrid, report.RowLabel(row)))
			continue
		}
		s := row.Summary
		days := "-"
		if s.AverageDaysToAchieve != nil {
			days = fmt.Sprintf("%.1f", *s.AverageDaysToAchieve)
		}
		fmt.Fprintf(&b, "%4.0f%% %8.2f %5.1f%% %4d/%-4d %5s\n",
			row.DropPct, row.TargetPrice, s.SuccessRatePct, s.SuccessCount, s.TotalCount, days)
	}
	b.WriteString("</pre>")
	return b.String()
}

func markerFor(isGrid bool, label string) string {
	if isGrid {
		return ""
	}
	return "◀ " + label
}

func optFinancial(v *float64) string {
	if v == nil {
		return "N/A"
	}
	return report.FormatFinancial(*v)
}

// FormatHelp lists the bot commands.
func FormatHelp(defaultTarget float64) string {
	return fmt.Sprintf("Available commands:\n"+
		"• /drop TICKER [target%%]: rebound odds by drop from the 52-week high (default target %g%%)\n"+
		"• /help: this message", defaultTarget)
}
