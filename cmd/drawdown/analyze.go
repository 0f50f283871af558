package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"
	"github.com/tidwall/pretty"
	"go.uber.org/zap"

	"DrawdownLens/internal/report"
	"DrawdownLens/internal/service"
)

var (
	analyzeTarget  float64
	analyzeJSON    bool
	analyzeTimeout time.Duration
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze TICKER",
	Short: "Print a one-shot drawdown report for a ticker",
	Args:  cobra.ExactArgs(1),
	RunE:  runAnalyze,
}

func init() {
	analyzeCmd.Flags().Float64VarP(&analyzeTarget, "target", "t", 0, "target gain in percent (default from config)")
	analyzeCmd.Flags().BoolVar(&analyzeJSON, "json", false, "print the report as JSON")
	analyzeCmd.Flags().DurationVar(&analyzeTimeout, "timeout", 60*time.Second, "overall deadline")
}

func runAnalyze(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	// Keep stdout clean for the report; only warnings go to stderr.
	cfg.Logging.Level = "warn"
	logger, err := newLogger(cfg)
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	defer logger.Sync()

	st := newStore(cfg, logger)
	defer st.Close()

	analyzer, err := newAnalyzer(cfg, st, logger)
	if err != nil {
		return err
	}

	target := analyzeTarget
	if !cmd.Flags().Changed("target") {
		target = cfg.Analysis.DefaultTarget
	}

	ctx, cancel := context.WithTimeout(cmd.Context(), analyzeTimeout)
	defer cancel()

	a, err := analyzer.Analyze(ctx, args[0], target)
	if err != nil {
		logger.Debug("analysis failed", zap.String("ticker", args[0]), zap.Error(err))
		return err
	}

	if analyzeJSON {
		data, err := json.Marshal(a)
		if err != nil {
			return fmt.Errorf("encode report: %w", err)
		}
		_, err = os.Stdout.Write(pretty.Pretty(data))
		return err
	}
	return writeText(os.Stdout, a, cfg.Analysis.ForwardWindow)
}

// writeText prints the report as an aligned plain-text table.
func writeText(out io.Writer, a *service.Analysis, window int) error {
	r := a.Report
	h := r.Headline

	fmt.Fprintf(out, "%s (%s) as of %s\n", h.Name, h.Symbol, r.AsOf.Format("2006-01-02"))
	fmt.Fprintf(out, "52-week high %.2f, current %.2f (-%.2f%%), 52-week low %.2f, year low %.2f\n",
		h.StockHigh52w, h.CurrentPrice, h.CurrentDrawdownPct, h.Low52w, h.YearLow)
	if f := a.Financials; f != nil {
		fmt.Fprintf(out, "Quarter ending %s: operating income %s, net income %s\n",
			f.QuarterEnd.Format("2006-01-02"), financialOrNA(f.OperatingIncome), financialOrNA(f.NetIncome))
	}
	fmt.Fprintf(out, "\nOdds of reaching +%.2f%% within %d trading days\n\n", r.TargetGainPct, window)

	tw := tabwriter.NewWriter(out, 0, 0, 2, ' ', tabwriter.AlignRight)
	fmt.Fprintln(tw, "Drop\tPrice\tRate\tWins\tEvents\tAvg days\t")
	for _, row := range r.Rows {
		if row.Summary == nil {
			fmt.Fprintf(tw, "%.2f%%\t%.2f\t\t\t\t%s\t\n", row.DropPct, row.TargetPrice, report.RowLabel(row))
			continue
		}
		s := row.Summary
		days := "-"
		if s.AverageDaysToAchieve != nil {
			days = fmt.Sprintf("%.1f", *s.AverageDaysToAchieve)
		}
		fmt.Fprintf(tw, "%.0f%%\t%.2f\t%.2f%%\t%d\t%d\t%s\t\n",
			row.DropPct, row.TargetPrice, s.SuccessRatePct, s.SuccessCount, s.TotalCount, days)
	}
	return tw.Flush()
}

func financialOrNA(v *float64) string {
	if v == nil {
		return "N/A"
	}
	return report.FormatFinancial(*v)
}
