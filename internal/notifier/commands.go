package notifier

import (
	"context"
	"errors"
	"fmt"
	"html"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"DrawdownLens/internal/model"
	"DrawdownLens/internal/service"
)

// Analyzer runs the report behind /drop.
type Analyzer interface {
	Analyze(ctx context.Context, ticker string, targetGainPct float64) (*service.Analysis, error)
}

// Commands answers bot commands.
type Commands struct {
	Analyzer      Analyzer
	DefaultTarget float64
	Logger        *zap.Logger
}

// NewCommands creates a command set.
func NewCommands(a Analyzer, defaultTarget float64, logger *zap.Logger) *Commands {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Commands{Analyzer: a, DefaultTarget: defaultTarget, Logger: logger}
}

// Handle processes a user command and returns a reply.
func (c *Commands) Handle(ctx context.Context, text string) string {
	fields := strings.Fields(text)
	if len(fields) == 0 {
		return ""
	}
	cmd := strings.ToLower(fields[0])
	if i := strings.IndexByte(cmd, '@'); i > 0 {
		cmd = cmd[:i] // "/drop@SomeBot" in group chats
	}

	switch cmd {
	case "/drop":
		return c.drop(ctx, fields[1:])
	default:
		return FormatHelp(c.DefaultTarget)
	}
}

func (c *Commands) drop(ctx context.Context, args []string) string {
	if len(args) == 0 {
		return "Usage: /drop TICKER [target%]"
	}
	target := c.DefaultTarget
	if len(args) > 1 {
		v, err := strconv.ParseFloat(strings.TrimSuffix(args[1], "%"), 64)
		if err != nil {
			return "❌ " + html.EscapeString((&model.ValidationError{Field: "target", Reason: "must be a number"}).Error())
		}
		target = v
	}

	analysis, err := c.Analyzer.Analyze(ctx, args[0], target)
	if err != nil {
		return c.errorReply(args[0], err)
	}
	return FormatReport(analysis)
}

func (c *Commands) errorReply(ticker string, err error) string {
	var verr *model.ValidationError
	var derr *model.DataUnavailableError
	switch {
	case errors.As(err, &verr):
		return "❌ " + html.EscapeString(verr.Error())
	case errors.As(err, &derr):
		return fmt.Sprintf("❌ No price data found for %s. Check the ticker symbol.", html.EscapeString(derr.Symbol))
	default:
		c.Logger.Error("drop command failed", zap.String("symbol", ticker), zap.Error(err))
		return "❌ Analysis failed, please try again later."
	}
}
