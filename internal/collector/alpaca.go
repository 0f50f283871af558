package collector

import (
	"context"
	"fmt"
	"time"
	_ "time/tzdata"

	"github.com/alpacahq/alpaca-trade-api-go/v3/marketdata"

	"DrawdownLens/internal/model"
)

// AlpacaFetcher implements Fetcher using the Alpaca market data API.
type AlpacaFetcher struct {
	client *marketdata.Client
	feed   marketdata.Feed
	loc    *time.Location
}

// NewAlpacaFetcher creates a fetcher for the given credentials. An empty
// baseURL uses Alpaca's production data endpoint; feed defaults to IEX.
func NewAlpacaFetcher(apiKey, apiSecret, baseURL, feed string) *AlpacaFetcher {
	if feed == "" {
		feed = marketdata.IEX
	}
	loc, err := time.LoadLocation("America/New_York")
	if err != nil {
		loc = time.UTC
	}
	return &AlpacaFetcher{
		client: marketdata.NewClient(marketdata.ClientOpts{
			APIKey:     apiKey,
			APISecret:  apiSecret,
			BaseURL:    baseURL,
			RetryLimit: DefaultYahooRetries,
		}),
		feed: feed,
		loc:  loc,
	}
}

func (f *AlpacaFetcher) Name() string { return "alpaca" }

// FetchDailyBars returns split-adjusted daily bars. The SDK call is not
// context aware, so cancellation is only observed before the request.
func (f *AlpacaFetcher) FetchDailyBars(ctx context.Context, symbol string, start, end time.Time) ([]model.Bar, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	raw, err := f.client.GetBars(symbol, marketdata.GetBarsRequest{
		TimeFrame:  marketdata.OneDay,
		Adjustment: marketdata.Split,
		Start:      start,
		End:        end,
		Feed:       f.feed,
	})
	if err != nil {
		return nil, fmt.Errorf("alpaca get bars: %w", err)
	}

	bars := make([]model.Bar, 0, len(raw))
	for _, b := range raw {
		bars = append(bars, model.Bar{
			Date:   dayOf(b.Timestamp.In(f.loc)),
			Open:   b.Open,
			High:   b.High,
			Low:    b.Low,
			Close:  b.Close,
			Volume: int64(b.Volume),
		})
	}
	return bars, nil
}
