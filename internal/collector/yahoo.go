package collector

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math"
	"net/http"
	"net/url"
	"sort"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"DrawdownLens/internal/model"
)

const (
	DefaultYahooChartURL      = "https://query1.finance.yahoo.com"
	DefaultYahooTimeseriesURL = "https://query2.finance.yahoo.com"
	DefaultYahooRateLimit     = 2 // requests per second
	DefaultYahooRetries       = 2
)

// APIError is a non-200 response from an upstream provider.
type APIError struct {
	Provider   string
	StatusCode int
	Body       string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("%s: status %d, body: %s", e.Provider, e.StatusCode, e.Body)
}

func (e *APIError) retryable() bool {
	return e.StatusCode == http.StatusTooManyRequests || e.StatusCode >= 500
}

// YahooFetcher implements Fetcher using the Yahoo Finance public API.
type YahooFetcher struct {
	Client        *http.Client
	SymbolMap     map[string]string // maps internal symbol to Yahoo ticker
	ChartURL      string
	TimeseriesURL string
	MaxRetries    int
	RetryBackoff  time.Duration

	limiter *rate.Limiter
	logger  *zap.Logger
	names   sync.Map // Yahoo ticker -> display name from chart meta
}

// YahooOption configures a YahooFetcher.
type YahooOption func(*YahooFetcher)

// WithYahooBaseURL points both chart and timeseries requests at baseURL.
func WithYahooBaseURL(baseURL string) YahooOption {
	return func(f *YahooFetcher) {
		f.ChartURL = baseURL
		f.TimeseriesURL = baseURL
	}
}

// WithYahooRateLimit sets the request rate in requests per second.
func WithYahooRateLimit(rps float64) YahooOption {
	return func(f *YahooFetcher) {
		if rps > 0 {
			f.limiter = rate.NewLimiter(rate.Limit(rps), int(math.Max(1, rps)))
		}
	}
}

// WithYahooRetries sets how many times a failed request is retried.
func WithYahooRetries(n int, backoff time.Duration) YahooOption {
	return func(f *YahooFetcher) {
		f.MaxRetries = n
		f.RetryBackoff = backoff
	}
}

// WithYahooLogger sets the logger.
func WithYahooLogger(logger *zap.Logger) YahooOption {
	return func(f *YahooFetcher) {
		f.logger = logger
	}
}

// NewYahooFetcher creates a new Yahoo Finance fetcher with optional proxy support.
func NewYahooFetcher(proxyURL string, opts ...YahooOption) *YahooFetcher {
	transport := &http.Transport{}
	if proxyURL != "" {
		if u, err := url.Parse(proxyURL); err == nil {
			transport.Proxy = http.ProxyURL(u)
		}
	}
	f := &YahooFetcher{
		Client: &http.Client{
			Timeout:   30 * time.Second,
			Transport: transport,
		},
		SymbolMap: map[string]string{
			"SPX500": "^GSPC",
			"SPX":    "^GSPC",
			"SP500":  "^GSPC",
		},
		ChartURL:      DefaultYahooChartURL,
		TimeseriesURL: DefaultYahooTimeseriesURL,
		MaxRetries:    DefaultYahooRetries,
		RetryBackoff:  time.Second,
		limiter:       rate.NewLimiter(rate.Limit(DefaultYahooRateLimit), DefaultYahooRateLimit),
		logger:        zap.NewNop(),
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

func (f *YahooFetcher) Name() string { return "yahoo" }

func (f *YahooFetcher) yahooSymbol(symbol string) string {
	if mapped, ok := f.SymbolMap[symbol]; ok {
		return mapped
	}
	return symbol
}

// yahooChart is the response structure from Yahoo Finance chart API.
type yahooChart struct {
	Chart struct {
		Result []struct {
			Meta struct {
				Symbol    string `json:"symbol"`
				LongName  string `json:"longName"`
				ShortName string `json:"shortName"`
				GMTOffset int    `json:"gmtoffset"`
			} `json:"meta"`
			Timestamp  []int64 `json:"timestamp"`
			Indicators struct {
				Quote []struct {
					Open   []*float64 `json:"open"`
					High   []*float64 `json:"high"`
					Low    []*float64 `json:"low"`
					Close  []*float64 `json:"close"`
					Volume []*float64 `json:"volume"`
				} `json:"quote"`
			} `json:"indicators"`
		} `json:"result"`
		Error *struct {
			Code        string `json:"code"`
			Description string `json:"description"`
		} `json:"error"`
	} `json:"chart"`
}

func at(vals []*float64, i int) float64 {
	if i >= len(vals) || vals[i] == nil {
		return 0
	}
	return *vals[i]
}

// get performs a rate-limited GET, retrying transport errors, 429 and 5xx
// with exponential backoff.
func (f *YahooFetcher) get(ctx context.Context, u string) ([]byte, error) {
	var lastErr error
	for attempt := 0; attempt <= f.MaxRetries; attempt++ {
		if attempt > 0 {
			backoff := f.RetryBackoff * time.Duration(1<<uint(attempt-1))
			f.logger.Warn("yahoo request failed, retrying",
				zap.Int("attempt", attempt),
				zap.Duration("backoff", backoff),
				zap.Error(lastErr))
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(backoff):
			}
		}

		body, err := f.do(ctx, u)
		if err == nil {
			return body, nil
		}
		lastErr = err
		var apiErr *APIError
		if errors.As(err, &apiErr) && !apiErr.retryable() {
			return nil, err
		}
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
	}
	return nil, fmt.Errorf("all %d attempts failed: %w", f.MaxRetries+1, lastErr)
}

func (f *YahooFetcher) do(ctx context.Context, u string) ([]byte, error) {
	if err := f.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("yahoo rate limit: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", "Mozilla/5.0")

	resp, err := f.Client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("yahoo fetch: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("yahoo read body: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, &APIError{Provider: "yahoo", StatusCode: resp.StatusCode, Body: string(body)}
	}
	return body, nil
}

func (f *YahooFetcher) fetchChart(ctx context.Context, symbol string, params url.Values) ([]model.Bar, error) {
	ySym := f.yahooSymbol(symbol)
	u := fmt.Sprintf("%s/v8/finance/chart/%s?%s", f.ChartURL, url.PathEscape(ySym), params.Encode())

	body, err := f.get(ctx, u)
	if err != nil {
		return nil, err
	}

	var chart yahooChart
	if err := json.Unmarshal(body, &chart); err != nil {
		return nil, fmt.Errorf("yahoo decode: %w", err)
	}
	if chart.Chart.Error != nil {
		return nil, fmt.Errorf("yahoo api error: %s", chart.Chart.Error.Description)
	}
	if len(chart.Chart.Result) == 0 || len(chart.Chart.Result[0].Timestamp) == 0 ||
		len(chart.Chart.Result[0].Indicators.Quote) == 0 {
		return nil, nil
	}

	result := chart.Chart.Result[0]
	if name := result.Meta.LongName; name != "" {
		f.names.Store(ySym, name)
	} else if result.Meta.ShortName != "" {
		f.names.Store(ySym, result.Meta.ShortName)
	}

	loc := time.FixedZone("exchange", result.Meta.GMTOffset)
	quote := result.Indicators.Quote[0]
	bars := make([]model.Bar, 0, len(result.Timestamp))

	for i, ts := range result.Timestamp {
		c := at(quote.Close, i)
		if c == 0 {
			continue // skip null bars (holidays etc.)
		}
		bars = append(bars, model.Bar{
			Date:   dayOf(time.Unix(ts, 0).In(loc)),
			Open:   at(quote.Open, i),
			High:   at(quote.High, i),
			Low:    at(quote.Low, i),
			Close:  c,
			Volume: int64(at(quote.Volume, i)),
		})
	}

	sort.Slice(bars, func(i, j int) bool { return bars[i].Date.Before(bars[j].Date) })
	return bars, nil
}

func (f *YahooFetcher) FetchDailyBars(ctx context.Context, symbol string, start, end time.Time) ([]model.Bar, error) {
	params := url.Values{}
	params.Set("interval", "1d")
	params.Set("period1", fmt.Sprint(start.Unix()))
	params.Set("period2", fmt.Sprint(end.Unix()))
	params.Set("events", "history")
	return f.fetchChart(ctx, symbol, params)
}

// FetchName returns the company name from chart metadata, reusing the name
// seen by an earlier FetchDailyBars call when available.
func (f *YahooFetcher) FetchName(ctx context.Context, symbol string) (string, error) {
	ySym := f.yahooSymbol(symbol)
	if v, ok := f.names.Load(ySym); ok {
		return v.(string), nil
	}
	params := url.Values{}
	params.Set("interval", "1d")
	params.Set("range", "5d")
	if _, err := f.fetchChart(ctx, symbol, params); err != nil {
		return "", err
	}
	if v, ok := f.names.Load(ySym); ok {
		return v.(string), nil
	}
	return "", nil
}

type yahooTimeseries struct {
	Timeseries struct {
		Result []map[string]json.RawMessage `json:"result"`
	} `json:"timeseries"`
}

type yahooTimeseriesPoint struct {
	AsOfDate      string `json:"asOfDate"`
	ReportedValue struct {
		Raw float64 `json:"raw"`
	} `json:"reportedValue"`
}

var financialTypes = []string{"quarterlyOperatingIncome", "quarterlyNetIncome"}

// FetchQuarterlyFinancials returns operating and net income for the most
// recent quarter reported. It returns nil when Yahoo has no figures.
func (f *YahooFetcher) FetchQuarterlyFinancials(ctx context.Context, symbol string) (*model.QuarterlyFinancials, error) {
	now := time.Now()
	params := url.Values{}
	params.Set("type", strings.Join(financialTypes, ","))
	params.Set("period1", fmt.Sprint(now.AddDate(-2, 0, 0).Unix()))
	params.Set("period2", fmt.Sprint(now.Unix()))
	u := fmt.Sprintf("%s/ws/fundamentals-timeseries/v1/finance/timeseries/%s?%s",
		f.TimeseriesURL, url.PathEscape(f.yahooSymbol(symbol)), params.Encode())

	body, err := f.get(ctx, u)
	if err != nil {
		return nil, err
	}
	var ts yahooTimeseries
	if err := json.Unmarshal(body, &ts); err != nil {
		return nil, fmt.Errorf("yahoo timeseries decode: %w", err)
	}

	latest := make(map[string]yahooTimeseriesPoint, len(financialTypes))
	for _, result := range ts.Timeseries.Result {
		for _, typ := range financialTypes {
			raw, ok := result[typ]
			if !ok {
				continue
			}
			var points []*yahooTimeseriesPoint
			if err := json.Unmarshal(raw, &points); err != nil {
				return nil, fmt.Errorf("yahoo timeseries %s: %w", typ, err)
			}
			for _, p := range points {
				if p != nil && p.AsOfDate > latest[typ].AsOfDate {
					latest[typ] = *p
				}
			}
		}
	}

	var quarter string
	for _, p := range latest {
		if p.AsOfDate > quarter {
			quarter = p.AsOfDate
		}
	}
	if quarter == "" {
		return nil, nil
	}
	end, err := time.Parse("2006-01-02", quarter)
	if err != nil {
		return nil, fmt.Errorf("yahoo timeseries date %q: %w", quarter, err)
	}

	fin := &model.QuarterlyFinancials{QuarterEnd: end}
	if p, ok := latest["quarterlyOperatingIncome"]; ok && p.AsOfDate == quarter {
		v := p.ReportedValue.Raw
		fin.OperatingIncome = &v
	}
	if p, ok := latest["quarterlyNetIncome"]; ok && p.AsOfDate == quarter {
		v := p.ReportedValue.Raw
		fin.NetIncome = &v
	}
	return fin, nil
}
