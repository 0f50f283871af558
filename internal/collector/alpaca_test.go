package collector

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const alpacaBars = `[
  {"t":"2024-01-02T05:00:00Z","o":187.15,"h":188.44,"l":183.89,"c":185.64,"v":82488700,"n":1000,"vw":185.9},
  {"t":"2024-01-03T05:00:00Z","o":184.22,"h":185.88,"l":183.43,"c":184.25,"v":58414500,"n":900,"vw":184.5}
]`

func TestAlpacaFetcher_FetchDailyBars(t *testing.T) {
	var gotKey string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotKey = r.Header.Get("APCA-API-KEY-ID")
		w.Header().Set("Content-Type", "application/json")
		if strings.HasSuffix(r.URL.Path, "/stocks/bars") {
			fmt.Fprintf(w, `{"bars":{"AAPL":%s},"next_page_token":null}`, alpacaBars)
			return
		}
		fmt.Fprintf(w, `{"symbol":"AAPL","bars":%s,"next_page_token":null}`, alpacaBars)
	}))
	defer srv.Close()

	f := NewAlpacaFetcher("key", "secret", srv.URL, "")
	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	bars, err := f.FetchDailyBars(context.Background(), "AAPL", start, start.AddDate(0, 0, 7))
	require.NoError(t, err)

	assert.Equal(t, "key", gotKey)
	require.Len(t, bars, 2)
	assert.Equal(t, time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC), bars[0].Date)
	assert.Equal(t, 185.64, bars[0].Close)
	assert.Equal(t, int64(58414500), bars[1].Volume)
}

func TestAlpacaFetcher_CanceledContext(t *testing.T) {
	f := NewAlpacaFetcher("key", "secret", "http://127.0.0.1:0", "")
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := f.FetchDailyBars(ctx, "AAPL", time.Now().AddDate(-1, 0, 0), time.Now())
	assert.ErrorIs(t, err, context.Canceled)
}
