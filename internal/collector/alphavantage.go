package collector

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"TickerHarvest/internal/model"
	"TickerHarvest/internal/ratelimit"
)

const dateFormat = "2006-01-02"

// AlphaVantageFetcher implements Fetcher using the Alpha Vantage query API.
type AlphaVantageFetcher struct {
	BaseURL string
	APIKey  string
	Client  *ratelimit.Client
}

// NewAlphaVantageFetcher creates a new fetcher with optional proxy support.
// callInterval is the minimum spacing between consecutive requests.
func NewAlphaVantageFetcher(baseURL, apiKey string, timeout, callInterval time.Duration, proxyURL string) *AlphaVantageFetcher {
	transport := &http.Transport{}
	if proxyURL != "" {
		if u, err := url.Parse(proxyURL); err == nil {
			transport.Proxy = http.ProxyURL(u)
		}
	}
	return &AlphaVantageFetcher{
		BaseURL: baseURL,
		APIKey:  apiKey,
		Client: ratelimit.NewClient(&http.Client{
			Timeout:   timeout,
			Transport: transport,
		}, callInterval),
	}
}

func (f *AlphaVantageFetcher) Name() string { return "alphavantage" }

// avResponse is the expected JSON shape from the Alpha Vantage query API.
// Exactly one of the top-level keys is present in practice; which one
// decides the outcome. TimeSeries stays nil when its key is absent, so a
// present-but-empty series is distinguishable from no series at all.
type avResponse struct {
	TimeSeries   map[string]avBar `json:"Time Series (Daily)"`
	ErrorMessage string           `json:"Error Message"`
	Note         string           `json:"Note"`
}

type avBar struct {
	Close string `json:"4. close"`
}

// FetchDailyCloses downloads the full daily close history for symbol,
// sorted ascending by date. It returns ErrRateLimited when the provider
// signals quota exhaustion, a *ProviderError for a provider-reported symbol
// error, and a *UnexpectedResponseError for any unrecognized shape.
func (f *AlphaVantageFetcher) FetchDailyCloses(ctx context.Context, symbol string) (model.PriceSeries, error) {
	q := url.Values{}
	q.Set("function", "TIME_SERIES_DAILY")
	q.Set("symbol", symbol)
	q.Set("apikey", f.APIKey)
	q.Set("outputsize", "full")
	endpoint := f.BaseURL + "/query?" + q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, err
	}
	resp, err := f.Client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("alphavantage fetch: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("alphavantage read body: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("alphavantage: status %d, body: %s", resp.StatusCode, string(body))
	}

	var avr avResponse
	if err := json.Unmarshal(body, &avr); err != nil {
		return nil, fmt.Errorf("alphavantage decode: %w", err)
	}

	switch {
	case avr.TimeSeries != nil:
		return parseSeries(symbol, avr.TimeSeries)
	case avr.ErrorMessage != "":
		return nil, &ProviderError{Symbol: symbol, Message: avr.ErrorMessage}
	case avr.Note != "":
		return nil, fmt.Errorf("%w: %s", ErrRateLimited, avr.Note)
	default:
		return nil, &UnexpectedResponseError{Symbol: symbol, Reason: "no recognized top-level key"}
	}
}

func parseSeries(symbol string, bars map[string]avBar) (model.PriceSeries, error) {
	series := make(model.PriceSeries, 0, len(bars))
	for day, bar := range bars {
		date, err := time.Parse(dateFormat, day)
		if err != nil {
			return nil, &UnexpectedResponseError{Symbol: symbol, Reason: fmt.Sprintf("bad date key %q", day)}
		}
		closePrice, err := decimal.NewFromString(bar.Close)
		if err != nil {
			return nil, &UnexpectedResponseError{Symbol: symbol, Reason: fmt.Sprintf("bad close %q on %s", bar.Close, day)}
		}
		series = append(series, model.PricePoint{Date: date, Close: closePrice})
	}
	sort.Slice(series, func(i, j int) bool { return series[i].Date.Before(series[j].Date) })
	return series, nil
}
