package collector

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"
	"time"
)

func newTestFetcher(t *testing.T, handler http.HandlerFunc) *AlphaVantageFetcher {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return NewAlphaVantageFetcher(srv.URL, "testkey", 5*time.Second, 0, "")
}

func TestFetchDailyCloses_Series(t *testing.T) {
	var gotQuery url.Values
	f := newTestFetcher(t, func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.Query()
		w.Write([]byte(`{
			"Meta Data": {"2. Symbol": "LQD"},
			"Time Series (Daily)": {
				"2020-01-03": {"1. open": "105.00", "4. close": "105.41"},
				"2020-01-02": {"1. open": "104.90", "4. close": "105.32"}
			}
		}`))
	})

	series, err := f.FetchDailyCloses(context.Background(), "LQD")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(series) != 2 {
		t.Fatalf("expected 2 points, got %d", len(series))
	}
	if !series[0].Date.Before(series[1].Date) {
		t.Error("expected series sorted ascending by date")
	}
	if got := series[0].Date.Format("2006-01-02"); got != "2020-01-02" {
		t.Errorf("first date: expected 2020-01-02, got %s", got)
	}
	if got := series[0].Close.String(); got != "105.32" {
		t.Errorf("first close: expected 105.32, got %s", got)
	}

	for param, want := range map[string]string{
		"function":   "TIME_SERIES_DAILY",
		"symbol":     "LQD",
		"apikey":     "testkey",
		"outputsize": "full",
	} {
		if got := gotQuery.Get(param); got != want {
			t.Errorf("query param %s: expected %q, got %q", param, want, got)
		}
	}
}

func TestFetchDailyCloses_EmptySeriesPresent(t *testing.T) {
	f := newTestFetcher(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"Time Series (Daily)": {}}`))
	})

	series, err := f.FetchDailyCloses(context.Background(), "LQD")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(series) != 0 {
		t.Fatalf("expected empty series, got %d points", len(series))
	}
}

func TestFetchDailyCloses_ProviderError(t *testing.T) {
	f := newTestFetcher(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"Error Message": "Invalid API call."}`))
	})

	_, err := f.FetchDailyCloses(context.Background(), "NOPE")
	var perr *ProviderError
	if !errors.As(err, &perr) {
		t.Fatalf("expected *ProviderError, got %v", err)
	}
	if perr.Symbol != "NOPE" || perr.Message != "Invalid API call." {
		t.Errorf("unexpected provider error contents: %+v", perr)
	}
}

func TestFetchDailyCloses_RateLimitNote(t *testing.T) {
	f := newTestFetcher(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"Note": "Thank you for using Alpha Vantage! Our standard API call frequency is 25 requests per day."}`))
	})

	_, err := f.FetchDailyCloses(context.Background(), "LQD")
	if !errors.Is(err, ErrRateLimited) {
		t.Fatalf("expected ErrRateLimited, got %v", err)
	}
}

func TestFetchDailyCloses_UnexpectedShape(t *testing.T) {
	f := newTestFetcher(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"something": "else"}`))
	})

	_, err := f.FetchDailyCloses(context.Background(), "LQD")
	var uerr *UnexpectedResponseError
	if !errors.As(err, &uerr) {
		t.Fatalf("expected *UnexpectedResponseError, got %v", err)
	}
}

func TestFetchDailyCloses_BadCloseValue(t *testing.T) {
	f := newTestFetcher(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"Time Series (Daily)": {"2020-01-02": {"4. close": "not-a-number"}}}`))
	})

	_, err := f.FetchDailyCloses(context.Background(), "LQD")
	var uerr *UnexpectedResponseError
	if !errors.As(err, &uerr) {
		t.Fatalf("expected *UnexpectedResponseError for bad close, got %v", err)
	}
}

func TestFetchDailyCloses_BadDateKey(t *testing.T) {
	f := newTestFetcher(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"Time Series (Daily)": {"yesterday": {"4. close": "105.32"}}}`))
	})

	_, err := f.FetchDailyCloses(context.Background(), "LQD")
	var uerr *UnexpectedResponseError
	if !errors.As(err, &uerr) {
		t.Fatalf("expected *UnexpectedResponseError for bad date key, got %v", err)
	}
}

func TestFetchDailyCloses_HTTPStatusError(t *testing.T) {
	f := newTestFetcher(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	})

	_, err := f.FetchDailyCloses(context.Background(), "LQD")
	if err == nil {
		t.Fatal("expected error for non-200 status")
	}
	if errors.Is(err, ErrRateLimited) {
		t.Error("status error must not classify as rate limit")
	}
}

func TestFetchDailyCloses_MalformedBody(t *testing.T) {
	f := newTestFetcher(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"Time Series (Daily)":`))
	})

	_, err := f.FetchDailyCloses(context.Background(), "LQD")
	if err == nil {
		t.Fatal("expected decode error for truncated body")
	}
}
