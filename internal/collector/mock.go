package collector

import (
	"context"

	"TickerHarvest/internal/model"
)

// MockFetcher returns scripted per-symbol outcomes for development and testing.
type MockFetcher struct {
	Series map[string]model.PriceSeries
	Errs   map[string]error
	Calls  []string
}

func (m *MockFetcher) Name() string { return "mock" }

func (m *MockFetcher) FetchDailyCloses(_ context.Context, symbol string) (model.PriceSeries, error) {
	m.Calls = append(m.Calls, symbol)
	if err, ok := m.Errs[symbol]; ok {
		return nil, err
	}
	if s, ok := m.Series[symbol]; ok {
		return s, nil
	}
	return nil, &UnexpectedResponseError{Symbol: symbol, Reason: "no scripted response"}
}
