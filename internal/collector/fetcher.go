package collector

import (
	"context"
	"errors"
	"fmt"

	"TickerHarvest/internal/model"
)

// Fetcher defines the interface for fetching daily close history.
type Fetcher interface {
	FetchDailyCloses(ctx context.Context, symbol string) (model.PriceSeries, error)
	Name() string
}

// ErrRateLimited reports that the provider's daily request quota is
// exhausted. Unlike other fetch errors it is fatal to the whole run: no
// further symbols should be attempted.
var ErrRateLimited = errors.New("provider quota exhausted")

// ProviderError is an error message the provider reported for one symbol.
type ProviderError struct {
	Symbol  string
	Message string
}

func (e *ProviderError) Error() string {
	return fmt.Sprintf("provider error for %s: %s", e.Symbol, e.Message)
}

// UnexpectedResponseError reports a response that parsed but matched none of
// the recognized shapes.
type UnexpectedResponseError struct {
	Symbol string
	Reason string
}

func (e *UnexpectedResponseError) Error() string {
	return fmt.Sprintf("unexpected response for %s: %s", e.Symbol, e.Reason)
}
