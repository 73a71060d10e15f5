package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// PricePoint is one daily closing price for an instrument.
// Date carries no time-of-day component.
type PricePoint struct {
	Date  time.Time
	Close decimal.Decimal
}

// PriceSeries is a daily close history for one symbol,
// strictly ascending by date with no duplicate dates.
type PriceSeries []PricePoint
