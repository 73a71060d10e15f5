// Package harvester runs the sequential fetch-accumulate loop over the
// configured ticker list.
package harvester

import (
	"context"
	"errors"
	"log"
	"time"

	"TickerHarvest/internal/collector"
	"TickerHarvest/internal/model"
	"TickerHarvest/internal/recorder"
	"TickerHarvest/internal/table"
)

const dateFormat = "2006-01-02"

// Harvester fetches the close history of each ticker in order and
// accumulates the results. Fetching is strictly sequential: exactly one
// request is outstanding at any time.
type Harvester struct {
	Fetcher   collector.Fetcher
	Recorder  recorder.Recorder
	Tickers   []string
	StartDate time.Time
}

// New creates a Harvester. StartDate is the inclusive cutoff: entries
// strictly before it are discarded.
func New(f collector.Fetcher, rec recorder.Recorder, tickers []string, startDate time.Time) *Harvester {
	return &Harvester{Fetcher: f, Recorder: rec, Tickers: tickers, StartDate: startDate}
}

// Run fetches every ticker and returns the accumulated table. Per-ticker
// failures are logged, journaled and skipped; a provider rate-limit note
// aborts the loop immediately and the remaining tickers are never attempted.
// The returned table holds only the tickers that succeeded, possibly none.
func (h *Harvester) Run(ctx context.Context) *table.Table {
	started := time.Now()
	tbl := table.New()
	quotaExhausted := false

LOOP:
	for i, symbol := range h.Tickers {
		select {
		case <-ctx.Done():
			log.Printf("[WARN] run cancelled: %v", ctx.Err())
			break LOOP
		default:
		}

		log.Printf("[INFO] fetching %s (%d/%d)", symbol, i+1, len(h.Tickers))

		series, err := h.Fetcher.FetchDailyCloses(ctx, symbol)
		switch {
		case err == nil:
			series = trimBefore(series, h.StartDate)
			tbl.Add(symbol, series)

			rec := &recorder.FetchRecord{Symbol: symbol, Status: recorder.StatusOK, Records: len(series)}
			if len(series) > 0 {
				rec.MinDate = series[0].Date
				rec.MaxDate = series[len(series)-1].Date
				log.Printf("[INFO] %s: %d records from %s to %s", symbol, len(series),
					rec.MinDate.Format(dateFormat), rec.MaxDate.Format(dateFormat))
			} else {
				log.Printf("[INFO] %s: no records on or after %s", symbol, h.StartDate.Format(dateFormat))
			}
			h.record(rec)

		case errors.Is(err, collector.ErrRateLimited):
			// Fatal to the loop, but not attributed to the symbol: it is
			// neither accumulated nor journaled as failed.
			log.Printf("[WARN] %s: %v; aborting remaining tickers", symbol, err)
			quotaExhausted = true
			break LOOP

		default:
			log.Printf("[WARN] %s: %v", symbol, err)
			h.record(&recorder.FetchRecord{Symbol: symbol, Status: recorder.StatusFailed, Detail: err.Error()})
		}
	}

	run := &recorder.RunRecord{
		Duration:         time.Since(started),
		TickersRequested: len(h.Tickers),
		TickersFetched:   tbl.Len(),
		QuotaExhausted:   quotaExhausted,
	}
	if err := h.Recorder.RecordRun(run); err != nil {
		log.Printf("[WARN] journal run record: %v", err)
	}

	return tbl
}

func (h *Harvester) record(rec *recorder.FetchRecord) {
	if err := h.Recorder.RecordFetch(rec); err != nil {
		log.Printf("[WARN] journal fetch record: %v", err)
	}
}

// trimBefore drops entries strictly before cutoff. The series is sorted
// ascending, so the kept tail is a single slice.
func trimBefore(s model.PriceSeries, cutoff time.Time) model.PriceSeries {
	i := 0
	for i < len(s) && s[i].Date.Before(cutoff) {
		i++
	}
	return s[i:]
}
