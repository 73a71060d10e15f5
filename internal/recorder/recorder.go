package recorder

import "time"

// Fetch outcome statuses recorded in the journal.
const (
	StatusOK     = "ok"
	StatusFailed = "failed"
)

// FetchRecord holds the journaled outcome of one symbol fetch.
type FetchRecord struct {
	Symbol  string
	Status  string // StatusOK or StatusFailed
	Records int
	MinDate time.Time
	MaxDate time.Time
	Detail  string // failure cause, empty on success
}

// RunRecord summarizes one whole harvest run.
type RunRecord struct {
	Duration         time.Duration
	TickersRequested int
	TickersFetched   int
	QuotaExhausted   bool
}

// Recorder persists the fetch journal for later inspection.
type Recorder interface {
	RecordFetch(rec *FetchRecord) error
	RecordRun(rec *RunRecord) error
	Close() error
}
