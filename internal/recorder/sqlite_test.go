package recorder

import (
	"path/filepath"
	"testing"
	"time"
)

func TestSQLiteRecorder_RoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "journal.db")
	r, err := NewSQLiteRecorder(path)
	if err != nil {
		t.Fatalf("open recorder: %v", err)
	}
	defer r.Close()

	ok := &FetchRecord{
		Symbol:  "LQD",
		Status:  StatusOK,
		Records: 2,
		MinDate: time.Date(2020, time.January, 2, 0, 0, 0, 0, time.UTC),
		MaxDate: time.Date(2020, time.January, 3, 0, 0, 0, 0, time.UTC),
	}
	if err := r.RecordFetch(ok); err != nil {
		t.Fatalf("record ok fetch: %v", err)
	}
	failed := &FetchRecord{Symbol: "TLT", Status: StatusFailed, Detail: "provider error for TLT: Invalid API call."}
	if err := r.RecordFetch(failed); err != nil {
		t.Fatalf("record failed fetch: %v", err)
	}
	run := &RunRecord{
		Duration:         1500 * time.Millisecond,
		TickersRequested: 3,
		TickersFetched:   1,
		QuotaExhausted:   true,
	}
	if err := r.RecordRun(run); err != nil {
		t.Fatalf("record run: %v", err)
	}

	var count int
	if err := r.db.QueryRow(`SELECT COUNT(*) FROM fetches`).Scan(&count); err != nil {
		t.Fatalf("count fetches: %v", err)
	}
	if count != 2 {
		t.Fatalf("expected 2 fetch rows, got %d", count)
	}

	var status, minDate, detail string
	var records int
	err = r.db.QueryRow(`SELECT status, records, min_date, detail FROM fetches WHERE symbol = ?`, "LQD").
		Scan(&status, &records, &minDate, &detail)
	if err != nil {
		t.Fatalf("query LQD row: %v", err)
	}
	if status != StatusOK || records != 2 || minDate != "2020-01-02" || detail != "" {
		t.Errorf("unexpected LQD row: status=%q records=%d min_date=%q detail=%q", status, records, minDate, detail)
	}

	err = r.db.QueryRow(`SELECT status, min_date, detail FROM fetches WHERE symbol = ?`, "TLT").
		Scan(&status, &minDate, &detail)
	if err != nil {
		t.Fatalf("query TLT row: %v", err)
	}
	if status != StatusFailed || minDate != "" || detail == "" {
		t.Errorf("unexpected TLT row: status=%q min_date=%q detail=%q", status, minDate, detail)
	}

	var durationMS, requested, fetched, quota int
	err = r.db.QueryRow(`SELECT duration_ms, tickers_requested, tickers_fetched, quota_exhausted FROM runs`).
		Scan(&durationMS, &requested, &fetched, &quota)
	if err != nil {
		t.Fatalf("query run row: %v", err)
	}
	if durationMS != 1500 || requested != 3 || fetched != 1 || quota != 1 {
		t.Errorf("unexpected run row: duration_ms=%d requested=%d fetched=%d quota=%d",
			durationMS, requested, fetched, quota)
	}
}
