// Package table assembles per-symbol close series into one date-indexed
// table and serializes it as CSV.
package table

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"

	"TickerHarvest/internal/model"
)

const dateFormat = "2006-01-02"

// Table accumulates close-price series keyed by symbol. Serialization
// outer-joins the series over the union of their dates: one row per distinct
// date, one column per symbol, blank cells where a symbol has no close for a
// date.
type Table struct {
	symbols []string
	series  map[string]model.PriceSeries
}

// New creates an empty table.
func New() *Table {
	return &Table{series: make(map[string]model.PriceSeries)}
}

// Add inserts a series under symbol. Column order follows insertion order;
// adding the same symbol again replaces its series without adding a column.
func (t *Table) Add(symbol string, s model.PriceSeries) {
	if _, ok := t.series[symbol]; !ok {
		t.symbols = append(t.symbols, symbol)
	}
	t.series[symbol] = s
}

// Series returns the stored series for symbol.
func (t *Table) Series(symbol string) (model.PriceSeries, bool) {
	s, ok := t.series[symbol]
	return s, ok
}

// Symbols returns the stored symbols in insertion order.
func (t *Table) Symbols() []string {
	out := make([]string, len(t.symbols))
	copy(out, t.symbols)
	return out
}

// Len returns the number of stored series.
func (t *Table) Len() int { return len(t.symbols) }

// dates returns the sorted union of all dates across the stored series,
// formatted as ISO dates. ISO dates sort correctly as strings.
func (t *Table) dates() []string {
	set := make(map[string]struct{})
	for _, s := range t.series {
		for _, p := range s {
			set[p.Date.Format(dateFormat)] = struct{}{}
		}
	}
	dates := make([]string, 0, len(set))
	for d := range set {
		dates = append(dates, d)
	}
	sort.Strings(dates)
	return dates
}

// WriteCSV writes the header row followed by one row per distinct date,
// ascending. The leftmost column is the date.
func (t *Table) WriteCSV(w io.Writer) error {
	cw := csv.NewWriter(w)

	header := append([]string{"date"}, t.symbols...)
	if err := cw.Write(header); err != nil {
		return fmt.Errorf("write header: %w", err)
	}

	// One cursor per column; every series is already sorted ascending, so
	// each advances in lockstep with the date union.
	cursors := make(map[string]int, len(t.symbols))
	for _, d := range t.dates() {
		row := make([]string, 0, len(t.symbols)+1)
		row = append(row, d)
		for _, sym := range t.symbols {
			s := t.series[sym]
			i := cursors[sym]
			if i < len(s) && s[i].Date.Format(dateFormat) == d {
				row = append(row, s[i].Close.String())
				cursors[sym] = i + 1
			} else {
				row = append(row, "")
			}
		}
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("write row %s: %w", d, err)
		}
	}

	cw.Flush()
	return cw.Error()
}

// WriteFile serializes the table to path, creating parent directories as
// needed.
func (t *Table) WriteFile(path string) error {
	if dir := filepath.Dir(path); dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create output dir: %w", err)
		}
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	if err := t.WriteCSV(f); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
