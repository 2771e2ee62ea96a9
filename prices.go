package portfolio

import (
	"fmt"
	"slices"

	"github.com/ThomasStivers/portfolio/date"
)

// PriceSeries holds one close-price history per symbol.
//
// Conceptually each symbol's price is a step function: a lookup on a date
// with no stored row pads from the most recent prior close.
type PriceSeries struct {
	symbols []string // sorted
	prices  map[string]*date.History[float64]
}

// NewPriceSeries returns a new empty price series.
func NewPriceSeries() *PriceSeries {
	return &PriceSeries{
		symbols: make([]string, 0),
		prices:  make(map[string]*date.History[float64]),
	}
}

// Has reports whether the series holds any price history for symbol.
func (p *PriceSeries) Has(symbol string) bool {
	_, ok := p.prices[symbol]
	return ok
}

// Symbols returns the sorted list of symbols with price history.
func (p *PriceSeries) Symbols() []string { return slices.Clone(p.symbols) }

// Append records the closing price of symbol on a given day, creating the
// symbol's history on first use. An existing close for that day is replaced.
func (p *PriceSeries) Append(symbol string, on date.Date, close float64) {
	h, ok := p.prices[symbol]
	if !ok {
		h = new(date.History[float64])
		p.prices[symbol] = h
		p.symbols = append(p.symbols, symbol)
		slices.Sort(p.symbols)
	}
	h.Append(on, close)
}

// Get reads the close stored exactly on 'day', without padding.
func (p *PriceSeries) Get(symbol string, day date.Date) (float64, bool) {
	h, ok := p.prices[symbol]
	if !ok {
		return 0, false
	}
	return h.Get(day)
}

// Lookup returns the most recent close of symbol at or before 'day'.
// It fails with ErrUnknownSymbol when the symbol has no history at all and
// with ErrNoPriorData when 'day' precedes every stored close.
func (p *PriceSeries) Lookup(symbol string, day date.Date) (float64, error) {
	h, ok := p.prices[symbol]
	if !ok {
		return 0, fmt.Errorf("no price history for %q: %w", symbol, ErrUnknownSymbol)
	}
	price, ok := h.ValueAsOf(day)
	if !ok {
		return 0, fmt.Errorf("no price for %q on or before %s: %w", symbol, day, ErrNoPriorData)
	}
	return price, nil
}

// Dates returns the union of all symbols' dates, sorted and deduplicated.
// This is the trading-day axis every derived table is indexed by.
func (p *PriceSeries) Dates() []date.Date {
	histories := make([]date.History[float64], 0, len(p.symbols))
	for _, sym := range p.symbols {
		histories = append(histories, *p.prices[sym])
	}
	var dates []date.Date
	for d := range date.Iterate(histories...) {
		dates = append(dates, d)
	}
	return dates
}

// LastDate returns the latest date with any price, or the zero Date.
func (p *PriceSeries) LastDate() date.Date {
	var last date.Date
	for _, sym := range p.symbols {
		if day, _ := p.prices[sym].Latest(); day.After(last) {
			last = day
		}
	}
	return last
}

// FirstDate returns the earliest date with any price, or the zero Date.
func (p *PriceSeries) FirstDate() date.Date {
	var first date.Date
	for _, sym := range p.symbols {
		if day, _ := p.prices[sym].Oldest(); !day.IsZero() && (first.IsZero() || day.Before(first)) {
			first = day
		}
	}
	return first
}

// Merge copies every close from 'other' into p, overwriting same-day entries.
// Used to fold provider fetches into the cached series.
func (p *PriceSeries) Merge(other *PriceSeries) {
	if other == nil {
		return
	}
	for _, sym := range other.symbols {
		for day, close := range other.prices[sym].Values() {
			p.Append(sym, day, close)
		}
	}
}

// Len returns the total number of stored closes across all symbols.
func (p *PriceSeries) Len() int {
	n := 0
	for _, h := range p.prices {
		n += h.Len()
	}
	return n
}
