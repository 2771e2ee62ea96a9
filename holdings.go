package portfolio

import (
	"fmt"
	"iter"
	"slices"

	"github.com/ThomasStivers/portfolio/date"
)

// HoldingsLedger records the number of shares held per symbol over time.
//
// The ledger stores sparse change points: one (date, position) pair per
// mutation, where position is the share count held from that date forward.
// The dense per-day view is materialized by filling from the nearest change
// point at or before each date, and backward from the first point for dates
// preceding it, so mutating a past date never requires rewriting history row
// by row.
type HoldingsLedger struct {
	symbols []string // sorted
	points  map[string]*date.History[float64]
}

// NewHoldingsLedger creates an empty ledger.
func NewHoldingsLedger() *HoldingsLedger {
	return &HoldingsLedger{
		symbols: make([]string, 0),
		points:  make(map[string]*date.History[float64]),
	}
}

// Has reports whether symbol is held in the ledger.
func (l *HoldingsLedger) Has(symbol string) bool {
	_, ok := l.points[symbol]
	return ok
}

// Symbols returns the sorted list of symbols in the ledger.
func (l *HoldingsLedger) Symbols() []string { return slices.Clone(l.symbols) }

// Position returns the share count held on 'day': the value of the nearest
// change point at or before it. Days before the first change point inherit
// that first point's count (backward fill), so a position recorded mid-axis
// is never read as zero on the axis dates preceding it.
func (l *HoldingsLedger) Position(symbol string, day date.Date) (float64, bool) {
	h, ok := l.points[symbol]
	if !ok || h.Len() == 0 {
		return 0, false
	}
	if v, ok := h.ValueAsOf(day); ok {
		return v, true
	}
	_, first := h.Oldest()
	return first, true
}

// validate checks the common preconditions of the share mutations.
func (l *HoldingsLedger) validate(symbol string, quantity float64) error {
	if !l.Has(symbol) {
		return fmt.Errorf("%q is not in holdings: %w", symbol, ErrUnknownSymbol)
	}
	if quantity <= 0 {
		return fmt.Errorf("got %v: %w", quantity, ErrInvalidQuantity)
	}
	return nil
}

// AddShares increases the position of symbol by quantity from 'day' forward.
// Change points after 'day' keep their relative effect: the delta is folded
// into each of them, matching a dense row-by-row addition.
func (l *HoldingsLedger) AddShares(symbol string, quantity float64, day date.Date) error {
	if err := l.validate(symbol, quantity); err != nil {
		return err
	}
	l.shift(symbol, quantity, day)
	return nil
}

// RemoveShares decreases the position of symbol by quantity from 'day'
// forward. Only the input quantity is validated; removing more shares than
// held leaves a negative balance rather than an error.
func (l *HoldingsLedger) RemoveShares(symbol string, quantity float64, day date.Date) error {
	if err := l.validate(symbol, quantity); err != nil {
		return err
	}
	l.shift(symbol, -quantity, day)
	return nil
}

// shift applies a position delta from 'day' forward.
func (l *HoldingsLedger) shift(symbol string, delta float64, day date.Date) {
	h := l.points[symbol]
	base, _ := h.ValueAsOf(day)
	if _, exact := h.Get(day); !exact {
		h.Append(day, base)
	}
	// Now a point exists at 'day'; it and all later points take the delta.
	h.MapValues(day, func(v float64) float64 { return v + delta })
}

// SetShares sets the position of symbol to exactly quantity from 'day'
// forward. Any change point after 'day' is discarded, the dense equivalent of
// overwriting every later row.
func (l *HoldingsLedger) SetShares(symbol string, quantity float64, day date.Date) error {
	if err := l.validate(symbol, quantity); err != nil {
		return err
	}
	l.points[symbol].Truncate(day).Append(day, quantity)
	return nil
}

// AddSymbol inserts a new symbol holding quantity shares from 'day' forward.
// Adding a symbol twice is an error; use AddShares to grow a position.
func (l *HoldingsLedger) AddSymbol(symbol string, quantity float64, day date.Date) error {
	if l.Has(symbol) {
		return fmt.Errorf("%q is already in holdings, use add instead: %w", symbol, ErrSymbolExists)
	}
	if quantity <= 0 {
		return fmt.Errorf("got %v: %w", quantity, ErrInvalidQuantity)
	}
	h := new(date.History[float64])
	h.Append(day, quantity)
	l.points[symbol] = h
	l.symbols = append(l.symbols, symbol)
	slices.Sort(l.symbols)
	return nil
}

// set writes a change point without validation. Used by the decoder.
func (l *HoldingsLedger) set(symbol string, quantity float64, day date.Date) {
	h, ok := l.points[symbol]
	if !ok {
		h = new(date.History[float64])
		l.points[symbol] = h
		l.symbols = append(l.symbols, symbol)
		slices.Sort(l.symbols)
	}
	h.Append(day, quantity)
}

// ShareChange describes one change point of a symbol's position.
type ShareChange struct {
	Symbol string
	Day    date.Date
	Shares Quantity // signed delta relative to the previous change point
}

// Changes yields the share-count changes that occurred within the range, in
// symbol order then chronological order. The creation of a position counts as
// a change from zero.
func (l *HoldingsLedger) Changes(window date.Range) iter.Seq[ShareChange] {
	return func(yield func(ShareChange) bool) {
		for _, sym := range l.symbols {
			prev := 0.0
			for day, position := range l.points[sym].Values() {
				delta := position - prev
				prev = position
				if !window.Contains(day) || delta == 0 {
					continue
				}
				if !yield(ShareChange{Symbol: sym, Day: day, Shares: Q(delta)}) {
					return
				}
			}
		}
	}
}

// points history accessor for the codec.
func (l *HoldingsLedger) history(symbol string) *date.History[float64] { return l.points[symbol] }
