package portfolio

import (
	"fmt"
	"slices"

	"github.com/ThomasStivers/portfolio/date"
)

// ValueTable is the derived value of every position on every trading day:
// close price times the filled holdings (forward between change points,
// backward before the first one), with a Total column summing across
// symbols. It is recomputed from the price and holdings series on demand
// and never persisted.
type ValueTable struct {
	dates   []date.Date
	symbols []string             // sorted, as in the ledger
	cells   map[string][]float64 // per symbol, aligned with dates
	totals  []float64            // row sums, aligned with dates
}

// newValueTable materializes the value table over the price axis.
// Holdings fill forward from their change points and backward before the
// first one; prices pad from the last known close. A symbol contributes
// zero only where no price exists for it yet.
func newValueTable(prices *PriceSeries, holdings *HoldingsLedger) *ValueTable {
	t := &ValueTable{
		dates:   prices.Dates(),
		symbols: holdings.Symbols(),
		cells:   make(map[string][]float64),
	}
	t.totals = make([]float64, len(t.dates))
	for _, sym := range t.symbols {
		col := make([]float64, len(t.dates))
		for i, day := range t.dates {
			shares, held := holdings.Position(sym, day)
			if !held {
				continue
			}
			price, err := prices.Lookup(sym, day)
			if err != nil {
				continue // no price yet for this symbol, contributes nothing
			}
			col[i] = price * shares
			t.totals[i] += col[i]
		}
		t.cells[sym] = col
	}
	return t
}

// Dates returns the table's trading-day axis.
func (t *ValueTable) Dates() []date.Date { return slices.Clone(t.dates) }

// Symbols returns the table's symbols, sorted.
func (t *ValueTable) Symbols() []string { return slices.Clone(t.symbols) }

// index returns the position of 'day' in the axis, or -1.
func (t *ValueTable) index(day date.Date) int {
	return slices.IndexFunc(t.dates, func(d date.Date) bool { return d == day })
}

// nearest returns the axis date closest to 'day', preferring the earlier one
// on an exact tie. It fails on an empty table.
func (t *ValueTable) nearest(day date.Date) (date.Date, error) {
	if len(t.dates) == 0 {
		return date.Date{}, fmt.Errorf("value table is empty: %w", ErrNoPriorData)
	}
	best := t.dates[0]
	bestGap := gapDays(best, day)
	for _, d := range t.dates[1:] {
		if g := gapDays(d, day); g < bestGap {
			best, bestGap = d, g
		}
	}
	return best, nil
}

func gapDays(a, b date.Date) int {
	n := 0
	for d := a; d.Before(b); d = d.Add(1) {
		n++
	}
	for d := b; d.Before(a); d = d.Add(1) {
		n++
	}
	return n
}

// Value returns the value of one symbol on 'day'.
func (t *ValueTable) Value(symbol string, day date.Date) (float64, error) {
	col, ok := t.cells[symbol]
	if !ok {
		return 0, fmt.Errorf("%q is not in the value table: %w", symbol, ErrUnknownSymbol)
	}
	i := t.index(day)
	if i < 0 {
		return 0, fmt.Errorf("%s is not a trading day of the table: %w", day, ErrNoPriorData)
	}
	return col[i], nil
}

// Total returns the portfolio total on 'day'.
func (t *ValueTable) Total(day date.Date) (float64, error) {
	i := t.index(day)
	if i < 0 {
		return 0, fmt.Errorf("%s is not a trading day of the table: %w", day, ErrNoPriorData)
	}
	return t.totals[i], nil
}

// Change holds a day-over-day difference of a value series.
type Change struct {
	Difference float64
	Pct        Percent
}

// DailyChange returns the difference and percent change of the Total between
// 'day' and the previous trading day. The first date of the table has no
// prior close and fails with ErrNoPriorData.
func (t *ValueTable) DailyChange(day date.Date) (Change, error) {
	return t.dailyChange("", day)
}

// SymbolDailyChange is DailyChange for a single symbol's value series.
func (t *ValueTable) SymbolDailyChange(symbol string, day date.Date) (Change, error) {
	if _, ok := t.cells[symbol]; !ok {
		return Change{}, fmt.Errorf("%q is not in the value table: %w", symbol, ErrUnknownSymbol)
	}
	return t.dailyChange(symbol, day)
}

func (t *ValueTable) dailyChange(symbol string, day date.Date) (Change, error) {
	i := t.index(day)
	if i < 0 {
		return Change{}, fmt.Errorf("%s is not a trading day of the table: %w", day, ErrNoPriorData)
	}
	if i == 0 {
		return Change{}, fmt.Errorf("%s is the first trading day, nothing to diff against: %w", day, ErrNoPriorData)
	}
	series := t.series(symbol)
	diff := series[i] - series[i-1]
	return Change{Difference: diff, Pct: PctOf(diff, series[i-1])}, nil
}

// series returns the totals column, or a symbol's column.
func (t *ValueTable) series(symbol string) []float64 {
	if symbol == "" {
		return t.totals
	}
	return t.cells[symbol]
}

// Ranking holds the descending 1-based ranks of a date's value and of its
// day-over-day change within a window. Ties carry the average of the tied
// ranks; rounding to an integer happens at display time.
type Ranking struct {
	Value  float64
	Change float64
}

// Rank ranks the Total of 'day' (and its daily difference) against every
// other trading day within the window, descending: rank 1 is the best day.
// A zero window defaults to year-to-date, clipped to the available data.
func (t *ValueTable) Rank(day date.Date, window date.Range) (Ranking, error) {
	return t.rank("", day, window)
}

// SymbolRank is Rank for a single symbol's value series.
func (t *ValueTable) SymbolRank(symbol string, day date.Date, window date.Range) (Ranking, error) {
	if _, ok := t.cells[symbol]; !ok {
		return Ranking{}, fmt.Errorf("%q is not in the value table: %w", symbol, ErrUnknownSymbol)
	}
	return t.rank(symbol, day, window)
}

func (t *ValueTable) rank(symbol string, day date.Date, window date.Range) (Ranking, error) {
	i := t.index(day)
	if i < 0 {
		return Ranking{}, fmt.Errorf("%s is not a trading day of the table: %w", day, ErrNoPriorData)
	}
	if window == (date.Range{}) {
		window = date.YearToDate(day)
	}
	window = window.Clip(t.dates[0], t.dates[len(t.dates)-1])

	series := t.series(symbol)
	var values, diffs []float64
	var dayValue, dayDiff float64
	dayHasDiff := false
	for j, d := range t.dates {
		if !window.Contains(d) {
			continue
		}
		values = append(values, series[j])
		if j > 0 {
			diffs = append(diffs, series[j]-series[j-1])
		}
		if j == i {
			dayValue = series[j]
			if j > 0 {
				dayDiff = series[j] - series[j-1]
				dayHasDiff = true
			}
		}
	}
	r := Ranking{Value: rankDescending(values, dayValue)}
	if dayHasDiff {
		r.Change = rankDescending(diffs, dayDiff)
	}
	return r, nil
}

// rankDescending computes the 1-based descending rank of target within
// values, averaging tied ranks the way pandas' default ranking does.
func rankDescending(values []float64, target float64) float64 {
	greater, equal := 0, 0
	for _, v := range values {
		switch {
		case v > target:
			greater++
		case v == target:
			equal++
		}
	}
	if equal == 0 {
		// target not in values; rank as if inserted.
		equal = 1
	}
	return float64(greater) + float64(equal+1)/2
}

// PeriodicSummary describes the portfolio's move over a multi-day window.
type PeriodicSummary struct {
	Window     date.Range
	Difference float64
	Pct        Percent
	Changes    []SymbolCashChange
}

// SymbolCashChange is a share-count change annotated with its cash value at
// the change date's close.
type SymbolCashChange struct {
	Symbol string
	Day    date.Date
	Shares Quantity
	Cash   Money
}

// PeriodicChange sums the Total's move between the first and last trading
// days inside the window and collects every non-zero share-count change in
// between, valued at the close of its change date.
func (t *ValueTable) PeriodicChange(window date.Range, prices *PriceSeries, holdings *HoldingsLedger) (PeriodicSummary, error) {
	var first, last = -1, -1
	for j, d := range t.dates {
		if !window.Contains(d) {
			continue
		}
		if first < 0 {
			first = j
		}
		last = j
	}
	if first < 0 || first == last {
		return PeriodicSummary{}, fmt.Errorf("window %s..%s has fewer than two trading days: %w", window.From, window.To, ErrNoPriorData)
	}
	s := PeriodicSummary{
		Window:     date.Range{From: t.dates[first], To: t.dates[last]},
		Difference: t.totals[last] - t.totals[first],
	}
	s.Pct = PctOf(s.Difference, t.totals[first])
	for change := range holdings.Changes(s.Window) {
		price, err := prices.Lookup(change.Symbol, change.Day)
		if err != nil {
			return PeriodicSummary{}, fmt.Errorf("valuing share change of %q: %w", change.Symbol, err)
		}
		s.Changes = append(s.Changes, SymbolCashChange{
			Symbol: change.Symbol,
			Day:    change.Day,
			Shares: change.Shares,
			Cash:   M(price).Mul(change.Shares),
		})
	}
	return s, nil
}

// WindowTable is a symbol-by-date slice of the value table used by the
// report: a handful of trading days around the report date, with symbols
// whose whole window is zero dropped and a Total row appended by renderers.
type WindowTable struct {
	Dates   []date.Date
	Symbols []string
	Cells   [][]float64 // indexed [symbol][date]
	Totals  []float64   // per date, over the kept symbols
}

// WindowedTable slices the table around 'day': 'before' trading days prior
// through 'after' trading days following, clipped to the axis. The report
// uses before=4, after=6.
func (t *ValueTable) WindowedTable(day date.Date, before, after int) (*WindowTable, error) {
	i := t.index(day)
	if i < 0 {
		return nil, fmt.Errorf("%s is not a trading day of the table: %w", day, ErrNoPriorData)
	}
	start := max(i-before, 0)
	end := min(i+after, len(t.dates))

	w := &WindowTable{Dates: slices.Clone(t.dates[start:end])}
	w.Totals = make([]float64, len(w.Dates))
	for _, sym := range t.symbols {
		col := t.cells[sym][start:end]
		if !slices.ContainsFunc(col, func(v float64) bool { return v != 0 }) {
			continue // all-zero symbols are noise in the report
		}
		w.Symbols = append(w.Symbols, sym)
		w.Cells = append(w.Cells, slices.Clone(col))
		for j, v := range col {
			w.Totals[j] += v
		}
	}
	return w, nil
}
