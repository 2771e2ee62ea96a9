package portfolio

import (
	"errors"
	"math"
	"testing"
	"time"

	"github.com/ThomasStivers/portfolio/date"
)

func almostEqual(a, b float64) bool { return math.Abs(a-b) < 1e-9 }

func TestValueIdentity(t *testing.T) {
	prices, holdings := sampleSeries(t)
	table := newValueTable(prices, holdings)

	want := []float64{1000, 1010, 990, 1020, 1050}
	for i, day := range sampleDays {
		got, err := table.Value("TEST", day)
		if err != nil {
			t.Fatalf("Value(TEST, %s) error = %v", day, err)
		}
		if !almostEqual(got, want[i]) {
			t.Errorf("Value(TEST, %s) = %v, want %v", day, got, want[i])
		}
		total, err := table.Total(day)
		if err != nil {
			t.Fatalf("Total(%s) error = %v", day, err)
		}
		if !almostEqual(total, want[i]) {
			t.Errorf("Total(%s) = %v, want %v", day, total, want[i])
		}
	}
}

func TestValueAfterMutation(t *testing.T) {
	prices, holdings := sampleSeries(t)
	if err := holdings.AddShares("TEST", 5, sampleDays[2]); err != nil {
		t.Fatalf("AddShares() error = %v", err)
	}
	table := newValueTable(prices, holdings)

	want := []float64{1000, 1010, 1485, 1530, 1575}
	for i, day := range sampleDays {
		total, err := table.Total(day)
		if err != nil {
			t.Fatalf("Total(%s) error = %v", day, err)
		}
		if !almostEqual(total, want[i]) {
			t.Errorf("Total(%s) = %v, want %v", day, total, want[i])
		}
	}
}

func TestValueBackfillsLateSymbol(t *testing.T) {
	prices, holdings := sampleSeries(t)
	// LATE has prices from the start but its position opens on day 3.
	closes := []float64{50, 52, 51, 53, 54}
	for i, day := range sampleDays {
		prices.Append("LATE", day, closes[i])
	}
	if err := holdings.AddSymbol("LATE", 10, sampleDays[2]); err != nil {
		t.Fatalf("AddSymbol() error = %v", err)
	}
	table := newValueTable(prices, holdings)

	// The opening position fills backward over the earlier axis dates.
	want := []float64{500, 520, 510, 530, 540}
	for i, day := range sampleDays {
		got, err := table.Value("LATE", day)
		if err != nil {
			t.Fatalf("Value(LATE, %s) error = %v", day, err)
		}
		if !almostEqual(got, want[i]) {
			t.Errorf("Value(LATE, %s) = %v, want %v", day, got, want[i])
		}
	}
	wantTotals := []float64{1500, 1530, 1500, 1550, 1590}
	for i, day := range sampleDays {
		total, err := table.Total(day)
		if err != nil {
			t.Fatalf("Total(%s) error = %v", day, err)
		}
		if !almostEqual(total, wantTotals[i]) {
			t.Errorf("Total(%s) = %v, want %v", day, total, wantTotals[i])
		}
	}
}

func TestDailyChange(t *testing.T) {
	prices, holdings := sampleSeries(t)
	table := newValueTable(prices, holdings)

	change, err := table.DailyChange(sampleDays[2])
	if err != nil {
		t.Fatalf("DailyChange() error = %v", err)
	}
	if !almostEqual(change.Difference, -20) {
		t.Errorf("Difference = %v, want -20", change.Difference)
	}
	if !change.Pct.Equal(Percent(-20.0 / 1010 * 100)) {
		t.Errorf("Pct = %v, want about -1.98%%", change.Pct)
	}
}

func TestDailyChangeFirstDay(t *testing.T) {
	prices, holdings := sampleSeries(t)
	table := newValueTable(prices, holdings)

	if _, err := table.DailyChange(sampleDays[0]); !errors.Is(err, ErrNoPriorData) {
		t.Errorf("DailyChange(first day) error = %v, want ErrNoPriorData", err)
	}
}

func TestRankBounds(t *testing.T) {
	prices, holdings := sampleSeries(t)
	table := newValueTable(prices, holdings)
	window := date.NewRange(sampleDays[0], sampleDays[4])

	for _, day := range sampleDays {
		r, err := table.Rank(day, window)
		if err != nil {
			t.Fatalf("Rank(%s) error = %v", day, err)
		}
		if r.Value < 1 || r.Value > float64(len(sampleDays)) {
			t.Errorf("Rank(%s).Value = %v, out of [1, %d]", day, r.Value, len(sampleDays))
		}
	}

	// The best day ranks first.
	r, err := table.Rank(sampleDays[4], window)
	if err != nil {
		t.Fatalf("Rank() error = %v", err)
	}
	if r.Value != 1 {
		t.Errorf("Rank(best day).Value = %v, want 1", r.Value)
	}
}

func TestRankAveragesTies(t *testing.T) {
	prices := NewPriceSeries()
	closes := []float64{100, 100, 90}
	for i, day := range sampleDays[:3] {
		prices.Append("TEST", day, closes[i])
	}
	holdings := NewHoldingsLedger()
	if err := holdings.AddSymbol("TEST", 10, sampleDays[0]); err != nil {
		t.Fatalf("AddSymbol() error = %v", err)
	}
	table := newValueTable(prices, holdings)

	r, err := table.Rank(sampleDays[0], date.NewRange(sampleDays[0], sampleDays[2]))
	if err != nil {
		t.Fatalf("Rank() error = %v", err)
	}
	if r.Value != 1.5 {
		t.Errorf("Rank(tied top).Value = %v, want 1.5", r.Value)
	}
}

func TestRankDefaultsToYearToDate(t *testing.T) {
	prices, holdings := sampleSeries(t)
	table := newValueTable(prices, holdings)

	got, err := table.Rank(sampleDays[2], date.Range{})
	if err != nil {
		t.Fatalf("Rank() error = %v", err)
	}
	want, err := table.Rank(sampleDays[2], date.NewRange(sampleDays[0], sampleDays[4]))
	if err != nil {
		t.Fatalf("Rank() error = %v", err)
	}
	if got != want {
		t.Errorf("Rank(zero window) = %+v, want year-to-date %+v", got, want)
	}
}

func TestPeriodicChange(t *testing.T) {
	prices, holdings := sampleSeries(t)
	if err := holdings.AddShares("TEST", 5, sampleDays[2]); err != nil {
		t.Fatalf("AddShares() error = %v", err)
	}
	table := newValueTable(prices, holdings)

	window := date.NewRange(sampleDays[1], sampleDays[4])
	s, err := table.PeriodicChange(window, prices, holdings)
	if err != nil {
		t.Fatalf("PeriodicChange() error = %v", err)
	}
	if !almostEqual(s.Difference, 1575-1010) {
		t.Errorf("Difference = %v, want %v", s.Difference, 1575-1010)
	}
	if len(s.Changes) != 1 {
		t.Fatalf("Changes = %+v, want one entry", s.Changes)
	}
	c := s.Changes[0]
	if c.Symbol != "TEST" || c.Day != sampleDays[2] || !c.Shares.Equal(Q(5)) {
		t.Errorf("change = %+v, want +5 TEST on %s", c, sampleDays[2])
	}
	if !c.Cash.Equal(M(5 * 99)) {
		t.Errorf("change cash = %v, want %v", c.Cash, M(5*99))
	}
}

func TestWindowedTable(t *testing.T) {
	prices, holdings := sampleSeries(t)
	// A symbol that is all zero in the window must be dropped.
	if err := holdings.AddSymbol("ZERO", 1, date.New(2021, time.January, 4)); err != nil {
		t.Fatalf("AddSymbol() error = %v", err)
	}
	prices.Append("ZERO", date.New(2021, time.January, 4), 50)
	table := newValueTable(prices, holdings)

	w, err := table.WindowedTable(sampleDays[2], 4, 6)
	if err != nil {
		t.Fatalf("WindowedTable() error = %v", err)
	}
	if len(w.Dates) != 6 {
		// 2 days before (clipped), the day, and 3 after, plus 2021-01-04.
		t.Fatalf("Dates = %v, want 6 entries", w.Dates)
	}
	if len(w.Symbols) != 2 {
		t.Fatalf("Symbols = %v", w.Symbols)
	}

	w, err = table.WindowedTable(sampleDays[4], 2, 1)
	if err != nil {
		t.Fatalf("WindowedTable() error = %v", err)
	}
	if len(w.Symbols) != 1 || w.Symbols[0] != "TEST" {
		t.Errorf("Symbols = %v, want [TEST] with ZERO dropped", w.Symbols)
	}
	wantTotals := []float64{990, 1020, 1050}
	if len(w.Totals) != len(wantTotals) {
		t.Fatalf("Totals = %v, want %v", w.Totals, wantTotals)
	}
	for i := range wantTotals {
		if !almostEqual(w.Totals[i], wantTotals[i]) {
			t.Errorf("Totals[%d] = %v, want %v", i, w.Totals[i], wantTotals[i])
		}
	}
}
