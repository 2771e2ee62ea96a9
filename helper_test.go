package portfolio

import (
	"testing"
	"time"

	"github.com/ThomasStivers/portfolio/date"
)

// sampleDays are five consecutive trading days.
var sampleDays = []date.Date{
	date.New(2020, time.January, 1),
	date.New(2020, time.January, 2),
	date.New(2020, time.January, 3),
	date.New(2020, time.January, 6),
	date.New(2020, time.January, 7),
}

var sampleCloses = []float64{100, 101, 99, 102, 105}

// sampleSeries builds the canonical test fixture: TEST closing at
// sampleCloses over sampleDays, with 10 shares held throughout.
func sampleSeries(t *testing.T) (*PriceSeries, *HoldingsLedger) {
	t.Helper()
	prices := NewPriceSeries()
	for i, day := range sampleDays {
		prices.Append("TEST", day, sampleCloses[i])
	}
	holdings := NewHoldingsLedger()
	if err := holdings.AddSymbol("TEST", 10, sampleDays[0]); err != nil {
		t.Fatalf("AddSymbol() error = %v", err)
	}
	return prices, holdings
}
