package portfolio

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/ThomasStivers/portfolio/date"
)

func samplePortfolio(t *testing.T) *Portfolio {
	t.Helper()
	prices, holdings := sampleSeries(t)
	return New(prices, holdings)
}

func TestCashShareRoundTrip(t *testing.T) {
	p := samplePortfolio(t)

	shares := 12.5
	cash, err := p.ToCash("TEST", shares, sampleDays[2])
	if err != nil {
		t.Fatalf("ToCash() error = %v", err)
	}
	back, err := p.ToShares("TEST", cash, sampleDays[2])
	if err != nil {
		t.Fatalf("ToShares() error = %v", err)
	}
	if !almostEqual(back, shares) {
		t.Errorf("round trip = %v, want %v", back, shares)
	}
}

func TestAddCash(t *testing.T) {
	p := samplePortfolio(t)

	// $495 at the 99 close of the third day buys exactly 5 shares.
	if err := p.AddCash("TEST", 495, sampleDays[2]); err != nil {
		t.Fatalf("AddCash() error = %v", err)
	}
	got, _ := p.Holdings().Position("TEST", sampleDays[4])
	if !almostEqual(got, 15) {
		t.Errorf("Position after AddCash = %v, want 15", got)
	}
}

func TestToSharesPadsPrice(t *testing.T) {
	p := samplePortfolio(t)

	// A Saturday has no close; the Friday close of 99 is used.
	saturday := date.New(2020, time.January, 4)
	shares, err := p.ToShares("TEST", 198, saturday)
	if err != nil {
		t.Fatalf("ToShares() error = %v", err)
	}
	if !almostEqual(shares, 2) {
		t.Errorf("ToShares() = %v, want 2", shares)
	}
}

func TestLookupErrors(t *testing.T) {
	p := samplePortfolio(t)

	if _, err := p.ToCash("NOPE", 1, sampleDays[0]); !errors.Is(err, ErrUnknownSymbol) {
		t.Errorf("ToCash(NOPE) error = %v, want ErrUnknownSymbol", err)
	}
	early := date.New(2019, time.June, 1)
	if _, err := p.ToCash("TEST", 1, early); !errors.Is(err, ErrNoPriorData) {
		t.Errorf("ToCash before any data error = %v, want ErrNoPriorData", err)
	}
}

func TestValueInvalidation(t *testing.T) {
	p := samplePortfolio(t)

	before, err := p.Value().Total(sampleDays[4])
	if err != nil {
		t.Fatalf("Total() error = %v", err)
	}
	if err := p.AddShares("TEST", 10, sampleDays[0]); err != nil {
		t.Fatalf("AddShares() error = %v", err)
	}
	after, err := p.Value().Total(sampleDays[4])
	if err != nil {
		t.Fatalf("Total() error = %v", err)
	}
	if !almostEqual(after, 2*before) {
		t.Errorf("Total after doubling = %v, want %v", after, 2*before)
	}
}

func TestLoadMissingFiles(t *testing.T) {
	p, err := Load(t.TempDir(), nil)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if len(p.Prices().Symbols()) != 0 || len(p.Holdings().Symbols()) != 0 {
		t.Errorf("empty storage loaded non-empty series")
	}
}

func TestSaveSkipsUnchanged(t *testing.T) {
	dir := t.TempDir()

	p, err := Load(dir, nil)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	for i, day := range sampleDays {
		p.Prices().Append("TEST", day, sampleCloses[i])
	}
	if err := p.AddSymbol("TEST", 10, sampleDays[0], nil); err != nil {
		t.Fatalf("AddSymbol() error = %v", err)
	}
	if err := p.Save(); err != nil {
		t.Fatalf("Save() error = %v", err)
	}

	// Reload and save untouched: content is unchanged, so no write must
	// happen. Deleting the files first makes a skipped write observable.
	q, err := Load(dir, nil)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	pricesPath := filepath.Join(dir, "prices.jsonl")
	holdingsPath := filepath.Join(dir, "holdings.jsonl")
	os.Remove(pricesPath)
	os.Remove(holdingsPath)
	if err := q.Save(); err != nil {
		t.Fatalf("Save() error = %v", err)
	}
	if _, err := os.Stat(pricesPath); !errors.Is(err, os.ErrNotExist) {
		t.Errorf("unchanged prices were rewritten")
	}

	// A mutation makes the next save write again.
	if err := q.AddShares("TEST", 1, sampleDays[2]); err != nil {
		t.Fatalf("AddShares() error = %v", err)
	}
	if err := q.Save(); err != nil {
		t.Fatalf("Save() error = %v", err)
	}
	if _, err := os.Stat(holdingsPath); err != nil {
		t.Errorf("changed holdings were not written: %v", err)
	}
}

func TestSaveLoadRoundTrip(t *testing.T) {
	dir := t.TempDir()

	p, err := Load(dir, nil)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	for i, day := range sampleDays {
		p.Prices().Append("TEST", day, sampleCloses[i])
	}
	if err := p.AddSymbol("TEST", 10, sampleDays[0], nil); err != nil {
		t.Fatalf("AddSymbol() error = %v", err)
	}
	if err := p.AddShares("TEST", 5, sampleDays[2]); err != nil {
		t.Fatalf("AddShares() error = %v", err)
	}
	if err := p.Save(); err != nil {
		t.Fatalf("Save() error = %v", err)
	}

	q, err := Load(dir, nil)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	for _, day := range sampleDays {
		wantPos, _ := p.Holdings().Position("TEST", day)
		gotPos, _ := q.Holdings().Position("TEST", day)
		if gotPos != wantPos {
			t.Errorf("Position(TEST, %s) = %v, want %v", day, gotPos, wantPos)
		}
		wantPrice, _ := p.Prices().Get("TEST", day)
		gotPrice, _ := q.Prices().Get("TEST", day)
		if gotPrice != wantPrice {
			t.Errorf("price(TEST, %s) = %v, want %v", day, gotPrice, wantPrice)
		}
	}
}

// fakeProvider records fetches and serves a fixed series.
type fakeProvider struct {
	calls  int
	prices *PriceSeries
	err    error
}

func (f *fakeProvider) Closes(symbols []string, window date.Range) (*PriceSeries, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	return f.prices, nil
}

func TestRefreshGate(t *testing.T) {
	testCases := []struct {
		name      string
		lastClose date.Date
		now       time.Time
		wantFetch bool
	}{
		{
			name:      "fresh data",
			lastClose: date.New(2020, time.January, 3),
			now:       time.Date(2020, time.January, 6, 17, 0, 0, 0, time.Local),
			wantFetch: false,
		},
		{
			name:      "stale after close on a business day",
			lastClose: date.New(2020, time.January, 2),
			now:       time.Date(2020, time.January, 6, 17, 0, 0, 0, time.Local),
			wantFetch: true,
		},
		{
			name:      "stale before the close cutoff",
			lastClose: date.New(2020, time.January, 2),
			now:       time.Date(2020, time.January, 6, 9, 0, 0, 0, time.Local),
			wantFetch: false,
		},
		{
			name:      "stale on a weekend",
			lastClose: date.New(2020, time.January, 2),
			now:       time.Date(2020, time.January, 5, 17, 0, 0, 0, time.Local),
			wantFetch: false,
		},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			prices := NewPriceSeries()
			prices.Append("TEST", tc.lastClose, 100)
			holdings := NewHoldingsLedger()
			if err := holdings.AddSymbol("TEST", 10, tc.lastClose); err != nil {
				t.Fatalf("AddSymbol() error = %v", err)
			}
			p := New(prices, holdings)
			p.now = func() time.Time { return tc.now }

			provider := &fakeProvider{prices: NewPriceSeries()}
			provider.prices.Append("TEST", date.New(tc.now.Date()), 101)
			if err := p.Refresh(provider); err != nil {
				t.Fatalf("Refresh() error = %v", err)
			}
			if fetched := provider.calls > 0; fetched != tc.wantFetch {
				t.Errorf("fetched = %v, want %v", fetched, tc.wantFetch)
			}
		})
	}
}

func TestRefreshDegradesToCache(t *testing.T) {
	prices, holdings := sampleSeries(t)
	p := New(prices, holdings)
	p.now = func() time.Time { return time.Date(2020, time.February, 3, 17, 0, 0, 0, time.Local) }

	provider := &fakeProvider{err: ErrDataUnavailable}
	err := p.Refresh(provider)
	if !errors.Is(err, ErrDataUnavailable) {
		t.Fatalf("Refresh() error = %v, want ErrDataUnavailable", err)
	}
	// The cached series is untouched.
	if got := p.Prices().LastDate(); got != sampleDays[4] {
		t.Errorf("LastDate() = %s, want %s", got, sampleDays[4])
	}
}
