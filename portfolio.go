package portfolio

import (
	"bytes"
	"errors"
	"fmt"
	"io/fs"
	"log"
	"os"
	"path/filepath"
	"time"

	"github.com/ThomasStivers/portfolio/date"
)

// Provider supplies close prices for a set of symbols over a date range.
// Implementations live outside this package (see the iex subpackage); a
// failed or empty fetch is reported as an error wrapping ErrDataUnavailable.
type Provider interface {
	Closes(symbols []string, window date.Range) (*PriceSeries, error)
}

// marketCloseHour is the local hour after which the day's closes are
// considered published. Best effort: it gates refresh, it does not guarantee
// the provider already has the data.
const marketCloseHour = 16

const (
	pricesFile   = "prices.jsonl"
	holdingsFile = "holdings.jsonl"
)

// Portfolio owns one price series and one holdings ledger and derives values
// from them. It follows an acquire/release lifecycle: Load (or New), zero or
// more mutations and queries, then Save, which skips writing when nothing
// changed since load.
//
// Holdings are always conformed to the price axis: the ledger stores change
// points and every derived view forward-fills them onto the price dates, so
// the two series cannot drift apart.
type Portfolio struct {
	path     string // storage directory, empty for an in-memory portfolio
	prices   *PriceSeries
	holdings *HoldingsLedger

	value *ValueTable // derived, nil or stale when dirty
	dirty bool

	loadedPrices   []byte // serialized form at load time, for the save skip
	loadedHoldings []byte

	now func() time.Time // clock, replaceable in tests
}

// New creates an in-memory portfolio from explicit series. Either may be nil
// and is replaced by an empty one.
func New(prices *PriceSeries, holdings *HoldingsLedger) *Portfolio {
	if prices == nil {
		prices = NewPriceSeries()
	}
	if holdings == nil {
		holdings = NewHoldingsLedger()
	}
	return &Portfolio{prices: prices, holdings: holdings, dirty: true, now: time.Now}
}

// Load reads the portfolio from its storage directory, creating the
// directory on first use. Missing files yield empty series. When a provider
// is given and the cached prices are stale, a refresh is attempted; provider
// failure degrades to the cached data with a logged warning.
func Load(path string, provider Provider) (*Portfolio, error) {
	if err := os.MkdirAll(path, 0755); err != nil {
		return nil, fmt.Errorf("cannot create portfolio directory %q: %w", path, err)
	}
	p := New(nil, nil)
	p.path = path

	raw, err := os.ReadFile(filepath.Join(path, pricesFile))
	switch {
	case errors.Is(err, fs.ErrNotExist):
		log.Printf("no stored prices in %q", path)
	case err != nil:
		return nil, fmt.Errorf("cannot read prices: %w", err)
	default:
		if p.prices, err = DecodePrices(bytes.NewReader(raw)); err != nil {
			return nil, fmt.Errorf("cannot decode %s: %w", pricesFile, err)
		}
	}

	raw, err = os.ReadFile(filepath.Join(path, holdingsFile))
	switch {
	case errors.Is(err, fs.ErrNotExist):
		log.Printf("no stored holdings in %q", path)
	case err != nil:
		return nil, fmt.Errorf("cannot read holdings: %w", err)
	default:
		if p.holdings, err = DecodeHoldings(bytes.NewReader(raw)); err != nil {
			return nil, fmt.Errorf("cannot decode %s: %w", holdingsFile, err)
		}
	}

	p.loadedPrices, p.loadedHoldings = p.snapshot()

	if provider != nil {
		if err := p.Refresh(provider); err != nil {
			// Degrade to cached data, the report is still useful.
			log.Printf("warning: market data refresh skipped: %v", err)
		}
	}
	return p, nil
}

// snapshot serializes both series for the content-equality save check.
func (p *Portfolio) snapshot() (prices, holdings []byte) {
	var bp, bh bytes.Buffer
	// Encoding cannot fail on an in-memory buffer with plain floats.
	_ = EncodePrices(&bp, p.prices)
	_ = EncodeHoldings(&bh, p.holdings)
	return bp.Bytes(), bh.Bytes()
}

// needsRefresh implements the lazy, time-gated freshness policy: refetch
// only when the cached last close predates yesterday's business day, today
// is a business day, and the local time is past the market-close cutoff.
// This is a best-effort heuristic, not a correctness guarantee.
func (p *Portfolio) needsRefresh() bool {
	now := p.now()
	today := date.New(now.Date())
	if !today.IsBusiness() || now.Hour() < marketCloseHour {
		return false
	}
	last := p.prices.LastDate()
	return last.IsZero() || last.Before(today.PrevBusiness())
}

// Refresh fetches missing closes from the provider if the cached series is
// stale, and merges them in. It returns an error wrapping ErrDataUnavailable
// when the provider fails; the cached series is left untouched in that case.
func (p *Portfolio) Refresh(provider Provider) error {
	if !p.needsRefresh() {
		return nil
	}
	symbols := p.holdings.Symbols()
	if len(symbols) == 0 {
		symbols = p.prices.Symbols()
	}
	if len(symbols) == 0 {
		log.Print("nothing to retrieve")
		return nil
	}
	today := date.New(p.now().Date())
	start := p.prices.LastDate().Add(1)
	if p.prices.LastDate().IsZero() {
		start = today.StartOfYear()
	}
	fetched, err := provider.Closes(symbols, date.NewRange(start, today))
	if err != nil {
		return fmt.Errorf("fetching closes for %v: %w", symbols, err)
	}
	p.prices.Merge(fetched)
	p.invalidate()
	return nil
}

// Save persists both series to the storage directory. The write is skipped
// when the serialized content equals what was loaded, so a read-only run
// leaves the files untouched. In-memory portfolios are never saved.
func (p *Portfolio) Save() error {
	if p.path == "" {
		return nil
	}
	prices, holdings := p.snapshot()
	if err := writeIfChanged(filepath.Join(p.path, pricesFile), prices, p.loadedPrices); err != nil {
		return err
	}
	if err := writeIfChanged(filepath.Join(p.path, holdingsFile), holdings, p.loadedHoldings); err != nil {
		return err
	}
	p.loadedPrices, p.loadedHoldings = prices, holdings
	return nil
}

func writeIfChanged(path string, content, loaded []byte) error {
	if bytes.Equal(content, loaded) {
		return nil
	}
	log.Printf("writing %s", path)
	if err := os.WriteFile(path, content, 0644); err != nil {
		return fmt.Errorf("cannot write %q: %w", path, err)
	}
	return nil
}

// invalidate drops the derived value table after any mutation.
func (p *Portfolio) invalidate() {
	p.dirty = true
	p.value = nil
}

// Prices returns the owned price series. Mutating it through Append
// invalidates derived values on the next mutation; prefer the Portfolio
// operations.
func (p *Portfolio) Prices() *PriceSeries { return p.prices }

// Holdings returns the owned holdings ledger.
func (p *Portfolio) Holdings() *HoldingsLedger { return p.holdings }

// Value returns the derived value table, recomputing it after mutations.
// A stale table is never served: every mutating operation marks it dirty.
func (p *Portfolio) Value() *ValueTable {
	if p.value == nil || p.dirty {
		p.value = newValueTable(p.prices, p.holdings)
		p.dirty = false
	}
	return p.value
}

// AddShares adds shares of symbol from 'day' forward.
func (p *Portfolio) AddShares(symbol string, quantity float64, day date.Date) error {
	if err := p.holdings.AddShares(symbol, quantity, day); err != nil {
		return err
	}
	p.invalidate()
	return nil
}

// RemoveShares removes shares of symbol from 'day' forward.
func (p *Portfolio) RemoveShares(symbol string, quantity float64, day date.Date) error {
	if err := p.holdings.RemoveShares(symbol, quantity, day); err != nil {
		return err
	}
	p.invalidate()
	return nil
}

// SetShares sets the held share count of symbol from 'day' forward.
func (p *Portfolio) SetShares(symbol string, quantity float64, day date.Date) error {
	if err := p.holdings.SetShares(symbol, quantity, day); err != nil {
		return err
	}
	p.invalidate()
	return nil
}

// AddCash buys as many shares of symbol as 'cash' affords at the close of
// 'day' and adds them from that day forward.
func (p *Portfolio) AddCash(symbol string, cash float64, day date.Date) error {
	if cash <= 0 {
		return fmt.Errorf("got %v: %w", cash, ErrInvalidQuantity)
	}
	shares, err := p.ToShares(symbol, cash, day)
	if err != nil {
		return err
	}
	return p.AddShares(symbol, shares, day)
}

// RemoveCash sells shares of symbol worth 'cash' at the close of 'day' and
// removes them from that day forward.
func (p *Portfolio) RemoveCash(symbol string, cash float64, day date.Date) error {
	if cash <= 0 {
		return fmt.Errorf("got %v: %w", cash, ErrInvalidQuantity)
	}
	shares, err := p.ToShares(symbol, cash, day)
	if err != nil {
		return err
	}
	return p.RemoveShares(symbol, shares, day)
}

// AddSymbol starts a position in a new symbol and tries to backfill its
// price history from the provider. A failed backfill is logged, not fatal:
// prices may arrive on the next refresh.
func (p *Portfolio) AddSymbol(symbol string, quantity float64, day date.Date, provider Provider) error {
	if err := p.holdings.AddSymbol(symbol, quantity, day); err != nil {
		return err
	}
	p.invalidate()
	if provider == nil || p.prices.Has(symbol) {
		return nil
	}
	window := date.NewRange(day, date.New(p.now().Date()))
	if first := p.prices.FirstDate(); !first.IsZero() && first.Before(window.From) {
		window.From = first
	}
	fetched, err := provider.Closes([]string{symbol}, window)
	if err != nil {
		log.Printf("unable to retrieve market data for %s: %v", symbol, err)
		return nil
	}
	p.prices.Merge(fetched)
	return nil
}

// ToCash values a share count of symbol at the close of 'day' (padding from
// the most recent prior close). Pure conversion, no mutation.
func (p *Portfolio) ToCash(symbol string, shares float64, day date.Date) (float64, error) {
	price, err := p.prices.Lookup(symbol, day)
	if err != nil {
		return 0, err
	}
	return shares * price, nil
}

// ToShares converts a cash amount into shares of symbol at the close of
// 'day'. Pure conversion, no mutation.
func (p *Portfolio) ToShares(symbol string, cash float64, day date.Date) (float64, error) {
	price, err := p.prices.Lookup(symbol, day)
	if err != nil {
		return 0, err
	}
	if price == 0 {
		return 0, fmt.Errorf("close of %q on %s is zero: %w", symbol, day, ErrDataUnavailable)
	}
	return cash / price, nil
}

// String briefly describes the holdings in the portfolio.
func (p *Portfolio) String() string {
	t := p.Value()
	var total float64
	if len(t.dates) > 0 {
		total = t.totals[len(t.totals)-1]
	}
	return fmt.Sprintf("Portfolio holding %d instruments for %d dates worth %s.",
		len(p.holdings.symbols), len(t.dates), M(total))
}
