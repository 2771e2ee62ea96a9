package portfolio

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/ThomasStivers/portfolio/date"
)

// this file contains the persistence format of the two series.
// It should remain human readable, single file per series and easy to diff.
//
// Each line is a JSON object with a 'symbol' property and a 'history' object
// whose keys are dates and values are numbers: closing prices for the price
// series, share positions (change points) for the holdings series.

type jseries struct {
	Symbol  string             `json:"symbol"`
	History map[string]float64 `json:"history"`
}

// decodeSeries parses the JSONL stream and hands each (symbol, day, value)
// to the sink.
func decodeSeries(r io.Reader, sink func(symbol string, day date.Date, value float64)) error {
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := scanner.Bytes()
		if len(strings.TrimSpace(string(line))) == 0 {
			continue
		}
		var js jseries
		if err := json.Unmarshal(line, &js); err != nil {
			return fmt.Errorf("cannot parse series line %q: %w", string(line), err)
		}
		for dayStr, value := range js.History {
			day, err := date.Parse(dayStr)
			if err != nil {
				return fmt.Errorf("cannot parse date in series for %q: %w", js.Symbol, err)
			}
			sink(js.Symbol, day, value)
		}
	}
	if err := scanner.Err(); err != nil {
		return fmt.Errorf("error reading series: %w", err)
	}
	return nil
}

// encodeSeries writes one line per symbol with its full history.
func encodeSeries(w io.Writer, symbols []string, history func(string) *date.History[float64]) error {
	for _, sym := range symbols {
		js := jseries{Symbol: sym, History: make(map[string]float64)}
		for day, value := range history(sym).Values() {
			js.History[day.String()] = value
		}
		data, err := json.Marshal(js)
		if err != nil {
			return fmt.Errorf("cannot marshal series for %q: %w", sym, err)
		}
		if _, err := w.Write(append(data, '\n')); err != nil {
			return fmt.Errorf("cannot write series for %q: %w", sym, err)
		}
	}
	return nil
}

// DecodePrices reads a price series from its JSONL form.
func DecodePrices(r io.Reader) (*PriceSeries, error) {
	p := NewPriceSeries()
	if err := decodeSeries(r, p.Append); err != nil {
		return nil, err
	}
	return p, nil
}

// EncodePrices writes the price series in its JSONL form, one symbol per line.
func EncodePrices(w io.Writer, p *PriceSeries) error {
	return encodeSeries(w, p.symbols, func(sym string) *date.History[float64] { return p.prices[sym] })
}

// DecodeHoldings reads a holdings ledger from its JSONL form. The stored
// points are the ledger's change points, not a dense table.
func DecodeHoldings(r io.Reader) (*HoldingsLedger, error) {
	l := NewHoldingsLedger()
	if err := decodeSeries(r, func(symbol string, day date.Date, value float64) {
		l.set(symbol, value, day)
	}); err != nil {
		return nil, err
	}
	return l, nil
}

// EncodeHoldings writes the ledger's change points in JSONL form.
func EncodeHoldings(w io.Writer, l *HoldingsLedger) error {
	return encodeSeries(w, l.symbols, l.history)
}
