package portfolio

import (
	"bytes"
	"strings"
	"testing"
)

func TestExportCSVDeduplicates(t *testing.T) {
	prices, holdings := sampleSeries(t)
	if err := holdings.AddShares("TEST", 5, sampleDays[2]); err != nil {
		t.Fatalf("AddShares() error = %v", err)
	}
	p := New(prices, holdings)

	var buf bytes.Buffer
	if err := p.ExportCSV(&buf); err != nil {
		t.Fatalf("ExportCSV() error = %v", err)
	}
	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")

	// Five trading days collapse to two distinct position rows plus the
	// header: consecutive duplicates are dropped.
	if len(lines) != 3 {
		t.Fatalf("ExportCSV() wrote %d lines, want 3:\n%s", len(lines), buf.String())
	}
	if lines[0] != "date,TEST" {
		t.Errorf("header = %q, want %q", lines[0], "date,TEST")
	}
	if lines[1] != "2020-01-01,10" {
		t.Errorf("first row = %q, want %q", lines[1], "2020-01-01,10")
	}
	if lines[2] != "2020-01-03,15" {
		t.Errorf("second row = %q, want %q", lines[2], "2020-01-03,15")
	}
}

func TestExportUnknownExtension(t *testing.T) {
	p := samplePortfolio(t)
	if err := p.Export("holdings.pdf"); err == nil {
		t.Errorf("Export(.pdf) = nil error, want failure")
	}
}
