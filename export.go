package portfolio

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"slices"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/ThomasStivers/portfolio/date"
)

// Export writes the portfolio to 'path', picking the format from the file
// extension: ".csv" for the holdings history, ".xlsx" for a workbook with
// Prices, Holdings and Value sheets.
func (p *Portfolio) Export(path string) error {
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".csv":
		f, err := os.Create(path)
		if err != nil {
			return fmt.Errorf("cannot create %q: %w", path, err)
		}
		defer f.Close()
		return p.ExportCSV(f)
	case ".xlsx":
		return p.ExportXLSX(path)
	default:
		return fmt.Errorf("unsupported export format %q (want .csv or .xlsx)", ext)
	}
}

// ExportCSV writes the holdings history as CSV, one row per date on the
// price axis. Rows identical to their predecessor are skipped, so the file
// reads as a compact list of position changes.
func (p *Portfolio) ExportCSV(w io.Writer) error {
	symbols := p.holdings.Symbols()
	out := csv.NewWriter(w)
	if err := out.Write(append([]string{"date"}, symbols...)); err != nil {
		return fmt.Errorf("writing csv header: %w", err)
	}
	var prev []string
	for _, day := range p.prices.Dates() {
		row := make([]string, 0, len(symbols)+1)
		row = append(row, day.String())
		for _, symbol := range symbols {
			shares, _ := p.holdings.Position(symbol, day)
			row = append(row, strconv.FormatFloat(shares, 'f', -1, 64))
		}
		if prev != nil && slices.Equal(row[1:], prev[1:]) {
			continue
		}
		if err := out.Write(row); err != nil {
			return fmt.Errorf("writing csv row for %s: %w", day, err)
		}
		prev = row
	}
	out.Flush()
	return out.Error()
}

// ExportXLSX writes a workbook with one sheet per table: close prices, held
// shares conformed to the price axis, and the resulting values with their
// Total column.
func (p *Portfolio) ExportXLSX(path string) error {
	f := excelize.NewFile()
	defer f.Close()

	days := p.prices.Dates()
	err := writeSheet(f, "Prices", p.prices.Symbols(), days, func(symbol string, day date.Date) (float64, bool) {
		return p.prices.Get(symbol, day)
	})
	if err != nil {
		return err
	}
	err = writeSheet(f, "Holdings", p.holdings.Symbols(), days, func(symbol string, day date.Date) (float64, bool) {
		shares, _ := p.holdings.Position(symbol, day)
		return shares, true
	})
	if err != nil {
		return err
	}
	t := p.Value()
	err = writeSheet(f, "Value", append(t.Symbols(), "Total"), t.Dates(), func(symbol string, day date.Date) (float64, bool) {
		var v float64
		var cellErr error
		if symbol == "Total" {
			v, cellErr = t.Total(day)
		} else {
			v, cellErr = t.Value(symbol, day)
		}
		return v, cellErr == nil
	})
	if err != nil {
		return err
	}

	// excelize starts every workbook with a default sheet.
	if err := f.DeleteSheet("Sheet1"); err != nil {
		return fmt.Errorf("cannot drop default sheet: %w", err)
	}
	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("cannot write %q: %w", path, err)
	}
	return nil
}

// writeSheet fills one sheet with dates down the first column and one
// column per symbol. Cells where 'cell' reports no value are left blank.
func writeSheet(f *excelize.File, name string, symbols []string, days []date.Date, cell func(symbol string, day date.Date) (float64, bool)) error {
	if _, err := f.NewSheet(name); err != nil {
		return fmt.Errorf("cannot create sheet %q: %w", name, err)
	}
	if err := f.SetCellValue(name, "A1", "date"); err != nil {
		return fmt.Errorf("sheet %q: %w", name, err)
	}
	for col, symbol := range symbols {
		ref, err := excelize.CoordinatesToCellName(col+2, 1)
		if err != nil {
			return fmt.Errorf("sheet %q: %w", name, err)
		}
		if err := f.SetCellValue(name, ref, symbol); err != nil {
			return fmt.Errorf("sheet %q: %w", name, err)
		}
	}
	for row, day := range days {
		ref, err := excelize.CoordinatesToCellName(1, row+2)
		if err != nil {
			return fmt.Errorf("sheet %q: %w", name, err)
		}
		if err := f.SetCellValue(name, ref, day.String()); err != nil {
			return fmt.Errorf("sheet %q: %w", name, err)
		}
		for col, symbol := range symbols {
			v, ok := cell(symbol, day)
			if !ok {
				continue
			}
			ref, err := excelize.CoordinatesToCellName(col+2, row+2)
			if err != nil {
				return fmt.Errorf("sheet %q: %w", name, err)
			}
			if err := f.SetCellValue(name, ref, v); err != nil {
				return fmt.Errorf("sheet %q: %w", name, err)
			}
		}
	}
	return nil
}
