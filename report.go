package portfolio

import (
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/ThomasStivers/portfolio/date"
)

// ReportTitle heads every rendered report.
const ReportTitle = "Portfolio Report"

// SymbolReport carries one symbol's facts for the report.
type SymbolReport struct {
	Symbol     string
	Total      Money
	Difference Money
	Pct        Percent
	RankChange string // ordinal, empty for the top rank
	RankValue  string
}

// ReportData is the structured fact set the renderers consume: the
// portfolio-wide figures, the same per symbol, a windowed value table, and
// an optional periodic summary on week and month boundaries. Charting is
// not done here; ChartFile is set by the caller when an image exists.
type ReportData struct {
	Date       date.Date
	Title      string
	Total      Money
	Difference Money
	Pct        Percent
	RankChange string
	RankValue  string
	Symbols    []SymbolReport
	Table      *WindowTable
	Weekly     *PeriodicSummary
	Monthly    *PeriodicSummary
	ChartFile  string
}

// NewReport assembles the report facts for 'day', snapped to the nearest
// trading day of the value table. Symbols worth zero on the report date are
// left out. The weekly summary appears on Fridays, the monthly one on the
// last business day of the month.
func (p *Portfolio) NewReport(day date.Date) (*ReportData, error) {
	t := p.Value()
	asked := day
	day, err := t.nearest(day)
	if err != nil {
		return nil, fmt.Errorf("cannot report on %s: %w", asked, err)
	}

	r := &ReportData{Date: day, Title: ReportTitle}

	total, err := t.Total(day)
	if err != nil {
		return nil, err
	}
	r.Total = M(total)
	if change, err := t.DailyChange(day); err == nil {
		r.Difference = M(change.Difference)
		r.Pct = change.Pct
	} else if !errors.Is(err, ErrNoPriorData) {
		return nil, err
	}
	rank, err := t.Rank(day, date.Range{})
	if err != nil {
		return nil, err
	}
	r.RankChange = ordinal(rank.Change)
	r.RankValue = ordinal(rank.Value)

	for _, symbol := range t.Symbols() {
		v, err := t.Value(symbol, day)
		if err != nil {
			return nil, err
		}
		if v == 0 {
			continue
		}
		s := SymbolReport{Symbol: symbol, Total: M(v)}
		if change, err := t.SymbolDailyChange(symbol, day); err == nil {
			s.Difference = M(change.Difference)
			s.Pct = change.Pct
		} else if !errors.Is(err, ErrNoPriorData) {
			return nil, err
		}
		rank, err := t.SymbolRank(symbol, day, date.Range{})
		if err != nil {
			return nil, err
		}
		s.RankChange = ordinal(rank.Change)
		s.RankValue = ordinal(rank.Value)
		r.Symbols = append(r.Symbols, s)
	}

	if r.Table, err = t.WindowedTable(day, 4, 6); err != nil {
		return nil, err
	}

	if day.Weekday() == time.Friday {
		week := date.NewRange(day.Add(-7), day)
		if s, err := t.PeriodicChange(week, p.prices, p.holdings); err == nil {
			r.Weekly = &s
		}
	}
	if day.NextBusiness().Month() != day.Month() {
		month := date.NewRange(day.StartOfMonth(), day)
		if s, err := t.PeriodicChange(month, p.prices, p.holdings); err == nil {
			r.Monthly = &s
		}
	}
	return r, nil
}

// ordinal renders a rank as "2nd", "3rd", "21st". Tied ranks arrive as an
// average and are rounded first. The top rank renders empty so that a
// sentence like "the best day" reads without a redundant "1st".
func ordinal(rank float64) string {
	n := int(math.Round(rank))
	if n <= 1 {
		return ""
	}
	suffix := "th"
	if n/10%10 != 1 {
		switch n % 10 {
		case 1:
			suffix = "st"
		case 2:
			suffix = "nd"
		case 3:
			suffix = "rd"
		}
	}
	return fmt.Sprintf("%d%s", n, suffix)
}

// Superscript wraps an ordinal's suffix in <sup> tags for HTML rendering.
func Superscript(ord string) string {
	if len(ord) < 2 {
		return ord
	}
	return ord[:len(ord)-2] + "<sup>" + ord[len(ord)-2:] + "</sup>"
}
