package renderer

import (
	"strings"
	"testing"
	"time"

	"github.com/ThomasStivers/portfolio"
	"github.com/ThomasStivers/portfolio/date"
)

func sampleReport() *portfolio.ReportData {
	days := []date.Date{
		date.New(2020, time.January, 2),
		date.New(2020, time.January, 3),
	}
	return &portfolio.ReportData{
		Date:       days[1],
		Title:      portfolio.ReportTitle,
		Total:      portfolio.M(990),
		Difference: portfolio.M(-20),
		Pct:        portfolio.Percent(-1.98),
		RankValue:  "2nd",
		RankChange: "",
		Symbols: []portfolio.SymbolReport{
			{
				Symbol:     "TEST",
				Total:      portfolio.M(990),
				Difference: portfolio.M(-20),
				Pct:        portfolio.Percent(-1.98),
				RankValue:  "2nd",
			},
		},
		Table: &portfolio.WindowTable{
			Dates:   days,
			Symbols: []string{"TEST"},
			Cells:   [][]float64{{1010, 990}},
			Totals:  []float64{1010, 990},
		},
		Weekly: &portfolio.PeriodicSummary{
			Window:     date.NewRange(days[0], days[1]),
			Difference: -20,
			Pct:        portfolio.Percent(-1.98),
			Changes: []portfolio.SymbolCashChange{
				{Symbol: "TEST", Day: days[1], Shares: portfolio.Q(5), Cash: portfolio.M(495)},
			},
		},
	}
}

func TestRenderReport(t *testing.T) {
	md := RenderReport(sampleReport())

	for _, want := range []string{
		"# Portfolio Report for January 03 #",
		"decreased by $20.00",
		"2nd highest value",
		"TEST",
		"Jan-02",
		"| Total |",
		"## Weekly Report for Jan-02 through Jan-03 ##",
		"a decrease of $20",
		"changed by +5 shares",
	} {
		if !strings.Contains(md, want) {
			t.Errorf("RenderReport() missing %q in:\n%s", want, md)
		}
	}
	if strings.Contains(md, "error") {
		t.Errorf("RenderReport() reported a template error:\n%s", md)
	}
	// RankChange is empty: the sentence must read "the best day", not
	// "the 1st best day".
	if !strings.Contains(md, "the best day") {
		t.Errorf("RenderReport() did not suppress the top rank:\n%s", md)
	}
}

func TestRenderReportWithoutPeriodic(t *testing.T) {
	r := sampleReport()
	r.Weekly = nil
	md := RenderReport(r)
	if strings.Contains(md, "Weekly Report") {
		t.Errorf("RenderReport() rendered an absent weekly summary:\n%s", md)
	}
}

func TestHTML(t *testing.T) {
	html, err := HTML("# Title #\n\nsome *text*\n")
	if err != nil {
		t.Fatalf("HTML() error = %v", err)
	}
	for _, want := range []string{"<html>", "<h1", "Title", "<em>text</em>"} {
		if !strings.Contains(html, want) {
			t.Errorf("HTML() missing %q in:\n%s", want, html)
		}
	}
}
