package portfolio

import "fmt"

// Percent is a relative change of the portfolio's value, in percent points:
// the Pct of a daily Change or a PeriodicSummary. -1.98 reads as -1.98%.
type Percent float64

// PctOf returns diff as a percentage of base. A zero base has no meaningful
// relative change and yields zero.
func PctOf(diff, base float64) Percent {
	if base == 0 {
		return 0
	}
	return Percent(diff / base * 100)
}

// Equal compares two percentages at display precision, two decimal places
// being what the reports show.
func (p Percent) Equal(q Percent) bool {
	const precision = 0.0001
	diff := p - q
	if diff < 0 {
		diff = -diff
	}
	return diff < precision
}

func (p Percent) String() string {
	return fmt.Sprintf("%.2f%%", p)
}

// SignedString renders the change with an explicit sign, or "-" for a flat
// day.
func (p Percent) SignedString() string {
	res := fmt.Sprintf("%+.2f%%", p)
	if res == "+0.00%" {
		return "-"
	}
	return res
}
