package date

import "iter"

// Range represents a range of dates, boundaries included.
type Range struct{ From, To Date }

// NewRange creates a new date range. If 'from' is after 'to', they are swapped.
func NewRange(from, to Date) Range {
	if from.After(to) {
		from, to = to, from
	}
	return Range{From: from, To: to}
}

// Contains return true date is included in the range (boundaries included)
func (r Range) Contains(date Date) bool { return (!date.Before(r.From) && !date.After(r.To)) }

// Days returns an iterator that yields each date within the range, inclusive.
func (r Range) Days() iter.Seq[Date] {
	return func(yield func(Date) bool) {
		for d := r.From; !d.After(r.To); d = d.Add(1) {
			if !yield(d) {
				return
			}
		}
	}
}

// BusinessDays returns an iterator that yields each weekday within the range.
func (r Range) BusinessDays() iter.Seq[Date] {
	return func(yield func(Date) bool) {
		for d := r.From; !d.After(r.To); d = d.Add(1) {
			if !d.IsBusiness() {
				continue
			}
			if !yield(d) {
				return
			}
		}
	}
}

// YearToDate returns the range from January 1st of d's year through d.
func YearToDate(d Date) Range { return Range{From: d.StartOfYear(), To: d} }

// Clip returns r restricted to the [min, max] bounds.
func (r Range) Clip(min, max Date) Range {
	clipped := r
	if clipped.From.Before(min) {
		clipped.From = min
	}
	if clipped.To.After(max) {
		clipped.To = max
	}
	return clipped
}
