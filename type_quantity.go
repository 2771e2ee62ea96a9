package portfolio

import "github.com/shopspring/decimal"

// Quantity represents a number of shares. Quantities may be fractional
// (mutual funds) and, after an overshooting removal, negative.
type Quantity struct {
	value decimal.Decimal
}

// Q creates a Quantity from a float share count.
func Q(value float64) Quantity {
	return Quantity{value: decimal.NewFromFloat(value)}
}

func (q Quantity) Add(p Quantity) Quantity { return Quantity{value: q.value.Add(p.value)} }
func (q Quantity) Sub(p Quantity) Quantity { return Quantity{value: q.value.Sub(p.value)} }
func (q Quantity) Equal(p Quantity) bool   { return q.value.Equal(p.value) }
func (q Quantity) IsZero() bool            { return q.value.IsZero() }
func (q Quantity) IsNegative() bool        { return q.value.IsNegative() }
func (q Quantity) AsFloat() float64        { return q.value.InexactFloat64() }

// String renders the quantity with full precision, no trailing zeros.
func (q Quantity) String() string { return q.value.String() }

// SignedString renders the quantity with an explicit sign.
func (q Quantity) SignedString() string {
	if q.value.Sign() > 0 {
		return "+" + q.value.String()
	}
	return q.value.String()
}
