package portfolio

import "errors"

// The error taxonomy of the package. Callers are expected to test with
// errors.Is; every error returned by a mutation or lookup wraps one of these.
var (
	// ErrUnknownSymbol is returned when an operation references a symbol
	// absent from the ledger or the price series.
	ErrUnknownSymbol = errors.New("unknown symbol")

	// ErrSymbolExists is returned by AddSymbol when the symbol is already held.
	ErrSymbolExists = errors.New("symbol already exists")

	// ErrInvalidQuantity is returned when a mutating operation receives a
	// non-positive quantity.
	ErrInvalidQuantity = errors.New("quantity must be > 0")

	// ErrDataUnavailable reports that the market-data provider could not be
	// reached or returned nothing. Callers fall back to cached data.
	ErrDataUnavailable = errors.New("no market data retrieved")

	// ErrConfigIncomplete reports missing required configuration fields.
	ErrConfigIncomplete = errors.New("configuration incomplete")

	// ErrNoPriorData is returned when a lookup date precedes all known data,
	// so there is nothing to pad from.
	ErrNoPriorData = errors.New("no data at or before date")
)
