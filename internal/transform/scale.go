package transform

import "github.com/shopspring/decimal"

// VolumeScale converts vendor volumes (millions) into units.
var VolumeScale = decimal.New(1, 6)

// DefaultPriceScales returns the divisor turning a raw price into a decimal
// price for each supported pair. The map is a fresh copy.
func DefaultPriceScales() map[string]decimal.Decimal {
	return map[string]decimal.Decimal{
		"EURUSD": decimal.New(1, 5),
		"GBPUSD": decimal.New(1, 5),
	}
}

// Supported reports whether pair has a default price scale.
func Supported(pair string) bool {
	_, ok := DefaultPriceScales()[pair]
	return ok
}
