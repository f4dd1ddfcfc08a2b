package model

import "fmt"

// PairLength is the length of a currency pair symbol such as "EURUSD".
const PairLength = 6

// ParsePair validates a pair symbol and returns its display form
// ("EURUSD" -> "EUR/USD").
func ParsePair(pair string) (string, error) {
	if len(pair) != PairLength {
		return "", fmt.Errorf("invalid currency pair %q: want %d characters, got %d", pair, PairLength, len(pair))
	}
	return pair[:3] + "/" + pair[3:], nil
}
