// README: Common money value object used across modules.
package types

import "math"

// Money is an amount in minor units (cents).
type Money struct {
	Amount   int64  `json:"amount"`
	Currency string `json:"currency"`
}

// FromDollars converts a decimal price into Money, rounding to the nearest cent.
func FromDollars(v float64, currency string) Money {
	return Money{Amount: int64(math.Round(v * 100)), Currency: currency}
}

// Dollars returns the amount as a decimal value.
func (m Money) Dollars() float64 {
	return float64(m.Amount) / 100
}
