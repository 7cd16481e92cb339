// Package money implements exact minor-unit currency arithmetic.
//
// Amounts are int64 minor units (cents) paired with an ISO currency code.
// Rounding happens in exactly one place: where a decimal rate or quantity
// multiplies an amount, half-up to the minor unit. No operation ever
// produces a fractional minor unit.
package money

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
)

var (
	ErrCurrencyMismatch = errors.New("currency_mismatch")
	ErrNegativeResult   = errors.New("negative_result")
)

var hundred = decimal.NewFromInt(100)

// Money is a fixed-precision amount in a single currency.
type Money struct {
	Amount   int64  `json:"amount"`
	Currency string `json:"currency"`
}

func New(amount int64, currency string) Money {
	return Money{Amount: amount, Currency: currency}
}

func Zero(currency string) Money {
	return Money{Currency: currency}
}

func (m Money) IsZero() bool     { return m.Amount == 0 }
func (m Money) IsNegative() bool { return m.Amount < 0 }
func (m Money) IsPositive() bool { return m.Amount > 0 }

func (m Money) SameCurrency(other Money) bool {
	return m.Currency == other.Currency
}

func (m Money) Add(other Money) (Money, error) {
	if !m.SameCurrency(other) {
		return Money{}, ErrCurrencyMismatch
	}
	return Money{Amount: m.Amount + other.Amount, Currency: m.Currency}, nil
}

// Sub subtracts other from m. The result may be negative; callers that
// require non-negativity use SubNonNegative.
func (m Money) Sub(other Money) (Money, error) {
	if !m.SameCurrency(other) {
		return Money{}, ErrCurrencyMismatch
	}
	return Money{Amount: m.Amount - other.Amount, Currency: m.Currency}, nil
}

// SubNonNegative subtracts other from m and fails with ErrNegativeResult
// instead of going below zero.
func (m Money) SubNonNegative(other Money) (Money, error) {
	result, err := m.Sub(other)
	if err != nil {
		return Money{}, err
	}
	if result.Amount < 0 {
		return Money{}, ErrNegativeResult
	}
	return result, nil
}

// Cmp returns -1, 0 or 1 comparing m against other.
func (m Money) Cmp(other Money) (int, error) {
	if !m.SameCurrency(other) {
		return 0, ErrCurrencyMismatch
	}
	switch {
	case m.Amount < other.Amount:
		return -1, nil
	case m.Amount > other.Amount:
		return 1, nil
	default:
		return 0, nil
	}
}

func (m Money) Equal(other Money) bool {
	return m.Currency == other.Currency && m.Amount == other.Amount
}

func (m Money) LessThan(other Money) (bool, error) {
	cmp, err := m.Cmp(other)
	return cmp < 0, err
}

func (m Money) GreaterThan(other Money) (bool, error) {
	cmp, err := m.Cmp(other)
	return cmp > 0, err
}

// MulRate multiplies by a percentage rate (e.g. 7.25 for 7.25%) and rounds
// half-up to the minor unit.
func (m Money) MulRate(ratePercent decimal.Decimal) Money {
	raw := decimal.NewFromInt(m.Amount).Mul(ratePercent.Div(hundred))
	return Money{Amount: roundHalfUp(raw), Currency: m.Currency}
}

// MulQuantity multiplies a unit amount by a decimal quantity and rounds
// half-up to the minor unit.
func (m Money) MulQuantity(quantity decimal.Decimal) Money {
	raw := decimal.NewFromInt(m.Amount).Mul(quantity)
	return Money{Amount: roundHalfUp(raw), Currency: m.Currency}
}

// Min returns the smaller of m and other.
func (m Money) Min(other Money) (Money, error) {
	cmp, err := m.Cmp(other)
	if err != nil {
		return Money{}, err
	}
	if cmp <= 0 {
		return m, nil
	}
	return other, nil
}

// Decimal returns the amount in minor units as a decimal.
func (m Money) Decimal() decimal.Decimal {
	return decimal.NewFromInt(m.Amount)
}

func (m Money) String() string {
	return fmt.Sprintf("%s %s", m.Currency, decimal.NewFromInt(m.Amount).Shift(-2).StringFixed(2))
}

// roundHalfUp rounds to zero decimal places, half away from zero. Amounts
// in this system are non-negative at every multiplication site, so this is
// the half-up rule.
func roundHalfUp(d decimal.Decimal) int64 {
	return d.Round(0).IntPart()
}
