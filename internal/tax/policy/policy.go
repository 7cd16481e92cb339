// Package policy computes tax amounts for invoice lines.
//
// Rates are user-supplied percentages; nothing here infers or looks up
// jurisdiction rates. This is informational only: Flashbill does not
// calculate, verify, or file taxes on anyone's behalf.
package policy

import (
	"github.com/shopspring/decimal"

	"github.com/flashbill/flashbill/pkg/money"
)

// Mode controls whether line prices already contain tax.
type Mode string

const (
	ModeExclusive Mode = "exclusive" // tax added on top of line amounts
	ModeInclusive Mode = "inclusive" // tax extracted from line amounts
)

func (m Mode) Valid() bool {
	return m == ModeExclusive || m == ModeInclusive
}

var one = decimal.NewFromInt(1)

// LineTax returns the tax amount for a single line, rounded half-up to the
// minor unit. ratePercent is a percentage in [0, 100].
func LineTax(amount money.Money, ratePercent decimal.Decimal, mode Mode) money.Money {
	if ratePercent.IsZero() {
		return money.Zero(amount.Currency)
	}

	switch mode {
	case ModeInclusive:
		// tax = amount - amount / (1 + rate/100)
		amt := amount.Decimal()
		divisor := one.Add(ratePercent.Shift(-2))
		tax := amt.Sub(amt.Div(divisor)).Round(0)
		return money.New(tax.IntPart(), amount.Currency)
	default:
		return amount.MulRate(ratePercent)
	}
}

// Aggregate sums per-line tax amounts into the invoice-level tax amount.
// All lines must share one currency; the caller guarantees that.
func Aggregate(currency string, lineTaxes []money.Money) (money.Money, error) {
	total := money.Zero(currency)
	for _, tax := range lineTaxes {
		sum, err := total.Add(tax)
		if err != nil {
			return money.Money{}, err
		}
		total = sum
	}
	return total, nil
}
