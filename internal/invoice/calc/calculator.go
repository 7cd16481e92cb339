// Package calc derives invoice totals from line items.
package calc

import (
	"errors"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/flashbill/flashbill/internal/tax/policy"
	"github.com/flashbill/flashbill/pkg/money"
)

var (
	ErrEmptyInvoice    = errors.New("empty_invoice")
	ErrInvalidLineItem = errors.New("invalid_line_item")
	ErrInvalidDiscount = errors.New("invalid_discount")
)

var maxRate = decimal.NewFromInt(100)

// Line is one item of a calculation request.
type Line struct {
	Description string
	Quantity    decimal.Decimal
	UnitAmount  money.Money
	TaxRate     decimal.Decimal // percentage, 0-100
}

// LineResult carries the derived amounts for one line.
type LineResult struct {
	Line
	Amount    money.Money
	TaxAmount money.Money
}

// Totals is the calculator output.
type Totals struct {
	Subtotal       money.Money `json:"subtotal"`
	TaxAmount      money.Money `json:"tax_amount"`
	DiscountAmount money.Money `json:"discount_amount"`
	TotalAmount    money.Money `json:"total_amount"`
	TaxInclusive   bool        `json:"tax_inclusive"`
}

// NetSubtotal reports the subtotal net of tax. In exclusive mode that is
// the subtotal itself; in inclusive mode the embedded tax is removed.
func (t Totals) NetSubtotal() money.Money {
	if !t.TaxInclusive {
		return t.Subtotal
	}
	net, _ := t.Subtotal.Sub(t.TaxAmount)
	return net
}

// Compute validates the lines and derives subtotal, tax, discount and
// total. Line amounts round per item, not once at the end. A discount
// larger than the subtotal is clamped, not rejected; the total never goes
// negative from a discount.
func Compute(currency string, lines []Line, discount money.Money, inclusive bool) (Totals, []LineResult, error) {
	if len(lines) == 0 {
		return Totals{}, nil, ErrEmptyInvoice
	}
	if discount.IsNegative() {
		return Totals{}, nil, ErrInvalidDiscount
	}
	if !discount.SameCurrency(money.Zero(currency)) {
		return Totals{}, nil, money.ErrCurrencyMismatch
	}

	mode := policy.ModeExclusive
	if inclusive {
		mode = policy.ModeInclusive
	}

	subtotal := money.Zero(currency)
	results := make([]LineResult, 0, len(lines))
	lineTaxes := make([]money.Money, 0, len(lines))

	for _, line := range lines {
		if err := validateLine(currency, line); err != nil {
			return Totals{}, nil, err
		}

		amount := line.UnitAmount.MulQuantity(line.Quantity)
		tax := policy.LineTax(amount, line.TaxRate, mode)

		sum, err := subtotal.Add(amount)
		if err != nil {
			return Totals{}, nil, err
		}
		subtotal = sum

		lineTaxes = append(lineTaxes, tax)
		results = append(results, LineResult{Line: line, Amount: amount, TaxAmount: tax})
	}

	taxAmount, err := policy.Aggregate(currency, lineTaxes)
	if err != nil {
		return Totals{}, nil, err
	}

	clamped, err := discount.Min(subtotal)
	if err != nil {
		return Totals{}, nil, err
	}

	total, err := subtotal.SubNonNegative(clamped)
	if err != nil {
		return Totals{}, nil, err
	}
	if !inclusive {
		total, err = total.Add(taxAmount)
		if err != nil {
			return Totals{}, nil, err
		}
	}

	return Totals{
		Subtotal:       subtotal,
		TaxAmount:      taxAmount,
		DiscountAmount: clamped,
		TotalAmount:    total,
		TaxInclusive:   inclusive,
	}, results, nil
}

func validateLine(currency string, line Line) error {
	if strings.TrimSpace(line.Description) == "" {
		return ErrInvalidLineItem
	}
	if !line.Quantity.IsPositive() {
		return ErrInvalidLineItem
	}
	if line.UnitAmount.IsNegative() {
		return ErrInvalidLineItem
	}
	if line.UnitAmount.Currency != currency {
		return money.ErrCurrencyMismatch
	}
	if line.TaxRate.IsNegative() || line.TaxRate.GreaterThan(maxRate) {
		return ErrInvalidLineItem
	}
	return nil
}
