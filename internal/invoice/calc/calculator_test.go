package calc

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/flashbill/flashbill/pkg/money"
)

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func usd(amount int64) money.Money { return money.New(amount, "USD") }

func TestComputeSingleLine(t *testing.T) {
	// qty 10 x 100.00 at 7.25% -> subtotal 1000.00, tax 72.50, total 1072.50
	totals, lines, err := Compute("USD", []Line{
		{Description: "Consulting", Quantity: dec("10"), UnitAmount: usd(10000), TaxRate: dec("7.25")},
	}, money.Zero("USD"), false)
	require.NoError(t, err)

	assert.Equal(t, int64(100000), totals.Subtotal.Amount)
	assert.Equal(t, int64(7250), totals.TaxAmount.Amount)
	assert.Equal(t, int64(0), totals.DiscountAmount.Amount)
	assert.Equal(t, int64(107250), totals.TotalAmount.Amount)

	require.Len(t, lines, 1)
	assert.Equal(t, int64(100000), lines[0].Amount.Amount)
	assert.Equal(t, int64(7250), lines[0].TaxAmount.Amount)
}

func TestComputeRoundsPerLine(t *testing.T) {
	// Each line rounds on its own: 3 x (0.333 x 1.00) = 3 x 0.33 = 0.99,
	// not round(0.999) = 1.00.
	line := Line{Description: "Fraction", Quantity: dec("0.333"), UnitAmount: usd(100), TaxRate: dec("0")}
	totals, _, err := Compute("USD", []Line{line, line, line}, money.Zero("USD"), false)
	require.NoError(t, err)
	assert.Equal(t, int64(99), totals.Subtotal.Amount)
}

func TestComputeHeterogeneousRates(t *testing.T) {
	totals, _, err := Compute("USD", []Line{
		{Description: "Taxed", Quantity: dec("1"), UnitAmount: usd(10000), TaxRate: dec("10")},
		{Description: "Exempt", Quantity: dec("1"), UnitAmount: usd(5000), TaxRate: dec("0")},
	}, money.Zero("USD"), false)
	require.NoError(t, err)

	assert.Equal(t, int64(15000), totals.Subtotal.Amount)
	assert.Equal(t, int64(1000), totals.TaxAmount.Amount)
	assert.Equal(t, int64(16000), totals.TotalAmount.Amount)
}

func TestComputeDiscountClamped(t *testing.T) {
	// Discount 500.00 on subtotal 300.00 clamps to 300.00; the total is
	// exactly the tax amount, never negative.
	totals, _, err := Compute("USD", []Line{
		{Description: "Small job", Quantity: dec("1"), UnitAmount: usd(30000), TaxRate: dec("10")},
	}, usd(50000), false)
	require.NoError(t, err)

	assert.Equal(t, int64(30000), totals.DiscountAmount.Amount)
	assert.Equal(t, totals.TaxAmount.Amount, totals.TotalAmount.Amount)
	assert.False(t, totals.TotalAmount.IsNegative())
}

func TestComputeInclusiveMode(t *testing.T) {
	// 110.00 gross at 10% inclusive: tax 10.00 embedded, total stays 110.00
	totals, _, err := Compute("USD", []Line{
		{Description: "Gross priced", Quantity: dec("1"), UnitAmount: usd(11000), TaxRate: dec("10")},
	}, money.Zero("USD"), true)
	require.NoError(t, err)

	assert.Equal(t, int64(11000), totals.Subtotal.Amount)
	assert.Equal(t, int64(1000), totals.TaxAmount.Amount)
	assert.Equal(t, int64(11000), totals.TotalAmount.Amount)
	assert.Equal(t, int64(10000), totals.NetSubtotal().Amount)
}

func TestComputeValidation(t *testing.T) {
	valid := Line{Description: "ok", Quantity: dec("1"), UnitAmount: usd(100), TaxRate: dec("0")}

	_, _, err := Compute("USD", nil, money.Zero("USD"), false)
	assert.ErrorIs(t, err, ErrEmptyInvoice)

	bad := valid
	bad.Description = "  "
	_, _, err = Compute("USD", []Line{bad}, money.Zero("USD"), false)
	assert.ErrorIs(t, err, ErrInvalidLineItem)

	bad = valid
	bad.Quantity = dec("-1")
	_, _, err = Compute("USD", []Line{bad}, money.Zero("USD"), false)
	assert.ErrorIs(t, err, ErrInvalidLineItem)

	bad = valid
	bad.Quantity = dec("0")
	_, _, err = Compute("USD", []Line{bad}, money.Zero("USD"), false)
	assert.ErrorIs(t, err, ErrInvalidLineItem)

	bad = valid
	bad.UnitAmount = usd(-1)
	_, _, err = Compute("USD", []Line{bad}, money.Zero("USD"), false)
	assert.ErrorIs(t, err, ErrInvalidLineItem)

	bad = valid
	bad.TaxRate = dec("101")
	_, _, err = Compute("USD", []Line{bad}, money.Zero("USD"), false)
	assert.ErrorIs(t, err, ErrInvalidLineItem)

	_, _, err = Compute("USD", []Line{valid}, usd(-100), false)
	assert.ErrorIs(t, err, ErrInvalidDiscount)

	bad = valid
	bad.UnitAmount = money.New(100, "EUR")
	_, _, err = Compute("USD", []Line{bad}, money.Zero("USD"), false)
	assert.ErrorIs(t, err, money.ErrCurrencyMismatch)
}

func TestZeroUnitPriceAllowed(t *testing.T) {
	totals, _, err := Compute("USD", []Line{
		{Description: "Comped", Quantity: dec("3"), UnitAmount: usd(0), TaxRate: dec("7.25")},
	}, money.Zero("USD"), false)
	require.NoError(t, err)
	assert.True(t, totals.TotalAmount.IsZero())
}
