package policy

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/flashbill/flashbill/pkg/money"
)

func rate(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func TestLineTaxExclusive(t *testing.T) {
	// 1000.00 at 7.25% -> 72.50
	tax := LineTax(money.New(100000, "USD"), rate("7.25"), ModeExclusive)
	assert.Equal(t, int64(7250), tax.Amount)
}

func TestLineTaxInclusive(t *testing.T) {
	// 110.00 gross at 10% contains 10.00 tax
	tax := LineTax(money.New(11000, "USD"), rate("10"), ModeInclusive)
	assert.Equal(t, int64(1000), tax.Amount)

	// 107.00 gross at 7% contains 7.00 tax
	tax = LineTax(money.New(10700, "USD"), rate("7"), ModeInclusive)
	assert.Equal(t, int64(700), tax.Amount)
}

func TestZeroRateIsZeroTaxInBothModes(t *testing.T) {
	amount := money.New(99999, "USD")

	assert.True(t, LineTax(amount, rate("0"), ModeExclusive).IsZero())
	assert.True(t, LineTax(amount, rate("0"), ModeInclusive).IsZero())
}

func TestAggregate(t *testing.T) {
	total, err := Aggregate("USD", []money.Money{
		money.New(7250, "USD"),
		money.New(500, "USD"),
		money.Zero("USD"),
	})
	require.NoError(t, err)
	assert.Equal(t, int64(7750), total.Amount)

	_, err = Aggregate("USD", []money.Money{money.New(1, "EUR")})
	assert.ErrorIs(t, err, money.ErrCurrencyMismatch)
}

func TestModeValid(t *testing.T) {
	assert.True(t, ModeExclusive.Valid())
	assert.True(t, ModeInclusive.Valid())
	assert.False(t, Mode("compound").Valid())
}
