package money

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAddSub(t *testing.T) {
	a := New(1500, "USD")
	b := New(500, "USD")

	sum, err := a.Add(b)
	require.NoError(t, err)
	assert.Equal(t, int64(2000), sum.Amount)

	diff, err := a.Sub(b)
	require.NoError(t, err)
	assert.Equal(t, int64(1000), diff.Amount)
}

func TestCurrencyMismatch(t *testing.T) {
	usd := New(100, "USD")
	eur := New(100, "EUR")

	_, err := usd.Add(eur)
	assert.ErrorIs(t, err, ErrCurrencyMismatch)

	_, err = usd.Sub(eur)
	assert.ErrorIs(t, err, ErrCurrencyMismatch)

	_, err = usd.Cmp(eur)
	assert.ErrorIs(t, err, ErrCurrencyMismatch)
}

func TestSubNonNegative(t *testing.T) {
	a := New(300, "USD")
	b := New(500, "USD")

	_, err := a.SubNonNegative(b)
	assert.ErrorIs(t, err, ErrNegativeResult)

	got, err := b.SubNonNegative(a)
	require.NoError(t, err)
	assert.Equal(t, int64(200), got.Amount)
}

func TestMulRateRoundsHalfUp(t *testing.T) {
	tests := []struct {
		name   string
		amount int64
		rate   string
		want   int64
	}{
		{"seven and a quarter percent", 100000, "7.25", 7250},
		{"rounds half up", 1050, "5", 53},      // 52.5 -> 53
		{"rounds down below half", 1049, "5", 52}, // 52.45 -> 52
		{"zero rate", 100000, "0", 0},
		{"full rate", 1234, "100", 1234},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rate, err := decimal.NewFromString(tt.rate)
			require.NoError(t, err)
			got := New(tt.amount, "USD").MulRate(rate)
			assert.Equal(t, tt.want, got.Amount)
			assert.Equal(t, "USD", got.Currency)
		})
	}
}

func TestMulQuantity(t *testing.T) {
	unit := New(10000, "USD") // 100.00

	qty := decimal.RequireFromString("10")
	assert.Equal(t, int64(100000), unit.MulQuantity(qty).Amount)

	qty = decimal.RequireFromString("2.5")
	assert.Equal(t, int64(25000), unit.MulQuantity(qty).Amount)

	// 0.333 * 100.00 = 33.30 exactly at minor-unit precision
	qty = decimal.RequireFromString("0.333")
	assert.Equal(t, int64(3330), unit.MulQuantity(qty).Amount)

	// 1.555 * 0.01 rounds 1.555 -> 2
	assert.Equal(t, int64(2), New(1, "USD").MulQuantity(decimal.RequireFromString("1.555")).Amount)
}

func TestMin(t *testing.T) {
	a := New(300, "USD")
	b := New(500, "USD")

	got, err := b.Min(a)
	require.NoError(t, err)
	assert.Equal(t, a, got)
}

func TestString(t *testing.T) {
	assert.Equal(t, "USD 1072.50", New(107250, "USD").String())
}
