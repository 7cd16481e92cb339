package ledger

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	invoicedomain "github.com/flashbill/flashbill/internal/invoice/domain"
	"github.com/flashbill/flashbill/pkg/money"
)

var now = time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

func openInvoice(total int64) invoicedomain.Invoice {
	sentAt := now.Add(-24 * time.Hour)
	return invoicedomain.Invoice{
		Status:              invoicedomain.StatusSent,
		Currency:            "USD",
		TotalAmount:         total,
		AllowPartialPayment: true,
		SentAt:              &sentAt,
		DueDate:             now.Add(30 * 24 * time.Hour),
	}
}

func usd(amount int64) money.Money { return money.New(amount, "USD") }

func TestApplyPaymentSettlesExactBalance(t *testing.T) {
	inv := openInvoice(301875) // 3018.75

	got, err := ApplyPayment(inv, usd(301875), now)
	require.NoError(t, err)

	assert.Equal(t, invoicedomain.StatusPaid, got.Status)
	assert.Equal(t, int64(301875), got.AmountPaid)
	assert.True(t, got.BalanceDue().IsZero())
	require.NotNil(t, got.PaidAt)
	assert.Equal(t, now, *got.PaidAt)
	assert.Equal(t, int32(0), got.PartialPaymentCount)
}

func TestApplyPaymentPartialThenFinal(t *testing.T) {
	inv := openInvoice(301875)

	first, err := ApplyPayment(inv, usd(150000), now)
	require.NoError(t, err)
	assert.Equal(t, invoicedomain.StatusPartial, first.Status)
	assert.Equal(t, int32(1), first.PartialPaymentCount)
	assert.Equal(t, int64(151875), first.BalanceDue().Amount)

	second, err := ApplyPayment(first, usd(151875), now)
	require.NoError(t, err)
	assert.Equal(t, invoicedomain.StatusPaid, second.Status)
	assert.Equal(t, int32(1), second.PartialPaymentCount, "counter must not increment again")
}

func TestApplyPaymentCounterOnlyOnFirstPartial(t *testing.T) {
	inv := openInvoice(100000)

	one, err := ApplyPayment(inv, usd(20000), now)
	require.NoError(t, err)
	two, err := ApplyPayment(one, usd(20000), now)
	require.NoError(t, err)

	assert.Equal(t, invoicedomain.StatusPartial, two.Status)
	assert.Equal(t, int32(1), two.PartialPaymentCount)
}

func TestApplyPaymentPartialDisabled(t *testing.T) {
	inv := openInvoice(301875)
	inv.AllowPartialPayment = false

	_, err := ApplyPayment(inv, usd(100000), now)
	assert.ErrorIs(t, err, ErrPartialPaymentDisabled)

	// Full payment is not a partial payment.
	got, err := ApplyPayment(inv, usd(301875), now)
	require.NoError(t, err)
	assert.Equal(t, invoicedomain.StatusPaid, got.Status)
}

func TestApplyPaymentBelowMinimum(t *testing.T) {
	inv := openInvoice(301875)
	min := int64(10000) // 100.00
	inv.MinPaymentAmount = &min

	_, err := ApplyPayment(inv, usd(5000), now)
	assert.ErrorIs(t, err, ErrBelowMinimum)

	got, err := ApplyPayment(inv, usd(301875), now)
	require.NoError(t, err)
	assert.Equal(t, invoicedomain.StatusPaid, got.Status)
}

func TestApplyPaymentFinalBelowMinimumAllowed(t *testing.T) {
	inv := openInvoice(100000)
	min := int64(50000)
	inv.MinPaymentAmount = &min

	partial, err := ApplyPayment(inv, usd(70000), now)
	require.NoError(t, err)

	// Balance is 300.00, below the 500.00 minimum; the final payment is
	// always allowed.
	got, err := ApplyPayment(partial, usd(30000), now)
	require.NoError(t, err)
	assert.Equal(t, invoicedomain.StatusPaid, got.Status)
}

func TestApplyPaymentExceedsBalance(t *testing.T) {
	inv := openInvoice(100000)

	_, err := ApplyPayment(inv, usd(100001), now)
	assert.ErrorIs(t, err, ErrExceedsBalance)
}

func TestApplyPaymentNonPositive(t *testing.T) {
	inv := openInvoice(100000)

	_, err := ApplyPayment(inv, usd(0), now)
	assert.ErrorIs(t, err, ErrNonPositiveAmount)

	_, err = ApplyPayment(inv, usd(-100), now)
	assert.ErrorIs(t, err, ErrNonPositiveAmount)
}

func TestApplyPaymentCurrencyMismatch(t *testing.T) {
	inv := openInvoice(100000)

	_, err := ApplyPayment(inv, money.New(100, "EUR"), now)
	assert.ErrorIs(t, err, money.ErrCurrencyMismatch)
}

func TestApplyPaymentCancelledInvoice(t *testing.T) {
	inv := openInvoice(100000)
	inv.Status = invoicedomain.StatusCancelled

	_, err := ApplyPayment(inv, usd(100000), now)
	assert.ErrorIs(t, err, ErrInvoiceCancelled)
}

func TestApplyRefundExceedsPaid(t *testing.T) {
	inv := openInvoice(100000)
	inv.AmountPaid = 30000

	_, err := ApplyRefund(inv, usd(30001), now)
	assert.ErrorIs(t, err, ErrExceedsPaid)
}

func TestApplyRefundRevertsPaidToPartial(t *testing.T) {
	inv := openInvoice(100000)
	paid, err := ApplyPayment(inv, usd(100000), now)
	require.NoError(t, err)
	require.Equal(t, invoicedomain.StatusPaid, paid.Status)

	got, err := ApplyRefund(paid, usd(40000), now)
	require.NoError(t, err)
	assert.Equal(t, invoicedomain.StatusPartial, got.Status)
	assert.Equal(t, int64(60000), got.AmountPaid)
	assert.Nil(t, got.PaidAt)
}

func TestApplyRefundFullRevertsToDeliveryState(t *testing.T) {
	inv := openInvoice(100000)
	partial, err := ApplyPayment(inv, usd(40000), now)
	require.NoError(t, err)

	got, err := ApplyRefund(partial, usd(40000), now)
	require.NoError(t, err)
	assert.Equal(t, invoicedomain.StatusSent, got.Status)
	assert.Equal(t, int64(0), got.AmountPaid)
	assert.False(t, got.BalanceDue().IsNegative())
}

func TestRefundThenPaymentRoundTrip(t *testing.T) {
	inv := openInvoice(100000)
	partial, err := ApplyPayment(inv, usd(60000), now)
	require.NoError(t, err)

	refunded, err := ApplyRefund(partial, usd(25000), now)
	require.NoError(t, err)
	restored, err := ApplyPayment(refunded, usd(25000), now)
	require.NoError(t, err)

	assert.Equal(t, partial.AmountPaid, restored.AmountPaid)
	assert.Equal(t, partial.Status, restored.Status)
}

func TestBalanceNeverNegative(t *testing.T) {
	inv := openInvoice(301875)
	amounts := []int64{50000, 100000, 151875}

	current := inv
	for _, amt := range amounts {
		next, err := ApplyPayment(current, usd(amt), now)
		require.NoError(t, err)
		assert.False(t, next.BalanceDue().IsNegative())
		assert.Equal(t, next.TotalAmount-next.AmountPaid, next.BalanceDue().Amount)
		current = next
	}
	assert.Equal(t, invoicedomain.StatusPaid, current.Status)
}
