// Package ledger applies payments and refunds against an invoice balance.
//
// Both operations are pure: they take an invoice value and return the
// updated value, with balance and status recomputed together. Callers run
// them inside the per-invoice locking transaction so the whole sequence is
// observed as one indivisible operation.
package ledger

import (
	"errors"
	"time"

	invoicedomain "github.com/flashbill/flashbill/internal/invoice/domain"
	"github.com/flashbill/flashbill/pkg/money"
)

var (
	ErrNonPositiveAmount      = errors.New("non_positive_amount")
	ErrPartialPaymentDisabled = errors.New("partial_payment_disabled")
	ErrBelowMinimum           = errors.New("below_minimum")
	ErrExceedsBalance         = errors.New("exceeds_balance")
	ErrExceedsPaid            = errors.New("exceeds_paid")
	ErrInvoiceCancelled       = errors.New("invoice_cancelled")
)

// ApplyPayment validates amount against the invoice's partial-payment
// policy and outstanding balance, then accrues it.
//
// The partial payment counter increments only on the transition from
// unpaid into Partial; later partial payments leave it alone. A payment
// equal to the balance always settles the invoice, even below the
// configured minimum.
func ApplyPayment(inv invoicedomain.Invoice, amount money.Money, now time.Time) (invoicedomain.Invoice, error) {
	if amount.Currency != inv.Currency {
		return invoicedomain.Invoice{}, money.ErrCurrencyMismatch
	}
	if inv.Status == invoicedomain.StatusCancelled {
		return invoicedomain.Invoice{}, ErrInvoiceCancelled
	}
	if !amount.IsPositive() {
		return invoicedomain.Invoice{}, ErrNonPositiveAmount
	}

	balance := inv.BalanceDue()
	isFinal := amount.Equal(balance)

	if !isFinal && !inv.AllowPartialPayment {
		less, err := amount.LessThan(balance)
		if err != nil {
			return invoicedomain.Invoice{}, err
		}
		if less {
			return invoicedomain.Invoice{}, ErrPartialPaymentDisabled
		}
	}

	if min := inv.MinPayment(); min != nil && !isFinal {
		below, err := amount.LessThan(*min)
		if err != nil {
			return invoicedomain.Invoice{}, err
		}
		if below {
			return invoicedomain.Invoice{}, ErrBelowMinimum
		}
	}

	over, err := amount.GreaterThan(balance)
	if err != nil {
		return invoicedomain.Invoice{}, err
	}
	if over {
		return invoicedomain.Invoice{}, ErrExceedsBalance
	}

	wasUnpaid := inv.AmountPaid == 0

	inv.AmountPaid += amount.Amount
	inv.RecomputeStatus(now)
	if inv.Status == invoicedomain.StatusPartial && wasUnpaid {
		inv.PartialPaymentCount++
	}
	return inv, nil
}

// ApplyRefund reverses up to the previously paid amount. amount_paid never
// drops below zero; the status re-derives from the new amount, so a full
// refund returns the invoice to its delivery-driven state.
func ApplyRefund(inv invoicedomain.Invoice, amount money.Money, now time.Time) (invoicedomain.Invoice, error) {
	if amount.Currency != inv.Currency {
		return invoicedomain.Invoice{}, money.ErrCurrencyMismatch
	}
	if !amount.IsPositive() {
		return invoicedomain.Invoice{}, ErrNonPositiveAmount
	}

	over, err := amount.GreaterThan(inv.Paid())
	if err != nil {
		return invoicedomain.Invoice{}, err
	}
	if over {
		return invoicedomain.Invoice{}, ErrExceedsPaid
	}

	inv.AmountPaid -= amount.Amount
	inv.RecomputeStatus(now)
	return inv, nil
}
