package server

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"

	invoicedomain "github.com/flashbill/flashbill/internal/invoice/domain"
	"github.com/flashbill/flashbill/internal/payment/ledger"
)

func TestMapError(t *testing.T) {
	cases := []struct {
		name   string
		err    error
		status int
		typ    string
	}{
		{"non_positive_amount_is_validation", ledger.ErrNonPositiveAmount, http.StatusBadRequest, "validation_error"},
		{"invalid_min_payment", invoicedomain.ErrInvalidMinPayment, http.StatusBadRequest, "validation_error"},
		{"invalid_currency", invoicedomain.ErrInvalidCurrency, http.StatusBadRequest, "validation_error"},
		{"below_minimum", ledger.ErrBelowMinimum, http.StatusUnprocessableEntity, "business_rule"},
		{"exceeds_balance", ledger.ErrExceedsBalance, http.StatusUnprocessableEntity, "business_rule"},
		{"invoice_cancelled", ledger.ErrInvoiceCancelled, http.StatusUnprocessableEntity, "business_rule"},
		{"invoice_locked", invoicedomain.ErrInvoiceLocked, http.StatusUnprocessableEntity, "business_rule"},
		{"not_found", invoicedomain.ErrInvoiceNotFound, http.StatusNotFound, "not_found"},
		{"rate_limited", ErrRateLimited, http.StatusTooManyRequests, "rate_limited"},
		{"lock_contended", ErrLockContended, http.StatusConflict, "conflict"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			status, payload := mapError(tc.err)
			assert.Equal(t, tc.status, status)
			assert.Equal(t, tc.typ, payload.Type)
		})
	}
}
