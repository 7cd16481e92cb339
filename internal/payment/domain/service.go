package domain

import (
	"context"
	"errors"

	invoicedomain "github.com/flashbill/flashbill/internal/invoice/domain"
)

var (
	ErrInvalidPaymentID = errors.New("invalid_payment_id")
	ErrInvalidMethod    = errors.New("invalid_method")
)

type RecordPaymentRequest struct {
	InvoiceID string  `json:"invoice_id"`
	Amount    int64   `json:"amount"`
	Method    string  `json:"method"`
	Note      *string `json:"note,omitempty"`
}

type RefundPaymentRequest struct {
	InvoiceID string  `json:"invoice_id"`
	Amount    int64   `json:"amount"`
	Note      *string `json:"note,omitempty"`
}

// Service settles payments and refunds against invoices. Every call is an
// atomic read-modify-write on the invoice row.
type Service interface {
	RecordPayment(ctx context.Context, req RecordPaymentRequest) (invoicedomain.Invoice, error)
	RefundPayment(ctx context.Context, req RefundPaymentRequest) (invoicedomain.Invoice, error)
	ListByInvoice(ctx context.Context, invoiceID string) ([]Payment, error)
}
