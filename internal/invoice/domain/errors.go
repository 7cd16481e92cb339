package domain

import "errors"

var (
	ErrInvalidOrganization = errors.New("invalid_organization")
	ErrInvalidInvoiceID    = errors.New("invalid_invoice_id")
	ErrInvoiceNotFound     = errors.New("invoice_not_found")
	ErrInvalidClient       = errors.New("invalid_client")
	ErrInvalidDueDate      = errors.New("invalid_due_date")
	ErrInvalidCurrency     = errors.New("invalid_currency")

	// ErrInvalidMinPayment rejects a non-positive partial payment floor.
	ErrInvalidMinPayment = errors.New("invalid_min_payment")

	// ErrInvoiceLocked rejects item/discount edits after delivery.
	ErrInvoiceLocked = errors.New("invoice_locked")

	// ErrCannotCancelPaid rejects cancellation of a settled invoice.
	ErrCannotCancelPaid = errors.New("cannot_cancel_paid")

	ErrAlreadyCancelled = errors.New("already_cancelled")
	ErrNotSent          = errors.New("invoice_not_sent")
)
