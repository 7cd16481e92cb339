package domain

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/flashbill/flashbill/internal/invoice/calc"
)

// ItemInput is one incoming line item. A nil TaxRate means the org's
// default tax setting applies.
type ItemInput struct {
	Description string           `json:"description"`
	Quantity    decimal.Decimal  `json:"quantity"`
	UnitAmount  int64            `json:"unit_amount"`
	TaxRate     *decimal.Decimal `json:"tax_rate,omitempty"`
}

type CreateInvoiceRequest struct {
	ClientID  string    `json:"client_id"`
	Currency  string    `json:"currency"`
	IssueDate time.Time `json:"issue_date"`
	DueDate   time.Time `json:"due_date"`

	Items          []ItemInput `json:"items"`
	DiscountAmount int64       `json:"discount_amount"`
	TaxInclusive   bool        `json:"tax_inclusive"`

	AllowPartialPayment *bool  `json:"allow_partial_payment,omitempty"` // default true
	MinPaymentAmount    *int64 `json:"min_payment_amount,omitempty"`

	Notes *string `json:"notes,omitempty"`
	Terms *string `json:"terms,omitempty"`
}

// UpdateInvoiceRequest mutates a draft. Nil fields keep their value.
type UpdateInvoiceRequest struct {
	DueDate        *time.Time  `json:"due_date,omitempty"`
	Items          []ItemInput `json:"items,omitempty"`
	DiscountAmount *int64      `json:"discount_amount,omitempty"`
	TaxInclusive   *bool       `json:"tax_inclusive,omitempty"`

	AllowPartialPayment *bool  `json:"allow_partial_payment,omitempty"`
	MinPaymentAmount    *int64 `json:"min_payment_amount,omitempty"`

	Notes *string `json:"notes,omitempty"`
	Terms *string `json:"terms,omitempty"`
}

type PreviewRequest struct {
	Currency       string      `json:"currency"`
	Items          []ItemInput `json:"items"`
	DiscountAmount int64       `json:"discount_amount"`
	TaxInclusive   bool        `json:"tax_inclusive"`
}

type ListInvoiceRequest struct {
	Status      *Status
	ClientID    *string
	CreatedFrom *time.Time
	CreatedTo   *time.Time
	DueFrom     *time.Time
	DueTo       *time.Time
}

type ListInvoiceResponse struct {
	Invoices []Invoice `json:"invoices"`
}

type Service interface {
	Create(ctx context.Context, req CreateInvoiceRequest) (Invoice, error)
	Update(ctx context.Context, id string, req UpdateInvoiceRequest) (Invoice, error)
	GetByID(ctx context.Context, id string) (Invoice, error)
	List(ctx context.Context, req ListInvoiceRequest) (ListInvoiceResponse, error)

	// Preview runs the calculator without persisting anything.
	Preview(ctx context.Context, req PreviewRequest) (calc.Totals, error)

	MarkSent(ctx context.Context, id string) (Invoice, error)
	MarkViewed(ctx context.Context, id string) (Invoice, error)
	Cancel(ctx context.Context, id string) (Invoice, error)
}
