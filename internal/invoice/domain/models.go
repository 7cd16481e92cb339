// Package domain contains the invoice model and its lifecycle rules.
package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/shopspring/decimal"
	"gorm.io/datatypes"

	"github.com/flashbill/flashbill/pkg/money"
)

// Status represents invoice lifecycle states.
type Status string

const (
	StatusDraft     Status = "draft"
	StatusSent      Status = "sent"
	StatusViewed    Status = "viewed"
	StatusPartial   Status = "partial"
	StatusPaid      Status = "paid"
	StatusOverdue   Status = "overdue" // display-only, never stored
	StatusCancelled Status = "cancelled"
)

// Terminal reports whether no further financial mutation is permitted,
// refunds from Paid excepted.
func (s Status) Terminal() bool {
	return s == StatusPaid || s == StatusCancelled
}

// Invoice is a billing document owned by an organization.
type Invoice struct {
	ID            snowflake.ID `gorm:"primaryKey" json:"id"`
	OrgID         snowflake.ID `gorm:"not null;index;uniqueIndex:ux_invoices_org_number,priority:1" json:"org_id"`
	ClientID      snowflake.ID `gorm:"not null;index" json:"client_id"`
	InvoiceNumber int64        `gorm:"not null;uniqueIndex:ux_invoices_org_number,priority:2" json:"invoice_number"`

	Status   Status `gorm:"type:text;not null;default:'draft'" json:"status"`
	Currency string `gorm:"type:text;not null" json:"currency"`

	IssueDate time.Time `gorm:"type:date;not null" json:"issue_date"`
	DueDate   time.Time `gorm:"type:date;not null" json:"due_date"`

	SubtotalAmount int64 `gorm:"not null;default:0" json:"subtotal_amount"`
	TaxAmount      int64 `gorm:"not null;default:0" json:"tax_amount"`
	DiscountAmount int64 `gorm:"not null;default:0" json:"discount_amount"`
	TotalAmount    int64 `gorm:"not null;default:0" json:"total_amount"`
	AmountPaid     int64 `gorm:"not null;default:0" json:"amount_paid"`

	TaxInclusive bool `gorm:"not null;default:false" json:"tax_inclusive"`

	AllowPartialPayment bool   `gorm:"not null;default:true" json:"allow_partial_payment"`
	MinPaymentAmount    *int64 `gorm:"" json:"min_payment_amount,omitempty"`
	PartialPaymentCount int32  `gorm:"not null;default:0" json:"partial_payment_count"`

	Notes *string `gorm:"type:text" json:"notes,omitempty"`
	Terms *string `gorm:"type:text" json:"terms,omitempty"`

	SentAt      *time.Time `gorm:"" json:"sent_at,omitempty"`
	ViewedAt    *time.Time `gorm:"" json:"viewed_at,omitempty"`
	PaidAt      *time.Time `gorm:"" json:"paid_at,omitempty"`
	CancelledAt *time.Time `gorm:"" json:"cancelled_at,omitempty"`

	Metadata datatypes.JSONMap `gorm:"type:jsonb" json:"metadata,omitempty"`

	Items []InvoiceItem `gorm:"-" json:"items,omitempty"`

	// View-time fields stamped by DecorateForDisplay, never stored.
	DisplayStatus Status `gorm:"-" json:"display_status,omitempty"`
	Overdue       bool   `gorm:"-" json:"is_overdue"`

	CreatedAt time.Time `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null;default:CURRENT_TIMESTAMP" json:"updated_at"`
}

// TableName sets the database table name.
func (Invoice) TableName() string { return "invoices" }

// InvoiceItem represents a line on an invoice.
type InvoiceItem struct {
	ID        snowflake.ID `gorm:"primaryKey" json:"id"`
	OrgID     snowflake.ID `gorm:"not null;index" json:"org_id"`
	InvoiceID snowflake.ID `gorm:"not null;index" json:"invoice_id"`

	Description string          `gorm:"type:text;not null" json:"description"`
	Quantity    decimal.Decimal `gorm:"type:numeric(12,4);not null" json:"quantity"`
	UnitAmount  int64           `gorm:"not null" json:"unit_amount"`
	TaxRate     decimal.Decimal `gorm:"type:numeric(6,3);not null" json:"tax_rate"`

	Amount    int64 `gorm:"not null" json:"amount"`
	TaxAmount int64 `gorm:"not null" json:"tax_amount"`

	Position  int       `gorm:"not null;default:0" json:"position"`
	CreatedAt time.Time `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
}

// TableName sets the database table name.
func (InvoiceItem) TableName() string { return "invoice_items" }

// Total returns the invoice total as Money.
func (i *Invoice) Total() money.Money {
	return money.New(i.TotalAmount, i.Currency)
}

// Paid returns the accrued amount paid as Money.
func (i *Invoice) Paid() money.Money {
	return money.New(i.AmountPaid, i.Currency)
}

// BalanceDue returns total minus paid. The ledger invariants keep it
// non-negative.
func (i *Invoice) BalanceDue() money.Money {
	return money.New(i.TotalAmount-i.AmountPaid, i.Currency)
}

// MinPayment returns the configured payment floor, if any.
func (i *Invoice) MinPayment() *money.Money {
	if i.MinPaymentAmount == nil {
		return nil
	}
	m := money.New(*i.MinPaymentAmount, i.Currency)
	return &m
}
