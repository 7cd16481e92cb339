// Package domain contains payment records and the settlement contract.
package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
	"gorm.io/datatypes"
)

// Kind distinguishes money coming in from money going back.
type Kind string

const (
	KindPayment Kind = "payment"
	KindRefund  Kind = "refund"
)

// Well-known payment method labels. The core treats the method as opaque;
// these exist so callers agree on spelling.
const (
	MethodStripe       = "stripe"
	MethodPayPal       = "paypal"
	MethodCheck        = "check"
	MethodCash         = "cash"
	MethodBankTransfer = "bank_transfer"
)

// Payment is one settlement entry against an invoice. Refunds are stored
// as their own rows with Kind refund and a positive amount; their effect
// on the invoice is negative, capped at the previously paid amount.
type Payment struct {
	ID        snowflake.ID `gorm:"primaryKey" json:"id"`
	OrgID     snowflake.ID `gorm:"not null;index" json:"org_id"`
	InvoiceID snowflake.ID `gorm:"not null;index" json:"invoice_id"`

	Kind     Kind   `gorm:"type:text;not null;default:'payment'" json:"kind"`
	Amount   int64  `gorm:"not null" json:"amount"`
	Currency string `gorm:"type:text;not null" json:"currency"`
	Method   string `gorm:"type:text;not null" json:"method"`

	Note     *string           `gorm:"type:text" json:"note,omitempty"`
	Metadata datatypes.JSONMap `gorm:"type:jsonb" json:"metadata,omitempty"`

	ReceivedAt time.Time `gorm:"not null" json:"received_at"`
	CreatedAt  time.Time `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
}

// TableName sets the database table name.
func (Payment) TableName() string { return "payments" }
