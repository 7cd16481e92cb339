// Package domain contains org-scoped tax settings.
//
// Settings store user-supplied rates as given. Nothing here computes,
// verifies, or files taxes on anyone's behalf.
package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/shopspring/decimal"
)

var maxRate = decimal.NewFromInt(100)

// TaxSetting is a reusable labelled rate, e.g. "Sales Tax 7.25%".
type TaxSetting struct {
	ID    snowflake.ID `gorm:"primaryKey" json:"id"`
	OrgID snowflake.ID `gorm:"not null;index" json:"org_id"`

	Label string          `gorm:"type:text;not null" json:"label"`
	Rate  decimal.Decimal `gorm:"type:numeric(6,3);not null" json:"rate"` // percentage, 0-100

	IsDefault bool `gorm:"not null;default:false" json:"is_default"`
	IsActive  bool `gorm:"not null;default:true" json:"is_active"`

	CreatedAt time.Time `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null;default:CURRENT_TIMESTAMP" json:"updated_at"`
}

// TableName sets the database table name.
func (TaxSetting) TableName() string { return "tax_settings" }

func (t *TaxSetting) Validate() error {
	if t.Label == "" {
		return ErrInvalidLabel
	}
	if t.Rate.IsNegative() || t.Rate.GreaterThan(maxRate) {
		return ErrInvalidRate
	}
	return nil
}
