package domain

import (
	"context"

	"github.com/bwmarrin/snowflake"
	"github.com/shopspring/decimal"
)

type CreateTaxSettingRequest struct {
	Label     string          `json:"label" binding:"required"`
	Rate      decimal.Decimal `json:"rate"`
	IsDefault bool            `json:"is_default"`
}

type UpdateTaxSettingRequest struct {
	ID        snowflake.ID     `json:"-"`
	Label     *string          `json:"label"`
	Rate      *decimal.Decimal `json:"rate"`
	IsDefault *bool            `json:"is_default"`
	IsActive  *bool            `json:"is_active"`
}

// Service manages the org's reusable tax rates.
type Service interface {
	Create(ctx context.Context, req CreateTaxSettingRequest) (*TaxSetting, error)
	Update(ctx context.Context, req UpdateTaxSettingRequest) (*TaxSetting, error)
	GetByID(ctx context.Context, id snowflake.ID) (*TaxSetting, error)
	List(ctx context.Context) ([]TaxSetting, error)
	Delete(ctx context.Context, id snowflake.ID) error
}

// Resolver exposes the org default rate to other domains. Line items
// created without an explicit rate fall back to this.
type Resolver interface {
	// DefaultRate returns the active default rate for the org in ctx,
	// or zero when the org has none configured.
	DefaultRate(ctx context.Context) (decimal.Decimal, error)
}

// Repository persists tax settings.
type Repository interface {
	Create(ctx context.Context, setting *TaxSetting) error
	Update(ctx context.Context, setting *TaxSetting) error
	FindByID(ctx context.Context, orgID, id snowflake.ID) (*TaxSetting, error)
	FindByOrg(ctx context.Context, orgID snowflake.ID) ([]TaxSetting, error)
	FindDefault(ctx context.Context, orgID snowflake.ID) (*TaxSetting, error)
	ClearDefault(ctx context.Context, orgID snowflake.ID) error
	Delete(ctx context.Context, orgID, id snowflake.ID) error
}
