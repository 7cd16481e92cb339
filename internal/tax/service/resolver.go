package service

import (
	"context"

	"github.com/flashbill/flashbill/internal/orgcontext"
	taxdomain "github.com/flashbill/flashbill/internal/tax/domain"
	"github.com/shopspring/decimal"
	"go.uber.org/fx"
)

type resolverParam struct {
	fx.In

	Repository taxdomain.Repository
}

type resolver struct {
	repo taxdomain.Repository
}

func NewResolver(p resolverParam) taxdomain.Resolver {
	return &resolver{repo: p.Repository}
}

func (r *resolver) DefaultRate(ctx context.Context) (decimal.Decimal, error) {
	orgID, ok := orgcontext.OrgIDFromContext(ctx)
	if !ok || orgID == 0 {
		return decimal.Zero, taxdomain.ErrInvalidOrganization
	}

	setting, err := r.repo.FindDefault(ctx, orgID)
	if err != nil {
		return decimal.Zero, err
	}
	if setting == nil || setting.Rate.IsNegative() {
		return decimal.Zero, nil
	}
	return setting.Rate, nil
}
