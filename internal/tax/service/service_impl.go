package service

import (
	"context"
	"strings"

	"github.com/bwmarrin/snowflake"
	"github.com/flashbill/flashbill/internal/clock"
	"github.com/flashbill/flashbill/internal/orgcontext"
	taxdomain "github.com/flashbill/flashbill/internal/tax/domain"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

type serviceParams struct {
	fx.In

	Log   *zap.Logger
	GenID *snowflake.Node
	Clock clock.Clock
	Repo  taxdomain.Repository
}

type Service struct {
	log   *zap.Logger
	genID *snowflake.Node
	clock clock.Clock
	repo  taxdomain.Repository
}

func NewService(p serviceParams) taxdomain.Service {
	return &Service{
		log:   p.Log.Named("tax.service"),
		genID: p.GenID,
		clock: p.Clock,
		repo:  p.Repo,
	}
}

func (s *Service) Create(ctx context.Context, req taxdomain.CreateTaxSettingRequest) (*taxdomain.TaxSetting, error) {
	orgID, ok := orgcontext.OrgIDFromContext(ctx)
	if !ok || orgID == 0 {
		return nil, taxdomain.ErrInvalidOrganization
	}

	now := s.clock.Now()
	record := &taxdomain.TaxSetting{
		ID:        s.genID.Generate(),
		OrgID:     orgID,
		Label:     strings.TrimSpace(req.Label),
		Rate:      req.Rate,
		IsDefault: req.IsDefault,
		IsActive:  true,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := record.Validate(); err != nil {
		return nil, err
	}

	// Only one default per org. Demote the previous one first.
	if record.IsDefault {
		if err := s.repo.ClearDefault(ctx, orgID); err != nil {
			return nil, err
		}
	}

	if err := s.repo.Create(ctx, record); err != nil {
		return nil, err
	}

	s.log.Info("tax setting created",
		zap.String("tax_setting_id", record.ID.String()),
		zap.String("org_id", orgID.String()),
		zap.String("rate", record.Rate.String()),
	)
	return record, nil
}

func (s *Service) Update(ctx context.Context, req taxdomain.UpdateTaxSettingRequest) (*taxdomain.TaxSetting, error) {
	orgID, ok := orgcontext.OrgIDFromContext(ctx)
	if !ok || orgID == 0 {
		return nil, taxdomain.ErrInvalidOrganization
	}

	item, err := s.repo.FindByID(ctx, orgID, req.ID)
	if err != nil {
		return nil, err
	}
	if item == nil {
		return nil, taxdomain.ErrTaxSettingNotFound
	}

	if req.Label != nil {
		item.Label = strings.TrimSpace(*req.Label)
	}
	if req.Rate != nil {
		item.Rate = *req.Rate
	}
	if req.IsActive != nil {
		item.IsActive = *req.IsActive
	}
	if req.IsDefault != nil && *req.IsDefault != item.IsDefault {
		if *req.IsDefault {
			if err := s.repo.ClearDefault(ctx, orgID); err != nil {
				return nil, err
			}
		}
		item.IsDefault = *req.IsDefault
	}

	if err := item.Validate(); err != nil {
		return nil, err
	}

	item.UpdatedAt = s.clock.Now()
	if err := s.repo.Update(ctx, item); err != nil {
		return nil, err
	}
	return item, nil
}

func (s *Service) GetByID(ctx context.Context, id snowflake.ID) (*taxdomain.TaxSetting, error) {
	orgID, ok := orgcontext.OrgIDFromContext(ctx)
	if !ok || orgID == 0 {
		return nil, taxdomain.ErrInvalidOrganization
	}

	item, err := s.repo.FindByID(ctx, orgID, id)
	if err != nil {
		return nil, err
	}
	if item == nil {
		return nil, taxdomain.ErrTaxSettingNotFound
	}
	return item, nil
}

func (s *Service) List(ctx context.Context) ([]taxdomain.TaxSetting, error) {
	orgID, ok := orgcontext.OrgIDFromContext(ctx)
	if !ok || orgID == 0 {
		return nil, taxdomain.ErrInvalidOrganization
	}
	return s.repo.FindByOrg(ctx, orgID)
}

func (s *Service) Delete(ctx context.Context, id snowflake.ID) error {
	orgID, ok := orgcontext.OrgIDFromContext(ctx)
	if !ok || orgID == 0 {
		return taxdomain.ErrInvalidOrganization
	}

	item, err := s.repo.FindByID(ctx, orgID, id)
	if err != nil {
		return err
	}
	if item == nil {
		return taxdomain.ErrTaxSettingNotFound
	}
	return s.repo.Delete(ctx, orgID, id)
}
