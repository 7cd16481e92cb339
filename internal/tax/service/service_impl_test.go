package service

import (
	"context"
	"testing"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/glebarez/sqlite"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/flashbill/flashbill/internal/clock"
	"github.com/flashbill/flashbill/internal/orgcontext"
	taxdomain "github.com/flashbill/flashbill/internal/tax/domain"
	taxrepository "github.com/flashbill/flashbill/internal/tax/repository"
)

func newTestService(t *testing.T) (taxdomain.Service, taxdomain.Resolver) {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&taxdomain.TaxSetting{}))

	node, err := snowflake.NewNode(1)
	require.NoError(t, err)
	fake := clock.NewFakeClock(time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC))

	repo := taxrepository.NewRepository(db)
	svc := NewService(serviceParams{
		Log:   zap.NewNop(),
		GenID: node,
		Clock: fake,
		Repo:  repo,
	})
	return svc, NewResolver(resolverParam{Repository: repo})
}

var orgNode = func() *snowflake.Node {
	node, err := snowflake.NewNode(3)
	if err != nil {
		panic(err)
	}
	return node
}()

func orgContext(t *testing.T) (context.Context, snowflake.ID) {
	t.Helper()
	orgID := orgNode.Generate()
	return orgcontext.WithOrgID(context.Background(), orgID), orgID
}

func TestCreate_PersistsSetting(t *testing.T) {
	svc, _ := newTestService(t)
	ctx, orgID := orgContext(t)

	setting, err := svc.Create(ctx, taxdomain.CreateTaxSettingRequest{
		Label:     "VAT",
		Rate:      decimal.RequireFromString("21"),
		IsDefault: true,
	})
	require.NoError(t, err)

	assert.Equal(t, orgID, setting.OrgID)
	assert.Equal(t, "VAT", setting.Label)
	assert.True(t, setting.IsDefault)
	assert.True(t, setting.IsActive)

	got, err := svc.GetByID(ctx, setting.ID)
	require.NoError(t, err)
	assert.True(t, got.Rate.Equal(decimal.RequireFromString("21")))
}

func TestCreate_Validation(t *testing.T) {
	svc, _ := newTestService(t)
	ctx, _ := orgContext(t)

	_, err := svc.Create(ctx, taxdomain.CreateTaxSettingRequest{Label: "", Rate: decimal.NewFromInt(5)})
	assert.ErrorIs(t, err, taxdomain.ErrInvalidLabel)

	_, err = svc.Create(ctx, taxdomain.CreateTaxSettingRequest{Label: "Bad", Rate: decimal.NewFromInt(101)})
	assert.ErrorIs(t, err, taxdomain.ErrInvalidRate)

	_, err = svc.Create(ctx, taxdomain.CreateTaxSettingRequest{Label: "Bad", Rate: decimal.NewFromInt(-1)})
	assert.ErrorIs(t, err, taxdomain.ErrInvalidRate)

	_, err = svc.Create(context.Background(), taxdomain.CreateTaxSettingRequest{Label: "VAT", Rate: decimal.NewFromInt(5)})
	assert.ErrorIs(t, err, taxdomain.ErrInvalidOrganization)
}

func TestCreate_NewDefaultDemotesPrevious(t *testing.T) {
	svc, _ := newTestService(t)
	ctx, _ := orgContext(t)

	first, err := svc.Create(ctx, taxdomain.CreateTaxSettingRequest{
		Label: "Standard", Rate: decimal.NewFromInt(20), IsDefault: true,
	})
	require.NoError(t, err)

	second, err := svc.Create(ctx, taxdomain.CreateTaxSettingRequest{
		Label: "Reduced", Rate: decimal.NewFromInt(9), IsDefault: true,
	})
	require.NoError(t, err)

	got, err := svc.GetByID(ctx, first.ID)
	require.NoError(t, err)
	assert.False(t, got.IsDefault)

	got, err = svc.GetByID(ctx, second.ID)
	require.NoError(t, err)
	assert.True(t, got.IsDefault)
}

func TestUpdate_FlipsDefaultAndDeactivates(t *testing.T) {
	svc, _ := newTestService(t)
	ctx, _ := orgContext(t)

	first, err := svc.Create(ctx, taxdomain.CreateTaxSettingRequest{
		Label: "Standard", Rate: decimal.NewFromInt(20), IsDefault: true,
	})
	require.NoError(t, err)
	second, err := svc.Create(ctx, taxdomain.CreateTaxSettingRequest{
		Label: "Reduced", Rate: decimal.NewFromInt(9),
	})
	require.NoError(t, err)

	makeDefault := true
	updated, err := svc.Update(ctx, taxdomain.UpdateTaxSettingRequest{
		ID:        second.ID,
		IsDefault: &makeDefault,
	})
	require.NoError(t, err)
	assert.True(t, updated.IsDefault)

	got, err := svc.GetByID(ctx, first.ID)
	require.NoError(t, err)
	assert.False(t, got.IsDefault)

	inactive := false
	updated, err = svc.Update(ctx, taxdomain.UpdateTaxSettingRequest{
		ID:       second.ID,
		IsActive: &inactive,
	})
	require.NoError(t, err)
	assert.False(t, updated.IsActive)
}

func TestResolver_DefaultRate(t *testing.T) {
	svc, resolver := newTestService(t)
	ctx, _ := orgContext(t)

	// no settings yet
	got, err := resolver.DefaultRate(ctx)
	require.NoError(t, err)
	assert.True(t, got.IsZero())

	_, err = svc.Create(ctx, taxdomain.CreateTaxSettingRequest{
		Label: "VAT", Rate: decimal.RequireFromString("7.5"), IsDefault: true,
	})
	require.NoError(t, err)

	got, err = resolver.DefaultRate(ctx)
	require.NoError(t, err)
	assert.True(t, got.Equal(decimal.RequireFromString("7.5")))

	// inactive default no longer resolves
	settings, err := svc.List(ctx)
	require.NoError(t, err)
	require.Len(t, settings, 1)

	inactive := false
	_, err = svc.Update(ctx, taxdomain.UpdateTaxSettingRequest{ID: settings[0].ID, IsActive: &inactive})
	require.NoError(t, err)

	got, err = resolver.DefaultRate(ctx)
	require.NoError(t, err)
	assert.True(t, got.IsZero())
}

func TestResolver_ScopedToOrg(t *testing.T) {
	svc, resolver := newTestService(t)
	ctxA, _ := orgContext(t)
	ctxB, _ := orgContext(t)

	_, err := svc.Create(ctxA, taxdomain.CreateTaxSettingRequest{
		Label: "VAT", Rate: decimal.NewFromInt(19), IsDefault: true,
	})
	require.NoError(t, err)

	got, err := resolver.DefaultRate(ctxB)
	require.NoError(t, err)
	assert.True(t, got.IsZero())
}

func TestDelete(t *testing.T) {
	svc, _ := newTestService(t)
	ctx, _ := orgContext(t)

	setting, err := svc.Create(ctx, taxdomain.CreateTaxSettingRequest{
		Label: "VAT", Rate: decimal.NewFromInt(19),
	})
	require.NoError(t, err)

	require.NoError(t, svc.Delete(ctx, setting.ID))

	_, err = svc.GetByID(ctx, setting.ID)
	assert.ErrorIs(t, err, taxdomain.ErrTaxSettingNotFound)

	err = svc.Delete(ctx, setting.ID)
	assert.ErrorIs(t, err, taxdomain.ErrTaxSettingNotFound)
}
