package repository

import (
	"context"

	"github.com/bwmarrin/snowflake"
	taxdomain "github.com/flashbill/flashbill/internal/tax/domain"
	"gorm.io/gorm"
)

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) taxdomain.Repository {
	return &repository{db: db}
}

func (r *repository) Create(ctx context.Context, setting *taxdomain.TaxSetting) error {
	return r.db.WithContext(ctx).Exec(
		`INSERT INTO tax_settings (
			id, org_id, label, rate, is_default, is_active, created_at, updated_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		setting.ID,
		setting.OrgID,
		setting.Label,
		setting.Rate,
		setting.IsDefault,
		setting.IsActive,
		setting.CreatedAt,
		setting.UpdatedAt,
	).Error
}

func (r *repository) Update(ctx context.Context, setting *taxdomain.TaxSetting) error {
	return r.db.WithContext(ctx).Exec(
		`UPDATE tax_settings
		 SET label = ?, rate = ?, is_default = ?, is_active = ?, updated_at = ?
		 WHERE org_id = ? AND id = ?`,
		setting.Label,
		setting.Rate,
		setting.IsDefault,
		setting.IsActive,
		setting.UpdatedAt,
		setting.OrgID,
		setting.ID,
	).Error
}

func (r *repository) FindByID(ctx context.Context, orgID, id snowflake.ID) (*taxdomain.TaxSetting, error) {
	var setting taxdomain.TaxSetting
	err := r.db.WithContext(ctx).Raw(
		`SELECT id, org_id, label, rate, is_default, is_active, created_at, updated_at
		 FROM tax_settings
		 WHERE org_id = ? AND id = ?`,
		orgID,
		id,
	).Scan(&setting).Error
	if err != nil {
		return nil, err
	}
	if setting.ID == 0 {
		return nil, nil
	}
	return &setting, nil
}

func (r *repository) FindByOrg(ctx context.Context, orgID snowflake.ID) ([]taxdomain.TaxSetting, error) {
	var items []taxdomain.TaxSetting
	err := r.db.WithContext(ctx).
		Model(&taxdomain.TaxSetting{}).
		Where("org_id = ?", orgID).
		Order("created_at DESC").
		Find(&items).Error
	if err != nil {
		return nil, err
	}
	return items, nil
}

func (r *repository) FindDefault(ctx context.Context, orgID snowflake.ID) (*taxdomain.TaxSetting, error) {
	var setting taxdomain.TaxSetting
	err := r.db.WithContext(ctx).Raw(
		`SELECT id, org_id, label, rate, is_default, is_active, created_at, updated_at
		 FROM tax_settings
		 WHERE org_id = ? AND is_default = ? AND is_active = ?
		 ORDER BY id ASC
		 LIMIT 1`,
		orgID,
		true,
		true,
	).Scan(&setting).Error
	if err != nil {
		return nil, err
	}
	if setting.ID == 0 {
		return nil, nil
	}
	return &setting, nil
}

func (r *repository) ClearDefault(ctx context.Context, orgID snowflake.ID) error {
	return r.db.WithContext(ctx).Exec(
		`UPDATE tax_settings SET is_default = ? WHERE org_id = ? AND is_default = ?`,
		false,
		orgID,
		true,
	).Error
}

func (r *repository) Delete(ctx context.Context, orgID, id snowflake.ID) error {
	return r.db.WithContext(ctx).Exec(
		`DELETE FROM tax_settings WHERE org_id = ? AND id = ?`,
		orgID,
		id,
	).Error
}
