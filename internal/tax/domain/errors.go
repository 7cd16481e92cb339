package domain

import "errors"

var (
	ErrInvalidOrganization = errors.New("invalid_organization")
	ErrInvalidLabel        = errors.New("invalid_label")
	ErrInvalidRate         = errors.New("invalid_rate")
	ErrInvalidTaxSettingID = errors.New("invalid_tax_setting_id")
	ErrTaxSettingNotFound  = errors.New("tax_setting_not_found")
)
