package server

import (
	"net/http"
	"strings"

	"github.com/bwmarrin/snowflake"
	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	taxdomain "github.com/flashbill/flashbill/internal/tax/domain"
)

type createTaxSettingRequest struct {
	Label     string          `json:"label"`
	Rate      decimal.Decimal `json:"rate"`
	IsDefault bool            `json:"is_default"`
}

type updateTaxSettingRequest struct {
	Label     *string          `json:"label,omitempty"`
	Rate      *decimal.Decimal `json:"rate,omitempty"`
	IsDefault *bool            `json:"is_default,omitempty"`
	IsActive  *bool            `json:"is_active,omitempty"`
}

func (s *Server) CreateTaxSetting(c *gin.Context) {
	var req createTaxSettingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	setting, err := s.taxSvc.Create(c.Request.Context(), taxdomain.CreateTaxSettingRequest{
		Label:     strings.TrimSpace(req.Label),
		Rate:      req.Rate,
		IsDefault: req.IsDefault,
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	if s.auditSvc != nil {
		targetID := setting.ID.String()
		_ = s.auditSvc.AuditLog(c.Request.Context(), &setting.OrgID, "", nil, "tax_setting.created", "tax_setting", &targetID, map[string]any{
			"label":      setting.Label,
			"rate":       setting.Rate.String(),
			"is_default": setting.IsDefault,
		})
	}

	c.JSON(http.StatusOK, gin.H{"data": setting})
}

func (s *Server) UpdateTaxSetting(c *gin.Context) {
	id, ok := taxSettingIDParam(c)
	if !ok {
		return
	}

	var req updateTaxSettingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	setting, err := s.taxSvc.Update(c.Request.Context(), taxdomain.UpdateTaxSettingRequest{
		ID:        id,
		Label:     trimStringPtr(req.Label),
		Rate:      req.Rate,
		IsDefault: req.IsDefault,
		IsActive:  req.IsActive,
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	if s.auditSvc != nil {
		targetID := setting.ID.String()
		_ = s.auditSvc.AuditLog(c.Request.Context(), &setting.OrgID, "", nil, "tax_setting.updated", "tax_setting", &targetID, map[string]any{
			"label":      setting.Label,
			"rate":       setting.Rate.String(),
			"is_default": setting.IsDefault,
			"is_active":  setting.IsActive,
		})
	}

	c.JSON(http.StatusOK, gin.H{"data": setting})
}

func (s *Server) GetTaxSettingByID(c *gin.Context) {
	id, ok := taxSettingIDParam(c)
	if !ok {
		return
	}

	setting, err := s.taxSvc.GetByID(c.Request.Context(), id)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": setting})
}

func (s *Server) ListTaxSettings(c *gin.Context) {
	settings, err := s.taxSvc.List(c.Request.Context())
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": settings})
}

func (s *Server) DeleteTaxSetting(c *gin.Context) {
	id, ok := taxSettingIDParam(c)
	if !ok {
		return
	}

	if err := s.taxSvc.Delete(c.Request.Context(), id); err != nil {
		AbortWithError(c, err)
		return
	}

	if s.auditSvc != nil {
		targetID := id.String()
		_ = s.auditSvc.AuditLog(c.Request.Context(), nil, "", nil, "tax_setting.deleted", "tax_setting", &targetID, nil)
	}

	c.JSON(http.StatusOK, gin.H{"data": gin.H{"deleted": true}})
}

func taxSettingIDParam(c *gin.Context) (snowflake.ID, bool) {
	id, err := snowflake.ParseString(strings.TrimSpace(c.Param("id")))
	if err != nil || id == 0 {
		AbortWithError(c, newValidationError("id", "invalid_id", "invalid id"))
		return 0, false
	}
	return id, true
}

func trimStringPtr(value *string) *string {
	if value == nil {
		return nil
	}
	trimmed := strings.TrimSpace(*value)
	return &trimmed
}
