package server

import (
	"context"
	"net/http"
	"strings"

	"github.com/bwmarrin/snowflake"
	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	invoicedomain "github.com/flashbill/flashbill/internal/invoice/domain"
)

type invoiceItemRequest struct {
	Description string           `json:"description"`
	Quantity    decimal.Decimal  `json:"quantity"`
	UnitAmount  int64            `json:"unit_amount"`
	TaxRate     *decimal.Decimal `json:"tax_rate,omitempty"`
}

type createInvoiceRequest struct {
	ClientID  string `json:"client_id"`
	Currency  string `json:"currency"`
	IssueDate string `json:"issue_date"`
	DueDate   string `json:"due_date"`

	Items          []invoiceItemRequest `json:"items"`
	DiscountAmount int64                `json:"discount_amount"`
	TaxInclusive   bool                 `json:"tax_inclusive"`

	AllowPartialPayment *bool  `json:"allow_partial_payment,omitempty"`
	MinPaymentAmount    *int64 `json:"min_payment_amount,omitempty"`

	Notes *string `json:"notes,omitempty"`
	Terms *string `json:"terms,omitempty"`
}

type updateInvoiceRequest struct {
	DueDate        *string              `json:"due_date,omitempty"`
	Items          []invoiceItemRequest `json:"items,omitempty"`
	DiscountAmount *int64               `json:"discount_amount,omitempty"`
	TaxInclusive   *bool                `json:"tax_inclusive,omitempty"`

	AllowPartialPayment *bool  `json:"allow_partial_payment,omitempty"`
	MinPaymentAmount    *int64 `json:"min_payment_amount,omitempty"`

	Notes *string `json:"notes,omitempty"`
	Terms *string `json:"terms,omitempty"`
}

type previewInvoiceRequest struct {
	Currency       string               `json:"currency"`
	Items          []invoiceItemRequest `json:"items"`
	DiscountAmount int64                `json:"discount_amount"`
	TaxInclusive   bool                 `json:"tax_inclusive"`
}

func (s *Server) CreateInvoice(c *gin.Context) {
	var req createInvoiceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	issueDate, err := parseOptionalTime(req.IssueDate, false)
	if err != nil {
		AbortWithError(c, newValidationError("issue_date", "invalid_issue_date", "invalid issue_date"))
		return
	}

	dueDate, err := parseOptionalTime(req.DueDate, false)
	if err != nil || dueDate == nil {
		AbortWithError(c, newValidationError("due_date", "invalid_due_date", "invalid due_date"))
		return
	}

	create := invoicedomain.CreateInvoiceRequest{
		ClientID:            strings.TrimSpace(req.ClientID),
		Currency:            strings.TrimSpace(req.Currency),
		DueDate:             *dueDate,
		Items:               toItemInputs(req.Items),
		DiscountAmount:      req.DiscountAmount,
		TaxInclusive:        req.TaxInclusive,
		AllowPartialPayment: req.AllowPartialPayment,
		MinPaymentAmount:    req.MinPaymentAmount,
		Notes:               req.Notes,
		Terms:               req.Terms,
	}
	if issueDate != nil {
		create.IssueDate = *issueDate
	}

	inv, err := s.invoiceSvc.Create(c.Request.Context(), create)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	if s.obsMetrics != nil {
		s.obsMetrics.RecordInvoiceCreated(c.Request.Context(), inv.Currency)
	}

	c.JSON(http.StatusOK, gin.H{"data": inv})
}

func (s *Server) UpdateInvoice(c *gin.Context) {
	id, ok := invoiceIDParam(c)
	if !ok {
		return
	}

	var req updateInvoiceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	update := invoicedomain.UpdateInvoiceRequest{
		DiscountAmount:      req.DiscountAmount,
		TaxInclusive:        req.TaxInclusive,
		AllowPartialPayment: req.AllowPartialPayment,
		MinPaymentAmount:    req.MinPaymentAmount,
		Notes:               req.Notes,
		Terms:               req.Terms,
	}
	if req.Items != nil {
		update.Items = toItemInputs(req.Items)
	}
	if req.DueDate != nil {
		dueDate, err := parseOptionalTime(*req.DueDate, false)
		if err != nil || dueDate == nil {
			AbortWithError(c, newValidationError("due_date", "invalid_due_date", "invalid due_date"))
			return
		}
		update.DueDate = dueDate
	}

	inv, err := s.invoiceSvc.Update(c.Request.Context(), id, update)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": inv})
}

func (s *Server) GetInvoiceByID(c *gin.Context) {
	id, ok := invoiceIDParam(c)
	if !ok {
		return
	}

	inv, err := s.invoiceSvc.GetByID(c.Request.Context(), id)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": inv})
}

func (s *Server) ListInvoices(c *gin.Context) {
	var query struct {
		Status      string `form:"status"`
		ClientID    string `form:"client_id"`
		CreatedFrom string `form:"created_from"`
		CreatedTo   string `form:"created_to"`
		DueFrom     string `form:"due_from"`
		DueTo       string `form:"due_to"`
	}
	if err := c.ShouldBindQuery(&query); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	req := invoicedomain.ListInvoiceRequest{}
	if trimmed := strings.TrimSpace(query.Status); trimmed != "" {
		status := invoicedomain.Status(trimmed)
		req.Status = &status
	}
	if trimmed := strings.TrimSpace(query.ClientID); trimmed != "" {
		req.ClientID = &trimmed
	}

	var err error
	if req.CreatedFrom, err = parseOptionalTime(query.CreatedFrom, false); err != nil {
		AbortWithError(c, newValidationError("created_from", "invalid_created_from", "invalid created_from"))
		return
	}
	if req.CreatedTo, err = parseOptionalTime(query.CreatedTo, true); err != nil {
		AbortWithError(c, newValidationError("created_to", "invalid_created_to", "invalid created_to"))
		return
	}
	if req.DueFrom, err = parseOptionalTime(query.DueFrom, false); err != nil {
		AbortWithError(c, newValidationError("due_from", "invalid_due_from", "invalid due_from"))
		return
	}
	if req.DueTo, err = parseOptionalTime(query.DueTo, true); err != nil {
		AbortWithError(c, newValidationError("due_to", "invalid_due_to", "invalid due_to"))
		return
	}

	resp, err := s.invoiceSvc.List(c.Request.Context(), req)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp.Invoices})
}

func (s *Server) PreviewInvoice(c *gin.Context) {
	var req previewInvoiceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	totals, err := s.invoiceSvc.Preview(c.Request.Context(), invoicedomain.PreviewRequest{
		Currency:       strings.TrimSpace(req.Currency),
		Items:          toItemInputs(req.Items),
		DiscountAmount: req.DiscountAmount,
		TaxInclusive:   req.TaxInclusive,
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": totals})
}

func (s *Server) SendInvoice(c *gin.Context) {
	s.transitionInvoice(c, s.invoiceSvc.MarkSent)
}

func (s *Server) MarkInvoiceViewed(c *gin.Context) {
	s.transitionInvoice(c, s.invoiceSvc.MarkViewed)
}

func (s *Server) CancelInvoice(c *gin.Context) {
	s.transitionInvoice(c, s.invoiceSvc.Cancel)
}

func (s *Server) transitionInvoice(c *gin.Context, fn func(ctx context.Context, id string) (invoicedomain.Invoice, error)) {
	id, ok := invoiceIDParam(c)
	if !ok {
		return
	}

	inv, err := fn(c.Request.Context(), id)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": inv})
}

func invoiceIDParam(c *gin.Context) (string, bool) {
	id := strings.TrimSpace(c.Param("id"))
	if _, err := snowflake.ParseString(id); err != nil {
		AbortWithError(c, newValidationError("id", "invalid_id", "invalid id"))
		return "", false
	}
	return id, true
}

func toItemInputs(items []invoiceItemRequest) []invoicedomain.ItemInput {
	out := make([]invoicedomain.ItemInput, 0, len(items))
	for _, item := range items {
		out = append(out, invoicedomain.ItemInput{
			Description: strings.TrimSpace(item.Description),
			Quantity:    item.Quantity,
			UnitAmount:  item.UnitAmount,
			TaxRate:     item.TaxRate,
		})
	}
	return out
}
