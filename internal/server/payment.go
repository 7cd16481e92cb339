package server

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	invoicedomain "github.com/flashbill/flashbill/internal/invoice/domain"
	"github.com/flashbill/flashbill/internal/orgcontext"
	paymentdomain "github.com/flashbill/flashbill/internal/payment/domain"
)

type recordPaymentRequest struct {
	Amount int64   `json:"amount"`
	Method string  `json:"method"`
	Note   *string `json:"note,omitempty"`
}

type refundPaymentRequest struct {
	Amount int64   `json:"amount"`
	Note   *string `json:"note,omitempty"`
}

func (s *Server) RecordPayment(c *gin.Context) {
	id, ok := invoiceIDParam(c)
	if !ok {
		return
	}

	var req recordPaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	inv, err := s.withSettlementLock(c, id, func() (invoicedomain.Invoice, error) {
		return s.paymentSvc.RecordPayment(c.Request.Context(), paymentdomain.RecordPaymentRequest{
			InvoiceID: id,
			Amount:    req.Amount,
			Method:    strings.TrimSpace(req.Method),
			Note:      req.Note,
		})
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	if s.obsMetrics != nil {
		s.obsMetrics.RecordSettlement(c.Request.Context(), string(paymentdomain.KindPayment), strings.TrimSpace(req.Method), inv.Currency, req.Amount)
	}

	c.JSON(http.StatusOK, gin.H{"data": inv})
}

func (s *Server) RefundPayment(c *gin.Context) {
	id, ok := invoiceIDParam(c)
	if !ok {
		return
	}

	var req refundPaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	inv, err := s.withSettlementLock(c, id, func() (invoicedomain.Invoice, error) {
		return s.paymentSvc.RefundPayment(c.Request.Context(), paymentdomain.RefundPaymentRequest{
			InvoiceID: id,
			Amount:    req.Amount,
			Note:      req.Note,
		})
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	if s.obsMetrics != nil {
		s.obsMetrics.RecordSettlement(c.Request.Context(), string(paymentdomain.KindRefund), "", inv.Currency, req.Amount)
	}

	c.JSON(http.StatusOK, gin.H{"data": inv})
}

func (s *Server) ListInvoicePayments(c *gin.Context) {
	id, ok := invoiceIDParam(c)
	if !ok {
		return
	}

	payments, err := s.paymentSvc.ListByInvoice(c.Request.Context(), id)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": payments})
}

// withSettlementLock serializes settlements per invoice across instances.
// Contended calls fail fast instead of queueing on the row lock.
func (s *Server) withSettlementLock(c *gin.Context, invoiceID string, fn func() (invoicedomain.Invoice, error)) (invoicedomain.Invoice, error) {
	if !s.writeLimiter.Enabled() {
		return fn()
	}

	orgID, ok := orgcontext.OrgIDFromContext(c.Request.Context())
	if !ok {
		return fn()
	}

	token, locked, err := s.writeLimiter.TryLockSettlement(c.Request.Context(), orgID.String(), invoiceID)
	if err != nil {
		return fn()
	}
	if !locked {
		return invoicedomain.Invoice{}, ErrLockContended
	}
	defer func() {
		_ = s.writeLimiter.ReleaseSettlement(c.Request.Context(), orgID.String(), invoiceID, token)
	}()

	return fn()
}
