package service

import (
	"context"
	"strings"

	"github.com/bwmarrin/snowflake"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"

	auditdomain "github.com/flashbill/flashbill/internal/audit/domain"
	"github.com/flashbill/flashbill/internal/clock"
	invoicedomain "github.com/flashbill/flashbill/internal/invoice/domain"
	"github.com/flashbill/flashbill/internal/orgcontext"
	paymentdomain "github.com/flashbill/flashbill/internal/payment/domain"
	"github.com/flashbill/flashbill/internal/payment/ledger"
	"github.com/flashbill/flashbill/pkg/money"
)

type ServiceParam struct {
	fx.In

	DB       *gorm.DB
	Log      *zap.Logger
	GenID    *snowflake.Node
	Clock    clock.Clock
	AuditSvc auditdomain.Service
}

type Service struct {
	db    *gorm.DB
	log   *zap.Logger
	genID *snowflake.Node
	clock clock.Clock

	auditSvc auditdomain.Service
}

func NewService(p ServiceParam) paymentdomain.Service {
	return &Service{
		db:    p.DB,
		log:   p.Log.Named("payment.service"),
		genID: p.GenID,
		clock: p.Clock,

		auditSvc: p.AuditSvc,
	}
}

func (s *Service) RecordPayment(ctx context.Context, req paymentdomain.RecordPaymentRequest) (invoicedomain.Invoice, error) {
	method := strings.TrimSpace(req.Method)
	if method == "" {
		return invoicedomain.Invoice{}, paymentdomain.ErrInvalidMethod
	}

	return s.settle(ctx, req.InvoiceID, paymentdomain.KindPayment, req.Amount, method, req.Note)
}

func (s *Service) RefundPayment(ctx context.Context, req paymentdomain.RefundPaymentRequest) (invoicedomain.Invoice, error) {
	return s.settle(ctx, req.InvoiceID, paymentdomain.KindRefund, req.Amount, "refund", req.Note)
}

func (s *Service) ListByInvoice(ctx context.Context, invoiceID string) ([]paymentdomain.Payment, error) {
	orgID, err := s.orgIDFromContext(ctx)
	if err != nil {
		return nil, err
	}
	id, err := parseID(invoiceID)
	if err != nil {
		return nil, err
	}

	var payments []paymentdomain.Payment
	err = s.db.WithContext(ctx).Raw(
		`SELECT id, org_id, invoice_id, kind, amount, currency, method,
		        note, metadata, received_at, created_at
		 FROM payments
		 WHERE org_id = ? AND invoice_id = ?
		 ORDER BY received_at ASC, id ASC`,
		orgID,
		id,
	).Scan(&payments).Error
	if err != nil {
		return nil, err
	}
	return payments, nil
}

// settle applies one payment or refund to an invoice. The invoice row is
// locked for the duration so concurrent settlements serialize and the
// balance invariants hold.
func (s *Service) settle(ctx context.Context, invoiceID string, kind paymentdomain.Kind, amount int64, method string, note *string) (invoicedomain.Invoice, error) {
	orgID, err := s.orgIDFromContext(ctx)
	if err != nil {
		return invoicedomain.Invoice{}, err
	}
	id, err := parseID(invoiceID)
	if err != nil {
		return invoicedomain.Invoice{}, err
	}

	var (
		updated invoicedomain.Invoice
		entry   paymentdomain.Payment
	)
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		invoice, err := s.loadInvoiceForUpdate(ctx, tx, orgID, id)
		if err != nil {
			return err
		}
		if invoice == nil {
			return invoicedomain.ErrInvoiceNotFound
		}

		now := s.clock.Now()
		settleAmount := money.New(amount, invoice.Currency)

		var next invoicedomain.Invoice
		switch kind {
		case paymentdomain.KindRefund:
			next, err = ledger.ApplyRefund(*invoice, settleAmount, now)
		default:
			next, err = ledger.ApplyPayment(*invoice, settleAmount, now)
		}
		if err != nil {
			return err
		}

		entry = paymentdomain.Payment{
			ID:         s.genID.Generate(),
			OrgID:      orgID,
			InvoiceID:  invoice.ID,
			Kind:       kind,
			Amount:     amount,
			Currency:   invoice.Currency,
			Method:     method,
			Note:       note,
			ReceivedAt: now,
			CreatedAt:  now,
		}
		if err := s.insertPayment(ctx, tx, entry); err != nil {
			return err
		}

		next.UpdatedAt = now
		if err := s.updateInvoiceSettlement(ctx, tx, &next); err != nil {
			return err
		}
		updated = next
		return nil
	})
	if err != nil {
		return invoicedomain.Invoice{}, err
	}

	action := "payment.recorded"
	if kind == paymentdomain.KindRefund {
		action = "payment.refunded"
	}
	s.emitAudit(ctx, action, &updated, &entry)
	s.log.Info("settlement applied",
		zap.String("invoice_id", updated.ID.String()),
		zap.String("kind", string(kind)),
		zap.Int64("amount", amount),
		zap.String("status", string(updated.Status)),
	)
	return updated, nil
}

func (s *Service) emitAudit(ctx context.Context, action string, invoice *invoicedomain.Invoice, entry *paymentdomain.Payment) {
	if s.auditSvc == nil || invoice == nil || entry == nil {
		return
	}
	metadata := map[string]any{
		"payment_id":  entry.ID.String(),
		"kind":        string(entry.Kind),
		"amount":      entry.Amount,
		"currency":    entry.Currency,
		"method":      entry.Method,
		"status":      string(invoice.Status),
		"amount_paid": invoice.AmountPaid,
		"balance_due": invoice.TotalAmount - invoice.AmountPaid,
	}

	targetID := invoice.ID.String()
	orgID := invoice.OrgID
	_ = s.auditSvc.AuditLog(ctx, &orgID, "", nil, action, "invoice", &targetID, metadata)
}

func (s *Service) orgIDFromContext(ctx context.Context) (snowflake.ID, error) {
	orgID, ok := orgcontext.OrgIDFromContext(ctx)
	if !ok || orgID == 0 {
		return 0, invoicedomain.ErrInvalidOrganization
	}
	return orgID, nil
}

func (s *Service) insertPayment(ctx context.Context, tx *gorm.DB, entry paymentdomain.Payment) error {
	return tx.WithContext(ctx).Exec(
		`INSERT INTO payments (
			id, org_id, invoice_id, kind, amount, currency, method,
			note, received_at, created_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		entry.ID,
		entry.OrgID,
		entry.InvoiceID,
		entry.Kind,
		entry.Amount,
		entry.Currency,
		entry.Method,
		entry.Note,
		entry.ReceivedAt,
		entry.CreatedAt,
	).Error
}

// updateInvoiceSettlement writes back only the fields a settlement can
// change.
func (s *Service) updateInvoiceSettlement(ctx context.Context, tx *gorm.DB, invoice *invoicedomain.Invoice) error {
	return tx.WithContext(ctx).Exec(
		`UPDATE invoices
		 SET status = ?, amount_paid = ?, partial_payment_count = ?, paid_at = ?, updated_at = ?
		 WHERE org_id = ? AND id = ?`,
		invoice.Status,
		invoice.AmountPaid,
		invoice.PartialPaymentCount,
		invoice.PaidAt,
		invoice.UpdatedAt,
		invoice.OrgID,
		invoice.ID,
	).Error
}

func (s *Service) loadInvoiceForUpdate(ctx context.Context, tx *gorm.DB, orgID, id snowflake.ID) (*invoicedomain.Invoice, error) {
	var invoice invoicedomain.Invoice
	err := tx.WithContext(ctx).Raw(
		`SELECT id, org_id, client_id, invoice_number, status, currency,
		        issue_date, due_date,
		        subtotal_amount, tax_amount, discount_amount, total_amount, amount_paid,
		        tax_inclusive, allow_partial_payment, min_payment_amount, partial_payment_count,
		        notes, terms, sent_at, viewed_at, paid_at, cancelled_at, created_at, updated_at
		 FROM invoices
		 WHERE org_id = ? AND id = ?`+rowLock(tx),
		orgID,
		id,
	).Scan(&invoice).Error
	if err != nil {
		return nil, err
	}
	if invoice.ID == 0 {
		return nil, nil
	}
	return &invoice, nil
}

// rowLock returns the locking suffix for the dialect. sqlite has no row
// locks; its transactions serialize writers already.
func rowLock(tx *gorm.DB) string {
	if tx.Dialector.Name() == "sqlite" {
		return ""
	}
	return " FOR UPDATE"
}

func parseID(raw string) (snowflake.ID, error) {
	id, err := snowflake.ParseString(strings.TrimSpace(raw))
	if err != nil || id == 0 {
		return 0, invoicedomain.ErrInvalidInvoiceID
	}
	return id, nil
}
