package service

import (
	"context"
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/shopspring/decimal"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"

	auditdomain "github.com/flashbill/flashbill/internal/audit/domain"
	"github.com/flashbill/flashbill/internal/clock"
	"github.com/flashbill/flashbill/internal/invoice/calc"
	invoicedomain "github.com/flashbill/flashbill/internal/invoice/domain"
	"github.com/flashbill/flashbill/internal/orgcontext"
	taxdomain "github.com/flashbill/flashbill/internal/tax/domain"
	"github.com/flashbill/flashbill/pkg/db"
	"github.com/flashbill/flashbill/pkg/db/option"
	"github.com/flashbill/flashbill/pkg/money"
	"github.com/flashbill/flashbill/pkg/repository"
)

// createRetries bounds the invoice number race window. Two concurrent
// creates for one org can pick the same number; the unique index rejects
// the loser, which retries with a fresh number.
const createRetries = 3

type ServiceParam struct {
	fx.In

	DB       *gorm.DB
	Log      *zap.Logger
	GenID    *snowflake.Node
	Clock    clock.Clock
	AuditSvc auditdomain.Service
	TaxRates taxdomain.Resolver
}

type Service struct {
	db    *gorm.DB
	log   *zap.Logger
	genID *snowflake.Node
	clock clock.Clock

	invoicerepo repository.Repository[invoicedomain.Invoice]
	auditSvc    auditdomain.Service
	taxRates    taxdomain.Resolver
}

func NewService(p ServiceParam) invoicedomain.Service {
	return &Service{
		db:    p.DB,
		log:   p.Log.Named("invoice.service"),
		genID: p.GenID,
		clock: p.Clock,

		invoicerepo: repository.ProvideStore[invoicedomain.Invoice](p.DB),
		auditSvc:    p.AuditSvc,
		taxRates:    p.TaxRates,
	}
}

func (s *Service) Create(ctx context.Context, req invoicedomain.CreateInvoiceRequest) (invoicedomain.Invoice, error) {
	orgID, err := s.orgIDFromContext(ctx)
	if err != nil {
		return invoicedomain.Invoice{}, err
	}

	clientID, err := snowflake.ParseString(strings.TrimSpace(req.ClientID))
	if err != nil || clientID == 0 {
		return invoicedomain.Invoice{}, invoicedomain.ErrInvalidClient
	}

	currency, err := normalizeCurrency(req.Currency)
	if err != nil {
		return invoicedomain.Invoice{}, err
	}

	now := s.clock.Now()
	issueDate := req.IssueDate
	if issueDate.IsZero() {
		issueDate = now
	}
	if req.DueDate.IsZero() || req.DueDate.Before(issueDate) {
		return invoicedomain.Invoice{}, invoicedomain.ErrInvalidDueDate
	}

	lines, err := s.buildLines(ctx, currency, req.Items)
	if err != nil {
		return invoicedomain.Invoice{}, err
	}

	totals, lineResults, err := calc.Compute(currency, lines, money.New(req.DiscountAmount, currency), req.TaxInclusive)
	if err != nil {
		return invoicedomain.Invoice{}, err
	}

	allowPartial := true
	if req.AllowPartialPayment != nil {
		allowPartial = *req.AllowPartialPayment
	}
	if req.MinPaymentAmount != nil && *req.MinPaymentAmount <= 0 {
		return invoicedomain.Invoice{}, invoicedomain.ErrInvalidMinPayment
	}

	invoice := invoicedomain.Invoice{
		ID:       s.genID.Generate(),
		OrgID:    orgID,
		ClientID: clientID,

		Status:   invoicedomain.StatusDraft,
		Currency: currency,

		IssueDate: issueDate,
		DueDate:   req.DueDate,

		SubtotalAmount: totals.Subtotal.Amount,
		TaxAmount:      totals.TaxAmount.Amount,
		DiscountAmount: totals.DiscountAmount.Amount,
		TotalAmount:    totals.TotalAmount.Amount,
		TaxInclusive:   req.TaxInclusive,

		AllowPartialPayment: allowPartial,
		MinPaymentAmount:    req.MinPaymentAmount,

		Notes: trimPtr(req.Notes),
		Terms: trimPtr(req.Terms),

		CreatedAt: now,
		UpdatedAt: now,
	}

	var lastErr error
	for attempt := 0; attempt < createRetries; attempt++ {
		lastErr = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
			number, err := s.nextInvoiceNumber(ctx, tx, orgID)
			if err != nil {
				return err
			}
			invoice.InvoiceNumber = number

			if err := s.insertInvoice(ctx, tx, invoice); err != nil {
				return err
			}
			invoice.Items = invoice.Items[:0]
			for pos, line := range lineResults {
				item := invoicedomain.InvoiceItem{
					ID:          s.genID.Generate(),
					OrgID:       orgID,
					InvoiceID:   invoice.ID,
					Description: line.Description,
					Quantity:    line.Quantity,
					UnitAmount:  line.UnitAmount.Amount,
					TaxRate:     line.TaxRate,
					Amount:      line.Amount.Amount,
					TaxAmount:   line.TaxAmount.Amount,
					Position:    pos,
					CreatedAt:   now,
				}
				if err := s.insertInvoiceItem(ctx, tx, item); err != nil {
					return err
				}
				invoice.Items = append(invoice.Items, item)
			}
			return nil
		})
		if lastErr == nil || !db.IsDuplicateKeyErr(lastErr) {
			break
		}
	}
	if lastErr != nil {
		return invoicedomain.Invoice{}, lastErr
	}

	s.emitAudit(ctx, "invoice.created", &invoice, nil)
	s.log.Info("invoice created",
		zap.String("invoice_id", invoice.ID.String()),
		zap.Int64("invoice_number", invoice.InvoiceNumber),
		zap.Int64("total_amount", invoice.TotalAmount),
	)
	return invoice, nil
}

func (s *Service) Update(ctx context.Context, id string, req invoicedomain.UpdateInvoiceRequest) (invoicedomain.Invoice, error) {
	orgID, err := s.orgIDFromContext(ctx)
	if err != nil {
		return invoicedomain.Invoice{}, err
	}
	invoiceID, err := parseID(id)
	if err != nil {
		return invoicedomain.Invoice{}, invoicedomain.ErrInvalidInvoiceID
	}

	var updated invoicedomain.Invoice
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		invoice, err := s.loadInvoiceForUpdate(ctx, tx, orgID, invoiceID)
		if err != nil {
			return err
		}
		if invoice == nil {
			return invoicedomain.ErrInvoiceNotFound
		}
		if invoice.Status.Terminal() {
			return invoicedomain.ErrInvoiceLocked
		}

		now := s.clock.Now()
		financial := len(req.Items) > 0 || req.DiscountAmount != nil || req.TaxInclusive != nil
		if financial && !invoice.CanEditItems() {
			return invoicedomain.ErrInvoiceLocked
		}

		if req.DueDate != nil {
			if req.DueDate.Before(invoice.IssueDate) {
				return invoicedomain.ErrInvalidDueDate
			}
			invoice.DueDate = *req.DueDate
		}
		if req.AllowPartialPayment != nil {
			invoice.AllowPartialPayment = *req.AllowPartialPayment
		}
		if req.MinPaymentAmount != nil {
			if *req.MinPaymentAmount <= 0 {
				return invoicedomain.ErrInvalidMinPayment
			}
			invoice.MinPaymentAmount = req.MinPaymentAmount
		}
		if req.Notes != nil {
			invoice.Notes = trimPtr(req.Notes)
		}
		if req.Terms != nil {
			invoice.Terms = trimPtr(req.Terms)
		}

		if financial {
			if req.TaxInclusive != nil {
				invoice.TaxInclusive = *req.TaxInclusive
			}
			discount := invoice.DiscountAmount
			if req.DiscountAmount != nil {
				discount = *req.DiscountAmount
			}

			var lines []calc.Line
			if len(req.Items) > 0 {
				lines, err = s.buildLines(ctx, invoice.Currency, req.Items)
				if err != nil {
					return err
				}
			} else {
				existing, err := s.listItems(ctx, tx, orgID, invoice.ID)
				if err != nil {
					return err
				}
				lines = itemsToLines(invoice.Currency, existing)
			}

			totals, lineResults, err := calc.Compute(invoice.Currency, lines, money.New(discount, invoice.Currency), invoice.TaxInclusive)
			if err != nil {
				return err
			}

			invoice.SubtotalAmount = totals.Subtotal.Amount
			invoice.TaxAmount = totals.TaxAmount.Amount
			invoice.DiscountAmount = totals.DiscountAmount.Amount
			invoice.TotalAmount = totals.TotalAmount.Amount

			if err := s.deleteInvoiceItems(ctx, tx, orgID, invoice.ID); err != nil {
				return err
			}
			invoice.Items = invoice.Items[:0]
			for pos, line := range lineResults {
				item := invoicedomain.InvoiceItem{
					ID:          s.genID.Generate(),
					OrgID:       orgID,
					InvoiceID:   invoice.ID,
					Description: line.Description,
					Quantity:    line.Quantity,
					UnitAmount:  line.UnitAmount.Amount,
					TaxRate:     line.TaxRate,
					Amount:      line.Amount.Amount,
					TaxAmount:   line.TaxAmount.Amount,
					Position:    pos,
					CreatedAt:   now,
				}
				if err := s.insertInvoiceItem(ctx, tx, item); err != nil {
					return err
				}
				invoice.Items = append(invoice.Items, item)
			}
		}

		invoice.RecomputeStatus(now)
		invoice.UpdatedAt = now
		if err := s.updateInvoice(ctx, tx, invoice); err != nil {
			return err
		}
		updated = *invoice
		return nil
	})
	if err != nil {
		return invoicedomain.Invoice{}, err
	}

	s.emitAudit(ctx, "invoice.updated", &updated, nil)
	return updated, nil
}

func (s *Service) GetByID(ctx context.Context, id string) (invoicedomain.Invoice, error) {
	orgID, err := s.orgIDFromContext(ctx)
	if err != nil {
		return invoicedomain.Invoice{}, err
	}
	invoiceID, err := parseID(id)
	if err != nil {
		return invoicedomain.Invoice{}, invoicedomain.ErrInvalidInvoiceID
	}

	item, err := s.invoicerepo.FindOne(ctx, &invoicedomain.Invoice{ID: invoiceID, OrgID: orgID})
	if err != nil {
		return invoicedomain.Invoice{}, err
	}
	if item == nil {
		return invoicedomain.Invoice{}, invoicedomain.ErrInvoiceNotFound
	}

	items, err := s.listItems(ctx, s.db, orgID, item.ID)
	if err != nil {
		return invoicedomain.Invoice{}, err
	}
	item.Items = items
	item.DecorateForDisplay(s.clock.Now())
	return *item, nil
}

func (s *Service) List(ctx context.Context, req invoicedomain.ListInvoiceRequest) (invoicedomain.ListInvoiceResponse, error) {
	orgID, err := s.orgIDFromContext(ctx)
	if err != nil {
		return invoicedomain.ListInvoiceResponse{}, err
	}

	filter := &invoicedomain.Invoice{OrgID: orgID}
	if req.Status != nil {
		filter.Status = *req.Status
	}
	if req.ClientID != nil {
		clientID, err := snowflake.ParseString(strings.TrimSpace(*req.ClientID))
		if err != nil {
			return invoicedomain.ListInvoiceResponse{}, invoicedomain.ErrInvalidClient
		}
		filter.ClientID = clientID
	}

	options := []option.QueryOption{
		option.WithSortBy(option.QuerySortBy{Allow: map[string]bool{"created_at": true, "due_date": true}}),
	}
	if req.CreatedFrom != nil {
		options = append(options, option.ApplyOperator(option.Condition{
			Field:    "created_at",
			Operator: option.GTE,
			Value:    *req.CreatedFrom,
		}))
	}
	if req.CreatedTo != nil {
		options = append(options, option.ApplyOperator(option.Condition{
			Field:    "created_at",
			Operator: option.LTE,
			Value:    *req.CreatedTo,
		}))
	}
	if req.DueFrom != nil {
		options = append(options, option.ApplyOperator(option.Condition{
			Field:    "due_date",
			Operator: option.GTE,
			Value:    *req.DueFrom,
		}))
	}
	if req.DueTo != nil {
		options = append(options, option.ApplyOperator(option.Condition{
			Field:    "due_date",
			Operator: option.LTE,
			Value:    *req.DueTo,
		}))
	}

	items, err := s.invoicerepo.Find(ctx, filter, options...)
	if err != nil {
		return invoicedomain.ListInvoiceResponse{}, err
	}

	now := s.clock.Now()
	invoices := make([]invoicedomain.Invoice, 0, len(items))
	for _, item := range items {
		if item == nil {
			continue
		}
		item.DecorateForDisplay(now)
		invoices = append(invoices, *item)
	}
	return invoicedomain.ListInvoiceResponse{Invoices: invoices}, nil
}

func (s *Service) Preview(ctx context.Context, req invoicedomain.PreviewRequest) (calc.Totals, error) {
	if _, err := s.orgIDFromContext(ctx); err != nil {
		return calc.Totals{}, err
	}

	currency, err := normalizeCurrency(req.Currency)
	if err != nil {
		return calc.Totals{}, err
	}

	lines, err := s.buildLines(ctx, currency, req.Items)
	if err != nil {
		return calc.Totals{}, err
	}

	totals, _, err := calc.Compute(currency, lines, money.New(req.DiscountAmount, currency), req.TaxInclusive)
	return totals, err
}

func (s *Service) MarkSent(ctx context.Context, id string) (invoicedomain.Invoice, error) {
	return s.transition(ctx, id, "invoice.sent", func(invoice *invoicedomain.Invoice, now time.Time) error {
		switch invoice.Status {
		case invoicedomain.StatusCancelled:
			return invoicedomain.ErrAlreadyCancelled
		case invoicedomain.StatusPaid:
			return invoicedomain.ErrInvoiceLocked
		}
		if invoice.SentAt == nil {
			invoice.SentAt = &now
		}
		return nil
	})
}

func (s *Service) MarkViewed(ctx context.Context, id string) (invoicedomain.Invoice, error) {
	return s.transition(ctx, id, "invoice.viewed", func(invoice *invoicedomain.Invoice, now time.Time) error {
		if invoice.Status == invoicedomain.StatusCancelled {
			return invoicedomain.ErrAlreadyCancelled
		}
		if invoice.SentAt == nil {
			return invoicedomain.ErrNotSent
		}
		if invoice.ViewedAt == nil {
			invoice.ViewedAt = &now
		}
		return nil
	})
}

func (s *Service) Cancel(ctx context.Context, id string) (invoicedomain.Invoice, error) {
	return s.transition(ctx, id, "invoice.cancelled", func(invoice *invoicedomain.Invoice, now time.Time) error {
		switch invoice.Status {
		case invoicedomain.StatusCancelled:
			return invoicedomain.ErrAlreadyCancelled
		case invoicedomain.StatusPaid:
			return invoicedomain.ErrCannotCancelPaid
		}
		invoice.CancelledAt = &now
		return nil
	})
}

// transition applies a lifecycle mutation under a row lock and emits an
// audit entry after commit.
func (s *Service) transition(ctx context.Context, id, action string, mutate func(*invoicedomain.Invoice, time.Time) error) (invoicedomain.Invoice, error) {
	orgID, err := s.orgIDFromContext(ctx)
	if err != nil {
		return invoicedomain.Invoice{}, err
	}
	invoiceID, err := parseID(id)
	if err != nil {
		return invoicedomain.Invoice{}, invoicedomain.ErrInvalidInvoiceID
	}

	var updated invoicedomain.Invoice
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		invoice, err := s.loadInvoiceForUpdate(ctx, tx, orgID, invoiceID)
		if err != nil {
			return err
		}
		if invoice == nil {
			return invoicedomain.ErrInvoiceNotFound
		}

		now := s.clock.Now()
		if err := mutate(invoice, now); err != nil {
			return err
		}
		invoice.RecomputeStatus(now)
		invoice.UpdatedAt = now
		if err := s.updateInvoice(ctx, tx, invoice); err != nil {
			return err
		}
		updated = *invoice
		return nil
	})
	if err != nil {
		return invoicedomain.Invoice{}, err
	}

	s.emitAudit(ctx, action, &updated, nil)
	return updated, nil
}

// buildLines resolves omitted tax rates against the org default before
// handing the lines to the calculator.
func (s *Service) buildLines(ctx context.Context, currency string, items []invoicedomain.ItemInput) ([]calc.Line, error) {
	var defaultRate *decimal.Decimal
	lines := make([]calc.Line, 0, len(items))
	for _, item := range items {
		rate := item.TaxRate
		if rate == nil {
			if defaultRate == nil {
				resolved, err := s.taxRates.DefaultRate(ctx)
				if err != nil {
					return nil, err
				}
				defaultRate = &resolved
			}
			rate = defaultRate
		}
		lines = append(lines, calc.Line{
			Description: strings.TrimSpace(item.Description),
			Quantity:    item.Quantity,
			UnitAmount:  money.New(item.UnitAmount, currency),
			TaxRate:     *rate,
		})
	}
	return lines, nil
}

func itemsToLines(currency string, items []invoicedomain.InvoiceItem) []calc.Line {
	lines := make([]calc.Line, 0, len(items))
	for _, item := range items {
		lines = append(lines, calc.Line{
			Description: item.Description,
			Quantity:    item.Quantity,
			UnitAmount:  money.New(item.UnitAmount, currency),
			TaxRate:     item.TaxRate,
		})
	}
	return lines
}

func (s *Service) emitAudit(ctx context.Context, action string, invoice *invoicedomain.Invoice, extra map[string]any) {
	if s.auditSvc == nil || invoice == nil {
		return
	}
	metadata := map[string]any{
		"client_id":      invoice.ClientID.String(),
		"invoice_number": invoice.InvoiceNumber,
		"status":         string(invoice.Status),
		"currency":       invoice.Currency,
		"total_amount":   invoice.TotalAmount,
		"amount_paid":    invoice.AmountPaid,
	}
	for key, value := range extra {
		if key == "" {
			continue
		}
		metadata[key] = value
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

func (s *Service) nextInvoiceNumber(ctx context.Context, tx *gorm.DB, orgID snowflake.ID) (int64, error) {
	var next int64
	err := tx.WithContext(ctx).Raw(
		`SELECT COALESCE(MAX(invoice_number), 0) + 1
		 FROM invoices
		 WHERE org_id = ?`,
		orgID,
	).Scan(&next).Error
	if err != nil {
		return 0, err
	}
	return next, nil
}

func (s *Service) insertInvoice(ctx context.Context, tx *gorm.DB, invoice invoicedomain.Invoice) error {
	return tx.WithContext(ctx).Exec(
		`INSERT INTO invoices (
			id, org_id, client_id, invoice_number, status, currency,
			issue_date, due_date,
			subtotal_amount, tax_amount, discount_amount, total_amount, amount_paid,
			tax_inclusive, allow_partial_payment, min_payment_amount, partial_payment_count,
			notes, terms, created_at, updated_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		invoice.ID,
		invoice.OrgID,
		invoice.ClientID,
		invoice.InvoiceNumber,
		invoice.Status,
		invoice.Currency,
		invoice.IssueDate,
		invoice.DueDate,
		invoice.SubtotalAmount,
		invoice.TaxAmount,
		invoice.DiscountAmount,
		invoice.TotalAmount,
		invoice.AmountPaid,
		invoice.TaxInclusive,
		invoice.AllowPartialPayment,
		invoice.MinPaymentAmount,
		invoice.PartialPaymentCount,
		invoice.Notes,
		invoice.Terms,
		invoice.CreatedAt,
		invoice.UpdatedAt,
	).Error
}

func (s *Service) updateInvoice(ctx context.Context, tx *gorm.DB, invoice *invoicedomain.Invoice) error {
	return tx.WithContext(ctx).Exec(
		`UPDATE invoices
		 SET status = ?, due_date = ?,
		     subtotal_amount = ?, tax_amount = ?, discount_amount = ?, total_amount = ?, amount_paid = ?,
		     tax_inclusive = ?, allow_partial_payment = ?, min_payment_amount = ?, partial_payment_count = ?,
		     notes = ?, terms = ?,
		     sent_at = ?, viewed_at = ?, paid_at = ?, cancelled_at = ?, updated_at = ?
		 WHERE org_id = ? AND id = ?`,
		invoice.Status,
		invoice.DueDate,
		invoice.SubtotalAmount,
		invoice.TaxAmount,
		invoice.DiscountAmount,
		invoice.TotalAmount,
		invoice.AmountPaid,
		invoice.TaxInclusive,
		invoice.AllowPartialPayment,
		invoice.MinPaymentAmount,
		invoice.PartialPaymentCount,
		invoice.Notes,
		invoice.Terms,
		invoice.SentAt,
		invoice.ViewedAt,
		invoice.PaidAt,
		invoice.CancelledAt,
		invoice.UpdatedAt,
		invoice.OrgID,
		invoice.ID,
	).Error
}

func (s *Service) insertInvoiceItem(ctx context.Context, tx *gorm.DB, item invoicedomain.InvoiceItem) error {
	return tx.WithContext(ctx).Exec(
		`INSERT INTO invoice_items (
			id, org_id, invoice_id, description, quantity, unit_amount,
			tax_rate, amount, tax_amount, position, created_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		item.ID,
		item.OrgID,
		item.InvoiceID,
		item.Description,
		item.Quantity,
		item.UnitAmount,
		item.TaxRate,
		item.Amount,
		item.TaxAmount,
		item.Position,
		item.CreatedAt,
	).Error
}

func (s *Service) deleteInvoiceItems(ctx context.Context, tx *gorm.DB, orgID, invoiceID snowflake.ID) error {
	return tx.WithContext(ctx).Exec(
		`DELETE FROM invoice_items WHERE org_id = ? AND invoice_id = ?`,
		orgID,
		invoiceID,
	).Error
}

func (s *Service) listItems(ctx context.Context, tx *gorm.DB, orgID, invoiceID snowflake.ID) ([]invoicedomain.InvoiceItem, error) {
	var items []invoicedomain.InvoiceItem
	err := tx.WithContext(ctx).Raw(
		`SELECT id, org_id, invoice_id, description, quantity, unit_amount,
		        tax_rate, amount, tax_amount, position, created_at
		 FROM invoice_items
		 WHERE org_id = ? AND invoice_id = ?
		 ORDER BY position ASC`,
		orgID,
		invoiceID,
	).Scan(&items).Error
	if err != nil {
		return nil, err
	}
	return items, nil
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

func normalizeCurrency(raw string) (string, error) {
	currency := strings.ToUpper(strings.TrimSpace(raw))
	if len(currency) != 3 {
		return "", invoicedomain.ErrInvalidCurrency
	}
	for _, r := range currency {
		if r < 'A' || r > 'Z' {
			return "", invoicedomain.ErrInvalidCurrency
		}
	}
	return currency, nil
}

func trimPtr(raw *string) *string {
	if raw == nil {
		return nil
	}
	trimmed := strings.TrimSpace(*raw)
	if trimmed == "" {
		return nil
	}
	return &trimmed
}

func parseID(raw string) (snowflake.ID, error) {
	id, err := snowflake.ParseString(strings.TrimSpace(raw))
	if err != nil || id == 0 {
		return 0, invoicedomain.ErrInvalidInvoiceID
	}
	return id, nil
}
