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

	auditdomain "github.com/flashbill/flashbill/internal/audit/domain"
	auditrepository "github.com/flashbill/flashbill/internal/audit/repository"
	auditservice "github.com/flashbill/flashbill/internal/audit/service"
	"github.com/flashbill/flashbill/internal/clock"
	invoicedomain "github.com/flashbill/flashbill/internal/invoice/domain"
	invoiceservice "github.com/flashbill/flashbill/internal/invoice/service"
	"github.com/flashbill/flashbill/internal/orgcontext"
	paymentdomain "github.com/flashbill/flashbill/internal/payment/domain"
	"github.com/flashbill/flashbill/internal/payment/ledger"
	"github.com/flashbill/flashbill/pkg/money"
)

type fixedResolver struct{}

func (fixedResolver) DefaultRate(ctx context.Context) (decimal.Decimal, error) {
	return decimal.Zero, nil
}

type fixture struct {
	payments paymentdomain.Service
	invoices invoicedomain.Service
	db       *gorm.DB
	clock    *clock.FakeClock
	ctx      context.Context
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(
		&invoicedomain.Invoice{},
		&invoicedomain.InvoiceItem{},
		&paymentdomain.Payment{},
		&auditdomain.AuditLog{},
	))

	node, err := snowflake.NewNode(1)
	require.NoError(t, err)
	fake := clock.NewFakeClock(time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC))

	auditSvc := auditservice.NewService(auditservice.Params{
		DB:    db,
		Log:   zap.NewNop(),
		GenID: node,
		Clock: fake,
		Repo:  auditrepository.Provide(),
	})

	invoices := invoiceservice.NewService(invoiceservice.ServiceParam{
		DB:       db,
		Log:      zap.NewNop(),
		GenID:    node,
		Clock:    fake,
		AuditSvc: auditSvc,
		TaxRates: fixedResolver{},
	})

	payments := NewService(ServiceParam{
		DB:       db,
		Log:      zap.NewNop(),
		GenID:    node,
		Clock:    fake,
		AuditSvc: auditSvc,
	})

	orgID := node.Generate()
	return &fixture{
		payments: payments,
		invoices: invoices,
		db:       db,
		clock:    fake,
		ctx:      orgcontext.WithOrgID(context.Background(), orgID),
	}
}

// newInvoice creates and sends an invoice totalling 3018.75 USD.
func (f *fixture) newInvoice(t *testing.T, mutate func(*invoicedomain.CreateInvoiceRequest)) invoicedomain.Invoice {
	t.Helper()

	req := invoicedomain.CreateInvoiceRequest{
		ClientID:  "1234567890123456789",
		Currency:  "USD",
		IssueDate: time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC),
		DueDate:   time.Date(2025, 3, 31, 0, 0, 0, 0, time.UTC),
		Items: []invoicedomain.ItemInput{
			{
				Description: "Consulting",
				Quantity:    decimal.NewFromInt(25),
				UnitAmount:  11500,
				TaxRate:     taxRate("5"),
			},
		},
	}
	if mutate != nil {
		mutate(&req)
	}

	inv, err := f.invoices.Create(f.ctx, req)
	require.NoError(t, err)
	sent, err := f.invoices.MarkSent(f.ctx, inv.ID.String())
	require.NoError(t, err)
	return sent
}

func taxRate(s string) *decimal.Decimal {
	d := decimal.RequireFromString(s)
	return &d
}

func TestRecordPayment_ExactSettlement(t *testing.T) {
	f := newFixture(t)
	inv := f.newInvoice(t, nil)
	require.Equal(t, int64(301875), inv.TotalAmount)

	updated, err := f.payments.RecordPayment(f.ctx, paymentdomain.RecordPaymentRequest{
		InvoiceID: inv.ID.String(),
		Amount:    301875,
		Method:    paymentdomain.MethodBankTransfer,
	})
	require.NoError(t, err)

	assert.Equal(t, invoicedomain.StatusPaid, updated.Status)
	assert.Equal(t, int64(301875), updated.AmountPaid)
	require.NotNil(t, updated.PaidAt)
	assert.Equal(t, int32(0), updated.PartialPaymentCount)

	// Writeback is visible outside the transaction.
	var stored invoicedomain.Invoice
	require.NoError(t, f.db.First(&stored, "id = ?", inv.ID).Error)
	assert.Equal(t, invoicedomain.StatusPaid, stored.Status)
	assert.Equal(t, int64(301875), stored.AmountPaid)
}

func TestRecordPayment_PartialThenSettle(t *testing.T) {
	f := newFixture(t)
	inv := f.newInvoice(t, nil)

	first, err := f.payments.RecordPayment(f.ctx, paymentdomain.RecordPaymentRequest{
		InvoiceID: inv.ID.String(),
		Amount:    150000,
		Method:    paymentdomain.MethodStripe,
	})
	require.NoError(t, err)
	assert.Equal(t, invoicedomain.StatusPartial, first.Status)
	assert.Equal(t, int32(1), first.PartialPaymentCount)

	second, err := f.payments.RecordPayment(f.ctx, paymentdomain.RecordPaymentRequest{
		InvoiceID: inv.ID.String(),
		Amount:    151875,
		Method:    paymentdomain.MethodStripe,
	})
	require.NoError(t, err)
	assert.Equal(t, invoicedomain.StatusPaid, second.Status)
	assert.Equal(t, int64(301875), second.AmountPaid)
	assert.Equal(t, int32(1), second.PartialPaymentCount)

	entries, err := f.payments.ListByInvoice(f.ctx, inv.ID.String())
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, paymentdomain.KindPayment, entries[0].Kind)
	assert.Equal(t, int64(150000), entries[0].Amount)
}

func TestRecordPayment_BusinessRules(t *testing.T) {
	f := newFixture(t)

	t.Run("partial disabled", func(t *testing.T) {
		allow := false
		inv := f.newInvoice(t, func(req *invoicedomain.CreateInvoiceRequest) {
			req.AllowPartialPayment = &allow
		})

		_, err := f.payments.RecordPayment(f.ctx, paymentdomain.RecordPaymentRequest{
			InvoiceID: inv.ID.String(),
			Amount:    1000,
			Method:    paymentdomain.MethodCash,
		})
		assert.ErrorIs(t, err, ledger.ErrPartialPaymentDisabled)

		updated, err := f.payments.RecordPayment(f.ctx, paymentdomain.RecordPaymentRequest{
			InvoiceID: inv.ID.String(),
			Amount:    inv.TotalAmount,
			Method:    paymentdomain.MethodCash,
		})
		require.NoError(t, err)
		assert.Equal(t, invoicedomain.StatusPaid, updated.Status)
	})

	t.Run("below minimum", func(t *testing.T) {
		min := int64(50000)
		inv := f.newInvoice(t, func(req *invoicedomain.CreateInvoiceRequest) {
			req.MinPaymentAmount = &min
		})

		_, err := f.payments.RecordPayment(f.ctx, paymentdomain.RecordPaymentRequest{
			InvoiceID: inv.ID.String(),
			Amount:    1000,
			Method:    paymentdomain.MethodCheck,
		})
		assert.ErrorIs(t, err, ledger.ErrBelowMinimum)
	})

	t.Run("exceeds balance", func(t *testing.T) {
		inv := f.newInvoice(t, nil)
		_, err := f.payments.RecordPayment(f.ctx, paymentdomain.RecordPaymentRequest{
			InvoiceID: inv.ID.String(),
			Amount:    inv.TotalAmount + 1,
			Method:    paymentdomain.MethodCash,
		})
		assert.ErrorIs(t, err, ledger.ErrExceedsBalance)
	})

	t.Run("non positive", func(t *testing.T) {
		inv := f.newInvoice(t, nil)
		_, err := f.payments.RecordPayment(f.ctx, paymentdomain.RecordPaymentRequest{
			InvoiceID: inv.ID.String(),
			Amount:    0,
			Method:    paymentdomain.MethodCash,
		})
		assert.ErrorIs(t, err, ledger.ErrNonPositiveAmount)
	})

	t.Run("missing method", func(t *testing.T) {
		inv := f.newInvoice(t, nil)
		_, err := f.payments.RecordPayment(f.ctx, paymentdomain.RecordPaymentRequest{
			InvoiceID: inv.ID.String(),
			Amount:    1000,
		})
		assert.ErrorIs(t, err, paymentdomain.ErrInvalidMethod)
	})

	t.Run("cancelled invoice", func(t *testing.T) {
		inv := f.newInvoice(t, nil)
		_, err := f.invoices.Cancel(f.ctx, inv.ID.String())
		require.NoError(t, err)

		_, err = f.payments.RecordPayment(f.ctx, paymentdomain.RecordPaymentRequest{
			InvoiceID: inv.ID.String(),
			Amount:    1000,
			Method:    paymentdomain.MethodCash,
		})
		assert.ErrorIs(t, err, ledger.ErrInvoiceCancelled)
	})
}

func TestRefund_RevertsStatus(t *testing.T) {
	f := newFixture(t)
	inv := f.newInvoice(t, nil)

	paid, err := f.payments.RecordPayment(f.ctx, paymentdomain.RecordPaymentRequest{
		InvoiceID: inv.ID.String(),
		Amount:    inv.TotalAmount,
		Method:    paymentdomain.MethodStripe,
	})
	require.NoError(t, err)
	require.Equal(t, invoicedomain.StatusPaid, paid.Status)

	partial, err := f.payments.RefundPayment(f.ctx, paymentdomain.RefundPaymentRequest{
		InvoiceID: inv.ID.String(),
		Amount:    100000,
	})
	require.NoError(t, err)
	assert.Equal(t, invoicedomain.StatusPartial, partial.Status)
	assert.Nil(t, partial.PaidAt)
	assert.Equal(t, inv.TotalAmount-100000, partial.AmountPaid)

	// Refunding more than remains paid is rejected.
	_, err = f.payments.RefundPayment(f.ctx, paymentdomain.RefundPaymentRequest{
		InvoiceID: inv.ID.String(),
		Amount:    inv.TotalAmount,
	})
	assert.ErrorIs(t, err, ledger.ErrExceedsPaid)

	// A full refund returns the invoice to its delivery status.
	rest, err := f.payments.RefundPayment(f.ctx, paymentdomain.RefundPaymentRequest{
		InvoiceID: inv.ID.String(),
		Amount:    partial.AmountPaid,
	})
	require.NoError(t, err)
	assert.Equal(t, invoicedomain.StatusSent, rest.Status)
	assert.Equal(t, int64(0), rest.AmountPaid)

	entries, err := f.payments.ListByInvoice(f.ctx, inv.ID.String())
	require.NoError(t, err)
	require.Len(t, entries, 3)
	assert.Equal(t, paymentdomain.KindRefund, entries[1].Kind)
	assert.Equal(t, paymentdomain.KindRefund, entries[2].Kind)
}

func TestSettlement_BalanceNeverNegative(t *testing.T) {
	f := newFixture(t)
	inv := f.newInvoice(t, nil)

	amounts := []int64{100000, 50000, 151875}
	for _, amount := range amounts {
		updated, err := f.payments.RecordPayment(f.ctx, paymentdomain.RecordPaymentRequest{
			InvoiceID: inv.ID.String(),
			Amount:    amount,
			Method:    paymentdomain.MethodCash,
		})
		require.NoError(t, err)
		assert.False(t, updated.BalanceDue().IsNegative())
	}

	settled, err := f.invoices.GetByID(f.ctx, inv.ID.String())
	require.NoError(t, err)
	assert.Equal(t, invoicedomain.StatusPaid, settled.Status)
	assert.Equal(t, money.New(0, "USD"), settled.BalanceDue())
}

func TestSettlement_UnknownInvoice(t *testing.T) {
	f := newFixture(t)

	node, err := snowflake.NewNode(9)
	require.NoError(t, err)

	_, err = f.payments.RecordPayment(f.ctx, paymentdomain.RecordPaymentRequest{
		InvoiceID: node.Generate().String(),
		Amount:    1000,
		Method:    paymentdomain.MethodCash,
	})
	assert.ErrorIs(t, err, invoicedomain.ErrInvoiceNotFound)

	_, err = f.payments.RecordPayment(f.ctx, paymentdomain.RecordPaymentRequest{
		InvoiceID: "garbage",
		Amount:    1000,
		Method:    paymentdomain.MethodCash,
	})
	assert.ErrorIs(t, err, invoicedomain.ErrInvalidInvoiceID)
}
