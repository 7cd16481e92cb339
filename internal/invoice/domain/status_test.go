package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var now = time.Date(2025, 6, 15, 9, 30, 0, 0, time.UTC)

func TestRecomputeStatusPaid(t *testing.T) {
	inv := Invoice{Status: StatusSent, Currency: "USD", TotalAmount: 1000, AmountPaid: 1000}
	inv.RecomputeStatus(now)

	assert.Equal(t, StatusPaid, inv.Status)
	require.NotNil(t, inv.PaidAt)
	assert.Equal(t, now, *inv.PaidAt)
}

func TestRecomputeStatusPartial(t *testing.T) {
	inv := Invoice{Status: StatusSent, Currency: "USD", TotalAmount: 1000, AmountPaid: 400}
	inv.RecomputeStatus(now)
	assert.Equal(t, StatusPartial, inv.Status)
	assert.Nil(t, inv.PaidAt)
}

func TestRecomputeStatusUnpaidFollowsDeliveryEvents(t *testing.T) {
	sentAt := now.Add(-48 * time.Hour)
	viewedAt := now.Add(-24 * time.Hour)

	inv := Invoice{Status: StatusPartial, Currency: "USD", TotalAmount: 1000}
	inv.RecomputeStatus(now)
	assert.Equal(t, StatusDraft, inv.Status)

	inv.SentAt = &sentAt
	inv.RecomputeStatus(now)
	assert.Equal(t, StatusSent, inv.Status)

	inv.ViewedAt = &viewedAt
	inv.RecomputeStatus(now)
	assert.Equal(t, StatusViewed, inv.Status)
}

func TestRecomputeStatusCancelled(t *testing.T) {
	sentAt := now.Add(-48 * time.Hour)
	cancelledAt := now.Add(-time.Hour)

	inv := Invoice{Status: StatusSent, Currency: "USD", TotalAmount: 1000, SentAt: &sentAt}
	inv.CancelledAt = &cancelledAt
	inv.RecomputeStatus(now)
	assert.Equal(t, StatusCancelled, inv.Status)

	// Sticky across further recomputes, whatever the paid amount claims.
	inv.AmountPaid = 1000
	inv.RecomputeStatus(now)
	assert.Equal(t, StatusCancelled, inv.Status)
}

func TestClassifyForDisplayOverdue(t *testing.T) {
	sentAt := now.Add(-96 * time.Hour)
	pastDue := now.Add(-72 * time.Hour)

	inv := Invoice{Status: StatusSent, SentAt: &sentAt, DueDate: pastDue}
	assert.Equal(t, StatusOverdue, inv.ClassifyForDisplay(now))
	assert.True(t, inv.IsOverdue(now))

	// The stored status is untouched.
	assert.Equal(t, StatusSent, inv.Status)
}

func TestClassifyForDisplayNotOverdue(t *testing.T) {
	pastDue := now.Add(-72 * time.Hour)

	draft := Invoice{Status: StatusDraft, DueDate: pastDue}
	assert.Equal(t, StatusDraft, draft.ClassifyForDisplay(now))

	paid := Invoice{Status: StatusPaid, DueDate: pastDue}
	assert.Equal(t, StatusPaid, paid.ClassifyForDisplay(now))

	cancelled := Invoice{Status: StatusCancelled, DueDate: pastDue}
	assert.Equal(t, StatusCancelled, cancelled.ClassifyForDisplay(now))

	// Due today is not yet overdue.
	dueToday := Invoice{Status: StatusSent, DueDate: time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)}
	assert.Equal(t, StatusSent, dueToday.ClassifyForDisplay(now))
}

func TestCanCancel(t *testing.T) {
	for _, s := range []Status{StatusDraft, StatusSent, StatusViewed, StatusPartial} {
		inv := Invoice{Status: s}
		assert.True(t, inv.CanCancel(), string(s))
	}
	for _, s := range []Status{StatusPaid, StatusCancelled} {
		inv := Invoice{Status: s}
		assert.False(t, inv.CanCancel(), string(s))
	}
}

func TestBalanceDue(t *testing.T) {
	inv := Invoice{Currency: "USD", TotalAmount: 301875, AmountPaid: 150000}
	assert.Equal(t, int64(151875), inv.BalanceDue().Amount)
}
