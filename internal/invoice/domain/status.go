package domain

import "time"

// RecomputeStatus derives the status from the recorded facts: CancelledAt
// wins, then amount_paid drives Partial/Paid (and the reversal back after
// a refund), then the delivery timestamps yield Draft/Sent/Viewed. Nothing
// else ever assigns Status.
func (i *Invoice) RecomputeStatus(now time.Time) {
	if i.CancelledAt != nil {
		i.Status = StatusCancelled
		return
	}

	switch {
	case i.TotalAmount > 0 && i.AmountPaid >= i.TotalAmount:
		i.Status = StatusPaid
		if i.PaidAt == nil {
			paidAt := now
			i.PaidAt = &paidAt
		}
	case i.AmountPaid > 0:
		i.Status = StatusPartial
		i.PaidAt = nil
	default:
		i.Status = i.deliveryStatus()
		i.PaidAt = nil
	}
}

func (i *Invoice) deliveryStatus() Status {
	if i.ViewedAt != nil {
		return StatusViewed
	}
	if i.SentAt != nil {
		return StatusSent
	}
	return StatusDraft
}

// ClassifyForDisplay adds the derived Overdue state without mutating the
// stored status. Only delivered, not fully paid invoices go overdue.
func (i *Invoice) ClassifyForDisplay(now time.Time) Status {
	switch i.Status {
	case StatusSent, StatusViewed, StatusPartial:
		if i.DueDate.Before(truncateToDay(now)) {
			return StatusOverdue
		}
	}
	return i.Status
}

// DecorateForDisplay stamps the derived view-time fields onto the invoice.
func (i *Invoice) DecorateForDisplay(now time.Time) {
	i.DisplayStatus = i.ClassifyForDisplay(now)
	i.Overdue = i.DisplayStatus == StatusOverdue
}

// IsOverdue reports whether the invoice is past due and still collectible.
func (i *Invoice) IsOverdue(now time.Time) bool {
	return i.ClassifyForDisplay(now) == StatusOverdue
}

// CanEditItems reports whether line items and discount may still change.
// Financial documents must not silently change total after delivery.
func (i *Invoice) CanEditItems() bool {
	return i.Status == StatusDraft
}

// CanCancel reports whether the invoice may be cancelled.
func (i *Invoice) CanCancel() bool {
	switch i.Status {
	case StatusDraft, StatusSent, StatusViewed, StatusPartial:
		return true
	default:
		return false
	}
}

func truncateToDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
