package donations

import (
	"context"
	"time"

	"github.com/gracecity/church-backend/internal/payments"
	"github.com/gracecity/church-backend/internal/store"
)

func byReference(ctx context.Context, s store.Store[Donation], ref string) (Donation, error) {
	items, _, err := s.List(ctx, store.Query[Donation]{
		Filters: []store.Filter[Donation]{{
			Clause: "reference = ?",
			Args:   []any{ref},
			Match:  func(d *Donation) bool { return d.Reference == ref },
		}},
		Page: store.Page{Number: 1, Limit: 1},
	})
	if err != nil {
		return Donation{}, err
	}
	if len(items) == 0 {
		return Donation{}, store.ErrNotFound
	}
	return items[0], nil
}

// applyVerification copies the provider's view of a transaction onto d and reports
// whether anything changed.
func applyVerification(d *Donation, v payments.Verification, now time.Time) bool {
	next := d.Status
	switch v.Status {
	case payments.StatusSuccess:
		next = StatusSuccess
	case payments.StatusFailed:
		next = StatusFailed
	case payments.StatusReversed:
		next = StatusRefunded
	}
	if next == d.Status && d.TransactionID == v.TransactionID {
		return false
	}

	d.Status = next
	if v.TransactionID != "" {
		d.TransactionID = v.TransactionID
	}
	if v.CardLast4 != "" {
		d.CardLast4 = v.CardLast4
	}
	if next == StatusSuccess && d.PaidAt == nil {
		paid := now
		if v.PaidAt != nil {
			paid = *v.PaidAt
		}
		d.PaidAt = &paid
	}
	return true
}

// applyEvent updates d for a webhook event and reports whether it changed. A late
// charge.failed never overrides a recorded success.
func applyEvent(d *Donation, typ string, data payments.EventData, now time.Time) bool {
	switch typ {
	case payments.EventChargeSuccess:
		if d.Status == StatusSuccess || d.Status == StatusRefunded {
			return false
		}
		d.Status = StatusSuccess
		if id := data.ID.String(); id != "" {
			d.TransactionID = id
		}
		if data.Authorization.Last4 != "" {
			d.CardLast4 = data.Authorization.Last4
		}
		paid := now
		if data.PaidAt != nil {
			paid = *data.PaidAt
		}
		d.PaidAt = &paid
		return true
	case payments.EventChargeFailed:
		if d.Status != StatusPending {
			return false
		}
		d.Status = StatusFailed
		return true
	case payments.EventRefundProcessed:
		if d.Status == StatusRefunded {
			return false
		}
		d.Status = StatusRefunded
		d.RefundedAt = &now
		return true
	}
	return false
}

func summarize(items []Donation) Summary {
	sum := Summary{
		Count:          len(items),
		TotalsByStatus: map[string]int{},
		Raised:         map[string]int64{},
		ByPurpose:      map[string]int64{},
		ByChannel:      map[string]int64{},
	}
	for _, d := range items {
		sum.TotalsByStatus[d.Status]++
		if d.Status != StatusSuccess {
			continue
		}
		sum.SuccessCount++
		sum.Raised[d.Currency] += d.Amount
		purpose := d.Purpose
		if purpose == "" {
			purpose = "general"
		}
		sum.ByPurpose[purpose] += d.Amount
		sum.ByChannel[d.PaymentChannel] += d.Amount
	}
	return sum
}
