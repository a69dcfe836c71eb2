package loan

import (
	"github.com/shopspring/decimal"
)

// Progress is where an obligation sits in its forward-only lifecycle.
type Progress string

const (
	ProgressPending       Progress = "Pending"
	ProgressPartiallyPaid Progress = "PartiallyPaid"
	ProgressFullyPaid     Progress = "FullyPaid"
)

type Reconciliation struct {
	Schedule       []Installment
	NextDue        *Installment
	TotalPaid      decimal.Decimal
	TotalScheduled decimal.Decimal
	PaidCount      int
	Progress       Progress
}

func (r Reconciliation) Outstanding() decimal.Decimal {
	out := r.TotalScheduled.Sub(r.TotalPaid)
	if out.IsNegative() {
		return decimal.Zero
	}
	return out
}

// Reconcile marks the installments covered by totalPaid. An installment is
// paid when totalPaid reaches the cumulative total due up to and including
// it, so payments satisfy the earliest installments first. The input slice is
// never modified.
func Reconcile(schedule []Installment, totalPaid decimal.Decimal) Reconciliation {
	out := make([]Installment, len(schedule))
	copy(out, schedule)

	result := Reconciliation{
		Schedule:       out,
		TotalPaid:      totalPaid,
		TotalScheduled: TotalScheduled(schedule),
	}

	cumulative := decimal.Zero
	for i := range out {
		cumulative = cumulative.Add(out[i].TotalDue)
		if totalPaid.GreaterThanOrEqual(cumulative) {
			out[i].Status = InstallmentPaid
			result.PaidCount++
			continue
		}
		for j := i; j < len(out); j++ {
			out[j].Status = InstallmentUnpaid
		}
		next := out[i]
		result.NextDue = &next
		break
	}

	switch {
	case result.NextDue == nil:
		result.Progress = ProgressFullyPaid
	case result.PaidCount == 0:
		result.Progress = ProgressPending
	default:
		result.Progress = ProgressPartiallyPaid
	}
	return result
}
