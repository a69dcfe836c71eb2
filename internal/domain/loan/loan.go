package loan

import (
	"coop-collections/internal/pkg/apperrors"
	"coop-collections/internal/pkg/calendar"
	"coop-collections/internal/pkg/money"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// MonthlyInterestRate is charged on the outstanding balance of every period.
var MonthlyInterestRate = decimal.RequireFromString("0.02")

type LoanStatus string

const (
	StatusPending  LoanStatus = "Pending"
	StatusApproved LoanStatus = "Approved"
	StatusRejected LoanStatus = "Rejected"
	StatusPaid     LoanStatus = "Paid"
)

// CanTransitionTo reports whether a loan may move from s to next. A loan is
// decided once, and only an approved loan can be paid off.
func (s LoanStatus) CanTransitionTo(next LoanStatus) bool {
	switch s {
	case StatusPending:
		return next == StatusApproved || next == StatusRejected
	case StatusApproved:
		return next == StatusPaid
	}
	return false
}

type InstallmentStatus string

const (
	InstallmentUnpaid InstallmentStatus = "Unpaid"
	InstallmentPaid   InstallmentStatus = "Paid"
)

// Terms are fixed once a loan is approved.
type Terms struct {
	Principal           decimal.Decimal
	DurationMonths      int
	MonthlyInterestRate decimal.Decimal
	OriginationDate     time.Time
}

type Loan struct {
	ID         int64
	MemberID   int64
	MemberName string
	Terms      Terms
	Status     LoanStatus
	ApprovedAt *time.Time
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

type Installment struct {
	Index                 int
	Interest              decimal.Decimal
	Principal             decimal.Decimal
	TotalDue              decimal.Decimal
	RemainingBalanceAfter decimal.Decimal
	DueDate               time.Time
	Status                InstallmentStatus
}

func (t Terms) Validate() error {
	if t.Principal.IsNegative() {
		return fmt.Errorf("%w: principal %s must not be negative", apperrors.ErrInvalidTerms, t.Principal)
	}
	if t.DurationMonths < 0 {
		return fmt.Errorf("%w: duration %d months must not be negative", apperrors.ErrInvalidTerms, t.DurationMonths)
	}
	if t.MonthlyInterestRate.IsNegative() {
		return fmt.Errorf("%w: interest rate %s must not be negative", apperrors.ErrInvalidTerms, t.MonthlyInterestRate)
	}
	return nil
}

// Periods is the number of installments the terms produce. A zero duration
// is one balloon period.
func (t Terms) Periods() int {
	return max(1, t.DurationMonths)
}

func (t Terms) rate() decimal.Decimal {
	if t.MonthlyInterestRate.IsZero() {
		return MonthlyInterestRate
	}
	return t.MonthlyInterestRate
}

// BuildSchedule produces the equal-principal amortization schedule for terms.
// Interest accrues on the unrounded running balance. Each period shows the
// per-period principal rounded to cents, never more than is left to show, and
// the final period takes the remainder, so the displayed principals sum back
// to the loan amount and the final balance is exactly zero.
func BuildSchedule(terms Terms) ([]Installment, error) {
	if err := terms.Validate(); err != nil {
		return nil, err
	}

	n := terms.Periods()
	rate := terms.rate()
	origination := calendar.DateOf(terms.OriginationDate)
	perPeriod := terms.Principal.Div(decimal.NewFromInt(int64(n)))
	displayedPrincipal := money.Round(terms.Principal)

	schedule := make([]Installment, 0, n)
	remaining := terms.Principal
	principalShown := decimal.Zero

	for i := 1; i <= n; i++ {
		interest := money.Round(remaining.Mul(rate))

		var principal decimal.Decimal
		if i == n {
			principal = displayedPrincipal.Sub(principalShown)
			remaining = decimal.Zero
		} else {
			principal = decimal.Min(money.Round(perPeriod), displayedPrincipal.Sub(principalShown))
			remaining = remaining.Sub(perPeriod)
		}
		principalShown = principalShown.Add(principal)

		schedule = append(schedule, Installment{
			Index:                 i,
			Interest:              interest,
			Principal:             principal,
			TotalDue:              interest.Add(principal),
			RemainingBalanceAfter: displayedPrincipal.Sub(principalShown),
			DueDate:               calendar.AddMonths(origination, i),
			Status:                InstallmentUnpaid,
		})
	}

	return schedule, nil
}

// TotalScheduled is the sum of every installment's total due.
func TotalScheduled(schedule []Installment) decimal.Decimal {
	total := decimal.Zero
	for _, inst := range schedule {
		total = total.Add(inst.TotalDue)
	}
	return total
}
