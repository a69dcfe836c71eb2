package loan

import (
	"context"
	"coop-collections/internal/infrastructure/monitoring"
	"coop-collections/internal/pkg/apperrors"
	"coop-collections/internal/pkg/calendar"
	"coop-collections/internal/pkg/money"
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// MaxDurationMonths caps new applications at thirty years.
const MaxDurationMonths = 360

// Application is a member's request for a loan. Its terms become fixed when
// the loan is approved.
type Application struct {
	MemberID            int64
	Principal           decimal.Decimal
	DurationMonths      int
	MonthlyInterestRate decimal.Decimal
}

// Validate rejects terms a new loan cannot be written with. Unlike stored
// loans, a zero duration is not accepted here.
func (a Application) Validate() error {
	if a.MemberID <= 0 {
		return apperrors.NewValidationError("memberId", "member ID must be positive")
	}
	if !a.Principal.IsPositive() {
		return apperrors.NewValidationError("principal", "principal must be greater than zero")
	}
	if !a.Principal.Equal(money.Round(a.Principal)) {
		return apperrors.NewValidationError("principal", "principal cannot have more than two decimal places")
	}
	if a.DurationMonths < 1 || a.DurationMonths > MaxDurationMonths {
		return apperrors.NewValidationError("durationMonths", fmt.Sprintf("duration must be between 1 and %d months", MaxDurationMonths))
	}
	if a.MonthlyInterestRate.IsNegative() {
		return apperrors.NewValidationError("monthlyInterestRate", "interest rate must not be negative")
	}
	return nil
}

// StatusCounts is the number of loans in each lifecycle status.
type StatusCounts struct {
	Pending  int
	Approved int
	Rejected int
	Paid     int
}

func (c StatusCounts) Total() int {
	return c.Pending + c.Approved + c.Rejected + c.Paid
}

func (s *loanServiceImpl) ApplyLoan(ctx context.Context, app Application) (*Loan, error) {
	logCtx := s.logger.With("memberID", app.MemberID)
	if err := app.Validate(); err != nil {
		logCtx.WarnContext(ctx, "Rejected loan application", "error", err)
		return nil, err
	}
	if app.MonthlyInterestRate.IsZero() {
		app.MonthlyInterestRate = MonthlyInterestRate
	}

	l, err := s.repo.CreateLoan(ctx, app)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			logCtx.WarnContext(ctx, "Loan application for unknown member")
			return nil, fmt.Errorf("%w: member %d not found", apperrors.ErrNotFound, app.MemberID)
		}
		logCtx.ErrorContext(ctx, "Failed to store loan application", "error", err)
		return nil, fmt.Errorf("failed to store loan application: %w", err)
	}

	monitoring.RecordLoanTransition(string(StatusPending))
	logCtx.InfoContext(ctx, "Loan application received", "loanID", l.ID, "principal", l.Terms.Principal.StringFixed(2), "months", l.Terms.DurationMonths)
	return l, nil
}

// ApproveLoan fixes the loan's terms. The approval date becomes the date the
// schedule is counted from; a zero date means today.
func (s *loanServiceImpl) ApproveLoan(ctx context.Context, loanID int64, approvalDate time.Time) (*Loan, error) {
	if approvalDate.IsZero() {
		approvalDate = time.Now()
	}
	date := calendar.DateOf(approvalDate)
	return s.transition(ctx, loanID, StatusApproved, &date)
}

func (s *loanServiceImpl) RejectLoan(ctx context.Context, loanID int64) (*Loan, error) {
	return s.transition(ctx, loanID, StatusRejected, nil)
}

func (s *loanServiceImpl) transition(ctx context.Context, loanID int64, next LoanStatus, approvalDate *time.Time) (*Loan, error) {
	logCtx := s.logger.With("loanID", loanID, "to", next)

	l, err := s.GetLoan(ctx, loanID)
	if err != nil {
		return nil, err
	}
	if !l.Status.CanTransitionTo(next) {
		logCtx.WarnContext(ctx, "Refused loan status change", "from", l.Status)
		return nil, fmt.Errorf("%w: loan %d is %s and cannot become %s", apperrors.ErrLoanNotPending, loanID, l.Status, next)
	}
	if next == StatusApproved {
		terms := l.Terms
		terms.OriginationDate = *approvalDate
		if _, err := BuildSchedule(terms); err != nil {
			logCtx.ErrorContext(ctx, "Cannot approve loan with invalid terms", "error", err)
			return nil, fmt.Errorf("loan %d: %w", loanID, err)
		}
	}

	updated, err := s.repo.UpdateLoanStatus(ctx, loanID, l.Status, next, approvalDate)
	if err != nil {
		if errors.Is(err, apperrors.ErrLoanNotPending) {
			logCtx.WarnContext(ctx, "Loan was decided concurrently", "error", err)
			return nil, err
		}
		logCtx.ErrorContext(ctx, "Failed to update loan status", "error", err)
		return nil, fmt.Errorf("failed to update loan %d: %w", loanID, err)
	}

	monitoring.RecordLoanTransition(string(next))
	logCtx.InfoContext(ctx, "Loan status changed", "from", l.Status)
	return updated, nil
}

func (s *loanServiceImpl) ListPendingLoans(ctx context.Context) ([]*Loan, error) {
	loans, err := s.repo.ListPendingLoans(ctx)
	if err != nil {
		s.logger.ErrorContext(ctx, "Failed to list pending loans", "error", err)
		return nil, fmt.Errorf("failed to list pending loans: %w", err)
	}
	return loans, nil
}

func (s *loanServiceImpl) CountLoans(ctx context.Context) (StatusCounts, error) {
	byStatus, err := s.repo.CountLoansByStatus(ctx)
	if err != nil {
		s.logger.ErrorContext(ctx, "Failed to count loans", "error", err)
		return StatusCounts{}, fmt.Errorf("failed to count loans: %w", err)
	}
	return StatusCounts{
		Pending:  byStatus[StatusPending],
		Approved: byStatus[StatusApproved],
		Rejected: byStatus[StatusRejected],
		Paid:     byStatus[StatusPaid],
	}, nil
}
