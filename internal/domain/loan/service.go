package loan

import (
	"context"
	"coop-collections/internal/event"
	"coop-collections/internal/infrastructure/monitoring"
	"coop-collections/internal/pkg/apperrors"
	"coop-collections/internal/pkg/calendar"
	"coop-collections/internal/pkg/money"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/shopspring/decimal"
)

// Statement is a loan together with its schedule reconciled against the
// current payment ledger. It is rebuilt on every read.
type Statement struct {
	Loan            *Loan
	Payments        []PaymentRecord
	Reconciliation  Reconciliation
	SkippedPayments int
}

type LoanService interface {
	GetLoan(ctx context.Context, loanID int64) (*Loan, error)

	GetStatement(ctx context.Context, loanID int64) (*Statement, error)

	ListPayments(ctx context.Context, loanID int64) ([]PaymentRecord, error)

	RecordPayment(ctx context.Context, loanID int64, rawAmount string, paymentDate time.Time) (*PaymentRecord, *Statement, error)

	PreviewSchedule(terms Terms, totalPaid decimal.Decimal) (Reconciliation, error)

	ApplyLoan(ctx context.Context, app Application) (*Loan, error)

	ApproveLoan(ctx context.Context, loanID int64, approvalDate time.Time) (*Loan, error)

	RejectLoan(ctx context.Context, loanID int64) (*Loan, error)

	ListPendingLoans(ctx context.Context) ([]*Loan, error)

	CountLoans(ctx context.Context) (StatusCounts, error)
}

type loanServiceImpl struct {
	repo      Repository
	publisher event.Publisher
	logger    *slog.Logger
}

// NewLoanService wires the service. publisher may be nil when no broker is configured.
func NewLoanService(r Repository, publisher event.Publisher, logger *slog.Logger) LoanService {
	return &loanServiceImpl{repo: r, publisher: publisher, logger: logger.With("component", "LoanService")}
}

func (s *loanServiceImpl) GetLoan(ctx context.Context, loanID int64) (*Loan, error) {
	l, err := s.repo.GetLoan(ctx, loanID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			s.logger.WarnContext(ctx, "Loan not found", "loanID", loanID)
			return nil, fmt.Errorf("%w: loan with ID %d not found", apperrors.ErrNotFound, loanID)
		}
		s.logger.ErrorContext(ctx, "Failed to get loan", "loanID", loanID, "error", err)
		return nil, fmt.Errorf("failed to get loan %d: %w", loanID, err)
	}
	return l, nil
}

func (s *loanServiceImpl) GetStatement(ctx context.Context, loanID int64) (*Statement, error) {
	s.logger.InfoContext(ctx, "Building loan statement", "loanID", loanID)
	l, err := s.GetLoan(ctx, loanID)
	if err != nil {
		return nil, err
	}
	payments, err := s.ListPayments(ctx, loanID)
	if err != nil {
		return nil, err
	}
	return s.statement(ctx, l, payments)
}

func (s *loanServiceImpl) statement(ctx context.Context, l *Loan, payments []PaymentRecord) (*Statement, error) {
	schedule, err := BuildSchedule(l.Terms)
	if err != nil {
		s.logger.ErrorContext(ctx, "Loan has invalid terms", "loanID", l.ID, "error", err)
		return nil, fmt.Errorf("loan %d: %w", l.ID, err)
	}

	totalPaid, skipped := SumPayments(payments)
	if skipped > 0 {
		s.logger.WarnContext(ctx, "Ignoring malformed payment amounts", "loanID", l.ID, "skipped", skipped)
	}

	return &Statement{
		Loan:            l,
		Payments:        payments,
		Reconciliation:  Reconcile(schedule, totalPaid),
		SkippedPayments: skipped,
	}, nil
}

func (s *loanServiceImpl) ListPayments(ctx context.Context, loanID int64) ([]PaymentRecord, error) {
	payments, err := s.repo.ListPayments(ctx, loanID)
	if err != nil {
		s.logger.ErrorContext(ctx, "Failed to list payments", "loanID", loanID, "error", err)
		return nil, fmt.Errorf("failed to list payments for loan %d: %w", loanID, err)
	}
	return payments, nil
}

func (s *loanServiceImpl) RecordPayment(ctx context.Context, loanID int64, rawAmount string, paymentDate time.Time) (payment *PaymentRecord, stmt *Statement, err error) {
	s.logger.InfoContext(ctx, "Recording payment", "loanID", loanID, "amount", rawAmount)

	defer func() {
		status := "success"
		switch {
		case err == nil:
		case errors.Is(err, apperrors.ErrInvalidPaymentAmount):
			status = "failure_amount"
		case errors.Is(err, apperrors.ErrLoanFullyPaid):
			status = "failure_fully_paid"
		case errors.Is(err, apperrors.ErrLoanNotApproved), errors.Is(err, apperrors.ErrNotFound):
			status = "failure_loan"
		default:
			status = "failure_internal"
		}
		monitoring.RecordPayment(status)
	}()

	l, err := s.GetLoan(ctx, loanID)
	if err != nil {
		return nil, nil, err
	}

	candidate, err := NewPayment(l.ID, l.MemberID, rawAmount, paymentDate)
	if err != nil {
		s.logger.WarnContext(ctx, "Rejected payment amount", "loanID", loanID, "amount", rawAmount, "error", err)
		return nil, nil, err
	}

	switch l.Status {
	case StatusApproved:
	case StatusPaid:
		return nil, nil, fmt.Errorf("%w: loan %d", apperrors.ErrLoanFullyPaid, loanID)
	default:
		return nil, nil, fmt.Errorf("%w: loan %d has status %s", apperrors.ErrLoanNotApproved, loanID, l.Status)
	}

	payments, err := s.ListPayments(ctx, loanID)
	if err != nil {
		return nil, nil, err
	}
	before, err := s.statement(ctx, l, payments)
	if err != nil {
		return nil, nil, err
	}
	if before.Reconciliation.Progress == ProgressFullyPaid {
		s.logger.WarnContext(ctx, "Loan is already fully paid", "loanID", loanID)
		return nil, nil, fmt.Errorf("%w: loan %d", apperrors.ErrLoanFullyPaid, loanID)
	}

	created, err := s.repo.CreatePayment(ctx, candidate)
	if err != nil {
		s.logger.ErrorContext(ctx, "Failed to save payment", "loanID", loanID, "error", err)
		return nil, nil, fmt.Errorf("%w: failed to save payment: %w", apperrors.ErrInternalServer, err)
	}

	after, err := s.statement(ctx, l, append(payments, *created))
	if err != nil {
		return nil, nil, err
	}

	s.publishPaymentRecorded(ctx, created, after)
	s.logger.InfoContext(ctx, "Payment recorded", "loanID", loanID, "paymentID", created.ID, "progress", after.Reconciliation.Progress)
	return created, after, nil
}

func (s *loanServiceImpl) publishPaymentRecorded(ctx context.Context, p *PaymentRecord, stmt *Statement) {
	if s.publisher == nil {
		return
	}
	rec := stmt.Reconciliation
	evt := event.PaymentRecordedEvent{
		LoanID:      p.LoanID,
		MemberID:    p.MemberID,
		PaymentID:   p.ID,
		Amount:      p.RawAmount,
		PaymentDate: calendar.Format(p.PaymentDate),
		TotalPaid:   money.Format(rec.TotalPaid),
		Outstanding: money.Format(rec.Outstanding()),
		Progress:    string(rec.Progress),
		Timestamp:   time.Now(),
	}
	if rec.NextDue != nil {
		next := calendar.Format(rec.NextDue.DueDate)
		evt.NextDueDate = &next
	}
	if err := s.publisher.PublishPaymentRecorded(ctx, evt); err != nil {
		s.logger.ErrorContext(ctx, "Failed to publish payment recorded event", "loanID", p.LoanID, "error", err)
	}
}

func (s *loanServiceImpl) PreviewSchedule(terms Terms, totalPaid decimal.Decimal) (Reconciliation, error) {
	schedule, err := BuildSchedule(terms)
	if err != nil {
		return Reconciliation{}, err
	}
	if totalPaid.IsNegative() {
		totalPaid = decimal.Zero
	}
	return Reconcile(schedule, totalPaid), nil
}
