package postgres

import (
	"context"
	"coop-collections/internal/domain/loan"
	"coop-collections/internal/domain/obligation"
	"coop-collections/internal/pkg/apperrors"
	"coop-collections/internal/pkg/money"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
)

type LoanRepository struct {
	db     DBPool
	logger *slog.Logger
}

var _ loan.Repository = (*LoanRepository)(nil)
var _ obligation.LoanSource = (*LoanRepository)(nil)
var _ obligation.PaymentLister = (*LoanRepository)(nil)

func NewLoanRepository(db DBPool, logger *slog.Logger) *LoanRepository {
	if db == nil {
		panic("DBPool cannot be nil for LoanRepository")
	}
	return &LoanRepository{db: db, logger: logger.With("component", "LoanRepository")}
}

const loanColumns = `
        SELECT id, member_id, member_name, loan_amount::text, duration,
               COALESCE(monthly_interest_rate, 0)::text, approval_date, status, created_at, updated_at
        FROM loans`

type scanner interface {
	Scan(dest ...any) error
}

func scanLoan(row scanner) (*loan.Loan, error) {
	var (
		l            loan.Loan
		principalRaw string
		rateRaw      string
		approvedAt   *time.Time
		status       string
	)
	err := row.Scan(
		&l.ID, &l.MemberID, &l.MemberName, &principalRaw, &l.Terms.DurationMonths,
		&rateRaw, &approvedAt, &status, &l.CreatedAt, &l.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	if l.Terms.Principal, err = parseNumeric("loan_amount", principalRaw); err != nil {
		return nil, err
	}
	if l.Terms.MonthlyInterestRate, err = parseNumeric("monthly_interest_rate", rateRaw); err != nil {
		return nil, err
	}
	l.Terms.OriginationDate = l.CreatedAt
	if approvedAt != nil {
		l.Terms.OriginationDate = *approvedAt
		l.ApprovedAt = approvedAt
	}
	l.Status = parseLoanStatus(status)
	return &l, nil
}

// parseLoanStatus accepts the lower-case values older rows were written with.
func parseLoanStatus(raw string) loan.LoanStatus {
	for _, s := range []loan.LoanStatus{loan.StatusPending, loan.StatusApproved, loan.StatusRejected, loan.StatusPaid} {
		if strings.EqualFold(raw, string(s)) {
			return s
		}
	}
	return loan.LoanStatus(raw)
}

func (r *LoanRepository) GetLoan(ctx context.Context, loanID int64) (*loan.Loan, error) {
	query := loanColumns + `
        WHERE id = $1`

	start := time.Now()
	l, err := scanLoan(r.db.QueryRow(ctx, query, loanID))
	timed("GetLoan", start, err)

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			r.logger.WarnContext(ctx, "Loan not found", "loan_id", loanID)
			return nil, apperrors.ErrNotFound
		}
		r.logger.ErrorContext(ctx, "Failed to get loan by ID", "loan_id", loanID, "error", err)
		return nil, translateDBError(err, r.logger)
	}
	return l, nil
}

func (r *LoanRepository) ListApprovedLoans(ctx context.Context) ([]*loan.Loan, error) {
	query := loanColumns + `
        WHERE lower(status) = lower($1)
        ORDER BY id`
	return r.listLoans(ctx, "ListApprovedLoans", query, string(loan.StatusApproved))
}

func (r *LoanRepository) ListLoansByMember(ctx context.Context, memberID int64) ([]*loan.Loan, error) {
	query := loanColumns + `
        WHERE member_id = $1
        ORDER BY id`
	return r.listLoans(ctx, "ListLoansByMember", query, memberID)
}

func (r *LoanRepository) listLoans(ctx context.Context, operation, query string, args ...any) (loans []*loan.Loan, err error) {
	logCtx := r.logger.With(slog.String("operation", operation))
	start := time.Now()
	defer func() { timed(operation, start, err) }()

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		logCtx.ErrorContext(ctx, "Failed to query loans", slog.Any("error", err))
		return nil, fmt.Errorf("%w: failed to query loans: %w", apperrors.ErrDatabase, err)
	}
	defer rows.Close()

	loans = make([]*loan.Loan, 0)
	for rows.Next() {
		l, err := scanLoan(rows)
		if err != nil {
			logCtx.ErrorContext(ctx, "Failed to scan loan row", slog.Any("error", err))
			return nil, fmt.Errorf("%w: failed scanning loan: %w", apperrors.ErrDatabase, err)
		}
		loans = append(loans, l)
	}
	if err = rows.Err(); err != nil {
		logCtx.ErrorContext(ctx, "Error iterating loan rows", slog.Any("error", err))
		return nil, fmt.Errorf("%w: error iterating loans: %w", apperrors.ErrDatabase, err)
	}

	logCtx.DebugContext(ctx, "Listed loans", slog.Int("count", len(loans)))
	return loans, nil
}

// ListPayments returns a loan's ledger oldest first. Amounts are returned as
// stored; an empty ledger is not an error.
func (r *LoanRepository) ListPayments(ctx context.Context, loanID int64) (payments []loan.PaymentRecord, err error) {
	query := `
        SELECT id, loan_id, member_id, amount_paid::text, payment_date, created_at
        FROM loan_payments
        WHERE loan_id = $1
        ORDER BY payment_date ASC, id ASC`

	start := time.Now()
	defer func() { timed("ListPayments", start, err) }()

	rows, err := r.db.Query(ctx, query, loanID)
	if err != nil {
		r.logger.ErrorContext(ctx, "Failed to query loan payments", "loan_id", loanID, "error", err)
		return nil, fmt.Errorf(errMsgFormat, apperrors.ErrDatabase, err)
	}
	defer rows.Close()

	payments = make([]loan.PaymentRecord, 0)
	for rows.Next() {
		var (
			p   loan.PaymentRecord
			raw *string
		)
		if err := rows.Scan(&p.ID, &p.LoanID, &p.MemberID, &raw, &p.PaymentDate, &p.CreatedAt); err != nil {
			r.logger.ErrorContext(ctx, "Failed to scan payment row", "loan_id", loanID, "error", err)
			return nil, fmt.Errorf(errMsgFormat, apperrors.ErrDatabase, err)
		}
		if raw != nil {
			p.RawAmount = *raw
		}
		payments = append(payments, p)
	}
	if err = rows.Err(); err != nil {
		r.logger.ErrorContext(ctx, "Error iterating payment rows", "loan_id", loanID, "error", err)
		return nil, fmt.Errorf(errMsgFormat, apperrors.ErrDatabase, err)
	}
	return payments, nil
}

func (r *LoanRepository) CreatePayment(ctx context.Context, payment loan.PaymentRecord) (*loan.PaymentRecord, error) {
	amount, ok := payment.Amount()
	if !ok {
		return nil, fmt.Errorf("%w: %q", apperrors.ErrInvalidPaymentAmount, payment.RawAmount)
	}

	query := `
        INSERT INTO loan_payments (loan_id, member_id, amount_paid, payment_date, created_at)
        VALUES ($1, $2, $3::numeric, $4, NOW())
        RETURNING id, created_at`

	start := time.Now()
	created := payment
	err := r.db.QueryRow(ctx, query,
		payment.LoanID, payment.MemberID, money.Format(amount), payment.PaymentDate,
	).Scan(&created.ID, &created.CreatedAt)
	timed("CreatePayment", start, err)

	if err != nil {
		r.logger.ErrorContext(ctx, "Failed to insert payment", "loan_id", payment.LoanID, "error", err)
		return nil, translateDBError(err, r.logger)
	}

	r.logger.InfoContext(ctx, "Payment recorded in DB", "loan_id", created.LoanID, "payment_id", created.ID)
	return &created, nil
}

func (r *LoanRepository) ListPendingLoans(ctx context.Context) ([]*loan.Loan, error) {
	query := loanColumns + `
        WHERE lower(status) = lower($1)
        ORDER BY created_at, id`
	return r.listLoans(ctx, "ListPendingLoans", query, string(loan.StatusPending))
}

const loanReturning = `
        RETURNING id, member_id, member_name, loan_amount::text, duration,
                  COALESCE(monthly_interest_rate, 0)::text, approval_date, status, created_at, updated_at`

// CreateLoan copies the member's name onto the loan so statements keep the
// name the loan was applied under.
func (r *LoanRepository) CreateLoan(ctx context.Context, app loan.Application) (*loan.Loan, error) {
	query := `
        INSERT INTO loans (member_id, member_name, loan_amount, duration, monthly_interest_rate, status, created_at, updated_at)
        SELECT m.id, m.name, $2::numeric, $3, $4::numeric, $5, NOW(), NOW()
        FROM members m
        WHERE m.id = $1 AND m.active` + loanReturning

	start := time.Now()
	l, err := scanLoan(r.db.QueryRow(ctx, query,
		app.MemberID, money.Format(app.Principal), app.DurationMonths, app.MonthlyInterestRate.String(), string(loan.StatusPending),
	))
	timed("CreateLoan", start, err)

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			r.logger.WarnContext(ctx, "No active member for loan application", "member_id", app.MemberID)
			return nil, apperrors.ErrNotFound
		}
		r.logger.ErrorContext(ctx, "Failed to insert loan", "member_id", app.MemberID, "error", err)
		return nil, translateDBError(err, r.logger)
	}

	r.logger.InfoContext(ctx, "Loan created in DB", "loan_id", l.ID, "member_id", l.MemberID)
	return l, nil
}

func (r *LoanRepository) UpdateLoanStatus(ctx context.Context, loanID int64, from, to loan.LoanStatus, approvalDate *time.Time) (*loan.Loan, error) {
	query := `
        UPDATE loans
        SET status = $1, approval_date = COALESCE($2, approval_date), updated_at = NOW()
        WHERE id = $3 AND lower(status) = lower($4)` + loanReturning

	start := time.Now()
	l, err := scanLoan(r.db.QueryRow(ctx, query, string(to), approvalDate, loanID, string(from)))
	timed("UpdateLoanStatus", start, err)

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			r.logger.WarnContext(ctx, "Status update affected zero rows", "loan_id", loanID, "from", from, "to", to)
			return nil, fmt.Errorf("%w: loan %d is no longer %s", apperrors.ErrLoanNotPending, loanID, from)
		}
		r.logger.ErrorContext(ctx, "Failed to update loan status", "loan_id", loanID, "error", err)
		return nil, translateDBError(err, r.logger)
	}

	r.logger.InfoContext(ctx, "Loan status updated in DB", "loan_id", loanID, "status", l.Status)
	return l, nil
}

// CountLoansByStatus folds legacy lower-case statuses into the canonical ones.
func (r *LoanRepository) CountLoansByStatus(ctx context.Context) (counts map[loan.LoanStatus]int, err error) {
	query := `
        SELECT status, COUNT(*)
        FROM loans
        GROUP BY status`

	start := time.Now()
	defer func() { timed("CountLoansByStatus", start, err) }()

	rows, err := r.db.Query(ctx, query)
	if err != nil {
		r.logger.ErrorContext(ctx, "Failed to count loans", "error", err)
		return nil, fmt.Errorf("%w: failed to count loans: %w", apperrors.ErrDatabase, err)
	}
	defer rows.Close()

	counts = make(map[loan.LoanStatus]int)
	for rows.Next() {
		var (
			status string
			n      int
		)
		if err := rows.Scan(&status, &n); err != nil {
			r.logger.ErrorContext(ctx, "Failed to scan loan count row", "error", err)
			return nil, fmt.Errorf("%w: failed scanning loan counts: %w", apperrors.ErrDatabase, err)
		}
		counts[parseLoanStatus(status)] += n
	}
	if err = rows.Err(); err != nil {
		r.logger.ErrorContext(ctx, "Error iterating loan count rows", "error", err)
		return nil, fmt.Errorf("%w: error iterating loan counts: %w", apperrors.ErrDatabase, err)
	}
	return counts, nil
}
