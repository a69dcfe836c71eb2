package loan

import (
	"context"
	"time"
)

type Repository interface {
	GetLoan(ctx context.Context, loanID int64) (*Loan, error)

	ListApprovedLoans(ctx context.Context) ([]*Loan, error)

	ListPendingLoans(ctx context.Context) ([]*Loan, error)

	ListLoansByMember(ctx context.Context, memberID int64) ([]*Loan, error)

	ListPayments(ctx context.Context, loanID int64) ([]PaymentRecord, error)

	CreatePayment(ctx context.Context, payment PaymentRecord) (*PaymentRecord, error)

	// CreateLoan stores a pending loan for an active member. An unknown or
	// inactive member yields apperrors.ErrNotFound.
	CreateLoan(ctx context.Context, app Application) (*Loan, error)

	// UpdateLoanStatus moves a loan from one status to the next and returns the
	// stored loan. It fails with apperrors.ErrLoanNotPending when the loan is no
	// longer in the expected status. approvalDate is left untouched when nil.
	UpdateLoanStatus(ctx context.Context, loanID int64, from, to LoanStatus, approvalDate *time.Time) (*Loan, error)

	CountLoansByStatus(ctx context.Context) (map[LoanStatus]int, error)
}
