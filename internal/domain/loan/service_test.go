package loan

import (
	"context"
	"coop-collections/internal/event"
	"coop-collections/internal/pkg/apperrors"
	"errors"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

var logger = slog.New(slog.DiscardHandler)

type MockRepository struct {
	mock.Mock
}

func (m *MockRepository) GetLoan(ctx context.Context, loanID int64) (*Loan, error) {
	args := m.Called(ctx, loanID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*Loan), args.Error(1)
}

func (m *MockRepository) ListApprovedLoans(ctx context.Context) ([]*Loan, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*Loan), args.Error(1)
}

func (m *MockRepository) ListLoansByMember(ctx context.Context, memberID int64) ([]*Loan, error) {
	args := m.Called(ctx, memberID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*Loan), args.Error(1)
}

func (m *MockRepository) ListPayments(ctx context.Context, loanID int64) ([]PaymentRecord, error) {
	args := m.Called(ctx, loanID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]PaymentRecord), args.Error(1)
}

func (m *MockRepository) CreatePayment(ctx context.Context, payment PaymentRecord) (*PaymentRecord, error) {
	args := m.Called(ctx, payment)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*PaymentRecord), args.Error(1)
}

func (m *MockRepository) ListPendingLoans(ctx context.Context) ([]*Loan, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*Loan), args.Error(1)
}

func (m *MockRepository) CreateLoan(ctx context.Context, app Application) (*Loan, error) {
	args := m.Called(ctx, app)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*Loan), args.Error(1)
}

func (m *MockRepository) UpdateLoanStatus(ctx context.Context, loanID int64, from, to LoanStatus, approvalDate *time.Time) (*Loan, error) {
	args := m.Called(ctx, loanID, from, to, approvalDate)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*Loan), args.Error(1)
}

func (m *MockRepository) CountLoansByStatus(ctx context.Context) (map[LoanStatus]int, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[LoanStatus]int), args.Error(1)
}

type MockPublisher struct {
	mock.Mock
}

func (m *MockPublisher) PublishPaymentRecorded(ctx context.Context, evt event.PaymentRecordedEvent) error {
	return m.Called(ctx, evt).Error(0)
}

func (m *MockPublisher) PublishPurchasePaid(ctx context.Context, evt event.PurchasePaidEvent) error {
	return m.Called(ctx, evt).Error(0)
}

func (m *MockPublisher) PublishObligationOverdue(ctx context.Context, evt event.ObligationOverdueEvent) error {
	return m.Called(ctx, evt).Error(0)
}

func approvedLoan() *Loan {
	return &Loan{ID: 7, MemberID: 3, MemberName: "Juan Dela Cruz", Terms: standardTerms(), Status: StatusApproved}
}

func TestGetStatement(t *testing.T) {
	ctx := context.Background()
	repo := new(MockRepository)
	svc := NewLoanService(repo, nil, logger)

	repo.On("GetLoan", ctx, int64(7)).Return(approvedLoan(), nil)
	repo.On("ListPayments", ctx, int64(7)).Return([]PaymentRecord{
		{ID: 1, LoanID: 7, RawAmount: "1000"},
		{ID: 2, LoanID: 7, RawAmount: "240"},
		{ID: 3, LoanID: 7, RawAmount: "n/a"},
	}, nil)

	stmt, err := svc.GetStatement(ctx, 7)
	require.NoError(t, err)

	assert.Equal(t, 1, stmt.SkippedPayments)
	assert.Equal(t, 1, stmt.Reconciliation.PaidCount)
	require.NotNil(t, stmt.Reconciliation.NextDue)
	assert.Equal(t, 2, stmt.Reconciliation.NextDue.Index)
	repo.AssertExpectations(t)
}

func TestGetStatement_NotFound(t *testing.T) {
	ctx := context.Background()
	repo := new(MockRepository)
	svc := NewLoanService(repo, nil, logger)

	repo.On("GetLoan", ctx, int64(99)).Return(nil, apperrors.ErrNotFound)

	_, err := svc.GetStatement(ctx, 99)
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
	repo.AssertNotCalled(t, "ListPayments", mock.Anything, mock.Anything)
}

func TestGetStatement_InvalidTerms(t *testing.T) {
	ctx := context.Background()
	repo := new(MockRepository)
	svc := NewLoanService(repo, nil, logger)

	broken := approvedLoan()
	broken.Terms.DurationMonths = -2
	repo.On("GetLoan", ctx, int64(7)).Return(broken, nil)
	repo.On("ListPayments", ctx, int64(7)).Return([]PaymentRecord{}, nil)

	_, err := svc.GetStatement(ctx, 7)
	assert.ErrorIs(t, err, apperrors.ErrInvalidTerms)
}

func TestRecordPayment(t *testing.T) {
	ctx := context.Background()
	paidOn := day(2025, time.February, 14)

	t.Run("records payment and publishes event", func(t *testing.T) {
		repo := new(MockRepository)
		pub := new(MockPublisher)
		svc := NewLoanService(repo, pub, logger)

		repo.On("GetLoan", ctx, int64(7)).Return(approvedLoan(), nil)
		repo.On("ListPayments", ctx, int64(7)).Return([]PaymentRecord{}, nil)
		repo.On("CreatePayment", ctx, mock.MatchedBy(func(p PaymentRecord) bool {
			return p.LoanID == 7 && p.MemberID == 3 && p.RawAmount == "1240.00" && p.PaymentDate.Equal(paidOn)
		})).Return(&PaymentRecord{ID: 11, LoanID: 7, MemberID: 3, RawAmount: "1240.00", PaymentDate: paidOn}, nil)
		pub.On("PublishPaymentRecorded", ctx, mock.MatchedBy(func(e event.PaymentRecordedEvent) bool {
			return e.PaymentID == 11 && e.TotalPaid == "1240.00" && e.Progress == string(ProgressPartiallyPaid) &&
				e.NextDueDate != nil && *e.NextDueDate == "2025-03-15"
		})).Return(nil)

		payment, stmt, err := svc.RecordPayment(ctx, 7, "1240", paidOn)
		require.NoError(t, err)
		assert.Equal(t, int64(11), payment.ID)
		assert.Equal(t, 1, stmt.Reconciliation.PaidCount)
		repo.AssertExpectations(t)
		pub.AssertExpectations(t)
	})

	t.Run("publish failure does not fail the payment", func(t *testing.T) {
		repo := new(MockRepository)
		pub := new(MockPublisher)
		svc := NewLoanService(repo, pub, logger)

		repo.On("GetLoan", ctx, int64(7)).Return(approvedLoan(), nil)
		repo.On("ListPayments", ctx, int64(7)).Return([]PaymentRecord{}, nil)
		repo.On("CreatePayment", ctx, mock.Anything).Return(&PaymentRecord{ID: 12, LoanID: 7, RawAmount: "500.00", PaymentDate: paidOn}, nil)
		pub.On("PublishPaymentRecorded", ctx, mock.Anything).Return(errors.New("channel closed"))

		_, stmt, err := svc.RecordPayment(ctx, 7, "500", paidOn)
		require.NoError(t, err)
		assert.Equal(t, ProgressPending, stmt.Reconciliation.Progress)
	})

	t.Run("rejects malformed amount", func(t *testing.T) {
		repo := new(MockRepository)
		svc := NewLoanService(repo, nil, logger)
		repo.On("GetLoan", ctx, int64(7)).Return(approvedLoan(), nil)

		_, _, err := svc.RecordPayment(ctx, 7, "twelve", paidOn)
		assert.ErrorIs(t, err, apperrors.ErrInvalidPaymentAmount)
		repo.AssertNotCalled(t, "CreatePayment", mock.Anything, mock.Anything)
	})

	t.Run("rejects loan that is not approved", func(t *testing.T) {
		repo := new(MockRepository)
		svc := NewLoanService(repo, nil, logger)
		pending := approvedLoan()
		pending.Status = StatusPending
		repo.On("GetLoan", ctx, int64(7)).Return(pending, nil)

		_, _, err := svc.RecordPayment(ctx, 7, "100", paidOn)
		assert.ErrorIs(t, err, apperrors.ErrLoanNotApproved)
	})

	t.Run("rejects fully paid loan", func(t *testing.T) {
		repo := new(MockRepository)
		svc := NewLoanService(repo, nil, logger)
		repo.On("GetLoan", ctx, int64(7)).Return(approvedLoan(), nil)
		repo.On("ListPayments", ctx, int64(7)).Return([]PaymentRecord{{ID: 1, RawAmount: "13560.00"}}, nil)

		_, _, err := svc.RecordPayment(ctx, 7, "100", paidOn)
		assert.ErrorIs(t, err, apperrors.ErrLoanFullyPaid)
		repo.AssertNotCalled(t, "CreatePayment", mock.Anything, mock.Anything)
	})

	t.Run("wraps storage failure", func(t *testing.T) {
		repo := new(MockRepository)
		svc := NewLoanService(repo, nil, logger)
		repo.On("GetLoan", ctx, int64(7)).Return(approvedLoan(), nil)
		repo.On("ListPayments", ctx, int64(7)).Return([]PaymentRecord{}, nil)
		repo.On("CreatePayment", ctx, mock.Anything).Return(nil, apperrors.ErrDatabase)

		_, _, err := svc.RecordPayment(ctx, 7, "100", paidOn)
		assert.ErrorIs(t, err, apperrors.ErrInternalServer)
		assert.ErrorIs(t, err, apperrors.ErrDatabase)
	})
}

func TestPreviewSchedule(t *testing.T) {
	svc := NewLoanService(new(MockRepository), nil, logger)

	rec, err := svc.PreviewSchedule(standardTerms(), d("1240"))
	require.NoError(t, err)
	assert.Len(t, rec.Schedule, 12)
	assert.Equal(t, 2, rec.NextDue.Index)

	rec, err = svc.PreviewSchedule(standardTerms(), d("-5"))
	require.NoError(t, err)
	assert.Equal(t, ProgressPending, rec.Progress)

	_, err = svc.PreviewSchedule(Terms{Principal: d("-1")}, d("0"))
	assert.ErrorIs(t, err, apperrors.ErrInvalidTerms)
}
