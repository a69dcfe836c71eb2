package batch_test

import (
	"context"
	"coop-collections/internal/batch"
	"coop-collections/internal/domain/loan"
	"coop-collections/internal/domain/obligation"
	"coop-collections/internal/event"
	"coop-collections/internal/pkg/apperrors"
	"errors"
	"fmt"
	"log/slog"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

var logger = slog.New(slog.DiscardHandler)

type MockObligationService struct {
	mock.Mock
}

func (m *MockObligationService) ListObligations(ctx context.Context) ([]obligation.Obligation, error) {
	args := m.Called(ctx)
	if rows, ok := args.Get(0).([]obligation.Obligation); ok {
		return rows, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockObligationService) ListMemberObligations(ctx context.Context, memberID int64) ([]obligation.Obligation, error) {
	args := m.Called(ctx, memberID)
	if rows, ok := args.Get(0).([]obligation.Obligation); ok {
		return rows, args.Error(1)
	}
	return nil, args.Error(1)
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

func row(t obligation.Type, ref int64, daysRemaining *int) obligation.Obligation {
	o := obligation.Obligation{
		MemberID:    10 + ref,
		MemberName:  fmt.Sprintf("member-%d", ref),
		Type:        t,
		ReferenceID: ref,
		PayAmount:   decimal.RequireFromString("520"),
		Status:      loan.ProgressPending,
	}
	if daysRemaining != nil {
		due := time.Date(2024, time.March, 1, 0, 0, 0, 0, time.UTC).AddDate(0, 0, *daysRemaining)
		o.NextDueDate = &due
		o.DaysRemaining = daysRemaining
	}
	return o
}

func days(n int) *int { return &n }

func TestCollectionsSweepJob_Run(t *testing.T) {
	ctx := context.Background()

	t.Run("publishes notices only past the grace period", func(t *testing.T) {
		svc := new(MockObligationService)
		pub := new(MockPublisher)
		job := batch.NewCollectionsSweepJob(svc, pub, 3, logger)

		svc.On("ListObligations", mock.Anything).Return([]obligation.Obligation{
			row(obligation.TypeLoan, 1, days(-10)),
			row(obligation.TypePurchase, 2, days(-3)),
			row(obligation.TypePurchase, 3, days(-4)),
			row(obligation.TypeLoan, 4, days(5)),
			row(obligation.TypeLoan, 5, nil),
		}, nil).Once()

		pub.On("PublishObligationOverdue", mock.Anything, mock.MatchedBy(func(e event.ObligationOverdueEvent) bool {
			return e.ReferenceID == 1 && e.Type == "Loan" && e.DaysOverdue == 10 &&
				e.PayAmount == "520.00" && e.DueDate == "2024-02-20"
		})).Return(nil).Once()
		pub.On("PublishObligationOverdue", mock.Anything, mock.MatchedBy(func(e event.ObligationOverdueEvent) bool {
			return e.ReferenceID == 3 && e.Type == "Purchase" && e.DaysOverdue == 4
		})).Return(nil).Once()

		err := job.Run(ctx)

		assert.NoError(t, err)
		svc.AssertExpectations(t)
		pub.AssertExpectations(t)
		pub.AssertNumberOfCalls(t, "PublishObligationOverdue", 2)
	})

	t.Run("publish failures are counted and do not stop the sweep", func(t *testing.T) {
		svc := new(MockObligationService)
		pub := new(MockPublisher)
		job := batch.NewCollectionsSweepJob(svc, pub, 0, logger)

		svc.On("ListObligations", mock.Anything).Return([]obligation.Obligation{
			row(obligation.TypeLoan, 1, days(-1)),
			row(obligation.TypeLoan, 2, days(-2)),
		}, nil).Once()
		pub.On("PublishObligationOverdue", mock.Anything, mock.MatchedBy(func(e event.ObligationOverdueEvent) bool {
			return e.ReferenceID == 1
		})).Return(errors.New("channel closed")).Once()
		pub.On("PublishObligationOverdue", mock.Anything, mock.MatchedBy(func(e event.ObligationOverdueEvent) bool {
			return e.ReferenceID == 2
		})).Return(nil).Once()

		err := job.Run(ctx)

		assert.Error(t, err)
		assert.Contains(t, err.Error(), "1 failed overdue notices")
		pub.AssertExpectations(t)
	})

	t.Run("runs without a publisher", func(t *testing.T) {
		svc := new(MockObligationService)
		job := batch.NewCollectionsSweepJob(svc, nil, 0, logger)
		svc.On("ListObligations", mock.Anything).Return([]obligation.Obligation{
			row(obligation.TypePurchase, 1, days(-30)),
		}, nil).Once()

		assert.NoError(t, job.Run(ctx))
		svc.AssertExpectations(t)
	})

	t.Run("aborts when obligations cannot be aggregated", func(t *testing.T) {
		svc := new(MockObligationService)
		pub := new(MockPublisher)
		job := batch.NewCollectionsSweepJob(svc, pub, 0, logger)
		svc.On("ListObligations", mock.Anything).Return(nil, fmt.Errorf("failed to list approved loans: %w", apperrors.ErrDatabase)).Once()

		err := job.Run(ctx)

		assert.ErrorIs(t, err, apperrors.ErrDatabase)
		pub.AssertNotCalled(t, "PublishObligationOverdue", mock.Anything, mock.Anything)
	})
}

func TestNewCollectionsSweepJob_PanicsOnMissingService(t *testing.T) {
	assert.Panics(t, func() {
		batch.NewCollectionsSweepJob(nil, nil, 0, logger)
	})
}
