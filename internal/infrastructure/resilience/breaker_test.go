package resilience

import (
	"context"
	"coop-collections/internal/domain/loan"
	"coop-collections/internal/pkg/apperrors"
	"errors"
	"log/slog"
	"testing"
	"time"

	"github.com/sony/gobreaker"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var logger = slog.New(slog.DiscardHandler)

type stubLister struct {
	calls int
	err   error
	delay time.Duration
}

func (s *stubLister) ListPayments(ctx context.Context, loanID int64) ([]loan.PaymentRecord, error) {
	s.calls++
	if s.delay > 0 {
		select {
		case <-time.After(s.delay):
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	if s.err != nil {
		return nil, s.err
	}
	return []loan.PaymentRecord{{ID: 1, LoanID: loanID, RawAmount: "100.00"}}, nil
}

func TestGuardedPaymentLister_PassesThrough(t *testing.T) {
	stub := &stubLister{}
	g := NewGuardedPaymentLister(stub, BreakerConfig{}, logger)

	payments, err := g.ListPayments(context.Background(), 7)
	require.NoError(t, err)
	require.Len(t, payments, 1)
	assert.Equal(t, int64(7), payments[0].LoanID)
	assert.Equal(t, gobreaker.StateClosed, g.State())
}

func TestGuardedPaymentLister_OpensAfterConsecutiveFailures(t *testing.T) {
	stub := &stubLister{err: errors.New("connection refused")}
	g := NewGuardedPaymentLister(stub, BreakerConfig{FailureThreshold: 3, OpenTimeout: time.Minute}, logger)

	for i := 0; i < 3; i++ {
		_, err := g.ListPayments(context.Background(), 1)
		require.Error(t, err)
		assert.NotErrorIs(t, err, apperrors.ErrUpstreamUnavailable)
	}
	assert.Equal(t, gobreaker.StateOpen, g.State())

	_, err := g.ListPayments(context.Background(), 1)
	assert.ErrorIs(t, err, apperrors.ErrUpstreamUnavailable)
	assert.Equal(t, 3, stub.calls)
}

func TestGuardedPaymentLister_TimesOutSlowReads(t *testing.T) {
	stub := &stubLister{delay: time.Second}
	g := NewGuardedPaymentLister(stub, BreakerConfig{CallTimeout: 20 * time.Millisecond}, logger)

	start := time.Now()
	_, err := g.ListPayments(context.Background(), 1)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
	assert.Less(t, time.Since(start), 500*time.Millisecond)
}

func TestGuardedPaymentLister_RecoversAfterOpenTimeout(t *testing.T) {
	stub := &stubLister{err: errors.New("down")}
	g := NewGuardedPaymentLister(stub, BreakerConfig{FailureThreshold: 1, OpenTimeout: 30 * time.Millisecond}, logger)

	_, err := g.ListPayments(context.Background(), 1)
	require.Error(t, err)
	assert.Equal(t, gobreaker.StateOpen, g.State())

	time.Sleep(50 * time.Millisecond)
	stub.err = nil
	_, err = g.ListPayments(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, gobreaker.StateClosed, g.State())
}
