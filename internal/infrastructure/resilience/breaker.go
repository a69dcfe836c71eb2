package resilience

import (
	"context"
	"coop-collections/internal/domain/loan"
	"coop-collections/internal/domain/obligation"
	"coop-collections/internal/pkg/apperrors"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/sony/gobreaker"
)

const (
	DefaultFailureThreshold = 5
	DefaultOpenTimeout      = 30 * time.Second
	DefaultCallTimeout      = 3 * time.Second
)

type BreakerConfig struct {
	Name             string
	FailureThreshold uint32
	OpenTimeout      time.Duration
	CallTimeout      time.Duration
}

func (c BreakerConfig) withDefaults() BreakerConfig {
	if c.Name == "" {
		c.Name = "payment-ledger"
	}
	if c.FailureThreshold == 0 {
		c.FailureThreshold = DefaultFailureThreshold
	}
	if c.OpenTimeout <= 0 {
		c.OpenTimeout = DefaultOpenTimeout
	}
	if c.CallTimeout <= 0 {
		c.CallTimeout = DefaultCallTimeout
	}
	return c
}

func NewCircuitBreaker(cfg BreakerConfig, logger *slog.Logger) *gobreaker.CircuitBreaker {
	cfg = cfg.withDefaults()
	return gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        cfg.Name,
		MaxRequests: 1,
		Timeout:     cfg.OpenTimeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= cfg.FailureThreshold
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logger.Warn("Circuit breaker changed state", "breaker", name, "from", from.String(), "to", to.String())
		},
	})
}

// GuardedPaymentLister bounds every ledger read by a timeout and stops calling
// the ledger while it keeps failing.
type GuardedPaymentLister struct {
	next    obligation.PaymentLister
	cb      *gobreaker.CircuitBreaker
	timeout time.Duration
}

var _ obligation.PaymentLister = (*GuardedPaymentLister)(nil)

func NewGuardedPaymentLister(next obligation.PaymentLister, cfg BreakerConfig, logger *slog.Logger) *GuardedPaymentLister {
	if next == nil {
		panic("guarded payment lister requires a delegate")
	}
	cfg = cfg.withDefaults()
	return &GuardedPaymentLister{
		next:    next,
		cb:      NewCircuitBreaker(cfg, logger.With("component", "GuardedPaymentLister")),
		timeout: cfg.CallTimeout,
	}
}

func (g *GuardedPaymentLister) ListPayments(ctx context.Context, loanID int64) ([]loan.PaymentRecord, error) {
	result, err := g.cb.Execute(func() (interface{}, error) {
		callCtx, cancel := context.WithTimeout(ctx, g.timeout)
		defer cancel()
		return g.next.ListPayments(callCtx, loanID)
	})
	if err != nil {
		if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
			return nil, fmt.Errorf("%w: payment ledger for loan %d: %v", apperrors.ErrUpstreamUnavailable, loanID, err)
		}
		return nil, err
	}
	payments, _ := result.([]loan.PaymentRecord)
	return payments, nil
}

func (g *GuardedPaymentLister) State() gobreaker.State {
	return g.cb.State()
}
