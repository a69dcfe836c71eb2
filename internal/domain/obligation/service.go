package obligation

import (
	"context"
	"coop-collections/internal/domain/loan"
	"coop-collections/internal/domain/member"
	"coop-collections/internal/domain/purchase"
	"coop-collections/internal/pkg/apperrors"
	"errors"
	"fmt"
	"log/slog"
)

type LoanSource interface {
	ListApprovedLoans(ctx context.Context) ([]*loan.Loan, error)
	ListLoansByMember(ctx context.Context, memberID int64) ([]*loan.Loan, error)
}

type PurchaseSource interface {
	ListOutstanding(ctx context.Context) ([]*purchase.Record, error)
	ListByMember(ctx context.Context, memberID int64) ([]*purchase.Record, error)
}

type ObligationService interface {
	ListObligations(ctx context.Context) ([]Obligation, error)

	ListMemberObligations(ctx context.Context, memberID int64) ([]Obligation, error)
}

var _ ObligationService = (*obligationService)(nil)

type obligationService struct {
	loans      LoanSource
	purchases  PurchaseSource
	members    member.MemberRepository
	aggregator *Aggregator
	logger     *slog.Logger
}

func NewObligationService(loans LoanSource, purchases PurchaseSource, members member.MemberRepository, aggregator *Aggregator, logger *slog.Logger) ObligationService {
	if loans == nil || purchases == nil || members == nil || aggregator == nil {
		panic("obligation service dependencies cannot be nil")
	}
	return &obligationService{
		loans:      loans,
		purchases:  purchases,
		members:    members,
		aggregator: aggregator,
		logger:     logger.With("component", "ObligationService"),
	}
}

func (s *obligationService) ListObligations(ctx context.Context) ([]Obligation, error) {
	loans, err := s.loans.ListApprovedLoans(ctx)
	if err != nil {
		s.logger.ErrorContext(ctx, "Failed to list approved loans", "error", err)
		return nil, fmt.Errorf("failed to list approved loans: %w", err)
	}
	records, err := s.purchases.ListOutstanding(ctx)
	if err != nil {
		s.logger.ErrorContext(ctx, "Failed to list outstanding purchases", "error", err)
		return nil, fmt.Errorf("failed to list outstanding purchases: %w", err)
	}

	rows := s.aggregator.Aggregate(ctx, loanViews(loans), purchaseViews(records))
	s.logger.InfoContext(ctx, "Aggregated obligations", "loans", len(loans), "purchases", len(records), "rows", len(rows))
	return rows, nil
}

func (s *obligationService) ListMemberObligations(ctx context.Context, memberID int64) ([]Obligation, error) {
	if _, err := s.members.FindByID(ctx, memberID); err != nil {
		if errors.Is(err, member.ErrNotFound) || errors.Is(err, apperrors.ErrNotFound) {
			return nil, fmt.Errorf("%w: member %d not found", apperrors.ErrNotFound, memberID)
		}
		return nil, fmt.Errorf("failed to look up member %d: %w", memberID, err)
	}

	loans, err := s.loans.ListLoansByMember(ctx, memberID)
	if err != nil {
		return nil, fmt.Errorf("failed to list loans for member %d: %w", memberID, err)
	}
	approved := loans[:0:0]
	for _, l := range loans {
		if l.Status == loan.StatusApproved {
			approved = append(approved, l)
		}
	}

	records, err := s.purchases.ListByMember(ctx, memberID)
	if err != nil {
		return nil, fmt.Errorf("failed to list purchases for member %d: %w", memberID, err)
	}

	return s.aggregator.Aggregate(ctx, loanViews(approved), purchaseViews(records)), nil
}

func loanViews(loans []*loan.Loan) []LoanView {
	views := make([]LoanView, 0, len(loans))
	for _, l := range loans {
		views = append(views, LoanView{
			LoanID:     l.ID,
			MemberID:   l.MemberID,
			MemberName: l.MemberName,
			Terms:      l.Terms,
		})
	}
	return views
}

func purchaseViews(records []*purchase.Record) []PurchaseView {
	views := make([]PurchaseView, 0, len(records))
	for _, r := range records {
		views = append(views, PurchaseView{
			PurchaseID: r.ID,
			MemberID:   r.MemberID,
			MemberName: r.MemberName,
			Purchase:   r.Purchase(),
			Status:     r.Obligation.Status,
		})
	}
	return views
}
