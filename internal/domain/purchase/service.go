package purchase

import (
	"context"
	"coop-collections/internal/domain/member"
	"coop-collections/internal/event"
	"coop-collections/internal/infrastructure/monitoring"
	"coop-collections/internal/pkg/apperrors"
	"coop-collections/internal/pkg/money"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// NewPurchase is what staff submit at the counter. Either Method (an
// enumerated code) or PaymentMethod (free text) identifies how it is paid.
type NewPurchase struct {
	MemberID      int64
	Items         []Item
	Subtotal      *decimal.Decimal
	PaymentMethod string
	Method        string
	DueDate       *time.Time
	Notes         string
}

type PurchaseService interface {
	CreatePurchase(ctx context.Context, req NewPurchase) (*Record, error)

	GetPurchase(ctx context.Context, purchaseID int64) (*Record, error)

	ListMemberPurchases(ctx context.Context, memberID int64) ([]*Record, error)

	PayPurchase(ctx context.Context, purchaseID int64) (*Record, error)
}

var _ PurchaseService = (*purchaseService)(nil)

type purchaseService struct {
	repo      Repository
	members   member.MemberRepository
	publisher event.Publisher
	location  *time.Location
	now       func() time.Time
	logger    *slog.Logger
}

// NewPurchaseService wires the service. Purchase dates are taken in loc.
func NewPurchaseService(repo Repository, members member.MemberRepository, publisher event.Publisher, loc *time.Location, logger *slog.Logger) PurchaseService {
	if repo == nil || members == nil {
		panic("purchase service dependencies cannot be nil")
	}
	if loc == nil {
		loc = time.UTC
	}
	return &purchaseService{
		repo:      repo,
		members:   members,
		publisher: publisher,
		location:  loc,
		now:       time.Now,
		logger:    logger.With(slog.String("component", "purchaseService")),
	}
}

func (s *purchaseService) CreatePurchase(ctx context.Context, req NewPurchase) (*Record, error) {
	logCtx := s.logger.With(slog.Int64("memberID", req.MemberID))

	m, err := s.members.FindByID(ctx, req.MemberID)
	if err != nil {
		if errors.Is(err, member.ErrNotFound) || errors.Is(err, apperrors.ErrNotFound) {
			logCtx.WarnContext(ctx, "Member not found")
			return nil, fmt.Errorf("%w: member %d not found", apperrors.ErrNotFound, req.MemberID)
		}
		logCtx.ErrorContext(ctx, "Failed to look up member", slog.Any("error", err))
		return nil, fmt.Errorf("failed to look up member %d: %w", req.MemberID, err)
	}
	if !m.Active {
		return nil, fmt.Errorf("%w: %w", apperrors.ErrValidation, member.ErrInactive)
	}

	method, err := resolveMethod(req)
	if err != nil {
		return nil, err
	}

	items := make([]Item, 0, len(req.Items))
	for i, it := range req.Items {
		if err := it.Validate(i); err != nil {
			return nil, err
		}
		items = append(items, it.Priced())
	}

	var subtotal decimal.Decimal
	switch {
	case req.Subtotal != nil:
		if req.Subtotal.IsNegative() {
			return nil, apperrors.NewValidationError("subtotal", "subtotal must not be negative")
		}
		subtotal = money.Round(*req.Subtotal)
	case len(items) > 0:
		subtotal = SubtotalOf(items)
	default:
		return nil, apperrors.NewValidationError("items", "at least one item or a subtotal is required")
	}

	methodText := strings.TrimSpace(req.PaymentMethod)
	if methodText == "" {
		methodText = string(method)
	}

	now := s.now().In(s.location)
	ob := Classify(Purchase{
		Subtotal:        subtotal,
		PaymentMethod:   methodText,
		Method:          method,
		CreatedAt:       now,
		ExplicitDueDate: req.DueDate,
	})

	rec := &Record{
		MemberID:   m.MemberID,
		MemberName: m.Name,
		Items:      items,
		Notes:      strings.TrimSpace(req.Notes),
		Obligation: ob,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	if ob.Status == StatusPaid {
		rec.PaidAt = &now
	}

	created, err := s.repo.Create(ctx, rec)
	if err != nil {
		logCtx.ErrorContext(ctx, "Failed to save purchase", slog.Any("error", err))
		return nil, fmt.Errorf("%w: failed to save purchase: %w", apperrors.ErrInternalServer, err)
	}

	logCtx.InfoContext(ctx, "Purchase recorded",
		slog.Int64("purchaseID", created.ID),
		slog.String("method", string(ob.Method)),
		slog.String("status", string(ob.Status)),
		slog.String("totalDue", money.Format(ob.TotalDue)),
	)
	return created, nil
}

func resolveMethod(req NewPurchase) (PaymentMethod, error) {
	if strings.TrimSpace(req.Method) != "" {
		return ParseMethodCode(req.Method)
	}
	if strings.TrimSpace(req.PaymentMethod) == "" {
		return MethodUnknown, apperrors.NewValidationError("paymentMethod", "payment method is required")
	}
	return ParsePaymentMethod(req.PaymentMethod), nil
}

func (s *purchaseService) GetPurchase(ctx context.Context, purchaseID int64) (*Record, error) {
	rec, err := s.repo.GetByID(ctx, purchaseID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			s.logger.WarnContext(ctx, "Purchase not found", "purchaseID", purchaseID)
			return nil, fmt.Errorf("%w: purchase with ID %d not found", apperrors.ErrNotFound, purchaseID)
		}
		s.logger.ErrorContext(ctx, "Failed to get purchase", "purchaseID", purchaseID, "error", err)
		return nil, fmt.Errorf("failed to get purchase %d: %w", purchaseID, err)
	}
	return rec, nil
}

func (s *purchaseService) ListMemberPurchases(ctx context.Context, memberID int64) ([]*Record, error) {
	if _, err := s.members.FindByID(ctx, memberID); err != nil {
		if errors.Is(err, member.ErrNotFound) || errors.Is(err, apperrors.ErrNotFound) {
			return nil, fmt.Errorf("%w: member %d not found", apperrors.ErrNotFound, memberID)
		}
		return nil, fmt.Errorf("failed to look up member %d: %w", memberID, err)
	}
	records, err := s.repo.ListByMember(ctx, memberID)
	if err != nil {
		s.logger.ErrorContext(ctx, "Failed to list member purchases", "memberID", memberID, "error", err)
		return nil, fmt.Errorf("failed to list purchases for member %d: %w", memberID, err)
	}
	return records, nil
}

func (s *purchaseService) PayPurchase(ctx context.Context, purchaseID int64) (*Record, error) {
	rec, err := s.GetPurchase(ctx, purchaseID)
	if err != nil {
		return nil, err
	}

	paid, err := rec.Obligation.Pay()
	if err != nil {
		s.logger.WarnContext(ctx, "Purchase already paid", "purchaseID", purchaseID)
		return nil, fmt.Errorf("purchase %d: %w", purchaseID, err)
	}

	paidAt := s.now()
	if err := s.repo.MarkPaid(ctx, purchaseID, paidAt); err != nil {
		if errors.Is(err, apperrors.ErrAlreadyPaid) {
			s.logger.WarnContext(ctx, "Purchase was settled concurrently", "purchaseID", purchaseID)
			return nil, fmt.Errorf("purchase %d: %w", purchaseID, err)
		}
		s.logger.ErrorContext(ctx, "Failed to mark purchase paid", "purchaseID", purchaseID, "error", err)
		return nil, fmt.Errorf("%w: failed to mark purchase %d paid: %w", apperrors.ErrInternalServer, purchaseID, err)
	}

	rec.Obligation = paid
	rec.PaidAt = &paidAt
	rec.UpdatedAt = paidAt
	monitoring.RecordPurchasePaid()

	if s.publisher != nil {
		evt := event.PurchasePaidEvent{
			PurchaseID: rec.ID,
			MemberID:   rec.MemberID,
			TotalDue:   money.Format(paid.TotalDue),
			Surcharge:  money.Format(paid.Surcharge),
			PaidAt:     paidAt,
		}
		if err := s.publisher.PublishPurchasePaid(ctx, evt); err != nil {
			s.logger.ErrorContext(ctx, "Failed to publish purchase paid event", "purchaseID", purchaseID, "error", err)
		}
	}

	s.logger.InfoContext(ctx, "Purchase paid", "purchaseID", purchaseID, "totalDue", money.Format(paid.TotalDue))
	return rec, nil
}
