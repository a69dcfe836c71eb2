package obligation

import (
	"cmp"
	"context"
	"coop-collections/internal/domain/loan"
	"coop-collections/internal/domain/purchase"
	"coop-collections/internal/infrastructure/monitoring"
	"coop-collections/internal/pkg/calendar"
	"log/slog"
	"slices"
	"time"

	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"
)

const DefaultFetchConcurrency = 8

type Type string

const (
	TypeLoan     Type = "Loan"
	TypePurchase Type = "Purchase"
)

// Obligation is one row of the collections view.
type Obligation struct {
	MemberID    int64
	MemberName  string
	Type        Type
	ReferenceID int64
	PayAmount   decimal.Decimal
	NextDueDate *time.Time
	// DaysRemaining is negative when overdue and nil when nothing is due.
	DaysRemaining *int
	Status        loan.Progress
	// Degraded marks a loan whose payment history could not be read and
	// was treated as unpaid.
	Degraded bool
}

func (o Obligation) Overdue() bool {
	return o.DaysRemaining != nil && *o.DaysRemaining < 0
}

type LoanView struct {
	LoanID     int64
	MemberID   int64
	MemberName string
	Terms      loan.Terms
}

type PurchaseView struct {
	PurchaseID int64
	MemberID   int64
	MemberName string
	Purchase   purchase.Purchase
	Status     purchase.Status
}

// PaymentLister reads a loan's payment ledger.
type PaymentLister interface {
	ListPayments(ctx context.Context, loanID int64) ([]loan.PaymentRecord, error)
}

type AggregatorConfig struct {
	FetchConcurrency int
	Location         *time.Location
}

type Aggregator struct {
	payments    PaymentLister
	concurrency int
	location    *time.Location
	now         func() time.Time
	logger      *slog.Logger
}

func NewAggregator(payments PaymentLister, cfg AggregatorConfig, logger *slog.Logger) *Aggregator {
	if payments == nil {
		panic("aggregator requires a payment lister")
	}
	if cfg.FetchConcurrency <= 0 {
		cfg.FetchConcurrency = DefaultFetchConcurrency
	}
	if cfg.Location == nil {
		cfg.Location = time.UTC
	}
	return &Aggregator{
		payments:    payments,
		concurrency: cfg.FetchConcurrency,
		location:    cfg.Location,
		now:         time.Now,
		logger:      logger.With("component", "ObligationAggregator"),
	}
}

// Aggregate reconciles every loan against its current ledger, classifies every
// purchase and returns the open obligations ordered by next due date. Rows
// without a due date come last. A loan whose ledger cannot be read is kept
// and treated as unpaid; a loan with unusable terms is logged and left out.
func (a *Aggregator) Aggregate(ctx context.Context, loans []LoanView, purchases []PurchaseView) []Obligation {
	today := calendar.Today(a.now(), a.location)

	loanRows := make([]*Obligation, len(loans))
	var g errgroup.Group
	g.SetLimit(a.concurrency)
	for i, lv := range loans {
		g.Go(func() error {
			loanRows[i] = a.loanObligation(ctx, lv, today)
			return nil
		})
	}
	_ = g.Wait()

	out := make([]Obligation, 0, len(loans)+len(purchases))
	for _, row := range loanRows {
		if row != nil {
			out = append(out, *row)
		}
	}
	for _, pv := range purchases {
		if row, ok := purchaseObligation(pv, today); ok {
			out = append(out, row)
		}
	}

	slices.SortStableFunc(out, compareObligations)
	return out
}

func (a *Aggregator) loanObligation(ctx context.Context, lv LoanView, today time.Time) *Obligation {
	logCtx := a.logger.With(slog.Int64("loanID", lv.LoanID), slog.Int64("memberID", lv.MemberID))

	schedule, err := loan.BuildSchedule(lv.Terms)
	if err != nil {
		logCtx.ErrorContext(ctx, "Skipping loan with invalid terms", slog.Any("error", err))
		return nil
	}

	row := &Obligation{
		MemberID:    lv.MemberID,
		MemberName:  lv.MemberName,
		Type:        TypeLoan,
		ReferenceID: lv.LoanID,
	}

	payments, err := a.payments.ListPayments(ctx, lv.LoanID)
	if err != nil {
		logCtx.WarnContext(ctx, "Payment history unavailable, treating loan as unpaid", slog.Any("error", err))
		monitoring.RecordPaymentHistoryFallback()
		row.Degraded = true
		payments = nil
	}

	totalPaid, skipped := loan.SumPayments(payments)
	if skipped > 0 {
		logCtx.WarnContext(ctx, "Ignoring malformed payment amounts", slog.Int("skipped", skipped))
	}

	rec := loan.Reconcile(schedule, totalPaid)
	row.Status = rec.Progress
	if rec.NextDue != nil {
		row.PayAmount = rec.NextDue.TotalDue
		due := rec.NextDue.DueDate
		row.NextDueDate = &due
		days := calendar.DaysBetween(today, due)
		row.DaysRemaining = &days
	} else {
		row.PayAmount = schedule[0].TotalDue
	}
	return row
}

func purchaseObligation(pv PurchaseView, today time.Time) (Obligation, bool) {
	if pv.Status == purchase.StatusPaid {
		return Obligation{}, false
	}
	ob := purchase.Classify(pv.Purchase)
	if !ob.Outstanding() {
		return Obligation{}, false
	}

	row := Obligation{
		MemberID:    pv.MemberID,
		MemberName:  pv.MemberName,
		Type:        TypePurchase,
		ReferenceID: pv.PurchaseID,
		PayAmount:   ob.TotalDue,
		Status:      loan.ProgressPending,
	}
	if ob.DueDate != nil {
		due := *ob.DueDate
		row.NextDueDate = &due
		days := calendar.DaysBetween(today, due)
		row.DaysRemaining = &days
	}
	return row, true
}

func typeRank(t Type) int {
	if t == TypeLoan {
		return 0
	}
	return 1
}

func compareObligations(a, b Obligation) int {
	switch {
	case a.NextDueDate == nil && b.NextDueDate != nil:
		return 1
	case a.NextDueDate != nil && b.NextDueDate == nil:
		return -1
	case a.NextDueDate != nil && b.NextDueDate != nil:
		if c := a.NextDueDate.Compare(*b.NextDueDate); c != 0 {
			return c
		}
	}
	if c := cmp.Compare(typeRank(a.Type), typeRank(b.Type)); c != 0 {
		return c
	}
	return cmp.Compare(a.ReferenceID, b.ReferenceID)
}
