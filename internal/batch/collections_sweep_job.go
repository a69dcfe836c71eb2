package batch

import (
	"context"
	"coop-collections/internal/domain/obligation"
	"coop-collections/internal/event"
	"coop-collections/internal/infrastructure/monitoring"
	"coop-collections/internal/pkg/calendar"
	"coop-collections/internal/pkg/money"
	"fmt"
	"log/slog"
	"time"
)

type CollectionsSweepJob struct {
	obligations obligation.ObligationService
	publisher   event.Publisher
	graceDays   int
	now         func() time.Time
	logger      *slog.Logger
}

// NewCollectionsSweepJob wires the sweep. publisher may be nil, in which case
// overdue rows are only counted.
func NewCollectionsSweepJob(
	obligations obligation.ObligationService,
	publisher event.Publisher,
	graceDays int,
	logger *slog.Logger,
) *CollectionsSweepJob {
	if obligations == nil || logger == nil {
		panic("CollectionsSweepJob dependencies cannot be nil")
	}
	return &CollectionsSweepJob{
		obligations: obligations,
		publisher:   publisher,
		graceDays:   max(0, graceDays),
		now:         time.Now,
		logger:      logger.With("job", "CollectionsSweep"),
	}
}

type sweepCounts struct {
	open    int
	overdue int
}

func (j *CollectionsSweepJob) Run(ctx context.Context) error {
	startTime := time.Now()
	j.logger.InfoContext(ctx, "Starting collections sweep.")

	rows, err := j.obligations.ListObligations(ctx)
	if err != nil {
		j.logger.ErrorContext(ctx, "Failed to aggregate obligations, aborting sweep.", slog.Any("error", err))
		return fmt.Errorf("cannot run sweep, failed to aggregate obligations: %w", err)
	}

	counts := map[obligation.Type]*sweepCounts{
		obligation.TypeLoan:     {},
		obligation.TypePurchase: {},
	}
	var noticed, published, failed, degraded int

	for _, row := range rows {
		c := counts[row.Type]
		if row.NextDueDate != nil {
			c.open++
		}
		if row.Degraded {
			degraded++
		}
		if !row.Overdue() {
			continue
		}
		c.overdue++

		daysOverdue := -*row.DaysRemaining
		if daysOverdue <= j.graceDays {
			continue
		}
		noticed++
		if j.publisher == nil {
			continue
		}
		if err := j.publishOverdue(ctx, row, daysOverdue); err != nil {
			failed++
			continue
		}
		published++
	}

	for t, c := range counts {
		monitoring.SetObligationCounts(string(t), c.open, c.overdue)
	}

	summaryLog := j.logger.With(
		slog.Duration("duration", time.Since(startTime)),
		slog.Int("rows", len(rows)),
		slog.Int("open_loans", counts[obligation.TypeLoan].open),
		slog.Int("overdue_loans", counts[obligation.TypeLoan].overdue),
		slog.Int("open_purchases", counts[obligation.TypePurchase].open),
		slog.Int("overdue_purchases", counts[obligation.TypePurchase].overdue),
		slog.Int("past_grace", noticed),
		slog.Int("notices_published", published),
		slog.Int("notices_failed", failed),
		slog.Int("degraded_rows", degraded),
	)
	if failed > 0 {
		summaryLog.WarnContext(ctx, "Collections sweep finished with errors.")
		return fmt.Errorf("sweep completed with %d failed overdue notices", failed)
	}
	summaryLog.InfoContext(ctx, "Collections sweep finished successfully.")
	return nil
}

func (j *CollectionsSweepJob) publishOverdue(ctx context.Context, row obligation.Obligation, daysOverdue int) error {
	logCtx := j.logger.With(slog.String("type", string(row.Type)), slog.Int64("referenceID", row.ReferenceID))

	evt := event.ObligationOverdueEvent{
		MemberID:    row.MemberID,
		MemberName:  row.MemberName,
		Type:        string(row.Type),
		ReferenceID: row.ReferenceID,
		PayAmount:   money.Format(row.PayAmount),
		DueDate:     calendar.Format(*row.NextDueDate),
		DaysOverdue: daysOverdue,
		Timestamp:   j.now(),
	}
	if err := j.publisher.PublishObligationOverdue(ctx, evt); err != nil {
		logCtx.ErrorContext(ctx, "Failed to publish overdue notice", slog.Any("error", err))
		monitoring.RecordOverdueNotice("failure")
		return err
	}
	logCtx.DebugContext(ctx, "Published overdue notice", slog.Int("daysOverdue", daysOverdue))
	monitoring.RecordOverdueNotice("success")
	return nil
}
