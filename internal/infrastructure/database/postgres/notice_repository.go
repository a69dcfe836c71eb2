package postgres

import (
	"context"
	"coop-collections/internal/domain/notice"
	"errors"
	"log/slog"
	"time"

	"github.com/jackc/pgx/v5"
)

type NoticeRepository struct {
	db     DBPool
	logger *slog.Logger
}

var _ notice.Repository = (*NoticeRepository)(nil)

func NewNoticeRepository(db DBPool, logger *slog.Logger) *NoticeRepository {
	if db == nil {
		panic("DBPool cannot be nil for NoticeRepository")
	}
	return &NoticeRepository{
		db:     db,
		logger: logger.With("component", "NoticeRepository"),
	}
}

func (r *NoticeRepository) Record(ctx context.Context, n *notice.Notice) (bool, error) {
	logCtx := r.logger.With(slog.String("referenceType", n.ReferenceType), slog.Int64("referenceID", n.ReferenceID))

	query := `
        INSERT INTO notices (member_id, title, message, reference_type, reference_id, due_date, days_overdue, created_at)
        VALUES ($1, $2, $3, $4, $5, $6, $7, NOW())
        ON CONFLICT (reference_type, reference_id, due_date) DO NOTHING
        RETURNING id, created_at`

	start := time.Now()
	err := r.db.QueryRow(ctx, query,
		n.MemberID,
		n.Title,
		n.Message,
		n.ReferenceType,
		n.ReferenceID,
		n.DueDate,
		n.DaysOverdue,
	).Scan(&n.ID, &n.CreatedAt)
	timed("RecordNotice", start, err)

	if errors.Is(err, pgx.ErrNoRows) {
		logCtx.DebugContext(ctx, "Notice already recorded for this due date")
		return false, nil
	}
	if err != nil {
		return false, translateDBError(err, logCtx)
	}

	logCtx.InfoContext(ctx, "Notice recorded", slog.Int64("noticeID", n.ID))
	return true, nil
}
