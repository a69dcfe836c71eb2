package postgres

import (
	"context"
	"coop-collections/internal/domain/member"
	"coop-collections/internal/pkg/apperrors"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/jackc/pgx/v5"
)

type MemberRepository struct {
	db     DBPool
	logger *slog.Logger
}

var _ member.MemberRepository = (*MemberRepository)(nil)

func NewMemberRepository(db DBPool, logger *slog.Logger) *MemberRepository {
	if db == nil {
		panic("DBPool cannot be nil for MemberRepository")
	}
	return &MemberRepository{
		db:     db,
		logger: logger.With("component", "MemberRepository"),
	}
}

func (r *MemberRepository) FindByID(ctx context.Context, memberID int64) (*member.Member, error) {
	query := `
        SELECT id, name, active, created_at, updated_at
        FROM members
        WHERE id = $1`

	start := time.Now()
	var m member.Member
	err := r.db.QueryRow(ctx, query, memberID).Scan(
		&m.MemberID,
		&m.Name,
		&m.Active,
		&m.CreateDate,
		&m.UpdatedAt,
	)
	timed("FindMemberByID", start, err)

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			r.logger.WarnContext(ctx, "Member not found", slog.Int64("memberID", memberID))
			return nil, fmt.Errorf(errMsgFormat, apperrors.ErrNotFound, member.ErrNotFound)
		}
		r.logger.ErrorContext(ctx, "Failed to find member by ID", slog.Int64("memberID", memberID), slog.Any("error", err))
		return nil, fmt.Errorf("%w: failed to find member: %w", apperrors.ErrDatabase, err)
	}
	return &m, nil
}
