package postgres

import (
	"context"
	"coop-collections/internal/domain/notice"
	"coop-collections/internal/pkg/apperrors"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const recordNoticeSQL = `INSERT INTO notices \(member_id, title, message, reference_type, reference_id, due_date, days_overdue, created_at\)`

func setupNoticeRepo(t *testing.T) (context.Context, *NoticeRepository, pgxmock.PgxPoolIface) {
	t.Helper()
	mockPool, err := pgxmock.NewPool()
	if err != nil {
		t.Fatalf("failed to open a stub database connection: %v", err)
	}
	return context.Background(), NewNoticeRepository(mockPool, logger), mockPool
}

func testNotice() *notice.Notice {
	return &notice.Notice{
		MemberID:      3,
		Title:         "Overdue loan payment",
		Message:       "Ana Cruz, the payment of 520.00 for loan #7 was due on 2024-02-29 and is 5 days overdue.",
		ReferenceType: "Loan",
		ReferenceID:   7,
		DueDate:       time.Date(2024, time.February, 29, 0, 0, 0, 0, time.UTC),
		DaysOverdue:   5,
	}
}

func noticeArgs(n *notice.Notice) []any {
	return []any{n.MemberID, n.Title, n.Message, n.ReferenceType, n.ReferenceID, n.DueDate, n.DaysOverdue}
}

func TestRecordNoticeWhenNew(t *testing.T) {
	ctx, repo, mockPool := setupNoticeRepo(t)
	defer mockPool.Close()

	n := testNotice()
	created := time.Date(2024, time.March, 5, 2, 0, 0, 0, time.UTC)
	mockPool.ExpectQuery(recordNoticeSQL).
		WithArgs(noticeArgs(n)...).
		WillReturnRows(pgxmock.NewRows([]string{"id", "created_at"}).AddRow(int64(90), created))

	ok, err := repo.Record(ctx, n)

	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, int64(90), n.ID)
	assert.Equal(t, created, n.CreatedAt)
	assert.NoError(t, mockPool.ExpectationsWereMet(), pgxmockExpectationsNotMetMsg)
}

func TestRecordNoticeWhenDuplicate(t *testing.T) {
	ctx, repo, mockPool := setupNoticeRepo(t)
	defer mockPool.Close()

	n := testNotice()
	mockPool.ExpectQuery(recordNoticeSQL).
		WithArgs(noticeArgs(n)...).
		WillReturnError(pgx.ErrNoRows)

	ok, err := repo.Record(ctx, n)

	require.NoError(t, err)
	assert.False(t, ok)
	assert.NoError(t, mockPool.ExpectationsWereMet(), pgxmockExpectationsNotMetMsg)
}

func TestRecordNoticeWhenMemberMissing(t *testing.T) {
	ctx, repo, mockPool := setupNoticeRepo(t)
	defer mockPool.Close()

	n := testNotice()
	mockPool.ExpectQuery(recordNoticeSQL).
		WithArgs(noticeArgs(n)...).
		WillReturnError(&pgconn.PgError{Code: "23503", ConstraintName: "notices_member_id_fkey"})

	ok, err := repo.Record(ctx, n)

	assert.False(t, ok)
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
	assert.NoError(t, mockPool.ExpectationsWereMet(), pgxmockExpectationsNotMetMsg)
}
