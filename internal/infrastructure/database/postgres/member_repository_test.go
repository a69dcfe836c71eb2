package postgres

import (
	"context"
	"coop-collections/internal/domain/member"
	"coop-collections/internal/pkg/apperrors"
	"errors"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupMemberRepo(t *testing.T) (context.Context, *MemberRepository, pgxmock.PgxPoolIface) {
	t.Helper()
	mockPool, err := pgxmock.NewPool()
	if err != nil {
		t.Fatalf("failed to open a stub database connection: %v", err)
	}
	return context.Background(), NewMemberRepository(mockPool, logger), mockPool
}

func TestFindMemberByIDWhenSuccess(t *testing.T) {
	ctx, repo, mockPool := setupMemberRepo(t)
	defer mockPool.Close()

	created := time.Date(2024, time.June, 1, 0, 0, 0, 0, time.UTC)
	mockPool.ExpectQuery(`SELECT id, name, active, created_at, updated_at FROM members WHERE id = \$1`).
		WithArgs(int64(10)).
		WillReturnRows(pgxmock.NewRows([]string{"id", "name", "active", "created_at", "updated_at"}).
			AddRow(int64(10), "Ana Reyes", true, created, created))

	m, err := repo.FindByID(ctx, 10)
	require.NoError(t, err)
	assert.Equal(t, "Ana Reyes", m.Name)
	assert.True(t, m.Active)
	assert.NoError(t, mockPool.ExpectationsWereMet(), pgxmockExpectationsNotMetMsg)
}

func TestFindMemberByIDWhenNotFound(t *testing.T) {
	ctx, repo, mockPool := setupMemberRepo(t)
	defer mockPool.Close()

	mockPool.ExpectQuery(`FROM members WHERE id = \$1`).
		WithArgs(int64(99)).
		WillReturnError(pgx.ErrNoRows)

	_, err := repo.FindByID(ctx, 99)
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
	assert.ErrorIs(t, err, member.ErrNotFound)
	assert.NoError(t, mockPool.ExpectationsWereMet(), pgxmockExpectationsNotMetMsg)
}

func TestFindMemberByIDWhenDatabaseFails(t *testing.T) {
	ctx, repo, mockPool := setupMemberRepo(t)
	defer mockPool.Close()

	mockPool.ExpectQuery(`FROM members WHERE id = \$1`).
		WithArgs(int64(1)).
		WillReturnError(errors.New("connection reset"))

	_, err := repo.FindByID(ctx, 1)
	assert.ErrorIs(t, err, apperrors.ErrDatabase)
	assert.NoError(t, mockPool.ExpectationsWereMet(), pgxmockExpectationsNotMetMsg)
}
