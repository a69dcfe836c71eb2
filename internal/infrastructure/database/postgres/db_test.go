package postgres

import (
	"coop-collections/internal/pkg/apperrors"
	"errors"
	"log/slog"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTranslateDBError(t *testing.T) {
	logger := slog.New(slog.DiscardHandler)

	t.Run("nil stays nil", func(t *testing.T) {
		assert.NoError(t, translateDBError(nil, logger))
	})

	t.Run("no rows is not found", func(t *testing.T) {
		assert.ErrorIs(t, translateDBError(pgx.ErrNoRows, logger), apperrors.ErrNotFound)
	})

	t.Run("unique violation is already exists", func(t *testing.T) {
		err := translateDBError(&pgconn.PgError{Code: "23505", ConstraintName: "loans_pkey"}, logger)
		assert.ErrorIs(t, err, apperrors.ErrAlreadyExists)
	})

	t.Run("foreign key violation is not found", func(t *testing.T) {
		err := translateDBError(&pgconn.PgError{Code: "23503", ConstraintName: "loans_member_id_fkey"}, logger)
		assert.ErrorIs(t, err, apperrors.ErrNotFound)
	})

	t.Run("other postgres errors carry the code", func(t *testing.T) {
		pgErr := &pgconn.PgError{Code: "57014", Message: "canceling statement due to statement timeout"}
		err := translateDBError(pgErr, logger)

		var appErr *apperrors.AppError
		require.ErrorAs(t, err, &appErr)
		assert.Equal(t, "DB_ERROR", appErr.Code)
		assert.Equal(t, "db error code 57014", appErr.Message)
		assert.ErrorIs(t, err, apperrors.ErrDatabase)

		var got *pgconn.PgError
		require.ErrorAs(t, err, &got)
		assert.Equal(t, "57014", got.Code)
	})

	t.Run("generic errors are wrapped as database errors", func(t *testing.T) {
		cause := errors.New("conn closed")
		err := translateDBError(cause, logger)

		var appErr *apperrors.AppError
		require.ErrorAs(t, err, &appErr)
		assert.Equal(t, "[DB_ERROR] database operation failed", err.Error())
		assert.ErrorIs(t, err, apperrors.ErrDatabase)
		assert.ErrorIs(t, err, cause)
	})
}
