package database

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUnlockAttemptRepository(t *testing.T) {
	store := newTestStore(t)
	repo := NewUnlockAttemptRepository(store)
	ctx := context.Background()

	base := time.Date(2024, 5, 1, 9, 0, 0, 0, time.UTC)

	count, oldest, err := repo.CountSince(ctx, "10.0.0.7", "payroll", base.Add(-time.Hour))
	require.NoError(t, err)
	assert.Zero(t, count)
	assert.True(t, oldest.IsZero())

	for i := 0; i < 3; i++ {
		_, err := repo.Insert(ctx, "10.0.0.7", "payroll", base.Add(time.Duration(i)*time.Minute))
		require.NoError(t, err)
	}
	_, err = repo.Insert(ctx, "10.0.0.7", "expenses", base)
	require.NoError(t, err)
	_, err = repo.Insert(ctx, "10.0.0.8", "payroll", base)
	require.NoError(t, err)

	count, oldest, err = repo.CountSince(ctx, "10.0.0.7", "payroll", base.Add(30*time.Second))
	require.NoError(t, err)
	assert.Equal(t, 2, count)
	assert.True(t, oldest.Equal(base.Add(time.Minute)), oldest)

	require.NoError(t, repo.DeleteFor(ctx, "10.0.0.7", "payroll"))
	count, _, err = repo.CountSince(ctx, "10.0.0.7", "payroll", base.Add(-time.Hour))
	require.NoError(t, err)
	assert.Zero(t, count)

	count, _, err = repo.CountSince(ctx, "10.0.0.7", "expenses", base.Add(-time.Hour))
	require.NoError(t, err)
	assert.Equal(t, 1, count)

	removed, err := repo.DeleteBefore(ctx, base.Add(time.Second))
	require.NoError(t, err)
	assert.Equal(t, int64(2), removed)

	t.Run("DeleteByID removes one attempt", func(t *testing.T) {
		id, err := repo.Insert(ctx, "10.0.0.9", "payroll", base)
		require.NoError(t, err)
		_, err = repo.Insert(ctx, "10.0.0.9", "payroll", base)
		require.NoError(t, err)

		require.NoError(t, repo.DeleteByID(ctx, id))
		count, _, err := repo.CountSince(ctx, "10.0.0.9", "payroll", base.Add(-time.Hour))
		require.NoError(t, err)
		assert.Equal(t, 1, count)
	})
}

func TestUnlockAttemptRepository_Mock(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewUnlockAttemptRepository(sqlx.NewDb(db, "sqlmock"))
	ctx := context.Background()

	t.Run("Count error is wrapped", func(t *testing.T) {
		mock.ExpectQuery(`SELECT COUNT\(\*\) AS count, MIN\(attempted_at\) AS oldest FROM unlock_attempts`).
			WithArgs("1.2.3.4", "payroll", sqlmock.AnyArg()).
			WillReturnError(fmt.Errorf("database is locked"))

		_, _, err := repo.CountSince(ctx, "1.2.3.4", "payroll", time.Now())
		require.Error(t, err)
		assert.Contains(t, err.Error(), "failed to count unlock attempts")
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Insert stores unix milliseconds", func(t *testing.T) {
		at := time.UnixMilli(1714554000123)
		mock.ExpectExec(`INSERT INTO unlock_attempts`).
			WithArgs("1.2.3.4", "expenses", int64(1714554000123)).
			WillReturnResult(sqlmock.NewResult(1, 1))

		id, err := repo.Insert(ctx, "1.2.3.4", "expenses", at)
		require.NoError(t, err)
		assert.Equal(t, int64(1), id)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}
