package database

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/staffrevenue/revenue-manager/internal/config"
	"github.com/staffrevenue/revenue-manager/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func memoryConfig() config.DatabaseConfig {
	return config.DatabaseConfig{
		Path: "file:" + uuid.NewString() + "?mode=memory&cache=shared",
	}
}

func newTestStore(t *testing.T) *Store {
	t.Helper()

	store, err := Open(memoryConfig())
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	return store
}

func TestBuildDSN(t *testing.T) {
	t.Run("File", func(t *testing.T) {
		dsn := BuildDSN("data/staff.db", 5000)
		assert.Equal(t, "file:data/staff.db?_foreign_keys=on&_busy_timeout=5000&_txlock=immediate&_journal_mode=WAL", dsn)
	})

	t.Run("Memory URI", func(t *testing.T) {
		dsn := BuildDSN("file:abc?mode=memory&cache=shared", 5000)
		assert.Equal(t, "file:abc?mode=memory&cache=shared&_foreign_keys=on&_txlock=immediate", dsn)
	})
}

func TestOpen(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	assert.True(t, store.IsReady())
	assert.Equal(t, StateReady, store.State())
	require.NoError(t, store.Ping(ctx))

	version, err := SchemaVersion(store.DB())
	require.NoError(t, err)
	assert.Equal(t, LatestSchemaVersion, version)

	var foreignKeys int
	require.NoError(t, store.GetContext(ctx, &foreignKeys, `PRAGMA foreign_keys`))
	assert.Equal(t, 1, foreignKeys)

	t.Run("Default settings are seeded", func(t *testing.T) {
		settings := NewSettingRepository(store)
		values, err := settings.GetMany(ctx, "payroll_password", "expenses_pin", "rent_amount_cents", "rent_period")
		require.NoError(t, err)
		assert.Equal(t, map[string]string{
			"payroll_password":  "admin123",
			"expenses_pin":      "100910",
			"rent_amount_cents": "40000",
			"rent_period":       "daily",
		}, values)
	})

	t.Run("Migrations are idempotent", func(t *testing.T) {
		require.NoError(t, RunMigrations(store.DB()))
	})
}

func TestOpen_EmptyPath(t *testing.T) {
	store, err := Open(config.DatabaseConfig{})
	assert.Error(t, err)
	assert.Nil(t, store)
}

func TestStore_Closed(t *testing.T) {
	store, err := Open(memoryConfig())
	require.NoError(t, err)
	require.NoError(t, store.Close())
	ctx := context.Background()

	assert.Equal(t, StateClosed, store.State())
	assert.False(t, store.IsReady())

	var n int
	assert.ErrorIs(t, store.GetContext(ctx, &n, `SELECT 1`), ErrStoreUnavailable)
	assert.ErrorIs(t, store.SelectContext(ctx, &[]int{}, `SELECT 1`), ErrStoreUnavailable)
	_, err = store.ExecContext(ctx, `SELECT 1`)
	assert.ErrorIs(t, err, ErrStoreUnavailable)
	assert.ErrorIs(t, store.Ping(ctx), ErrStoreUnavailable)

	called := false
	err = store.WithTx(ctx, func(_ *sqlx.Tx) error {
		called = true
		return nil
	})
	assert.ErrorIs(t, err, ErrStoreUnavailable)
	assert.False(t, called)

	assert.True(t, IsUnavailable(err))
	assert.NoError(t, store.Close())
}

func TestStore_WithTxRollsBack(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	staff := NewStaffRepository(store)

	err := store.WithTx(ctx, func(tx *sqlx.Tx) error {
		if _, err := staff.WithTx(tx).Insert(ctx, "Anna"); err != nil {
			return err
		}
		return errors.New("abort")
	})
	assert.EqualError(t, err, "abort")

	list, err := staff.List(ctx, true)
	require.NoError(t, err)
	assert.Empty(t, list)
}

func TestConstraintClassification(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	staff := NewStaffRepository(store)

	_, err := staff.Insert(ctx, "Anna")
	require.NoError(t, err)

	t.Run("Unique", func(t *testing.T) {
		_, err := staff.Insert(ctx, "Anna")
		require.Error(t, err)
		assert.True(t, IsUniqueViolation(err))
		assert.False(t, IsForeignKeyViolation(err))
	})

	t.Run("Foreign key", func(t *testing.T) {
		entries := NewEntryRepository(store)
		_, err := entries.Insert(ctx, models.CreateEntryInput{
			StaffID: 999, AmountCents: 100, WorkDate: "2024-01-01", PaymentMethod: "card",
		})
		require.Error(t, err)
		assert.True(t, IsForeignKeyViolation(err))
		assert.False(t, IsUniqueViolation(err))
	})

	t.Run("Check", func(t *testing.T) {
		entries := NewEntryRepository(store)
		_, err := entries.Insert(ctx, models.CreateEntryInput{
			StaffID: 1, AmountCents: 100, WorkDate: "2024-01-01", PaymentMethod: "bitcoin",
		})
		require.Error(t, err)
		assert.True(t, IsCheckViolation(err))
	})

	t.Run("Plain errors", func(t *testing.T) {
		assert.False(t, IsUniqueViolation(errors.New("boom")))
		assert.False(t, IsUnavailable(nil))
	})
}
