package services

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupRateLimitTest(t *testing.T) (*RateLimitService, *time.Time) {
	t.Helper()

	now := time.Date(2024, 6, 3, 10, 0, 0, 0, time.UTC)
	svc := NewRateLimitService(newTestStore(t), RateLimitConfig{
		MaxFailedAttempts: 3,
		Window:            10 * time.Minute,
	}, testLogger())
	svc.now = func() time.Time { return now }
	return svc, &now
}

func TestRateLimit_AllowsUntilLimit(t *testing.T) {
	svc, now := setupRateLimitTest(t)
	ctx := context.Background()
	ip := "192.168.1.20"

	for i := 0; i < 3; i++ {
		id, err := svc.BeginAttempt(ctx, "payroll", ip)
		require.NoError(t, err)
		assert.NotZero(t, id)
		*now = now.Add(time.Minute)
	}

	_, err := svc.BeginAttempt(ctx, "payroll", ip)
	require.Error(t, err)
	assert.Equal(t, KindRateLimited, KindOf(err))
	assert.Contains(t, err.Error(), "Too many failed attempts")

	var limited *RateLimitError
	require.True(t, errors.As(err, &limited))
	assert.Equal(t, "payroll", limited.Scope)
	// oldest failure at 10:00, window 10m, now 10:03
	assert.Equal(t, 7*60, limited.RetryAfterSeconds())

	t.Run("Other scope and other client unaffected", func(t *testing.T) {
		_, err := svc.BeginAttempt(ctx, "expenses", ip)
		assert.NoError(t, err)
		_, err = svc.BeginAttempt(ctx, "payroll", "192.168.1.21")
		assert.NoError(t, err)
	})

	t.Run("Window slides", func(t *testing.T) {
		*now = time.Date(2024, 6, 3, 10, 10, 30, 0, time.UTC)
		_, err := svc.BeginAttempt(ctx, "payroll", ip)
		assert.NoError(t, err)
	})
}

func TestRateLimit_SuccessClearsFailures(t *testing.T) {
	svc, _ := setupRateLimitTest(t)
	ctx := context.Background()
	ip := "10.1.1.1"

	for i := 0; i < 3; i++ {
		_, err := svc.BeginAttempt(ctx, "expenses", ip)
		require.NoError(t, err)
	}
	_, err := svc.BeginAttempt(ctx, "expenses", ip)
	require.Error(t, err)

	require.NoError(t, svc.RecordSuccess(ctx, "expenses", ip))
	_, err = svc.BeginAttempt(ctx, "expenses", ip)
	assert.NoError(t, err)
}

func TestRateLimit_ReleasedAttemptsDoNotCount(t *testing.T) {
	svc, _ := setupRateLimitTest(t)
	ctx := context.Background()

	for i := 0; i < 5; i++ {
		id, err := svc.BeginAttempt(ctx, "payroll", "10.2.2.2")
		require.NoError(t, err)
		require.NoError(t, svc.ReleaseAttempt(ctx, id))
	}
}

func TestRateLimit_ConcurrentAttemptsRespectLimit(t *testing.T) {
	svc, _ := setupRateLimitTest(t)
	ctx := context.Background()

	var (
		wg      sync.WaitGroup
		mu      sync.Mutex
		allowed int
		limited int
	)
	for i := 0; i < 12; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := svc.BeginAttempt(ctx, "expenses", "10.3.3.3")
			mu.Lock()
			defer mu.Unlock()
			switch {
			case err == nil:
				allowed++
			case KindOf(err) == KindRateLimited:
				limited++
			default:
				t.Errorf("unexpected error: %v", err)
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, 3, allowed)
	assert.Equal(t, 9, limited)
}

func TestRateLimit_CleanupExpired(t *testing.T) {
	svc, now := setupRateLimitTest(t)
	ctx := context.Background()

	for _, ip := range []string{"a", "b"} {
		_, err := svc.BeginAttempt(ctx, "payroll", ip)
		require.NoError(t, err)
	}
	*now = now.Add(11 * time.Minute)
	_, err := svc.BeginAttempt(ctx, "payroll", "c")
	require.NoError(t, err)

	removed, err := svc.CleanupExpired(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(2), removed)
}

func TestRateLimitError_RetryAfterSecondsFloor(t *testing.T) {
	now := time.Now()
	e := &RateLimitError{Scope: "payroll", RetryAfter: now.Add(-time.Second), now: now}
	assert.Equal(t, 1, e.RetryAfterSeconds())
	assert.Contains(t, e.Error(), "payroll")
}

func TestRateLimit_ClosedStore(t *testing.T) {
	store := newTestStore(t)
	svc := NewRateLimitService(store, DefaultRateLimitConfig(), testLogger())
	require.NoError(t, store.Close())

	_, err := svc.BeginAttempt(context.Background(), "payroll", "1.1.1.1")
	assert.Equal(t, KindStoreUnavailable, KindOf(err))
}
