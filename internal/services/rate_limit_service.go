package services

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/sirupsen/logrus"
	"github.com/staffrevenue/revenue-manager/internal/database"
)

// RateLimitService throttles failed payroll password and expenses PIN checks
type RateLimitService struct {
	store    *database.Store
	attempts *database.UnlockAttemptRepository
	config   RateLimitConfig
	logger   logrus.FieldLogger
	now      func() time.Time
}

// RateLimitConfig holds rate limiting configuration
type RateLimitConfig struct {
	MaxFailedAttempts int           // failed checks allowed per client and scope
	Window            time.Duration // sliding window the failures are counted in
}

// DefaultRateLimitConfig returns the default rate limit configuration
func DefaultRateLimitConfig() RateLimitConfig {
	return RateLimitConfig{
		MaxFailedAttempts: 5,                // 5 failures
		Window:            15 * time.Minute, // per 15 minutes
	}
}

// NewRateLimitService creates a new rate limit service
func NewRateLimitService(store *database.Store, config RateLimitConfig, logger logrus.FieldLogger) *RateLimitService {
	return &RateLimitService{
		store:    store,
		attempts: database.NewUnlockAttemptRepository(store),
		config:   config,
		logger:   logger,
		now:      time.Now,
	}
}

// RateLimitError carries when a throttled client may try again
type RateLimitError struct {
	Scope      string
	RetryAfter time.Time
	now        time.Time
}

func (e *RateLimitError) Error() string {
	return fmt.Sprintf("too many failed %s unlock attempts, retry after %s", e.Scope, e.RetryAfter.Format("15:04:05"))
}

// RetryAfterSeconds is the wait in whole seconds, at least 1
func (e *RateLimitError) RetryAfterSeconds() int {
	secs := int(math.Ceil(e.RetryAfter.Sub(e.now).Seconds()))
	if secs < 1 {
		return 1
	}
	return secs
}

// BeginAttempt reserves one attempt for clientIP in scope. It fails with
// KindRateLimited when the client used up its attempts within the window;
// otherwise the attempt is counted as a failure until RecordSuccess or
// ReleaseAttempt says otherwise. Counting and recording share a transaction,
// so concurrent guesses cannot overshoot the limit.
func (s *RateLimitService) BeginAttempt(ctx context.Context, scope, clientIP string) (int64, error) {
	now := s.now()

	var (
		attemptID int64
		limited   *RateLimitError
		failures  int
	)
	err := s.store.WithTx(ctx, func(tx *sqlx.Tx) error {
		attempts := s.attempts.WithTx(tx)

		count, oldest, err := attempts.CountSince(ctx, clientIP, scope, now.Add(-s.config.Window))
		if err != nil {
			return err
		}
		if count >= s.config.MaxFailedAttempts {
			failures = count
			limited = &RateLimitError{Scope: scope, RetryAfter: oldest.Add(s.config.Window), now: now}
			return nil
		}

		attemptID, err = attempts.Insert(ctx, clientIP, scope, now)
		return err
	})
	if err != nil {
		return 0, storeError(err, "check unlock attempts")
	}

	if limited != nil {
		s.logger.WithFields(logrus.Fields{
			"scope":       scope,
			"ip":          clientIP,
			"failures":    failures,
			"retry_after": limited.RetryAfter.Format(time.RFC3339),
		}).Warn("Unlock attempts throttled")

		return 0, &Error{
			Kind:    KindRateLimited,
			Message: fmt.Sprintf("Too many failed attempts. Please try again after %s", limited.RetryAfter.Format("15:04:05")),
			Err:     limited,
		}
	}
	return attemptID, nil
}

// RecordSuccess forgets the client's failures in scope after a correct secret
func (s *RateLimitService) RecordSuccess(ctx context.Context, scope, clientIP string) error {
	if err := s.attempts.DeleteFor(ctx, clientIP, scope); err != nil {
		return storeError(err, "clear unlock attempts")
	}
	return nil
}

// ReleaseAttempt drops a reserved attempt whose check never reached a verdict
func (s *RateLimitService) ReleaseAttempt(ctx context.Context, attemptID int64) error {
	if err := s.attempts.DeleteByID(ctx, attemptID); err != nil {
		return storeError(err, "release unlock attempt")
	}
	return nil
}

// CleanupExpired removes attempts older than the window
func (s *RateLimitService) CleanupExpired(ctx context.Context) (int64, error) {
	removed, err := s.attempts.DeleteBefore(ctx, s.now().Add(-s.config.Window))
	if err != nil {
		return 0, storeError(err, "cleanup unlock attempts")
	}
	return removed, nil
}
