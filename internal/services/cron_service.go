package services

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"
	"github.com/staffrevenue/revenue-manager/internal/config"
	"github.com/staffrevenue/revenue-manager/pkg/validator"
)

// CronService manages scheduled background jobs
type CronService struct {
	cron        *cron.Cron
	incomeSvc   *IncomeService
	rateLimiter *RateLimitService
	logger      logrus.FieldLogger
	today       func() string
}

// NewCronService creates a new CronService. rateLimiter may be nil.
func NewCronService(incomeSvc *IncomeService, rateLimiter *RateLimitService, logger logrus.FieldLogger) *CronService {
	// Create cron with seconds precision
	c := cron.New(cron.WithSeconds())

	return &CronService{
		cron:        c,
		incomeSvc:   incomeSvc,
		rateLimiter: rateLimiter,
		logger:      logger,
		today:       validator.Today,
	}
}

// Start schedules the close-of-day report and the unlock attempt cleanup.
// An empty schedule disables its job.
func (s *CronService) Start(jobs config.JobsConfig) error {
	scheduled := 0

	// Cron format: second minute hour day month weekday
	// "0 55 23 * * *" = At 23:55 every day
	if jobs.DailyReportSchedule != "" {
		if _, err := s.cron.AddFunc(jobs.DailyReportSchedule, s.dailyReportJob); err != nil {
			return fmt.Errorf("failed to schedule daily report job: %w", err)
		}
		s.logger.WithField("schedule", jobs.DailyReportSchedule).Info("✓ Scheduled: Daily income report")
		scheduled++
	}

	// "0 0 * * * *" = At the top of every hour
	if jobs.UnlockCleanupSchedule != "" && s.rateLimiter != nil {
		if _, err := s.cron.AddFunc(jobs.UnlockCleanupSchedule, s.unlockCleanupJob); err != nil {
			return fmt.Errorf("failed to schedule unlock attempt cleanup job: %w", err)
		}
		s.logger.WithField("schedule", jobs.UnlockCleanupSchedule).Info("✓ Scheduled: Unlock attempt cleanup")
		scheduled++
	}

	if scheduled == 0 {
		s.logger.Info("No background jobs scheduled")
		return nil
	}

	s.cron.Start()
	s.logger.Info("✓ Cron service started successfully")

	return nil
}

// Stop stops all cron jobs and waits for a running job to finish
func (s *CronService) Stop() {
	s.logger.Info("Stopping cron service...")
	ctx := s.cron.Stop()
	<-ctx.Done()
	s.logger.Info("✓ Cron service stopped")
}

// dailyReportJob logs today's income line. Failures are logged, never retried.
func (s *CronService) dailyReportJob() {
	startTime := time.Now()
	date := s.today()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	days, err := s.incomeSvc.Summary(ctx, date, date)
	if err != nil {
		s.logger.WithError(err).WithField("date", date).Error("[CRON ERROR] Daily income report failed")
		return
	}

	day := Totals(days)
	s.logger.WithFields(logrus.Fields{
		"date":           date,
		"gross_cents":    day.GrossCents,
		"wages_cents":    day.WagesCents,
		"rent_cents":     day.RentAllocatedCents,
		"expenses_cents": day.ExpensesCents,
		"gst_cents":      day.GSTCents,
		"net_cents":      day.NetCents,
		"has_activity":   len(days) > 0,
		"duration":       time.Since(startTime).String(),
	}).Info("[CRON] Daily income report")
}

// unlockCleanupJob drops failed unlock attempts that left the throttling window
func (s *CronService) unlockCleanupJob() {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	removed, err := s.rateLimiter.CleanupExpired(ctx)
	if err != nil {
		s.logger.WithError(err).Error("[CRON ERROR] Unlock attempt cleanup failed")
		return
	}
	if removed > 0 {
		s.logger.WithField("removed", removed).Info("[CRON] Expired unlock attempts removed")
	}
}
