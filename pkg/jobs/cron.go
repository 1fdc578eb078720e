// Package jobs schedules background maintenance work.
package jobs

import (
	"context"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/qwikplan/backend/pkg/logger"
	"github.com/qwikplan/backend/pkg/quota"
)

// CronManager manages scheduled jobs
type CronManager struct {
	cron   *cron.Cron
	ledger *quota.Ledger
	log    logger.Logger
}

// NewCronManager creates a new cron manager
func NewCronManager(ledger *quota.Ledger, log logger.Logger) *CronManager {
	if log == nil {
		log = logger.Default()
	}

	return &CronManager{
		cron:   cron.New(),
		ledger: ledger,
		log:    log,
	}
}

// SetupJobs configures all scheduled jobs
func (cm *CronManager) SetupJobs() error {
	// Daily at 2 AM: reset usage counters whose 30-day window elapsed
	_, err := cm.cron.AddFunc("0 2 * * *", func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
		defer cancel()

		reset, err := cm.ledger.ResetStale(ctx)
		if err != nil {
			cm.log.Error("usage reset job failed", "error", err)
			return
		}

		if reset > 0 {
			cm.log.Info("usage counters reset", "profiles", reset)
		}
	})

	return err
}

// Start begins running scheduled jobs
func (cm *CronManager) Start() {
	cm.cron.Start()
}

// Stop stops the scheduler, waiting for running jobs
func (cm *CronManager) Stop() {
	ctx := cm.cron.Stop()
	<-ctx.Done()
}
