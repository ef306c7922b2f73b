package cron

import (
	"context"
	"log/slog"
	"time"
)

// OTPPurger removes password-reset codes that can no longer be redeemed.
type OTPPurger interface {
	PurgeExpiredOTPs(ctx context.Context) (int64, error)
}

type AuthJobs struct {
	purger OTPPurger
}

func NewAuthJobs(purger OTPPurger) *AuthJobs {
	return &AuthJobs{purger: purger}
}

func (j *AuthJobs) RegisterJobs(scheduler *Scheduler) {
	scheduler.AddJob("purge_expired_otps", 15*time.Minute, j.PurgeExpiredOTPs)
}

func (j *AuthJobs) PurgeExpiredOTPs(ctx context.Context) error {
	removed, err := j.purger.PurgeExpiredOTPs(ctx)
	if err != nil {
		return err
	}
	if removed > 0 {
		slog.Info("Cron: purged expired OTPs", "count", removed)
	}
	return nil
}
