package scheduler

import (
	"context"
	"time"

	"github.com/storefront/backend/internal/domain/identity"
	"go.uber.org/zap"
)

// OtpPurgeJob deletes one time passwords past their expiry
func OtpPurgeJob(otps identity.OtpRepository, interval time.Duration, now func() time.Time, logger *zap.Logger) Job {
	if now == nil {
		now = time.Now
	}
	return Job{
		Name:       "otp_purge",
		Interval:   interval,
		Timeout:    time.Minute,
		RunAtStart: true,
		Run: func(ctx context.Context) error {
			n, err := otps.DeleteExpired(ctx, now())
			if err != nil {
				return err
			}
			if n > 0 {
				logger.Info("Purged expired OTPs", zap.Int64("count", n))
			}
			return nil
		},
	}
}
