package jobs

import (
	"context"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

// TokenPurger removes expired blacklist entries.
type TokenPurger interface {
	PurgeExpired(ctx context.Context) (int64, error)
}

// StartBlacklistPurge sweeps expired blacklist rows hourly. Lookups already
// ignore expired entries; the sweep just keeps the table small. The returned
// cron must be stopped on shutdown.
func StartBlacklistPurge(purger TokenPurger, logger *zap.Logger) *cron.Cron {
	c := cron.New()
	_, _ = c.AddFunc("@hourly", func() {
		purged, err := purger.PurgeExpired(context.Background())
		if err != nil {
			logger.Error("Blacklist purge failed", zap.Error(err))
			return
		}
		if purged > 0 {
			logger.Info("Purged expired blacklisted tokens", zap.Int64("count", purged))
		}
	})
	c.Start()
	return c
}
