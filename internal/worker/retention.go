// Package worker runs the recurring background jobs of the service.
package worker

import (
	"context"
	"errors"
	"time"

	"github.com/clinicapp/clinic-backend/internal/service"
	redisclient "github.com/clinicapp/clinic-backend/pkg/redis"
	"go.uber.org/zap"
)

const sweepLockName = "notification-sweep"

// RetentionSweeper periodically deletes read notifications older than the
// retention horizon. A redis lock makes each pass single-flight across
// instances; a pass skipped because another instance holds the lock is
// normal.
type RetentionSweeper struct {
	notifications *service.NotificationService
	locker        redisclient.Locker
	retention     time.Duration
	interval      time.Duration
	log           *zap.Logger
}

func NewRetentionSweeper(
	notifications *service.NotificationService,
	locker redisclient.Locker,
	retentionDays int,
	interval time.Duration,
	log *zap.Logger,
) *RetentionSweeper {
	return &RetentionSweeper{
		notifications: notifications,
		locker:        locker,
		retention:     time.Duration(retentionDays) * 24 * time.Hour,
		interval:      interval,
		log:           log,
	}
}

// Run sweeps once immediately and then on every tick until ctx is cancelled.
func (w *RetentionSweeper) Run(ctx context.Context) {
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	w.sweep(ctx)
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			w.sweep(ctx)
		}
	}
}

func (w *RetentionSweeper) sweep(ctx context.Context) {
	err := w.locker.WithLock(ctx, sweepLockName, func(ctx context.Context) error {
		before := time.Now().Add(-w.retention)
		_, err := w.notifications.SweepRetention(ctx, before)
		return err
	})
	switch {
	case errors.Is(err, redisclient.ErrLockNotAcquired):
		w.log.Debug("retention sweep skipped, another instance holds the lock")
	case err != nil:
		w.log.Error("retention sweep failed", zap.Error(err))
	}
}
