package store

import (
	"context"
	"time"

	"go.uber.org/zap"
)

// StartSyncLogPruner trims sync log entries older than the retention
// window on a fixed interval until ctx is cancelled.
func StartSyncLogPruner(
	ctx context.Context,
	s *Store,
	interval time.Duration,
	retention time.Duration,
	log *zap.Logger,
) {
	ticker := time.NewTicker(interval)
	go func() {
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				cutoff := time.Now().Add(-retention)
				removed, err := s.PruneSyncLogs(cutoff)
				if err != nil {
					log.Error("failed to prune sync logs", zap.Error(err))
					continue
				}
				if removed > 0 {
					log.Info("pruned sync logs", zap.Int("removed", removed))
				}
			}
		}
	}()
}
