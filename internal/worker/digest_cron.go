package worker

import (
	"context"
	"time"

	"github.com/rs/zerolog/log"
)

// StartDigestCron enqueues a digest job on a fixed interval. The first run
// fires one interval after startup, not immediately, so restarts don't spam
// the recipient.
func StartDigestCron(ctx context.Context, dispatcher *Dispatcher, intervalHours int) {
	if intervalHours <= 0 {
		log.Info().Msg("digest cron disabled (interval <= 0)")
		return
	}
	interval := time.Duration(intervalHours) * time.Hour

	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		log.Info().Str("interval", interval.String()).Msg("digest cron started")
		for {
			select {
			case <-ctx.Done():
				log.Info().Msg("digest cron shutting down")
				return
			case <-ticker.C:
				if err := dispatcher.EnqueueDigest(ctx); err != nil {
					log.Error().Err(err).Msg("digest cron failed to enqueue job")
				}
			}
		}
	}()
}
