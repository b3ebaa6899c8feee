// Package scheduler runs the unattended batch publish on a fixed interval.
package scheduler

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/dkoval/postline/internal/service"
)

// BatchPublisher is the batch operation the scheduler drives.
type BatchPublisher interface {
	PublishDue(ctx context.Context, now time.Time) ([]service.Outcome, error)
}

// Start launches the periodic batch publish loop. Each tick publishes every
// due post and logs a summary; a failed run is only logged, the next tick
// retries. The loop stops when ctx is cancelled.
func Start(
	ctx context.Context,
	publisher BatchPublisher,
	interval time.Duration,
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
				outcomes, err := publisher.PublishDue(ctx, time.Now())
				if err != nil {
					log.Error("failed to process scheduled posts", zap.Error(err))
					continue
				}
				var posted, skipped, failed int
				for _, o := range outcomes {
					switch {
					case o.Success:
						posted++
					case o.Skipped:
						skipped++
					default:
						failed++
					}
				}
				if len(outcomes) > 0 {
					log.Info("processed scheduled posts",
						zap.Int("processed", len(outcomes)),
						zap.Int("posted", posted),
						zap.Int("skipped", skipped),
						zap.Int("failed", failed),
					)
				}
			}
		}
	}()
}
