package usecase

import (
	"context"
	"log/slog"
	"sync"
	"time"
)

// Start runs the background worker until ctx is cancelled. The worker handles one job
// at a time, taking ids from the notification FIFO in order. When retention is
// configured a pruner runs alongside it.
func (r *remediationUseCase) Start(ctx context.Context) error {
	r.logger.Info("starting remediation worker",
		slog.Int("max_attempts", r.config.MaxAttempts),
		slog.Duration("retry_delay", r.config.RetryDelay),
		slog.Duration("done_retention", r.config.DoneRetention),
	)

	var wg sync.WaitGroup
	if r.config.DoneRetention > 0 && r.config.PruneInterval > 0 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			r.runPruner(ctx)
		}()
	}
	defer wg.Wait()

	for {
		id, err := r.notifier.Pop(ctx)
		if err != nil {
			r.logger.Info("stopping remediation worker")
			return err
		}

		// Failures are already recorded by the failure policy.
		if _, err := r.ProcessJob(ctx, id); err != nil {
			r.logger.Debug("remediation attempt returned error",
				slog.String("job_id", id.String()),
				slog.Any("error", err),
			)
		}
	}
}

func (r *remediationUseCase) runPruner(ctx context.Context) {
	ticker := time.NewTicker(r.config.PruneInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			r.pruneDone()
		}
	}
}

// pruneDone drops done entries older than the retention window.
func (r *remediationUseCase) pruneDone() int {
	removed := r.queueRepo.PruneDone(r.now().Add(-r.config.DoneRetention))
	if removed > 0 {
		r.logger.Info("pruned completed remediation jobs", slog.Int("count", removed))
	}
	return removed
}
