package task

import (
	"context"
	"log/slog"
	"time"

	"github.com/phrazzld/vox-api/internal/platform/metrics"
)

// Sweeper periodically removes terminal jobs whose retention window has
// elapsed. A swept job becomes indistinguishable from one that never
// existed.
type Sweeper struct {
	registry *Registry
	interval time.Duration
	logger   *slog.Logger
}

// NewSweeper creates a Sweeper running at the given interval.
func NewSweeper(registry *Registry, interval time.Duration, logger *slog.Logger) *Sweeper {
	return &Sweeper{
		registry: registry,
		interval: interval,
		logger:   logger.With("component", "retention_sweeper"),
	}
}

// Run blocks, sweeping on each tick until ctx is canceled. It is meant
// to be started on its own goroutine alongside the server.
func (s *Sweeper) Run(ctx context.Context) {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	s.logger.Info("retention sweeper started", "interval", s.interval)

	for {
		select {
		case <-ctx.Done():
			s.logger.Info("retention sweeper stopped")
			return
		case now := <-ticker.C:
			swept := s.registry.SweepExpired(now)
			if swept > 0 {
				s.logger.Info("swept expired jobs", "count", swept)
				metrics.JobsSwept.Add(float64(swept))
			}
		}
	}
}
