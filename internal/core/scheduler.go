package core

// scheduler.go retries failed saves in the background.
//
// Saves happen synchronously after every mutation. When one fails the
// service is marked dirty and keeps serving from memory; the flush
// scheduler then retries on a fixed interval until a save succeeds.
// It stops when its context is cancelled and does one final flush attempt.

import (
	"context"
	"log/slog"
	"time"
)

// DefaultFlushInterval is used when no interval is configured.
const DefaultFlushInterval = 30 * time.Second

// StartFlushScheduler runs until ctx is cancelled, retrying dirty saves
// every interval.
func (s *Service) StartFlushScheduler(ctx context.Context, interval time.Duration) {
	if interval <= 0 {
		interval = DefaultFlushInterval
	}
	slog.Info("flush scheduler started", "interval", interval.String())

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			s.runFlushJob(context.WithoutCancel(ctx))
			slog.Info("flush scheduler stopped")
			return
		case <-ticker.C:
			s.runFlushJob(ctx)
		}
	}
}

// runFlushJob performs one flush attempt.
func (s *Service) runFlushJob(ctx context.Context) {
	if !s.Dirty() {
		return
	}

	start := time.Now()
	if err := s.Flush(ctx); err != nil {
		slog.Error("flush failed", "error", err)
		return
	}
	slog.Info("pending records flushed", "duration_ms", time.Since(start).Milliseconds())
}
