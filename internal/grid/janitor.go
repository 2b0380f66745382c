package grid

// janitor.go runs periodic maintenance for a Service:
//  1. Close sessions idle for longer than the session TTL
//  2. Purge audit entries older than the audit retention
//
// The janitor is long-running and stops with its context. Failures are
// logged and retried on the next tick.

import (
	"context"
	"log/slog"
	"time"
)

// JanitorConfig holds the janitor schedule. Zero values get defaults.
type JanitorConfig struct {
	Interval       time.Duration // How often to run (default: 1m)
	AuditRetention time.Duration // Age of purged audit entries; 0 keeps them
}

// DefaultJanitorInterval is used for a zero JanitorConfig.Interval.
const DefaultJanitorInterval = time.Minute

// RunJanitor runs one maintenance pass immediately, then every
// cfg.Interval until ctx is cancelled.
func (s *Service) RunJanitor(ctx context.Context, cfg JanitorConfig) {
	if cfg.Interval <= 0 {
		cfg.Interval = DefaultJanitorInterval
	}
	slog.Info("janitor started",
		"interval", cfg.Interval.String(),
		"session_ttl", s.ttl.String(),
		"audit_retention", cfg.AuditRetention.String(),
	)

	s.runJanitorJob(ctx, cfg, time.Now())

	ticker := time.NewTicker(cfg.Interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			slog.Info("janitor stopped")
			return
		case now := <-ticker.C:
			s.runJanitorJob(ctx, cfg, now)
		}
	}
}

// runJanitorJob performs one reap and purge cycle.
func (s *Service) runJanitorJob(ctx context.Context, cfg JanitorConfig, now time.Time) {
	start := time.Now()

	if reaped := s.Reap(ctx, now); reaped > 0 {
		slog.Info("reaped idle sessions", "sessions_closed", reaped, "sessions_open", s.Len())
	}

	if cfg.AuditRetention > 0 {
		purged, err := s.audit.Purge(ctx, now.Add(-cfg.AuditRetention))
		if err != nil {
			slog.Error("audit purge failed", "error", err)
		} else if purged > 0 {
			slog.Info("purged audit entries", "entries_purged", purged)
		}
	}

	slog.Debug("janitor job completed", "duration_ms", time.Since(start).Milliseconds())
}
