package sweeper

import (
	"context"
	"log/slog"
	"time"
)

// Store is anything holding page state that can be evicted once idle.
type Store interface {
	Sweep(idle time.Duration) []string
}

// Run sweeps every store each interval until ctx is done.
func Run(ctx context.Context, interval, idle time.Duration, stores map[string]Store) {
	if interval <= 0 || idle <= 0 {
		slog.Warn("idle sweeper disabled", slog.Duration("interval", interval), slog.Duration("idle", idle))
		return
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			SweepOnce(idle, stores)
		}
	}
}

// SweepOnce runs a single pass and reports how many entries each store dropped.
func SweepOnce(idle time.Duration, stores map[string]Store) map[string]int {
	evicted := make(map[string]int, len(stores))
	for name, store := range stores {
		ids := store.Sweep(idle)
		evicted[name] = len(ids)
		if len(ids) > 0 {
			slog.Info("idle entries evicted", slog.String("store", name), slog.Int("count", len(ids)))
		}
	}
	return evicted
}
