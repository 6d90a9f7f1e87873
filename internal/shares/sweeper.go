package shares

import (
	"context"
	"time"

	"profile-extractor/internal/shared/telemetry"
)

// RunSweeper deletes expired shares every interval until ctx is done.
func RunSweeper(ctx context.Context, svc *Service, interval time.Duration) {
	if interval <= 0 {
		interval = time.Hour
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		sweepOnce(ctx, svc)
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}
	}
}

func sweepOnce(ctx context.Context, svc *Service) {
	n, err := svc.Sweep(ctx)
	if err != nil {
		if ctx.Err() == nil {
			telemetry.Warn("share.sweep_failed", map[string]any{"error": err})
		}
		return
	}
	if n > 0 {
		telemetry.Info("share.swept", map[string]any{"deleted": n})
	}
}
