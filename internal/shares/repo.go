package shares

import (
	"context"
	"time"
)

// Repo persists shares. Implementations enforce expiry: Get never returns a
// share whose ExpiresAt is not after now.
type Repo interface {
	// Create inserts share, returning ErrIDConflict when the id is taken.
	Create(ctx context.Context, share Share) error
	// Get returns the live share for id or ErrNotFound.
	Get(ctx context.Context, id string, now time.Time) (Share, error)
	// DeleteExpired removes shares that expired at or before now.
	DeleteExpired(ctx context.Context, now time.Time) (int64, error)
}
