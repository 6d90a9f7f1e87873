package shares

import (
	"context"
	"sync"
	"time"
)

// MemoryRepo is an in-memory implementation of Repo.
type MemoryRepo struct {
	mu   sync.Mutex
	data map[string]Share
}

// NewMemoryRepo constructs a MemoryRepo.
func NewMemoryRepo() *MemoryRepo {
	return &MemoryRepo{
		data: make(map[string]Share),
	}
}

// Create stores share unless a live share already holds its id.
func (r *MemoryRepo) Create(ctx context.Context, share Share) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if existing, ok := r.data[share.ID]; ok && existing.ExpiresAt.After(share.CreatedAt) {
		return ErrIDConflict
	}
	share.Data = append([]byte(nil), share.Data...)
	r.data[share.ID] = share
	return nil
}

// Get returns a live share, evicting it if it has expired.
func (r *MemoryRepo) Get(ctx context.Context, id string, now time.Time) (Share, error) {
	if err := ctx.Err(); err != nil {
		return Share{}, err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	share, ok := r.data[id]
	if !ok {
		return Share{}, ErrNotFound
	}
	if !share.ExpiresAt.After(now) {
		delete(r.data, id)
		return Share{}, ErrNotFound
	}
	share.Data = append([]byte(nil), share.Data...)
	return share, nil
}

// DeleteExpired evicts every expired share.
func (r *MemoryRepo) DeleteExpired(ctx context.Context, now time.Time) (int64, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	var n int64
	for id, share := range r.data {
		if !share.ExpiresAt.After(now) {
			delete(r.data, id)
			n++
		}
	}
	return n, nil
}

var _ Repo = (*MemoryRepo)(nil)
