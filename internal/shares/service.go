package shares

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"profile-extractor/internal/shared/metrics"
	"profile-extractor/internal/shared/telemetry"
)

const (
	// DefaultTTL is how long a share stays readable.
	DefaultTTL = 30 * 24 * time.Hour
	// maxCreateAttempts bounds id regeneration on collisions.
	maxCreateAttempts = 5
)

// Service contains business logic for shares. Expiry is enforced by Repo.
type Service struct {
	Repo  Repo
	TTL   time.Duration
	Now   func() time.Time
	NewID func() (string, error)
}

// NewService constructs a Service with the default clock and id generator.
func NewService(repo Repo, ttl time.Duration) *Service {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Service{Repo: repo, TTL: ttl, Now: time.Now, NewID: NewID}
}

// Create stores data under a fresh id and returns the id.
func (s *Service) Create(ctx context.Context, data json.RawMessage) (string, error) {
	if len(data) == 0 || !json.Valid(data) {
		return "", ErrInvalidInput
	}

	for attempt := 1; attempt <= maxCreateAttempts; attempt++ {
		id, err := s.newID()
		if err != nil {
			return "", fmt.Errorf("%w: %v", ErrCreationFailed, err)
		}
		now := s.now()
		share := Share{
			ID:        id,
			Data:      data,
			CreatedAt: now,
			ExpiresAt: now.Add(s.ttl()),
		}
		err = s.Repo.Create(ctx, share)
		if err == nil {
			metrics.IncShareCreated()
			telemetry.Info("share.created", map[string]any{
				"share_id":   id,
				"size_bytes": len(data),
				"expires_at": share.ExpiresAt,
				"attempt":    attempt,
			})
			return id, nil
		}
		if !errors.Is(err, ErrIDConflict) {
			return "", fmt.Errorf("%w: %v", ErrCreationFailed, err)
		}
		telemetry.Warn("share.id_conflict", map[string]any{"share_id": id, "attempt": attempt})
	}
	return "", fmt.Errorf("%w: no unique id after %d attempts", ErrCreationFailed, maxCreateAttempts)
}

// Get returns the stored data for id.
func (s *Service) Get(ctx context.Context, id string) (json.RawMessage, error) {
	if !ValidID(id) {
		metrics.IncShareNotFound()
		return nil, ErrNotFound
	}
	share, err := s.Repo.Get(ctx, id, s.now())
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			metrics.IncShareNotFound()
		}
		return nil, err
	}
	metrics.IncShareRead()
	return share.Data, nil
}

// Sweep deletes expired shares and returns how many were removed.
func (s *Service) Sweep(ctx context.Context) (int64, error) {
	n, err := s.Repo.DeleteExpired(ctx, s.now())
	if err != nil {
		return 0, err
	}
	metrics.AddSharesExpired(n)
	return n, nil
}

func (s *Service) now() time.Time {
	if s.Now != nil {
		return s.Now().UTC()
	}
	return time.Now().UTC()
}

func (s *Service) ttl() time.Duration {
	if s.TTL > 0 {
		return s.TTL
	}
	return DefaultTTL
}

func (s *Service) newID() (string, error) {
	if s.NewID != nil {
		return s.NewID()
	}
	return NewID()
}
