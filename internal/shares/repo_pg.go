package shares

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
)

const pgUniqueViolation = "23505"

// PGRepo implements Repo using Postgres.
type PGRepo struct {
	DB *sql.DB
}

// Create inserts a new share.
func (r *PGRepo) Create(ctx context.Context, share Share) error {
	const query = `
INSERT INTO shares (
    share_id,
    data,
    created_at,
    expires_at
) VALUES ($1, $2, $3, $4)`

	_, err := r.DB.ExecContext(ctx, query, share.ID, string(share.Data), share.CreatedAt, share.ExpiresAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation {
			return ErrIDConflict
		}
		return err
	}
	return nil
}

// Get returns a share that has not expired.
func (r *PGRepo) Get(ctx context.Context, id string, now time.Time) (Share, error) {
	const query = `
SELECT share_id, data, created_at, expires_at
FROM shares
WHERE share_id = $1 AND expires_at > $2`

	var share Share
	var data []byte
	err := r.DB.QueryRowContext(ctx, query, id, now).Scan(
		&share.ID,
		&data,
		&share.CreatedAt,
		&share.ExpiresAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Share{}, ErrNotFound
		}
		return Share{}, err
	}
	share.Data = data
	return share, nil
}

// DeleteExpired removes expired shares.
func (r *PGRepo) DeleteExpired(ctx context.Context, now time.Time) (int64, error) {
	const query = `DELETE FROM shares WHERE expires_at <= $1`

	res, err := r.DB.ExecContext(ctx, query, now)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

var _ Repo = (*PGRepo)(nil)
