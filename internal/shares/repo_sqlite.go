package shares

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"
)

// SQLiteRepo implements Repo using SQLite. Timestamps are stored as Unix milliseconds.
type SQLiteRepo struct {
	DB *sql.DB
}

// Create inserts a new share.
func (r *SQLiteRepo) Create(ctx context.Context, share Share) error {
	const query = `
INSERT INTO shares (share_id, data, created_at, expires_at)
VALUES (?, ?, ?, ?)`

	_, err := r.DB.ExecContext(ctx, query, share.ID, string(share.Data), share.CreatedAt.UnixMilli(), share.ExpiresAt.UnixMilli())
	if err != nil {
		if isSQLiteConstraint(err) {
			return ErrIDConflict
		}
		return err
	}
	return nil
}

// Get returns a share that has not expired.
func (r *SQLiteRepo) Get(ctx context.Context, id string, now time.Time) (Share, error) {
	const query = `
SELECT share_id, data, created_at, expires_at
FROM shares
WHERE share_id = ? AND expires_at > ?`

	var share Share
	var data string
	var createdAt, expiresAt int64
	err := r.DB.QueryRowContext(ctx, query, id, now.UnixMilli()).Scan(&share.ID, &data, &createdAt, &expiresAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Share{}, ErrNotFound
		}
		return Share{}, err
	}
	share.Data = []byte(data)
	share.CreatedAt = time.UnixMilli(createdAt).UTC()
	share.ExpiresAt = time.UnixMilli(expiresAt).UTC()
	return share, nil
}

// DeleteExpired removes expired shares.
func (r *SQLiteRepo) DeleteExpired(ctx context.Context, now time.Time) (int64, error) {
	res, err := r.DB.ExecContext(ctx, `DELETE FROM shares WHERE expires_at <= ?`, now.UnixMilli())
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

func isSQLiteConstraint(err error) bool {
	var sqliteErr *sqlite.Error
	if !errors.As(err, &sqliteErr) {
		return false
	}
	switch sqliteErr.Code() {
	case sqlite3.SQLITE_CONSTRAINT_PRIMARYKEY, sqlite3.SQLITE_CONSTRAINT_UNIQUE:
		return true
	}
	return false
}

var _ Repo = (*SQLiteRepo)(nil)
