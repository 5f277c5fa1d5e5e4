package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"
)

// KVRepo stores JSON documents in the kv_store table.
type KVRepo struct {
	db *sql.DB
}

func NewKVRepo(db *sql.DB) *KVRepo {
	return &KVRepo{db: db}
}

func (r *KVRepo) Get(ctx context.Context, key string) ([]byte, bool, error) {
	if r.db == nil {
		return nil, false, fmt.Errorf("get %s: db is nil", key)
	}

	var value string
	err := r.db.QueryRowContext(ctx, `SELECT value FROM kv_store WHERE key = ?;`, key).Scan(&value)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, false, nil
		}
		return nil, false, fmt.Errorf("get %s: %w", key, err)
	}

	return []byte(value), true, nil
}

func (r *KVRepo) Set(ctx context.Context, key string, value []byte) error {
	if r.db == nil {
		return fmt.Errorf("set %s: db is nil", key)
	}

	nowUTC := time.Now().UTC().Format(time.RFC3339Nano)
	if _, err := r.db.ExecContext(
		ctx,
		`INSERT INTO kv_store (key, value, updated_at_utc) VALUES (?, ?, ?)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at_utc = excluded.updated_at_utc;`,
		key,
		string(value),
		nowUTC,
	); err != nil {
		return fmt.Errorf("set %s: %w", key, err)
	}

	return nil
}

func (r *KVRepo) Delete(ctx context.Context, key string) error {
	if r.db == nil {
		return fmt.Errorf("delete %s: db is nil", key)
	}

	if _, err := r.db.ExecContext(ctx, `DELETE FROM kv_store WHERE key = ?;`, key); err != nil {
		return fmt.Errorf("delete %s: %w", key, err)
	}
	return nil
}

func (r *KVRepo) Keys(ctx context.Context) ([]string, error) {
	if r.db == nil {
		return nil, fmt.Errorf("list keys: db is nil")
	}

	rows, err := r.db.QueryContext(ctx, `SELECT key FROM kv_store ORDER BY key ASC;`)
	if err != nil {
		return nil, fmt.Errorf("list keys: %w", err)
	}
	defer rows.Close()

	keys := make([]string, 0)
	for rows.Next() {
		var key string
		if err := rows.Scan(&key); err != nil {
			return nil, fmt.Errorf("list keys: scan: %w", err)
		}
		keys = append(keys, key)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list keys: %w", err)
	}

	return keys, nil
}
