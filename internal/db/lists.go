package db

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/dori/weektodo/internal/model"
)

const stateSyncedAt = "synced_at"

func (db *DB) getLists(ctx context.Context) ([]model.CustomList, error) {
	rows, err := db.QueryContext(ctx, `SELECT id, name, color FROM lists ORDER BY position`)
	if err != nil {
		return nil, fmt.Errorf("query lists: %w", err)
	}
	defer rows.Close()

	lists := []model.CustomList{}
	for rows.Next() {
		l := model.CustomList{Tasks: []model.Task{}}
		if err := rows.Scan(&l.ID, &l.Name, &l.Color); err != nil {
			return nil, fmt.Errorf("scan list: %w", err)
		}
		lists = append(lists, l)
	}
	return lists, rows.Err()
}

// SyncedAt returns when the cache was last written, zero if never
func (db *DB) SyncedAt(ctx context.Context) (time.Time, error) {
	var value string
	err := db.QueryRowContext(ctx, `SELECT value FROM sync_state WHERE key = ?`, stateSyncedAt).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return time.Time{}, nil
	}
	if err != nil {
		return time.Time{}, fmt.Errorf("read sync state: %w", err)
	}
	return time.Parse(time.RFC3339, value)
}

func setState(ctx context.Context, tx *sql.Tx, key, value string) error {
	_, err := tx.ExecContext(ctx, `
		INSERT INTO sync_state (key, value) VALUES (?, ?)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value`, key, value)
	if err != nil {
		return fmt.Errorf("write sync state: %w", err)
	}
	return nil
}
