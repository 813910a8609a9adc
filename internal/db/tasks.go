package db

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/dori/weektodo/internal/model"
	"github.com/dori/weektodo/internal/store"
)

const taskColumns = `id, title, completed, date, time, color, recurring, list_id, reminder, priority`

// SaveSnapshot replaces the cached state with snap, preserving order
func (db *DB) SaveSnapshot(ctx context.Context, snap store.Snapshot) error {
	return db.Transaction(ctx, func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx, `DELETE FROM tasks`); err != nil {
			return fmt.Errorf("clear tasks: %w", err)
		}
		if _, err := tx.ExecContext(ctx, `DELETE FROM lists`); err != nil {
			return fmt.Errorf("clear lists: %w", err)
		}

		for i, l := range snap.Lists {
			_, err := tx.ExecContext(ctx,
				`INSERT INTO lists (id, name, color, position) VALUES (?, ?, ?, ?)`,
				l.ID, l.Name, l.Color, i)
			if err != nil {
				return fmt.Errorf("insert list %s: %w", l.ID, err)
			}
		}

		pos := 0
		insert := func(t model.Task, listID *string) error {
			pos++
			_, err := tx.ExecContext(ctx, `
				INSERT INTO tasks (`+taskColumns+`, position)
				VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
				t.ID, t.Title, t.Completed, t.Date, t.Time, string(t.Color),
				t.Recurring, listID, t.Reminder, t.Priority, pos)
			if err != nil {
				return fmt.Errorf("insert task %s: %w", t.ID, err)
			}
			return nil
		}
		for _, t := range snap.Tasks {
			if err := insert(t, nil); err != nil {
				return err
			}
		}
		for _, l := range snap.Lists {
			listID := l.ID
			for _, t := range l.Tasks {
				if err := insert(t, &listID); err != nil {
					return err
				}
			}
		}

		return setState(ctx, tx, stateSyncedAt, time.Now().UTC().Format(time.RFC3339))
	})
}

// LoadSnapshot reads the cached state back
func (db *DB) LoadSnapshot(ctx context.Context) (store.Snapshot, error) {
	snap := store.Snapshot{Tasks: []model.Task{}}

	lists, err := db.getLists(ctx)
	if err != nil {
		return snap, err
	}
	index := make(map[string]int, len(lists))
	for i, l := range lists {
		index[l.ID] = i
	}

	rows, err := db.QueryContext(ctx, `SELECT `+taskColumns+` FROM tasks ORDER BY position`)
	if err != nil {
		return snap, fmt.Errorf("query tasks: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		t, err := scanTask(rows)
		if err != nil {
			return snap, err
		}
		if t.ListID == nil {
			snap.Tasks = append(snap.Tasks, t)
			continue
		}
		if i, ok := index[*t.ListID]; ok {
			lists[i].Tasks = append(lists[i].Tasks, t)
		}
	}
	if err := rows.Err(); err != nil {
		return snap, fmt.Errorf("iterate tasks: %w", err)
	}

	snap.Lists = lists
	return snap, nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanTask(row scanner) (model.Task, error) {
	var t model.Task
	var color string
	var tm, recurring, listID, reminder, priority sql.NullString
	if err := row.Scan(&t.ID, &t.Title, &t.Completed, &t.Date, &tm, &color,
		&recurring, &listID, &reminder, &priority); err != nil {
		return t, fmt.Errorf("scan task: %w", err)
	}
	t.Color = model.Color(color)
	if tm.Valid {
		t.Time = &tm.String
	}
	if recurring.Valid {
		r := model.Recurrence(recurring.String)
		t.Recurring = &r
	}
	if listID.Valid {
		t.ListID = &listID.String
	}
	if reminder.Valid {
		t.Reminder = &reminder.String
	}
	if priority.Valid {
		p := model.Priority(priority.String)
		t.Priority = &p
	}
	return t, nil
}
