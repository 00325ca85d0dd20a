package storage

import (
	"context"
	"database/sql"
	"fmt"
	"time"
)

type ProgressRepo struct {
	db *sql.DB
}

func NewProgressRepo(db *sql.DB) *ProgressRepo {
	return &ProgressRepo{db: db}
}

// Record writes a completion row for (sessionKey, taskID). A task counts once
// per session; repeats are ignored and reported via the returned bool.
func (r *ProgressRepo) Record(ctx context.Context, sessionKey, taskID string, percent int, at time.Time) (bool, error) {
	res, err := r.db.ExecContext(ctx, `
		INSERT OR IGNORE INTO task_progress (session_key, task_id, percent, updated_at)
		VALUES (?, ?, ?, ?)
	`, sessionKey, taskID, percent, at.UTC())
	if err != nil {
		return false, fmt.Errorf("progress record: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("progress rows affected: %w", err)
	}
	return n > 0, nil
}

func (r *ProgressRepo) CountBySession(ctx context.Context, sessionKey string) (int, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT COUNT(*) FROM task_progress WHERE session_key = ?
	`, sessionKey)
	var n int
	if err := row.Scan(&n); err != nil {
		return 0, fmt.Errorf("progress count: %w", err)
	}
	return n, nil
}

func (r *ProgressRepo) ListBySession(ctx context.Context, sessionKey string) ([]ProgressRecord, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT session_key, task_id, percent, updated_at
		FROM task_progress
		WHERE session_key = ?
		ORDER BY updated_at ASC
	`, sessionKey)
	if err != nil {
		return nil, fmt.Errorf("progress list query: %w", err)
	}
	defer rows.Close()

	var out []ProgressRecord
	for rows.Next() {
		var p ProgressRecord
		if err := rows.Scan(&p.SessionKey, &p.TaskID, &p.Percent, &p.UpdatedAt); err != nil {
			return nil, fmt.Errorf("progress list scan: %w", err)
		}
		out = append(out, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("progress list rows: %w", err)
	}
	return out, nil
}
