package storage

import (
	"context"
	"database/sql"
	"fmt"
	"time"
)

const (
	RoleUser   = "user"
	RoleBot    = "bot"
	RoleSystem = "system"
)

// ActivityRepo is the append-only per-session event log. Rows are never
// updated or deleted.
type ActivityRepo struct {
	db *sql.DB
}

func NewActivityRepo(db *sql.DB) *ActivityRepo {
	return &ActivityRepo{db: db}
}

func (r *ActivityRepo) Insert(ctx context.Context, sessionKey, role, content string, at time.Time) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO messages (session_key, role, content, created_at)
		VALUES (?, ?, ?, ?)
	`, sessionKey, role, content, at.UTC())
	if err != nil {
		return fmt.Errorf("activity insert: %w", err)
	}
	return nil
}

// ActiveDays returns the distinct calendar days (UTC midnights, ascending)
// on which the session logged at least one user-role event.
func (r *ActivityRepo) ActiveDays(ctx context.Context, sessionKey string) ([]time.Time, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT created_at FROM messages
		WHERE session_key = ? AND role = ?
		ORDER BY created_at ASC
	`, sessionKey, RoleUser)
	if err != nil {
		return nil, fmt.Errorf("activity days query: %w", err)
	}
	defer rows.Close()

	var days []time.Time
	var last time.Time
	for rows.Next() {
		var at time.Time
		if err := rows.Scan(&at); err != nil {
			return nil, fmt.Errorf("activity days scan: %w", err)
		}
		day := at.UTC().Truncate(24 * time.Hour)
		if len(days) == 0 || !day.Equal(last) {
			days = append(days, day)
			last = day
		}
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("activity days rows: %w", err)
	}
	return days, nil
}

func (r *ActivityRepo) CountBySessionRole(ctx context.Context, sessionKey, role string) (int, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT COUNT(*) FROM messages WHERE session_key = ? AND role = ?
	`, sessionKey, role)
	var n int
	if err := row.Scan(&n); err != nil {
		return 0, fmt.Errorf("activity count: %w", err)
	}
	return n, nil
}

func (r *ActivityRepo) CountSince(ctx context.Context, since time.Time) (int, error) {
	row := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM messages WHERE created_at >= ?`, since.UTC())
	var n int
	if err := row.Scan(&n); err != nil {
		return 0, fmt.Errorf("activity count since: %w", err)
	}
	return n, nil
}

// ListRecent returns the newest messages across all sessions, newest first.
// Used by the admin listing.
func (r *ActivityRepo) ListRecent(ctx context.Context, limit int) ([]Message, error) {
	if limit <= 0 {
		limit = 200
	}
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, session_key, role, content, created_at
		FROM messages
		ORDER BY id DESC
		LIMIT ?
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("activity recent query: %w", err)
	}
	defer rows.Close()

	var out []Message
	for rows.Next() {
		var m Message
		if err := rows.Scan(&m.ID, &m.SessionKey, &m.Role, &m.Content, &m.CreatedAt); err != nil {
			return nil, fmt.Errorf("activity recent scan: %w", err)
		}
		out = append(out, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("activity recent rows: %w", err)
	}
	return out, nil
}

// ListBySession returns a session's newest messages, newest first.
func (r *ActivityRepo) ListBySession(ctx context.Context, sessionKey string, limit int) ([]Message, error) {
	if limit <= 0 {
		limit = 50
	}
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, session_key, role, content, created_at
		FROM messages
		WHERE session_key = ?
		ORDER BY id DESC
		LIMIT ?
	`, sessionKey, limit)
	if err != nil {
		return nil, fmt.Errorf("activity session query: %w", err)
	}
	defer rows.Close()

	var out []Message
	for rows.Next() {
		var m Message
		if err := rows.Scan(&m.ID, &m.SessionKey, &m.Role, &m.Content, &m.CreatedAt); err != nil {
			return nil, fmt.Errorf("activity session scan: %w", err)
		}
		out = append(out, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("activity session rows: %w", err)
	}
	return out, nil
}
