package storage

import (
	"context"
	"database/sql"
	"fmt"
)

// StateRepo holds per-session flags (focus mode, age verification). One row
// per session, owned by the same store as the profile so the per-session
// serialization discipline covers both.
type StateRepo struct {
	db *sql.DB
}

func NewStateRepo(db *sql.DB) *StateRepo {
	return &StateRepo{db: db}
}

func (r *StateRepo) Get(ctx context.Context, sessionKey string) (*SessionState, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT session_key, focus_mode, age_verified FROM session_state WHERE session_key = ?
	`, sessionKey)

	var s SessionState
	var focus, age int
	if err := row.Scan(&s.SessionKey, &focus, &age); err != nil {
		if err == sql.ErrNoRows {
			return &SessionState{SessionKey: sessionKey}, nil
		}
		return nil, fmt.Errorf("state get: %w", err)
	}
	s.FocusMode = focus != 0
	s.AgeVerified = age != 0
	return &s, nil
}

func (r *StateRepo) SetFocusMode(ctx context.Context, sessionKey string, on bool) error {
	return r.upsert(ctx, sessionKey, "focus_mode", on)
}

func (r *StateRepo) SetAgeVerified(ctx context.Context, sessionKey string, on bool) error {
	return r.upsert(ctx, sessionKey, "age_verified", on)
}

func (r *StateRepo) upsert(ctx context.Context, sessionKey, column string, on bool) error {
	v := 0
	if on {
		v = 1
	}
	// column is one of two fixed names, never user input.
	q := fmt.Sprintf(`
		INSERT INTO session_state (session_key, %s) VALUES (?, ?)
		ON CONFLICT(session_key) DO UPDATE SET %s = excluded.%s
	`, column, column, column)
	if _, err := r.db.ExecContext(ctx, q, sessionKey, v); err != nil {
		return fmt.Errorf("state set %s: %w", column, err)
	}
	return nil
}
