package storage

import (
	"context"
	"database/sql"
	"fmt"
	"time"
)

// WithTx runs fn inside a SQL transaction, rolling back unless fn succeeds
// and the commit goes through.
func WithTx(ctx context.Context, db *sql.DB, fn func(tx *sql.Tx) error) error {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}

	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()

	if err := fn(tx); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit tx: %w", err)
	}
	committed = true
	return nil
}

// ResetSession returns xp/level to their initial values and clears task
// progress in one transaction. Achievements and the message log survive.
func ResetSession(ctx context.Context, db *sql.DB, sessionKey string, at time.Time) error {
	return WithTx(ctx, db, func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx, `
			UPDATE profiles SET xp = 0, level = 1, last_seen = ? WHERE session_key = ?
		`, at.UTC(), sessionKey); err != nil {
			return fmt.Errorf("reset profile: %w", err)
		}
		if _, err := tx.ExecContext(ctx, `
			DELETE FROM task_progress WHERE session_key = ?
		`, sessionKey); err != nil {
			return fmt.Errorf("reset progress: %w", err)
		}
		return nil
	})
}
