package storage

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
)

func Migrate(ctx context.Context, db *sql.DB) error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS profiles (
			session_key TEXT PRIMARY KEY,
			display_name TEXT NOT NULL DEFAULT 'Friend',
			xp INTEGER NOT NULL DEFAULT 0,
			level INTEGER NOT NULL DEFAULT 1,
			last_seen DATETIME
		);`,
		`CREATE TABLE IF NOT EXISTS messages (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			session_key TEXT NOT NULL,
			role TEXT NOT NULL,
			content TEXT NOT NULL,
			created_at DATETIME NOT NULL
		);`,
		`CREATE TABLE IF NOT EXISTS achievements (
			session_key TEXT NOT NULL,
			achievement_key TEXT NOT NULL,
			unlocked_at DATETIME NOT NULL,
			PRIMARY KEY (session_key, achievement_key)
		);`,
		`CREATE TABLE IF NOT EXISTS task_progress (
			session_key TEXT NOT NULL,
			task_id TEXT NOT NULL,
			percent INTEGER NOT NULL DEFAULT 100,
			updated_at DATETIME NOT NULL,
			PRIMARY KEY (session_key, task_id)
		);`,
		`CREATE TABLE IF NOT EXISTS session_state (
			session_key TEXT PRIMARY KEY,
			focus_mode INTEGER NOT NULL DEFAULT 0,
			age_verified INTEGER NOT NULL DEFAULT 0
		);`,
		`CREATE INDEX IF NOT EXISTS idx_messages_session_created ON messages(session_key, created_at);`,
		`CREATE INDEX IF NOT EXISTS idx_messages_session_role ON messages(session_key, role);`,
	}

	for _, stmt := range stmts {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("migrate: %w", err)
		}
	}

	// Older databases predate the age_verified flag.
	alterStmts := []string{
		`ALTER TABLE session_state ADD COLUMN age_verified INTEGER NOT NULL DEFAULT 0;`,
	}
	for _, stmt := range alterStmts {
		_, err := db.ExecContext(ctx, stmt)
		if err != nil && !strings.Contains(err.Error(), "duplicate column") {
			return fmt.Errorf("migrate alter: %w", err)
		}
	}

	return nil
}
