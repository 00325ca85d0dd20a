package storage

import (
	"context"
	"database/sql"
	"fmt"
	"time"
)

type AchievementRepo struct {
	db *sql.DB
}

func NewAchievementRepo(db *sql.DB) *AchievementRepo {
	return &AchievementRepo{db: db}
}

// Unlock records an unlock for (sessionKey, achievementKey). The composite
// primary key plus INSERT OR IGNORE make the write exactly-once: the returned
// bool is true only for the call that actually inserted the row, so racing
// evaluations cannot both report a fresh unlock.
func (r *AchievementRepo) Unlock(ctx context.Context, sessionKey, achievementKey string, at time.Time) (bool, error) {
	res, err := r.db.ExecContext(ctx, `
		INSERT OR IGNORE INTO achievements (session_key, achievement_key, unlocked_at)
		VALUES (?, ?, ?)
	`, sessionKey, achievementKey, at.UTC())
	if err != nil {
		return false, fmt.Errorf("achievement unlock: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("achievement rows affected: %w", err)
	}
	return n > 0, nil
}

// UnlockedKeys returns the set of achievement keys already unlocked for a session.
func (r *AchievementRepo) UnlockedKeys(ctx context.Context, sessionKey string) (map[string]bool, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT achievement_key FROM achievements WHERE session_key = ?
	`, sessionKey)
	if err != nil {
		return nil, fmt.Errorf("achievement keys query: %w", err)
	}
	defer rows.Close()

	keys := map[string]bool{}
	for rows.Next() {
		var k string
		if err := rows.Scan(&k); err != nil {
			return nil, fmt.Errorf("achievement keys scan: %w", err)
		}
		keys[k] = true
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("achievement keys rows: %w", err)
	}
	return keys, nil
}

func (r *AchievementRepo) ListBySession(ctx context.Context, sessionKey string) ([]UnlockedAchievement, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT session_key, achievement_key, unlocked_at
		FROM achievements
		WHERE session_key = ?
		ORDER BY unlocked_at ASC, achievement_key ASC
	`, sessionKey)
	if err != nil {
		return nil, fmt.Errorf("achievement list query: %w", err)
	}
	defer rows.Close()

	var out []UnlockedAchievement
	for rows.Next() {
		var a UnlockedAchievement
		if err := rows.Scan(&a.SessionKey, &a.AchievementKey, &a.UnlockedAt); err != nil {
			return nil, fmt.Errorf("achievement list scan: %w", err)
		}
		out = append(out, a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("achievement list rows: %w", err)
	}
	return out, nil
}
