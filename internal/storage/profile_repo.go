package storage

import (
	"context"
	"database/sql"
	"fmt"
)

type ProfileRepo struct {
	db *sql.DB
}

func NewProfileRepo(db *sql.DB) *ProfileRepo {
	return &ProfileRepo{db: db}
}

func (r *ProfileRepo) Get(ctx context.Context, sessionKey string) (*Profile, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT session_key, display_name, xp, level, last_seen
		FROM profiles WHERE session_key = ?
	`, sessionKey)

	var p Profile
	if err := row.Scan(&p.SessionKey, &p.DisplayName, &p.XP, &p.Level, &p.LastSeen); err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("profile get: %w", err)
	}
	return &p, nil
}

// GetOrCreate returns the profile for sessionKey, creating it at xp=0 level=1
// on first contact. A non-empty displayName updates the stored name.
func (r *ProfileRepo) GetOrCreate(ctx context.Context, sessionKey, displayName string) (*Profile, error) {
	p, err := r.Get(ctx, sessionKey)
	if err != nil {
		return nil, err
	}
	if p != nil {
		if displayName != "" && displayName != p.DisplayName {
			if _, err := r.db.ExecContext(ctx, `UPDATE profiles SET display_name = ? WHERE session_key = ?`, displayName, sessionKey); err != nil {
				return nil, fmt.Errorf("profile rename: %w", err)
			}
			p.DisplayName = displayName
		}
		return p, nil
	}

	if displayName == "" {
		displayName = "Friend"
	}
	if _, err := r.db.ExecContext(ctx, `
		INSERT INTO profiles (session_key, display_name, xp, level) VALUES (?, ?, 0, 1)
	`, sessionKey, displayName); err != nil {
		return nil, fmt.Errorf("profile insert: %w", err)
	}
	return r.Get(ctx, sessionKey)
}

func (r *ProfileRepo) Update(ctx context.Context, p *Profile) error {
	_, err := r.db.ExecContext(ctx, `
		UPDATE profiles
		SET display_name = ?, xp = ?, level = ?, last_seen = ?
		WHERE session_key = ?
	`, p.DisplayName, p.XP, p.Level, p.LastSeen, p.SessionKey)
	if err != nil {
		return fmt.Errorf("profile update: %w", err)
	}
	return nil
}

// Leaderboard ranks sessions by the all-time XP estimate
// xp + 100 * level*(level-1)/2, highest first.
func (r *ProfileRepo) Leaderboard(ctx context.Context, limit int) ([]LeaderboardEntry, error) {
	if limit <= 0 {
		limit = 10
	}
	rows, err := r.db.QueryContext(ctx, `
		SELECT session_key, display_name, level, xp + 50*level*(level-1) AS total_xp
		FROM profiles
		ORDER BY total_xp DESC, session_key ASC
		LIMIT ?
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("leaderboard query: %w", err)
	}
	defer rows.Close()

	var out []LeaderboardEntry
	for rows.Next() {
		var e LeaderboardEntry
		if err := rows.Scan(&e.SessionKey, &e.DisplayName, &e.Level, &e.TotalXP); err != nil {
			return nil, fmt.Errorf("leaderboard scan: %w", err)
		}
		out = append(out, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("leaderboard rows: %w", err)
	}
	return out, nil
}

func (r *ProfileRepo) Count(ctx context.Context) (int, error) {
	row := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM profiles`)
	var n int
	if err := row.Scan(&n); err != nil {
		return 0, fmt.Errorf("profile count: %w", err)
	}
	return n, nil
}
