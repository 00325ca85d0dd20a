package storage

import "time"

type Profile struct {
	SessionKey  string
	DisplayName string
	XP          int
	Level       int
	LastSeen    *time.Time
}

// Message is one append-only activity log entry.
type Message struct {
	ID         int64
	SessionKey string
	Role       string
	Content    string
	CreatedAt  time.Time
}

type UnlockedAchievement struct {
	SessionKey     string
	AchievementKey string
	UnlockedAt     time.Time
}

type ProgressRecord struct {
	SessionKey string
	TaskID     string
	Percent    int
	UpdatedAt  time.Time
}

type SessionState struct {
	SessionKey  string
	FocusMode   bool
	AgeVerified bool
}

// LeaderboardEntry ranks a session by its all-time XP estimate.
type LeaderboardEntry struct {
	SessionKey  string
	DisplayName string
	Level       int
	TotalXP     int
}
