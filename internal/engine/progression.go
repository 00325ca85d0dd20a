package engine

import (
	"context"
	"fmt"
	"math"

	"github.com/KemboiK/evolve-bot/internal/storage"
)

const (
	// BaseChatXP is awarded for an ordinary processed message.
	BaseChatXP = 10
	// BaseTaskXP is awarded when a catalog task is completed.
	BaseTaskXP = 50

	// StreakBonusRate is the per-streak-day multiplier bonus (10% per day).
	StreakBonusRate = 0.10
	// StreakBonusCap caps the streak bonus at +50%; five days saturate it.
	StreakBonusCap = 0.50
)

// StreakMultiplier returns the XP multiplier for a streak of the given length.
func StreakMultiplier(streakDays int) float64 {
	bonus := float64(streakDays) * StreakBonusRate
	if bonus > StreakBonusCap {
		bonus = StreakBonusCap
	}
	return 1.0 + bonus
}

// XPToNextLevel returns the XP threshold that rolls the given level over.
// The cost scales linearly: level 1→2 costs 100, level 2→3 costs 200.
func XPToNextLevel(level int) int {
	return level * 100
}

// TotalXPEquivalent reconstructs a monotonic all-time XP estimate from the
// current (xp, level) pair, assuming each earlier level i cost exactly i*100.
func TotalXPEquivalent(xp, level int) int {
	return xp + 100*level*(level-1)/2
}

type AwardResult struct {
	Gained     int
	NewXP      int
	NewLevel   int
	LeveledUp  bool
	StreakDays int
}

// Award grants streak-scaled XP to a session. It acquires the session lock;
// use awardLocked from inside ProcessMessage where the lock is already held.
func (s *Service) Award(ctx context.Context, sessionKey string, baseAmount int, reason string) (*AwardResult, error) {
	unlock := s.locks.lock(sessionKey)
	defer unlock()

	p, err := s.profiles.GetOrCreate(ctx, sessionKey, "")
	if err != nil {
		return nil, err
	}
	return s.awardLocked(ctx, p, baseAmount, reason)
}

// awardLocked applies the XP state machine to a loaded profile. The caller
// must hold the session lock; nothing is considered awarded unless the
// profile update was durably recorded.
func (s *Service) awardLocked(ctx context.Context, p *storage.Profile, baseAmount int, reason string) (*AwardResult, error) {
	streakDays, err := s.Streak(ctx, p.SessionKey)
	if err != nil {
		return nil, err
	}

	gained := int(math.Floor(float64(baseAmount) * StreakMultiplier(streakDays)))
	levelBefore := p.Level

	p.XP += gained
	for p.XP >= XPToNextLevel(p.Level) {
		p.XP -= XPToNextLevel(p.Level)
		p.Level++
	}

	now := s.now()
	p.LastSeen = &now
	if err := s.profiles.Update(ctx, p); err != nil {
		return nil, err
	}

	res := &AwardResult{
		Gained:     gained,
		NewXP:      p.XP,
		NewLevel:   p.Level,
		LeveledUp:  p.Level > levelBefore,
		StreakDays: streakDays,
	}

	note := fmt.Sprintf("xp_gain:%d reason:%s", gained, reason)
	if res.LeveledUp {
		note += fmt.Sprintf(" level_up:%d->%d", levelBefore, p.Level)
	}
	if err := s.activity.Insert(ctx, p.SessionKey, storage.RoleSystem, note, now); err != nil {
		return nil, err
	}

	s.emit("xp_awarded", p.SessionKey, map[string]any{
		"gained":     gained,
		"reason":     reason,
		"level":      p.Level,
		"leveled_up": res.LeveledUp,
	})

	return res, nil
}
