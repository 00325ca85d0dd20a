package engine

import (
	"context"

	"github.com/KemboiK/evolve-bot/internal/storage"
)

// EvalContext is the strongly-typed snapshot achievement predicates read.
type EvalContext struct {
	Level           int
	TotalXP         int
	StreakDays      int
	TaskCompletions int
}

type AchievementDef struct {
	Key   string
	Title string
	Check func(ec EvalContext) bool
}

// achievementCatalog is fixed at process start and evaluated in declaration
// order.
var achievementCatalog = []AchievementDef{
	{"first_words", "First Words", func(ec EvalContext) bool { return ec.TotalXP >= 10 }},
	{"level_2", "Getting Started", func(ec EvalContext) bool { return ec.Level >= 2 }},
	{"level_5", "On the Path", func(ec EvalContext) bool { return ec.Level >= 5 }},
	{"level_10", "Seasoned Learner", func(ec EvalContext) bool { return ec.Level >= 10 }},
	{"xp_500", "Pocket Scholar", func(ec EvalContext) bool { return ec.TotalXP >= 500 }},
	{"xp_2500", "Knowledge Bank", func(ec EvalContext) bool { return ec.TotalXP >= 2500 }},
	{"streak_3", "Warming Up", func(ec EvalContext) bool { return ec.StreakDays >= 3 }},
	{"streak_7", "One Full Week", func(ec EvalContext) bool { return ec.StreakDays >= 7 }},
	{"streak_14", "Fortnight Focus", func(ec EvalContext) bool { return ec.StreakDays >= 14 }},
	{"first_task", "First Quest", func(ec EvalContext) bool { return ec.TaskCompletions >= 1 }},
	{"task_scholar", "Curriculum Complete", func(ec EvalContext) bool { return ec.TaskCompletions >= len(taskCatalog) }},
}

// AchievementCatalog returns the fixed rule set in evaluation order.
func AchievementCatalog() []AchievementDef {
	out := make([]AchievementDef, len(achievementCatalog))
	copy(out, achievementCatalog)
	return out
}

// AchievementTitle resolves a catalog key to its display title.
func AchievementTitle(key string) string {
	for _, def := range achievementCatalog {
		if def.Key == key {
			return def.Title
		}
	}
	return key
}

// EvaluateAchievements evaluates the rule set for a session and returns the
// keys unlocked by this call. It acquires the session lock; ProcessMessage
// uses evaluateLocked inside its own critical section.
func (s *Service) EvaluateAchievements(ctx context.Context, sessionKey string) ([]string, error) {
	unlock := s.locks.lock(sessionKey)
	defer unlock()

	p, err := s.profiles.GetOrCreate(ctx, sessionKey, "")
	if err != nil {
		return nil, err
	}
	return s.evaluateLocked(ctx, p)
}

// evaluateLocked walks the catalog in declaration order, skipping unlocked
// keys and inserting unlock records for satisfied predicates. The storage
// layer's INSERT OR IGNORE makes the unlock exactly-once even if another
// session handle races on the same milestone.
func (s *Service) evaluateLocked(ctx context.Context, p *storage.Profile) ([]string, error) {
	streakDays, err := s.Streak(ctx, p.SessionKey)
	if err != nil {
		return nil, err
	}
	completions, err := s.progress.CountBySession(ctx, p.SessionKey)
	if err != nil {
		return nil, err
	}
	unlockedSet, err := s.unlocks.UnlockedKeys(ctx, p.SessionKey)
	if err != nil {
		return nil, err
	}

	ec := EvalContext{
		Level:           p.Level,
		TotalXP:         TotalXPEquivalent(p.XP, p.Level),
		StreakDays:      streakDays,
		TaskCompletions: completions,
	}

	var newly []string
	for _, def := range achievementCatalog {
		if unlockedSet[def.Key] {
			continue
		}
		if !def.Check(ec) {
			continue
		}
		inserted, err := s.unlocks.Unlock(ctx, p.SessionKey, def.Key, s.now())
		if err != nil {
			return nil, err
		}
		if !inserted {
			continue
		}
		newly = append(newly, def.Key)
		s.emit("achievement_unlocked", p.SessionKey, map[string]any{
			"key":   def.Key,
			"title": def.Title,
		})
	}
	return newly, nil
}
