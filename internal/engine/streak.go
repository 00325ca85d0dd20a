package engine

import (
	"context"
	"time"
)

// StreakFromDays derives the learning streak from the ascending list of
// distinct active calendar days: the length of the maximal suffix of
// consecutive days. The computation is purely retrospective over logged
// activity — the most recent active day always counts even when it is not
// today, and a streak never decays just because no message arrived yet.
func StreakFromDays(days []time.Time) int {
	if len(days) == 0 {
		return 0
	}
	streak := 1
	for i := len(days) - 1; i > 0; i-- {
		if days[i].Sub(days[i-1]) == 24*time.Hour {
			streak++
			continue
		}
		break
	}
	return streak
}

// Streak reports the session's current streak in days.
func (s *Service) Streak(ctx context.Context, sessionKey string) (int, error) {
	days, err := s.activity.ActiveDays(ctx, sessionKey)
	if err != nil {
		return 0, err
	}
	return StreakFromDays(days), nil
}
