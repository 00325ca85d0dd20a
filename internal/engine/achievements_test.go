package engine

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestEvaluateAchievementsIdempotent(t *testing.T) {
	svc, cleanup := newTestService(t)
	defer cleanup()
	ctx := context.Background()

	setProfile(t, svc, "s1", 30, 5)

	first, err := svc.EvaluateAchievements(ctx, "s1")
	require.NoError(t, err)
	require.ElementsMatch(t, []string{"first_words", "level_2", "level_5", "xp_500"}, first)

	// Nothing changed: a second pass unlocks nothing.
	second, err := svc.EvaluateAchievements(ctx, "s1")
	require.NoError(t, err)
	require.Empty(t, second)

	unlocked, err := svc.AchievementRepo().UnlockedKeys(ctx, "s1")
	require.NoError(t, err)
	require.Len(t, unlocked, 4)
}

func TestEvaluateAchievementsStreakAndTasks(t *testing.T) {
	svc, cleanup := newTestService(t)
	defer cleanup()
	ctx := context.Background()

	seedActiveDays(t, svc, "s1", day(2026, 8, 26), day(2026, 8, 27), day(2026, 8, 28))
	for _, task := range TaskCatalog() {
		_, err := svc.ProgressRepo().Record(ctx, "s1", task.ID, 100, day(2026, 8, 28))
		require.NoError(t, err)
	}

	keys, err := svc.EvaluateAchievements(ctx, "s1")
	require.NoError(t, err)
	require.Contains(t, keys, "streak_3")
	require.Contains(t, keys, "first_task")
	require.Contains(t, keys, "task_scholar")
	require.NotContains(t, keys, "streak_7")
}

func TestEvaluateAchievementsConcurrentUnlockOnce(t *testing.T) {
	svc, cleanup := newTestService(t)
	defer cleanup()
	ctx := context.Background()

	setProfile(t, svc, "s1", 0, 5)

	const workers = 8
	results := make([][]string, workers)
	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			keys, err := svc.EvaluateAchievements(ctx, "s1")
			if err != nil {
				t.Errorf("evaluate: %v", err)
				return
			}
			results[i] = keys
		}(i)
	}
	wg.Wait()

	seen := map[string]int{}
	for _, keys := range results {
		for _, k := range keys {
			seen[k]++
		}
	}
	for k, n := range seen {
		require.Equalf(t, 1, n, "achievement %q reported unlocked %d times", k, n)
	}
	require.Equal(t, 1, seen["level_5"])
}

func TestAchievementTitle(t *testing.T) {
	require.Equal(t, "On the Path", AchievementTitle("level_5"))
	require.Equal(t, "no_such_key", AchievementTitle("no_such_key"))
}
