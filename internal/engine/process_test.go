package engine

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestProcessMessageEmptyInput(t *testing.T) {
	svc, cleanup := newTestService(t)
	defer cleanup()

	_, err := svc.ProcessMessage(context.Background(), "s1", "   \t ", "Ada")
	if !errors.Is(err, ErrEmptyInput) {
		t.Fatalf("err = %v, want ErrEmptyInput", err)
	}
}

func TestProcessMessageBlockedAwardsNothing(t *testing.T) {
	svc, cleanup := newTestService(t)
	defer cleanup()
	ctx := context.Background()

	res, err := svc.ProcessMessage(ctx, "s1", "I want to kill it", "Ada")
	require.NoError(t, err)
	require.True(t, res.Blocked)
	require.Equal(t, CategoryProhibited, res.Category)
	require.NotEmpty(t, res.BlockReason)
	require.Zero(t, res.XPGained)
	require.NotEmpty(t, res.Reply)

	p, err := svc.ProfileRepo().Get(ctx, "s1")
	require.NoError(t, err)
	require.Equal(t, 0, p.XP)
	require.Equal(t, 1, p.Level)

	// The inbound message and a system note are still logged.
	msgs, err := svc.ActivityRepo().ListBySession(ctx, "s1", 10)
	require.NoError(t, err)
	require.Len(t, msgs, 2)
	require.True(t, strings.HasPrefix(msgs[0].Content, "blocked_reason:"))
}

func TestProcessMessageChatAwardsStreakScaledXP(t *testing.T) {
	svc, cleanup := newTestService(t)
	defer cleanup()
	ctx := context.Background()

	// First message of the session: the message itself starts a 1-day streak.
	res, err := svc.ProcessMessage(ctx, "s1", "tell me about goroutines please", "Ada")
	require.NoError(t, err)
	require.False(t, res.Blocked)
	require.Equal(t, 11, res.XPGained) // 10 * 1.1
	require.Equal(t, 1, res.NewLevel)
	require.Contains(t, res.NewAchievements, "first_words")
	require.NotEmpty(t, res.Reply)
}

func TestProcessMessageTaskCompletion(t *testing.T) {
	svc, cleanup := newTestService(t)
	defer cleanup()
	ctx := context.Background()

	res, err := svc.ProcessMessage(ctx, "s1", "I just finished the python basics quiz!", "Ada")
	require.NoError(t, err)
	require.Equal(t, 55, res.XPGained) // 50 * 1.1
	require.Contains(t, res.Reply, "Complete Python Basics")
	require.Contains(t, res.NewAchievements, "first_task")

	n, err := svc.ProgressRepo().CountBySession(ctx, "s1")
	require.NoError(t, err)
	require.Equal(t, 1, n)

	// Repeating the same task earns chat XP only; no new completion row.
	res, err = svc.ProcessMessage(ctx, "s1", "python basics again", "Ada")
	require.NoError(t, err)
	require.Equal(t, 11, res.XPGained)
	require.Contains(t, res.Reply, "already finished")

	n, err = svc.ProgressRepo().CountBySession(ctx, "s1")
	require.NoError(t, err)
	require.Equal(t, 1, n)
}

func TestProcessMessageRecordsConversation(t *testing.T) {
	svc, cleanup := newTestService(t)
	defer cleanup()
	ctx := context.Background()

	_, err := svc.ProcessMessage(ctx, "s1", "good morning!", "Ada")
	require.NoError(t, err)

	users, err := svc.ActivityRepo().CountBySessionRole(ctx, "s1", "user")
	require.NoError(t, err)
	require.Equal(t, 1, users)

	bots, err := svc.ActivityRepo().CountBySessionRole(ctx, "s1", "bot")
	require.NoError(t, err)
	require.Equal(t, 1, bots)
}

func TestProcessMessageCommandShortCircuits(t *testing.T) {
	svc, cleanup := newTestService(t)
	defer cleanup()
	ctx := context.Background()

	setProfile(t, svc, "s1", 42, 3)

	res, err := svc.ProcessMessage(ctx, "s1", "/xp", "Ada")
	require.NoError(t, err)
	require.Contains(t, res.Reply, "42 XP")
	require.Contains(t, res.Reply, "level 3")
	require.Zero(t, res.XPGained)

	p, err := svc.ProfileRepo().Get(ctx, "s1")
	require.NoError(t, err)
	require.Equal(t, 42, p.XP)
	require.Equal(t, 3, p.Level)
}

func TestProcessMessageUnknownCommandFallsThrough(t *testing.T) {
	svc, cleanup := newTestService(t)
	defer cleanup()

	res, err := svc.ProcessMessage(context.Background(), "s1", "/bogus", "Ada")
	require.NoError(t, err)
	require.Equal(t, 11, res.XPGained)
}

func TestProcessMessageResetKeepsAchievements(t *testing.T) {
	svc, cleanup := newTestService(t)
	defer cleanup()
	ctx := context.Background()

	setProfile(t, svc, "s1", 10, 5)
	_, err := svc.EvaluateAchievements(ctx, "s1")
	require.NoError(t, err)

	res, err := svc.ProcessMessage(ctx, "s1", "/reset", "Ada")
	require.NoError(t, err)
	require.Contains(t, res.Reply, "Progress reset")

	p, err := svc.ProfileRepo().Get(ctx, "s1")
	require.NoError(t, err)
	require.Equal(t, 0, p.XP)
	require.Equal(t, 1, p.Level)

	unlocked, err := svc.AchievementRepo().UnlockedKeys(ctx, "s1")
	require.NoError(t, err)
	require.Contains(t, unlocked, "level_5")
}

func TestProcessMessageLevelUpMentionedInReply(t *testing.T) {
	svc, cleanup := newTestService(t)
	defer cleanup()
	ctx := context.Background()

	setProfile(t, svc, "s1", 95, 1)

	res, err := svc.ProcessMessage(ctx, "s1", "tell me about slices", "Ada")
	require.NoError(t, err)
	require.True(t, res.LeveledUp)
	require.Equal(t, 2, res.NewLevel)
	require.Contains(t, res.Reply, "Level up!")
	require.Contains(t, res.NewAchievements, "level_2")
}

func TestProcessMessageFocusModePersists(t *testing.T) {
	svc, cleanup := newTestService(t)
	defer cleanup()
	ctx := context.Background()

	_, err := svc.ProcessMessage(ctx, "s1", "focus mode on", "Ada")
	require.NoError(t, err)

	on, err := svc.FocusMode(ctx, "s1")
	require.NoError(t, err)
	require.True(t, on)

	_, err = svc.ProcessMessage(ctx, "s1", "focus mode off", "Ada")
	require.NoError(t, err)

	on, err = svc.FocusMode(ctx, "s1")
	require.NoError(t, err)
	require.False(t, on)
}

func TestProcessMessageStreakAcrossDays(t *testing.T) {
	current := time.Date(2026, 8, 26, 10, 0, 0, 0, time.UTC)
	svc, cleanup := newTestService(t, WithClock(func() time.Time { return current }))
	defer cleanup()
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		_, err := svc.ProcessMessage(ctx, "s1", "another day of practice", "Ada")
		require.NoError(t, err)
		current = current.AddDate(0, 0, 1)
	}

	// Day four of an unbroken run: multiplier is 1.4.
	res, err := svc.ProcessMessage(ctx, "s1", "tell me something new", "Ada")
	require.NoError(t, err)
	require.Equal(t, 14, res.XPGained)

	unlocked, err := svc.AchievementRepo().UnlockedKeys(ctx, "s1")
	require.NoError(t, err)
	require.Contains(t, unlocked, "streak_3")
}

func TestCommandStatsMentionsEverything(t *testing.T) {
	svc, cleanup := newTestService(t)
	defer cleanup()
	ctx := context.Background()

	_, err := svc.ProcessMessage(ctx, "s1", "finished the ai intro video", "Ada")
	require.NoError(t, err)

	res, err := svc.ProcessMessage(ctx, "s1", "/stats", "Ada")
	require.NoError(t, err)
	require.Contains(t, res.Reply, "Ada")
	require.Contains(t, res.Reply, "Streak: 1")
	require.Contains(t, res.Reply, "Tasks: 1/3")
}

func TestCommandQuoteRotatesByDay(t *testing.T) {
	d1 := time.Date(2026, 8, 26, 9, 0, 0, 0, time.UTC)
	q1 := quoteOfTheDay(d1)
	q2 := quoteOfTheDay(d1.AddDate(0, 0, 1))
	if q1 == q2 {
		t.Fatalf("consecutive days should rotate the quote")
	}
	if q1 != quoteOfTheDay(d1) {
		t.Fatalf("same day must give the same quote")
	}
}

func TestResetProgressService(t *testing.T) {
	svc, cleanup := newTestService(t)
	defer cleanup()
	ctx := context.Background()

	setProfile(t, svc, "s1", 70, 4)
	_, err := svc.ProgressRepo().Record(ctx, "s1", "ai_intro", 100, time.Now())
	require.NoError(t, err)

	require.NoError(t, svc.ResetProgress(ctx, "s1"))

	p, err := svc.ProfileRepo().Get(ctx, "s1")
	require.NoError(t, err)
	require.Equal(t, 0, p.XP)
	require.Equal(t, 1, p.Level)

	n, err := svc.ProgressRepo().CountBySession(ctx, "s1")
	require.NoError(t, err)
	require.Zero(t, n)
}
