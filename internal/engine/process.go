package engine

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/KemboiK/evolve-bot/internal/reply"
	"github.com/KemboiK/evolve-bot/internal/storage"
)

// ProcessResult is the outcome of one inbound message, assembled for the
// transport layer. A blocked message is a normal outcome with Blocked set.
type ProcessResult struct {
	Reply           string
	Blocked         bool
	BlockReason     string
	Category        Category
	XPGained        int
	LeveledUp       bool
	NewLevel        int
	NewAchievements []string
}

const blockedReply = "I can't continue with that. Let's talk about something else."

// ProcessMessage runs the full pipeline for one inbound message:
// moderation → routing → XP award → achievement evaluation, strictly in that
// order, with every read and write for the session inside one per-session
// critical section. Commands short-circuit before the award step.
func (s *Service) ProcessMessage(ctx context.Context, sessionKey, rawText, displayName string) (*ProcessResult, error) {
	text := strings.TrimSpace(rawText)
	if text == "" {
		return nil, ErrEmptyInput
	}

	unlock := s.locks.lock(sessionKey)
	defer unlock()

	p, err := s.profiles.GetOrCreate(ctx, sessionKey, strings.TrimSpace(displayName))
	if err != nil {
		return nil, err
	}

	now := s.now()
	if err := s.activity.Insert(ctx, sessionKey, storage.RoleUser, text, now); err != nil {
		return nil, err
	}

	if mod := Classify(text); !mod.Allowed {
		if err := s.activity.Insert(ctx, sessionKey, storage.RoleSystem, "blocked_reason:"+mod.Reason, now); err != nil {
			return nil, err
		}
		s.emit("message_blocked", sessionKey, map[string]any{
			"category": string(mod.Category),
			"reason":   mod.Reason,
		})
		s.log.Info("message blocked",
			zap.String("session", sessionKey),
			zap.String("category", string(mod.Category)))
		return &ProcessResult{
			Reply:       blockedReply,
			Blocked:     true,
			BlockReason: mod.Reason,
			Category:    mod.Category,
		}, nil
	}

	route := Route(text)

	if route.Kind == RouteCommand {
		replyText, err := s.commandReply(ctx, p, route.Command)
		if err != nil {
			return nil, err
		}
		if err := s.activity.Insert(ctx, sessionKey, storage.RoleBot, replyText, s.now()); err != nil {
			return nil, err
		}
		return &ProcessResult{Reply: replyText, NewLevel: p.Level}, nil
	}

	base := BaseChatXP
	reason := "chat"
	var taskDone *TaskDef

	switch route.Kind {
	case RouteTask:
		recorded, err := s.progress.Record(ctx, sessionKey, route.Task.ID, 100, now)
		if err != nil {
			return nil, err
		}
		if recorded {
			base = BaseTaskXP
			reason = "task:" + route.Task.ID
			taskDone = route.Task
			s.emit("task_completed", sessionKey, map[string]any{"task": route.Task.ID})
		}
	case RouteIntent:
		reason = "intent:" + string(route.Intent)
		switch route.Intent {
		case IntentFocusOn:
			if err := s.state.SetFocusMode(ctx, sessionKey, true); err != nil {
				return nil, err
			}
		case IntentFocusOff:
			if err := s.state.SetFocusMode(ctx, sessionKey, false); err != nil {
				return nil, err
			}
		}
	}

	award, err := s.awardLocked(ctx, p, base, reason)
	if err != nil {
		return nil, err
	}

	// Award effects must be visible to the evaluation in the same call.
	newly, err := s.evaluateLocked(ctx, p)
	if err != nil {
		return nil, err
	}

	replyText := s.composeReply(ctx, p, text, route, taskDone, award)
	if err := s.activity.Insert(ctx, sessionKey, storage.RoleBot, replyText, s.now()); err != nil {
		return nil, err
	}

	s.log.Info("message processed",
		zap.String("session", sessionKey),
		zap.String("reason", reason),
		zap.Int("gained", award.Gained),
		zap.Int("level", award.NewLevel),
		zap.Strings("achievements", newly))

	return &ProcessResult{
		Reply:           replyText,
		XPGained:        award.Gained,
		LeveledUp:       award.LeveledUp,
		NewLevel:        award.NewLevel,
		NewAchievements: newly,
	}, nil
}

// composeReply picks the user-facing reply for a non-command message. The
// external generator is only consulted for unhandled text; any generator
// failure already degraded to a template inside the Fallback wrapper.
func (s *Service) composeReply(ctx context.Context, p *storage.Profile, text string, route RouteResult, taskDone *TaskDef, award *AwardResult) string {
	base := ""
	switch {
	case taskDone != nil:
		base = fmt.Sprintf("Task %q completed! +%d XP.", taskDone.Title, award.Gained)
	case route.Kind == RouteTask:
		// Detected but already recorded: treat as a normal chat turn.
		base = fmt.Sprintf("You've already finished that one, %s — nice dedication though!", p.DisplayName)
	case route.Kind == RouteIntent:
		base = s.intentReply(p, route.Intent)
	default:
		gctx, cancel := context.WithTimeout(ctx, reply.GenerateTimeout)
		defer cancel()
		rc := reply.Context{
			DisplayName: p.DisplayName,
			Snippet:     reply.Snippet(text),
			Level:       p.Level,
			StreakDays:  award.StreakDays,
		}
		out, err := s.replies.Generate(gctx, text, rc)
		if err != nil {
			// The Fallback wrapper already degrades internally; this guard
			// keeps the core deterministic against any Generator.
			s.log.Warn("reply generator failed", zap.Error(err))
			out = reply.SafeDefault(rc)
		}
		base = out
	}

	if award.LeveledUp {
		base += fmt.Sprintf(" 🎉 Level up! You're now level %d.", award.NewLevel)
	}
	return base
}

func (s *Service) intentReply(p *storage.Profile, intent Intent) string {
	switch intent {
	case IntentGreeting:
		return fmt.Sprintf("Hey %s! Good to see you. What are we learning today?", p.DisplayName)
	case IntentFarewell:
		return fmt.Sprintf("See you soon, %s — come back tomorrow to keep your streak alive!", p.DisplayName)
	case IntentThanks:
		return "Any time! That's what I'm here for."
	case IntentFocusOn:
		return "Focus mode on. I'll keep replies short until you take a break."
	case IntentFocusOff:
		return "Focus mode off. Nice session!"
	case IntentHelp:
		return helpText()
	default:
		return fmt.Sprintf("Tell me more, %s.", p.DisplayName)
	}
}

func helpText() string {
	var b strings.Builder
	b.WriteString("Here's what I can do:\n")
	b.WriteString("/help /xp /level /streak /stats /leaderboard /achievements /reset /quote\n")
	b.WriteString("Or just chat — mention a task like \"python basics\" when you finish one.")
	return b.String()
}

// quotes rotate deterministically by day of year.
var quotes = []string{
	"Small steps every day add up to big journeys.",
	"The best time to learn was yesterday. The second best is now.",
	"Streaks are built one message at a time.",
	"You don't have to be great to start, but you have to start to be great.",
	"An investment in knowledge pays the best interest.",
}

func quoteOfTheDay(now time.Time) string {
	return quotes[now.YearDay()%len(quotes)]
}

func (s *Service) commandReply(ctx context.Context, p *storage.Profile, cmd Command) (string, error) {
	switch cmd {
	case CommandHelp:
		return helpText(), nil

	case CommandXP:
		return fmt.Sprintf("You have %d XP at level %d. Next level at %d XP.", p.XP, p.Level, XPToNextLevel(p.Level)), nil

	case CommandLevel:
		return fmt.Sprintf("You're level %d with %d/%d XP toward the next one.", p.Level, p.XP, XPToNextLevel(p.Level)), nil

	case CommandStreak:
		streak, err := s.Streak(ctx, p.SessionKey)
		if err != nil {
			return "", err
		}
		if streak == 0 {
			return "No streak yet — today is a great day to start one!", nil
		}
		return fmt.Sprintf("🔥 %d-day streak! XP multiplier: x%.2f.", streak, StreakMultiplier(streak)), nil

	case CommandStats:
		streak, err := s.Streak(ctx, p.SessionKey)
		if err != nil {
			return "", err
		}
		completions, err := s.progress.CountBySession(ctx, p.SessionKey)
		if err != nil {
			return "", err
		}
		unlocked, err := s.unlocks.ListBySession(ctx, p.SessionKey)
		if err != nil {
			return "", err
		}
		messages, err := s.activity.CountBySessionRole(ctx, p.SessionKey, storage.RoleUser)
		if err != nil {
			return "", err
		}
		return fmt.Sprintf(
			"%s — level %d, %d/%d XP (all-time ~%d). Streak: %d days. Tasks: %d/%d. Achievements: %d/%d. Messages: %d.",
			p.DisplayName, p.Level, p.XP, XPToNextLevel(p.Level), TotalXPEquivalent(p.XP, p.Level),
			streak, completions, len(taskCatalog), len(unlocked), len(achievementCatalog), messages,
		), nil

	case CommandLeaderboard:
		entries, err := s.profiles.Leaderboard(ctx, 5)
		if err != nil {
			return "", err
		}
		if len(entries) == 0 {
			return "The leaderboard is empty — be the first!", nil
		}
		var b strings.Builder
		b.WriteString("🏆 Leaderboard:\n")
		for i, e := range entries {
			fmt.Fprintf(&b, "%d. %s — level %d (%d XP)\n", i+1, e.DisplayName, e.Level, e.TotalXP)
		}
		return strings.TrimRight(b.String(), "\n"), nil

	case CommandAchievements:
		unlocked, err := s.unlocks.ListBySession(ctx, p.SessionKey)
		if err != nil {
			return "", err
		}
		if len(unlocked) == 0 {
			return "No achievements yet. Keep chatting and they'll come!", nil
		}
		var b strings.Builder
		fmt.Fprintf(&b, "Unlocked %d/%d:\n", len(unlocked), len(achievementCatalog))
		for _, a := range unlocked {
			fmt.Fprintf(&b, "- %s\n", AchievementTitle(a.AchievementKey))
		}
		return strings.TrimRight(b.String(), "\n"), nil

	case CommandReset:
		if err := storage.ResetSession(ctx, s.db, p.SessionKey, s.now()); err != nil {
			return "", err
		}
		p.XP = 0
		p.Level = 1
		s.emit("progress_reset", p.SessionKey, nil)
		return "Progress reset: back to level 1 with 0 XP. Achievements are yours to keep.", nil

	case CommandQuote:
		return "💡 " + quoteOfTheDay(s.now()), nil

	default:
		return helpText(), nil
	}
}
