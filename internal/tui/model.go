package tui

import (
	"context"
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/KemboiK/evolve-bot/internal/engine"
	"github.com/KemboiK/evolve-bot/internal/storage"
)

type boardModel struct {
	ctx        context.Context
	svc        *engine.Service
	sessionKey string

	width  int
	height int

	profile  *storage.Profile
	streak   int
	unlocked []storage.UnlockedAchievement
	progress []storage.ProgressRecord
	recent   []storage.Message

	lastLog string
	loading bool
	err     error
}

type loadedMsg struct {
	profile  *storage.Profile
	streak   int
	unlocked []storage.UnlockedAchievement
	progress []storage.ProgressRecord
	recent   []storage.Message
	err      error
}

func newBoardModel(ctx context.Context, svc *engine.Service, sessionKey string) boardModel {
	return boardModel{
		ctx:        ctx,
		svc:        svc,
		sessionKey: sessionKey,
		loading:    true,
		lastLog:    "Loaded.",
	}
}

func (m boardModel) Init() tea.Cmd {
	return m.loadCmd()
}

func (m boardModel) loadCmd() tea.Cmd {
	return func() tea.Msg {
		p, err := m.svc.GetProfile(m.ctx, m.sessionKey)
		if err != nil {
			return loadedMsg{err: err}
		}
		streak, err := m.svc.Streak(m.ctx, m.sessionKey)
		if err != nil {
			return loadedMsg{err: err}
		}
		unlocked, err := m.svc.GetAchievements(m.ctx, m.sessionKey)
		if err != nil {
			return loadedMsg{err: err}
		}
		progress, err := m.svc.ProgressRepo().ListBySession(m.ctx, m.sessionKey)
		if err != nil {
			return loadedMsg{err: err}
		}
		recent, err := m.svc.ActivityRepo().ListBySession(m.ctx, m.sessionKey, 8)
		if err != nil {
			return loadedMsg{err: err}
		}
		return loadedMsg{profile: p, streak: streak, unlocked: unlocked, progress: progress, recent: recent}
	}
}

func (m boardModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil
	case loadedMsg:
		m.loading = false
		m.err = msg.err
		if msg.err != nil {
			m.lastLog = "Load failed: " + msg.err.Error()
			return m, nil
		}
		m.profile = msg.profile
		m.streak = msg.streak
		m.unlocked = msg.unlocked
		m.progress = msg.progress
		m.recent = msg.recent
		m.lastLog = fmt.Sprintf("Refreshed at %s.", time.Now().Format("15:04:05"))
		return m, nil
	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "q":
			return m, tea.Quit
		case "r":
			m.loading = true
			m.lastLog = "Refreshing…"
			return m, m.loadCmd()
		}
	}
	return m, nil
}

func (m boardModel) View() string {
	if m.err != nil {
		return "Error: " + m.err.Error() + "\n\nPress q to quit.\n"
	}
	if m.loading || m.profile == nil {
		return "Evolve — loading…\n"
	}

	var b strings.Builder

	toNext := engine.XPToNextLevel(m.profile.Level)
	bar := progressBar(m.profile.XP, toNext, 30)
	fmt.Fprintf(&b, "Evolve | %s | Level %d | XP %d/%d %s\n",
		m.profile.DisplayName, m.profile.Level, m.profile.XP, toNext, bar)
	fmt.Fprintf(&b, "Streak: %d days (multiplier x%.2f)\n\n",
		m.streak, engine.StreakMultiplier(m.streak))

	b.WriteString("Achievements\n")
	unlockedSet := map[string]bool{}
	for _, a := range m.unlocked {
		unlockedSet[a.AchievementKey] = true
	}
	for _, def := range engine.AchievementCatalog() {
		mark := "[ ]"
		if unlockedSet[def.Key] {
			mark = "[x]"
		}
		fmt.Fprintf(&b, " %s %s\n", mark, def.Title)
	}
	b.WriteString("\n")

	b.WriteString("Learning tasks\n")
	doneSet := map[string]bool{}
	for _, p := range m.progress {
		doneSet[p.TaskID] = true
	}
	for _, t := range engine.TaskCatalog() {
		mark := "[ ]"
		if doneSet[t.ID] {
			mark = "[x]"
		}
		fmt.Fprintf(&b, " %s %s (%s)\n", mark, t.Title, t.Kind)
	}
	b.WriteString("\n")

	b.WriteString("Recent activity\n")
	if len(m.recent) == 0 {
		b.WriteString(" (none)\n")
	}
	for i := len(m.recent) - 1; i >= 0; i-- {
		msg := m.recent[i]
		fmt.Fprintf(&b, " %s %-6s %s\n",
			msg.CreatedAt.Local().Format("15:04"), msg.Role, truncate(msg.Content, 60))
	}

	b.WriteString("\nKeys: r refresh · q quit\n")
	b.WriteString(m.lastLog + "\n")
	return b.String()
}

func progressBar(value int, total int, width int) string {
	if total <= 0 {
		total = 1
	}
	if width <= 3 {
		width = 3
	}
	if value < 0 {
		value = 0
	}
	if value > total {
		value = total
	}
	filled := int(float64(value) / float64(total) * float64(width))
	if filled > width {
		filled = width
	}
	return "[" + strings.Repeat("#", filled) + strings.Repeat("-", width-filled) + "]"
}

func truncate(s string, n int) string {
	r := []rune(strings.ReplaceAll(s, "\n", " "))
	if len(r) <= n {
		return string(r)
	}
	return string(r[:n]) + "…"
}
