package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Evolve theme (CLI + TUI). Kept small: reusable styles and a few emojis.

const (
	IconChat    = "💬"
	IconSparkle = "✨"
	IconBolt    = "⚡"
	IconFlame   = "🔥"
	IconTrophy  = "🏆"
	IconBook    = "📚"
	IconWarn    = "⚠️"
	IconError   = "🧨"
	IconLock    = "🔒"
)

var (
	cPrimary = lipgloss.Color("39")  // cyan-blue
	cAccent  = lipgloss.Color("170") // purple
	cGood    = lipgloss.Color("42")  // green
	cWarn    = lipgloss.Color("214") // orange
	cBad     = lipgloss.Color("196") // red
	cMuted   = lipgloss.Color("244") // gray
	cGold    = lipgloss.Color("220") // gold
)

var (
	Title = lipgloss.NewStyle().Bold(true).Foreground(cAccent)
	H2    = lipgloss.NewStyle().Bold(true).Foreground(cPrimary)
	Muted = lipgloss.NewStyle().Foreground(cMuted)
	Key   = lipgloss.NewStyle().Bold(true).Foreground(cPrimary)
	Good  = lipgloss.NewStyle().Bold(true).Foreground(cGood)
	Warn  = lipgloss.NewStyle().Bold(true).Foreground(cWarn)
	Bad   = lipgloss.NewStyle().Bold(true).Foreground(cBad)
	Gold  = lipgloss.NewStyle().Bold(true).Foreground(cGold)

	Panel = lipgloss.NewStyle().BorderStyle(lipgloss.RoundedBorder()).BorderForeground(cMuted).Padding(0, 1)

	BadgeLevelUp = lipgloss.NewStyle().Bold(true).Foreground(cGold).Render("LEVEL UP")
)

func Heading(icon string, title string) string {
	icon = strings.TrimSpace(icon)
	if icon != "" {
		icon += " "
	}
	return Title.Render(icon + title)
}

func LabelValue(label string, value any) string {
	return fmt.Sprintf("%s %v", Key.Render(label+":"), value)
}

// RoleText colors an activity-log role for display.
func RoleText(role string) string {
	switch role {
	case "user":
		return Good.Render("user")
	case "bot":
		return H2.Render("bot")
	case "system":
		return Muted.Render("system")
	default:
		return Muted.Render(role)
	}
}
