package engine

import "strings"

type Command string

const (
	CommandHelp         Command = "help"
	CommandXP           Command = "xp"
	CommandLevel        Command = "level"
	CommandStreak       Command = "streak"
	CommandStats        Command = "stats"
	CommandLeaderboard  Command = "leaderboard"
	CommandAchievements Command = "achievements"
	CommandReset        Command = "reset"
	CommandQuote        Command = "quote"
)

// commandTable is the fixed command set. Anything after the sigil that is not
// in this table falls through to normal processing; typos never error.
var commandTable = map[string]Command{
	"help":         CommandHelp,
	"xp":           CommandXP,
	"level":        CommandLevel,
	"streak":       CommandStreak,
	"stats":        CommandStats,
	"leaderboard":  CommandLeaderboard,
	"achievements": CommandAchievements,
	"reset":        CommandReset,
	"quote":        CommandQuote,
}

type RouteKind int

const (
	RouteUnhandled RouteKind = iota
	RouteCommand
	RouteIntent
	RouteTask
)

type RouteResult struct {
	Kind    RouteKind
	Command Command
	Intent  Intent
	Task    *TaskDef
}

// Route resolves moderated text to a slash command, a detected task, a
// classified intent, or Unhandled. It only classifies; no side effects.
func Route(text string) RouteResult {
	trimmed := strings.TrimSpace(text)

	if strings.HasPrefix(trimmed, "/") {
		word := strings.Fields(trimmed[1:])
		if len(word) > 0 {
			if cmd, ok := commandTable[strings.ToLower(word[0])]; ok {
				return RouteResult{Kind: RouteCommand, Command: cmd}
			}
		}
		// Unknown command: fall through to normal processing.
	}

	if task := DetectTask(trimmed); task != nil {
		return RouteResult{Kind: RouteTask, Task: task}
	}

	if intent, ok := ClassifyIntent(trimmed); ok {
		return RouteResult{Kind: RouteIntent, Intent: intent}
	}

	if strings.Contains(trimmed, "?") {
		return RouteResult{Kind: RouteIntent, Intent: IntentHelp}
	}

	return RouteResult{Kind: RouteUnhandled}
}
