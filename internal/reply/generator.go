// Package reply produces user-facing reply text. The engine consumes it as a
// soft collaborator: generation may fail or time out, but the exported
// Fallback wrapper always degrades to a deterministic template.
package reply

import (
	"context"
	"time"

	"go.uber.org/zap"
)

// GenerateTimeout bounds one reply-generation attempt, external calls included.
const GenerateTimeout = 5 * time.Second

// Context carries the conversational fields templates may substitute.
type Context struct {
	DisplayName string
	Snippet     string
	Level       int
	StreakDays  int
}

type Generator interface {
	Generate(ctx context.Context, text string, rc Context) (string, error)
}

// Snippet shortens a message for template substitution: first 80 characters
// plus an ellipsis, mirroring the dashboard bot's behavior.
func Snippet(text string) string {
	const max = 80
	r := []rune(text)
	if len(r) <= max {
		return text
	}
	return string(r[:max]) + "..."
}

// SafeDefault is the deterministic reply of last resort.
func SafeDefault(rc Context) string {
	name := rc.DisplayName
	if name == "" {
		name = "Friend"
	}
	return "I'm here and listening, " + name + ". Tell me more!"
}

// Fallback tries a primary generator and degrades to the template backup on
// any error. Its own Generate never returns a non-nil error.
type Fallback struct {
	primary Generator
	backup  *TemplateGenerator
	log     *zap.Logger
}

// NewFallback wraps primary (may be nil) with a template backup.
func NewFallback(primary Generator, backup *TemplateGenerator, log *zap.Logger) *Fallback {
	if backup == nil {
		backup = NewTemplateGenerator()
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &Fallback{primary: primary, backup: backup, log: log}
}

func (f *Fallback) Generate(ctx context.Context, text string, rc Context) (string, error) {
	if f.primary != nil {
		out, err := f.primary.Generate(ctx, text, rc)
		if err == nil && out != "" {
			return out, nil
		}
		if err != nil {
			f.log.Warn("primary reply generator failed, using template", zap.Error(err))
		}
	}
	return f.backup.Generate(ctx, text, rc)
}
