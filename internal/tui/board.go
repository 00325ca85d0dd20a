package tui

import (
	"context"
	"io"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/KemboiK/evolve-bot/internal/engine"
)

// RunBoard opens the progress dashboard for one session.
func RunBoard(ctx context.Context, svc *engine.Service, sessionKey string, out io.Writer) error {
	m := newBoardModel(ctx, svc, sessionKey)
	p := tea.NewProgram(m, tea.WithOutput(out))
	_, err := p.Run()
	return err
}
