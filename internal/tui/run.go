package tui

import (
	"context"
	"errors"
	"fmt"

	"github.com/Veraticus/spice-ledger/internal/ledger"
	tea "github.com/charmbracelet/bubbletea"
)

// Run starts the dashboard and blocks until the user quits or ctx is canceled.
func Run(ctx context.Context, session *ledger.Session, opts ...Option) error {
	if session == nil {
		return fmt.Errorf("session is required")
	}

	p := tea.NewProgram(New(ctx, session, opts...), tea.WithAltScreen(), tea.WithContext(ctx))
	if _, err := p.Run(); err != nil {
		if errors.Is(err, tea.ErrProgramKilled) && ctx.Err() != nil {
			return nil
		}
		return fmt.Errorf("dashboard failed: %w", err)
	}
	return nil
}
