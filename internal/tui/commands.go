package tui

import (
	tea "github.com/charmbracelet/bubbletea"
)

func refresh() tea.Msg {
	return refreshMsg{}
}
