package tui

import (
	tea "github.com/charmbracelet/bubbletea"
)

// RunBoard starts the interactive kanban board and blocks until the user
// quits. A move that was still in flight when quitting is reported.
func RunBoard(board Board, opts BoardOptions) error {
	p := tea.NewProgram(NewBoardModel(board, opts), tea.WithAltScreen())
	final, err := p.Run()
	if err != nil {
		return err
	}
	if m, ok := final.(BoardModel); ok && m.Err() != nil {
		return m.Err()
	}
	return nil
}
