package tui

import "github.com/charmbracelet/bubbles/key"

type boardKeys struct {
	Up        key.Binding
	Down      key.Binding
	Left      key.Binding
	Right     key.Binding
	MoveLeft  key.Binding
	MoveRight key.Binding
	Done      key.Binding
	Search    key.Binding
	Help      key.Binding
	Quit      key.Binding
}

func defaultBoardKeys() boardKeys {
	return boardKeys{
		Up:        key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "up")),
		Down:      key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "down")),
		Left:      key.NewBinding(key.WithKeys("left", "h"), key.WithHelp("←/h", "prev column")),
		Right:     key.NewBinding(key.WithKeys("right", "l"), key.WithHelp("→/l", "next column")),
		MoveLeft:  key.NewBinding(key.WithKeys("H", "shift+left", "<"), key.WithHelp("H", "move card left")),
		MoveRight: key.NewBinding(key.WithKeys("L", "shift+right", ">"), key.WithHelp("L", "move card right")),
		Done:      key.NewBinding(key.WithKeys("d"), key.WithHelp("d", "done")),
		Search:    key.NewBinding(key.WithKeys("/"), key.WithHelp("/", "search")),
		Help:      key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "more")),
		Quit:      key.NewBinding(key.WithKeys("q", "esc", "ctrl+c"), key.WithHelp("q", "quit")),
	}
}

func (k boardKeys) ShortHelp() []key.Binding {
	return []key.Binding{k.Left, k.Right, k.MoveRight, k.Done, k.Search, k.Help, k.Quit}
}

func (k boardKeys) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down, k.Left, k.Right},
		{k.MoveLeft, k.MoveRight, k.Done},
		{k.Search, k.Help, k.Quit},
	}
}
