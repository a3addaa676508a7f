package tui

import (
	"context"
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/opus-software/opus/internal/models"
	"github.com/opus-software/opus/internal/parser"
	"github.com/opus-software/opus/internal/store"
)

const moveTimeout = 30 * time.Second

// Board is what the kanban view reads from and writes through.
type Board interface {
	State() store.State
	MoveTask(ctx context.Context, id string, status models.TaskStatus) (models.Task, []models.UserBadge, error)
}

// BoardOptions scopes the board to a project or an epic. Both empty shows
// every task of the company.
type BoardOptions struct {
	Title     string
	ProjectID string
	EpicID    string
	Now       func() time.Time
}

type shimmerTickMsg struct{}

type moveDoneMsg struct {
	taskID string
	earned []models.UserBadge
	err    error
}

// BoardModel is a three column kanban of tasks. Moving a card shows the new
// column at once; if the remote rejects the move the card jumps back and the
// error is shown under the board.
type BoardModel struct {
	board Board
	opts  BoardOptions

	width  int
	height int

	columns    [][]models.Task
	col        int
	row        int
	selectedID string

	// cards moved locally whose remote call has not returned yet
	pending map[string]models.TaskStatus

	searching bool
	search    textinput.Model

	keys     boardKeys
	help     help.Model
	shimmer  *Shimmer
	banner   string
	bannerFx *Shimmer
	err      error
}

// NewBoardModel creates a new board TUI model
func NewBoardModel(board Board, opts BoardOptions) BoardModel {
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if opts.Title == "" {
		opts.Title = "Board"
	}

	search := textinput.New()
	search.Prompt = "Search: "
	search.Placeholder = "title, label, status..."
	search.CharLimit = 80

	m := BoardModel{
		board:    board,
		opts:     opts,
		pending:  map[string]models.TaskStatus{},
		search:   search,
		keys:     defaultBoardKeys(),
		help:     help.New(),
		shimmer:  NewShimmer(DefaultShimmerConfig()),
		bannerFx: NewShimmer(DefaultShimmerConfig()),
	}
	m.refresh()
	return m
}

func (m BoardModel) Init() tea.Cmd {
	return m.tick()
}

func (m BoardModel) tick() tea.Cmd {
	if !m.shimmer.Active() && !(m.banner != "" && m.bannerFx.Active()) {
		return nil
	}
	return tea.Tick(m.shimmer.Interval(), func(time.Time) tea.Msg { return shimmerTickMsg{} })
}

// Selected returns the card under the cursor.
func (m BoardModel) Selected() (models.Task, bool) {
	if m.col >= len(m.columns) || m.row >= len(m.columns[m.col]) {
		return models.Task{}, false
	}
	return m.columns[m.col][m.row], true
}

// Column returns the cards currently shown for a status.
func (m BoardModel) Column(status models.TaskStatus) []models.Task {
	i := slices.Index(models.TaskStatuses, status)
	if i < 0 || i >= len(m.columns) {
		return nil
	}
	return m.columns[i]
}

// Err is the last failed move, if any.
func (m BoardModel) Err() error { return m.err }

// Banner is the last badge announcement.
func (m BoardModel) Banner() string { return m.banner }

func (m BoardModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case shimmerTickMsg:
		return m, m.tick()

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		return m, nil

	case moveDoneMsg:
		delete(m.pending, msg.taskID)
		if msg.err != nil {
			m.err = msg.err
		} else {
			m.err = nil
			if len(msg.earned) > 0 {
				m.banner = m.announce(msg.earned)
				m.bannerFx.Reset()
			}
		}
		m.refresh()
		return m, m.tick()

	case tea.KeyMsg:
		if m.searching {
			return m.updateSearch(msg)
		}
		return m.updateBoard(msg)
	}
	return m, nil
}

func (m BoardModel) updateBoard(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		if msg.String() == "esc" && m.search.Value() != "" {
			m.search.SetValue("")
			m.refresh()
			return m, nil
		}
		return m, tea.Quit

	case key.Matches(msg, m.keys.Up):
		if m.row > 0 {
			m.row--
			m.selectionChanged()
		}
	case key.Matches(msg, m.keys.Down):
		if m.row < len(m.columns[m.col])-1 {
			m.row++
			m.selectionChanged()
		}
	case key.Matches(msg, m.keys.Left):
		m.focusColumn(m.col - 1)
	case key.Matches(msg, m.keys.Right):
		m.focusColumn(m.col + 1)

	case key.Matches(msg, m.keys.MoveLeft):
		return m.move(m.col - 1)
	case key.Matches(msg, m.keys.MoveRight):
		return m.move(m.col + 1)
	case key.Matches(msg, m.keys.Done):
		return m.move(slices.Index(models.TaskStatuses, models.TaskDone))

	case key.Matches(msg, m.keys.Search):
		m.searching = true
		m.shimmer.SetActive(false)
		cmd := m.search.Focus()
		return m, cmd
	case key.Matches(msg, m.keys.Help):
		m.help.ShowAll = !m.help.ShowAll
	}
	return m, nil
}

func (m BoardModel) updateSearch(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEsc:
		m.search.SetValue("")
		fallthrough
	case tea.KeyEnter:
		m.searching = false
		m.search.Blur()
		m.shimmer.SetActive(true)
		m.refresh()
		return m, m.tick()
	}

	var cmd tea.Cmd
	m.search, cmd = m.search.Update(msg)
	m.refresh()
	return m, cmd
}

// move sends the selected card to the column at index to.
func (m BoardModel) move(to int) (tea.Model, tea.Cmd) {
	task, ok := m.Selected()
	if !ok || to < 0 || to >= len(models.TaskStatuses) || to == m.col {
		return m, nil
	}
	if _, busy := m.pending[task.ID]; busy {
		return m, nil
	}

	status := models.TaskStatuses[to]
	m.pending[task.ID] = status
	m.selectedID = task.ID
	m.err = nil
	m.refresh()

	board := m.board
	return m, func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), moveTimeout)
		defer cancel()
		_, earned, err := board.MoveTask(ctx, task.ID, status)
		if err != nil {
			err = fmt.Errorf("could not move %q to %s: %w", task.Title, status, err)
		}
		return moveDoneMsg{taskID: task.ID, earned: earned, err: err}
	}
}

func (m *BoardModel) focusColumn(col int) {
	if col < 0 || col >= len(m.columns) {
		return
	}
	m.col = col
	m.row = min(m.row, max(0, len(m.columns[col])-1))
	m.selectionChanged()
}

func (m *BoardModel) selectionChanged() {
	m.selectedID = ""
	if t, ok := m.Selected(); ok {
		m.selectedID = t.ID
	}
	m.shimmer.Reset()
}

// refresh rebuilds the columns from the board state, pending moves and the
// search query, keeping the cursor on the same card when it is still shown.
func (m *BoardModel) refresh() {
	s := m.board.State()

	var tasks []models.Task
	switch {
	case m.opts.EpicID != "":
		tasks = store.EpicTasks(s, m.opts.EpicID)
	case m.opts.ProjectID != "":
		tasks = store.ProjectTasks(s, m.opts.ProjectID)
	default:
		tasks = s.Tasks
	}

	if q := strings.TrimSpace(m.search.Value()); q != "" {
		scope := make(map[string]bool, len(tasks))
		for _, t := range tasks {
			scope[t.ID] = true
		}
		tasks = slices.DeleteFunc(store.SearchTasks(s, q), func(t models.Task) bool { return !scope[t.ID] })
	}

	m.columns = make([][]models.Task, len(models.TaskStatuses))
	for _, t := range tasks {
		if st, ok := m.pending[t.ID]; ok {
			t.Status = st
		}
		i := slices.Index(models.TaskStatuses, t.Status)
		if i < 0 {
			i = 0
		}
		m.columns[i] = append(m.columns[i], t)
	}

	if m.selectedID != "" {
		for c, col := range m.columns {
			for r, t := range col {
				if t.ID == m.selectedID {
					m.col, m.row = c, r
					return
				}
			}
		}
	}
	m.row = min(m.row, max(0, len(m.columns[m.col])-1))
	if t, ok := m.Selected(); ok {
		m.selectedID = t.ID
	}
}

func (m BoardModel) announce(earned []models.UserBadge) string {
	s := m.board.State()
	parts := make([]string, 0, len(earned))
	for _, ub := range earned {
		badge, ok := models.FindBadge(ub.BadgeID)
		if !ok {
			continue
		}
		who := ub.UserID
		if u, ok := store.UserByID(s, ub.UserID); ok && u.FullName != "" {
			who = u.FullName
		}
		parts = append(parts, fmt.Sprintf("%s %s earned %s", badge.Icon, who, badge.Name))
	}
	return strings.Join(parts, "  ")
}

func (m BoardModel) View() string {
	if m.width == 0 || m.height == 0 {
		return "Loading..."
	}

	header := lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color(ColorAccentBright)).
		Render("📋 " + m.opts.Title)

	colWidth := max(24, (m.width-2)/len(m.columns)-1)
	panels := make([]string, len(m.columns))
	for i := range m.columns {
		panels[i] = m.renderColumn(i, colWidth)
	}
	board := lipgloss.JoinHorizontal(lipgloss.Top, panels...)

	lines := []string{"", header, "", board, ""}
	if m.err != nil {
		lines = append(lines, lipgloss.NewStyle().Foreground(lipgloss.Color(ColorError)).Render("✗ "+m.err.Error()))
	}
	if m.banner != "" {
		lines = append(lines, m.bannerFx.Render(m.banner, m.width))
	}
	if m.searching || m.search.Value() != "" {
		lines = append(lines, m.search.View())
	}
	lines = append(lines, m.help.View(m.keys))
	return lipgloss.JoinVertical(lipgloss.Left, lines...)
}

func (m BoardModel) renderColumn(i, width int) string {
	status := models.TaskStatuses[i]
	cards := m.columns[i]

	var b strings.Builder
	b.WriteString(lipgloss.NewStyle().
		Bold(true).
		Foreground(StatusColor(status)).
		Render(fmt.Sprintf("%s (%d)", strings.ToUpper(string(status)), len(cards))))
	b.WriteString("\n")

	if len(cards) == 0 {
		b.WriteString(lipgloss.NewStyle().
			Foreground(lipgloss.Color(ColorDisabledText)).
			Italic(true).
			Render("No tasks"))
	}

	// each card is about five lines tall
	visible := max(1, (m.height-10)/5)
	start := 0
	if i == m.col && m.row >= visible {
		start = m.row - visible + 1
	}
	end := min(len(cards), start+visible)
	for r := start; r < end; r++ {
		b.WriteString(m.renderCard(cards[r], i == m.col && r == m.row, width-4))
		b.WriteString("\n")
	}
	if hidden := len(cards) - (end - start); hidden > 0 {
		b.WriteString(lipgloss.NewStyle().
			Foreground(lipgloss.Color(ColorHelpText)).
			Render(fmt.Sprintf("+%d more", hidden)))
	}

	borderColor := ColorBorder
	if i == m.col {
		borderColor = ColorAccentMain
	}
	return lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color(borderColor)).
		Width(width).
		Render(b.String())
}

func (m BoardModel) renderCard(t models.Task, selected bool, width int) string {
	s := m.board.State()

	title := truncate(t.Title, width)
	if selected {
		title = m.shimmer.Render(t.Title, width)
	}

	meta := []string{lipgloss.NewStyle().Foreground(PriorityColor(t.Priority)).Render(string(t.Priority))}
	if t.DueDate != nil {
		meta = append(meta, parser.FormatDueDate(t.DueDate, m.opts.Now()))
	}
	if a := t.Assignee(); a != "" {
		if u, ok := store.UserByID(s, a); ok && u.FullName != "" {
			a = u.FullName
		}
		meta = append(meta, "@"+a)
	}
	if _, busy := m.pending[t.ID]; busy {
		meta = append(meta, "…")
	}

	lines := []string{title, strings.Join(meta, " · ")}
	if labels := store.TaskLabels(s, t); len(labels) > 0 {
		chips := make([]string, len(labels))
		for i, l := range labels {
			chips[i] = lipgloss.NewStyle().Foreground(LabelColor(l.Color)).Render("#" + l.Name)
		}
		lines = append(lines, strings.Join(chips, " "))
	}

	style := lipgloss.NewStyle().Padding(0, 1).Width(width)
	if selected {
		style = style.
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color(ColorAccentBright)).
			Bold(true)
	} else {
		style = style.Foreground(lipgloss.Color(ColorPrimaryText))
	}
	return style.Render(strings.Join(lines, "\n"))
}
