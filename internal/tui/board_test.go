package tui

import (
	"context"
	"errors"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/opus-software/opus/internal/models"
	"github.com/opus-software/opus/internal/store"
)

// fakeBoard applies moves to its state only when err is nil.
type fakeBoard struct {
	state  store.State
	err    error
	earned []models.UserBadge
	moves  []string
}

func (f *fakeBoard) State() store.State { return f.state }

func (f *fakeBoard) MoveTask(_ context.Context, id string, status models.TaskStatus) (models.Task, []models.UserBadge, error) {
	f.moves = append(f.moves, id+"->"+string(status))
	if f.err != nil {
		return models.Task{}, nil, f.err
	}
	for i, t := range f.state.Tasks {
		if t.ID == id {
			f.state.Tasks[i].Status = status
			return f.state.Tasks[i], f.earned, nil
		}
	}
	return models.Task{}, nil, errors.New("not found")
}

func newFakeBoard() *fakeBoard {
	s := store.Empty("cp00909ucQ")
	s.Projects = []models.Project{{ID: "p1"}, {ID: "p2"}}
	s.Epics = []models.Epic{{ID: "e1", ProjectID: "p1"}, {ID: "e2", ProjectID: "p2"}}
	s.Labels = []models.Label{{ID: "l1", SpaceID: "s1", Name: "auth", Color: models.LabelRed}}
	s.Users = []models.User{{ID: "u1", FullName: "Ana Lima"}}
	s.Tasks = []models.Task{
		{ID: "t1", EpicID: "e1", Title: "Login page", Status: models.TaskTodo, Priority: models.PriorityHigh, Labels: []string{"l1"}},
		{ID: "t2", EpicID: "e1", Title: "Signup form", Status: models.TaskTodo, Priority: models.PriorityLow},
		{ID: "t3", EpicID: "e1", Title: "Session refresh", Status: models.TaskInProgress, Priority: models.PriorityMedium},
		{ID: "t4", EpicID: "e2", Title: "Billing export", Status: models.TaskDone, Priority: models.PriorityUrgent},
	}
	return &fakeBoard{state: s}
}

func ids(tasks []models.Task) []string {
	out := make([]string, len(tasks))
	for i, t := range tasks {
		out[i] = t.ID
	}
	return out
}

func runes(s string) tea.KeyMsg { return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)} }

func send(t *testing.T, m BoardModel, msg tea.Msg) (BoardModel, tea.Cmd) {
	t.Helper()
	next, cmd := m.Update(msg)
	bm, ok := next.(BoardModel)
	require.True(t, ok)
	return bm, cmd
}

func testOptions() BoardOptions {
	return BoardOptions{ProjectID: "p1", Now: func() time.Time { return time.Date(2025, 4, 2, 10, 0, 0, 0, time.UTC) }}
}

func TestBoardGroupsByStatus(t *testing.T) {
	m := NewBoardModel(newFakeBoard(), testOptions())

	assert.Equal(t, []string{"t1", "t2"}, ids(m.Column(models.TaskTodo)))
	assert.Equal(t, []string{"t3"}, ids(m.Column(models.TaskInProgress)))
	assert.Empty(t, m.Column(models.TaskDone), "other projects are not shown")

	sel, ok := m.Selected()
	require.True(t, ok)
	assert.Equal(t, "t1", sel.ID)

	all := NewBoardModel(newFakeBoard(), BoardOptions{})
	assert.Equal(t, []string{"t4"}, ids(all.Column(models.TaskDone)))
}

func TestBoardNavigation(t *testing.T) {
	m := NewBoardModel(newFakeBoard(), testOptions())

	m, _ = send(t, m, runes("j"))
	sel, _ := m.Selected()
	assert.Equal(t, "t2", sel.ID)

	m, _ = send(t, m, runes("l"))
	sel, _ = m.Selected()
	assert.Equal(t, "t3", sel.ID)

	// empty column leaves nothing selected
	m, _ = send(t, m, runes("l"))
	_, ok := m.Selected()
	assert.False(t, ok)

	m, _ = send(t, m, runes("l"))
	_, ok = m.Selected()
	assert.False(t, ok, "cursor stops at the last column")
}

func TestBoardMoveShowsImmediatelyThenConfirms(t *testing.T) {
	fb := newFakeBoard()
	m := NewBoardModel(fb, testOptions())

	m, cmd := send(t, m, runes("L"))
	require.NotNil(t, cmd)
	assert.Equal(t, []string{"t2"}, ids(m.Column(models.TaskTodo)))
	assert.Equal(t, []string{"t1", "t3"}, ids(m.Column(models.TaskInProgress)))
	sel, _ := m.Selected()
	assert.Equal(t, "t1", sel.ID, "cursor follows the card")
	assert.Empty(t, fb.moves, "remote call runs in the command")

	// a second move of the same card waits for the first
	_, again := send(t, m, runes("L"))
	assert.Nil(t, again)

	m, _ = send(t, m, cmd())
	assert.Equal(t, []string{"t1->in-progress"}, fb.moves)
	assert.NoError(t, m.Err())
	assert.Equal(t, []string{"t1", "t3"}, ids(m.Column(models.TaskInProgress)))
}

func TestBoardMoveRollsBackOnError(t *testing.T) {
	fb := newFakeBoard()
	fb.err = errors.New("PUT /tasks/t1: HTTP 500")
	m := NewBoardModel(fb, testOptions())

	m, cmd := send(t, m, runes("d"))
	assert.Equal(t, []string{"t1"}, ids(m.Column(models.TaskDone)))

	m, _ = send(t, m, cmd())
	require.Error(t, m.Err())
	assert.ErrorIs(t, m.Err(), fb.err)
	assert.Contains(t, m.Err().Error(), `could not move "Login page" to done`)
	assert.Equal(t, []string{"t1", "t2"}, ids(m.Column(models.TaskTodo)))
	assert.Empty(t, m.Column(models.TaskDone))
	sel, _ := m.Selected()
	assert.Equal(t, "t1", sel.ID)
}

func TestBoardAnnouncesBadges(t *testing.T) {
	fb := newFakeBoard()
	fb.earned = []models.UserBadge{{UserID: "u1", BadgeID: models.BadgeFirstTask}}
	m := NewBoardModel(fb, testOptions())

	m, cmd := send(t, m, runes("d"))
	m, _ = send(t, m, cmd())
	assert.Contains(t, m.Banner(), "Ana Lima earned Primeira de Muitas")
}

func TestBoardSearch(t *testing.T) {
	m := NewBoardModel(newFakeBoard(), testOptions())

	m, _ = send(t, m, runes("/"))
	for _, r := range "auth" {
		m, _ = send(t, m, runes(string(r)))
	}
	assert.Equal(t, []string{"t1"}, ids(m.Column(models.TaskTodo)))
	assert.Empty(t, m.Column(models.TaskInProgress))

	m, _ = send(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	assert.Equal(t, []string{"t1"}, ids(m.Column(models.TaskTodo)), "query stays applied")

	m, _ = send(t, m, tea.KeyMsg{Type: tea.KeyEsc})
	assert.Equal(t, []string{"t1", "t2"}, ids(m.Column(models.TaskTodo)), "esc clears the query first")
}

func TestBoardView(t *testing.T) {
	m := NewBoardModel(newFakeBoard(), testOptions())
	assert.Equal(t, "Loading...", m.View())

	m, _ = send(t, m, tea.WindowSizeMsg{Width: 120, Height: 40})
	view := m.View()
	assert.Contains(t, view, "TODO (2)")
	assert.Contains(t, view, "IN-PROGRESS (1)")
	assert.Contains(t, view, "#auth")
}
