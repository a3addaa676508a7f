package store

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/opus-software/opus/internal/models"
)

func ptr[T any](v T) *T { return &v }

// fixture: two spaces; s1 holds p1 (e1, e2) and p2 (e3); s2 holds p3 (e4).
func fixture() State {
	s := Empty("cp00909ucQ")
	s.Spaces = []models.Space{{ID: "s1"}, {ID: "s2"}}
	s.Projects = []models.Project{{ID: "p1", SpaceID: "s1"}, {ID: "p2", SpaceID: "s1"}, {ID: "p3", SpaceID: "s2"}}
	s.Epics = []models.Epic{{ID: "e1", ProjectID: "p1"}, {ID: "e2", ProjectID: "p1"}, {ID: "e3", ProjectID: "p2"}, {ID: "e4", ProjectID: "p3"}}
	s.Tasks = []models.Task{
		{ID: "t1", EpicID: "e1", Title: "Login page", Status: models.TaskTodo, Priority: models.PriorityHigh},
		{ID: "t2", EpicID: "e2", Title: "Logout", Status: models.TaskDone, Priority: models.PriorityLow},
		{ID: "t3", EpicID: "e3", Title: "Catalog", Status: models.TaskInProgress, Priority: models.PriorityMedium, Labels: []string{"l1"}},
		{ID: "t4", EpicID: "e4", Title: "Blog", Status: models.TaskTodo, Priority: models.PriorityUrgent},
	}
	s.Labels = []models.Label{{ID: "l1", SpaceID: "s1", Name: "login"}}
	return s
}

func ids[T models.Identifiable](items []T) []string {
	out := make([]string, len(items))
	for i, it := range items {
		out[i] = it.EntityID()
	}
	return out
}

func TestAddSkipsDuplicates(t *testing.T) {
	s := fixture()
	next := Reduce(s, AddSpace{Space: models.Space{ID: "s1", Name: "again"}})
	assert.Equal(t, s.Spaces, next.Spaces)

	next = Reduce(s, AddSpace{Space: models.Space{ID: "s3"}})
	assert.Equal(t, []string{"s1", "s2", "s3"}, ids(next.Spaces))
	assert.Len(t, s.Spaces, 2, "input state must not change")
}

func TestReplace(t *testing.T) {
	s := fixture()
	next := Reduce(s, ReplaceProject{Project: models.Project{ID: "p2", SpaceID: "s1", Name: "Renamed"}})
	assert.Equal(t, "Renamed", next.Projects[1].Name)
	assert.Empty(t, s.Projects[1].Name)

	next = Reduce(s, ReplaceProject{Project: models.Project{ID: "nope"}})
	assert.Equal(t, s.Projects, next.Projects)
}

func TestCascadeRemoveSpace(t *testing.T) {
	s := fixture()
	next := Reduce(s, RemoveSpace{ID: "s1"})

	assert.Equal(t, []string{"s2"}, ids(next.Spaces))
	assert.Equal(t, []string{"p3"}, ids(next.Projects))
	assert.Equal(t, []string{"e4"}, ids(next.Epics))
	assert.Equal(t, []string{"t4"}, ids(next.Tasks))
	assert.Equal(t, fixture(), s)
}

func TestCascadeRemoveProject(t *testing.T) {
	next := Reduce(fixture(), RemoveProject{ID: "p1"})

	assert.Equal(t, []string{"s1", "s2"}, ids(next.Spaces))
	assert.Equal(t, []string{"p2", "p3"}, ids(next.Projects))
	assert.Equal(t, []string{"e3", "e4"}, ids(next.Epics))
	assert.Equal(t, []string{"t3", "t4"}, ids(next.Tasks))
}

func TestCascadeRemoveEpic(t *testing.T) {
	next := Reduce(fixture(), RemoveEpic{ID: "e3"})

	assert.Equal(t, []string{"p1", "p2", "p3"}, ids(next.Projects))
	assert.Equal(t, []string{"e1", "e2", "e4"}, ids(next.Epics))
	assert.Equal(t, []string{"t1", "t2", "t4"}, ids(next.Tasks))
}

func TestRemoveUnknownIsNoop(t *testing.T) {
	s := fixture()
	assert.Equal(t, s, Reduce(s, RemoveTask{ID: "missing"}))
	assert.Equal(t, s, Reduce(s, RemoveEpic{ID: "missing"}))
}

func TestAddUserBadgesIsIdempotent(t *testing.T) {
	at := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	rows := []models.UserBadge{
		{UserID: "u1", BadgeID: models.BadgeFirstTask, EarnedAt: at},
		{UserID: "u1", BadgeID: models.BadgeFirstTask, EarnedAt: at.Add(time.Hour)},
	}

	once := Reduce(Empty("c"), AddUserBadges{Badges: rows})
	require.Len(t, once.UserBadges, 1)
	assert.Equal(t, at, once.UserBadges[0].EarnedAt)

	twice := Reduce(once, AddUserBadges{Badges: rows})
	assert.Equal(t, once.UserBadges, twice.UserBadges)
}

func TestResetAndMarkLoaded(t *testing.T) {
	s := Reduce(fixture(), MarkLoaded{})
	assert.True(t, s.IsLoaded)

	s = Reduce(s, Reset{CompanyID: "cp00909ucR"})
	assert.False(t, s.IsLoaded)
	assert.Equal(t, "cp00909ucR", s.CompanyID)
	assert.Empty(t, s.Spaces)
	assert.NotNil(t, s.Tasks)
}

func TestStoreNotifiesSubscribers(t *testing.T) {
	st := New("c")
	var seen []int
	unsubscribe := st.Subscribe(func(s State) { seen = append(seen, len(s.Spaces)) })

	st.Dispatch(AddSpace{Space: models.Space{ID: "a"}}, AddSpace{Space: models.Space{ID: "b"}})
	unsubscribe()
	st.Dispatch(AddSpace{Space: models.Space{ID: "c"}})

	assert.Equal(t, []int{2}, seen)
	assert.Len(t, st.State().Spaces, 3)
}

func TestOptimisticRollsBack(t *testing.T) {
	st := New("c")
	st.Dispatch(Replace{State: fixture()})
	before := st.State().Tasks

	var during models.TaskStatus
	err := Optimistic(context.Background(), st, TasksLens,
		func(tasks []models.Task) []models.Task {
			tasks[0] = models.TaskPatch{Status: ptr(models.TaskDone)}.Apply(tasks[0])
			return tasks
		},
		func(context.Context) error {
			during = st.State().Tasks[0].Status
			return errors.New("remote said no")
		},
	)

	require.EqualError(t, err, "remote said no")
	assert.Equal(t, models.TaskDone, during, "change must be visible before the remote call")
	assert.Equal(t, before, st.State().Tasks)
	assert.Equal(t, models.TaskTodo, before[0].Status)
}

func TestOptimisticKeepsChangeOnSuccess(t *testing.T) {
	st := New("c")
	st.Dispatch(Replace{State: fixture()})

	err := Optimistic(context.Background(), st, TasksLens,
		func(tasks []models.Task) []models.Task { return tasks[1:] },
		func(context.Context) error { return nil },
	)
	require.NoError(t, err)
	assert.Equal(t, []string{"t2", "t3", "t4"}, ids(st.State().Tasks))
}

func TestSelectors(t *testing.T) {
	s := fixture()
	assert.Equal(t, []string{"p1", "p2"}, ids(SpaceProjects(s, "s1")))
	assert.Equal(t, []string{"e1", "e2"}, ids(ProjectEpics(s, "p1")))
	assert.Equal(t, []string{"t1", "t2"}, ids(ProjectTasks(s, "p1")))
	assert.Equal(t, []string{"t3"}, ids(EpicTasks(s, "e3")))
	assert.Equal(t, []string{"l1"}, ids(SpaceLabels(s, "s1")))

	_, ok := TaskByID(s, "t9")
	assert.False(t, ok)

	now := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	current := CurrentUser(s, now)
	assert.Equal(t, models.UserOffline, current.Status)
	assert.Equal(t, 1, current.Level)

	s.Users = []models.User{{ID: "u1"}, {ID: "u2"}}
	assert.Equal(t, "u1", CurrentUser(s, now).ID)
}

func TestEpicProgress(t *testing.T) {
	s := fixture()
	s.Tasks = append(s.Tasks,
		models.Task{ID: "t5", EpicID: "e1", Status: models.TaskDone},
		models.Task{ID: "t6", EpicID: "e1", Status: models.TaskDone},
	)

	p := EpicProgress(s, "e1")
	assert.Equal(t, models.Progress{Total: 3, Done: 2, Percent: 67, Status: models.EpicInProgress}, p)
	assert.Equal(t, models.Progress{Status: models.EpicTodo}, EpicProgress(s, "empty"))
	assert.Equal(t, models.EpicCompleted, EpicProgress(s, "e2").Status)
}

func TestSearchTasksRanking(t *testing.T) {
	s := fixture()

	// "login" is exact on the label of t3 and a prefix of t1's title.
	assert.Equal(t, []string{"t3", "t1"}, ids(SearchTasks(s, "LOGIN")))

	// t3 ranks as a prefix through its label, not as a suffix through "Catalog"
	assert.Equal(t, []string{"t1", "t2", "t3", "t4"}, ids(SearchTasks(s, "log")))

	assert.Equal(t, []string{"t4"}, ids(SearchTasks(s, "urgent")))
	assert.Empty(t, SearchTasks(s, "  "))
	assert.Empty(t, SearchTasks(s, "zzz"))
}
