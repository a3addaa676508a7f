package db

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/opus-software/opus/internal/models"
	"github.com/opus-software/opus/internal/store"
)

func openTestCache(t *testing.T) *Cache {
	t.Helper()
	c, err := Open(filepath.Join(t.TempDir(), "nested", "opus.db"), nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = c.Close() })
	return c
}

var created = time.Date(2025, 3, 1, 9, 30, 0, 0, time.UTC)

func sampleState(company string) store.State {
	assignee := "u1"
	due := time.Date(2025, 4, 10, 0, 0, 0, 0, time.UTC)
	s := store.Empty(company)
	s.Spaces = []models.Space{
		{ID: "s2", CompanyID: company, Name: "Ops", CreatedAt: created},
		{ID: "s1", CompanyID: company, Name: "Product", CreatedAt: created},
	}
	s.Projects = []models.Project{{ID: "p1", SpaceID: "s1", CompanyID: company, Name: "Web", ProjectKey: "WEB", Status: "active", CreatedAt: created}}
	s.Epics = []models.Epic{{ID: "e1", ProjectID: "p1", Title: "Auth", Status: "in-progress", Progress: 50, CreatedAt: created}}
	s.Tasks = []models.Task{
		{ID: "t2", EpicID: "e1", Title: "Logout", Status: models.TaskDone, Priority: models.PriorityLow, CreatedAt: created},
		{ID: "t1", EpicID: "e1", Title: "Login", Status: models.TaskTodo, Priority: models.PriorityHigh,
			AssigneeID: &assignee, DueDate: &due, Labels: []string{"l1"}, CreatedAt: created},
	}
	s.Labels = []models.Label{{ID: "l1", SpaceID: "s1", Name: "auth", Color: "red", CreatedAt: created}}
	s.Users = []models.User{{ID: "u1", CompanyID: company, Email: "ana@opus.dev", FullName: "Ana", Level: 2, CreatedAt: created}}
	s.UserBadges = []models.UserBadge{{UserID: "u1", BadgeID: models.BadgeFirstTask, EarnedAt: created}}
	return s
}

func TestSnapshotRoundTrip(t *testing.T) {
	c := openTestCache(t)
	ctx := context.Background()

	require.NoError(t, c.SaveSnapshot(ctx, sampleState("cp00909ucQ")))

	got, savedAt, err := c.LoadSnapshot(ctx, "cp00909ucQ")
	require.NoError(t, err)
	assert.False(t, savedAt.IsZero())
	assert.True(t, got.IsLoaded)
	assert.Equal(t, "cp00909ucQ", got.CompanyID)

	require.Len(t, got.Spaces, 2)
	assert.Equal(t, "s2", got.Spaces[0].ID, "collection order is kept")
	assert.Equal(t, "s1", got.Spaces[1].ID)
	assert.True(t, created.Equal(got.Spaces[0].CreatedAt))

	require.Len(t, got.Tasks, 2)
	t1 := got.Tasks[1]
	assert.Equal(t, "t1", t1.ID)
	assert.Equal(t, models.PriorityHigh, t1.Priority)
	assert.Equal(t, "u1", t1.Assignee())
	assert.Equal(t, []string{"l1"}, t1.Labels)
	require.NotNil(t, t1.DueDate)
	assert.True(t, time.Date(2025, 4, 10, 0, 0, 0, 0, time.UTC).Equal(*t1.DueDate))
	assert.Nil(t, got.Tasks[0].AssigneeID)

	require.Len(t, got.Projects, 1)
	assert.Equal(t, "WEB", got.Projects[0].ProjectKey)
	require.Len(t, got.Epics, 1)
	assert.Equal(t, 50, got.Epics[0].Progress)
	require.Len(t, got.Labels, 1)
	assert.Equal(t, models.LabelColor("red"), got.Labels[0].Color)
	require.Len(t, got.Users, 1)
	assert.Equal(t, "ana@opus.dev", got.Users[0].Email)
	require.Len(t, got.UserBadges, 1)
	assert.Equal(t, models.BadgeFirstTask, got.UserBadges[0].BadgeID)
}

func TestSnapshotReplacesPreviousAndIsolatesCompanies(t *testing.T) {
	c := openTestCache(t)
	ctx := context.Background()

	require.NoError(t, c.SaveSnapshot(ctx, sampleState("cp00909ucQ")))
	require.NoError(t, c.SaveSnapshot(ctx, sampleState("cp00909ucR")))

	smaller := sampleState("cp00909ucQ")
	smaller.Tasks = smaller.Tasks[:1]
	smaller.UserBadges = nil
	require.NoError(t, c.SaveSnapshot(ctx, smaller))

	got, _, err := c.LoadSnapshot(ctx, "cp00909ucQ")
	require.NoError(t, err)
	require.Len(t, got.Tasks, 1)
	assert.Equal(t, "t2", got.Tasks[0].ID)
	assert.Empty(t, got.UserBadges)

	other, _, err := c.LoadSnapshot(ctx, "cp00909ucR")
	require.NoError(t, err)
	assert.Len(t, other.Tasks, 2)
	assert.Len(t, other.UserBadges, 1)
}

func TestLoadSnapshotMissing(t *testing.T) {
	c := openTestCache(t)
	_, _, err := c.LoadSnapshot(context.Background(), "cp00909ucS")
	assert.ErrorIs(t, err, ErrNoSnapshot)
}

func TestSaveUserBadgesKeepsFirstEarned(t *testing.T) {
	c := openTestCache(t)
	ctx := context.Background()
	later := created.Add(48 * time.Hour)

	require.NoError(t, c.SaveUserBadges(ctx, "cp00909ucQ", []models.UserBadge{
		{UserID: "u1", BadgeID: models.BadgeFirstTask, EarnedAt: created},
	}))
	require.NoError(t, c.SaveUserBadges(ctx, "cp00909ucQ", []models.UserBadge{
		{UserID: "u1", BadgeID: models.BadgeFirstTask, EarnedAt: later},
		{UserID: "u1", BadgeID: models.BadgeTaskMaster, EarnedAt: later},
	}))
	require.NoError(t, c.SaveUserBadges(ctx, "cp00909ucQ", nil))

	got, err := c.LoadUserBadges(ctx, "cp00909ucQ")
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, models.BadgeFirstTask, got[0].BadgeID)
	assert.True(t, created.Equal(got[0].EarnedAt))
	assert.Equal(t, models.BadgeTaskMaster, got[1].BadgeID)

	none, err := c.LoadUserBadges(ctx, "cp00909ucR")
	require.NoError(t, err)
	assert.Empty(t, none)
}
