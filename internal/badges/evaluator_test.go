package badges

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/opus-software/opus/internal/models"
)

var now = time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC)

func doneTasks(userID, epicID string, n int) []models.Task {
	tasks := make([]models.Task, n)
	for i := range tasks {
		assignee := userID
		tasks[i] = models.Task{
			ID:         fmt.Sprintf("%s-%s-%d", epicID, userID, i),
			EpicID:     epicID,
			Status:     models.TaskDone,
			AssigneeID: &assignee,
		}
	}
	return tasks
}

func badgeIDs(rows []models.UserBadge) []string {
	var out []string
	for _, r := range rows {
		out = append(out, r.BadgeID)
	}
	return out
}

func TestFirstTask(t *testing.T) {
	earned := Evaluate("u1", doneTasks("u1", "e1", 1), nil, now)
	require.Len(t, earned, 1)
	assert.Equal(t, models.UserBadge{UserID: "u1", BadgeID: models.BadgeFirstTask, EarnedAt: now}, earned[0])
}

func TestThresholds(t *testing.T) {
	tests := []struct {
		name  string
		tasks []models.Task
		want  []string
	}{
		{"nothing done", nil, nil},
		{"nine tasks", doneTasks("u1", "e1", 9), []string{models.BadgeFirstTask}},
		{"ten tasks across epics", append(doneTasks("u1", "e1", 5), doneTasks("u1", "e2", 5)...),
			[]string{models.BadgeFirstTask, models.BadgeTaskMaster}},
		{"nineteen in one epic", doneTasks("u1", "e1", 19), []string{models.BadgeFirstTask, models.BadgeTaskMaster}},
		{"twenty in one epic", doneTasks("u1", "e1", 20),
			[]string{models.BadgeFirstTask, models.BadgeTaskMaster, models.BadgeEpicConqueror}},
		{"twenty split across epics", append(doneTasks("u1", "e1", 10), doneTasks("u1", "e2", 10)...),
			[]string{models.BadgeFirstTask, models.BadgeTaskMaster}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, badgeIDs(Evaluate("u1", tt.tasks, nil, now)))
		})
	}
}

func TestOnlyCountsOwnDoneTasks(t *testing.T) {
	tasks := doneTasks("u2", "e1", 30)
	open := doneTasks("u1", "e1", 3)
	for i := range open {
		open[i].Status = models.TaskInProgress
	}
	tasks = append(tasks, open...)
	tasks = append(tasks, models.Task{ID: "unassigned", EpicID: "e1", Status: models.TaskDone})

	assert.Empty(t, Evaluate("u1", tasks, nil, now))
	assert.Empty(t, Evaluate("", tasks, nil, now))
}

func TestIdempotent(t *testing.T) {
	tasks := doneTasks("u1", "e1", 20)
	first := Evaluate("u1", tasks, nil, now)
	require.Len(t, first, 3)

	assert.Empty(t, Evaluate("u1", tasks, first, now.Add(time.Hour)))

	// badges held by someone else do not count
	other := []models.UserBadge{{UserID: "u2", BadgeID: models.BadgeFirstTask}}
	assert.Len(t, Evaluate("u1", tasks, other, now), 3)
}

func TestEarned(t *testing.T) {
	rows := []models.UserBadge{
		{UserID: "u1", BadgeID: models.BadgeTaskMaster, EarnedAt: now.Add(time.Hour)},
		{UserID: "u2", BadgeID: models.BadgeEpicConqueror, EarnedAt: now},
		{UserID: "u1", BadgeID: models.BadgeFirstTask, EarnedAt: now},
	}

	earned := Earned("u1", rows)
	require.Len(t, earned, 2)
	assert.Equal(t, "Primeira de Muitas", earned[0].Name)
	assert.Equal(t, now, earned[0].EarnedAt)
	assert.Equal(t, "Mestre das Tarefas", earned[1].Name)
	assert.Empty(t, Earned("nobody", rows))
}
