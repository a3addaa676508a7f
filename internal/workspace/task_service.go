package workspace

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"github.com/opus-software/opus/internal/badges"
	"github.com/opus-software/opus/internal/models"
	"github.com/opus-software/opus/internal/normalize"
	"github.com/opus-software/opus/internal/store"
)

// CreateTask creates a task under an epic and appends it to the state.
func (w *Workspace) CreateTask(ctx context.Context, in models.CreateTask) (models.Task, error) {
	in.Title = strings.TrimSpace(in.Title)
	if in.Title == "" {
		return models.Task{}, invalid("task title is required")
	}
	if in.EpicID == "" {
		return models.Task{}, invalid("task epic is required")
	}
	if in.Status == "" {
		in.Status = models.TaskTodo
	}
	if in.Priority == "" {
		in.Priority = models.PriorityMedium
	}
	if !in.Status.Valid() {
		return models.Task{}, invalid("unknown task status %q", in.Status)
	}
	if !in.Priority.Valid() {
		return models.Task{}, invalid("unknown task priority %q", in.Priority)
	}

	raw, err := w.remote.CreateTask(ctx, normalize.TaskToWire(in))
	if err != nil {
		return models.Task{}, w.fail("create", "task", "", err)
	}

	task := normalize.Task(raw)
	if task.EpicID == "" {
		task.EpicID = in.EpicID
	}
	if task.ID != "" {
		w.store.Dispatch(store.AddTask{Task: task})
	}
	return task, nil
}

// UpdateTask applies the patch to local state immediately, then sends it.
// If the remote rejects it the task collection is restored to exactly what
// it was before and the error is returned. On success the response is
// merged into the task. When the patch marks the task done and it has an
// assignee, newly earned badges are recorded and returned.
func (w *Workspace) UpdateTask(ctx context.Context, id string, patch models.TaskPatch) (models.Task, []models.UserBadge, error) {
	if patch.Status != nil && !patch.Status.Valid() {
		return models.Task{}, nil, invalid("unknown task status %q", *patch.Status)
	}
	if patch.Priority != nil && !patch.Priority.Valid() {
		return models.Task{}, nil, invalid("unknown task priority %q", *patch.Priority)
	}

	var raw map[string]any
	err := store.Optimistic(ctx, w.store, store.TasksLens,
		func(tasks []models.Task) []models.Task {
			for i, t := range tasks {
				if t.ID == id {
					tasks[i] = patch.Apply(t)
				}
			}
			return tasks
		},
		func(ctx context.Context) error {
			var err error
			raw, err = w.remote.UpdateTask(ctx, id, normalize.TaskPatchToWire(patch))
			return err
		},
	)
	if err != nil {
		return models.Task{}, nil, w.fail("update", "task", id, err)
	}

	var (
		task   models.Task
		earned []models.UserBadge
	)
	w.store.Update(func(s store.State) store.State {
		current, held := store.TaskByID(s, id)
		if !held {
			current = patch.Apply(normalize.Task(map[string]any{"id": id}))
		}
		task = normalize.TaskOnto(current, raw)
		task.ID = id
		if held {
			s = store.Reduce(s, store.ReplaceTask{Task: task})
		}

		if patch.Status != nil && *patch.Status == models.TaskDone && task.Assignee() != "" {
			earned = badges.Evaluate(task.Assignee(), s.Tasks, s.UserBadges, w.now())
			s = store.Reduce(s, store.AddUserBadges{Badges: earned})
		}
		return s
	})

	for _, b := range earned {
		w.log.Info("badge earned", zap.String("user_id", b.UserID), zap.String("badge_id", b.BadgeID))
	}
	return task, earned, nil
}

// MoveTask changes only the status of a task, the way the board drags
// cards between columns.
func (w *Workspace) MoveTask(ctx context.Context, id string, status models.TaskStatus) (models.Task, []models.UserBadge, error) {
	return w.UpdateTask(ctx, id, models.TaskPatch{Status: &status})
}

// CompleteTask marks a task done.
func (w *Workspace) CompleteTask(ctx context.Context, id string) (models.Task, []models.UserBadge, error) {
	return w.MoveTask(ctx, id, models.TaskDone)
}

// FetchTask reads one task with its relations hydrated. A task already held
// in local state is refreshed with the result.
func (w *Workspace) FetchTask(ctx context.Context, id string) (models.Task, error) {
	raw, err := w.remote.GetTask(ctx, id)
	if err != nil {
		return models.Task{}, w.fail("fetch", "task", id, err)
	}

	var task models.Task
	w.store.Update(func(s store.State) store.State {
		current, held := store.TaskByID(s, id)
		if !held {
			task = normalize.Task(raw)
			if task.ID == "" {
				task.ID = id
			}
			return s
		}
		task = normalize.TaskOnto(current, raw)
		task.ID = id
		return store.Reduce(s, store.ReplaceTask{Task: task})
	})
	return task, nil
}

// DeleteTask deletes a task and drops it from local state once the remote
// confirms.
func (w *Workspace) DeleteTask(ctx context.Context, id string) error {
	if err := w.remote.DeleteTask(ctx, id); err != nil {
		return w.fail("delete", "task", id, err)
	}
	w.store.Dispatch(store.RemoveTask{ID: id})
	return nil
}
