package workspace

import (
	"context"
	"strings"

	"github.com/opus-software/opus/internal/models"
	"github.com/opus-software/opus/internal/normalize"
	"github.com/opus-software/opus/internal/store"
)

// CreateEpic creates an epic under a project. The remote only receives the
// title, summary and project id.
func (w *Workspace) CreateEpic(ctx context.Context, in models.CreateEpic) (models.Epic, error) {
	in.Title = strings.TrimSpace(in.Title)
	if in.Title == "" {
		return models.Epic{}, invalid("epic title is required")
	}
	if in.ProjectID == "" {
		return models.Epic{}, ErrProjectUnresolved
	}

	raw, err := w.remote.CreateEpic(ctx, normalize.EpicToWire(in))
	if err != nil {
		return models.Epic{}, w.fail("create", "epic", "", err)
	}

	epic := normalize.Epic(raw)
	if epic.ProjectID == "" {
		epic.ProjectID = in.ProjectID
	}
	if epic.ID != "" {
		w.store.Dispatch(store.AddEpic{Epic: epic})
	}
	return epic, nil
}

// epicProject picks the project an epic request is addressed to: the
// explicit one, else the one recorded for the epic in local state.
func (w *Workspace) epicProject(id string, explicit *string) (string, error) {
	if explicit != nil && *explicit != "" {
		return *explicit, nil
	}
	if e, ok := store.EpicByID(w.store.State(), id); ok && e.ProjectID != "" {
		return e.ProjectID, nil
	}
	return "", ErrProjectUnresolved
}

// UpdateEpic sends the patch to the epic's project and merges the accepted
// result into local state. It fails with ErrProjectUnresolved, before any
// request, when neither the patch nor local state names the project.
func (w *Workspace) UpdateEpic(ctx context.Context, id string, patch models.EpicPatch) (models.Epic, error) {
	projectID, err := w.epicProject(id, patch.ProjectID)
	if err != nil {
		return models.Epic{}, w.fail("update", "epic", id, err)
	}
	if patch.Status != nil && !patch.Status.Valid() {
		return models.Epic{}, invalid("unknown epic status %q", *patch.Status)
	}

	raw, err := w.remote.UpdateEpic(ctx, projectID, id, normalize.EpicPatchToWire(patch))
	if err != nil {
		return models.Epic{}, w.fail("update", "epic", id, err)
	}

	base, held := store.EpicByID(w.store.State(), id)
	if !held {
		base = normalize.Epic(map[string]any{"id": id, "projectId": projectID})
	}
	epic := normalize.EpicOnto(applyEpicPatch(base, patch), raw)
	epic.ID = id

	if held {
		w.store.Dispatch(store.ReplaceEpic{Epic: epic})
	}
	return epic, nil
}

func applyEpicPatch(e models.Epic, patch models.EpicPatch) models.Epic {
	if patch.ProjectID != nil {
		e.ProjectID = *patch.ProjectID
	}
	if patch.Title != nil {
		e.Title = *patch.Title
	}
	if patch.Summary != nil {
		e.Summary = *patch.Summary
	}
	if patch.Status != nil {
		e.Status = *patch.Status
	}
	if patch.Progress != nil {
		e.Progress = min(max(*patch.Progress, 0), 100)
	}
	if patch.AssigneeID != nil {
		e.AssigneeID = *patch.AssigneeID
	}
	return e
}

// DeleteEpic deletes an epic and, once the remote confirms, its tasks from
// local state. projectID may be empty when the epic is held locally.
func (w *Workspace) DeleteEpic(ctx context.Context, id, projectID string) error {
	projectID, err := w.epicProject(id, &projectID)
	if err != nil {
		return w.fail("delete", "epic", id, err)
	}
	if err := w.remote.DeleteEpic(ctx, projectID, id); err != nil {
		return w.fail("delete", "epic", id, err)
	}
	w.store.Dispatch(store.RemoveEpic{ID: id})
	return nil
}
