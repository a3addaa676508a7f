package workspace

import (
	"context"
	"strings"

	"github.com/opus-software/opus/internal/models"
	"github.com/opus-software/opus/internal/normalize"
	"github.com/opus-software/opus/internal/parser"
	"github.com/opus-software/opus/internal/store"
)

// CreateProject validates the project key, creates the project in the
// selected company and appends it to the state.
func (w *Workspace) CreateProject(ctx context.Context, in models.CreateProject) (models.Project, error) {
	in.Name = strings.TrimSpace(in.Name)
	if in.Name == "" {
		return models.Project{}, invalid("project name is required")
	}
	if in.SpaceID == "" {
		return models.Project{}, invalid("project space is required")
	}
	key, err := parser.NormalizeProjectKey(in.ProjectKey)
	if err != nil {
		return models.Project{}, invalid("%v", err)
	}
	in.ProjectKey = key
	if in.Status != "" && !in.Status.Valid() {
		return models.Project{}, invalid("unknown project status %q", in.Status)
	}

	raw, err := w.remote.CreateProject(ctx, normalize.ProjectToWire(in, w.company.ID))
	if err != nil {
		return models.Project{}, w.fail("create", "project", "", err)
	}

	project := normalize.Project(raw)
	if project.CompanyID == "" {
		project.CompanyID = w.company.ID
	}
	if project.SpaceID == "" {
		project.SpaceID = in.SpaceID
	}
	if project.ID != "" {
		w.store.Dispatch(store.AddProject{Project: project})
	}
	return project, nil
}

// UpdateProject sends the patch and merges the accepted result into the
// local project.
func (w *Workspace) UpdateProject(ctx context.Context, id string, patch models.ProjectPatch) (models.Project, error) {
	if patch.ProjectKey != nil {
		key, err := parser.NormalizeProjectKey(*patch.ProjectKey)
		if err != nil {
			return models.Project{}, invalid("%v", err)
		}
		patch.ProjectKey = &key
	}
	if patch.Status != nil && !patch.Status.Valid() {
		return models.Project{}, invalid("unknown project status %q", *patch.Status)
	}

	raw, err := w.remote.UpdateProject(ctx, w.company.ID, id, normalize.ProjectPatchToWire(patch))
	if err != nil {
		return models.Project{}, w.fail("update", "project", id, err)
	}

	base, held := store.ProjectByID(w.store.State(), id)
	if !held {
		base = normalize.Project(map[string]any{"id": id, "companyId": w.company.ID})
	}
	project := normalize.ProjectOnto(applyProjectPatch(base, patch), raw)
	project.ID = id

	if held {
		w.store.Dispatch(store.ReplaceProject{Project: project})
	}
	return project, nil
}

func applyProjectPatch(p models.Project, patch models.ProjectPatch) models.Project {
	if patch.Name != nil {
		p.Name = *patch.Name
	}
	if patch.ProjectKey != nil {
		p.ProjectKey = *patch.ProjectKey
	}
	if patch.Description != nil {
		p.Description = *patch.Description
	}
	if patch.Status != nil {
		p.Status = *patch.Status
	}
	if patch.Color != nil {
		p.Color = *patch.Color
	}
	if patch.AssigneeID != nil {
		p.AssigneeID = *patch.AssigneeID
	}
	if patch.SpaceID != nil {
		p.SpaceID = *patch.SpaceID
	}
	return p
}

// ArchiveProject sets a project's status to archived.
func (w *Workspace) ArchiveProject(ctx context.Context, id string) (models.Project, error) {
	status := models.ProjectArchived
	return w.UpdateProject(ctx, id, models.ProjectPatch{Status: &status})
}

// UnarchiveProject sets a project's status back to active.
func (w *Workspace) UnarchiveProject(ctx context.Context, id string) (models.Project, error) {
	status := models.ProjectActive
	return w.UpdateProject(ctx, id, models.ProjectPatch{Status: &status})
}

// DeleteProject deletes a project. Its epics and their tasks are dropped
// from local state once the remote confirms.
func (w *Workspace) DeleteProject(ctx context.Context, id string) error {
	if err := w.remote.DeleteProject(ctx, w.company.ID, id); err != nil {
		return w.fail("delete", "project", id, err)
	}
	w.store.Dispatch(store.RemoveProject{ID: id})
	return nil
}
