package workspace

import (
	"context"
	"strings"

	"github.com/opus-software/opus/internal/models"
	"github.com/opus-software/opus/internal/normalize"
	"github.com/opus-software/opus/internal/store"
)

// CreateSpace creates a space in the selected company and appends it to
// the state.
func (w *Workspace) CreateSpace(ctx context.Context, in models.CreateSpace) (models.Space, error) {
	in.Name = strings.TrimSpace(in.Name)
	if in.Name == "" {
		return models.Space{}, invalid("space name is required")
	}
	if in.CompanyID == "" {
		in.CompanyID = w.company.ID
	}

	raw, err := w.remote.CreateSpace(ctx, normalize.SpaceToWire(in))
	if err != nil {
		return models.Space{}, w.fail("create", "space", "", err)
	}

	space := normalize.Space(raw)
	if space.CompanyID == "" {
		space.CompanyID = in.CompanyID
	}
	if space.ID != "" {
		w.store.Dispatch(store.AddSpace{Space: space})
	}
	return space, nil
}

// UpdateSpace sends the patch and, once the remote accepts it, merges the
// response over the local space.
func (w *Workspace) UpdateSpace(ctx context.Context, id string, patch models.SpacePatch) (models.Space, error) {
	raw, err := w.remote.UpdateSpace(ctx, w.company.ID, id, normalize.SpacePatchToWire(patch))
	if err != nil {
		return models.Space{}, w.fail("update", "space", id, err)
	}

	base, held := store.SpaceByID(w.store.State(), id)
	if !held {
		base = models.Space{ID: id, CompanyID: w.company.ID}
	}
	if patch.Name != nil {
		base.Name = *patch.Name
	}
	if patch.Description != nil {
		base.Description = *patch.Description
	}
	space := normalize.SpaceOnto(base, raw)
	space.ID = id

	if held {
		w.store.Dispatch(store.ReplaceSpace{Space: space})
	}
	return space, nil
}

// DeleteSpace deletes a space. Its projects, their epics and tasks are
// dropped from local state once the remote confirms.
func (w *Workspace) DeleteSpace(ctx context.Context, id string) error {
	if err := w.remote.DeleteSpace(ctx, w.company.ID, id); err != nil {
		return w.fail("delete", "space", id, err)
	}
	w.store.Dispatch(store.RemoveSpace{ID: id})
	return nil
}
