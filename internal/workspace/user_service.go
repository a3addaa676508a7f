package workspace

import (
	"context"
	"strings"

	"github.com/opus-software/opus/internal/models"
	"github.com/opus-software/opus/internal/normalize"
	"github.com/opus-software/opus/internal/store"
)

// CreateUser creates a user in the selected company.
func (w *Workspace) CreateUser(ctx context.Context, in models.CreateUser) (models.User, error) {
	in.Email = strings.TrimSpace(in.Email)
	if in.Email == "" {
		return models.User{}, invalid("user email is required")
	}
	if in.GlobalRole != "" && !in.GlobalRole.Valid() {
		return models.User{}, invalid("unknown role %q", in.GlobalRole)
	}
	if in.Status != "" && !in.Status.Valid() {
		return models.User{}, invalid("unknown user status %q", in.Status)
	}

	raw, err := w.remote.CreateUser(ctx, normalize.UserToWire(in, w.company.ID))
	if err != nil {
		return models.User{}, w.fail("create", "user", "", err)
	}

	user := normalize.User(raw)
	if user.CompanyID == "" {
		user.CompanyID = w.company.ID
	}
	if user.ID != "" {
		w.store.Dispatch(store.AddUser{User: user})
	}
	return user, nil
}

// GetUser reads one user from the remote without touching local state.
func (w *Workspace) GetUser(ctx context.Context, id string) (models.User, error) {
	raw, err := w.remote.GetUser(ctx, w.company.ID, id)
	if err != nil {
		return models.User{}, w.fail("fetch", "user", id, err)
	}
	user := normalize.User(raw)
	if user.ID == "" {
		user.ID = id
	}
	return user, nil
}

// UpdateUser sends the patch and merges the accepted result into the local
// user.
func (w *Workspace) UpdateUser(ctx context.Context, id string, patch models.UserPatch) (models.User, error) {
	if patch.GlobalRole != nil && !patch.GlobalRole.Valid() {
		return models.User{}, invalid("unknown role %q", *patch.GlobalRole)
	}
	if patch.Status != nil && !patch.Status.Valid() {
		return models.User{}, invalid("unknown user status %q", *patch.Status)
	}

	raw, err := w.remote.UpdateUser(ctx, w.company.ID, id, normalize.UserPatchToWire(patch))
	if err != nil {
		return models.User{}, w.fail("update", "user", id, err)
	}

	base, held := store.UserByID(w.store.State(), id)
	if !held {
		base = models.PlaceholderUser(w.now())
		base.ID = id
		base.CompanyID = w.company.ID
	}
	user := normalize.UserOnto(applyUserPatch(base, patch), raw)
	user.ID = id

	if held {
		w.store.Dispatch(store.ReplaceUser{User: user})
	}
	return user, nil
}

func applyUserPatch(u models.User, patch models.UserPatch) models.User {
	if patch.Email != nil {
		u.Email = *patch.Email
	}
	if patch.FullName != nil {
		u.FullName = *patch.FullName
	}
	if patch.AvatarURL != nil {
		u.AvatarURL = *patch.AvatarURL
	}
	if patch.JobTitle != nil {
		u.JobTitle = *patch.JobTitle
	}
	if patch.GlobalRole != nil {
		u.GlobalRole = *patch.GlobalRole
	}
	if patch.Status != nil {
		u.Status = *patch.Status
	}
	return u
}

// DeleteUser deletes a user and drops it from local state once the remote
// confirms. Tasks assigned to the user are left as they are.
func (w *Workspace) DeleteUser(ctx context.Context, id string) error {
	if err := w.remote.DeleteUser(ctx, w.company.ID, id); err != nil {
		return w.fail("delete", "user", id, err)
	}
	w.store.Dispatch(store.RemoveUser{ID: id})
	return nil
}
