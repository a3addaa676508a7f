package workspace

import (
	"context"
	"strings"

	"github.com/opus-software/opus/internal/models"
	"github.com/opus-software/opus/internal/normalize"
	"github.com/opus-software/opus/internal/store"
)

// CreateLabel creates a label in a space and appends it to the state.
func (w *Workspace) CreateLabel(ctx context.Context, in models.CreateLabel) (models.Label, error) {
	in.Name = strings.TrimSpace(in.Name)
	if in.Name == "" {
		return models.Label{}, invalid("label name is required")
	}
	if in.SpaceID == "" {
		return models.Label{}, invalid("label space is required")
	}

	raw, err := w.remote.CreateLabel(ctx, normalize.LabelToWire(in))
	if err != nil {
		return models.Label{}, w.fail("create", "label", "", err)
	}

	label := normalize.Label(raw)
	if label.SpaceID == "" {
		label.SpaceID = in.SpaceID
	}
	if label.ID != "" {
		w.store.Dispatch(store.AddLabel{Label: label})
	}
	return label, nil
}

// ResolveLabels maps label names or ids to the ids of labels held for a
// space. Names are matched case-insensitively. Unknown entries are returned
// separately.
func (w *Workspace) ResolveLabels(spaceID string, namesOrIDs []string) (ids, unknown []string) {
	labels := store.SpaceLabels(w.store.State(), spaceID)
	for _, want := range namesOrIDs {
		found := ""
		for _, l := range labels {
			if l.ID == want || strings.EqualFold(l.Name, want) {
				found = l.ID
				break
			}
		}
		if found == "" {
			unknown = append(unknown, want)
			continue
		}
		ids = append(ids, found)
	}
	return ids, unknown
}

// EpicSpace returns the space an epic belongs to, via its project.
func (w *Workspace) EpicSpace(epicID string) (string, bool) {
	s := w.store.State()
	e, ok := store.EpicByID(s, epicID)
	if !ok {
		return "", false
	}
	p, ok := store.ProjectByID(s, e.ProjectID)
	if !ok {
		return "", false
	}
	return p.SpaceID, true
}
