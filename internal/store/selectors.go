package store

import (
	"sort"
	"strings"
	"time"

	"github.com/opus-software/opus/internal/models"
)

// SpaceProjects returns the projects of a space.
func SpaceProjects(s State, spaceID string) []models.Project {
	return filter(s.Projects, func(p models.Project) bool { return p.SpaceID == spaceID })
}

// ProjectEpics returns the epics of a project.
func ProjectEpics(s State, projectID string) []models.Epic {
	return filter(s.Epics, func(e models.Epic) bool { return e.ProjectID == projectID })
}

// EpicTasks returns the tasks of an epic.
func EpicTasks(s State, epicID string) []models.Task {
	return filter(s.Tasks, func(t models.Task) bool { return t.EpicID == epicID })
}

// ProjectTasks returns the tasks of every epic in a project.
func ProjectTasks(s State, projectID string) []models.Task {
	epics := map[string]struct{}{}
	for _, e := range ProjectEpics(s, projectID) {
		epics[e.ID] = struct{}{}
	}
	return filter(s.Tasks, func(t models.Task) bool { return has(epics, t.EpicID) })
}

// SpaceLabels returns the labels of a space.
func SpaceLabels(s State, spaceID string) []models.Label {
	return filter(s.Labels, func(l models.Label) bool { return l.SpaceID == spaceID })
}

func find[T models.Identifiable](items []T, id string) (T, bool) {
	for _, item := range items {
		if item.EntityID() == id {
			return item, true
		}
	}
	var zero T
	return zero, false
}

func SpaceByID(s State, id string) (models.Space, bool)     { return find(s.Spaces, id) }
func ProjectByID(s State, id string) (models.Project, bool) { return find(s.Projects, id) }
func EpicByID(s State, id string) (models.Epic, bool)       { return find(s.Epics, id) }
func TaskByID(s State, id string) (models.Task, bool)       { return find(s.Tasks, id) }
func LabelByID(s State, id string) (models.Label, bool)     { return find(s.Labels, id) }
func UserByID(s State, id string) (models.User, bool)       { return find(s.Users, id) }

// CurrentUser is the first loaded user, or a placeholder when none are
// loaded.
func CurrentUser(s State, now time.Time) models.User {
	if len(s.Users) == 0 {
		return models.PlaceholderUser(now)
	}
	return s.Users[0]
}

// EpicProgress derives an epic's progress from the tasks held in memory.
func EpicProgress(s State, epicID string) models.Progress {
	return models.EpicProgress(EpicTasks(s, epicID))
}

// TaskLabels resolves a task's label ids to labels. Hydrated entities win;
// unknown ids are skipped.
func TaskLabels(s State, t models.Task) []models.Label {
	if len(t.LabelEntities) > 0 {
		return t.LabelEntities
	}
	out := make([]models.Label, 0, len(t.Labels))
	for _, id := range t.Labels {
		if l, ok := LabelByID(s, id); ok {
			out = append(out, l)
		}
	}
	return out
}

// Match ranks
const (
	rankNone = iota
	rankContains
	rankSuffix
	rankPrefix
	rankExact
)

// SearchTasks returns the tasks matching query, case insensitive, across
// title, description, status, priority and label names. Exact matches rank
// first, then prefix, suffix and finally substring matches. Ties keep state
// order.
func SearchTasks(s State, query string) []models.Task {
	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" {
		return []models.Task{}
	}

	type hit struct {
		task models.Task
		rank int
	}
	var hits []hit
	for _, t := range s.Tasks {
		fields := []string{t.Title, t.Description, string(t.Status), string(t.Priority)}
		for _, l := range TaskLabels(s, t) {
			fields = append(fields, l.Name)
		}

		best := rankNone
		for _, f := range fields {
			if r := rank(strings.ToLower(f), q); r > best {
				best = r
			}
		}
		if best > rankNone {
			hits = append(hits, hit{task: t, rank: best})
		}
	}

	sort.SliceStable(hits, func(i, j int) bool { return hits[i].rank > hits[j].rank })

	out := make([]models.Task, len(hits))
	for i, h := range hits {
		out[i] = h.task
	}
	return out
}

func rank(field, q string) int {
	switch {
	case field == "":
		return rankNone
	case field == q:
		return rankExact
	case strings.HasPrefix(field, q):
		return rankPrefix
	case strings.HasSuffix(field, q):
		return rankSuffix
	case strings.Contains(field, q):
		return rankContains
	}
	return rankNone
}
