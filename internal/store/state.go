// Package store holds the in-memory workspace state and the pure reducers
// that transition it.
package store

import (
	"github.com/opus-software/opus/internal/models"
)

// State is one immutable snapshot of the workspace. Reducers never modify
// the slices of an existing State; they build new ones.
type State struct {
	CompanyID  string
	Spaces     []models.Space
	Projects   []models.Project
	Epics      []models.Epic
	Tasks      []models.Task
	Labels     []models.Label
	Users      []models.User
	UserBadges []models.UserBadge
	IsLoaded   bool
}

// Empty returns the initial state for a company.
func Empty(companyID string) State {
	return State{
		CompanyID:  companyID,
		Spaces:     []models.Space{},
		Projects:   []models.Project{},
		Epics:      []models.Epic{},
		Tasks:      []models.Task{},
		Labels:     []models.Label{},
		Users:      []models.User{},
		UserBadges: []models.UserBadge{},
	}
}

// Action is a state transition understood by Reduce.
type Action interface {
	isAction()
}

type (
	SetSpaces   struct{ Spaces []models.Space }
	SetProjects struct{ Projects []models.Project }
	SetEpics    struct{ Epics []models.Epic }
	SetTasks    struct{ Tasks []models.Task }
	SetLabels   struct{ Labels []models.Label }
	SetUsers    struct{ Users []models.User }

	AddSpace   struct{ Space models.Space }
	AddProject struct{ Project models.Project }
	AddEpic    struct{ Epic models.Epic }
	AddTask    struct{ Task models.Task }
	AddLabel   struct{ Label models.Label }
	AddUser    struct{ User models.User }

	ReplaceSpace   struct{ Space models.Space }
	ReplaceProject struct{ Project models.Project }
	ReplaceEpic    struct{ Epic models.Epic }
	ReplaceTask    struct{ Task models.Task }
	ReplaceUser    struct{ User models.User }

	RemoveSpace   struct{ ID string }
	RemoveProject struct{ ID string }
	RemoveEpic    struct{ ID string }
	RemoveTask    struct{ ID string }
	RemoveUser    struct{ ID string }

	// AddUserBadges appends badge rows, skipping (user, badge) pairs that
	// are already present.
	AddUserBadges struct{ Badges []models.UserBadge }

	// SetUserBadges replaces every badge row, e.g. from the snapshot cache.
	SetUserBadges struct{ Badges []models.UserBadge }

	MarkLoaded struct{}

	// Reset clears everything and switches to CompanyID.
	Reset struct{ CompanyID string }

	// Replace swaps in a whole state, e.g. one read from the snapshot cache.
	Replace struct{ State State }
)

func (SetSpaces) isAction()      {}
func (SetProjects) isAction()    {}
func (SetEpics) isAction()       {}
func (SetTasks) isAction()       {}
func (SetLabels) isAction()      {}
func (SetUsers) isAction()       {}
func (AddSpace) isAction()       {}
func (AddProject) isAction()     {}
func (AddEpic) isAction()        {}
func (AddTask) isAction()        {}
func (AddLabel) isAction()       {}
func (AddUser) isAction()        {}
func (ReplaceSpace) isAction()   {}
func (ReplaceProject) isAction() {}
func (ReplaceEpic) isAction()    {}
func (ReplaceTask) isAction()    {}
func (ReplaceUser) isAction()    {}
func (RemoveSpace) isAction()    {}
func (RemoveProject) isAction()  {}
func (RemoveEpic) isAction()     {}
func (RemoveTask) isAction()     {}
func (RemoveUser) isAction()     {}
func (AddUserBadges) isAction()  {}
func (SetUserBadges) isAction()  {}
func (MarkLoaded) isAction()     {}
func (Reset) isAction()          {}
func (Replace) isAction()        {}

// Reduce returns the state that results from applying a to s.
func Reduce(s State, a Action) State {
	switch a := a.(type) {
	case SetSpaces:
		s.Spaces = clone(a.Spaces)
	case SetProjects:
		s.Projects = clone(a.Projects)
	case SetEpics:
		s.Epics = clone(a.Epics)
	case SetTasks:
		s.Tasks = cloneTasks(a.Tasks)
	case SetLabels:
		s.Labels = clone(a.Labels)
	case SetUsers:
		s.Users = clone(a.Users)

	case AddSpace:
		s.Spaces = add(s.Spaces, a.Space)
	case AddProject:
		s.Projects = add(s.Projects, a.Project)
	case AddEpic:
		s.Epics = add(s.Epics, a.Epic)
	case AddTask:
		s.Tasks = add(s.Tasks, a.Task.Clone())
	case AddLabel:
		s.Labels = add(s.Labels, a.Label)
	case AddUser:
		s.Users = add(s.Users, a.User)

	case ReplaceSpace:
		s.Spaces = replace(s.Spaces, a.Space)
	case ReplaceProject:
		s.Projects = replace(s.Projects, a.Project)
	case ReplaceEpic:
		s.Epics = replace(s.Epics, a.Epic)
	case ReplaceTask:
		s.Tasks = replace(s.Tasks, a.Task.Clone())
	case ReplaceUser:
		s.Users = replace(s.Users, a.User)

	case RemoveSpace:
		s = removeSpace(s, a.ID)
	case RemoveProject:
		s = removeProjects(s, set(a.ID))
	case RemoveEpic:
		s = removeEpics(s, set(a.ID))
	case RemoveTask:
		s.Tasks = filter(s.Tasks, func(t models.Task) bool { return t.ID != a.ID })
	case RemoveUser:
		s.Users = filter(s.Users, func(u models.User) bool { return u.ID != a.ID })

	case AddUserBadges:
		s.UserBadges = addBadges(s.UserBadges, a.Badges)
	case SetUserBadges:
		s.UserBadges = addBadges(nil, a.Badges)

	case MarkLoaded:
		s.IsLoaded = true
	case Reset:
		s = Empty(a.CompanyID)
	case Replace:
		s = a.State
	}
	return s
}

// removeSpace drops a space with its projects, their epics and those
// epics' tasks.
func removeSpace(s State, id string) State {
	s.Spaces = filter(s.Spaces, func(sp models.Space) bool { return sp.ID != id })

	projects := map[string]struct{}{}
	for _, p := range s.Projects {
		if p.SpaceID == id {
			projects[p.ID] = struct{}{}
		}
	}
	return removeProjects(s, projects)
}

func removeProjects(s State, ids map[string]struct{}) State {
	s.Projects = filter(s.Projects, func(p models.Project) bool { return !has(ids, p.ID) })

	epics := map[string]struct{}{}
	for _, e := range s.Epics {
		if has(ids, e.ProjectID) {
			epics[e.ID] = struct{}{}
		}
	}
	return removeEpics(s, epics)
}

func removeEpics(s State, ids map[string]struct{}) State {
	s.Epics = filter(s.Epics, func(e models.Epic) bool { return !has(ids, e.ID) })
	s.Tasks = filter(s.Tasks, func(t models.Task) bool { return !has(ids, t.EpicID) })
	return s
}

func addBadges(existing, rows []models.UserBadge) []models.UserBadge {
	type key struct{ user, badge string }
	seen := make(map[key]struct{}, len(existing)+len(rows))
	out := make([]models.UserBadge, 0, len(existing)+len(rows))
	for _, b := range existing {
		seen[key{b.UserID, b.BadgeID}] = struct{}{}
		out = append(out, b)
	}
	for _, b := range rows {
		k := key{b.UserID, b.BadgeID}
		if _, dup := seen[k]; dup {
			continue
		}
		seen[k] = struct{}{}
		out = append(out, b)
	}
	return out
}

func set(ids ...string) map[string]struct{} {
	m := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		m[id] = struct{}{}
	}
	return m
}

func has(m map[string]struct{}, id string) bool {
	_, ok := m[id]
	return ok
}

func clone[T any](items []T) []T {
	return append(make([]T, 0, len(items)), items...)
}

func cloneTasks(tasks []models.Task) []models.Task {
	out := make([]models.Task, len(tasks))
	for i, t := range tasks {
		out[i] = t.Clone()
	}
	return out
}

func add[T models.Identifiable](items []T, item T) []T {
	for _, existing := range items {
		if existing.EntityID() == item.EntityID() {
			return items
		}
	}
	return append(clone(items), item)
}

func replace[T models.Identifiable](items []T, item T) []T {
	out := clone(items)
	for i, existing := range out {
		if existing.EntityID() == item.EntityID() {
			out[i] = item
		}
	}
	return out
}

func filter[T any](items []T, keep func(T) bool) []T {
	out := make([]T, 0, len(items))
	for _, item := range items {
		if keep(item) {
			out = append(out, item)
		}
	}
	return out
}
