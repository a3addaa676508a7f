package normalize

import (
	"strings"

	"github.com/opus-software/opus/internal/models"
)

// Space converts a raw space.
func Space(raw Raw) models.Space {
	return SpaceOnto(models.Space{CreatedAt: Now()}, raw)
}

// SpaceOnto overrides the fields of s that raw carries.
func SpaceOnto(s models.Space, raw Raw) models.Space {
	if v, ok := str(raw, "id", "_id"); ok {
		s.ID = v
	}
	if v, ok := str(raw, "companyId", "company_id"); ok {
		s.CompanyID = v
	}
	if v, ok := str(raw, "name"); ok {
		s.Name = v
	}
	if v, ok := str(raw, "description"); ok {
		s.Description = v
	}
	if v, ok := timestamp(raw, "createdAt", "created_at"); ok {
		s.CreatedAt = v
	}
	return s
}

// Project converts a raw project.
func Project(raw Raw) models.Project {
	return ProjectOnto(models.Project{
		ProjectKey: models.DefaultProjectKey,
		Status:     models.ProjectActive,
		Color:      models.DefaultProjectColor,
		CreatedAt:  Now(),
	}, raw)
}

// ProjectOnto overrides the fields of p that raw carries.
func ProjectOnto(p models.Project, raw Raw) models.Project {
	if v, ok := str(raw, "id", "_id"); ok {
		p.ID = v
	}
	if v, ok := str(raw, "spaceId", "space_id"); ok {
		p.SpaceID = v
	}
	if v, ok := str(raw, "companyId", "company_id"); ok {
		p.CompanyID = v
	}
	if v, ok := str(raw, "name"); ok {
		p.Name = v
	}
	if v, ok := str(raw, "projectKey", "project_key"); ok {
		p.ProjectKey = strings.ToUpper(strings.TrimSpace(v))
	}
	if v, ok := str(raw, "description"); ok {
		p.Description = v
	}
	if v, ok := str(raw, "status"); ok {
		if st := models.ProjectStatus(strings.ToLower(v)); st.Valid() {
			p.Status = st
		}
	}
	if v, ok := str(raw, "color"); ok {
		p.Color = v
	}
	if v, ok := str(raw, "assigneeId", "assignee_id"); ok {
		p.AssigneeID = v
	} else if hasNull(raw, "assigneeId", "assignee_id") {
		p.AssigneeID = ""
	}
	if v, ok := timestamp(raw, "createdAt", "created_at"); ok {
		p.CreatedAt = v
	}
	return p
}

// Epic converts a raw epic.
func Epic(raw Raw) models.Epic {
	return EpicOnto(models.Epic{Status: models.EpicTodo, CreatedAt: Now()}, raw)
}

// EpicOnto overrides the fields of e that raw carries.
func EpicOnto(e models.Epic, raw Raw) models.Epic {
	if v, ok := str(raw, "id", "_id"); ok {
		e.ID = v
	}
	if v, ok := str(raw, "projectId", "project_id"); ok {
		e.ProjectID = v
	}
	if v, ok := str(raw, "title", "name"); ok {
		e.Title = v
	}
	if v, ok := str(raw, "summary", "description"); ok {
		e.Summary = v
	}
	if v, ok := str(raw, "status"); ok {
		if st, known := epicStatus(v); known {
			e.Status = st
		}
	}
	if v, ok := integer(raw, "progress"); ok {
		e.Progress = clamp(v, 0, 100)
	}
	if v, ok := str(raw, "assigneeId", "assignee_id"); ok {
		e.AssigneeID = v
	} else if hasNull(raw, "assigneeId", "assignee_id") {
		e.AssigneeID = ""
	}
	if v, ok := timestamp(raw, "createdAt", "created_at"); ok {
		e.CreatedAt = v
	}
	return e
}

// Task converts a raw task, translating the remote status and priority
// vocabulary.
func Task(raw Raw) models.Task {
	return TaskOnto(models.Task{
		Status:    models.TaskTodo,
		Priority:  models.PriorityMedium,
		Labels:    []string{},
		CreatedAt: Now(),
	}, raw)
}

// TaskOnto overrides the fields of t that raw carries.
func TaskOnto(t models.Task, raw Raw) models.Task {
	t = t.Clone()
	if v, ok := str(raw, "id", "_id"); ok {
		t.ID = v
	}
	if v, ok := str(raw, "epicId", "epic_id"); ok {
		t.EpicID = v
	}
	if v, ok := str(raw, "title", "name"); ok {
		t.Title = v
	}
	if v, ok := str(raw, "description"); ok {
		t.Description = v
	}
	if v, ok := str(raw, "status"); ok {
		t.Status = StatusToCanonical(v)
	}
	if v, ok := str(raw, "priority"); ok {
		t.Priority = PriorityToCanonical(v)
	}

	if v, ok := str(raw, "assigneeId", "assignee_id"); ok {
		t.AssigneeID = &v
	} else if nested, isObj := object(raw, "assignee"); isObj {
		if id, hasID := str(nested, "id", "_id"); hasID {
			t.AssigneeID = &id
		}
	} else if hasNull(raw, "assigneeId", "assignee_id", "assignee") {
		t.AssigneeID = nil
	}

	if entities, ok := objects(raw, "labelEntities"); ok {
		t.LabelEntities = make([]models.Label, 0, len(entities))
		t.Labels = make([]string, 0, len(entities))
		for _, e := range entities {
			l := Label(e)
			t.LabelEntities = append(t.LabelEntities, l)
			if l.ID != "" {
				t.Labels = append(t.Labels, l.ID)
			}
		}
	} else if ids, ok := labelIDs(raw["labels"]); ok {
		t.Labels = ids
		t.LabelEntities = nil
	}

	if v, ok := timestamp(raw, "dueDate", "due_date"); ok {
		t.DueDate = &v
	} else if hasNull(raw, "dueDate", "due_date") {
		t.DueDate = nil
	}
	if v, ok := timestamp(raw, "createdAt", "created_at"); ok {
		t.CreatedAt = v
	}
	return t
}

// labelIDs accepts a list of ids or a list of label objects.
func labelIDs(v any) ([]string, bool) {
	list, ok := v.([]any)
	if !ok {
		return nil, false
	}
	ids := make([]string, 0, len(list))
	for _, item := range list {
		switch l := item.(type) {
		case string:
			if l != "" {
				ids = append(ids, l)
			}
		case map[string]any:
			if id, hasID := str(l, "id", "_id"); hasID {
				ids = append(ids, id)
			}
		}
	}
	return ids, true
}

// Label converts a raw label.
func Label(raw Raw) models.Label {
	return LabelOnto(models.Label{Color: models.LabelGray, CreatedAt: Now()}, raw)
}

// LabelOnto overrides the fields of l that raw carries.
func LabelOnto(l models.Label, raw Raw) models.Label {
	if v, ok := str(raw, "id", "_id"); ok {
		l.ID = v
	}
	if v, ok := str(raw, "spaceId", "space_id"); ok {
		l.SpaceID = v
	}
	if v, ok := str(raw, "name"); ok {
		l.Name = v
	}
	if v, ok := str(raw, "color"); ok {
		l.Color = models.ParseLabelColor(v)
	}
	if v, ok := timestamp(raw, "createdAt", "created_at"); ok {
		l.CreatedAt = v
	}
	return l
}

// User converts a raw user. Users without an id are keyed by email.
func User(raw Raw) models.User {
	now := Now()
	u := UserOnto(models.PlaceholderUser(now), raw)
	if u.ID == "" {
		u.ID = u.Email
	}
	return u
}

// UserOnto overrides the fields of u that raw carries.
func UserOnto(u models.User, raw Raw) models.User {
	if v, ok := str(raw, "id", "_id"); ok {
		u.ID = v
	}
	if v, ok := str(raw, "companyId", "company_id"); ok {
		u.CompanyID = v
	}
	if v, ok := str(raw, "email"); ok {
		u.Email = v
	}
	if v, ok := str(raw, "fullName", "full_name"); ok {
		u.FullName = v
	}
	if v, ok := str(raw, "avatarUrl", "avatar_url"); ok {
		u.AvatarURL = v
	}
	if v, ok := str(raw, "jobTitle", "job_title"); ok {
		u.JobTitle = v
	}
	if v, ok := str(raw, "globalRole", "global_role"); ok {
		if r := models.UserRole(strings.ToLower(v)); r.Valid() {
			u.GlobalRole = r
		}
	}
	if v, ok := str(raw, "status"); ok {
		if s := models.UserStatus(strings.ToLower(v)); s.Valid() {
			u.Status = s
		}
	}
	if v, ok := integer(raw, "experience"); ok {
		u.Experience = v
	}
	if v, ok := integer(raw, "expNextLevel", "exp_next_level"); ok && v > 0 {
		u.ExpNextLevel = v
	}
	if v, ok := integer(raw, "level"); ok && v > 0 {
		u.Level = v
	}
	if v, ok := timestamp(raw, "createdAt", "created_at"); ok {
		u.CreatedAt = v
	}
	if v, ok := timestamp(raw, "lastLogin", "last_login"); ok {
		u.LastLogin = v
	}
	return u
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
