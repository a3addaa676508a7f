package normalize

import (
	"strings"
	"time"

	"github.com/opus-software/opus/internal/models"
)

func setIf(out Raw, key, value string) {
	if value != "" {
		out[key] = value
	}
}

// SpaceToWire builds the create payload for a space.
func SpaceToWire(c models.CreateSpace) Raw {
	out := Raw{"companyId": c.CompanyID, "name": c.Name}
	setIf(out, "description", c.Description)
	return out
}

// SpacePatchToWire builds the update payload for a space.
func SpacePatchToWire(p models.SpacePatch) Raw {
	out := Raw{}
	if p.Name != nil {
		out["name"] = *p.Name
	}
	if p.Description != nil {
		out["description"] = *p.Description
	}
	return out
}

// ProjectToWire builds the create payload for a project.
func ProjectToWire(c models.CreateProject, companyID string) Raw {
	status := c.Status
	if !status.Valid() {
		status = models.ProjectActive
	}
	color := c.Color
	if color == "" {
		color = models.DefaultProjectColor
	}
	out := Raw{
		"companyId":  companyID,
		"spaceId":    c.SpaceID,
		"name":       c.Name,
		"projectKey": strings.ToUpper(c.ProjectKey),
		"status":     string(status),
		"color":      color,
	}
	setIf(out, "description", c.Description)
	setIf(out, "assigneeId", c.AssigneeID)
	return out
}

// ProjectPatchToWire builds the update payload for a project.
func ProjectPatchToWire(p models.ProjectPatch) Raw {
	out := Raw{}
	if p.Name != nil {
		out["name"] = *p.Name
	}
	if p.ProjectKey != nil {
		out["projectKey"] = strings.ToUpper(*p.ProjectKey)
	}
	if p.Description != nil {
		out["description"] = *p.Description
	}
	if p.Status != nil {
		out["status"] = string(*p.Status)
	}
	if p.Color != nil {
		out["color"] = *p.Color
	}
	if p.AssigneeID != nil {
		out["assigneeId"] = nullable(*p.AssigneeID)
	}
	if p.SpaceID != nil {
		out["spaceId"] = *p.SpaceID
	}
	return out
}

// EpicToWire builds the create payload for an epic. The remote only accepts
// title, summary and projectId on creation.
func EpicToWire(c models.CreateEpic) Raw {
	return Raw{
		"title":     c.Title,
		"summary":   c.Summary,
		"projectId": c.ProjectID,
	}
}

// EpicPatchToWire builds the update payload for an epic.
func EpicPatchToWire(p models.EpicPatch) Raw {
	out := Raw{}
	if p.ProjectID != nil {
		out["projectId"] = *p.ProjectID
	}
	if p.Title != nil {
		out["title"] = *p.Title
	}
	if p.Summary != nil {
		out["summary"] = *p.Summary
	}
	if p.Status != nil {
		out["status"] = string(*p.Status)
	}
	if p.Progress != nil {
		out["progress"] = clamp(*p.Progress, 0, 100)
	}
	if p.AssigneeID != nil {
		out["assigneeId"] = nullable(*p.AssigneeID)
	}
	return out
}

// TaskToWire builds the create payload for a task in the remote vocabulary.
func TaskToWire(c models.CreateTask) Raw {
	status := c.Status
	if status == "" {
		status = models.TaskTodo
	}
	labels := c.Labels
	if labels == nil {
		labels = []string{}
	}
	out := Raw{
		"epicId":     c.EpicID,
		"title":      c.Title,
		"status":     StatusToWire(status),
		"priority":   PriorityToWire(c.Priority),
		"assigneeId": nullable(c.AssigneeID),
		"labels":     labels,
	}
	setIf(out, "description", c.Description)
	if c.DueDate != nil {
		out["dueDate"] = c.DueDate.UTC().Format(time.RFC3339)
	}
	return out
}

// TaskPatchToWire builds the update payload for a task in the remote
// vocabulary. Only fields set in the patch are sent.
func TaskPatchToWire(p models.TaskPatch) Raw {
	out := Raw{}
	if p.EpicID != nil {
		out["epicId"] = *p.EpicID
	}
	if p.Title != nil {
		out["title"] = *p.Title
	}
	if p.Description != nil {
		out["description"] = *p.Description
	}
	if p.Status != nil {
		out["status"] = StatusToWire(*p.Status)
	}
	if p.Priority != nil {
		out["priority"] = PriorityToWire(*p.Priority)
	}
	if p.AssigneeID != nil {
		out["assigneeId"] = nullable(*p.AssigneeID)
	}
	if p.Labels != nil {
		out["labels"] = append([]string{}, (*p.Labels)...)
	}
	if p.DueDate != nil {
		out["dueDate"] = p.DueDate.UTC().Format(time.RFC3339)
	}
	return out
}

// UserToWire builds the create payload for a user.
func UserToWire(c models.CreateUser, companyID string) Raw {
	role := c.GlobalRole
	if !role.Valid() {
		role = models.RoleMember
	}
	status := c.Status
	if !status.Valid() {
		status = models.UserActive
	}
	out := Raw{
		"companyId":  companyID,
		"email":      c.Email,
		"fullName":   c.FullName,
		"jobTitle":   c.JobTitle,
		"globalRole": string(role),
		"status":     string(status),
	}
	setIf(out, "avatarUrl", c.AvatarURL)
	return out
}

// UserPatchToWire builds the update payload for a user.
func UserPatchToWire(p models.UserPatch) Raw {
	out := Raw{}
	if p.Email != nil {
		out["email"] = *p.Email
	}
	if p.FullName != nil {
		out["fullName"] = *p.FullName
	}
	if p.AvatarURL != nil {
		out["avatarUrl"] = *p.AvatarURL
	}
	if p.JobTitle != nil {
		out["jobTitle"] = *p.JobTitle
	}
	if p.GlobalRole != nil {
		out["globalRole"] = string(*p.GlobalRole)
	}
	if p.Status != nil {
		out["status"] = string(*p.Status)
	}
	return out
}

// LabelToWire builds the create payload for a label.
func LabelToWire(c models.CreateLabel) Raw {
	return Raw{
		"spaceId": c.SpaceID,
		"name":    c.Name,
		"color":   string(models.ParseLabelColor(string(c.Color))),
	}
}

// nullable sends "" as JSON null.
func nullable(s string) any {
	if s == "" {
		return nil
	}
	return s
}
