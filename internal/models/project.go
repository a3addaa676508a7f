package models

import "time"

// ProjectStatus is the lifecycle state of a project
type ProjectStatus string

const (
	ProjectActive    ProjectStatus = "active"
	ProjectArchived  ProjectStatus = "archived"
	ProjectCompleted ProjectStatus = "completed"
	ProjectOnHold    ProjectStatus = "on-hold"
)

// Valid reports whether s is a known project status.
func (s ProjectStatus) Valid() bool {
	switch s {
	case ProjectActive, ProjectArchived, ProjectCompleted, ProjectOnHold:
		return true
	}
	return false
}

const (
	DefaultProjectColor = "#6366f1"
	DefaultProjectKey   = "KEY"
)

// Project belongs to a space and groups epics.
type Project struct {
	ID          string        `gorm:"primaryKey" json:"id"`
	SpaceID     string        `gorm:"index" json:"spaceId"`
	CompanyID   string        `json:"companyId"`
	Name        string        `json:"name"`
	ProjectKey  string        `json:"projectKey"` // uppercased, at most 10 chars
	Description string        `json:"description,omitempty"`
	Status      ProjectStatus `json:"status"`
	Color       string        `json:"color,omitempty"`
	AssigneeID  string        `json:"assigneeId,omitempty"`
	CreatedAt   time.Time     `gorm:"autoCreateTime:false" json:"createdAt"`
}

func (p Project) EntityID() string { return p.ID }

// CreateProject holds the data needed to create a project. CompanyID is
// filled in by the workspace.
type CreateProject struct {
	SpaceID     string
	Name        string
	ProjectKey  string
	Description string
	Status      ProjectStatus
	Color       string
	AssigneeID  string
}

// ProjectPatch is a partial project update
type ProjectPatch struct {
	Name        *string
	ProjectKey  *string
	Description *string
	Status      *ProjectStatus
	Color       *string
	AssigneeID  *string
	SpaceID     *string
}
