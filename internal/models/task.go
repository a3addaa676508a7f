package models

import (
	"slices"
	"time"
)

// TaskStatus is the canonical in-memory task status
type TaskStatus string

const (
	TaskTodo       TaskStatus = "todo"
	TaskInProgress TaskStatus = "in-progress"
	TaskDone       TaskStatus = "done"
)

// TaskStatuses lists the statuses in board order.
var TaskStatuses = []TaskStatus{TaskTodo, TaskInProgress, TaskDone}

// Valid reports whether s is a canonical task status.
func (s TaskStatus) Valid() bool {
	switch s {
	case TaskTodo, TaskInProgress, TaskDone:
		return true
	}
	return false
}

// TaskPriority is the canonical in-memory task priority
type TaskPriority string

const (
	PriorityLow    TaskPriority = "low"
	PriorityMedium TaskPriority = "medium"
	PriorityHigh   TaskPriority = "high"
	PriorityUrgent TaskPriority = "urgent"
)

// TaskPriorities lists the priorities from lowest to highest.
var TaskPriorities = []TaskPriority{PriorityLow, PriorityMedium, PriorityHigh, PriorityUrgent}

// Valid reports whether p is a canonical task priority.
func (p TaskPriority) Valid() bool {
	switch p {
	case PriorityLow, PriorityMedium, PriorityHigh, PriorityUrgent:
		return true
	}
	return false
}

// Task is the leaf of the work hierarchy
type Task struct {
	ID          string       `gorm:"primaryKey" json:"id"`
	EpicID      string       `gorm:"index" json:"epicId"`
	Title       string       `json:"title"`
	Description string       `json:"description,omitempty"`
	Status      TaskStatus   `json:"status"`
	Priority    TaskPriority `json:"priority"`
	AssigneeID  *string      `json:"assigneeId"`
	DueDate     *time.Time   `json:"dueDate,omitempty"`
	CreatedAt   time.Time    `gorm:"autoCreateTime:false" json:"createdAt"`

	// Label ids; LabelEntities is only set when the remote hydrated them.
	Labels        []string `gorm:"serializer:json" json:"labels"`
	LabelEntities []Label  `gorm:"-" json:"labelEntities,omitempty"`
}

func (t Task) EntityID() string { return t.ID }

// Assignee returns the assignee id or "" when unassigned.
func (t Task) Assignee() string {
	if t.AssigneeID == nil {
		return ""
	}
	return *t.AssigneeID
}

// Clone returns a copy that shares no slices or pointers with t.
func (t Task) Clone() Task {
	c := t
	if t.AssigneeID != nil {
		a := *t.AssigneeID
		c.AssigneeID = &a
	}
	if t.DueDate != nil {
		d := *t.DueDate
		c.DueDate = &d
	}
	c.Labels = slices.Clone(t.Labels)
	c.LabelEntities = slices.Clone(t.LabelEntities)
	return c
}

// CreateTask holds the data needed to create a task
type CreateTask struct {
	EpicID      string
	Title       string
	Description string
	Status      TaskStatus
	Priority    TaskPriority
	AssigneeID  string
	Labels      []string
	DueDate     *time.Time
}

// TaskPatch is a partial task update. A non-nil AssigneeID pointing at ""
// clears the assignee.
type TaskPatch struct {
	EpicID      *string
	Title       *string
	Description *string
	Status      *TaskStatus
	Priority    *TaskPriority
	AssigneeID  *string
	Labels      *[]string
	DueDate     *time.Time
}

// Apply returns t with the patch fields applied.
func (p TaskPatch) Apply(t Task) Task {
	t = t.Clone()
	if p.EpicID != nil {
		t.EpicID = *p.EpicID
	}
	if p.Title != nil {
		t.Title = *p.Title
	}
	if p.Description != nil {
		t.Description = *p.Description
	}
	if p.Status != nil {
		t.Status = *p.Status
	}
	if p.Priority != nil {
		t.Priority = *p.Priority
	}
	if p.AssigneeID != nil {
		if *p.AssigneeID == "" {
			t.AssigneeID = nil
		} else {
			a := *p.AssigneeID
			t.AssigneeID = &a
		}
	}
	if p.Labels != nil {
		t.Labels = append([]string{}, (*p.Labels)...)
		t.LabelEntities = nil
	}
	if p.DueDate != nil {
		d := *p.DueDate
		t.DueDate = &d
	}
	return t
}

// IsEmpty reports whether the patch changes nothing.
func (p TaskPatch) IsEmpty() bool {
	return p.EpicID == nil && p.Title == nil && p.Description == nil && p.Status == nil &&
		p.Priority == nil && p.AssigneeID == nil && p.Labels == nil && p.DueDate == nil
}
