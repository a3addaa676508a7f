package models

import (
	"math"
	"time"
)

// EpicStatus is the state of an epic
type EpicStatus string

const (
	EpicTodo       EpicStatus = "todo"
	EpicInProgress EpicStatus = "in-progress"
	EpicCompleted  EpicStatus = "completed"
)

// Valid reports whether s is a known epic status.
func (s EpicStatus) Valid() bool {
	switch s {
	case EpicTodo, EpicInProgress, EpicCompleted:
		return true
	}
	return false
}

// Epic groups tasks within a project and tracks aggregate progress.
type Epic struct {
	ID         string     `gorm:"primaryKey" json:"id"`
	ProjectID  string     `gorm:"index" json:"projectId"`
	Title      string     `json:"title"`
	Summary    string     `json:"summary,omitempty"`
	Status     EpicStatus `json:"status"`
	Progress   int        `json:"progress"` // 0-100
	AssigneeID string     `json:"assigneeId,omitempty"`
	CreatedAt  time.Time  `gorm:"autoCreateTime:false" json:"createdAt"`
}

func (e Epic) EntityID() string { return e.ID }

// CreateEpic holds the data needed to create an epic
type CreateEpic struct {
	ProjectID string
	Title     string
	Summary   string
}

// EpicPatch is a partial epic update. ProjectID, when set, is also used to
// build the request path.
type EpicPatch struct {
	ProjectID  *string
	Title      *string
	Summary    *string
	Status     *EpicStatus
	Progress   *int
	AssigneeID *string
}

// Progress summarises the completion of a set of tasks
type Progress struct {
	Total   int
	Done    int
	Percent int
	Status  EpicStatus
}

// EpicProgress derives progress from the tasks of one epic.
func EpicProgress(tasks []Task) Progress {
	if len(tasks) == 0 {
		return Progress{Status: EpicTodo}
	}

	done := 0
	for _, t := range tasks {
		if t.Status == TaskDone {
			done++
		}
	}

	p := Progress{
		Total:   len(tasks),
		Done:    done,
		Percent: int(math.Round(float64(done) / float64(len(tasks)) * 100)),
		Status:  EpicInProgress,
	}
	switch p.Percent {
	case 0:
		p.Status = EpicTodo
	case 100:
		p.Status = EpicCompleted
	}
	return p
}
