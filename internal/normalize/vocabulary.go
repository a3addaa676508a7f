package normalize

import (
	"strings"

	"github.com/opus-software/opus/internal/models"
)

// Remote task status spelling
const (
	wireStatusTodo  = "todo"
	wireStatusDoing = "doing"
	wireStatusDone  = "done"
)

// StatusToCanonical maps a remote task status to its canonical form.
// Unknown values become todo.
func StatusToCanonical(s string) models.TaskStatus {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case wireStatusDoing, string(models.TaskInProgress), "in_progress", "inprogress":
		return models.TaskInProgress
	case wireStatusDone:
		return models.TaskDone
	default:
		return models.TaskTodo
	}
}

// StatusToWire maps a canonical task status to the remote vocabulary.
func StatusToWire(s models.TaskStatus) string {
	switch s {
	case models.TaskInProgress:
		return wireStatusDoing
	case models.TaskDone:
		return wireStatusDone
	default:
		return wireStatusTodo
	}
}

// PriorityToCanonical lowercases a remote priority. Unknown values become
// medium.
func PriorityToCanonical(p string) models.TaskPriority {
	c := models.TaskPriority(strings.ToLower(strings.TrimSpace(p)))
	if c.Valid() {
		return c
	}
	return models.PriorityMedium
}

// PriorityToWire title-cases a canonical priority. Unknown values become
// Medium.
func PriorityToWire(p models.TaskPriority) string {
	c := PriorityToCanonical(string(p))
	return strings.ToUpper(string(c[:1])) + string(c[1:])
}

func epicStatus(s string) (models.EpicStatus, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case string(models.EpicTodo):
		return models.EpicTodo, true
	case string(models.EpicInProgress), wireStatusDoing:
		return models.EpicInProgress, true
	case string(models.EpicCompleted), wireStatusDone:
		return models.EpicCompleted, true
	}
	return "", false
}
