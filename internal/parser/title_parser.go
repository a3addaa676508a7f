package parser

import (
	"regexp"
	"strings"
	"time"

	"github.com/opus-software/opus/internal/models"
)

// ParsedTask represents a task parsed from natural language
type ParsedTask struct {
	Title    string
	Labels   []string // label names
	Assignee string
	Priority models.TaskPriority
	Status   models.TaskStatus
	DueDate  *time.Time
	Errors   []string
}

var (
	labelRegex    = regexp.MustCompile(`#([\p{L}0-9_,-]+)`)
	assigneeRegex = regexp.MustCompile(`@([\w.+-]+(?:@[\w.-]+)?)`)
	priorityRegex = regexp.MustCompile(`\+([a-zA-Z0-9]+)`)
	statusRegex   = regexp.MustCompile(`!([a-zA-Z-]+)`)
	dueRegex      = regexp.MustCompile(`due:(\S+)`)
)

// ParseTitle extracts metadata from a task title using natural syntax
// Syntax: "Task title #label1,label2 @assignee +priority !status due:3days"
func ParseTitle(input string, now time.Time) ParsedTask {
	result := ParsedTask{
		Labels: []string{},
		Errors: []string{},
	}

	// Labels (#bug,ui or #bug #ui)
	for _, match := range labelRegex.FindAllStringSubmatch(input, -1) {
		for _, name := range strings.Split(match[1], ",") {
			name = strings.TrimSpace(name)
			if name != "" {
				result.Labels = append(result.Labels, name)
			}
		}
	}
	input = labelRegex.ReplaceAllString(input, "")

	// Due date before the assignee so emails inside due: are never matched
	if m := dueRegex.FindStringSubmatch(input); len(m) > 1 {
		dueDate, err := ParseDueDate(m[1], now)
		if err != nil {
			result.Errors = append(result.Errors, "Invalid due date '"+m[1]+"': "+err.Error())
		} else {
			result.DueDate = dueDate
		}
		input = dueRegex.ReplaceAllString(input, "")
	}

	if m := assigneeRegex.FindStringSubmatch(input); len(m) > 1 {
		result.Assignee = m[1]
		input = assigneeRegex.ReplaceAllString(input, "")
	}

	// Priority (+high, +4, +urgent)
	if m := priorityRegex.FindStringSubmatch(input); len(m) > 1 {
		if p, ok := ParsePriority(m[1]); ok {
			result.Priority = p
		} else {
			result.Errors = append(result.Errors, "Invalid priority '"+m[1]+"'. Use: low, medium, high, urgent, or 1-4")
		}
		input = priorityRegex.ReplaceAllString(input, "")
	}

	// Status (!todo, !doing, !done)
	if m := statusRegex.FindStringSubmatch(input); len(m) > 1 {
		if s, ok := ParseStatus(m[1]); ok {
			result.Status = s
		} else {
			result.Errors = append(result.Errors, "Invalid status '"+m[1]+"'. Use: todo, doing, or done")
		}
		input = statusRegex.ReplaceAllString(input, "")
	}

	// Clean up the title (remove extra spaces)
	result.Title = strings.Join(strings.Fields(input), " ")

	return result
}

// ParsePriority accepts a priority name, a short form or its rank 1-4.
func ParsePriority(s string) (models.TaskPriority, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "1", "low":
		return models.PriorityLow, true
	case "2", "medium", "med":
		return models.PriorityMedium, true
	case "3", "high":
		return models.PriorityHigh, true
	case "4", "urgent":
		return models.PriorityUrgent, true
	}
	return "", false
}

// ParseStatus accepts the canonical task statuses plus "doing".
func ParseStatus(s string) (models.TaskStatus, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "todo":
		return models.TaskTodo, true
	case "doing", "in-progress", "progress", "wip":
		return models.TaskInProgress, true
	case "done":
		return models.TaskDone, true
	}
	return "", false
}

// PriorityRank orders priorities from 1 (low) to 4 (urgent); unknown is 0.
func PriorityRank(p models.TaskPriority) int {
	for i, known := range models.TaskPriorities {
		if known == p {
			return i + 1
		}
	}
	return 0
}
