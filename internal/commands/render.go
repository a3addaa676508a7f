package commands

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/opus-software/opus/internal/models"
	"github.com/opus-software/opus/internal/store"
)

func printJSON(out io.Writer, v any) error {
	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// cut shortens s to n runes for fixed-width columns.
func cut(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	if n <= 3 {
		return string(r[:n])
	}
	return string(r[:n-3]) + "..."
}

func rule(out io.Writer) {
	fmt.Fprintln(out, strings.Repeat("-", 80))
}

func statusIcon(s models.TaskStatus) string {
	switch s {
	case models.TaskDone:
		return "✓ done"
	case models.TaskInProgress:
		return "◐ doing"
	default:
		return "○ todo"
	}
}

func userName(s store.State, id string) string {
	if id == "" {
		return "-"
	}
	if u, ok := store.UserByID(s, id); ok && u.FullName != "" {
		return u.FullName
	}
	return id
}

func labelNames(s store.State, t models.Task) string {
	labels := store.TaskLabels(s, t)
	names := make([]string, len(labels))
	for i, l := range labels {
		names[i] = l.Name
	}
	return strings.Join(names, ",")
}

func printTasks(out io.Writer, s store.State, tasks []models.Task) {
	fmt.Fprintf(out, "%-12s %-8s %-34s %-8s %-14s %s\n", "ID", "STATUS", "TITLE", "PRIORITY", "ASSIGNEE", "LABELS")
	rule(out)
	for _, t := range tasks {
		fmt.Fprintf(out, "%-12s %-8s %-34s %-8s %-14s %s\n",
			cut(t.ID, 12),
			statusIcon(t.Status),
			cut(t.Title, 34),
			t.Priority,
			cut(userName(s, t.Assignee()), 14),
			cut(labelNames(s, t), 16))
	}
}

func printTaskDetail(out io.Writer, s store.State, t models.Task, due string) {
	fmt.Fprintf(out, "📋 %s\n\n", t.Title)
	fmt.Fprintf(out, "ID:       %s\n", t.ID)
	fmt.Fprintf(out, "Status:   %s\n", t.Status)
	fmt.Fprintf(out, "Priority: %s\n", t.Priority)
	if e, ok := store.EpicByID(s, t.EpicID); ok {
		fmt.Fprintf(out, "Epic:     %s (%s)\n", e.Title, e.ID)
	} else {
		fmt.Fprintf(out, "Epic:     %s\n", t.EpicID)
	}
	fmt.Fprintf(out, "Assignee: %s\n", userName(s, t.Assignee()))
	if names := labelNames(s, t); names != "" {
		fmt.Fprintf(out, "Labels:   %s\n", names)
	}
	if due != "" {
		fmt.Fprintf(out, "Due:      %s\n", due)
	}
	if t.Description != "" {
		fmt.Fprintf(out, "\n%s\n", t.Description)
	}
}
