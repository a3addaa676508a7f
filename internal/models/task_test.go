package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTaskClone(t *testing.T) {
	assignee := "u1"
	due := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	orig := Task{
		ID:            "t1",
		AssigneeID:    &assignee,
		DueDate:       &due,
		Labels:        []string{"l1"},
		LabelEntities: []Label{{ID: "l1", Name: "bug"}},
	}

	c := orig.Clone()
	assert.Equal(t, orig, c)

	*c.AssigneeID = "u2"
	c.Labels[0] = "l2"
	c.LabelEntities[0].Name = "ui"
	assert.Equal(t, "u1", *orig.AssigneeID)
	assert.Equal(t, "l1", orig.Labels[0])
	assert.Equal(t, "bug", orig.LabelEntities[0].Name)
}

func TestTaskCloneKeepsEmptyLabels(t *testing.T) {
	c := Task{ID: "t1", Labels: []string{}}.Clone()
	require.NotNil(t, c.Labels)
	assert.Empty(t, c.Labels)

	assert.Nil(t, Task{ID: "t2"}.Clone().Labels)
}
