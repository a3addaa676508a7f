package parser

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/opus-software/opus/internal/models"
)

var now = time.Date(2025, 6, 10, 14, 30, 0, 0, time.UTC)

func TestParseTitle(t *testing.T) {
	p := ParseTitle("Fix login #bug,ui @ana +high !doing due:3days", now)

	assert.Equal(t, "Fix login", p.Title)
	assert.Equal(t, []string{"bug", "ui"}, p.Labels)
	assert.Equal(t, "ana", p.Assignee)
	assert.Equal(t, models.PriorityHigh, p.Priority)
	assert.Equal(t, models.TaskInProgress, p.Status)
	require.NotNil(t, p.DueDate)
	assert.Equal(t, time.Date(2025, 6, 13, 23, 59, 59, 0, time.UTC), *p.DueDate)
	assert.Empty(t, p.Errors)
}

func TestParseTitleCollectsErrors(t *testing.T) {
	p := ParseTitle("Ship #release +asap due:someday", now)

	assert.Equal(t, "Ship", p.Title)
	assert.Equal(t, []string{"release"}, p.Labels)
	assert.Empty(t, p.Priority)
	assert.Nil(t, p.DueDate)
	assert.Len(t, p.Errors, 2)
}

func TestParseTitleEmailAssignee(t *testing.T) {
	p := ParseTitle("Review @ana@opus.dev #docs", now)
	assert.Equal(t, "Review", p.Title)
	assert.Equal(t, "ana@opus.dev", p.Assignee)
}

func TestParseDueDate(t *testing.T) {
	tests := []struct {
		in   string
		want time.Time
	}{
		{"today", time.Date(2025, 6, 10, 23, 59, 59, 0, time.UTC)},
		{"tomorrow", time.Date(2025, 6, 11, 23, 59, 59, 0, time.UTC)},
		{"2 weeks", time.Date(2025, 6, 24, 23, 59, 59, 0, time.UTC)},
		{"1d", time.Date(2025, 6, 11, 23, 59, 59, 0, time.UTC)},
		{"24h", time.Date(2025, 6, 11, 14, 30, 0, 0, time.UTC)},
		{"15/12/2025", time.Date(2025, 12, 15, 23, 59, 59, 0, time.UTC)},
		{"2025-12-15", time.Date(2025, 12, 15, 23, 59, 59, 0, time.UTC)},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseDueDate(tt.in, now)
			require.NoError(t, err)
			require.NotNil(t, got)
			assert.Equal(t, tt.want, *got)
		})
	}

	for _, bad := range []string{"31/02/2025", "0 days", "400 days", "soon"} {
		_, err := ParseDueDate(bad, now)
		assert.Error(t, err, bad)
	}

	none, err := ParseDueDate("", now)
	assert.NoError(t, err)
	assert.Nil(t, none)
}

func TestFormatDueDate(t *testing.T) {
	past := now.AddDate(0, 0, -2)
	soon := now.AddDate(0, 0, 3)
	assert.Contains(t, FormatDueDate(&past, now), "OVERDUE")
	assert.Contains(t, FormatDueDate(&now, now), "Due today")
	assert.Equal(t, "📅 Due 13/06/2025 (in 3 days)", FormatDueDate(&soon, now))
	assert.Empty(t, FormatDueDate(nil, now))
}

func TestNormalizeProjectKey(t *testing.T) {
	key, err := NormalizeProjectKey(" core ")
	require.NoError(t, err)
	assert.Equal(t, "CORE", key)

	for _, bad := range []string{"", "A", "ELEVENCHARS", "AB-1", "ÁB"} {
		_, err := NormalizeProjectKey(bad)
		assert.Error(t, err, bad)
	}
	assert.True(t, IsValidProjectKey("ab12"))
}

func TestPriorityHelpers(t *testing.T) {
	p, ok := ParsePriority("4")
	assert.True(t, ok)
	assert.Equal(t, models.PriorityUrgent, p)
	assert.Equal(t, 4, PriorityRank(models.PriorityUrgent))
	assert.Equal(t, 0, PriorityRank("nope"))

	s, ok := ParseStatus("WIP")
	assert.True(t, ok)
	assert.Equal(t, models.TaskInProgress, s)
}
