package tui

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/opus-software/opus/internal/models"
)

// Color constants for the opus board theme
const (
	ColorCardBackground = "#1B1530" // Dark purple
	ColorBorder         = "#3A3F55" // Grey-blue

	ColorPrimaryText   = "#E6EAF2"
	ColorSecondaryText = "#B1B8C7"
	ColorDisabledText  = "#6D7383"
	ColorHelpText      = "240"

	ColorAccentMain   = "#7C3AED"
	ColorAccentBright = "#A78BFA"

	ColorError   = "#EF4444"
	ColorSuccess = "#22C55E"
	ColorWarning = "#F59E0B"
)

var labelHex = map[models.LabelColor]string{
	models.LabelRed:    "#EF4444",
	models.LabelBlue:   "#3B82F6",
	models.LabelGreen:  "#22C55E",
	models.LabelYellow: "#EAB308",
	models.LabelOrange: "#F97316",
	models.LabelPurple: "#A855F7",
	models.LabelPink:   "#EC4899",
	models.LabelGray:   "#6B7280",
}

// LabelColor maps a label colour to its terminal colour.
func LabelColor(c models.LabelColor) lipgloss.Color {
	if hex, ok := labelHex[c]; ok {
		return lipgloss.Color(hex)
	}
	return lipgloss.Color(labelHex[models.LabelGray])
}

// PriorityColor maps a task priority to its terminal colour.
func PriorityColor(p models.TaskPriority) lipgloss.Color {
	switch p {
	case models.PriorityUrgent:
		return lipgloss.Color(ColorError)
	case models.PriorityHigh:
		return lipgloss.Color(ColorWarning)
	case models.PriorityMedium:
		return lipgloss.Color(ColorAccentBright)
	default:
		return lipgloss.Color(ColorSecondaryText)
	}
}

// StatusColor maps a task status to its column header colour.
func StatusColor(s models.TaskStatus) lipgloss.Color {
	switch s {
	case models.TaskDone:
		return lipgloss.Color(ColorSuccess)
	case models.TaskInProgress:
		return lipgloss.Color(ColorWarning)
	default:
		return lipgloss.Color(ColorSecondaryText)
	}
}
