package models

import (
	"strings"
	"time"
)

// LabelColor is the colour enumeration used by labels
type LabelColor string

const (
	LabelRed    LabelColor = "RED"
	LabelBlue   LabelColor = "BLUE"
	LabelGreen  LabelColor = "GREEN"
	LabelYellow LabelColor = "YELLOW"
	LabelOrange LabelColor = "ORANGE"
	LabelPurple LabelColor = "PURPLE"
	LabelPink   LabelColor = "PINK"
	LabelGray   LabelColor = "GRAY"
)

// LabelColors lists every label colour.
var LabelColors = []LabelColor{LabelRed, LabelBlue, LabelGreen, LabelYellow, LabelOrange, LabelPurple, LabelPink, LabelGray}

// ParseLabelColor maps any spelling of a colour name to a LabelColor.
// Unknown or empty names become GRAY.
func ParseLabelColor(s string) LabelColor {
	c := LabelColor(strings.ToUpper(strings.TrimSpace(s)))
	for _, known := range LabelColors {
		if c == known {
			return c
		}
	}
	return LabelGray
}

// Label is a space-scoped tag that can be attached to tasks.
type Label struct {
	ID        string     `gorm:"primaryKey" json:"id"`
	SpaceID   string     `gorm:"index" json:"spaceId"`
	Name      string     `json:"name"`
	Color     LabelColor `json:"color"`
	CreatedAt time.Time  `gorm:"autoCreateTime:false" json:"createdAt"`
}

func (l Label) EntityID() string { return l.ID }

// CreateLabel holds the data needed to create a label
type CreateLabel struct {
	SpaceID string
	Name    string
	Color   LabelColor
}
