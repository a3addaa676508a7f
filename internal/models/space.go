package models

import "time"

// Identifiable is implemented by every entity held in a collection.
type Identifiable interface {
	EntityID() string
}

// Space is the top-level workspace grouping projects for a company.
type Space struct {
	ID          string    `gorm:"primaryKey" json:"id"`
	CompanyID   string    `gorm:"index" json:"companyId"`
	Name        string    `json:"name"`
	Description string    `json:"description,omitempty"`
	CreatedAt   time.Time `gorm:"autoCreateTime:false" json:"createdAt"`
}

func (s Space) EntityID() string { return s.ID }

// CreateSpace holds the data needed to create a space
type CreateSpace struct {
	CompanyID   string
	Name        string
	Description string
}

// SpacePatch is a partial space update. Nil fields are left untouched.
type SpacePatch struct {
	Name        *string
	Description *string
}
