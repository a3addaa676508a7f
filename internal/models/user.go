package models

import "time"

// UserRole is a company-wide role
type UserRole string

const (
	RoleAdmin  UserRole = "admin"
	RoleMember UserRole = "member"
	RoleViewer UserRole = "viewer"
)

// Valid reports whether r is a known role.
func (r UserRole) Valid() bool {
	return r == RoleAdmin || r == RoleMember || r == RoleViewer
}

// UserStatus is a user's presence
type UserStatus string

const (
	UserActive  UserStatus = "active"
	UserOffline UserStatus = "offline"
	UserAway    UserStatus = "away"
	UserBusy    UserStatus = "busy"
)

// Valid reports whether s is a known presence status.
func (s UserStatus) Valid() bool {
	switch s {
	case UserActive, UserOffline, UserAway, UserBusy:
		return true
	}
	return false
}

const (
	DefaultExpNextLevel = 100
	DefaultLevel        = 1
)

// User is a member of a company
type User struct {
	ID           string     `gorm:"primaryKey" json:"id"`
	CompanyID    string     `gorm:"index" json:"companyId"`
	Email        string     `json:"email"`
	FullName     string     `json:"fullName"`
	AvatarURL    string     `json:"avatarUrl,omitempty"`
	JobTitle     string     `json:"jobTitle"`
	GlobalRole   UserRole   `json:"globalRole"`
	Status       UserStatus `json:"status"`
	Experience   int        `json:"experience"`
	ExpNextLevel int        `json:"expNextLevel"`
	Level        int        `json:"level"`
	CreatedAt    time.Time  `gorm:"autoCreateTime:false" json:"createdAt"`
	LastLogin    time.Time  `json:"lastLogin"`
}

func (u User) EntityID() string { return u.ID }

// PlaceholderUser is the current user shown before any user is loaded.
func PlaceholderUser(now time.Time) User {
	return User{
		GlobalRole:   RoleMember,
		Status:       UserOffline,
		ExpNextLevel: DefaultExpNextLevel,
		Level:        DefaultLevel,
		CreatedAt:    now,
		LastLogin:    now,
	}
}

// CreateUser holds the data needed to create a user. CompanyID is filled in
// by the workspace.
type CreateUser struct {
	Email      string
	FullName   string
	AvatarURL  string
	JobTitle   string
	GlobalRole UserRole
	Status     UserStatus
}

// UserPatch is a partial user update
type UserPatch struct {
	Email      *string
	FullName   *string
	AvatarURL  *string
	JobTitle   *string
	GlobalRole *UserRole
	Status     *UserStatus
}
