package models

import "time"

// Badge ids
const (
	BadgeFirstTask     = "first-task"
	BadgeTaskMaster    = "task-master"
	BadgeEpicConqueror = "epic-conqueror"
)

// Badge is an achievement definition
type Badge struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Icon        string `json:"icon"`
	Description string `json:"description"`
}

// BadgeCatalog returns every achievement that can be earned.
func BadgeCatalog() []Badge {
	return []Badge{
		{ID: BadgeFirstTask, Name: "Primeira de Muitas", Icon: "🎯", Description: "Concluiu sua primeira tarefa no Opus."},
		{ID: BadgeTaskMaster, Name: "Mestre das Tarefas", Icon: "🏆", Description: "Concluiu um total de 10 tarefas."},
		{ID: BadgeEpicConqueror, Name: "Conquistador de Épicos", Icon: "⚔️", Description: "Completou 20 tarefas dentro do mesmo épico."},
	}
}

// FindBadge returns the catalog entry for id.
func FindBadge(id string) (Badge, bool) {
	for _, b := range BadgeCatalog() {
		if b.ID == id {
			return b, true
		}
	}
	return Badge{}, false
}

// UserBadge records that a user earned a badge. One row per (user, badge).
type UserBadge struct {
	UserID   string    `gorm:"primaryKey" json:"userId"`
	BadgeID  string    `gorm:"primaryKey" json:"badgeId"`
	EarnedAt time.Time `json:"earnedAt"`
}
