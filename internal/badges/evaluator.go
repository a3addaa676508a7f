// Package badges decides which achievements a user has earned from the
// tasks they completed.
package badges

import (
	"time"

	"github.com/opus-software/opus/internal/models"
)

const (
	firstTaskThreshold     = 1
	taskMasterThreshold    = 10
	epicConquerorThreshold = 20
)

// Evaluate returns the badges userID qualifies for given tasks and does not
// already hold in existing. Only the new rows are returned, stamped with
// now. Calling it again with the returned rows added to existing yields
// nothing.
func Evaluate(userID string, tasks []models.Task, existing []models.UserBadge, now time.Time) []models.UserBadge {
	if userID == "" {
		return nil
	}

	held := map[string]bool{}
	for _, ub := range existing {
		if ub.UserID == userID {
			held[ub.BadgeID] = true
		}
	}

	done := 0
	perEpic := map[string]int{}
	bestEpic := 0
	for _, t := range tasks {
		if t.Status != models.TaskDone || t.Assignee() != userID {
			continue
		}
		done++
		perEpic[t.EpicID]++
		if perEpic[t.EpicID] > bestEpic {
			bestEpic = perEpic[t.EpicID]
		}
	}

	var earned []models.UserBadge
	award := func(badgeID string, ok bool) {
		if ok && !held[badgeID] {
			earned = append(earned, models.UserBadge{UserID: userID, BadgeID: badgeID, EarnedAt: now})
		}
	}
	award(models.BadgeFirstTask, done >= firstTaskThreshold)
	award(models.BadgeTaskMaster, done >= taskMasterThreshold)
	award(models.BadgeEpicConqueror, bestEpic >= epicConquerorThreshold)
	return earned
}

// EarnedBadge is a catalog badge with the time a user earned it.
type EarnedBadge struct {
	models.Badge
	EarnedAt time.Time `json:"earnedAt"`
}

// Earned lists the badges userID holds, in catalog order.
func Earned(userID string, userBadges []models.UserBadge) []EarnedBadge {
	at := map[string]time.Time{}
	for _, ub := range userBadges {
		if ub.UserID == userID {
			if _, seen := at[ub.BadgeID]; !seen {
				at[ub.BadgeID] = ub.EarnedAt
			}
		}
	}

	var out []EarnedBadge
	for _, b := range models.BadgeCatalog() {
		if when, ok := at[b.ID]; ok {
			out = append(out, EarnedBadge{Badge: b, EarnedAt: when})
		}
	}
	return out
}
