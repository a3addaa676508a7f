package db

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/opus-software/opus/internal/models"
	"github.com/opus-software/opus/internal/store"
)

// ErrNoSnapshot means the company has never been synced on this machine.
var ErrNoSnapshot = errors.New("no cached snapshot")

const batchSize = 200

// Every cached row is keyed by (company, id) and keeps the position the
// entity had in its collection.

type snapshotRow struct {
	Company string `gorm:"primaryKey"`
	SavedAt time.Time
}

func (snapshotRow) TableName() string { return "snapshots" }

type spaceRow struct {
	Company      string `gorm:"primaryKey;column:cache_company"`
	Position     int
	models.Space `gorm:"embedded"`
}

func (spaceRow) TableName() string { return "cached_spaces" }

type projectRow struct {
	Company        string `gorm:"primaryKey;column:cache_company"`
	Position       int
	models.Project `gorm:"embedded"`
}

func (projectRow) TableName() string { return "cached_projects" }

type epicRow struct {
	Company     string `gorm:"primaryKey;column:cache_company"`
	Position    int
	models.Epic `gorm:"embedded"`
}

func (epicRow) TableName() string { return "cached_epics" }

type taskRow struct {
	Company     string `gorm:"primaryKey;column:cache_company"`
	Position    int
	models.Task `gorm:"embedded"`
}

func (taskRow) TableName() string { return "cached_tasks" }

type labelRow struct {
	Company      string `gorm:"primaryKey;column:cache_company"`
	Position     int
	models.Label `gorm:"embedded"`
}

func (labelRow) TableName() string { return "cached_labels" }

type userRow struct {
	Company     string `gorm:"primaryKey;column:cache_company"`
	Position    int
	models.User `gorm:"embedded"`
}

func (userRow) TableName() string { return "cached_users" }

type badgeRow struct {
	Company          string `gorm:"primaryKey;column:cache_company"`
	models.UserBadge `gorm:"embedded"`
}

func (badgeRow) TableName() string { return "cached_badges" }

// SaveSnapshot replaces everything cached for the state's company in one
// transaction.
func (c *Cache) SaveSnapshot(ctx context.Context, s store.State) error {
	company := s.CompanyID
	err := c.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, model := range []any{&spaceRow{}, &projectRow{}, &epicRow{}, &taskRow{}, &labelRow{}, &userRow{}, &badgeRow{}} {
			if err := tx.Where("cache_company = ?", company).Delete(model).Error; err != nil {
				return err
			}
		}

		if err := insert(tx, rows(company, s.Spaces, func(co string, i int, v models.Space) spaceRow {
			return spaceRow{Company: co, Position: i, Space: v}
		})); err != nil {
			return err
		}
		if err := insert(tx, rows(company, s.Projects, func(co string, i int, v models.Project) projectRow {
			return projectRow{Company: co, Position: i, Project: v}
		})); err != nil {
			return err
		}
		if err := insert(tx, rows(company, s.Epics, func(co string, i int, v models.Epic) epicRow {
			return epicRow{Company: co, Position: i, Epic: v}
		})); err != nil {
			return err
		}
		if err := insert(tx, rows(company, s.Tasks, func(co string, i int, v models.Task) taskRow {
			return taskRow{Company: co, Position: i, Task: v}
		})); err != nil {
			return err
		}
		if err := insert(tx, rows(company, s.Labels, func(co string, i int, v models.Label) labelRow {
			return labelRow{Company: co, Position: i, Label: v}
		})); err != nil {
			return err
		}
		if err := insert(tx, rows(company, s.Users, func(co string, i int, v models.User) userRow {
			return userRow{Company: co, Position: i, User: v}
		})); err != nil {
			return err
		}
		if err := insert(tx, rows(company, s.UserBadges, func(co string, _ int, v models.UserBadge) badgeRow {
			return badgeRow{Company: co, UserBadge: v}
		})); err != nil {
			return err
		}

		return tx.Save(&snapshotRow{Company: company, SavedAt: time.Now().UTC()}).Error
	})
	if err != nil {
		return fmt.Errorf("save snapshot for %s: %w", company, err)
	}

	c.log.Debug("snapshot saved",
		zap.String("company_id", company),
		zap.Int("tasks", len(s.Tasks)),
	)
	return nil
}

// LoadSnapshot rebuilds the last saved state of a company. The returned
// state is marked loaded.
func (c *Cache) LoadSnapshot(ctx context.Context, companyID string) (store.State, time.Time, error) {
	db := c.db.WithContext(ctx)

	var meta snapshotRow
	if err := db.Where("company = ?", companyID).Take(&meta).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return store.State{}, time.Time{}, ErrNoSnapshot
		}
		return store.State{}, time.Time{}, fmt.Errorf("load snapshot for %s: %w", companyID, err)
	}

	s := store.Empty(companyID)
	var err error
	if s.Spaces, err = load(db, companyID, func(r spaceRow) models.Space { return r.Space }); err != nil {
		return store.State{}, time.Time{}, err
	}
	if s.Projects, err = load(db, companyID, func(r projectRow) models.Project { return r.Project }); err != nil {
		return store.State{}, time.Time{}, err
	}
	if s.Epics, err = load(db, companyID, func(r epicRow) models.Epic { return r.Epic }); err != nil {
		return store.State{}, time.Time{}, err
	}
	if s.Tasks, err = load(db, companyID, func(r taskRow) models.Task { return r.Task }); err != nil {
		return store.State{}, time.Time{}, err
	}
	if s.Labels, err = load(db, companyID, func(r labelRow) models.Label { return r.Label }); err != nil {
		return store.State{}, time.Time{}, err
	}
	if s.Users, err = load(db, companyID, func(r userRow) models.User { return r.User }); err != nil {
		return store.State{}, time.Time{}, err
	}
	if s.UserBadges, err = c.LoadUserBadges(ctx, companyID); err != nil {
		return store.State{}, time.Time{}, err
	}
	s.IsLoaded = true
	return s, meta.SavedAt, nil
}

// SaveUserBadges records earned badges without touching the rest of the
// snapshot. Rows already present are kept with their original date.
func (c *Cache) SaveUserBadges(ctx context.Context, companyID string, badges []models.UserBadge) error {
	if len(badges) == 0 {
		return nil
	}
	batch := make([]badgeRow, len(badges))
	for i, b := range badges {
		batch[i] = badgeRow{Company: companyID, UserBadge: b}
	}
	err := c.db.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		CreateInBatches(batch, batchSize).Error
	if err != nil {
		return fmt.Errorf("save badges for %s: %w", companyID, err)
	}
	return nil
}

// LoadUserBadges returns the badges cached for a company, oldest first.
func (c *Cache) LoadUserBadges(ctx context.Context, companyID string) ([]models.UserBadge, error) {
	var found []badgeRow
	err := c.db.WithContext(ctx).
		Where("cache_company = ?", companyID).
		Order("earned_at, user_id, badge_id").
		Find(&found).Error
	if err != nil {
		return nil, fmt.Errorf("load badges for %s: %w", companyID, err)
	}
	out := make([]models.UserBadge, len(found))
	for i, r := range found {
		out[i] = r.UserBadge
	}
	return out, nil
}

func rows[T, R any](company string, items []T, wrap func(string, int, T) R) []R {
	out := make([]R, len(items))
	for i, it := range items {
		out[i] = wrap(company, i, it)
	}
	return out
}

func insert[R any](tx *gorm.DB, batch []R) error {
	if len(batch) == 0 {
		return nil
	}
	return tx.CreateInBatches(batch, batchSize).Error
}

func load[R, T any](db *gorm.DB, company string, unwrap func(R) T) ([]T, error) {
	var found []R
	if err := db.Where("cache_company = ?", company).Order("position").Find(&found).Error; err != nil {
		return nil, err
	}
	out := make([]T, len(found))
	for i, r := range found {
		out[i] = unwrap(r)
	}
	return out, nil
}
