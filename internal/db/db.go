package db

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/glebarez/sqlite"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/opus-software/opus/internal/logging"
)

// Cache is the local sqlite copy of the last loaded state per company. It
// lets read-only commands work offline.
type Cache struct {
	db  *gorm.DB
	log *zap.Logger
}

// Open sets up the database connection and runs migrations
func Open(path string, log *zap.Logger) (*Cache, error) {
	if log == nil {
		log = zap.NewNop()
	}

	// Ensure the directory exists
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf("failed to create cache directory: %w", err)
	}

	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{
		Logger: logging.NewGormLogger(log),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	c := &Cache{db: db, log: log}
	if err := c.migrate(); err != nil {
		_ = c.Close()
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}
	return c, nil
}

// migrate creates/updates the database schema
func (c *Cache) migrate() error {
	return c.db.AutoMigrate(
		&snapshotRow{},
		&spaceRow{},
		&projectRow{},
		&epicRow{},
		&taskRow{},
		&labelRow{},
		&userRow{},
		&badgeRow{},
	)
}

// Close closes the database connection
func (c *Cache) Close() error {
	if c == nil || c.db == nil {
		return nil
	}
	sqlDB, err := c.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
