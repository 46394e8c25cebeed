package db

import (
	"fmt"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"

	"github.com/agripulse/marketplace/internal/models"
)

// Open connects to the embedded SQLite store at path and ensures the two
// tables exist. AutoMigrate is the only migration step: create-if-not-exists
// at startup.
func Open(path string) (*gorm.DB, error) {
	if path == "" {
		return nil, fmt.Errorf("db path is empty")
	}

	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{})
	if err != nil {
		return nil, fmt.Errorf("connect to db: %w", err)
	}

	if err := db.AutoMigrate(&models.User{}, &models.Product{}); err != nil {
		return nil, fmt.Errorf("migrate tables: %w", err)
	}

	return db, nil
}
