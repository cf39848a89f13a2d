package database

import (
	"fmt"

	"gorm.io/gorm"

	"github.com/pageza/cookbook/backend/internal/model"
)

// RunMigrations brings the schema up to date. The schema is a single
// append-only table, so GORM auto-migration is sufficient on every dialect.
func RunMigrations(db *gorm.DB) error {
	if err := db.AutoMigrate(&model.Recipe{}); err != nil {
		return fmt.Errorf("failed to migrate schema: %w", err)
	}
	return nil
}
