package repository

import (
	"fmt"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/backpackerjohn/braindump/internal/config"
	"github.com/backpackerjohn/braindump/internal/models"
)

// NewDatabase creates a new database connection
func NewDatabase(cfg *config.Config) (*gorm.DB, error) {
	dsn := fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%d sslmode=%s",
		cfg.Database.Host,
		cfg.Database.User,
		cfg.Database.Password,
		cfg.Database.Name,
		cfg.Database.Port,
		cfg.Database.SSLMode,
	)

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	if err := Migrate(db); err != nil {
		return nil, fmt.Errorf("failed to auto migrate: %w", err)
	}

	return db, nil
}

// Migrate registers the join table models and runs auto migration. The join
// tables are registered explicitly so their composite primary keys exist,
// which is what keeps link inserts idempotent.
func Migrate(db *gorm.DB) error {
	if err := db.SetupJoinTable(&models.Thought{}, "Categories", &models.ThoughtCategory{}); err != nil {
		return err
	}
	if err := db.SetupJoinTable(&models.Thought{}, "Clusters", &models.ThoughtCluster{}); err != nil {
		return err
	}
	if err := db.SetupJoinTable(&models.Cluster{}, "Thoughts", &models.ThoughtCluster{}); err != nil {
		return err
	}
	return db.AutoMigrate(
		&models.Category{},
		&models.Thought{},
		&models.Cluster{},
		&models.ThoughtCategory{},
		&models.ThoughtCluster{},
	)
}
