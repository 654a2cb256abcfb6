package database

import (
	"fmt"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/pathlight-labs/pathlight-api/internal/models"
)

// ConnectPostgres establishes a connection to the PostgreSQL database using the provided DSN.
func ConnectPostgres(dsn string) (*gorm.DB, error) {
	if dsn == "" {
		return nil, fmt.Errorf("postgres dsn must not be empty")
	}

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to postgres: %w", err)
	}

	return db, nil
}

// Migrate runs the schema migrations for all persisted models.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&models.Subject{},
		&models.MasteryGroup{},
		&models.SkillsTopic{},
		&models.LessonPlan{},
		&models.Streak{},
		&models.StudentProgress{},
		&models.Achievement{},
		&models.UserAchievement{},
		&models.PointsTransaction{},
		&models.Project{},
		&models.ProjectMember{},
		&models.DiscussionMessage{},
	)
}
