package repository

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/pathlight-labs/pathlight-api/internal/models"
)

// ProgressRepository persists per-subject student progress rows.
type ProgressRepository interface {
	ListByStudent(ctx context.Context, studentID, tenantID string) ([]models.StudentProgress, error)
	GetByStudentSubject(ctx context.Context, studentID, subjectID string) (models.StudentProgress, error)
	Upsert(ctx context.Context, progress *models.StudentProgress) error
}

type progressRepository struct {
	db *gorm.DB
}

// NewProgressRepository instantiates the repository.
func NewProgressRepository(db *gorm.DB) ProgressRepository {
	return &progressRepository{db: db}
}

func (r *progressRepository) ListByStudent(ctx context.Context, studentID, tenantID string) ([]models.StudentProgress, error) {
	var rows []models.StudentProgress
	if err := r.db.WithContext(ctx).Model(&models.StudentProgress{}).
		Preload("Subject").
		Where("student_id = ?", studentID).
		Where("tenant_id = ?", tenantID).
		Order("last_activity_date DESC").
		Find(&rows).Error; err != nil {
		return nil, err
	}

	return rows, nil
}

func (r *progressRepository) GetByStudentSubject(ctx context.Context, studentID, subjectID string) (models.StudentProgress, error) {
	var progress models.StudentProgress
	if err := r.db.WithContext(ctx).
		Preload("Subject").
		Where("student_id = ?", studentID).
		Where("subject_id = ?", subjectID).
		First(&progress).Error; err != nil {
		return models.StudentProgress{}, err
	}

	return progress, nil
}

func (r *progressRepository) Upsert(ctx context.Context, progress *models.StudentProgress) error {
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "student_id"}, {Name: "subject_id"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"progress_percentage",
			"mastery_level",
			"streak_days",
			"total_time_spent_minutes",
			"lessons_completed",
			"last_activity_date",
			"updated_at",
		}),
	}).Create(progress).Error
}
