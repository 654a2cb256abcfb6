package repository

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/pathlight-labs/pathlight-api/internal/models"
)

// LessonRepository defines persistence operations for daily lesson plans.
type LessonRepository interface {
	ListForDate(ctx context.Context, studentID string, date time.Time) ([]models.LessonPlan, error)
	GetByID(ctx context.Context, id string) (models.LessonPlan, error)
	Create(ctx context.Context, lesson *models.LessonPlan) error
	UpdateCompletion(ctx context.Context, lesson *models.LessonPlan) error
}

type lessonRepository struct {
	db *gorm.DB
}

// NewLessonRepository instantiates a GORM-backed repository.
func NewLessonRepository(db *gorm.DB) LessonRepository {
	return &lessonRepository{db: db}
}

func (r *lessonRepository) baseQuery(ctx context.Context) *gorm.DB {
	return r.db.WithContext(ctx).Model(&models.LessonPlan{}).
		Preload("SkillsTopic").
		Preload("SkillsTopic.MasteryGroup").
		Preload("SkillsTopic.MasteryGroup.Subject")
}

func (r *lessonRepository) ListForDate(ctx context.Context, studentID string, date time.Time) ([]models.LessonPlan, error) {
	var lessons []models.LessonPlan
	if err := r.baseQuery(ctx).
		Where("student_id = ?", studentID).
		Where("scheduled_date = ?", date).
		Order("scheduled_date ASC, id ASC").
		Find(&lessons).Error; err != nil {
		return nil, err
	}

	return lessons, nil
}

func (r *lessonRepository) GetByID(ctx context.Context, id string) (models.LessonPlan, error) {
	var lesson models.LessonPlan
	if err := r.baseQuery(ctx).Where("id = ?", id).First(&lesson).Error; err != nil {
		return models.LessonPlan{}, err
	}

	return lesson, nil
}

func (r *lessonRepository) Create(ctx context.Context, lesson *models.LessonPlan) error {
	return r.db.WithContext(ctx).Create(lesson).Error
}

func (r *lessonRepository) UpdateCompletion(ctx context.Context, lesson *models.LessonPlan) error {
	return r.db.WithContext(ctx).Model(&models.LessonPlan{}).
		Where("id = ?", lesson.ID).
		Updates(map[string]interface{}{
			"status":                lesson.Status,
			"completion_percentage": lesson.CompletionPercentage,
			"time_spent_minutes":    lesson.TimeSpentMinutes,
		}).Error
}
