package repository

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/pathlight-labs/pathlight-api/internal/models"
)

// SubjectRepository reads the tenant's curriculum subjects.
type SubjectRepository interface {
	ListActive(ctx context.Context, tenantID string) ([]models.Subject, error)
	UpsertBatch(ctx context.Context, subjects []models.Subject) error
	UpsertTopics(ctx context.Context, groups []models.MasteryGroup, topics []models.SkillsTopic) error
}

type subjectRepository struct {
	db *gorm.DB
}

// NewSubjectRepository instantiates the repository.
func NewSubjectRepository(db *gorm.DB) SubjectRepository {
	return &subjectRepository{db: db}
}

func (r *subjectRepository) ListActive(ctx context.Context, tenantID string) ([]models.Subject, error) {
	var subjects []models.Subject
	if err := r.db.WithContext(ctx).
		Where("tenant_id = ?", tenantID).
		Where("is_active = ?", true).
		Order("name ASC").
		Find(&subjects).Error; err != nil {
		return nil, err
	}

	return subjects, nil
}

func (r *subjectRepository) UpsertBatch(ctx context.Context, subjects []models.Subject) error {
	if len(subjects) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "id"}},
		UpdateAll: true,
	}).Create(&subjects).Error
}

func (r *subjectRepository) UpsertTopics(ctx context.Context, groups []models.MasteryGroup, topics []models.SkillsTopic) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if len(groups) > 0 {
			if err := tx.Clauses(clause.OnConflict{
				Columns:   []clause.Column{{Name: "id"}},
				UpdateAll: true,
			}).Create(&groups).Error; err != nil {
				return err
			}
		}
		if len(topics) > 0 {
			if err := tx.Clauses(clause.OnConflict{
				Columns:   []clause.Column{{Name: "id"}},
				UpdateAll: true,
			}).Create(&topics).Error; err != nil {
				return err
			}
		}
		return nil
	})
}
