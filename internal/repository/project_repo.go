package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/pathlight-labs/pathlight-api/internal/models"
)

// ProjectFilter narrows marketplace listings.
type ProjectFilter struct {
	Status      string
	ProjectType string
	CreatorID   string
}

// ProjectRepository persists marketplace projects and memberships.
type ProjectRepository interface {
	List(ctx context.Context, tenantID string, filter ProjectFilter) ([]models.Project, error)
	GetByID(ctx context.Context, id string) (models.Project, error)
	Create(ctx context.Context, project *models.Project) error
	Update(ctx context.Context, project *models.Project) error
	AddMember(ctx context.Context, member *models.ProjectMember) error
	ActiveMembers(ctx context.Context, projectID string) ([]models.ProjectMember, error)
	IsMember(ctx context.Context, projectID, userID string) (bool, error)
}

type projectRepository struct {
	db *gorm.DB
}

// NewProjectRepository instantiates the repository.
func NewProjectRepository(db *gorm.DB) ProjectRepository {
	return &projectRepository{db: db}
}

func (r *projectRepository) List(ctx context.Context, tenantID string, filter ProjectFilter) ([]models.Project, error) {
	query := r.db.WithContext(ctx).Model(&models.Project{}).
		Preload("Members").
		Where("tenant_id = ?", tenantID)

	if filter.Status != "" {
		query = query.Where("status = ?", filter.Status)
	}
	if filter.ProjectType != "" {
		query = query.Where("project_type = ?", filter.ProjectType)
	}
	if filter.CreatorID != "" {
		query = query.Where("creator_id = ?", filter.CreatorID)
	}

	var projects []models.Project
	if err := query.Order("created_at DESC").Find(&projects).Error; err != nil {
		return nil, err
	}

	return projects, nil
}

func (r *projectRepository) GetByID(ctx context.Context, id string) (models.Project, error) {
	var project models.Project
	if err := r.db.WithContext(ctx).Preload("Members").Where("id = ?", id).First(&project).Error; err != nil {
		return models.Project{}, err
	}

	return project, nil
}

func (r *projectRepository) Create(ctx context.Context, project *models.Project) error {
	return r.db.WithContext(ctx).Create(project).Error
}

func (r *projectRepository) Update(ctx context.Context, project *models.Project) error {
	return r.db.WithContext(ctx).Save(project).Error
}

func (r *projectRepository) AddMember(ctx context.Context, member *models.ProjectMember) error {
	return r.db.WithContext(ctx).Create(member).Error
}

func (r *projectRepository) ActiveMembers(ctx context.Context, projectID string) ([]models.ProjectMember, error) {
	var members []models.ProjectMember
	if err := r.db.WithContext(ctx).
		Where("project_id = ?", projectID).
		Where("status = ?", "active").
		Order("joined_at ASC").
		Find(&members).Error; err != nil {
		return nil, err
	}

	return members, nil
}

func (r *projectRepository) IsMember(ctx context.Context, projectID, userID string) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&models.ProjectMember{}).
		Where("project_id = ?", projectID).
		Where("user_id = ?", userID).
		Where("status = ?", "active").
		Count(&count).Error; err != nil {
		return false, err
	}

	return count > 0, nil
}
