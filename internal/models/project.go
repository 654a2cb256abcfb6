package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Project statuses.
const (
	ProjectStatusOpen      = "open"
	ProjectStatusActive    = "active"
	ProjectStatusCompleted = "completed"
	ProjectStatusArchived  = "archived"
)

// Project is a marketplace listing students can create and join.
type Project struct {
	ID                    string            `gorm:"type:uuid;primaryKey" json:"id"`
	TenantID              string            `gorm:"type:uuid;index;not null" json:"tenant_id"`
	CreatorID             string            `gorm:"type:uuid;index;not null" json:"creator_id"`
	Title                 string            `gorm:"size:255;not null" json:"title"`
	Description           string            `gorm:"type:text" json:"description"`
	ProjectType           string            `gorm:"size:64" json:"project_type"`
	Status                string            `gorm:"size:32;default:open;index" json:"status"`
	SubjectAreas          datatypes.JSON    `gorm:"type:json" json:"subject_areas"`
	DifficultyLevel       int               `gorm:"default:1" json:"difficulty_level"`
	EstimatedDurationDays int               `json:"estimated_duration_days"`
	MaxTeamSize           int               `gorm:"default:4" json:"max_team_size"`
	SkillsRequired        datatypes.JSON    `gorm:"type:json" json:"skills_required"`
	SkillsGained          datatypes.JSON    `gorm:"type:json" json:"skills_gained"`
	Resources             datatypes.JSONMap `gorm:"type:json" json:"resources"`
	AssetURL              string            `gorm:"size:512" json:"asset_url"`
	DueDate               *time.Time        `json:"due_date"`
	CreatedAt             time.Time         `json:"created_at"`
	UpdatedAt             time.Time         `json:"updated_at"`
	Members               []ProjectMember   `json:"members"`
}

// BeforeCreate assigns a UUID primary key when one is not supplied.
func (p *Project) BeforeCreate(_ *gorm.DB) error {
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	return nil
}

// ProjectMember links a user to a project team.
type ProjectMember struct {
	ID        string    `gorm:"type:uuid;primaryKey" json:"id"`
	ProjectID string    `gorm:"type:uuid;uniqueIndex:idx_project_member;not null" json:"project_id"`
	UserID    string    `gorm:"type:uuid;uniqueIndex:idx_project_member;not null" json:"user_id"`
	TenantID  string    `gorm:"type:uuid;index;not null" json:"tenant_id"`
	Role      string    `gorm:"size:32;default:member" json:"role"`
	Status    string    `gorm:"size:32;default:active" json:"status"`
	JoinedAt  time.Time `json:"joined_at"`
}

// BeforeCreate assigns a UUID primary key and stamps the join time.
func (m *ProjectMember) BeforeCreate(_ *gorm.DB) error {
	if m.ID == "" {
		m.ID = uuid.NewString()
	}
	if m.JoinedAt.IsZero() {
		m.JoinedAt = time.Now().UTC()
	}
	return nil
}
